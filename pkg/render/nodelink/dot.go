package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/pkgtopo/pkg/layered"
	"github.com/matzehuels/pkgtopo/pkg/registry"
)

const dimmedColor = "#e5e7eb"

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds kind and version lines to node labels.
	// When false, only the package name is shown.
	Detailed bool

	// Highlight lists the active packages; all others are greyed out.
	// Empty means everything is active.
	Highlight []string
}

// ToDOT converts a layout to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG] or [RenderPNG].
func ToDOT(l layered.Layout[registry.Package], opts Options) string {
	active := func(string) bool { return true }
	if len(opts.Highlight) > 0 {
		set := make(map[string]bool, len(opts.Highlight))
		for _, h := range opts.Highlight {
			set[h] = true
		}
		active = func(name string) bool { return set[name] }
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, penwidth=2, fontname=\"Helvetica\", fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [color=\"#3b82f6\", arrowsize=0.7];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")

	byName := make(map[string]layered.Positioned[registry.Package], len(l.Nodes))
	for _, n := range l.Nodes {
		byName[n.Name] = n
	}
	for layer, names := range l.Layers() {
		fmt.Fprintf(&buf, "\n  subgraph layer_%d {\n    rank=same;\n", layer)
		for _, name := range names {
			n := byName[name]
			fmt.Fprintf(&buf, "    %q [%s];\n", name, strings.Join(fmtAttrs(n, opts.Detailed, active(name)), ", "))
		}
		buf.WriteString("  }\n")
	}

	if len(l.Edges) > 0 {
		buf.WriteString("\n")
	}
	for _, e := range l.Edges {
		if active(e.From) && active(e.To) {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q [color=%q];\n", e.From, e.To, dimmedColor)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n layered.Positioned[registry.Package], detailed bool) string {
	if !detailed {
		return n.Name
	}
	label := n.Name + "\n" + n.Payload.Kind
	if n.Payload.Version != "" {
		label += " v" + n.Payload.Version
	}
	return label
}

func fmtAttrs(n layered.Positioned[registry.Package], detailed, active bool) []string {
	color := registry.KindColor(n.Payload.Kind)
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, detailed))}
	if active {
		attrs = append(attrs, fmt.Sprintf("color=%q", color))
	} else {
		attrs = append(attrs, fmt.Sprintf("color=%q", dimmedColor), "fontcolor=\"#9ca3af\"")
	}
	if n.Payload.Yanked {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based root element with a
// pixel-sized one whose viewBox starts at the origin.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
