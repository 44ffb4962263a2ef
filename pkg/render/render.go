package render

import (
	"context"
	"slices"
	"strings"

	"github.com/matzehuels/pkgtopo/pkg/errors"
	"github.com/matzehuels/pkgtopo/pkg/graph"
	"github.com/matzehuels/pkgtopo/pkg/layered"
	"github.com/matzehuels/pkgtopo/pkg/registry"
	"github.com/matzehuels/pkgtopo/pkg/render/nodelink"
	"github.com/matzehuels/pkgtopo/pkg/render/svg"
)

// Format is an output artifact type.
type Format string

const (
	FormatJSON Format = "json"
	FormatSVG  Format = "svg"
	FormatDOT  Format = "dot"
	FormatPNG  Format = "png"
)

// Formats lists every supported format.
var Formats = []Format{FormatJSON, FormatSVG, FormatDOT, FormatPNG}

// ParseFormat validates a single format name (case-insensitive).
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Formats, f) {
		return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", s, formatList())
	}
	return f, nil
}

// ParseFormats parses a comma-separated list, dropping duplicates.
// An empty string yields nil.
func ParseFormats(s string) ([]Format, error) {
	var out []Format
	for part := range strings.SplitSeq(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		f, err := ParseFormat(part)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out, nil
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatSVG:
		return "image/svg+xml"
	case FormatDOT:
		return "text/vnd.graphviz"
	case FormatPNG:
		return "image/png"
	}
	return "application/octet-stream"
}

// Ext returns the file extension of f, including the dot.
func (f Format) Ext() string { return "." + string(f) }

func formatList() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// Options are shared by all renderers.
type Options struct {
	// Highlight dims every package not in the list.
	Highlight []string
	// Detailed adds kind and version to Graphviz labels.
	Detailed bool
	// Title is the SVG document title.
	Title string
}

// Render produces the artifact for one format.
func Render(ctx context.Context, l layered.Layout[registry.Package], f Format, opts Options) ([]byte, error) {
	switch f {
	case FormatJSON:
		return graph.MarshalLayout(graph.FromLayered(l))
	case FormatSVG:
		return svg.Render(l, svg.WithHighlight(opts.Highlight...), svg.WithTitle(opts.Title)), nil
	case FormatDOT:
		return []byte(nodelink.ToDOT(l, nodelink.Options{Detailed: opts.Detailed, Highlight: opts.Highlight})), nil
	case FormatPNG:
		dot := nodelink.ToDOT(l, nodelink.Options{Detailed: opts.Detailed, Highlight: opts.Highlight})
		out, err := nodelink.RenderPNG(ctx, dot)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render png")
		}
		return out, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", f)
}

// String implements fmt.Stringer.
func (f Format) String() string { return string(f) }
