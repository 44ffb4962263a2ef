package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/pkgtopo/pkg/layered"
	"github.com/matzehuels/pkgtopo/pkg/registry"
)

const (
	activeColor   = "#3b82f6"
	inactiveEdge  = "#d1d5db"
	inactiveNode  = "#e5e7eb"
	dimmedOpacity = 0.2
	maxNameRunes  = 14
	cornerRadius  = 10
)

const markerDefs = `  <defs>
    <marker id="topo-arrow" viewBox="0 0 10 6" refX="10" refY="3" markerWidth="8" markerHeight="6" orient="auto-start-reverse">
      <path d="M 0 0 L 10 3 L 0 6 Z" fill="#d1d5db"/>
    </marker>
    <marker id="topo-arrow-active" viewBox="0 0 10 6" refX="10" refY="3" markerWidth="8" markerHeight="6" orient="auto-start-reverse">
      <path d="M 0 0 L 10 3 L 0 6 Z" fill="#3b82f6"/>
    </marker>
  </defs>
`

// Option configures [Render].
type Option func(*renderer)

type renderer struct {
	highlight map[string]bool
	title     string
}

// WithHighlight dims every package not named in names.
// An empty list disables highlighting.
func WithHighlight(names ...string) Option {
	return func(r *renderer) {
		if len(names) == 0 {
			r.highlight = nil
			return
		}
		r.highlight = make(map[string]bool, len(names))
		for _, n := range names {
			r.highlight[n] = true
		}
	}
}

// WithTitle sets the document title element.
func WithTitle(title string) Option {
	return func(r *renderer) { r.title = title }
}

// Render draws l as an SVG document.
func Render(l layered.Layout[registry.Package], opts ...Option) []byte {
	var r renderer
	for _, opt := range opts {
		opt(&r)
	}

	cfg := l.Config.OrDefault()
	width := max(l.Width, cfg.MinWidth)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s" font-family="sans-serif">`+"\n",
		num(width), num(l.Height), num(width), num(l.Height))
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(r.title))
	}
	buf.WriteString(markerDefs)

	for _, c := range l.Connectors() {
		r.renderEdge(&buf, c)
	}
	for _, n := range l.Nodes {
		r.renderNode(&buf, n, cfg)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *renderer) active(name string) bool {
	return r.highlight == nil || r.highlight[name]
}

func (r *renderer) renderEdge(buf *bytes.Buffer, c layered.Connector) {
	stroke, width, marker, opacity := inactiveEdge, 1, "topo-arrow", dimmedOpacity
	if r.active(c.From) && r.active(c.To) {
		stroke, width, marker, opacity = activeColor, 2, "topo-arrow-active", 1
	}
	fmt.Fprintf(buf, `  <line class="edge" data-from="%s" data-to="%s" x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%d" marker-end="url(#%s)" opacity="%s"/>`+"\n",
		escapeXML(c.From), escapeXML(c.To),
		num(c.Start.X), num(c.Start.Y), num(c.End.X), num(c.End.Y),
		stroke, width, marker, num(opacity))
}

func (r *renderer) renderNode(buf *bytes.Buffer, n layered.Positioned[registry.Package], cfg layered.Config) {
	color := registry.KindColor(n.Payload.Kind)
	active := r.active(n.Name)

	stroke, opacity := color, 1.0
	if !active {
		stroke, opacity = inactiveNode, dimmedOpacity
	}

	fmt.Fprintf(buf, `  <g class="node" id="node-%s" opacity="%s">`+"\n", escapeXML(n.Name), num(opacity))
	fmt.Fprintf(buf, `    <rect x="%s" y="%s" width="%s" height="%s" rx="%d" ry="%d" fill="#ffffff" stroke="%s" stroke-width="2"/>`+"\n",
		num(n.X), num(n.Y), num(cfg.NodeWidth), num(cfg.NodeHeight), cornerRadius, cornerRadius, stroke)
	if active && r.highlight != nil {
		fmt.Fprintf(buf, `    <rect class="halo" x="%s" y="%s" width="%s" height="%s" rx="%d" ry="%d" fill="none" stroke="%s" stroke-width="2" opacity="0.3"/>`+"\n",
			num(n.X-3), num(n.Y-3), num(cfg.NodeWidth+6), num(cfg.NodeHeight+6), cornerRadius+3, cornerRadius+3, color)
	}

	cx := n.X + cfg.NodeWidth/2
	mid := n.Y + cfg.NodeHeight/2
	fmt.Fprintf(buf, `    <text x="%s" y="%s" text-anchor="middle" font-size="11" font-weight="600" fill="#111827">%s</text>`+"\n",
		num(cx), num(mid-3), escapeXML(Truncate(n.Name)))
	fmt.Fprintf(buf, `    <text x="%s" y="%s" text-anchor="middle" font-size="9" fill="#9ca3af">%s</text>`+"\n",
		num(cx), num(mid+12), escapeXML(Subtitle(n.Payload)))
	buf.WriteString("  </g>\n")
}

// Truncate shortens names longer than 14 runes to 13 runes and an ellipsis.
func Truncate(name string) string {
	runes := []rune(name)
	if len(runes) <= maxNameRunes {
		return name
	}
	return string(runes[:maxNameRunes-1]) + "…"
}

// Subtitle is the secondary label of a package box.
func Subtitle(p registry.Package) string {
	return p.Kind + " v" + p.Version
}

func num(f float64) string {
	return fmt.Sprintf("%g", f)
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
