// Package nodelink renders package layouts as Graphviz node-link diagrams.
//
// # Overview
//
// [ToDOT] turns a computed layout into DOT source. Dependencies point
// upward (rankdir=BT) and every layer becomes a rank=same subgraph, so
// Graphviz keeps the layering computed by the layout engine while choosing
// its own coordinates and edge routing.
//
//	dot := nodelink.ToDOT(l, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// # Options
//
//   - Detailed: node labels include kind and version
//   - Highlight: packages outside the set are drawn in grey
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG and
// PNG rendering; no Graphviz installation is required.
package nodelink
