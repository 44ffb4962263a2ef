// Package render turns package layouts into output artifacts.
//
// # Overview
//
// The renderers live in subpackages:
//
//   - [svg]: the topology panel drawing, using the computed coordinates
//   - [nodelink]: Graphviz DOT, plus SVG and PNG rendered by Graphviz
//   - [text]: terminal tables for the CLI
//
// [Render] dispatches on [Format] so callers that accept a format name
// from a flag or an HTTP path do not have to:
//
//	formats, err := render.ParseFormats("svg,dot")
//	for _, f := range formats {
//	    data, err := render.Render(ctx, l, f, render.Options{})
//	}
//
// [svg]: github.com/matzehuels/pkgtopo/pkg/render/svg
// [nodelink]: github.com/matzehuels/pkgtopo/pkg/render/nodelink
// [text]: github.com/matzehuels/pkgtopo/pkg/render/text
package render
