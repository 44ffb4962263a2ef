// Package svg renders package layouts as standalone SVG documents.
//
// # Overview
//
// [Render] draws a layout the way the topology panel does: each package is
// a rounded box stroked with its kind colour, showing the package name and
// a "kind vversion" subtitle, and each dependency is a straight arrow from
// the bottom centre of the dependent to the top centre of the dependency.
//
//	l := layered.Compute(registry.Nodes(pkgs), layered.CompactConfig)
//	doc := svg.Render(l)
//
// # Highlighting
//
// [WithHighlight] marks a set of packages as active, for example the
// services touched by a trace. Inactive boxes and edges are dimmed; an edge
// is active only when both of its endpoints are.
//
//	doc := svg.Render(l, svg.WithHighlight("gateway", "users"))
//
// Names longer than 14 characters are truncated to 13 plus an ellipsis.
package svg
