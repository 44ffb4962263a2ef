// Package layered computes layered (Sugiyama-style) layouts for package
// dependency graphs.
//
// A layout places every package on a horizontal layer so that a package is
// always drawn below the packages it depends on, then assigns pixel
// coordinates for fixed-size boxes on a canvas. The result is what the
// renderers in pkg/render draw and what the HTTP API returns.
//
// # Layering
//
// [AssignLayers] uses longest-path layering: a node with no resolvable
// dependencies sits on layer 0, every other node sits one layer below its
// deepest dependency. Dependencies naming packages that are not part of the
// input are ignored.
//
// Package manifests are user-supplied and may contain cycles. A node that is
// reached again while its own layer is still being computed contributes
// layer 0 to its dependent and is not cached, which breaks the cycle. The
// resulting layers of nodes on a cycle therefore depend on the order in
// which nodes are visited (input order). This is a known limitation; the
// layering never fails and never loops.
//
// Layering runs on an explicit stack, so very long dependency chains do not
// grow the goroutine stack.
//
// # Placement
//
// [Compute] groups nodes by layer, lays each layer out left to right in
// input order separated by [Config].HGap, and centres every row on a canvas
// wide enough for the widest layer:
//
//	width  = max(MinWidth, widest*(NodeWidth+HGap) - HGap + 2*Pad)
//	height = (maxLayer+1)*(NodeHeight+VGap) - VGap + 2*Pad
//	y      = Pad + layer*(NodeHeight+VGap)
//
// Two presets exist: [DefaultConfig] (the full graph view) and
// [CompactConfig] (the smaller topology panel).
//
// # Edges
//
// [Layout.Edges] lists every dependency whose endpoints are both in the
// input. [Layout.Connectors] projects them onto the canvas, from the
// bottom-centre of the dependent box to the top-centre of the dependency box.
//
// # Usage
//
//	nodes := []layered.Node[string]{
//	    {Name: "api", Deps: []string{"db", "auth"}},
//	    {Name: "auth", Deps: []string{"db"}},
//	    {Name: "db"},
//	}
//	l := layered.Compute(nodes, layered.DefaultConfig)
//	for _, n := range l.Nodes {
//	    fmt.Println(n.Name, n.Layer, n.X, n.Y)
//	}
//
// # Concurrency
//
// All functions are pure: they never retain or mutate their input, and the
// returned layout shares no state with other calls. They are safe for
// concurrent use.
package layered
