package layered

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by [Config.Validate].
var ErrInvalidConfig = errors.New("invalid layout config")

// =============================================================================
// Input Types
// =============================================================================

// Node is a package in the dependency graph.
//
// Name must be unique within an input set; when it is not, the first
// occurrence wins and later duplicates are ignored. Deps lists the names of
// the packages this node depends on. Names not present in the input are
// ignored. Payload is carried through to the layout untouched.
type Node[T any] struct {
	Name    string
	Deps    []string
	Payload T
}

// Edge is a resolved dependency: From depends on To.
type Edge struct {
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
}

// =============================================================================
// Configuration
// =============================================================================

// Config holds the box size and spacing used for placement.
// All values are in the same units as the resulting coordinates (pixels).
type Config struct {
	NodeWidth  float64 `json:"node_width" bson:"node_width"`
	NodeHeight float64 `json:"node_height" bson:"node_height"`
	HGap       float64 `json:"h_gap" bson:"h_gap"`
	VGap       float64 `json:"v_gap" bson:"v_gap"`
	Pad        float64 `json:"pad" bson:"pad"`
	MinWidth   float64 `json:"min_width" bson:"min_width"`
}

var (
	// DefaultConfig matches the full-size dependency graph view.
	DefaultConfig = Config{
		NodeWidth:  140,
		NodeHeight: 52,
		HGap:       32,
		VGap:       64,
		Pad:        24,
		MinWidth:   320,
	}

	// CompactConfig matches the smaller topology panel.
	CompactConfig = Config{
		NodeWidth:  120,
		NodeHeight: 44,
		HGap:       32,
		VGap:       64,
		Pad:        24,
		MinWidth:   320,
	}
)

// IsZero reports whether c is the zero Config.
func (c Config) IsZero() bool { return c == Config{} }

// Validate reports whether c can be used for placement: box sizes must be
// positive and gaps, padding and minimum width non-negative.
func (c Config) Validate() error {
	switch {
	case c.NodeWidth <= 0 || c.NodeHeight <= 0:
		return fmt.Errorf("%w: node size must be positive, got %vx%v", ErrInvalidConfig, c.NodeWidth, c.NodeHeight)
	case c.HGap < 0 || c.VGap < 0:
		return fmt.Errorf("%w: gaps must be non-negative, got h=%v v=%v", ErrInvalidConfig, c.HGap, c.VGap)
	case c.Pad < 0 || c.MinWidth < 0:
		return fmt.Errorf("%w: padding and minimum width must be non-negative", ErrInvalidConfig)
	}
	return nil
}

// OrDefault returns c, or DefaultConfig when c is the zero value.
func (c Config) OrDefault() Config {
	if c.IsZero() {
		return DefaultConfig
	}
	return c
}

// =============================================================================
// Output Types
// =============================================================================

// Positioned is a node with its layer and the top-left corner of its box.
type Positioned[T any] struct {
	Name    string
	Payload T
	Layer   int
	X       float64
	Y       float64
}

// Layout is the result of [Compute].
//
// Nodes are ordered by layer, then by input order within a layer. Edges are
// ordered by dependent (input order), then by dependency list order, and
// only contain edges whose endpoints both exist. A dependency listed more
// than once by the same node yields a single edge.
type Layout[T any] struct {
	Nodes  []Positioned[T]
	Edges  []Edge
	Width  float64
	Height float64
	Config Config
}

// Node returns the positioned node with the given name.
func (l Layout[T]) Node(name string) (Positioned[T], bool) {
	for _, n := range l.Nodes {
		if n.Name == name {
			return n, true
		}
	}
	return Positioned[T]{}, false
}

// MaxLayer returns the deepest layer index, or 0 for an empty layout.
func (l Layout[T]) MaxLayer() int {
	maxLayer := 0
	for _, n := range l.Nodes {
		maxLayer = max(maxLayer, n.Layer)
	}
	return maxLayer
}

// Layers returns node names grouped by layer, index 0 first.
// An empty layout returns nil.
func (l Layout[T]) Layers() [][]string {
	if len(l.Nodes) == 0 {
		return nil
	}
	out := make([][]string, l.MaxLayer()+1)
	for _, n := range l.Nodes {
		out[n.Layer] = append(out[n.Layer], n.Name)
	}
	return out
}

// Compute assigns layers and coordinates to nodes and filters their edges.
// A zero cfg is replaced by [DefaultConfig].
//
// Compute never fails: cycles, self-dependencies and dangling references all
// produce a valid layout. An empty input yields no nodes, a canvas of
// cfg.MinWidth and the height of a single layer.
func Compute[T any](nodes []Node[T], cfg Config) Layout[T] {
	g := resolve(nodes)
	return assemble(nodes, g, g.layers(), cfg)
}

// Place positions nodes using precomputed layers, as returned by
// [AssignLayers]. Nodes missing from layers, or given a negative layer,
// are placed in layer 0. A zero cfg is replaced by [DefaultConfig].
func Place[T any](nodes []Node[T], layers map[string]int, cfg Config) Layout[T] {
	g := resolve(nodes)
	assigned := make([]int, len(g.names))
	for i, name := range g.names {
		assigned[i] = max(layers[name], 0)
	}
	return assemble(nodes, g, assigned, cfg)
}

func assemble[T any](nodes []Node[T], g *graph, layers []int, cfg Config) Layout[T] {
	cfg = cfg.OrDefault()
	p := place(g, layers, cfg)

	out := Layout[T]{
		Nodes:  make([]Positioned[T], 0, len(g.order)),
		Edges:  g.edges(),
		Width:  p.width,
		Height: p.height,
		Config: cfg,
	}
	for _, i := range p.sequence {
		out.Nodes = append(out.Nodes, Positioned[T]{
			Name:    g.names[i],
			Payload: nodes[g.order[i]].Payload,
			Layer:   layers[i],
			X:       p.x[i],
			Y:       p.y[i],
		})
	}
	return out
}

// AssignLayers returns the layer of every node keyed by name.
// It performs only the layering step of [Compute].
func AssignLayers[T any](nodes []Node[T]) map[string]int {
	g := resolve(nodes)
	layers := g.layers()
	out := make(map[string]int, len(layers))
	for i, l := range layers {
		out[g.names[i]] = l
	}
	return out
}
