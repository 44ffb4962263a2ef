package graph

import (
	"github.com/matzehuels/pkgtopo/pkg/layered"
	"github.com/matzehuels/pkgtopo/pkg/registry"
)

// =============================================================================
// Node - Positioned Package
// =============================================================================

// Node is a positioned package. X and Y are the top-left corner of its box.
type Node struct {
	ID        string  `json:"id" bson:"id"`
	Namespace string  `json:"namespace,omitempty" bson:"namespace,omitempty"`
	Kind      string  `json:"kind,omitempty" bson:"kind,omitempty"`
	Version   string  `json:"version,omitempty" bson:"version,omitempty"`
	Yanked    bool    `json:"yanked,omitempty" bson:"yanked,omitempty"`
	Color     string  `json:"color,omitempty" bson:"color,omitempty"`
	Layer     int     `json:"layer" bson:"layer"`
	X         float64 `json:"x" bson:"x"`
	Y         float64 `json:"y" bson:"y"`
}

// Package returns the package fields carried by the node.
// Dependencies are not part of the node; see [Layout.Layered].
func (n Node) Package() registry.Package {
	return registry.Package{
		Name:      n.ID,
		Namespace: n.Namespace,
		Kind:      n.Kind,
		Version:   n.Version,
		Yanked:    n.Yanked,
	}
}

// =============================================================================
// Edge - Directed Dependency
// =============================================================================

// Edge represents a directed edge: From depends on To.
type Edge = layered.Edge

// Connector is an edge projected onto the canvas.
type Connector = layered.Connector

// =============================================================================
// Layout - Serialized Layout
// =============================================================================

// Layout is the serialized form of a computed package layout.
type Layout struct {
	Nodes      []Node         `json:"nodes" bson:"nodes"`
	Edges      []Edge         `json:"edges" bson:"edges"`
	Connectors []Connector    `json:"connectors" bson:"connectors"`
	Rows       [][]string     `json:"rows,omitempty" bson:"rows,omitempty"`
	Width      float64        `json:"width" bson:"width"`
	Height     float64        `json:"height" bson:"height"`
	Config     layered.Config `json:"config" bson:"config"`
}

// Node returns the node with the given ID.
func (l Layout) Node(id string) (Node, bool) {
	for _, n := range l.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}
