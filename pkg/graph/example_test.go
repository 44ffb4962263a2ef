package graph_test

import (
	"fmt"

	"github.com/matzehuels/pkgtopo/pkg/graph"
	"github.com/matzehuels/pkgtopo/pkg/layered"
	"github.com/matzehuels/pkgtopo/pkg/registry"
)

func ExampleFromLayered() {
	pkgs := []registry.Package{
		{Name: "app", Kind: "composite", Dependencies: []registry.Dependency{{PackageName: "lib"}}},
		{Name: "lib", Kind: "graphql"},
	}
	l := graph.FromLayered(layered.Compute(registry.Nodes(pkgs), layered.DefaultConfig))

	for _, n := range l.Nodes {
		fmt.Printf("%s layer=%d at (%v,%v) %s\n", n.ID, n.Layer, n.X, n.Y, n.Color)
	}
	fmt.Println("rows:", l.Rows)
	// Output:
	// lib layer=0 at (90,24) #ec4899
	// app layer=1 at (90,140) #f97316
	// rows: [[lib] [app]]
}

func ExampleUnmarshalLayout() {
	data := []byte(`{
		"nodes": [
			{"id": "lib", "layer": 0, "x": 90, "y": 24},
			{"id": "app", "layer": 1, "x": 90, "y": 140}
		],
		"edges": [{"from": "app", "to": "lib"}],
		"width": 320,
		"height": 216
	}`)

	l, err := graph.UnmarshalLayout(data)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println(len(l.Nodes), "nodes,", len(l.Edges), "edge")
	// Output:
	// 2 nodes, 1 edge
}
