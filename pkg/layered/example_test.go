package layered_test

import (
	"fmt"

	"github.com/matzehuels/pkgtopo/pkg/layered"
)

func ExampleCompute() {
	nodes := []layered.Node[string]{
		{Name: "api", Deps: []string{"db", "auth"}},
		{Name: "auth", Deps: []string{"db"}},
		{Name: "db"},
	}

	l := layered.Compute(nodes, layered.DefaultConfig)
	for _, n := range l.Nodes {
		fmt.Println(n.Name, n.Layer, n.X, n.Y)
	}
	fmt.Println("canvas:", l.Width, l.Height)
	// Output:
	// db 0 90 24
	// auth 1 90 140
	// api 2 90 256
	// canvas: 320 332
}

func ExampleCompute_danglingAndCycles() {
	nodes := []layered.Node[string]{
		{Name: "x", Deps: []string{"y", "not-registered"}},
		{Name: "y", Deps: []string{"x"}},
	}

	l := layered.Compute(nodes, layered.CompactConfig)
	fmt.Println("nodes:", len(l.Nodes))
	fmt.Println("edges:", l.Edges)
	// Output:
	// nodes: 2
	// edges: [{x y} {y x}]
}

func ExampleLayout_Connectors() {
	l := layered.Compute([]layered.Node[string]{
		{Name: "app", Deps: []string{"lib"}},
		{Name: "lib"},
	}, layered.DefaultConfig)

	for _, c := range l.Connectors() {
		fmt.Printf("%s -> %s: (%v,%v) to (%v,%v)\n", c.From, c.To, c.Start.X, c.Start.Y, c.End.X, c.End.Y)
	}
	// Output:
	// app -> lib: (160,192) to (160,24)
}
