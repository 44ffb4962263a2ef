package pipeline

import (
	"github.com/matzehuels/pkgtopo/pkg/graph"
	"github.com/matzehuels/pkgtopo/pkg/layered"
	"github.com/matzehuels/pkgtopo/pkg/registry"
)

// ComputeLayout lays out pkgs and converts the result to the wire format.
func ComputeLayout(pkgs []registry.Package, cfg layered.Config) graph.Layout {
	return graph.FromLayered(layered.Compute(registry.Nodes(pkgs), cfg))
}
