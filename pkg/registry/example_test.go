package registry_test

import (
	"fmt"

	"github.com/matzehuels/pkgtopo/pkg/layered"
	"github.com/matzehuels/pkgtopo/pkg/registry"
)

func ExampleNodes() {
	pkgs := []registry.Package{
		{Name: "storefront", Kind: "graphql", Dependencies: []registry.Dependency{
			{PackageName: "catalog", VersionConstraint: "^1.2.0"},
			{PackageName: "payments"},
		}},
		{Name: "catalog", Kind: "openapi"},
		{Name: "payments", Kind: "grpc"},
	}

	l := layered.Compute(registry.Nodes(pkgs), layered.CompactConfig)
	for i, row := range l.Layers() {
		fmt.Println(i, row)
	}
	// Output:
	// 0 [catalog payments]
	// 1 [storefront]
}

func ExampleKindColor() {
	fmt.Println(registry.KindColor("graphql"))
	fmt.Println(registry.KindColor("grpc"))
	fmt.Println(registry.KindColor("unknown"))
	// Output:
	// #ec4899
	// #a855f7
	// #9ca3af
}
