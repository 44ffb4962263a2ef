// Package pkg provides the libraries behind pkgtopo, which arranges package
// dependency graphs in layers.
//
// # Overview
//
// A package set (from a file, a registry or a saved snapshot) is laid out so
// that every package sits one layer above its deepest dependency. The pkg
// directory is organized as:
//
//  1. [layered] - the layout engine (layer assignment and placement)
//  2. [registry] - package model, set files and the registry client
//  3. [graph] - serialized layouts shared by files, the API and the cache
//  4. [render] - SVG, Graphviz DOT/PNG and text renderers
//  5. [pipeline] - orchestration (load → layout → render) with caching
//  6. [cache], [store] - layout cache and snapshot storage backends
//
// # Architecture
//
//	Package set file / registry / snapshot
//	         ↓
//	    [registry] package (load, normalize, filter)
//	         ↓
//	    [layered] package (layers + coordinates)
//	         ↓
//	    [graph] package (wire format)
//	         ↓
//	    [render] package (SVG/DOT/PNG/JSON)
//
// # Quick Start
//
//	pkgs, warnings, err := registry.Load("packages.yaml")
//	l := layered.Compute(registry.Nodes(pkgs), layered.DefaultConfig)
//	svg, err := render.Render(ctx, l, render.FormatSVG, render.Options{})
//
// Or let the pipeline handle loading, caching and rendering:
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Path:    "packages.yaml",
//	    Formats: []render.Format{render.FormatSVG},
//	})
//
// [layered]: github.com/matzehuels/pkgtopo/pkg/layered
// [registry]: github.com/matzehuels/pkgtopo/pkg/registry
// [graph]: github.com/matzehuels/pkgtopo/pkg/graph
// [render]: github.com/matzehuels/pkgtopo/pkg/render
// [pipeline]: github.com/matzehuels/pkgtopo/pkg/pipeline
// [cache]: github.com/matzehuels/pkgtopo/pkg/cache
// [store]: github.com/matzehuels/pkgtopo/pkg/store
package pkg
