// Package graph provides the serialization format for package layouts.
//
// This package defines the wire format shared by JSON files, API responses,
// the cache and the snapshot store. It sits at the boundary between the
// layout engine and the outside world:
//
//   - [Layout]: serialized layout (this package)
//   - layered.Layout[registry.Package]: in-memory layout
//
// Use [FromLayered] and [Layout.Layered] to convert between them.
//
// # Layout Serialization
//
//	{
//	  "nodes": [{"id": "users", "kind": "openapi", "layer": 0, "x": 90, "y": 24, ...}],
//	  "edges": [{"from": "gateway", "to": "users"}],
//	  "connectors": [{"from": "gateway", "to": "users", "start": {...}, "end": {...}}],
//	  "rows": [["users"], ["gateway"]],
//	  "width": 320,
//	  "height": 216,
//	  "config": {"node_width": 140, ...}
//	}
//
// Common operations:
//
//	l, _ := graph.ReadLayoutFile("layout.json")    // File → Layout
//	graph.WriteLayoutFile(l, "layout.json")        // Layout → File
//	data, _ := graph.MarshalLayout(l)              // Layout → []byte
//	parsed, _ := graph.UnmarshalLayout(data)       // []byte → Layout
//
// Node order, edge order and row order are those computed by the layout
// engine, so the output is deterministic for a given package set.
package graph
