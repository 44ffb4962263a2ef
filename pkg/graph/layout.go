package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/pkgtopo/pkg/layered"
	"github.com/matzehuels/pkgtopo/pkg/registry"
)

// =============================================================================
// Conversion
// =============================================================================

// FromLayered converts an engine layout into its serialization format.
func FromLayered(l layered.Layout[registry.Package]) Layout {
	out := Layout{
		Nodes:      make([]Node, len(l.Nodes)),
		Edges:      append([]Edge{}, l.Edges...),
		Connectors: l.Connectors(),
		Rows:       l.Layers(),
		Width:      l.Width,
		Height:     l.Height,
		Config:     l.Config,
	}
	for i, n := range l.Nodes {
		out.Nodes[i] = Node{
			ID:        n.Name,
			Namespace: n.Payload.Namespace,
			Kind:      n.Payload.Kind,
			Version:   n.Payload.Version,
			Yanked:    n.Payload.Yanked,
			Color:     registry.KindColor(n.Payload.Kind),
			Layer:     n.Layer,
			X:         n.X,
			Y:         n.Y,
		}
	}
	return out
}

// Layered rebuilds the engine layout. Payloads carry the node's package
// fields with dependencies restored from the edge list.
func (l Layout) Layered() layered.Layout[registry.Package] {
	deps := make(map[string][]registry.Dependency, len(l.Nodes))
	for _, e := range l.Edges {
		deps[e.From] = append(deps[e.From], registry.Dependency{PackageName: e.To})
	}

	out := layered.Layout[registry.Package]{
		Nodes:  make([]layered.Positioned[registry.Package], len(l.Nodes)),
		Edges:  append([]layered.Edge{}, l.Edges...),
		Width:  l.Width,
		Height: l.Height,
		Config: l.Config,
	}
	for i, n := range l.Nodes {
		p := n.Package()
		p.Dependencies = deps[n.ID]
		out.Nodes[i] = layered.Positioned[registry.Package]{
			Name:    n.ID,
			Payload: p,
			Layer:   n.Layer,
			X:       n.X,
			Y:       n.Y,
		}
	}
	return out
}

// Validate checks that node IDs are unique and edges reference known nodes.
func (l Layout) Validate() error {
	seen := make(map[string]bool, len(l.Nodes))
	for i, n := range l.Nodes {
		if n.ID == "" {
			return fmt.Errorf("node %d: empty id", i)
		}
		if seen[n.ID] {
			return fmt.Errorf("duplicate node %q", n.ID)
		}
		if n.Layer < 0 {
			return fmt.Errorf("node %q: negative layer %d", n.ID, n.Layer)
		}
		seen[n.ID] = true
	}
	for _, e := range l.Edges {
		if !seen[e.From] || !seen[e.To] {
			return fmt.Errorf("edge %s -> %s references unknown node", e.From, e.To)
		}
	}
	return nil
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout converts a layout to indented JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteLayout(l, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteLayout writes a layout as indented JSON to an io.Writer.
func WriteLayout(l Layout, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteLayoutFile writes a layout to a JSON file.
// The file is created with 0644 permissions.
func WriteLayoutFile(l Layout, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteLayout(l, f)
}

// UnmarshalLayout decodes and validates a JSON layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	return ReadLayout(bytes.NewReader(data))
}

// ReadLayout decodes and validates a JSON layout from an io.Reader.
func ReadLayout(r io.Reader) (Layout, error) {
	var l Layout
	if err := json.NewDecoder(r).Decode(&l); err != nil {
		return Layout{}, fmt.Errorf("decode: %w", err)
	}
	if err := l.Validate(); err != nil {
		return Layout{}, fmt.Errorf("invalid layout: %w", err)
	}
	return l, nil
}

// ReadLayoutFile reads and validates a JSON layout file.
func ReadLayoutFile(path string) (Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return Layout{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadLayout(f)
}
