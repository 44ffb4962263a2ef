package graph

import (
	"errors"
	"io/fs"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/pkgtopo/pkg/layered"
	"github.com/matzehuels/pkgtopo/pkg/registry"
)

func sampleLayout() layered.Layout[registry.Package] {
	pkgs := []registry.Package{
		{Name: "gateway", Kind: "graphql", Version: "3.0.0", Dependencies: []registry.Dependency{
			{PackageName: "users"}, {PackageName: "orders"}, {PackageName: "missing"},
		}},
		{Name: "users", Kind: "openapi", Version: "2.1.0", Namespace: "core"},
		{Name: "orders", Kind: "grpc", Yanked: true},
	}
	return layered.Compute(registry.Nodes(pkgs), layered.DefaultConfig)
}

func TestFromLayered(t *testing.T) {
	l := FromLayered(sampleLayout())

	if len(l.Nodes) != 3 || len(l.Edges) != 2 || len(l.Connectors) != 2 {
		t.Fatalf("nodes=%d edges=%d connectors=%d", len(l.Nodes), len(l.Edges), len(l.Connectors))
	}
	if want := [][]string{{"users", "orders"}, {"gateway"}}; !reflect.DeepEqual(l.Rows, want) {
		t.Errorf("Rows = %v, want %v", l.Rows, want)
	}

	users, ok := l.Node("users")
	if !ok {
		t.Fatal("users missing")
	}
	want := Node{ID: "users", Namespace: "core", Kind: "openapi", Version: "2.1.0", Color: "#22c55e", Layer: 0, X: 24, Y: 24}
	if users != want {
		t.Errorf("users = %+v, want %+v", users, want)
	}
	if orders, _ := l.Node("orders"); !orders.Yanked || orders.Color != "#a855f7" {
		t.Errorf("orders = %+v", orders)
	}
	if l.Width != 360 || l.Height != 216 || l.Config != layered.DefaultConfig {
		t.Errorf("canvas %vx%v config %+v", l.Width, l.Height, l.Config)
	}
}

func TestFromLayeredEmpty(t *testing.T) {
	l := FromLayered(layered.Compute[registry.Package](nil, layered.CompactConfig))
	if l.Nodes == nil || l.Edges == nil || l.Connectors == nil {
		t.Errorf("slices should be empty, not nil: %+v", l)
	}
	data, err := MarshalLayout(l)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"nodes": []`) || strings.Contains(string(data), "rows") {
		t.Errorf("unexpected JSON:\n%s", data)
	}
}

func TestLayered(t *testing.T) {
	orig := sampleLayout()
	back := FromLayered(orig).Layered()

	if !reflect.DeepEqual(back.Edges, orig.Edges) {
		t.Errorf("edges = %v, want %v", back.Edges, orig.Edges)
	}
	if !reflect.DeepEqual(back.Connectors(), orig.Connectors()) {
		t.Errorf("connectors differ")
	}
	gw, _ := back.Node("gateway")
	if got := gw.Payload.DependencyNames(); !reflect.DeepEqual(got, []string{"users", "orders"}) {
		t.Errorf("gateway deps = %v", got)
	}
	if gw.Payload.Kind != "graphql" || gw.Payload.Version != "3.0.0" {
		t.Errorf("gateway payload = %+v", gw.Payload)
	}
}

func TestLayoutFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	l := FromLayered(sampleLayout())
	if err := WriteLayoutFile(l, path); err != nil {
		t.Fatalf("WriteLayoutFile: %v", err)
	}
	got, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatalf("ReadLayoutFile: %v", err)
	}
	if !reflect.DeepEqual(got, l) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, l)
	}
}

func TestUnmarshalLayoutInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", `{"nodes":`},
		{"empty id", `{"nodes":[{"id":""}]}`},
		{"duplicate", `{"nodes":[{"id":"a"},{"id":"a"}]}`},
		{"negative layer", `{"nodes":[{"id":"a","layer":-1}]}`},
		{"dangling edge", `{"nodes":[{"id":"a"}],"edges":[{"from":"a","to":"b"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := UnmarshalLayout([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestReadLayoutFileMissing(t *testing.T) {
	if _, err := ReadLayoutFile(filepath.Join(t.TempDir(), "nope.json")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("err = %v, want not-exist", err)
	}
}
