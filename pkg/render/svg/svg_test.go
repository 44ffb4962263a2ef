package svg

import (
	"strings"
	"testing"

	"github.com/matzehuels/pkgtopo/pkg/layered"
	"github.com/matzehuels/pkgtopo/pkg/registry"
)

func testLayout(cfg layered.Config) layered.Layout[registry.Package] {
	pkgs := []registry.Package{
		{Name: "gateway", Kind: "graphql", Version: "1.4.0", Dependencies: []registry.Dependency{
			{PackageName: "users"}, {PackageName: "orders"},
		}},
		{Name: "users", Kind: "openapi", Version: "2.0.0"},
		{Name: "orders", Kind: "grpc", Version: "0.9.1"},
	}
	return layered.Compute(registry.Nodes(pkgs), cfg)
}

func TestRender(t *testing.T) {
	out := string(Render(testLayout(layered.CompactConfig), WithTitle("shop <prod>")))

	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 320 200" width="320" height="200"`,
		`<title>shop &lt;prod&gt;</title>`,
		`id="topo-arrow"`,
		`id="topo-arrow-active"`,
		`rx="10" ry="10"`,
		`stroke="#ec4899"`,
		`stroke="#22c55e"`,
		`stroke="#a855f7"`,
		`>graphql v1.4.0</text>`,
		`>gateway</text>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if got := strings.Count(out, `class="edge"`); got != 2 {
		t.Errorf("edges = %d, want 2", got)
	}
	if got := strings.Count(out, `class="node"`); got != 3 {
		t.Errorf("nodes = %d, want 3", got)
	}
	if strings.Contains(out, "halo") || strings.Contains(out, `opacity="0.2"`) {
		t.Error("nothing should be dimmed without a highlight set")
	}
	if !strings.HasSuffix(out, "</svg>\n") {
		t.Error("document not closed")
	}
}

func TestRenderCompactGeometry(t *testing.T) {
	out := string(Render(testLayout(layered.CompactConfig)))

	// users sits at (24,24) in a 320-wide compact canvas; gateway at (100,132).
	for _, want := range []string{
		`<rect x="24" y="24" width="120" height="44"`,
		`<text x="84" y="43"`,
		`<text x="84" y="58"`,
		`x1="160" y1="176" x2="84" y2="24"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRenderHighlight(t *testing.T) {
	out := string(Render(testLayout(layered.DefaultConfig), WithHighlight("gateway", "users")))

	if got := strings.Count(out, `class="halo"`); got != 2 {
		t.Errorf("halos = %d, want 2", got)
	}
	if !strings.Contains(out, `data-from="gateway" data-to="users"`+` x1`) {
		t.Error("missing gateway -> users edge")
	}
	if !strings.Contains(out, `marker-end="url(#topo-arrow-active)" opacity="1"`) {
		t.Error("active edge should use the active marker")
	}
	if !strings.Contains(out, `marker-end="url(#topo-arrow)" opacity="0.2"`) {
		t.Error("edge to orders should be dimmed")
	}
	if !strings.Contains(out, `id="node-orders" opacity="0.2"`) {
		t.Error("orders should be dimmed")
	}
	if !strings.Contains(out, `stroke="#e5e7eb"`) {
		t.Error("dimmed node should use the inactive stroke")
	}
}

func TestRenderEmpty(t *testing.T) {
	out := string(Render(layered.Compute[registry.Package](nil, layered.DefaultConfig)))
	if !strings.Contains(out, `width="320" height="100"`) {
		t.Errorf("unexpected empty canvas:\n%s", out)
	}
}

func TestRenderMinWidth(t *testing.T) {
	l := testLayout(layered.CompactConfig)
	l.Width = 100
	if out := string(Render(l)); !strings.Contains(out, `width="320"`) {
		t.Error("canvas should be at least MinWidth wide")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct{ in, want string }{
		{"users", "users"},
		{"fourteen-chars", "fourteen-chars"},
		{"fifteen-chars-x", "fifteen-chars…"},
		{"ünïcödé-sërvïcé-nämé", "ünïcödé-sërvï…"},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in); got != tt.want {
			t.Errorf("Truncate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
