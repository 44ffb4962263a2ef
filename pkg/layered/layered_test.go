package layered

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"reflect"
	"testing"
)

func n(name string, deps ...string) Node[string] {
	return Node[string]{Name: name, Deps: deps, Payload: "payload:" + name}
}

func TestAssignLayers(t *testing.T) {
	tests := []struct {
		name  string
		nodes []Node[string]
		want  map[string]int
	}{
		{
			name:  "Empty",
			nodes: nil,
			want:  map[string]int{},
		},
		{
			name:  "Chain",
			nodes: []Node[string]{n("A"), n("B", "A"), n("C", "A", "B")},
			want:  map[string]int{"A": 0, "B": 1, "C": 2},
		},
		{
			name:  "ReverseInputOrder",
			nodes: []Node[string]{n("C", "A", "B"), n("B", "A"), n("A")},
			want:  map[string]int{"A": 0, "B": 1, "C": 2},
		},
		{
			name:  "Diamond",
			nodes: []Node[string]{n("app", "left", "right"), n("left", "core"), n("right", "core"), n("core")},
			want:  map[string]int{"app": 2, "left": 1, "right": 1, "core": 0},
		},
		{
			name:  "LongestPathWins",
			nodes: []Node[string]{n("top", "a", "d"), n("a", "b"), n("b", "c"), n("c"), n("d")},
			want:  map[string]int{"top": 3, "a": 2, "b": 1, "c": 0, "d": 0},
		},
		{
			name:  "DanglingIgnored",
			nodes: []Node[string]{n("a", "missing"), n("b", "a", "also-missing")},
			want:  map[string]int{"a": 0, "b": 1},
		},
		{
			name:  "SelfLoop",
			nodes: []Node[string]{n("a", "a")},
			want:  map[string]int{"a": 1},
		},
		{
			name:  "MutualCycle",
			nodes: []Node[string]{n("X", "Y"), n("Y", "X")},
			want:  map[string]int{"X": 2, "Y": 1},
		},
		{
			name:  "DuplicateNameFirstWins",
			nodes: []Node[string]{n("a"), n("b", "a"), n("a", "b")},
			want:  map[string]int{"a": 0, "b": 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AssignLayers(tt.nodes)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("AssignLayers() = %v, want %v", got, tt.want)
			}
		})
	}
}

// recursiveLayers is the direct recursive formulation, used as an oracle.
func recursiveLayers(nodes []Node[string]) map[string]int {
	exists := map[string]bool{}
	deps := map[string][]string{}
	var order []string
	for _, nd := range nodes {
		if exists[nd.Name] {
			continue
		}
		exists[nd.Name] = true
		order = append(order, nd.Name)
	}
	for _, nd := range nodes {
		if _, ok := deps[nd.Name]; ok {
			continue
		}
		var ds []string
		seen := map[string]bool{}
		for _, d := range nd.Deps {
			if exists[d] && !seen[d] {
				seen[d] = true
				ds = append(ds, d)
			}
		}
		deps[nd.Name] = ds
	}

	visited := map[string]bool{}
	layers := map[string]int{}
	var assign func(string) int
	assign = func(name string) int {
		if l, ok := layers[name]; ok {
			return l
		}
		if visited[name] {
			return 0
		}
		visited[name] = true
		best := -1
		for _, d := range deps[name] {
			best = max(best, assign(d))
		}
		layers[name] = best + 1
		return best + 1
	}
	for _, name := range order {
		assign(name)
	}
	return layers
}

func randomNodes(r *rand.Rand, size int, edgeProb float64) []Node[string] {
	nodes := make([]Node[string], size)
	for i := range nodes {
		nodes[i].Name = fmt.Sprintf("p%d", i)
		for j := range size {
			if r.Float64() < edgeProb {
				nodes[i].Deps = append(nodes[i].Deps, fmt.Sprintf("p%d", j))
			}
		}
		if r.Float64() < 0.2 {
			nodes[i].Deps = append(nodes[i].Deps, "ghost")
		}
	}
	return nodes
}

func TestAssignLayersMatchesRecursion(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for trial := range 200 {
		nodes := randomNodes(r, 1+r.IntN(12), 0.25)
		got := AssignLayers(nodes)
		want := recursiveLayers(nodes)
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("trial %d: AssignLayers() = %v, recursive = %v", trial, got, want)
		}
	}
}

func TestAssignLayersDeepChain(t *testing.T) {
	const depth = 200000
	nodes := make([]Node[string], depth)
	for i := range nodes {
		nodes[i].Name = fmt.Sprintf("n%d", i)
		if i+1 < depth {
			nodes[i].Deps = []string{fmt.Sprintf("n%d", i+1)}
		}
	}

	layers := AssignLayers(nodes)
	if got := layers["n0"]; got != depth-1 {
		t.Errorf("layer(n0) = %d, want %d", got, depth-1)
	}
	if got := layers[fmt.Sprintf("n%d", depth-1)]; got != 0 {
		t.Errorf("layer(last) = %d, want 0", got)
	}
}

func TestComputeEmpty(t *testing.T) {
	for _, cfg := range []Config{DefaultConfig, CompactConfig} {
		l := Compute[string](nil, cfg)
		if len(l.Nodes) != 0 || len(l.Edges) != 0 {
			t.Errorf("nodes=%d edges=%d, want empty", len(l.Nodes), len(l.Edges))
		}
		if l.Edges == nil {
			t.Error("Edges should be an empty slice, not nil")
		}
		if l.Width != cfg.MinWidth {
			t.Errorf("width = %v, want %v", l.Width, cfg.MinWidth)
		}
		if want := cfg.NodeHeight + 2*cfg.Pad; l.Height != want {
			t.Errorf("height = %v, want %v", l.Height, want)
		}
		if l.Layers() != nil {
			t.Errorf("Layers() = %v, want nil", l.Layers())
		}
	}
}

func TestComputeZeroConfigUsesDefault(t *testing.T) {
	l := Compute([]Node[string]{n("a")}, Config{})
	if l.Config != DefaultConfig {
		t.Errorf("config = %+v, want DefaultConfig", l.Config)
	}
}

func TestComputeScenario(t *testing.T) {
	l := Compute([]Node[string]{n("A"), n("B", "A"), n("C", "A", "B")}, DefaultConfig)

	want := []struct {
		name  string
		layer int
		x, y  float64
	}{
		{"A", 0, 90, 24},
		{"B", 1, 90, 140},
		{"C", 2, 90, 256},
	}
	if len(l.Nodes) != len(want) {
		t.Fatalf("nodes = %d, want %d", len(l.Nodes), len(want))
	}
	for i, w := range want {
		got := l.Nodes[i]
		if got.Name != w.name || got.Layer != w.layer || got.X != w.x || got.Y != w.y {
			t.Errorf("node %d = %+v, want %+v", i, got, w)
		}
		if got.Payload != "payload:"+w.name {
			t.Errorf("node %s payload = %q", got.Name, got.Payload)
		}
	}
	if l.Width != 320 || l.Height != 332 {
		t.Errorf("canvas = %vx%v, want 320x332", l.Width, l.Height)
	}

	wantEdges := []Edge{{"B", "A"}, {"C", "A"}, {"C", "B"}}
	if !reflect.DeepEqual(l.Edges, wantEdges) {
		t.Errorf("edges = %v, want %v", l.Edges, wantEdges)
	}
}

func TestComputeCentersRows(t *testing.T) {
	l := Compute([]Node[string]{n("a"), n("b"), n("c", "a", "b")}, DefaultConfig)

	if l.Width != 360 || l.Height != 216 {
		t.Fatalf("canvas = %vx%v, want 360x216", l.Width, l.Height)
	}
	pos := map[string][2]float64{}
	for _, nd := range l.Nodes {
		pos[nd.Name] = [2]float64{nd.X, nd.Y}
	}
	want := map[string][2]float64{
		"a": {24, 24},
		"b": {196, 24},
		"c": {110, 140},
	}
	if !reflect.DeepEqual(pos, want) {
		t.Errorf("positions = %v, want %v", pos, want)
	}
}

func TestComputeTiesFollowInputOrder(t *testing.T) {
	l := Compute([]Node[string]{n("zeta"), n("alpha"), n("mid")}, CompactConfig)
	got := l.Layers()
	want := [][]string{{"zeta", "alpha", "mid"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Layers() = %v, want %v", got, want)
	}
}

func TestComputeCycleTerminates(t *testing.T) {
	tests := []struct {
		name  string
		nodes []Node[string]
	}{
		{"SelfLoop", []Node[string]{n("a", "a")}},
		{"Mutual", []Node[string]{n("X", "Y"), n("Y", "X")}},
		{"Triangle", []Node[string]{n("a", "b"), n("b", "c"), n("c", "a"), n("d", "a")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Compute(tt.nodes, DefaultConfig)
			if len(l.Nodes) != len(tt.nodes) {
				t.Fatalf("nodes = %d, want %d", len(l.Nodes), len(tt.nodes))
			}
			for _, nd := range l.Nodes {
				if nd.Layer < 0 || nd.Layer > len(tt.nodes) {
					t.Errorf("node %s has layer %d", nd.Name, nd.Layer)
				}
			}
			if len(l.Connectors()) != len(l.Edges) {
				t.Errorf("connectors = %d, edges = %d", len(l.Connectors()), len(l.Edges))
			}
		})
	}
}

func TestComputeProperties(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for trial := range 100 {
		nodes := randomDAG(r, 1+r.IntN(30))
		cfg := DefaultConfig
		if trial%2 == 1 {
			cfg = CompactConfig
		}
		l := Compute(nodes, cfg)
		checkProperties(t, nodes, l)

		if again := Compute(nodes, cfg); !reflect.DeepEqual(l, again) {
			t.Fatalf("trial %d: layout is not deterministic", trial)
		}
	}
}

// randomDAG builds an acyclic input where node i only depends on j > i.
func randomDAG(r *rand.Rand, size int) []Node[string] {
	nodes := make([]Node[string], size)
	for i := range nodes {
		nodes[i].Name = fmt.Sprintf("p%d", i)
		for j := i + 1; j < size; j++ {
			if r.Float64() < 0.15 {
				nodes[i].Deps = append(nodes[i].Deps, fmt.Sprintf("p%d", j))
			}
		}
		if r.Float64() < 0.3 {
			nodes[i].Deps = append(nodes[i].Deps, "not-in-set")
		}
	}
	r.Shuffle(len(nodes), func(a, b int) { nodes[a], nodes[b] = nodes[b], nodes[a] })
	return nodes
}

func checkProperties(t *testing.T, nodes []Node[string], l Layout[string]) {
	t.Helper()
	cfg := l.Config

	byName := map[string]Positioned[string]{}
	for _, nd := range l.Nodes {
		if _, dup := byName[nd.Name]; dup {
			t.Fatalf("node %s appears twice", nd.Name)
		}
		byName[nd.Name] = nd
	}
	if len(byName) != len(nodes) {
		t.Fatalf("got %d nodes, want %d", len(byName), len(nodes))
	}

	for _, e := range l.Edges {
		from, okFrom := byName[e.From]
		to, okTo := byName[e.To]
		if !okFrom || !okTo {
			t.Fatalf("edge %v references a missing node", e)
		}
		if from.Layer <= to.Layer {
			t.Errorf("edge %s->%s: layer %d <= %d", e.From, e.To, from.Layer, to.Layer)
		}
	}

	for i, a := range l.Nodes {
		if a.Y != cfg.Pad+float64(a.Layer)*(cfg.NodeHeight+cfg.VGap) {
			t.Errorf("node %s: y = %v for layer %d", a.Name, a.Y, a.Layer)
		}
		if a.X < 0 || a.X+cfg.NodeWidth > l.Width {
			t.Errorf("node %s: x = %v outside canvas %v", a.Name, a.X, l.Width)
		}
		for _, b := range l.Nodes[i+1:] {
			if a.Layer != b.Layer {
				continue
			}
			left, right := a, b
			if right.X < left.X {
				left, right = right, left
			}
			if left.X+cfg.NodeWidth+cfg.HGap > right.X {
				t.Errorf("nodes %s and %s overlap in layer %d", a.Name, b.Name, a.Layer)
			}
		}
	}

	wantHeight := float64(l.MaxLayer()+1)*(cfg.NodeHeight+cfg.VGap) - cfg.VGap + 2*cfg.Pad
	if l.Height != wantHeight {
		t.Errorf("height = %v, want %v", l.Height, wantHeight)
	}
}

func TestConnectors(t *testing.T) {
	l := Compute([]Node[string]{n("a"), n("b"), n("c", "a", "b", "ghost")}, DefaultConfig)
	got := l.Connectors()
	want := []Connector{
		{From: "c", To: "a", Start: Point{180, 192}, End: Point{94, 24}},
		{From: "c", To: "b", Start: Point{180, 192}, End: Point{266, 24}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Connectors() = %+v, want %+v", got, want)
	}
}

func TestConnectorsSkipUnresolved(t *testing.T) {
	l := Layout[string]{
		Nodes:  []Positioned[string]{{Name: "a"}},
		Edges:  []Edge{{From: "a", To: "gone"}, {From: "gone", To: "a"}},
		Config: CompactConfig,
	}
	if got := l.Connectors(); len(got) != 0 {
		t.Errorf("Connectors() = %v, want none", got)
	}
}

func TestLayoutNode(t *testing.T) {
	l := Compute([]Node[string]{n("a"), n("b", "a")}, CompactConfig)
	if nd, ok := l.Node("b"); !ok || nd.Layer != 1 {
		t.Errorf("Node(b) = %+v, %v", nd, ok)
	}
	if _, ok := l.Node("missing"); ok {
		t.Error("Node(missing) should not be found")
	}
}

func TestComputeRepeatedDependencySingleEdge(t *testing.T) {
	l := Compute([]Node[string]{n("db"), n("api", "db", "db", "db")}, DefaultConfig)
	want := []Edge{{From: "api", To: "db"}}
	if !reflect.DeepEqual(l.Edges, want) {
		t.Errorf("Edges = %v, want %v", l.Edges, want)
	}
}

func TestPlaceMatchesCompute(t *testing.T) {
	nodes := []Node[string]{n("api", "auth", "db"), n("auth", "db"), n("db"), n("web", "api")}
	got := Place(nodes, AssignLayers(nodes), CompactConfig)
	want := Compute(nodes, CompactConfig)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Place() = %+v\nwant %+v", got, want)
	}
}

func TestPlaceMissingLayers(t *testing.T) {
	nodes := []Node[string]{n("a", "b"), n("b")}
	l := Place(nodes, map[string]int{"a": 1, "b": -3}, DefaultConfig)

	a, _ := l.Node("a")
	b, _ := l.Node("b")
	if a.Layer != 1 || b.Layer != 0 {
		t.Errorf("layers = a:%d b:%d, want a:1 b:0", a.Layer, b.Layer)
	}

	l = Place(nodes, nil, DefaultConfig)
	if l.MaxLayer() != 0 || len(l.Layers()[0]) != 2 {
		t.Errorf("nil layers should place everything in layer 0, got %v", l.Layers())
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"default", DefaultConfig, false},
		{"compact", CompactConfig, false},
		{"zero gaps", Config{NodeWidth: 10, NodeHeight: 10}, false},
		{"zero width", Config{NodeHeight: 10}, true},
		{"negative height", Config{NodeWidth: 10, NodeHeight: -1}, true},
		{"negative gap", Config{NodeWidth: 10, NodeHeight: 10, VGap: -1}, true},
		{"negative pad", Config{NodeWidth: 10, NodeHeight: 10, Pad: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("error %v does not wrap ErrInvalidConfig", err)
			}
		})
	}
}
