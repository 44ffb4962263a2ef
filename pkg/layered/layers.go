package layered

// graph is the input reduced to unique names and resolvable dependencies.
// Node i corresponds to nodes[order[i]] of the caller's slice.
type graph struct {
	names []string
	order []int
	deps  [][]int
}

// resolve drops duplicate names and dangling or repeated dependencies.
func resolve[T any](nodes []Node[T]) *graph {
	index := make(map[string]int, len(nodes))
	g := &graph{}
	for i, n := range nodes {
		if _, dup := index[n.Name]; dup {
			continue
		}
		index[n.Name] = len(g.names)
		g.names = append(g.names, n.Name)
		g.order = append(g.order, i)
	}

	g.deps = make([][]int, len(g.names))
	for i, src := range g.order {
		seen := make(map[int]bool, len(nodes[src].Deps))
		for _, name := range nodes[src].Deps {
			j, ok := index[name]
			if !ok || seen[j] {
				continue
			}
			seen[j] = true
			g.deps[i] = append(g.deps[i], j)
		}
	}
	return g
}

// edges returns the resolved dependency edges in input order.
func (g *graph) edges() []Edge {
	var out []Edge
	for i, deps := range g.deps {
		for _, j := range deps {
			out = append(out, Edge{From: g.names[i], To: g.names[j]})
		}
	}
	if out == nil {
		out = []Edge{}
	}
	return out
}

// frame is one pending evaluation of layer(node).
// best is the highest dependency layer seen so far, -1 if none.
type frame struct {
	node int
	next int
	best int
}

// layers computes longest-path layers, visiting roots in input order.
//
// This is the memoized depth-first recursion
//
//	layer(n) = cached            if n is finalized
//	         = 0 (not cached)    if n is in progress (cycle)
//	         = 1 + max(layer(d)) over dependencies d, or 0 without any
//
// unrolled onto an explicit stack. Dependencies are evaluated in list order,
// so cycle breaking happens at exactly the same places as in the recursive
// form.
func (g *graph) layers() []int {
	n := len(g.names)
	layer := make([]int, n)
	for i := range layer {
		layer[i] = -1
	}
	active := make([]bool, n)
	var stack []frame

	for root := range n {
		if layer[root] >= 0 {
			continue
		}
		active[root] = true
		stack = append(stack[:0], frame{node: root, best: -1})

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next < len(g.deps[top.node]) {
				d := g.deps[top.node][top.next]
				top.next++
				switch {
				case layer[d] >= 0:
					top.best = max(top.best, layer[d])
				case active[d]:
					top.best = max(top.best, 0)
				default:
					active[d] = true
					stack = append(stack, frame{node: d, best: -1})
				}
				continue
			}

			done := top.node
			layer[done] = top.best + 1
			active[done] = false
			stack = stack[:len(stack)-1]
			if len(stack) > 0 {
				parent := &stack[len(stack)-1]
				parent.best = max(parent.best, layer[done])
			}
		}
	}
	return layer
}
