package admg

import "slices"

type color int

const (
	white color = iota // unvisited
	gray               // on the DFS stack
	black              // finished
)

// frame is one level of the explicit DFS stack: a node and the sorted list of
// children still to visit.
type frame struct {
	name     string
	children []string
}

// walk runs an iterative depth-first search over the directed edges, starting
// from each unvisited node in name order. finish is called in postorder. If
// a back edge is found and stopOnCycle is set, walk returns false at once.
func (g *ADMG) walk(finish func(string), stopOnCycle bool) bool {
	colors := make(map[string]color, len(g.nodes))
	acyclic := true

	for _, root := range g.Names() {
		if colors[root] != white {
			continue
		}
		colors[root] = gray
		stack := []frame{{name: root, children: g.nodes[root].Children.Sorted()}}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if len(top.children) == 0 {
				colors[top.name] = black
				finish(top.name)
				stack = stack[:len(stack)-1]
				continue
			}
			next := top.children[0]
			top.children = top.children[1:]

			n, ok := g.nodes[next]
			if !ok {
				continue
			}
			switch colors[next] {
			case gray:
				acyclic = false
				if stopOnCycle {
					return false
				}
			case white:
				colors[next] = gray
				stack = append(stack, frame{name: next, children: n.Children.Sorted()})
			}
		}
	}
	return acyclic
}

// TopologicalOrder returns every node such that each node precedes all of
// its children: a DFS postorder over all start points, reversed. Ties are
// broken by name, but callers should not rely on a particular tie-break.
//
// On a cyclic graph the result is still a permutation of the nodes, but the
// ordering guarantee does not hold; check [ADMG.IsAcyclic] first.
func (g *ADMG) TopologicalOrder() []string {
	order := make([]string, 0, len(g.nodes))
	g.walk(func(name string) { order = append(order, name) }, false)
	slices.Reverse(order)
	return order
}

// IsAcyclic reports whether the directed part of the graph has no cycle. It
// stops at the first back edge.
func (g *ADMG) IsAcyclic() bool {
	return g.walk(func(string) {}, true)
}
