package admg

import (
	"slices"
	"strings"

	"github.com/matzehuels/causaltower/pkg/nodeset"
)

// relation selects one of the three relation sets of a node.
type relation func(*Node) nodeset.Set

var (
	parentsOf   relation = func(n *Node) nodeset.Set { return n.Parents }
	childrenOf  relation = func(n *Node) nodeset.Set { return n.Children }
	bidirectsOf relation = func(n *Node) nodeset.Set { return n.Bidirects }
)

// union collects rel over every member of s. Members are assumed present.
func (g *ADMG) union(s nodeset.Set, rel relation) nodeset.Set {
	out := make(nodeset.Set)
	for name := range s {
		for r := range rel(g.nodes[name]) {
			out[r] = struct{}{}
		}
	}
	return out
}

// closure is the worklist form of the transitive closure of rel starting at
// s, including s itself. Each node is expanded once, so it terminates on
// cyclic input too.
func (g *ADMG) closure(s nodeset.Set, rel relation) nodeset.Set {
	seen := s.Clone()
	frontier := s.Sorted()
	for len(frontier) > 0 {
		name := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		n, ok := g.nodes[name]
		if !ok {
			continue
		}
		for r := range rel(n) {
			if !seen.Has(r) {
				seen.Add(r)
				frontier = append(frontier, r)
			}
		}
	}
	return seen
}

// Parents returns the union of the parent sets of every node in s.
func (g *ADMG) Parents(s nodeset.Set) (nodeset.Set, error) {
	if err := g.Check(s); err != nil {
		return nil, err
	}
	return g.union(s, parentsOf), nil
}

// Children returns the union of the child sets of every node in s.
func (g *ADMG) Children(s nodeset.Set) (nodeset.Set, error) {
	if err := g.Check(s); err != nil {
		return nil, err
	}
	return g.union(s, childrenOf), nil
}

// Bidirects returns the union of the bidirected partners of every node in s.
func (g *ADMG) Bidirects(s nodeset.Set) (nodeset.Set, error) {
	if err := g.Check(s); err != nil {
		return nil, err
	}
	return g.union(s, bidirectsOf), nil
}

// Ancestors returns s together with every node that has a directed path into
// some member of s.
func (g *ADMG) Ancestors(s nodeset.Set) (nodeset.Set, error) {
	if err := g.Check(s); err != nil {
		return nil, err
	}
	return g.closure(s, parentsOf), nil
}

// Descendants returns s together with every node reachable from s by a
// directed path.
func (g *ADMG) Descendants(s nodeset.Set) (nodeset.Set, error) {
	if err := g.Check(s); err != nil {
		return nil, err
	}
	return g.closure(s, childrenOf), nil
}

// NonDescendants returns every node not in Descendants(s).
func (g *ADMG) NonDescendants(s nodeset.Set) (nodeset.Set, error) {
	de, err := g.Descendants(s)
	if err != nil {
		return nil, err
	}
	return g.Nodes().Diff(de), nil
}

// District returns the c-component of v: v plus every node reachable from v
// over bidirected edges only.
func (g *ADMG) District(v string) (nodeset.Set, error) {
	if !g.Has(v) {
		return nil, unknown(v)
	}
	return g.district(v), nil
}

func (g *ADMG) district(v string) nodeset.Set {
	return g.closure(nodeset.New(v), bidirectsOf)
}

// Districts partitions the nodes into districts. The partition is sorted by
// the smallest member of each district.
func (g *ADMG) Districts() []nodeset.Set {
	var out []nodeset.Set
	pool := g.Nodes()
	for !pool.Empty() {
		d := g.district(pool.Min())
		out = append(out, d)
		pool = pool.Diff(d)
	}
	slices.SortFunc(out, func(a, b nodeset.Set) int {
		return strings.Compare(a.Min(), b.Min())
	})
	return out
}

// DistrictParents returns the fixing blanket of v: the parents of its
// district together with the rest of the district.
func (g *ADMG) DistrictParents(v string) (nodeset.Set, error) {
	if !g.Has(v) {
		return nil, unknown(v)
	}
	return g.districtParents(v), nil
}

func (g *ADMG) districtParents(v string) nodeset.Set {
	d := g.district(v)
	return g.union(d, parentsOf).Union(d.Without(v))
}

// MarkovBlanket returns pa(v) ∪ ch(v) ∪ pa(ch(v)) without v. The blanket is
// only defined for DAGs; on a graph with any bidirected edge ok is false and
// the set is nil.
func (g *ADMG) MarkovBlanket(v string) (blanket nodeset.Set, ok bool, err error) {
	if !g.Has(v) {
		return nil, false, unknown(v)
	}
	if !g.IsDAG() {
		return nil, false, nil
	}
	s := nodeset.New(v)
	ch := g.union(s, childrenOf)
	blanket = g.union(s, parentsOf).Union(ch, g.union(ch, parentsOf))
	blanket.Remove(v)
	return blanket, true, nil
}
