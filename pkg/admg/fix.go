package admg

import "github.com/matzehuels/causaltower/pkg/nodeset"

// Fix performs graph surgery on v in place: every edge into v is removed, as
// is every bidirected edge at v. Edges out of v are left alone. Fixing an
// already fixed node changes nothing.
//
// Fix is destructive. Callers that need the original graph afterwards should
// fix a [ADMG.Clone].
func (g *ADMG) Fix(v string) error {
	n, ok := g.nodes[v]
	if !ok {
		return unknown(v)
	}
	for p := range n.Parents {
		if pn, ok := g.nodes[p]; ok {
			pn.Children.Remove(v)
		}
	}
	for b := range n.Bidirects {
		if bn, ok := g.nodes[b]; ok {
			bn.Bidirects.Remove(v)
		}
	}
	n.Parents = make(nodeset.Set)
	n.Bidirects = make(nodeset.Set)
	return nil
}

// IsFixable reports whether v may be fixed: no descendant of v other than v
// itself shares v's district.
func (g *ADMG) IsFixable(v string) (bool, error) {
	if !g.Has(v) {
		return false, unknown(v)
	}
	return g.isFixable(v), nil
}

func (g *ADMG) isFixable(v string) bool {
	de := g.closure(nodeset.New(v), childrenOf)
	return g.district(v).Intersect(de).Equal(nodeset.New(v))
}

// FixableSet returns every node that [ADMG.IsFixable] accepts.
func (g *ADMG) FixableSet() nodeset.Set {
	out := make(nodeset.Set)
	for name := range g.nodes {
		if g.isFixable(name) {
			out.Add(name)
		}
	}
	return out
}

// IsDAG reports whether the graph has no bidirected edges.
func (g *ADMG) IsDAG() bool {
	for _, n := range g.nodes {
		if len(n.Bidirects) > 0 {
			return false
		}
	}
	return true
}
