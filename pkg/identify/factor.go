package identify

import (
	"context"

	"github.com/matzehuels/causaltower/pkg/admg"
	"github.com/matzehuels/causaltower/pkg/expr"
	"github.com/matzehuels/causaltower/pkg/fixseq"
	"github.com/matzehuels/causaltower/pkg/nodeset"
)

// IDFixing identifies p(y | do(x)) along a single arbitrary legal fixing
// sequence per district.
func IDFixing(ctx context.Context, g *admg.ADMG, x, y nodeset.Set) (*Result, error) {
	return Identify(ctx, g, x, y, Options{Mode: ModeRandom, Greedy: true, Seed: fixseq.DefaultSeed})
}

// IDFixAll identifies p(y | do(x)) by searching every legal fixing sequence
// and selecting among the resulting formulas by mode.
func IDFixAll(ctx context.Context, g *admg.ADMG, x, y nodeset.Set, mode Mode, greedy bool) (*Result, error) {
	return Identify(ctx, g, x, y, Options{Mode: mode, Greedy: greedy, Seed: fixseq.DefaultSeed})
}

// DAGFactor is the chain-rule factorization of a DAG,
// p(y) = Σ_{V∖y} Π_v p(v | pa(v)). An empty y means every node. ok is false
// when g has a bidirected edge.
func DAGFactor(g *admg.ADMG, y nodeset.Set, simplify bool) (eqn expr.Eqn, ok bool, err error) {
	if err := g.Check(y); err != nil {
		return expr.Eqn{}, false, err
	}
	if !g.IsDAG() {
		return expr.Eqn{}, false, nil
	}
	if y.Empty() {
		y = g.Nodes()
	}
	e := chainFactor(g)
	e.Mrg = g.Nodes().Diff(y)
	if simplify {
		e.Simplify()
	}
	return expr.NewEqn(y, nil, e), true, nil
}

func chainFactor(g *admg.ADMG) expr.Expr {
	var e expr.Expr
	for _, v := range g.Names() {
		pa, _ := g.Parents(nodeset.New(v))
		e.AddTerm(pa.With(v), pa, "")
	}
	return e
}

// TruncFactor is the truncated factorization (g-formula) of a DAG for
// p(y | do(x)). It starts from the simplified chain factorization when
// prefactor is set and from the bare joint otherwise, then fixes each node
// of x in name order. An empty y means V ∖ x. ok is false when g has a
// bidirected edge.
func TruncFactor(g *admg.ADMG, x, y nodeset.Set, prefactor bool) (eqn expr.Eqn, ok bool, err error) {
	if x.Empty() {
		return expr.Eqn{}, false, ErrNoIntervention
	}
	if err := g.Check(x.Union(y)); err != nil {
		return expr.Eqn{}, false, err
	}
	if !g.IsDAG() {
		return expr.Eqn{}, false, nil
	}

	var e expr.Expr
	if prefactor {
		e = chainFactor(g)
		e.Simplify()
	} else {
		e = expr.Joint(g.Nodes())
	}

	fixed := g.Clone()
	for _, v := range x.Sorted() {
		ch, _ := fixed.Children(nodeset.New(v))
		if ch.Empty() {
			e = e.FixMarginal(v)
		} else {
			blanket, _ := fixed.DistrictParents(v)
			e = e.Fix(v, blanket)
		}
		_ = fixed.Fix(v)
	}
	e.Simplify()

	if y.Empty() {
		y = g.Nodes().Diff(x)
	}
	rhs := expr.Combine(expr.Expr{Mrg: g.Nodes().Diff(y, x)}, e)
	rhs.Simplify()
	return expr.NewEqn(y, x, rhs), true, nil
}

// ADMGFactor is Tian's factorization of an ADMG. Each node v, taken in
// topological order, contributes p(v | shield) where the shield is the
// district of v among the nodes up to v, together with that district's
// parents, minus v. It is defined for every acyclic graph. An empty y means
// every node.
func ADMGFactor(g *admg.ADMG, y nodeset.Set) (expr.Eqn, error) {
	if err := g.Check(y); err != nil {
		return expr.Eqn{}, err
	}
	if !g.IsAcyclic() {
		return expr.Eqn{}, admg.ErrGraphHasCycle
	}
	if y.Empty() {
		y = g.Nodes()
	}

	e := expr.Expr{Mrg: g.Nodes().Diff(y)}
	order := g.TopologicalOrder()
	for i, v := range order {
		prefix, err := g.Subgraph(nodeset.New(order[:i+1]...))
		if err != nil {
			return expr.Eqn{}, err
		}
		d, err := prefix.District(v)
		if err != nil {
			return expr.Eqn{}, err
		}
		pa, _ := g.Parents(d)
		shield := pa.Union(d).Without(v)
		e.AddTerm(shield.With(v), shield, "")
	}
	e.Simplify()
	return expr.NewEqn(y, nil, e), nil
}
