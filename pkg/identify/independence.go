package identify

import (
	"github.com/matzehuels/causaltower/pkg/admg"
	"github.com/matzehuels/causaltower/pkg/condind"
	"github.com/matzehuels/causaltower/pkg/nodeset"
	"github.com/matzehuels/causaltower/pkg/separation"
)

// LocalMarkov returns the local Markov independences of a DAG: each node is
// independent of its non-descendants given its parents. Nodes whose
// non-descendants are all parents contribute nothing. ok is false when g has
// a bidirected edge.
func LocalMarkov(g *admg.ADMG) (cis *condind.Set, ok bool) {
	if !g.IsDAG() {
		return nil, false
	}
	cis = condind.NewSet()
	for _, v := range g.Names() {
		s := nodeset.New(v)
		pa, _ := g.Parents(s)
		nd, _ := g.NonDescendants(s)
		if rest := nd.Diff(s, pa); !rest.Empty() {
			cis.Add(condind.New(s, rest, pa))
		}
	}
	return cis, true
}

// Separation is the outcome of a separation test. Statement is set only when
// the test applies and the sets are separated.
type Separation struct {
	Applicable bool             `json:"applicable"`
	Separated  bool             `json:"separated"`
	Statement  *condind.CondInd `json:"statement,omitempty"`
}

// DSeparate tests whether every x in xs is d-separated from every y in ys
// given z. It applies only to DAGs. On success the statement is
// (xs ⊥ ys ∖ xs | z).
func DSeparate(g *admg.ADMG, xs, ys, z nodeset.Set) (Separation, error) {
	if !g.IsDAG() {
		if err := g.Check(xs.Union(ys, z)); err != nil {
			return Separation{}, err
		}
		return Separation{}, nil
	}
	return separate(g, xs, ys, z, separation.IsDSeparated)
}

// MSeparate is DSeparate for ADMGs using m-separation. It always applies.
func MSeparate(g *admg.ADMG, xs, ys, z nodeset.Set) (Separation, error) {
	return separate(g, xs, ys, z, separation.IsMSeparated)
}

type separatedFunc func(*admg.ADMG, string, string, nodeset.Set) (bool, error)

func separate(g *admg.ADMG, xs, ys, z nodeset.Set, test separatedFunc) (Separation, error) {
	if err := g.Check(xs.Union(ys, z)); err != nil {
		return Separation{}, err
	}
	res := Separation{Applicable: true}
	for _, x := range xs.Sorted() {
		for _, y := range ys.Sorted() {
			sep, err := test(g, x, y, z)
			if err != nil {
				return Separation{}, err
			}
			if !sep {
				return res, nil
			}
		}
	}
	res.Separated = true
	ci := condind.New(xs, ys.Diff(xs), z)
	res.Statement = &ci
	return res, nil
}
