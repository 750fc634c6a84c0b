package pipeline

import (
	"context"

	"github.com/matzehuels/causaltower/pkg/admg"
	perrors "github.com/matzehuels/causaltower/pkg/errors"
	"github.com/matzehuels/causaltower/pkg/expr"
	"github.com/matzehuels/causaltower/pkg/identify"
	"github.com/matzehuels/causaltower/pkg/nodeset"
)

// Info summarizes a graph's structure.
type Info struct {
	Title     string     `json:"title,omitempty"`
	Nodes     []NodeInfo `json:"nodes"`
	Districts [][]string `json:"districts"`
	Order     []string   `json:"order,omitempty"` // topological order when acyclic
	Fixable   []string   `json:"fixable"`
	DAG       bool       `json:"dag"`
	Acyclic   bool       `json:"acyclic"`
}

// NodeInfo lists the relations of one node.
type NodeInfo struct {
	Name      string   `json:"name"`
	Parents   []string `json:"parents"`
	Children  []string `json:"children"`
	Bidirects []string `json:"bidirects"`
}

// answer computes the answer to a query without caching. opts must have
// passed ValidateAndSetDefaults.
func answer(ctx context.Context, g *admg.ADMG, opts Options) (*Answer, error) {
	x := nodeset.New(opts.Treatment...)
	y := nodeset.New(opts.Outcome...)
	z := nodeset.New(opts.Conditioned...)
	if err := g.Check(x.Union(y).Union(z)); err != nil {
		return nil, perrors.Classify(err)
	}

	ans := &Answer{Kind: opts.Kind, Title: g.Title(), Applicable: true}
	var err error
	switch opts.Kind {
	case KindIdentify:
		err = answerIdentify(ctx, g, x, y, opts, ans)
	case KindFactor:
		err = answerFactor(g, x, y, opts, ans)
	case KindMarkov:
		answerMarkov(g, opts, ans)
	case KindSeparate:
		err = answerSeparate(g, x, y, z, opts, ans)
	case KindInfo:
		ans.Info = Describe(g)
	}
	if err != nil {
		return nil, perrors.Classify(err)
	}
	return ans, nil
}

func answerIdentify(ctx context.Context, g *admg.ADMG, x, y nodeset.Set, opts Options, ans *Answer) error {
	res, err := identify.Identify(ctx, g, x, y, opts.IdentifyOptions())
	if err != nil {
		return err
	}
	ans.Identify = res
	ans.Identifiable = res.Identifiable
	for _, c := range res.Candidates {
		ans.Formulas = append(ans.Formulas, opts.formula(c.Eqn))
	}
	if res.Identifiable {
		ans.Formula = ans.Formulas[0]
		eqn := res.Best().Eqn
		ans.Eqn = &eqn
	}
	return nil
}

func answerFactor(g *admg.ADMG, x, y nodeset.Set, opts Options, ans *Answer) error {
	var (
		eqn expr.Eqn
		ok  = true
		err error
	)
	switch opts.Method {
	case MethodDAG:
		eqn, ok, err = identify.DAGFactor(g, y, opts.ShouldSimplify())
	case MethodTrunc:
		eqn, ok, err = identify.TruncFactor(g, x, y, opts.ShouldPrefactor())
	case MethodADMG:
		eqn, err = identify.ADMGFactor(g, y)
	}
	if err != nil {
		return err
	}
	ans.Applicable = ok
	if ok {
		ans.Eqn = &eqn
		ans.Formula = opts.formula(eqn)
	}
	return nil
}

func answerMarkov(g *admg.ADMG, opts Options, ans *Answer) {
	cis, ok := identify.LocalMarkov(g)
	ans.Applicable = ok
	if !ok {
		return
	}
	for _, c := range cis.Items() {
		ans.Statements = append(ans.Statements, opts.Printer().CondInd(c))
	}
}

func answerSeparate(g *admg.ADMG, x, y, z nodeset.Set, opts Options, ans *Answer) error {
	separate := identify.DSeparate
	if opts.Criterion == CriterionM {
		separate = identify.MSeparate
	}
	sep, err := separate(g, x, y, z)
	if err != nil {
		return err
	}
	ans.Applicable = sep.Applicable
	ans.Separated = sep.Separated
	if sep.Statement != nil {
		ans.Statements = []string{opts.Printer().CondInd(*sep.Statement)}
	}
	return nil
}

// Describe summarizes the structure of g.
func Describe(g *admg.ADMG) *Info {
	info := &Info{
		Title:   g.Title(),
		Fixable: g.FixableSet().Sorted(),
		DAG:     g.IsDAG(),
		Acyclic: g.IsAcyclic(),
	}
	for _, name := range g.Names() {
		n, _ := g.Node(name)
		info.Nodes = append(info.Nodes, NodeInfo{
			Name:      name,
			Parents:   n.Parents.Sorted(),
			Children:  n.Children.Sorted(),
			Bidirects: n.Bidirects.Sorted(),
		})
	}
	for _, d := range g.Districts() {
		info.Districts = append(info.Districts, d.Sorted())
	}
	if info.Acyclic {
		info.Order = g.TopologicalOrder()
	}
	return info
}
