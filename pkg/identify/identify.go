package identify

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/causaltower/pkg/admg"
	"github.com/matzehuels/causaltower/pkg/expr"
	"github.com/matzehuels/causaltower/pkg/fixseq"
	"github.com/matzehuels/causaltower/pkg/nodeset"
	"github.com/matzehuels/causaltower/pkg/observability"
)

var (
	// ErrNoIntervention is returned when the intervention set X is empty.
	ErrNoIntervention = errors.New("intervention set must not be empty")

	// ErrOverlap is returned when the effect set Y shares a node with X.
	ErrOverlap = errors.New("effect and intervention sets overlap")

	// ErrInvalidMode is returned for a selection mode other than the four
	// defined ones.
	ErrInvalidMode = errors.New("invalid selection mode")
)

// Mode selects which identified formulas are kept when several legal
// fixing sequences exist.
type Mode string

const (
	// ModeShortest keeps the formula with the fewest factors.
	ModeShortest Mode = "shortest"
	// ModeMostMrg keeps the formula with the most marginalized variables.
	ModeMostMrg Mode = "mostmrg"
	// ModeRandom follows a single arbitrary legal sequence per district.
	ModeRandom Mode = "random"
	// ModeAll keeps every distinct formula.
	ModeAll Mode = "all"
)

// Modes lists the valid modes in display order.
var Modes = []Mode{ModeShortest, ModeMostMrg, ModeRandom, ModeAll}

// ParseMode converts s to a Mode, returning ErrInvalidMode if unknown.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q (want shortest, mostmrg, random or all)", ErrInvalidMode, s)
}

// Options configure [Identify].
type Options struct {
	Mode Mode `json:"mode"`

	// Greedy selects per district before combining. Otherwise every
	// combination of district formulas is built and selection is global.
	Greedy bool `json:"greedy"`

	// Seed drives the random branch choice of ModeRandom.
	Seed uint64 `json:"seed"`

	// Parallelism bounds how many district searches run at once.
	// Zero means runtime.GOMAXPROCS(0).
	Parallelism int `json:"parallelism,omitempty"`
}

// DefaultOptions returns the options used when the caller sets none.
func DefaultOptions() Options {
	return Options{Mode: ModeShortest, Greedy: true, Seed: fixseq.DefaultSeed}
}

// Candidate is one identified formula and the fixing order used in each
// district to obtain it, parallel to Result.Districts.
type Candidate struct {
	Eqn       expr.Eqn   `json:"eqn"`
	Sequences [][]string `json:"sequences"`
}

// Result is the outcome of an identification query. Not identifiable is a
// normal outcome: Identifiable is false and Candidates is empty.
type Result struct {
	Identifiable bool          `json:"identifiable"`
	YStar        nodeset.Set   `json:"ystar"`
	Districts    []nodeset.Set `json:"districts"`
	Candidates   []Candidate   `json:"candidates,omitempty"`
}

// Best returns the first candidate. It panics if there is none.
func (r *Result) Best() Candidate { return r.Candidates[0] }

// PreInterventionAncestors returns Y*: the ancestors of y in the graph
// induced by V ∖ x. An empty y means V ∖ x.
func PreInterventionAncestors(g *admg.ADMG, x, y nodeset.Set) (nodeset.Set, error) {
	if err := g.Check(x.Union(y)); err != nil {
		return nil, err
	}
	rest := g.Nodes().Diff(x)
	if y.Empty() {
		y = rest
	}
	sub, err := g.Subgraph(rest)
	if err != nil {
		return nil, err
	}
	return sub.Ancestors(y.Diff(x))
}

// Identify decides whether p(y | do(x)) is identifiable in g and, if so,
// returns formulas for it. It implements the fixing form of the ID
// algorithm: for each district D of G[Y*], search for legal orders fixing
// V ∖ D, replay each order algebraically, then combine one formula per
// district and sum out Y* ∖ y.
//
// District searches run concurrently; each works on its own clones of g.
func Identify(ctx context.Context, g *admg.ADMG, x, y nodeset.Set, opts Options) (*Result, error) {
	if x.Empty() {
		return nil, ErrNoIntervention
	}
	if err := g.Check(x.Union(y)); err != nil {
		return nil, err
	}
	if !x.Disjoint(y) {
		return nil, fmt.Errorf("%w: %v", ErrOverlap, x.Intersect(y))
	}
	if opts.Mode == "" {
		opts.Mode = ModeShortest
	}
	if _, err := ParseMode(string(opts.Mode)); err != nil {
		return nil, err
	}
	if !g.IsAcyclic() {
		return nil, admg.ErrGraphHasCycle
	}
	if y.Empty() {
		y = g.Nodes().Diff(x)
	}

	ystar, err := PreInterventionAncestors(g, x, y)
	if err != nil {
		return nil, err
	}
	gy, err := g.Subgraph(ystar)
	if err != nil {
		return nil, err
	}
	districts := gy.Districts()
	res := &Result{YStar: ystar, Districts: districts}

	perDistrict, ok, err := searchDistricts(ctx, g, districts, opts)
	if err != nil || !ok {
		return res, err
	}

	res.Identifiable = true
	base := expr.Expr{Mrg: ystar.Diff(y)}
	for _, pick := range choose(perDistrict, opts) {
		parts := []expr.Expr{base}
		seqs := make([][]string, len(pick))
		for i, c := range pick {
			parts = append(parts, c.expr)
			seqs[i] = c.seq
		}
		rhs := expr.Combine(parts...)
		rhs.Simplify()
		res.Candidates = append(res.Candidates, Candidate{
			Eqn:       expr.NewEqn(y, x, rhs),
			Sequences: seqs,
		})
	}
	if !opts.Greedy || opts.Mode == ModeAll {
		res.Candidates = selectGlobal(res.Candidates, opts.Mode)
	}
	return res, nil
}

// districtExpr is one district formula with the sequence that produced it.
type districtExpr struct {
	expr expr.Expr
	seq  []string
}

// searchDistricts runs one fixing search per district. ok is false if any
// district has no legal sequence.
func searchDistricts(ctx context.Context, g *admg.ADMG, districts []nodeset.Set, opts Options) ([][]districtExpr, bool, error) {
	out := make([][]districtExpr, len(districts))
	found := make([]bool, len(districts))

	eg, ctx := errgroup.WithContext(ctx)
	limit := opts.Parallelism
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	eg.SetLimit(limit)

	for i, d := range districts {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewPCG(opts.Seed, uint64(i)))
			res, tree, err := fixseq.Search(ctx, g, d, fixseq.Options{Degrade: opts.Mode == ModeRandom, Rand: rng})
			if err != nil {
				if ctx.Err() != nil {
					return err
				}
				return fmt.Errorf("district %v: %w", d, err)
			}
			observability.Query().OnSearch(ctx, d.String(), len(res.Sequences), tree.Len())
			if !res.Identifiable {
				return nil
			}
			found[i] = true
			seen := make(map[string]bool)
			for k, seq := range res.Sequences {
				if err := ctx.Err(); err != nil {
					return err
				}
				e := Replay(g, seq, res.Graphs[k])
				if key := e.Key(); !seen[key] {
					seen[key] = true
					out[i] = append(out[i], districtExpr{expr: e, seq: seq})
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, false, err
	}
	for _, f := range found {
		if !f {
			return nil, false, nil
		}
	}
	return out, true, nil
}

// Replay turns a fixing sequence into a district formula. Starting from the
// joint p(V), each node is either summed out (no children left) or fixed on
// its district parents, both read from the graph as it stood before that
// step. graphs[k] is the graph after fixing seq[k].
func Replay(g *admg.ADMG, seq []string, graphs []*admg.ADMG) expr.Expr {
	e := expr.Joint(g.Nodes())
	before := g
	for k, v := range seq {
		ch, _ := before.Children(nodeset.New(v))
		if ch.Empty() {
			e = e.FixMarginal(v)
		} else {
			blanket, _ := before.DistrictParents(v)
			e = e.Fix(v, blanket)
		}
		before = graphs[k]
	}
	e.Simplify()
	return e
}
