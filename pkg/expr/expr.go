package expr

import (
	"slices"
	"strings"

	"github.com/matzehuels/causaltower/pkg/nodeset"
)

// Prime is appended to a variable name to make a fresh dummy variable.
const Prime = "'"

// Expr is a ratio of products of probability factors, summed over the
// marginal variables:
//
//	Σ_{Mrg} Π p(Num[i]) / Π p(Den[j])
//
// Each term is the argument set of one factor. Terms are never empty.
type Expr struct {
	Num []nodeset.Set `json:"num"`
	Den []nodeset.Set `json:"den"`
	Mrg nodeset.Set   `json:"mrg"`
}

// Joint returns the unfactored joint distribution p(vars).
func Joint(vars nodeset.Set) Expr {
	var e Expr
	e.AddTerm(vars, nil, "")
	return e
}

// AddTerm appends num to the numerator, den to the denominator and mrg to
// the marginal set. Empty arguments are skipped, so no empty factor is ever
// stored. The sets are copied.
func (e *Expr) AddTerm(num, den nodeset.Set, mrg string) {
	if !num.Empty() {
		e.Num = append(e.Num, num.Clone())
	}
	if !den.Empty() {
		e.Den = append(e.Den, den.Clone())
	}
	if mrg != "" {
		if e.Mrg == nil {
			e.Mrg = make(nodeset.Set)
		}
		e.Mrg.Add(mrg)
	}
}

// Clone returns a deep copy of e.
func (e Expr) Clone() Expr {
	return Expr{
		Num: cloneTerms(e.Num),
		Den: cloneTerms(e.Den),
		Mrg: e.Mrg.Clone(),
	}
}

func cloneTerms(terms []nodeset.Set) []nodeset.Set {
	if terms == nil {
		return nil
	}
	out := make([]nodeset.Set, len(terms))
	for i, t := range terms {
		out[i] = t.Clone()
	}
	return out
}

// Vars returns every variable that occurs anywhere in e.
func (e Expr) Vars() nodeset.Set {
	return e.Mrg.Union(e.Num...).Union(e.Den...)
}

// Rename returns a copy of e with every occurrence of from replaced by to,
// in the numerator, the denominator and the marginal set.
func (e Expr) Rename(from, to string) Expr {
	out := Expr{Mrg: e.Mrg.Replace(from, to)}
	for _, t := range e.Num {
		out.Num = append(out.Num, t.Replace(from, to))
	}
	for _, t := range e.Den {
		out.Den = append(out.Den, t.Replace(from, to))
	}
	return out
}

// Fresh returns name with primes appended until it does not occur in any of
// the given expressions.
func Fresh(name string, in ...Expr) string {
	used := make(nodeset.Set)
	for _, e := range in {
		used = used.Union(e.Vars())
	}
	fresh := name + Prime
	for used.Has(fresh) {
		fresh += Prime
	}
	return fresh
}

// Fix is the algebraic counterpart of fixing node in the graph. With an empty
// blanket node is divided out as a marginal p(node); otherwise the result
// gains p(blanket) / p(blanket ∪ {node}), turning the node's factor into a
// conditional on its blanket.
func (e Expr) Fix(node string, blanket nodeset.Set) Expr {
	out := e.Clone()
	if blanket.Empty() {
		out.AddTerm(nil, nodeset.New(node), "")
		return out
	}
	out.AddTerm(blanket, blanket.With(node), "")
	return out
}

// FixMarginal fixes a node that has no children left by summing it out. The
// variable is renamed to a fresh primed name first, so it cannot clash with
// another occurrence of the original name once the expression is combined.
func (e Expr) FixMarginal(node string) Expr {
	fresh := Fresh(node, e)
	out := e.Rename(node, fresh)
	out.AddTerm(nil, nil, fresh)
	return out
}

// Size is the total number of factors in the numerator and denominator.
func (e Expr) Size() int { return len(e.Num) + len(e.Den) }

// Key returns a canonical string for the (numerator, denominator) pair. Two
// expressions with the same factors in any order have the same key. The
// marginal set is not part of the key.
func (e Expr) Key() string {
	return termsKey(e.Num) + "/" + termsKey(e.Den)
}

func termsKey(terms []nodeset.Set) string {
	keys := make([]string, len(terms))
	for i, t := range terms {
		keys[i] = strings.Join(t.Sorted(), ",")
	}
	slices.Sort(keys)
	return strings.Join(keys, ";")
}

// Equal reports whether e and o have the same factors, as multisets, and
// the same marginal set.
func (e Expr) Equal(o Expr) bool {
	return e.Key() == o.Key() && e.Mrg.Equal(o.Mrg)
}
