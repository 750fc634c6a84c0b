package expr

import (
	"cmp"
	"slices"

	"github.com/matzehuels/causaltower/pkg/nodeset"
)

// Factor is one conditional probability p(Vars | Given). Given is empty for
// a plain marginal factor.
type Factor struct {
	Vars  nodeset.Set `json:"vars"`
	Given nodeset.Set `json:"given"`
}

// CondForm is an expression rewritten with numerator/denominator pairs folded
// into conditional factors. Den holds the denominator terms that were not
// absorbed.
type CondForm struct {
	Mrg     nodeset.Set   `json:"mrg"`
	Factors []Factor      `json:"factors"`
	Den     []nodeset.Set `json:"den"`
}

// Conditional groups e into conditional form. Numerator terms are visited
// from largest to smallest; each is paired with the largest remaining
// denominator term that is a subset of it, giving p(num − den | den).
// Numerator terms with no such partner stay as plain factors.
func (e Expr) Conditional() CondForm {
	num := bySize(e.Num)
	den := bySize(e.Den)

	form := CondForm{Mrg: e.Mrg.Clone()}
	for _, n := range num {
		i := slices.IndexFunc(den, func(d nodeset.Set) bool { return d.SubsetOf(n) })
		if i < 0 {
			form.Factors = append(form.Factors, Factor{Vars: n.Clone(), Given: nodeset.New()})
			continue
		}
		form.Factors = append(form.Factors, Factor{Vars: n.Diff(den[i]), Given: den[i].Clone()})
		den = remove(den, i)
	}
	form.Den = den
	return form
}

// bySize orders terms largest first. Equal sizes fall back to the sorted
// member list so the result does not depend on insertion order.
func bySize(terms []nodeset.Set) []nodeset.Set {
	out := cloneTerms(terms)
	slices.SortStableFunc(out, func(a, b nodeset.Set) int {
		if c := cmp.Compare(b.Len(), a.Len()); c != 0 {
			return c
		}
		return slices.Compare(a.Sorted(), b.Sorted())
	})
	return out
}
