package expr

import "github.com/matzehuels/causaltower/pkg/nodeset"

// Cancel removes, pairwise, every term that occurs in both the numerator and
// the denominator, until no such pair is left. It reports whether anything
// was removed.
func (e *Expr) Cancel() bool {
	changed := false
	for {
		i, j := e.cancellable()
		if i < 0 {
			return changed
		}
		e.Num = remove(e.Num, i)
		e.Den = remove(e.Den, j)
		changed = true
	}
}

func (e *Expr) cancellable() (int, int) {
	for i, n := range e.Num {
		for j, d := range e.Den {
			if n.Equal(d) {
				return i, j
			}
		}
	}
	return -1, -1
}

func remove(terms []nodeset.Set, i int) []nodeset.Set {
	out := make([]nodeset.Set, 0, len(terms)-1)
	out = append(out, terms[:i]...)
	return append(out, terms[i+1:]...)
}

// MarginalizeOut integrates out every marginal variable that occurs in
// exactly one numerator term and in no denominator term: the variable is
// removed from that term and from the marginal set. A term left empty
// integrates to one and is dropped. It reports whether anything changed.
func (e *Expr) MarginalizeOut() bool {
	changed := false
	for _, v := range e.Mrg.Sorted() {
		at, count := -1, 0
		for i, t := range e.Num {
			if t.Has(v) {
				at, count = i, count+1
			}
		}
		if count != 1 || e.inDen(v) {
			continue
		}
		if term := e.Num[at].Without(v); term.Empty() {
			e.Num = remove(e.Num, at)
		} else {
			e.Num[at] = term
		}
		e.Mrg.Remove(v)
		changed = true
	}
	return changed
}

func (e *Expr) inDen(v string) bool {
	for _, t := range e.Den {
		if t.Has(v) {
			return true
		}
	}
	return false
}

// Simplify alternates [Expr.Cancel] and [Expr.MarginalizeOut] until neither
// changes anything. It reports whether e changed at all. Simplify is
// idempotent.
func (e *Expr) Simplify() bool {
	simplified := false
	for {
		c := e.Cancel()
		m := e.MarginalizeOut()
		if !c && !m {
			return simplified
		}
		simplified = true
	}
}

// Simplified returns a simplified copy of e.
func (e Expr) Simplified() Expr {
	out := e.Clone()
	out.Simplify()
	return out
}
