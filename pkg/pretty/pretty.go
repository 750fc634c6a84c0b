// Package pretty renders expressions, equations and independence statements
// as plain Unicode text or as LaTeX.
//
// Two printers are provided. [Text] is meant for terminals and logs:
//
//	p_{X}(Y) = Σ_{M,X'}[p(Y|M,X')p(M|X)p(X')]
//
// [LaTeX] produces math-mode source for documents and notebooks:
//
//	p_{X}(Y)=\sum_{M,X'}[p(Y|M,X')p(M|X)p(X')]
//
// Variable lists are always sorted, so equal values print identically.
package pretty

import (
	"strings"

	"github.com/matzehuels/causaltower/pkg/condind"
	"github.com/matzehuels/causaltower/pkg/expr"
	"github.com/matzehuels/causaltower/pkg/nodeset"
)

// Printer holds the symbols of one output style.
type Printer struct {
	Sum    string // marginalization prefix, followed by _{vars}
	Equals string
	Indep  string // independence symbol, padded as needed
	Given  string // conditioning bar in statements
}

var (
	// Text renders Unicode for terminal output.
	Text = Printer{Sum: "Σ", Equals: " = ", Indep: "⊥", Given: "|"}

	// LaTeX renders math-mode LaTeX source.
	LaTeX = Printer{Sum: `\sum`, Equals: "=", Indep: ` \perp\!\!\!\perp `, Given: ` \mid `}
)

// Nodes renders a set as a sorted comma-separated list.
func Nodes(s nodeset.Set) string { return strings.Join(s.Sorted(), ",") }

func prob(vars nodeset.Set) string {
	if vars.Empty() {
		return ""
	}
	return "p(" + Nodes(vars) + ")"
}

func cond(vars, given nodeset.Set) string {
	if vars.Empty() {
		return ""
	}
	if given.Empty() {
		return prob(vars)
	}
	return "p(" + Nodes(vars) + "|" + Nodes(given) + ")"
}

func (p Printer) sum(mrg nodeset.Set) string {
	if mrg.Empty() {
		return ""
	}
	return p.Sum + "_{" + Nodes(mrg) + "}"
}

// Expr renders e as a plain ratio: Σ_{mrg}[p(..)p(..)/{p(..)p(..)}].
func (p Printer) Expr(e expr.Expr) string {
	var b strings.Builder
	b.WriteString(p.sum(e.Mrg))
	if e.Size() == 0 {
		b.WriteString("1")
		return b.String()
	}
	if len(e.Num) > 1 {
		b.WriteString("[")
	}
	if len(e.Num) == 0 {
		b.WriteString("1")
	}
	for _, t := range e.Num {
		b.WriteString(prob(t))
	}
	if len(e.Den) > 0 {
		b.WriteString("/")
		if len(e.Den) > 1 {
			b.WriteString("{")
		}
		for _, t := range e.Den {
			b.WriteString(prob(t))
		}
		if len(e.Den) > 1 {
			b.WriteString("}")
		}
	}
	if len(e.Num) > 1 {
		b.WriteString("]")
	}
	return b.String()
}

// Cond renders e in conditional form, folding numerator/denominator pairs
// into p(A|B) factors.
func (p Printer) Cond(e expr.Expr) string {
	form := e.Conditional()
	var b strings.Builder
	b.WriteString(p.sum(form.Mrg))
	if len(form.Factors) == 0 && len(form.Den) == 0 {
		b.WriteString("1")
		return b.String()
	}
	if len(form.Factors) > 1 {
		b.WriteString("[")
	}
	if len(form.Factors) == 0 {
		b.WriteString("1")
	}
	for _, f := range form.Factors {
		b.WriteString(cond(f.Vars, f.Given))
	}
	if len(form.Den) > 0 {
		b.WriteString("/")
		for _, t := range form.Den {
			b.WriteString(prob(t))
		}
	}
	if len(form.Factors) > 1 {
		b.WriteString("]")
	}
	return b.String()
}

// lhs renders the query side: p(Y) or p_{X}(Y) for an intervention on X.
func (p Printer) lhs(q expr.Eqn) string {
	vars := nodeset.New()
	for _, t := range q.LHS.Num {
		vars = vars.Union(t)
	}
	if q.Interventional() {
		return "p_{" + Nodes(q.Do) + "}(" + Nodes(vars) + ")"
	}
	return prob(vars)
}

// Eqn renders q with the right-hand side as a plain ratio.
func (p Printer) Eqn(q expr.Eqn) string {
	return p.lhs(q) + p.Equals + p.Expr(q.RHS)
}

// EqnCond renders q with the right-hand side in conditional form.
func (p Printer) EqnCond(q expr.Eqn) string {
	return p.lhs(q) + p.Equals + p.Cond(q.RHS)
}

// CondInd renders (X⊥Y|Z); the conditioning part is omitted when Z is empty.
func (p Printer) CondInd(c condind.CondInd) string {
	s := Nodes(c.X) + p.Indep + Nodes(c.Y)
	if !c.Z.Empty() {
		s += p.Given + Nodes(c.Z)
	}
	return "(" + s + ")"
}

// CondIndSet renders every statement of s, comma separated, in key order.
func (p Printer) CondIndSet(s *condind.Set) string {
	parts := make([]string, 0, s.Len())
	for _, c := range s.Items() {
		parts = append(parts, p.CondInd(c))
	}
	return strings.Join(parts, ",")
}
