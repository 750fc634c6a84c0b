// Package expr is the symbolic probability algebra used by identification.
//
// An [Expr] is a ratio of products of probability factors summed over a set
// of marginal variables. The identification algorithms start from the joint
// p(V) and apply [Expr.Fix] or [Expr.FixMarginal] once per fixed node, then
// reduce the result with [Expr.Simplify].
//
// Operations that substitute variable names ([Expr.Rename], [Expr.Fix],
// [Expr.FixMarginal], [Combine]) return new values and never touch their
// receiver. The reductions ([Expr.Cancel], [Expr.MarginalizeOut],
// [Expr.Simplify]) work in place and report whether they changed anything.
//
// The package never formats output. [Expr.Conditional] exposes the grouped
// conditional form that package pretty renders as text or LaTeX.
package expr
