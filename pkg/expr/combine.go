package expr

// Combine multiplies exprs into one expression: term lists are concatenated
// and marginal sets united. A marginal variable of a later input that is
// already marginalized by an earlier one is a different dummy variable, so
// it is renamed to a fresh primed name before merging. The inputs are not
// modified.
func Combine(exprs ...Expr) Expr {
	var out Expr
	for _, e := range exprs {
		e = e.Clone()
		for _, v := range out.Mrg.Intersect(e.Mrg).Sorted() {
			e = e.Rename(v, Fresh(v, out, e))
		}
		out.Num = append(out.Num, e.Num...)
		out.Den = append(out.Den, e.Den...)
		out.Mrg = out.Mrg.Union(e.Mrg)
	}
	return out
}
