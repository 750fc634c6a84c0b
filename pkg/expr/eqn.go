package expr

import "github.com/matzehuels/causaltower/pkg/nodeset"

// Eqn is the equation LHS = RHS. LHS is normally a single bare term naming
// the query variables. Do holds the intervention set when the query is
// interventional, p_{Do}(LHS); it is empty for observational factorizations.
type Eqn struct {
	LHS Expr        `json:"lhs"`
	RHS Expr        `json:"rhs"`
	Do  nodeset.Set `json:"do"`
}

// NewEqn builds the equation p_{do}(y) = rhs. A nil do gives an
// observational equation p(y) = rhs.
func NewEqn(y, do nodeset.Set, rhs Expr) Eqn {
	return Eqn{LHS: Joint(y), RHS: rhs, Do: do.Clone()}
}

// Interventional reports whether the equation carries an intervention.
func (q Eqn) Interventional() bool { return !q.Do.Empty() }
