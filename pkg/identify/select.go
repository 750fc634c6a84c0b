package identify

// choose returns the district combinations to build formulas from. In greedy
// mode each district is narrowed to its own selection first.
func choose(perDistrict [][]districtExpr, opts Options) [][]districtExpr {
	if opts.Greedy {
		narrowed := make([][]districtExpr, len(perDistrict))
		for i, cands := range perDistrict {
			narrowed[i] = selectDistrict(cands, opts.Mode)
		}
		perDistrict = narrowed
	}
	return product(perDistrict)
}

func selectDistrict(cands []districtExpr, mode Mode) []districtExpr {
	if mode == ModeAll || len(cands) <= 1 {
		return cands
	}
	best := 0
	for i, c := range cands {
		if better(c.expr.Size(), c.expr.Mrg.Len(), cands[best].expr.Size(), cands[best].expr.Mrg.Len(), mode) {
			best = i
		}
	}
	return cands[best : best+1]
}

// selectGlobal applies mode to fully combined candidates. Mode all keeps
// every candidate with a distinct (numerator, denominator) pair.
func selectGlobal(cands []Candidate, mode Mode) []Candidate {
	if len(cands) == 0 {
		return cands
	}
	if mode == ModeAll {
		seen := make(map[string]bool)
		var out []Candidate
		for _, c := range cands {
			if k := c.Eqn.RHS.Key(); !seen[k] {
				seen[k] = true
				out = append(out, c)
			}
		}
		return out
	}
	best := 0
	for i, c := range cands {
		b := cands[best].Eqn.RHS
		if better(c.Eqn.RHS.Size(), c.Eqn.RHS.Mrg.Len(), b.Size(), b.Mrg.Len(), mode) {
			best = i
		}
	}
	return cands[best : best+1]
}

// better reports whether a candidate of the given size and marginal count
// strictly beats the current best. Ties keep the earlier candidate.
func better(size, mrg, bestSize, bestMrg int, mode Mode) bool {
	switch mode {
	case ModeShortest:
		return size < bestSize
	case ModeMostMrg:
		return mrg > bestMrg
	}
	return false
}

// product is the Cartesian product of the per-district lists, in
// lexicographic order with the first district varying slowest.
func product(lists [][]districtExpr) [][]districtExpr {
	out := [][]districtExpr{{}}
	for _, list := range lists {
		next := make([][]districtExpr, 0, len(out)*len(list))
		for _, prefix := range out {
			for _, c := range list {
				combo := make([]districtExpr, len(prefix), len(prefix)+1)
				copy(combo, prefix)
				next = append(next, append(combo, c))
			}
		}
		out = next
	}
	return out
}
