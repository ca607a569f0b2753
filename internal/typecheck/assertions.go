package typecheck

import "glyph/internal/reg"

// validateAssertions checks every CheckAssertion attached to a Check
// expression. A type-assertion's LHS (the checked expression itself when
// LHSIsGoal) must synthesize to its claimed RHS; a
// normal-form assertion's LHS must reduce to its claimed RHS. RHSIsHole
// (the `?` wildcard) means the claim names nothing to compare against and
// is always satisfied. Failures are warnings, never errors — an assertion
// documents an expectation, it does not gate checking.
func (chk *Checker) validateAssertions(id reg.ExprID) {
	r := chk.r
	data := r.Check(id)
	for _, a := range r.Assertions(data.Assertions) {
		lhs := a.LHS
		if a.LHSIsGoal {
			lhs = data.Output
		}
		switch a.Kind {
		case reg.TypeAssertion:
			ty, err := chk.Synthesize(lhs)
			if err != nil {
				chk.warn(TypeAssertionFailed, a.Span)
				continue
			}
			if a.RHSIsHole {
				continue
			}
			if !chk.sameType(ty, a.RHS) {
				chk.warn(TypeAssertionFailed, a.Span)
			}

		case reg.NormalFormAssertion:
			if a.RHSIsHole {
				continue
			}
			lhsNF := chk.normalize(lhs)
			rhsNF := chk.normalize(a.RHS)
			if !chk.eq.Equal(lhsNF, rhsNF) {
				chk.warn(NormalFormAssertionFailed, a.Span)
			}
		}
	}
}
