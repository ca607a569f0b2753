package shift

import "glyph/internal/reg"

// Subst is one entry of a simultaneous substitution: replace every free
// occurrence of De Bruijn index From (relative to the substituted
// expression's own root) with To (itself expressed at that same root).
type Subst struct {
	From reg.DBIndex
	To   reg.ExprID
}

// Substitute applies subs simultaneously to id. Entering a
// binder of arity n upshifts every sub's effective From and To by n, so a
// single structural walk handles arbitrarily deep nesting. Indices not
// named by any sub are downshifted by however many substituted positions
// sit below them, since each substitution removes one context entry.
func Substitute(r *reg.Registry, id reg.ExprID, subs []Subst) reg.ExprID {
	if len(subs) == 0 {
		return id
	}
	return substWalk(r, id, subs, 0)
}

func substWalk(r *reg.Registry, id reg.ExprID, subs []Subst, depth int) reg.ExprID {
	if !id.IsValid() {
		return id
	}
	expr := r.Get(id)
	switch expr.Kind {
	case reg.ExprName:
		data := r.Name(id)
		idx := int(data.Index)
		if idx < depth {
			// Bound within the scope entered since Substitute was called;
			// not a free reference to any substituted position.
			return id
		}
		orig := idx - depth
		for _, s := range subs {
			if int(s.From) == orig {
				return Upshift(r, s.To, depth, 0)
			}
		}
		removed := 0
		for _, s := range subs {
			if int(s.From) < orig {
				removed++
			}
		}
		if removed == 0 {
			return id
		}
		return r.InternName(reg.NameData{Components: data.Components, Index: reg.DBIndex(idx - removed)}, expr.Span)

	case reg.ExprCall:
		call := r.Call(id)
		callee := substWalk(r, call.Callee, subs, depth)
		args := r.Args(call.Args)
		newArgs := make([]reg.Arg, len(args))
		for i, a := range args {
			newArgs[i] = reg.Arg{Label: a.Label, Value: substWalk(r, a.Value, subs, depth), Span: a.Span}
		}
		return r.InternCall(reg.CallData{Callee: callee, Args: r.NewArgList(newArgs), Labeledness: call.Labeledness}, expr.Span)

	case reg.ExprFun:
		data := r.Fun(id)
		params := r.Params(data.Params)
		newParams := make([]reg.Param, len(params))
		for i, p := range params {
			newParams[i] = p
			newParams[i].Type = substWalk(r, p.Type, subs, depth)
		}
		n := len(params) + 1
		return r.InternFun(reg.FunData{
			Name:        data.Name,
			Params:      r.NewParamList(newParams),
			Labeledness: data.Labeledness,
			DashedIndex: data.DashedIndex,
			ReturnType:  substWalk(r, data.ReturnType, subs, depth+n),
			Body:        substWalk(r, data.Body, subs, depth+n),
		}, expr.Span)

	case reg.ExprMatch:
		data := r.Match(id)
		matchee := substWalk(r, data.Matchee, subs, depth)
		cases := r.MatchCases(data.Cases)
		newCases := make([]reg.MatchCase, len(cases))
		for i, cs := range cases {
			newCases[i] = cs
			if !cs.Impossible {
				newCases[i].Output = substWalk(r, cs.Output, subs, depth+len(cs.Params))
			}
		}
		return r.InternMatch(reg.MatchData{Matchee: matchee, Cases: r.NewMatchCaseList(newCases)}, expr.Span)

	case reg.ExprForall:
		data := r.Forall(id)
		params := r.Params(data.Params)
		newParams := make([]reg.Param, len(params))
		for i, p := range params {
			newParams[i] = p
			newParams[i].Type = substWalk(r, p.Type, subs, depth)
		}
		return r.InternForall(reg.ForallData{
			Params:      r.NewParamList(newParams),
			Labeledness: data.Labeledness,
			Output:      substWalk(r, data.Output, subs, depth+len(params)),
		}, expr.Span)

	case reg.ExprCheck:
		data := r.Check(id)
		assertions := r.Assertions(data.Assertions)
		newAssertions := make([]reg.CheckAssertion, len(assertions))
		for i, a := range assertions {
			newAssertions[i] = a
			if !a.LHSIsGoal && a.LHS.IsValid() {
				newAssertions[i].LHS = substWalk(r, a.LHS, subs, depth)
			}
			if !a.RHSIsHole && a.RHS.IsValid() {
				newAssertions[i].RHS = substWalk(r, a.RHS, subs, depth)
			}
		}
		return r.InternCheck(reg.CheckData{
			Assertions: r.NewAssertionList(newAssertions),
			Output:     substWalk(r, data.Output, subs, depth),
		}, expr.Span)

	case reg.ExprTodo:
		return id

	default:
		return id
	}
}
