// Package shift implements the bound IR's De Bruijn up/downshift and
// capture-avoiding substitution. All three operations are
// structural: they reconstruct nodes through the registry's interning
// layer, so a rewrite that touches no affected variable returns the
// original ExprID — except that Fun and Check nodes, which the registry
// never interns, come back under a new ExprID, and so does every
// expression containing one.
package shift

import (
	"fmt"

	"glyph/internal/reg"
)

// FreeVarCache memoizes, per expression, the highest De Bruijn index that
// is free relative to that expression's own root (-1 if the expression is
// closed) — the free-variable-cache supplement carried over from the
// original implementation's normalizer. shiftWalk accepts one to skip
// subtrees a given cutoff can never affect; Upshift and Downshift pass nil
// and Substitute takes no cache, so no exported operation uses it.
type FreeVarCache struct {
	r       *reg.Registry
	maxFree map[reg.ExprID]int
}

// NewFreeVarCache creates an empty cache over r.
func NewFreeVarCache(r *reg.Registry) *FreeVarCache {
	return &FreeVarCache{r: r, maxFree: make(map[reg.ExprID]int)}
}

// MaxFreeIndex returns the highest free De Bruijn index appearing in id,
// relative to id's own root (depth 0), or -1 if id is closed.
func (c *FreeVarCache) MaxFreeIndex(id reg.ExprID) int {
	if !id.IsValid() {
		return -1
	}
	if v, ok := c.maxFree[id]; ok {
		return v
	}
	v := c.computeMaxFree(id, 0)
	c.maxFree[id] = v
	return v
}

// computeMaxFree walks id, treating any index at depth d (relative to id's
// own root) as contributing a free reference of d - binders - 1... in
// practice it is simplest to track the running local depth and report the
// free index relative to the ORIGINAL root by subtracting that depth.
func (c *FreeVarCache) computeMaxFree(id reg.ExprID, depth int) int {
	if !id.IsValid() {
		return -1
	}
	r := c.r
	best := -1
	note := func(localIdx int, extra int) {
		// localIdx is the index as seen at `depth` extra binders deep; its
		// De Bruijn level relative to the root is (depth+extra) - localIdx - 1.
		// It's free relative to the root when that level is < 0, i.e. it
		// escapes depth+extra binders; its distance past the root is
		// localIdx - (depth+extra).
		free := localIdx - (depth + extra)
		if free > best {
			best = free
		}
	}

	expr := r.Get(id)
	switch expr.Kind {
	case reg.ExprName:
		note(int(r.Name(id).Index), 0)

	case reg.ExprCall:
		call := r.Call(id)
		if v := c.computeMaxFree(call.Callee, depth); v > best {
			best = v
		}
		for _, a := range r.Args(call.Args) {
			if v := c.computeMaxFree(a.Value, depth); v > best {
				best = v
			}
		}

	case reg.ExprFun:
		data := r.Fun(id)
		params := r.Params(data.Params)
		for _, p := range params {
			if v := c.computeMaxFree(p.Type, depth); v > best {
				best = v
			}
		}
		n := len(params) + 1 // +1 for the Fun's own self-binder
		if v := c.computeMaxFree(data.ReturnType, depth+n); v > best {
			best = v
		}
		if v := c.computeMaxFree(data.Body, depth+n); v > best {
			best = v
		}

	case reg.ExprMatch:
		data := r.Match(id)
		if v := c.computeMaxFree(data.Matchee, depth); v > best {
			best = v
		}
		for _, cs := range r.MatchCases(data.Cases) {
			if !cs.Impossible {
				if v := c.computeMaxFree(cs.Output, depth+len(cs.Params)); v > best {
					best = v
				}
			}
		}

	case reg.ExprForall:
		data := r.Forall(id)
		params := r.Params(data.Params)
		for _, p := range params {
			if v := c.computeMaxFree(p.Type, depth); v > best {
				best = v
			}
		}
		if v := c.computeMaxFree(data.Output, depth+len(params)); v > best {
			best = v
		}

	case reg.ExprCheck:
		data := r.Check(id)
		for _, a := range r.Assertions(data.Assertions) {
			if !a.LHSIsGoal && a.LHS.IsValid() {
				if v := c.computeMaxFree(a.LHS, depth); v > best {
					best = v
				}
			}
			if !a.RHSIsHole && a.RHS.IsValid() {
				if v := c.computeMaxFree(a.RHS, depth); v > best {
					best = v
				}
			}
		}
		if v := c.computeMaxFree(data.Output, depth); v > best {
			best = v
		}

	case reg.ExprTodo:
		// No variables.
	}
	return best
}

// Upshift increases every free De Bruijn index at or past cutoff by k. It
// returns id unchanged when no index qualifies and id contains no Fun or
// Check node.
func Upshift(r *reg.Registry, id reg.ExprID, k, cutoff int) reg.ExprID {
	if k == 0 {
		return id
	}
	return shiftWalk(r, id, k, cutoff, 0, nil)
}

// Downshift decreases every free De Bruijn index at or past k by k. It
// panics if id contains a free index in the discarded range [0, k) — per
// this must never happen; callers only discard binders nothing
// still refers to.
func Downshift(r *reg.Registry, id reg.ExprID, k int) reg.ExprID {
	if k == 0 {
		return id
	}
	return shiftWalk(r, id, -k, k, 0, nil)
}

// shiftWalk applies a uniform shift of delta to every free index at or
// past cutoff (relative to id's own root), tracking the local nesting
// depth so recursion into binders adjusts the effective cutoff. cache is
// optional; nil disables the no-op short circuit.
func shiftWalk(r *reg.Registry, id reg.ExprID, delta, cutoff, depth int, cache *FreeVarCache) reg.ExprID {
	if !id.IsValid() {
		return id
	}
	if cache != nil {
		if cache.MaxFreeIndex(id) < cutoff-depth {
			return id
		}
	}

	expr := r.Get(id)
	switch expr.Kind {
	case reg.ExprName:
		data := r.Name(id)
		rel := int(data.Index) - depth // distance past id's root; negative when bound inside it
		if rel < cutoff {
			if delta < 0 && rel >= 0 {
				panic(fmt.Sprintf("shift: downshift encountered index %d in discarded range at span %s", data.Index, expr.Span))
			}
			return id
		}
		return r.InternName(reg.NameData{Components: data.Components, Index: reg.DBIndex(int(data.Index) + delta)}, expr.Span)

	case reg.ExprCall:
		call := r.Call(id)
		callee := shiftWalk(r, call.Callee, delta, cutoff, depth, cache)
		args := r.Args(call.Args)
		newArgs := make([]reg.Arg, len(args))
		for i, a := range args {
			newArgs[i] = reg.Arg{Label: a.Label, Value: shiftWalk(r, a.Value, delta, cutoff, depth, cache), Span: a.Span}
		}
		return r.InternCall(reg.CallData{Callee: callee, Args: r.NewArgList(newArgs), Labeledness: call.Labeledness}, expr.Span)

	case reg.ExprFun:
		data := r.Fun(id)
		params := r.Params(data.Params)
		newParams := make([]reg.Param, len(params))
		for i, p := range params {
			newParams[i] = p
			newParams[i].Type = shiftWalk(r, p.Type, delta, cutoff, depth, cache)
		}
		n := len(params) + 1
		return r.InternFun(reg.FunData{
			Name:        data.Name,
			Params:      r.NewParamList(newParams),
			Labeledness: data.Labeledness,
			DashedIndex: data.DashedIndex,
			ReturnType:  shiftWalk(r, data.ReturnType, delta, cutoff, depth+n, cache),
			Body:        shiftWalk(r, data.Body, delta, cutoff, depth+n, cache),
		}, expr.Span)

	case reg.ExprMatch:
		data := r.Match(id)
		matchee := shiftWalk(r, data.Matchee, delta, cutoff, depth, cache)
		cases := r.MatchCases(data.Cases)
		newCases := make([]reg.MatchCase, len(cases))
		for i, cs := range cases {
			newCases[i] = cs
			if !cs.Impossible {
				newCases[i].Output = shiftWalk(r, cs.Output, delta, cutoff, depth+len(cs.Params), cache)
			}
		}
		return r.InternMatch(reg.MatchData{Matchee: matchee, Cases: r.NewMatchCaseList(newCases)}, expr.Span)

	case reg.ExprForall:
		data := r.Forall(id)
		params := r.Params(data.Params)
		newParams := make([]reg.Param, len(params))
		for i, p := range params {
			newParams[i] = p
			newParams[i].Type = shiftWalk(r, p.Type, delta, cutoff, depth, cache)
		}
		return r.InternForall(reg.ForallData{
			Params:      r.NewParamList(newParams),
			Labeledness: data.Labeledness,
			Output:      shiftWalk(r, data.Output, delta, cutoff, depth+len(params), cache),
		}, expr.Span)

	case reg.ExprCheck:
		data := r.Check(id)
		assertions := r.Assertions(data.Assertions)
		newAssertions := make([]reg.CheckAssertion, len(assertions))
		for i, a := range assertions {
			newAssertions[i] = a
			if !a.LHSIsGoal && a.LHS.IsValid() {
				newAssertions[i].LHS = shiftWalk(r, a.LHS, delta, cutoff, depth, cache)
			}
			if !a.RHSIsHole && a.RHS.IsValid() {
				newAssertions[i].RHS = shiftWalk(r, a.RHS, delta, cutoff, depth, cache)
			}
		}
		return r.InternCheck(reg.CheckData{
			Assertions: r.NewAssertionList(newAssertions),
			Output:     shiftWalk(r, data.Output, delta, cutoff, depth, cache),
		}, expr.Span)

	case reg.ExprTodo:
		return id

	default:
		return id
	}
}
