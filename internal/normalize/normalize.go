// Package normalize reduces bound IR expressions to β-normal form under a
// context of definitions: β (Call-of-Fun), ι (Match-of-variant),
// and δ (Name-of-transparent-let) reduction, all capture-avoiding via
// internal/shift. The normalizer is total on well-typed input, which the
// positivity and fun-recursion validators guarantee upstream.
package normalize

import (
	"glyph/internal/binder"
	"glyph/internal/ident"
	"glyph/internal/reg"
	"glyph/internal/shift"
)

// Defs supplies the definitions a normalization pass may unfold: for the
// absolute De Bruijn level of a context entry, its bound value (expressed
// relative to that entry's own declaration depth), if any and currently
// permitted to unfold. Len is the number of entries the Defs knows about;
// any level at or past it is a binder introduced locally by the expression
// being normalized and is never unfoldable.
type Defs interface {
	Len() int
	Unfold(level int) (value reg.ExprID, ok bool)
}

// Normalize reduces id to normal form under defs.
func Normalize(r *reg.Registry, prog *binder.BoundProgram, defs Defs, id reg.ExprID) reg.ExprID {
	w := &walker{r: r, prog: prog, baseLen: defs.Len(), defs: defs}
	return w.norm(id, 0)
}

type walker struct {
	r       *reg.Registry
	prog    *binder.BoundProgram
	defs    Defs
	baseLen int
}

func (w *walker) norm(id reg.ExprID, localDepth int) reg.ExprID {
	if !id.IsValid() {
		return id
	}
	r := w.r
	expr := r.Get(id)

	switch expr.Kind {
	case reg.ExprName:
		data := r.Name(id)
		level := w.baseLen + localDepth - int(data.Index) - 1
		if level >= 0 && level < w.baseLen {
			if val, ok := w.defs.Unfold(level); ok {
				here := w.baseLen + localDepth
				shifted := shift.Upshift(r, val, here-level, 0)
				return w.norm(shifted, localDepth)
			}
		}
		return id

	case reg.ExprCall:
		return w.normCall(id, localDepth)

	case reg.ExprMatch:
		return w.normMatch(id, localDepth)

	case reg.ExprForall:
		data := r.Forall(id)
		params := r.Params(data.Params)
		newParams := make([]reg.Param, len(params))
		for i, p := range params {
			newParams[i] = p
			newParams[i].Type = w.norm(p.Type, localDepth)
		}
		return r.InternForall(reg.ForallData{
			Params:      r.NewParamList(newParams),
			Labeledness: data.Labeledness,
			Output:      w.norm(data.Output, localDepth+len(params)),
		}, expr.Span)

	case reg.ExprFun:
		data := r.Fun(id)
		params := r.Params(data.Params)
		newParams := make([]reg.Param, len(params))
		for i, p := range params {
			newParams[i] = p
			newParams[i].Type = w.norm(p.Type, localDepth)
		}
		n := len(params) + 1
		return r.InternFun(reg.FunData{
			Name:        data.Name,
			Params:      r.NewParamList(newParams),
			Labeledness: data.Labeledness,
			DashedIndex: data.DashedIndex,
			ReturnType:  w.norm(data.ReturnType, localDepth+n),
			Body:        w.norm(data.Body, localDepth+n),
		}, expr.Span)

	case reg.ExprCheck:
		// A check expression carries no runtime content of its own beyond
		// its output; the assertions are validated once by the type
		// checker and erased here.
		data := r.Check(id)
		return w.norm(data.Output, localDepth)

	case reg.ExprTodo:
		return id

	default:
		return id
	}
}

func (w *walker) normCall(id reg.ExprID, localDepth int) reg.ExprID {
	r := w.r
	call := r.Call(id)
	callee := w.norm(call.Callee, localDepth)
	args := r.Args(call.Args)
	newArgs := make([]reg.Arg, len(args))
	for i, a := range args {
		newArgs[i] = reg.Arg{Label: a.Label, Value: w.norm(a.Value, localDepth), Span: a.Span}
	}

	calleeExpr := r.Get(callee)
	if calleeExpr.Kind == reg.ExprFun {
		fun := r.Fun(callee)
		params := r.Params(fun.Params)
		if len(params) == len(newArgs) && fun.Labeledness == call.Labeledness {
			arity := len(params)
			subs := make([]shift.Subst, 0, arity+1)
			subs = append(subs, shift.Subst{From: reg.DBIndex(arity), To: callee})
			for i := range params {
				subs = append(subs, shift.Subst{From: reg.DBIndex(arity - i - 1), To: newArgs[i].Value})
			}
			body := shift.Substitute(r, fun.Body, subs)
			return w.norm(body, localDepth)
		}
	}

	span := r.Get(id).Span
	return r.InternCall(reg.CallData{Callee: callee, Args: r.NewArgList(newArgs), Labeledness: call.Labeledness}, span)
}

func (w *walker) normMatch(id reg.ExprID, localDepth int) reg.ExprID {
	r := w.r
	data := r.Match(id)
	matchee := w.norm(data.Matchee, localDepth)
	cases := r.MatchCases(data.Cases)

	if variantName, args, ok := w.asConstructor(matchee, localDepth); ok {
		for _, cs := range cases {
			if !ident.Equal(cs.VariantName, variantName) {
				continue
			}
			if cs.Impossible {
				break // well-typed input never actually selects an impossible case
			}
			subs := bindCaseParams(cs, args)
			out := shift.Substitute(r, cs.Output, subs)
			return w.norm(out, localDepth)
		}
	}

	newCases := make([]reg.MatchCase, len(cases))
	for i, cs := range cases {
		newCases[i] = cs
		if !cs.Impossible {
			newCases[i].Output = w.norm(cs.Output, localDepth+len(cs.Params))
		}
	}
	span := r.Get(id).Span
	return r.InternMatch(reg.MatchData{Matchee: matchee, Cases: r.NewMatchCaseList(newCases)}, span)
}

// asConstructor reports whether matchee (already normalized) is a variant
// constructor application, returning the variant's own name and the
// arguments it was applied to (empty for a nullary variant).
func (w *walker) asConstructor(matchee reg.ExprID, localDepth int) (ident.Name, []reg.Arg, bool) {
	r := w.r
	expr := r.Get(matchee)
	var calleeID reg.ExprID
	var args []reg.Arg
	switch expr.Kind {
	case reg.ExprName:
		calleeID = matchee
	case reg.ExprCall:
		call := r.Call(matchee)
		calleeID = call.Callee
		args = r.Args(call.Args)
	default:
		return ident.Name{}, nil, false
	}
	calleeExpr := r.Get(calleeID)
	if calleeExpr.Kind != reg.ExprName {
		return ident.Name{}, nil, false
	}
	data := r.Name(calleeID)
	level := w.baseLen + localDepth - int(data.Index) - 1
	levels := binder.GlobalLevels(w.prog)
	if level < 0 || level >= len(levels) {
		return ident.Name{}, nil, false
	}
	ref := levels[level]
	if ref.Kind != binder.GlobalVariant {
		return ident.Name{}, nil, false
	}
	item := r.Items(w.prog.Files[ref.File])[ref.ItemIndex]
	variant := r.Variants(item.Variants)[ref.VariantIndex]
	return variant.Name, args, true
}

func bindCaseParams(cs reg.MatchCase, args []reg.Arg) []shift.Subst {
	n := len(cs.Params)
	subs := make([]shift.Subst, 0, n)
	for i, p := range cs.Params {
		var value reg.ExprID
		if cs.Labeledness == reg.Labeled {
			for _, a := range args {
				if a.Label == p.Label {
					value = a.Value
					break
				}
			}
		} else if i < len(args) {
			value = args[i].Value
		}
		subs = append(subs, shift.Subst{From: reg.DBIndex(n - i - 1), To: value})
	}
	return subs
}
