package binder

import (
	"glyph/internal/ident"
	"glyph/internal/reg"
	"glyph/internal/source"
	"glyph/internal/uast"
)

func convLabeledness(l uast.Labeledness) reg.Labeledness {
	if l == uast.Labeled {
		return reg.Labeled
	}
	return reg.Positional
}

// BindExpr translates one unbound uast.Expr into an interned reg.ExprID,
// resolving every Name against c's current scope stack.
func (c *Context) BindExpr(r *reg.Registry, e uast.Expr) (reg.ExprID, Error) {
	switch e.Kind {
	case uast.ExprName:
		data := e.Data.(uast.NameData)
		bound, err := c.ResolveName(e, data)
		if err != nil {
			return reg.NoExprID, err
		}
		return r.InternName(bound, e.Span), nil

	case uast.ExprCall:
		return c.bindCall(r, e)

	case uast.ExprFun:
		return c.bindFun(r, e)

	case uast.ExprMatch:
		return c.bindMatch(r, e)

	case uast.ExprForall:
		return c.bindForall(r, e)

	case uast.ExprCheck:
		return c.bindCheck(r, e)

	case uast.ExprTodo:
		return r.InternTodo(e.Span), nil

	default:
		panic("binder: unknown uast.ExprKind")
	}
}

func (c *Context) bindCall(r *reg.Registry, e uast.Expr) (reg.ExprID, Error) {
	data := e.Data.(uast.CallData)
	callee, err := c.BindExpr(r, data.Callee)
	if err != nil {
		return reg.NoExprID, err
	}
	args := make([]reg.Arg, len(data.Args.Args))
	for i, a := range data.Args.Args {
		val, err := c.BindExpr(r, a.Value)
		if err != nil {
			return reg.NoExprID, err
		}
		args[i] = reg.Arg{Label: a.Label, Value: val, Span: a.Span}
	}
	argList := r.NewArgList(args)
	return r.InternCall(reg.CallData{
		Callee:      callee,
		Args:        argList,
		Labeledness: convLabeledness(data.Args.Labeledness),
	}, e.Span), nil
}

// bindParamList binds a parameter list's types left-to-right, declaring each
// parameter into the current (already-pushed) scope as it goes, so a later
// parameter's type may depend on an earlier one: Forall/Fun parameter
// lists are dependent. dashed identifies the Fun-only decreasing
// parameter's index, or -1.
func (c *Context) bindParamList(r *reg.Registry, list uast.ParamList, kind DefKind) ([]reg.Param, int32, Error) {
	out := make([]reg.Param, len(list.Params))
	dashed := int32(-1)
	for i, p := range list.Params {
		typeID, err := c.BindExpr(r, p.Type)
		if err != nil {
			return nil, -1, err
		}
		name := ident.NewStandard(p.Name, p.Span)
		if p.Name == source.NoStringID {
			name = ident.NewReserved(ident.Underscore, p.Span)
		}
		sym := newSymbol(kind, p.Name, p.Span, c.CurrentFile)
		if bindErr := c.Declare(p.Name, sym); bindErr != nil {
			return nil, -1, bindErr
		}
		out[i] = reg.Param{Label: p.Label, Name: name, Type: typeID, Dashed: p.Dashed, Span: p.Span}
		if p.Dashed {
			dashed = int32(i)
		}
	}
	return out, dashed, nil
}

func (c *Context) bindFun(r *reg.Registry, e uast.Expr) (reg.ExprID, Error) {
	data := e.Data.(uast.FunData)
	c.PushScope(ScopeFun)
	defer c.PopScope()

	selfSym := newSymbol(DefFunSelf, data.Name, e.Span, c.CurrentFile)
	if err := c.Declare(data.Name, selfSym); err != nil {
		return reg.NoExprID, err
	}

	params, dashed, err := c.bindParamList(r, data.Params, DefParam)
	if err != nil {
		return reg.NoExprID, err
	}
	paramList := r.NewParamList(params)

	retType, err := c.BindExpr(r, data.ReturnType)
	if err != nil {
		return reg.NoExprID, err
	}
	body, err := c.BindExpr(r, data.Body)
	if err != nil {
		return reg.NoExprID, err
	}

	selfName := ident.NewReserved(ident.Underscore, e.Span)
	if data.Name != source.NoStringID {
		selfName = ident.NewStandard(data.Name, e.Span)
	}

	return r.InternFun(reg.FunData{
		Name:        selfName,
		Params:      paramList,
		Labeledness: convLabeledness(data.Params.Labeledness),
		DashedIndex: dashed,
		ReturnType:  retType,
		Body:        body,
	}, e.Span), nil
}

func (c *Context) bindForall(r *reg.Registry, e uast.Expr) (reg.ExprID, Error) {
	data := e.Data.(uast.ForallData)
	c.PushScope(ScopeForall)
	defer c.PopScope()

	params, _, err := c.bindParamList(r, data.Params, DefParam)
	if err != nil {
		return reg.NoExprID, err
	}
	paramList := r.NewParamList(params)

	output, err := c.BindExpr(r, data.Output)
	if err != nil {
		return reg.NoExprID, err
	}
	return r.InternForall(reg.ForallData{
		Params:      paramList,
		Labeledness: convLabeledness(data.Params.Labeledness),
		Output:      output,
	}, e.Span), nil
}

func (c *Context) bindMatch(r *reg.Registry, e uast.Expr) (reg.ExprID, Error) {
	data := e.Data.(uast.MatchData)
	matchee, err := c.BindExpr(r, data.Matchee)
	if err != nil {
		return reg.NoExprID, err
	}
	cases := make([]reg.MatchCase, len(data.Cases))
	for i, mc := range data.Cases {
		bound, bindErr := c.bindMatchCase(r, mc)
		if bindErr != nil {
			return reg.NoExprID, bindErr
		}
		cases[i] = bound
	}
	caseList := r.NewMatchCaseList(cases)
	return r.InternMatch(reg.MatchData{Matchee: matchee, Cases: caseList}, e.Span), nil
}

func (c *Context) bindMatchCase(r *reg.Registry, mc uast.MatchCase) (reg.MatchCase, Error) {
	c.PushScope(ScopeMatchCase)
	defer c.PopScope()

	variantName := ident.NewStandard(mc.VariantName, mc.Span)

	var params []reg.MatchCaseParam
	labeledness := reg.Positional
	hasEllipsis := false
	if mc.Params != nil {
		labeledness = convLabeledness(mc.Params.Labeledness)
		hasEllipsis = mc.Params.HasEllipsis
		params = make([]reg.MatchCaseParam, len(mc.Params.Params))
		for i, p := range mc.Params.Params {
			name := ident.NewReserved(ident.Underscore, p.Span)
			if p.Name != source.NoStringID {
				name = ident.NewStandard(p.Name, p.Span)
			}
			if !p.Absent {
				sym := newSymbol(DefParam, p.Name, p.Span, c.CurrentFile)
				if err := c.Declare(p.Name, sym); err != nil {
					return reg.MatchCase{}, err
				}
			}
			params[i] = reg.MatchCaseParam{Label: p.Label, Name: name, Absent: p.Absent, Span: p.Span}
		}
	}

	out := reg.MatchCase{
		VariantName: variantName,
		Params:      params,
		Labeledness: labeledness,
		HasEllipsis: hasEllipsis,
		Impossible:  mc.Impossible,
		Span:        mc.Span,
	}
	if mc.Impossible {
		out.Output = reg.NoExprID
		return out, nil
	}
	output, err := c.BindExpr(r, mc.Output)
	if err != nil {
		return reg.MatchCase{}, err
	}
	out.Output = output
	return out, nil
}

func convAssertionKind(k uast.AssertionKind) reg.AssertionKind {
	if k == uast.NormalFormAssertion {
		return reg.NormalFormAssertion
	}
	return reg.TypeAssertion
}

func (c *Context) bindCheck(r *reg.Registry, e uast.Expr) (reg.ExprID, Error) {
	data := e.Data.(uast.CheckData)
	assertions := make([]reg.CheckAssertion, len(data.Assertions))
	for i, a := range data.Assertions {
		var lhs, rhs reg.ExprID
		if !a.LHSIsGoal {
			id, err := c.BindExpr(r, a.LHS)
			if err != nil {
				return reg.NoExprID, err
			}
			lhs = id
		}
		if !a.RHSIsHole {
			id, err := c.BindExpr(r, a.RHS)
			if err != nil {
				return reg.NoExprID, err
			}
			rhs = id
		}
		assertions[i] = reg.CheckAssertion{
			Kind:      convAssertionKind(a.Kind),
			LHSIsGoal: a.LHSIsGoal,
			LHS:       lhs,
			RHSIsHole: a.RHSIsHole,
			RHS:       rhs,
			Span:      a.Span,
		}
	}
	assertionList := r.NewAssertionList(assertions)
	output, err := c.BindExpr(r, data.Output)
	if err != nil {
		return reg.NoExprID, err
	}
	return r.InternCheck(reg.CheckData{Assertions: assertionList, Output: output}, e.Span), nil
}
