package typecheck

import (
	"glyph/internal/ident"
	"glyph/internal/reg"
	"glyph/internal/shift"
)

// Synthesize implements Γ ⊢ e ⇒ τ.
func (chk *Checker) Synthesize(id reg.ExprID) (reg.ExprID, Error) {
	r := chk.r
	expr := r.Get(id)

	if word, ok := asUniverse(r, id); ok {
		switch word {
		case ident.Type:
			return universeExpr(r, ident.Type1, expr.Span), nil
		case ident.Type1:
			return universeExpr(r, ident.Type2, expr.Span), nil
		default:
			return universeExpr(r, ident.Type2, expr.Span), nil
		}
	}

	switch expr.Kind {
	case reg.ExprName:
		data := r.Name(id)
		level := chk.ctx.Len() - int(data.Index) - 1
		if level < 0 {
			panic("typecheck: Name index out of range relative to context depth")
		}
		return chk.ctx.TypeAt(level), nil

	case reg.ExprForall:
		return chk.synthForall(id)

	case reg.ExprFun:
		return chk.synthFun(id)

	case reg.ExprCall:
		return chk.synthCall(id)

	case reg.ExprMatch:
		return chk.synthOrCheckMatch(id, reg.NoExprID)

	case reg.ExprCheck:
		return chk.synthCheck(id)

	case reg.ExprTodo:
		chk.warn(TodoEncountered, expr.Span)
		return reg.NoExprID, &CannotInferTypeOfTodoExpression{Span: expr.Span}

	default:
		panic("typecheck: unknown expression kind in Synthesize")
	}
}

// Check implements Γ ⊢ e ⇐ τ.
func (chk *Checker) Check(id reg.ExprID, expected reg.ExprID) Error {
	r := chk.r
	expr := r.Get(id)

	switch expr.Kind {
	case reg.ExprMatch:
		_, err := chk.synthOrCheckMatch(id, expected)
		return err

	case reg.ExprCheck:
		return chk.checkCheck(id, expected)

	case reg.ExprTodo:
		chk.warn(TodoEncountered, expr.Span)
		return nil

	default:
		ty, err := chk.Synthesize(id)
		if err != nil {
			return err
		}
		if !chk.sameType(ty, expected) {
			return &TypeMismatch{Want: expected, Got: ty, Span: expr.Span}
		}
		return nil
	}
}

func (chk *Checker) synthForall(id reg.ExprID) (reg.ExprID, Error) {
	r := chk.r
	data := r.Forall(id)
	params := r.Params(data.Params)
	save := chk.ctx.Len()
	universe := ident.Type
	for _, p := range params {
		u, err := chk.synthUniverse(p.Type)
		if err != nil {
			chk.ctx.popTo(save)
			return reg.NoExprID, err
		}
		universe = dominate(universe, u)
		chk.ctx.pushParam(p.Type)
	}
	outU, err := chk.synthUniverse(data.Output)
	chk.ctx.popTo(save)
	if err != nil {
		return reg.NoExprID, err
	}
	universe = dominate(universe, outU)
	return universeExpr(r, universe, r.Get(id).Span), nil
}

// synthFun synthesizes a Fun's own Pi type. The body may reference self
// (pushed before params, matching the binder's own push order); the
// synthesized external type never exposes self as a parameter, since
// self is a recursion mechanism, not a caller-supplied argument — any
// reference to self from within a parameter or return-type position
// (rather than the body) is outside what this checker supports and is
// erased rather than rejected, see DESIGN.md.
func (chk *Checker) synthFun(id reg.ExprID) (reg.ExprID, Error) {
	r := chk.r
	span := r.Get(id).Span
	data := r.Fun(id)
	params := r.Params(data.Params)
	arity := len(params)

	strippedParams := make([]reg.Param, arity)
	for i, p := range params {
		strippedParams[i] = p
		strippedParams[i].Type = shift.Substitute(r, p.Type, []shift.Subst{{From: reg.DBIndex(i), To: reg.NoExprID}})
	}
	strippedReturn := shift.Substitute(r, data.ReturnType, []shift.Subst{{From: reg.DBIndex(arity), To: reg.NoExprID}})
	funType := r.InternForall(reg.ForallData{
		Params:      r.NewParamList(strippedParams),
		Labeledness: data.Labeledness,
		Output:      strippedReturn,
	}, span)

	save := chk.ctx.Len()
	chk.ctx.pushFun(funType)
	var firstErr Error
	for _, p := range params {
		if _, err := chk.synthUniverse(p.Type); err != nil && firstErr == nil {
			firstErr = err
		}
		chk.ctx.pushParam(p.Type)
	}
	if _, err := chk.synthUniverse(data.ReturnType); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := chk.Check(data.Body, data.ReturnType); err != nil && firstErr == nil {
		firstErr = err
	}
	chk.ctx.popTo(save)
	if firstErr != nil {
		return reg.NoExprID, firstErr
	}
	return funType, nil
}

func (chk *Checker) synthCall(id reg.ExprID) (reg.ExprID, Error) {
	r := chk.r
	expr := r.Get(id)
	call := r.Call(id)

	calleeTy, err := chk.Synthesize(call.Callee)
	if err != nil {
		return reg.NoExprID, err
	}
	calleeTy = chk.normalize(calleeTy)
	if r.Get(calleeTy).Kind != reg.ExprForall {
		return reg.NoExprID, &NotAFunctionType{Callee: call.Callee, Span: expr.Span}
	}
	forall := r.Forall(calleeTy)
	if forall.Labeledness != call.Labeledness {
		return reg.NoExprID, &ArgumentLabelMismatch{Span: expr.Span}
	}
	params := r.Params(forall.Params)
	args := r.Args(call.Args)
	if len(params) != len(args) {
		return reg.NoExprID, &ArgumentCountMismatch{Want: len(params), Got: len(args), Span: expr.Span}
	}

	arity := len(params)
	argValues := make([]reg.ExprID, arity)
	for i, p := range params {
		// p.Type is bound relative to a scope of exactly i prior params
		// (param i cannot reference itself), so the substitution covering
		// it must be sized to i, not the full arity.
		subs := make([]shift.Subst, i)
		for j := 0; j < i; j++ {
			subs[j] = shift.Subst{From: reg.DBIndex(i - j - 1), To: argValues[j]}
		}
		paramTy := shift.Substitute(r, p.Type, subs)
		if err := chk.Check(args[i].Value, paramTy); err != nil {
			return reg.NoExprID, err
		}
		argValues[i] = args[i].Value
	}
	fullSubs := make([]shift.Subst, arity)
	for j := 0; j < arity; j++ {
		fullSubs[j] = shift.Subst{From: reg.DBIndex(arity - j - 1), To: argValues[j]}
	}
	result := shift.Substitute(r, forall.Output, fullSubs)
	return chk.normalize(result), nil
}

func (chk *Checker) synthCheck(id reg.ExprID) (reg.ExprID, Error) {
	chk.validateAssertions(id)
	data := chk.r.Check(id)
	return chk.Synthesize(data.Output)
}

func (chk *Checker) checkCheck(id reg.ExprID, expected reg.ExprID) Error {
	chk.validateAssertions(id)
	data := chk.r.Check(id)
	return chk.Check(data.Output, expected)
}
