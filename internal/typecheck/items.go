package typecheck

import (
	"glyph/internal/ident"
	"glyph/internal/reg"
)

// checkTypeItem computes and pushes the context entries for one Type
// item: first the item itself (its "kind" — a bare universe, or a Forall
// from its own params to one, when parameterized), then one entry per
// variant (the constructor's Pi type: Forall over the item's own params
// plus the variant's own params, to the item applied to its params).
// Errors are collected but entries are pushed regardless, since every
// later item's De Bruijn levels depend on this one occupying exactly the
// slots binder.GlobalLevels already assigned it.
func (chk *Checker) checkTypeItem(it reg.Item) []Error {
	r := chk.r
	var errs []Error
	save := chk.ctx.Len()

	params := r.Params(it.Params)
	paramUniverse := ident.Type
	for _, p := range params {
		u, err := chk.synthUniverse(p.Type)
		if err != nil {
			errs = append(errs, err)
		} else {
			paramUniverse = dominate(paramUniverse, u)
		}
		chk.ctx.pushParam(p.Type)
	}

	fieldUniverse := ident.Type
	variants := r.Variants(it.Variants)
	for _, v := range variants {
		vbase := chk.ctx.Len()
		for _, p := range r.Params(v.Params) {
			u, err := chk.synthUniverse(p.Type)
			if err != nil {
				errs = append(errs, err)
			} else {
				fieldUniverse = dominate(fieldUniverse, u)
			}
			chk.ctx.pushParam(p.Type)
		}
		chk.ctx.popTo(vbase)
	}
	chk.ctx.popTo(save)

	universe := dominate(paramUniverse, fieldUniverse)
	uExpr := universeExpr(r, universe, it.Span)
	var kind reg.ExprID
	if len(params) == 0 {
		kind = uExpr
	} else {
		kind = r.InternForall(reg.ForallData{Params: it.Params, Labeledness: reg.Positional, Output: uExpr}, it.Span)
	}
	chk.ctx.pushADT(kind, it.Visibility)

	for _, v := range variants {
		ctorType := chk.variantCtorType(it, v)
		chk.ctx.pushVariant(ctorType, it.Visibility)
	}

	return errs
}

// variantCtorType builds the Forall over the item's own params plus the
// variant's own params, to v.ReturnType — valid as-is because
// v.ReturnType's De Bruijn indices were already bound relative to exactly
// that nested scope (; see internal/variantret's derivation).
func (chk *Checker) variantCtorType(it reg.Item, v reg.Variant) reg.ExprID {
	r := chk.r
	itemParams := r.Params(it.Params)
	ownParams := r.Params(v.Params)
	combined := make([]reg.Param, 0, len(itemParams)+len(ownParams))
	combined = append(combined, itemParams...)
	combined = append(combined, ownParams...)
	if len(combined) == 0 {
		return v.ReturnType
	}
	return r.InternForall(reg.ForallData{
		Params:      r.NewParamList(combined),
		Labeledness: reg.Positional,
		Output:      v.ReturnType,
	}, v.Span)
}

// checkLetItem synthesizes the let's value type, scans it for a
// visibility leak, and pushes a context entry recording the value for
// δ-reduction.
func (chk *Checker) checkLetItem(it reg.Item) []Error {
	ty, err := chk.Synthesize(it.Value)
	if err != nil {
		chk.ctx.pushLet(universeExpr(chk.r, ident.Type, it.Span), it.Value, it.Transparency, it.Visibility)
		return []Error{err}
	}
	ty = chk.normalize(ty)

	var errs []Error
	if leaked, ok := chk.scanLeakedName(ty, it.Visibility); ok {
		errs = append(errs, &LetStatementTypeContainsPrivateName{LeakedName: leaked, Span: it.Span})
	}

	chk.ctx.pushLet(ty, it.Value, it.Transparency, it.Visibility)
	return errs
}
