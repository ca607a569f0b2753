package typecheck

import (
	"glyph/internal/binder"
	"glyph/internal/ident"
	"glyph/internal/reg"
	"glyph/internal/shift"
	"glyph/internal/source"
)

// synthOrCheckMatch implements the Match rule. When expected
// is NoExprID, the match's type is synthesized by generalizing the first
// case's output type and requiring every other case to check against it.
func (chk *Checker) synthOrCheckMatch(id reg.ExprID, expected reg.ExprID) (reg.ExprID, Error) {
	r := chk.r
	span := r.Get(id).Span
	data := r.Match(id)

	matcheeTy, err := chk.Synthesize(data.Matchee)
	if err != nil {
		return reg.NoExprID, err
	}
	matcheeTy = chk.normalize(matcheeTy)

	item, itemLevel, typeArgs, ok := chk.asADTApplication(matcheeTy)
	if !ok {
		return reg.NoExprID, &NotAnADT{Span: span}
	}

	cases := r.MatchCases(data.Cases)
	if err := chk.checkCoverage(item, cases, span); err != nil {
		return reg.NoExprID, err
	}

	if len(cases) == 0 {
		if !expected.IsValid() {
			return reg.NoExprID, &CannotInferTypeOfEmptyMatch{Span: span}
		}
		return expected, nil
	}

	result := expected
	for i, cs := range cases {
		if cs.Impossible {
			if !chk.obviouslyImpossible(typeArgs) {
				return reg.NoExprID, &AllegedlyImpossibleMatchCaseWasNotObviouslyImpossible{Span: cs.Span}
			}
			continue
		}
		caseExpected := result
		if caseExpected.IsValid() {
			caseExpected = chk.upshiftIntoCase(caseExpected, cs)
		}
		variant, variantIndex := chk.findVariant(item, cs.VariantName)
		subs := chk.matchSubstitution(data.Matchee, itemLevel, variantIndex, variant, cs)
		if subs != nil && caseExpected.IsValid() {
			caseExpected = shift.Substitute(r, caseExpected, subs)
		}

		if !caseExpected.IsValid() {
			ty, err := chk.Synthesize(cs.Output)
			if err != nil {
				return reg.NoExprID, err
			}
			result = chk.downshiftOutOfCase(ty, cs)
			continue
		}
		if err := chk.Check(cs.Output, caseExpected); err != nil {
			if i == 0 && !expected.IsValid() {
				return reg.NoExprID, &AmbiguousMatchCaseOutputType{Span: cs.Span}
			}
			return reg.NoExprID, err
		}
		if !result.IsValid() {
			result = caseExpected
		}
	}
	if !result.IsValid() {
		return reg.NoExprID, &CannotInferTypeOfEmptyMatch{Span: span}
	}
	return result, nil
}

// upshiftIntoCase adjusts an expected type (closed over the context
// outside the match) so it is valid inside a case's own binder scope.
func (chk *Checker) upshiftIntoCase(ty reg.ExprID, cs reg.MatchCase) reg.ExprID {
	if len(cs.Params) == 0 {
		return ty
	}
	return shift.Upshift(chk.r, ty, len(cs.Params), 0)
}

func (chk *Checker) downshiftOutOfCase(ty reg.ExprID, cs reg.MatchCase) reg.ExprID {
	if len(cs.Params) == 0 {
		return ty
	}
	return shift.Downshift(chk.r, ty, len(cs.Params))
}

// asADTApplication reports whether ty is an ADT applied to its type
// parameters (a bare Name for a non-parameterized type, or a Call whose
// callee is that Name), returning the owning item, the item's own
// absolute De Bruijn level (variant levels immediately follow it, per
// binder.GlobalLevels), and the call's arguments (empty when
// non-parameterized).
func (chk *Checker) asADTApplication(ty reg.ExprID) (item reg.Item, itemLevel int, args []reg.Arg, ok bool) {
	r := chk.r
	var calleeID reg.ExprID
	switch r.Get(ty).Kind {
	case reg.ExprName:
		calleeID = ty
	case reg.ExprCall:
		call := r.Call(ty)
		calleeID = call.Callee
		args = r.Args(call.Args)
	default:
		return reg.Item{}, 0, nil, false
	}
	if r.Get(calleeID).Kind != reg.ExprName {
		return reg.Item{}, 0, nil, false
	}
	data := r.Name(calleeID)
	level := chk.ctx.Len() - int(data.Index) - 1
	levels := binder.GlobalLevels(chk.prog)
	if level < 0 || level >= len(levels) {
		return reg.Item{}, 0, nil, false
	}
	ref := levels[level]
	if ref.Kind != binder.GlobalItem {
		return reg.Item{}, 0, nil, false
	}
	it := r.Items(chk.prog.Files[ref.File])[ref.ItemIndex]
	if it.Kind != reg.ItemType {
		return reg.Item{}, 0, nil, false
	}
	return it, level, args, true
}

func (chk *Checker) findVariant(item reg.Item, name ident.Name) (reg.Variant, int) {
	for i, v := range chk.r.Variants(item.Variants) {
		if ident.Equal(v.Name, name) {
			return v, i
		}
	}
	return reg.Variant{}, -1
}

// checkCoverage enforces the bijection between the ADT's variant names
// and the case variant names.
func (chk *Checker) checkCoverage(item reg.Item, cases []reg.MatchCase, span source.Span) Error {
	variants := chk.r.Variants(item.Variants)
	seen := make([]bool, len(variants))
	for _, cs := range cases {
		found := -1
		for i, v := range variants {
			if ident.Equal(v.Name, cs.VariantName) {
				found = i
				break
			}
		}
		if found < 0 {
			return &ExtraneousMatchCase{Name: cs.VariantName, Span: cs.Span}
		}
		if seen[found] {
			return &DuplicateMatchCase{Name: cs.VariantName, Span: cs.Span}
		}
		seen[found] = true
	}
	var missing []ident.Name
	for i, v := range variants {
		if !seen[i] {
			missing = append(missing, v.Name)
		}
	}
	if len(missing) > 0 {
		return &MissingMatchCases{Names: missing, Span: span}
	}
	return nil
}

// obviouslyImpossible approximates reachability analysis for an
// impossibility claim: a non-indexed ADT (no type arguments) always has
// every variant reachable, so a claim there is always rejected; an
// indexed ADT may have genuinely unreachable variants given the index in
// scope, which requires full dependent unification this checker does not
// implement, so such claims are trusted. See DESIGN.md.
func (chk *Checker) obviouslyImpossible(typeArgs []reg.Arg) bool {
	return len(typeArgs) > 0
}

// matchSubstitution builds the dynamic substitution equating the matchee
// with the matched variant's constructor applied to the case's own
// binders, when the matchee is itself a context-bound Name — the common
// pattern this checker implements in full; a compound scrutinee is left
// unrefined (see DESIGN.md).
func (chk *Checker) matchSubstitution(matchee reg.ExprID, itemLevel, variantIndex int, variant reg.Variant, cs reg.MatchCase) []shift.Subst {
	r := chk.r
	if variantIndex < 0 || r.Get(matchee).Kind != reg.ExprName {
		return nil
	}
	data := r.Name(matchee)
	level := chk.ctx.Len() - int(data.Index) - 1
	if level < 0 {
		return nil
	}
	n := len(cs.Params)
	// From is relative to the substituted expression's own root, which
	// for the expected type (closed over the outer context, then
	// upshifted by n into the case's scope) is level+n.
	from := reg.DBIndex(level + n)

	vparams := r.Params(variant.Params)
	if len(vparams) == 0 {
		// Nullary variant: no binders are introduced, and the constructor
		// carries no fields to reveal, so no refinement is useful here.
		return nil
	}
	args := make([]reg.Arg, len(vparams))
	for i := range vparams {
		idx := reg.DBIndex(len(vparams) - i - 1)
		name := r.InternName(reg.NameData{Components: []ident.Name{vparams[i].Name}, Index: idx}, cs.Span)
		args[i] = reg.Arg{Label: vparams[i].Label, Value: name, Span: cs.Span}
	}
	// The variant constructor's own absolute level is itemLevel+1+variantIndex
	// (binder.GlobalLevels lists an item's variants immediately after it, in
	// declaration order); its De Bruijn index from inside the case's scope
	// (ctx.Len()+n entries deep) follows the usual absolute-to-relative
	// conversion.
	variantLevel := itemLevel + 1 + variantIndex
	calleeIdx := reg.DBIndex(chk.ctx.Len() + n - variantLevel - 1)
	calleeName := r.InternName(reg.NameData{Components: []ident.Name{variant.Name}, Index: calleeIdx}, cs.Span)
	ctor := r.InternCall(reg.CallData{Callee: calleeName, Args: r.NewArgList(args), Labeledness: cs.Labeledness}, cs.Span)
	return []shift.Subst{{From: from, To: ctor}}
}
