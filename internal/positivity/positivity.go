// Package positivity checks strict positivity of inductive occurrences in
// variant signatures: a recursive occurrence of the type being
// defined, or of one of a variant's own fields threaded into a return-type
// index, must appear only in a structurally safe position — never as the
// domain of a function type, never as a match's scrutinee.
package positivity

import (
	"fmt"

	"glyph/internal/binder"
	"glyph/internal/reg"
	"glyph/internal/source"
)

type ErrorKind uint8

const (
	ExpectedTypeGotFun ErrorKind = iota
	NonAdtCallee
	IllegalVariableAppearance
	VariantReturnTypeTypeArgArityMismatch
	VariantReturnTypeHadNonNameTypeArg
)

func (k ErrorKind) String() string {
	switch k {
	case ExpectedTypeGotFun:
		return "ExpectedTypeGotFun"
	case NonAdtCallee:
		return "NonAdtCallee"
	case IllegalVariableAppearance:
		return "IllegalVariableAppearance"
	case VariantReturnTypeTypeArgArityMismatch:
		return "VariantReturnTypeTypeArgArityMismatch"
	case VariantReturnTypeHadNonNameTypeArg:
		return "VariantReturnTypeHadNonNameTypeArg"
	default:
		return "<invalid>"
	}
}

type Error struct {
	Kind ErrorKind
	Span source.Span
}

func (e *Error) Error() string { return fmt.Sprintf("%s (span %s)", e.Kind, e.Span) }

// Validated wraps a BoundProgram whose every Type item has passed this
// validator. The unexported field restricts construction to this package.
type Validated struct {
	program *binder.BoundProgram
}

func (v Validated) Program() *binder.BoundProgram { return v.program }

// walkKey identifies one (subexpression, tracked-level) analysis so the
// trust cache can skip re-walking a shared (interned) subexpression that
// was already found clean for the same tracked variable: memoization for
// positivity of a (type, parameter-index) pair.
type walkKey struct {
	id      reg.ExprID
	tracked int
}

// occursWalker checks, for one tracked De Bruijn level at a time, that every
// occurrence of it within a walked expression is strictly positive:
// structurally nested only inside other ADTs' call arguments, never as a
// function-type domain, never as a match's scrutinee.
type occursWalker struct {
	r       *reg.Registry
	isADT   func(level int) (nParams int, ok bool)
	tracked int
	errs    []*Error
	cache   map[walkKey]bool
	errored map[walkKey]bool
}

func newWalker(r *reg.Registry, isADT func(int) (int, bool), tracked int) *occursWalker {
	return &occursWalker{
		r:       r,
		isADT:   isADT,
		tracked: tracked,
		cache:   make(map[walkKey]bool),
		errored: make(map[walkKey]bool),
	}
}

// walk reports whether the tracked level occurs anywhere in id. depth is the
// absolute De Bruijn depth at id's binding point; forbidden marks a
// structurally disallowed position (a function-type domain or a match
// scrutinee) where any tracked occurrence is itself the violation.
func (w *occursWalker) walk(id reg.ExprID, depth int, forbidden bool) bool {
	if !id.IsValid() {
		return false
	}
	key := walkKey{id: id, tracked: w.tracked}
	if !forbidden {
		if found, ok := w.cache[key]; ok {
			return found
		}
	}

	expr := w.r.Get(id)
	var found bool
	switch expr.Kind {
	case reg.ExprName:
		data := w.r.Name(id)
		lvl := depth - int(data.Index) - 1
		if lvl == w.tracked {
			found = true
			if forbidden {
				w.fail(key, IllegalVariableAppearance, expr.Span)
			}
		}

	case reg.ExprCall:
		found = w.walkCall(id, expr.Span, depth, forbidden)

	case reg.ExprForall:
		data := w.r.Forall(id)
		d := depth
		for _, p := range w.r.Params(data.Params) {
			if w.walk(p.Type, d, true) {
				found = true
			}
			d++
		}
		if w.walk(data.Output, d, forbidden) {
			found = true
		}

	case reg.ExprFun:
		w.fail(key, ExpectedTypeGotFun, expr.Span)

	case reg.ExprMatch:
		data := w.r.Match(id)
		if w.walk(data.Matchee, depth, true) {
			found = true
		}
		for _, c := range w.r.MatchCases(data.Cases) {
			d := depth + len(c.Params)
			if !c.Impossible && w.walk(c.Output, d, forbidden) {
				found = true
			}
		}

	case reg.ExprCheck:
		data := w.r.Check(id)
		for _, a := range w.r.Assertions(data.Assertions) {
			if !a.LHSIsGoal && a.LHS.IsValid() && w.walk(a.LHS, depth, forbidden) {
				found = true
			}
			if !a.RHSIsHole && a.RHS.IsValid() && w.walk(a.RHS, depth, forbidden) {
				found = true
			}
		}
		if w.walk(data.Output, depth, forbidden) {
			found = true
		}

	case reg.ExprTodo:
		// No occurrence possible.
	}

	if !forbidden {
		w.cache[key] = found
	}
	return found
}

func (w *occursWalker) fail(key walkKey, kind ErrorKind, span source.Span) {
	if w.errored[key] {
		return
	}
	w.errored[key] = true
	w.errs = append(w.errs, &Error{Kind: kind, Span: span})
}

// walkCall handles the one structurally-allowed position for a tracked
// occurrence: an argument of an application whose callee is itself another
// ADT. The callee is walked too, under the call's own forbidden flag, so a
// tracked variable in callee position is reported only where that flag is
// set.
func (w *occursWalker) walkCall(id reg.ExprID, span source.Span, depth int, forbidden bool) bool {
	call := w.r.Call(id)
	args := w.r.Args(call.Args)
	key := walkKey{id: id, tracked: w.tracked}

	calleeExpr := w.r.Get(call.Callee)
	found := w.walk(call.Callee, depth, forbidden)

	calleeIsName := calleeExpr.Kind == reg.ExprName
	var calleeLevel int
	if calleeIsName {
		calleeLevel = depth - int(w.r.Name(call.Callee).Index) - 1
	}
	nParams, isADTCallee := 0, false
	if calleeIsName {
		nParams, isADTCallee = w.isADT(calleeLevel)
	}

	argsContainTracked := false
	for _, a := range args {
		if w.walk(a.Value, depth, forbidden) {
			argsContainTracked = true
			found = true
		}
	}

	if argsContainTracked && !forbidden {
		switch {
		case !calleeIsName:
			w.fail(key, VariantReturnTypeHadNonNameTypeArg, calleeExpr.Span)
		case !isADTCallee:
			w.fail(key, NonAdtCallee, calleeExpr.Span)
		case len(args) != nParams:
			w.fail(key, VariantReturnTypeTypeArgArityMismatch, span)
		}
	}

	return found
}

// adtLookup builds a level -> (nParams, isADT) function from the binder's
// replay of permanent De Bruijn levels.
func adtLookup(prog *binder.BoundProgram) func(level int) (int, bool) {
	levels := binder.GlobalLevels(prog)
	r := prog.Registry
	return func(level int) (int, bool) {
		if level < 0 || level >= len(levels) {
			return 0, false
		}
		ref := levels[level]
		if ref.Kind != binder.GlobalItem {
			return 0, false
		}
		item := r.Items(prog.Files[ref.File])[ref.ItemIndex]
		if item.Kind != reg.ItemType {
			return 0, false
		}
		return len(r.Params(item.Params)), true
	}
}

// Validate checks every Type item across prog's files. It replays the
// binder's exact De Bruijn bookkeeping to recover, for each
// variant, the absolute depth its field types and return-type arguments
// were bound at, without re-running the binder itself.
func Validate(prog *binder.BoundProgram) (Validated, []*Error) {
	r := prog.Registry
	isADT := adtLookup(prog)
	var errs []*Error

	level := 0
	for _, fid := range prog.FileOrder {
		for _, it := range r.Items(prog.Files[fid]) {
			typeLevel := level
			level++
			if it.Kind != reg.ItemType {
				continue
			}
			nParams := len(r.Params(it.Params))
			variants := r.Variants(it.Variants)
			for variantIndex, v := range variants {
				errs = append(errs, checkVariant(r, isADT, typeLevel, nParams, variantIndex, v)...)
				level++
			}
		}
	}
	return Validated{program: prog}, errs
}

// checkVariant validates one variant: every field's type must not embed the
// owning type in a non-strictly-positive position (rule A), and every
// return-type index argument must not embed one of this variant's own
// fields in a non-strictly-positive position (rule B, for indexed/GADT-like
// families where a return-type argument is a nontrivial expression such as
// `Succ(n)` rather than a bare parameter).
func checkVariant(r *reg.Registry, isADT func(int) (int, bool), typeLevel, nParams, variantIndex int, v reg.Variant) []*Error {
	var errs []*Error

	base := typeLevel + 1 + variantIndex // depth when this variant's transient scope opens
	fieldBase := base + nParams          // depth once the type's own params are pushed
	fields := r.Params(v.Params)

	for i, f := range fields {
		w := newWalker(r, isADT, typeLevel)
		w.walk(f.Type, fieldBase+i, false)
		errs = append(errs, w.errs...)
	}

	retDepth := fieldBase + len(fields)
	retExpr := r.Get(v.ReturnType)
	if retExpr.Kind != reg.ExprCall {
		return errs
	}
	call := r.Call(v.ReturnType)
	for _, a := range r.Args(call.Args) {
		argExpr := r.Get(a.Value)
		if argExpr.Kind != reg.ExprName && argExpr.Kind != reg.ExprCall {
			errs = append(errs, &Error{Kind: VariantReturnTypeHadNonNameTypeArg, Span: argExpr.Span})
			continue
		}
		// Each of this variant's own fields is checked against this
		// argument in its own pass (a single structural walk cannot track
		// more than one De Bruijn level's occurrences at a time).
		for fieldIdx := range fields {
			tracked := fieldBase + fieldIdx
			w := newWalker(r, isADT, tracked)
			w.walk(a.Value, retDepth, false)
			errs = append(errs, w.errs...)
		}
	}
	return errs
}
