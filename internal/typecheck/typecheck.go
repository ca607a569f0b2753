// Package typecheck implements the bidirectional type checker:
// Γ ⊢ e ⇒ τ (synthesize) and Γ ⊢ e ⇐ τ (check), over a cumulative
// Type/Type1/Type2 universe hierarchy. It is the last core validator in
// the pipeline and the only one that requires proof — via the
// three Validated phantom tags it accepts — that variant-return,
// fun-recursion, and positivity checking have already run.
package typecheck

import (
	"glyph/internal/binder"
	"glyph/internal/filetree"
	"glyph/internal/funrec"
	"glyph/internal/nodeeq"
	"glyph/internal/normalize"
	"glyph/internal/positivity"
	"glyph/internal/reg"
	"glyph/internal/source"
	"glyph/internal/variantret"
)

// Validated wraps a BoundProgram that has type-checked successfully.
type Validated struct {
	program *binder.BoundProgram
}

// Program returns the wrapped program.
func (v Validated) Program() *binder.BoundProgram { return v.program }

// Checker drives one type-checking session over a BoundProgram's files in
// source order, maintaining Γ (Context) as it goes: ADT definitions and
// variants are pushed onto the context as they are validated.
type Checker struct {
	r        *reg.Registry
	prog     *binder.BoundProgram
	tree     *filetree.Tree
	ctx      *Context
	eq       *nodeeq.Checker
	warnings []Warning
}

// Check runs the type checker over a program that has already passed
// variant-return, fun-recursion, and positivity validation. It returns
// every file's accumulated errors plus warnings collected across the
// whole run. A file reports only its first failing item's errors; its
// later items are still entered into Γ, with their errors and warnings
// dropped, so other files see every global at the level the binder
// assigned it.
func Check(vr variantret.Validated, fr funrec.Validated, pv positivity.Validated, tree *filetree.Tree) (Validated, []Error, []Warning) {
	prog := pv.Program()
	_ = vr
	_ = fr
	chk := &Checker{
		r:    prog.Registry,
		prog: prog,
		tree: tree,
		eq:   nodeeq.New(prog.Registry),
	}
	chk.ctx = NewContext(chk.r, tree, tree.Root())

	var errs []Error
	for _, fid := range prog.FileOrder {
		chk.ctx.SetCurrentFile(fid)
		failed := false
		for _, it := range chk.r.Items(prog.Files[fid]) {
			nWarnings := len(chk.warnings)
			var itemErrs []Error
			if it.Kind == reg.ItemType {
				itemErrs = chk.checkTypeItem(it)
			} else {
				itemErrs = chk.checkLetItem(it)
			}
			if failed {
				// The file already failed: this item still occupies its
				// context slots, but nothing it reports is kept.
				chk.warnings = chk.warnings[:nWarnings]
				continue
			}
			if len(itemErrs) > 0 {
				errs = append(errs, itemErrs...)
				failed = true
			}
		}
	}

	return Validated{program: prog}, errs, chk.warnings
}

func (chk *Checker) normalize(id reg.ExprID) reg.ExprID {
	return normalize.Normalize(chk.r, chk.prog, chk.ctx, id)
}

func (chk *Checker) sameType(a, b reg.ExprID) bool {
	return chk.eq.Equal(chk.normalize(a), chk.normalize(b))
}

func (chk *Checker) warn(kind WarningKind, span source.Span) {
	chk.warnings = append(chk.warnings, Warning{Kind: kind, Span: span})
}
