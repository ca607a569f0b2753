// Package corepipeline wires the core validators into the single,
// strictly sequential order mandates: bind, then variant-return,
// fun-recursion, and positivity checking (independent of each other, but
// each required before type checking), then the type checker itself.
// typecheck.Check takes the three validators' phantom Validated tags as
// parameters, so the compiler rejects a call to it that skips any of
// them. The three validators each take the bound program directly; their
// order relative to each other and to binding is kept by Run alone.
package corepipeline

import (
	"glyph/internal/binder"
	"glyph/internal/filetree"
	"glyph/internal/funrec"
	"glyph/internal/positivity"
	"glyph/internal/source"
	"glyph/internal/typecheck"
	"glyph/internal/uast"
	"glyph/internal/variantret"
)

// Stage names the pipeline stage that produced a Result's errors, so a
// caller can tell binder errors from type errors without inspecting error
// types.
type Stage uint8

const (
	StageBind Stage = iota
	StageVariantReturn
	StageFunRecursion
	StagePositivity
	StageTypecheck
)

func (s Stage) String() string {
	switch s {
	case StageBind:
		return "bind"
	case StageVariantReturn:
		return "variant-return"
	case StageFunRecursion:
		return "fun-recursion"
	case StagePositivity:
		return "positivity"
	case StageTypecheck:
		return "typecheck"
	default:
		return "unknown"
	}
}

// Result is the outcome of running the whole pipeline over one package.
// Checked is valid (non-nil Program) only when every stage succeeded.
type Result struct {
	Stage      Stage
	BindErrors []binder.Error
	VRErrors   []*variantret.Error
	FRErrors   []*funrec.Error
	PosErrors  []*positivity.Error
	TCErrors   []typecheck.Error
	Warnings   []typecheck.Warning
	Checked    *typecheck.Validated
}

// Failed reports whether any stage produced errors.
func (r Result) Failed() bool {
	return len(r.BindErrors) > 0 || len(r.VRErrors) > 0 || len(r.FRErrors) > 0 ||
		len(r.PosErrors) > 0 || len(r.TCErrors) > 0
}

// Run binds files against tree and pushes the result through every core
// validator in order, stopping at the first stage that reports errors: a
// failing stage's errors are reported and later stages do not run
// against a program they have no correctness guarantee over.
func Run(strings *source.Interner, tree *filetree.Tree, files []uast.File, extraDeps map[source.FileID][]source.FileID) Result {
	prog, bindErrs := binder.BindFiles(strings, tree, files, extraDeps)
	if len(bindErrs) > 0 {
		return Result{Stage: StageBind, BindErrors: bindErrs}
	}

	vr, vrErrs := variantret.Validate(prog)
	if len(vrErrs) > 0 {
		return Result{Stage: StageVariantReturn, VRErrors: vrErrs}
	}

	fr, frErrs := funrec.Validate(prog)
	if len(frErrs) > 0 {
		return Result{Stage: StageFunRecursion, FRErrors: frErrs}
	}

	pv, posErrs := positivity.Validate(prog)
	if len(posErrs) > 0 {
		return Result{Stage: StagePositivity, PosErrors: posErrs}
	}

	checked, tcErrs, warnings := typecheck.Check(vr, fr, pv, tree)
	if len(tcErrs) > 0 {
		return Result{Stage: StageTypecheck, TCErrors: tcErrs, Warnings: warnings}
	}
	return Result{Checked: &checked, Warnings: warnings}
}
