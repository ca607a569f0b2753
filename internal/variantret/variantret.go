// Package variantret validates that every variant's return type has the
// shape the type checker and normalizer assume: a name resolving to the
// owning type, applied to as many arguments as the type has parameters
// (the arguments themselves may be any expressions).
package variantret

import (
	"fmt"

	"glyph/internal/binder"
	"glyph/internal/reg"
	"glyph/internal/source"
)

// Error is the validator's single error shape.
type Error struct {
	Span source.Span
}

func (e *Error) Error() string {
	return fmt.Sprintf("illegal variant return type (span %s)", e.Span)
}

// Validated wraps a BoundProgram whose every variant's return type has
// passed this validator. The unexported field means only this package can
// construct one.
type Validated struct {
	program *binder.BoundProgram
}

// Program returns the wrapped program.
func (v Validated) Program() *binder.BoundProgram { return v.program }

// Validate checks every Type item across prog's files. It returns every
// violation found (validation does not stop at the first).
func Validate(prog *binder.BoundProgram) (Validated, []*Error) {
	r := prog.Registry
	var errs []*Error
	for _, fid := range prog.FileOrder {
		for _, it := range r.Items(prog.Files[fid]) {
			if it.Kind != reg.ItemType {
				continue
			}
			nParams := len(r.Params(it.Params))
			for variantIndex, v := range r.Variants(it.Variants) {
				if err := checkVariant(r, nParams, variantIndex, v); err != nil {
					errs = append(errs, err)
				}
			}
		}
	}
	return Validated{program: prog}, errs
}

// checkVariant requires v.ReturnType to be either a bare Name (when the
// owning type has zero parameters) or a Call of a Name to exactly the
// type's own parameter count, and that Name's De Bruijn index to refer to
// the owning type. The binder declares the owning type's symbol, then each
// preceding variant's symbol, then (transiently) the type's own params and
// this variant's own params, immediately before binding this return type —
// so the expected index is the sum of all three: variant_index plus this
// variant's own parameter count, generalized to a parameterized owning
// type by also counting its own parameter list.
func checkVariant(r *reg.Registry, nParams, variantIndex int, v reg.Variant) *Error {
	expr := r.Get(v.ReturnType)

	var calleeID reg.ExprID
	var argCount int
	switch expr.Kind {
	case reg.ExprName:
		calleeID = v.ReturnType
		argCount = 0
	case reg.ExprCall:
		call := r.Call(v.ReturnType)
		calleeID = call.Callee
		argCount = len(r.Args(call.Args))
	default:
		return &Error{Span: expr.Span}
	}

	calleeExpr := r.Get(calleeID)
	if calleeExpr.Kind != reg.ExprName {
		return &Error{Span: expr.Span}
	}
	if argCount != nParams {
		return &Error{Span: expr.Span}
	}

	name := r.Name(calleeID)
	vParams := len(r.Params(v.Params))
	expectedIndex := reg.DBIndex(nParams + variantIndex + vParams)
	if name.Index != expectedIndex {
		return &Error{Span: expr.Span}
	}
	return nil
}
