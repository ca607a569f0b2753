package main

import (
	"fmt"

	"glyph/internal/binder"
	"glyph/internal/corepipeline"
	"glyph/internal/diag"
	"glyph/internal/funrec"
	"glyph/internal/positivity"
	"glyph/internal/source"
	"glyph/internal/typecheck"
)

// mk takes the address of a diag.Diagnostic value so adapters below can
// return *diag.Diagnostic, the shape diag.Bag.Add and diagfmt expect.
func mk(d diag.Diagnostic) *diag.Diagnostic { return &d }

// diagnosticsFor converts every error/warning corepipeline.Run collected,
// across whichever stage it stopped at, into diag.Diagnostics. The core
// packages themselves only ever produce error values; rendering
// them as diagnostics is entirely this driver's job.
func diagnosticsFor(result corepipeline.Result) []*diag.Diagnostic {
	var out []*diag.Diagnostic
	for _, e := range result.BindErrors {
		out = append(out, bindDiagnostic(e))
	}
	for _, e := range result.VRErrors {
		out = append(out, mk(diag.NewError(diag.VarRetIllegalReturnType, e.Span, e.Error())))
	}
	for _, e := range result.FRErrors {
		out = append(out, funrecDiagnostic(e))
	}
	for _, e := range result.PosErrors {
		out = append(out, positivityDiagnostic(e))
	}
	for _, e := range result.TCErrors {
		out = append(out, typecheckDiagnostic(e))
	}
	for _, w := range result.Warnings {
		out = append(out, typecheckWarning(w))
	}
	return out
}

func bindDiagnostic(e binder.Error) *diag.Diagnostic {
	switch e := e.(type) {
	case *binder.NameNotFound:
		return mk(diag.NewError(diag.BindNameNotFound, e.Span, e.Error()))
	case *binder.NameIsPrivate:
		return mk(diag.NewError(diag.BindNameIsPrivate, e.Span, e.Error()))
	case *binder.CannotLeakPrivateName:
		return mk(diag.NewError(diag.BindCannotLeakPrivateName, e.Span, e.Error()))
	case *binder.NameClash:
		return mk(diag.NewError(diag.BindNameClash, e.NewSpan, e.Error()).
			WithNote(e.ExistingSpan, "earlier declaration here"))
	case *binder.ExpectedTermButNameRefersToMod:
		return mk(diag.NewError(diag.BindExpectedTermGotMod, e.Span, e.Error()))
	case *binder.ExpectedModButNameRefersToTerm:
		return mk(diag.NewError(diag.BindExpectedModGotTerm, e.Span, e.Error()))
	case *binder.CannotUselesslyImportItemAsSelf:
		return mk(diag.NewError(diag.BindUselessSelfImport, e.Span, e.Error()))
	case *binder.ModFileNotFound:
		return mk(diag.NewError(diag.BindModFileNotFound, e.Span, e.Error()))
	case *binder.VisibilityWasNotAtLeastAsPermissive:
		return mk(diag.NewError(diag.BindVisibilityNotPermissiveEnough, e.Span, e.Error()))
	case *binder.TransparencyWasNotAtLeastAsRestrictiveAsVisibility:
		return mk(diag.NewError(diag.BindTransparencyNotRestrictive, e.Span, e.Error()))
	case *binder.TransparencyWasNotAtLeastAsPermissiveAsCurrentMod:
		return mk(diag.NewError(diag.BindTransparencyNotPermissive, e.Span, e.Error()))
	default:
		return mk(diag.NewError(diag.BindInfo, source.Span{}, e.Error()))
	}
}

func funrecDiagnostic(e *funrec.Error) *diag.Diagnostic {
	code := diag.FunRecInfo
	switch e.Kind {
	case funrec.RecursiveReferenceWasNotDirectCall:
		code = diag.FunRecNotDirectCall
	case funrec.RecursivelyCalledFunctionWithoutDecreasingParam:
		code = diag.FunRecMissingDecreasingParam
	case funrec.NonSubstructPassedToDecreasingParam:
		code = diag.FunRecNonSubstructArgument
	case funrec.LabelednessMismatch:
		code = diag.FunRecLabelednessMismatch
	}
	return mk(diag.NewError(code, e.Span, e.Error()))
}

func positivityDiagnostic(e *positivity.Error) *diag.Diagnostic {
	code := diag.PosInfo
	switch e.Kind {
	case positivity.ExpectedTypeGotFun:
		code = diag.PosExpectedTypeGotFun
	case positivity.NonAdtCallee:
		code = diag.PosNonAdtCallee
	case positivity.IllegalVariableAppearance:
		code = diag.PosIllegalVariableAppearance
	case positivity.VariantReturnTypeTypeArgArityMismatch:
		code = diag.PosReturnTypeArityMismatch
	case positivity.VariantReturnTypeHadNonNameTypeArg:
		code = diag.PosReturnTypeNonNameArg
	}
	return mk(diag.NewError(code, e.Span, e.Error()))
}

func typecheckDiagnostic(e typecheck.Error) *diag.Diagnostic {
	switch e := e.(type) {
	case *typecheck.NotAFunctionType:
		return mk(diag.NewError(diag.TypNotAFunctionType, e.Span, e.Error()))
	case *typecheck.ArgumentCountMismatch:
		return mk(diag.NewError(diag.TypArgumentCountMismatch, e.Span, e.Error()))
	case *typecheck.ArgumentLabelMismatch:
		return mk(diag.NewError(diag.TypArgumentLabelMismatch, e.Span, e.Error()))
	case *typecheck.TypeMismatch:
		return mk(diag.NewError(diag.TypMismatch, e.Span, e.Error()))
	case *typecheck.ExpectedTypeButGotNonUniverse:
		return mk(diag.NewError(diag.TypExpectedTypeButGotNonUniverse, e.Span, e.Error()))
	case *typecheck.NotAnADT:
		return mk(diag.NewError(diag.TypNotAnADT, e.Span, e.Error()))
	case *typecheck.DuplicateMatchCase:
		return mk(diag.NewError(diag.TypDuplicateMatchCase, e.Span, e.Error()))
	case *typecheck.MissingMatchCases:
		return mk(diag.NewError(diag.TypMissingMatchCases, e.Span, e.Error()))
	case *typecheck.ExtraneousMatchCase:
		return mk(diag.NewError(diag.TypExtraneousMatchCase, e.Span, e.Error()))
	case *typecheck.AllegedlyImpossibleMatchCaseWasNotObviouslyImpossible:
		return mk(diag.NewError(diag.TypAllegedlyImpossibleMatchCase, e.Span, e.Error()))
	case *typecheck.CannotInferTypeOfEmptyMatch:
		return mk(diag.NewError(diag.TypCannotInferTypeOfEmptyMatch, e.Span, e.Error()))
	case *typecheck.AmbiguousMatchCaseOutputType:
		return mk(diag.NewError(diag.TypAmbiguousMatchCaseOutputType, e.Span, e.Error()))
	case *typecheck.CannotInferTypeOfTodoExpression:
		return mk(diag.NewError(diag.TypCannotInferTypeOfTodo, e.Span, e.Error()))
	case *typecheck.LetStatementTypeContainsPrivateName:
		return mk(diag.NewError(diag.TypLetStatementLeaksPrivateName, e.Span, e.Error()))
	default:
		return mk(diag.NewError(diag.TypInfo, source.Span{}, e.Error()))
	}
}

func typecheckWarning(w typecheck.Warning) *diag.Diagnostic {
	switch w.Kind {
	case typecheck.TypeAssertionFailed:
		return mk(diag.New(diag.SevWarning, diag.TypAssertionFailed, w.Span, w.Kind.String()))
	case typecheck.NormalFormAssertionFailed:
		return mk(diag.New(diag.SevWarning, diag.TypNormalFormAssertionFailed, w.Span, w.Kind.String()))
	default:
		return mk(diag.New(diag.SevWarning, diag.TypTodoEncountered, w.Span, w.Kind.String()))
	}
}

// stageError summarizes which stage failed, for non-diagnostic (stderr)
// reporting when a driver just needs an overview line.
func stageError(result corepipeline.Result) error {
	if !result.Failed() {
		return nil
	}
	return fmt.Errorf("%s failed with %d error(s)", result.Stage, stageErrorCount(result))
}

func stageErrorCount(result corepipeline.Result) int {
	return len(result.BindErrors) + len(result.VRErrors) + len(result.FRErrors) +
		len(result.PosErrors) + len(result.TCErrors)
}
