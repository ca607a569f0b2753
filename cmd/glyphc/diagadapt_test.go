package main

import (
	"testing"

	"glyph/internal/binder"
	"glyph/internal/corepipeline"
	"glyph/internal/diag"
	"glyph/internal/funrec"
	"glyph/internal/positivity"
	"glyph/internal/source"
	"glyph/internal/typecheck"
	"glyph/internal/variantret"
)

func TestBindDiagnosticMapsEveryErrorToItsOwnCode(t *testing.T) {
	cases := []struct {
		name string
		err  binder.Error
		code diag.Code
	}{
		{"NameNotFound", &binder.NameNotFound{}, diag.BindNameNotFound},
		{"NameIsPrivate", &binder.NameIsPrivate{}, diag.BindNameIsPrivate},
		{"CannotLeakPrivateName", &binder.CannotLeakPrivateName{}, diag.BindCannotLeakPrivateName},
		{"NameClash", &binder.NameClash{}, diag.BindNameClash},
		{"ExpectedTermButNameRefersToMod", &binder.ExpectedTermButNameRefersToMod{}, diag.BindExpectedTermGotMod},
		{"ExpectedModButNameRefersToTerm", &binder.ExpectedModButNameRefersToTerm{}, diag.BindExpectedModGotTerm},
		{"CannotUselesslyImportItemAsSelf", &binder.CannotUselesslyImportItemAsSelf{}, diag.BindUselessSelfImport},
		{"ModFileNotFound", &binder.ModFileNotFound{}, diag.BindModFileNotFound},
		{"VisibilityWasNotAtLeastAsPermissive", &binder.VisibilityWasNotAtLeastAsPermissive{}, diag.BindVisibilityNotPermissiveEnough},
		{"TransparencyWasNotAtLeastAsRestrictiveAsVisibility", &binder.TransparencyWasNotAtLeastAsRestrictiveAsVisibility{}, diag.BindTransparencyNotRestrictive},
		{"TransparencyWasNotAtLeastAsPermissiveAsCurrentMod", &binder.TransparencyWasNotAtLeastAsPermissiveAsCurrentMod{}, diag.BindTransparencyNotPermissive},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := bindDiagnostic(c.err)
			if got.Code != c.code {
				t.Errorf("code = %v, want %v", got.Code, c.code)
			}
			if got.Message == "" {
				t.Errorf("message is empty")
			}
		})
	}
}

func TestBindDiagnosticNameClashCarriesEarlierDeclarationNote(t *testing.T) {
	err := &binder.NameClash{
		ExistingSpan: source.Span{Start: 1, End: 2},
		NewSpan:      source.Span{Start: 10, End: 20},
	}
	got := bindDiagnostic(err)
	if got.Primary != err.NewSpan {
		t.Errorf("Primary = %v, want the new declaration's span %v", got.Primary, err.NewSpan)
	}
	if len(got.Notes) != 1 || got.Notes[0].Span != err.ExistingSpan {
		t.Errorf("expected one note pointing at the earlier declaration, got %+v", got.Notes)
	}
}

func TestFunRecDiagnosticMapsEveryKind(t *testing.T) {
	cases := []struct {
		kind funrec.ErrorKind
		code diag.Code
	}{
		{funrec.RecursiveReferenceWasNotDirectCall, diag.FunRecNotDirectCall},
		{funrec.RecursivelyCalledFunctionWithoutDecreasingParam, diag.FunRecMissingDecreasingParam},
		{funrec.NonSubstructPassedToDecreasingParam, diag.FunRecNonSubstructArgument},
		{funrec.LabelednessMismatch, diag.FunRecLabelednessMismatch},
	}
	for _, c := range cases {
		got := funrecDiagnostic(&funrec.Error{Kind: c.kind})
		if got.Code != c.code {
			t.Errorf("kind %v: code = %v, want %v", c.kind, got.Code, c.code)
		}
	}
}

func TestPositivityDiagnosticMapsEveryKind(t *testing.T) {
	cases := []struct {
		kind positivity.ErrorKind
		code diag.Code
	}{
		{positivity.ExpectedTypeGotFun, diag.PosExpectedTypeGotFun},
		{positivity.NonAdtCallee, diag.PosNonAdtCallee},
		{positivity.IllegalVariableAppearance, diag.PosIllegalVariableAppearance},
		{positivity.VariantReturnTypeTypeArgArityMismatch, diag.PosReturnTypeArityMismatch},
		{positivity.VariantReturnTypeHadNonNameTypeArg, diag.PosReturnTypeNonNameArg},
	}
	for _, c := range cases {
		got := positivityDiagnostic(&positivity.Error{Kind: c.kind})
		if got.Code != c.code {
			t.Errorf("kind %v: code = %v, want %v", c.kind, got.Code, c.code)
		}
	}
}

func TestTypecheckDiagnosticMapsEveryConcreteType(t *testing.T) {
	cases := []struct {
		name string
		err  typecheck.Error
		code diag.Code
	}{
		{"NotAFunctionType", &typecheck.NotAFunctionType{}, diag.TypNotAFunctionType},
		{"ArgumentCountMismatch", &typecheck.ArgumentCountMismatch{}, diag.TypArgumentCountMismatch},
		{"ArgumentLabelMismatch", &typecheck.ArgumentLabelMismatch{}, diag.TypArgumentLabelMismatch},
		{"TypeMismatch", &typecheck.TypeMismatch{}, diag.TypMismatch},
		{"ExpectedTypeButGotNonUniverse", &typecheck.ExpectedTypeButGotNonUniverse{}, diag.TypExpectedTypeButGotNonUniverse},
		{"NotAnADT", &typecheck.NotAnADT{}, diag.TypNotAnADT},
		{"DuplicateMatchCase", &typecheck.DuplicateMatchCase{}, diag.TypDuplicateMatchCase},
		{"MissingMatchCases", &typecheck.MissingMatchCases{}, diag.TypMissingMatchCases},
		{"ExtraneousMatchCase", &typecheck.ExtraneousMatchCase{}, diag.TypExtraneousMatchCase},
		{"AllegedlyImpossibleMatchCaseWasNotObviouslyImpossible", &typecheck.AllegedlyImpossibleMatchCaseWasNotObviouslyImpossible{}, diag.TypAllegedlyImpossibleMatchCase},
		{"CannotInferTypeOfEmptyMatch", &typecheck.CannotInferTypeOfEmptyMatch{}, diag.TypCannotInferTypeOfEmptyMatch},
		{"AmbiguousMatchCaseOutputType", &typecheck.AmbiguousMatchCaseOutputType{}, diag.TypAmbiguousMatchCaseOutputType},
		{"CannotInferTypeOfTodoExpression", &typecheck.CannotInferTypeOfTodoExpression{}, diag.TypCannotInferTypeOfTodo},
		{"LetStatementTypeContainsPrivateName", &typecheck.LetStatementTypeContainsPrivateName{}, diag.TypLetStatementLeaksPrivateName},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := typecheckDiagnostic(c.err)
			if got.Code != c.code {
				t.Errorf("code = %v, want %v", got.Code, c.code)
			}
		})
	}
}

func TestTypecheckWarningMapsEveryKind(t *testing.T) {
	cases := []struct {
		kind typecheck.WarningKind
		code diag.Code
	}{
		{typecheck.TypeAssertionFailed, diag.TypAssertionFailed},
		{typecheck.NormalFormAssertionFailed, diag.TypNormalFormAssertionFailed},
		{typecheck.TodoEncountered, diag.TypTodoEncountered},
	}
	for _, c := range cases {
		got := typecheckWarning(typecheck.Warning{Kind: c.kind})
		if got.Code != c.code {
			t.Errorf("kind %v: code = %v, want %v", c.kind, got.Code, c.code)
		}
		if got.Severity != diag.SevWarning {
			t.Errorf("kind %v: severity = %v, want SevWarning", c.kind, got.Severity)
		}
	}
}

func TestDiagnosticsForAggregatesEveryStage(t *testing.T) {
	result := corepipeline.Result{
		BindErrors: []binder.Error{&binder.NameNotFound{}},
		VRErrors:   []*variantret.Error{{}},
		FRErrors:   []*funrec.Error{{Kind: funrec.RecursiveReferenceWasNotDirectCall}},
		PosErrors:  []*positivity.Error{{Kind: positivity.NonAdtCallee}},
		TCErrors:   []typecheck.Error{&typecheck.NotAnADT{}},
		Warnings:   []typecheck.Warning{{Kind: typecheck.TodoEncountered}},
	}
	diags := diagnosticsFor(result)
	if len(diags) != 6 {
		t.Fatalf("len(diags) = %d, want 6", len(diags))
	}
}

func TestStageErrorCount(t *testing.T) {
	result := corepipeline.Result{
		BindErrors: []binder.Error{&binder.NameNotFound{}, &binder.NameClash{}},
		TCErrors:   []typecheck.Error{&typecheck.NotAnADT{}},
	}
	if got := stageErrorCount(result); got != 3 {
		t.Errorf("stageErrorCount = %d, want 3", got)
	}
}
