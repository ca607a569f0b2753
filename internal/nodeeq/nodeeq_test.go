package nodeeq

import (
	"testing"

	"glyph/internal/ident"
	"glyph/internal/reg"
	"glyph/internal/source"
)

func TestEqualIgnoresSpans(t *testing.T) {
	strs := source.NewInterner()
	r := reg.New()
	x := ident.NewStandard(strs.Intern("x"), source.Span{})

	a := r.InternName(reg.NameData{Components: []ident.Name{x}}, source.Span{Start: 0, End: 1})
	b := r.InternName(reg.NameData{Components: []ident.Name{x}}, source.Span{Start: 100, End: 101})

	// InternName's key includes the span, so a and b are distinct registry
	// nodes; nodeeq must still treat them as the same name.
	checker := New(r)
	if !checker.Equal(a, b) {
		t.Error("expected two occurrences of the same name to be Equal")
	}
}

func TestEqualDistinguishesDifferentNames(t *testing.T) {
	strs := source.NewInterner()
	r := reg.New()
	x := ident.NewStandard(strs.Intern("x"), source.Span{})
	y := ident.NewStandard(strs.Intern("y"), source.Span{})

	a := r.InternName(reg.NameData{Components: []ident.Name{x}}, source.Span{})
	b := r.InternName(reg.NameData{Components: []ident.Name{y}}, source.Span{})

	checker := New(r)
	if checker.Equal(a, b) {
		t.Error("expected differently-named expressions to not be Equal")
	}
}

func TestEqualTreatsMatchCaseOrderAsUnordered(t *testing.T) {
	strs := source.NewInterner()
	r := reg.New()
	b := ident.NewStandard(strs.Intern("b"), source.Span{})
	trueName := ident.NewStandard(strs.Intern("True"), source.Span{})
	falseName := ident.NewStandard(strs.Intern("False"), source.Span{})

	bRef := r.InternName(reg.NameData{Components: []ident.Name{b}}, source.Span{})
	trueRef := r.InternName(reg.NameData{Components: []ident.Name{trueName}}, source.Span{})
	falseRef := r.InternName(reg.NameData{Components: []ident.Name{falseName}}, source.Span{})

	// Two matches on the same matchee, same cases, but listed in opposite
	// order — these use distinct spans so reg's own span-sensitive interning
	// never dedups them to the same ExprID; nodeeq should still call them
	// semantically Equal.
	forward := r.InternMatch(reg.MatchData{
		Matchee: bRef,
		Cases: r.NewMatchCaseList([]reg.MatchCase{
			{VariantName: trueName, Output: falseRef},
			{VariantName: falseName, Output: trueRef},
		}),
	}, source.Span{Start: 0, End: 1})
	backward := r.InternMatch(reg.MatchData{
		Matchee: bRef,
		Cases: r.NewMatchCaseList([]reg.MatchCase{
			{VariantName: falseName, Output: trueRef},
			{VariantName: trueName, Output: falseRef},
		}),
	}, source.Span{Start: 10, End: 11})

	checker := New(r)
	if !checker.Equal(forward, backward) {
		t.Error("expected match expressions with reordered cases to be Equal")
	}
}

func TestSemIDIsMemoizedAndStable(t *testing.T) {
	strs := source.NewInterner()
	r := reg.New()
	x := ident.NewStandard(strs.Intern("x"), source.Span{})
	a := r.InternName(reg.NameData{Components: []ident.Name{x}}, source.Span{})

	checker := New(r)
	first := checker.SemID(a)
	second := checker.SemID(a)
	if first != second {
		t.Errorf("SemID is not stable across calls: %v != %v", first, second)
	}
	if first == 0 {
		t.Error("expected a valid expression to have a nonzero semantic ID")
	}
}

func TestSemIDOfInvalidExprIsZero(t *testing.T) {
	r := reg.New()
	checker := New(r)
	if got := checker.SemID(reg.NoExprID); got != 0 {
		t.Errorf("SemID(NoExprID) = %v, want 0", got)
	}
}
