package codegenjs

import (
	"bytes"
	"strings"
	"testing"

	"glyph/internal/binder"
	"glyph/internal/ident"
	"glyph/internal/reg"
	"glyph/internal/source"
)

// fixture builds a tiny bound program equivalent to:
//
//	type Bool { True, False }
//	let negate = fun (b) { match b { True => False(), False => True() } }
//
// exercised entirely through reg's builder API, bypassing the binder.
func fixture(t *testing.T) (*binder.BoundProgram, *source.Interner, ident.Name) {
	t.Helper()
	strs := source.NewInterner()
	r := reg.New()

	boolName := ident.NewStandard(strs.Intern("Bool"), source.Span{})
	trueName := ident.NewStandard(strs.Intern("True"), source.Span{})
	falseName := ident.NewStandard(strs.Intern("False"), source.Span{})
	negateName := ident.NewStandard(strs.Intern("negate"), source.Span{})
	paramName := ident.NewStandard(strs.Intern("b"), source.Span{})

	variants := r.NewVariantList([]reg.Variant{
		{Name: trueName},
		{Name: falseName},
	})
	typeItem := reg.Item{Kind: reg.ItemType, Name: boolName, Variants: variants}

	trueRef := r.InternName(reg.NameData{Components: []ident.Name{trueName}}, source.Span{})
	falseRef := r.InternName(reg.NameData{Components: []ident.Name{falseName}}, source.Span{})
	trueCall := r.InternCall(reg.CallData{Callee: trueRef}, source.Span{})
	falseCall := r.InternCall(reg.CallData{Callee: falseRef}, source.Span{})

	bRef := r.InternName(reg.NameData{Components: []ident.Name{paramName}}, source.Span{})

	cases := r.NewMatchCaseList([]reg.MatchCase{
		{VariantName: trueName, Output: falseCall},
		{VariantName: falseName, Output: trueCall},
	})
	matchExpr := r.InternMatch(reg.MatchData{Matchee: bRef, Cases: cases}, source.Span{})

	params := r.NewParamList([]reg.Param{{Name: paramName}})
	funExpr := r.InternFun(reg.FunData{Name: negateName, Params: params, Body: matchExpr}, source.Span{})

	letItem := reg.Item{Kind: reg.ItemLet, Name: negateName, Value: funExpr}

	fid := source.FileID(1)
	items := r.NewItemList([]reg.Item{typeItem, letItem})

	prog := &binder.BoundProgram{
		Registry:  r,
		Files:     map[source.FileID]reg.ItemListID{fid: items},
		FileOrder: []source.FileID{fid},
	}
	return prog, strs, negateName
}

func TestGenerateErasesVariantsToTaggedObjects(t *testing.T) {
	prog, strs, _ := fixture(t)
	var buf bytes.Buffer
	if err := Generate(&buf, prog, strs, Options{ModuleName: "bools"}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, `"use strict";`) {
		t.Errorf("missing strict-mode prologue:\n%s", out)
	}
	if !strings.Contains(out, "const negate = ") {
		t.Errorf("missing negate binding:\n%s", out)
	}
	if !strings.Contains(out, `{ tag: "False" }`) {
		t.Errorf("expected False() to erase to a tagged object, got:\n%s", out)
	}
	if !strings.Contains(out, `{ tag: "True" }`) {
		t.Errorf("expected True() to erase to a tagged object, got:\n%s", out)
	}
	if !strings.Contains(out, `__m.tag === "True"`) {
		t.Errorf("expected match to destructure on __m.tag, got:\n%s", out)
	}
}

func TestGenerateRejectsForallAndCheck(t *testing.T) {
	strs := source.NewInterner()
	r := reg.New()
	name := ident.NewStandard(strs.Intern("x"), source.Span{})

	forallExpr := r.InternForall(reg.ForallData{}, source.Span{})
	letItem := reg.Item{Kind: reg.ItemLet, Name: name, Value: forallExpr}
	fid := source.FileID(1)
	prog := &binder.BoundProgram{
		Registry:  r,
		Files:     map[source.FileID]reg.ItemListID{fid: r.NewItemList([]reg.Item{letItem})},
		FileOrder: []source.FileID{fid},
	}

	var buf bytes.Buffer
	if err := Generate(&buf, prog, strs, Options{}); err == nil {
		t.Fatal("expected Generate to reject a forall-valued let, got nil error")
	}

	checkExpr := r.InternCheck(reg.CheckData{}, source.Span{})
	checkItem := reg.Item{Kind: reg.ItemLet, Name: name, Value: checkExpr}
	checkProg := &binder.BoundProgram{
		Registry:  r,
		Files:     map[source.FileID]reg.ItemListID{fid: r.NewItemList([]reg.Item{checkItem})},
		FileOrder: []source.FileID{fid},
	}
	buf.Reset()
	if err := Generate(&buf, checkProg, strs, Options{}); err == nil {
		t.Fatal("expected Generate to reject a check-valued let, got nil error")
	}
}

func TestJSIdentSanitizesDotsAndDashes(t *testing.T) {
	if got := jsIdent("List.cons"); got != "List_cons" {
		t.Errorf("jsIdent(List.cons) = %q, want List_cons", got)
	}
	if got := jsIdent("foo-bar"); got != "foo_bar" {
		t.Errorf("jsIdent(foo-bar) = %q, want foo_bar", got)
	}
}
