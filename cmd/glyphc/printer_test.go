package main

import (
	"strings"
	"testing"

	"glyph/internal/ident"
	"glyph/internal/reg"
	"glyph/internal/source"
)

func TestSprintExprRendersEachKind(t *testing.T) {
	strs := source.NewInterner()
	r := reg.New()

	fName := ident.NewStandard(strs.Intern("f"), source.Span{})
	xName := ident.NewStandard(strs.Intern("x"), source.Span{})
	aName := ident.NewStandard(strs.Intern("a"), source.Span{})
	variantName := ident.NewStandard(strs.Intern("Some"), source.Span{})

	fRef := r.InternName(reg.NameData{Components: []ident.Name{fName}}, source.Span{})
	xRef := r.InternName(reg.NameData{Components: []ident.Name{xName}}, source.Span{})
	callExpr := r.InternCall(reg.CallData{
		Callee: fRef,
		Args:   r.NewArgList([]reg.Arg{{Value: xRef}}),
	}, source.Span{})
	if got := sprintExpr(r, strs, callExpr); got != "f(x)" {
		t.Errorf("call: got %q, want %q", got, "f(x)")
	}

	todoExpr := r.InternTodo(source.Span{})
	if got := sprintExpr(r, strs, todoExpr); got != "todo" {
		t.Errorf("todo: got %q, want %q", got, "todo")
	}

	funExpr := r.InternFun(reg.FunData{
		Name:   fName,
		Params: r.NewParamList([]reg.Param{{Name: aName}}),
		Body:   xRef,
	}, source.Span{})
	if got := sprintExpr(r, strs, funExpr); !strings.Contains(got, "fun f(") {
		t.Errorf("fun: got %q, want it to mention \"fun f(\"", got)
	}

	matchExpr := r.InternMatch(reg.MatchData{
		Matchee: xRef,
		Cases: r.NewMatchCaseList([]reg.MatchCase{
			{VariantName: variantName, Output: xRef},
		}),
	}, source.Span{})
	if got := sprintExpr(r, strs, matchExpr); !strings.Contains(got, "1 case(s)") {
		t.Errorf("match: got %q, want it to mention \"1 case(s)\"", got)
	}

	forallExpr := r.InternForall(reg.ForallData{
		Params: r.NewParamList([]reg.Param{{Name: aName}}),
		Output: xRef,
	}, source.Span{})
	if got := sprintExpr(r, strs, forallExpr); !strings.Contains(got, "forall(1 param(s))") {
		t.Errorf("forall: got %q, want it to mention \"forall(1 param(s))\"", got)
	}

	checkExpr := r.InternCheck(reg.CheckData{
		Assertions: r.NewAssertionList([]reg.CheckAssertion{{LHS: xRef, RHS: xRef}}),
		Output:     xRef,
	}, source.Span{})
	if got := sprintExpr(r, strs, checkExpr); !strings.Contains(got, "1 assertion(s)") {
		t.Errorf("check: got %q, want it to mention \"1 assertion(s)\"", got)
	}
}

func TestSprintNameJoinsDottedComponents(t *testing.T) {
	strs := source.NewInterner()
	listName := ident.NewStandard(strs.Intern("List"), source.Span{})
	consName := ident.NewStandard(strs.Intern("cons"), source.Span{})
	got := sprintName(strs, []ident.Name{listName, consName})
	if got != "List.cons" {
		t.Errorf("sprintName = %q, want %q", got, "List.cons")
	}
}
