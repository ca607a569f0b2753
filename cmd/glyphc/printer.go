package main

import (
	"fmt"
	"strings"

	"glyph/internal/ident"
	"glyph/internal/reg"
	"glyph/internal/source"
)

// sprintExpr renders a bound registry expression as a compact
// surface-like string, for normalize's output. It is a debug aid, not a
// faithful unparser: a fun prints only its name, a match its matchee and
// case count, a forall its param count and output, a check its assertion
// count and output; params, argument labels and dashed markers are never
// printed.
func sprintExpr(r *reg.Registry, strs *source.Interner, id reg.ExprID) string {
	expr := r.Get(id)
	switch expr.Kind {
	case reg.ExprName:
		data := r.Name(id)
		return sprintName(strs, data.Components)
	case reg.ExprCall:
		data := r.Call(id)
		args := r.Args(data.Args)
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = sprintExpr(r, strs, a.Value)
		}
		return fmt.Sprintf("%s(%s)", sprintExpr(r, strs, data.Callee), strings.Join(parts, ", "))
	case reg.ExprFun:
		data := r.Fun(id)
		return fmt.Sprintf("fun %s(...)", data.Name.Display(strs))
	case reg.ExprMatch:
		data := r.Match(id)
		return fmt.Sprintf("match %s { %d case(s) }", sprintExpr(r, strs, data.Matchee), len(r.MatchCases(data.Cases)))
	case reg.ExprForall:
		data := r.Forall(id)
		params := r.Params(data.Params)
		return fmt.Sprintf("forall(%d param(s)) -> %s", len(params), sprintExpr(r, strs, data.Output))
	case reg.ExprCheck:
		data := r.Check(id)
		return fmt.Sprintf("check { %d assertion(s) } %s", len(r.Assertions(data.Assertions)), sprintExpr(r, strs, data.Output))
	case reg.ExprTodo:
		return "todo"
	default:
		return "<?>"
	}
}

func sprintName(strs *source.Interner, components []ident.Name) string {
	parts := make([]string, len(components))
	for i, c := range components {
		parts[i] = c.Display(strs)
	}
	return strings.Join(parts, ".")
}
