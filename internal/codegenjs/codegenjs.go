// Package codegenjs is a small, erasing JS emitter that walks a checked
// program's top-level lets and prints a runnable JS module. It never
// participates in binding, checking, or normalization — it consumes
// internal/typecheck's output the same way a real backend collaborator
// would.
package codegenjs

import (
	"fmt"
	"io"
	"strings"

	"glyph/internal/binder"
	"glyph/internal/reg"
	"glyph/internal/source"
)

// Options configures emission.
type Options struct {
	// ModuleName is written as a header comment; informational only.
	ModuleName string
}

// Generate emits prog's top-level `let` items as JS `const` bindings to w.
// Type items erase entirely (types have no JS runtime representation);
// Forall/Check expressions cannot appear in a let's value once checking
// has succeeded, since both are type-level or assertion-only forms, but
// Generate still rejects them defensively rather than emitting garbage.
func Generate(w io.Writer, prog *binder.BoundProgram, strs *source.Interner, opts Options) error {
	g := &generator{r: prog.Registry, strs: strs, variants: variantNames(prog, strs)}
	if opts.ModuleName != "" {
		fmt.Fprintf(w, "// generated from %s — do not edit\n", opts.ModuleName)
	}
	fmt.Fprintln(w, `"use strict";`)
	for _, fid := range prog.FileOrder {
		for _, it := range prog.Registry.Items(prog.Files[fid]) {
			if it.Kind != reg.ItemLet {
				continue
			}
			body, err := g.expr(it.Value)
			if err != nil {
				return fmt.Errorf("%s: %w", it.Name.Display(strs), err)
			}
			fmt.Fprintf(w, "const %s = %s;\n", jsIdent(it.Name.Display(strs)), body)
		}
	}
	return nil
}

type generator struct {
	r        *reg.Registry
	strs     *source.Interner
	variants map[string]bool
}

// variantNames collects the display name of every ADT variant declared
// anywhere in prog, so call() can tell a variant constructor application
// (which erases to a {tag, ...fields} object literal) from an ordinary
// function call.
func variantNames(prog *binder.BoundProgram, strs *source.Interner) map[string]bool {
	names := make(map[string]bool)
	for _, fid := range prog.FileOrder {
		for _, it := range prog.Registry.Items(prog.Files[fid]) {
			if it.Kind != reg.ItemType {
				continue
			}
			for _, v := range prog.Registry.Variants(it.Variants) {
				names[v.Name.Display(strs)] = true
			}
		}
	}
	return names
}

func (g *generator) expr(id reg.ExprID) (string, error) {
	e := g.r.Get(id)
	switch e.Kind {
	case reg.ExprName:
		data := g.r.Name(id)
		return jsIdent(data.Rightmost().Display(g.strs)), nil
	case reg.ExprCall:
		return g.call(id)
	case reg.ExprFun:
		return g.fun(id)
	case reg.ExprMatch:
		return g.match(id)
	case reg.ExprForall:
		return "", fmt.Errorf("forall expression has no JS representation")
	case reg.ExprCheck:
		return "", fmt.Errorf("check expression has no JS representation")
	case reg.ExprTodo:
		return `(() => { throw new Error("todo"); })()`, nil
	default:
		return "", fmt.Errorf("unrecognized expression kind %v", e.Kind)
	}
}

func (g *generator) call(id reg.ExprID) (string, error) {
	data := g.r.Call(id)
	args := g.r.Args(data.Args)

	if calleeExpr := g.r.Get(data.Callee); calleeExpr.Kind == reg.ExprName {
		tag := g.r.Name(data.Callee).Rightmost().Display(g.strs)
		if g.variants[tag] {
			return g.constructVariant(tag, args)
		}
	}

	callee, err := g.expr(data.Callee)
	if err != nil {
		return "", err
	}
	parts := make([]string, len(args))
	for i, a := range args {
		s, err := g.expr(a.Value)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return fmt.Sprintf("%s(%s)", callee, strings.Join(parts, ", ")), nil
}

// constructVariant erases a variant constructor call to a tagged object
// literal, the runtime shape match() destructures via __m.tag/__m._i.
func (g *generator) constructVariant(tag string, args []reg.Arg) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "{ tag: %q", tag)
	for i, a := range args {
		s, err := g.expr(a.Value)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, ", _%d: %s", i, s)
	}
	b.WriteString(" }")
	return b.String(), nil
}

func (g *generator) fun(id reg.ExprID) (string, error) {
	data := g.r.Fun(id)
	params := g.r.Params(data.Params)
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = jsIdent(p.Name.Display(g.strs))
	}
	body, err := g.expr(data.Body)
	if err != nil {
		return "", err
	}
	name := jsIdent(data.Name.Display(g.strs))
	return fmt.Sprintf("(function %s(%s) { return %s; })", name, strings.Join(names, ", "), body), nil
}

// match lowers to a sequence of tag checks against the matchee's
// constructor name, since every variant erases to a plain
// {tag, _0, _1, ...} object at runtime (see constructVariant).
func (g *generator) match(id reg.ExprID) (string, error) {
	data := g.r.Match(id)
	matchee, err := g.expr(data.Matchee)
	if err != nil {
		return "", err
	}
	cases := g.r.MatchCases(data.Cases)
	var b strings.Builder
	fmt.Fprintf(&b, "(function () { const __m = %s; ", matchee)
	for _, c := range cases {
		if c.Impossible {
			continue
		}
		out, err := g.expr(c.Output)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "if (__m.tag === %q) { ", c.VariantName.Display(g.strs))
		for i, p := range c.Params {
			if p.Absent {
				continue
			}
			fmt.Fprintf(&b, "const %s = __m._%d; ", jsIdent(p.Name.Display(g.strs)), i)
		}
		fmt.Fprintf(&b, "return %s; } ", out)
	}
	fmt.Fprintf(&b, `throw new Error("non-exhaustive match"); })()`)
	return b.String(), nil
}

func jsIdent(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r == '.' || r == '-' {
			b.WriteByte('_')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
