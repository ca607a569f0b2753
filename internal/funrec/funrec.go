// Package funrec checks that every Fun's self-recursive calls are
// well-founded: a self-call is only legal when its designated decreasing
// argument is a strict substructure of the original value.
package funrec

import (
	"fmt"

	"glyph/internal/binder"
	"glyph/internal/reg"
	"glyph/internal/source"
)

type ErrorKind uint8

const (
	RecursiveReferenceWasNotDirectCall ErrorKind = iota
	RecursivelyCalledFunctionWithoutDecreasingParam
	NonSubstructPassedToDecreasingParam
	LabelednessMismatch
)

func (k ErrorKind) String() string {
	switch k {
	case RecursiveReferenceWasNotDirectCall:
		return "RecursiveReferenceWasNotDirectCall"
	case RecursivelyCalledFunctionWithoutDecreasingParam:
		return "RecursivelyCalledFunctionWithoutDecreasingParam"
	case NonSubstructPassedToDecreasingParam:
		return "NonSubstructPassedToDecreasingParam"
	case LabelednessMismatch:
		return "LabelednessMismatch"
	default:
		return "<invalid>"
	}
}

type Error struct {
	Kind ErrorKind
	Span source.Span
}

func (e *Error) Error() string { return fmt.Sprintf("%s (span %s)", e.Kind, e.Span) }

// Validated wraps a BoundProgram whose every Fun has passed this checker.
type Validated struct {
	program *binder.BoundProgram
}

func (v Validated) Program() *binder.BoundProgram { return v.program }

// entryKind classifies one frame of the walker's local stack.
type entryKind uint8

const (
	noInformation entryKind = iota
	substruct
	funCannotCall
	funMustCallWithSubstruct
)

type argPos struct {
	labeled bool
	index   int
	label   source.StringID
}

type entry struct {
	kind             entryKind
	superstructLevel int // absolute level within this walk's local stack
	arg              argPos
}

// walker validates the Fun(s) reachable from one top-level item's
// expression tree. Its stack is local to that tree: an index reaching
// outside it names something declared elsewhere (another item, an
// enclosing scope already checked in its own pass), which is always
// unrestricted from this walk's perspective.
type walker struct {
	r     *reg.Registry
	stack []entry
	errs  []*Error
}

func (w *walker) level(idx reg.DBIndex) int { return len(w.stack) - int(idx) - 1 }

func (w *walker) push(e entry) { w.stack = append(w.stack, e) }
func (w *walker) pop(n int)    { w.stack = w.stack[:len(w.stack)-n] }

func (w *walker) fail(kind ErrorKind, span source.Span) {
	w.errs = append(w.errs, &Error{Kind: kind, Span: span})
}

// isSubstructOf reports whether the entry at level a is a strict
// substructure of the value at level b, per the transitive substructure
// relation.
func (w *walker) isSubstructOf(a, b int) bool {
	if a < 0 || a >= len(w.stack) {
		return false
	}
	e := w.stack[a]
	if e.kind != substruct {
		return false
	}
	if e.superstructLevel == b {
		return true
	}
	return w.isSubstructOf(e.superstructLevel, b)
}

// Validate checks every item across prog's files, each from a fresh stack.
func Validate(prog *binder.BoundProgram) (Validated, []*Error) {
	r := prog.Registry
	w := &walker{r: r}
	for _, fid := range prog.FileOrder {
		for _, it := range r.Items(prog.Files[fid]) {
			w.stack = nil
			switch it.Kind {
			case reg.ItemLet:
				if it.Value.IsValid() {
					w.walkExpr(it.Value)
				}
			case reg.ItemType:
				for _, v := range r.Variants(it.Variants) {
					for _, p := range r.Params(v.Params) {
						w.walkExpr(p.Type)
					}
					w.walkExpr(v.ReturnType)
				}
			}
		}
	}
	return Validated{program: prog}, w.errs
}

func (w *walker) walkExpr(id reg.ExprID) {
	if !id.IsValid() {
		return
	}
	expr := w.r.Get(id)
	switch expr.Kind {
	case reg.ExprName:
		data := w.r.Name(id)
		lvl := w.level(data.Index)
		if lvl < 0 || lvl >= len(w.stack) {
			return
		}
		if w.stack[lvl].kind == funCannotCall || w.stack[lvl].kind == funMustCallWithSubstruct {
			w.fail(RecursiveReferenceWasNotDirectCall, expr.Span)
		}

	case reg.ExprCall:
		w.walkCall(id, expr.Span)

	case reg.ExprFun:
		w.walkFun(id)

	case reg.ExprMatch:
		w.walkMatch(id)

	case reg.ExprForall:
		data := w.r.Forall(id)
		n := 0
		for _, p := range w.r.Params(data.Params) {
			w.walkExpr(p.Type)
			w.push(entry{kind: noInformation})
			n++
		}
		w.walkExpr(data.Output)
		w.pop(n)

	case reg.ExprCheck:
		w.walkCheck(id)

	case reg.ExprTodo:
		// Nothing to check.
	}
}

func (w *walker) walkCall(id reg.ExprID, span source.Span) {
	call := w.r.Call(id)
	calleeExpr := w.r.Get(call.Callee)
	args := w.r.Args(call.Args)

	if calleeExpr.Kind == reg.ExprName {
		data := w.r.Name(call.Callee)
		lvl := w.level(data.Index)
		if lvl >= 0 && lvl < len(w.stack) {
			e := w.stack[lvl]
			switch e.kind {
			case funCannotCall:
				w.fail(RecursivelyCalledFunctionWithoutDecreasingParam, span)
				// The Name itself is restricted but this IS its direct
				// call site, so do not also walk into it as a plain Name.
				for _, a := range args {
					w.walkExpr(a.Value)
				}
				return
			case funMustCallWithSubstruct:
				labeledOK := (e.arg.labeled && call.Labeledness == reg.Labeled) ||
					(!e.arg.labeled && call.Labeledness == reg.Positional)
				if !labeledOK {
					w.fail(LabelednessMismatch, span)
				} else {
					var argExpr reg.ExprID
					found := false
					if e.arg.labeled {
						for _, a := range args {
							if a.Label == e.arg.label {
								argExpr = a.Value
								found = true
								break
							}
						}
					} else if e.arg.index < len(args) {
						argExpr = args[e.arg.index].Value
						found = true
					}
					if !found || !w.isSubstructArg(argExpr, e.superstructLevel) {
						w.fail(NonSubstructPassedToDecreasingParam, span)
					}
				}
				for _, a := range args {
					w.walkExpr(a.Value)
				}
				return
			}
		}
	}

	w.walkExpr(call.Callee)
	for _, a := range args {
		w.walkExpr(a.Value)
	}
}

func (w *walker) isSubstructArg(id reg.ExprID, superstructLevel int) bool {
	if !id.IsValid() {
		return false
	}
	expr := w.r.Get(id)
	if expr.Kind != reg.ExprName {
		return false
	}
	data := w.r.Name(id)
	lvl := w.level(data.Index)
	return w.isSubstructOf(lvl, superstructLevel)
}

func (w *walker) walkFun(id reg.ExprID) {
	data := w.r.Fun(id)
	params := w.r.Params(data.Params)

	selfIdx := len(w.stack)
	w.push(entry{kind: noInformation}) // self placeholder, backpatched below

	for _, p := range params {
		w.walkExpr(p.Type)
		w.push(entry{kind: noInformation})
	}

	if data.DashedIndex >= 0 {
		dashedLevel := selfIdx + 1 + int(data.DashedIndex)
		ap := argPos{index: int(data.DashedIndex)}
		if data.Labeledness == reg.Labeled {
			ap.labeled = true
			ap.label = params[data.DashedIndex].Label
		}
		w.stack[selfIdx] = entry{kind: funMustCallWithSubstruct, superstructLevel: dashedLevel, arg: ap}
	} else {
		w.stack[selfIdx] = entry{kind: funCannotCall}
	}

	w.walkExpr(data.ReturnType)
	w.walkExpr(data.Body)
	w.pop(len(params) + 1)
}

func (w *walker) walkMatch(id reg.ExprID) {
	data := w.r.Match(id)
	w.walkExpr(data.Matchee)

	scrutineeLevel := -1
	matcheeExpr := w.r.Get(data.Matchee)
	if matcheeExpr.Kind == reg.ExprName {
		nd := w.r.Name(data.Matchee)
		scrutineeLevel = w.level(nd.Index)
	}

	for _, c := range w.r.MatchCases(data.Cases) {
		n := 0
		for _, p := range c.Params {
			kind := noInformation
			sup := -1
			if !p.Absent && scrutineeLevel >= 0 {
				kind = substruct
				sup = scrutineeLevel
			}
			w.push(entry{kind: kind, superstructLevel: sup})
			n++
		}
		if !c.Impossible {
			w.walkExpr(c.Output)
		}
		w.pop(n)
	}
}

func (w *walker) walkCheck(id reg.ExprID) {
	data := w.r.Check(id)
	for _, a := range w.r.Assertions(data.Assertions) {
		// Assertion sub-expressions are walked like any other
		// expression: a violation inside one is reported as an ordinary
		// error, the same as one in the check's output.
		if !a.LHSIsGoal && a.LHS.IsValid() {
			w.walkExpr(a.LHS)
		}
		if !a.RHSIsHole && a.RHS.IsValid() {
			w.walkExpr(a.RHS)
		}
	}
	w.walkExpr(data.Output)
}
