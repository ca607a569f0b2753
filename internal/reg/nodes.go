package reg

import (
	"glyph/internal/filetree"
	"glyph/internal/ident"
	"glyph/internal/source"
)

// ExprKind discriminates the seven bound expression forms.
type ExprKind uint8

const (
	ExprName ExprKind = iota
	ExprCall
	ExprFun
	ExprMatch
	ExprForall
	ExprCheck
	ExprTodo
)

func (k ExprKind) String() string {
	switch k {
	case ExprName:
		return "name"
	case ExprCall:
		return "call"
	case ExprFun:
		return "fun"
	case ExprMatch:
		return "match"
	case ExprForall:
		return "forall"
	case ExprCheck:
		return "check"
	case ExprTodo:
		return "todo"
	default:
		return "invalid"
	}
}

// Labeledness mirrors uast.Labeledness for the bound IR.
type Labeledness uint8

const (
	Positional Labeledness = iota
	Labeled
)

// Expr is one node of the bound IR. Payload indexes into the per-kind
// arena selected by Kind (NameData, CallData, ...).
type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload uint32
}

// NameData backs ExprName: a dotted path of identifier components, with a
// De Bruijn index resolved against the innermost binder in scope at the
// use site.
type NameData struct {
	Components []ident.Name
	Index      DBIndex
}

// Rightmost returns the final component of a dotted Name, e.g. `cons` in
// `List.cons`.
func (n NameData) Rightmost() ident.Name {
	return n.Components[len(n.Components)-1]
}

// CallData backs ExprCall.
type CallData struct {
	Callee      ExprID
	Args        ArgListID
	Labeledness Labeledness
}

// Arg is one entry of a Call's argument list.
type Arg struct {
	Label source.StringID // valid only when the list is Labeled
	Value ExprID
	Span  source.Span
}

// Param is one entry of a Fun/Forall/Type/Variant parameter list.
type Param struct {
	Label  source.StringID // valid only when the list is Labeled
	Name   ident.Name
	Type   ExprID
	Dashed bool
	Span   source.Span
}

// FunData backs ExprFun: a named, possibly-recursive function value.
type FunData struct {
	Name        ident.Name
	Params      ParamListID
	Labeledness Labeledness
	// DashedIndex is the index of the dashed (decreasing) parameter within
	// Params, or -1 when the Fun declares no decreasing parameter.
	DashedIndex int32
	ReturnType  ExprID
	Body        ExprID
}

// MatchCaseParam is one binder introduced by a match case.
type MatchCaseParam struct {
	Label  source.StringID
	Name   ident.Name
	Absent bool
	Span   source.Span
}

// MatchCase is one arm of a Match expression. The binder leaves VariantName
// as plain bound text: which ADT variant it names depends on the matchee's
// type, which is not yet known at bind time. VariantIndex is filled in by
// the type checker once the matchee's ADT is known, and is excluded from
// the registry's intern key.
type MatchCase struct {
	VariantName ident.Name
	// VariantIndex is the matched variant's declaration index within its
	// type. Zero (and meaningless) until the type checker resolves it.
	VariantIndex uint32
	Params       []MatchCaseParam
	Labeledness  Labeledness
	HasEllipsis  bool
	Impossible   bool
	Output       ExprID // NoExprID when Impossible
	Span         source.Span
}

// MatchData backs ExprMatch.
type MatchData struct {
	Matchee ExprID
	Cases   MatchCaseListID
}

// ForallData backs ExprForall: a dependent function type.
type ForallData struct {
	Params      ParamListID
	Labeledness Labeledness
	Output      ExprID
}

// CheckAssertion is one entry of a Check expression's assertion list.
type CheckAssertion struct {
	Kind      AssertionKind
	LHSIsGoal bool
	LHS       ExprID
	RHSIsHole bool
	RHS       ExprID
	Span      source.Span
}

// AssertionKind mirrors uast.AssertionKind's two values; the bound IR
// defines its own copy rather than importing internal/uast; the unbound AST
// package must not be a dependency of the bound one.
type AssertionKind uint8

const (
	TypeAssertion AssertionKind = iota
	NormalFormAssertion
)

// CheckData backs ExprCheck.
type CheckData struct {
	Assertions CheckAssertionListID
	Output     ExprID
}

// Variant is one constructor of a Type item.
type Variant struct {
	Name       ident.Name
	Params     ParamListID
	ReturnType ExprID
	Span       source.Span
}

// ItemKind distinguishes Type from Let items.
type ItemKind uint8

const (
	ItemType ItemKind = iota
	ItemLet
)

// Item is a single bound top-level declaration.
type Item struct {
	Kind         ItemKind
	Name         ident.Name
	Visibility   filetree.ModScope
	Transparency filetree.ModScope // meaningful only for ItemLet
	Params       ParamListID
	Variants     VariantListID
	Value        ExprID // meaningful only for ItemLet
	Span         source.Span
}
