// Package uast defines the simplified, unbound AST that the binder (see
// internal/binder) consumes. Per this shape is produced upstream,
// by a lexer/parser/AST-simplifier collaborator that is out of the core's
// scope: identifier labels have already been canonicalized, labeled lists
// normalized, `_` labels rejected, and duplicate labels rejected. The core
// only needs the types below to exist; it never constructs them from raw
// text itself.
package uast

import "glyph/internal/source"

// Labeledness distinguishes positional parameter/argument lists from
// uniquely-labeled ones. A list is homogeneous: never a mix of the two.
type Labeledness uint8

const (
	Positional Labeledness = iota
	Labeled
)

// Param is a single parameter in a Fun, Forall, or type/variant param list.
type Param struct {
	// Label is set only when the enclosing list is Labeled; it is the
	// label used at call sites, and may differ from Name.
	Label source.StringID
	Name  source.StringID
	Type  Expr
	// Dashed marks the decreasing parameter of a Fun (at most one per Fun).
	Dashed bool
	Span   source.Span
}

// ParamList is a homogeneous list of parameters.
type ParamList struct {
	Labeledness Labeledness
	Params      []Param
}

// Arg is a single call argument.
type Arg struct {
	Label source.StringID // valid only when the enclosing list is Labeled
	Value Expr
	Span  source.Span
}

// ArgList is a homogeneous list of call arguments.
type ArgList struct {
	Labeledness Labeledness
	Args        []Arg
}

// MatchCaseParam is a pattern-match case's binder. Absent marks a labeled
// param list's `…` omission (the label exists on the variant but this case
// does not bind it).
type MatchCaseParam struct {
	Label  source.StringID
	Name   source.StringID
	Absent bool
	Span   source.Span
}

// MatchCaseParamList mirrors ParamList but allows the `…` ellipsis marker
// on labeled lists (HasEllipsis), meaning labels other than those listed
// are implicitly absent rather than an error.
type MatchCaseParamList struct {
	Labeledness Labeledness
	Params      []MatchCaseParam
	HasEllipsis bool
}

// MatchCase is one arm of a Match expression.
type MatchCase struct {
	VariantName source.StringID
	Params      *MatchCaseParamList // nil when the variant has no params
	// Impossible marks a `!` impossibility claim in place of an output.
	Impossible bool
	Output     Expr // invalid when Impossible
	Span       source.Span
}

// AssertionKind distinguishes `:` type assertions from `=` normal-form ones.
type AssertionKind uint8

const (
	TypeAssertion AssertionKind = iota
	NormalFormAssertion
)

// CheckAssertion is one entry of a `check` expression's assertion list.
type CheckAssertion struct {
	Kind AssertionKind
	// LHSIsGoal marks the literal `goal` keyword in place of an expression.
	LHSIsGoal bool
	LHS       Expr // invalid when LHSIsGoal
	// RHSIsHole marks the literal `?` wildcard in place of an expression.
	RHSIsHole bool
	RHS       Expr // invalid when RHSIsHole
	Span      source.Span
}

// ExprKind enumerates the unbound expression forms.
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

// NameComponent is one dotted segment of a Name expression, e.g. in
// `super2.List.cons`, the components are `super2`, `List`, `cons`.
type NameComponent struct {
	// Reserved, when non-empty, names a reserved word (Type, Type1, Type2,
	// _, mod, super..super8, pack); Text is used only when Reserved == "".
	Reserved   string
	SuperLevel uint8
	Text       source.StringID
	Span       source.Span
}

// Expr is the unbound AST's single expression node; Data holds the
// kind-specific fields as one of the *Data types below.
type Expr struct {
	Kind ExprKind
	Span source.Span
	Data any
}

// NameData backs ExprName.
type NameData struct {
	Components []NameComponent
}

// CallData backs ExprCall.
type CallData struct {
	Callee Expr
	Args   ArgList
}

// FunData backs ExprFun.
type FunData struct {
	Name       source.StringID
	Params     ParamList
	ReturnType Expr
	Body       Expr
}

// MatchData backs ExprMatch.
type MatchData struct {
	Matchee Expr
	Cases   []MatchCase
}

// ForallData backs ExprForall.
type ForallData struct {
	Params ParamList
	Output Expr
}

// CheckData backs ExprCheck.
type CheckData struct {
	Assertions []CheckAssertion
	Output     Expr
}

// Variant is one constructor of a Type item.
type Variant struct {
	Name       source.StringID
	Params     *ParamList // nil when the variant has no params
	ReturnType Expr
	Span       source.Span
}

// ItemKind distinguishes Type from Let items.
type ItemKind uint8

const (
	ItemType ItemKind = iota
	ItemLet
)

// VisibilityClause is the parsed `pub`/`pub(mod)`/private annotation.
// ScopeIsGlobal selects `pub`; otherwise ScopeFile names the `pub(mod)`-style
// restriction. Neither set means the item is private to its file.
type VisibilityClause struct {
	IsPublic      bool
	ScopeIsGlobal bool
	ScopeFile     source.FileID
	Span          source.Span
}

// Item is a single top-level declaration in a File.
type Item struct {
	Kind       ItemKind
	Name       source.StringID
	Visibility VisibilityClause
	// Transparency is meaningful only for ItemLet.
	Transparency VisibilityClause
	// Params/Variants are meaningful only for ItemType.
	Params   *ParamList
	Variants []Variant
	// Value is meaningful only for ItemLet.
	Value Expr
	Span  source.Span
}

// File is an ordered list of items plus the submodules declared within it
// (the `use`/`mod` clauses a parser collaborator has already resolved to
// file IDs, recorded here only as dependency edges for filetree.TopoOrder).
type File struct {
	ID         source.FileID
	Items      []Item
	UsesBefore []source.FileID // submodules whose bindings this file's `use`s require first
}
