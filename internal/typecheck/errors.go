package typecheck

import (
	"fmt"

	"glyph/internal/ident"
	"glyph/internal/reg"
	"glyph/internal/source"
)

// Error is the type checker's error taxonomy. Like
// internal/binder's, every variant is a concrete
// struct tagged by a private method so the compiler catches an
// unhandled case in a type switch.
type Error interface {
	error
	typeError()
}

// NotAFunctionType fires when a Call's callee does not reduce to a Forall.
type NotAFunctionType struct {
	Callee reg.ExprID
	Span   source.Span
}

func (e *NotAFunctionType) Error() string {
	return fmt.Sprintf("callee does not have a function type (span %s)", e.Span)
}
func (*NotAFunctionType) typeError() {}

// ArgumentCountMismatch fires when a Call's argument count doesn't match
// the callee Forall's parameter count.
type ArgumentCountMismatch struct {
	Want, Got int
	Span      source.Span
}

func (e *ArgumentCountMismatch) Error() string {
	return fmt.Sprintf("expected %d arguments, got %d (span %s)", e.Want, e.Got, e.Span)
}
func (*ArgumentCountMismatch) typeError() {}

// ArgumentLabelMismatch fires when a Call's labeledness doesn't match the
// callee Forall's.
type ArgumentLabelMismatch struct {
	Span source.Span
}

func (e *ArgumentLabelMismatch) Error() string {
	return fmt.Sprintf("argument labeling does not match the function type (span %s)", e.Span)
}
func (*ArgumentLabelMismatch) typeError() {}

// TypeMismatch fires when a checked expression's synthesized type doesn't
// match the expected type.
type TypeMismatch struct {
	Want, Got reg.ExprID
	Span      source.Span
}

func (e *TypeMismatch) Error() string {
	return fmt.Sprintf("type mismatch (span %s)", e.Span)
}
func (*TypeMismatch) typeError() {}

// ExpectedTypeButGotNonUniverse fires when an expression expected to be a
// type (a Forall parameter, a Forall output, a Fun's declared return type)
// does not synthesize to Type/Type1/Type2.
type ExpectedTypeButGotNonUniverse struct {
	Span source.Span
}

func (e *ExpectedTypeButGotNonUniverse) Error() string {
	return fmt.Sprintf("expected a type (Type/Type1/Type2) (span %s)", e.Span)
}
func (*ExpectedTypeButGotNonUniverse) typeError() {}

// NotAnADT fires when a Match's matchee type does not reduce to an ADT
// constructor application.
type NotAnADT struct {
	Span source.Span
}

func (e *NotAnADT) Error() string {
	return fmt.Sprintf("matchee is not of an ADT type (span %s)", e.Span)
}
func (*NotAnADT) typeError() {}

// DuplicateMatchCase fires when the same variant name is matched twice.
type DuplicateMatchCase struct {
	Name ident.Name
	Span source.Span
}

func (e *DuplicateMatchCase) Error() string {
	return fmt.Sprintf("duplicate match case (span %s)", e.Span)
}
func (*DuplicateMatchCase) typeError() {}

// MissingMatchCases fires when a match does not cover every variant.
type MissingMatchCases struct {
	Names []ident.Name
	Span  source.Span
}

func (e *MissingMatchCases) Error() string {
	return fmt.Sprintf("missing %d match case(s) (span %s)", len(e.Names), e.Span)
}
func (*MissingMatchCases) typeError() {}

// ExtraneousMatchCase fires when a match case names a variant that does
// not belong to the matchee's ADT.
type ExtraneousMatchCase struct {
	Name ident.Name
	Span source.Span
}

func (e *ExtraneousMatchCase) Error() string {
	return fmt.Sprintf("match case does not name a variant of the matchee's type (span %s)", e.Span)
}
func (*ExtraneousMatchCase) typeError() {}

// AllegedlyImpossibleMatchCaseWasNotObviouslyImpossible fires when a case
// claims impossibility but the checker cannot confirm it is unreachable.
type AllegedlyImpossibleMatchCaseWasNotObviouslyImpossible struct {
	Span source.Span
}

func (e *AllegedlyImpossibleMatchCaseWasNotObviouslyImpossible) Error() string {
	return fmt.Sprintf("case claims impossibility but is not obviously impossible (span %s)", e.Span)
}
func (*AllegedlyImpossibleMatchCaseWasNotObviouslyImpossible) typeError() {}

// CannotInferTypeOfEmptyMatch fires when an empty match has no expected
// type to check against.
type CannotInferTypeOfEmptyMatch struct {
	Span source.Span
}

func (e *CannotInferTypeOfEmptyMatch) Error() string {
	return fmt.Sprintf("cannot infer the type of an empty match (span %s)", e.Span)
}
func (*CannotInferTypeOfEmptyMatch) typeError() {}

// AmbiguousMatchCaseOutputType fires when match case outputs don't agree
// once an expected type is generalized from the first case.
type AmbiguousMatchCaseOutputType struct {
	Span source.Span
}

func (e *AmbiguousMatchCaseOutputType) Error() string {
	return fmt.Sprintf("match case output types do not agree (span %s)", e.Span)
}
func (*AmbiguousMatchCaseOutputType) typeError() {}

// CannotInferTypeOfTodoExpression fires when a Todo expression appears in
// synthesis position.
type CannotInferTypeOfTodoExpression struct {
	Span source.Span
}

func (e *CannotInferTypeOfTodoExpression) Error() string {
	return fmt.Sprintf("cannot infer the type of a todo expression (span %s)", e.Span)
}
func (*CannotInferTypeOfTodoExpression) typeError() {}

// LetStatementTypeContainsPrivateName fires when a let's inferred type
// mentions a name less visible than the let itself.
type LetStatementTypeContainsPrivateName struct {
	LeakedName ident.Name
	Span       source.Span
}

func (e *LetStatementTypeContainsPrivateName) Error() string {
	return fmt.Sprintf("let statement's inferred type leaks a less-visible name (span %s)", e.Span)
}
func (*LetStatementTypeContainsPrivateName) typeError() {}

// WarningKind discriminates the three warning-only conditions the
// checker collects rather than raises.
type WarningKind uint8

const (
	// TypeAssertionFailed: a check's type-assertion LHS didn't synthesize
	// to its claimed RHS.
	TypeAssertionFailed WarningKind = iota
	// NormalFormAssertionFailed: a check's normal-form assertion LHS
	// didn't reduce to its claimed RHS.
	NormalFormAssertionFailed
	// TodoEncountered: a todo expression was reached. In check position it
	// is accepted; in synthesis position CannotInferTypeOfTodoExpression is
	// returned as well.
	TodoEncountered
)

func (k WarningKind) String() string {
	switch k {
	case TypeAssertionFailed:
		return "type-assertion failed"
	case NormalFormAssertionFailed:
		return "normal-form assertion failed"
	case TodoEncountered:
		return "todo expression"
	default:
		return "unknown warning"
	}
}

// Warning is a non-fatal diagnostic collected alongside successful
// checking.
type Warning struct {
	Kind WarningKind
	Span source.Span
}
