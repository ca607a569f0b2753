package binder

import (
	"fmt"

	"glyph/internal/ident"
	"glyph/internal/source"
)

// Error is the common interface every bind error satisfies; each carries
// enough structured detail for a diagnostics collaborator to render a
// message without the core ever formatting one itself.
type Error interface {
	error
	bindError()
}

type NameNotFound struct {
	Components []ident.Name
	// FailedAt is the index of the component that could not be resolved.
	FailedAt int
	Span     source.Span
}

func (e *NameNotFound) Error() string {
	return fmt.Sprintf("name not found at component %d (span %s)", e.FailedAt, e.Span)
}
func (*NameNotFound) bindError() {}

type NameIsPrivate struct {
	Name ident.Name
	Span source.Span
}

func (e *NameIsPrivate) Error() string { return fmt.Sprintf("name is private (span %s)", e.Span) }
func (*NameIsPrivate) bindError()      {}

// CannotLeakPrivateName fires when a name referenced in a Type item's
// signature (its own params, or a variant's params or return type) has a
// visibility stricter than the signature's own.
type CannotLeakPrivateName struct {
	LeakedName    ident.Name
	SignatureVis  ModScope
	LeakedNameVis ModScope
	Span          source.Span
}

func (e *CannotLeakPrivateName) Error() string {
	return fmt.Sprintf("private name leaked into a more visible signature (span %s)", e.Span)
}
func (*CannotLeakPrivateName) bindError() {}

// NameClash fires when two bindings with the same name appear in
// overlapping scope; ExistingSpan locates the earlier declaration so a
// driver can report both sites (§5: "earlier items may be referenced as
// existing in a name clash").
type NameClash struct {
	Name         source.StringID
	ExistingSpan source.Span
	NewSpan      source.Span
}

func (e *NameClash) Error() string {
	return fmt.Sprintf("name clash: already declared at %s, redeclared at %s", e.ExistingSpan, e.NewSpan)
}
func (*NameClash) bindError() {}

type ExpectedTermButNameRefersToMod struct {
	Span source.Span
}

func (e *ExpectedTermButNameRefersToMod) Error() string {
	return fmt.Sprintf("expected a term, but name refers to a module (span %s)", e.Span)
}
func (*ExpectedTermButNameRefersToMod) bindError() {}

type ExpectedModButNameRefersToTerm struct {
	Span source.Span
}

func (e *ExpectedModButNameRefersToTerm) Error() string {
	return fmt.Sprintf("expected a module, but name refers to a term (span %s)", e.Span)
}
func (*ExpectedModButNameRefersToTerm) bindError() {}

type CannotUselesslyImportItemAsSelf struct {
	Span source.Span
}

func (e *CannotUselesslyImportItemAsSelf) Error() string {
	return fmt.Sprintf("cannot import an item under its own name (span %s)", e.Span)
}
func (*CannotUselesslyImportItemAsSelf) bindError() {}

type ModFileNotFound struct {
	ModName ident.Name
	Span    source.Span
}

func (e *ModFileNotFound) Error() string {
	return fmt.Sprintf("no file backs this mod declaration (span %s)", e.Span)
}
func (*ModFileNotFound) bindError() {}

type VisibilityWasNotAtLeastAsPermissive struct {
	DeclaredScope ModScope
	DefiningMod   source.FileID
	Span          source.Span
}

func (e *VisibilityWasNotAtLeastAsPermissive) Error() string {
	return fmt.Sprintf("pub(...) scope is not at least as permissive as the defining module (span %s)", e.Span)
}
func (*VisibilityWasNotAtLeastAsPermissive) bindError() {}

type TransparencyWasNotAtLeastAsRestrictiveAsVisibility struct {
	Transparency ModScope
	Visibility   ModScope
	Span         source.Span
}

func (e *TransparencyWasNotAtLeastAsRestrictiveAsVisibility) Error() string {
	return fmt.Sprintf("transparency is more permissive than visibility (span %s)", e.Span)
}
func (*TransparencyWasNotAtLeastAsRestrictiveAsVisibility) bindError() {}

type TransparencyWasNotAtLeastAsPermissiveAsCurrentMod struct {
	Transparency ModScope
	DefiningMod  source.FileID
	Span         source.Span
}

func (e *TransparencyWasNotAtLeastAsPermissiveAsCurrentMod) Error() string {
	return fmt.Sprintf("transparency scope is not at least as permissive as the defining module (span %s)", e.Span)
}
func (*TransparencyWasNotAtLeastAsPermissiveAsCurrentMod) bindError() {}
