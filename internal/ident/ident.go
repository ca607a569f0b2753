// Package ident models source identifiers: standard (interned source text)
// or one of the reserved words recognized by the binder and type checker.
package ident

import "glyph/internal/source"

// Reserved enumerates the reserved identifier words. Unlike standard names,
// reserved words never resolve through a scope lookup; the binder and type
// checker special-case each one directly.
type Reserved uint8

const (
	// NotReserved marks a Standard identifier.
	NotReserved Reserved = iota
	// Type is the universe Type : Type1.
	Type
	// Type1 is the universe Type1 : Type2.
	Type1
	// Type2 is the universe Type2 (top of the modeled hierarchy).
	Type2
	// Underscore is `_`, used as a wildcard label/param name.
	Underscore
	// Mod refers to the enclosing module itself.
	Mod
	// Super refers to an ancestor module, SuperLevel parents up (1..=8).
	Super
	// Pack refers to the package-root module.
	Pack
)

func (r Reserved) String() string {
	switch r {
	case NotReserved:
		return "<standard>"
	case Type:
		return "Type"
	case Type1:
		return "Type1"
	case Type2:
		return "Type2"
	case Underscore:
		return "_"
	case Mod:
		return "mod"
	case Super:
		return "super"
	case Pack:
		return "pack"
	default:
		return "<invalid-reserved>"
	}
}

// Kind distinguishes a Standard identifier from a Reserved one.
type Kind uint8

const (
	// Standard identifiers carry interned source text.
	Standard Kind = iota
	// ReservedKind identifiers carry a Reserved word (and for Super, a level).
	ReservedKind
)

// Name is a single identifier: either a standard name or a reserved word.
// It optionally carries a source span (identifiers synthesized internally,
// e.g. by desugaring, may omit one).
type Name struct {
	Kind Kind
	// Text holds the interned string for Kind == Standard.
	Text source.StringID
	// Word holds the reserved word for Kind == ReservedKind.
	Word Reserved
	// SuperLevel is 1..=8 when Word == Super; the number of parents to walk.
	SuperLevel uint8
	Span       source.Span
}

// NewStandard builds a standard identifier.
func NewStandard(text source.StringID, span source.Span) Name {
	return Name{Kind: Standard, Text: text, Span: span}
}

// NewReserved builds a reserved identifier other than `super`.
func NewReserved(word Reserved, span source.Span) Name {
	return Name{Kind: ReservedKind, Word: word, Span: span}
}

// NewSuper builds a `super`..`super8` identifier. level must be 1..=8.
func NewSuper(level uint8, span source.Span) Name {
	return Name{Kind: ReservedKind, Word: Super, SuperLevel: level, Span: span}
}

// IsReserved reports whether n is one of the reserved words.
func (n Name) IsReserved() bool { return n.Kind == ReservedKind }

// Display renders n using strs to resolve standard text, for diagnostics.
func (n Name) Display(strs *source.Interner) string {
	if n.Kind == Standard {
		if strs != nil {
			if s, ok := strs.Lookup(n.Text); ok {
				return s
			}
		}
		return "<unresolved>"
	}
	if n.Word == Super && n.SuperLevel > 1 {
		return wordWithLevel(n.SuperLevel)
	}
	return n.Word.String()
}

func wordWithLevel(level uint8) string {
	digits := [...]string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}
	if level < 10 {
		return "super" + digits[level]
	}
	return "super"
}

// Equal reports whether two identifiers denote the same name, ignoring spans.
func Equal(a, b Name) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == Standard {
		return a.Text == b.Text
	}
	if a.Word != b.Word {
		return false
	}
	if a.Word == Super {
		return a.SuperLevel == b.SuperLevel
	}
	return true
}
