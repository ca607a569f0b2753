// Package reg is the bound IR's registry: a content-addressed, arena-backed
// store for expressions, parameter/argument/case lists, and file items.
// Every cross-reference in the bound IR is a numeric ID scoped to a
// specific node kind, so passing the wrong kind of ID to a lookup is a
// compile error rather than a runtime one.
package reg

import "glyph/internal/source"

// DBIndex is a De Bruijn index: 0-based, counted from a use site outward to
// its binder.
type DBIndex uint32

// ExprID identifies an interned expression node. The zero value, NoExprID,
// never denotes a valid expression.
type ExprID uint32

// NoExprID is the invalid/sentinel ExprID.
const NoExprID ExprID = 0

// IsValid reports whether id refers to an allocated expression.
func (id ExprID) IsValid() bool { return id != NoExprID }

// ParamListID addresses a contiguous run of Params in the registry's flat
// parameter storage.
type ParamListID struct {
	Start uint32
	Len   uint32
}

// Empty reports whether the list has zero parameters.
func (id ParamListID) Empty() bool { return id.Len == 0 }

// ArgListID addresses a contiguous run of Args.
type ArgListID struct {
	Start uint32
	Len   uint32
}

func (id ArgListID) Empty() bool { return id.Len == 0 }

// MatchCaseListID addresses a contiguous run of MatchCases.
type MatchCaseListID struct {
	Start uint32
	Len   uint32
}

func (id MatchCaseListID) Empty() bool { return id.Len == 0 }

// VariantListID addresses a contiguous run of Variants.
type VariantListID struct {
	Start uint32
	Len   uint32
}

func (id VariantListID) Empty() bool { return id.Len == 0 }

// CheckAssertionListID addresses a contiguous run of CheckAssertions.
type CheckAssertionListID struct {
	Start uint32
	Len   uint32
}

func (id CheckAssertionListID) Empty() bool { return id.Len == 0 }

// ItemID identifies a single top-level item (Type or Let declaration).
type ItemID uint32

// NoItemID is the invalid/sentinel ItemID.
const NoItemID ItemID = 0

func (id ItemID) IsValid() bool { return id != NoItemID }

// ItemListID addresses a contiguous run of ItemIDs — a bound File's body.
type ItemListID struct {
	Start uint32
	Len   uint32
}

func (id ItemListID) Empty() bool { return id.Len == 0 }

// FileID reuses the source package's file identity: a bound File is keyed
// by the same ID as its originating source.File.
type FileID = source.FileID
