package binder

import (
	"glyph/internal/reg"
	"glyph/internal/source"
)

// GlobalKind distinguishes what a permanent (non-transient) De Bruijn level
// denotes: a whole top-level item, or one of a Type item's variants.
type GlobalKind uint8

const (
	GlobalItem GlobalKind = iota
	GlobalVariant
)

// GlobalRef locates the item (and, for a variant level, which variant) that
// consumed a given absolute De Bruijn level.
type GlobalRef struct {
	Kind         GlobalKind
	File         source.FileID
	ItemIndex    int
	VariantIndex int // meaningful only when Kind == GlobalVariant
}

// GlobalLevels replays BindFiles' declaration order to recover which item
// or variant owns each permanent De Bruijn level. Only top-level items and
// variants ever occupy a permanent level — everything else (Fun/Forall/
// match-case/type-own-parameter scopes) is transient and pops before the
// next item is processed — so position i in the returned slice is exactly
// level i's owner.
func GlobalLevels(prog *BoundProgram) []GlobalRef {
	var levels []GlobalRef
	r := prog.Registry
	for _, fid := range prog.FileOrder {
		items := r.Items(prog.Files[fid])
		for itemIdx, it := range items {
			levels = append(levels, GlobalRef{Kind: GlobalItem, File: fid, ItemIndex: itemIdx})
			if it.Kind == reg.ItemType {
				variants := r.Variants(it.Variants)
				for vIdx := range variants {
					levels = append(levels, GlobalRef{Kind: GlobalVariant, File: fid, ItemIndex: itemIdx, VariantIndex: vIdx})
				}
			}
		}
	}
	return levels
}
