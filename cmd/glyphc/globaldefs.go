package main

import (
	"glyph/internal/binder"
	"glyph/internal/filetree"
	"glyph/internal/reg"
	"glyph/internal/source"
)

// globalDefs implements normalize.Defs over every permanent top-level
// level in a bound program, viewed from one file's transparency
// perspective — the same rule internal/typecheck.Context.Unfold applies,
// reused here so `glyphc normalize` can unfold a top-level let's value in
// isolation, without re-running a full checking session.
type globalDefs struct {
	prog     *binder.BoundProgram
	tree     *filetree.Tree
	levels   []binder.GlobalRef
	viewFrom source.FileID
}

func newGlobalDefs(prog *binder.BoundProgram, tree *filetree.Tree, viewFrom source.FileID) *globalDefs {
	return &globalDefs{prog: prog, tree: tree, levels: binder.GlobalLevels(prog), viewFrom: viewFrom}
}

func (d *globalDefs) Len() int { return len(d.levels) }

func (d *globalDefs) Unfold(level int) (reg.ExprID, bool) {
	if level < 0 || level >= len(d.levels) {
		return reg.NoExprID, false
	}
	ref := d.levels[level]
	if ref.Kind != binder.GlobalItem {
		return reg.NoExprID, false
	}
	items := d.prog.Registry.Items(d.prog.Files[ref.File])
	item := items[ref.ItemIndex]
	if item.Kind != reg.ItemLet {
		return reg.NoExprID, false
	}
	if !item.Transparency.PermitsUseFrom(d.tree, d.viewFrom) {
		return reg.NoExprID, false
	}
	return item.Value, true
}
