package typecheck

import (
	"glyph/internal/binder"
	"glyph/internal/filetree"
	"glyph/internal/ident"
	"glyph/internal/reg"
)

// scanLeakedName walks ty for a Name whose owning item's visibility is
// stricter than ownVis, returning the first one found.
func (chk *Checker) scanLeakedName(ty reg.ExprID, ownVis filetree.ModScope) (ident.Name, bool) {
	levels := binder.GlobalLevels(chk.prog)
	base := chk.ctx.Len()
	return leakWalk(chk.r, levels, chk.prog, chk.tree, ownVis, ty, base, 0)
}

func leakWalk(r *reg.Registry, levels []binder.GlobalRef, prog *binder.BoundProgram, tree *filetree.Tree, ownVis filetree.ModScope, id reg.ExprID, baseLen, localDepth int) (ident.Name, bool) {
	if !id.IsValid() {
		return ident.Name{}, false
	}
	expr := r.Get(id)
	switch expr.Kind {
	case reg.ExprName:
		data := r.Name(id)
		level := baseLen + localDepth - int(data.Index) - 1
		if level < 0 || level >= len(levels) {
			return ident.Name{}, false
		}
		ref := levels[level]
		var itemVis filetree.ModScope
		switch ref.Kind {
		case binder.GlobalItem:
			itemVis = r.Items(prog.Files[ref.File])[ref.ItemIndex].Visibility
		case binder.GlobalVariant:
			itemVis = r.Items(prog.Files[ref.File])[ref.ItemIndex].Visibility
		default:
			return ident.Name{}, false
		}
		if !itemVis.AtLeastAsPermissiveAs(tree, ownVis) {
			return data.Rightmost(), true
		}
		return ident.Name{}, false

	case reg.ExprCall:
		call := r.Call(id)
		if n, ok := leakWalk(r, levels, prog, tree, ownVis, call.Callee, baseLen, localDepth); ok {
			return n, true
		}
		for _, a := range r.Args(call.Args) {
			if n, ok := leakWalk(r, levels, prog, tree, ownVis, a.Value, baseLen, localDepth); ok {
				return n, true
			}
		}

	case reg.ExprFun:
		data := r.Fun(id)
		params := r.Params(data.Params)
		for _, p := range params {
			if n, ok := leakWalk(r, levels, prog, tree, ownVis, p.Type, baseLen, localDepth); ok {
				return n, true
			}
		}
		n := len(params) + 1
		if n2, ok := leakWalk(r, levels, prog, tree, ownVis, data.ReturnType, baseLen, localDepth+n); ok {
			return n2, true
		}
		return leakWalk(r, levels, prog, tree, ownVis, data.Body, baseLen, localDepth+n)

	case reg.ExprMatch:
		data := r.Match(id)
		if n, ok := leakWalk(r, levels, prog, tree, ownVis, data.Matchee, baseLen, localDepth); ok {
			return n, true
		}
		for _, cs := range r.MatchCases(data.Cases) {
			if cs.Impossible {
				continue
			}
			if n, ok := leakWalk(r, levels, prog, tree, ownVis, cs.Output, baseLen, localDepth+len(cs.Params)); ok {
				return n, true
			}
		}

	case reg.ExprForall:
		data := r.Forall(id)
		params := r.Params(data.Params)
		for _, p := range params {
			if n, ok := leakWalk(r, levels, prog, tree, ownVis, p.Type, baseLen, localDepth); ok {
				return n, true
			}
		}
		return leakWalk(r, levels, prog, tree, ownVis, data.Output, baseLen, localDepth+len(params))

	case reg.ExprCheck:
		data := r.Check(id)
		return leakWalk(r, levels, prog, tree, ownVis, data.Output, baseLen, localDepth)
	}
	return ident.Name{}, false
}
