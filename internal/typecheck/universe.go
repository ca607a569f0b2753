package typecheck

import (
	"glyph/internal/ident"
	"glyph/internal/reg"
	"glyph/internal/source"
)

// asUniverse reports whether id is one of the three reserved universe
// names (Type/Type1/Type2), which resolve with no De Bruijn index:
// Type : Type1, Type1 : Type2.
func asUniverse(r *reg.Registry, id reg.ExprID) (ident.Reserved, bool) {
	if !id.IsValid() {
		return ident.NotReserved, false
	}
	expr := r.Get(id)
	if expr.Kind != reg.ExprName {
		return ident.NotReserved, false
	}
	data := r.Name(id)
	if len(data.Components) != 1 {
		return ident.NotReserved, false
	}
	c := data.Components[0]
	if c.Kind != ident.ReservedKind {
		return ident.NotReserved, false
	}
	switch c.Word {
	case ident.Type, ident.Type1, ident.Type2:
		return c.Word, true
	default:
		return ident.NotReserved, false
	}
}

func universeExpr(r *reg.Registry, word ident.Reserved, span source.Span) reg.ExprID {
	return r.InternName(reg.NameData{Components: []ident.Name{ident.NewReserved(word, span)}, Index: 0}, span)
}

// dominate returns the more permissive (higher) of two universes, mirroring
// the Forall typing rule's "the output's universe dominates."
func dominate(a, b ident.Reserved) ident.Reserved {
	if universeRank(b) > universeRank(a) {
		return b
	}
	return a
}

func universeRank(w ident.Reserved) int {
	switch w {
	case ident.Type:
		return 0
	case ident.Type1:
		return 1
	case ident.Type2:
		return 2
	default:
		return 0
	}
}

// synthUniverse synthesizes e's type and requires it to be a universe,
// returning which one.
func (chk *Checker) synthUniverse(e reg.ExprID) (ident.Reserved, Error) {
	ty, err := chk.Synthesize(e)
	if err != nil {
		return ident.NotReserved, err
	}
	ty = chk.normalize(ty)
	word, ok := asUniverse(chk.r, ty)
	if !ok {
		return ident.NotReserved, &ExpectedTypeButGotNonUniverse{Span: chk.r.Get(e).Span}
	}
	return word, nil
}
