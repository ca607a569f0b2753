package binder

import (
	"glyph/internal/ident"
	"glyph/internal/reg"
	"glyph/internal/source"
	"glyph/internal/uast"
)

// resolveComponents walks c's scopes outward to resolve the first
// component, then follows dot-target lookups for the rest, enforcing
// visibility at every step. On success it returns the final Symbol and the
// De Bruijn index to record on the bound Name node.
func (c *Context) resolveComponents(components []uast.NameComponent, span source.Span) (*Symbol, []ident.Name, Error) {
	bound := make([]ident.Name, len(components))
	for i, comp := range components {
		bound[i] = toIdentName(comp)
	}

	// Reserved universes resolve directly; they carry no De Bruijn index
	// and must be the sole component.
	if len(components) == 1 && components[0].Reserved != "" {
		switch components[0].Reserved {
		case "Type", "Type1", "Type2":
			return nil, bound, nil
		}
	}

	first := components[0]
	var sym *Symbol
	switch {
	case first.Reserved == "mod":
		sym = c.ModuleSymbol(c.CurrentFile)
	case first.Reserved == "super":
		anchor, ok := c.Tree.WalkUp(c.CurrentFile, first.SuperLevel)
		if !ok {
			return nil, nil, &NameNotFound{Components: bound, FailedAt: 0, Span: span}
		}
		sym = c.ModuleSymbol(anchor)
	case first.Reserved == "pack":
		sym = c.ModuleSymbol(c.Tree.Root())
	case first.Reserved == "_":
		return nil, nil, &NameNotFound{Components: bound, FailedAt: 0, Span: span}
	default:
		// Ordinary lexical lookup: walk scopes innermost-out.
		var found *Symbol
		for i := len(c.scopes) - 1; i >= 0; i-- {
			if s, ok := c.scopes[i].Names[first.Text]; ok {
				found = s
				break
			}
		}
		if found == nil {
			// Fall back to a submodule reference: the file tree supports
			// child lookup by name.
			if child, ok := c.Tree.Child(c.CurrentFile, symbolText(c, first.Text)); ok {
				found = c.ModuleSymbol(child)
			}
		}
		if found == nil {
			return nil, nil, &NameNotFound{Components: bound, FailedAt: 0, Span: span}
		}
		sym = found
	}

	if sym.Kind != DefModule && !sym.Visibility.IsGlobal() && !c.Tree.IsNonStrictDescendant(c.CurrentFile, visFile(sym.Visibility)) {
		return nil, nil, &NameIsPrivate{Name: bound[0], Span: span}
	}

	for i := 1; i < len(components); i++ {
		comp := components[i]
		if comp.Reserved != "" {
			// Only plain identifiers are valid as non-initial dot components.
			return nil, nil, &NameNotFound{Components: bound, FailedAt: i, Span: span}
		}
		child, ok := sym.DotChildren[comp.Text]
		if !ok {
			return nil, nil, &NameNotFound{Components: bound, FailedAt: i, Span: span}
		}
		if child.Kind != DefModule && !child.Visibility.IsGlobal() && !c.Tree.IsNonStrictDescendant(c.CurrentFile, visFile(child.Visibility)) {
			return nil, nil, &NameIsPrivate{Name: bound[i], Span: span}
		}
		sym = child
	}

	return sym, bound, nil
}

// ResolveName resolves an unbound Name expression to a bound reg.NameData.
func (c *Context) ResolveName(e uast.Expr, data uast.NameData) (reg.NameData, Error) {
	sym, bound, err := c.resolveComponents(data.Components, e.Span)
	if err != nil {
		return reg.NameData{}, err
	}
	if sym == nil {
		// Reserved universe name (Type/Type1/Type2): index is unused.
		return reg.NameData{Components: bound, Index: 0}, nil
	}
	if sym.Kind == DefModule {
		return reg.NameData{}, &ExpectedTermButNameRefersToMod{Span: e.Span}
	}
	if c.SignatureVisibility != nil && (sym.Kind == DefType || sym.Kind == DefLet) {
		if !sym.Visibility.AtLeastAsPermissiveAs(c.Tree, *c.SignatureVisibility) {
			return reg.NameData{}, &CannotLeakPrivateName{
				LeakedName:    bound[len(bound)-1],
				SignatureVis:  *c.SignatureVisibility,
				LeakedNameVis: sym.Visibility,
				Span:          e.Span,
			}
		}
	}
	idx := c.IndexOf(sym)
	return reg.NameData{Components: bound, Index: reg.DBIndex(idx)}, nil
}

func toIdentName(c uast.NameComponent) ident.Name {
	switch c.Reserved {
	case "":
		return ident.NewStandard(c.Text, c.Span)
	case "Type":
		return ident.NewReserved(ident.Type, c.Span)
	case "Type1":
		return ident.NewReserved(ident.Type1, c.Span)
	case "Type2":
		return ident.NewReserved(ident.Type2, c.Span)
	case "_":
		return ident.NewReserved(ident.Underscore, c.Span)
	case "mod":
		return ident.NewReserved(ident.Mod, c.Span)
	case "pack":
		return ident.NewReserved(ident.Pack, c.Span)
	case "super":
		level := c.SuperLevel
		if level == 0 {
			level = 1
		}
		return ident.NewSuper(level, c.Span)
	default:
		return ident.NewStandard(c.Text, c.Span)
	}
}

func visFile(scope ModScope) source.FileID {
	if scope.IsGlobal() {
		return 0
	}
	return scope.File()
}

// symbolText looks up name's source text; used only for the submodule
// fallback where the file tree is keyed by plain strings rather than
// interned StringIDs.
func symbolText(c *Context, name source.StringID) string {
	s, _ := c.Strings.Lookup(name)
	return s
}
