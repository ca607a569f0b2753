// Package binder resolves the unbound AST (internal/uast) into the bound,
// content-addressed IR (internal/reg): every Name becomes a De Bruijn index,
// and every item's visibility/transparency annotation is validated against
// the package's file tree (internal/filetree).
package binder

import (
	"glyph/internal/filetree"
	"glyph/internal/ident"
	"glyph/internal/reg"
	"glyph/internal/source"
	"glyph/internal/uast"
)

// BoundProgram is the result of binding a whole package: the registry
// holding every interned node, each file's top-level item list, and the
// file order binding actually walked them in. Later stages that need to
// replay the binder's De Bruijn bookkeeping (funrec, positivity, typecheck)
// must walk FileOrder, not range over Files, since map iteration order is
// undefined and these items' De Bruijn levels were assigned in exactly
// this sequence.
type BoundProgram struct {
	Registry  *reg.Registry
	Files     map[source.FileID]reg.ItemListID
	FileOrder []source.FileID
}

// BindFiles binds every file in files against tree, visiting files in
// topological order (tree.TopoOrder: a file binds after its parent and
// after every file extraDeps lists for it, so `use` clauses needing
// those files' bindings already resolve). extraDeps
// supplements the tree's parent/child edges with each file's `use`
// dependencies; pass nil if files declare no extra ordering needs beyond
// tree structure.
func BindFiles(strings *source.Interner, tree *filetree.Tree, files []uast.File, extraDeps map[source.FileID][]source.FileID) (*BoundProgram, []Error) {
	byID := make(map[source.FileID]*uast.File, len(files))
	for i := range files {
		byID[files[i].ID] = &files[i]
	}

	r := reg.New()
	c := NewContext(strings, tree)
	prog := &BoundProgram{Registry: r, Files: make(map[source.FileID]reg.ItemListID, len(files))}

	var allErrors []Error
	for _, fid := range tree.TopoOrder(extraDeps) {
		file, ok := byID[fid]
		if !ok {
			// A tree node with no corresponding uast.File is a submodule
			// that exists only to hold further children.
			continue
		}
		c.CurrentFile = fid
		c.PushScope(ScopeFile)
		moduleSym := c.ModuleSymbol(fid)

		items := make([]reg.Item, 0, len(file.Items))
		for _, it := range file.Items {
			bound, errs := c.bindItem(r, moduleSym, it)
			allErrors = append(allErrors, errs...)
			items = append(items, bound)
		}
		prog.Files[fid] = r.NewItemList(items)
		prog.FileOrder = append(prog.FileOrder, fid)
		c.PopScope()
	}
	return prog, allErrors
}

func toModScope(v uast.VisibilityClause, currentFile source.FileID) filetree.ModScope {
	if !v.IsPublic {
		return filetree.ModScopeOf(currentFile)
	}
	if v.ScopeIsGlobal {
		return filetree.GlobalScope()
	}
	return filetree.ModScopeOf(v.ScopeFile)
}

// bindItem binds a single top-level item and validates its visibility and
// (for Let items) transparency clauses. It always returns a best-effort
// reg.Item so that later items and files can still resolve references to
// this one's symbol even when validation failed.
func (c *Context) bindItem(r *reg.Registry, moduleSym *Symbol, it uast.Item) (reg.Item, []Error) {
	var errs []Error
	visibility := toModScope(it.Visibility, c.CurrentFile)
	if !visibility.PermitsUseFrom(c.Tree, c.CurrentFile) {
		errs = append(errs, &VisibilityWasNotAtLeastAsPermissive{
			DeclaredScope: visibility, DefiningMod: c.CurrentFile, Span: it.Visibility.Span,
		})
	}

	var transparency filetree.ModScope
	if it.Kind == uast.ItemLet {
		transparency = toModScope(it.Transparency, c.CurrentFile)
		if !transparency.PermitsUseFrom(c.Tree, c.CurrentFile) {
			errs = append(errs, &TransparencyWasNotAtLeastAsPermissiveAsCurrentMod{
				Transparency: transparency, DefiningMod: c.CurrentFile, Span: it.Transparency.Span,
			})
		}
		if !visibility.AtLeastAsPermissiveAs(c.Tree, transparency) {
			errs = append(errs, &TransparencyWasNotAtLeastAsRestrictiveAsVisibility{
				Transparency: transparency, Visibility: visibility, Span: it.Transparency.Span,
			})
		}
	}

	defKind := DefType
	if it.Kind == uast.ItemLet {
		defKind = DefLet
	}
	sym := newSymbol(defKind, it.Name, it.Span, c.CurrentFile)
	sym.Visibility = visibility
	sym.Transparency = transparency
	if declErr := c.Declare(it.Name, sym); declErr != nil {
		errs = append(errs, declErr)
	}
	DeclareDotChild(moduleSym, it.Name, sym)

	name := identNameOf(it.Name, it.Span)

	if it.Kind == uast.ItemLet {
		value, err := c.BindExpr(r, it.Value)
		if err != nil {
			errs = append(errs, err)
		}
		return reg.Item{
			Kind:         reg.ItemLet,
			Name:         name,
			Visibility:   visibility,
			Transparency: transparency,
			Value:        value,
			Span:         it.Span,
		}, errs
	}

	bound, bindErrs := c.bindTypeItem(r, it, visibility)
	errs = append(errs, bindErrs...)
	bound.Name = name
	bound.Visibility = visibility
	bound.Span = it.Span
	return bound, errs
}

func identNameOf(s source.StringID, span source.Span) ident.Name {
	if s == source.NoStringID {
		return ident.NewReserved(ident.Underscore, span)
	}
	return ident.NewStandard(s, span)
}

// bindTypeItem binds a Type item's own parameters (kept live across every
// variant) and each variant's parameter list and return type in turn. Each
// variant symbol consumes one De Bruijn level of its own, registered as a
// dot-child of the type's symbol (so `Type.variant` resolves) but not as a
// bare lexical name.
func (c *Context) bindTypeItem(r *reg.Registry, it uast.Item, visibility filetree.ModScope) (reg.Item, []Error) {
	var errs []Error
	sigVis := visibility
	c.SignatureVisibility = &sigVis
	defer func() { c.SignatureVisibility = nil }()

	hasOwnParams := it.Params != nil

	// A one-off bind of the type's own parameter list, purely to record
	// its shape on the returned reg.Item; the scope is transient and does
	// not persist into the variant loop below (each variant re-binds the
	// type's own params fresh, so that only the type's and each variant's
	// own symbol consume a permanent De Bruijn level — De Bruijn
	// assignment: "on exit, the appropriate number of entries is popped").
	var ownParams []reg.Param
	if hasOwnParams {
		c.PushScope(ScopeVariantParams)
		var err Error
		ownParams, _, err = c.bindParamList(r, *it.Params, DefParam)
		if err != nil {
			errs = append(errs, err)
		}
		c.PopScope()
	}
	paramListID := r.NewParamList(ownParams)

	variants := make([]reg.Variant, 0, len(it.Variants))
	for _, v := range it.Variants {
		c.PushScope(ScopeVariantParams)
		if hasOwnParams {
			if _, _, err := c.bindParamList(r, *it.Params, DefParam); err != nil {
				errs = append(errs, err)
			}
		}
		var vParams []reg.Param
		if v.Params != nil {
			bound, _, err := c.bindParamList(r, *v.Params, DefParam)
			if err != nil {
				errs = append(errs, err)
			}
			vParams = bound
		}
		retType, err := c.BindExpr(r, v.ReturnType)
		if err != nil {
			errs = append(errs, err)
		}
		c.PopScope()

		vParamListID := r.NewParamList(vParams)
		vSym := newSymbol(DefVariant, v.Name, v.Span, c.CurrentFile)
		vSym.Visibility = visibility
		if declErr := c.Declare(source.NoStringID, vSym); declErr != nil {
			errs = append(errs, declErr)
		}
		if outer, ok := c.currentScopeLookup(it.Name); ok {
			DeclareDotChild(outer, v.Name, vSym)
		}

		variants = append(variants, reg.Variant{
			Name:       identNameOf(v.Name, v.Span),
			Params:     vParamListID,
			ReturnType: retType,
			Span:       v.Span,
		})
	}
	variantListID := r.NewVariantList(variants)

	return reg.Item{
		Kind:     reg.ItemType,
		Params:   paramListID,
		Variants: variantListID,
		Value:    reg.NoExprID,
	}, errs
}

// currentScopeLookup finds name in the nearest enclosing scope that bound
// it, without walking outward past file scope boundaries unexpectedly —
// used only to recover the type Symbol bindItem just declared so variants
// can be registered as its dot-children.
func (c *Context) currentScopeLookup(name source.StringID) (*Symbol, bool) {
	if name == source.NoStringID {
		return nil, false
	}
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if s, ok := c.scopes[i].Names[name]; ok {
			return s, true
		}
	}
	return nil, false
}
