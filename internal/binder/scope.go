package binder

import (
	"glyph/internal/filetree"
	"glyph/internal/source"
)

// ModScope re-exports filetree.ModScope so callers of this package rarely
// need to import internal/filetree directly.
type ModScope = filetree.ModScope

// DefKind classifies what a Symbol denotes.
type DefKind uint8

const (
	DefModule DefKind = iota
	DefType
	DefLet
	DefVariant
	DefParam
	DefFunSelf
)

// Symbol is a named entity reachable from some scope: a module (file),
// a Type/Let item, a variant, or a local binder (param/match-case binder/
// a Fun's self-reference).
type Symbol struct {
	Name         source.StringID
	Kind         DefKind
	Span         source.Span
	DeclFile     source.FileID
	Level        uint32
	Visibility   ModScope
	Transparency ModScope // meaningful only for DefLet
	DotChildren  map[source.StringID]*Symbol
}

func newSymbol(kind DefKind, name source.StringID, span source.Span, file source.FileID) *Symbol {
	return &Symbol{Kind: kind, Name: name, Span: span, DeclFile: file}
}

// Scope is one lexical frame of the binder's scope stack.
type ScopeKind uint8

const (
	ScopeFile ScopeKind = iota
	ScopeFun
	ScopeMatchCase
	ScopeForall
	ScopeVariantParams
)

type Scope struct {
	Kind      ScopeKind
	Names     map[source.StringID]*Symbol
	BaseDepth uint32
}

// Context is the binder's working state while resolving one package: a
// scope stack (for unqualified lookup) plus the flat De Bruijn depth
// counter shared with every binder-introduced entry.
type Context struct {
	Strings     *source.Interner
	Tree        *filetree.Tree
	CurrentFile source.FileID

	scopes []*Scope
	depth  uint32

	// ModuleSymbols holds one DefModule Symbol per file, whose DotChildren
	// are that file's top-level items — the anchor `mod`/`super`/`superN`/
	// `pack` resolve to, and also how a bare name falls back to a submodule
	// reference via the file tree's child lookup by name.
	ModuleSymbols map[source.FileID]*Symbol

	// SignatureVisibility, when non-nil, is the visibility of the item
	// whose public-facing signature (param/return types, a variant's
	// return type) is currently being bound. Every Name resolved while it
	// is set must not be more restricted than this scope, or binding
	// raises CannotLeakPrivateName.
	SignatureVisibility *ModScope
}

// NewContext creates a binder context over tree, rooted at strings for
// identifier text.
func NewContext(strings *source.Interner, tree *filetree.Tree) *Context {
	return &Context{
		Strings:       strings,
		Tree:          tree,
		ModuleSymbols: make(map[source.FileID]*Symbol),
	}
}

// Depth is the current De Bruijn stack length.
func (c *Context) Depth() uint32 { return c.depth }

// PushScope opens a new lexical frame.
func (c *Context) PushScope(kind ScopeKind) *Scope {
	s := &Scope{Kind: kind, Names: make(map[source.StringID]*Symbol), BaseDepth: c.depth}
	c.scopes = append(c.scopes, s)
	return s
}

// PopScope closes the innermost lexical frame. For every scope kind except
// ScopeFile it restores the depth counter to what it was before the
// frame's binders were pushed, discarding their De Bruijn levels. A file
// scope's top-level items never truly go out of scope — they remain
// reachable from other files via dot-child lookup, using the same
// De Bruijn index arithmetic as a lexical reference — so popping a file
// scope only drops its Names map, leaving depth monotonically increasing
// across the whole package.
func (c *Context) PopScope() {
	n := len(c.scopes)
	s := c.scopes[n-1]
	c.scopes = c.scopes[:n-1]
	if s.Kind != ScopeFile {
		c.depth = s.BaseDepth
	}
}

// ModuleSymbol returns (creating if absent) the DefModule symbol for file.
func (c *Context) ModuleSymbol(file source.FileID) *Symbol {
	sym, ok := c.ModuleSymbols[file]
	if !ok {
		sym = newSymbol(DefModule, 0, source.Span{}, file)
		sym.DotChildren = make(map[source.StringID]*Symbol)
		c.ModuleSymbols[file] = sym
	}
	return sym
}

// Declare binds name to sym in the innermost scope, assigning sym a fresh
// De Bruijn level and advancing the depth counter by one. A name of
// source.NoStringID (the `_` wildcard) still consumes a level but is never
// independently referenceable. Returns a NameClash if name already has a
// binding in this scope.
func (c *Context) Declare(name source.StringID, sym *Symbol) Error {
	scope := c.scopes[len(c.scopes)-1]
	if name != source.NoStringID {
		if existing, ok := scope.Names[name]; ok {
			return &NameClash{Name: name, ExistingSpan: existing.Span, NewSpan: sym.Span}
		}
	}
	sym.Level = c.depth
	c.depth++
	if name != source.NoStringID {
		scope.Names[name] = sym
	}
	return nil
}

// DeclareDotChild registers child under parent's dot-target table without
// allocating it a fresh scope binding of its own (it is only reachable via
// parent.child); child must already have had Declare called on it.
func DeclareDotChild(parent *Symbol, name source.StringID, child *Symbol) {
	if parent.DotChildren == nil {
		parent.DotChildren = make(map[source.StringID]*Symbol)
	}
	parent.DotChildren[name] = child
}

// IndexOf converts sym's absolute Level into a De Bruijn index relative to
// the context's current depth.
func (c *Context) IndexOf(sym *Symbol) uint32 {
	return c.depth - sym.Level - 1
}
