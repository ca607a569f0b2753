package typecheck

import (
	"glyph/internal/filetree"
	"glyph/internal/reg"
	"glyph/internal/shift"
	"glyph/internal/source"
)

// tag classifies why a Context entry exists, mirroring the resource
// policy describes ("ADT definitions and variants are pushed onto
// the type-checker context as they are validated").
type tag uint8

const (
	tagADT tag = iota
	tagVariant
	tagParam
	tagFun
	tagLet
)

// entry is one binder in the type-checker's context. typ is expressed
// relative to the entry's own declaration depth (i.e. it may only refer
// to entries below it); callers upshift on lookup.
type entry struct {
	tag          tag
	typ          reg.ExprID
	value        reg.ExprID
	hasValue     bool
	transparency filetree.ModScope
	visibility   filetree.ModScope
}

// Context is Γ: the type checker's ordered stack of binders, indexed by
// absolute De Bruijn level exactly like the binder's own scope stack.
// It implements normalize.Defs so the normalizer can δ-reduce through
// whatever lets are currently in scope.
type Context struct {
	r           *reg.Registry
	tree        *filetree.Tree
	currentFile source.FileID
	entries     []entry
}

// NewContext creates an empty context.
func NewContext(r *reg.Registry, tree *filetree.Tree, currentFile source.FileID) *Context {
	return &Context{r: r, tree: tree, currentFile: currentFile}
}

// SetCurrentFile updates the file transparency is checked against, used
// as the checker moves from one file's items to the next.
func (c *Context) SetCurrentFile(f source.FileID) { c.currentFile = f }

// Len implements normalize.Defs.
func (c *Context) Len() int { return len(c.entries) }

// Unfold implements normalize.Defs: a level unfolds only if it was pushed
// with a value and the current file is permitted to see through its
// transparency.
func (c *Context) Unfold(level int) (reg.ExprID, bool) {
	if level < 0 || level >= len(c.entries) {
		return reg.NoExprID, false
	}
	e := c.entries[level]
	if !e.hasValue {
		return reg.NoExprID, false
	}
	if !e.transparency.PermitsUseFrom(c.tree, c.currentFile) {
		return reg.NoExprID, false
	}
	return e.value, true
}

// TypeAt returns the normal-form type of the entry at level, upshifted to
// the current context depth.
func (c *Context) TypeAt(level int) reg.ExprID {
	e := c.entries[level]
	return shift.Upshift(c.r, e.typ, len(c.entries)-level, 0)
}

// VisibilityAt returns the declared visibility of the item owning level,
// used by the let-type private-name leak scan.
func (c *Context) VisibilityAt(level int) filetree.ModScope {
	return c.entries[level].visibility
}

func (c *Context) pushParam(typ reg.ExprID) {
	c.entries = append(c.entries, entry{tag: tagParam, typ: typ})
}

func (c *Context) pushFun(typ reg.ExprID) {
	c.entries = append(c.entries, entry{tag: tagFun, typ: typ})
}

func (c *Context) pushADT(typ reg.ExprID, visibility filetree.ModScope) {
	c.entries = append(c.entries, entry{tag: tagADT, typ: typ, visibility: visibility})
}

func (c *Context) pushVariant(typ reg.ExprID, visibility filetree.ModScope) {
	c.entries = append(c.entries, entry{tag: tagVariant, typ: typ, visibility: visibility})
}

func (c *Context) pushLet(typ, value reg.ExprID, transparency, visibility filetree.ModScope) {
	c.entries = append(c.entries, entry{
		tag: tagLet, typ: typ, value: value, hasValue: true,
		transparency: transparency, visibility: visibility,
	})
}

// popTo truncates the context back to depth n, the "taint discipline"
// callers use to restore context depth on every early return out of a
// push/validate/pop helper.
func (c *Context) popTo(n int) {
	c.entries = c.entries[:n]
}
