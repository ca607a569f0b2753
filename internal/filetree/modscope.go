package filetree

import "glyph/internal/source"

// ModScope is the scope a Visibility or Transparency clause is restricted
// to: either the whole package (Global) or a single module (Mod(file)).
type ModScope struct {
	global bool
	file   source.FileID
}

// GlobalScope is the `pub` (fully public) scope.
func GlobalScope() ModScope { return ModScope{global: true} }

// ModScopeOf is the `pub(mod)`-style scope restricted to file.
func ModScopeOf(file source.FileID) ModScope { return ModScope{file: file} }

// IsGlobal reports whether s is the Global scope.
func (s ModScope) IsGlobal() bool { return s.global }

// File returns the restricting file when s is not Global.
func (s ModScope) File() source.FileID { return s.file }

// String renders the scope for diagnostics.
func (s ModScope) String() string {
	if s.global {
		return "pub"
	}
	return "pub(mod)"
}

// PermitsUseFrom reports whether a name visible in scope s may be
// referenced from useSite, i.e. useSite is a non-strict descendant of s's
// restricting module (or s is Global).
func (s ModScope) PermitsUseFrom(t *Tree, useSite source.FileID) bool {
	if s.global {
		return true
	}
	return t.IsNonStrictDescendant(useSite, s.file)
}

// AtLeastAsPermissiveAs reports whether s admits every use site that other
// admits (s >= other in the permissiveness order Global > Mod(f)).
// Two Mod scopes are only comparable via ancestry: s is at least as
// permissive as other iff s is Global, or other's file is a non-strict
// descendant of s's file (so s's module boundary is the same as or
// encloses other's).
func (s ModScope) AtLeastAsPermissiveAs(t *Tree, other ModScope) bool {
	if s.global {
		return true
	}
	if other.global {
		return false
	}
	return t.IsNonStrictDescendant(other.file, s.file)
}

// Equal reports structural equality of two mod scopes.
func (s ModScope) Equal(other ModScope) bool {
	if s.global != other.global {
		return false
	}
	return s.global || s.file == other.file
}
