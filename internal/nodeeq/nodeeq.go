// Package nodeeq implements the bound IR's node equality: two
// expressions are equal iff their semantic IDs match, where a semantic ID
// is assigned by a second interning pass that strips source spans and
// treats a match's case list as an unordered set. This is deliberately
// separate from internal/reg's own interning, which is span-sensitive and
// order-sensitive (needed for stable diagnostics and deterministic IR),
// whereas the type checker wants spans and case order to not matter.
package nodeeq

import (
	"sort"
	"strconv"
	"strings"

	"glyph/internal/ident"
	"glyph/internal/reg"
)

// ID is a semantic identifier: two expressions sharing one ID are equal
// modulo spans and match-case order.
type ID uint32

// Checker memoizes the registry-ID -> semantic-ID mapping for one
// Registry's lifetime.
type Checker struct {
	r      *reg.Registry
	semOf  map[reg.ExprID]ID
	byKey  map[string]ID
	nextID uint32
}

// New creates a Checker over r.
func New(r *reg.Registry) *Checker {
	return &Checker{
		r:     r,
		semOf: make(map[reg.ExprID]ID),
		byKey: make(map[string]ID),
	}
}

// Equal reports whether a and b are structurally equal modulo spans and
// match-case order.
func (c *Checker) Equal(a, b reg.ExprID) bool {
	return c.SemID(a) == c.SemID(b)
}

// SemID returns id's semantic ID, computing and memoizing it if needed.
func (c *Checker) SemID(id reg.ExprID) ID {
	if !id.IsValid() {
		return 0
	}
	if sem, ok := c.semOf[id]; ok {
		return sem
	}
	key := c.key(id)
	sem, ok := c.byKey[key]
	if !ok {
		c.nextID++
		sem = ID(c.nextID)
		c.byKey[key] = sem
	}
	c.semOf[id] = sem
	return sem
}

func (c *Checker) key(id reg.ExprID) string {
	r := c.r
	expr := r.Get(id)
	var b strings.Builder

	switch expr.Kind {
	case reg.ExprName:
		data := r.Name(id)
		b.WriteString("N;")
		writeIdentList(&b, data.Components)
		b.WriteByte(';')
		b.WriteString(strconv.FormatUint(uint64(data.Index), 36))

	case reg.ExprCall:
		call := r.Call(id)
		b.WriteString("C;")
		b.WriteString(strconv.Itoa(int(call.Labeledness)))
		b.WriteByte(';')
		b.WriteString(strconv.FormatUint(uint64(c.SemID(call.Callee)), 36))
		for _, a := range r.Args(call.Args) {
			b.WriteByte(';')
			b.WriteString(strconv.FormatUint(uint64(a.Label), 36))
			b.WriteByte(',')
			b.WriteString(strconv.FormatUint(uint64(c.SemID(a.Value)), 36))
		}

	case reg.ExprFun:
		data := r.Fun(id)
		b.WriteString("F;")
		writeIdent(&b, data.Name)
		b.WriteByte(';')
		b.WriteString(strconv.Itoa(int(data.Labeledness)))
		b.WriteByte(';')
		b.WriteString(strconv.Itoa(int(data.DashedIndex)))
		for _, p := range r.Params(data.Params) {
			b.WriteByte(';')
			writeParamKey(&b, c, p)
		}
		b.WriteString(";ret=")
		b.WriteString(strconv.FormatUint(uint64(c.SemID(data.ReturnType)), 36))
		b.WriteString(";body=")
		b.WriteString(strconv.FormatUint(uint64(c.SemID(data.Body)), 36))

	case reg.ExprMatch:
		data := r.Match(id)
		b.WriteString("M;")
		b.WriteString(strconv.FormatUint(uint64(c.SemID(data.Matchee)), 36))
		cases := r.MatchCases(data.Cases)
		caseKeys := make([]string, len(cases))
		for i, cs := range cases {
			caseKeys[i] = c.matchCaseKey(cs)
		}
		// Treated as an unordered set: sort so occurrence order never
		// affects the semantic key.
		sort.Strings(caseKeys)
		for _, k := range caseKeys {
			b.WriteByte(';')
			b.WriteString(k)
		}

	case reg.ExprForall:
		data := r.Forall(id)
		b.WriteString("A;")
		b.WriteString(strconv.Itoa(int(data.Labeledness)))
		for _, p := range r.Params(data.Params) {
			b.WriteByte(';')
			writeParamKey(&b, c, p)
		}
		b.WriteString(";out=")
		b.WriteString(strconv.FormatUint(uint64(c.SemID(data.Output)), 36))

	case reg.ExprCheck:
		data := r.Check(id)
		b.WriteString("K;")
		for _, a := range r.Assertions(data.Assertions) {
			b.WriteByte(';')
			b.WriteString(strconv.Itoa(int(a.Kind)))
			b.WriteByte(',')
			if a.LHSIsGoal {
				b.WriteString("goal")
			} else {
				b.WriteString(strconv.FormatUint(uint64(c.SemID(a.LHS)), 36))
			}
			b.WriteByte(',')
			if a.RHSIsHole {
				b.WriteString("hole")
			} else {
				b.WriteString(strconv.FormatUint(uint64(c.SemID(a.RHS)), 36))
			}
		}
		b.WriteString(";out=")
		b.WriteString(strconv.FormatUint(uint64(c.SemID(data.Output)), 36))

	case reg.ExprTodo:
		b.WriteString("T")
	}
	return b.String()
}

func (c *Checker) matchCaseKey(cs reg.MatchCase) string {
	var b strings.Builder
	writeIdent(&b, cs.VariantName)
	b.WriteByte(';')
	b.WriteString(strconv.Itoa(int(cs.Labeledness)))
	b.WriteByte(';')
	if cs.HasEllipsis {
		b.WriteString("1")
	} else {
		b.WriteString("0")
	}
	for _, p := range cs.Params {
		b.WriteByte(';')
		b.WriteString(strconv.FormatUint(uint64(p.Label), 36))
		b.WriteByte(',')
		writeIdent(&b, p.Name)
		b.WriteByte(',')
		if p.Absent {
			b.WriteString("1")
		} else {
			b.WriteString("0")
		}
	}
	b.WriteString(";out=")
	if cs.Impossible {
		b.WriteString("!")
	} else {
		b.WriteString(strconv.FormatUint(uint64(c.SemID(cs.Output)), 36))
	}
	return b.String()
}

func writeParamKey(b *strings.Builder, c *Checker, p reg.Param) {
	b.WriteString(strconv.FormatUint(uint64(p.Label), 36))
	b.WriteByte(',')
	writeIdent(b, p.Name)
	b.WriteByte(',')
	if p.Dashed {
		b.WriteString("1")
	} else {
		b.WriteString("0")
	}
	b.WriteByte(',')
	b.WriteString(strconv.FormatUint(uint64(c.SemID(p.Type)), 36))
}

func writeIdentList(b *strings.Builder, names []ident.Name) {
	for i, n := range names {
		if i > 0 {
			b.WriteByte('.')
		}
		writeIdent(b, n)
	}
}

// writeIdent appends n's content — deliberately excluding n.Span, which is
// the whole point of this package relative to internal/reg's own interning.
func writeIdent(b *strings.Builder, n ident.Name) {
	b.WriteString(strconv.Itoa(int(n.Kind)))
	b.WriteByte(':')
	if n.Kind == ident.Standard {
		b.WriteString(strconv.FormatUint(uint64(n.Text), 36))
		return
	}
	b.WriteString(strconv.Itoa(int(n.Word)))
	if n.Word == ident.Super {
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(int(n.SuperLevel)))
	}
}
