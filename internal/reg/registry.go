package reg

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"glyph/internal/ident"
	"glyph/internal/source"
)

// Registry is the sole owner of every bound IR node. It interns expressions
// (equal subtrees at the same span share one ExprID; every intern key
// includes the node's span) and owns the flat backing storage addressed by
// the various List IDs. Fun and Check nodes are not interned: every
// InternFun and InternCheck call allocates a new ExprID.
type Registry struct {
	exprs     []Expr
	exprIndex map[string]ExprID // intern key -> ExprID

	names   []NameData
	calls   []CallData
	funs    []FunData
	matches []MatchData
	foralls []ForallData
	checks  []CheckData

	params     []Param
	args       []Arg
	matchCases []MatchCase
	variants   []Variant
	assertions []CheckAssertion
	items      []Item
}

// New creates an empty registry.
func New() *Registry {
	r := &Registry{
		exprIndex: make(map[string]ExprID, 256),
	}
	// Index 0 is reserved as the invalid sentinel for every arena.
	r.exprs = append(r.exprs, Expr{})
	return r
}

func u32(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("reg: arena index overflow: %w", err))
	}
	return v
}

// Get returns the node for id. It panics on an invalid or out-of-range id,
// since every caller is expected to hold IDs obtained from this Registry.
func (r *Registry) Get(id ExprID) *Expr {
	if !id.IsValid() || int(id) >= len(r.exprs) {
		panic(fmt.Sprintf("reg: invalid ExprID %d", id))
	}
	return &r.exprs[id]
}

// Name returns the NameData for a node of kind ExprName.
func (r *Registry) Name(id ExprID) *NameData {
	e := r.Get(id)
	if e.Kind != ExprName {
		panic("reg: Name called on non-name expr")
	}
	return &r.names[e.Payload]
}

// Call returns the CallData for a node of kind ExprCall.
func (r *Registry) Call(id ExprID) *CallData {
	e := r.Get(id)
	if e.Kind != ExprCall {
		panic("reg: Call called on non-call expr")
	}
	return &r.calls[e.Payload]
}

// Fun returns the FunData for a node of kind ExprFun.
func (r *Registry) Fun(id ExprID) *FunData {
	e := r.Get(id)
	if e.Kind != ExprFun {
		panic("reg: Fun called on non-fun expr")
	}
	return &r.funs[e.Payload]
}

// Match returns the MatchData for a node of kind ExprMatch.
func (r *Registry) Match(id ExprID) *MatchData {
	e := r.Get(id)
	if e.Kind != ExprMatch {
		panic("reg: Match called on non-match expr")
	}
	return &r.matches[e.Payload]
}

// Forall returns the ForallData for a node of kind ExprForall.
func (r *Registry) Forall(id ExprID) *ForallData {
	e := r.Get(id)
	if e.Kind != ExprForall {
		panic("reg: Forall called on non-forall expr")
	}
	return &r.foralls[e.Payload]
}

// Check returns the CheckData for a node of kind ExprCheck.
func (r *Registry) Check(id ExprID) *CheckData {
	e := r.Get(id)
	if e.Kind != ExprCheck {
		panic("reg: Check called on non-check expr")
	}
	return &r.checks[e.Payload]
}

// --- List storage accessors -------------------------------------------------

func (r *Registry) Params(id ParamListID) []Param {
	return r.params[id.Start : id.Start+id.Len]
}

func (r *Registry) Args(id ArgListID) []Arg {
	return r.args[id.Start : id.Start+id.Len]
}

func (r *Registry) MatchCases(id MatchCaseListID) []MatchCase {
	return r.matchCases[id.Start : id.Start+id.Len]
}

func (r *Registry) Variants(id VariantListID) []Variant {
	return r.variants[id.Start : id.Start+id.Len]
}

func (r *Registry) Assertions(id CheckAssertionListID) []CheckAssertion {
	return r.assertions[id.Start : id.Start+id.Len]
}

func (r *Registry) Items(id ItemListID) []Item {
	return r.items[id.Start : id.Start+id.Len]
}

// --- List builders -----------------------------------------------------------

// NewParamList appends params to the flat parameter storage and returns a
// list ID spanning them. An empty slice yields the zero ParamListID.
func (r *Registry) NewParamList(params []Param) ParamListID {
	if len(params) == 0 {
		return ParamListID{}
	}
	start := u32(len(r.params))
	r.params = append(r.params, params...)
	return ParamListID{Start: start, Len: u32(len(params))}
}

func (r *Registry) NewArgList(args []Arg) ArgListID {
	if len(args) == 0 {
		return ArgListID{}
	}
	start := u32(len(r.args))
	r.args = append(r.args, args...)
	return ArgListID{Start: start, Len: u32(len(args))}
}

func (r *Registry) NewMatchCaseList(cases []MatchCase) MatchCaseListID {
	if len(cases) == 0 {
		return MatchCaseListID{}
	}
	start := u32(len(r.matchCases))
	r.matchCases = append(r.matchCases, cases...)
	return MatchCaseListID{Start: start, Len: u32(len(cases))}
}

func (r *Registry) NewVariantList(variants []Variant) VariantListID {
	if len(variants) == 0 {
		return VariantListID{}
	}
	start := u32(len(r.variants))
	r.variants = append(r.variants, variants...)
	return VariantListID{Start: start, Len: u32(len(variants))}
}

func (r *Registry) NewAssertionList(assertions []CheckAssertion) CheckAssertionListID {
	if len(assertions) == 0 {
		return CheckAssertionListID{}
	}
	start := u32(len(r.assertions))
	r.assertions = append(r.assertions, assertions...)
	return CheckAssertionListID{Start: start, Len: u32(len(assertions))}
}

// NewItemList appends items and returns a list ID spanning them; used to
// build a bound File's body.
func (r *Registry) NewItemList(items []Item) ItemListID {
	if len(items) == 0 {
		return ItemListID{}
	}
	start := u32(len(r.items))
	r.items = append(r.items, items...)
	return ItemListID{Start: start, Len: u32(len(items))}
}

// --- Interning ---------------------------------------------------------------

// intern looks up key; if absent it allocates a fresh Expr with the given
// kind/span/payload index and records it under key.
func (r *Registry) intern(kind ExprKind, span source.Span, payload uint32, key string) ExprID {
	if id, ok := r.exprIndex[key]; ok {
		return id
	}
	id := ExprID(u32(len(r.exprs)))
	r.exprs = append(r.exprs, Expr{Kind: kind, Span: span, Payload: payload})
	r.exprIndex[key] = id
	return id
}

func spanKey(s source.Span) string {
	return strconv.FormatUint(uint64(s.File), 36) + ":" + strconv.FormatUint(uint64(s.Start), 36) + ":" + strconv.FormatUint(uint64(s.End), 36)
}

// InternName interns a Name expression. An empty component list is
// rejected ("An empty NameExpression is rejected at
// creation").
func (r *Registry) InternName(data NameData, span source.Span) ExprID {
	if len(data.Components) == 0 {
		panic("reg: NameExpression with no components")
	}
	payload := u32(len(r.names))
	r.names = append(r.names, data)
	var b strings.Builder
	b.WriteString("name:")
	b.WriteString(spanKey(span))
	for _, c := range data.Components {
		b.WriteByte(';')
		writeIdentKey(&b, c)
	}
	b.WriteByte(';')
	b.WriteString(strconv.FormatUint(uint64(data.Index), 36))
	return r.intern(ExprName, span, payload, b.String())
}

// writeIdentKey appends a dedup-stable encoding of n to b. The
// identifier's own span is left out; InternName puts the node's span into
// the key separately, so occurrences at different source positions intern
// to different Name nodes.
func writeIdentKey(b *strings.Builder, n ident.Name) {
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

func (r *Registry) InternCall(data CallData, span source.Span) ExprID {
	payload := u32(len(r.calls))
	r.calls = append(r.calls, data)
	var b strings.Builder
	b.WriteString("call:")
	b.WriteString(spanKey(span))
	b.WriteByte(';')
	b.WriteString(strconv.FormatUint(uint64(data.Callee), 36))
	b.WriteByte(';')
	b.WriteString(strconv.Itoa(int(data.Labeledness)))
	for _, a := range r.Args(data.Args) {
		b.WriteByte(';')
		b.WriteString(strconv.FormatUint(uint64(a.Label), 36))
		b.WriteByte(',')
		b.WriteString(strconv.FormatUint(uint64(a.Value), 36))
	}
	return r.intern(ExprCall, span, payload, b.String())
}

func (r *Registry) InternFun(data FunData, span source.Span) ExprID {
	payload := u32(len(r.funs))
	r.funs = append(r.funs, data)
	// Fun is never shared (it is freshly reconstructed with a fresh body
	// reference by the binder for every occurrence), so always allocate a
	// fresh ID rather than attempt a dedup key across mutually recursive
	// constructions.
	id := ExprID(u32(len(r.exprs)))
	r.exprs = append(r.exprs, Expr{Kind: ExprFun, Span: span, Payload: payload})
	return id
}

func (r *Registry) InternMatch(data MatchData, span source.Span) ExprID {
	payload := u32(len(r.matches))
	r.matches = append(r.matches, data)
	var b strings.Builder
	b.WriteString("match:")
	b.WriteString(spanKey(span))
	b.WriteByte(';')
	b.WriteString(strconv.FormatUint(uint64(data.Matchee), 36))
	for _, c := range r.MatchCases(data.Cases) {
		b.WriteByte(';')
		writeIdentKey(&b, c.VariantName)
		b.WriteByte(',')
		if c.Impossible {
			b.WriteString("!")
		} else {
			b.WriteString(strconv.FormatUint(uint64(c.Output), 36))
		}
	}
	return r.intern(ExprMatch, span, payload, b.String())
}

func (r *Registry) InternForall(data ForallData, span source.Span) ExprID {
	payload := u32(len(r.foralls))
	r.foralls = append(r.foralls, data)
	var b strings.Builder
	b.WriteString("forall:")
	b.WriteString(spanKey(span))
	b.WriteByte(';')
	b.WriteString(strconv.Itoa(int(data.Labeledness)))
	for _, p := range r.Params(data.Params) {
		b.WriteByte(';')
		b.WriteString(strconv.FormatUint(uint64(p.Type), 36))
	}
	b.WriteByte(';')
	b.WriteString(strconv.FormatUint(uint64(data.Output), 36))
	return r.intern(ExprForall, span, payload, b.String())
}

func (r *Registry) InternCheck(data CheckData, span source.Span) ExprID {
	payload := u32(len(r.checks))
	r.checks = append(r.checks, data)
	// `check` expressions carry assertion-local semantics (warnings keyed by
	// position) that make cross-occurrence sharing pointless; always fresh.
	id := ExprID(u32(len(r.exprs)))
	r.exprs = append(r.exprs, Expr{Kind: ExprCheck, Span: span, Payload: payload})
	return id
}

func (r *Registry) InternTodo(span source.Span) ExprID {
	var b strings.Builder
	b.WriteString("todo:")
	b.WriteString(spanKey(span))
	return r.intern(ExprTodo, span, 0, b.String())
}
