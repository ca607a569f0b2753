// Package uastjson decodes a JSON package description into the types
// internal/uast and internal/binder expect: a source.Interner, a
// filetree.Tree, and a []uast.File. This is the "lexer/parser/AST-simplifier
// collaborator" that internal/uast's package doc describes as living
// upstream of the core — here it reads pre-simplified JSON instead of
// concrete syntax, so cmd/glyphc never has to parse the language itself.
//
// Every identifier in the JSON is a plain string; Decode interns each one
// exactly once per Interner, the same de-duplicating behavior a real lexer
// would get from calling Interner.Intern per token.
package uastjson

import (
	"encoding/json"
	"fmt"

	"glyph/internal/filetree"
	"glyph/internal/source"
	"glyph/internal/uast"
)

// Package is the root JSON document: one compilation unit's file tree.
type Package struct {
	Files []File `json:"files"`
}

// File is one source file. Path must be unique within the package; Parent
// is the path of the file this one is nested under via `mod`, or "" for
// the package root (there must be exactly one rootless file).
type File struct {
	Path       string   `json:"path"`
	Parent     string   `json:"parent,omitempty"`
	ModName    string   `json:"mod_name,omitempty"`
	UsesBefore []string `json:"uses_before,omitempty"`
	Items      []Item   `json:"items"`
}

type Visibility struct {
	Public      bool   `json:"public,omitempty"`
	ScopeGlobal bool   `json:"scope_global,omitempty"`
	ScopeFile   string `json:"scope_file,omitempty"`
}

type Item struct {
	Kind         string      `json:"kind"` // "type" | "let"
	Name         string      `json:"name"`
	Visibility   *Visibility `json:"visibility,omitempty"`
	Transparency *Visibility `json:"transparency,omitempty"`
	Params       *ParamList  `json:"params,omitempty"`
	Variants     []Variant   `json:"variants,omitempty"`
	Value        *Expr       `json:"value,omitempty"`
}

type Variant struct {
	Name       string     `json:"name"`
	Params     *ParamList `json:"params,omitempty"`
	ReturnType *Expr      `json:"return_type,omitempty"`
}

type Param struct {
	Label  string `json:"label,omitempty"`
	Name   string `json:"name"`
	Type   *Expr  `json:"type"`
	Dashed bool   `json:"dashed,omitempty"`
}

type ParamList struct {
	Labeled bool    `json:"labeled,omitempty"`
	Params  []Param `json:"params"`
}

type Arg struct {
	Label string `json:"label,omitempty"`
	Value *Expr  `json:"value"`
}

type ArgList struct {
	Labeled bool  `json:"labeled,omitempty"`
	Args    []Arg `json:"args"`
}

type NameComponent struct {
	Reserved   string `json:"reserved,omitempty"`
	SuperLevel uint8  `json:"super_level,omitempty"`
	Text       string `json:"text,omitempty"`
}

type MatchCaseParam struct {
	Label  string `json:"label,omitempty"`
	Name   string `json:"name,omitempty"`
	Absent bool   `json:"absent,omitempty"`
}

type MatchCaseParamList struct {
	Labeled     bool             `json:"labeled,omitempty"`
	Params      []MatchCaseParam `json:"params"`
	HasEllipsis bool             `json:"has_ellipsis,omitempty"`
}

type MatchCase struct {
	VariantName string              `json:"variant_name"`
	Params      *MatchCaseParamList `json:"params,omitempty"`
	Impossible  bool                `json:"impossible,omitempty"`
	Output      *Expr               `json:"output,omitempty"`
}

type Assertion struct {
	Kind      string `json:"kind"` // "type" | "normal_form"
	LHSIsGoal bool   `json:"lhs_is_goal,omitempty"`
	LHS       *Expr  `json:"lhs,omitempty"`
	RHSIsHole bool   `json:"rhs_is_hole,omitempty"`
	RHS       *Expr  `json:"rhs,omitempty"`
}

// Expr is a tagged union over uast.ExprKind; Kind selects which of the
// remaining fields is populated.
type Expr struct {
	Kind string `json:"kind"` // "name" | "call" | "fun" | "match" | "forall" | "check" | "todo"

	// name
	Components []NameComponent `json:"components,omitempty"`

	// call
	Callee *Expr    `json:"callee,omitempty"`
	Args   *ArgList `json:"args,omitempty"`

	// fun
	Name       string     `json:"name,omitempty"`
	Params     *ParamList `json:"params,omitempty"`
	ReturnType *Expr      `json:"return_type,omitempty"`
	Body       *Expr      `json:"body,omitempty"`

	// match
	Matchee *Expr       `json:"matchee,omitempty"`
	Cases   []MatchCase `json:"cases,omitempty"`

	// forall
	Output *Expr `json:"output,omitempty"`

	// check
	Assertions []Assertion `json:"assertions,omitempty"`
}

// Decoded is what Decode produces: everything corepipeline.Run needs.
type Decoded struct {
	Strings   *source.Interner
	FileSet   *source.FileSet
	Tree      *filetree.Tree
	Files     []uast.File
	ExtraDeps map[source.FileID][]source.FileID
}

// Decode parses raw JSON bytes into a Decoded package description.
func Decode(raw []byte) (*Decoded, error) {
	var pkg Package
	if err := json.Unmarshal(raw, &pkg); err != nil {
		return nil, fmt.Errorf("malformed package JSON: %w", err)
	}
	return decodePackage(&pkg)
}

type decoder struct {
	strings *source.Interner
	fs      *source.FileSet
	ids     map[string]source.FileID
	fid     source.FileID // file currently being decoded; stamped onto every Span
}

func (d *decoder) span() source.Span { return source.Span{File: d.fid} }

func decodePackage(pkg *Package) (*Decoded, error) {
	if len(pkg.Files) == 0 {
		return nil, fmt.Errorf("package has no files")
	}
	d := &decoder{
		strings: source.NewInterner(),
		fs:      source.NewFileSet(),
		ids:     make(map[string]source.FileID, len(pkg.Files)),
	}

	byPath := make(map[string]*File, len(pkg.Files))
	var rootPath string
	for i := range pkg.Files {
		f := &pkg.Files[i]
		if f.Path == "" {
			return nil, fmt.Errorf("file at index %d has no path", i)
		}
		if _, dup := byPath[f.Path]; dup {
			return nil, fmt.Errorf("duplicate file path %q", f.Path)
		}
		byPath[f.Path] = f
		if f.Parent == "" {
			if rootPath != "" {
				return nil, fmt.Errorf("more than one rootless file: %q and %q", rootPath, f.Path)
			}
			rootPath = f.Path
		}
		// AddVirtual gives every file a stable FileID and a (fabricated)
		// content hash so internal/cache can still key on it.
		d.ids[f.Path] = d.fs.AddVirtual(f.Path, []byte(f.Path))
	}
	if rootPath == "" {
		return nil, fmt.Errorf("no rootless (package root) file found")
	}

	tree := filetree.New(d.ids[rootPath])
	for _, f := range pkg.Files {
		if f.Parent == "" {
			continue
		}
		parentID, ok := d.ids[f.Parent]
		if !ok {
			return nil, fmt.Errorf("file %q: parent %q not found", f.Path, f.Parent)
		}
		if f.ModName == "" {
			return nil, fmt.Errorf("file %q: mod_name required for non-root files", f.Path)
		}
		tree.AddChild(parentID, f.ModName, d.ids[f.Path])
	}

	extraDeps := make(map[source.FileID][]source.FileID)
	files := make([]uast.File, 0, len(pkg.Files))
	for _, f := range pkg.Files {
		fid := d.ids[f.Path]
		var uses []source.FileID
		for _, dep := range f.UsesBefore {
			depID, ok := d.ids[dep]
			if !ok {
				return nil, fmt.Errorf("file %q: uses_before %q not found", f.Path, dep)
			}
			uses = append(uses, depID)
		}
		if len(uses) > 0 {
			extraDeps[fid] = uses
		}
		d.fid = fid
		items, err := d.items(f.Items)
		if err != nil {
			return nil, fmt.Errorf("file %q: %w", f.Path, err)
		}
		files = append(files, uast.File{ID: fid, Items: items, UsesBefore: uses})
	}

	return &Decoded{Strings: d.strings, FileSet: d.fs, Tree: tree, Files: files, ExtraDeps: extraDeps}, nil
}

func (d *decoder) items(in []Item) ([]uast.Item, error) {
	out := make([]uast.Item, 0, len(in))
	for _, it := range in {
		var kind uast.ItemKind
		switch it.Kind {
		case "type":
			kind = uast.ItemType
		case "let":
			kind = uast.ItemLet
		default:
			return nil, fmt.Errorf("item %q: unknown kind %q", it.Name, it.Kind)
		}
		params, err := d.optParamList(it.Params)
		if err != nil {
			return nil, err
		}
		variants := make([]uast.Variant, 0, len(it.Variants))
		for _, v := range it.Variants {
			vparams, err := d.optParamList(v.Params)
			if err != nil {
				return nil, err
			}
			variants = append(variants, uast.Variant{
				Name:       d.strings.Intern(v.Name),
				Params:     vparams,
				ReturnType: d.optExpr(v.ReturnType),
				Span:       d.span(),
			})
		}
		var value uast.Expr
		if it.Value != nil {
			value, err = d.expr(it.Value)
			if err != nil {
				return nil, err
			}
		}
		out = append(out, uast.Item{
			Kind:         kind,
			Name:         d.strings.Intern(it.Name),
			Visibility:   d.visibility(it.Visibility),
			Transparency: d.visibility(it.Transparency),
			Params:       params,
			Variants:     variants,
			Value:        value,
			Span:         d.span(),
		})
	}
	return out, nil
}

func (d *decoder) visibility(v *Visibility) uast.VisibilityClause {
	if v == nil {
		return uast.VisibilityClause{}
	}
	var scopeFile source.FileID
	if v.ScopeFile != "" {
		scopeFile = d.ids[v.ScopeFile]
	}
	return uast.VisibilityClause{IsPublic: v.Public, ScopeIsGlobal: v.ScopeGlobal, ScopeFile: scopeFile}
}

func (d *decoder) optParamList(in *ParamList) (*uast.ParamList, error) {
	if in == nil {
		return nil, nil
	}
	out, err := d.paramList(*in)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (d *decoder) paramList(in ParamList) (uast.ParamList, error) {
	params := make([]uast.Param, 0, len(in.Params))
	for _, p := range in.Params {
		ty, err := d.expr(p.Type)
		if err != nil {
			return uast.ParamList{}, err
		}
		params = append(params, uast.Param{
			Label:  d.internOpt(p.Label),
			Name:   d.strings.Intern(p.Name),
			Type:   ty,
			Dashed: p.Dashed,
			Span:   d.span(),
		})
	}
	return uast.ParamList{Labeledness: labeledness(in.Labeled), Params: params}, nil
}

func (d *decoder) argList(in *ArgList) (uast.ArgList, error) {
	if in == nil {
		return uast.ArgList{}, nil
	}
	args := make([]uast.Arg, 0, len(in.Args))
	for _, a := range in.Args {
		val, err := d.expr(a.Value)
		if err != nil {
			return uast.ArgList{}, err
		}
		args = append(args, uast.Arg{Label: d.internOpt(a.Label), Value: val, Span: d.span()})
	}
	return uast.ArgList{Labeledness: labeledness(in.Labeled), Args: args}, nil
}

func (d *decoder) internOpt(s string) source.StringID {
	if s == "" {
		return 0
	}
	return d.strings.Intern(s)
}

func labeledness(labeled bool) uast.Labeledness {
	if labeled {
		return uast.Labeled
	}
	return uast.Positional
}

func (d *decoder) optExpr(in *Expr) uast.Expr {
	if in == nil {
		return uast.Expr{}
	}
	e, err := d.expr(in)
	if err != nil {
		// Callers of optExpr (variant return types) tolerate an invalid
		// Expr; the binder treats a zero-value Expr as "absent".
		return uast.Expr{}
	}
	return e
}

func (d *decoder) expr(in *Expr) (uast.Expr, error) {
	if in == nil {
		return uast.Expr{}, nil
	}
	switch in.Kind {
	case "name":
		comps := make([]uast.NameComponent, 0, len(in.Components))
		for _, c := range in.Components {
			comps = append(comps, uast.NameComponent{
				Reserved:   c.Reserved,
				SuperLevel: c.SuperLevel,
				Text:       d.internOpt(c.Text),
				Span:       d.span(),
			})
		}
		return uast.Expr{Kind: uast.ExprName, Span: d.span(), Data: uast.NameData{Components: comps}}, nil

	case "call":
		callee, err := d.expr(in.Callee)
		if err != nil {
			return uast.Expr{}, err
		}
		args, err := d.argList(in.Args)
		if err != nil {
			return uast.Expr{}, err
		}
		return uast.Expr{Kind: uast.ExprCall, Span: d.span(), Data: uast.CallData{Callee: callee, Args: args}}, nil

	case "fun":
		params, err := d.paramList(derefParamList(in.Params))
		if err != nil {
			return uast.Expr{}, err
		}
		ret, err := d.expr(in.ReturnType)
		if err != nil {
			return uast.Expr{}, err
		}
		body, err := d.expr(in.Body)
		if err != nil {
			return uast.Expr{}, err
		}
		return uast.Expr{Kind: uast.ExprFun, Span: d.span(), Data: uast.FunData{
			Name: d.internOpt(in.Name), Params: params, ReturnType: ret, Body: body,
		}}, nil

	case "match":
		matchee, err := d.expr(in.Matchee)
		if err != nil {
			return uast.Expr{}, err
		}
		cases := make([]uast.MatchCase, 0, len(in.Cases))
		for _, c := range in.Cases {
			mc, err := d.matchCase(c)
			if err != nil {
				return uast.Expr{}, err
			}
			cases = append(cases, mc)
		}
		return uast.Expr{Kind: uast.ExprMatch, Span: d.span(), Data: uast.MatchData{Matchee: matchee, Cases: cases}}, nil

	case "forall":
		params, err := d.paramList(derefParamList(in.Params))
		if err != nil {
			return uast.Expr{}, err
		}
		output, err := d.expr(in.Output)
		if err != nil {
			return uast.Expr{}, err
		}
		return uast.Expr{Kind: uast.ExprForall, Span: d.span(), Data: uast.ForallData{Params: params, Output: output}}, nil

	case "check":
		assertions := make([]uast.CheckAssertion, 0, len(in.Assertions))
		for _, a := range in.Assertions {
			ca, err := d.assertion(a)
			if err != nil {
				return uast.Expr{}, err
			}
			assertions = append(assertions, ca)
		}
		output, err := d.expr(in.Output)
		if err != nil {
			return uast.Expr{}, err
		}
		return uast.Expr{Kind: uast.ExprCheck, Span: d.span(), Data: uast.CheckData{Assertions: assertions, Output: output}}, nil

	case "todo":
		return uast.Expr{Kind: uast.ExprTodo, Span: d.span()}, nil

	default:
		return uast.Expr{}, fmt.Errorf("unknown expr kind %q", in.Kind)
	}
}

func derefParamList(in *ParamList) ParamList {
	if in == nil {
		return ParamList{}
	}
	return *in
}

func (d *decoder) matchCase(in MatchCase) (uast.MatchCase, error) {
	var params *uast.MatchCaseParamList
	if in.Params != nil {
		mps := make([]uast.MatchCaseParam, 0, len(in.Params.Params))
		for _, p := range in.Params.Params {
			mps = append(mps, uast.MatchCaseParam{
				Label:  d.internOpt(p.Label),
				Name:   d.internOpt(p.Name),
				Absent: p.Absent,
				Span:   d.span(),
			})
		}
		params = &uast.MatchCaseParamList{
			Labeledness: labeledness(in.Params.Labeled),
			Params:      mps,
			HasEllipsis: in.Params.HasEllipsis,
		}
	}
	var output uast.Expr
	if !in.Impossible {
		out, err := d.expr(in.Output)
		if err != nil {
			return uast.MatchCase{}, err
		}
		output = out
	}
	return uast.MatchCase{
		VariantName: d.strings.Intern(in.VariantName),
		Params:      params,
		Impossible:  in.Impossible,
		Output:      output,
		Span:        d.span(),
	}, nil
}

func (d *decoder) assertion(in Assertion) (uast.CheckAssertion, error) {
	var kind uast.AssertionKind
	switch in.Kind {
	case "type":
		kind = uast.TypeAssertion
	case "normal_form":
		kind = uast.NormalFormAssertion
	default:
		return uast.CheckAssertion{}, fmt.Errorf("unknown assertion kind %q", in.Kind)
	}
	lhs, err := d.expr(in.LHS)
	if err != nil {
		return uast.CheckAssertion{}, err
	}
	rhs, err := d.expr(in.RHS)
	if err != nil {
		return uast.CheckAssertion{}, err
	}
	return uast.CheckAssertion{
		Kind:      kind,
		LHSIsGoal: in.LHSIsGoal,
		LHS:       lhs,
		RHSIsHole: in.RHSIsHole,
		RHS:       rhs,
		Span:      d.span(),
	}, nil
}
