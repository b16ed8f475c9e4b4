// Package resolver implements the Lumen rename phase: every reader
// name in the parsed tree is replaced by a resolved name carrying its
// defining location, sort and uniqueness token. The output is a fresh
// tree; the parsed tree is left untouched so both can be dumped.
package resolver

import (
	"fmt"

	"github.com/lumen-lang/lumen/internal/position"
	"github.com/lumen-lang/lumen/internal/syntax"
)

// PrimModule is the module that owns the wired-in names.
var PrimModule = syntax.Module{Unit: "lumen-prim", Name: "Prim"}

// occKey identifies an occurrence within one namespace.
type occKey struct {
	space syntax.NameSpace
	text  string
}

// wiredIn is the closed set of names baked into the compiler.
var wiredIn = map[occKey]*syntax.Name{}

func addWiredIn(space syntax.NameSpace, text string, uniq syntax.Unique) *syntax.Name {
	n := &syntax.Name{
		Occ:    syntax.OccName{Space: space, Text: text},
		Sort:   syntax.WiredInSort,
		Module: PrimModule,
		Uniq:   uniq,
	}
	wiredIn[occKey{space, text}] = n
	return n
}

// Wired-in name table. Uniques below 100 are reserved for it.
var (
	IntTyCon    = addWiredIn(syntax.TcClsNS, "Int", 1)
	StringTyCon = addWiredIn(syntax.TcClsNS, "String", 2)
	BoolTyCon   = addWiredIn(syntax.TcClsNS, "Bool", 3)
	TrueCon     = addWiredIn(syntax.DataNS, "True", 4)
	FalseCon    = addWiredIn(syntax.DataNS, "False", 5)
	AddVar      = addWiredIn(syntax.VarNS, "add", 6)
	SubVar      = addWiredIn(syntax.VarNS, "sub", 7)
	MulVar      = addWiredIn(syntax.VarNS, "mul", 8)
	ShowVar     = addWiredIn(syntax.VarNS, "show", 9)
	AppendVar   = addWiredIn(syntax.VarNS, "append", 10)
	FromIntVar  = addWiredIn(syntax.VarNS, "fromInt", 11)
	FromStrVar  = addWiredIn(syntax.VarNS, "fromString", 12)
)

// WiredIn looks up a wired-in name, or nil.
func WiredIn(space syntax.NameSpace, text string) *syntax.Name {
	return wiredIn[occKey{space, text}]
}

// Resolver renames one module.
type Resolver struct {
	nextUniq syntax.Unique
	diags    []string

	global   map[occKey]*syntax.Name
	imports  map[string]bool
	external map[occKey]*syntax.Name
	freeVars []*syntax.Name
	seenFree map[syntax.Unique]bool
}

// Resolve renames the parsed file. The returned diagnostics are
// non-empty if any reference could not be resolved; callers should
// then discard the renamed tree.
func Resolve(file *syntax.File) (*syntax.File, []string) {
	r := &Resolver{
		nextUniq: 100,
		global:   make(map[occKey]*syntax.Name),
		imports:  make(map[string]bool),
		external: make(map[occKey]*syntax.Name),
		seenFree: make(map[syntax.Unique]bool),
	}
	out := r.file(file)
	return out, r.diags
}

func (r *Resolver) errorf(span position.Span, format string, args ...any) {
	r.diags = append(r.diags, fmt.Sprintf("%s: %s", span, fmt.Sprintf(format, args...)))
}

func (r *Resolver) fresh(occ syntax.OccName, loc position.Span, sort syntax.NameSort) *syntax.Name {
	n := &syntax.Name{Occ: occ, Loc: loc, Sort: sort, Uniq: r.nextUniq}
	r.nextUniq++
	return n
}

// define registers a top-level name, reporting duplicates.
func (r *Resolver) define(occ syntax.OccName, loc position.Span) *syntax.Name {
	key := occKey{occ.Space, occ.Text}
	if prev, ok := r.global[key]; ok {
		r.errorf(loc, "duplicate definition of %q (previously defined at %s)", occ.Text, prev.Loc)
		return prev
	}
	n := r.fresh(occ, loc, syntax.InternalSort)
	r.global[key] = n
	return n
}

// noteFree records a resolved reference to a name defined outside this
// module, for the module's free-variable set.
func (r *Resolver) noteFree(n *syntax.Name) {
	if n.Sort == syntax.InternalSort || r.seenFree[n.Uniq] {
		return
	}
	r.seenFree[n.Uniq] = true
	r.freeVars = append(r.freeVars, n)
}

func (r *Resolver) file(file *syntax.File) *syntax.File {
	for _, imp := range file.Imports {
		r.imports[imp.Value.Module] = true
	}

	// First pass: bring every top-level definition into scope.
	for _, ld := range file.Decls {
		switch d := ld.Value.(type) {
		case *syntax.FunDecl:
			r.define(occOf(d.Name), d.GetSpan())
		case *syntax.DataDecl:
			r.define(occOf(d.Name), d.GetSpan())
			for _, c := range d.Ctors {
				r.define(occOf(c.Value.Name), c.Span)
			}
		}
	}

	out := &syntax.File{
		Span:    file.Span,
		Name:    file.Name,
		Imports: file.Imports,
	}
	for _, ld := range file.Decls {
		if d := r.decl(ld.Value); d != nil {
			out.Decls = append(out.Decls, syntax.L(ld.Span, d))
		}
	}

	out.Fixities = syntax.Resolved([]syntax.Pair[string, int]{})
	out.FreeVars = syntax.Resolved(r.freeVars)
	return out
}

func occOf(id syntax.Ident) syntax.OccName {
	if rdr, ok := id.(syntax.RdrName); ok {
		return rdr.OccName()
	}
	// Parsed trees only contain reader names.
	return syntax.OccName{Space: syntax.VarNS, Text: id.String()}
}

// scope is the local environment: parameters or type variables layered
// over the module globals.
type scope map[occKey]*syntax.Name

func (r *Resolver) decl(d syntax.Decl) syntax.Decl {
	switch x := d.(type) {
	case *syntax.SigDecl:
		name := r.lookup(x.Name, x.GetSpan(), nil)
		tyScope := scope{}
		ty := r.typ(x.Type, tyScope)
		return &syntax.SigDecl{Span: x.Span, Name: name, Type: ty}
	case *syntax.FunDecl:
		name := r.lookup(x.Name, x.GetSpan(), nil)
		local := scope{}
		params := make([]syntax.Ident, len(x.Params))
		for i, prm := range x.Params {
			occ := occOf(prm)
			n := r.fresh(occ, x.GetSpan(), syntax.InternalSort)
			local[occKey{occ.Space, occ.Text}] = n
			params[i] = n
		}
		body := r.expr(x.Body, local)
		return &syntax.FunDecl{Span: x.Span, Name: name, Params: params, Body: body}
	case *syntax.DataDecl:
		name := r.lookup(x.Name, x.GetSpan(), nil)
		tyScope := scope{}
		tyvars := make([]syntax.Ident, len(x.TyVars))
		for i, tv := range x.TyVars {
			occ := occOf(tv)
			n := r.fresh(occ, x.GetSpan(), syntax.InternalSort)
			tyScope[occKey{occ.Space, occ.Text}] = n
			tyvars[i] = n
		}
		ctors := make([]syntax.Located[*syntax.ConDecl], len(x.Ctors))
		for i, c := range x.Ctors {
			cname := r.lookup(c.Value.Name, c.Span, nil)
			args := make([]syntax.Located[syntax.Type], len(c.Value.Args))
			for j, a := range c.Value.Args {
				args[j] = r.typ(a, tyScope)
			}
			ctors[i] = syntax.L(c.Span, &syntax.ConDecl{Span: c.Value.Span, Name: cname, Args: args})
		}
		return &syntax.DataDecl{Span: x.Span, Name: name, TyVars: tyvars, Ctors: ctors}
	}
	return d
}

// lookup resolves a reader name against the local scope, the module
// globals, the wired-in table and the imported modules, in that order.
func (r *Resolver) lookup(id syntax.Ident, span position.Span, local scope) syntax.Ident {
	switch x := id.(type) {
	case syntax.Unqual:
		key := occKey{x.Name.Space, x.Name.Text}
		if local != nil {
			if n, ok := local[key]; ok {
				return n
			}
		}
		if n, ok := r.global[key]; ok {
			return n
		}
		if n := WiredIn(x.Name.Space, x.Name.Text); n != nil {
			r.noteFree(n)
			return n
		}
		r.errorf(span, "not in scope: %q", x.Name.Text)
		return r.fresh(x.Name, span, syntax.SystemSort)
	case syntax.Qual:
		if !r.imports[x.Module] {
			r.errorf(span, "module %q used in qualified name is not imported", x.Module)
		}
		return r.externalName(syntax.Module{Unit: "user", Name: x.Module}, x.Name)
	case syntax.Orig:
		return r.externalName(x.Module, x.Name)
	case syntax.Exact:
		return x.Name
	case *syntax.Name:
		return x
	}
	r.errorf(span, "unresolvable identifier %v", id)
	return id
}

// externalName interns a reference to a name defined in another
// module. Its defining location is unknown here.
func (r *Resolver) externalName(mod syntax.Module, occ syntax.OccName) *syntax.Name {
	key := occKey{occ.Space, mod.Name + "." + occ.Text}
	if n, ok := r.external[key]; ok {
		return n
	}
	n := r.fresh(occ, position.Span{}, syntax.ExternalSort)
	n.Module = mod
	r.external[key] = n
	r.noteFree(n)
	return n
}

func (r *Resolver) expr(le syntax.Located[syntax.Expr], local scope) syntax.Located[syntax.Expr] {
	return syntax.L(le.Span, r.exprNode(le.Value, local))
}

func (r *Resolver) exprNode(e syntax.Expr, local scope) syntax.Expr {
	switch x := e.(type) {
	case *syntax.VarExpr:
		return &syntax.VarExpr{Span: x.Span, Name: r.lookup(x.Name, x.Span, local)}
	case *syntax.LitExpr:
		// Literal slots stay deferred until the type checker runs.
		return &syntax.LitExpr{
			Span:     x.Span,
			Lit:      x.Lit,
			Witness:  syntax.Deferred[syntax.Expr]("PostTcExpr"),
			ExprType: syntax.Deferred[syntax.Type]("PostTcType"),
		}
	case *syntax.AppExpr:
		return &syntax.AppExpr{
			Span:     x.Span,
			Fn:       r.expr(x.Fn, local),
			Arg:      r.expr(x.Arg, local),
			ExprType: syntax.Deferred[syntax.Type]("PostTcType"),
		}
	case *syntax.ParenExpr:
		return &syntax.ParenExpr{Span: x.Span, Inner: r.expr(x.Inner, local)}
	}
	return e
}

func (r *Resolver) typ(lt syntax.Located[syntax.Type], tyScope scope) syntax.Located[syntax.Type] {
	return syntax.L(lt.Span, r.typeNode(lt.Value, tyScope))
}

func (r *Resolver) typeNode(t syntax.Type, tyScope scope) syntax.Type {
	switch x := t.(type) {
	case *syntax.ConType:
		return &syntax.ConType{
			Span: x.Span,
			Name: r.lookup(x.Name, x.Span, nil),
			Kind: syntax.Deferred[string]("PostTcKind"),
		}
	case *syntax.VarType:
		// Type variables bind implicitly at first use, like signature
		// variables in a language without explicit foralls.
		occ := occOf(x.Name)
		key := occKey{occ.Space, occ.Text}
		n, ok := tyScope[key]
		if !ok {
			n = r.fresh(occ, x.Span, syntax.InternalSort)
			tyScope[key] = n
		}
		return &syntax.VarType{Span: x.Span, Name: n}
	case *syntax.AppType:
		return &syntax.AppType{Span: x.Span, Fn: r.typ(x.Fn, tyScope), Arg: r.typ(x.Arg, tyScope)}
	case *syntax.FunType:
		return &syntax.FunType{Span: x.Span, Arg: r.typ(x.Arg, tyScope), Res: r.typ(x.Res, tyScope)}
	}
	return t
}
