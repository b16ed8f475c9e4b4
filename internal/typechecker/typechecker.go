// Package typechecker implements the Lumen check phase. It consumes
// the renamed tree and produces a type-checked module: identifiers
// become typed variables, deferred slots are populated, bindings are
// collected into a bag, and the export list is computed.
package typechecker

import (
	"fmt"

	"github.com/lumen-lang/lumen/internal/position"
	"github.com/lumen-lang/lumen/internal/resolver"
	"github.com/lumen-lang/lumen/internal/syntax"
)

// checker carries the per-module typing environment.
type checker struct {
	diags []string

	sigs     map[syntax.Unique]syntax.Type // from signature declarations
	ctorTys  map[syntax.Unique]syntax.Type // data constructor types
	tyArity  map[syntax.Unique]int         // local type constructor arity
	localEnv map[syntax.Unique]syntax.Type // parameters in scope
}

// Check type-checks a renamed module. On failure the diagnostics are
// non-empty and the returned module must be discarded.
func Check(file *syntax.File) (*syntax.CheckedModule, []syntax.Avail, []string) {
	c := &checker{
		sigs:    make(map[syntax.Unique]syntax.Type),
		ctorTys: make(map[syntax.Unique]syntax.Type),
		tyArity: make(map[syntax.Unique]int),
	}

	c.collectSigs(file)
	c.collectData(file)

	var binds []syntax.Located[syntax.Decl]
	avails := []syntax.Avail{}
	for _, ld := range file.Decls {
		switch d := ld.Value.(type) {
		case *syntax.FunDecl:
			checked := c.funDecl(d)
			binds = append(binds, syntax.L(ld.Span, syntax.Decl(checked)))
			if n, ok := d.Name.(*syntax.Name); ok {
				avails = append(avails, syntax.Avail{Name: n})
			}
		case *syntax.DataDecl:
			checked := c.dataDecl(d)
			binds = append(binds, syntax.L(ld.Span, syntax.Decl(checked)))
			if n, ok := d.Name.(*syntax.Name); ok {
				av := syntax.Avail{Name: n}
				for _, ctor := range d.Ctors {
					if cn, ok := ctor.Value.Name.(*syntax.Name); ok {
						av.Pieces = append(av.Pieces, cn)
					}
				}
				avails = append(avails, av)
			}
		case *syntax.SigDecl:
			// Signatures dissolve into the typing environment.
		}
	}

	checked := &syntax.CheckedModule{
		Span:   file.Span,
		Module: syntax.Module{Unit: "main", Name: file.Name.Value},
		Binds:  syntax.ListToBag(binds),
	}
	return checked, avails, c.diags
}

func (c *checker) errorf(span position.Span, format string, args ...any) {
	c.diags = append(c.diags, fmt.Sprintf("%s: %s", span, fmt.Sprintf(format, args...)))
}

func (c *checker) collectSigs(file *syntax.File) {
	for _, ld := range file.Decls {
		if sig, ok := ld.Value.(*syntax.SigDecl); ok {
			if n, ok := sig.Name.(*syntax.Name); ok {
				c.sigs[n.Uniq] = sig.Type.Value
			}
		}
	}
}

func (c *checker) collectData(file *syntax.File) {
	for _, ld := range file.Decls {
		data, ok := ld.Value.(*syntax.DataDecl)
		if !ok {
			continue
		}
		tycon, ok := data.Name.(*syntax.Name)
		if !ok {
			continue
		}
		c.tyArity[tycon.Uniq] = len(data.TyVars)

		// Result type: the constructor applied to its variables.
		var result syntax.Type = &syntax.ConType{
			Span: data.Span,
			Name: tycon,
			Kind: syntax.Resolved(kindOfArity(len(data.TyVars))),
		}
		for _, tv := range data.TyVars {
			result = &syntax.AppType{
				Span: data.Span,
				Fn:   syntax.L(data.Span, result),
				Arg:  syntax.L(data.Span, syntax.Type(&syntax.VarType{Span: data.Span, Name: tv})),
			}
		}
		for _, ctor := range data.Ctors {
			n, ok := ctor.Value.Name.(*syntax.Name)
			if !ok {
				continue
			}
			ty := result
			for i := len(ctor.Value.Args) - 1; i >= 0; i-- {
				ty = &syntax.FunType{
					Span: ctor.Span,
					Arg:  syntax.L(ctor.Value.Args[i].Span, c.fillType(ctor.Value.Args[i].Value)),
					Res:  syntax.L(ctor.Span, ty),
				}
			}
			c.ctorTys[n.Uniq] = ty
		}
	}
}

func kindOfArity(arity int) string {
	kind := "*"
	for i := 0; i < arity; i++ {
		kind = "* -> " + kind
	}
	return kind
}

// builtinVarType returns the wired-in type of a primitive variable.
func builtinVarType(n *syntax.Name) syntax.Type {
	intTy := wiredTy(resolver.IntTyCon)
	strTy := wiredTy(resolver.StringTyCon)
	switch n.Uniq {
	case resolver.AddVar.Uniq, resolver.SubVar.Uniq, resolver.MulVar.Uniq:
		return arrow(intTy, arrow(intTy, intTy))
	case resolver.ShowVar.Uniq:
		return arrow(intTy, strTy)
	case resolver.AppendVar.Uniq:
		return arrow(strTy, arrow(strTy, strTy))
	case resolver.FromIntVar.Uniq:
		return arrow(intTy, intTy)
	case resolver.FromStrVar.Uniq:
		return arrow(strTy, strTy)
	case resolver.TrueCon.Uniq, resolver.FalseCon.Uniq:
		return wiredTy(resolver.BoolTyCon)
	}
	return nil
}

func wiredTy(n *syntax.Name) syntax.Type {
	return &syntax.ConType{Name: n, Kind: syntax.Resolved("*")}
}

func arrow(arg, res syntax.Type) syntax.Type {
	return &syntax.FunType{
		Arg: syntax.L(position.Span{}, arg),
		Res: syntax.L(position.Span{}, res),
	}
}

// typeOf looks up the type of a resolved name in scope.
func (c *checker) typeOf(n *syntax.Name, span position.Span) syntax.Type {
	if ty, ok := c.localEnv[n.Uniq]; ok {
		return ty
	}
	if ty, ok := c.sigs[n.Uniq]; ok {
		return c.fillType(ty)
	}
	if ty, ok := c.ctorTys[n.Uniq]; ok {
		return ty
	}
	if ty := builtinVarType(n); ty != nil {
		return ty
	}
	c.errorf(span, "no type information for %q", n.Occ.Text)
	return wiredTy(resolver.IntTyCon)
}

func (c *checker) funDecl(d *syntax.FunDecl) *syntax.FunDecl {
	name, _ := d.Name.(*syntax.Name)

	// Distribute the signature's arrows over the parameters.
	var sigTy syntax.Type
	if name != nil {
		if ty, ok := c.sigs[name.Uniq]; ok {
			sigTy = c.fillType(ty)
		}
	}

	c.localEnv = make(map[syntax.Unique]syntax.Type)
	params := make([]syntax.Ident, len(d.Params))
	resultTy := sigTy
	for i, prm := range d.Params {
		pn, ok := prm.(*syntax.Name)
		if !ok {
			continue
		}
		var paramTy syntax.Type
		if fn, ok := resultTy.(*syntax.FunType); ok {
			paramTy = fn.Arg.Value
			resultTy = fn.Res.Value
		} else {
			if sigTy != nil {
				c.errorf(d.Span, "%q has more parameters than its signature has arrows", pn.Occ.Text)
			}
			paramTy = wiredTy(resolver.IntTyCon)
			resultTy = nil
		}
		c.localEnv[pn.Uniq] = paramTy
		params[i] = &syntax.Var{Name: pn, Type: paramTy}
	}

	body, bodyTy := c.expr(d.Body)
	if resultTy != nil && !typeEqual(resultTy, bodyTy) {
		c.errorf(d.Body.Span, "type mismatch: expected %s, got %s",
			resultTy.Pretty(), bodyTy.Pretty())
	}

	funTy := bodyTy
	if sigTy != nil {
		funTy = sigTy
	} else {
		for i := len(params) - 1; i >= 0; i-- {
			if pv, ok := params[i].(*syntax.Var); ok {
				funTy = arrow(pv.Type, funTy)
			}
		}
	}

	var nameIdent syntax.Ident = d.Name
	if name != nil {
		nameIdent = &syntax.Var{Name: name, Type: funTy}
	}
	return &syntax.FunDecl{Span: d.Span, Name: nameIdent, Params: params, Body: body}
}

func (c *checker) dataDecl(d *syntax.DataDecl) *syntax.DataDecl {
	ctors := make([]syntax.Located[*syntax.ConDecl], len(d.Ctors))
	for i, ctor := range d.Ctors {
		args := make([]syntax.Located[syntax.Type], len(ctor.Value.Args))
		for j, a := range ctor.Value.Args {
			args[j] = syntax.L(a.Span, c.fillType(a.Value))
		}
		ctors[i] = syntax.L(ctor.Span, &syntax.ConDecl{
			Span: ctor.Value.Span,
			Name: ctor.Value.Name,
			Args: args,
		})
	}
	return &syntax.DataDecl{Span: d.Span, Name: d.Name, TyVars: d.TyVars, Ctors: ctors}
}

// expr rebuilds an expression with typed variables and populated
// slots, returning the rebuilt node and its type.
func (c *checker) expr(le syntax.Located[syntax.Expr]) (syntax.Located[syntax.Expr], syntax.Type) {
	node, ty := c.exprNode(le.Value)
	return syntax.L(le.Span, node), ty
}

func (c *checker) exprNode(e syntax.Expr) (syntax.Expr, syntax.Type) {
	switch x := e.(type) {
	case *syntax.VarExpr:
		n, ok := x.Name.(*syntax.Name)
		if !ok {
			c.errorf(x.Span, "unresolved identifier %v survived renaming", x.Name)
			return x, wiredTy(resolver.IntTyCon)
		}
		ty := c.typeOf(n, x.Span)
		return &syntax.VarExpr{Span: x.Span, Name: &syntax.Var{Name: n, Type: ty}}, ty
	case *syntax.LitExpr:
		var ty syntax.Type
		var witness *syntax.Name
		switch x.Lit.(type) {
		case syntax.IntLit:
			ty = wiredTy(resolver.IntTyCon)
			witness = resolver.FromIntVar
		case syntax.StringLit:
			ty = wiredTy(resolver.StringTyCon)
			witness = resolver.FromStrVar
		default:
			c.errorf(x.Span, "unknown literal form %T", x.Lit)
			ty = wiredTy(resolver.IntTyCon)
			witness = resolver.FromIntVar
		}
		wexpr := syntax.Expr(&syntax.VarExpr{
			Span: x.Span,
			Name: &syntax.Var{Name: witness, Type: arrow(ty, ty)},
		})
		return &syntax.LitExpr{
			Span:     x.Span,
			Lit:      x.Lit,
			Witness:  syntax.Resolved(wexpr),
			ExprType: syntax.Resolved(ty),
		}, ty
	case *syntax.AppExpr:
		fn, fnTy := c.expr(x.Fn)
		arg, argTy := c.expr(x.Arg)
		resTy := syntax.Type(wiredTy(resolver.IntTyCon))
		if ft, ok := fnTy.(*syntax.FunType); ok {
			if !typeEqual(ft.Arg.Value, argTy) && !isTypeVar(ft.Arg.Value) {
				c.errorf(x.Arg.Span, "type mismatch: expected %s, got %s",
					ft.Arg.Value.Pretty(), argTy.Pretty())
			}
			resTy = ft.Res.Value
		} else {
			c.errorf(x.Fn.Span, "cannot apply a value of type %s", fnTy.Pretty())
		}
		return &syntax.AppExpr{
			Span:     x.Span,
			Fn:       fn,
			Arg:      arg,
			ExprType: syntax.Resolved(resTy),
		}, resTy
	case *syntax.ParenExpr:
		inner, ty := c.expr(x.Inner)
		return &syntax.ParenExpr{Span: x.Span, Inner: inner}, ty
	}
	c.errorf(e.GetSpan(), "unknown expression form %T", e)
	return e, wiredTy(resolver.IntTyCon)
}

// fillType rebuilds a type with every deferred kind slot populated.
func (c *checker) fillType(t syntax.Type) syntax.Type {
	switch x := t.(type) {
	case *syntax.ConType:
		kind := "*"
		if n, ok := x.Name.(*syntax.Name); ok {
			if arity, ok := c.tyArity[n.Uniq]; ok {
				kind = kindOfArity(arity)
			}
		}
		return &syntax.ConType{Span: x.Span, Name: x.Name, Kind: syntax.Resolved(kind)}
	case *syntax.VarType:
		return x
	case *syntax.AppType:
		return &syntax.AppType{
			Span: x.Span,
			Fn:   syntax.L(x.Fn.Span, c.fillType(x.Fn.Value)),
			Arg:  syntax.L(x.Arg.Span, c.fillType(x.Arg.Value)),
		}
	case *syntax.FunType:
		return &syntax.FunType{
			Span: x.Span,
			Arg:  syntax.L(x.Arg.Span, c.fillType(x.Arg.Value)),
			Res:  syntax.L(x.Res.Span, c.fillType(x.Res.Value)),
		}
	}
	return t
}

// typeEqual compares types structurally through their pretty forms.
// Adequate for a front end without polymorphic instantiation.
func typeEqual(a, b syntax.Type) bool {
	return a.Pretty() == b.Pretty()
}

func isTypeVar(t syntax.Type) bool {
	_, ok := t.(*syntax.VarType)
	return ok
}
