package syntax

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lumen-lang/lumen/internal/position"
)

// Node is the base interface for all syntax tree nodes.
type Node interface {
	GetSpan() position.Span
}

// Pretty is implemented by nodes with a meaningful source-level textual
// form. The dumper renders such nodes both pretty-printed and as their
// structural tree.
type Pretty interface {
	Pretty() string
}

// ====== Module structure ======

// File is the root of one parsed or renamed module.
type File struct {
	Span    position.Span
	Name    Located[string]
	Imports []Located[*ImportDecl]
	Decls   []Located[Decl]

	// Fixities and FreeVars are populated by the resolver; in the
	// parsed tree they are unfilled slots.
	Fixities PostTc[[]Pair[string, int]]
	FreeVars PostTc[[]*Name]
}

func (f *File) GetSpan() position.Span { return f.Span }

// ImportDecl brings another module's exports into scope.
type ImportDecl struct {
	Span   position.Span
	Module string
}

func (i *ImportDecl) GetSpan() position.Span { return i.Span }

// CheckedModule is the root of a type-checked module. Bindings live in
// a bag: their relative order carries no meaning after checking.
type CheckedModule struct {
	Span   position.Span
	Module Module
	Binds  Bag[Located[Decl]]
}

func (c *CheckedModule) GetSpan() position.Span { return c.Span }

// Avail describes one exported entity: a name plus, for a type
// constructor, the constructors exported with it.
type Avail struct {
	Name   *Name
	Pieces []*Name
}

// ====== Declarations ======

// Decl represents all top-level declarations.
type Decl interface {
	Node
	declNode()
}

// SigDecl is a standalone type signature: name : type.
type SigDecl struct {
	Span position.Span
	Name Ident
	Type Located[Type]
}

func (d *SigDecl) GetSpan() position.Span { return d.Span }
func (d *SigDecl) declNode()              {}

// FunDecl is a function binding: name params = body.
type FunDecl struct {
	Span   position.Span
	Name   Ident
	Params []Ident
	Body   Located[Expr]
}

func (d *FunDecl) GetSpan() position.Span { return d.Span }
func (d *FunDecl) declNode()              {}

// DataDecl declares a data type with constructor alternatives.
type DataDecl struct {
	Span   position.Span
	Name   Ident
	TyVars []Ident
	Ctors  []Located[*ConDecl]
}

func (d *DataDecl) GetSpan() position.Span { return d.Span }
func (d *DataDecl) declNode()              {}

// ConDecl is one constructor alternative of a data declaration.
type ConDecl struct {
	Span position.Span
	Name Ident
	Args []Located[Type]
}

func (c *ConDecl) GetSpan() position.Span { return c.Span }

// ====== Expressions ======

// Expr represents all expression nodes.
type Expr interface {
	Node
	Pretty
	exprNode()
}

// VarExpr is a use of an identifier.
type VarExpr struct {
	Span position.Span
	Name Ident
}

func (e *VarExpr) GetSpan() position.Span { return e.Span }
func (e *VarExpr) exprNode()              {}
func (e *VarExpr) Pretty() string         { return e.Name.String() }

// LitExpr is a literal. Witness and ExprType are filled by the type
// checker (the witness is the conversion function applied to the raw
// literal value).
type LitExpr struct {
	Span     position.Span
	Lit      Lit
	Witness  PostTc[Expr]
	ExprType PostTc[Type]
}

func (e *LitExpr) GetSpan() position.Span { return e.Span }
func (e *LitExpr) exprNode()              {}
func (e *LitExpr) Pretty() string         { return e.Lit.Pretty() }

// AppExpr is function application.
type AppExpr struct {
	Span     position.Span
	Fn       Located[Expr]
	Arg      Located[Expr]
	ExprType PostTc[Type]
}

func (e *AppExpr) GetSpan() position.Span { return e.Span }
func (e *AppExpr) exprNode()              {}

func (e *AppExpr) Pretty() string {
	arg := e.Arg.Value.Pretty()
	if _, ok := e.Arg.Value.(*AppExpr); ok {
		arg = "(" + arg + ")"
	}
	return e.Fn.Value.Pretty() + " " + arg
}

// ParenExpr preserves explicit parenthesization from the source.
type ParenExpr struct {
	Span  position.Span
	Inner Located[Expr]
}

func (e *ParenExpr) GetSpan() position.Span { return e.Span }
func (e *ParenExpr) exprNode()              {}
func (e *ParenExpr) Pretty() string         { return "(" + e.Inner.Value.Pretty() + ")" }

// ====== Literals ======

// Lit represents literal values.
type Lit interface {
	Pretty
	litNode()
}

// IntLit is an integer literal.
type IntLit struct {
	Value int64
}

func (l IntLit) litNode()       {}
func (l IntLit) Pretty() string { return strconv.FormatInt(l.Value, 10) }

// StringLit is a string literal.
type StringLit struct {
	Value string
}

func (l StringLit) litNode()       {}
func (l StringLit) Pretty() string { return strconv.Quote(l.Value) }

// ====== Types ======

// Type represents all type nodes.
type Type interface {
	Node
	Pretty
	typeNode()
}

// ConType is a reference to a type constructor. Kind is filled by the
// type checker.
type ConType struct {
	Span position.Span
	Name Ident
	Kind PostTc[string]
}

func (t *ConType) GetSpan() position.Span { return t.Span }
func (t *ConType) typeNode()              {}
func (t *ConType) Pretty() string         { return t.Name.String() }

// VarType is a type variable.
type VarType struct {
	Span position.Span
	Name Ident
}

func (t *VarType) GetSpan() position.Span { return t.Span }
func (t *VarType) typeNode()              {}
func (t *VarType) Pretty() string         { return t.Name.String() }

// AppType is type application.
type AppType struct {
	Span position.Span
	Fn   Located[Type]
	Arg  Located[Type]
}

func (t *AppType) GetSpan() position.Span { return t.Span }
func (t *AppType) typeNode()              {}

func (t *AppType) Pretty() string {
	arg := t.Arg.Value.Pretty()
	switch t.Arg.Value.(type) {
	case *AppType, *FunType:
		arg = "(" + arg + ")"
	}
	return t.Fn.Value.Pretty() + " " + arg
}

// FunType is a function arrow.
type FunType struct {
	Span position.Span
	Arg  Located[Type]
	Res  Located[Type]
}

func (t *FunType) GetSpan() position.Span { return t.Span }
func (t *FunType) typeNode()              {}

func (t *FunType) Pretty() string {
	arg := t.Arg.Value.Pretty()
	if _, ok := t.Arg.Value.(*FunType); ok {
		arg = "(" + arg + ")"
	}
	return arg + " -> " + t.Res.Value.Pretty()
}

// PrettyDecl renders a declaration in roughly its source form. Used by
// diagnostics; dumped trees pretty-print expressions and types only.
func PrettyDecl(d Decl) string {
	switch x := d.(type) {
	case *SigDecl:
		return fmt.Sprintf("%s : %s", x.Name, x.Type.Value.Pretty())
	case *FunDecl:
		parts := []string{x.Name.String()}
		for _, p := range x.Params {
			parts = append(parts, p.String())
		}
		return strings.Join(parts, " ") + " = " + x.Body.Value.Pretty()
	case *DataDecl:
		alts := make([]string, len(x.Ctors))
		for i, c := range x.Ctors {
			args := c.Value.Name.String()
			for _, a := range c.Value.Args {
				args += " " + a.Value.Pretty()
			}
			alts[i] = args
		}
		return "data " + x.Name.String() + " = " + strings.Join(alts, " | ")
	}
	return fmt.Sprintf("%T", d)
}
