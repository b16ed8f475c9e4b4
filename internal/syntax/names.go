// Package syntax defines the Lumen syntax trees shared by the parser,
// resolver and type checker, together with the identifier family that
// tracks a name from its surface occurrence through renaming and type
// checking.
package syntax

import (
	"fmt"

	"github.com/lumen-lang/lumen/internal/position"
)

// NameSpace classifies an occurrence name. The compiler assumes this set
// is closed; renderers treat any other value as a contract violation.
type NameSpace int

const (
	// VarNS is the namespace of term variables.
	VarNS NameSpace = iota
	// DataNS is the namespace of data constructors.
	DataNS
	// TvNS is the namespace of type variables.
	TvNS
	// TcClsNS is the namespace of type constructors and classes.
	TcClsNS
)

// Label returns the well-known namespace label used by the tree dumper,
// or "" if the namespace is not one of the four known kinds.
func (ns NameSpace) Label() string {
	switch ns {
	case VarNS:
		return "VarName"
	case DataNS:
		return "DataName"
	case TvNS:
		return "TvName"
	case TcClsNS:
		return "TcClsName"
	}
	return ""
}

// OccName is an occurrence name: the textual form of an identifier
// together with the namespace it lives in.
type OccName struct {
	Space NameSpace
	Text  string
}

func (o OccName) String() string { return o.Text }

// Unique is the uniqueness token attached to a resolved name.
type Unique uint64

func (u Unique) String() string { return fmt.Sprintf("u%d", uint64(u)) }

// Module identifies a module within a unit (package) of the program.
type Module struct {
	Unit string // owning unit/package identifier
	Name string // dotted module name
}

func (m Module) String() string { return m.Name }

// NameSort records where a resolved name comes from.
type NameSort int

const (
	// WiredInSort marks names baked into the compiler itself.
	WiredInSort NameSort = iota
	// ExternalSort marks names defined in a known module.
	ExternalSort
	// InternalSort marks names local to the unit being compiled.
	InternalSort
	// SystemSort marks names invented by the compiler during a pass.
	SystemSort
)

// Name is a post-resolution identifier: an occurrence name plus its
// defining location, sort, and uniqueness token. Module is only
// meaningful for WiredInSort and ExternalSort names.
type Name struct {
	Occ    OccName
	Loc    position.Span
	Sort   NameSort
	Module Module
	Uniq   Unique
}

func (n *Name) String() string {
	if n.Sort == ExternalSort || n.Sort == WiredInSort {
		return n.Module.Name + "." + n.Occ.Text
	}
	return n.Occ.Text
}

// Var is a post-typecheck identifier: a resolved name carrying its
// inferred type.
type Var struct {
	Name *Name
	Type Type
}

func (v *Var) String() string { return v.Name.String() }

// Ident is the identifier slot shared by all tree nodes. The parser
// stores RdrNames, the resolver *Name, the type checker *Var.
type Ident interface {
	fmt.Stringer
	identRef()
}

// RdrName is a pre-resolution reference as written in source.
type RdrName interface {
	Ident
	OccName() OccName
}

// Unqual is an unqualified reference.
type Unqual struct {
	Name OccName
}

// Qual is a reference qualified by a module name.
type Qual struct {
	Module string
	Name   OccName
}

// Orig is a reference to the original definition site in a known module.
type Orig struct {
	Module Module
	Name   OccName
}

// Exact is a reference that is already a resolved name.
type Exact struct {
	Name *Name
}

func (u Unqual) identRef() {}
func (q Qual) identRef()   {}
func (o Orig) identRef()   {}
func (e Exact) identRef()  {}
func (n *Name) identRef()  {}
func (v *Var) identRef()   {}

func (u Unqual) OccName() OccName { return u.Name }
func (q Qual) OccName() OccName   { return q.Name }
func (o Orig) OccName() OccName   { return o.Name }
func (e Exact) OccName() OccName  { return e.Name.Occ }

func (u Unqual) String() string { return u.Name.Text }
func (q Qual) String() string   { return q.Module + "." + q.Name.Text }
func (o Orig) String() string   { return o.Module.Name + "." + o.Name.Text }
func (e Exact) String() string  { return e.Name.String() }
