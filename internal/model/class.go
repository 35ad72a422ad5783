// Package model defines the class declarations produced by the parser:
// enums and interfaces with their attributes, operations and arguments.
package model

import (
	"github.com/you-not-fish/widl/internal/extattr"
	"github.com/you-not-fish/widl/internal/syntax"
	"github.com/you-not-fish/widl/internal/types"
)

// Class is a top-level declaration. Implementations are *Enum and *Interface.
type Class interface {
	// Decl returns the fields shared by every declaration.
	Decl() *Header
	// Kind returns the declaration keyword: "enum" or "interface".
	Kind() string

	aClass()
}

// Header holds the fields common to all declarations.
type Header struct {
	Name     string
	Pos      syntax.Pos // position of the declared name
	Partial  bool
	Raw      []extattr.Raw
	ExtAttrs extattr.Values
}

// Decl implements Class.
func (h *Header) Decl() *Header { return h }

func (*Header) aClass() {}

// Enum is an enumeration of string values.
type Enum struct {
	Header
	Items []string
}

// Kind implements Class.
func (*Enum) Kind() string { return "enum" }

// Interface is a record-like declaration with attributes and operations.
type Interface struct {
	Header
	Inherits   string // base interface name, empty if none
	Attributes []*Attribute
	Operations []*Operation
}

// Kind implements Class.
func (*Interface) Kind() string { return "interface" }

// Attribute is an interface data member.
type Attribute struct {
	Name     string
	Type     types.Type
	Pos      syntax.Pos
	Raw      []extattr.Raw
	ExtAttrs extattr.Values
}

// Operation is an interface method.
type Operation struct {
	Name     string
	Result   types.Type
	Args     []*Argument
	Pos      syntax.Pos
	Raw      []extattr.Raw
	ExtAttrs extattr.Values
}

// Argument is an operation parameter.
type Argument struct {
	Name     string
	Type     types.Type
	Pos      syntax.Pos
	Raw      []extattr.Raw
	ExtAttrs extattr.Values
}

// Names returns the names of classes in order.
func Names(classes []Class) []string {
	names := make([]string, len(classes))
	for i, c := range classes {
		names[i] = c.Decl().Name
	}
	return names
}

// MemberTypes returns every type referenced by the members of iface in
// declaration order: attribute types, then for each operation its result
// followed by its argument types.
func (iface *Interface) MemberTypes() []types.Type {
	var list []types.Type
	for _, a := range iface.Attributes {
		list = append(list, a.Type)
	}
	for _, op := range iface.Operations {
		list = append(list, op.Result)
		for _, arg := range op.Args {
			list = append(list, arg.Type)
		}
	}
	return list
}
