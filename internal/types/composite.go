package types

import "strings"

// Simple is a named type without arguments: long, string, Node.
type Simple struct {
	typ
	name string
}

// NewSimple creates a simple type.
func NewSimple(name string) *Simple {
	return &Simple{name: name}
}

// Name returns the type name. "long long" is a single name.
func (s *Simple) Name() string {
	return s.name
}

// String implements Type.
func (s *Simple) String() string {
	return s.name
}

// Optional represents T?.
type Optional struct {
	typ
	elem Type
}

// NewOptional creates an optional type wrapping elem.
func NewOptional(elem Type) *Optional {
	return &Optional{elem: elem}
}

// Elem returns the wrapped type.
func (o *Optional) Elem() Type {
	return o.elem
}

// String implements Type.
func (o *Optional) String() string {
	return o.elem.String() + "?"
}

// Sequence represents sequence<T>.
type Sequence struct {
	typ
	elem Type
}

// NewSequence creates a sequence type.
func NewSequence(elem Type) *Sequence {
	return &Sequence{elem: elem}
}

// Elem returns the element type.
func (s *Sequence) Elem() Type {
	return s.elem
}

// String implements Type.
func (s *Sequence) String() string {
	return "sequence<" + s.elem.String() + ">"
}

// Union represents union<T1, T2, ...>.
type Union struct {
	typ
	members []Type
}

// NewUnion creates a union of the given member types.
func NewUnion(members ...Type) *Union {
	return &Union{members: members}
}

// Members returns the union members in declaration order.
func (u *Union) Members() []Type {
	return u.members
}

// String implements Type.
func (u *Union) String() string {
	return "union<" + joinTypes(u.members) + ">"
}

// Record represents record<K, V>.
type Record struct {
	typ
	key, value Type
}

// NewRecord creates a record type.
func NewRecord(key, value Type) *Record {
	return &Record{key: key, value: value}
}

// Key returns the key type.
func (r *Record) Key() Type {
	return r.key
}

// Value returns the value type.
func (r *Record) Value() Type {
	return r.value
}

// String implements Type.
func (r *Record) String() string {
	return "record<" + r.key.String() + ", " + r.value.String() + ">"
}

// Generic represents name<T1, T2, ...> for any name other than the
// sequence, union and record keywords.
type Generic struct {
	typ
	name string
	args []Type
}

// NewGeneric creates a generic type application.
func NewGeneric(name string, args ...Type) *Generic {
	return &Generic{name: name, args: args}
}

// Name returns the generic type name.
func (g *Generic) Name() string {
	return g.name
}

// Args returns the type arguments.
func (g *Generic) Args() []Type {
	return g.args
}

// String implements Type.
func (g *Generic) String() string {
	return g.name + "<" + joinTypes(g.args) + ">"
}

func joinTypes(list []Type) string {
	parts := make([]string, len(list))
	for i, t := range list {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}
