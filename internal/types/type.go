// Package types implements the IDL type expressions and the tables that
// project built-in type names onto target languages.
package types

// Type is the interface implemented by all type expressions.
// The set of implementations is closed: Simple, Optional, Sequence,
// Union, Record and Generic.
type Type interface {
	// String returns the type in IDL source form.
	String() string

	// aType is a marker method to restrict implementations to this package.
	aType()
}

// typ is a base struct for all type implementations.
type typ struct{}

func (typ) aType() {}
