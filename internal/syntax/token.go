// Package syntax implements lexical analysis for WebIDL-like schema files.
package syntax

import "fmt"

// Kind represents the kind of a lexical token.
type Kind uint8

const (
	Ident  Kind = iota // identifier: foo, long, interface
	Number             // decimal integer literal: 42
	String             // double-quoted string literal: "text"
	Op                 // any other single non-space character: { } ; < > ? ...
	EOF                // end of file
)

var kindNames = [...]string{
	Ident:  "ident",
	Number: "number",
	String: "string",
	Op:     "op",
	EOF:    "eof",
}

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Token is a single lexical token with its source position.
type Token struct {
	Kind  Kind
	Text  string // source text; for strings, the quoted decoded value
	Value string // decoded string literal value (String tokens only)
	Pos   Pos
}

// Is reports whether t has the given kind and text.
func (t Token) Is(kind Kind, text string) bool {
	return t.Kind == kind && t.Text == text
}

// IsOp reports whether t is the operator op.
func (t Token) IsOp(op string) bool {
	return t.Is(Op, op)
}

// IsIdent reports whether t is the identifier name.
func (t Token) IsIdent(name string) bool {
	return t.Is(Ident, name)
}

// Literal returns the value carried by a literal token: the decoded
// string for String tokens, the source text for everything else.
func (t Token) Literal() string {
	if t.Kind == String {
		return t.Value
	}
	return t.Text
}

// String formats the token for diagnostics.
func (t Token) String() string {
	switch t.Kind {
	case String:
		return `"` + t.Value + `"`
	case Op:
		return "`" + t.Text + "'"
	}
	return t.Text
}
