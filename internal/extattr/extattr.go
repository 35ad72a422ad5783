// Package extattr validates bracketed extended attributes against
// per-domain rule tables.
//
// A Schema holds one ordered rule list per syntactic Domain. Validate
// turns the raw attributes attached to a declaration into Values, a map
// that always carries every rule of the domain, defaulted when absent.
package extattr

import (
	"fmt"
	"strings"

	"github.com/you-not-fish/widl/internal/syntax"
)

// Domain names the syntactic position an attribute list is attached to.
type Domain string

const (
	Enum      Domain = "enum"
	Interface Domain = "interface"
	Attribute Domain = "attribute"
	Operation Domain = "operation"
	Argument  Domain = "argument"
)

// Domains lists every domain in declaration order.
var Domains = []Domain{Enum, Interface, Attribute, Operation, Argument}

// ParseDomain maps a configuration key to a Domain.
func ParseDomain(s string) (Domain, bool) {
	for _, d := range Domains {
		if string(d) == s {
			return d, true
		}
	}
	return "", false
}

// Raw is an unvalidated extended attribute: [name], [name=v] or [name(v, ...)].
type Raw struct {
	Name syntax.Token
	Args []syntax.Token
}

// String formats the attribute the way it was written.
func (r Raw) String() string {
	switch len(r.Args) {
	case 0:
		return r.Name.Text
	case 1:
		return r.Name.Text + "=" + r.Args[0].String()
	}
	args := make([]string, len(r.Args))
	for i, a := range r.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", r.Name.Text, strings.Join(args, ", "))
}

// Values holds validated attributes keyed by rule name.
// Flag rules hold bool, String rules hold nil, string or []string,
// Guard and Default hold string (Guard defaults to nil), Guards hold []string,
// and Enum rules hold string.
type Values map[string]any

// Flag returns the boolean value of name.
func (v Values) Flag(name string) bool {
	b, _ := v[name].(bool)
	return b
}

// String returns the single string value of name. A multi-valued string
// attribute yields its first value.
func (v Values) String(name string) string {
	switch x := v[name].(type) {
	case string:
		return x
	case []string:
		if len(x) > 0 {
			return x[0]
		}
	}
	return ""
}

// Strings returns the value of name as a list.
func (v Values) Strings(name string) []string {
	switch x := v[name].(type) {
	case string:
		return []string{x}
	case []string:
		return x
	}
	return nil
}

// IsSet reports whether name holds a non-nil value.
func (v Values) IsSet(name string) bool {
	return v[name] != nil
}
