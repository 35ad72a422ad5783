package extattr

import (
	"fmt"
	"slices"
	"strings"

	"github.com/you-not-fish/widl/internal/syntax"
)

// Kind selects how a rule checks and normalizes its arguments.
type Kind uint8

const (
	Flag    Kind = iota // [name]; no arguments, value true
	Choice              // [name=v]; exactly one argument from a fixed set
	String              // [name=v] or [name(v, ...)]; one or more free strings
	Guard               // [guard=v]; exactly one argument
	Guards              // [guards(v, ...)]; any number of arguments
	Default             // [default=v]; exactly one argument
)

var kindNames = [...]string{
	Flag:    "flag",
	Choice:  "choice",
	String:  "string",
	Guard:   "guard",
	Guards:  "guards",
	Default: "default",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Rule is a named validation rule.
type Rule struct {
	Name   string
	Kind   Kind
	Values []string // allowed values of a Choice rule; the first is the default
}

// Default returns the value a rule takes when its attribute is absent.
// Slices are freshly allocated on every call.
func (r Rule) Default() any {
	switch r.Kind {
	case Flag:
		return false
	case Choice:
		if len(r.Values) > 0 {
			return r.Values[0]
		}
		return ""
	case Guards:
		return []string{}
	case Default:
		return ""
	}
	return nil
}

// apply validates attr and returns its normalized value.
func (r Rule) apply(attr Raw) (any, error) {
	args := attr.Args
	switch r.Kind {
	case Flag:
		if len(args) != 0 {
			return nil, r.errorf(attr, "`%s' has no arguments", r.Name)
		}
		return true, nil

	case Choice:
		if len(args) != 1 {
			return nil, r.errorf(attr, "`%s' requires exactly 1 argument", r.Name)
		}
		v := args[0].Literal()
		if !slices.Contains(r.Values, v) {
			quoted := make([]string, len(r.Values))
			for i, val := range r.Values {
				quoted[i] = "`" + val + "'"
			}
			return nil, r.errorf(attr, "`%s' needs to be one of: %s", r.Name, strings.Join(quoted, ", "))
		}
		return v, nil

	case String:
		if len(args) < 1 {
			return nil, r.errorf(attr, "`%s' requires at least one argument", r.Name)
		}
		if len(args) == 1 {
			return args[0].Literal(), nil
		}
		return literals(args), nil

	case Guard, Default:
		if len(args) != 1 {
			return nil, r.errorf(attr, "`%s' requires exactly 1 argument", r.Name)
		}
		return args[0].Literal(), nil

	case Guards:
		return literals(args), nil
	}
	return nil, r.errorf(attr, "`%s' has unsupported rule kind %v", r.Name, r.Kind)
}

func (r Rule) errorf(attr Raw, format string, args ...any) error {
	return syntax.NewError(attr.Name.Pos, fmt.Sprintf(format, args...))
}

func literals(toks []syntax.Token) []string {
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = t.Literal()
	}
	return out
}
