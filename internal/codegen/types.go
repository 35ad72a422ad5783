package codegen

import (
	"fmt"
	"strings"

	"github.com/you-not-fish/widl/internal/types"
)

// decorator holds the target-language spelling of the type constructors.
// Each pattern takes the comma-joined argument list; generic takes the
// projected class name first.
type decorator struct {
	optional string
	sequence string
	union    string
	record   string
	generic  string
}

var decorators = map[string]decorator{
	types.LangCxx: {
		optional: "std::optional<%s>",
		sequence: "std::vector<%s>",
		union:    "std::variant<%s>",
		record:   "std::map<%s>",
		generic:  "%s<%s>",
	},
	types.LangPy3: {
		optional: "%s | None",
		sequence: "list[%s]",
		union:    "Union[%s]",
		record:   "dict[%s]",
		generic:  "%s[%s]",
	},
}

// IsTemplateLang reports whether lang has a type decorator table.
func IsTemplateLang(lang string) bool {
	_, ok := decorators[lang]
	return ok
}

// TypeName projects t into lang. Simple names missing from reg keep
// their IDL spelling.
func TypeName(t types.Type, lang string, reg *types.Registry) string {
	return typeName(t, decorators[lang], lang, reg)
}

func typeName(t types.Type, d decorator, lang string, reg *types.Registry) string {
	args := func(list ...types.Type) string {
		names := make([]string, len(list))
		for i, sub := range list {
			names[i] = typeName(sub, d, lang, reg)
		}
		return strings.Join(names, ", ")
	}

	switch t := t.(type) {
	case *types.Simple:
		if p, ok := reg.Simple(lang, t.Name()); ok {
			return p.Name
		}
		return t.Name()
	case *types.Optional:
		return fmt.Sprintf(d.optional, args(t.Elem()))
	case *types.Sequence:
		return fmt.Sprintf(d.sequence, args(t.Elem()))
	case *types.Union:
		return fmt.Sprintf(d.union, args(t.Members()...))
	case *types.Record:
		return fmt.Sprintf(d.record, args(t.Key(), t.Value()))
	case *types.Generic:
		class := t.Name()
		if p, ok := reg.Generic(lang, t.Name()); ok {
			class = p.Name
		}
		names := make([]string, len(t.Args()))
		for i, sub := range t.Args() {
			names[i] = typeName(sub, d, lang, reg)
		}
		if class == "std::span" && len(names) > 0 {
			names[0] += " const"
		}
		return fmt.Sprintf(d.generic, class, strings.Join(names, ", "))
	}
	return t.String()
}
