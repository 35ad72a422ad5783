package model

import (
	"fmt"
	"io"
	"strings"

	"github.com/you-not-fish/widl/internal/extattr"
)

// Fprint writes classes to w in IDL source form. Extended attributes are
// printed as written, so the output parses back to the same model.
func Fprint(w io.Writer, classes []Class) error {
	p := &printer{w: w}
	for i, c := range classes {
		if i > 0 {
			p.printf("\n")
		}
		p.print(c)
	}
	return p.err
}

type printer struct {
	w      io.Writer
	indent int
	err    error
}

func (p *printer) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, "%s%s", strings.Repeat("    ", p.indent), fmt.Sprintf(format, args...))
}

func (p *printer) print(c Class) {
	switch c := c.(type) {
	case *Enum:
		p.printf("%senum %s {\n", attrs(c.Raw), c.Name)
		p.indent++
		for i, item := range c.Items {
			sep := ","
			if i == len(c.Items)-1 {
				sep = ""
			}
			p.printf("%s%s\n", quote(item), sep)
		}
		p.indent--
		p.printf("};\n")

	case *Interface:
		partial := ""
		if c.Partial {
			partial = "partial "
		}
		base := ""
		if c.Inherits != "" {
			base = " : " + c.Inherits
		}
		p.printf("%s%sinterface %s%s {\n", attrs(c.Raw), partial, c.Name, base)
		p.indent++
		for _, a := range c.Attributes {
			p.printf("%sattribute %s %s;\n", attrs(a.Raw), a.Type, a.Name)
		}
		for _, op := range c.Operations {
			args := make([]string, len(op.Args))
			for i, arg := range op.Args {
				args[i] = fmt.Sprintf("%s%s %s", attrs(arg.Raw), arg.Type, arg.Name)
			}
			p.printf("%s%s %s(%s);\n", attrs(op.Raw), op.Result, op.Name, strings.Join(args, ", "))
		}
		p.indent--
		p.printf("};\n")
	}
}

// attrs formats an extended attribute block followed by a space, or
// nothing when the list is empty.
func attrs(list []extattr.Raw) string {
	if len(list) == 0 {
		return ""
	}
	parts := make([]string, len(list))
	for i, a := range list {
		parts[i] = a.String()
	}
	return "[" + strings.Join(parts, ", ") + "] "
}

var escaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\a", `\a`,
	"\b", `\b`,
	"\f", `\f`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
	"\v", `\v`,
)

// quote returns s as a string literal the scanner decodes back to s.
func quote(s string) string {
	return `"` + escaper.Replace(s) + `"`
}
