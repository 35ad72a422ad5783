package tmpl

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes the compiled frame tree of t to w, one op per line.
// Sections print as "name {" with "? " or "! " marking the truthy and
// falsy flavors, literals as ": 'text'" and emissions as "> path".
func (t *Template) Dump(w io.Writer) error {
	var b strings.Builder
	dump(&b, t.root, "")
	_, err := io.WriteString(w, b.String())
	return err
}

// String returns the Dump form of t.
func (t *Template) String() string {
	var b strings.Builder
	dump(&b, t.root, "")
	return b.String()
}

func dump(b *strings.Builder, f *frame, prefix string) {
	for _, o := range f.ops {
		switch o.code {
		case opWith:
			mark := ""
			switch o.frame.aspect {
			case aspectTruthy:
				mark = "? "
			case aspectFalsy:
				mark = "! "
			}
			fmt.Fprintf(b, "%s%s%s {\n", prefix, mark, o.frame.name)
			dump(b, o.frame, prefix+"     ")
			fmt.Fprintf(b, "%s}\n", prefix)
		case opConst:
			fmt.Fprintf(b, "%s: %s\n", prefix, quote(o.text))
		case opEmit:
			fmt.Fprintf(b, "%s> %s\n", prefix, strings.Join(o.path, "."))
		case opEndline:
		default:
			fmt.Fprintf(b, "%s%s\n", prefix, o.code)
		}
	}
}

func quote(s string) string {
	s = strings.NewReplacer(`\`, `\\`, "'", `\'`, "\t", `\t`, "\r", `\r`).Replace(s)
	return "'" + s + "'"
}
