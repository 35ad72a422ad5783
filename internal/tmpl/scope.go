package tmpl

import (
	"strconv"
	"strings"
)

// An entry is one step of the path from the root context to the
// current value: either a named member or a list index.
type entry struct {
	name    string
	index   int
	isIndex bool
	value   any
}

// A scope is the path of entries from the root to the innermost value.
// Scopes are never mutated; push returns a new scope sharing the prefix.
type scope []entry

func (s scope) push(e entry) scope {
	return append(s[:len(s):len(s)], e)
}

func (s scope) top() any {
	if len(s) == 0 {
		return nil
	}
	return s[len(s)-1].value
}

// String returns the trace form of s, e.g. "/interfaces/(0)/name".
func (s scope) String() string {
	var b strings.Builder
	for i, e := range s {
		if i > 0 {
			b.WriteByte('/')
		}
		if e.isIndex {
			b.WriteString("(" + strconv.Itoa(e.index) + ")")
		} else {
			b.WriteString(e.name)
		}
	}
	return b.String()
}

// enter resolves a dotted path against s and returns the extended scope.
func (r *renderer) enter(s scope, path []string) scope {
	if isDot(path) {
		return s.push(entry{name: ".", value: s.top()})
	}
	for i, name := range path {
		s = r.moveTo(s, name, i == 0)
	}
	return s
}

func isDot(path []string) bool {
	if len(path) < 2 {
		return false
	}
	for _, p := range path {
		if p != "" {
			return false
		}
	}
	return true
}

// moveTo resolves a single path segment. The first segment of a path
// may name the root (""), the current item of an enclosing iteration
// or an enclosing section; otherwise the name is looked up as a member
// of the scope values from the innermost outward.
func (r *renderer) moveTo(s scope, name string, first bool) scope {
	if first {
		if name == "" {
			return s.push(entry{value: r.root})
		}
		for i := len(s) - 2; i >= 0; i-- {
			e := s[i]
			if e.isIndex || e.name != name || !isList(e.value) || !s[i+1].isIndex {
				continue
			}
			return s.push(entry{name: name, value: s[i+1].value})
		}
		for i := len(s) - 1; i >= 0; i-- {
			if e := s[i]; !e.isIndex && e.name == name {
				return s.push(entry{name: name, value: e.value})
			}
		}
	}
	for i := len(s) - 1; i >= 0; i-- {
		if v, ok := valueOf(s[i].value).Field(name); ok {
			return s.push(entry{name: name, value: v})
		}
	}
	return s.push(entry{name: name})
}
