package config

import (
	"strings"

	"github.com/you-not-fish/widl/internal/errors"
	"github.com/you-not-fish/widl/internal/tmpl"
)

// Output is one entry of the mustache table.
type Output struct {
	Name     string
	Template string         // template path, relative to the config directory
	Path     string         // output path pattern
	Lang     string         // backend; empty selects DefaultLang
	Context  map[string]any // initial render context
}

// Skip reports whether o lacks a template or an output path. Such
// entries produce nothing.
func (o Output) Skip() bool {
	return o.Template == "" || o.Path == ""
}

// Language returns the backend of o.
func (o Output) Language() string {
	if o.Lang == "" {
		return DefaultLang
	}
	return o.Lang
}

// OutputPath renders the path pattern of o with defines, plus PATH bound
// to the output name.
func (o Output) OutputPath(defines map[string]string) (string, error) {
	t, err := tmpl.Compile(o.Path)
	if err != nil {
		return "", errors.Wrapf(err, "output %q: path", o.Name)
	}
	vars := make(map[string]any, len(defines)+1)
	for k, v := range defines {
		vars[k] = v
	}
	vars["PATH"] = o.Name
	return t.Render(vars), nil
}

// outputs converts the mustache table. The entry named "" is removed
// and supplies defaults to the others; the result is sorted by name.
func outputs(m map[string]any) ([]Output, error) {
	var list []Output
	var defaults *Output
	for _, name := range sortedKeys(m) {
		o, err := output(name, m[name])
		if err != nil {
			return nil, err
		}
		if name == "" {
			defaults = &o
			continue
		}
		list = append(list, o)
	}
	if defaults != nil {
		for i := range list {
			list[i].inherit(defaults)
		}
	}
	return list, nil
}

func output(name string, v any) (Output, error) {
	o := Output{Name: name, Context: map[string]any{}}
	switch v := v.(type) {
	case string:
		o.Template = v
		return o, nil
	case map[string]any:
		for _, f := range []struct {
			key string
			dst *string
		}{
			{"template", &o.Template},
			{"path", &o.Path},
			{"lang", &o.Lang},
		} {
			x, ok := v[f.key]
			if !ok || x == nil {
				continue
			}
			s, ok := x.(string)
			if !ok {
				return o, invalid("mustache.%s.%s: expected string, got %T", name, f.key, x)
			}
			*f.dst = s
		}
		if x, ok := v["context"]; ok && x != nil {
			ctx, ok := x.(map[string]any)
			if !ok {
				return o, invalid("mustache.%s.context: expected a table, got %T", name, x)
			}
			o.Context = ctx
		}
		return o, nil
	}
	return o, invalid("mustache.%s: expected a template path or a table, got %T", name, v)
}

func (o *Output) inherit(d *Output) {
	if o.Template == "" {
		o.Template = d.Template
	}
	if o.Path == "" {
		o.Path = d.Path
	}
	if o.Lang == "" {
		o.Lang = d.Lang
	}
	if len(o.Context) == 0 {
		o.Context = deepCopy(d.Context).(map[string]any)
	}
}

func deepCopy(v any) any {
	switch v := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(v))
		for k, x := range v {
			m[k] = deepCopy(x)
		}
		return m
	case []any:
		l := make([]any, len(v))
		for i, x := range v {
			l[i] = deepCopy(x)
		}
		return l
	}
	return v
}

// ParseDefines parses -d arguments of the form key=value. Both sides
// are trimmed; the value may itself contain '='.
func ParseDefines(args []string) (map[string]string, error) {
	defines := make(map[string]string, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, errors.Newf("define %q: expected <var>=<value>", arg)
		}
		defines[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return defines, nil
}
