package codegen

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/you-not-fish/widl/internal/extattr"
	"github.com/you-not-fish/widl/internal/model"
	"github.com/you-not-fish/widl/internal/types"
)

// visitor builds the context shared by the cxx and py3 templates.
type visitor struct {
	lang    string
	reg     *types.Registry
	log     *zap.SugaredLogger
	project map[string]bool
	files   map[string]bool
	attrs   []extattr.Values // enclosing member attributes, outermost first
	class   string
}

func newVisitor(lang string, classes []model.Class, opts Options) *visitor {
	v := &visitor{
		lang:    lang,
		reg:     opts.Registry,
		log:     opts.Log,
		project: make(map[string]bool, len(classes)),
		files:   make(map[string]bool),
	}
	for _, name := range model.Names(classes) {
		v.project[name] = true
	}
	return v
}

func (v *visitor) visitAll(classes []model.Class, ctx map[string]any) {
	enums := []map[string]any{}
	interfaces := []map[string]any{}
	for _, c := range classes {
		v.class = c.Decl().Name
		switch c := c.(type) {
		case *model.Enum:
			enums = append(enums, enumInfo(c))
		case *model.Interface:
			interfaces = append(interfaces, v.interfaceInfo(c))
		}
	}
	ctx["includes"] = sortedSet(v.files)
	ctx["enums"] = enums
	ctx["interfaces"] = interfaces
}

func (v *visitor) typeName(t types.Type) string {
	return TypeName(t, v.lang, v.reg)
}

// require records the includes needed to spell t.
func (v *visitor) require(t types.Type) {
	cxx := v.lang == types.LangCxx
	switch t := t.(type) {
	case *types.Simple:
		if p, ok := v.reg.Simple(v.lang, t.Name()); ok {
			if p.Include != "" {
				v.files[p.Include] = true
			}
			return
		}
		if !v.project[t.Name()] {
			v.log.Warnw("unknown type: "+t.Name(), "class", v.class)
		}
	case *types.Optional:
		v.require(t.Elem())
		if cxx {
			v.files["<optional>"] = true
		}
	case *types.Sequence:
		v.require(t.Elem())
		if cxx {
			v.files[v.sequenceInclude()] = true
		}
	case *types.Union:
		for _, m := range t.Members() {
			v.require(m)
		}
		if cxx {
			v.files["<variant>"] = true
		}
	case *types.Record:
		v.require(t.Key())
		v.require(t.Value())
		if cxx {
			v.files["<map>"] = true
		}
	case *types.Generic:
		for _, a := range t.Args() {
			v.require(a)
		}
		if p, ok := v.reg.Generic(v.lang, t.Name()); ok {
			if p.Include != "" {
				v.files[p.Include] = true
			}
			return
		}
		suffix := "[]"
		if cxx {
			suffix = "<>"
		}
		v.log.Warnw("unknown type: "+t.Name()+suffix, "class", v.class)
	}
}

// sequenceInclude picks the container header from the span and unique
// flags of the enclosing members. The search stops at the first member
// that defines both.
func (v *visitor) sequenceInclude() string {
	var span, unique any
	for _, attrs := range v.attrs {
		if x, ok := attrs["span"]; ok {
			span = x
		}
		if x, ok := attrs["unique"]; ok {
			unique = x
		}
		if span != nil && unique != nil {
			break
		}
	}
	switch {
	case span == true:
		return "<span>"
	case unique == true:
		return "<set>"
	}
	return "<vector>"
}

func (v *visitor) visitType(attrs extattr.Values, t types.Type) {
	v.attrs = append(v.attrs, attrs)
	v.require(t)
	v.attrs = v.attrs[:len(v.attrs)-1]
}

func guards(attrs extattr.Values) []string {
	list := append([]string{}, attrs.Strings("guards")...)
	if attrs.IsSet("guard") {
		list = append(list, attrs.String("guard"))
	}
	return list
}

func (v *visitor) attributes(list []*model.Attribute) []map[string]any {
	out := make([]map[string]any, 0, len(list))
	for _, a := range list {
		v.visitType(a.ExtAttrs, a.Type)
		out = append(out, map[string]any{
			"name":        a.Name,
			"key":         strings.ReplaceAll(a.Name, "_", "-"),
			"type":        v.typeName(a.Type),
			"default":     "{" + a.ExtAttrs.String("default") + "}",
			"guards":      guards(a.ExtAttrs),
			"ext_attrs":   a.ExtAttrs,
			"for_variant": false,
		})
	}
	return out
}

func (v *visitor) interfaceInfo(iface *model.Interface) map[string]any {
	operations := []map[string]any{comparison(iface)}

	free, groups := iface.SplitVariants()
	attributes := v.attributes(free)

	subtypes := []map[string]any{}
	var variantNames []string
	for _, g := range groups {
		variantNames = append(variantNames, g.Name)
		subtypes = append(subtypes, map[string]any{
			"name":       g.Name,
			"expr":       g.Expr,
			"attributes": v.attributes(g.Attributes),
		})
	}
	if len(variantNames) > 0 {
		v.files["<variant>"] = true
		attributes = append(attributes, map[string]any{
			"name":        "var",
			"key":         "var",
			"type":        fmt.Sprintf("std::variant<%s>", strings.Join(variantNames, ", ")),
			"default":     "{}",
			"guards":      []string{},
			"ext_attrs":   map[string]any{},
			"for_variant": true,
		})
	}

	for _, op := range iface.Operations {
		v.attrs = append(v.attrs, op.ExtAttrs)
		v.require(op.Result)
		args := make([]map[string]any, 0, len(op.Args))
		for _, arg := range op.Args {
			v.visitType(arg.ExtAttrs, arg.Type)
			args = append(args, map[string]any{
				"name":      arg.Name,
				"type":      v.typeName(arg.Type),
				"ext_attrs": arg.ExtAttrs,
				"comma":     true,
			})
		}
		v.attrs = v.attrs[:len(v.attrs)-1]
		operations = append(operations, operationInfo(op.Name, v.typeName(op.Result), guards(op.ExtAttrs), op.ExtAttrs, args))
	}

	var inheritance any
	if iface.Inherits != "" {
		inheritance = iface.Inherits
	}
	return map[string]any{
		"name":        iface.Name,
		"ext_attrs":   iface.ExtAttrs,
		"attributes":  attributes,
		"operations":  operations,
		"inheritance": inheritance,
		"subtypes":    subtypes,
		"spcs":        strings.Repeat(" ", len(iface.Name)),
	}
}

func operationInfo(name, typ string, guards []string, attrs map[string]any, args []map[string]any) map[string]any {
	if n := len(args); n > 0 {
		args[n-1]["comma"] = false
	}
	return map[string]any{
		"name":      name,
		"type":      typ,
		"guards":    guards,
		"ext_attrs": attrs,
		"args":      args,
	}
}

// comparison synthesizes the defaulted comparison operator every
// interface gets.
func comparison(iface *model.Interface) map[string]any {
	name, typ := "operator<=>", "auto"
	if iface.ExtAttrs.Flag("no_spaceship") {
		name, typ = "operator==", "bool"
	}
	rhs := map[string]any{
		"name":      "rhs",
		"type":      iface.Name,
		"ext_attrs": map[string]any{"in": true},
		"comma":     true,
	}
	return operationInfo(name, typ, []string{}, map[string]any{"defaulted": true}, []map[string]any{rhs})
}

func enumInfo(e *model.Enum) map[string]any {
	items := make([]map[string]any, len(e.Items))
	for i, item := range e.Items {
		items[i] = map[string]any{
			"name": `"` + item + `"`,
			"safe": strings.NewReplacer(",", "_", "-", "_").Replace(item),
		}
	}
	upper := strings.ToUpper(e.Name)
	return map[string]any{
		"name":      e.Name,
		"NAME":      upper,
		"item":      items,
		"ext_attrs": e.ExtAttrs,
		"text":      xmacro(upper, items),
	}
}

// xmacro formats the X-macro listing of an enum. Every line but the
// last is padded to a common width and continued with a backslash.
func xmacro(name string, items []map[string]any) string {
	lines := []string{fmt.Sprintf("#define %s_X(X)", name)}
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("    X(%s, %s)", item["safe"], item["name"]))
	}
	width := 0
	for _, l := range lines[:len(lines)-1] {
		width = max(width, len([]rune(l)))
	}

	var b strings.Builder
	e := &emitter{w: &b}
	for _, l := range lines[:len(lines)-1] {
		e.emit("%-*s \\", width, l)
	}
	e.emitRaw("%s", lines[len(lines)-1])
	return b.String()
}
