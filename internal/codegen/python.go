package codegen

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/you-not-fish/widl/internal/extattr"
	"github.com/you-not-fish/widl/internal/model"
	"github.com/you-not-fish/widl/internal/types"
)

// pySimple describes how a built-in type crosses the binding layer.
type pySimple struct {
	py    string // Python annotation
	alias string // C++ spelling, py when empty
	proxy bool   // needs an external proxy function
	inArg bool   // passed by const reference
	conv  [2]string
}

const exprMarker = "$expr$"

var pySimples = map[string]pySimple{
	"void":        {py: "None", alias: "void"},
	"timestamp":   {py: "int", alias: "date::sys_seconds"},
	"int":         {py: "int"},
	"unsigned":    {py: "int", alias: "unsigned"},
	"short":       {py: "int", alias: "short"},
	"long long":   {py: "int", alias: "long long"},
	"char":        {py: "int", alias: "char"},
	"int32_t":     {py: "int", alias: "int32_t"},
	"int64_t":     {py: "int", alias: "int64_t"},
	"uint32_t":    {py: "int", alias: "uint32_t"},
	"uint64_t":    {py: "int", alias: "uint64_t"},
	"bool":        {py: "bool"},
	"string":      {py: "str", alias: "string_type", inArg: true},
	"string_view": {py: "str", alias: "string_type", proxy: true, inArg: true},
	"ascii":       {py: "str", alias: "std::string", inArg: true},
	"path": {
		py:    "str",
		alias: "string_type",
		proxy: true,
		inArg: true,
		conv:  [2]string{"as_fs_view($expr$)", "as_string_v($expr$.generic_u8string())"},
	},
	"object": boostType("object"),
	"dict":   boostType("dict"),
	"tuple":  boostType("tuple"),
	"list":   boostType("list"),
}

func boostType(py string) pySimple {
	return pySimple{py: py, alias: "boost::python::" + py, inArg: true}
}

// cxxType is the C++ side of a type as seen by the bindings.
type cxxType struct {
	alias           string
	proxy           bool
	inArg           bool
	outArg          bool
	needsProperty   bool
	projectInternal bool
	conv            map[string]any
}

func noConv() map[string]any {
	return map[string]any{
		"arg":    map[string]any{"prefix": "", "suffix": ""},
		"result": map[string]any{"prefix": "", "suffix": ""},
	}
}

func splitConv(expr string) map[string]any {
	prefix, suffix, _ := strings.Cut(expr, exprMarker)
	return map[string]any{"prefix": prefix, "suffix": suffix}
}

// pyVisitor builds the context of the binding templates.
type pyVisitor struct {
	log     *zap.SugaredLogger
	project map[string]bool // class name -> is interface
	typing  map[string]bool
	vectors map[string]bool
	// element types seen inside translatable<T>
	translatables map[string]bool
	class         string
}

const translatableName = "translatable"

func newPyVisitor(classes []model.Class, log *zap.SugaredLogger) *pyVisitor {
	v := &pyVisitor{
		log:     log,
		project: make(map[string]bool, len(classes)),
		typing:  map[string]bool{"Iterator": true, "Generic": true, "TypeVar": true},
		vectors: make(map[string]bool),

		translatables: make(map[string]bool),
	}
	for _, c := range classes {
		_, isIface := c.(*model.Interface)
		v.project[c.Decl().Name] = isIface
	}
	return v
}

func (v *pyVisitor) visitAll(classes []model.Class, ctx map[string]any) {
	for _, c := range classes {
		v.class = c.Decl().Name
		switch c := c.(type) {
		case *model.Enum:
			v.typing["ClassVar"] = true
		case *model.Interface:
			for _, t := range c.MemberTypes() {
				v.gather(t, 0, 0)
			}
		}
	}

	enums := []map[string]any{}
	interfaces := v.translatable(nil, "str")
	for _, c := range classes {
		v.class = c.Decl().Name
		switch c := c.(type) {
		case *model.Enum:
			enums = append(enums, map[string]any{
				"name":  c.Name,
				"NAME":  strings.ToUpper(c.Name),
				"items": c.Items,
			})
		case *model.Interface:
			interfaces = append(interfaces, v.interfaceInfo(c))
			if v.translatables[c.Name] {
				interfaces = v.translatable(interfaces, c.Name)
			}
		}
	}
	ctx["typing"] = strings.Join(sortedSet(v.typing), ", ")
	ctx["enums"] = enums
	ctx["interfaces"] = interfaces
}

// gather records the typing imports t needs together with the element
// types of its vectors and translatables.
func (v *pyVisitor) gather(t types.Type, inVector, inTranslatable int) {
	switch t := t.(type) {
	case *types.Simple:
		name, _ := v.pyName(t.Name())
		if inVector > 0 {
			v.vectors[name] = true
		}
		if inTranslatable > 0 {
			v.translatables[name] = true
		}
	case *types.Optional:
		v.typing["Optional"] = true
		v.gather(t.Elem(), inVector, inTranslatable)
	case *types.Sequence:
		v.typing["List"] = true
		v.gather(t.Elem(), inVector+1, inTranslatable)
	case *types.Union:
		v.typing["Union"] = true
		for _, m := range t.Members() {
			v.gather(m, inVector, inTranslatable)
		}
	case *types.Record:
		v.typing["Dict"] = true
		v.gather(t.Key(), inVector, inTranslatable)
		v.gather(t.Value(), inVector, inTranslatable)
	case *types.Generic:
		if t.Name() == translatableName {
			inTranslatable++
		}
		for _, a := range t.Args() {
			v.gather(a, inVector, inTranslatable)
		}
	}
}

// pyName returns the annotation of a simple type name and whether the
// name is known.
func (v *pyVisitor) pyName(name string) (string, bool) {
	if _, ok := v.project[name]; ok {
		return name, true
	}
	if s, ok := pySimples[name]; ok {
		return s.py, true
	}
	return name, false
}

func (v *pyVisitor) pyTypes(list []types.Type) string {
	names := make([]string, len(list))
	for i, t := range list {
		names[i] = v.pyType(t)
	}
	return strings.Join(names, ", ")
}

func (v *pyVisitor) pyType(t types.Type) string {
	switch t := t.(type) {
	case *types.Simple:
		name, ok := v.pyName(t.Name())
		if !ok {
			v.log.Warnw("unknown type: "+t.Name(), "class", v.class)
		}
		return name
	case *types.Optional:
		return fmt.Sprintf("Optional[%s]", v.pyType(t.Elem()))
	case *types.Sequence:
		return fmt.Sprintf("List[%s]", v.pyType(t.Elem()))
	case *types.Union:
		return fmt.Sprintf("Union[%s]", v.pyTypes(t.Members()))
	case *types.Record:
		return fmt.Sprintf("Dict[%s]", v.pyTypes([]types.Type{t.Key(), t.Value()}))
	case *types.Generic:
		if t.Name() == translatableName {
			return fmt.Sprintf("Translatable[%s]", v.pyTypes(t.Args()))
		}
		return fmt.Sprintf("%s[%s]", t.Name(), v.pyTypes(t.Args()))
	}
	return t.String()
}

func (v *pyVisitor) cxxTypes(list []types.Type, attrs extattr.Values) ([]string, bool) {
	names := make([]string, len(list))
	proxy := false
	for i, t := range list {
		info := v.cxxType(t, attrs)
		names[i] = info.alias
		proxy = proxy || info.proxy
	}
	return names, proxy
}

func (v *pyVisitor) cxxType(t types.Type, attrs extattr.Values) cxxType {
	switch t := t.(type) {
	case *types.Simple:
		if isIface, ok := v.project[t.Name()]; ok {
			return cxxType{
				alias:           t.Name(),
				inArg:           isIface,
				outArg:          attrs.Flag("out"),
				projectInternal: true,
				conv:            noConv(),
			}
		}
		s, ok := pySimples[t.Name()]
		if !ok {
			return cxxType{alias: t.Name(), conv: noConv()}
		}
		info := cxxType{alias: s.alias, proxy: s.proxy, inArg: s.inArg, conv: noConv()}
		if info.alias == "" {
			info.alias = s.py
		}
		if s.conv[0] != "" {
			info.conv = map[string]any{"arg": splitConv(s.conv[0]), "result": splitConv(s.conv[1])}
		}
		return info
	case *types.Optional:
		info := v.cxxType(t.Elem(), attrs)
		info.alias = fmt.Sprintf("std::optional<%s>", info.alias)
		info.inArg = true
		info.needsProperty = info.needsProperty || info.projectInternal
		return info
	case *types.Sequence:
		info := v.cxxType(t.Elem(), attrs)
		info.alias = fmt.Sprintf("std::vector<%s>", info.alias)
		info.inArg = true
		return info
	case *types.Union:
		names, proxy := v.cxxTypes(t.Members(), attrs)
		return cxxType{alias: fmt.Sprintf("std::variant<%s>", strings.Join(names, ", ")), proxy: proxy, inArg: true, conv: noConv()}
	case *types.Record:
		names, proxy := v.cxxTypes([]types.Type{t.Key(), t.Value()}, attrs)
		return cxxType{alias: fmt.Sprintf("std::map<%s>", strings.Join(names, ", ")), proxy: proxy, inArg: true, conv: noConv()}
	case *types.Generic:
		names, proxy := v.cxxTypes(t.Args(), attrs)
		return cxxType{alias: fmt.Sprintf("%s<%s>", t.Name(), strings.Join(names, ", ")), proxy: proxy, inArg: true, conv: noConv()}
	}
	return cxxType{alias: t.String(), conv: noConv()}
}

func argument(name, typ, alias string, conv map[string]any, this bool) map[string]any {
	return map[string]any{
		"name":  name,
		"type":  typ,
		"alias": alias,
		"conv":  conv,
		"this":  this,
		"last":  false,
	}
}

func (v *pyVisitor) interfaceInfo(iface *model.Interface) map[string]any {
	attributes := make([]map[string]any, 0, len(iface.Attributes))
	for _, a := range iface.Attributes {
		info := v.cxxType(a.Type, extattr.Values{})
		attributes = append(attributes, map[string]any{
			"name":      a.Name,
			"type":      v.pyType(a.Type),
			"cpp_type":  info.alias,
			"ref":       info.inArg,
			"property":  info.needsProperty,
			"ext_attrs": a.ExtAttrs,
			"last":      false,
		})
	}
	if n := len(attributes); n > 0 {
		attributes[n-1]["last"] = true
	}

	operations := make([]map[string]any, 0, len(iface.Operations))
	for _, op := range iface.Operations {
		static := op.ExtAttrs.Flag("static")
		needsProxy := false
		args := []map[string]any{}
		if !static {
			args = append(args, argument("self", "", "", noConv(), true))
		}
		for _, arg := range op.Args {
			info := v.cxxType(arg.Type, arg.ExtAttrs)
			needsProxy = needsProxy || info.proxy
			switch {
			case info.outArg:
				info.alias += "&"
			case info.inArg:
				info.alias += " const&"
			}
			args = append(args, argument(arg.Name, v.pyType(arg.Type), info.alias, info.conv, false))
		}
		if n := len(args); n > 0 {
			args[n-1]["last"] = true
		}

		result := v.cxxType(op.Result, extattr.Values{})
		operations = append(operations, map[string]any{
			"name":         op.Name,
			"type":         v.pyType(op.Result),
			"alias":        result.alias,
			"conv":         result.conv,
			"staticmethod": static,
			"classmethod":  false,
			"property":     false,
			"arguments":    args,
			"external":     op.ExtAttrs.Flag("external") || needsProxy,
			"needs_proxy":  needsProxy,
			"ext_attrs":    op.ExtAttrs,
		})
	}

	var inheritance any
	if iface.Inherits != "" {
		inheritance = iface.Inherits
	}
	return map[string]any{
		"name":            iface.Name,
		"attributes":      attributes,
		"operations":      operations,
		"is_vector":       v.vectors[iface.Name],
		"is_translatable": v.translatables[iface.Name],
		"synthetic":       false,
		"has_to_string":   !iface.ExtAttrs.Flag("nonjson") && iface.ExtAttrs.String("from") != "none",
		"inheritance":     inheritance,
		"has_constructor": len(attributes) < 15,
	}
}

// synthetic describes a helper class the bindings expose without a
// matching IDL interface.
func synthetic(name string, attributes, operations []map[string]any) map[string]any {
	if attributes == nil {
		attributes = []map[string]any{}
	}
	return map[string]any{
		"name":            name,
		"attributes":      attributes,
		"operations":      operations,
		"is_vector":       false,
		"is_translatable": false,
		"synthetic":       true,
		"has_to_string":   true,
		"inheritance":     nil,
		"has_constructor": false,
	}
}

// method builds a synthetic instance method; args alternate name and type.
func method(name, typ string, args ...string) map[string]any {
	list := []map[string]any{argument("self", "", "", noConv(), true)}
	for i := 0; i+1 < len(args); i += 2 {
		list = append(list, argument(args[i], args[i+1], "", noConv(), false))
	}
	list[len(list)-1]["last"] = true
	return map[string]any{
		"name":         name,
		"type":         typ,
		"alias":        "",
		"conv":         noConv(),
		"staticmethod": false,
		"classmethod":  false,
		"property":     false,
		"arguments":    list,
		"external":     false,
		"needs_proxy":  false,
		"ext_attrs":    extattr.Values{},
	}
}

// translatable appends the classes wrapping translatable<name>: a string
// keyed map of the translations and the translatable itself.
func (v *pyVisitor) translatable(dst []map[string]any, name string) []map[string]any {
	items := "translatable_" + name + "_items"
	dst = mapIndexingSuite(dst, items, "str", name)
	return append(dst, synthetic("translatable_"+name,
		[]map[string]any{{
			"name":      "items",
			"type":      items,
			"cpp_type":  "",
			"ref":       false,
			"property":  false,
			"ext_attrs": extattr.Values{},
			"last":      true,
		}},
		[]map[string]any{
			method("find", name, "index", "str"),
			method("update", "bool", "index", "str", "value", name),
		}))
}

// mapIndexingSuite appends the classes of a map exposed through the
// indexing suite, its entry type first.
func mapIndexingSuite(dst []map[string]any, name, key, value string) []map[string]any {
	entry := "map_indexing_suite_" + name + "_entry"
	return append(dst,
		synthetic(entry, nil, []map[string]any{
			method("data", value),
			method("key", key),
		}),
		synthetic(name, nil, []map[string]any{
			method("__contains__", "bool", "index", key),
			method("__delitem__", "None", "index", key),
			method("__getitem__", value, "index", key),
			method("__setitem__", "None", "index", key, "object", value),
			method("__iter__", "Iterator["+entry+"]"),
			method("__len__", "int"),
		}))
}
