package types

import "sort"

// Languages with a built-in projection table.
const (
	LangCxx = "cxx"
	LangPy3 = "py3"
)

// Projection is the target-language spelling of an IDL type name and the
// include (or import) it requires. Include is empty when none is needed.
type Projection struct {
	Include string
	Name    string
}

// Registry maps IDL names to per-language projections. Simple names
// project whole types, generic names project the head of name<...>.
type Registry struct {
	simple  map[string]map[string]Projection // IDL name -> lang -> projection
	generic map[string]map[string]Projection
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		simple:  make(map[string]map[string]Projection),
		generic: make(map[string]map[string]Projection),
	}
}

// NewUniverse returns a registry holding the predeclared simple types.
// No generic types are predeclared.
func NewUniverse() *Registry {
	r := NewRegistry()
	defPredeclaredTypes(r)
	return r
}

// defPredeclaredTypes defines string, path, the fixed-width integers and
// the C-like scalars for cxx and py3.
func defPredeclaredTypes(r *Registry) {
	both := func(name string, cxx, py Projection) {
		r.DefineSimple(LangCxx, name, cxx)
		r.DefineSimple(LangPy3, name, py)
	}
	both("string", Projection{"<string>", "std::string"}, Projection{"", "str"})
	both("string_view", Projection{"<string_view>", "std::string_view"}, Projection{"", "str"})
	both("path", Projection{"<filesystem>", "std::filesystem::path"}, Projection{"pathlib", "pathlib.Path"})
	for _, bits := range []string{"8", "16", "32", "64"} {
		both("int"+bits+"_t", Projection{"<cstdint>", "std::int" + bits + "_t"}, Projection{"", "int"})
		both("uint"+bits+"_t", Projection{"<cstdint>", "std::uint" + bits + "_t"}, Projection{"", "int"})
	}
	for _, p := range []struct{ name, py string }{
		{"void", "None"},
		{"int", "int"},
		{"unsigned", "int"},
		{"short", "int"},
		{"long long", "int"},
		{"size_t", "int"},
		{"char", "str"},
		{"bool", "bool"},
		{"float", "float"},
		{"tuple", "tuple"},
	} {
		both(p.name, Projection{"", p.name}, Projection{"", p.py})
	}
}

// DefineSimple binds a simple type name for lang, replacing any previous binding.
func (r *Registry) DefineSimple(lang, name string, p Projection) {
	define(r.simple, lang, name, p)
}

// DefineGeneric binds a generic type name for lang, replacing any previous binding.
func (r *Registry) DefineGeneric(lang, name string, p Projection) {
	define(r.generic, lang, name, p)
}

func define(table map[string]map[string]Projection, lang, name string, p Projection) {
	langs, ok := table[name]
	if !ok {
		langs = make(map[string]Projection)
		table[name] = langs
	}
	langs[lang] = p
}

// Simple looks up the projection of a simple type name for lang.
func (r *Registry) Simple(lang, name string) (Projection, bool) {
	p, ok := r.simple[name][lang]
	return p, ok
}

// Generic looks up the projection of a generic type name for lang.
func (r *Registry) Generic(lang, name string) (Projection, bool) {
	p, ok := r.generic[name][lang]
	return p, ok
}

// IsSimple reports whether name is a registered simple type in any language.
// Such names never take part in declaration ordering.
func (r *Registry) IsSimple(name string) bool {
	_, ok := r.simple[name]
	return ok
}

// SimpleNames returns the registered simple type names, sorted.
func (r *Registry) SimpleNames() []string {
	return sortedKeys(r.simple)
}

// GenericNames returns the registered generic type names, sorted.
func (r *Registry) GenericNames() []string {
	return sortedKeys(r.generic)
}

func sortedKeys(m map[string]map[string]Projection) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
