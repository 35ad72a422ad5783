// Package config loads the compiler configuration: which template renders
// to which output, and the extensions to the attribute schema and type
// registry that apply before parsing.
//
// The document may be JSON, YAML or TOML; the format follows the file
// extension. All three decode to the same generic tree:
//
//	{
//	  "mustache": {
//	    "": {"path": "{{OUT}}/{{PATH}}", "lang": "cxx"},
//	    "model.hpp": {"template": "model.mustache", "context": {"ns": "app"}},
//	    "model.pyi": "model.pyi.mustache"
//	  },
//	  "ext-attributes": {"interface": {"nonjson": "bool", "from": ["json", "none"]}},
//	  "simple_types": {"timestamp": ["<chrono>", "std::chrono::sys_seconds"]},
//	  "generic_types": {"span": {"cxx": ["<span>", "std::span"], "py3": [null, "list"]}}
//	}
package config

import (
	"encoding/json"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/you-not-fish/widl/internal/errors"
	"github.com/you-not-fish/widl/internal/extattr"
	"github.com/you-not-fish/widl/internal/types"
)

// DefaultLang is the backend used by outputs that name none.
const DefaultLang = types.LangCxx

// Config is a decoded configuration document.
type Config struct {
	Dir          string // directory holding the document; templates resolve against it
	Outputs      []Output
	ExtAttrs     []AttrRule
	SimpleTypes  []TypeBinding
	GenericTypes []TypeBinding
}

// AttrRule is a user-defined extended attribute.
type AttrRule struct {
	Domain extattr.Domain
	Rule   extattr.Rule
}

// TypeBinding projects an IDL type name into one language.
type TypeBinding struct {
	Name    string
	Lang    string
	Include string
	Target  string
}

// Load reads and decodes the configuration at path.
func Load(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	cfg, err := Parse(data, formatOf(path))
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	cfg.Dir = filepath.Dir(path)
	return cfg, nil
}

func formatOf(path string) string {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yml":
		return "yaml"
	default:
		return strings.TrimPrefix(ext, ".")
	}
}

// Parse decodes a document in the given format: "json", "yaml" or "toml".
func Parse(data []byte, format string) (*Config, error) {
	tree := map[string]any{}
	var err error
	switch format {
	case "json":
		err = json.Unmarshal(data, &tree)
	case "yaml":
		err = yaml.Unmarshal(data, &tree)
	case "toml":
		err = toml.Unmarshal(data, &tree)
	default:
		return nil, errors.Wrapf(errors.ErrInvalidConfig, "unsupported format %q", format)
	}
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidConfig, "decoding %s: %v", format, err)
	}
	return fromTree(tree)
}

func fromTree(tree map[string]any) (*Config, error) {
	cfg := &Config{}
	mustache, err := table(tree, "mustache")
	if err != nil {
		return nil, err
	}
	if cfg.Outputs, err = outputs(mustache); err != nil {
		return nil, err
	}

	attrs, err := table(tree, "ext-attributes")
	if err != nil {
		return nil, err
	}
	if cfg.ExtAttrs, err = attrRules(attrs); err != nil {
		return nil, err
	}

	for _, tt := range []struct {
		key string
		dst *[]TypeBinding
	}{
		{"simple_types", &cfg.SimpleTypes},
		{"generic_types", &cfg.GenericTypes},
	} {
		m, err := table(tree, tt.key)
		if err != nil {
			return nil, err
		}
		if *tt.dst, err = bindings(tt.key, m); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// table returns tree[key] as a map; a missing key yields an empty map.
func table(tree map[string]any, key string) (map[string]any, error) {
	v, ok := tree[key]
	if !ok || v == nil {
		return map[string]any{}, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, invalid("%s: expected a table, got %T", key, v)
	}
	return m, nil
}

func invalid(format string, args ...any) error {
	return errors.Wrapf(errors.ErrInvalidConfig, format, args...)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func attrRules(m map[string]any) ([]AttrRule, error) {
	var list []AttrRule
	for _, dom := range sortedKeys(m) {
		domain, ok := extattr.ParseDomain(dom)
		if !ok {
			return nil, invalid("ext-attributes: unknown domain %q", dom)
		}
		names, ok := m[dom].(map[string]any)
		if !ok {
			return nil, invalid("ext-attributes.%s: expected a table, got %T", dom, m[dom])
		}
		for _, name := range sortedKeys(names) {
			rule := extattr.Rule{Name: name}
			switch kind := names[name].(type) {
			case string:
				switch kind {
				case "bool":
					rule.Kind = extattr.Flag
				case "str":
					rule.Kind = extattr.String
				default:
					return nil, invalid("ext-attributes.%s.%s: unknown kind %q", dom, name, kind)
				}
			case []any:
				values, err := stringList(kind)
				if err != nil || len(values) == 0 {
					return nil, invalid("ext-attributes.%s.%s: expected a non-empty list of strings", dom, name)
				}
				rule.Kind = extattr.Choice
				rule.Values = values
			default:
				return nil, invalid("ext-attributes.%s.%s: unexpected %T", dom, name, kind)
			}
			list = append(list, AttrRule{Domain: domain, Rule: rule})
		}
	}
	return list, nil
}

func stringList(list []any) ([]string, error) {
	out := make([]string, len(list))
	for i, v := range list {
		s, ok := v.(string)
		if !ok {
			return nil, invalid("expected string, got %T", v)
		}
		out[i] = s
	}
	return out, nil
}

func bindings(key string, m map[string]any) ([]TypeBinding, error) {
	var list []TypeBinding
	for _, name := range sortedKeys(m) {
		switch decl := m[name].(type) {
		case []any:
			b, err := binding(name, DefaultLang, decl)
			if err != nil {
				return nil, errors.Wrapf(err, "%s.%s", key, name)
			}
			list = append(list, b)
		case map[string]any:
			for _, lang := range sortedKeys(decl) {
				pair, ok := decl[lang].([]any)
				if !ok {
					return nil, invalid("%s.%s.%s: expected [include, name]", key, name, lang)
				}
				b, err := binding(name, lang, pair)
				if err != nil {
					return nil, errors.Wrapf(err, "%s.%s.%s", key, name, lang)
				}
				list = append(list, b)
			}
		default:
			return nil, invalid("%s.%s: unexpected %T", key, name, decl)
		}
	}
	return list, nil
}

func binding(name, lang string, pair []any) (TypeBinding, error) {
	if len(pair) != 2 {
		return TypeBinding{}, invalid("expected [include, name], got %d items", len(pair))
	}
	b := TypeBinding{Name: name, Lang: lang}
	if pair[0] != nil {
		inc, ok := pair[0].(string)
		if !ok {
			return TypeBinding{}, invalid("include: expected string, got %T", pair[0])
		}
		b.Include = inc
	}
	target, ok := pair[1].(string)
	if !ok {
		return TypeBinding{}, invalid("name: expected string, got %T", pair[1])
	}
	b.Target = target
	return b, nil
}

// Apply installs the configured attribute rules into schema and the
// type bindings into reg.
func (c *Config) Apply(schema *extattr.Schema, reg *types.Registry) error {
	for _, a := range c.ExtAttrs {
		if err := schema.Install(a.Domain, a.Rule); err != nil {
			return errors.Wrapf(err, "ext-attributes.%s", a.Domain)
		}
	}
	for _, b := range c.SimpleTypes {
		reg.DefineSimple(b.Lang, b.Name, types.Projection{Include: b.Include, Name: b.Target})
	}
	for _, b := range c.GenericTypes {
		reg.DefineGeneric(b.Lang, b.Name, types.Projection{Include: b.Include, Name: b.Target})
	}
	return nil
}

// TemplatePath resolves the template of o against the config directory.
func (c *Config) TemplatePath(o Output) string {
	if filepath.IsAbs(o.Template) {
		return o.Template
	}
	return filepath.Join(c.Dir, o.Template)
}
