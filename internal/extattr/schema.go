package extattr

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/you-not-fish/widl/internal/errors"
)

// Schema is the set of rule tables, one per domain.
// Build it once with NewSchema, extend it with Install before parsing,
// and share it read-only afterwards.
type Schema struct {
	rules map[Domain][]Rule
}

// NewSchema returns a schema holding the built-in rules.
func NewSchema() *Schema {
	s := &Schema{rules: make(map[Domain][]Rule, len(Domains))}
	for _, d := range Domains {
		s.rules[d] = nil
	}
	s.rules[Attribute] = []Rule{
		{Name: "if", Kind: String},
		{Name: "var", Kind: String},
		{Name: "default", Kind: Default},
		{Name: "guard", Kind: Guard},
		{Name: "guards", Kind: Guards},
	}
	s.rules[Argument] = []Rule{
		{Name: "defaulted", Kind: Flag},
		{Name: "in", Kind: Flag},
		{Name: "out", Kind: Flag},
		{Name: "default", Kind: Default},
	}
	s.rules[Operation] = []Rule{
		{Name: "in", Kind: Flag},
		{Name: "out", Kind: Flag},
		{Name: "unique", Kind: Flag},
		{Name: "span", Kind: Flag},
		{Name: "mutable", Kind: Flag},
		{Name: "throws", Kind: Flag},
		{Name: "static", Kind: Flag},
		{Name: "guard", Kind: Guard},
		{Name: "guards", Kind: Guards},
	}
	return s
}

// Install adds a rule to a domain. A rule with the same name is replaced.
func (s *Schema) Install(domain Domain, rule Rule) error {
	rules, ok := s.rules[domain]
	if !ok {
		return errors.Newf("unknown attribute domain %q", domain)
	}
	if rule.Kind == Choice && len(rule.Values) == 0 {
		return errors.Newf("attribute %q: choice needs at least one value", rule.Name)
	}
	for i := range rules {
		if rules[i].Name == rule.Name {
			rules[i] = rule
			return nil
		}
	}
	s.rules[domain] = append(rules, rule)
	return nil
}

// Rules returns the rule list of a domain in installation order.
func (s *Schema) Rules(domain Domain) []Rule {
	return s.rules[domain]
}

// Defaults returns the values of a domain with nothing supplied.
func (s *Schema) Defaults(domain Domain) Values {
	rules := s.rules[domain]
	out := make(Values, len(rules))
	for _, r := range rules {
		out[r.Name] = r.Default()
	}
	return out
}

// Validate checks attrs against the rules of domain. Unknown names are
// logged as warnings and dropped; malformed arguments are fatal and
// returned as *syntax.Error. A later attribute overrides an earlier one
// of the same name.
func (s *Schema) Validate(domain Domain, attrs []Raw, log *zap.SugaredLogger) (Values, error) {
	out := s.Defaults(domain)
	for _, attr := range attrs {
		rule, ok := s.lookup(domain, attr.Name.Text)
		if !ok {
			if log != nil {
				log.Warnw(fmt.Sprintf("unknown attribute `%s'", attr.Name.Text), "pos", attr.Name.Pos.String())
			}
			continue
		}
		v, err := rule.apply(attr)
		if err != nil {
			return nil, err
		}
		out[rule.Name] = v
	}
	return out, nil
}

func (s *Schema) lookup(domain Domain, name string) (Rule, bool) {
	for _, r := range s.rules[domain] {
		if r.Name == name {
			return r, true
		}
	}
	return Rule{}, false
}
