package model

import (
	"fmt"
	"sort"
	"strings"
)

// VariantGroup is a named set of attributes that are present together
// when the predicate Expr holds.
type VariantGroup struct {
	Name       string
	Expr       string
	Attributes []*Attribute
}

// SplitVariants partitions the attributes of iface by their "if"
// predicate. Attributes without one are returned as free. Groups are
// ordered by predicate text; each is named by the first "var" supplied
// within it, or variant_N, numbering only the unnamed groups.
func (iface *Interface) SplitVariants() (free []*Attribute, groups []VariantGroup) {
	names := map[string]string{}
	members := map[string][]*Attribute{}

	for _, a := range iface.Attributes {
		expr := predicate(a)
		if a.ExtAttrs.IsSet("var") {
			if _, ok := names[expr]; !ok {
				names[expr] = a.ExtAttrs.String("var")
			}
		}
		members[expr] = append(members[expr], a)
	}

	free = members[""]
	delete(members, "")

	exprs := make([]string, 0, len(members))
	for expr := range members {
		exprs = append(exprs, expr)
	}
	sort.Strings(exprs)

	counter := 0
	for _, expr := range exprs {
		name, ok := names[expr]
		if !ok {
			name = fmt.Sprintf("variant_%d", counter)
			counter++
		}
		groups = append(groups, VariantGroup{Name: name, Expr: expr, Attributes: members[expr]})
	}
	return free, groups
}

// predicate returns the "if" expression of a; multiple values are
// joined with ", ".
func predicate(a *Attribute) string {
	return strings.Join(a.ExtAttrs.Strings("if"), ", ")
}
