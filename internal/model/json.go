package model

import (
	"encoding/json"
	"io"

	"github.com/you-not-fish/widl/internal/extattr"
)

// FprintJSON writes a JSON representation of classes to w.
func FprintJSON(w io.Writer, classes []Class) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	list := make([]interface{}, len(classes))
	for i, c := range classes {
		list[i] = toJSON(c)
	}
	return enc.Encode(list)
}

func toJSON(c Class) interface{} {
	switch c := c.(type) {
	case *Enum:
		return map[string]interface{}{
			"kind":      "enum",
			"name":      c.Name,
			"pos":       c.Pos,
			"ext_attrs": values(c.ExtAttrs),
			"items":     c.Items,
		}

	case *Interface:
		m := map[string]interface{}{
			"kind":      "interface",
			"name":      c.Name,
			"pos":       c.Pos,
			"partial":   c.Partial,
			"ext_attrs": values(c.ExtAttrs),
			"attributes": mapSlice(c.Attributes, func(a *Attribute) interface{} {
				return map[string]interface{}{
					"name":      a.Name,
					"type":      a.Type.String(),
					"pos":       a.Pos,
					"ext_attrs": values(a.ExtAttrs),
				}
			}),
			"operations": mapSlice(c.Operations, func(op *Operation) interface{} {
				return map[string]interface{}{
					"name":      op.Name,
					"result":    op.Result.String(),
					"pos":       op.Pos,
					"ext_attrs": values(op.ExtAttrs),
					"args": mapSlice(op.Args, func(arg *Argument) interface{} {
						return map[string]interface{}{
							"name":      arg.Name,
							"type":      arg.Type.String(),
							"pos":       arg.Pos,
							"ext_attrs": values(arg.ExtAttrs),
						}
					}),
				}
			}),
		}
		if c.Inherits != "" {
			m["inherits"] = c.Inherits
		}
		return m
	}
	return nil
}

func values(v extattr.Values) map[string]interface{} {
	if v == nil {
		return map[string]interface{}{}
	}
	return v
}

func mapSlice[T any](list []T, f func(T) interface{}) []interface{} {
	out := make([]interface{}, len(list))
	for i, x := range list {
		out[i] = f(x)
	}
	return out
}
