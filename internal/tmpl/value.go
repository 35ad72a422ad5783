package tmpl

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// ContextValue is the capability the renderer needs from a context
// value. Plain maps, structs, slices and scalars are adapted
// automatically; types that want custom lookups implement it directly.
type ContextValue interface {
	// Field returns the named member. A present member with a nil
	// value still reports ok.
	Field(name string) (any, bool)
	// Len reports the number of elements if the value is a list.
	Len() (int, bool)
	// Index returns the i-th element of a list.
	Index(i int) any
	// Truthy reports whether the value counts as present.
	Truthy() bool
}

func valueOf(v any) ContextValue {
	if cv, ok := v.(ContextValue); ok {
		return cv
	}
	return reflectValue{indirect(reflect.ValueOf(v))}
}

func indirect(rv reflect.Value) reflect.Value {
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}

type reflectValue struct {
	rv reflect.Value
}

func (v reflectValue) Field(name string) (any, bool) {
	rv := v.rv
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		e := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
		if !e.IsValid() {
			return nil, false
		}
		return e.Interface(), true
	case reflect.Struct:
		t := rv.Type()
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			if !sf.IsExported() || fieldName(sf) != name {
				continue
			}
			return rv.Field(i).Interface(), true
		}
	}
	return nil, false
}

func fieldName(sf reflect.StructField) string {
	tag, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
	if tag != "" && tag != "-" {
		return tag
	}
	return sf.Name
}

func (v reflectValue) Len() (int, bool) {
	switch v.rv.Kind() {
	case reflect.Slice, reflect.Array:
		return v.rv.Len(), true
	}
	return 0, false
}

func (v reflectValue) Index(i int) any {
	return v.rv.Index(i).Interface()
}

func (v reflectValue) Truthy() bool {
	rv := v.rv
	switch rv.Kind() {
	case reflect.Invalid:
		return false
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() != 0
	}
	return true
}

func isList(v any) bool {
	_, ok := valueOf(v).Len()
	return ok
}

// format renders an emitted value.
func format(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(v)
}

// describe summarizes a value for render traces.
func describe(v any) string {
	if v == nil {
		return " -> nil"
	}
	cv := valueOf(v)
	if n, ok := cv.Len(); ok {
		if n == 0 {
			return " -> []"
		}
		return " -> [...]"
	}
	if rv, ok := cv.(reflectValue); ok {
		switch rv.rv.Kind() {
		case reflect.Map:
			keys := make([]string, 0, rv.rv.Len())
			for _, k := range rv.rv.MapKeys() {
				keys = append(keys, fmt.Sprint(k.Interface()))
			}
			sort.Strings(keys)
			return " -> {" + strings.Join(keys, ", ") + "}"
		case reflect.String:
			return " -> " + strconv.Quote(rv.rv.String())
		case reflect.Invalid:
			return " -> nil"
		case reflect.Struct:
			return ""
		}
	}
	return " -> " + format(v)
}
