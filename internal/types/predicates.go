package types

// Elems returns the direct sub-types of t, in source order.
// Simple types have none.
func Elems(t Type) []Type {
	switch t := t.(type) {
	case *Optional:
		return []Type{t.elem}
	case *Sequence:
		return []Type{t.elem}
	case *Union:
		return t.members
	case *Record:
		return []Type{t.key, t.value}
	case *Generic:
		return t.args
	}
	return nil
}

// Inspect traverses t in depth-first order, calling f for t and then
// for each sub-type while f returns true.
func Inspect(t Type, f func(Type) bool) {
	if !f(t) {
		return
	}
	for _, e := range Elems(t) {
		Inspect(e, f)
	}
}

// SimpleNames returns the names of every Simple type reachable from t,
// in traversal order, duplicates included.
func SimpleNames(t Type) []string {
	var names []string
	Inspect(t, func(t Type) bool {
		if s, ok := t.(*Simple); ok {
			names = append(names, s.name)
		}
		return true
	})
	return names
}
