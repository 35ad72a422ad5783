package parser

import (
	"fmt"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/you-not-fish/widl/internal/errors"
	"github.com/you-not-fish/widl/internal/extattr"
	"github.com/you-not-fish/widl/internal/model"
	"github.com/you-not-fish/widl/internal/syntax"
)

// ParseFile reads and parses one file from fs.
func ParseFile(fs afero.Fs, path string, schema *extattr.Schema, log *zap.SugaredLogger) ([]model.Class, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()
	return Parse(path, f, schema, log)
}

// ParseAll parses paths in order and merges declarations that share a
// name. The result lists each name once, in first-seen order.
//
// A name may be declared more than once only if every declaration has the
// same kind and at least one of each merged pair is partial. Members of
// later declarations are appended to the first one; a member name that is
// already present is an error.
func ParseAll(fs afero.Fs, paths []string, schema *extattr.Schema, log *zap.SugaredLogger) ([]model.Class, error) {
	m := newMerger()
	for _, path := range paths {
		classes, err := ParseFile(fs, path, schema, log)
		if err != nil {
			return nil, err
		}
		for _, c := range classes {
			if err := m.add(c); err != nil {
				return nil, err
			}
		}
	}
	return m.list, nil
}

// merger accumulates declarations across files.
type merger struct {
	known map[string]model.Class
	list  []model.Class
}

func newMerger() *merger {
	return &merger{known: make(map[string]model.Class)}
}

func (m *merger) add(c model.Class) error {
	d := c.Decl()
	prev, ok := m.known[d.Name]
	if !ok {
		m.known[d.Name] = c
		m.list = append(m.list, c)
		return nil
	}
	pd := prev.Decl()
	if prev.Kind() != c.Kind() {
		return syntax.NewError(d.Pos, fmt.Sprintf("`%s' was `%s' and now is `%s'", d.Name, prev.Kind(), c.Kind())).
			WithNote(pd.Pos, "see previous definition")
	}
	if !pd.Partial && !d.Partial {
		return syntax.NewError(d.Pos, fmt.Sprintf("neither `%s' was declared partial", d.Name)).
			WithNote(pd.Pos, "see previous definition")
	}
	// Only interfaces can be partial, so both are interfaces here.
	return mergeInterface(prev.(*model.Interface), c.(*model.Interface))
}

// mergeInterface appends the members of next to prev.
func mergeInterface(prev, next *model.Interface) error {
	attrs := make(map[string]syntax.Pos, len(prev.Attributes))
	for _, a := range prev.Attributes {
		attrs[a.Name] = a.Pos
	}
	ops := make(map[string]syntax.Pos, len(prev.Operations))
	for _, op := range prev.Operations {
		ops[op.Name] = op.Pos
	}

	for _, a := range next.Attributes {
		if pos, dup := attrs[a.Name]; dup {
			return duplicate(prev.Name, a.Name, a.Pos, pos)
		}
		attrs[a.Name] = a.Pos
		prev.Attributes = append(prev.Attributes, a)
	}
	for _, op := range next.Operations {
		if pos, dup := ops[op.Name]; dup {
			return duplicate(prev.Name, op.Name, op.Pos, pos)
		}
		ops[op.Name] = op.Pos
		prev.Operations = append(prev.Operations, op)
	}

	// The base of a later fragment is ignored.
	prev.Partial = prev.Partial && next.Partial
	return nil
}

func duplicate(owner, member string, pos, prevPos syntax.Pos) error {
	return syntax.NewError(pos, fmt.Sprintf("definition of %s.%s found in two places", owner, member)).
		WithNote(prevPos, "see previous definition")
}
