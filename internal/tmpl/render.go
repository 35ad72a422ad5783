package tmpl

import (
	"io"
	"strings"

	"go.uber.org/zap"
)

// Option configures a single render.
type Option func(*renderer)

// WithTrace logs every scope entered and every value emitted at debug
// level.
func WithTrace(log *zap.SugaredLogger) Option {
	return func(r *renderer) { r.trace = log }
}

type renderer struct {
	root  any
	trace *zap.SugaredLogger
	out   strings.Builder
}

// Render renders t against data.
func (t *Template) Render(data any, opts ...Option) string {
	r := &renderer{root: data}
	for _, opt := range opts {
		opt(r)
	}
	root := scope{}.push(entry{value: data})
	r.tracef("+", root)
	r.single(t.root, root)
	return r.out.String()
}

// Execute renders t against data and writes the result to w.
func (t *Template) Execute(w io.Writer, data any, opts ...Option) error {
	_, err := io.WriteString(w, t.Render(data, opts...))
	return err
}

// run renders a nested section. The root frame is rendered directly by
// Render and never gated.
func (r *renderer) run(f *frame, s scope) {
	s = r.enter(s, f.path)
	r.tracef("+", s)
	cur := valueOf(s.top())
	if !cur.Truthy() != (f.aspect == aspectFalsy) {
		return
	}
	if n, ok := cur.Len(); ok && f.aspect == aspectSwitch {
		for i := 0; i < n; i++ {
			item := s.push(entry{index: i, isIndex: true, value: cur.Index(i)})
			r.tracef("+", item)
			r.single(f, item)
		}
		return
	}
	r.single(f, s)
}

func (r *renderer) single(f *frame, s scope) {
	for _, o := range f.ops {
		switch o.code {
		case opConst:
			r.out.WriteString(o.text)
		case opEndline:
			r.out.WriteByte('\n')
		case opEmit:
			v := r.enter(s, o.path)
			r.tracef(">", v)
			if x := v.top(); x != nil {
				r.out.WriteString(format(x))
			}
		case opWith:
			r.run(o.frame, s)
		}
	}
}

func (r *renderer) tracef(mark string, s scope) {
	if r.trace == nil {
		return
	}
	r.trace.Debugf("%s %s%s", mark, s, describe(s.top()))
}
