package tmpl

import (
	"fmt"
	"strings"
)

// Template is a compiled template. It is immutable and may be rendered
// any number of times, concurrently.
type Template struct {
	root *frame
}

// Compile parses text into a Template.
func Compile(text string) (*Template, error) {
	ops, err := scan(text)
	if err != nil {
		return nil, err
	}

	root := &frame{path: []string{""}, aspect: aspectSwitch}
	stack := []*frame{root}
	for _, o := range ops {
		top := stack[len(stack)-1]
		switch o.code {
		case opPush, opPushIf, opPushNot:
			f := &frame{
				name:   strings.Join(o.path, "."),
				path:   o.path,
				aspect: aspectOf(o.code),
			}
			top.ops = append(top.ops, op{code: opWith, frame: f, line: o.line})
			stack = append(stack, f)
		case opPop:
			name := strings.Join(o.path, ".")
			if len(stack) == 1 {
				return nil, &Error{Line: o.line, Msg: fmt.Sprintf("Cannot close root context with %s", name)}
			}
			if top.name != name {
				return nil, &Error{Line: o.line, Msg: fmt.Sprintf("Cannot close %s with %s", top.name, name)}
			}
			stack = stack[:len(stack)-1]
		default:
			top.ops = append(top.ops, o)
		}
	}
	if len(stack) > 1 {
		top := stack[len(stack)-1]
		return nil, &Error{Line: lastLine(ops), Msg: fmt.Sprintf("Section %s is not closed", top.name)}
	}

	root.clean()
	return &Template{root: root}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(text string) *Template {
	t, err := Compile(text)
	if err != nil {
		panic(err)
	}
	return t
}

func aspectOf(code opcode) aspect {
	switch code {
	case opPushIf:
		return aspectTruthy
	case opPushNot:
		return aspectFalsy
	}
	return aspectSwitch
}

func lastLine(ops []op) int {
	if len(ops) == 0 {
		return 1
	}
	return ops[len(ops)-1].line
}

// scan splits text into a flat op list. Every source line is followed
// by an end-of-line op except the last.
func scan(text string) ([]op, error) {
	var ops []op
	for i, line := range strings.Split(text, "\n") {
		lineNo := i + 1
		chunks := strings.Split(line, "{{")
		if chunks[0] != "" {
			ops = append(ops, op{code: opConst, text: chunks[0], line: lineNo})
		}
		for _, chunk := range chunks[1:] {
			arg, rest, ok := strings.Cut(chunk, "}}")
			if !ok {
				return nil, &Error{Line: lineNo, Msg: fmt.Sprintf("unterminated directive {{%s", chunk)}
			}
			if strings.TrimSpace(arg) == `\` {
				// Text after a continuation is discarded.
				ops = append(ops, op{code: opLineCont, line: lineNo})
				continue
			}
			code := opEmit
			if arg != "" {
				switch arg[0] {
				case '#':
					code = opPush
				case '?':
					code = opPushIf
				case '^':
					code = opPushNot
				case '/':
					code = opPop
				}
				if code != opEmit {
					arg = arg[1:]
				}
			}
			ops = append(ops, op{code: code, path: splitPath(arg), line: lineNo})
			if rest != "" {
				ops = append(ops, op{code: opConst, text: rest, line: lineNo})
			}
		}
		ops = append(ops, op{code: opEndline, line: lineNo})
	}
	if n := len(ops); n > 0 && ops[n-1].code == opEndline {
		ops = ops[:n-1]
	}
	return ops, nil
}

func splitPath(arg string) []string {
	path := strings.Split(arg, ".")
	for i := range path {
		path[i] = strings.TrimSpace(path[i])
	}
	return path
}

// clean drops line breaks that only served to lay out directives:
// a leading end of line, one right after a section or a continuation,
// and the literal indentation following a continuation.
func (f *frame) clean() {
	if f.cleaned {
		return
	}
	f.cleaned = true

	code := f.ops
	out := make([]op, 0, len(code))
	for i := range code {
		o := code[i]
		switch {
		case o.code == opRemovedEndline:
			continue
		case o.code == opEndline && i == 0:
			continue
		case o.code == opEndline && (code[i-1].code == opWith || code[i-1].code == opLineCont):
			continue
		case o.code == opLineCont:
			last := len(code) - 1
			if i < last && code[i+1].code == opEndline {
				code[i+1] = op{code: opRemovedEndline, line: code[i+1].line}
				if i+1 < last && code[i+2].code == opConst {
					code[i+2].text = strings.TrimLeft(code[i+2].text, " \t\r\n\v\f")
				}
			}
		case o.code == opWith:
			o.frame.clean()
		}
		out = append(out, o)
	}
	f.ops = out
}
