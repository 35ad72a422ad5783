// Package tmpl implements a logic-less, Mustache-like template engine.
//
// Templates are compiled once into a tree of frames and rendered against
// any Go value. Directives:
//
//	{{name}}            emit a value; dotted paths walk nested scopes
//	{{#name}}...{{/name}} iterate a list or enter a truthy value
//	{{?name}}...{{/name}} render once if the value is truthy
//	{{^name}}...{{/name}} render once if the value is falsy or absent
//	{{\}}               join the next line onto this one; the rest of
//	                    the line after it is dropped
//	{{.}}               the innermost scope value
package tmpl

import "fmt"

// opcode identifies a compiled operation.
type opcode uint8

const (
	opConst          opcode = iota // literal text
	opPush                         // {{#name}}
	opPushIf                       // {{?name}}
	opPushNot                      // {{^name}}
	opPop                          // {{/name}}
	opEmit                         // {{name}}
	opEndline                      // end of a source line
	opWith                         // nested frame
	opLineCont                     // {{\}}
	opRemovedEndline               // end of line swallowed by {{\}}
)

var opNames = [...]string{
	opConst:          "CONST",
	opPush:           "PUSH",
	opPushIf:         "PUSH_IF",
	opPushNot:        "PUSH_NOT",
	opPop:            "POP",
	opEmit:           "EMIT",
	opEndline:        "ENDLINE",
	opWith:           "WITH",
	opLineCont:       "LINE_CONT",
	opRemovedEndline: "REMOVED_ENDLINE",
}

func (c opcode) String() string {
	if int(c) < len(opNames) {
		return opNames[c]
	}
	return fmt.Sprintf("opcode(%d)", c)
}

// op is a single compiled operation.
type op struct {
	code  opcode
	text  string   // opConst
	path  []string // opPush*, opPop, opEmit
	frame *frame   // opWith
	line  int      // 1-based source line
}

// aspect selects how a frame treats the value it enters.
type aspect uint8

const (
	aspectSwitch aspect = iota // iterate lists, enter other truthy values
	aspectTruthy               // render once if truthy
	aspectFalsy                // render once if falsy
)

// frame is a section of a compiled template.
type frame struct {
	name    string   // dotted path as written, "" for the root
	path    []string // name split on "."
	aspect  aspect
	ops     []op
	cleaned bool
}

// Error is a template compile error.
type Error struct {
	Line int
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("template:%d: %s", e.Line, e.Msg)
}
