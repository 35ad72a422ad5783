package syntax

import "strings"

// Note is a secondary diagnostic attached to an Error, usually pointing
// at a previous definition.
type Note struct {
	Pos Pos
	Msg string
}

// Error is a fatal diagnostic anchored at a source position.
type Error struct {
	Pos   Pos
	Msg   string
	Notes []Note
}

// NewError returns an Error at pos.
func NewError(pos Pos, msg string) *Error {
	return &Error{Pos: pos, Msg: msg}
}

// WithNote appends a note and returns e.
func (e *Error) WithNote(pos Pos, msg string) *Error {
	e.Notes = append(e.Notes, Note{Pos: pos, Msg: msg})
	return e
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Pos.String())
	b.WriteString(": error: ")
	b.WriteString(e.Msg)
	for _, n := range e.Notes {
		b.WriteString("\n")
		b.WriteString(n.Pos.String())
		b.WriteString(": note: ")
		b.WriteString(n.Msg)
	}
	return b.String()
}
