package syntax

import (
	"bufio"
	"io"
	"strings"
	"unicode"
)

// maxLineSize bounds a single source line.
const maxLineSize = 1 << 20

// source is a line reader with position tracking.
// Lines are read one at a time, stripped of trailing whitespace,
// and exposed rune by rune.
type source struct {
	lines *bufio.Scanner

	filename string // source file name
	line     uint32 // current line number (1-based)
	lastLen  uint32 // rune length of the most recently read line

	buf []rune // current line, right-trimmed
	col int    // index of the current rune in buf (0-based)
}

// newSource creates a new source reading from src.
func newSource(filename string, src io.Reader) *source {
	sc := bufio.NewScanner(src)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &source{lines: sc, filename: filename}
}

// nextLine advances to the next line. It reports false at end of input.
func (s *source) nextLine() bool {
	if !s.lines.Scan() {
		return false
	}
	s.line++
	s.buf = []rune(strings.TrimRightFunc(s.lines.Text(), unicode.IsSpace))
	s.lastLen = uint32(len(s.buf))
	s.col = 0
	return true
}

// err returns the first read error, if any.
func (s *source) err() error {
	return s.lines.Err()
}

// eol reports whether the current line is exhausted.
func (s *source) eol() bool {
	return s.col >= len(s.buf)
}

// ch returns the current rune. It must not be called at end of line.
func (s *source) ch() rune {
	return s.buf[s.col]
}

// pos returns the position of the rune at 0-based index col.
func (s *source) pos(col int) Pos {
	return NewPos(s.filename, s.line, uint32(col+1))
}

// skipWhitespace advances past whitespace on the current line.
func (s *source) skipWhitespace() {
	for !s.eol() && unicode.IsSpace(s.ch()) {
		s.col++
	}
}

// isLetter reports whether r can start an identifier.
func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r == '_'
}

// isDigit reports whether r is a decimal digit (0-9).
func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}
