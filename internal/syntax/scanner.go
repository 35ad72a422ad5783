package syntax

import (
	"io"
	"strings"

	"github.com/you-not-fish/widl/internal/errors"
)

// escapes maps the character after a backslash to its decoded value.
// Any other escaped character stands for itself.
var escapes = map[rune]rune{
	'a': '\a',
	'b': '\b',
	'f': '\f',
	'n': '\n',
	'r': '\r',
	't': '\t',
	'v': '\v',
}

// Scanner performs lexical analysis on IDL source text.
type Scanner struct {
	source
	toks []Token
}

// NewScanner creates a new Scanner for the given source.
func NewScanner(filename string, src io.Reader) *Scanner {
	return &Scanner{source: *newSource(filename, src)}
}

// Scan tokenizes the whole input. The returned slice always ends with
// an EOF token positioned at the end of the last line.
func (s *Scanner) Scan() ([]Token, error) {
	for s.nextLine() {
		if err := s.scanLine(); err != nil {
			return nil, err
		}
	}
	if err := s.err(); err != nil {
		return nil, errors.Wrapf(err, "reading %s", s.filename)
	}
	s.toks = append(s.toks, Token{
		Kind: EOF,
		Text: "<eof>",
		Pos:  NewPos(s.filename, s.line, s.lastLen),
	})
	return s.toks, nil
}

func (s *Scanner) scanLine() error {
	for {
		s.skipWhitespace()
		if s.eol() {
			return nil
		}
		start := s.col
		switch ch := s.ch(); {
		case ch == '"':
			value, ok := s.scanString()
			if !ok {
				return NewError(s.pos(start), "Error in string")
			}
			s.emit(String, `"`+value+`"`, value, start)
		case isLetter(ch):
			s.col++
			for !s.eol() && (isLetter(s.ch()) || isDigit(s.ch())) {
				s.col++
			}
			s.emit(Ident, string(s.buf[start:s.col]), "", start)
		case isDigit(ch):
			s.col++
			for !s.eol() && isDigit(s.ch()) {
				s.col++
			}
			s.emit(Number, string(s.buf[start:s.col]), "", start)
		default:
			s.col++
			s.emit(Op, string(ch), "", start)
		}
	}
}

// scanString reads a double-quoted literal starting at the opening
// quote. It reports false if the line ends before the closing quote.
func (s *Scanner) scanString() (string, bool) {
	var b strings.Builder
	s.col++ // opening "
	for !s.eol() {
		ch := s.ch()
		s.col++
		switch ch {
		case '\\':
			if s.eol() {
				return "", false
			}
			esc := s.ch()
			s.col++
			if dec, ok := escapes[esc]; ok {
				esc = dec
			}
			b.WriteRune(esc)
		case '"':
			return b.String(), true
		default:
			b.WriteRune(ch)
		}
	}
	return "", false
}

func (s *Scanner) emit(kind Kind, text, value string, col int) {
	s.toks = append(s.toks, Token{Kind: kind, Text: text, Value: value, Pos: s.pos(col)})
}

// Tokenize scans src in full.
func Tokenize(filename string, src io.Reader) ([]Token, error) {
	return NewScanner(filename, src).Scan()
}
