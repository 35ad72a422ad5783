package syntax

import "strconv"

// Pos locates a token in an IDL file. Lines and columns are 1-based and
// columns count runes; zero means unknown.
type Pos struct {
	filename  string
	line, col uint32
}

// NewPos returns the position of column col on line of filename.
func NewPos(filename string, line, col uint32) Pos {
	return Pos{filename: filename, line: line, col: col}
}

// String renders p as a diagnostic prefix:
//
//	file:line:col    valid position with a file name
//	file:line        valid position without a column
//	line:col         valid position without a file name
//	file             file-level position
//	-                unknown position
func (p Pos) String() string {
	s := p.filename
	if p.line > 0 {
		if s != "" {
			s += ":"
		}
		s += strconv.FormatUint(uint64(p.line), 10)
		if p.col > 0 {
			s += ":" + strconv.FormatUint(uint64(p.col), 10)
		}
	}
	if s == "" {
		s = "-"
	}
	return s
}

// MarshalText encodes p in its String form, so model dumps carry
// positions as plain strings.
func (p Pos) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
