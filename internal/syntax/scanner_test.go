package syntax

import (
	"strings"
	"testing"
)

func TestScanTokens(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		kinds []Kind
		texts []string
	}{
		{"ident", "foo", []Kind{Ident, EOF}, []string{"foo", "<eof>"}},
		{"ident_underscore", "_bar9", []Kind{Ident, EOF}, []string{"_bar9", "<eof>"}},
		{"number", "123", []Kind{Number, EOF}, []string{"123", "<eof>"}},
		{"number_then_ident", "12ab", []Kind{Number, Ident, EOF}, []string{"12", "ab", "<eof>"}},
		{"string", `"hello"`, []Kind{String, EOF}, []string{`"hello"`, "<eof>"}},
		{"ops", "{};<>?", []Kind{Op, Op, Op, Op, Op, Op, EOF}, []string{"{", "}", ";", "<", ">", "?", "<eof>"}},
		{"unknown_char_is_op", "@", []Kind{Op, EOF}, []string{"@", "<eof>"}},
		{"long_long", "long long", []Kind{Ident, Ident, EOF}, []string{"long", "long", "<eof>"}},
		{"multiline", "a\n\n  b", []Kind{Ident, Ident, EOF}, []string{"a", "b", "<eof>"}},
		{"empty", "", []Kind{EOF}, []string{"<eof>"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := Tokenize("test.idl", strings.NewReader(tt.src))
			if err != nil {
				t.Fatalf("Tokenize: %v", err)
			}
			if len(toks) != len(tt.kinds) {
				t.Fatalf("got %d tokens, want %d: %v", len(toks), len(tt.kinds), toks)
			}
			for i, tok := range toks {
				if tok.Kind != tt.kinds[i] {
					t.Errorf("token %d kind = %v, want %v", i, tok.Kind, tt.kinds[i])
				}
				if tok.Text != tt.texts[i] {
					t.Errorf("token %d text = %q, want %q", i, tok.Text, tt.texts[i])
				}
			}
		})
	}
}

func TestScanStrings(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"simple", `"abc"`, "abc"},
		{"empty", `""`, ""},
		{"escape_n", `"a\nb"`, "a\nb"},
		{"escape_t", `"a\tb"`, "a\tb"},
		{"escape_bell", `"\a\b\f\v\r"`, "\a\b\f\v\r"},
		{"escape_quote", `"a\"b"`, `a"b`},
		{"escape_backslash", `"a\\b"`, `a\b`},
		{"escape_unknown", `"\q"`, "q"},
		{"unicode", `"zażółć"`, "zażółć"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := Tokenize("", strings.NewReader(tt.src))
			if err != nil {
				t.Fatalf("Tokenize: %v", err)
			}
			if toks[0].Kind != String {
				t.Fatalf("kind = %v, want string", toks[0].Kind)
			}
			if toks[0].Value != tt.want {
				t.Errorf("value = %q, want %q", toks[0].Value, tt.want)
			}
		})
	}
}

func TestScanPositions(t *testing.T) {
	src := "enum E {\n  \"a\", \"żb\"\n};   \n"
	toks, err := Tokenize("f.idl", strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"f.idl:1:1", "f.idl:1:6", "f.idl:1:8",
		"f.idl:2:3", "f.idl:2:6", "f.idl:2:8",
		"f.idl:3:1", "f.idl:3:2",
		"f.idl:3:2", // EOF at the trimmed length of the last line
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, tok := range toks {
		if got := tok.Pos.String(); got != want[i] {
			t.Errorf("token %d (%v) pos = %s, want %s", i, tok, got, want[i])
		}
	}
}

func TestScanUnterminatedString(t *testing.T) {
	tests := []struct {
		name string
		src  string
		pos  string
	}{
		{"eol", `x "abc`, "u.idl:1:3"},
		{"trailing_backslash", "\n  \"abc\\", "u.idl:2:3"},
		{"spans_lines", "\"a\nb\"", "u.idl:1:1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize("u.idl", strings.NewReader(tt.src))
			if err == nil {
				t.Fatal("expected error")
			}
			serr, ok := err.(*Error)
			if !ok {
				t.Fatalf("error type = %T, want *Error", err)
			}
			if serr.Pos.String() != tt.pos {
				t.Errorf("pos = %s, want %s", serr.Pos, tt.pos)
			}
			if serr.Msg != "Error in string" {
				t.Errorf("msg = %q", serr.Msg)
			}
		})
	}
}

func TestTokenString(t *testing.T) {
	tests := []struct {
		tok  Token
		want string
	}{
		{Token{Kind: Ident, Text: "foo"}, "foo"},
		{Token{Kind: Number, Text: "12"}, "12"},
		{Token{Kind: String, Text: `"a"`, Value: "a"}, `"a"`},
		{Token{Kind: Op, Text: "{"}, "`{'"},
		{Token{Kind: EOF, Text: "<eof>"}, "<eof>"},
	}
	for _, tt := range tests {
		if got := tt.tok.String(); got != tt.want {
			t.Errorf("%#v.String() = %q, want %q", tt.tok, got, tt.want)
		}
	}
}

func TestKindString(t *testing.T) {
	for k, want := range map[Kind]string{Ident: "ident", Number: "number", String: "string", Op: "op", EOF: "eof", Kind(42): "kind(42)"} {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}

func TestTokenLiteral(t *testing.T) {
	if got := (Token{Kind: String, Text: `"x y"`, Value: "x y"}).Literal(); got != "x y" {
		t.Errorf("string literal = %q", got)
	}
	if got := (Token{Kind: Number, Text: "7"}).Literal(); got != "7" {
		t.Errorf("number literal = %q", got)
	}
}
