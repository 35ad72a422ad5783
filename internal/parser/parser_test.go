package parser

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/you-not-fish/widl/internal/extattr"
	"github.com/you-not-fish/widl/internal/model"
	"github.com/you-not-fish/widl/internal/syntax"
)

func parse(t *testing.T, src string) []model.Class {
	t.Helper()
	classes, err := Parse("test.idl", strings.NewReader(src), extattr.NewSchema(), zap.NewNop().Sugar())
	require.NoError(t, err)
	return classes
}

func parseErr(t *testing.T, src string) *syntax.Error {
	t.Helper()
	_, err := Parse("test.idl", strings.NewReader(src), extattr.NewSchema(), zap.NewNop().Sugar())
	require.Error(t, err)
	var serr *syntax.Error
	require.ErrorAs(t, err, &serr)
	return serr
}

func TestParseEnum(t *testing.T) {
	classes := parse(t, `enum Color { "red", "", "dark-blue", };`)
	require.Len(t, classes, 1)
	e, ok := classes[0].(*model.Enum)
	require.True(t, ok, "got %T", classes[0])
	assert.Equal(t, "Color", e.Name)
	assert.Equal(t, "test.idl:1:6", e.Pos.String())
	assert.Equal(t, []string{"red", "dark-blue"}, e.Items)
	assert.False(t, e.Partial)
}

func TestParseEmptyEnum(t *testing.T) {
	e := parse(t, "enum E {};")[0].(*model.Enum)
	assert.Empty(t, e.Items)
}

func TestParseInterface(t *testing.T) {
	src := `
[no_spaceship]
partial interface Node : Base {
    [guard=HAS_KIDS] attribute sequence<Node> children;
    attribute string? label;
    [static, throws] Node? find([in] string key, long long depth);
    void reset();
};
`
	schema := extattr.NewSchema()
	require.NoError(t, schema.Install(extattr.Interface, extattr.Rule{Name: "no_spaceship", Kind: extattr.Flag}))
	classes, err := Parse("test.idl", strings.NewReader(src), schema, nil)
	require.NoError(t, err)
	require.Len(t, classes, 1)

	iface := classes[0].(*model.Interface)
	assert.Equal(t, "Node", iface.Name)
	assert.Equal(t, "Base", iface.Inherits)
	assert.True(t, iface.Partial)
	assert.True(t, iface.ExtAttrs.Flag("no_spaceship"))
	assert.Equal(t, "test.idl:3:19", iface.Pos.String())

	require.Len(t, iface.Attributes, 2)
	kids := iface.Attributes[0]
	assert.Equal(t, "children", kids.Name)
	assert.Equal(t, "sequence<Node>", kids.Type.String())
	assert.Equal(t, "HAS_KIDS", kids.ExtAttrs["guard"])
	assert.Equal(t, "test.idl:4:47", kids.Pos.String())
	assert.Equal(t, "string?", iface.Attributes[1].Type.String())

	require.Len(t, iface.Operations, 2)
	find := iface.Operations[0]
	assert.Equal(t, "find", find.Name)
	assert.Equal(t, "Node?", find.Result.String())
	assert.True(t, find.ExtAttrs.Flag("static"))
	assert.True(t, find.ExtAttrs.Flag("throws"))
	require.Len(t, find.Args, 2)
	assert.Equal(t, "key", find.Args[0].Name)
	assert.True(t, find.Args[0].ExtAttrs.Flag("in"))
	assert.Equal(t, "long long", find.Args[1].Type.String())
	assert.False(t, find.Args[1].ExtAttrs.Flag("in"))

	reset := iface.Operations[1]
	assert.Equal(t, "void", reset.Result.String())
	assert.Empty(t, reset.Args)
}

func TestParseTypes(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"long", "long"},
		{"long long", "long long"},
		{"long long?", "long long?"},
		{"sequence<string>", "sequence<string>"},
		{"sequence<sequence<int>?>", "sequence<sequence<int>?>"},
		{"union<string, int, Node>", "union<string, int, Node>"},
		{"record<string, Node?>", "record<string, Node?>"},
		{"span<char>", "span<char>"},
		{"map<string, sequence<Node>>?", "map<string, sequence<Node>>?"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			iface := parse(t, "interface I { attribute "+tt.src+" x; };")[0].(*model.Interface)
			assert.Equal(t, tt.want, iface.Attributes[0].Type.String())
		})
	}
}

func TestParseExtAttrs(t *testing.T) {
	src := `interface I { [if="a > 1", var=shape, guards(A, "B", 3), default=0] attribute int x; };`
	a := parse(t, src)[0].(*model.Interface).Attributes[0]

	require.Len(t, a.Raw, 4)
	assert.Equal(t, `if="a > 1"`, a.Raw[0].String())
	assert.Equal(t, `guards(A, "B", 3)`, a.Raw[2].String())

	assert.Equal(t, "a > 1", a.ExtAttrs["if"])
	assert.Equal(t, "shape", a.ExtAttrs["var"])
	assert.Equal(t, []string{"A", "B", "3"}, a.ExtAttrs["guards"])
	assert.Equal(t, "0", a.ExtAttrs["default"])
	assert.Nil(t, a.ExtAttrs["guard"])
}

func TestParseUnknownAttributeWarns(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	_, err := Parse("w.idl", strings.NewReader("[odd] enum E { \"a\" };"), extattr.NewSchema(), zap.New(core).Sugar())
	require.NoError(t, err)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "unknown attribute `odd'", logs.All()[0].Message)
	assert.Equal(t, "w.idl:1:2", logs.All()[0].ContextMap()["pos"])
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		pos  string
		msg  string
	}{
		{"unknown_kind", "dictionary D { };", "test.idl:1:1", `unexpected "dictionary D"`},
		{"partial_enum", `partial enum E { "a" };`, "test.idl:1:9", "only interfaces can be partial"},
		{"missing_semicolon", "interface I { attribute int x }", "test.idl:1:31", "expected `;', got `}'"},
		{"missing_brace", "interface I ;", "test.idl:1:13", "expected `{', got `;'"},
		{"missing_name", "interface { };", "test.idl:1:11", "expected ident, got `{'"},
		{"enum_non_string", "enum E { red };", "test.idl:1:10", "expected string, got red"},
		{"eof_in_body", "interface I {", "test.idl:1:13", "expected attribute, got <eof>"},
		{"bad_ext_attr", "[=x] enum E {};", "test.idl:1:2", "expected ident, got `='"},
		{"bad_literal", "[a=(] enum E {};", "test.idl:1:4", "expected string, got `('"},
		{"record_arity", "interface I { attribute record<a> x; };", "test.idl:1:33", "expected `,', got `>'"},
		{"unterminated_string", "enum E { \"abc };", "test.idl:1:10", "Error in string"},
		{"flag_with_argument", "interface I { [static=1] void f(); };", "test.idl:1:16", "`static' has no arguments"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parseErr(t, tt.src)
			assert.Equal(t, tt.pos, err.Pos.String())
			assert.Equal(t, tt.msg, err.Msg)
		})
	}
}

func TestParseMultipleDeclarations(t *testing.T) {
	classes := parse(t, `
enum A { "x" };
interface B { attribute A a; };
interface C : B {};
`)
	assert.Equal(t, []string{"A", "B", "C"}, model.Names(classes))
	assert.Equal(t, "B", classes[2].(*model.Interface).Inherits)
}

func TestPrintRoundTrip(t *testing.T) {
	src := `[no_spaceship] partial interface Node : Base {
    [guards(A, "B")] attribute sequence<Node> kids;
    [if="k", var=leaf] attribute record<string, int?> data;
    Node? find([in] string key, long long depth);
};
enum Color { "red", "dark-blue" };
`
	first := parse(t, src)

	var buf bytes.Buffer
	require.NoError(t, model.Fprint(&buf, first))
	second := parse(t, buf.String())

	var again bytes.Buffer
	require.NoError(t, model.Fprint(&again, second))
	if diff := cmp.Diff(buf.String(), again.String()); diff != "" {
		t.Errorf("re-printed model differs (-first +second):\n%s", diff)
	}
	assert.Equal(t, model.Names(first), model.Names(second))
}
