// Package parser turns IDL token streams into model classes and merges
// partial declarations spread across files.
package parser

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/you-not-fish/widl/internal/extattr"
	"github.com/you-not-fish/widl/internal/model"
	"github.com/you-not-fish/widl/internal/syntax"
	"github.com/you-not-fish/widl/internal/types"
)

// Parser performs syntax analysis over a token slice.
// Every error is fatal: the first one stops the parse.
type Parser struct {
	toks []syntax.Token
	i    int // index of the next unread token

	schema *extattr.Schema
	log    *zap.SugaredLogger
	err    error
}

// bailout is raised to unwind the parser after the first error.
type bailout struct{}

// New creates a Parser over toks, which must end with an EOF token.
// Extended attributes are validated with schema; warnings go to log.
func New(toks []syntax.Token, schema *extattr.Schema, log *zap.SugaredLogger) *Parser {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Parser{toks: toks, schema: schema, log: log}
}

// Parse tokenizes src and parses all declarations in it.
func Parse(filename string, src io.Reader, schema *extattr.Schema, log *zap.SugaredLogger) ([]model.Class, error) {
	toks, err := syntax.Tokenize(filename, src)
	if err != nil {
		return nil, err
	}
	return New(toks, schema, log).Parse()
}

// Parse parses the declarations in source order.
func (p *Parser) Parse() (classes []model.Class, err error) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			classes, err = nil, p.err
		}
	}()
	return p.file(), nil
}

// ----------------------------------------------------------------------------
// Token navigation

// matcher selects tokens by kind and, optionally, by text.
type matcher struct {
	kind syntax.Kind
	text string // empty matches any text of kind
}

func op(text string) matcher    { return matcher{kind: syntax.Op, text: text} }
func ident(text string) matcher { return matcher{kind: syntax.Ident, text: text} }

var (
	anyIdent  = matcher{kind: syntax.Ident}
	anyString = matcher{kind: syntax.String}
	anyNumber = matcher{kind: syntax.Number}
	eof       = matcher{kind: syntax.EOF}
)

func (m matcher) match(t syntax.Token) bool {
	return t.Kind == m.kind && (m.text == "" || t.Text == m.text)
}

func (m matcher) String() string {
	if m.text == "" {
		return m.kind.String()
	}
	return syntax.Token{Kind: m.kind, Text: m.text}.String()
}

// peek returns the next token without consuming it.
func (p *Parser) peek() syntax.Token {
	if p.i < len(p.toks) {
		return p.toks[p.i]
	}
	return p.toks[len(p.toks)-1]
}

// next consumes and returns the next token. At the end of input it
// keeps returning the EOF token.
func (p *Parser) next() syntax.Token {
	t := p.peek()
	if p.i < len(p.toks) {
		p.i++
	}
	return t
}

// putBack returns the last consumed token to the stream.
func (p *Parser) putBack() {
	if p.i > 0 {
		p.i--
	}
}

// got consumes the next token if it matches m.
func (p *Parser) got(m matcher) bool {
	if m.match(p.peek()) {
		p.next()
		return true
	}
	return false
}

// want consumes the next token and reports an error unless it matches
// one of ms.
func (p *Parser) want(ms ...matcher) syntax.Token {
	t := p.next()
	for _, m := range ms {
		if m.match(t) {
			return t
		}
	}
	p.errorAt(t.Pos, fmt.Sprintf("expected %s, got %s", ms[0], t))
	return t
}

// ----------------------------------------------------------------------------
// Error handling

func (p *Parser) errorAt(pos syntax.Pos, msg string) {
	p.fail(syntax.NewError(pos, msg))
}

func (p *Parser) fail(err error) {
	p.err = err
	panic(bailout{})
}

// validate runs the schema over raw attributes of domain.
func (p *Parser) validate(domain extattr.Domain, raw []extattr.Raw) extattr.Values {
	v, err := p.schema.Validate(domain, raw, p.log)
	if err != nil {
		p.fail(err)
	}
	return v
}

// ----------------------------------------------------------------------------
// Declarations

// file = { [ext-attrs] ["partial"] kind name [":" base] "{" body "}" ";" } EOF .
func (p *Parser) file() []model.Class {
	var list []model.Class
	for {
		raw := p.extAttrs()
		partial := p.got(ident("partial"))
		kind := p.want(anyIdent, eof)
		if kind.Kind == syntax.EOF {
			break
		}
		name := p.want(anyIdent)
		var base string
		if t := p.want(op("{"), op(":")); t.IsOp(":") {
			base = p.want(anyIdent).Text
			p.want(op("{"))
		}

		var c model.Class
		switch kind.Text {
		case "enum":
			c = p.enumBody(name, raw)
		case "interface":
			c = p.interfaceBody(name, raw, base)
		default:
			p.errorAt(kind.Pos, fmt.Sprintf("unexpected \"%s %s\"", kind, name))
		}
		if partial && kind.Text != "interface" {
			p.errorAt(kind.Pos, "only interfaces can be partial")
		}
		c.Decl().Partial = partial
		list = append(list, c)

		p.want(op("}"))
		p.want(op(";"))
	}
	return list
}

// enumBody = [ string { "," string } [","] ] .
// Empty strings are dropped. The closing brace is left unread.
func (p *Parser) enumBody(name syntax.Token, raw []extattr.Raw) *model.Enum {
	e := &model.Enum{Header: model.Header{Name: name.Text, Pos: name.Pos, Raw: raw}}
	for {
		t := p.want(anyString, op("}"))
		if t.IsOp("}") {
			p.putBack()
			break
		}
		if t.Value != "" {
			e.Items = append(e.Items, t.Value)
		}
		if t := p.want(op(","), op("}")); t.IsOp("}") {
			p.putBack()
		}
	}
	e.ExtAttrs = p.validate(extattr.Enum, raw)
	return e
}

// interfaceBody = { [ext-attrs] ( "attribute" type name ";" | operation ) } .
// The closing brace is left unread.
func (p *Parser) interfaceBody(name syntax.Token, raw []extattr.Raw, base string) *model.Interface {
	iface := &model.Interface{
		Header:   model.Header{Name: name.Text, Pos: name.Pos, Raw: raw},
		Inherits: base,
	}
	for {
		memberRaw := p.extAttrs()
		t := p.want(ident("attribute"), op("}"), anyIdent)
		if t.IsOp("}") {
			p.putBack()
			break
		}
		if t.IsIdent("attribute") {
			iface.Attributes = append(iface.Attributes, p.attribute(memberRaw))
			continue
		}
		p.putBack()
		iface.Operations = append(iface.Operations, p.operation(memberRaw))
	}
	iface.ExtAttrs = p.validate(extattr.Interface, raw)
	return iface
}

func (p *Parser) attribute(raw []extattr.Raw) *model.Attribute {
	typ := p.typ()
	name := p.want(anyIdent)
	p.want(op(";"))
	return &model.Attribute{
		Name:     name.Text,
		Type:     typ,
		Pos:      name.Pos,
		Raw:      raw,
		ExtAttrs: p.validate(extattr.Attribute, raw),
	}
}

// operation = type name "(" [ argument { "," argument } ] ")" ";" .
// argument  = [ext-attrs] type name .
func (p *Parser) operation(raw []extattr.Raw) *model.Operation {
	result := p.typ()
	name := p.want(anyIdent)
	p.want(op("("))

	var args []*model.Argument
	for {
		argRaw := p.extAttrs()
		t := p.want(op(")"), anyIdent)
		p.putBack()
		if t.IsOp(")") {
			break
		}
		typ := p.typ()
		argName := p.want(anyIdent)
		args = append(args, &model.Argument{
			Name:     argName.Text,
			Type:     typ,
			Pos:      argName.Pos,
			Raw:      argRaw,
			ExtAttrs: p.validate(extattr.Argument, argRaw),
		})
		if t := p.want(op(","), op(")")); t.IsOp(")") {
			p.putBack()
			break
		}
	}
	p.want(op(")"))
	p.want(op(";"))

	return &model.Operation{
		Name:     name.Text,
		Result:   result,
		Args:     args,
		Pos:      name.Pos,
		Raw:      raw,
		ExtAttrs: p.validate(extattr.Operation, raw),
	}
}

// extAttrs = [ "[" attr { "," attr } "]" ] .
// attr     = name [ "=" literal | "(" literal { "," literal } ")" ] .
func (p *Parser) extAttrs() []extattr.Raw {
	if !p.got(op("[")) {
		return nil
	}
	var list []extattr.Raw
	for {
		attr := extattr.Raw{Name: p.want(anyIdent)}
		switch {
		case p.got(op("=")):
			attr.Args = []syntax.Token{p.literal()}
		case p.got(op("(")):
			for {
				attr.Args = append(attr.Args, p.literal())
				if t := p.want(op(","), op(")")); t.IsOp(")") {
					break
				}
			}
		}
		list = append(list, attr)
		if t := p.want(op(","), op("]")); t.IsOp("]") {
			break
		}
	}
	return list
}

func (p *Parser) literal() syntax.Token {
	return p.want(anyString, anyNumber, anyIdent)
}

// ----------------------------------------------------------------------------
// Types

// typ = nonNullable [ "?" ] .
func (p *Parser) typ() types.Type {
	t := p.nonNullable()
	if p.got(op("?")) {
		return types.NewOptional(t)
	}
	return t
}

func (p *Parser) nonNullable() types.Type {
	name := p.want(anyIdent)
	switch name.Text {
	case "long":
		if p.got(ident("long")) {
			return types.NewSimple("long long")
		}
		return types.NewSimple("long")
	case "sequence":
		p.want(op("<"))
		elem := p.typ()
		p.want(op(">"))
		return types.NewSequence(elem)
	case "union":
		return types.NewUnion(p.typeArgs()...)
	case "record":
		p.want(op("<"))
		key := p.typ()
		p.want(op(","))
		value := p.typ()
		p.want(op(">"))
		return types.NewRecord(key, value)
	}
	if p.peek().IsOp("<") {
		return types.NewGeneric(name.Text, p.typeArgs()...)
	}
	return types.NewSimple(name.Text)
}

// typeArgs = "<" type { "," type } ">" .
func (p *Parser) typeArgs() []types.Type {
	p.want(op("<"))
	var list []types.Type
	for {
		list = append(list, p.typ())
		if t := p.want(op(","), op(">")); t.IsOp(">") {
			return list
		}
	}
}
