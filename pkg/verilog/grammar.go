// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package verilog

import (
	"slices"
	"strings"

	"github.com/consensys/go-edaparse/pkg/ptree"
	"github.com/consensys/go-edaparse/pkg/util/source"
	"github.com/consensys/go-edaparse/pkg/util/source/lex"
)

// Rules of the structural Verilog grammar.
const (
	SOURCE_TEXT ptree.Rule = iota
	MODULE
	PORT
	IDENTIFIER
	NUMBER
	DCLS
	DCL
	DCL_TYPE
	RANGE
	INSTANCE
	PORT_CONNECTION
	ASSIGN
	NET_ID_EXPR
	CONCAT_EXPR
	CONSTANT
	PLAIN_ID
	BUS_INDEX_ID
	BUS_SLICE_ID
)

// Grammar describes the rules of the structural Verilog grammar.
var Grammar = ptree.NewGrammar("verilog", "source_text", "module", "port", "identifier", "number", "dcls", "dcl",
	"dcl_type", "range", "instance", "port_connection", "assign", "net_id_expr", "concat_expr", "constant",
	"plain_id", "bus_index_id", "bus_slice_id")

// Token kinds
const (
	END_OF uint = iota
	WHITESPACE
	COMMENT
	LBRACE
	RBRACE
	LSQUARE
	RSQUARE
	LCURLY
	RCURLY
	COLON
	SEMICOLON
	COMMA
	DOT
	EQUALS
	HASH
	LITERAL
	DIGITS
	NAME
	ESCAPED
)

var whitespace lex.Scanner[rune] = lex.Many(lex.Or(lex.Unit(' '), lex.Unit('\t'), lex.Unit('\r'), lex.Unit('\n')))

// Comments include attributes and compiler directives, neither of which affect
// the structure of a netlist.
var comment lex.Scanner[rune] = lex.Or(
	lex.Delimited([]rune("/*"), []rune("*/")),
	lex.Delimited([]rune("(*"), []rune("*)")),
	lex.SequenceNullableLast(lex.Unit('/', '/'), lex.Many(lex.Not('\n'))),
	lex.SequenceNullableLast(lex.Unit('`'), lex.Many(lex.Not('\n'))))

var digits lex.Scanner[rune] = lex.Many(lex.Within('0', '9'))

var identifierStart lex.Scanner[rune] = lex.Or(
	lex.Unit('_'),
	lex.Within('a', 'z'),
	lex.Within('A', 'Z'))

var identifierRest lex.Scanner[rune] = lex.Many(lex.Or(
	lex.Unit('_'),
	lex.Unit('$'),
	lex.Within('0', '9'),
	lex.Within('a', 'z'),
	lex.Within('A', 'Z')))

var identifier lex.Scanner[rune] = lex.And(identifierStart, identifierRest)

// Escaped identifiers run from a backslash up to the next whitespace.
var escaped lex.Scanner[rune] = lex.Sequence(lex.Unit('\\'), lex.Many(lex.Not(' ', '\t', '\r', '\n')))

// lexing rules
var rules []lex.LexRule[rune] = []lex.LexRule[rune]{
	lex.Rule(whitespace, WHITESPACE),
	lex.Rule(comment, COMMENT),
	lex.Rule(lex.Unit('('), LBRACE),
	lex.Rule(lex.Unit(')'), RBRACE),
	lex.Rule(lex.Unit('['), LSQUARE),
	lex.Rule(lex.Unit(']'), RSQUARE),
	lex.Rule(lex.Unit('{'), LCURLY),
	lex.Rule(lex.Unit('}'), RCURLY),
	lex.Rule(lex.Unit(':'), COLON),
	lex.Rule(lex.Unit(';'), SEMICOLON),
	lex.Rule(lex.Unit(','), COMMA),
	lex.Rule(lex.Unit('.'), DOT),
	lex.Rule(lex.Unit('='), EQUALS),
	lex.Rule(lex.Unit('#'), HASH),
	lex.Rule(literal, LITERAL),
	lex.Rule(digits, DIGITS),
	lex.Rule(identifier, NAME),
	lex.Rule(escaped, ESCAPED),
	lex.Rule(lex.Eof[rune](), END_OF),
}

// Based literals, such as "4'b1010", "1'b0" or "'hF".
func literal(items []rune) uint {
	i := 0
	// Optional size
	for i < len(items) && items[i] >= '0' && items[i] <= '9' {
		i++
	}
	//
	if i >= len(items) || items[i] != '\'' {
		return 0
	}
	// Optional sign
	if i++; i < len(items) && (items[i] == 's' || items[i] == 'S') {
		i++
	}
	//
	if i >= len(items) || !strings.ContainsRune("bBoOdDhH", items[i]) {
		return 0
	}
	//
	i++
	start := i
	//
	for i < len(items) && strings.ContainsRune("0123456789abcdefABCDEFxXzZ_?", items[i]) {
		i++
	}
	//
	if i == start {
		return 0
	}
	//
	return uint(i)
}

var keywords = []string{"module", "endmodule", "assign", "input", "inout", "output", "supply0", "supply1", "tri",
	"wand", "wire", "wor", "reg"}

// ParseTree recognises the contents of a structural Verilog file, producing
// the corresponding concrete parse tree.
func ParseTree(srcfile *source.File) (*ptree.Node, *source.SyntaxError) {
	tokens, err := ptree.Tokenize(srcfile, rules, WHITESPACE, COMMENT)
	if err != nil {
		return nil, err
	}
	//
	p := &parser{ptree.NewStream(srcfile, tokens)}
	//
	return p.parseSourceText()
}

type parser struct {
	*ptree.Stream
}

func (p *parser) parseSourceText() (*ptree.Node, *source.SyntaxError) {
	var (
		start   = p.Lookahead()
		modules []*ptree.Node
	)
	//
	for !p.Follows(END_OF) {
		module, err := p.parseModule()
		if err != nil {
			return nil, err
		}
		//
		modules = append(modules, module)
	}
	//
	return p.Node(SOURCE_TEXT, ptree.Between(start, p.Lookahead()), modules...), nil
}

func (p *parser) parseModule() (*ptree.Node, *source.SyntaxError) {
	start, err := p.expectKeyword("module")
	if err != nil {
		return nil, err
	}
	//
	name, err := p.parseIdentifier(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	//
	children := []*ptree.Node{name}
	// Port list
	if _, ok := p.Match(LBRACE); ok {
		ports, err := p.parsePortList()
		if err != nil {
			return nil, err
		}
		//
		children = append(children, ports...)
	}
	//
	if _, err := p.Expect(SEMICOLON, "expected ';'"); err != nil {
		return nil, err
	}
	// Module items
	for !p.followsKeyword("endmodule") {
		items, err := p.parseModuleItem()
		if err != nil {
			return nil, err
		}
		//
		children = append(children, items...)
	}
	//
	end := p.Advance()
	//
	return p.Node(MODULE, ptree.Between(start, end), children...), nil
}

func (p *parser) parsePortList() ([]*ptree.Node, *source.SyntaxError) {
	var ports []*ptree.Node
	//
	for !p.Follows(RBRACE) {
		if len(ports) > 0 {
			if _, err := p.Expect(COMMA, "expected ',' or ')'"); err != nil {
				return nil, err
			}
		}
		//
		port, err := p.parseIdentifier(PORT)
		if err != nil {
			return nil, err
		}
		//
		ports = append(ports, port)
	}
	//
	p.Advance()
	//
	return ports, nil
}

func (p *parser) parseModuleItem() ([]*ptree.Node, *source.SyntaxError) {
	token := p.Lookahead()
	//
	switch {
	case token.Kind == END_OF:
		return nil, p.Error(token, "expected 'endmodule'")
	case token.Kind == NAME && slices.Contains(dclKeywords, p.Text(token)):
		dcls, err := p.parseDcls()
		return []*ptree.Node{dcls}, err
	case p.followsKeyword("assign"):
		return p.parseAssigns()
	case token.Kind == NAME || token.Kind == ESCAPED:
		inst, err := p.parseInstance()
		return []*ptree.Node{inst}, err
	}
	//
	return nil, p.Error(token, "expected declaration, assignment or instance")
}

// Parse a declaration list, such as "input [3:0] a, b;".
func (p *parser) parseDcls() (*ptree.Node, *source.SyntaxError) {
	var (
		kind     = p.Advance()
		msb, lsb lex.Token
		hasRange bool
		dcls     []*ptree.Node
	)
	// Port declarations may additionally state their net type
	if text := p.Text(kind); text == "input" || text == "output" || text == "inout" {
		if p.followsKeyword("wire") || p.followsKeyword("reg") {
			p.Advance()
		}
	}
	//
	if _, ok := p.Match(LSQUARE); ok {
		var err *source.SyntaxError
		//
		if msb, lsb, err = p.parseRange(); err != nil {
			return nil, err
		}
		//
		hasRange = true
	}
	//
	for len(dcls) == 0 || p.Follows(COMMA) {
		if len(dcls) > 0 {
			p.Advance()
		}
		//
		name, err := p.parseIdentifier(IDENTIFIER)
		if err != nil {
			return nil, err
		}
		//
		children := []*ptree.Node{p.Leaf(DCL_TYPE, kind)}
		//
		if hasRange {
			span := ptree.Between(msb, lsb)
			children = append(children, p.Node(RANGE, span, p.Leaf(NUMBER, msb), p.Leaf(NUMBER, lsb)))
		}
		//
		children = append(children, name)
		dcls = append(dcls, p.Node(DCL, kind.Span.Join(name.Span), children...))
	}
	//
	end, err := p.Expect(SEMICOLON, "expected ';'")
	if err != nil {
		return nil, err
	}
	//
	return p.Node(DCLS, ptree.Between(kind, end), dcls...), nil
}

// Parse the remainder of a range after its opening bracket, returning the most
// and least significant bit tokens.
func (p *parser) parseRange() (lex.Token, lex.Token, *source.SyntaxError) {
	msb, err := p.Expect(DIGITS, "expected number")
	if err != nil {
		return msb, msb, err
	}
	//
	if _, err = p.Expect(COLON, "expected ':'"); err != nil {
		return msb, msb, err
	}
	//
	lsb, err := p.Expect(DIGITS, "expected number")
	if err != nil {
		return msb, lsb, err
	}
	//
	_, err = p.Expect(RSQUARE, "expected ']'")
	//
	return msb, lsb, err
}

// Parse one or more assignments, such as "assign a = b, c = d;".
func (p *parser) parseAssigns() ([]*ptree.Node, *source.SyntaxError) {
	var assigns []*ptree.Node
	//
	start := p.Advance()
	//
	for len(assigns) == 0 || p.Follows(COMMA) {
		if len(assigns) > 0 {
			p.Advance()
		}
		//
		lhs, err := p.parseNetExpr()
		if err != nil {
			return nil, err
		}
		//
		if _, err := p.Expect(EQUALS, "expected '='"); err != nil {
			return nil, err
		}
		//
		rhs, err := p.parseNetExpr()
		if err != nil {
			return nil, err
		}
		//
		span := lhs.Span.Join(rhs.Span)
		// First assignment covers the keyword
		if len(assigns) == 0 {
			span = span.Join(start.Span)
		}
		//
		assigns = append(assigns, p.Node(ASSIGN, span, lhs, rhs))
	}
	//
	if _, err := p.Expect(SEMICOLON, "expected ';'"); err != nil {
		return nil, err
	}
	//
	return assigns, nil
}

// Parse an instance, such as "INV u0 (.A(a), .Y());".
func (p *parser) parseInstance() (*ptree.Node, *source.SyntaxError) {
	start := p.Lookahead()
	//
	cell, err := p.parseIdentifier(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	// Parameter overrides do not affect structure
	if _, ok := p.Match(HASH); ok {
		if err := p.skipBracketed(); err != nil {
			return nil, err
		}
	}
	//
	name, err := p.parseIdentifier(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	//
	children := []*ptree.Node{cell, name}
	//
	if _, err := p.Expect(LBRACE, "expected '('"); err != nil {
		return nil, err
	}
	//
	for !p.Follows(RBRACE) {
		if len(children) > 2 {
			if _, err := p.Expect(COMMA, "expected ',' or ')'"); err != nil {
				return nil, err
			}
		}
		//
		conn, err := p.parsePortConnection()
		if err != nil {
			return nil, err
		}
		//
		children = append(children, conn)
	}
	//
	p.Advance()
	//
	end, err := p.Expect(SEMICOLON, "expected ';'")
	if err != nil {
		return nil, err
	}
	//
	return p.Node(INSTANCE, ptree.Between(start, end), children...), nil
}

// Parse a named port connection, such as ".A(net)" or ".A()".
func (p *parser) parsePortConnection() (*ptree.Node, *source.SyntaxError) {
	dot, err := p.Expect(DOT, "expected '.' (only named port connections are supported)")
	if err != nil {
		return nil, err
	}
	//
	port, err := p.parseIdentifier(PLAIN_ID)
	if err != nil {
		return nil, err
	}
	//
	children := []*ptree.Node{port}
	//
	if _, err := p.Expect(LBRACE, "expected '('"); err != nil {
		return nil, err
	}
	//
	if !p.Follows(RBRACE) {
		net, err := p.parseNetExpr()
		if err != nil {
			return nil, err
		}
		//
		children = append(children, net)
	}
	//
	end, err := p.Expect(RBRACE, "expected ')'")
	if err != nil {
		return nil, err
	}
	//
	return p.Node(PORT_CONNECTION, ptree.Between(dot, end), children...), nil
}

func (p *parser) parseNetExpr() (*ptree.Node, *source.SyntaxError) {
	token := p.Lookahead()
	//
	switch token.Kind {
	case LITERAL, DIGITS:
		return p.Leaf(CONSTANT, p.Advance()), nil
	case LCURLY:
		return p.parseConcat()
	}
	//
	id, err := p.parseId()
	if err != nil {
		return nil, err
	}
	//
	return p.Node(NET_ID_EXPR, id.Span, id), nil
}

func (p *parser) parseConcat() (*ptree.Node, *source.SyntaxError) {
	var (
		start    = p.Advance()
		children []*ptree.Node
	)
	//
	for len(children) == 0 || p.Follows(COMMA) {
		if len(children) > 0 {
			p.Advance()
		}
		//
		if p.Follows(LITERAL, DIGITS) {
			children = append(children, p.Leaf(CONSTANT, p.Advance()))
			continue
		}
		//
		id, err := p.parseId()
		if err != nil {
			return nil, err
		}
		//
		children = append(children, id)
	}
	//
	end, err := p.Expect(RCURLY, "expected '}'")
	if err != nil {
		return nil, err
	}
	//
	return p.Node(CONCAT_EXPR, ptree.Between(start, end), children...), nil
}

// Parse an identifier, which may be followed by an index or slice.
func (p *parser) parseId() (*ptree.Node, *source.SyntaxError) {
	name, err := p.parseIdentifier(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	//
	if _, ok := p.Match(LSQUARE); !ok {
		name.Rule = PLAIN_ID
		return name, nil
	}
	//
	msb, err := p.Expect(DIGITS, "expected number")
	if err != nil {
		return nil, err
	}
	//
	children := []*ptree.Node{name, p.Leaf(NUMBER, msb)}
	rule := BUS_INDEX_ID
	//
	if _, ok := p.Match(COLON); ok {
		lsb, err := p.Expect(DIGITS, "expected number")
		if err != nil {
			return nil, err
		}
		//
		children = append(children, p.Leaf(NUMBER, lsb))
		rule = BUS_SLICE_ID
	}
	//
	end, err := p.Expect(RSQUARE, "expected ']'")
	if err != nil {
		return nil, err
	}
	//
	return p.Node(rule, name.Span.Join(end.Span), children...), nil
}

// Parse a (possibly escaped) identifier which is not a keyword.
func (p *parser) parseIdentifier(rule ptree.Rule) (*ptree.Node, *source.SyntaxError) {
	token := p.Lookahead()
	//
	switch {
	case token.Kind == ESCAPED:
		return p.Leaf(rule, p.Advance()), nil
	case token.Kind == NAME && !slices.Contains(keywords, p.Text(token)):
		return p.Leaf(rule, p.Advance()), nil
	}
	//
	return nil, p.Error(token, "expected identifier")
}

func (p *parser) skipBracketed() *source.SyntaxError {
	if _, err := p.Expect(LBRACE, "expected '('"); err != nil {
		return err
	}
	//
	for depth := 1; depth > 0; {
		switch p.Advance().Kind {
		case LBRACE:
			depth++
		case RBRACE:
			depth--
		case END_OF:
			return p.Error(p.Lookahead(), "expected ')'")
		}
	}
	//
	return nil
}

func (p *parser) followsKeyword(keyword string) bool {
	return p.Follows(NAME) && p.Text(p.Lookahead()) == keyword
}

func (p *parser) expectKeyword(keyword string) (lex.Token, *source.SyntaxError) {
	if p.followsKeyword(keyword) {
		return p.Advance(), nil
	}
	//
	return lex.Token{}, p.Error(p.Lookahead(), "expected '"+keyword+"'")
}
