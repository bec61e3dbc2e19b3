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
package liberty

import (
	"regexp"

	"github.com/consensys/go-edaparse/pkg/ptree"
	"github.com/consensys/go-edaparse/pkg/util/source"
	"github.com/consensys/go-edaparse/pkg/util/source/lex"
)

// Rules of the Liberty grammar.
const (
	LIBRARY ptree.Rule = iota
	GROUP
	GROUP_KIND
	SIMPLE_ATTRIBUTE
	COMPLEX_ATTRIBUTE
	EXPR_TOKEN
	ID
	STRING
	FLOAT
)

// Grammar describes the rules of the Liberty grammar.
var Grammar = ptree.NewGrammar("liberty", "library", "group", "group_kind", "simple_attribute",
	"complex_attribute", "expr_token", "id", "string", "float")

// END_OF signals "end of file"
const END_OF uint = 0

// WHITESPACE signals whitespace, including escaped newlines.
const WHITESPACE uint = 1

// COMMENT signals a block or line comment.
const COMMENT uint = 2

// LBRACE signals "left brace"
const LBRACE uint = 3

// RBRACE signals "right brace"
const RBRACE uint = 4

// LCURLY signals "left curly brace"
const LCURLY uint = 5

// RCURLY signals "right curly brace"
const RCURLY uint = 6

// COLON separates a simple attribute from its value.
const COLON uint = 7

// SEMICOLON terminates an attribute.
const SEMICOLON uint = 8

// COMMA separates values.
const COMMA uint = 9

// QUOTED signals a double-quoted string, which may span multiple lines.
const QUOTED uint = 10

// WORD signals any other unquoted sequence of characters (e.g. identifiers,
// numbers, or numbers with units).
const WORD uint = 11

// Rule for describing whitespace.  A backslash immediately before a newline
// continues a line.
var whitespace lex.Scanner[rune] = lex.Many(lex.Or(
	lex.Unit(' '), lex.Unit('\t'), lex.Unit('\r'), lex.Unit('\n'),
	lex.Unit('\\', '\n'), lex.Unit('\\', '\r', '\n')))

var comment lex.Scanner[rune] = lex.Or(
	lex.Delimited([]rune("/*"), []rune("*/")),
	lex.SequenceNullableLast(lex.Unit('/', '/'), lex.Many(lex.Not('\n'))))

// Bus subscripts may contain a colon, such as "A[3:0]".
var word lex.Scanner[rune] = lex.Many(lex.Or(
	lex.Delimited([]rune("["), []rune("]")),
	lex.Not(' ', '\t', '\r', '\n', '(', ')', '{', '}', ':', ';', ',', '"', '\\', '[', ']')))

// lexing rules
var rules []lex.LexRule[rune] = []lex.LexRule[rune]{
	lex.Rule(whitespace, WHITESPACE),
	lex.Rule(comment, COMMENT),
	lex.Rule(lex.Unit('('), LBRACE),
	lex.Rule(lex.Unit(')'), RBRACE),
	lex.Rule(lex.Unit('{'), LCURLY),
	lex.Rule(lex.Unit('}'), RCURLY),
	lex.Rule(lex.Unit(':'), COLON),
	lex.Rule(lex.Unit(';'), SEMICOLON),
	lex.Rule(lex.Unit(','), COMMA),
	lex.Rule(lex.Quoted('"', '\\'), QUOTED),
	lex.Rule(word, WORD),
	lex.Rule(lex.Eof[rune](), END_OF),
}

var floatSyntax = regexp.MustCompile(`^[+-]?([0-9]+\.?[0-9]*|\.[0-9]+)([eE][+-]?[0-9]+)?$`)

// ParseTree recognises the contents of a Liberty file, producing the
// corresponding concrete parse tree.
func ParseTree(srcfile *source.File) (*ptree.Node, *source.SyntaxError) {
	tokens, err := ptree.Tokenize(srcfile, rules, WHITESPACE, COMMENT)
	if err != nil {
		return nil, err
	}
	//
	p := &parser{ptree.NewStream(srcfile, tokens)}
	//
	return p.parseLibrary()
}

type parser struct {
	*ptree.Stream
}

func (p *parser) parseLibrary() (*ptree.Node, *source.SyntaxError) {
	var (
		start    = p.Lookahead()
		children []*ptree.Node
	)
	//
	for !p.Follows(END_OF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		//
		children = append(children, stmt)
	}
	//
	return p.Node(LIBRARY, ptree.Between(start, p.Lookahead()), children...), nil
}

func (p *parser) parseStatement() (*ptree.Node, *source.SyntaxError) {
	name, err := p.Expect(WORD, "expected attribute or group name")
	if err != nil {
		return nil, err
	}
	//
	switch {
	case p.Follows(COLON):
		return p.parseSimpleAttribute(name)
	case p.Follows(LBRACE):
		return p.parseComplexAttributeOrGroup(name)
	}
	//
	return nil, p.Error(p.Lookahead(), "expected ':' or '('")
}

func (p *parser) parseSimpleAttribute(name lex.Token) (*ptree.Node, *source.SyntaxError) {
	var values []*ptree.Node
	//
	p.Advance()
	//
	for p.Follows(WORD, QUOTED) && !p.startsStatement() {
		values = append(values, p.parseValue())
	}
	//
	if len(values) == 0 {
		return nil, p.Error(p.Lookahead(), "expected attribute value")
	}
	//
	last := p.terminate(values[len(values)-1].Span)
	value := values[0]
	// Unquoted expressions are retained verbatim
	if len(values) > 1 {
		value = p.Node(EXPR_TOKEN, values[0].Span.Join(values[len(values)-1].Span), values...)
	}
	//
	return p.Node(SIMPLE_ATTRIBUTE, name.Span.Join(last), p.Leaf(ID, name), value), nil
}

func (p *parser) parseComplexAttributeOrGroup(name lex.Token) (*ptree.Node, *source.SyntaxError) {
	values, end, err := p.parseValues()
	if err != nil {
		return nil, err
	}
	//
	if !p.Follows(LCURLY) {
		children := append([]*ptree.Node{p.Leaf(ID, name)}, values...)
		span := p.terminate(end)
		//
		return p.Node(COMPLEX_ATTRIBUTE, name.Span.Join(span), children...), nil
	}
	// Group body
	children := append([]*ptree.Node{p.Leaf(GROUP_KIND, name)}, values...)
	//
	p.Advance()
	//
	for !p.Follows(RCURLY) {
		if p.Follows(END_OF) {
			return nil, p.Error(p.Lookahead(), "expected '}'")
		}
		//
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		//
		children = append(children, stmt)
	}
	//
	rcurly := p.Advance()
	span := p.terminate(rcurly.Span)
	//
	return p.Node(GROUP, name.Span.Join(span), children...), nil
}

// Parse a bracketed list of values, returning the span of the closing brace.
func (p *parser) parseValues() ([]*ptree.Node, source.Span, *source.SyntaxError) {
	var values []*ptree.Node
	//
	p.Advance()
	//
	for !p.Follows(RBRACE) {
		if !p.Follows(WORD, QUOTED) {
			return nil, source.Span{}, p.Error(p.Lookahead(), "expected value or ')'")
		}
		//
		values = append(values, p.parseValue())
		// Commas are optional
		p.Match(COMMA)
	}
	//
	rbrace := p.Advance()
	//
	return values, rbrace.Span, nil
}

func (p *parser) parseValue() *ptree.Node {
	token := p.Advance()
	//
	switch {
	case token.Kind == QUOTED:
		return p.Leaf(STRING, token)
	case floatSyntax.MatchString(p.Text(token)):
		return p.Leaf(FLOAT, token)
	default:
		return p.Leaf(ID, token)
	}
}

// Check whether the next tokens begin a new statement, which happens when a
// terminating semicolon has been omitted.
func (p *parser) startsStatement() bool {
	next := p.Peek(1).Kind
	return p.Follows(WORD) && (next == COLON || next == LBRACE)
}

// Consume an optional semicolon, returning the span of whatever was consumed
// last.
func (p *parser) terminate(last source.Span) source.Span {
	if semicolon, ok := p.Match(SEMICOLON); ok {
		return semicolon.Span
	}
	//
	return last
}
