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
package function

import (
	"github.com/consensys/go-edaparse/pkg/ptree"
	"github.com/consensys/go-edaparse/pkg/util/source"
	"github.com/consensys/go-edaparse/pkg/util/source/lex"
)

// Rules of the function expression grammar.
const (
	EXPR_RESULT ptree.Rule = iota
	EXPR
	DEFAULT_AND_EXPR
	NOT_EXPR
	EXPR_OP
	PORT
	ZERO
	ONE
)

// Grammar describes the rules of the function expression grammar.
var Grammar = ptree.NewGrammar("function", "expr_result", "expr", "default_and_expr", "not_expr", "expr_op",
	"port", "zero", "one")

// END_OF signals "end of file"
const END_OF uint = 0

// WHITESPACE signals whitespace
const WHITESPACE uint = 1

// LBRACE signals "left brace"
const LBRACE uint = 2

// RBRACE signals "right brace"
const RBRACE uint = 3

// OPERATOR signals any of the binary operators.
const OPERATOR uint = 4

// NOT signals prefix negation.
const NOT uint = 5

// PRIME signals postfix negation.
const PRIME uint = 6

// SEMICOLON optionally terminates an expression.
const SEMICOLON uint = 7

// NUMBER signals a numeric constant.
const NUMBER uint = 8

// IDENTIFIER signals a port name.
const IDENTIFIER uint = 9

// Rule for describing whitespace
var whitespace lex.Scanner[rune] = lex.Many(lex.Or(lex.Unit(' '), lex.Unit('\t'), lex.Unit('\r'), lex.Unit('\n')))

// Rule for describing numbers
var number lex.Scanner[rune] = lex.Many(lex.Within('0', '9'))

var identifierStart lex.Scanner[rune] = lex.Or(
	lex.Unit('_'),
	lex.Within('a', 'z'),
	lex.Within('A', 'Z'))

var identifierRest lex.Scanner[rune] = lex.Many(lex.Or(
	lex.Unit('_'),
	lex.Unit('.'),
	lex.Within('0', '9'),
	lex.Within('a', 'z'),
	lex.Within('A', 'Z'),
	lex.Delimited([]rune("["), []rune("]"))))

// Rule for describing identifiers, which may carry a bus subscript.
var identifier lex.Scanner[rune] = lex.And(identifierStart, identifierRest)

// lexing rules
var rules []lex.LexRule[rune] = []lex.LexRule[rune]{
	lex.Rule(whitespace, WHITESPACE),
	lex.Rule(lex.Unit('('), LBRACE),
	lex.Rule(lex.Unit(')'), RBRACE),
	lex.Rule(lex.Or(lex.Unit('+'), lex.Unit('|'), lex.Unit('*'), lex.Unit('&'), lex.Unit('^')), OPERATOR),
	lex.Rule(lex.Unit('!'), NOT),
	lex.Rule(lex.Unit('\''), PRIME),
	lex.Rule(lex.Unit(';'), SEMICOLON),
	lex.Rule(number, NUMBER),
	lex.Rule(identifier, IDENTIFIER),
	lex.Rule(lex.Eof[rune](), END_OF),
}

// ParseTree recognises a function expression, producing the corresponding
// concrete parse tree.
func ParseTree(srcfile *source.File) (*ptree.Node, *source.SyntaxError) {
	tokens, err := ptree.Tokenize(srcfile, rules, WHITESPACE)
	if err != nil {
		return nil, err
	}
	//
	p := &parser{ptree.NewStream(srcfile, tokens)}
	//
	return p.parseResult()
}

type parser struct {
	*ptree.Stream
}

func (p *parser) parseResult() (*ptree.Node, *source.SyntaxError) {
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	//
	span := expr.Span
	//
	if semicolon, ok := p.Match(SEMICOLON); ok {
		span = span.Join(semicolon.Span)
	}
	//
	if !p.Follows(END_OF) {
		return nil, p.Error(p.Lookahead(), "unexpected token")
	}
	//
	return p.Node(EXPR_RESULT, span, expr), nil
}

// Parse a sequence of operands separated by binary operators.
func (p *parser) parseExpr() (*ptree.Node, *source.SyntaxError) {
	first, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	//
	children := []*ptree.Node{first}
	//
	for p.Follows(OPERATOR) {
		op := p.Leaf(EXPR_OP, p.Advance())
		//
		operand, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		//
		children = append(children, op, operand)
	}
	//
	return p.Node(EXPR, first.Span.Join(children[len(children)-1].Span), children...), nil
}

// Parse a sequence of one or more juxtaposed terms, which are implicitly
// conjoined.
func (p *parser) parseOperand() (*ptree.Node, *source.SyntaxError) {
	var terms []*ptree.Node
	//
	for len(terms) == 0 || p.Follows(IDENTIFIER, NUMBER, LBRACE, NOT) {
		term, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		//
		terms = append(terms, term)
	}
	//
	if len(terms) == 1 {
		return terms[0], nil
	}
	//
	return p.Node(DEFAULT_AND_EXPR, terms[0].Span.Join(terms[len(terms)-1].Span), terms...), nil
}

func (p *parser) parseTerm() (*ptree.Node, *source.SyntaxError) {
	if not, ok := p.Match(NOT); ok {
		arg, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		//
		return p.Node(NOT_EXPR, not.Span.Join(arg.Span), arg), nil
	}
	//
	term, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	//
	for {
		prime, ok := p.Match(PRIME)
		if !ok {
			return term, nil
		}
		//
		term = p.Node(NOT_EXPR, term.Span.Join(prime.Span), term)
	}
}

func (p *parser) parsePrimary() (*ptree.Node, *source.SyntaxError) {
	token := p.Lookahead()
	//
	switch token.Kind {
	case LBRACE:
		p.Advance()
		//
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		//
		if _, err := p.Expect(RBRACE, "expected ')'"); err != nil {
			return nil, err
		}
		//
		return expr, nil
	case IDENTIFIER:
		return p.Leaf(PORT, p.Advance()), nil
	case NUMBER:
		switch p.Text(token) {
		case "0":
			return p.Leaf(ZERO, p.Advance()), nil
		case "1":
			return p.Leaf(ONE, p.Advance()), nil
		}
		//
		return nil, p.Error(token, "expected constant 0 or 1")
	}
	//
	return nil, p.Error(token, "expected port, constant or '('")
}
