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
package ptree

import (
	"slices"

	"github.com/consensys/go-edaparse/pkg/util/source"
	"github.com/consensys/go-edaparse/pkg/util/source/lex"
)

// Tokenize splits the contents of a source file into tokens using a given set
// of lexing rules.  Tokens whose kind is in the skip set (e.g. whitespace or
// comments) are dropped.  Text which matches none of the rules is reported as a
// syntax error.
func Tokenize(srcfile *source.File, rules []lex.LexRule[rune], skip ...uint) ([]lex.Token, *source.SyntaxError) {
	var (
		lexer  = lex.NewLexer(srcfile.Contents(), rules...)
		tokens = lexer.Collect()
	)
	// Check whether anything was left (if so this is an error)
	if lexer.Remaining() != 0 {
		start := int(lexer.Index())
		span := source.NewSpan(start, start+1)
		//
		return nil, srcfile.SyntaxError(span, "unknown text encountered")
	}
	// Remove any skippable tokens
	tokens = slices.DeleteFunc(tokens, func(t lex.Token) bool {
		return slices.Contains(skip, t.Kind)
	})
	//
	return tokens, nil
}

// Stream provides a cursor over a tokenised source file, along with the
// machinery needed by recursive descent recognisers to build parse tree nodes.
// The token stream is expected to be terminated by an end-of-file token.
type Stream struct {
	srcfile *source.File
	tokens  []lex.Token
	// Position within the tokens
	index int
}

// NewStream constructs a new stream over a given set of tokens.
func NewStream(srcfile *source.File, tokens []lex.Token) *Stream {
	return &Stream{srcfile, tokens, 0}
}

// SourceFile returns the source file underlying this stream.
func (p *Stream) SourceFile() *source.File {
	return p.srcfile
}

// Done determines whether or not all tokens (except the end-of-file token) have
// been consumed.
func (p *Stream) Done() bool {
	return p.index+1 >= len(p.tokens)
}

// Lookahead returns the next token.  This must exist because EOF is always
// appended at the end of the token stream.
func (p *Stream) Lookahead() lex.Token {
	return p.Peek(0)
}

// Peek returns the nth token after the next token.  Peeking beyond the end of
// the stream returns the final token.
func (p *Stream) Peek(n int) lex.Token {
	return p.tokens[min(p.index+n, len(p.tokens)-1)]
}

// Follows checks whether one of the given token kinds is next.
func (p *Stream) Follows(options ...uint) bool {
	return slices.Contains(options, p.Lookahead().Kind)
}

// Advance consumes and returns the next token.
func (p *Stream) Advance() lex.Token {
	token := p.Lookahead()
	p.index = min(p.index+1, len(p.tokens)-1)
	//
	return token
}

// Match consumes the next token if it has a given kind.
func (p *Stream) Match(kind uint) (lex.Token, bool) {
	if p.Lookahead().Kind == kind {
		return p.Advance(), true
	}
	//
	return lex.Token{}, false
}

// Expect consumes the next token, or reports a syntax error with a given
// message if it does not have the given kind.
func (p *Stream) Expect(kind uint, msg string) (lex.Token, *source.SyntaxError) {
	if token, ok := p.Match(kind); ok {
		return token, nil
	}
	//
	return lex.Token{}, p.Error(p.Lookahead(), msg)
}

// Text returns the text matched by a given token.
func (p *Stream) Text(token lex.Token) string {
	return p.srcfile.Text(token.Span)
}

// Error constructs a syntax error for a given token.
func (p *Stream) Error(token lex.Token, msg string) *source.SyntaxError {
	return p.srcfile.SyntaxError(token.Span, msg)
}

// Leaf constructs a parse tree node covering exactly one token.
func (p *Stream) Leaf(rule Rule, token lex.Token) *Node {
	return p.Node(rule, token.Span)
}

// Node constructs a parse tree node for a given rule covering a given span.
func (p *Stream) Node(rule Rule, span source.Span, children ...*Node) *Node {
	line, _ := p.srcfile.Position(span.Start())
	//
	return &Node{
		Rule:     rule,
		Span:     span,
		Line:     line,
		Text:     p.srcfile.Text(span),
		Children: children,
	}
}

// Between returns the span from the start of one token to the end of another.
func Between(first lex.Token, last lex.Token) source.Span {
	return first.Span.Join(last.Span)
}
