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
package lex

import "github.com/consensys/go-edaparse/pkg/util/source"

// Token is a tagged span of the input sequence.
type Token struct {
	Kind uint
	Span source.Span
}

// LexRule associates a scanner with the tag given to the tokens it matches.
//
// nolint
type LexRule[T any] struct {
	scanner Scanner[T]
	tag     uint
}

// Rule constructs a new lexing rule which maps matching items to a given tag.
func Rule[T any](scanner Scanner[T], tag uint) LexRule[T] {
	return LexRule[T]{scanner, tag}
}

// Lexer splits an input sequence into tokens using an ordered list of rules.
// At each position the first rule which matches wins, so rules for keywords
// or punctuation must precede more general ones.  Lexing stops at the first
// position where no rule matches, or after a rule has matched the end of the
// input.
type Lexer[T any] struct {
	input  []T
	offset int
	rules  []LexRule[T]
	done   bool
}

// NewLexer constructs a new lexer with a given set of lexing rules.
func NewLexer[T any](input []T, rules ...LexRule[T]) *Lexer[T] {
	return &Lexer[T]{input: input, rules: rules}
}

// Index returns the current position within the input.  Once the end of the
// input has been matched, this is one beyond its length.
func (p *Lexer[T]) Index() uint {
	return uint(p.offset)
}

// Remaining returns the number of input items which have not been matched.
func (p *Lexer[T]) Remaining() uint {
	return uint(max(0, len(p.input)-p.offset))
}

// Next scans the next token, returning false when lexing has stopped.
func (p *Lexer[T]) Next() (Token, bool) {
	if p.done {
		return Token{}, false
	}
	//
	for _, rule := range p.rules {
		n := rule.scanner(p.input[p.offset:])
		if n == 0 {
			continue
		}
		//
		end := min(len(p.input), p.offset+int(n))
		token := Token{rule.tag, source.NewSpan(p.offset, end)}
		//
		if p.offset == len(p.input) {
			// Matched end of input
			p.offset++
			p.done = true
		} else {
			p.offset = end
		}
		//
		return token, true
	}
	// Nothing matched
	p.done = true
	//
	return Token{}, false
}

// Collect scans all remaining tokens.
func (p *Lexer[T]) Collect() []Token {
	var tokens []Token
	//
	for token, ok := p.Next(); ok; token, ok = p.Next() {
		tokens = append(tokens, token)
	}
	//
	return tokens
}
