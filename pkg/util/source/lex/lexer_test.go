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

import (
	"testing"

	"github.com/consensys/go-edaparse/pkg/util/source"
	"github.com/stretchr/testify/assert"
)

func TestLexer_00(t *testing.T) {
	checkLexer(t, "", 0, tok(END_OF, 0, 0))
	checkLexer(t, "(", 0, tok(LBRACE, 0, 1), tok(END_OF, 1, 1))
	checkLexer(t, "()", 0, tok(LBRACE, 0, 1), tok(RBRACE, 1, 2), tok(END_OF, 2, 2))
}

func TestLexer_01(t *testing.T) {
	checkLexer(t, "( )", 0, tok(LBRACE, 0, 1), tok(WSPACE, 1, 2), tok(RBRACE, 2, 3), tok(END_OF, 3, 3))
	checkLexer(t, "(  )", 0, tok(LBRACE, 0, 1), tok(WSPACE, 1, 3), tok(RBRACE, 3, 4), tok(END_OF, 4, 4))
}

func TestLexer_02(t *testing.T) {
	checkLexer(t, "1", 0, tok(NUMBER, 0, 1), tok(END_OF, 1, 1))
	checkLexer(t, "123", 0, tok(NUMBER, 0, 3), tok(END_OF, 3, 3))
	checkLexer(t, "(90)", 0, tok(LBRACE, 0, 1), tok(NUMBER, 1, 3), tok(RBRACE, 3, 4), tok(END_OF, 4, 4))
}

func TestLexer_03(t *testing.T) {
	checkLexer(t, `"a\"b"`, 0, tok(STRING, 0, 6), tok(END_OF, 6, 6))
	checkLexer(t, `"a\\"`, 0, tok(STRING, 0, 5), tok(END_OF, 5, 5))
}

func TestLexer_04(t *testing.T) {
	checkLexer(t, "(/* x */)", 0, tok(LBRACE, 0, 1), tok(COMMENT, 1, 8), tok(RBRACE, 8, 9), tok(END_OF, 9, 9))
	checkLexer(t, "1// x\n2", 0, tok(NUMBER, 0, 1), tok(COMMENT, 1, 5), tok(WSPACE, 5, 6), tok(NUMBER, 6, 7),
		tok(END_OF, 7, 7))
	checkLexer(t, "//", 0, tok(COMMENT, 0, 2), tok(END_OF, 2, 2))
}

func TestLexer_05(t *testing.T) {
	// Words starting with a number take priority over numbers
	checkLexer(t, "1nW 2ab", 0, tok(WORD, 0, 3), tok(WSPACE, 3, 4), tok(WORD, 4, 7), tok(END_OF, 7, 7))
}

func TestLexer_06(t *testing.T) {
	// Unmatched text
	checkLexer(t, "x", 1)
	// Unterminated string
	checkLexer(t, `("abc`, 4, tok(LBRACE, 0, 1))
	// Unterminated comment
	checkLexer(t, "/* abc", 6)
}

func TestLexer_07(t *testing.T) {
	lexer := NewLexer([]rune("()"), rules...)
	assert.Equal(t, uint(0), lexer.Index())
	//
	_, ok := lexer.Next()
	assert.True(t, ok)
	assert.Equal(t, uint(1), lexer.Index())
	// Once lexing stops it stays stopped
	assert.Len(t, lexer.Collect(), 2)
	assert.Equal(t, uint(3), lexer.Index())
	_, ok = lexer.Next()
	assert.False(t, ok)
}

func TestScanner_00(t *testing.T) {
	rule := Sequence(Unit('a'), Unit('b'), Unit('c'))
	//
	assert.Equal(t, uint(0), rule([]rune("acc")))
	assert.Equal(t, uint(0), rule([]rune("abb")))
	assert.Equal(t, uint(0), rule([]rune("ab")))
	assert.Equal(t, uint(3), rule([]rune("abcd")))
}

func TestScanner_01(t *testing.T) {
	rule := SequenceNullableLast(Unit('a'), Unit('b'), Unit('c'))
	// non-final rule cannot be left unmatched.
	assert.Equal(t, uint(0), rule([]rune("acc")))
	// final rule is allowed to have no match.
	assert.Equal(t, uint(2), rule([]rune("abb")))
	assert.Equal(t, uint(2), rule([]rune("ab")))
}

func TestScanner_02(t *testing.T) {
	rule := Not('x', 'y')
	//
	assert.Equal(t, uint(0), rule([]rune("x")))
	assert.Equal(t, uint(1), rule([]rune("ax")))
	assert.Equal(t, uint(0), rule([]rune{}))
}

func TestScanner_03(t *testing.T) {
	alpha := Or(Within('a', 'z'), Within('A', 'Z'))
	hex := And(Many(Or(Within('0', '9'), Within('a', 'f'))), Many(alpha))
	//
	assert.Equal(t, uint(3), Many(alpha)([]rune("aBc1")))
	assert.Equal(t, uint(0), Many(alpha)([]rune("1")))
	assert.Equal(t, uint(3), hex([]rune("abc")))
	assert.Equal(t, uint(0), hex([]rune("12")))
	assert.Equal(t, uint(4), Delimited([]rune("(*"), []rune("*)"))([]rune("(**)x")))
	assert.Equal(t, uint(0), Delimited([]rune("(*"), []rune("*)"))([]rune("(*)")))
}

// ==================================================================
// Framework
// ==================================================================

const END_OF uint = 0
const WSPACE uint = 1
const LBRACE uint = 2
const RBRACE uint = 3
const NUMBER uint = 4
const STRING uint = 5
const COMMENT uint = 6
const WORD uint = 7

// Rule for describing whitespace
var whitespace Scanner[rune] = Many(Or(Unit(' '), Unit('\t'), Unit('\n')))

// Rule for describing numbers
var number Scanner[rune] = Many(Within('0', '9'))

// Rule for describing words which start with a number
var word Scanner[rune] = Sequence(number, Within('a', 'z'), Many(Or(Within('a', 'z'), Within('A', 'Z'))))

// Rule for describing comments
var comment Scanner[rune] = Or(
	Delimited([]rune("/*"), []rune("*/")),
	SequenceNullableLast(Unit('/', '/'), Many(Not('\n'))))

// lexing rules
var rules []LexRule[rune] = []LexRule[rune]{
	Rule(Unit('('), LBRACE),
	Rule(Unit(')'), RBRACE),
	Rule(whitespace, WSPACE),
	Rule(comment, COMMENT),
	Rule(Quoted('"', '\\'), STRING),
	Rule(word, WORD),
	Rule(number, NUMBER),
	Rule(Eof[rune](), END_OF),
}

func checkLexer(t *testing.T, input string, remainder uint, expected ...Token) {
	t.Helper()
	//
	lexer := NewLexer([]rune(input), rules...)
	tokens := lexer.Collect()
	//
	assert.Equal(t, expected, tokens, input)
	assert.Equal(t, remainder, lexer.Remaining(), input)
}

func tok(kind uint, start int, end int) Token {
	return Token{kind, source.NewSpan(start, end)}
}
