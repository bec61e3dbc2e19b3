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
	"testing"

	"github.com/consensys/go-edaparse/pkg/util/source"
	"github.com/consensys/go-edaparse/pkg/util/source/lex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStream_00(t *testing.T) {
	stream := checkTokenize(t, "ab (cd)\nef")
	//
	assert.True(t, stream.Follows(NAME))
	assert.Equal(t, "ab", stream.Text(stream.Advance()))
	//
	lbrace, err := stream.Expect(LBRACE, "expected '('")
	require.Nil(t, err)
	//
	name, ok := stream.Match(NAME)
	require.True(t, ok)
	_, ok = stream.Match(NAME)
	assert.False(t, ok)
	//
	rbrace := stream.Advance()
	node := stream.Node(PAIR, Between(lbrace, rbrace), stream.Leaf(ATOM, name))
	assert.Equal(t, "(cd)", node.Text)
	assert.Equal(t, 1, node.Line)
	assert.Equal(t, 2, node.Size())
	assert.Equal(t, 2, node.Depth())
	assert.Equal(t, "pair\n  atom \"cd\"\n", node.Dump(grammar))
	//
	ef := stream.Leaf(ATOM, stream.Advance())
	assert.Equal(t, 2, ef.Line)
	assert.True(t, stream.Done())
	// Advancing at the end stays at the end
	assert.Equal(t, END_OF, stream.Advance().Kind)
	assert.Equal(t, END_OF, stream.Peek(5).Kind)
}

func TestStream_01(t *testing.T) {
	stream := checkTokenize(t, "ab")
	//
	_, err := stream.Expect(LBRACE, "expected '('")
	require.NotNil(t, err)
	assert.Equal(t, "expected '('", err.Message())
	assert.Equal(t, 1, err.Column())
}

func TestTokenize_00(t *testing.T) {
	srcfile := source.NewSourceFile("test", []byte("ab\n  $"))
	_, err := Tokenize(srcfile, rules, WSPACE)
	//
	require.NotNil(t, err)
	assert.Equal(t, "unknown text encountered", err.Message())
	assert.Equal(t, 2, err.Line())
	assert.Equal(t, 3, err.Column())
}

func TestGrammar_00(t *testing.T) {
	assert.Equal(t, "test", grammar.Name())
	assert.Equal(t, "atom", grammar.RuleName(ATOM))
	assert.Equal(t, "rule#7", grammar.RuleName(Rule(7)))
}

// ============================================================================
// Framework
// ============================================================================

const (
	ATOM Rule = iota
	PAIR
)

var grammar = NewGrammar("test", "atom", "pair")

const (
	END_OF uint = iota
	WSPACE
	LBRACE
	RBRACE
	NAME
)

var rules = []lex.LexRule[rune]{
	lex.Rule(lex.Many(lex.Or(lex.Unit(' '), lex.Unit('\n'))), WSPACE),
	lex.Rule(lex.Unit('('), LBRACE),
	lex.Rule(lex.Unit(')'), RBRACE),
	lex.Rule(lex.Many(lex.Within('a', 'z')), NAME),
	lex.Rule(lex.Eof[rune](), END_OF),
}

func checkTokenize(t *testing.T, text string) *Stream {
	t.Helper()
	//
	srcfile := source.NewSourceFile("test", []byte(text))
	tokens, err := Tokenize(srcfile, rules, WSPACE)
	require.Nil(t, err)
	//
	return NewStream(srcfile, tokens)
}
