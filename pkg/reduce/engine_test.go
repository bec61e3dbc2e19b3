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
package reduce

import (
	"errors"
	"strconv"
	"testing"

	"github.com/consensys/go-edaparse/pkg/ptree"
	"github.com/consensys/go-edaparse/pkg/util/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	NUM ptree.Rule = iota
	SUM
	HEAD
	WRAP
	BOGUS
)

var grammar = ptree.NewGrammar("test", "num", "sum", "head", "wrap")

func TestReduce_00(t *testing.T) {
	tree := sum(num("1"), sum(num("2"), num("3")))
	checkReduce(t, tree, 6)
}

func TestReduce_01(t *testing.T) {
	tree := wrap(sum(num("10")))
	checkReduce(t, tree, 10)
}

func TestReduce_02(t *testing.T) {
	// Deeply nested tree
	tree := num("1")
	for i := 0; i < 100; i++ {
		tree = sum(tree, num("1"))
	}
	//
	checkReduce(t, tree, 101)
}

func TestReduce_03(t *testing.T) {
	// Empty sum
	checkReduce(t, sum(), 0)
}

func TestReduce_Error_00(t *testing.T) {
	tree := sum(num("1"), node(BOGUS, "?"))
	checkReduceError(t, tree, UnknownRule)
}

func TestReduce_Error_01(t *testing.T) {
	tree := sum(num("1"), num("x2"))
	err := checkReduceError(t, tree, MalformedNumber)
	assert.Equal(t, "x2", err.Text)
}

func TestReduce_Error_02(t *testing.T) {
	// head leaves items in its buffer
	tree := head(num("1"), num("2"))
	checkReduceError(t, tree, Unbalanced)
}

func TestReduce_Error_03(t *testing.T) {
	// head pops from an empty buffer
	tree := head()
	err := checkReduceError(t, tree, TypeMismatch)
	assert.Equal(t, "number", err.Expected)
	assert.Equal(t, "nothing", err.Found)
}

func TestReduce_Error_04(t *testing.T) {
	// wrap expects exactly one item
	tree := wrap(num("1"), num("2"))
	checkReduceError(t, tree, Unbalanced)
}

func TestReduce_Error_05(t *testing.T) {
	// First error wins
	tree := sum(num("a"), node(BOGUS, "?"))
	err := checkReduceError(t, tree, MalformedNumber)
	assert.Equal(t, "a", err.Text)
}

func TestReduce_Balance_00(t *testing.T) {
	trees := []*ptree.Node{
		num("7"),
		sum(num("1"), num("2")),
		sum(sum(num("1"), sum(num("2"), wrap(num("3")))), head(num("4")), sum()),
	}
	//
	for _, tree := range trees {
		observer := &balanceObserver{}
		engine := newEngine()
		engine.SetObserver(observer)
		//
		_, err := engine.Reduce(tree)
		require.NoError(t, err)
		// Every node visited exactly once
		assert.Equal(t, tree.Size(), observer.entered)
		assert.Equal(t, tree.Size(), observer.left)
		assert.Equal(t, 0, observer.depth)
		assert.Empty(t, observer.violations)
	}
}

func TestReduce_Balance_01(t *testing.T) {
	// Observer still sees balanced enter / leave on failure
	observer := &balanceObserver{}
	engine := newEngine()
	engine.SetObserver(observer)
	//
	_, err := engine.Reduce(sum(num("1"), sum(num("?"))))
	require.Error(t, err)
	assert.Equal(t, observer.entered, observer.left)
	assert.Equal(t, 0, observer.depth)
}

// ==================================================================
// Framework
// ==================================================================

type balanceObserver struct {
	entered    int
	left       int
	depth      int
	violations []string
}

func (p *balanceObserver) Enter(rule string, node *ptree.Node) {
	p.entered++
	p.depth++
}

func (p *balanceObserver) Leave(rule string, node *ptree.Node, consumed int, err error) {
	p.left++
	p.depth--
	// Each successful builder consumes exactly the values produced by its
	// children.
	if err == nil && consumed != len(node.Children) {
		p.violations = append(p.violations, rule)
	}
}

func newEngine() *Engine[int] {
	engine := NewEngine[int](grammar)
	//
	engine.AddRule(NUM, func(node *ptree.Node, items *Items[int]) (int, error) {
		n, err := strconv.Atoi(node.Text)
		if err != nil {
			return 0, items.Malformed(err)
		}
		//
		return n, nil
	})
	engine.AddRule(SUM, func(node *ptree.Node, items *Items[int]) (int, error) {
		total := 0
		//
		for _, n := range items.Drain() {
			total += n
		}
		//
		return total, nil
	})
	engine.AddRule(HEAD, func(node *ptree.Node, items *Items[int]) (int, error) {
		return Next[int](items, "number")
	})
	engine.AddRule(WRAP, Passthrough[int])
	//
	return engine
}

func checkReduce(t *testing.T, tree *ptree.Node, expected int) {
	t.Helper()
	//
	actual, err := newEngine().Reduce(tree)
	require.NoError(t, err)
	assert.Equal(t, expected, actual)
}

func checkReduceError(t *testing.T, tree *ptree.Node, kind ErrorKind) *Error {
	var rerr *Error
	//
	t.Helper()
	//
	_, err := newEngine().Reduce(tree)
	require.Error(t, err)
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, kind, rerr.Kind, rerr.Error())
	//
	return rerr
}

func num(text string) *ptree.Node {
	return node(NUM, text)
}

func sum(children ...*ptree.Node) *ptree.Node {
	return node(SUM, "", children...)
}

func head(children ...*ptree.Node) *ptree.Node {
	return node(HEAD, "", children...)
}

func wrap(children ...*ptree.Node) *ptree.Node {
	return node(WRAP, "", children...)
}

func node(rule ptree.Rule, text string, children ...*ptree.Node) *ptree.Node {
	return &ptree.Node{Rule: rule, Span: source.NewSpan(0, len(text)), Line: 1, Text: text, Children: children}
}
