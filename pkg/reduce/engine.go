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
	"fmt"

	"github.com/consensys/go-edaparse/pkg/ptree"
)

// Builder constructs a single value for a parse tree node from the values
// already produced for its children.  These are provided, in source order, by
// a buffer local to the node.  A builder must consume every item in its buffer.
type Builder[T any] func(node *ptree.Node, items *Items[T]) (T, error)

// Observer is notified as the engine enters and leaves each node.  Observers
// cannot influence the reduction.
type Observer interface {
	// Enter is called before the children of a node are reduced.
	Enter(rule string, node *ptree.Node)
	// Leave is called after the builder for a node has completed, reporting the
	// number of items consumed and any error arising.
	Leave(rule string, node *ptree.Node, consumed int, err error)
}

// Engine reduces a concrete parse tree into a typed value by post-order
// traversal.  Each node is reduced by first reducing its children, and then
// applying the builder registered for the node's rule to their results.
type Engine[T any] struct {
	grammar  *ptree.Grammar
	builders map[ptree.Rule]Builder[T]
	observer Observer
}

// NewEngine constructs an engine for a given grammar, initially without any
// builders.
func NewEngine[T any](grammar *ptree.Grammar) *Engine[T] {
	return &Engine[T]{grammar, make(map[ptree.Rule]Builder[T]), nil}
}

// Grammar returns the grammar this engine reduces.
func (e *Engine[T]) Grammar() *ptree.Grammar {
	return e.grammar
}

// AddRule registers the builder for a given rule, replacing any existing
// builder for that rule.
func (e *Engine[T]) AddRule(rule ptree.Rule, builder Builder[T]) {
	e.builders[rule] = builder
}

// SetObserver attaches an observer to this engine (or detaches it, when nil).
func (e *Engine[T]) SetObserver(observer Observer) {
	e.observer = observer
}

// Reduce a parse tree into a single value.  The first error encountered aborts
// the reduction, and no partial result is returned.
func (e *Engine[T]) Reduce(root *ptree.Node) (T, error) {
	return e.reduce(root)
}

func (e *Engine[T]) reduce(node *ptree.Node) (T, error) {
	var (
		empty T
		rule  = e.grammar.RuleName(node.Rule)
	)
	//
	if e.observer != nil {
		e.observer.Enter(rule, node)
	}
	// Reduce children first
	items := &Items[T]{e.grammar, node, make([]T, 0, len(node.Children)), 0}
	//
	var value T
	//
	err := e.reduceChildren(node, items)
	if err == nil {
		value, err = e.build(node, items)
	}
	//
	if e.observer != nil {
		e.observer.Leave(rule, node, items.index, err)
	}
	//
	if err != nil {
		return empty, err
	}
	//
	return value, nil
}

func (e *Engine[T]) reduceChildren(node *ptree.Node, items *Items[T]) error {
	for _, child := range node.Children {
		value, err := e.reduce(child)
		if err != nil {
			return err
		}
		//
		items.items = append(items.items, value)
	}
	//
	return nil
}

func (e *Engine[T]) build(node *ptree.Node, items *Items[T]) (T, error) {
	var empty T
	//
	builder, ok := e.builders[node.Rule]
	if !ok {
		return empty, newError(UnknownRule, e.grammar, node)
	}
	//
	value, err := builder(node, items)
	if err != nil {
		return empty, err
	} else if items.Len() != 0 {
		err := newError(Unbalanced, e.grammar, node)
		err.Context = fmt.Sprintf("%d of %d items left unconsumed", items.Len(), len(items.items))
		//
		return empty, err
	}
	//
	return value, nil
}

// Passthrough is a builder which expects exactly one item, and returns it
// unchanged.
func Passthrough[T any](_ *ptree.Node, items *Items[T]) (T, error) {
	return items.Pop()
}
