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

// Items is the buffer of values produced by the children of a single node,
// given in source order.  Items are consumed from the front.
type Items[T any] struct {
	grammar *ptree.Grammar
	node    *ptree.Node
	items   []T
	// Index of next item to be consumed
	index int
}

// Len returns the number of items not yet consumed.
func (p *Items[T]) Len() int {
	return len(p.items) - p.index
}

// IsEmpty checks whether all items have been consumed.
func (p *Items[T]) IsEmpty() bool {
	return p.Len() == 0
}

// Peek returns the next item without consuming it.  If there are no items
// left, then false is returned.
func (p *Items[T]) Peek() (T, bool) {
	var empty T
	//
	if p.IsEmpty() {
		return empty, false
	}
	//
	return p.items[p.index], true
}

// Pop consumes the next item.  Popping from an empty buffer is reported as a
// type mismatch.
func (p *Items[T]) Pop() (T, error) {
	var empty T
	//
	if p.IsEmpty() {
		return empty, p.Mismatch("item", nil)
	}
	//
	item := p.items[p.index]
	p.index++
	//
	return item, nil
}

// Drain consumes all remaining items.
func (p *Items[T]) Drain() []T {
	rest := p.items[p.index:]
	p.index = len(p.items)
	//
	return rest
}

// Mismatch constructs a type mismatch error for the node being reduced.
func (p *Items[T]) Mismatch(expected string, found any) *Error {
	err := newError(TypeMismatch, p.grammar, p.node)
	err.Expected = expected
	//
	if found == nil {
		err.Found = "nothing"
	} else {
		err.Found = describe(found)
	}
	//
	return err
}

// Malformed constructs a malformed number error for the node being reduced.
func (p *Items[T]) Malformed(cause error) *Error {
	err := newError(MalformedNumber, p.grammar, p.node)
	err.Context = cause.Error()
	//
	return err
}

// Invalid constructs an invalid construct error for the node being reduced.
func (p *Items[T]) Invalid(format string, args ...any) *Error {
	err := newError(InvalidConstruct, p.grammar, p.node)
	err.Context = fmt.Sprintf(format, args...)
	//
	return err
}

// Next consumes the next item, which is expected to be of type V.  Otherwise, a
// type mismatch is reported using the given description of V.
func Next[V any, T any](items *Items[T], expected string) (V, error) {
	var empty V
	//
	item, err := items.Pop()
	if err != nil {
		err.(*Error).Expected = expected
		return empty, err
	}
	//
	if v, ok := any(item).(V); ok {
		return v, nil
	}
	//
	return empty, items.Mismatch(expected, item)
}

// Optional consumes the next item if it is of type V, and otherwise leaves the
// buffer unchanged.
func Optional[V any, T any](items *Items[T]) (V, bool) {
	var empty V
	//
	if item, ok := items.Peek(); ok {
		if v, ok := any(item).(V); ok {
			items.index++
			return v, true
		}
	}
	//
	return empty, false
}

// Rest consumes all remaining items, each of which is expected to be of type V.
func Rest[V any, T any](items *Items[T], expected string) ([]V, error) {
	rest := make([]V, 0, items.Len())
	//
	for !items.IsEmpty() {
		v, err := Next[V](items, expected)
		if err != nil {
			return nil, err
		}
		//
		rest = append(rest, v)
	}
	//
	return rest, nil
}

// Variant is implemented by values which can describe the variant they belong
// to, for use in error messages.
type Variant interface {
	Variant() string
}

func describe(item any) string {
	if v, ok := item.(Variant); ok {
		return v.Variant()
	}
	//
	return fmt.Sprintf("%T", item)
}
