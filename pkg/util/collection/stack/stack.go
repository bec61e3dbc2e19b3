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
package stack

import "slices"

// Stack is a LIFO stack backed by a slice.  It is typically used to record a
// path through some hierarchy (e.g. the chain of modules being instantiated),
// where membership queries over the whole path are needed.
type Stack[T any] struct {
	items []T
}

// NewStack returns an empty stack
func NewStack[T any]() *Stack[T] {
	return &Stack[T]{}
}

// IsEmpty checks whether or not there are still items on the stack
func (p *Stack[T]) IsEmpty() bool {
	return len(p.items) == 0
}

// Len returns the number of items on the stack.
func (p *Stack[T]) Len() uint {
	return uint(len(p.items))
}

// Peek at the nth item from the top of the stack, where 0 is the top.
func (p *Stack[T]) Peek(offset uint) T {
	if offset >= p.Len() {
		panic("peek out-of-bounds")
	}
	//
	return p.items[len(p.items)-1-int(offset)]
}

// Push a new item onto the stack
func (p *Stack[T]) Push(item T) {
	p.items = append(p.items, item)
}

// Pop the top item off the stack.  Popping an empty stack is a programming
// error.
func (p *Stack[T]) Pop() T {
	if p.IsEmpty() {
		panic("cannot pop from empty stack")
	}
	//
	top := p.Peek(0)
	p.items = p.items[:len(p.items)-1]
	//
	return top
}

// Items returns a copy of the items on the stack, ordered from the bottom of
// the stack to the top.
func (p *Stack[T]) Items() []T {
	return slices.Clone(p.items)
}

// Contains checks whether any item on the stack satisfies a given predicate.
func (p *Stack[T]) Contains(predicate func(T) bool) bool {
	return slices.ContainsFunc(p.items, predicate)
}
