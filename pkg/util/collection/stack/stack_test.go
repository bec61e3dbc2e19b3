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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStack_00(t *testing.T) {
	stack := NewStack[string]()
	assert.True(t, stack.IsEmpty())
	//
	stack.Push("top")
	stack.Push("mid")
	stack.Push("leaf")
	assert.Equal(t, uint(3), stack.Len())
	assert.Equal(t, "leaf", stack.Peek(0))
	assert.Equal(t, "top", stack.Peek(2))
	assert.Equal(t, []string{"top", "mid", "leaf"}, stack.Items())
	//
	assert.True(t, stack.Contains(func(s string) bool { return s == "mid" }))
	assert.False(t, stack.Contains(func(s string) bool { return s == "cell" }))
	//
	assert.Equal(t, "leaf", stack.Pop())
	assert.Equal(t, "mid", stack.Pop())
	assert.Equal(t, []string{"top"}, stack.Items())
}

func TestStack_01(t *testing.T) {
	stack := NewStack[int]()
	stack.Push(1)
	// Items are copied out
	items := stack.Items()
	items[0] = 2
	//
	assert.Equal(t, 1, stack.Pop())
	assert.Panics(t, func() { stack.Pop() })
	assert.Panics(t, func() { stack.Peek(0) })
}
