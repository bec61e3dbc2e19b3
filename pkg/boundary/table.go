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
package boundary

import (
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ErrInvalidHandle is returned when a handle was never issued, or has already
// been released.
var ErrInvalidHandle = errors.New("invalid handle")

// Handle is an opaque reference to a value owned by a table.  The zero handle
// is never issued.
type Handle uint64

// Table owns a set of values, each of which is identified by a handle.  A value
// enters the table through Box and leaves it through Release, which can happen
// at most once per handle.  Tables are safe for concurrent use.
type Table[T any] struct {
	name    string
	mutex   sync.Mutex
	last    Handle
	entries map[Handle]T
}

// NewTable constructs an empty table.  The name is used only for logging.
func NewTable[T any](name string) *Table[T] {
	return &Table[T]{name: name, entries: make(map[Handle]T)}
}

// Box transfers ownership of a value to this table, returning a fresh handle
// for it.
func (p *Table[T]) Box(value T) Handle {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	//
	p.last++
	p.entries[p.last] = value
	//
	log.Tracef("boxed %s #%d", p.name, p.last)
	//
	return p.last
}

// Get returns the value identified by a given handle, without affecting its
// ownership.
func (p *Table[T]) Get(handle Handle) (T, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	//
	if value, ok := p.entries[handle]; ok {
		return value, nil
	}
	//
	var empty T
	//
	return empty, errors.Wrapf(ErrInvalidHandle, "%s #%d", p.name, handle)
}

// Release the value identified by a given handle.  Releasing a handle twice is
// an error.
func (p *Table[T]) Release(handle Handle) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	//
	if _, ok := p.entries[handle]; !ok {
		return errors.Wrapf(ErrInvalidHandle, "%s #%d", p.name, handle)
	}
	//
	delete(p.entries, handle)
	log.Tracef("released %s #%d", p.name, handle)
	//
	return nil
}

// Update the value identified by a given handle with the result of a given
// function.  The function is applied under the table lock, hence it should
// not block.  If the function fails, the value is unchanged.
func (p *Table[T]) Update(handle Handle, fn func(T) (T, error)) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	//
	value, ok := p.entries[handle]
	if !ok {
		return errors.Wrapf(ErrInvalidHandle, "%s #%d", p.name, handle)
	}
	//
	value, err := fn(value)
	if err != nil {
		return err
	}
	//
	p.entries[handle] = value
	log.Tracef("updated %s #%d", p.name, handle)
	//
	return nil
}

// Len returns the number of live handles in this table.
func (p *Table[T]) Len() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	//
	return len(p.entries)
}

// Buffer describes a contiguous sequence of items by its length and capacity.
// The data is shared with the sequence it was constructed from, not copied.
type Buffer[T any] struct {
	Data []T
	Len  int
	Cap  int
}

// BufferOf constructs a buffer over a given slice.
func BufferOf[T any](items []T) Buffer[T] {
	return Buffer[T]{items, len(items), cap(items)}
}

// At returns the ith item of this buffer.
func (p Buffer[T]) At(i int) T {
	return p.Data[i]
}
