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
	"cmp"
	"slices"
)

// Scanner reports how many items at the start of a sequence it accepts, where
// zero means no match.
type Scanner[T any] func(items []T) uint

// And succeeds only if every given scanner succeeds, accepting the longest of
// their matches.
func And[T any](scanners ...Scanner[T]) Scanner[T] {
	return func(items []T) uint {
		var longest uint
		//
		for _, scanner := range scanners {
			n := scanner(items)
			if n == 0 {
				return 0
			}
			//
			longest = max(longest, n)
		}
		//
		return longest
	}
}

// Or accepts the match of the first scanner which succeeds.
func Or[T any](scanners ...Scanner[T]) Scanner[T] {
	return func(items []T) uint {
		for _, scanner := range scanners {
			if n := scanner(items); n != 0 {
				return n
			}
		}
		//
		return 0
	}
}

// Unit accepts exactly the given sequence of items.
func Unit[T comparable](chars ...T) Scanner[T] {
	return func(items []T) uint {
		if len(items) < len(chars) || !slices.Equal(items[:len(chars)], chars) {
			return 0
		}
		//
		return uint(len(chars))
	}
}

// Within accepts any single item in the (inclusive) range lowest..highest.
func Within[T cmp.Ordered](lowest T, highest T) Scanner[T] {
	return func(items []T) uint {
		if len(items) == 0 || items[0] < lowest || items[0] > highest {
			return 0
		}
		//
		return 1
	}
}

// Not accepts any single item which is not one of the given items.
func Not[T comparable](chars ...T) Scanner[T] {
	return func(items []T) uint {
		if len(items) == 0 || slices.Contains(chars, items[0]) {
			return 0
		}
		//
		return 1
	}
}

// Many repeatedly applies a scanner for as long as it matches.  Since zero
// means no match, Many accepts one or more repetitions.
func Many[T any](scanner Scanner[T]) Scanner[T] {
	return func(items []T) uint {
		var n uint
		//
		for n < uint(len(items)) {
			m := scanner(items[n:])
			if m == 0 {
				break
			}
			//
			n += m
		}
		//
		return n
	}
}

// Eof matches the end of the input, and is counted as a match of length one.
func Eof[T any]() Scanner[T] {
	return func(items []T) uint {
		if len(items) != 0 {
			return 0
		}
		//
		return 1
	}
}

// Sequence matches each scanner in turn, starting where the previous match
// ended.
func Sequence[T comparable](scanners ...Scanner[T]) Scanner[T] {
	return func(items []T) uint {
		return sequence(items, scanners, false)
	}
}

// SequenceNullableLast is like Sequence, except that the final scanner may
// fail to match.
func SequenceNullableLast[T comparable](scanners ...Scanner[T]) Scanner[T] {
	return func(items []T) uint {
		return sequence(items, scanners, true)
	}
}

func sequence[T any](items []T, scanners []Scanner[T], nullableLast bool) uint {
	var n uint
	//
	for i, scanner := range scanners {
		var m uint
		// Scanners never run on exhausted input
		if n < uint(len(items)) {
			m = scanner(items[n:])
		}
		//
		if m == 0 {
			if nullableLast && i == len(scanners)-1 {
				return n
			}
			//
			return 0
		}
		//
		n += m
	}
	//
	return n
}

// Delimited matches an opening sequence, followed by everything up to and
// including the first occurrence of a closing sequence.  Unterminated
// sequences fail.
func Delimited[T comparable](open []T, close []T) Scanner[T] {
	closing := Unit(close...)
	//
	return func(items []T) uint {
		if Unit(open...)(items) == 0 {
			return 0
		}
		//
		for i := len(open); i < len(items); i++ {
			if m := closing(items[i:]); m != 0 {
				return uint(i) + m
			}
		}
		//
		return 0
	}
}

// Quoted matches a sequence opened and closed by the same quote item.  An
// escape item causes the item which follows it to be accepted verbatim.
// Unterminated sequences fail.
func Quoted[T comparable](quote T, escape T) Scanner[T] {
	return func(items []T) uint {
		if len(items) == 0 || items[0] != quote {
			return 0
		}
		//
		for i, escaped := 1, false; i < len(items); i++ {
			switch {
			case escaped:
				escaped = false
			case items[i] == escape:
				escaped = true
			case items[i] == quote:
				return uint(i + 1)
			}
		}
		//
		return 0
	}
}
