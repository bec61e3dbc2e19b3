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
package verilog

import (
	"fmt"
	"strconv"
	"strings"
)

// bit is a single bit of a net expression.  This is either a constant (in
// which case value holds one of '0', '1', 'x' or 'z'), a scalar net or a bit
// of a bus.
type bit struct {
	name    string
	index   int
	indexed bool
	value   rune
}

func (b bit) isConstant() bool {
	return b.value != 0
}

// follows checks whether this bit is the next bit after a given bit in the
// same bus, going in a given direction.
func (b bit) follows(prev bit, step int) bool {
	return b.indexed && prev.indexed && b.name == prev.name && b.index == prev.index+step
}

// Expand a net expression into its bits, most significant first.  The ranges
// of bus nets are determined using a given function.  Nets without a range are
// scalars.
func expand(expr NetExpr, rangeOf func(string) (Range, bool)) ([]bit, error) {
	switch e := expr.(type) {
	case *IdExpr:
		return expandId(e.Id, rangeOf)
	case *ConstantExpr:
		return expandLiteral(e.Id.Name())
	case *ConcatExpr:
		var bits []bit
		//
		for _, id := range e.Ids {
			idBits, err := expandId(id, rangeOf)
			if err != nil {
				return nil, err
			}
			//
			bits = append(bits, idBits...)
		}
		//
		return bits, nil
	}
	//
	return nil, fmt.Errorf("unknown net expression %s", expr.String())
}

func expandId(id Id, rangeOf func(string) (Range, bool)) ([]bit, error) {
	switch id := id.(type) {
	case *PlainId:
		if id.IsLiteral() {
			return expandLiteral(id.Base)
		} else if r, ok := rangeOf(id.Base); ok {
			return expandRange(id.Base, r), nil
		}
		//
		return []bit{{name: id.Base}}, nil
	case *BusIndexId:
		return []bit{{name: id.Base, index: id.Index, indexed: true}}, nil
	case *BusSliceId:
		return expandRange(id.Base, Range{id.Msb, id.Lsb}), nil
	}
	//
	return nil, fmt.Errorf("unknown identifier %s", id.String())
}

func expandRange(name string, r Range) []bit {
	bits := make([]bit, r.Width())
	//
	for i := range bits {
		bits[i] = bit{name: name, index: r.Index(i), indexed: true}
	}
	//
	return bits
}

// Expand a literal, such as "4'b10x1", "'hF" or "12", into its bits.  Unsized
// decimal literals are 32 bits wide, whilst other unsized literals are as wide
// as their digits.
func expandLiteral(literal string) ([]bit, error) {
	var (
		size   = -1
		digits = literal
		base   = byte('d')
	)
	//
	if i := strings.IndexByte(literal, '\''); i >= 0 {
		if i > 0 {
			n, err := strconv.Atoi(literal[:i])
			if err != nil || n == 0 {
				return nil, fmt.Errorf("invalid literal size %q", literal)
			}
			//
			size = n
		}
		//
		digits = literal[i+1:]
		if len(digits) > 0 && (digits[0] == 's' || digits[0] == 'S') {
			digits = digits[1:]
		}
		//
		if len(digits) == 0 {
			return nil, fmt.Errorf("invalid literal %q", literal)
		}
		//
		base, digits = lower(digits[0]), digits[1:]
	} else {
		size = 32
	}
	//
	digits = strings.ReplaceAll(digits, "_", "")
	//
	bits, err := literalBits(base, digits)
	if err != nil {
		return nil, fmt.Errorf("invalid literal %q: %w", literal, err)
	}
	//
	if size < 0 {
		size = len(bits)
	}
	// Extend with zeros, unless the leading bit is unknown or floating
	for len(bits) < size {
		pad := '0'
		if len(bits) > 0 && (bits[0] == 'x' || bits[0] == 'z') {
			pad = bits[0]
		}
		//
		bits = append([]rune{pad}, bits...)
	}
	//
	bits = bits[len(bits)-size:]
	result := make([]bit, size)
	//
	for i, b := range bits {
		result[i] = bit{value: b}
	}
	//
	return result, nil
}

func literalBits(base byte, digits string) ([]rune, error) {
	var width int
	//
	switch base {
	case 'b':
		width = 1
	case 'o':
		width = 3
	case 'h':
		width = 4
	case 'd':
		n, err := strconv.ParseUint(digits, 10, 64)
		if err != nil {
			return nil, err
		}
		//
		return []rune(strconv.FormatUint(n, 2)), nil
	default:
		return nil, fmt.Errorf("unknown base '%c'", base)
	}
	//
	if digits == "" {
		return nil, fmt.Errorf("missing digits")
	}
	//
	var bits []rune
	//
	for _, c := range strings.ToLower(digits) {
		switch c {
		case 'x', 'z', '?':
			if c == '?' {
				c = 'z'
			}
			//
			for j := 0; j < width; j++ {
				bits = append(bits, c)
			}
		default:
			n, err := strconv.ParseUint(string(c), 1<<width, 8)
			if err != nil {
				return nil, err
			}
			//
			for i := width - 1; i >= 0; i-- {
				bits = append(bits, rune('0'+(n>>i)&1))
			}
		}
	}
	//
	return bits, nil
}

// Compress a sequence of bits back into the simplest net expression which
// denotes them.
func compress(bits []bit, line uint) NetExpr {
	if len(bits) == 1 && !bits[0].isConstant() {
		return &IdExpr{runs(bits)[0], line}
	} else if allConstant(bits) {
		return &ConstantExpr{NewLiteralId(literalOf(bits)), line}
	}
	//
	ids := runs(bits)
	if len(ids) == 1 && !ids[0].IsId() {
		return &IdExpr{ids[0], line}
	}
	//
	return &ConcatExpr{ids, line}
}

// Group bits into maximal runs, each of which is a constant, a scalar net, a
// single bus bit or a contiguous bus slice.
func runs(bits []bit) []Id {
	var ids []Id
	//
	for i := 0; i < len(bits); {
		start := bits[i]
		j := i + 1
		//
		switch {
		case start.isConstant():
			for j < len(bits) && bits[j].isConstant() {
				j++
			}
			//
			ids = append(ids, NewLiteralId(literalOf(bits[i:j])))
		case !start.indexed:
			ids = append(ids, NewPlainId(start.name))
		default:
			step := 0
			if j < len(bits) && bits[j].follows(start, -1) {
				step = -1
			} else if j < len(bits) && bits[j].follows(start, 1) {
				step = 1
			}
			//
			for step != 0 && j < len(bits) && bits[j].follows(bits[j-1], step) {
				j++
			}
			//
			if j-i == 1 {
				ids = append(ids, NewBusIndexId(start.name, start.index))
			} else {
				ids = append(ids, NewBusSliceId(start.name, start.index, bits[j-1].index))
			}
		}
		//
		i = j
	}
	//
	return ids
}

func allConstant(bits []bit) bool {
	for _, b := range bits {
		if !b.isConstant() {
			return false
		}
	}
	//
	return len(bits) > 0
}

func literalOf(bits []bit) string {
	var builder strings.Builder
	//
	builder.WriteString(fmt.Sprintf("%d'b", len(bits)))
	//
	for _, b := range bits {
		builder.WriteRune(b.value)
	}
	//
	return builder.String()
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	//
	return c
}
