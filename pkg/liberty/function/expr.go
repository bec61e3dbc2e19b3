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
package function

import (
	"fmt"
	"slices"
)

// Operator identifies the connective of a binary expression.  Operators are
// kept exactly as written, so (for example) "A + B" and "A | B" are distinct.
type Operator uint8

const (
	// AND is written "&" (or implied by juxtaposition).
	AND Operator = iota
	// OR is written "|".
	OR
	// XOR is written "^".
	XOR
	// PLUS is written "+".
	PLUS
	// MULT is written "*".
	MULT
)

func (op Operator) String() string {
	switch op {
	case AND:
		return "&"
	case OR:
		return "|"
	case XOR:
		return "^"
	case PLUS:
		return "+"
	case MULT:
		return "*"
	}
	//
	return "?"
}

// Expr is a Boolean function over the ports of a cell.
type Expr interface {
	// String returns a fully parenthesised representation of this expression,
	// which can be parsed again.
	String() string
	// Variant describes the kind of expression this is.
	Variant() string
	isExpr()
}

// Buffer is a reference to a port.
type Buffer struct {
	Port string
}

// Zero is the constant false.
type Zero struct{}

// One is the constant true.
type One struct{}

// Not is the negation of an expression.
type Not struct {
	Arg Expr
}

// Binary combines two expressions with a given operator.
type Binary struct {
	Operator Operator
	Left     Expr
	Right    Expr
}

// NewBuffer constructs a reference to a given port.
func NewBuffer(port string) *Buffer {
	return &Buffer{port}
}

// NewZero constructs the constant false.
func NewZero() *Zero {
	return &Zero{}
}

// NewOne constructs the constant true.
func NewOne() *One {
	return &One{}
}

// NewNot constructs the negation of a given expression.
func NewNot(arg Expr) *Not {
	if arg == nil {
		panic("missing operand")
	}
	//
	return &Not{arg}
}

// NewBinary constructs a binary expression.
func NewBinary(op Operator, left Expr, right Expr) *Binary {
	if left == nil || right == nil {
		panic("missing operand")
	}
	//
	return &Binary{op, left, right}
}

// And constructs the conjunction of two expressions.
func And(left Expr, right Expr) *Binary { return NewBinary(AND, left, right) }

// Or constructs the disjunction of two expressions.
func Or(left Expr, right Expr) *Binary { return NewBinary(OR, left, right) }

// Xor constructs the exclusive-or of two expressions.
func Xor(left Expr, right Expr) *Binary { return NewBinary(XOR, left, right) }

// Plus constructs the "+" combination of two expressions.
func Plus(left Expr, right Expr) *Binary { return NewBinary(PLUS, left, right) }

// Mult constructs the "*" combination of two expressions.
func Mult(left Expr, right Expr) *Binary { return NewBinary(MULT, left, right) }

func (p *Buffer) isExpr() {}
func (p *Zero) isExpr()   {}
func (p *One) isExpr()    {}
func (p *Not) isExpr()    {}
func (p *Binary) isExpr() {}

// Variant implementation for Expr interface.
func (p *Buffer) Variant() string { return "port" }

// Variant implementation for Expr interface.
func (p *Zero) Variant() string { return "zero" }

// Variant implementation for Expr interface.
func (p *One) Variant() string { return "one" }

// Variant implementation for Expr interface.
func (p *Not) Variant() string { return "not" }

// Variant implementation for Expr interface.
func (p *Binary) Variant() string { return "binary" }

func (p *Buffer) String() string { return p.Port }
func (p *Zero) String() string   { return "0" }
func (p *One) String() string    { return "1" }
func (p *Not) String() string    { return "!" + p.Arg.String() }

func (p *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", p.Left.String(), p.Operator.String(), p.Right.String())
}

// Ports returns the names of the ports referenced by an expression, in order of
// first use.
func Ports(expr Expr) []string {
	var ports []string
	//
	Walk(expr, func(e Expr) {
		if b, ok := e.(*Buffer); ok && !slices.Contains(ports, b.Port) {
			ports = append(ports, b.Port)
		}
	})
	//
	return ports
}

// Walk visits every node of an expression in pre-order.
func Walk(expr Expr, visitor func(Expr)) {
	visitor(expr)
	//
	switch e := expr.(type) {
	case *Not:
		Walk(e.Arg, visitor)
	case *Binary:
		Walk(e.Left, visitor)
		Walk(e.Right, visitor)
	}
}
