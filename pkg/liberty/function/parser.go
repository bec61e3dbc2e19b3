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
	"github.com/consensys/go-edaparse/pkg/liberty"
	"github.com/consensys/go-edaparse/pkg/ptree"
	"github.com/consensys/go-edaparse/pkg/reduce"
	"github.com/consensys/go-edaparse/pkg/util/source"
	"github.com/pkg/errors"
)

// Parse a function expression, such as "!(A1 A2) + B".
func Parse(text string) (Expr, error) {
	srcfile := source.NewSourceFile("function", []byte(text))
	//
	if srcfile.IsBlank() {
		return nil, source.ErrEmptyInput
	}
	//
	tree, err := ParseTree(srcfile)
	if err != nil {
		return nil, err
	}
	//
	expr, rerr := NewReducer().Reduce(tree)
	if rerr != nil {
		return nil, rerr
	}
	//
	return expr.(Expr), nil
}

// PinFunctions parses the "function" attribute of every pin within a given
// cell, returning a map from pin names to their functions.  Pins without a
// function are omitted.
func PinFunctions(cell *liberty.Group) (map[string]Expr, error) {
	functions := make(map[string]Expr)
	//
	for _, pin := range cell.Groups("pin") {
		attr, ok := pin.SimpleAttribute("function")
		if !ok {
			continue
		}
		//
		text := attr.Value.String()
		if s := attr.Value.AsString(); s != nil {
			text = s.Value
		}
		//
		expr, err := Parse(text)
		if err != nil {
			return nil, errors.Wrapf(err, "cell %s, pin %s (line %d)", cell.Name, pin.Name, attr.Line)
		}
		//
		functions[pin.Name] = expr
	}
	//
	return functions, nil
}

// NewReducer constructs a reduction engine for function expression parse
// trees.  Items are either expressions or operators.
func NewReducer() *reduce.Engine[any] {
	engine := reduce.NewEngine[any](Grammar)
	//
	engine.AddRule(EXPR_RESULT, reduceResult)
	engine.AddRule(EXPR, reduceExpr)
	engine.AddRule(DEFAULT_AND_EXPR, reduceDefaultAnd)
	engine.AddRule(NOT_EXPR, reduceNot)
	engine.AddRule(EXPR_OP, reduceOperator)
	engine.AddRule(PORT, func(node *ptree.Node, _ *reduce.Items[any]) (any, error) {
		return NewBuffer(node.Text), nil
	})
	engine.AddRule(ZERO, func(_ *ptree.Node, _ *reduce.Items[any]) (any, error) {
		return NewZero(), nil
	})
	engine.AddRule(ONE, func(_ *ptree.Node, _ *reduce.Items[any]) (any, error) {
		return NewOne(), nil
	})
	engine.SetObserver(reduce.NewLogObserver(Grammar.Name()))
	//
	return engine
}

func reduceResult(_ *ptree.Node, items *reduce.Items[any]) (any, error) {
	return reduce.Next[Expr](items, "expression")
}

func reduceNot(_ *ptree.Node, items *reduce.Items[any]) (any, error) {
	arg, err := reduce.Next[Expr](items, "expression")
	if err != nil {
		return nil, err
	}
	//
	return NewNot(arg), nil
}

func reduceOperator(node *ptree.Node, items *reduce.Items[any]) (any, error) {
	switch node.Text {
	case "+":
		return PLUS, nil
	case "|":
		return OR, nil
	case "*":
		return MULT, nil
	case "&":
		return AND, nil
	case "^":
		return XOR, nil
	}
	//
	return nil, items.Invalid("unknown operator %q", node.Text)
}

// Juxtaposed terms are conjoined from left to right.
func reduceDefaultAnd(_ *ptree.Node, items *reduce.Items[any]) (any, error) {
	acc, err := reduce.Next[Expr](items, "expression")
	if err != nil {
		return nil, err
	}
	//
	for !items.IsEmpty() {
		rhs, err := reduce.Next[Expr](items, "expression")
		if err != nil {
			return nil, err
		}
		//
		acc = And(acc, rhs)
	}
	//
	return acc, nil
}

// Operators are applied strictly from left to right, without precedence.
func reduceExpr(_ *ptree.Node, items *reduce.Items[any]) (any, error) {
	acc, err := reduce.Next[Expr](items, "expression")
	if err != nil {
		return nil, err
	}
	//
	for !items.IsEmpty() {
		op, err := reduce.Next[Operator](items, "operator")
		if err != nil {
			return nil, err
		}
		//
		rhs, err := reduce.Next[Expr](items, "expression")
		if err != nil {
			return nil, err
		}
		//
		acc = NewBinary(op, acc, rhs)
	}
	//
	return acc, nil
}
