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
	"slices"
	"strconv"
	"strings"

	"github.com/consensys/go-edaparse/pkg/ptree"
	"github.com/consensys/go-edaparse/pkg/reduce"
	"github.com/consensys/go-edaparse/pkg/util"
	"github.com/consensys/go-edaparse/pkg/util/source"
)

// ParseString parses a structural Verilog netlist held in a string.
func ParseString(text string) (*Design, error) {
	return Parse(source.NewSourceFile("<string>", []byte(text)))
}

// Parse a structural Verilog source file into a design.  Errors are either
// syntax errors, or reduction errors.
func Parse(srcfile *source.File) (*Design, error) {
	if srcfile.IsBlank() {
		return nil, source.ErrEmptyInput
	}
	//
	tree, err := ParseTree(srcfile)
	if err != nil {
		return nil, err
	}
	//
	design, rerr := NewReducer().Reduce(tree)
	if rerr != nil {
		return nil, rerr
	}
	//
	return design.(*Design), nil
}

// NewReducer constructs a reduction engine for structural Verilog parse trees.
func NewReducer() *reduce.Engine[any] {
	engine := reduce.NewEngine[any](Grammar)
	//
	engine.AddRule(SOURCE_TEXT, reduceSourceText)
	engine.AddRule(MODULE, reduceModule)
	engine.AddRule(PORT, func(node *ptree.Node, _ *reduce.Items[any]) (any, error) {
		return &Port{unescape(node.Text), UNDECLARED}, nil
	})
	engine.AddRule(IDENTIFIER, func(node *ptree.Node, _ *reduce.Items[any]) (any, error) {
		return unescape(node.Text), nil
	})
	engine.AddRule(NUMBER, reduceNumber)
	engine.AddRule(DCLS, reduceDcls)
	engine.AddRule(DCL, reduceDcl)
	engine.AddRule(DCL_TYPE, reduceDclType)
	engine.AddRule(RANGE, reduceRange)
	engine.AddRule(INSTANCE, reduceInstance)
	engine.AddRule(PORT_CONNECTION, reducePortConnection)
	engine.AddRule(ASSIGN, reduceAssign)
	engine.AddRule(NET_ID_EXPR, reduceNetIdExpr)
	engine.AddRule(CONCAT_EXPR, reduceConcatExpr)
	engine.AddRule(CONSTANT, func(node *ptree.Node, _ *reduce.Items[any]) (any, error) {
		return &ConstantExpr{NewLiteralId(node.Text), uint(node.Line)}, nil
	})
	engine.AddRule(PLAIN_ID, func(node *ptree.Node, _ *reduce.Items[any]) (any, error) {
		return NewPlainId(unescape(node.Text)), nil
	})
	engine.AddRule(BUS_INDEX_ID, reduceBusIndexId)
	engine.AddRule(BUS_SLICE_ID, reduceBusSliceId)
	engine.SetObserver(reduce.NewLogObserver(Grammar.Name()))
	//
	return engine
}

func reduceSourceText(_ *ptree.Node, items *reduce.Items[any]) (any, error) {
	modules, err := reduce.Rest[*Module](items, "module")
	if err != nil {
		return nil, err
	}
	//
	design, _ := NewDesign()
	//
	for _, m := range modules {
		if err := design.Add(m); err != nil {
			return nil, items.Invalid("%s", err.Error())
		}
	}
	//
	return design, nil
}

func reduceModule(node *ptree.Node, items *reduce.Items[any]) (any, error) {
	name, err := reduce.Next[string](items, "module name")
	if err != nil {
		return nil, err
	}
	//
	var ports []*Port
	//
	for port, ok := reduce.Optional[*Port](items); ok; port, ok = reduce.Optional[*Port](items) {
		ports = append(ports, port)
	}
	//
	stmts, err := reduce.Rest[Stmt](items, "module item")
	if err != nil {
		return nil, err
	}
	//
	module := &Module{name, ports, stmts, uint(node.Line)}
	// Instance names must be unique within a module
	names := make(map[string]uint)
	//
	for _, inst := range module.Instances() {
		if line, ok := names[inst.Name]; ok {
			return nil, items.Invalid("duplicate instance %s in module %s (lines %d and %d)", inst.Name, name, line,
				inst.Line)
		}
		//
		names[inst.Name] = inst.Line
	}
	// Ports take their direction from their declarations
	for _, dcl := range module.Declarations() {
		if port, ok := module.Port(dcl.Name); ok && dcl.Kind.IsPort() {
			port.Direction = directionOf(dcl.Kind)
		}
	}
	//
	return module, nil
}

func reduceNumber(node *ptree.Node, items *reduce.Items[any]) (any, error) {
	n, err := strconv.Atoi(node.Text)
	if err != nil {
		return nil, items.Malformed(err)
	}
	//
	return n, nil
}

func reduceDcls(node *ptree.Node, items *reduce.Items[any]) (any, error) {
	dcls, err := reduce.Rest[*Dcl](items, "declaration")
	if err != nil {
		return nil, err
	}
	//
	return &Dcls{dcls, uint(node.Line)}, nil
}

func reduceDcl(node *ptree.Node, items *reduce.Items[any]) (any, error) {
	kind, err := reduce.Next[DclKind](items, "declaration kind")
	if err != nil {
		return nil, err
	}
	//
	bus := util.None[Range]()
	if r, ok := reduce.Optional[Range](items); ok {
		bus = util.Some(r)
	}
	//
	name, err := reduce.Next[string](items, "identifier")
	if err != nil {
		return nil, err
	}
	//
	return &Dcl{kind, name, bus, uint(node.Line)}, nil
}

func reduceDclType(node *ptree.Node, items *reduce.Items[any]) (any, error) {
	if i := slices.Index(dclKeywords, node.Text); i >= 0 {
		return DclKind(i), nil
	}
	//
	return nil, items.Invalid("unknown declaration kind %q", node.Text)
}

func reduceRange(_ *ptree.Node, items *reduce.Items[any]) (any, error) {
	msb, err := reduce.Next[int](items, "number")
	if err != nil {
		return nil, err
	}
	//
	lsb, err := reduce.Next[int](items, "number")
	if err != nil {
		return nil, err
	}
	//
	return Range{msb, lsb}, nil
}

func reduceInstance(node *ptree.Node, items *reduce.Items[any]) (any, error) {
	cell, err := reduce.Next[string](items, "cell name")
	if err != nil {
		return nil, err
	}
	//
	name, err := reduce.Next[string](items, "instance name")
	if err != nil {
		return nil, err
	}
	//
	conns, err := reduce.Rest[*PortConnection](items, "port connection")
	if err != nil {
		return nil, err
	}
	// Each port can be connected at most once
	for i, conn := range conns {
		for _, other := range conns[:i] {
			if other.Port.Name() == conn.Port.Name() {
				return nil, items.Invalid("port %s of instance %s connected twice", conn.Port.Name(), name)
			}
		}
	}
	//
	return &Instance{name, cell, conns, uint(node.Line)}, nil
}

func reducePortConnection(_ *ptree.Node, items *reduce.Items[any]) (any, error) {
	port, err := reduce.Next[Id](items, "port")
	if err != nil {
		return nil, err
	}
	//
	if net, ok := reduce.Optional[NetExpr](items); ok {
		return &PortConnection{port, util.Some(net)}, nil
	}
	//
	return &PortConnection{port, util.None[NetExpr]()}, nil
}

func reduceAssign(node *ptree.Node, items *reduce.Items[any]) (any, error) {
	lhs, err := reduce.Next[NetExpr](items, "net expression")
	if err != nil {
		return nil, err
	}
	//
	rhs, err := reduce.Next[NetExpr](items, "net expression")
	if err != nil {
		return nil, err
	}
	//
	return &Assign{lhs, rhs, uint(node.Line)}, nil
}

func reduceNetIdExpr(node *ptree.Node, items *reduce.Items[any]) (any, error) {
	id, err := reduce.Next[Id](items, "identifier")
	if err != nil {
		return nil, err
	}
	//
	return &IdExpr{id, uint(node.Line)}, nil
}

// Constants within a concatenation are held as literal identifiers.
func reduceConcatExpr(node *ptree.Node, items *reduce.Items[any]) (any, error) {
	var ids []Id
	//
	for !items.IsEmpty() {
		if c, ok := reduce.Optional[*ConstantExpr](items); ok {
			ids = append(ids, c.Id)
			continue
		}
		//
		id, err := reduce.Next[Id](items, "identifier")
		if err != nil {
			return nil, err
		}
		//
		ids = append(ids, id)
	}
	//
	return &ConcatExpr{ids, uint(node.Line)}, nil
}

func reduceBusIndexId(_ *ptree.Node, items *reduce.Items[any]) (any, error) {
	name, err := reduce.Next[string](items, "identifier")
	if err != nil {
		return nil, err
	}
	//
	index, err := reduce.Next[int](items, "number")
	if err != nil {
		return nil, err
	}
	//
	return NewBusIndexId(name, index), nil
}

func reduceBusSliceId(_ *ptree.Node, items *reduce.Items[any]) (any, error) {
	name, err := reduce.Next[string](items, "identifier")
	if err != nil {
		return nil, err
	}
	//
	msb, err := reduce.Next[int](items, "number")
	if err != nil {
		return nil, err
	}
	//
	lsb, err := reduce.Next[int](items, "number")
	if err != nil {
		return nil, err
	}
	//
	return NewBusSliceId(name, msb, lsb), nil
}

func directionOf(kind DclKind) Direction {
	switch kind {
	case INPUT:
		return IN
	case OUTPUT:
		return OUT
	case INOUT:
		return INOUTPUT
	}
	//
	return UNDECLARED
}

// Escaped identifiers drop their leading backslash.
func unescape(text string) string {
	if strings.HasPrefix(text, "\\") {
		return text[1:]
	}
	//
	return text
}
