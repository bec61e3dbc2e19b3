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
package liberty

import (
	"strconv"

	"github.com/consensys/go-edaparse/pkg/ptree"
	"github.com/consensys/go-edaparse/pkg/reduce"
	"github.com/consensys/go-edaparse/pkg/util/source"
)

// ParseString parses a Liberty library held in a string.
func ParseString(text string) (*Group, error) {
	return Parse(source.NewSourceFile("<string>", []byte(text)))
}

// Parse a Liberty source file into the single top-level group it contains
// (normally the "library" group).  Errors are either syntax errors, or
// reduction errors.
func Parse(srcfile *source.File) (*Group, error) {
	if srcfile.IsBlank() {
		return nil, source.ErrEmptyInput
	}
	//
	tree, err := ParseTree(srcfile)
	if err != nil {
		return nil, err
	}
	//
	root, rerr := NewReducer().Reduce(tree)
	if rerr != nil {
		return nil, rerr
	}
	//
	return root.(*Group), nil
}

// NewReducer constructs a reduction engine for Liberty parse trees.  Reduction
// steps are traced when trace logging is enabled.
func NewReducer() *reduce.Engine[Data] {
	engine := reduce.NewEngine[Data](Grammar)
	//
	engine.AddRule(LIBRARY, reduceLibrary)
	engine.AddRule(GROUP, reduceGroup)
	engine.AddRule(GROUP_KIND, reduceGroupKind)
	engine.AddRule(SIMPLE_ATTRIBUTE, reduceSimpleAttribute)
	engine.AddRule(COMPLEX_ATTRIBUTE, reduceComplexAttribute)
	engine.AddRule(EXPR_TOKEN, reduceExprToken)
	engine.AddRule(ID, reduceString)
	engine.AddRule(STRING, reduceString)
	engine.AddRule(FLOAT, reduceFloat)
	engine.SetObserver(reduce.NewLogObserver(Grammar.Name()))
	//
	return engine
}

// groupKind is the keyword which introduces a group.  This never escapes the
// reduction of its enclosing group.
type groupKind struct {
	kind string
}

func (p *groupKind) isData() {}

func reduceLibrary(node *ptree.Node, items *reduce.Items[Data]) (Data, error) {
	return reduce.Next[*Group](items, "group")
}

func reduceGroupKind(node *ptree.Node, items *reduce.Items[Data]) (Data, error) {
	return &groupKind{node.Text}, nil
}

func reduceString(node *ptree.Node, items *reduce.Items[Data]) (Data, error) {
	return NewString(unquote(node.Text)), nil
}

func reduceFloat(node *ptree.Node, items *reduce.Items[Data]) (Data, error) {
	value, err := strconv.ParseFloat(node.Text, 64)
	if err != nil {
		return nil, items.Malformed(err)
	}
	//
	return NewFloat(value), nil
}

// An unquoted value spanning several tokens is retained as the verbatim text of
// those tokens.
func reduceExprToken(node *ptree.Node, items *reduce.Items[Data]) (Data, error) {
	if _, err := reduce.Rest[AttrValue](items, "value"); err != nil {
		return nil, err
	}
	//
	return NewString(node.Text), nil
}

func reduceSimpleAttribute(node *ptree.Node, items *reduce.Items[Data]) (Data, error) {
	id, err := reduce.Next[*StringValue](items, "string")
	if err != nil {
		return nil, err
	}
	//
	value, err := reduce.Next[AttrValue](items, "value")
	if err != nil {
		return nil, err
	}
	//
	return &SimpleAttr{id.Value, value, uint(node.Line)}, nil
}

func reduceComplexAttribute(node *ptree.Node, items *reduce.Items[Data]) (Data, error) {
	id, err := reduce.Next[*StringValue](items, "string")
	if err != nil {
		return nil, err
	}
	//
	values, err := reduce.Rest[AttrValue](items, "value")
	if err != nil {
		return nil, err
	}
	//
	return &ComplexAttr{id.Value, values, uint(node.Line)}, nil
}

func reduceGroup(node *ptree.Node, items *reduce.Items[Data]) (Data, error) {
	var (
		group = &Group{Line: uint(node.Line)}
		item  Data
	)
	//
	kind, err := reduce.Next[*groupKind](items, "group kind")
	if err != nil {
		return nil, err
	}
	//
	group.Kind = kind.kind
	// The group name is its first value (if any)
	if value, ok := reduce.Optional[AttrValue](items); ok {
		if value.AsString() == nil {
			return nil, items.Mismatch("string", value)
		}
		//
		group.Name = value.AsString().Value
	}
	// Partition remaining items into values and statements
	for !items.IsEmpty() {
		if item, err = items.Pop(); err != nil {
			return nil, err
		}
		//
		switch t := item.(type) {
		case AttrValue:
			group.Values = append(group.Values, t)
		case Statement:
			group.Children = append(group.Children, t)
		default:
			return nil, items.Mismatch("value or statement", item)
		}
	}
	//
	return group, nil
}
