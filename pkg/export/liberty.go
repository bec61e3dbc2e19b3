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
package export

import (
	"github.com/consensys/go-edaparse/pkg/liberty"
)

// Value is the JSON form of an attribute value.
type Value struct {
	Kind  string `json:"kind"`
	Value any    `json:"value"`
}

// Statement is the JSON form of a Liberty statement.  The kind determines
// which of the remaining fields are present.
type Statement struct {
	Kind     string      `json:"kind"`
	Group    string      `json:"group,omitempty"`
	Name     string      `json:"name"`
	Value    *Value      `json:"value,omitempty"`
	Values   []Value     `json:"values,omitempty"`
	Children []Statement `json:"children,omitempty"`
	Line     uint        `json:"line"`
}

// Library converts a Liberty group (normally the library itself) into its JSON
// form.
func Library(root *liberty.Group) Statement {
	return statement(root)
}

// LibraryJSON renders a Liberty library as JSON, checking the result against
// the schema.
func LibraryJSON(root *liberty.Group) ([]byte, error) {
	return marshal(LIBRARY, Library(root))
}

func statement(stmt liberty.Statement) Statement {
	switch s := stmt.(type) {
	case *liberty.SimpleAttr:
		value := attrValue(s.Value)
		return Statement{Kind: "simple_attribute", Name: s.Name, Value: &value, Line: s.Line}
	case *liberty.ComplexAttr:
		return Statement{Kind: "complex_attribute", Name: s.Name, Values: attrValues(s.Values), Line: s.Line}
	case *liberty.Group:
		children := make([]Statement, len(s.Children))
		//
		for i, child := range s.Children {
			children[i] = statement(child)
		}
		//
		return Statement{Kind: "group", Group: s.Kind, Name: s.Name, Values: attrValues(s.Values),
			Children: children, Line: s.Line}
	}
	// unreachable
	panic("unknown statement " + stmt.Variant())
}

func attrValues(values []liberty.AttrValue) []Value {
	converted := make([]Value, len(values))
	//
	for i, v := range values {
		converted[i] = attrValue(v)
	}
	//
	return converted
}

func attrValue(value liberty.AttrValue) Value {
	if f := value.AsFloat(); f != nil {
		return Value{"float", f.Value}
	}
	//
	return Value{"string", value.AsString().Value}
}
