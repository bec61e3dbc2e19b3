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
	"strings"
)

// Data represents anything which a Liberty parse tree node can reduce to.  This
// is either an attribute value, or a statement.
type Data interface {
	isData()
}

// AttrValue represents a value given to an attribute or group.  This is either
// a string or a floating point number.
type AttrValue interface {
	Data
	// AsString returns this value as a string, or nil if it is not one.
	AsString() *StringValue
	// AsFloat returns this value as a float, or nil if it is not one.
	AsFloat() *FloatValue
	// String returns the Liberty representation of this value.
	String() string
	// Variant describes the kind of value this is.
	Variant() string
}

// Statement represents a single attribute or group within a Liberty file.
type Statement interface {
	Data
	// Id returns the name of this statement.
	Id() string
	// LineNo returns the line on which this statement starts.
	LineNo() uint
	// AsSimpleAttr returns this statement as a simple attribute, or nil if it
	// is not one.
	AsSimpleAttr() *SimpleAttr
	// AsComplexAttr returns this statement as a complex attribute, or nil if it
	// is not one.
	AsComplexAttr() *ComplexAttr
	// AsGroup returns this statement as a group, or nil if it is not one.
	AsGroup() *Group
	// Variant describes the kind of statement this is.
	Variant() string
}

// ============================================================================
// Values
// ============================================================================

// StringValue is a string attribute value, without its surrounding quotes.
type StringValue struct {
	Value string
}

// FloatValue is a numeric attribute value.
type FloatValue struct {
	Value float64
}

// NewString constructs a new string value.
func NewString(value string) *StringValue {
	return &StringValue{value}
}

// NewFloat constructs a new float value.
func NewFloat(value float64) *FloatValue {
	return &FloatValue{value}
}

func (p *StringValue) isData() {}

// AsString implementation for AttrValue interface.
func (p *StringValue) AsString() *StringValue { return p }

// AsFloat implementation for AttrValue interface.
func (p *StringValue) AsFloat() *FloatValue { return nil }

// Variant implementation for AttrValue interface.
func (p *StringValue) Variant() string { return "string" }

func (p *StringValue) String() string {
	return quote(p.Value)
}

func (p *FloatValue) isData() {}

// AsString implementation for AttrValue interface.
func (p *FloatValue) AsString() *StringValue { return nil }

// AsFloat implementation for AttrValue interface.
func (p *FloatValue) AsFloat() *FloatValue { return p }

// Variant implementation for AttrValue interface.
func (p *FloatValue) Variant() string { return "float" }

func (p *FloatValue) String() string {
	return strconv.FormatFloat(p.Value, 'g', -1, 64)
}

// ============================================================================
// Statements
// ============================================================================

// SimpleAttr is an attribute with exactly one value, such as "nom_voltage :
// 0.81;".
type SimpleAttr struct {
	Name  string
	Value AttrValue
	Line  uint
}

// ComplexAttr is an attribute with zero or more values, such as
// "capacitive_load_unit (1, pf);".
type ComplexAttr struct {
	Name   string
	Values []AttrValue
	Line   uint
}

// Group is a named block containing further statements, such as "cell (INV) {
// ... }".  The group kind is the keyword which introduces the group (e.g.
// "cell"), whilst the group name is the first value in its parentheses (e.g.
// "INV").  Any further values are retained separately from the children.
type Group struct {
	Kind     string
	Name     string
	Values   []AttrValue
	Children []Statement
	Line     uint
}

func (p *SimpleAttr) isData() {}

// Id implementation for Statement interface.
func (p *SimpleAttr) Id() string { return p.Name }

// LineNo implementation for Statement interface.
func (p *SimpleAttr) LineNo() uint { return p.Line }

// AsSimpleAttr implementation for Statement interface.
func (p *SimpleAttr) AsSimpleAttr() *SimpleAttr { return p }

// AsComplexAttr implementation for Statement interface.
func (p *SimpleAttr) AsComplexAttr() *ComplexAttr { return nil }

// AsGroup implementation for Statement interface.
func (p *SimpleAttr) AsGroup() *Group { return nil }

// Variant implementation for Statement interface.
func (p *SimpleAttr) Variant() string { return "simple attribute" }

func (p *ComplexAttr) isData() {}

// Id implementation for Statement interface.
func (p *ComplexAttr) Id() string { return p.Name }

// LineNo implementation for Statement interface.
func (p *ComplexAttr) LineNo() uint { return p.Line }

// AsSimpleAttr implementation for Statement interface.
func (p *ComplexAttr) AsSimpleAttr() *SimpleAttr { return nil }

// AsComplexAttr implementation for Statement interface.
func (p *ComplexAttr) AsComplexAttr() *ComplexAttr { return p }

// AsGroup implementation for Statement interface.
func (p *ComplexAttr) AsGroup() *Group { return nil }

// Variant implementation for Statement interface.
func (p *ComplexAttr) Variant() string { return "complex attribute" }

func (p *Group) isData() {}

// Id implementation for Statement interface.
func (p *Group) Id() string { return p.Name }

// LineNo implementation for Statement interface.
func (p *Group) LineNo() uint { return p.Line }

// AsSimpleAttr implementation for Statement interface.
func (p *Group) AsSimpleAttr() *SimpleAttr { return nil }

// AsComplexAttr implementation for Statement interface.
func (p *Group) AsComplexAttr() *ComplexAttr { return nil }

// AsGroup implementation for Statement interface.
func (p *Group) AsGroup() *Group { return p }

// Variant implementation for Statement interface.
func (p *Group) Variant() string { return "group" }

// Compile-time interface checks
var (
	_ AttrValue = (*StringValue)(nil)
	_ AttrValue = (*FloatValue)(nil)
	_ Statement = (*SimpleAttr)(nil)
	_ Statement = (*ComplexAttr)(nil)
	_ Statement = (*Group)(nil)
)

// Equal determines whether two statements are structurally equal, ignoring
// their line numbers.
func Equal(lhs Statement, rhs Statement) bool {
	switch l := lhs.(type) {
	case *SimpleAttr:
		r := rhs.AsSimpleAttr()
		return r != nil && l.Name == r.Name && equalValue(l.Value, r.Value)
	case *ComplexAttr:
		r := rhs.AsComplexAttr()
		return r != nil && l.Name == r.Name && equalValues(l.Values, r.Values)
	case *Group:
		r := rhs.AsGroup()
		//
		if r == nil || l.Kind != r.Kind || l.Name != r.Name || !equalValues(l.Values, r.Values) ||
			len(l.Children) != len(r.Children) {
			return false
		}
		//
		for i := range l.Children {
			if !Equal(l.Children[i], r.Children[i]) {
				return false
			}
		}
		//
		return true
	}
	//
	return false
}

func equalValues(lhs []AttrValue, rhs []AttrValue) bool {
	if len(lhs) != len(rhs) {
		return false
	}
	//
	for i := range lhs {
		if !equalValue(lhs[i], rhs[i]) {
			return false
		}
	}
	//
	return true
}

func equalValue(lhs AttrValue, rhs AttrValue) bool {
	if l, r := lhs.AsString(), rhs.AsString(); l != nil && r != nil {
		return l.Value == r.Value
	} else if l, r := lhs.AsFloat(), rhs.AsFloat(); l != nil && r != nil {
		return l.Value == r.Value
	}
	//
	return false
}

func quote(s string) string {
	return "\"" + strings.ReplaceAll(s, "\"", "\\\"") + "\""
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	//
	return strings.ReplaceAll(s, "\\\"", "\"")
}
