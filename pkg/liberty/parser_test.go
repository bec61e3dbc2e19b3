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
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/consensys/go-edaparse/pkg/ptree"
	"github.com/consensys/go-edaparse/pkg/reduce"
	"github.com/consensys/go-edaparse/pkg/util/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiberty_00(t *testing.T) {
	group := checkParse(t, `operating_conditions("ssg0p81v125c"){
process : 1;
temperature : 125;
voltage : 0.81;
tree_type : "balanced_tree";
}`)
	//
	assert.Equal(t, "operating_conditions", group.Kind)
	assert.Equal(t, "ssg0p81v125c", group.Name)
	assert.Empty(t, group.Values)
	assert.Equal(t, uint(1), group.Line)
	require.Len(t, group.Children, 4)
	//
	checkSimpleFloat(t, group.Children[0], "process", 1, 2)
	checkSimpleFloat(t, group.Children[1], "temperature", 125, 3)
	checkSimpleFloat(t, group.Children[2], "voltage", 0.81, 4)
	checkSimpleString(t, group.Children[3], "tree_type", "balanced_tree")
	assert.Equal(t, uint(5), group.Children[3].LineNo())
}

func TestLiberty_01(t *testing.T) {
	group := checkParse(t, `library (x) { leakage_power_unit : 1nW ; time_unit : "1ns"; }`)
	//
	checkSimpleString(t, group.Children[0], "leakage_power_unit", "1nW")
	checkSimpleString(t, group.Children[1], "time_unit", "1ns")
}

func TestLiberty_02(t *testing.T) {
	group := checkParse(t, `library (x) { capacitive_load_unit (1, pf); values ("0.1, 0.2", "0.3") ; define() }`)
	require.Len(t, group.Children, 3)
	//
	attr := group.Children[0].AsComplexAttr()
	require.NotNil(t, attr)
	assert.Equal(t, "capacitive_load_unit", attr.Name)
	require.Len(t, attr.Values, 2)
	assert.Equal(t, 1.0, attr.Values[0].AsFloat().Value)
	assert.Equal(t, "pf", attr.Values[1].AsString().Value)
	//
	attr = group.Children[1].AsComplexAttr()
	require.NotNil(t, attr)
	assert.Equal(t, []AttrValue{NewString("0.1, 0.2"), NewString("0.3")}, attr.Values)
	//
	attr = group.Children[2].AsComplexAttr()
	require.NotNil(t, attr)
	assert.Empty(t, attr.Values)
}

func TestLiberty_03(t *testing.T) {
	// Group values beyond the name are kept apart from children
	group := checkParse(t, `cell (DFF) { ff (IQ, IQN) { next_state : "D"; } }`)
	ff, ok := group.Find("ff", "IQ")
	//
	require.True(t, ok)
	assert.Equal(t, []AttrValue{NewString("IQN")}, ff.Values)
	require.Len(t, ff.Children, 1)
	checkSimpleString(t, ff.Children[0], "next_state", "D")
}

func TestLiberty_04(t *testing.T) {
	group := checkParse(t, `library (x) { timing () { related_pin : "A"; } bus (Q[3:0]) { } }`)
	//
	timing := group.Groups("timing")
	require.Len(t, timing, 1)
	assert.Equal(t, "", timing[0].Name)
	assert.Empty(t, timing[0].Values)
	//
	_, ok := group.Find("bus", "Q[3:0]")
	assert.True(t, ok)
}

func TestLiberty_05(t *testing.T) {
	// Unquoted expressions, missing semicolons and comments
	group := checkParse(t, `library (x) {
  value : 0.5 * VDD ; // trailing
  a : b
  /* block */ c : 1
}`)
	//
	require.Len(t, group.Children, 3)
	checkSimpleString(t, group.Children[0], "value", "0.5 * VDD")
	checkSimpleString(t, group.Children[1], "a", "b")
	checkSimpleFloat(t, group.Children[2], "c", 1, 4)
}

func TestLiberty_06(t *testing.T) {
	// Escaped newline and quotes
	group := checkParse(t, "library (x) {\n  index_1 (\"1, 2\", \\\n  \"3\") ;\n  note : \"say \\\"hi\\\"\" ;\n}")
	//
	attr := group.Children[0].AsComplexAttr()
	require.NotNil(t, attr)
	assert.Equal(t, []AttrValue{NewString("1, 2"), NewString("3")}, attr.Values)
	checkSimpleString(t, group.Children[1], "note", `say "hi"`)
	assert.Equal(t, uint(4), group.Children[1].LineNo())
}

func TestLiberty_07(t *testing.T) {
	group := checkParseFile(t, "testdata/small.lib")
	//
	assert.Equal(t, "library", group.Kind)
	assert.Equal(t, "tiny28", group.Name)
	assert.Equal(t, uint(4), group.Line)
	assert.Len(t, group.Groups("cell"), 3)
	//
	inv, ok := group.Find("cell", "INVD1")
	require.True(t, ok)
	zn, ok := inv.Find("pin", "ZN")
	require.True(t, ok)
	function, ok := zn.SimpleAttribute("function")
	require.True(t, ok)
	assert.Equal(t, "!I", function.Value.AsString().Value)
	//
	area, ok := inv.SimpleAttribute("area")
	require.True(t, ok)
	assert.Equal(t, 0.63, area.Value.AsFloat().Value)
	//
	leakage, ok := inv.SimpleAttribute("cell_leakage_power")
	require.True(t, ok)
	assert.Equal(t, 1.2e-3, leakage.Value.AsFloat().Value)
}

func TestLiberty_08(t *testing.T) {
	// Every statement appears exactly once in a walk
	group := checkParseFile(t, "testdata/small.lib")
	count := 0
	pins := 0
	//
	group.Walk(func(stmt Statement) bool {
		count++
		//
		if g := stmt.AsGroup(); g != nil && g.Kind == "pin" {
			pins++
		}
		//
		return true
	})
	//
	assert.Equal(t, 5, pins)
	assert.Greater(t, count, 30)
}

// ============================================================================
// Round trip
// ============================================================================

func TestLiberty_RoundTrip_00(t *testing.T) {
	checkRoundTrip(t, `operating_conditions("ssg0p81v125c"){ process : 1; temperature : 125; voltage : 0.81; }`)
}

func TestLiberty_RoundTrip_01(t *testing.T) {
	checkRoundTrip(t, `library (x) { a (); b ("", 1e-12, -3); timing () { } ff ("", q) { } }`)
}

func TestLiberty_RoundTrip_02(t *testing.T) {
	bytes, err := os.ReadFile("testdata/small.lib")
	require.NoError(t, err)
	checkRoundTrip(t, string(bytes))
}

// ============================================================================
// Errors
// ============================================================================

func TestLiberty_Error_00(t *testing.T) {
	// Truncated group
	err := checkSyntaxError(t, "library (x) {\n  cell (a) {\n    area : 1;\n")
	assert.Equal(t, 4, err.Line())
	assert.Equal(t, 1, err.Column())
}

func TestLiberty_Error_01(t *testing.T) {
	err := checkSyntaxError(t, "library (x) {\n  area = 1;\n}")
	assert.Equal(t, 2, err.Line())
	assert.Equal(t, 8, err.Column())
}

func TestLiberty_Error_02(t *testing.T) {
	checkSyntaxError(t, `library ("x) { }`)
	checkSyntaxError(t, `library (x) { a : ; }`)
	checkSyntaxError(t, `library (x { }`)
	checkSyntaxError(t, `library (x) { } }`)
}

func TestLiberty_Error_03(t *testing.T) {
	err := checkReduceError(t, "library (x) { huge : 1e999; }", reduce.MalformedNumber)
	assert.Equal(t, "1e999", err.Text)
	assert.Equal(t, 1, err.Line)
}

func TestLiberty_Error_04(t *testing.T) {
	// Group names cannot be numeric
	checkReduceError(t, "library (1.0) { }", reduce.TypeMismatch)
}

func TestLiberty_Error_05(t *testing.T) {
	// Only a single top-level group
	checkReduceError(t, "library (x) { } library (y) { }", reduce.Unbalanced)
	checkReduceError(t, "a : b;", reduce.TypeMismatch)
	checkReduceError(t, "/* nothing */", reduce.TypeMismatch)
}

func TestLiberty_Error_06(t *testing.T) {
	_, err := ParseString(" \n\t")
	assert.ErrorIs(t, err, source.ErrEmptyInput)
}

func TestLiberty_Error_07(t *testing.T) {
	// Simple attribute whose name is not a string
	tree := node(SIMPLE_ATTRIBUTE, "1 : 2", node(FLOAT, "1"), node(FLOAT, "2"))
	_, err := NewReducer().Reduce(tree)
	//
	var rerr *reduce.Error
	//
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, reduce.TypeMismatch, rerr.Kind)
	assert.Equal(t, "string", rerr.Expected)
	assert.Equal(t, "float", rerr.Found)
	assert.Equal(t, "simple_attribute", rerr.Rule)
}

func TestLiberty_Error_08(t *testing.T) {
	// Rules outside of the grammar
	tree := node(LIBRARY, "x", node(ptree.Rule(99), "x"))
	_, err := NewReducer().Reduce(tree)
	//
	var rerr *reduce.Error
	//
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, reduce.UnknownRule, rerr.Kind)
}

// ============================================================================
// Framework
// ============================================================================

func checkParse(t *testing.T, text string) *Group {
	t.Helper()
	//
	group, err := ParseString(text)
	require.NoError(t, err)
	//
	return group
}

func checkParseFile(t *testing.T, filename string) *Group {
	t.Helper()
	//
	bytes, err := os.ReadFile(filename)
	require.NoError(t, err)
	group, err := Parse(source.NewSourceFile(filename, bytes))
	require.NoError(t, err)
	//
	return group
}

func checkRoundTrip(t *testing.T, text string) {
	t.Helper()
	//
	original := checkParse(t, text)
	printed := String(original)
	reparsed := checkParse(t, printed)
	//
	assert.True(t, Equal(original, reparsed), "round trip failed:\n%s", printed)
	// Printing is stable
	var builder strings.Builder
	//
	require.NoError(t, Format(&builder, reparsed))
	assert.Equal(t, printed, builder.String())
}

func checkSyntaxError(t *testing.T, text string) *source.SyntaxError {
	var serr *source.SyntaxError
	//
	t.Helper()
	//
	_, err := ParseString(text)
	require.Error(t, err)
	require.True(t, errors.As(err, &serr), "expected syntax error, got %v", err)
	//
	return serr
}

func checkReduceError(t *testing.T, text string, kind reduce.ErrorKind) *reduce.Error {
	var rerr *reduce.Error
	//
	t.Helper()
	//
	_, err := ParseString(text)
	require.Error(t, err)
	require.True(t, errors.As(err, &rerr), "expected reduction error, got %v", err)
	assert.Equal(t, kind, rerr.Kind, rerr.Error())
	//
	return rerr
}

func checkSimpleFloat(t *testing.T, stmt Statement, name string, value float64, line uint) {
	t.Helper()
	//
	attr := stmt.AsSimpleAttr()
	require.NotNil(t, attr)
	assert.Equal(t, name, attr.Name)
	require.NotNil(t, attr.Value.AsFloat())
	assert.Equal(t, value, attr.Value.AsFloat().Value)
	assert.Equal(t, line, attr.Line)
}

func checkSimpleString(t *testing.T, stmt Statement, name string, value string) {
	t.Helper()
	//
	attr := stmt.AsSimpleAttr()
	require.NotNil(t, attr)
	assert.Equal(t, name, attr.Name)
	require.NotNil(t, attr.Value.AsString(), "expected string, got %s", attr.Value.Variant())
	assert.Equal(t, value, attr.Value.AsString().Value)
}

func node(rule ptree.Rule, text string, children ...*ptree.Node) *ptree.Node {
	return &ptree.Node{Rule: rule, Span: source.NewSpan(0, len(text)), Line: 1, Text: text, Children: children}
}
