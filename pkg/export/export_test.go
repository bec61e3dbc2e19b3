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
	"encoding/json"
	"os"
	"testing"

	"github.com/consensys/go-edaparse/pkg/liberty"
	"github.com/consensys/go-edaparse/pkg/util/source"
	"github.com/consensys/go-edaparse/pkg/verilog"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExport_00(t *testing.T) {
	root, err := liberty.ParseString(`library (lib) {
  time_unit : "1ns";
  capacitive_load_unit (1, pf);
  cell (INV) { area : 0.5; }
}`)
	require.NoError(t, err)
	//
	bytes, err := LibraryJSON(root)
	checkJSON(t, bytes, err)
	//
	var doc map[string]any
	require.NoError(t, json.Unmarshal(bytes, &doc))
	assert.Equal(t, "group", doc["kind"])
	assert.Equal(t, "library", doc["group"])
	assert.Equal(t, "lib", doc["name"])
	//
	children := doc["children"].([]any)
	require.Len(t, children, 3)
	assert.Equal(t, map[string]any{"kind": "simple_attribute", "name": "time_unit",
		"value": map[string]any{"kind": "string", "value": "1ns"}, "line": 2.0}, children[0])
	assert.Equal(t, map[string]any{"kind": "complex_attribute", "name": "capacitive_load_unit",
		"values": []any{map[string]any{"kind": "float", "value": 1.0}, map[string]any{"kind": "string", "value": "pf"}},
		"line": 3.0}, children[1])
}

func TestExport_01(t *testing.T) {
	bytes, err := os.ReadFile("../liberty/testdata/small.lib")
	require.NoError(t, err)
	//
	root, err := liberty.Parse(source.NewSourceFile("small.lib", bytes))
	require.NoError(t, err)
	//
	bytes, err = LibraryJSON(root)
	checkJSON(t, bytes, err)
}

func TestExport_02(t *testing.T) {
	design, err := verilog.ParseString(`module m (d, q);
  input [3:0] d;
  output q;
  CELL u0 (.A(d[3]), .B(d[2:1]), .C({q, 1'b0}), .D(4'hA), .E());
  assign q = d[0];
endmodule`)
	require.NoError(t, err)
	//
	bytes, err := DesignJSON(design)
	checkJSON(t, bytes, err)
	//
	var doc Design
	require.NoError(t, json.Unmarshal(bytes, &doc))
	assert.Equal(t, FromDesign(design), doc)
	//
	m := doc.Modules[0]
	assert.Equal(t, []Port{{"d", "input"}, {"q", "output"}}, m.Ports)
	require.Len(t, m.Statements, 4)
	assert.Equal(t, &Range{3, 0}, m.Statements[0].Declarations[0].Range)
	//
	inst := m.Statements[2]
	assert.Equal(t, "instance", inst.Kind)
	assert.Equal(t, "index", inst.Connections[0].Net.Id.Kind)
	assert.Equal(t, "slice", inst.Connections[1].Net.Id.Kind)
	assert.Equal(t, "concatenation", inst.Connections[2].Net.Kind)
	assert.Equal(t, []Id{{Kind: "plain", Name: "q"}, {Kind: "literal", Name: "1'b0"}}, inst.Connections[2].Net.Ids)
	assert.Equal(t, "4'hA", inst.Connections[3].Net.Literal)
	assert.Nil(t, inst.Connections[4].Net)
	assert.Equal(t, "assign", m.Statements[3].Kind)
}

func TestExport_03(t *testing.T) {
	bytes, err := os.ReadFile("../verilog/testdata/counter.v")
	require.NoError(t, err)
	//
	design, err := verilog.Parse(source.NewSourceFile("counter.v", bytes))
	require.NoError(t, err)
	require.NoError(t, design.FlattenTop("counter"))
	//
	bytes, err = DesignJSON(design)
	checkJSON(t, bytes, err)
}

func TestValidator_00(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)
	//
	require.NoError(t, v.Validate(DESIGN, []byte(`{"modules": []}`)))
	require.NoError(t, v.Validate(LIBRARY, []byte(`{"kind": "group", "group": "library", "name": "", "line": 1}`)))
	// Unknown fields, missing fields, wrong kinds and wrong types
	assert.Error(t, v.Validate(DESIGN, []byte(`{"modules": [], "extra": 1}`)))
	assert.Error(t, v.Validate(LIBRARY, []byte(`{"kind": "group", "name": "x", "line": 1}`)))
	assert.Error(t, v.Validate(LIBRARY, []byte(`{"kind": "simple_attribute", "name": "x", "line": 1,
		"value": {"kind": "string", "value": "y"}}`)))
	assert.Error(t, v.Validate(LIBRARY, []byte(`{"kind": "group", "group": "g", "name": "x", "line": 1,
		"values": [{"kind": "float", "value": "1"}]}`)))
	assert.Error(t, v.Validate("#Missing", []byte(`{}`)))
	assert.Error(t, v.Validate(DESIGN, []byte(`{`)))
}

func TestValidator_01(t *testing.T) {
	// Failures keep the underlying schema error as their cause
	v, err := NewValidator()
	require.NoError(t, err)
	//
	checkValidateError(t, v, DESIGN, `{"modules": [], "extra": 1}`, "document does not match #Design")
	checkValidateError(t, v, "#Missing", `{}`, "looking up #Missing")
	checkValidateError(t, v, DESIGN, `{`, "compiling document")
}

// ============================================================================
// Framework
// ============================================================================

func checkValidateError(t *testing.T, v *Validator, definition string, document string, prefix string) {
	t.Helper()
	//
	err := v.Validate(definition, []byte(document))
	require.Error(t, err)
	assert.Contains(t, err.Error(), prefix+": ")
	//
	cause := errors.Cause(err)
	require.NotNil(t, cause)
	assert.NotContains(t, cause.Error(), prefix)
}

func checkJSON(t *testing.T, bytes []byte, err error) {
	t.Helper()
	//
	require.NoError(t, err)
	assert.True(t, json.Valid(bytes))
}
