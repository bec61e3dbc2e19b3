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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat_00(t *testing.T) {
	checkFormat(t, `module top (a, y);
  input a;
  output y;
  wire [1:0] w;
  INV u0 (.I(a), .ZN(w[0]));
  CELL u1 (.A(w[1:0]), .B(), .C(4'b0011));
  assign y = {w[1], 1'b0};
endmodule
`)
}

func TestFormat_01(t *testing.T) {
	checkFormat(t, `module a (x, y);
  input x, y;
endmodule

module \b/0  ();
  wire \n[0] ;
  INV \u/0  (.I(\n[0] ));
endmodule
`)
}

func TestFormat_02(t *testing.T) {
	// Flattened modules print, and parse again, with escaped names
	design := checkParse(t, twoLevel)
	require.NoError(t, design.FlattenTop("top"))
	//
	text := String(design)
	assert.Contains(t, text, `  wire \leaf_inst/w ;`)
	assert.Contains(t, text, `  INV \leaf_inst/u0  (.I(x), .ZN(\leaf_inst/w ));`)
	//
	assert.Equal(t, text, String(checkParse(t, text)))
}

func checkFormat(t *testing.T, text string) {
	t.Helper()
	//
	assert.Equal(t, text, String(checkParse(t, text)))
}
