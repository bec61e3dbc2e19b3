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
	"io"
	"strings"
)

// Format writes the modules of a design as structural Verilog, such that
// parsing the output yields an equivalent design.
func Format(out io.Writer, design *Design) error {
	for i, m := range design.Modules() {
		if i > 0 {
			if _, err := io.WriteString(out, "\n"); err != nil {
				return err
			}
		}
		//
		if err := FormatModule(out, m); err != nil {
			return err
		}
	}
	//
	return nil
}

// FormatModule writes a single module as structural Verilog.
func FormatModule(out io.Writer, module *Module) error {
	var builder strings.Builder
	//
	ports := make([]string, len(module.Ports))
	for i, p := range module.Ports {
		ports[i] = escape(p.Name)
	}
	//
	builder.WriteString(fmt.Sprintf("module %s (%s);\n", escape(module.Name), strings.Join(ports, ", ")))
	//
	for _, stmt := range module.Stmts {
		switch s := stmt.(type) {
		case *Dcls:
			writeDcls(&builder, s.Dcls)
		case *Dcl:
			writeDcls(&builder, []*Dcl{s})
		case *Instance:
			writeInstance(&builder, s)
		case *Assign:
			builder.WriteString(fmt.Sprintf("  assign %s = %s;\n", s.Lhs.String(), s.Rhs.String()))
		}
	}
	//
	builder.WriteString("endmodule\n")
	//
	_, err := io.WriteString(out, builder.String())
	//
	return err
}

// String returns a design as structural Verilog.
func String(design *Design) string {
	var builder strings.Builder
	// Writing to a builder cannot fail
	_ = Format(&builder, design)
	//
	return builder.String()
}

// Consecutive declarations sharing a kind and range are written together.
func writeDcls(builder *strings.Builder, dcls []*Dcl) {
	for i := 0; i < len(dcls); {
		var (
			first = dcls[i]
			names []string
			j     = i
		)
		//
		for ; j < len(dcls) && dcls[j].Kind == first.Kind && dcls[j].Range == first.Range; j++ {
			names = append(names, escape(dcls[j].Name))
		}
		//
		builder.WriteString("  ")
		builder.WriteString(first.Kind.String())
		//
		if first.Range.HasValue() {
			builder.WriteString(" ")
			builder.WriteString(first.Range.Unwrap().String())
		}
		//
		builder.WriteString(" ")
		builder.WriteString(strings.Join(names, ", "))
		builder.WriteString(";\n")
		//
		i = j
	}
}

func writeInstance(builder *strings.Builder, inst *Instance) {
	conns := make([]string, len(inst.Connections))
	//
	for i, conn := range inst.Connections {
		net := ""
		if conn.Net.HasValue() {
			net = conn.Net.Unwrap().String()
		}
		//
		conns[i] = fmt.Sprintf(".%s(%s)", conn.Port.String(), net)
	}
	//
	builder.WriteString(fmt.Sprintf("  %s %s (%s);\n", escape(inst.Cell), escape(inst.Name), strings.Join(conns, ", ")))
}
