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
	"io"
	"strings"
)

// Format writes a statement (and everything it contains) as Liberty text.  The
// output can be parsed again to give a structurally equal statement.
func Format(out io.Writer, stmt Statement) error {
	var builder strings.Builder
	//
	format(&builder, stmt, 0)
	//
	_, err := io.WriteString(out, builder.String())
	//
	return err
}

// String returns the Liberty text for a given statement.
func String(stmt Statement) string {
	var builder strings.Builder
	//
	format(&builder, stmt, 0)
	//
	return builder.String()
}

func format(out *strings.Builder, stmt Statement, indent int) {
	out.WriteString(strings.Repeat("  ", indent))
	//
	switch s := stmt.(type) {
	case *SimpleAttr:
		out.WriteString(s.Name)
		out.WriteString(" : ")
		out.WriteString(s.Value.String())
		out.WriteString(";\n")
	case *ComplexAttr:
		out.WriteString(s.Name)
		formatValues(out, s.Values)
		out.WriteString(";\n")
	case *Group:
		out.WriteString(s.Kind)
		//
		if s.Name == "" && len(s.Values) == 0 {
			out.WriteString(" ()")
		} else {
			formatValues(out, append([]AttrValue{NewString(s.Name)}, s.Values...))
		}
		//
		out.WriteString(" {\n")
		//
		for _, child := range s.Children {
			format(out, child, indent+1)
		}
		//
		out.WriteString(strings.Repeat("  ", indent))
		out.WriteString("}\n")
	}
}

func formatValues(out *strings.Builder, values []AttrValue) {
	out.WriteString(" (")
	//
	for i, v := range values {
		if i != 0 {
			out.WriteString(", ")
		}
		//
		out.WriteString(v.String())
	}
	//
	out.WriteString(")")
}
