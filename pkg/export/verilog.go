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

	"github.com/consensys/go-edaparse/pkg/verilog"
)

// Design is the JSON form of a Verilog design.
type Design struct {
	Modules []Module `json:"modules"`
}

// Module is the JSON form of a Verilog module.
type Module struct {
	Kind       string `json:"kind"`
	Name       string `json:"name"`
	Ports      []Port `json:"ports"`
	Statements []Item `json:"statements"`
	Line       uint   `json:"line"`
}

// Port is the JSON form of a module port.
type Port struct {
	Name      string `json:"name"`
	Direction string `json:"direction"`
}

// Item is the JSON form of a module item.  The kind determines which of the
// remaining fields are present.
type Item struct {
	Kind         string        `json:"kind"`
	Declarations []Declaration `json:"declarations,omitempty"`
	Name         string        `json:"name,omitempty"`
	Cell         string        `json:"cell,omitempty"`
	Connections  []Connection  `json:"connections,omitempty"`
	Lhs          *Net          `json:"lhs,omitempty"`
	Rhs          *Net          `json:"rhs,omitempty"`
	Line         uint          `json:"line"`
}

// Declaration is the JSON form of a single declaration.
type Declaration struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Range *Range `json:"range,omitempty"`
	Line  uint   `json:"line"`
}

// Range is the JSON form of a bus range.
type Range struct {
	Msb int `json:"msb"`
	Lsb int `json:"lsb"`
}

// Connection is the JSON form of a port connection.  The net is null for an
// unconnected port.
type Connection struct {
	Port Id   `json:"port"`
	Net  *Net `json:"net"`
}

// Net is the JSON form of a net expression.
type Net struct {
	Kind    string `json:"kind"`
	Id      *Id    `json:"id,omitempty"`
	Ids     []Id   `json:"ids,omitempty"`
	Literal string `json:"literal,omitempty"`
}

// Id is the JSON form of an identifier.
type Id struct {
	Kind  string `json:"kind"`
	Name  string `json:"name"`
	Index *int   `json:"index,omitempty"`
	Msb   *int   `json:"msb,omitempty"`
	Lsb   *int   `json:"lsb,omitempty"`
}

// FromDesign converts a design into its JSON form.
func FromDesign(design *verilog.Design) Design {
	modules := make([]Module, len(design.Modules()))
	//
	for i, m := range design.Modules() {
		modules[i] = FromModule(m)
	}
	//
	return Design{modules}
}

// DesignJSON renders a design as JSON, checking the result against the schema.
func DesignJSON(design *verilog.Design) ([]byte, error) {
	return marshal(DESIGN, FromDesign(design))
}

// FromModule converts a module into its JSON form.
func FromModule(module *verilog.Module) Module {
	ports := make([]Port, len(module.Ports))
	for i, p := range module.Ports {
		ports[i] = Port{p.Name, p.Direction.String()}
	}
	//
	items := make([]Item, 0, len(module.Stmts))
	//
	for _, stmt := range module.Stmts {
		switch s := stmt.(type) {
		case *verilog.Dcls:
			items = append(items, Item{Kind: "declarations", Declarations: declarations(s.Dcls), Line: s.Line})
		case *verilog.Dcl:
			items = append(items, Item{Kind: "declarations", Declarations: declarations([]*verilog.Dcl{s}),
				Line: s.Line})
		case *verilog.Instance:
			conns := make([]Connection, len(s.Connections))
			//
			for i, c := range s.Connections {
				conns[i] = Connection{id(c.Port), nil}
				if c.Net.HasValue() {
					conns[i].Net = net(c.Net.Unwrap())
				}
			}
			//
			items = append(items, Item{Kind: "instance", Name: s.Name, Cell: s.Cell, Connections: conns, Line: s.Line})
		case *verilog.Assign:
			items = append(items, Item{Kind: "assign", Lhs: net(s.Lhs), Rhs: net(s.Rhs), Line: s.Line})
		}
	}
	//
	return Module{"module", module.Name, ports, items, module.Line}
}

func declarations(dcls []*verilog.Dcl) []Declaration {
	converted := make([]Declaration, len(dcls))
	//
	for i, d := range dcls {
		converted[i] = Declaration{Type: d.Kind.String(), Name: d.Name, Line: d.Line}
		//
		if d.Range.HasValue() {
			r := d.Range.Unwrap()
			converted[i].Range = &Range{r.Msb, r.Lsb}
		}
	}
	//
	return converted
}

func net(expr verilog.NetExpr) *Net {
	switch e := expr.(type) {
	case *verilog.IdExpr:
		i := id(e.Id)
		return &Net{Kind: "identifier", Id: &i}
	case *verilog.ConcatExpr:
		ids := make([]Id, len(e.Ids))
		for i, x := range e.Ids {
			ids[i] = id(x)
		}
		//
		return &Net{Kind: "concatenation", Ids: ids}
	case *verilog.ConstantExpr:
		return &Net{Kind: "constant", Literal: e.Id.Name()}
	}
	// unreachable
	panic("unknown net expression " + expr.Variant())
}

func id(x verilog.Id) Id {
	switch x := x.(type) {
	case *verilog.BusIndexId:
		return Id{Kind: "index", Name: x.Base, Index: &x.Index}
	case *verilog.BusSliceId:
		return Id{Kind: "slice", Name: x.Base, Msb: &x.Msb, Lsb: &x.Lsb}
	case *verilog.PlainId:
		if x.IsLiteral() {
			return Id{Kind: "literal", Name: x.Base}
		}
	}
	//
	return Id{Kind: "plain", Name: x.Name()}
}

// Marshal a document as indented JSON, and check it against a given definition
// of the schema.
func marshal(definition string, document any) ([]byte, error) {
	bytes, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		return nil, err
	}
	//
	validator, err := defaultValidator()
	if err != nil {
		return nil, err
	}
	//
	if err := validator.Validate(definition, bytes); err != nil {
		return nil, err
	}
	//
	return bytes, nil
}
