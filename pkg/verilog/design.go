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
	"maps"
	"slices"
)

// Design is the set of modules parsed from one or more netlist files, indexed
// by name.  Module order is preserved.
type Design struct {
	modules []*Module
	index   map[string]int
}

// NewDesign constructs a design from a given set of modules, whose names must
// be unique.
func NewDesign(modules ...*Module) (*Design, error) {
	design := &Design{nil, make(map[string]int)}
	//
	for _, m := range modules {
		if err := design.Add(m); err != nil {
			return nil, err
		}
	}
	//
	return design, nil
}

// Modules returns the modules of this design in the order they were added.
func (p *Design) Modules() []*Module {
	return p.modules
}

// Module returns the module with a given name.
func (p *Design) Module(name string) (*Module, bool) {
	if i, ok := p.index[name]; ok {
		return p.modules[i], true
	}
	//
	return nil, false
}

// Add a module to this design.  It is an error to add a module whose name
// matches an existing module.
func (p *Design) Add(module *Module) error {
	if _, ok := p.index[module.Name]; ok {
		return fmt.Errorf("duplicate module %s (line %d)", module.Name, module.Line)
	}
	//
	p.index[module.Name] = len(p.modules)
	p.modules = append(p.modules, module)
	//
	return nil
}

// Replace the module of the same name with a given module.
func (p *Design) Replace(module *Module) error {
	i, ok := p.index[module.Name]
	if !ok {
		return &FlattenError{Kind: UnknownModule, Module: module.Name}
	}
	//
	p.modules[i] = module
	//
	return nil
}

// WithModule returns a copy of this design in which the module of the same
// name is replaced by a given module.  This design is left unchanged.
func (p *Design) WithModule(module *Module) (*Design, error) {
	design := &Design{slices.Clone(p.modules), maps.Clone(p.index)}
	//
	if err := design.Replace(module); err != nil {
		return nil, err
	}
	//
	return design, nil
}

// FlattenTop replaces the given top module with its flattened form.  Other
// modules are left untouched.
func (p *Design) FlattenTop(top string) error {
	flat, err := Flatten(p, top)
	if err != nil {
		return err
	}
	//
	return p.Replace(flat)
}

// Port returns the port of this module with the given name.
func (p *Module) Port(name string) (*Port, bool) {
	for _, port := range p.Ports {
		if port.Name == name {
			return port, true
		}
	}
	//
	return nil, false
}

// Instances returns all instances within this module.
func (p *Module) Instances() []*Instance {
	var insts []*Instance
	//
	for _, stmt := range p.Stmts {
		if inst, ok := stmt.(*Instance); ok {
			insts = append(insts, inst)
		}
	}
	//
	return insts
}

// FindInstance returns the instance with a given name and cell.  An empty
// cell name matches any cell.
func (p *Module) FindInstance(name string, cell string) (*Instance, bool) {
	for _, inst := range p.Instances() {
		if inst.Name == name && (cell == "" || inst.Cell == cell) {
			return inst, true
		}
	}
	//
	return nil, false
}

// FindDcls returns the declaration list which declares a given name, along
// with the declaration itself.
func (p *Module) FindDcls(name string) (*Dcls, *Dcl, bool) {
	for _, stmt := range p.Stmts {
		switch s := stmt.(type) {
		case *Dcls:
			for _, dcl := range s.Dcls {
				if dcl.Name == name {
					return s, dcl, true
				}
			}
		case *Dcl:
			if s.Name == name {
				return &Dcls{[]*Dcl{s}, s.Line}, s, true
			}
		}
	}
	//
	return nil, nil, false
}

// Declarations returns every declaration of this module, in order.
func (p *Module) Declarations() []*Dcl {
	var dcls []*Dcl
	//
	for _, stmt := range p.Stmts {
		switch s := stmt.(type) {
		case *Dcls:
			dcls = append(dcls, s.Dcls...)
		case *Dcl:
			dcls = append(dcls, s)
		}
	}
	//
	return dcls
}

// Connection returns the connection for a given port of this instance.
func (p *Instance) Connection(port string) (*PortConnection, bool) {
	for _, conn := range p.Connections {
		if conn.Port.Name() == port {
			return conn, true
		}
	}
	//
	return nil, false
}
