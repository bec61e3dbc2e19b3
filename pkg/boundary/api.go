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
package boundary

import (
	"github.com/consensys/go-edaparse/pkg/liberty"
	"github.com/consensys/go-edaparse/pkg/verilog"
)

var (
	libraries = NewTable[*liberty.Group]("library")
	designs   = NewTable[*verilog.Design]("design")
)

// ParseLiberty parses a Liberty library, returning a handle to its root group.
// The handle must eventually be released with FreeLiberty.
func ParseLiberty(text string) (Handle, error) {
	root, err := liberty.ParseString(text)
	if err != nil {
		return 0, err
	}
	//
	return libraries.Box(root), nil
}

// ParseVerilog parses a structural Verilog netlist, returning a handle to the
// resulting design.  The handle must eventually be released with FreeDesign.
func ParseVerilog(text string) (Handle, error) {
	design, err := verilog.ParseString(text)
	if err != nil {
		return 0, err
	}
	//
	return designs.Box(design), nil
}

// LibertyRoot returns the root group of a parsed library.
func LibertyRoot(handle Handle) (*liberty.Group, error) {
	return libraries.Get(handle)
}

// GroupStatements exposes the child statements of a group.
func GroupStatements(group *liberty.Group) Buffer[liberty.Statement] {
	return BufferOf(group.Children)
}

// DesignModule returns the module of a given name from a parsed design.
func DesignModule(handle Handle, name string) (*verilog.Module, error) {
	design, err := designs.Get(handle)
	if err != nil {
		return nil, err
	}
	//
	if module, ok := design.Module(name); ok {
		return module, nil
	}
	//
	return nil, &verilog.FlattenError{Kind: verilog.UnknownModule, Module: name}
}

// FlattenDesign flattens a given module of a parsed design.  Designs held by
// the table are never mutated; instead, the handle is updated to refer to a
// copy in which the top module is flattened.  Modules obtained beforehand
// remain valid.
func FlattenDesign(handle Handle, top string) error {
	design, err := designs.Get(handle)
	if err != nil {
		return err
	}
	//
	flat, err := verilog.Flatten(design, top)
	if err != nil {
		return err
	}
	//
	return designs.Update(handle, func(current *verilog.Design) (*verilog.Design, error) {
		return current.WithModule(flat)
	})
}

// ModuleStatements exposes the statements of a module.
func ModuleStatements(module *verilog.Module) Buffer[verilog.Stmt] {
	return BufferOf(module.Stmts)
}

// ModulePorts exposes the ports of a module.
func ModulePorts(module *verilog.Module) Buffer[*verilog.Port] {
	return BufferOf(module.Ports)
}

// InstanceConnections exposes the port connections of an instance.
func InstanceConnections(inst *verilog.Instance) Buffer[*verilog.PortConnection] {
	return BufferOf(inst.Connections)
}

// FreeLiberty releases a parsed library.
func FreeLiberty(handle Handle) error {
	return libraries.Release(handle)
}

// FreeDesign releases a parsed design.
func FreeDesign(handle Handle) error {
	return designs.Release(handle)
}
