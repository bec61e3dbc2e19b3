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
	"strings"

	"github.com/consensys/go-edaparse/pkg/util"
	"github.com/consensys/go-edaparse/pkg/util/collection/stack"
	log "github.com/sirupsen/logrus"
)

// FlattenErrorKind identifies the kind of a flattening error.
type FlattenErrorKind uint8

const (
	// UnknownModule indicates the module to be flattened does not exist.
	UnknownModule FlattenErrorKind = iota
	// InstantiationCycle indicates a module which (indirectly) instantiates
	// itself.
	InstantiationCycle
	// UnknownPort indicates a connection to a port which the instantiated
	// module does not have.
	UnknownPort
	// PortWidthMismatch indicates a bit of a port was selected, but the net
	// connected to that port does not have the port's width.
	PortWidthMismatch
)

func (k FlattenErrorKind) String() string {
	switch k {
	case UnknownModule:
		return "unknown module"
	case InstantiationCycle:
		return "instantiation cycle"
	case UnknownPort:
		return "unknown port"
	case PortWidthMismatch:
		return "port width mismatch"
	}
	//
	return "unknown"
}

// FlattenError is returned when a module cannot be flattened.  The chain
// identifies the modules being instantiated, starting from the top, when the
// error arose.
type FlattenError struct {
	Kind   FlattenErrorKind
	Module string
	Chain  []string
	Detail string
}

func (e *FlattenError) Error() string {
	var builder strings.Builder
	//
	builder.WriteString(fmt.Sprintf("%s %s", e.Kind, e.Module))
	//
	if len(e.Chain) > 0 {
		builder.WriteString(fmt.Sprintf(" (via %s)", strings.Join(e.Chain, " -> ")))
	}
	//
	if e.Detail != "" {
		builder.WriteString(": ")
		builder.WriteString(e.Detail)
	}
	//
	return builder.String()
}

// FlattenConfig provides options for flattening.
type FlattenConfig struct {
	// Separator placed between the components of hierarchical names.
	Separator string
}

// DefaultFlattenConfig returns the default flattening configuration.
func DefaultFlattenConfig() FlattenConfig {
	return FlattenConfig{Separator: "/"}
}

// Flatten a given module of a design, using the default configuration.  See
// FlattenWith for details.
func Flatten(design *Design, top string) (*Module, error) {
	return FlattenWith(design, top, DefaultFlattenConfig())
}

// FlattenWith flattens a given module of a design by recursively inlining
// every instance of a module defined in the design, such that only instances of
// leaf cells remain.  Names inlined from an instance are prefixed with the
// hierarchical path of that instance.  The design itself is not modified.
func FlattenWith(design *Design, top string, config FlattenConfig) (*Module, error) {
	module, ok := design.Module(top)
	if !ok {
		return nil, &FlattenError{Kind: UnknownModule, Module: top}
	}
	//
	if !hasSubmodules(design, module) {
		log.Debugf("module %s has no submodules", top)
		return cloneModule(module), nil
	}
	//
	f := &flattener{design, config.Separator, stack.NewStack[string](), make(map[string]Range), 0, 0}
	root := &scope{module: module}
	//
	f.declare(root)
	f.chain.Push(top)
	//
	stmts, err := f.inline(root)
	if err != nil {
		return nil, err
	}
	//
	log.Debugf("flattened %s (%d instances inlined, %d leaf instances)", top, f.inlined, f.leaves)
	//
	return &Module{module.Name, clonePorts(module.Ports), stmts, module.Line}, nil
}

type flattener struct {
	design *Design
	sep    string
	// Modules on the current instantiation path
	chain *stack.Stack[string]
	// Ranges of flattened bus nets
	ranges map[string]Range
	// Statistics
	inlined int
	leaves  int
}

// scope is a module being inlined.  The top module has no prefix, and no
// bindings.
type scope struct {
	prefix string
	module *Module
	// Nets connected to each port at the point of instantiation.
	bindings map[string]util.Option[NetExpr]
	// Declared ranges of local names.
	local map[string]Range
}

func (s *scope) isTop() bool {
	return s.bindings == nil
}

func (s *scope) isPort(name string) bool {
	_, ok := s.module.Port(name)
	return !s.isTop() && ok
}

// Record the ranges declared within a scope.
func (f *flattener) declare(s *scope) {
	s.local = make(map[string]Range)
	//
	for _, dcl := range s.module.Declarations() {
		if dcl.Range.HasValue() {
			s.local[dcl.Name] = dcl.Range.Unwrap()
			//
			if !s.isPort(dcl.Name) {
				f.ranges[f.name(s, dcl.Name)] = dcl.Range.Unwrap()
			}
		}
	}
}

func (f *flattener) name(s *scope, name string) string {
	if s.prefix == "" {
		return name
	}
	//
	return s.prefix + f.sep + name
}

func (f *flattener) inline(s *scope) ([]Stmt, error) {
	var stmts []Stmt
	//
	for _, stmt := range s.module.Stmts {
		switch st := stmt.(type) {
		case *Dcls:
			if dcls := f.inlineDcls(s, st.Dcls); len(dcls) > 0 {
				stmts = append(stmts, &Dcls{dcls, st.Line})
			}
		case *Dcl:
			if dcls := f.inlineDcls(s, []*Dcl{st}); len(dcls) > 0 {
				stmts = append(stmts, dcls[0])
			}
		case *Assign:
			assign, err := f.inlineAssign(s, st)
			if err != nil {
				return nil, err
			} else if assign != nil {
				stmts = append(stmts, assign)
			}
		case *Instance:
			inlined, err := f.inlineInstance(s, st)
			if err != nil {
				return nil, err
			}
			//
			stmts = append(stmts, inlined...)
		default:
			stmts = append(stmts, stmt)
		}
	}
	//
	return stmts, nil
}

// Port declarations of inlined modules are dropped, since their ports are
// replaced by the nets they are connected to.
func (f *flattener) inlineDcls(s *scope, dcls []*Dcl) []*Dcl {
	if s.isTop() {
		return dcls
	}
	//
	var inlined []*Dcl
	//
	for _, dcl := range dcls {
		if !s.isPort(dcl.Name) && !dcl.Kind.IsPort() {
			inlined = append(inlined, &Dcl{dcl.Kind, f.name(s, dcl.Name), dcl.Range, dcl.Line})
		}
	}
	//
	return inlined
}

// Assignments involving an unconnected port are dropped.
func (f *flattener) inlineAssign(s *scope, assign *Assign) (*Assign, error) {
	lhs, err := f.rewrite(s, assign.Lhs)
	if err != nil || lhs.IsEmpty() {
		return nil, err
	}
	//
	rhs, err := f.rewrite(s, assign.Rhs)
	if err != nil || rhs.IsEmpty() {
		return nil, err
	}
	//
	return &Assign{lhs.Unwrap(), rhs.Unwrap(), assign.Line}, nil
}

func (f *flattener) inlineInstance(s *scope, inst *Instance) ([]Stmt, error) {
	conns := make([]*PortConnection, len(inst.Connections))
	//
	for i, conn := range inst.Connections {
		net := util.None[NetExpr]()
		//
		if conn.Net.HasValue() {
			var err error
			//
			if net, err = f.rewrite(s, conn.Net.Unwrap()); err != nil {
				return nil, err
			}
		}
		//
		conns[i] = &PortConnection{conn.Port, net}
	}
	//
	sub, ok := f.design.Module(inst.Cell)
	if !ok {
		// Leaf cell
		f.leaves++
		return []Stmt{&Instance{f.name(s, inst.Name), inst.Cell, conns, inst.Line}}, nil
	} else if f.chain.Contains(func(name string) bool { return name == sub.Name }) {
		return nil, &FlattenError{InstantiationCycle, sub.Name, f.path(), fmt.Sprintf("instance %s", inst.Name)}
	}
	//
	bindings := make(map[string]util.Option[NetExpr])
	//
	for _, conn := range conns {
		if _, ok := sub.Port(conn.Port.Name()); !ok {
			return nil, &FlattenError{UnknownPort, sub.Name, f.path(),
				fmt.Sprintf("instance %s connects port %s", inst.Name, conn.Port.Name())}
		}
		//
		bindings[conn.Port.Name()] = conn.Net
	}
	//
	child := &scope{f.name(s, inst.Name), sub, bindings, nil}
	f.declare(child)
	f.inlined++
	//
	f.chain.Push(sub.Name)
	stmts, err := f.inline(child)
	f.chain.Pop()
	//
	return stmts, err
}

// Rewrite a net expression from a given scope into the flattened namespace.
// This returns nothing for a reference to an unconnected port.
func (f *flattener) rewrite(s *scope, expr NetExpr) (util.Option[NetExpr], error) {
	switch e := expr.(type) {
	case *IdExpr:
		return f.rewriteId(s, e.Id, e.Line)
	case *ConcatExpr:
		var ids []Id
		//
		for _, id := range e.Ids {
			r, err := f.rewriteId(s, id, e.Line)
			if err != nil {
				return util.None[NetExpr](), err
			}
			//
			switch r := r.UnwrapOr(nil).(type) {
			case nil:
				ids = append(ids, f.prefixed(s, id))
			case *IdExpr:
				ids = append(ids, r.Id)
			case *ConcatExpr:
				ids = append(ids, r.Ids...)
			case *ConstantExpr:
				ids = append(ids, r.Id)
			}
		}
		//
		return util.Some[NetExpr](&ConcatExpr{ids, e.Line}), nil
	}
	//
	return util.Some(expr), nil
}

func (f *flattener) rewriteId(s *scope, id Id, line uint) (util.Option[NetExpr], error) {
	if plain, ok := id.(*PlainId); ok && plain.IsLiteral() {
		return util.Some[NetExpr](&IdExpr{id, line}), nil
	} else if s.isTop() {
		return util.Some[NetExpr](&IdExpr{id, line}), nil
	} else if !s.isPort(id.Name()) {
		return util.Some[NetExpr](&IdExpr{f.prefixed(s, id), line}), nil
	}
	//
	binding := s.bindings[id.Name()]
	//
	if id.IsId() {
		return binding, nil
	} else if binding.IsEmpty() {
		// Bits of an unconnected port are left dangling
		return util.Some[NetExpr](&IdExpr{f.prefixed(s, id), line}), nil
	}
	//
	bits, err := f.selectBits(s, id, binding.Unwrap())
	if err != nil {
		return util.None[NetExpr](), err
	}
	//
	return util.Some(compress(bits, line)), nil
}

// Select the bits of the net bound to a port, as identified by a bus index or
// slice of that port.
func (f *flattener) selectBits(s *scope, id Id, net NetExpr) ([]bit, error) {
	port := id.Name()
	//
	r, ok := s.local[port]
	if !ok {
		return nil, f.mismatch(s, "port %s has no range, but %s is selected", port, id.String())
	}
	//
	bits, err := expand(net, func(name string) (Range, bool) {
		r, ok := f.ranges[name]
		return r, ok
	})
	if err != nil {
		return nil, f.mismatch(s, "%s", err.Error())
	} else if len(bits) != r.Width() {
		return nil, f.mismatch(s, "port %s%s is connected to %s (%d bits)", port, r.String(), net.String(), len(bits))
	}
	//
	var msb, lsb int
	//
	switch id := id.(type) {
	case *BusIndexId:
		msb, lsb = id.Index, id.Index
	case *BusSliceId:
		msb, lsb = id.Msb, id.Lsb
	}
	//
	first, ok1 := r.Offset(msb)
	last, ok2 := r.Offset(lsb)
	//
	if !ok1 || !ok2 {
		return nil, f.mismatch(s, "%s is outside port range %s", id.String(), r.String())
	} else if first <= last {
		return bits[first : last+1], nil
	}
	// Reversed selection
	selected := make([]bit, 0, first-last+1)
	for i := first; i >= last; i-- {
		selected = append(selected, bits[i])
	}
	//
	return selected, nil
}

// Construct an identifier of the same shape, whose name is prefixed by the
// scope's path.
func (f *flattener) prefixed(s *scope, id Id) Id {
	name := f.name(s, id.Name())
	//
	switch id := id.(type) {
	case *BusIndexId:
		return NewBusIndexId(name, id.Index)
	case *BusSliceId:
		return NewBusSliceId(name, id.Msb, id.Lsb)
	}
	//
	return NewPlainId(name)
}

func (f *flattener) mismatch(s *scope, format string, args ...any) *FlattenError {
	return &FlattenError{PortWidthMismatch, s.module.Name, f.path(), fmt.Sprintf(format, args...)}
}

func (f *flattener) path() []string {
	return f.chain.Items()
}

func hasSubmodules(design *Design, module *Module) bool {
	for _, inst := range module.Instances() {
		if _, ok := design.Module(inst.Cell); ok {
			return true
		}
	}
	//
	return false
}

func cloneModule(module *Module) *Module {
	stmts := make([]Stmt, len(module.Stmts))
	copy(stmts, module.Stmts)
	//
	return &Module{module.Name, clonePorts(module.Ports), stmts, module.Line}
}

func clonePorts(ports []*Port) []*Port {
	var clones []*Port
	//
	for _, p := range ports {
		clones = append(clones, &Port{p.Name, p.Direction})
	}
	//
	return clones
}
