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
	"slices"
	"strings"

	"github.com/consensys/go-edaparse/pkg/util"
)

// ============================================================================
// Identifiers
// ============================================================================

// Id identifies a net, or some part of a bus.  This is either a plain name, a
// single bit of a bus or a contiguous slice of a bus.
type Id interface {
	// Name returns the base name of this identifier (i.e. without any index).
	Name() string
	// IsId checks whether this is a plain name.
	IsId() bool
	// IsBusIndexId checks whether this is a single bit of a bus.
	IsBusIndexId() bool
	// IsBusSliceId checks whether this is a slice of a bus.
	IsBusSliceId() bool
	// String returns the Verilog representation of this identifier.
	String() string
	// Variant describes the kind of identifier this is.
	Variant() string
	isId()
}

// PlainId is a plain (possibly escaped) name.  Within a concatenation, the
// constant bits are also carried as plain identifiers, marked as literals.
type PlainId struct {
	Base    string
	Literal bool
}

// BusIndexId is a single bit of a bus, such as "data[3]".
type BusIndexId struct {
	Base  string
	Index int
}

// BusSliceId is a contiguous slice of a bus, such as "data[7:4]".
type BusSliceId struct {
	Base string
	Msb  int
	Lsb  int
}

// NewPlainId constructs a plain identifier.
func NewPlainId(name string) *PlainId {
	return &PlainId{name, false}
}

// NewLiteralId constructs an identifier holding a constant, such as "1'b0".
func NewLiteralId(text string) *PlainId {
	return &PlainId{text, true}
}

// NewBusIndexId constructs an identifier for a single bit of a bus.
func NewBusIndexId(name string, index int) *BusIndexId {
	return &BusIndexId{name, index}
}

// NewBusSliceId constructs an identifier for a slice of a bus.
func NewBusSliceId(name string, msb int, lsb int) *BusSliceId {
	return &BusSliceId{name, msb, lsb}
}

func (p *PlainId) isId()    {}
func (p *BusIndexId) isId() {}
func (p *BusSliceId) isId() {}

// Name implementation for Id interface.
func (p *PlainId) Name() string { return p.Base }

// IsId implementation for Id interface.
func (p *PlainId) IsId() bool { return true }

// IsBusIndexId implementation for Id interface.
func (p *PlainId) IsBusIndexId() bool { return false }

// IsBusSliceId implementation for Id interface.
func (p *PlainId) IsBusSliceId() bool { return false }

// Variant implementation for Id interface.
func (p *PlainId) Variant() string { return "identifier" }

func (p *PlainId) String() string {
	if p.Literal {
		return p.Base
	}
	//
	return escape(p.Base)
}

// IsLiteral checks whether this identifier actually holds a constant, as
// happens for the constant bits of a concatenation.  Escaped names such as
// "\1n " are never literals.
func (p *PlainId) IsLiteral() bool {
	return p.Literal
}

// Name implementation for Id interface.
func (p *BusIndexId) Name() string { return p.Base }

// IsId implementation for Id interface.
func (p *BusIndexId) IsId() bool { return false }

// IsBusIndexId implementation for Id interface.
func (p *BusIndexId) IsBusIndexId() bool { return true }

// IsBusSliceId implementation for Id interface.
func (p *BusIndexId) IsBusSliceId() bool { return false }

// Variant implementation for Id interface.
func (p *BusIndexId) Variant() string { return "bus index" }

func (p *BusIndexId) String() string {
	return fmt.Sprintf("%s[%d]", escape(p.Base), p.Index)
}

// Name implementation for Id interface.
func (p *BusSliceId) Name() string { return p.Base }

// IsId implementation for Id interface.
func (p *BusSliceId) IsId() bool { return false }

// IsBusIndexId implementation for Id interface.
func (p *BusSliceId) IsBusIndexId() bool { return false }

// IsBusSliceId implementation for Id interface.
func (p *BusSliceId) IsBusSliceId() bool { return true }

// Variant implementation for Id interface.
func (p *BusSliceId) Variant() string { return "bus slice" }

func (p *BusSliceId) String() string {
	return fmt.Sprintf("%s[%d:%d]", escape(p.Base), p.Msb, p.Lsb)
}

// Width returns the number of bits in this slice.
func (p *BusSliceId) Width() int {
	return Range{p.Msb, p.Lsb}.Width()
}

// ============================================================================
// Net Expressions
// ============================================================================

// NetExpr is an expression which can be connected to a port.  This is either
// an identifier, a concatenation of identifiers or a constant.
type NetExpr interface {
	// IsIdExpr checks whether this is an identifier.
	IsIdExpr() bool
	// IsConcatExpr checks whether this is a concatenation.
	IsConcatExpr() bool
	// IsConstant checks whether this is a constant.
	IsConstant() bool
	// LineNo returns the line on which this expression starts.
	LineNo() uint
	// String returns the Verilog representation of this expression.
	String() string
	// Variant describes the kind of expression this is.
	Variant() string
	isNetExpr()
}

// IdExpr is a net expression consisting of a single identifier.
type IdExpr struct {
	Id   Id
	Line uint
}

// ConcatExpr is a concatenation of identifiers, such as "{a, b[3:0], 1'b0}".
// Constant bits are held as plain identifiers whose names are literals.
type ConcatExpr struct {
	Ids  []Id
	Line uint
}

// ConstantExpr is a constant, such as "4'b1010".  The literal is held as the
// name of a plain identifier.
type ConstantExpr struct {
	Id   Id
	Line uint
}

func (p *IdExpr) isNetExpr()       {}
func (p *ConcatExpr) isNetExpr()   {}
func (p *ConstantExpr) isNetExpr() {}

// IsIdExpr implementation for NetExpr interface.
func (p *IdExpr) IsIdExpr() bool { return true }

// IsConcatExpr implementation for NetExpr interface.
func (p *IdExpr) IsConcatExpr() bool { return false }

// IsConstant implementation for NetExpr interface.
func (p *IdExpr) IsConstant() bool { return false }

// LineNo implementation for NetExpr interface.
func (p *IdExpr) LineNo() uint { return p.Line }

// Variant implementation for NetExpr interface.
func (p *IdExpr) Variant() string { return "identifier expression" }

func (p *IdExpr) String() string { return p.Id.String() }

// IsIdExpr implementation for NetExpr interface.
func (p *ConcatExpr) IsIdExpr() bool { return false }

// IsConcatExpr implementation for NetExpr interface.
func (p *ConcatExpr) IsConcatExpr() bool { return true }

// IsConstant implementation for NetExpr interface.
func (p *ConcatExpr) IsConstant() bool { return false }

// LineNo implementation for NetExpr interface.
func (p *ConcatExpr) LineNo() uint { return p.Line }

// Variant implementation for NetExpr interface.
func (p *ConcatExpr) Variant() string { return "concatenation" }

func (p *ConcatExpr) String() string {
	ids := make([]string, len(p.Ids))
	//
	for i, id := range p.Ids {
		ids[i] = id.String()
	}
	//
	return "{" + strings.Join(ids, ", ") + "}"
}

// IsIdExpr implementation for NetExpr interface.
func (p *ConstantExpr) IsIdExpr() bool { return false }

// IsConcatExpr implementation for NetExpr interface.
func (p *ConstantExpr) IsConcatExpr() bool { return false }

// IsConstant implementation for NetExpr interface.
func (p *ConstantExpr) IsConstant() bool { return true }

// LineNo implementation for NetExpr interface.
func (p *ConstantExpr) LineNo() uint { return p.Line }

// Variant implementation for NetExpr interface.
func (p *ConstantExpr) Variant() string { return "constant" }

func (p *ConstantExpr) String() string { return p.Id.Name() }

// ============================================================================
// Statements
// ============================================================================

// DclKind identifies the kind of a declaration.
type DclKind uint8

const (
	// INPUT declares an input port.
	INPUT DclKind = iota
	// INOUT declares a bidirectional port.
	INOUT
	// OUTPUT declares an output port.
	OUTPUT
	// SUPPLY0 declares a net tied to ground.
	SUPPLY0
	// SUPPLY1 declares a net tied to power.
	SUPPLY1
	// TRI declares a tri-state net.
	TRI
	// WAND declares a wired-and net.
	WAND
	// WIRE declares an ordinary net.
	WIRE
	// WOR declares a wired-or net.
	WOR
	// REG declares a register.
	REG
)

var dclKeywords = []string{"input", "inout", "output", "supply0", "supply1", "tri", "wand", "wire", "wor", "reg"}

func (k DclKind) String() string {
	if int(k) < len(dclKeywords) {
		return dclKeywords[k]
	}
	//
	return "unknown"
}

// IsPort checks whether this kind of declaration declares a port.
func (k DclKind) IsPort() bool {
	return k == INPUT || k == INOUT || k == OUTPUT
}

// Range is the declared range of a bus, such as "[7:0]".
type Range struct {
	Msb int
	Lsb int
}

// Width returns the number of bits in this range.
func (r Range) Width() int {
	if r.Msb >= r.Lsb {
		return r.Msb - r.Lsb + 1
	}
	//
	return r.Lsb - r.Msb + 1
}

// Offset returns the position of a given index within this range, where the
// most significant bit has offset 0.  If the index is not within the range,
// then false is returned.
func (r Range) Offset(index int) (int, bool) {
	var offset int
	//
	if r.Msb >= r.Lsb {
		offset = r.Msb - index
	} else {
		offset = index - r.Msb
	}
	//
	return offset, offset >= 0 && offset < r.Width()
}

// Index returns the index at a given offset within this range (the inverse of
// Offset).
func (r Range) Index(offset int) int {
	if r.Msb >= r.Lsb {
		return r.Msb - offset
	}
	//
	return r.Msb + offset
}

func (r Range) String() string {
	return fmt.Sprintf("[%d:%d]", r.Msb, r.Lsb)
}

// Stmt is a single item within a module.
type Stmt interface {
	// LineNo returns the line on which this statement starts.
	LineNo() uint
	// IsModuleInstStmt checks whether this is an instance.
	IsModuleInstStmt() bool
	// IsModuleAssignStmt checks whether this is a continuous assignment.
	IsModuleAssignStmt() bool
	// IsDclStmt checks whether this is a single declaration.
	IsDclStmt() bool
	// IsDclsStmt checks whether this is a declaration list.
	IsDclsStmt() bool
	// IsModuleStmt checks whether this is a module.
	IsModuleStmt() bool
	// Variant describes the kind of statement this is.
	Variant() string
	isStmt()
}

// Dcl declares a single net, register or port.
type Dcl struct {
	Kind  DclKind
	Name  string
	Range util.Option[Range]
	Line  uint
}

// Dcls is a list of declarations sharing a kind and range, such as "wire
// [3:0] a, b;".
type Dcls struct {
	Dcls []*Dcl
	Line uint
}

// PortConnection connects a port of an instance to a net expression.  An empty
// net denotes an explicitly unconnected port, such as ".A()".
type PortConnection struct {
	Port Id
	Net  util.Option[NetExpr]
}

// Instance instantiates a cell (or module) within a module.
type Instance struct {
	Name        string
	Cell        string
	Connections []*PortConnection
	Line        uint
}

// Assign is a continuous assignment, such as "assign a = b;".
type Assign struct {
	Lhs  NetExpr
	Rhs  NetExpr
	Line uint
}

// Direction identifies the direction of a module port.
type Direction uint8

const (
	// UNDECLARED indicates a port without a direction declaration.
	UNDECLARED Direction = iota
	// IN is an input port.
	IN
	// OUT is an output port.
	OUT
	// INOUTPUT is a bidirectional port.
	INOUTPUT
)

func (d Direction) String() string {
	switch d {
	case IN:
		return "input"
	case OUT:
		return "output"
	case INOUTPUT:
		return "inout"
	}
	//
	return "undeclared"
}

// Port is a port of a module, given in header order.
type Port struct {
	Name      string
	Direction Direction
}

// Module is a named collection of declarations, instances and assignments.
type Module struct {
	Name  string
	Ports []*Port
	Stmts []Stmt
	Line  uint
}

func (p *Dcl) isStmt()      {}
func (p *Dcls) isStmt()     {}
func (p *Instance) isStmt() {}
func (p *Assign) isStmt()   {}
func (p *Module) isStmt()   {}

// LineNo implementation for Stmt interface.
func (p *Dcl) LineNo() uint { return p.Line }

// IsModuleInstStmt implementation for Stmt interface.
func (p *Dcl) IsModuleInstStmt() bool { return false }

// IsModuleAssignStmt implementation for Stmt interface.
func (p *Dcl) IsModuleAssignStmt() bool { return false }

// IsDclStmt implementation for Stmt interface.
func (p *Dcl) IsDclStmt() bool { return true }

// IsDclsStmt implementation for Stmt interface.
func (p *Dcl) IsDclsStmt() bool { return false }

// IsModuleStmt implementation for Stmt interface.
func (p *Dcl) IsModuleStmt() bool { return false }

// Variant implementation for Stmt interface.
func (p *Dcl) Variant() string { return "declaration" }

// LineNo implementation for Stmt interface.
func (p *Dcls) LineNo() uint { return p.Line }

// IsModuleInstStmt implementation for Stmt interface.
func (p *Dcls) IsModuleInstStmt() bool { return false }

// IsModuleAssignStmt implementation for Stmt interface.
func (p *Dcls) IsModuleAssignStmt() bool { return false }

// IsDclStmt implementation for Stmt interface.
func (p *Dcls) IsDclStmt() bool { return false }

// IsDclsStmt implementation for Stmt interface.
func (p *Dcls) IsDclsStmt() bool { return true }

// IsModuleStmt implementation for Stmt interface.
func (p *Dcls) IsModuleStmt() bool { return false }

// Variant implementation for Stmt interface.
func (p *Dcls) Variant() string { return "declarations" }

// LineNo implementation for Stmt interface.
func (p *Instance) LineNo() uint { return p.Line }

// IsModuleInstStmt implementation for Stmt interface.
func (p *Instance) IsModuleInstStmt() bool { return true }

// IsModuleAssignStmt implementation for Stmt interface.
func (p *Instance) IsModuleAssignStmt() bool { return false }

// IsDclStmt implementation for Stmt interface.
func (p *Instance) IsDclStmt() bool { return false }

// IsDclsStmt implementation for Stmt interface.
func (p *Instance) IsDclsStmt() bool { return false }

// IsModuleStmt implementation for Stmt interface.
func (p *Instance) IsModuleStmt() bool { return false }

// Variant implementation for Stmt interface.
func (p *Instance) Variant() string { return "instance" }

// LineNo implementation for Stmt interface.
func (p *Assign) LineNo() uint { return p.Line }

// IsModuleInstStmt implementation for Stmt interface.
func (p *Assign) IsModuleInstStmt() bool { return false }

// IsModuleAssignStmt implementation for Stmt interface.
func (p *Assign) IsModuleAssignStmt() bool { return true }

// IsDclStmt implementation for Stmt interface.
func (p *Assign) IsDclStmt() bool { return false }

// IsDclsStmt implementation for Stmt interface.
func (p *Assign) IsDclsStmt() bool { return false }

// IsModuleStmt implementation for Stmt interface.
func (p *Assign) IsModuleStmt() bool { return false }

// Variant implementation for Stmt interface.
func (p *Assign) Variant() string { return "assignment" }

// LineNo implementation for Stmt interface.
func (p *Module) LineNo() uint { return p.Line }

// IsModuleInstStmt implementation for Stmt interface.
func (p *Module) IsModuleInstStmt() bool { return false }

// IsModuleAssignStmt implementation for Stmt interface.
func (p *Module) IsModuleAssignStmt() bool { return false }

// IsDclStmt implementation for Stmt interface.
func (p *Module) IsDclStmt() bool { return false }

// IsDclsStmt implementation for Stmt interface.
func (p *Module) IsDclsStmt() bool { return false }

// IsModuleStmt implementation for Stmt interface.
func (p *Module) IsModuleStmt() bool { return true }

// Variant implementation for Stmt interface.
func (p *Module) Variant() string { return "module" }

// Compile-time interface checks
var (
	_ Id      = (*PlainId)(nil)
	_ Id      = (*BusIndexId)(nil)
	_ Id      = (*BusSliceId)(nil)
	_ NetExpr = (*IdExpr)(nil)
	_ NetExpr = (*ConcatExpr)(nil)
	_ NetExpr = (*ConstantExpr)(nil)
	_ Stmt    = (*Dcl)(nil)
	_ Stmt    = (*Dcls)(nil)
	_ Stmt    = (*Instance)(nil)
	_ Stmt    = (*Assign)(nil)
	_ Stmt    = (*Module)(nil)
)

// Names which are not simple identifiers, or which are keywords, must be
// escaped.
func escape(name string) string {
	if isSimpleIdentifier(name) && !slices.Contains(keywords, name) {
		return name
	}
	//
	return "\\" + name + " "
}

func isSimpleIdentifier(name string) bool {
	for i, c := range name {
		switch {
		case c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
		case i > 0 && (c == '$' || (c >= '0' && c <= '9')):
		default:
			return false
		}
	}
	//
	return name != ""
}
