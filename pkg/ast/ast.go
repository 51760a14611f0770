// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package ast defines the syntax tree consumed by the code generator. The
// tree is produced by pkg/parser and read, never mutated, by pkg/codegen.
package ast

type SizeClass uint
type ConditionCode uint
type Mnemonic uint
type DataWidth uint
type BinaryOp uint
type UnaryOp uint
type AssignOp uint

// Cursor locates a node within its source file. Byte, Size and LineByte
// allow diagnostics to re-read and underline the offending source text.
type Cursor struct {
	File     string
	Line     int
	Column   int
	Byte     int64
	Size     int64
	LineByte int64
}

// Program is an ordered list of top-level nodes.
type Program struct {
	Nodes []Node
}

type Node interface {
	Pos() Cursor
}

type Expr interface {
	Pos() Cursor
}

type Operand interface {
	Pos() Cursor
}

// ---------------------------------------------------------------------------
// Expressions

// IntLit is an integer or character literal.
type IntLit struct {
	Position Cursor
	Value    int64
}

// FixedLit is a 32.32 fixed-point literal: the upper 32 bits hold the
// integer part, the lower 32 bits the fraction. Negative literals are
// stored as the two's complement of the unsigned magnitude.
type FixedLit struct {
	Position Cursor
	Value    uint64
}

// StringLit is a quoted string literal.
type StringLit struct {
	Position Cursor
	Value    string
}

// Ident is a plain identifier, resolved against the label table and then
// the extern symbol set.
type Ident struct {
	Position Cursor
	Name     string
}

// VarRef is a $-prefixed name, resolved against the variable environment.
type VarRef struct {
	Position Cursor
	Name     string
}

type Unary struct {
	Position Cursor
	Op       UnaryOp
	Expr     Expr
}

type Binary struct {
	Position Cursor
	Op       BinaryOp
	Left     Expr
	Right    Expr
}

// Group is a parenthesized expression, transparent to evaluation.
type Group struct {
	Position Cursor
	Expr     Expr
}

func (e *IntLit) Pos() Cursor    { return e.Position }
func (e *FixedLit) Pos() Cursor  { return e.Position }
func (e *StringLit) Pos() Cursor { return e.Position }
func (e *Ident) Pos() Cursor     { return e.Position }
func (e *VarRef) Pos() Cursor    { return e.Position }
func (e *Unary) Pos() Cursor     { return e.Position }
func (e *Binary) Pos() Cursor    { return e.Position }
func (e *Group) Pos() Cursor     { return e.Position }

// ---------------------------------------------------------------------------
// Instruction operands

// RegOperand is a register reference: a 4-bit index plus the size class
// implied by the register's name prefix (b/w/r).
type RegOperand struct {
	Position Cursor
	Index    byte
	Size     SizeClass
}

// ExprOperand is an immediate or address operand.
type ExprOperand struct {
	Position Cursor
	Expr     Expr
}

func (o *RegOperand) Pos() Cursor  { return o.Position }
func (o *ExprOperand) Pos() Cursor { return o.Position }

// ---------------------------------------------------------------------------
// Top-level nodes

// Label defines a symbol at the current output address.
type Label struct {
	Position Cursor
	Name     string
}

// Instruction is a mnemonic with up to two operands and an optional
// condition code (branch, call and return only; COND_AL otherwise).
type Instruction struct {
	Position Cursor
	Op       Mnemonic
	Cond     ConditionCode
	Operands []Operand
}

// Origin sets the output address, switching region if address bit 31
// differs from the current cursor.
type Origin struct {
	Position Cursor
	Addr     Expr
}

// Region switches between the code (ROM) and data (RAM) address spaces,
// restoring that region's saved cursor.
type Region struct {
	Position Cursor
	Data     bool
}

// Vector moves the cursor to an interrupt vector slot in the code region.
type Vector struct {
	Position Cursor
	Number   Expr
}

// Data emits (code region) or reserves (data region) values of a fixed
// element width.
type Data struct {
	Position Cursor
	Width    DataWidth
	Values   []Expr
}

// Global declares a symbol as externally visible.
type Global struct {
	Position Cursor
	Name     string
}

// Extern declares a symbol as defined in another module.
type Extern struct {
	Position Cursor
	Name     string
}

// Declare introduces a variable (let) or constant (const) into the
// environment.
type Declare struct {
	Position Cursor
	Name     string
	Const    bool
	Value    Expr
}

// Assign updates an existing variable in the environment.
type Assign struct {
	Position Cursor
	Name     string
	Op       AssignOp
	Value    Expr
}

func (n *Label) Pos() Cursor       { return n.Position }
func (n *Instruction) Pos() Cursor { return n.Position }
func (n *Origin) Pos() Cursor      { return n.Position }
func (n *Region) Pos() Cursor      { return n.Position }
func (n *Vector) Pos() Cursor      { return n.Position }
func (n *Data) Pos() Cursor        { return n.Position }
func (n *Global) Pos() Cursor      { return n.Position }
func (n *Extern) Pos() Cursor      { return n.Position }
func (n *Declare) Pos() Cursor     { return n.Position }
func (n *Assign) Pos() Cursor      { return n.Position }
