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

package codegen

import (
	"fmt"
	"strings"

	"github.com/g10cpu/gog10/pkg/ast"
)

// PositionedError is implemented by errors that can point at the source
// text that caused them.
type PositionedError interface {
	GetPosition() ast.Cursor
}

// PhaseError wraps any failure with the name of the phase it aborted.
type PhaseError struct {
	Phase string
	Err   error
}

func (err *PhaseError) Error() string {
	return fmt.Sprintf("%s: %s", err.Phase, err.Err)
}

func (err *PhaseError) Unwrap() error {
	return err.Err
}

func (err *PhaseError) GetPosition() ast.Cursor {
	if positioned, ok := err.Err.(PositionedError); ok {
		return positioned.GetPosition()
	}

	return ast.Cursor{}
}

// InternalError reports a disagreement between the layout and emission
// passes. It travels the same channel as user errors but is a bug in the
// generator, never in the source program.
type InternalError struct {
	Position ast.Cursor
	Message  string
}

func (err *InternalError) GetPosition() ast.Cursor {
	return err.Position
}

func (err *InternalError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: internal error: %s",
		err.Position.Line,
		err.Position.Column,
		err.Message,
	)
}

type RedefinedLabelError struct {
	Position ast.Cursor
	Received string
}

func (err *RedefinedLabelError) GetPosition() ast.Cursor {
	return err.Position
}

func (err *RedefinedLabelError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Redefinition of label '%s'",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type UndefinedIdentifierError struct {
	Position ast.Cursor
	Received string
}

func (err *UndefinedIdentifierError) GetPosition() ast.Cursor {
	return err.Position
}

func (err *UndefinedIdentifierError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Undefined identifier '%s'",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type GlobalExternConflictError struct {
	Position ast.Cursor
	Received string
}

func (err *GlobalExternConflictError) GetPosition() ast.Cursor {
	return err.Position
}

func (err *GlobalExternConflictError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Symbol '%s' declared both global and extern",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type DuplicateGlobalError struct {
	Position ast.Cursor
	Received string
}

func (err *DuplicateGlobalError) GetPosition() ast.Cursor {
	return err.Position
}

func (err *DuplicateGlobalError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Duplicate global declaration '%s'",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type CoercionError struct {
	Position ast.Cursor
	Required string
	Received string
}

func (err *CoercionError) GetPosition() ast.Cursor {
	return err.Position
}

func (err *CoercionError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Value cannot be coerced\n\twant:%s\n\thave:%s",
		err.Position.Line,
		err.Position.Column,
		err.Required,
		err.Received,
	)
}

type DivisionByZeroError struct {
	Position ast.Cursor
}

func (err *DivisionByZeroError) GetPosition() ast.Cursor {
	return err.Position
}

func (err *DivisionByZeroError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Division by zero",
		err.Position.Line,
		err.Position.Column,
	)
}

type NegativeExponentError struct {
	Position ast.Cursor
	Received int64
}

func (err *NegativeExponentError) GetPosition() ast.Cursor {
	return err.Position
}

func (err *NegativeExponentError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Negative exponent\n\twant:>= 0\n\thave:%d",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type ShiftRangeError struct {
	Position ast.Cursor
	Received int64
}

func (err *ShiftRangeError) GetPosition() ast.Cursor {
	return err.Position
}

func (err *ShiftRangeError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Shift amount out of range\n\twant:0..63\n\thave:%d",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type OperandCountError struct {
	Position ast.Cursor
	Required int
	Received int
}

func (err *OperandCountError) GetPosition() ast.Cursor {
	return err.Position
}

func (err *OperandCountError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Invalid number of operands\n\twant:%d\n\thave:%d",
		err.Position.Line,
		err.Position.Column,
		err.Required,
		err.Received,
	)
}

type OperandTypeError struct {
	Position ast.Cursor
	Required string
	Received string
}

func (err *OperandTypeError) GetPosition() ast.Cursor {
	return err.Position
}

func (err *OperandTypeError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Invalid operand\n\twant:%s\n\thave:%s",
		err.Position.Line,
		err.Position.Column,
		err.Required,
		err.Received,
	)
}

type RegisterSizeError struct {
	Position ast.Cursor
}

func (err *RegisterSizeError) GetPosition() ast.Cursor {
	return err.Position
}

func (err *RegisterSizeError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Register operands must share a size class",
		err.Position.Line,
		err.Position.Column,
	)
}

type ValueRangeError struct {
	Position ast.Cursor
	Required string
	Received int64
}

func (err *ValueRangeError) GetPosition() ast.Cursor {
	return err.Position
}

func (err *ValueRangeError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Value out of range\n\twant:%s\n\thave:%d",
		err.Position.Line,
		err.Position.Column,
		err.Required,
		err.Received,
	)
}

type BranchRangeError struct {
	Position ast.Cursor
	Received int64
}

func (err *BranchRangeError) GetPosition() ast.Cursor {
	return err.Position
}

func (err *BranchRangeError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Branch target out of range\n\twant:-32768..32767\n\thave:%d",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type StringWidthError struct {
	Position ast.Cursor
}

func (err *StringWidthError) GetPosition() ast.Cursor {
	return err.Position
}

func (err *StringWidthError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: String values are only valid in byte directives",
		err.Position.Line,
		err.Position.Column,
	)
}

type ReserveCountError struct {
	Position ast.Cursor
	Received int64
}

func (err *ReserveCountError) GetPosition() ast.Cursor {
	return err.Position
}

func (err *ReserveCountError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Invalid reservation count\n\twant:>= 0\n\thave:%d",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type DataRegionError struct {
	Position ast.Cursor
}

func (err *DataRegionError) GetPosition() ast.Cursor {
	return err.Position
}

func (err *DataRegionError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Instructions are only valid in the code region",
		err.Position.Line,
		err.Position.Column,
	)
}

type ReserveExternError struct {
	Position ast.Cursor
}

func (err *ReserveExternError) GetPosition() ast.Cursor {
	return err.Position
}

func (err *ReserveExternError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Reservation counts cannot reference extern symbols",
		err.Position.Line,
		err.Position.Column,
	)
}

type MultipleExternError struct {
	Position ast.Cursor
}

func (err *MultipleExternError) GetPosition() ast.Cursor {
	return err.Position
}

func (err *MultipleExternError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Expression references multiple extern symbols",
		err.Position.Line,
		err.Position.Column,
	)
}

type SourceError struct {
	Position ast.Cursor
	Err      error
}

func (err *SourceError) GetPosition() ast.Cursor {
	return err.Position
}

func (err *SourceError) Unwrap() error {
	return err.Err
}

func (err *SourceError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: %s",
		err.Position.Line,
		err.Position.Column,
		err.Err,
	)
}

type UndefinedGlobalsError struct {
	Names []string
}

func (err *UndefinedGlobalsError) Error() string {
	return fmt.Sprintf(
		"Global symbols never defined: %s",
		strings.Join(err.Names, ", "),
	)
}
