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
	"github.com/g10cpu/gog10/pkg/ast"
)

// evalExpr reduces an expression tree to a Value. Plain identifiers
// resolve against the label table first and the extern set second;
// extern references evaluate to zero, since a relocation supplies the
// real value at link time.
func (g *generator) evalExpr(e ast.Expr) (Value, error) {
	switch expr := e.(type) {
	case *ast.IntLit:
		return IntValue(expr.Value), nil

	case *ast.FixedLit:
		return FixedValue(expr.Value), nil

	case *ast.StringLit:
		return StringValue(expr.Value), nil

	case *ast.Ident:
		if label, exists := g.labels[expr.Name]; exists {
			return AddrValue(label.addr), nil
		}

		if _, exists := g.externs[expr.Name]; exists {
			return IntValue(0), nil
		}

		return Value{}, &UndefinedIdentifierError{expr.Position, expr.Name}

	case *ast.VarRef:
		value, err := g.env.Get(expr.Name)

		if err != nil {
			return Value{}, &SourceError{expr.Position, err}
		}

		return IntValue(value), nil

	case *ast.Unary:
		return g.evalUnary(expr)

	case *ast.Binary:
		return g.evalBinary(expr)

	case *ast.Group:
		return g.evalExpr(expr.Expr)

	default:
		return Value{}, &InternalError{
			e.Pos(), "unknown expression node",
		}
	}
}

func (g *generator) evalUnary(expr *ast.Unary) (Value, error) {
	inner, err := g.evalExpr(expr.Expr)

	if err != nil {
		return Value{}, err
	}

	operand, err := inner.CoerceInt(expr.Position)

	if err != nil {
		return Value{}, err
	}

	switch expr.Op {
	case ast.UNARY_NEG:
		return IntValue(-operand), nil
	case ast.UNARY_PLUS:
		return IntValue(operand), nil
	case ast.UNARY_NOT:
		return IntValue(^operand), nil
	case ast.UNARY_LOGNOT:
		if operand == 0 {
			return IntValue(1), nil
		}

		return IntValue(0), nil
	default:
		return Value{}, &InternalError{
			expr.Position, "unknown unary operator",
		}
	}
}

func (g *generator) evalBinary(expr *ast.Binary) (Value, error) {
	left, err := g.evalExpr(expr.Left)

	if err != nil {
		return Value{}, err
	}

	right, err := g.evalExpr(expr.Right)

	if err != nil {
		return Value{}, err
	}

	lhs, err := left.CoerceInt(expr.Position)

	if err != nil {
		return Value{}, err
	}

	rhs, err := right.CoerceInt(expr.Position)

	if err != nil {
		return Value{}, err
	}

	switch expr.Op {
	case ast.BINARY_ADD:
		return IntValue(lhs + rhs), nil

	case ast.BINARY_SUB:
		return IntValue(lhs - rhs), nil

	case ast.BINARY_MUL:
		return IntValue(lhs * rhs), nil

	case ast.BINARY_DIV:
		if rhs == 0 {
			return Value{}, &DivisionByZeroError{expr.Position}
		}

		return IntValue(lhs / rhs), nil

	case ast.BINARY_MOD:
		if rhs == 0 {
			return Value{}, &DivisionByZeroError{expr.Position}
		}

		return IntValue(lhs % rhs), nil

	case ast.BINARY_POW:
		if rhs < 0 {
			return Value{}, &NegativeExponentError{expr.Position, rhs}
		}

		return IntValue(ipow(lhs, rhs)), nil

	case ast.BINARY_AND:
		return IntValue(lhs & rhs), nil

	case ast.BINARY_OR:
		return IntValue(lhs | rhs), nil

	case ast.BINARY_XOR:
		return IntValue(lhs ^ rhs), nil

	case ast.BINARY_SHL:
		if rhs < 0 || rhs > 63 {
			return Value{}, &ShiftRangeError{expr.Position, rhs}
		}

		return IntValue(lhs << uint(rhs)), nil

	case ast.BINARY_SHR:
		if rhs < 0 || rhs > 63 {
			return Value{}, &ShiftRangeError{expr.Position, rhs}
		}

		return IntValue(lhs >> uint(rhs)), nil

	case ast.BINARY_EQ:
		return boolValue(lhs == rhs), nil

	case ast.BINARY_NE:
		return boolValue(lhs != rhs), nil

	case ast.BINARY_LT:
		return boolValue(lhs < rhs), nil

	case ast.BINARY_GT:
		return boolValue(lhs > rhs), nil

	case ast.BINARY_LE:
		return boolValue(lhs <= rhs), nil

	case ast.BINARY_GE:
		return boolValue(lhs >= rhs), nil

	case ast.BINARY_LOGAND:
		return boolValue(lhs != 0 && rhs != 0), nil

	case ast.BINARY_LOGOR:
		return boolValue(lhs != 0 || rhs != 0), nil

	default:
		return Value{}, &InternalError{
			expr.Position, "unknown binary operator",
		}
	}
}

func boolValue(b bool) Value {
	if b {
		return IntValue(1)
	}

	return IntValue(0)
}

// ipow raises base to a non-negative exponent by squaring.
func ipow(base, exponent int64) int64 {
	var result int64 = 1

	for exponent > 0 {
		if exponent&1 == 1 {
			result *= base
		}

		base *= base
		exponent >>= 1
	}

	return result
}

// externRef walks an expression tree and reports the extern symbol it
// references, if any. Emission sites use this to decide between writing
// an evaluated value and writing a zero placeholder plus a relocation.
// Identifiers shadowed by labels do not count as extern references.
func (g *generator) externRef(e ast.Expr) (string, int) {
	switch expr := e.(type) {
	case *ast.Ident:
		if _, exists := g.labels[expr.Name]; exists {
			return "", 0
		}

		if _, exists := g.externs[expr.Name]; exists {
			return expr.Name, 1
		}

		return "", 0

	case *ast.Unary:
		return g.externRef(expr.Expr)

	case *ast.Binary:
		lname, lcount := g.externRef(expr.Left)
		rname, rcount := g.externRef(expr.Right)

		if lcount == 0 {
			return rname, rcount
		}

		if rcount == 0 {
			return lname, lcount
		}

		return lname, lcount + rcount

	case *ast.Group:
		return g.externRef(expr.Expr)

	default:
		return "", 0
	}
}
