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
	"github.com/g10cpu/gog10/pkg/encoding"
)

type ValueType uint

const (
	VALUE_NONE ValueType = iota
	VALUE_INT
	VALUE_FIXED
	VALUE_ADDR
	VALUE_STRING
)

// Value is the tagged union produced by expression evaluation. Addresses
// stay distinct from plain integers so that directives can tell an
// already-resolved location apart from a literal that still needs range
// checking.
type Value struct {
	Type  ValueType
	Int   int64
	Fixed uint64
	Addr  uint32
	Str   string
}

func IntValue(v int64) Value {
	return Value{Type: VALUE_INT, Int: v}
}

func FixedValue(v uint64) Value {
	return Value{Type: VALUE_FIXED, Fixed: v}
}

func AddrValue(v uint32) Value {
	return Value{Type: VALUE_ADDR, Addr: v}
}

func StringValue(v string) Value {
	return Value{Type: VALUE_STRING, Str: v}
}

func (v Value) TypeName() string {
	switch v.Type {
	case VALUE_INT:
		return "Integer"
	case VALUE_FIXED:
		return "Fixed"
	case VALUE_ADDR:
		return "Address"
	case VALUE_STRING:
		return "String"
	default:
		return "None"
	}
}

// CoerceInt converts the value to a signed 64-bit integer. Fixed-point
// values truncate to their signed integer half; addresses widen.
func (v Value) CoerceInt(pos ast.Cursor) (int64, error) {
	switch v.Type {
	case VALUE_INT:
		return v.Int, nil
	case VALUE_FIXED:
		return encoding.FixedInt(v.Fixed), nil
	case VALUE_ADDR:
		return int64(v.Addr), nil
	default:
		return 0, &CoercionError{pos, "Integer", v.TypeName()}
	}
}

// CoerceAddr converts the value to an unsigned 32-bit address. Integers
// must fit unsigned 32 bits; fixed-point values truncate to their integer
// half first.
func (v Value) CoerceAddr(pos ast.Cursor) (uint32, error) {
	switch v.Type {
	case VALUE_ADDR:
		return v.Addr, nil
	case VALUE_INT:
		if v.Int < 0 || v.Int > 0xFFFFFFFF {
			return 0, &ValueRangeError{pos, "0..4294967295", v.Int}
		}

		return uint32(v.Int), nil
	case VALUE_FIXED:
		integer := encoding.FixedInt(v.Fixed)

		if integer < 0 {
			return 0, &ValueRangeError{pos, "0..4294967295", integer}
		}

		return uint32(integer), nil
	default:
		return 0, &CoercionError{pos, "Address", v.TypeName()}
	}
}
