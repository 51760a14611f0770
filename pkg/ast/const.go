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

package ast

const (
	// Register size classes, encoded in bits [9:8] of the opcode word
	SIZE_BYTE SizeClass = iota
	SIZE_WORD
	SIZE_DWORD
)

const (
	// Condition codes, encoded in the low nibble of the opcode word
	COND_AL ConditionCode = iota
	COND_EQ
	COND_NE
	COND_CS
	COND_CC
	COND_MI
	COND_PL
	COND_VS
	COND_VC
	COND_HI
	COND_LS
	COND_GE
	COND_LT
	COND_GT
	COND_LE
)

const (
	// G10 Mnemonics
	MNEMONIC_INVALID Mnemonic = iota
	MNEMONIC_NOP
	MNEMONIC_HALT
	MNEMONIC_WAIT
	MNEMONIC_SEI
	MNEMONIC_CLI
	MNEMONIC_RTI
	MNEMONIC_MOVE
	MNEMONIC_PUSH
	MNEMONIC_POP
	MNEMONIC_LDSP
	MNEMONIC_STSP
	MNEMONIC_LD
	MNEMONIC_ST
	MNEMONIC_LDQ
	MNEMONIC_STQ
	MNEMONIC_IN
	MNEMONIC_OUT
	MNEMONIC_LDI
	MNEMONIC_B
	MNEMONIC_BR
	MNEMONIC_CALL
	MNEMONIC_RET
	MNEMONIC_ADD
	MNEMONIC_SUB
	MNEMONIC_MUL
	MNEMONIC_DIV
	MNEMONIC_MOD
	MNEMONIC_AND
	MNEMONIC_OR
	MNEMONIC_XOR
	MNEMONIC_CMP
	MNEMONIC_NEG
	MNEMONIC_NOT
	MNEMONIC_SHL
	MNEMONIC_SHR
	MNEMONIC_ASR
	MNEMONIC_ROL
	MNEMONIC_ROR
	MNEMONIC_BSET
	MNEMONIC_BCLR
	MNEMONIC_BTST
)

const (
	// Data directive element widths, in bytes
	DATA_BYTE  DataWidth = 1
	DATA_WORD  DataWidth = 2
	DATA_DWORD DataWidth = 4
)

const (
	// Binary expression operators
	BINARY_INVALID BinaryOp = iota
	BINARY_ADD
	BINARY_SUB
	BINARY_MUL
	BINARY_DIV
	BINARY_MOD
	BINARY_POW
	BINARY_AND
	BINARY_OR
	BINARY_XOR
	BINARY_SHL
	BINARY_SHR
	BINARY_EQ
	BINARY_NE
	BINARY_LT
	BINARY_GT
	BINARY_LE
	BINARY_GE
	BINARY_LOGAND
	BINARY_LOGOR
)

const (
	// Unary expression operators
	UNARY_INVALID UnaryOp = iota
	UNARY_NEG
	UNARY_PLUS
	UNARY_NOT
	UNARY_LOGNOT
)

const (
	// Assignment operators
	ASSIGN_INVALID AssignOp = iota
	ASSIGN_SET
	ASSIGN_ADD
	ASSIGN_SUB
	ASSIGN_MUL
	ASSIGN_DIV
	ASSIGN_MOD
	ASSIGN_POW
	ASSIGN_AND
	ASSIGN_OR
	ASSIGN_XOR
	ASSIGN_SHL
	ASSIGN_SHR
)
