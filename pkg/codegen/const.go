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

// G10 opcode word, 16 bits little-endian, followed by a 0/1/2/4 byte
// little-endian immediate:
//
//   [15:10] operation
//   [9:8]   size class (0 = byte, 1 = word, 2 = dword)
//   [7:4]   register nibble A (destination)
//   [3:0]   register nibble B / condition code / group selector
//
// These values are ISA reference data; previously assembled programs
// depend on the exact layout.
const (
	OP_SYS   uint16 = 0x00 // control group, selector in nibble B
	OP_MOVE  uint16 = 0x01
	OP_PUSH  uint16 = 0x02
	OP_POP   uint16 = 0x03
	OP_MOVSP uint16 = 0x04 // sp transfer, direction in nibble B

	OP_LD  uint16 = 0x05 // absolute, 32-bit address immediate
	OP_ST  uint16 = 0x06
	OP_LDQ uint16 = 0x07 // quick, 16-bit address immediate
	OP_STQ uint16 = 0x08
	OP_IN  uint16 = 0x09 // port, 8-bit immediate
	OP_OUT uint16 = 0x0A
	OP_LDI uint16 = 0x0B // immediate sized by destination register

	OP_BCC uint16 = 0x0C // branch, cc in nibble B, 32-bit target
	OP_BR  uint16 = 0x0D // relative branch, cc in nibble B, 16-bit disp
	OP_SCC uint16 = 0x0E // call, cc in nibble B, 32-bit target
	OP_RCC uint16 = 0x0F // return, cc in nibble B

	OP_ADD uint16 = 0x10
	OP_SUB uint16 = 0x11
	OP_MUL uint16 = 0x12
	OP_DIV uint16 = 0x13
	OP_MOD uint16 = 0x14
	OP_AND uint16 = 0x15
	OP_OR  uint16 = 0x16
	OP_XOR uint16 = 0x17
	OP_CMP uint16 = 0x18

	OP_NEG uint16 = 0x19
	OP_NOT uint16 = 0x1A

	OP_BSET uint16 = 0x1C // bit number in 8-bit immediate
	OP_BCLR uint16 = 0x1D
	OP_BTST uint16 = 0x1E

	// Immediate ALU forms: register form | 0x10, destination-sized
	// immediate
	OP_ADDI uint16 = 0x20
	OP_SUBI uint16 = 0x21
	OP_MULI uint16 = 0x22
	OP_DIVI uint16 = 0x23
	OP_MODI uint16 = 0x24
	OP_ANDI uint16 = 0x25
	OP_ORI  uint16 = 0x26
	OP_XORI uint16 = 0x27
	OP_CMPI uint16 = 0x28

	OP_SHL uint16 = 0x30
	OP_SHR uint16 = 0x31
	OP_ASR uint16 = 0x32
	OP_ROL uint16 = 0x33
	OP_ROR uint16 = 0x34

	// Immediate shift forms: register form | 0x08, 8-bit count
	OP_SHLI uint16 = 0x38
	OP_SHRI uint16 = 0x39
	OP_ASRI uint16 = 0x3A
	OP_ROLI uint16 = 0x3B
	OP_RORI uint16 = 0x3C
)

const (
	// Control group selectors (OP_SYS nibble B)
	SYS_NOP uint16 = iota
	SYS_HALT
	SYS_WAIT
	SYS_SEI
	SYS_CLI
	SYS_RTI
)

const (
	// SP transfer directions (OP_MOVSP nibble B)
	MOVSP_LOAD  uint16 = 0 // ldsp: sp -> register
	MOVSP_STORE uint16 = 1 // stsp: register -> sp
)

const (
	// Address space layout. Bit 31 is the sole code/data region
	// discriminator.
	REGION_BIT uint32 = 0x80000000

	VECTOR_TABLE_BASE uint32 = 0x00000000
	VECTOR_SLOT_SIZE  uint32 = 8
	VECTOR_COUNT      int64  = 32

	DEFAULT_CODE_BASE uint32 = 0x00000200
	DEFAULT_DATA_BASE uint32 = 0x80000000
)

// Symbols that mark an image as directly runnable.
var entryPointNames = []string{"start", "_start", "main"}
