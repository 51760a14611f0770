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
	"strconv"

	"github.com/g10cpu/gog10/pkg/ast"
	"github.com/g10cpu/gog10/pkg/encoding"
	"github.com/g10cpu/gog10/pkg/object"
)

type immKind uint

const (
	IMM_NONE   immKind = iota
	IMM_VALUE          // destination-sized integer (ldi, immediate ALU)
	IMM_ADDR           // 32-bit absolute address (ld/st, b, call)
	IMM_ADDR16         // 16-bit quick address (ldq/stq)
	IMM_PORT           // 8-bit port number (in/out)
	IMM_COUNT          // shift count, 0..31
	IMM_BIT            // bit number, 0..(register width - 1)
	IMM_REL16          // 16-bit pc-relative branch displacement
)

// instrInfo is the analyzed form of one instruction: the complete opcode
// word, the immediate width, and how the immediate (if any) is resolved.
// Both the layout pass (size only) and the emission pass (bytes) are
// derived from this single analysis, so their address arithmetic cannot
// diverge.
type instrInfo struct {
	word     uint16
	immWidth uint32
	immKind  immKind
	immExpr  ast.Expr
	immPos   ast.Cursor
	destSize ast.SizeClass
}

func opword(op uint16, size ast.SizeClass, ra, rb uint16) uint16 {
	return op<<10 | uint16(size)<<8 | ra<<4 | rb
}

func sizeBytes(size ast.SizeClass) uint32 {
	return 1 << size
}

// InstructionSize returns the encoded size of an instruction in bytes
// without emitting anything. The layout pass advances the location
// cursor by exactly this amount.
func InstructionSize(n *ast.Instruction) (uint32, error) {
	info, err := analyzeInstruction(n)

	if err != nil {
		return 0, err
	}

	return 2 + info.immWidth, nil
}

func expectOperands(n *ast.Instruction, count int) error {
	if len(n.Operands) != count {
		return &OperandCountError{n.Position, count, len(n.Operands)}
	}

	return nil
}

func regOperand(n *ast.Instruction, index int) (*ast.RegOperand, error) {
	if reg, ok := n.Operands[index].(*ast.RegOperand); ok {
		return reg, nil
	}

	return nil, &OperandTypeError{
		n.Operands[index].Pos(), "Register", "Expression",
	}
}

func exprOperand(n *ast.Instruction, index int) (*ast.ExprOperand, error) {
	if expr, ok := n.Operands[index].(*ast.ExprOperand); ok {
		return expr, nil
	}

	return nil, &OperandTypeError{
		n.Operands[index].Pos(), "Expression", "Register",
	}
}

// analyzeInstruction validates operand shapes and produces the opcode
// word and immediate description for one instruction.
func analyzeInstruction(n *ast.Instruction) (instrInfo, error) {
	var info instrInfo

	switch n.Op {
	// Control group: no operands, selector in nibble B
	case ast.MNEMONIC_NOP,
		ast.MNEMONIC_HALT,
		ast.MNEMONIC_WAIT,
		ast.MNEMONIC_SEI,
		ast.MNEMONIC_CLI,
		ast.MNEMONIC_RTI:
		if err := expectOperands(n, 0); err != nil {
			return info, err
		}

		var sel uint16

		switch n.Op {
		case ast.MNEMONIC_NOP:
			sel = SYS_NOP
		case ast.MNEMONIC_HALT:
			sel = SYS_HALT
		case ast.MNEMONIC_WAIT:
			sel = SYS_WAIT
		case ast.MNEMONIC_SEI:
			sel = SYS_SEI
		case ast.MNEMONIC_CLI:
			sel = SYS_CLI
		case ast.MNEMONIC_RTI:
			sel = SYS_RTI
		}

		info.word = opword(OP_SYS, 0, 0, sel)

	// Conditional return: no operands, cc in nibble B
	case ast.MNEMONIC_RET:
		if err := expectOperands(n, 0); err != nil {
			return info, err
		}

		info.word = opword(OP_RCC, 0, 0, uint16(n.Cond))

	// Register move
	case ast.MNEMONIC_MOVE:
		if err := expectOperands(n, 2); err != nil {
			return info, err
		}

		rd, err := regOperand(n, 0)

		if err != nil {
			return info, err
		}

		rs, err := regOperand(n, 1)

		if err != nil {
			return info, err
		}

		if rd.Size != rs.Size {
			return info, &RegisterSizeError{n.Position}
		}

		info.word = opword(
			OP_MOVE, rd.Size, uint16(rd.Index), uint16(rs.Index),
		)

	// Stack group: one register
	case ast.MNEMONIC_PUSH,
		ast.MNEMONIC_POP,
		ast.MNEMONIC_LDSP,
		ast.MNEMONIC_STSP:
		if err := expectOperands(n, 1); err != nil {
			return info, err
		}

		reg, err := regOperand(n, 0)

		if err != nil {
			return info, err
		}

		switch n.Op {
		case ast.MNEMONIC_PUSH:
			info.word = opword(OP_PUSH, reg.Size, uint16(reg.Index), 0)
		case ast.MNEMONIC_POP:
			info.word = opword(OP_POP, reg.Size, uint16(reg.Index), 0)
		case ast.MNEMONIC_LDSP:
			info.word = opword(
				OP_MOVSP, reg.Size, uint16(reg.Index), MOVSP_LOAD,
			)
		case ast.MNEMONIC_STSP:
			info.word = opword(
				OP_MOVSP, reg.Size, uint16(reg.Index), MOVSP_STORE,
			)
		}

	// ALU unary: one register
	case ast.MNEMONIC_NEG, ast.MNEMONIC_NOT:
		if err := expectOperands(n, 1); err != nil {
			return info, err
		}

		reg, err := regOperand(n, 0)

		if err != nil {
			return info, err
		}

		op := OP_NEG

		if n.Op == ast.MNEMONIC_NOT {
			op = OP_NOT
		}

		info.word = opword(op, reg.Size, uint16(reg.Index), 0)

	// ALU binary: register form or destination-sized immediate form
	case ast.MNEMONIC_ADD,
		ast.MNEMONIC_SUB,
		ast.MNEMONIC_MUL,
		ast.MNEMONIC_DIV,
		ast.MNEMONIC_MOD,
		ast.MNEMONIC_AND,
		ast.MNEMONIC_OR,
		ast.MNEMONIC_XOR,
		ast.MNEMONIC_CMP:
		if err := expectOperands(n, 2); err != nil {
			return info, err
		}

		rd, err := regOperand(n, 0)

		if err != nil {
			return info, err
		}

		var op uint16

		switch n.Op {
		case ast.MNEMONIC_ADD:
			op = OP_ADD
		case ast.MNEMONIC_SUB:
			op = OP_SUB
		case ast.MNEMONIC_MUL:
			op = OP_MUL
		case ast.MNEMONIC_DIV:
			op = OP_DIV
		case ast.MNEMONIC_MOD:
			op = OP_MOD
		case ast.MNEMONIC_AND:
			op = OP_AND
		case ast.MNEMONIC_OR:
			op = OP_OR
		case ast.MNEMONIC_XOR:
			op = OP_XOR
		case ast.MNEMONIC_CMP:
			op = OP_CMP
		}

		switch src := n.Operands[1].(type) {
		case *ast.RegOperand:
			if rd.Size != src.Size {
				return info, &RegisterSizeError{n.Position}
			}

			info.word = opword(
				op, rd.Size, uint16(rd.Index), uint16(src.Index),
			)

		case *ast.ExprOperand:
			info.word = opword(op|0x10, rd.Size, uint16(rd.Index), 0)
			info.immWidth = sizeBytes(rd.Size)
			info.immKind = IMM_VALUE
			info.immExpr = src.Expr
			info.immPos = src.Position
			info.destSize = rd.Size
		}

	// Shift/rotate: register form or 8-bit immediate count
	case ast.MNEMONIC_SHL,
		ast.MNEMONIC_SHR,
		ast.MNEMONIC_ASR,
		ast.MNEMONIC_ROL,
		ast.MNEMONIC_ROR:
		if err := expectOperands(n, 2); err != nil {
			return info, err
		}

		rd, err := regOperand(n, 0)

		if err != nil {
			return info, err
		}

		var op uint16

		switch n.Op {
		case ast.MNEMONIC_SHL:
			op = OP_SHL
		case ast.MNEMONIC_SHR:
			op = OP_SHR
		case ast.MNEMONIC_ASR:
			op = OP_ASR
		case ast.MNEMONIC_ROL:
			op = OP_ROL
		case ast.MNEMONIC_ROR:
			op = OP_ROR
		}

		switch src := n.Operands[1].(type) {
		case *ast.RegOperand:
			if rd.Size != src.Size {
				return info, &RegisterSizeError{n.Position}
			}

			info.word = opword(
				op, rd.Size, uint16(rd.Index), uint16(src.Index),
			)

		case *ast.ExprOperand:
			info.word = opword(op|0x08, rd.Size, uint16(rd.Index), 0)
			info.immWidth = 1
			info.immKind = IMM_COUNT
			info.immExpr = src.Expr
			info.immPos = src.Position
			info.destSize = rd.Size
		}

	// Load/store, absolute addressing: 32-bit address immediate
	case ast.MNEMONIC_LD, ast.MNEMONIC_ST:
		op := OP_LD

		if n.Op == ast.MNEMONIC_ST {
			op = OP_ST
		}

		return analyzeRegImm(n, op, IMM_ADDR, 4)

	// Load/store, quick addressing: 16-bit address immediate
	case ast.MNEMONIC_LDQ, ast.MNEMONIC_STQ:
		op := OP_LDQ

		if n.Op == ast.MNEMONIC_STQ {
			op = OP_STQ
		}

		return analyzeRegImm(n, op, IMM_ADDR16, 2)

	// Port addressing: 8-bit port immediate
	case ast.MNEMONIC_IN, ast.MNEMONIC_OUT:
		op := OP_IN

		if n.Op == ast.MNEMONIC_OUT {
			op = OP_OUT
		}

		return analyzeRegImm(n, op, IMM_PORT, 1)

	// Load immediate: destination-sized immediate
	case ast.MNEMONIC_LDI:
		if err := expectOperands(n, 2); err != nil {
			return info, err
		}

		rd, err := regOperand(n, 0)

		if err != nil {
			return info, err
		}

		src, err := exprOperand(n, 1)

		if err != nil {
			return info, err
		}

		info.word = opword(OP_LDI, rd.Size, uint16(rd.Index), 0)
		info.immWidth = sizeBytes(rd.Size)
		info.immKind = IMM_VALUE
		info.immExpr = src.Expr
		info.immPos = src.Position
		info.destSize = rd.Size

	// Single-bit set/clear/test: 8-bit bit-number immediate
	case ast.MNEMONIC_BSET, ast.MNEMONIC_BCLR, ast.MNEMONIC_BTST:
		var op uint16

		switch n.Op {
		case ast.MNEMONIC_BSET:
			op = OP_BSET
		case ast.MNEMONIC_BCLR:
			op = OP_BCLR
		case ast.MNEMONIC_BTST:
			op = OP_BTST
		}

		return analyzeRegImm(n, op, IMM_BIT, 1)

	// Branch and call: cc in nibble B, 32-bit absolute target
	case ast.MNEMONIC_B, ast.MNEMONIC_CALL:
		if err := expectOperands(n, 1); err != nil {
			return info, err
		}

		target, err := exprOperand(n, 0)

		if err != nil {
			return info, err
		}

		op := OP_BCC

		if n.Op == ast.MNEMONIC_CALL {
			op = OP_SCC
		}

		info.word = opword(op, 0, 0, uint16(n.Cond))
		info.immWidth = 4
		info.immKind = IMM_ADDR
		info.immExpr = target.Expr
		info.immPos = target.Position

	// Short branch: cc in nibble B, 16-bit relative displacement
	case ast.MNEMONIC_BR:
		if err := expectOperands(n, 1); err != nil {
			return info, err
		}

		target, err := exprOperand(n, 0)

		if err != nil {
			return info, err
		}

		info.word = opword(OP_BR, 0, 0, uint16(n.Cond))
		info.immWidth = 2
		info.immKind = IMM_REL16
		info.immExpr = target.Expr
		info.immPos = target.Position

	default:
		return info, &InternalError{n.Position, "unknown mnemonic"}
	}

	return info, nil
}

// analyzeRegImm handles the register-plus-immediate families that share
// the same operand shape: ld/st, ldq/stq, in/out, bset/bclr/btst.
func analyzeRegImm(
	n *ast.Instruction, op uint16, kind immKind, width uint32,
) (instrInfo, error) {
	var info instrInfo

	if err := expectOperands(n, 2); err != nil {
		return info, err
	}

	reg, err := regOperand(n, 0)

	if err != nil {
		return info, err
	}

	src, err := exprOperand(n, 1)

	if err != nil {
		return info, err
	}

	info.word = opword(op, reg.Size, uint16(reg.Index), 0)
	info.immWidth = width
	info.immKind = kind
	info.immExpr = src.Expr
	info.immPos = src.Position
	info.destSize = reg.Size

	return info, nil
}

// encodeInstruction evaluates the instruction's operand expressions and
// returns its bytes. Immediates that reference an extern symbol are
// written as zero placeholders and recorded as relocations against the
// current section. pc is the address of the instruction's first byte.
func (g *generator) encodeInstruction(n *ast.Instruction, pc uint32) ([]byte, error) {
	info, err := analyzeInstruction(n)

	if err != nil {
		return nil, err
	}

	buf := encoding.AppendWord(nil, info.word)

	if info.immWidth == 0 {
		return buf, nil
	}

	name, count := g.externRef(info.immExpr)

	if count > 1 {
		return nil, &MultipleExternError{info.immPos}
	}

	if count == 1 {
		return g.encodeExternImm(info, name, buf)
	}

	value, err := g.evalExpr(info.immExpr)

	if err != nil {
		return nil, err
	}

	imm, err := resolveImmediate(info, value, pc)

	if err != nil {
		return nil, err
	}

	return appendImmediate(buf, imm, info.immWidth), nil
}

// encodeExternImm writes a zero placeholder for an immediate whose value
// is not known until link time and records the matching relocation. The
// evaluated expression, with the extern standing in as zero, becomes the
// relocation addend.
func (g *generator) encodeExternImm(
	info instrInfo, name string, buf []byte,
) ([]byte, error) {
	switch info.immKind {
	case IMM_COUNT, IMM_BIT:
		return nil, &OperandTypeError{
			info.immPos, "Constant expression", "Extern reference",
		}
	}

	addend, err := g.evalExpr(info.immExpr)

	if err != nil {
		return nil, err
	}

	value, err := addend.CoerceInt(info.immPos)

	if err != nil {
		return nil, err
	}

	var kind object.RelocKind

	switch {
	case info.immKind == IMM_REL16:
		kind = object.RELOC_REL16
	case info.immWidth == 1:
		kind = object.RELOC_ABS8
	case info.immWidth == 2:
		kind = object.RELOC_ABS16
	default:
		kind = object.RELOC_ABS32
	}

	section := g.obj.Section(g.section)

	g.obj.AddRelocation(object.Relocation{
		Section: g.section,
		Offset:  uint32(len(section.Data)) + 2,
		Symbol:  g.externs[name],
		Kind:    kind,
		Addend:  value,
	})

	return append(buf, make([]byte, info.immWidth)...), nil
}

// resolveImmediate range-checks an evaluated immediate according to its
// kind and returns the bits to write.
func resolveImmediate(info instrInfo, value Value, pc uint32) (int64, error) {
	switch info.immKind {
	case IMM_VALUE:
		imm, err := value.CoerceInt(info.immPos)

		if err != nil {
			return 0, err
		}

		if err := checkImmWidth(imm, info.immWidth, info.immPos); err != nil {
			return 0, err
		}

		return imm, nil

	case IMM_ADDR:
		addr, err := value.CoerceAddr(info.immPos)

		if err != nil {
			return 0, err
		}

		return int64(addr), nil

	case IMM_ADDR16:
		addr, err := value.CoerceAddr(info.immPos)

		if err != nil {
			return 0, err
		}

		if addr > 0xFFFF {
			return 0, &ValueRangeError{
				info.immPos, "0..65535", int64(addr),
			}
		}

		return int64(addr), nil

	case IMM_PORT:
		imm, err := value.CoerceInt(info.immPos)

		if err != nil {
			return 0, err
		}

		if imm < 0 || imm > 0xFF {
			return 0, &ValueRangeError{info.immPos, "0..255", imm}
		}

		return imm, nil

	case IMM_COUNT:
		imm, err := value.CoerceInt(info.immPos)

		if err != nil {
			return 0, err
		}

		if imm < 0 || imm > 31 {
			return 0, &ValueRangeError{info.immPos, "0..31", imm}
		}

		return imm, nil

	case IMM_BIT:
		imm, err := value.CoerceInt(info.immPos)

		if err != nil {
			return 0, err
		}

		limit := int64(8*sizeBytes(info.destSize)) - 1

		if imm < 0 || imm > limit {
			return 0, &ValueRangeError{
				info.immPos,
				"0.." + strconv.FormatInt(limit, 10),
				imm,
			}
		}

		return imm, nil

	case IMM_REL16:
		addr, err := value.CoerceAddr(info.immPos)

		if err != nil {
			return 0, err
		}

		// Displacement is relative to the end of the instruction
		disp := int64(addr) - int64(pc) - 4

		if disp < -32768 || disp > 32767 {
			return 0, &BranchRangeError{info.immPos, disp}
		}

		return disp, nil

	default:
		return 0, &InternalError{info.immPos, "unknown immediate kind"}
	}
}

// checkImmWidth verifies that a destination-sized immediate fits its
// width, accepting both the signed and unsigned interpretation.
func checkImmWidth(value int64, width uint32, pos ast.Cursor) error {
	var lo, hi int64

	switch width {
	case 1:
		lo, hi = -0x80, 0xFF
	case 2:
		lo, hi = -0x8000, 0xFFFF
	default:
		lo, hi = -0x80000000, 0xFFFFFFFF
	}

	if value < lo || value > hi {
		return &ValueRangeError{
			pos,
			strconv.FormatInt(lo, 10) + ".." + strconv.FormatInt(hi, 10),
			value,
		}
	}

	return nil
}

func appendImmediate(buf []byte, value int64, width uint32) []byte {
	switch width {
	case 1:
		return append(buf, byte(value))
	case 2:
		return encoding.AppendWord(buf, uint16(value))
	default:
		return encoding.AppendDword(buf, uint32(value))
	}
}
