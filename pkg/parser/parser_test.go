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

package parser_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/g10cpu/gog10/pkg/ast"
	"github.com/g10cpu/gog10/pkg/parser"
)

func parse(t *testing.T, input string) *ast.Program {
	t.Helper()

	prog, errs := parser.Parse(strings.NewReader(input), "test.g10")

	if len(errs) > 0 {
		t.Fatal(errs[0])
	}

	return prog
}

func parseNode(t *testing.T, input string) ast.Node {
	t.Helper()

	prog := parse(t, input)

	if len(prog.Nodes) != 1 {
		t.Fatalf(
			"Node count mismatch\nwant:%d\nhave:%d",
			1,
			len(prog.Nodes),
		)
	}

	return prog.Nodes[0]
}

type failCase struct {
	Name  string
	Input string
	Error error
}

func testParseFail(t *testing.T, test *failCase) {
	if test.Error == nil {
		panic("Fail case missing error value")
	}

	_, errs := parser.Parse(strings.NewReader(test.Input), "test.g10")

	if len(errs) == 0 {
		t.Fatalf(
			"%s produced error of incorrect type"+
				"\nwant:%T (test.Error)\nhave:<nil>",
			t.Name(),
			test.Error,
		)
	}

	if reflect.TypeOf(errs[0]) != reflect.TypeOf(test.Error) {
		t.Fatalf(
			"%s produced error of incorrect type"+
				"\nwant:%T (test.Error)\nhave:%T (%v)",
			t.Name(),
			test.Error,
			errs[0],
			errs[0],
		)
	}
}

func TestLabels(t *testing.T) {
	prog := parse(t, "loop:\tb.ne loop\n")

	if len(prog.Nodes) != 2 {
		t.Fatalf(
			"Node count mismatch\nwant:%d\nhave:%d",
			2,
			len(prog.Nodes),
		)
	}

	label, ok := prog.Nodes[0].(*ast.Label)

	if !ok || label.Name != "loop" {
		t.Fatalf("Expected label 'loop', have %+v", prog.Nodes[0])
	}

	instr, ok := prog.Nodes[1].(*ast.Instruction)

	if !ok {
		t.Fatalf("Expected instruction, have %+v", prog.Nodes[1])
	}

	if instr.Op != ast.MNEMONIC_B || instr.Cond != ast.COND_NE {
		t.Fatalf(
			"Instruction mismatch\nwant:op=%d cond=%d\nhave:op=%d cond=%d",
			ast.MNEMONIC_B,
			ast.COND_NE,
			instr.Op,
			instr.Cond,
		)
	}

	if len(instr.Operands) != 1 {
		t.Fatalf(
			"Operand count mismatch\nwant:%d\nhave:%d",
			1,
			len(instr.Operands),
		)
	}

	operand, ok := instr.Operands[0].(*ast.ExprOperand)

	if !ok {
		t.Fatalf("Expected expression operand, have %+v", instr.Operands[0])
	}

	if ident, ok := operand.Expr.(*ast.Ident); !ok || ident.Name != "loop" {
		t.Fatalf("Expected identifier 'loop', have %+v", operand.Expr)
	}
}

func TestRegisters(t *testing.T) {
	tests := []struct {
		Name  string
		Input string
		Index byte
		Size  ast.SizeClass
	}{
		{"Byte register", "\tpush b7\n", 7, ast.SIZE_BYTE},
		{"Word register", "\tpush w12\n", 12, ast.SIZE_WORD},
		{"Dword register", "\tpush r0\n", 0, ast.SIZE_DWORD},
		{"Stack pointer", "\tpush sp\n", 15, ast.SIZE_DWORD},
		{"Uppercase", "\tPUSH R3\n", 3, ast.SIZE_DWORD},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			instr := parseNode(t, test.Input).(*ast.Instruction)

			reg, ok := instr.Operands[0].(*ast.RegOperand)

			if !ok {
				t.Fatalf(
					"Expected register operand, have %+v",
					instr.Operands[0],
				)
			}

			if reg.Index != test.Index || reg.Size != test.Size {
				t.Fatalf(
					"Register mismatch\n"+
						"want:index=%d size=%d\n"+
						"have:index=%d size=%d",
					test.Index,
					test.Size,
					reg.Index,
					reg.Size,
				)
			}
		})
	}
}

func TestDirectives(t *testing.T) {
	if node := parseNode(t, "\torg $400\n").(*ast.Origin); node.Addr == nil {
		t.Fatal("Origin missing address expression")
	}

	if node := parseNode(t, "\tcode\n").(*ast.Region); node.Data {
		t.Fatal("Expected code region")
	}

	if node := parseNode(t, "\tdata\n").(*ast.Region); !node.Data {
		t.Fatal("Expected data region")
	}

	if node := parseNode(t, "\tvec 2\n").(*ast.Vector); node.Number == nil {
		t.Fatal("Vector missing number expression")
	}

	data := parseNode(t, "\tdw 1, 2, 3\n").(*ast.Data)

	if data.Width != ast.DATA_WORD || len(data.Values) != 3 {
		t.Fatalf(
			"Data mismatch\nwant:width=%d values=%d\nhave:width=%d values=%d",
			ast.DATA_WORD,
			3,
			data.Width,
			len(data.Values),
		)
	}

	global := parseNode(t, "\tglobal start\n").(*ast.Global)

	if global.Name != "start" {
		t.Fatalf("Global name mismatch\nwant:start\nhave:%s", global.Name)
	}

	extern := parseNode(t, "\textern puts\n").(*ast.Extern)

	if extern.Name != "puts" {
		t.Fatalf("Extern name mismatch\nwant:puts\nhave:%s", extern.Name)
	}

	declare := parseNode(t, "\tlet x = 5\n").(*ast.Declare)

	if declare.Name != "x" || declare.Const {
		t.Fatalf("Declare mismatch, have %+v", declare)
	}

	constant := parseNode(t, "\tconst k = 5\n").(*ast.Declare)

	if constant.Name != "k" || !constant.Const {
		t.Fatalf("Const declare mismatch, have %+v", constant)
	}

	assign := parseNode(t, "\tx <<= 2\n").(*ast.Assign)

	if assign.Name != "x" || assign.Op != ast.ASSIGN_SHL {
		t.Fatalf("Assign mismatch, have %+v", assign)
	}
}

func TestLiterals(t *testing.T) {
	tests := []struct {
		Name  string
		Input string
		Value int64
	}{
		{"Decimal", "255", 255},
		{"Decimal separators", "1_000", 1000},
		{"Dollar hex", "$FF", 255},
		{"Prefixed hex", "0xFF", 255},
		{"Binary", "%1010", 10},
		{"Character", "'A'", 65},
		{"Escaped character", "'\\x41'", 65},
		{"Null character", "'\\0'", 0},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			data := parseNode(t, "\tdd "+test.Input+"\n").(*ast.Data)

			lit, ok := data.Values[0].(*ast.IntLit)

			if !ok {
				t.Fatalf("Expected integer literal, have %+v", data.Values[0])
			}

			if lit.Value != test.Value {
				t.Fatalf(
					"Literal mismatch\nwant:%d\nhave:%d",
					test.Value,
					lit.Value,
				)
			}
		})
	}

	data := parseNode(t, "\tdd 3.0\n").(*ast.Data)

	fixed, ok := data.Values[0].(*ast.FixedLit)

	if !ok {
		t.Fatalf("Expected fixed literal, have %+v", data.Values[0])
	}

	if fixed.Value != uint64(3)<<32 {
		t.Fatalf(
			"Fixed literal mismatch\nwant:%#x\nhave:%#x",
			uint64(3)<<32,
			fixed.Value,
		)
	}

	data = parseNode(t, "\tdb \"a\\tb\"\n").(*ast.Data)

	str, ok := data.Values[0].(*ast.StringLit)

	if !ok {
		t.Fatalf("Expected string literal, have %+v", data.Values[0])
	}

	if str.Value != "a\tb" {
		t.Fatalf("String literal mismatch\nwant:%q\nhave:%q", "a\tb", str.Value)
	}
}

func TestVariableReference(t *testing.T) {
	data := parseNode(t, "\tdd $x + $FACE\n").(*ast.Data)

	binary, ok := data.Values[0].(*ast.Binary)

	if !ok || binary.Op != ast.BINARY_ADD {
		t.Fatalf("Expected addition, have %+v", data.Values[0])
	}

	if ref, ok := binary.Left.(*ast.VarRef); !ok || ref.Name != "x" {
		t.Fatalf("Expected variable reference 'x', have %+v", binary.Left)
	}

	// All-hex names after the sigil are literals, not references
	if lit, ok := binary.Right.(*ast.IntLit); !ok || lit.Value != 0xFACE {
		t.Fatalf("Expected literal $FACE, have %+v", binary.Right)
	}
}

func TestPrecedence(t *testing.T) {
	data := parseNode(t, "\tdd 1 + 2 * 3\n").(*ast.Data)

	binary, ok := data.Values[0].(*ast.Binary)

	if !ok || binary.Op != ast.BINARY_ADD {
		t.Fatalf("Expected addition at the root, have %+v", data.Values[0])
	}

	if right, ok := binary.Right.(*ast.Binary); !ok ||
		right.Op != ast.BINARY_MUL {
		t.Fatalf("Expected multiplication on the right, have %+v",
			binary.Right)
	}

	data = parseNode(t, "\tdd 2 ** 3 ** 2\n").(*ast.Data)

	power, ok := data.Values[0].(*ast.Binary)

	if !ok || power.Op != ast.BINARY_POW {
		t.Fatalf("Expected power at the root, have %+v", data.Values[0])
	}

	if right, ok := power.Right.(*ast.Binary); !ok ||
		right.Op != ast.BINARY_POW {
		t.Fatalf("Expected right-associative power, have %+v", power.Right)
	}

	data = parseNode(t, "\tdd (1 + 2) * 3\n").(*ast.Data)

	mul, ok := data.Values[0].(*ast.Binary)

	if !ok || mul.Op != ast.BINARY_MUL {
		t.Fatalf("Expected multiplication at the root, have %+v",
			data.Values[0])
	}

	if _, ok := mul.Left.(*ast.Group); !ok {
		t.Fatalf("Expected group on the left, have %+v", mul.Left)
	}
}

func TestComments(t *testing.T) {
	prog := parse(t, "; leading comment\n\tnop ; trailing comment\n")

	if len(prog.Nodes) != 1 {
		t.Fatalf(
			"Node count mismatch\nwant:%d\nhave:%d",
			1,
			len(prog.Nodes),
		)
	}
}

func TestPositions(t *testing.T) {
	prog := parse(t, "\tnop\n\tnop\nhere:\tnop\n")

	label, ok := prog.Nodes[2].(*ast.Label)

	if !ok {
		t.Fatalf("Expected label, have %+v", prog.Nodes[2])
	}

	pos := label.Pos()

	if pos.File != "test.g10" || pos.Line != 3 || pos.Column != 1 {
		t.Fatalf(
			"Position mismatch\nwant:%s:%d:%d\nhave:%s:%d:%d",
			"test.g10", 3, 1,
			pos.File, pos.Line, pos.Column,
		)
	}

	// Byte offset of "here" is two 5-byte lines in
	if pos.Byte != 10 || pos.LineByte != 10 || pos.Size != 4 {
		t.Fatalf(
			"Offset mismatch\nwant:byte=10 linebyte=10 size=4\n"+
				"have:byte=%d linebyte=%d size=%d",
			pos.Byte,
			pos.LineByte,
			pos.Size,
		)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []failCase{
		{
			Name:  "Unknown statement",
			Input: "\tbogus r0\n",
			Error: &parser.UnknownIdentifierError{},
		},
		{
			Name:  "Condition on unconditional mnemonic",
			Input: "\tadd.eq r0, r1\n",
			Error: &parser.InvalidConditionError{},
		},
		{
			Name:  "Unknown condition",
			Input: "\tb.zz loop\n",
			Error: &parser.InvalidConditionError{},
		},
		{
			Name:  "Unterminated string",
			Input: "\tdb \"unterminated\n",
			Error: &parser.InvalidStringError{},
		},
		{
			Name:  "Missing assignment value",
			Input: "\tlet x =\n",
			Error: &parser.UnexpectedTokenError{},
		},
		{
			Name:  "Missing declaration operator",
			Input: "\tlet x 5\n",
			Error: &parser.UnexpectedTokenError{},
		},
		{
			Name:  "Missing data value",
			Input: "\tdb\n",
			Error: &parser.UnexpectedTokenError{},
		},
		{
			Name:  "Unclosed group",
			Input: "\tdd (1 + 2\n",
			Error: &parser.UnexpectedTokenError{},
		},
		{
			Name:  "Unexpected character",
			Input: "\tdd @\n",
			Error: &parser.UnexpectedCharacterError{},
		},
		{
			Name:  "Invalid literal",
			Input: "\tdd 0x\n",
			Error: &parser.InvalidLiteralError{},
		},
		{
			Name:  "Oversized character literal",
			Input: "\tdd 'ab'\n",
			Error: &parser.InvalidLiteralError{},
		},
		{
			Name:  "Trailing tokens",
			Input: "\tcode 5\n",
			Error: &parser.UnexpectedTokenError{},
		},
	}

	t.Run("Fail", func(t *testing.T) {
		for _, test := range tests {
			t.Run(test.Name, func(t *testing.T) {
				testParseFail(t, &test)
			})
		}
	})
}
