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

package codegen_test

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/g10cpu/gog10/pkg/codegen"
	"github.com/g10cpu/gog10/pkg/env"
	"github.com/g10cpu/gog10/pkg/object"
	"github.com/g10cpu/gog10/pkg/parser"
)

type testCase struct {
	Name    string
	Input   string
	Output  map[uint32][]byte
	Symbols map[string]uint32
	Relocs  []object.Relocation
	Flags   object.ImageFlags
}

type failCase struct {
	Name  string
	Input string
	Error error
}

func generate(t *testing.T, input string) (*object.Object, error) {
	t.Helper()

	prog, errs := parser.Parse(strings.NewReader(input), "test.g10")

	if len(errs) > 0 {
		t.Fatal(errs[0])
	}

	obj := object.New()
	return obj, codegen.Generate(prog, env.New(), obj)
}

func bytesAt(obj *object.Object, addr uint32, size int) []byte {
	for i := range obj.Sections {
		sec := &obj.Sections[i]

		if addr < sec.Base {
			continue
		}

		offset := addr - sec.Base

		if int(offset)+size <= len(sec.Data) {
			return sec.Data[offset : int(offset)+size]
		}
	}

	return nil
}

func testGenerateSuccess(t *testing.T, test *testCase) {
	obj, err := generate(t, test.Input)

	if err != nil {
		t.Fatal(err)
	}

	for addr, want := range test.Output {
		have := bytesAt(obj, addr, len(want))

		if have == nil {
			t.Fatalf(
				"Missing output bytes\n"+
					"want:% x (test.Output[%#08x])\n"+
					"have:nil",
				want,
				addr,
			)
		}

		if !bytes.Equal(have, want) {
			t.Fatalf(
				"Output mismatch at %#08x\n"+
					"want:% x\n"+
					"have:% x",
				addr,
				want,
				have,
			)
		}
	}

	for name, want := range test.Symbols {
		index, exists := obj.FindSymbol(name)

		if !exists {
			t.Fatalf(
				"Missing symbol\n"+
					"want:%s = %#08x\n"+
					"have:nil",
				name,
				want,
			)
		}

		if have := obj.Symbols[index].Value; have != want {
			t.Fatalf(
				"Symbol address mismatch for '%s'\n"+
					"want:%#08x\n"+
					"have:%#08x",
				name,
				want,
				have,
			)
		}
	}

	if test.Relocs != nil {
		if !reflect.DeepEqual(obj.Relocations, test.Relocs) {
			t.Fatalf(
				"Relocation mismatch\n"+
					"want:%+v\n"+
					"have:%+v",
				test.Relocs,
				obj.Relocations,
			)
		}
	}

	if test.Flags != 0 && obj.Flags&test.Flags != test.Flags {
		t.Fatalf(
			"Image flags mismatch\n"+
				"want:%04b\n"+
				"have:%04b",
			test.Flags,
			obj.Flags,
		)
	}
}

func testGenerateFail(t *testing.T, test *failCase) {
	if test.Error == nil {
		panic("Fail case missing error value")
	}

	_, err := generate(t, test.Input)

	if err == nil {
		t.Fatalf(
			"%s produced error of incorrect type"+
				"\nwant:%T (test.Error)\nhave:<nil>",
			t.Name(),
			test.Error,
		)
	}

	if phase, ok := err.(*codegen.PhaseError); ok {
		err = phase.Err
	}

	if reflect.TypeOf(err) != reflect.TypeOf(test.Error) {
		t.Fatalf(
			"%s produced error of incorrect type"+
				"\nwant:%T (test.Error)\nhave:%T (%v)",
			t.Name(),
			test.Error,
			err,
			err,
		)
	}
}

func testSuccess(t *testing.T, tests []testCase) {
	t.Run("Success", func(t *testing.T) {
		for _, test := range tests {
			t.Run(test.Name, func(t *testing.T) {
				testGenerateSuccess(t, &test)
			})
		}
	})
}

func testFail(t *testing.T, tests []failCase) {
	t.Run("Fail", func(t *testing.T) {
		for _, test := range tests {
			t.Run(test.Name, func(t *testing.T) {
				testGenerateFail(t, &test)
			})
		}
	})
}

func TestControl(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "Control group",
			Input: `
	nop
	halt
	wait
	sei
	cli
	rti
`,
			Output: map[uint32][]byte{
				0x200: {
					0x00, 0x00,
					0x01, 0x00,
					0x02, 0x00,
					0x03, 0x00,
					0x04, 0x00,
					0x05, 0x00,
				},
			},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "Operand on nop",
			Input: `	nop 1`,
			Error: &codegen.OperandCountError{},
		},
	})
}

func TestMoveStack(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:  "Move dword",
			Input: `	move r1, r2`,
			Output: map[uint32][]byte{
				0x200: {0x12, 0x06},
			},
		},
		{
			Name:  "Move byte",
			Input: `	move b1, b2`,
			Output: map[uint32][]byte{
				0x200: {0x12, 0x04},
			},
		},
		{
			Name:  "Move word",
			Input: `	move w3, w4`,
			Output: map[uint32][]byte{
				0x200: {0x34, 0x05},
			},
		},
		{
			Name:  "Push byte",
			Input: `	push b4`,
			Output: map[uint32][]byte{
				0x200: {0x40, 0x08},
			},
		},
		{
			Name:  "Push stack pointer",
			Input: `	push sp`,
			Output: map[uint32][]byte{
				0x200: {0xF0, 0x0A},
			},
		},
		{
			Name:  "Pop dword",
			Input: `	pop r9`,
			Output: map[uint32][]byte{
				0x200: {0x90, 0x0E},
			},
		},
		{
			Name:  "Load stack pointer",
			Input: `	ldsp r2`,
			Output: map[uint32][]byte{
				0x200: {0x20, 0x12},
			},
		},
		{
			Name:  "Store stack pointer",
			Input: `	stsp r2`,
			Output: map[uint32][]byte{
				0x200: {0x21, 0x12},
			},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "Move missing source",
			Input: `	move r1`,
			Error: &codegen.OperandCountError{},
		},
		{
			Name:  "Move immediate source",
			Input: `	move r1, 5`,
			Error: &codegen.OperandTypeError{},
		},
		{
			Name:  "Move size mismatch",
			Input: `	move r1, w2`,
			Error: &codegen.RegisterSizeError{},
		},
	})
}

func TestALU(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:  "Add register",
			Input: `	add r1, r2`,
			Output: map[uint32][]byte{
				0x200: {0x12, 0x42},
			},
		},
		{
			Name:  "Sub register word",
			Input: `	sub w1, w2`,
			Output: map[uint32][]byte{
				0x200: {0x12, 0x45},
			},
		},
		{
			Name:  "Cmp register byte",
			Input: `	cmp b1, b2`,
			Output: map[uint32][]byte{
				0x200: {0x12, 0x60},
			},
		},
		{
			Name:  "Add immediate dword",
			Input: `	add r1, 7`,
			Output: map[uint32][]byte{
				0x200: {0x10, 0x82, 0x07, 0x00, 0x00, 0x00},
			},
		},
		{
			Name:  "Add immediate byte",
			Input: `	add b1, 7`,
			Output: map[uint32][]byte{
				0x200: {0x10, 0x80, 0x07},
			},
		},
		{
			Name:  "Negate",
			Input: `	neg r3`,
			Output: map[uint32][]byte{
				0x200: {0x30, 0x66},
			},
		},
		{
			Name:  "Complement",
			Input: `	not b3`,
			Output: map[uint32][]byte{
				0x200: {0x30, 0x68},
			},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "Register size mismatch",
			Input: `	add r1, b2`,
			Error: &codegen.RegisterSizeError{},
		},
		{
			Name:  "Byte immediate overflow",
			Input: `	add b1, 256`,
			Error: &codegen.ValueRangeError{},
		},
	})
}

func TestShift(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:  "Shift register",
			Input: `	shl r1, r2`,
			Output: map[uint32][]byte{
				0x200: {0x12, 0xC2},
			},
		},
		{
			Name:  "Shift immediate",
			Input: `	shl r1, 3`,
			Output: map[uint32][]byte{
				0x200: {0x10, 0xE2, 0x03},
			},
		},
		{
			Name:  "Rotate immediate word",
			Input: `	ror w2, 15`,
			Output: map[uint32][]byte{
				0x200: {0x20, 0xF1, 0x0F},
			},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "Shift count range",
			Input: `	shl r1, 32`,
			Error: &codegen.ValueRangeError{},
		},
	})
}

func TestLoadStore(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:  "Load absolute",
			Input: `	ld r0, $8000_0000`,
			Output: map[uint32][]byte{
				0x200: {0x00, 0x16, 0x00, 0x00, 0x00, 0x80},
			},
		},
		{
			Name:  "Store absolute byte",
			Input: `	st b5, $8000_0004`,
			Output: map[uint32][]byte{
				0x200: {0x50, 0x18, 0x04, 0x00, 0x00, 0x80},
			},
		},
		{
			Name:  "Load quick",
			Input: `	ldq w1, $FF00`,
			Output: map[uint32][]byte{
				0x200: {0x10, 0x1D, 0x00, 0xFF},
			},
		},
		{
			Name:  "Port input",
			Input: `	in b0, 16`,
			Output: map[uint32][]byte{
				0x200: {0x00, 0x24, 0x10},
			},
		},
		{
			Name:  "Port output",
			Input: `	out b7, 1`,
			Output: map[uint32][]byte{
				0x200: {0x70, 0x28, 0x01},
			},
		},
		{
			Name:  "Load immediate dword",
			Input: `	ldi r0, 5`,
			Output: map[uint32][]byte{
				0x200: {0x00, 0x2E, 0x05, 0x00, 0x00, 0x00},
			},
		},
		{
			Name:  "Load immediate byte",
			Input: `	ldi b3, $FF`,
			Output: map[uint32][]byte{
				0x200: {0x30, 0x2C, 0xFF},
			},
		},
		{
			Name:  "Bit set",
			Input: `	bset r0, 31`,
			Output: map[uint32][]byte{
				0x200: {0x00, 0x72, 0x1F},
			},
		},
		{
			Name:  "Bit test word",
			Input: `	btst w3, 15`,
			Output: map[uint32][]byte{
				0x200: {0x30, 0x79, 0x0F},
			},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "Port range",
			Input: `	in b0, 256`,
			Error: &codegen.ValueRangeError{},
		},
		{
			Name:  "Quick address range",
			Input: `	ldq w0, $1_0000`,
			Error: &codegen.ValueRangeError{},
		},
		{
			Name:  "Bit number range",
			Input: `	bset b0, 8`,
			Error: &codegen.ValueRangeError{},
		},
		{
			Name:  "Immediate range",
			Input: `	ldi b0, 256`,
			Error: &codegen.ValueRangeError{},
		},
		{
			Name:  "Undefined identifier",
			Input: `	ldi r0, nothere`,
			Error: &codegen.UndefinedIdentifierError{},
		},
		{
			Name:  "String immediate",
			Input: `	ldi r0, "hi"`,
			Error: &codegen.CoercionError{},
		},
	})
}

func TestBranch(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "Branch forms",
			Input: `
start:	nop
loop:	add r1, r2
	br loop
	b.eq loop
	call doit
doit:	ret.ne
`,
			Output: map[uint32][]byte{
				0x200: {0x00, 0x00},
				0x202: {0x12, 0x42},
				0x204: {0x00, 0x34, 0xFA, 0xFF},
				0x208: {0x01, 0x30, 0x02, 0x02, 0x00, 0x00},
				0x20E: {0x00, 0x38, 0x14, 0x02, 0x00, 0x00},
				0x214: {0x02, 0x3C},
			},
			Symbols: map[string]uint32{
				"start": 0x200,
				"loop":  0x202,
				"doit":  0x214,
			},
			Flags: object.IMAGE_HAS_ENTRYPOINT,
		},
		{
			Name: "Forward short branch",
			Input: `
	br done
	nop
done:	halt
`,
			Output: map[uint32][]byte{
				// done = 0x206, disp = 0x206 - 0x200 - 4 = 2
				0x200: {0x00, 0x34, 0x02, 0x00},
			},
		},
	})

	testFail(t, []failCase{
		{
			Name: "Branch out of range",
			Input: `
	br far
	org $10000
far:	nop
`,
			Error: &codegen.BranchRangeError{},
		},
	})
}

func TestVariables(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "Compound assignment",
			Input: `
	let x = 5
	x += 3
	dd $x
`,
			Output: map[uint32][]byte{
				0x200: {0x08, 0x00, 0x00, 0x00},
			},
		},
		{
			Name: "Constant declaration",
			Input: `
	const w = 2 ** 10
	dw $w
`,
			Output: map[uint32][]byte{
				0x200: {0x00, 0x04},
			},
		},
		{
			Name: "All compound operators",
			Input: `
	let x = 6
	x *= 4
	x /= 2
	x -= 2
	x %= 7
	x **= 2
	x &= 5
	x |= 2
	x ^= 1
	x <<= 4
	x >>= 2
	dd $x
`,
			// 6*4=24 /2=12 -2=10 %7=3 **2=9 &5=1 |2=3 ^1=2 <<4=32 >>2=8
			Output: map[uint32][]byte{
				0x200: {0x08, 0x00, 0x00, 0x00},
			},
		},
	})

	testFail(t, []failCase{
		{
			Name: "Redefined variable",
			Input: `
	let x = 1
	let x = 2
`,
			Error: &codegen.SourceError{},
		},
		{
			Name:  "Assignment to undefined",
			Input: `	y += 1`,
			Error: &codegen.SourceError{},
		},
		{
			Name: "Assignment to constant",
			Input: `
	const k = 1
	k += 1
`,
			Error: &codegen.SourceError{},
		},
		{
			Name:  "Division by zero",
			Input: `	let x = 5 / 0`,
			Error: &codegen.DivisionByZeroError{},
		},
		{
			Name: "Compound division by zero",
			Input: `
	let x = 5
	x /= 0
`,
			Error: &codegen.DivisionByZeroError{},
		},
		{
			Name: "Compound modulo by zero",
			Input: `
	let x = 5
	x %= 0
`,
			Error: &codegen.DivisionByZeroError{},
		},
		{
			Name:  "Negative exponent",
			Input: `	let x = 2 ** -1`,
			Error: &codegen.NegativeExponentError{},
		},
		{
			Name: "Compound negative exponent",
			Input: `
	let x = 2
	x **= -1
`,
			Error: &codegen.NegativeExponentError{},
		},
		{
			Name:  "Shift amount range",
			Input: `	let x = 1 << 64`,
			Error: &codegen.ShiftRangeError{},
		},
	})
}

func TestExpressions(t *testing.T) {
	tests := []struct {
		Name  string
		Expr  string
		Value uint32
	}{
		{"Precedence", "1 + 2 * 3", 7},
		{"Grouping", "(1 + 2) * 3", 9},
		{"Bitwise", "$FF & %1010", 10},
		{"Shift or", "1 << 4 | 1", 17},
		{"Mod div", "7 % 3 + 7 / 3", 3},
		{"Power right assoc", "2 ** 3 ** 2", 512},
		{"Comparison", "5 > 3", 1},
		{"Logical and", "1 && 0", 0},
		{"Logical or", "0 || 2", 1},
		{"Logical not", "!5", 0},
		{"Complement", "~0 & $FF", 0xFF},
		{"Unary minus", "-1 + 2", 1},
		{"Character", "'A'", 65},
		{"Escaped character", "'\\n'", 10},
		{"Fixed truncation", "1.5 + 2.5", 3},
		{"Hex separators", "$CAFE_BABE >> 16", 0xCAFE},
	}

	cases := make([]testCase, 0, len(tests))

	for _, test := range tests {
		value := test.Value

		cases = append(cases, testCase{
			Name:  test.Name,
			Input: "\tdd " + test.Expr + "\n",
			Output: map[uint32][]byte{
				0x200: {
					byte(value),
					byte(value >> 8),
					byte(value >> 16),
					byte(value >> 24),
				},
			},
		})
	}

	testSuccess(t, cases)
}

func TestData(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:  "String bytes",
			Input: `	db "Hi", 0`,
			Output: map[uint32][]byte{
				0x200: {0x48, 0x69, 0x00},
			},
		},
		{
			Name:  "Word list",
			Input: `	dw 1, 2, $FFFF`,
			Output: map[uint32][]byte{
				0x200: {0x01, 0x00, 0x02, 0x00, 0xFF, 0xFF},
			},
		},
		{
			Name:  "Dword value",
			Input: `	dd $DEAD_BEEF`,
			Output: map[uint32][]byte{
				0x200: {0xEF, 0xBE, 0xAD, 0xDE},
			},
		},
		{
			Name: "Forward label value",
			Input: `
a:	dd b
b:	nop
`,
			Output: map[uint32][]byte{
				0x200: {0x04, 0x02, 0x00, 0x00},
			},
			Symbols: map[string]uint32{
				"a": 0x200,
				"b": 0x204,
			},
		},
	})

	testFail(t, []failCase{
		{
			Name:  "String in word directive",
			Input: `	dw "hi"`,
			Error: &codegen.StringWidthError{},
		},
		{
			Name: "Negative reservation",
			Input: `
	data
	db 0 - 1
`,
			Error: &codegen.ReserveCountError{},
		},
	})
}

func TestLayout(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "Cursor advances by instruction size",
			Input: `
a:	ldi r0, 5
b:	add r1, r2
c:	ld r0, $8000_0000
d:	nop
`,
			Symbols: map[string]uint32{
				"a": 0x200,
				"b": 0x206,
				"c": 0x208,
				"d": 0x20E,
			},
		},
		{
			Name: "Origin directive",
			Input: `
	org $400
x:	nop
	org $500
y:	nop
`,
			Symbols: map[string]uint32{
				"x": 0x400,
				"y": 0x500,
			},
			Output: map[uint32][]byte{
				0x400: {0x00, 0x00},
				0x500: {0x00, 0x00},
			},
		},
		{
			Name: "Region switch restores cursor",
			Input: `
	nop
	data
v:	db 4
	code
w:	nop
`,
			Symbols: map[string]uint32{
				"v": 0x80000000,
				"w": 0x202,
			},
		},
		{
			Name: "Vector slot",
			Input: `
	vec 2
tick:	dd $DEAD_BEEF
`,
			Symbols: map[string]uint32{
				"tick": 0x10,
			},
			Output: map[uint32][]byte{
				0x10: {0xEF, 0xBE, 0xAD, 0xDE},
			},
		},
		{
			Name: "Code resumes after vector slot",
			Input: `
start:	nop
	vec 2
	dd start
	code
after:	nop
`,
			Symbols: map[string]uint32{
				"start": 0x200,
				"after": 0x202,
			},
			Output: map[uint32][]byte{
				0x010: {0x00, 0x02, 0x00, 0x00},
				0x200: {0x00, 0x00, 0x00, 0x00},
			},
			Flags: object.IMAGE_HAS_ENTRYPOINT,
		},
		{
			Name: "Repeated origin at one base",
			Input: `
	org $400
a:	nop
	org $400
b:	nop
`,
			Symbols: map[string]uint32{
				"a": 0x400,
				"b": 0x400,
			},
			Output: map[uint32][]byte{
				0x400: {0x00, 0x00},
			},
		},
	})

	testFail(t, []failCase{
		{
			Name: "Duplicate label",
			Input: `
a:	nop
a:	nop
`,
			Error: &codegen.RedefinedLabelError{},
		},
		{
			Name:  "Vector number range",
			Input: `	vec 32`,
			Error: &codegen.ValueRangeError{},
		},
		{
			Name:  "Origin out of range",
			Input: `	org 0x1_0000_0000`,
			Error: &codegen.ValueRangeError{},
		},
		{
			Name:  "Origin fixed point",
			Input: `	org 1.5`,
			Error: &codegen.CoercionError{},
		},
		{
			Name: "Instruction in data region",
			Input: `
	data
	nop
`,
			Error: &codegen.DataRegionError{},
		},
		{
			Name: "Extern reservation count",
			Input: `
	extern n
	data
buf:	db n
`,
			Error: &codegen.ReserveExternError{},
		},
	})
}

func TestReservation(t *testing.T) {
	input := `
	data
buf:	db 64
tail:	dw 2, 3
	code
start:	nop
`

	obj, err := generate(t, input)

	if err != nil {
		t.Fatal(err)
	}

	index, exists := obj.FindSection(0x80000000, object.SECTION_RESERVED)

	if !exists {
		t.Fatal("Missing reserved section at 0x80000000")
	}

	sec := obj.Section(index)

	// 64 bytes plus 5 reserved words
	if sec.Size != 74 {
		t.Fatalf(
			"Reserved section size mismatch\nwant:%d\nhave:%d",
			74,
			sec.Size,
		)
	}

	if len(sec.Data) != 0 {
		t.Fatalf(
			"Reserved section carries data\nwant:0 bytes\nhave:%d bytes",
			len(sec.Data),
		)
	}

	testGenerateSuccess(t, &testCase{
		Name:  "Reservation symbols",
		Input: input,
		Symbols: map[string]uint32{
			"buf":   0x80000000,
			"tail":  0x80000040,
			"start": 0x200,
		},
	})
}

func TestSymbols(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "Global binding",
			Input: `
	global start
start:	nop
`,
			Symbols: map[string]uint32{"start": 0x200},
			Flags:   object.IMAGE_HAS_ENTRYPOINT,
		},
		{
			Name: "Global after definition",
			Input: `
start:	nop
	global start
`,
			Symbols: map[string]uint32{"start": 0x200},
		},
		{
			Name: "Duplicate extern ignored",
			Input: `
	extern foo
	extern foo
	nop
`,
			Output: map[uint32][]byte{0x200: {0x00, 0x00}},
		},
	})

	testFail(t, []failCase{
		{
			Name: "Global then extern",
			Input: `
	global x
	extern x
`,
			Error: &codegen.GlobalExternConflictError{},
		},
		{
			Name: "Extern then global",
			Input: `
	extern x
	global x
`,
			Error: &codegen.GlobalExternConflictError{},
		},
		{
			Name: "Duplicate global",
			Input: `
	global x
	global x
x:	nop
`,
			Error: &codegen.DuplicateGlobalError{},
		},
		{
			Name: "Undefined global",
			Input: `
	global missing
	nop
`,
			Error: &codegen.UndefinedGlobalsError{},
		},
	})
}

func TestUndefinedGlobalsCollected(t *testing.T) {
	_, err := generate(t, `
	global zeta
	global alpha
	nop
`)

	if err == nil {
		t.Fatal("Expected undefined global error")
	}

	phase, ok := err.(*codegen.PhaseError)

	if !ok {
		t.Fatalf("Expected phase error, have %T", err)
	}

	undefined, ok := phase.Err.(*codegen.UndefinedGlobalsError)

	if !ok {
		t.Fatalf("Expected undefined globals error, have %T", phase.Err)
	}

	if !reflect.DeepEqual(undefined.Names, []string{"alpha", "zeta"}) {
		t.Fatalf(
			"Undefined globals mismatch\nwant:%v\nhave:%v",
			[]string{"alpha", "zeta"},
			undefined.Names,
		)
	}
}

func TestRelocations(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "Absolute relocations",
			Input: `
	extern foo
	ld r0, foo
	dd foo + 4
	dw foo
	db foo
`,
			Output: map[uint32][]byte{
				0x200: {
					0x00, 0x16, 0x00, 0x00, 0x00, 0x00,
					0x00, 0x00, 0x00, 0x00,
					0x00, 0x00,
					0x00,
				},
			},
			Relocs: []object.Relocation{
				{Section: 0, Offset: 2, Symbol: 0,
					Kind: object.RELOC_ABS32, Addend: 0},
				{Section: 0, Offset: 6, Symbol: 0,
					Kind: object.RELOC_ABS32, Addend: 4},
				{Section: 0, Offset: 10, Symbol: 0,
					Kind: object.RELOC_ABS16, Addend: 0},
				{Section: 0, Offset: 12, Symbol: 0,
					Kind: object.RELOC_ABS8, Addend: 0},
			},
			Flags: object.IMAGE_HAS_RELOCATIONS,
		},
		{
			Name: "Relative relocation",
			Input: `
	extern isr
	br isr
`,
			Output: map[uint32][]byte{
				0x200: {0x00, 0x34, 0x00, 0x00},
			},
			Relocs: []object.Relocation{
				{Section: 0, Offset: 2, Symbol: 0,
					Kind: object.RELOC_REL16, Addend: 0},
			},
			Flags: object.IMAGE_HAS_RELOCATIONS,
		},
	})

	testFail(t, []failCase{
		{
			Name: "Two externs in one expression",
			Input: `
	extern a
	extern b
	dd a + b
`,
			Error: &codegen.MultipleExternError{},
		},
		{
			Name: "Extern shift count",
			Input: `
	extern n
	shl r0, n
`,
			Error: &codegen.OperandTypeError{},
		},
	})
}
