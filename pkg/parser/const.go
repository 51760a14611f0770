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

package parser

import "github.com/g10cpu/gog10/pkg/ast"

const (
	TOKEN_NONE TokenType = iota
	TOKEN_IDENT
	TOKEN_NUMBER
	TOKEN_FIXED
	TOKEN_CHAR
	TOKEN_STRING
	TOKEN_VARIABLE
	TOKEN_PUNCT
	TOKEN_EOL
)

// Multi-character operators, longest first so the lexer munches
// maximally. Single characters fall through to the punctuation set.
var operators3 = []string{"**=", "<<=", ">>="}

var operators2 = []string{
	"**", "<<", ">>", "==", "!=", "<=", ">=", "&&", "||",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=",
}

const punctuation = "+-*/%&|^~!<>=(),:"

var mnemonics = map[string]ast.Mnemonic{
	"nop":  ast.MNEMONIC_NOP,
	"halt": ast.MNEMONIC_HALT,
	"wait": ast.MNEMONIC_WAIT,
	"sei":  ast.MNEMONIC_SEI,
	"cli":  ast.MNEMONIC_CLI,
	"rti":  ast.MNEMONIC_RTI,
	"move": ast.MNEMONIC_MOVE,
	"push": ast.MNEMONIC_PUSH,
	"pop":  ast.MNEMONIC_POP,
	"ldsp": ast.MNEMONIC_LDSP,
	"stsp": ast.MNEMONIC_STSP,
	"ld":   ast.MNEMONIC_LD,
	"st":   ast.MNEMONIC_ST,
	"ldq":  ast.MNEMONIC_LDQ,
	"stq":  ast.MNEMONIC_STQ,
	"in":   ast.MNEMONIC_IN,
	"out":  ast.MNEMONIC_OUT,
	"ldi":  ast.MNEMONIC_LDI,
	"b":    ast.MNEMONIC_B,
	"br":   ast.MNEMONIC_BR,
	"call": ast.MNEMONIC_CALL,
	"ret":  ast.MNEMONIC_RET,
	"add":  ast.MNEMONIC_ADD,
	"sub":  ast.MNEMONIC_SUB,
	"mul":  ast.MNEMONIC_MUL,
	"div":  ast.MNEMONIC_DIV,
	"mod":  ast.MNEMONIC_MOD,
	"and":  ast.MNEMONIC_AND,
	"or":   ast.MNEMONIC_OR,
	"xor":  ast.MNEMONIC_XOR,
	"cmp":  ast.MNEMONIC_CMP,
	"neg":  ast.MNEMONIC_NEG,
	"not":  ast.MNEMONIC_NOT,
	"shl":  ast.MNEMONIC_SHL,
	"shr":  ast.MNEMONIC_SHR,
	"asr":  ast.MNEMONIC_ASR,
	"rol":  ast.MNEMONIC_ROL,
	"ror":  ast.MNEMONIC_ROR,
	"bset": ast.MNEMONIC_BSET,
	"bclr": ast.MNEMONIC_BCLR,
	"btst": ast.MNEMONIC_BTST,
}

// Mnemonics that accept a condition code suffix, i.e. "b.ne".
var conditional = map[ast.Mnemonic]bool{
	ast.MNEMONIC_B:    true,
	ast.MNEMONIC_BR:   true,
	ast.MNEMONIC_CALL: true,
	ast.MNEMONIC_RET:  true,
}

var conditions = map[string]ast.ConditionCode{
	"al": ast.COND_AL,
	"eq": ast.COND_EQ,
	"ne": ast.COND_NE,
	"cs": ast.COND_CS,
	"cc": ast.COND_CC,
	"mi": ast.COND_MI,
	"pl": ast.COND_PL,
	"vs": ast.COND_VS,
	"vc": ast.COND_VC,
	"hi": ast.COND_HI,
	"ls": ast.COND_LS,
	"ge": ast.COND_GE,
	"lt": ast.COND_LT,
	"gt": ast.COND_GT,
	"le": ast.COND_LE,
}

var assignments = map[string]ast.AssignOp{
	"=":   ast.ASSIGN_SET,
	"+=":  ast.ASSIGN_ADD,
	"-=":  ast.ASSIGN_SUB,
	"*=":  ast.ASSIGN_MUL,
	"/=":  ast.ASSIGN_DIV,
	"%=":  ast.ASSIGN_MOD,
	"**=": ast.ASSIGN_POW,
	"&=":  ast.ASSIGN_AND,
	"|=":  ast.ASSIGN_OR,
	"^=":  ast.ASSIGN_XOR,
	"<<=": ast.ASSIGN_SHL,
	">>=": ast.ASSIGN_SHR,
}
