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

// Package parser turns G10 assembly source into the syntax tree of
// pkg/ast. Parsing is line oriented: a statement error discards the rest
// of its line and parsing resumes on the next one, so a single run
// reports every bad line rather than the first.
package parser

import (
	"io"
	"strconv"
	"strings"

	"github.com/g10cpu/gog10/pkg/ast"
	"github.com/g10cpu/gog10/pkg/encoding"
)

// Parse reads assembly source and produces the program tree. The file
// name is carried into every node position for diagnostics. All lexical
// and syntax errors are accumulated and returned together; the tree
// contains every line that parsed cleanly.
func Parse(input io.Reader, file string) (*ast.Program, []error) {
	lx := &lexer{file: file}
	lx.scan(input)

	p := &parser{tokens: lx.tokens, errs: lx.errs}
	prog := &ast.Program{}

	for p.index < len(p.tokens) {
		p.parseLine(prog)
	}

	return prog, p.errs
}

type parser struct {
	tokens []Token
	index  int
	errs   []error
}

func (p *parser) peek() *Token {
	return &p.tokens[p.index]
}

func (p *parser) atEOL() bool {
	return p.index >= len(p.tokens) || p.peek().Type == TOKEN_EOL
}

func (p *parser) atPunct(value string) bool {
	return p.index < len(p.tokens) &&
		p.peek().Type == TOKEN_PUNCT &&
		p.peek().Value == value
}

// sync discards tokens through the end of the current line.
func (p *parser) sync() {
	for p.index < len(p.tokens) && p.tokens[p.index].Type != TOKEN_EOL {
		p.index++
	}

	if p.index < len(p.tokens) {
		p.index++
	}
}

func (p *parser) fail(err error) {
	p.errs = append(p.errs, err)
	p.sync()
}

// expectEOL closes a statement: anything but end of line is an error.
func (p *parser) expectEOL() error {
	if p.atEOL() {
		p.sync()
		return nil
	}

	tok := p.peek()

	return &UnexpectedTokenError{
		tok.Position, "End of line", tokenName(tok.Type),
	}
}

func (p *parser) parseLine(prog *ast.Program) {
	if p.atEOL() {
		p.sync()
		return
	}

	tok := p.peek()

	if tok.Type != TOKEN_IDENT {
		p.fail(&UnexpectedTokenError{
			tok.Position, "Identifier", tokenName(tok.Type),
		})

		return
	}

	if p.index+1 < len(p.tokens) &&
		p.tokens[p.index+1].Type == TOKEN_PUNCT &&
		p.tokens[p.index+1].Value == ":" {
		prog.Nodes = append(prog.Nodes, &ast.Label{
			Position: tok.Position,
			Name:     tok.Value,
		})

		p.index += 2

		if p.atEOL() {
			p.sync()
			return
		}

		tok = p.peek()

		if tok.Type != TOKEN_IDENT {
			p.fail(&UnexpectedTokenError{
				tok.Position, "Identifier", tokenName(tok.Type),
			})

			return
		}
	}

	node, err := p.parseStatement(tok)

	if err != nil {
		p.fail(err)
		return
	}

	if err := p.expectEOL(); err != nil {
		p.fail(err)
		return
	}

	prog.Nodes = append(prog.Nodes, node)
}

func (p *parser) parseStatement(tok *Token) (ast.Node, error) {
	switch strings.ToLower(tok.Value) {
	case "org":
		p.index++

		expr, err := p.parseExpr()

		if err != nil {
			return nil, err
		}

		return &ast.Origin{Position: tok.Position, Addr: expr}, nil

	case "code":
		p.index++
		return &ast.Region{Position: tok.Position, Data: false}, nil

	case "data":
		p.index++
		return &ast.Region{Position: tok.Position, Data: true}, nil

	case "vec":
		p.index++

		expr, err := p.parseExpr()

		if err != nil {
			return nil, err
		}

		return &ast.Vector{Position: tok.Position, Number: expr}, nil

	case "db":
		return p.parseData(tok, ast.DATA_BYTE)

	case "dw":
		return p.parseData(tok, ast.DATA_WORD)

	case "dd":
		return p.parseData(tok, ast.DATA_DWORD)

	case "global":
		p.index++

		name, err := p.parseName()

		if err != nil {
			return nil, err
		}

		return &ast.Global{Position: tok.Position, Name: name}, nil

	case "extern":
		p.index++

		name, err := p.parseName()

		if err != nil {
			return nil, err
		}

		return &ast.Extern{Position: tok.Position, Name: name}, nil

	case "let":
		return p.parseDeclare(tok, false)

	case "const":
		return p.parseDeclare(tok, true)
	}

	if op, cond, err := instructionFor(tok); err != nil {
		return nil, err
	} else if op != ast.MNEMONIC_INVALID {
		return p.parseInstruction(tok, op, cond)
	}

	if p.index+1 < len(p.tokens) &&
		p.tokens[p.index+1].Type == TOKEN_PUNCT {
		if op, ok := assignments[p.tokens[p.index+1].Value]; ok {
			return p.parseAssign(tok, op)
		}
	}

	return nil, &UnknownIdentifierError{tok.Position, tok.Value}
}

// instructionFor resolves a statement keyword into a mnemonic and
// condition code. A dot suffix selects the condition and is valid on the
// branch, call and return mnemonics only.
func instructionFor(tok *Token) (ast.Mnemonic, ast.ConditionCode, error) {
	name := strings.ToLower(tok.Value)
	suffix := ""

	if dot := strings.IndexByte(name, '.'); dot != -1 {
		suffix = name[dot+1:]
		name = name[:dot]
	}

	op, ok := mnemonics[name]

	if !ok {
		return ast.MNEMONIC_INVALID, ast.COND_AL, nil
	}

	if suffix == "" {
		return op, ast.COND_AL, nil
	}

	if !conditional[op] {
		return 0, 0, &InvalidConditionError{tok.Position, suffix}
	}

	cond, ok := conditions[suffix]

	if !ok {
		return 0, 0, &InvalidConditionError{tok.Position, suffix}
	}

	return op, cond, nil
}

func (p *parser) parseInstruction(
	tok *Token, op ast.Mnemonic, cond ast.ConditionCode,
) (ast.Node, error) {
	p.index++

	node := &ast.Instruction{
		Position: tok.Position,
		Op:       op,
		Cond:     cond,
	}

	if p.atEOL() {
		return node, nil
	}

	for {
		operand, err := p.parseOperand()

		if err != nil {
			return nil, err
		}

		node.Operands = append(node.Operands, operand)

		if !p.atPunct(",") {
			break
		}

		p.index++
	}

	return node, nil
}

func (p *parser) parseOperand() (ast.Operand, error) {
	tok := p.peek()

	if tok.Type == TOKEN_IDENT {
		if index, size, ok := registerFor(tok.Value); ok {
			p.index++

			return &ast.RegOperand{
				Position: tok.Position,
				Index:    index,
				Size:     size,
			}, nil
		}
	}

	expr, err := p.parseExpr()

	if err != nil {
		return nil, err
	}

	return &ast.ExprOperand{Position: tok.Position, Expr: expr}, nil
}

// registerFor resolves a register name: b0-b15, w0-w15, r0-r15, or the
// stack pointer alias sp. Register names are reserved in operand
// position; labels sharing one cannot be referenced there.
func registerFor(name string) (byte, ast.SizeClass, bool) {
	name = strings.ToLower(name)

	if name == "sp" {
		return 15, ast.SIZE_DWORD, true
	}

	if len(name) < 2 {
		return 0, 0, false
	}

	var size ast.SizeClass

	switch name[0] {
	case 'b':
		size = ast.SIZE_BYTE
	case 'w':
		size = ast.SIZE_WORD
	case 'r':
		size = ast.SIZE_DWORD
	default:
		return 0, 0, false
	}

	index, err := strconv.Atoi(name[1:])

	if err != nil || index < 0 || index > 15 {
		return 0, 0, false
	}

	return byte(index), size, true
}

func (p *parser) parseData(tok *Token, width ast.DataWidth) (ast.Node, error) {
	p.index++

	node := &ast.Data{Position: tok.Position, Width: width}

	for {
		expr, err := p.parseExpr()

		if err != nil {
			return nil, err
		}

		node.Values = append(node.Values, expr)

		if !p.atPunct(",") {
			break
		}

		p.index++
	}

	return node, nil
}

func (p *parser) parseName() (string, error) {
	if p.atEOL() || p.peek().Type != TOKEN_IDENT {
		tok := p.peek()

		return "", &UnexpectedTokenError{
			tok.Position, "Identifier", tokenName(tok.Type),
		}
	}

	name := p.peek().Value
	p.index++
	return name, nil
}

func (p *parser) parseDeclare(tok *Token, constant bool) (ast.Node, error) {
	p.index++

	name, err := p.parseName()

	if err != nil {
		return nil, err
	}

	if !p.atPunct("=") {
		at := p.peek()

		return nil, &UnexpectedTokenError{
			at.Position, "=", tokenName(at.Type),
		}
	}

	p.index++

	expr, err := p.parseExpr()

	if err != nil {
		return nil, err
	}

	return &ast.Declare{
		Position: tok.Position,
		Name:     name,
		Const:    constant,
		Value:    expr,
	}, nil
}

func (p *parser) parseAssign(tok *Token, op ast.AssignOp) (ast.Node, error) {
	p.index += 2

	expr, err := p.parseExpr()

	if err != nil {
		return nil, err
	}

	return &ast.Assign{
		Position: tok.Position,
		Name:     tok.Value,
		Op:       op,
		Value:    expr,
	}, nil
}

// ---------------------------------------------------------------------------
// Expressions

// Binary operator precedence, loosest binding first. Exponentiation
// binds tighter than all of these and associates to the right.
var binaryLevels = [][]struct {
	text string
	op   ast.BinaryOp
}{
	{{"||", ast.BINARY_LOGOR}},
	{{"&&", ast.BINARY_LOGAND}},
	{
		{"==", ast.BINARY_EQ},
		{"!=", ast.BINARY_NE},
		{"<=", ast.BINARY_LE},
		{">=", ast.BINARY_GE},
		{"<", ast.BINARY_LT},
		{">", ast.BINARY_GT},
	},
	{{"|", ast.BINARY_OR}},
	{{"^", ast.BINARY_XOR}},
	{{"&", ast.BINARY_AND}},
	{{"<<", ast.BINARY_SHL}, {">>", ast.BINARY_SHR}},
	{{"+", ast.BINARY_ADD}, {"-", ast.BINARY_SUB}},
	{{"*", ast.BINARY_MUL}, {"/", ast.BINARY_DIV}, {"%", ast.BINARY_MOD}},
}

func (p *parser) parseExpr() (ast.Expr, error) {
	return p.parseBinary(0)
}

func (p *parser) parseBinary(level int) (ast.Expr, error) {
	if level >= len(binaryLevels) {
		return p.parsePower()
	}

	left, err := p.parseBinary(level + 1)

	if err != nil {
		return nil, err
	}

	for {
		matched := false

		for _, entry := range binaryLevels[level] {
			if !p.atPunct(entry.text) {
				continue
			}

			pos := p.peek().Position
			p.index++

			right, err := p.parseBinary(level + 1)

			if err != nil {
				return nil, err
			}

			left = &ast.Binary{
				Position: pos,
				Op:       entry.op,
				Left:     left,
				Right:    right,
			}

			matched = true
			break
		}

		if !matched {
			return left, nil
		}
	}
}

func (p *parser) parsePower() (ast.Expr, error) {
	left, err := p.parseUnary()

	if err != nil {
		return nil, err
	}

	if !p.atPunct("**") {
		return left, nil
	}

	pos := p.peek().Position
	p.index++

	// Right associative: a ** b ** c is a ** (b ** c)
	right, err := p.parsePower()

	if err != nil {
		return nil, err
	}

	return &ast.Binary{
		Position: pos,
		Op:       ast.BINARY_POW,
		Left:     left,
		Right:    right,
	}, nil
}

func (p *parser) parseUnary() (ast.Expr, error) {
	var op ast.UnaryOp

	switch {
	case p.atPunct("-"):
		op = ast.UNARY_NEG
	case p.atPunct("+"):
		op = ast.UNARY_PLUS
	case p.atPunct("~"):
		op = ast.UNARY_NOT
	case p.atPunct("!"):
		op = ast.UNARY_LOGNOT
	default:
		return p.parsePrimary()
	}

	pos := p.peek().Position
	p.index++

	expr, err := p.parseUnary()

	if err != nil {
		return nil, err
	}

	return &ast.Unary{Position: pos, Op: op, Expr: expr}, nil
}

func (p *parser) parsePrimary() (ast.Expr, error) {
	if p.atEOL() {
		tok := p.peek()

		return nil, &UnexpectedTokenError{
			tok.Position, "Expression", tokenName(tok.Type),
		}
	}

	tok := p.peek()

	switch tok.Type {
	case TOKEN_NUMBER:
		value, err := encoding.DecodeInteger(tok.Value)

		if err != nil {
			return nil, &InvalidLiteralError{tok.Position}
		}

		p.index++
		return &ast.IntLit{Position: tok.Position, Value: value}, nil

	case TOKEN_FIXED:
		value, err := encoding.DecodeFixed(tok.Value)

		if err != nil {
			return nil, &InvalidLiteralError{tok.Position}
		}

		p.index++
		return &ast.FixedLit{Position: tok.Position, Value: value}, nil

	case TOKEN_CHAR:
		text, ok := unescape(tok.Value[1 : len(tok.Value)-1])

		if !ok || len(text) != 1 {
			return nil, &InvalidLiteralError{tok.Position}
		}

		p.index++

		return &ast.IntLit{
			Position: tok.Position,
			Value:    int64(text[0]),
		}, nil

	case TOKEN_STRING:
		text, ok := unescape(tok.Value[1 : len(tok.Value)-1])

		if !ok {
			return nil, &InvalidStringError{tok.Position}
		}

		p.index++
		return &ast.StringLit{Position: tok.Position, Value: text}, nil

	case TOKEN_VARIABLE:
		p.index++
		return &ast.VarRef{Position: tok.Position, Name: tok.Value}, nil

	case TOKEN_IDENT:
		p.index++
		return &ast.Ident{Position: tok.Position, Name: tok.Value}, nil

	case TOKEN_PUNCT:
		if tok.Value == "(" {
			p.index++

			expr, err := p.parseExpr()

			if err != nil {
				return nil, err
			}

			if !p.atPunct(")") {
				at := p.peek()

				return nil, &UnexpectedTokenError{
					at.Position, ")", tokenName(at.Type),
				}
			}

			p.index++
			return &ast.Group{Position: tok.Position, Expr: expr}, nil
		}
	}

	return nil, &UnexpectedTokenError{
		tok.Position, "Expression", tokenName(tok.Type),
	}
}

// unescape decodes backslash escapes in a character or string literal
// body: \n \t \r \0 \\ \' \" and \xNN.
func unescape(s string) (string, bool) {
	if !strings.ContainsRune(s, '\\') {
		return s, true
	}

	var builder strings.Builder
	builder.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			builder.WriteByte(s[i])
			continue
		}

		i++

		if i >= len(s) {
			return "", false
		}

		switch s[i] {
		case 'n':
			builder.WriteByte('\n')
		case 't':
			builder.WriteByte('\t')
		case 'r':
			builder.WriteByte('\r')
		case '0':
			builder.WriteByte(0)
		case '\\':
			builder.WriteByte('\\')
		case '\'':
			builder.WriteByte('\'')
		case '"':
			builder.WriteByte('"')
		case 'x':
			if i+2 >= len(s) ||
				!isHexDigit(s[i+1]) || !isHexDigit(s[i+2]) {
				return "", false
			}

			value, err := strconv.ParseUint(s[i+1:i+3], 16, 8)

			if err != nil {
				return "", false
			}

			builder.WriteByte(byte(value))
			i += 2
		default:
			return "", false
		}
	}

	return builder.String(), true
}
