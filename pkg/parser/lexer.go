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

import (
	"bufio"
	"io"
	"strings"

	"github.com/g10cpu/gog10/pkg/ast"
)

// lexer splits source lines into tokens. Source is ASCII; any byte
// outside the ASCII range is rejected rather than decoded.
type lexer struct {
	file   string
	tokens []Token
	errs   []error

	line     int
	lineByte int64
}

func (lx *lexer) scan(input io.Reader) {
	scanner := bufio.NewScanner(input)

	lx.line = 1

	for scanner.Scan() {
		text := scanner.Text()
		lx.scanLine(text)
		lx.line++
		lx.lineByte += int64(len(text) + 1)
	}

	if err := scanner.Err(); err != nil {
		lx.errs = append(lx.errs, err)
	}
}

func (lx *lexer) push(t TokenType, start, size int, value string) {
	lx.tokens = append(lx.tokens, Token{
		Type: t,
		Position: ast.Cursor{
			File:     lx.file,
			Line:     lx.line,
			Column:   start + 1,
			Byte:     lx.lineByte + int64(start),
			Size:     int64(size),
			LineByte: lx.lineByte,
		},
		Value: value,
	})
}

func (lx *lexer) scanLine(line string) {
	i := 0

	for i < len(line) {
		c := line[i]

		switch {
		case c == ';':
			i = len(line)

		case c == ' ' || c == '\t' || c == '\r':
			i++

		case isDigit(c):
			i = lx.scanNumber(line, i)

		case c == '$':
			i = lx.scanDollar(line, i)

		case c == '%' && i+1 < len(line) && isBinaryDigit(line[i+1]):
			i = lx.scanBinary(line, i)

		case c == '\'':
			i = lx.scanQuoted(line, i, '\'', TOKEN_CHAR)

		case c == '"':
			i = lx.scanQuoted(line, i, '"', TOKEN_STRING)

		case isIdentStart(c):
			i = lx.scanIdent(line, i)

		default:
			i = lx.scanOperator(line, i)
		}
	}

	lx.push(TOKEN_EOL, len(line), 0, "")
}

// scanNumber consumes a decimal, 0x-prefixed hex, or fixed-point
// literal. Underscore separators are allowed anywhere among the digits.
func (lx *lexer) scanNumber(line string, start int) int {
	i := start

	if line[i] == '0' && i+1 < len(line) &&
		(line[i+1] == 'x' || line[i+1] == 'X') {
		i += 2

		for i < len(line) && (isHexDigit(line[i]) || line[i] == '_') {
			i++
		}

		lx.push(TOKEN_NUMBER, start, i-start, line[start:i])
		return i
	}

	for i < len(line) && (isDigit(line[i]) || line[i] == '_') {
		i++
	}

	if i+1 < len(line) && line[i] == '.' && isDigit(line[i+1]) {
		i++

		for i < len(line) && (isDigit(line[i]) || line[i] == '_') {
			i++
		}

		lx.push(TOKEN_FIXED, start, i-start, line[start:i])
		return i
	}

	lx.push(TOKEN_NUMBER, start, i-start, line[start:i])
	return i
}

// scanDollar consumes either a $-prefixed hex literal or a $-prefixed
// variable reference: the token is a literal when every character after
// the sigil is a hex digit, a variable reference otherwise.
func (lx *lexer) scanDollar(line string, start int) int {
	i := start + 1

	for i < len(line) && isIdentChar(line[i]) {
		i++
	}

	if i == start+1 {
		lx.errs = append(lx.errs, &UnexpectedCharacterError{
			lx.cursorAt(start, 1), '$',
		})

		return i
	}

	if isHexString(line[start+1 : i]) {
		lx.push(TOKEN_NUMBER, start, i-start, line[start:i])
	} else {
		lx.push(TOKEN_VARIABLE, start, i-start, line[start+1:i])
	}

	return i
}

func (lx *lexer) scanBinary(line string, start int) int {
	i := start + 1

	for i < len(line) && (isBinaryDigit(line[i]) || line[i] == '_') {
		i++
	}

	lx.push(TOKEN_NUMBER, start, i-start, line[start:i])
	return i
}

// scanQuoted consumes a character or string literal through its closing
// quote, honoring backslash escapes. The quotes stay in the token value;
// the parser decodes the contents.
func (lx *lexer) scanQuoted(
	line string, start int, quote byte, t TokenType,
) int {
	i := start + 1

	for i < len(line) && line[i] != quote {
		if line[i] == '\\' {
			i++
		}

		i++
	}

	if i >= len(line) {
		lx.errs = append(lx.errs, &InvalidStringError{
			lx.cursorAt(start, len(line)-start),
		})

		return len(line)
	}

	lx.push(t, start, i+1-start, line[start:i+1])
	return i + 1
}

// scanIdent consumes an identifier. A dot is an identifier character so
// condition suffixes like "b.ne" arrive as one token.
func (lx *lexer) scanIdent(line string, start int) int {
	i := start + 1

	for i < len(line) && (isIdentChar(line[i]) || line[i] == '.') {
		i++
	}

	lx.push(TOKEN_IDENT, start, i-start, line[start:i])
	return i
}

func (lx *lexer) scanOperator(line string, start int) int {
	rest := line[start:]

	for _, op := range operators3 {
		if strings.HasPrefix(rest, op) {
			lx.push(TOKEN_PUNCT, start, len(op), op)
			return start + len(op)
		}
	}

	for _, op := range operators2 {
		if strings.HasPrefix(rest, op) {
			lx.push(TOKEN_PUNCT, start, len(op), op)
			return start + len(op)
		}
	}

	c := line[start]

	if strings.IndexByte(punctuation, c) != -1 {
		lx.push(TOKEN_PUNCT, start, 1, string(c))
		return start + 1
	}

	if c > 127 {
		lx.errs = append(lx.errs, &OversizedCharacterError{
			lx.cursorAt(start, 1),
		})
	} else {
		lx.errs = append(lx.errs, &UnexpectedCharacterError{
			lx.cursorAt(start, 1), rune(c),
		})
	}

	return start + 1
}

func (lx *lexer) cursorAt(start, size int) ast.Cursor {
	return ast.Cursor{
		File:     lx.file,
		Line:     lx.line,
		Column:   start + 1,
		Byte:     lx.lineByte + int64(start),
		Size:     int64(size),
		LineByte: lx.lineByte,
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isBinaryDigit(c byte) bool {
	return c == '0' || c == '1'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isHexString(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isHexDigit(s[i]) && s[i] != '_' {
			return false
		}
	}

	return true
}

func isIdentStart(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
