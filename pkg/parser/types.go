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
	"fmt"

	"github.com/g10cpu/gog10/pkg/ast"
)

type TokenType uint

type Token struct {
	Type     TokenType
	Position ast.Cursor
	Value    string
}

func tokenName(t TokenType) string {
	switch t {
	case TOKEN_IDENT:
		return "Identifier"
	case TOKEN_NUMBER:
		return "Number"
	case TOKEN_FIXED:
		return "Number"
	case TOKEN_CHAR:
		return "Character"
	case TOKEN_STRING:
		return "String"
	case TOKEN_VARIABLE:
		return "Variable"
	case TOKEN_PUNCT:
		return "Punctuation"
	case TOKEN_EOL:
		return "End of line"
	default:
		return "<invalid>"
	}
}

type TokenError interface {
	GetPosition() ast.Cursor
}

type UnexpectedCharacterError struct {
	Position ast.Cursor
	Received rune
}

func (err *UnexpectedCharacterError) GetPosition() ast.Cursor {
	return err.Position
}

func (err *UnexpectedCharacterError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Unexpected character %c",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type OversizedCharacterError struct {
	Position ast.Cursor
}

func (err *OversizedCharacterError) GetPosition() ast.Cursor {
	return err.Position
}

func (err *OversizedCharacterError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Character exceeds ASCII limit",
		err.Position.Line,
		err.Position.Column,
	)
}

type InvalidLiteralError struct {
	Position ast.Cursor
}

func (err *InvalidLiteralError) GetPosition() ast.Cursor {
	return err.Position
}

func (err *InvalidLiteralError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Invalid numeric literal",
		err.Position.Line,
		err.Position.Column,
	)
}

type InvalidStringError struct {
	Position ast.Cursor
}

func (err *InvalidStringError) GetPosition() ast.Cursor {
	return err.Position
}

func (err *InvalidStringError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Invalid string literal",
		err.Position.Line,
		err.Position.Column,
	)
}

type UnexpectedTokenError struct {
	Position ast.Cursor
	Required string
	Received string
}

func (err *UnexpectedTokenError) GetPosition() ast.Cursor {
	return err.Position
}

func (err *UnexpectedTokenError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Unexpected token\n\twant:%s\n\thave:%s",
		err.Position.Line,
		err.Position.Column,
		err.Required,
		err.Received,
	)
}

type UnknownIdentifierError struct {
	Position ast.Cursor
	Received string
}

func (err *UnknownIdentifierError) GetPosition() ast.Cursor {
	return err.Position
}

func (err *UnknownIdentifierError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Unknown identifier '%s'",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type InvalidConditionError struct {
	Position ast.Cursor
	Received string
}

func (err *InvalidConditionError) GetPosition() ast.Cursor {
	return err.Position
}

func (err *InvalidConditionError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Invalid condition code '%s'",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}
