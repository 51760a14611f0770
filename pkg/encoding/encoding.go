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

package encoding

import (
	"errors"
	"strconv"
	"strings"
)

// Decodes an integer literal in the formats: 255, $FF, 0xFF, %1111.
// Underscores may be used as visual separators: $CAFE_BABE.
func DecodeInteger(s string) (int64, error) {
	s = strings.ReplaceAll(s, "_", "")

	if s == "" {
		return 0, errors.New("Empty numeric literal")
	}

	var base = 10

	switch {
	case strings.HasPrefix(s, "$"):
		s = s[1:]
		base = 16
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		s = s[2:]
		base = 16
	case strings.HasPrefix(s, "%"):
		s = s[1:]
		base = 2
	}

	result, err := strconv.ParseUint(s, base, 64)

	if err != nil {
		return 0, errors.New("Invalid numeric literal")
	}

	return int64(result), nil
}

// Decodes a fractional literal such as 12.5 into 32.32 fixed point: the
// upper 32 bits hold the integer part, the lower 32 the fraction. The
// literal must be unsigned; negation is applied by the caller as the
// two's complement of the result.
func DecodeFixed(s string) (uint64, error) {
	s = strings.ReplaceAll(s, "_", "")

	point := strings.IndexByte(s, '.')

	if point == -1 {
		return 0, errors.New("Fixed-point literal missing fraction")
	}

	intpart := s[:point]
	fracpart := s[point+1:]

	if intpart == "" {
		intpart = "0"
	}

	if fracpart == "" {
		return 0, errors.New("Fixed-point literal missing fraction digits")
	}

	integer, err := strconv.ParseUint(intpart, 10, 32)

	if err != nil {
		return 0, errors.New("Fixed-point integer part out of range")
	}

	for i := 0; i < len(fracpart); i++ {
		if fracpart[i] < '0' || fracpart[i] > '9' {
			return 0, errors.New("Invalid fixed-point literal")
		}
	}

	// Nine digits saturate a 32-bit fraction and keep digits<<32 within
	// uint64 range
	if len(fracpart) > 9 {
		fracpart = fracpart[:9]
	}

	digits, err := strconv.ParseUint(fracpart, 10, 64)

	if err != nil {
		return 0, errors.New("Invalid fixed-point literal")
	}

	var pow uint64 = 1

	for range fracpart {
		pow *= 10
	}

	// Rounded binary fraction: digits / 10^n scaled to 2^32
	frac := (digits<<32 + pow/2) / pow

	return integer<<32 | (frac & 0xFFFFFFFF), nil
}

// FixedInt returns the integer half of a 32.32 fixed-point value,
// reinterpreted as signed.
func FixedInt(v uint64) int64 {
	return int64(int32(v >> 32))
}

// AppendWord appends a 16-bit value in little-endian byte order.
func AppendWord(buf []byte, v uint16) []byte {
	return append(buf, byte(v), byte(v>>8))
}

// AppendDword appends a 32-bit value in little-endian byte order.
func AppendDword(buf []byte, v uint32) []byte {
	return append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}
