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

package object

const (
	// Section kinds
	SECTION_CODE SectionKind = iota
	SECTION_RESERVED
)

const (
	// Section flags
	FLAG_ALLOC SectionFlags = 1 << iota
	FLAG_LOAD
	FLAG_EXEC
	FLAG_WRITE
)

const (
	// Symbol bindings
	BINDING_LOCAL SymbolBinding = iota
	BINDING_GLOBAL
	BINDING_EXTERN
)

// SECTION_UNDEFINED marks a symbol with no owning section (externs).
const SECTION_UNDEFINED = -1

const (
	// Relocation kinds: absolute patches of 8, 16 and 32 bits, and their
	// PC-relative counterparts
	RELOC_ABS8 RelocKind = iota
	RELOC_ABS16
	RELOC_ABS32
	RELOC_REL8
	RELOC_REL16
	RELOC_REL32
)

const (
	// Image flags
	IMAGE_HAS_RELOCATIONS ImageFlags = 1 << iota
	IMAGE_HAS_ENTRYPOINT
)
