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

// Package object implements the relocatable object image accumulated by
// the code generator: sections, symbols, relocations and summary flags.
// The package does no file I/O; the fields are exported so callers can
// serialize the image however they choose.
package object

import "fmt"

type SectionKind uint
type SectionFlags uint
type SymbolBinding uint
type RelocKind uint
type ImageFlags uint

type DuplicateSymbolError struct {
	Name string
}

func (err *DuplicateSymbolError) Error() string {
	return fmt.Sprintf("Duplicate symbol '%s'", err.Name)
}

// RelocWidth returns the patch width of a relocation kind in bytes.
func RelocWidth(kind RelocKind) uint32 {
	switch kind {
	case RELOC_ABS8, RELOC_REL8:
		return 1
	case RELOC_ABS16, RELOC_REL16:
		return 2
	default:
		return 4
	}
}

// Symbol is a named address. Section is the owning section index, or
// SECTION_UNDEFINED for externs.
type Symbol struct {
	Name    string
	Value   uint32
	Section int
	Binding SymbolBinding
}

// Section is a contiguous address range. Reserved-space sections occupy
// their range but carry no bytes; Size is the byte length for both kinds
// and always equals len(Data) for code sections.
type Section struct {
	Name  string
	Base  uint32
	Kind  SectionKind
	Flags SectionFlags
	Size  uint32
	Data  []byte
}

// Relocation is a deferred patch: the linker writes the final value of
// Symbol plus Addend at Offset within Section.
type Relocation struct {
	Section int
	Offset  uint32
	Symbol  int
	Kind    RelocKind
	Addend  int64
}

// Object is the accumulated image. All lists are append-only.
type Object struct {
	Sections    []Section
	Symbols     []Symbol
	Relocations []Relocation
	Flags       ImageFlags
}

func New() *Object {
	return &Object{}
}

// AddSymbol appends a symbol and returns its index. Symbol names are
// unique across the image.
func (o *Object) AddSymbol(sym Symbol) (int, error) {
	if _, exists := o.FindSymbol(sym.Name); exists {
		return 0, &DuplicateSymbolError{sym.Name}
	}

	o.Symbols = append(o.Symbols, sym)
	return len(o.Symbols) - 1, nil
}

// FindSymbol returns the index of the named symbol.
func (o *Object) FindSymbol(name string) (int, bool) {
	for i := range o.Symbols {
		if o.Symbols[i].Name == name {
			return i, true
		}
	}

	return 0, false
}

// AddSection appends a section and returns its index.
func (o *Object) AddSection(sec Section) int {
	o.Sections = append(o.Sections, sec)
	return len(o.Sections) - 1
}

// Section returns the section at index for mutation.
func (o *Object) Section(index int) *Section {
	return &o.Sections[index]
}

// FindSection returns the index of the section based at addr with the
// given kind.
func (o *Object) FindSection(addr uint32, kind SectionKind) (int, bool) {
	for i := range o.Sections {
		if o.Sections[i].Base == addr && o.Sections[i].Kind == kind {
			return i, true
		}
	}

	return 0, false
}

// AddRelocation appends a relocation entry.
func (o *Object) AddRelocation(rel Relocation) {
	o.Relocations = append(o.Relocations, rel)
}

// SetFlags ors flags into the image summary flags.
func (o *Object) SetFlags(flags ImageFlags) {
	o.Flags |= flags
}
