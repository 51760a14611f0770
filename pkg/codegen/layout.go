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
	"fmt"

	"github.com/g10cpu/gog10/pkg/ast"
	"github.com/g10cpu/gog10/pkg/object"
)

// runLayout is the address assignment pass: it walks the tree once,
// recording label addresses and opening sections, without emitting a
// single byte. The emission pass replays the identical address math, so
// every helper here is shared between the two.
func (g *generator) runLayout(prog *ast.Program) error {
	for _, node := range prog.Nodes {
		switch n := node.(type) {
		case *ast.Label:
			if err := g.layoutLabel(n); err != nil {
				return err
			}

		case *ast.Instruction:
			if isDataAddr(g.cursor) {
				return &DataRegionError{n.Position}
			}

			if err := g.enterSection(n.Position, true); err != nil {
				return err
			}

			size, err := InstructionSize(n)

			if err != nil {
				return err
			}

			g.advance(size)

		case *ast.Origin:
			addr, err := g.originTarget(n)

			if err != nil {
				return err
			}

			g.moveTo(addr)

			if err := g.enterSection(n.Position, true); err != nil {
				return err
			}

		case *ast.Region:
			g.switchRegion(n.Data)

			if err := g.enterSection(n.Position, true); err != nil {
				return err
			}

		case *ast.Vector:
			addr, err := g.vectorTarget(n)

			if err != nil {
				return err
			}

			g.moveTo(addr)

			if err := g.enterSection(n.Position, true); err != nil {
				return err
			}

		case *ast.Data:
			if err := g.layoutData(n); err != nil {
				return err
			}

		case *ast.Global:
			if err := g.declareGlobal(n); err != nil {
				return err
			}

		case *ast.Extern:
			if err := g.declareExtern(n); err != nil {
				return err
			}

		case *ast.Declare, *ast.Assign:
			// Handled by the variable pass

		default:
			return &InternalError{node.Pos(), "unknown node kind"}
		}
	}

	return nil
}

// moveTo relocates the cursor, first storing the outgoing position into
// its region's slot. The save is unconditional: a vector directive moves
// within the code region, and a later region switch must still resume
// where the code left off before the detour.
func (g *generator) moveTo(addr uint32) {
	if isDataAddr(g.cursor) {
		g.savedData = g.cursor
	} else {
		g.savedCode = g.cursor
	}

	g.cursor = addr
}

// switchRegion restores the target region's saved cursor. The outgoing
// cursor is saved only when the regions differ; switching to the region
// already active resumes its slot, which is how code continues after a
// vector slot.
func (g *generator) switchRegion(data bool) {
	if isDataAddr(g.cursor) != data {
		if isDataAddr(g.cursor) {
			g.savedData = g.cursor
		} else {
			g.savedCode = g.cursor
		}
	}

	if data {
		g.cursor = g.savedData
	} else {
		g.cursor = g.savedCode
	}
}

// advance moves the cursor forward and tracks the end of the current
// section for the contiguity test in enterSection.
func (g *generator) advance(size uint32) {
	g.cursor += size
	g.ends[g.section] = g.cursor
}

// enterSection makes sure a section is open at the cursor. A section
// whose kind matches the cursor's region and whose content ends exactly
// at the cursor continues, so a detour through a vector slot or another
// origin does not fragment it. Otherwise the layout pass opens a new
// section (create) while the emission pass locates the one layout must
// already have opened there. Both passes scan in section index order
// against identically replayed content ends, so they resolve the same
// section even when several share a base address.
func (g *generator) enterSection(pos ast.Cursor, create bool) error {
	kind := object.SECTION_CODE
	name := "code"
	flags := object.FLAG_ALLOC | object.FLAG_LOAD | object.FLAG_EXEC

	if isDataAddr(g.cursor) {
		kind = object.SECTION_RESERVED
		name = "bss"
		flags = object.FLAG_ALLOC | object.FLAG_WRITE
	}

	if g.section >= 0 {
		current := g.obj.Section(g.section)

		if current.Kind == kind && g.ends[g.section] == g.cursor {
			return nil
		}
	}

	for i := range g.obj.Sections {
		if g.obj.Sections[i].Kind == kind && g.ends[i] == g.cursor {
			g.section = i
			return nil
		}
	}

	if create {
		name = fmt.Sprintf("%s@%08x", name, g.cursor)

		// A second section opened at an already-used base keeps a
		// distinct name; overlap detection is the consumer's concern
		if _, exists := g.obj.FindSection(g.cursor, kind); exists {
			name = fmt.Sprintf("%s+%d", name, len(g.obj.Sections))
		}

		g.section = g.obj.AddSection(object.Section{
			Name:  name,
			Base:  g.cursor,
			Kind:  kind,
			Flags: flags,
		})

		g.ends = append(g.ends, g.cursor)
		return nil
	}

	return &InternalError{pos, fmt.Sprintf(
		"no section ending at %08x; layout and emission disagree", g.cursor,
	)}
}

func (g *generator) layoutLabel(n *ast.Label) error {
	if _, exists := g.labels[n.Name]; exists {
		return &RedefinedLabelError{n.Position, n.Name}
	}

	if err := g.enterSection(n.Position, true); err != nil {
		return err
	}

	binding := object.BINDING_LOCAL

	if _, global := g.globals[n.Name]; global {
		binding = object.BINDING_GLOBAL
	}

	_, err := g.obj.AddSymbol(object.Symbol{
		Name:    n.Name,
		Value:   g.cursor,
		Section: g.section,
		Binding: binding,
	})

	if err != nil {
		return &SourceError{n.Position, err}
	}

	g.labels[n.Name] = labelRef{g.section, g.cursor}
	return nil
}

// originTarget evaluates an address-set directive's expression: an
// integer in 0..2^32-1 or a value that is already an address.
func (g *generator) originTarget(n *ast.Origin) (uint32, error) {
	value, err := g.evalExpr(n.Addr)

	if err != nil {
		return 0, err
	}

	switch value.Type {
	case VALUE_ADDR:
		return value.Addr, nil
	case VALUE_INT:
		if value.Int < 0 || value.Int > 0xFFFFFFFF {
			return 0, &ValueRangeError{
				n.Position, "0..4294967295", value.Int,
			}
		}

		return uint32(value.Int), nil
	default:
		return 0, &CoercionError{n.Position, "Address", value.TypeName()}
	}
}

// vectorTarget maps an interrupt vector number to its slot in the vector
// table, always in the code region.
func (g *generator) vectorTarget(n *ast.Vector) (uint32, error) {
	value, err := g.evalExpr(n.Number)

	if err != nil {
		return 0, err
	}

	number, err := value.CoerceInt(n.Position)

	if err != nil {
		return 0, err
	}

	if number < 0 || number >= VECTOR_COUNT {
		return 0, &ValueRangeError{n.Position, "0..31", number}
	}

	return VECTOR_TABLE_BASE + uint32(number)*VECTOR_SLOT_SIZE, nil
}

// layoutData sizes a data directive. In the code region each value takes
// the directive width, except strings in byte directives, which take one
// byte per character. In the data region each value expression is a
// reservation count; the counts are evaluated here, once, and replayed
// verbatim by the emission pass.
func (g *generator) layoutData(n *ast.Data) error {
	if err := g.enterSection(n.Position, true); err != nil {
		return err
	}

	if isDataAddr(g.cursor) {
		counts := make([]int64, 0, len(n.Values))
		var total int64

		for _, expr := range n.Values {
			if _, externs := g.externRef(expr); externs > 0 {
				return &ReserveExternError{expr.Pos()}
			}

			value, err := g.evalExpr(expr)

			if err != nil {
				return err
			}

			count, err := value.CoerceInt(expr.Pos())

			if err != nil {
				return err
			}

			if count < 0 {
				return &ReserveCountError{expr.Pos(), count}
			}

			counts = append(counts, count)
			total += count
		}

		size := total * int64(n.Width)

		if size > int64(^uint32(0)-g.cursor) {
			return &ValueRangeError{n.Position, "address space", size}
		}

		g.reserves[n] = counts
		g.advance(uint32(size))
		return nil
	}

	size, err := dataSize(n)

	if err != nil {
		return err
	}

	g.advance(size)
	return nil
}

// dataSize is the code-region size of a data directive, shared by both
// passes.
func dataSize(n *ast.Data) (uint32, error) {
	var size uint32

	for _, expr := range n.Values {
		if lit, ok := stringLiteral(expr); ok {
			if n.Width != ast.DATA_BYTE {
				return 0, &StringWidthError{expr.Pos()}
			}

			size += uint32(len(lit.Value))
			continue
		}

		size += uint32(n.Width)
	}

	return size, nil
}

// stringLiteral unwraps grouping to find a plain string literal.
func stringLiteral(e ast.Expr) (*ast.StringLit, bool) {
	switch expr := e.(type) {
	case *ast.StringLit:
		return expr, true
	case *ast.Group:
		return stringLiteral(expr.Expr)
	default:
		return nil, false
	}
}

func (g *generator) declareGlobal(n *ast.Global) error {
	if _, exists := g.externs[n.Name]; exists {
		return &GlobalExternConflictError{n.Position, n.Name}
	}

	if _, exists := g.globals[n.Name]; exists {
		return &DuplicateGlobalError{n.Position, n.Name}
	}

	g.globals[n.Name] = n.Position

	// A label defined before its global declaration is upgraded in place
	if index, found := g.obj.FindSymbol(n.Name); found {
		g.obj.Symbols[index].Binding = object.BINDING_GLOBAL
	}

	return nil
}

func (g *generator) declareExtern(n *ast.Extern) error {
	if _, exists := g.globals[n.Name]; exists {
		return &GlobalExternConflictError{n.Position, n.Name}
	}

	if _, exists := g.externs[n.Name]; exists {
		// Duplicate extern declarations are harmless
		return nil
	}

	index, err := g.obj.AddSymbol(object.Symbol{
		Name:    n.Name,
		Section: object.SECTION_UNDEFINED,
		Binding: object.BINDING_EXTERN,
	})

	if err != nil {
		return &SourceError{n.Position, err}
	}

	g.externs[n.Name] = index
	return nil
}
