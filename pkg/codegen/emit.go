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

// runEmit is the code emission pass: it replays the tree with the
// completed label table, writing bytes into the sections the layout pass
// opened and recording relocations for extern references. Any address
// the layout pass assigned that this pass cannot reproduce is an
// internal error, not a source error.
func (g *generator) runEmit(prog *ast.Program) error {
	for _, node := range prog.Nodes {
		switch n := node.(type) {
		case *ast.Label, *ast.Global, *ast.Extern,
			*ast.Declare, *ast.Assign:
			// Fully handled by earlier passes

		case *ast.Instruction:
			if err := g.enterSection(n.Position, false); err != nil {
				return err
			}

			bytes, err := g.encodeInstruction(n, g.cursor)

			if err != nil {
				return err
			}

			if err := g.write(n.Position, bytes); err != nil {
				return err
			}

		case *ast.Origin:
			addr, err := g.originTarget(n)

			if err != nil {
				return err
			}

			g.moveTo(addr)

			if err := g.enterSection(n.Position, false); err != nil {
				return err
			}

		case *ast.Region:
			g.switchRegion(n.Data)

			if err := g.enterSection(n.Position, false); err != nil {
				return err
			}

		case *ast.Vector:
			addr, err := g.vectorTarget(n)

			if err != nil {
				return err
			}

			g.moveTo(addr)

			if err := g.enterSection(n.Position, false); err != nil {
				return err
			}

		case *ast.Data:
			if err := g.emitData(n); err != nil {
				return err
			}

		default:
			return &InternalError{node.Pos(), "unknown node kind"}
		}
	}

	return nil
}

// write appends bytes to the current section. The cursor must equal the
// section base plus the bytes already emitted; anything else means the
// two passes have drifted apart.
func (g *generator) write(pos ast.Cursor, bytes []byte) error {
	section := g.obj.Section(g.section)

	if g.cursor != section.Base+uint32(len(section.Data)) {
		return &InternalError{pos, fmt.Sprintf(
			"cursor %08x does not match section '%s' content end %08x",
			g.cursor,
			section.Name,
			section.Base+uint32(len(section.Data)),
		)}
	}

	section.Data = append(section.Data, bytes...)
	section.Size = uint32(len(section.Data))
	g.advance(uint32(len(bytes)))
	return nil
}

// emitData writes a data directive's values in the code region, or
// advances the cursor by the reservation recorded during layout in the
// data region.
func (g *generator) emitData(n *ast.Data) error {
	if err := g.enterSection(n.Position, false); err != nil {
		return err
	}

	if isDataAddr(g.cursor) {
		counts, recorded := g.reserves[n]

		if !recorded {
			return &InternalError{
				n.Position, "reservation counts missing from layout",
			}
		}

		var total int64

		for _, count := range counts {
			total += count
		}

		section := g.obj.Section(g.section)
		g.advance(uint32(total) * uint32(n.Width))
		section.Size = g.cursor - section.Base
		return nil
	}

	width := uint32(n.Width)

	for _, expr := range n.Values {
		if lit, ok := stringLiteral(expr); ok {
			if n.Width != ast.DATA_BYTE {
				return &StringWidthError{expr.Pos()}
			}

			if err := g.write(n.Position, []byte(lit.Value)); err != nil {
				return err
			}

			continue
		}

		name, count := g.externRef(expr)

		if count > 1 {
			return &MultipleExternError{expr.Pos()}
		}

		if count == 1 {
			if err := g.emitDataReloc(n, expr, name); err != nil {
				return err
			}

			continue
		}

		value, err := g.evalExpr(expr)

		if err != nil {
			return err
		}

		integer, err := value.CoerceInt(expr.Pos())

		if err != nil {
			return err
		}

		if err := checkImmWidth(integer, width, expr.Pos()); err != nil {
			return err
		}

		if err := g.write(
			n.Position, appendImmediate(nil, integer, width),
		); err != nil {
			return err
		}
	}

	return nil
}

// emitDataReloc writes a zero placeholder for a value that references an
// extern symbol and records an absolute relocation of the element width
// at the placeholder's offset.
func (g *generator) emitDataReloc(n *ast.Data, expr ast.Expr, name string) error {
	addend, err := g.evalExpr(expr)

	if err != nil {
		return err
	}

	value, err := addend.CoerceInt(expr.Pos())

	if err != nil {
		return err
	}

	var kind object.RelocKind

	switch n.Width {
	case ast.DATA_BYTE:
		kind = object.RELOC_ABS8
	case ast.DATA_WORD:
		kind = object.RELOC_ABS16
	default:
		kind = object.RELOC_ABS32
	}

	section := g.obj.Section(g.section)

	g.obj.AddRelocation(object.Relocation{
		Section: g.section,
		Offset:  uint32(len(section.Data)),
		Symbol:  g.externs[name],
		Kind:    kind,
		Addend:  value,
	})

	return g.write(n.Position, make([]byte, n.Width))
}
