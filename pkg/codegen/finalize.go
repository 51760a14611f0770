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
	"sort"

	"github.com/g10cpu/gog10/pkg/ast"
	"github.com/g10cpu/gog10/pkg/object"
)

// finalize checks the completed image and stamps its summary flags. A
// symbol declared global must be defined somewhere in the unit; all
// undefined globals are reported together rather than one at a time.
func (g *generator) finalize() error {
	var undefined []string

	for name := range g.globals {
		index, found := g.obj.FindSymbol(name)

		if !found || g.obj.Symbols[index].Section == object.SECTION_UNDEFINED {
			undefined = append(undefined, name)
		}
	}

	if len(undefined) > 0 {
		sort.Strings(undefined)
		return &UndefinedGlobalsError{undefined}
	}

	if err := g.checkRelocations(); err != nil {
		return err
	}

	if len(g.obj.Relocations) > 0 {
		g.obj.SetFlags(object.IMAGE_HAS_RELOCATIONS)
	}

	for _, name := range entryPointNames {
		index, found := g.obj.FindSymbol(name)

		if found && g.obj.Symbols[index].Section != object.SECTION_UNDEFINED {
			g.obj.SetFlags(object.IMAGE_HAS_ENTRYPOINT)
			break
		}
	}

	return nil
}

// checkRelocations validates every recorded relocation against the
// image: section and symbol indices must be in range and the patch site
// must lie within its section's emitted bytes.
func (g *generator) checkRelocations() error {
	for i, rel := range g.obj.Relocations {
		if rel.Section < 0 || rel.Section >= len(g.obj.Sections) {
			return &InternalError{ast.Cursor{}, fmt.Sprintf(
				"relocation %d references section %d", i, rel.Section,
			)}
		}

		if rel.Symbol < 0 || rel.Symbol >= len(g.obj.Symbols) {
			return &InternalError{ast.Cursor{}, fmt.Sprintf(
				"relocation %d references symbol %d", i, rel.Symbol,
			)}
		}

		section := g.obj.Section(rel.Section)
		end := rel.Offset + object.RelocWidth(rel.Kind)

		if end > uint32(len(section.Data)) {
			return &InternalError{ast.Cursor{}, fmt.Sprintf(
				"relocation %d patches %08x..%08x past section '%s' data",
				i,
				rel.Offset,
				end,
				section.Name,
			)}
		}
	}

	return nil
}
