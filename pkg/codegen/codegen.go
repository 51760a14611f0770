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

// Package codegen turns a parsed syntax tree into a relocatable object
// image: machine code bytes, a symbol table and relocation entries.
//
// Generation runs four strictly sequential phases over the tree:
//
//   variables — evaluate let/const declarations and assignments into the
//               environment, since later address math may depend on them
//   layout    — assign addresses to labels and sections without emitting
//               a single byte
//   emit      — replay the tree with the completed label table, emitting
//               bytes and recording relocations for extern references
//   finalize  — set summary flags and validate globals and relocations
//
// The first error in any phase aborts the run; a failed run's state is
// discarded, never resumed.
package codegen

import (
	"github.com/g10cpu/gog10/pkg/ast"
	"github.com/g10cpu/gog10/pkg/env"
	"github.com/g10cpu/gog10/pkg/object"
)

type labelRef struct {
	section int
	addr    uint32
}

// generator is the per-run state. Exactly one exists per Generate call.
type generator struct {
	env *env.Environment
	obj *object.Object

	cursor    uint32
	savedCode uint32
	savedData uint32
	section   int
	ends      []uint32

	labels  map[string]labelRef
	globals map[string]ast.Cursor
	externs map[string]int

	// Reservation counts computed by the layout pass and replayed by the
	// emission pass, so the two cannot disagree on data-region sizing.
	reserves map[*ast.Data][]int64
}

// Generate runs code generation for prog, populating obj. The
// environment is cleared at the start of the run and mutated by variable
// declarations and assignments; it is an explicit collaborator so runs
// stay isolated from each other.
func Generate(prog *ast.Program, environment *env.Environment, obj *object.Object) error {
	g := &generator{
		env:      environment,
		obj:      obj,
		labels:   make(map[string]labelRef),
		globals:  make(map[string]ast.Cursor),
		externs:  make(map[string]int),
		reserves: make(map[*ast.Data][]int64),
	}

	g.reset()
	environment.Clear()

	if err := g.runVariables(prog); err != nil {
		return &PhaseError{"variables", err}
	}

	if err := g.runLayout(prog); err != nil {
		return &PhaseError{"layout", err}
	}

	g.reset()

	if err := g.runEmit(prog); err != nil {
		return &PhaseError{"emit", err}
	}

	if err := g.finalize(); err != nil {
		return &PhaseError{"finalize", err}
	}

	return nil
}

// reset returns the cursor state to its initial defaults. Called before
// the layout pass and again before the emission pass so both walks start
// from identical state.
func (g *generator) reset() {
	g.cursor = DEFAULT_CODE_BASE
	g.savedCode = DEFAULT_CODE_BASE
	g.savedData = DEFAULT_DATA_BASE
	g.section = -1

	// Section content ends, indexed like obj.Sections, used for the
	// contiguity test when deciding whether to reuse a section
	g.ends = g.ends[:0]

	for i := range g.obj.Sections {
		g.ends = append(g.ends, g.obj.Sections[i].Base)
	}
}

func isDataAddr(addr uint32) bool {
	return addr&REGION_BIT != 0
}

// runVariables is the variable resolution pass. It scans top-level
// declarations and assignments only, mutating the environment; all
// address-related nodes are skipped.
func (g *generator) runVariables(prog *ast.Program) error {
	for _, node := range prog.Nodes {
		switch n := node.(type) {
		case *ast.Declare:
			if err := g.declareVariable(n); err != nil {
				return err
			}

		case *ast.Assign:
			if err := g.assignVariable(n); err != nil {
				return err
			}
		}
	}

	return nil
}

func (g *generator) declareVariable(n *ast.Declare) error {
	value, err := g.evalExpr(n.Value)

	if err != nil {
		return err
	}

	integer, err := value.CoerceInt(n.Position)

	if err != nil {
		return err
	}

	if n.Const {
		err = g.env.DefineConst(n.Name, integer)
	} else {
		err = g.env.Define(n.Name, integer)
	}

	if err != nil {
		return &SourceError{n.Position, err}
	}

	return nil
}

func (g *generator) assignVariable(n *ast.Assign) error {
	current, err := g.env.Get(n.Name)

	if err != nil {
		return &SourceError{n.Position, err}
	}

	value, err := g.evalExpr(n.Value)

	if err != nil {
		return err
	}

	rhs, err := value.CoerceInt(n.Position)

	if err != nil {
		return err
	}

	var result int64

	switch n.Op {
	case ast.ASSIGN_SET:
		result = rhs

	case ast.ASSIGN_ADD:
		result = current + rhs

	case ast.ASSIGN_SUB:
		result = current - rhs

	case ast.ASSIGN_MUL:
		result = current * rhs

	case ast.ASSIGN_DIV:
		if rhs == 0 {
			return &DivisionByZeroError{n.Position}
		}

		result = current / rhs

	case ast.ASSIGN_MOD:
		if rhs == 0 {
			return &DivisionByZeroError{n.Position}
		}

		result = current % rhs

	case ast.ASSIGN_POW:
		// Same policy as the binary ** operator: a negative exponent is
		// an error, never a silent 1
		if rhs < 0 {
			return &NegativeExponentError{n.Position, rhs}
		}

		result = 1

		for i := int64(0); i < rhs; i++ {
			result *= current
		}

	case ast.ASSIGN_AND:
		result = current & rhs

	case ast.ASSIGN_OR:
		result = current | rhs

	case ast.ASSIGN_XOR:
		result = current ^ rhs

	case ast.ASSIGN_SHL:
		if rhs < 0 || rhs > 63 {
			return &ShiftRangeError{n.Position, rhs}
		}

		result = current << uint(rhs)

	case ast.ASSIGN_SHR:
		if rhs < 0 || rhs > 63 {
			return &ShiftRangeError{n.Position, rhs}
		}

		result = current >> uint(rhs)

	default:
		return &InternalError{n.Position, "unknown assignment operator"}
	}

	if err := g.env.Set(n.Name, result); err != nil {
		return &SourceError{n.Position, err}
	}

	return nil
}
