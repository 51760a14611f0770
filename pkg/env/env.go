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

// Package env implements the source-level variable environment. The table
// is an explicit store passed into each code generation run; Clear is
// called once at the start of a run rather than the table being recreated,
// so a single table can be reused across runs without leakage.
package env

import "fmt"

type RedefinedError struct {
	Name string
}

func (err *RedefinedError) Error() string {
	return fmt.Sprintf("Redefinition of variable '%s'", err.Name)
}

type UndefinedError struct {
	Name string
}

func (err *UndefinedError) Error() string {
	return fmt.Sprintf("Undefined variable '%s'", err.Name)
}

type ConstantError struct {
	Name string
}

func (err *ConstantError) Error() string {
	return fmt.Sprintf("Assignment to constant '%s'", err.Name)
}

// Environment maps variable names to integer values.
type Environment struct {
	values map[string]int64
	consts map[string]bool
}

func New() *Environment {
	return &Environment{
		values: make(map[string]int64),
		consts: make(map[string]bool),
	}
}

// Define introduces a new mutable variable. Defining a name that already
// exists, constant or not, is an error.
func (e *Environment) Define(name string, value int64) error {
	if _, exists := e.values[name]; exists {
		return &RedefinedError{name}
	}

	e.values[name] = value
	return nil
}

// DefineConst introduces a new constant.
func (e *Environment) DefineConst(name string, value int64) error {
	if err := e.Define(name, value); err != nil {
		return err
	}

	e.consts[name] = true
	return nil
}

// Get returns the value bound to name.
func (e *Environment) Get(name string) (int64, error) {
	value, exists := e.values[name]

	if !exists {
		return 0, &UndefinedError{name}
	}

	return value, nil
}

// Set rebinds an existing mutable variable.
func (e *Environment) Set(name string, value int64) error {
	if _, exists := e.values[name]; !exists {
		return &UndefinedError{name}
	}

	if e.consts[name] {
		return &ConstantError{name}
	}

	e.values[name] = value
	return nil
}

// Has reports whether name is bound.
func (e *Environment) Has(name string) bool {
	_, exists := e.values[name]
	return exists
}

// IsConst reports whether name is bound as a constant.
func (e *Environment) IsConst(name string) bool {
	return e.consts[name]
}

// Clear removes every binding. Called once at the start of each code
// generation run.
func (e *Environment) Clear() {
	for name := range e.values {
		delete(e.values, name)
	}

	for name := range e.consts {
		delete(e.consts, name)
	}
}
