// Copyright (C) 2026 Rasqal Authors.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package vars implements the query's variables table: a registry of
// named bind variables addressed by a dense, stable index.
package vars

import (
	"fmt"

	"github.com/gpicchiarelli/rasqal/literal"
)

// Variable is a named slot and its current binding, if any.
type Variable struct {
	Name  string
	Value *literal.Literal
}

// Table is the registry of bind variables shared by a query and every
// row-source in its pipeline. Indices are dense and stable for the
// life of the query: once Seal is called, Declare panics, mirroring
// the "additions are only permitted before prepare completes"
// invariant.
type Table struct {
	vars   []Variable
	byName map[string]int
	sealed bool
}

// New returns an empty, unsealed variables table.
func New() *Table {
	return &Table{byName: make(map[string]int)}
}

// Declare interns name if not already present and returns its index.
// It panics if called after Seal, since indices must stay stable once
// row-sources start addressing by position.
func (t *Table) Declare(name string) int {
	if t.sealed {
		panic("vars: Declare called on a sealed table")
	}
	if i, ok := t.byName[name]; ok {
		return i
	}
	i := len(t.vars)
	t.vars = append(t.vars, Variable{Name: name})
	t.byName[name] = i
	return i
}

// Seal freezes the table's index assignment; it is idempotent.
func (t *Table) Seal() {
	t.sealed = true
}

// Len returns the number of declared variables.
func (t *Table) Len() int { return len(t.vars) }

// Name returns the variable name at index, or ("", false) if index is
// out of range.
func (t *Table) Name(index int) (string, bool) {
	if index < 0 || index >= len(t.vars) {
		return "", false
	}
	return t.vars[index].Name, true
}

// Lookup returns the index of the variable named name.
func (t *Table) Lookup(name string) (int, bool) {
	i, ok := t.byName[name]
	return i, ok
}

// GetValue returns the current binding for index, or nil if unbound.
func (t *Table) GetValue(index int) *literal.Literal {
	if index < 0 || index >= len(t.vars) {
		return nil
	}
	return t.vars[index].Value
}

// SetValue replaces the binding at index, discarding any previous
// value. It panics on an out-of-range index, since that indicates the
// caller addressed a variable that was never declared.
func (t *Table) SetValue(index int, value literal.Literal) {
	if index < 0 || index >= len(t.vars) {
		panic(fmt.Sprintf("vars: SetValue out of range: %d", index))
	}
	v := value
	t.vars[index].Value = &v
}

// Clear unbinds every variable, keeping the index assignment intact.
// The filter and sort row-sources call it before binding each row's
// values into the table.
func (t *Table) Clear() {
	for i := range t.vars {
		t.vars[i].Value = nil
	}
}
