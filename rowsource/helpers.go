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

package rowsource

import (
	"github.com/gpicchiarelli/rasqal/literal"
	"github.com/gpicchiarelli/rasqal/row"
)

// assignRowToVariables binds r's values into q's variables table by
// position: r.Values[i] is the current binding of the variable at
// table index i. This is how an expression referencing "?x" resolves
// to the value a row carries without the evaluator ever touching a
// Row directly.
func assignRowToVariables(q Query, r *row.Row) {
	vt := q.Variables()
	vt.Clear()
	for i, v := range r.Values {
		if i >= vt.Len() {
			break
		}
		if v.IsNull() {
			continue
		}
		vt.SetValue(i, v)
	}
}

// refreshRowFromVariables clones the current binding for each of r's
// value slots back out of q's variables table, by position, into
// r.Values. Called after evaluation so a downstream operator always
// sees the fully-resolved row rather than the bindings r carried on
// entry.
func refreshRowFromVariables(q Query, r *row.Row) {
	vt := q.Variables()
	for i := range r.Values {
		if i >= vt.Len() {
			break
		}
		if v := vt.GetValue(i); v != nil {
			r.Values[i] = *v
		}
	}
}

// boolOf coerces an evaluated literal to (value, unknown), collapsing
// any non-boolean-coercible result to unknown rather than false —
// callers other than the filter row-source must treat unknown as
// "neither true nor false".
func boolOf(l literal.Literal) (bool, bool) {
	return literal.AsBoolean(l)
}
