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

// Package row defines the unit of data that flows through a row-source
// pipeline: an ordered tuple of literal slots plus an optional order
// key used by the sort operator.
package row

import "github.com/gpicchiarelli/rasqal/literal"

// Row is an ordered vector of bound values produced by one row-source
// and consumed by the next. OrderValues is populated only by the sort
// row-source (see rowsource.Sort); it is nil otherwise. Offset is a
// monotonically increasing index assigned by the producing operator.
type Row struct {
	Values      []literal.Literal
	OrderValues []literal.Literal
	Offset      int
}

// New allocates a Row with size value slots, all zero-valued.
func New(size int) *Row {
	return &Row{Values: make([]literal.Literal, size)}
}

// Clone returns a deep-enough copy: the Values/OrderValues slices are
// copied (literals themselves are cheap value copies, per
// literal.Literal.Clone).
func (r *Row) Clone() *Row {
	out := &Row{
		Values: append([]literal.Literal(nil), r.Values...),
		Offset: r.Offset,
	}
	if r.OrderValues != nil {
		out.OrderValues = append([]literal.Literal(nil), r.OrderValues...)
	}
	return out
}

// AllocateOrderValues grows OrderValues to exactly size slots,
// discarding any previous contents. Used by the sort row-source when
// it computes a row's order key.
func (r *Row) AllocateOrderValues(size int) {
	r.OrderValues = make([]literal.Literal, size)
}

// Size returns the number of value slots in r.
func (r *Row) Size() int { return len(r.Values) }
