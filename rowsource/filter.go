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
	"github.com/gpicchiarelli/rasqal/expr"
	"github.com/gpicchiarelli/rasqal/row"
)

// filterHandler re-evaluates a FILTER expression against each row
// pulled from an inner source, forwarding only rows for which the
// expression is true. A TypeError (or any unknown/non-boolean
// outcome) rejects the row silently rather than propagating, instead
// of aborting the query.
type filterHandler struct {
	query Query
	inner *RowSource
	cond  expr.Node
	flags expr.CompareFlags

	// offset counts rows actually forwarded, independent of how many
	// the inner source produced; it seeds Row.Offset, so forwarded rows
	// are numbered 0, 1, 2, ... in the order they survived the filter.
	offset int
}

// NewFilter returns a row-source that forwards rows from inner for
// which cond evaluates to boolean true, using the owning query's
// variable bindings and compare-flags.
func NewFilter(q Query, inner *RowSource, cond expr.Node) *RowSource {
	return New(&filterHandler{query: q, inner: inner, cond: cond, flags: q.CompareFlags()})
}

func (f *filterHandler) Init() error {
	return nil
}

func (f *filterHandler) EnsureVariables() (int, error) {
	return f.inner.Size()
}

func (f *filterHandler) GetQuery() Query {
	return f.query
}

func (f *filterHandler) ReadRow() (*row.Row, error) {
	for {
		r, err := f.inner.ReadRow()
		if err != nil {
			return nil, err
		}
		if r == nil {
			return nil, nil
		}

		// The variables table is refreshed from r's bound values,
		// unconditionally, on every iteration: cond may reference any
		// subset of the row's variables and the evaluator resolves
		// them by name through the shared table, not through r
		// directly.
		assignRowToVariables(f.query, r)

		v, evalErr := expr.Evaluate(f.query, f.cond, f.flags)
		if evalErr != nil {
			continue
		}
		ok, unknown := boolOf(v)
		if unknown || !ok {
			continue
		}

		// The evaluator may have narrowed bindings beyond what r
		// carried on entry; refresh r's slots from the variables
		// table so downstream operators see the fully-resolved row.
		refreshRowFromVariables(f.query, r)
		r.Offset = f.offset
		f.offset++
		return r, nil
	}
}

func (f *filterHandler) Finish() error {
	return f.inner.Finish()
}
