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

// Package engine is the thin driver between a prepared query.Query
// and its rowsource pipeline: it owns the execute-init/get-next/
// execute-finish cycle and the row-sort helper functions the original
// engine API names, leaving the pipeline construction itself to the
// language factory.
package engine

import (
	"github.com/gpicchiarelli/rasqal/expr"
	"github.com/gpicchiarelli/rasqal/internal/engineerr"
	"github.com/gpicchiarelli/rasqal/literal"
	"github.com/gpicchiarelli/rasqal/query"
	"github.com/gpicchiarelli/rasqal/row"
	"github.com/gpicchiarelli/rasqal/sortmap"
)

// ExecuteInit validates that q has a pipeline installed and performs
// any one-time engine-side setup before the first GetNextResult call.
// The pipeline's own lazy Init/EnsureVariables happens on first read;
// this step only guards against executing a query with no root.
func ExecuteInit(q *query.Query) error {
	if q.Root() == nil {
		return engineerr.New(engineerr.CodeNotPrepared, "execute_init: no pipeline installed")
	}
	return nil
}

// GetNextResult pulls the next row from q's root row-source and
// assigns its bindings into the variables table. It returns -1 on
// error, 0 at end of stream, and 1 when a row was produced — the
// three-way status the original execute_init/get_next_result contract
// specifies.
func GetNextResult(q *query.Query) (int, error) {
	root := q.Root()
	if root == nil {
		return -1, engineerr.New(engineerr.CodeNotPrepared, "get_next_result: no pipeline installed")
	}
	r, err := root.ReadRow()
	if err != nil {
		return -1, err
	}
	if r == nil {
		return 0, nil
	}
	AssignBindingValues(q, r)
	return 1, nil
}

// AssignBindingValues copies r's value slots into q's variables table
// by position, making them visible to GetBindingValue and friends on
// the active Results iterator.
func AssignBindingValues(q *query.Query, r *row.Row) {
	vt := q.Variables()
	for i, v := range r.Values {
		if i >= vt.Len() {
			break
		}
		vt.SetValue(i, v)
	}
}

// ExecuteFinish releases the pipeline's resources. It is idempotent,
// delegating to the root row-source's own idempotent Finish.
func ExecuteFinish(q *query.Query) error {
	root := q.Root()
	if root == nil {
		return nil
	}
	return root.Finish()
}

// NewRowSortMap constructs the ordered map the sort row-source (or,
// as here, a caller driving the engine directly without going through
// rowsource.NewSort) uses to materialize and order rows.
func NewRowSortMap(distinct bool, flags expr.CompareFlags, conds []sortmap.OrderCondition) *sortmap.Map {
	return sortmap.New(distinct, flags, conds)
}

// RowSortCalculateOrderValues evaluates each of terms against r
// (after binding r's values into q's variables table) and stores the
// results in r.OrderValues, allocating it to len(terms) first. An
// order term that fails to evaluate contributes literal.Null() rather
// than aborting the whole row.
func RowSortCalculateOrderValues(q *query.Query, r *row.Row, terms []query.OrderTerm, flags expr.CompareFlags) {
	r.AllocateOrderValues(len(terms))
	AssignBindingValues(q, r)
	for i, t := range terms {
		v, err := expr.Evaluate(q, t.Expr, flags)
		if err != nil {
			r.OrderValues[i] = literal.Null()
			continue
		}
		r.OrderValues[i] = v
	}
}

// RowSortMapAddRow inserts r into m, returning false if it was
// rejected as a DISTINCT duplicate.
func RowSortMapAddRow(m *sortmap.Map, r *row.Row) bool {
	return m.Add(r)
}

// RowSortMapToSequence drains m into its final stable-sorted row
// sequence.
func RowSortMapToSequence(m *sortmap.Map) []*row.Row {
	return m.Drain()
}
