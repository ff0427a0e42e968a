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

package engine

import (
	"testing"

	"github.com/gpicchiarelli/rasqal/expr"
	"github.com/gpicchiarelli/rasqal/literal"
	"github.com/gpicchiarelli/rasqal/query"
	"github.com/gpicchiarelli/rasqal/row"
	"github.com/gpicchiarelli/rasqal/rowsource"
	"github.com/gpicchiarelli/rasqal/sortmap"
)

type fakeLeaf struct {
	q    *query.Query
	rows []*row.Row
	next int
}

func (f *fakeLeaf) Init() error                   { return nil }
func (f *fakeLeaf) EnsureVariables() (int, error) { return f.q.Variables().Len(), nil }
func (f *fakeLeaf) GetQuery() rowsource.Query      { return f.q }
func (f *fakeLeaf) ReadRow() (*row.Row, error) {
	if f.next >= len(f.rows) {
		return nil, nil
	}
	r := f.rows[f.next]
	f.next++
	return r, nil
}

func newQueryWithRows(t *testing.T, rows []*row.Row) *query.Query {
	t.Helper()
	q, err := query.New(nil, "test")
	if err != nil {
		t.Fatalf("query.New() error: %v", err)
	}
	q.AddSelectVariable("x")
	q.SetRoot(rowsource.New(&fakeLeaf{q: q, rows: rows}))
	if err := q.Prepare("SELECT ?x WHERE { }", ""); err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}
	if _, err := q.Execute(); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	return q
}

func rowOf(v int64) *row.Row {
	r := row.New(1)
	r.Values[0] = literal.Integer(v)
	return r
}

func TestGetNextResultProducesRowThenEOF(t *testing.T) {
	q := newQueryWithRows(t, []*row.Row{rowOf(1), rowOf(2)})

	status, err := GetNextResult(q)
	if err != nil || status != 1 {
		t.Fatalf("GetNextResult() = (%d, %v), want (1, nil)", status, err)
	}
	if v := q.Variables().GetValue(0); v == nil || v.Int != 1 {
		t.Fatalf("variable bound to %v after first row, want Integer(1)", v)
	}

	status, err = GetNextResult(q)
	if err != nil || status != 1 {
		t.Fatalf("GetNextResult() = (%d, %v), want (1, nil)", status, err)
	}
	if v := q.Variables().GetValue(0); v == nil || v.Int != 2 {
		t.Fatalf("variable bound to %v after second row, want Integer(2)", v)
	}

	status, err = GetNextResult(q)
	if err != nil || status != 0 {
		t.Fatalf("GetNextResult() at EOF = (%d, %v), want (0, nil)", status, err)
	}
}

func TestGetNextResultFailsWithoutRoot(t *testing.T) {
	q, err := query.New(nil, "test")
	if err != nil {
		t.Fatalf("query.New() error: %v", err)
	}
	status, err := GetNextResult(q)
	if err == nil || status != -1 {
		t.Fatalf("GetNextResult() without a root = (%d, %v), want (-1, non-nil)", status, err)
	}
}

func TestExecuteInitRequiresRoot(t *testing.T) {
	q, err := query.New(nil, "test")
	if err != nil {
		t.Fatalf("query.New() error: %v", err)
	}
	if err := ExecuteInit(q); err == nil {
		t.Fatalf("ExecuteInit() without a root should fail")
	}
}

func TestRowSortHelpersRoundTrip(t *testing.T) {
	q := newQueryWithRows(t, nil)
	terms := []query.OrderTerm{{Expr: &expr.Var{Name: "x"}, Order: sortmap.OrderCondition{Direction: sortmap.Ascending, Nulls: sortmap.NullsLast}}}
	m := NewRowSortMap(false, 0, []sortmap.OrderCondition{terms[0].Order})

	r1, r2 := rowOf(3), rowOf(1)
	RowSortCalculateOrderValues(q, r1, terms, 0)
	RowSortCalculateOrderValues(q, r2, terms, 0)
	if !RowSortMapAddRow(m, r1) || !RowSortMapAddRow(m, r2) {
		t.Fatalf("RowSortMapAddRow() rejected a fresh row")
	}
	got := RowSortMapToSequence(m)
	if len(got) != 2 || got[0].Values[0].Int != 1 || got[1].Values[0].Int != 3 {
		t.Fatalf("RowSortMapToSequence() did not return rows in ascending order: %v", got)
	}
}
