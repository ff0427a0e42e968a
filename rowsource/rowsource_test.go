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
	"testing"

	"github.com/gpicchiarelli/rasqal/expr"
	"github.com/gpicchiarelli/rasqal/row"
	"github.com/gpicchiarelli/rasqal/vars"
)

// fakeQuery is a minimal Query test double: a bare variables table plus
// fixed compare-flags/distinct settings.
type fakeQuery struct {
	vt       *vars.Table
	flags    expr.CompareFlags
	distinct bool
}

func newFakeQuery() *fakeQuery { return &fakeQuery{vt: vars.New()} }

func (q *fakeQuery) Variables() *vars.Table         { return q.vt }
func (q *fakeQuery) CompareFlags() expr.CompareFlags { return q.flags }
func (q *fakeQuery) Distinct() bool                 { return q.distinct }

// fakeRowHandler implements Handler + RowReader + Finisher over a fixed
// slice of rows, counting how many times each lifecycle method runs.
type fakeRowHandler struct {
	query      Query
	rows       []*row.Row
	next       int
	initCalls  int
	ensureCalls int
	finishCalls int
}

func (h *fakeRowHandler) Init() error {
	h.initCalls++
	return nil
}

func (h *fakeRowHandler) EnsureVariables() (int, error) {
	h.ensureCalls++
	return h.query.Variables().Len(), nil
}

func (h *fakeRowHandler) GetQuery() Query { return h.query }

func (h *fakeRowHandler) ReadRow() (*row.Row, error) {
	if h.next >= len(h.rows) {
		return nil, nil
	}
	r := h.rows[h.next]
	h.next++
	return r, nil
}

func (h *fakeRowHandler) Finish() error {
	h.finishCalls++
	return nil
}

// fakeBatchHandler implements Handler + BatchReader only, to exercise
// RowSource's batch-to-row draining fallback.
type fakeBatchHandler struct {
	query Query
	rows  []*row.Row
}

func (h *fakeBatchHandler) Init() error                      { return nil }
func (h *fakeBatchHandler) EnsureVariables() (int, error)    { return 0, nil }
func (h *fakeBatchHandler) GetQuery() Query                  { return h.query }
func (h *fakeBatchHandler) ReadAllRows() ([]*row.Row, error) { return h.rows, nil }

func TestRowSourceInitRunsOnce(t *testing.T) {
	q := newFakeQuery()
	h := &fakeRowHandler{query: q}
	rs := New(h)
	if _, err := rs.Size(); err != nil {
		t.Fatalf("Size() error: %v", err)
	}
	if _, err := rs.ReadRow(); err != nil {
		t.Fatalf("ReadRow() error: %v", err)
	}
	if h.initCalls != 1 {
		t.Fatalf("Init called %d times, want exactly 1", h.initCalls)
	}
	if h.ensureCalls != 1 {
		t.Fatalf("EnsureVariables called %d times, want exactly 1", h.ensureCalls)
	}
}

func TestRowSourceReadRowDrainsAllAndStops(t *testing.T) {
	q := newFakeQuery()
	rows := []*row.Row{row.New(1), row.New(1)}
	h := &fakeRowHandler{query: q, rows: rows}
	rs := New(h)
	var got []*row.Row
	for {
		r, err := rs.ReadRow()
		if err != nil {
			t.Fatalf("ReadRow() error: %v", err)
		}
		if r == nil {
			break
		}
		got = append(got, r)
	}
	if len(got) != 2 {
		t.Fatalf("drained %d rows, want 2", len(got))
	}
	if r, err := rs.ReadRow(); err != nil || r != nil {
		t.Fatalf("ReadRow() after EOF = (%v, %v), want (nil, nil)", r, err)
	}
}

func TestRowSourceFinishIsIdempotent(t *testing.T) {
	q := newFakeQuery()
	h := &fakeRowHandler{query: q}
	rs := New(h)
	if err := rs.Finish(); err != nil {
		t.Fatalf("Finish() error: %v", err)
	}
	if err := rs.Finish(); err != nil {
		t.Fatalf("second Finish() error: %v", err)
	}
	if h.finishCalls != 1 {
		t.Fatalf("handler Finish called %d times, want exactly 1", h.finishCalls)
	}
}

func TestRowSourceReadRowAfterFinishIsEOF(t *testing.T) {
	q := newFakeQuery()
	h := &fakeRowHandler{query: q, rows: []*row.Row{row.New(1)}}
	rs := New(h)
	if err := rs.Finish(); err != nil {
		t.Fatalf("Finish() error: %v", err)
	}
	r, err := rs.ReadRow()
	if err != nil || r != nil {
		t.Fatalf("ReadRow() after Finish = (%v, %v), want (nil, nil)", r, err)
	}
}

func TestRowSourceReadRowFallsBackToBatchReader(t *testing.T) {
	q := newFakeQuery()
	rows := []*row.Row{row.New(1), row.New(1), row.New(1)}
	h := &fakeBatchHandler{query: q, rows: rows}
	rs := New(h)
	var count int
	for {
		r, err := rs.ReadRow()
		if err != nil {
			t.Fatalf("ReadRow() error: %v", err)
		}
		if r == nil {
			break
		}
		count++
	}
	if count != 3 {
		t.Fatalf("drained %d rows via the batch fallback, want 3", count)
	}
}

func TestRowSourceReadAllRowsUsesBatchReaderDirectly(t *testing.T) {
	q := newFakeQuery()
	rows := []*row.Row{row.New(1), row.New(1)}
	h := &fakeBatchHandler{query: q, rows: rows}
	rs := New(h)
	got, err := rs.ReadAllRows()
	if err != nil {
		t.Fatalf("ReadAllRows() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ReadAllRows() returned %d rows, want 2", len(got))
	}
}
