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

// Package rowsource implements the pull-based row-source algebra:
// filter and sort operators compose by each holding an inner source,
// and the framework in this file enforces the "exactly once" lifecycle
// every Handler can rely on (Init, then EnsureVariables, then reads,
// then Finish).
package rowsource

import (
	"fmt"

	"github.com/gpicchiarelli/rasqal/expr"
	"github.com/gpicchiarelli/rasqal/row"
)

// Query is the view of the owning query a row-source handler needs:
// the shared variables table, the active compare-flags, and whether
// DISTINCT was requested. query.Query satisfies this interface.
type Query interface {
	expr.Context
	CompareFlags() expr.CompareFlags
	Distinct() bool
}

// Handler is the polymorphic operator contract every row-source
// implements: a closed capability set of Init, EnsureVariables,
// GetQuery, and (via the optional interfaces below) ReadRow and/or
// ReadAllRows and Finish.
type Handler interface {
	// Init performs one-time initialization.
	Init() error
	// EnsureVariables is called exactly once before the first read
	// and returns the row-source's declared output arity.
	EnsureVariables() (size int, err error)
	// GetQuery returns the upward link to the owning query.
	GetQuery() Query
}

// RowReader is implemented by handlers that can produce rows one at a
// time (e.g. Filter). It is optional: a handler may implement only
// BatchReader instead.
type RowReader interface {
	// ReadRow pulls one row, or (nil, nil) at end of stream.
	ReadRow() (*row.Row, error)
}

// BatchReader is implemented by handlers that inherently batch (e.g.
// Sort). It is optional: a handler may implement only RowReader
// instead.
type BatchReader interface {
	// ReadAllRows materializes every remaining row at once.
	ReadAllRows() ([]*row.Row, error)
}

// Finisher is implemented by handlers that hold a resource (almost
// always an inner RowSource) that must be released at teardown.
type Finisher interface {
	Finish() error
}

// RowSource wraps a Handler and enforces the lifecycle the framework
// promises: Init before any other call, EnsureVariables exactly once
// between Init and the first read, Finish exactly once after which no
// other call occurs.
type RowSource struct {
	handler Handler

	initialized      bool
	variablesEnsured bool
	finished         bool
	size             int

	// batch caches a ReadAllRows result so that ReadRow can still be
	// called against a BatchReader-only handler, draining the cached
	// batch one row at a time.
	batch      []*row.Row
	batchIndex int
	haveBatch  bool
}

// New wraps handler in a RowSource, enforcing the vtable lifecycle.
func New(handler Handler) *RowSource {
	return &RowSource{handler: handler}
}

func (rs *RowSource) ensureInit() error {
	if rs.initialized {
		return nil
	}
	rs.initialized = true
	return rs.handler.Init()
}

func (rs *RowSource) ensureVariables() error {
	if err := rs.ensureInit(); err != nil {
		return err
	}
	if rs.variablesEnsured {
		return nil
	}
	rs.variablesEnsured = true
	size, err := rs.handler.EnsureVariables()
	if err != nil {
		return err
	}
	rs.size = size
	return nil
}

// Size returns the row-source's declared output arity, forcing
// EnsureVariables if it hasn't run yet.
func (rs *RowSource) Size() (int, error) {
	if err := rs.ensureVariables(); err != nil {
		return 0, err
	}
	return rs.size, nil
}

// GetQuery returns the owning query.
func (rs *RowSource) GetQuery() Query {
	return rs.handler.GetQuery()
}

// ReadRow pulls one row, or (nil, nil) at end of stream. If the
// handler only implements BatchReader, the first call materializes
// the whole batch and subsequent calls drain it one row at a time —
// the framework's "fall back to repeated read_row" in reverse, needed
// so callers never have to know which shape a given operator chose.
func (rs *RowSource) ReadRow() (*row.Row, error) {
	if rs.finished {
		return nil, nil
	}
	if err := rs.ensureVariables(); err != nil {
		return nil, err
	}
	if rr, ok := rs.handler.(RowReader); ok && !rs.haveBatch {
		return rr.ReadRow()
	}
	if !rs.haveBatch {
		br, ok := rs.handler.(BatchReader)
		if !ok {
			return nil, fmt.Errorf("rowsource: handler implements neither ReadRow nor ReadAllRows")
		}
		rows, err := br.ReadAllRows()
		if err != nil {
			return nil, err
		}
		rs.batch = rows
		rs.batchIndex = 0
		rs.haveBatch = true
	}
	if rs.batchIndex >= len(rs.batch) {
		return nil, nil
	}
	r := rs.batch[rs.batchIndex]
	rs.batchIndex++
	return r, nil
}

// ReadAllRows materializes every remaining row. If the handler
// implements BatchReader, that path is used directly; otherwise rows
// are pulled one at a time via ReadRow, matching the framework's
// documented fallback.
func (rs *RowSource) ReadAllRows() ([]*row.Row, error) {
	if rs.finished {
		return nil, nil
	}
	if err := rs.ensureVariables(); err != nil {
		return nil, err
	}
	if br, ok := rs.handler.(BatchReader); ok && !rs.haveBatch {
		return br.ReadAllRows()
	}
	var out []*row.Row
	for {
		r, err := rs.ReadRow()
		if err != nil {
			return nil, err
		}
		if r == nil {
			break
		}
		out = append(out, r)
	}
	return out, nil
}

// Finish releases the handler's inner source and private state. It
// is idempotent: calling it more than once is a no-op after the
// first call.
func (rs *RowSource) Finish() error {
	if rs.finished {
		return nil
	}
	rs.finished = true
	if f, ok := rs.handler.(Finisher); ok {
		return f.Finish()
	}
	return nil
}
