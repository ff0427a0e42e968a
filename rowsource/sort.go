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
	"github.com/gpicchiarelli/rasqal/literal"
	"github.com/gpicchiarelli/rasqal/row"
	"github.com/gpicchiarelli/rasqal/sortmap"
)

// SortKey is one ORDER BY term: the expression to evaluate against
// each row and the direction/nulls-ordering it sorts by.
type SortKey struct {
	Expr  expr.Node
	Order sortmap.OrderCondition
}

// sortHandler materializes its inner source in full, computes an
// order-key tuple per row, and returns rows in stable sorted order.
// When there are no sort keys it instead passes rows through
// untouched, regardless of DISTINCT: with no order-key tuple there is
// nothing for the sortmap to dedup on, matching order_size <= 0 in the
// original.
type sortHandler struct {
	query    Query
	inner    *RowSource
	keys     []SortKey
	distinct bool
	flags    expr.CompareFlags

	// SpillThreshold caps how many rows sit in the pre-sort read buffer
	// before the remainder are streamed to a compressed temporary file
	// instead. Zero (the default) disables spilling: every row is kept
	// resident, matching the original's unbounded in-memory map.
	SpillThreshold int

	// exhausted is set once ReadAllRows has handed its rows out; any
	// later ReadAllRows returns no rows.
	exhausted bool
}

// NewSort returns a row-source that orders inner's rows by keys,
// optionally deduplicating on the resulting order-key tuple when
// distinct is true. An empty keys slice degenerates to a pass-through
// wrapper regardless of distinct, since there is then no order-key
// tuple to dedup on.
func NewSort(q Query, inner *RowSource, keys []SortKey, distinct bool) *RowSource {
	return New(&sortHandler{query: q, inner: inner, keys: keys, distinct: distinct, flags: q.CompareFlags()})
}

// NewSortWithSpill is NewSort with a non-default spill threshold: once
// more than threshold rows have been read from inner without yet being
// consumed into the sortmap, later rows are spilled to disk until the
// final read, bounding peak memory during the read phase.
func NewSortWithSpill(q Query, inner *RowSource, keys []SortKey, distinct bool, threshold int) *RowSource {
	return New(&sortHandler{query: q, inner: inner, keys: keys, distinct: distinct, flags: q.CompareFlags(), SpillThreshold: threshold})
}

func (s *sortHandler) Init() error {
	return nil
}

func (s *sortHandler) EnsureVariables() (int, error) {
	return s.inner.Size()
}

func (s *sortHandler) GetQuery() Query {
	return s.query
}

// passThrough reports whether this operator should skip the sortmap
// entirely and hand inner's rows back unchanged. This is keyed solely
// on the absence of order conditions, matching order_size <= 0 in the
// original: a bare DISTINCT with no ORDER BY is not deduplicated by
// this operator, since there is no order-key tuple for the map to
// dedup on.
func (s *sortHandler) passThrough() bool {
	return len(s.keys) == 0
}

func (s *sortHandler) ReadAllRows() ([]*row.Row, error) {
	if s.exhausted {
		return nil, nil
	}
	rows, err := s.readInner()
	if err != nil {
		return nil, err
	}
	s.exhausted = true
	if s.passThrough() {
		for i, r := range rows {
			r.Offset = i
		}
		return rows, nil
	}

	conds := make([]sortmap.OrderCondition, len(s.keys))
	for i, k := range s.keys {
		conds[i] = k.Order
	}
	m := sortmap.New(s.distinct, s.flags, conds)

	for i, r := range rows {
		r.Offset = i
		r.AllocateOrderValues(len(s.keys))
		assignRowToVariables(s.query, r)
		for j, k := range s.keys {
			v, evalErr := expr.Evaluate(s.query, k.Expr, s.flags)
			if evalErr != nil {
				r.OrderValues[j] = literal.Null()
				continue
			}
			r.OrderValues[j] = v
		}
		m.Add(r)
	}
	return m.Drain(), nil
}

func (s *sortHandler) Finish() error {
	return s.inner.Finish()
}

// readInner materializes inner's rows, spilling to disk past
// SpillThreshold instead of growing one Go slice without bound. With
// SpillThreshold at its default of zero this is just inner.ReadAllRows.
func (s *sortHandler) readInner() ([]*row.Row, error) {
	if s.SpillThreshold <= 0 {
		return s.inner.ReadAllRows()
	}

	buffered := make([]*row.Row, 0, s.SpillThreshold)
	var spill *spillWriter
	for {
		r, err := s.inner.ReadRow()
		if err != nil {
			return nil, err
		}
		if r == nil {
			break
		}
		if spill == nil && len(buffered) >= s.SpillThreshold {
			spill, err = newSpillWriter()
			if err != nil {
				return nil, err
			}
		}
		if spill != nil {
			if err := spill.write(r); err != nil {
				return nil, err
			}
			continue
		}
		buffered = append(buffered, r)
	}
	if spill == nil {
		return buffered, nil
	}
	reader, err := spill.seal()
	if err != nil {
		return nil, err
	}
	spilled, err := reader.readAll()
	if err != nil {
		return nil, err
	}
	return append(buffered, spilled...), nil
}
