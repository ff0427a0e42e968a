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

// Package sortmap implements the ordered map used by the sort
// row-source: rows are keyed by a composite order-key tuple, with a
// comparator that honors per-column direction/nulls-ordering and an
// optional dedup-on-insert policy for DISTINCT.
package sortmap

import (
	"encoding/binary"
	"math"
	"strings"

	"github.com/dchest/siphash"
	"golang.org/x/exp/slices"

	"github.com/gpicchiarelli/rasqal/literal"
	"github.com/gpicchiarelli/rasqal/row"
)

// Direction is a per-column sort direction (SQL ASC/DESC), reused
// verbatim from the teacher's sorting package shape.
type Direction int

const (
	Ascending  Direction = 1
	Descending Direction = -1
)

// NullsOrder controls where a null order-key value sorts.
type NullsOrder int

const (
	NullsFirst NullsOrder = iota
	NullsLast
)

// OrderCondition is one column of a multi-column sort.
type OrderCondition struct {
	Direction Direction
	Nulls     NullsOrder
}

// siphash key used for the distinct pre-hash bucket. It is fixed
// rather than randomized per process: the hash is never persisted or
// compared across processes, only used to bucket rows within one
// Map's lifetime, so reproducibility isn't a concern and a fixed key
// keeps Map construction allocation-free.
const (
	hashK0 = 0x726173716c5f6b30
	hashK1 = 0x726173716c5f6b31
)

// Map accumulates rows keyed by their OrderValues tuple and, on
// Drain, returns them in stable sorted order. The zero value is not
// usable; use New.
type Map struct {
	distinct bool
	flags    literal.CompareFlags
	conds    []OrderCondition

	rows []*row.Row
	// buckets holds, per pre-hash, the rows already accepted —
	// used only when distinct is set, to verify an exact tuple match
	// before rejecting a candidate as a duplicate.
	buckets map[uint64][]*row.Row
}

// New constructs a Map for order-conditions conds. If distinct is
// true, Add rejects any row whose OrderValues tuple compares equal
// (under flags and conds' nulls-ordering) to one already accepted.
// A column where literal.Compare finds the two values incomparable
// (for example a URI against a boolean) is not looked past for this
// purpose: keys that differ in such a column are not treated as
// duplicates.
func New(distinct bool, flags literal.CompareFlags, conds []OrderCondition) *Map {
	m := &Map{distinct: distinct, flags: flags, conds: conds}
	if distinct {
		m.buckets = make(map[uint64][]*row.Row)
	}
	return m
}

// Add inserts r, keyed by r.OrderValues. It returns false if r was
// rejected as a duplicate under DISTINCT (the caller must then free
// r itself, since the map does not take ownership of rejected rows).
// On acceptance, the map takes ownership of r for the rest of its
// lifetime.
func (m *Map) Add(r *row.Row) bool {
	if m.distinct {
		h := m.hashKey(r.OrderValues)
		for _, cand := range m.buckets[h] {
			if m.compareTuple(cand.OrderValues, r.OrderValues) == 0 {
				return false
			}
		}
		m.buckets[h] = append(m.buckets[h], r)
	}
	m.rows = append(m.rows, r)
	return true
}

// Drain returns every accepted row in order-key order, stable on
// ties by pre-sort Offset, and resets the map to empty. A Map that
// has already been drained returns an empty slice, matching the sort
// row-source's idempotence contract.
func (m *Map) Drain() []*row.Row {
	rows := m.rows
	m.rows = nil
	if m.buckets != nil {
		m.buckets = make(map[uint64][]*row.Row)
	}
	slices.SortStableFunc(rows, func(a, b *row.Row) bool {
		rel := m.compareTuple(a.OrderValues, b.OrderValues)
		if rel != 0 {
			return rel < 0
		}
		return a.Offset < b.Offset
	})
	return rows
}

// compareTuple orders a against b per m.conds, returning <0, 0, >0.
func (m *Map) compareTuple(a, b []literal.Literal) int {
	for i, cond := range m.conds {
		if i >= len(a) || i >= len(b) {
			break
		}
		av, bv := a[i], b[i]
		an, bn := av.IsNull(), bv.IsNull()
		if an || bn {
			if an && bn {
				continue
			}
			first := cond.Nulls == NullsFirst
			if an {
				if first {
					return -1
				}
				return 1
			}
			if first {
				return 1
			}
			return -1
		}
		rel, ok := literal.Compare(av, bv, m.flags)
		if !ok {
			// Incomparable types at this position: neither orders
			// the other, fall through to the next order-condition.
			continue
		}
		if cond.Direction == Descending {
			rel = -rel
		}
		if rel != 0 {
			return rel
		}
	}
	return 0
}

// hashKey computes a cheap 64-bit pre-hash of an order-key tuple. It
// is only ever used to bucket candidates for the exact comparison in
// compareTuple; a collision never causes an incorrect result, only a
// redundant compareTuple call. Numeric values hash by their float
// value and, under CompareCaseless, strings hash case-folded, so keys
// that literal.Compare finds equal land in the same bucket.
func (m *Map) hashKey(key []literal.Literal) uint64 {
	var buf []byte
	var scratch [8]byte
	for _, l := range key {
		if l.IsNumeric() {
			f, _ := l.AsFloat()
			if f == 0 {
				f = 0 // fold -0 into +0
			}
			buf = append(buf, byte(literal.KindDecimal))
			binary.LittleEndian.PutUint64(scratch[:], math.Float64bits(f))
			buf = append(buf, scratch[:]...)
			continue
		}
		buf = append(buf, byte(l.Kind))
		if m.flags.Has(literal.CompareCaseless) {
			buf = append(buf, strings.ToLower(l.Str)...)
		} else {
			buf = append(buf, l.Str...)
		}
		binary.LittleEndian.PutUint64(scratch[:], uint64(l.Int))
		buf = append(buf, scratch[:]...)
		if l.Bool {
			buf = append(buf, 1)
		}
	}
	return siphash.Hash(hashK0, hashK1, buf)
}
