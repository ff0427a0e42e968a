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

package sortmap

import (
	"testing"

	"github.com/gpicchiarelli/rasqal/literal"
	"github.com/gpicchiarelli/rasqal/row"
)

func rowWithKey(offset int, key ...literal.Literal) *row.Row {
	r := row.New(0)
	r.Offset = offset
	r.OrderValues = key
	return r
}

func TestDrainOrdersAscending(t *testing.T) {
	m := New(false, 0, []OrderCondition{{Direction: Ascending, Nulls: NullsLast}})
	m.Add(rowWithKey(0, literal.Integer(3)))
	m.Add(rowWithKey(1, literal.Integer(1)))
	m.Add(rowWithKey(2, literal.Integer(2)))
	got := m.Drain()
	want := []int64{1, 2, 3}
	for i, r := range got {
		if r.OrderValues[0].Int != want[i] {
			t.Fatalf("Drain()[%d] = %d, want %d", i, r.OrderValues[0].Int, want[i])
		}
	}
}

func TestDrainOrdersDescending(t *testing.T) {
	m := New(false, 0, []OrderCondition{{Direction: Descending, Nulls: NullsLast}})
	m.Add(rowWithKey(0, literal.Integer(1)))
	m.Add(rowWithKey(1, literal.Integer(3)))
	m.Add(rowWithKey(2, literal.Integer(2)))
	got := m.Drain()
	want := []int64{3, 2, 1}
	for i, r := range got {
		if r.OrderValues[0].Int != want[i] {
			t.Fatalf("Drain()[%d] = %d, want %d", i, r.OrderValues[0].Int, want[i])
		}
	}
}

func TestDrainStableOnTies(t *testing.T) {
	m := New(false, 0, []OrderCondition{{Direction: Ascending, Nulls: NullsLast}})
	// All three rows share the same order key; Drain must preserve
	// their pre-sort Offset order.
	m.Add(rowWithKey(5, literal.Integer(1)))
	m.Add(rowWithKey(2, literal.Integer(1)))
	m.Add(rowWithKey(9, literal.Integer(1)))
	got := m.Drain()
	want := []int{2, 5, 9}
	for i, r := range got {
		if r.Offset != want[i] {
			t.Fatalf("Drain()[%d].Offset = %d, want %d (stability on ties broken)", i, r.Offset, want[i])
		}
	}
}

func TestDrainNullsOrdering(t *testing.T) {
	condsLast := []OrderCondition{{Direction: Ascending, Nulls: NullsLast}}
	m := New(false, 0, condsLast)
	m.Add(rowWithKey(0, literal.Integer(1)))
	m.Add(rowWithKey(1, literal.Null()))
	got := m.Drain()
	if !got[1].OrderValues[0].IsNull() {
		t.Fatalf("NullsLast should sort the null key after the non-null one")
	}

	condsFirst := []OrderCondition{{Direction: Ascending, Nulls: NullsFirst}}
	m2 := New(false, 0, condsFirst)
	m2.Add(rowWithKey(0, literal.Integer(1)))
	m2.Add(rowWithKey(1, literal.Null()))
	got2 := m2.Drain()
	if !got2[0].OrderValues[0].IsNull() {
		t.Fatalf("NullsFirst should sort the null key before the non-null one")
	}
}

func TestDrainMultiColumn(t *testing.T) {
	conds := []OrderCondition{
		{Direction: Ascending, Nulls: NullsLast},
		{Direction: Descending, Nulls: NullsLast},
	}
	m := New(false, 0, conds)
	m.Add(rowWithKey(0, literal.Integer(1), literal.Integer(1)))
	m.Add(rowWithKey(1, literal.Integer(1), literal.Integer(2)))
	m.Add(rowWithKey(2, literal.Integer(0), literal.Integer(9)))
	got := m.Drain()
	wantOffsets := []int{2, 1, 0}
	for i, r := range got {
		if r.Offset != wantOffsets[i] {
			t.Fatalf("Drain()[%d].Offset = %d, want %d", i, r.Offset, wantOffsets[i])
		}
	}
}

func TestDistinctRejectsDuplicateOrderKey(t *testing.T) {
	m := New(true, 0, []OrderCondition{{Direction: Ascending, Nulls: NullsLast}})
	if ok := m.Add(rowWithKey(0, literal.Integer(1))); !ok {
		t.Fatalf("first insert of a fresh key should be accepted")
	}
	if ok := m.Add(rowWithKey(1, literal.Integer(1))); ok {
		t.Fatalf("second insert of the same key under DISTINCT should be rejected")
	}
	if ok := m.Add(rowWithKey(2, literal.Integer(2))); !ok {
		t.Fatalf("a distinct key should be accepted")
	}
	got := m.Drain()
	if len(got) != 2 {
		t.Fatalf("Drain() returned %d rows, want 2 (one duplicate rejected)", len(got))
	}
}

func TestDrainResetsMap(t *testing.T) {
	m := New(false, 0, []OrderCondition{{Direction: Ascending, Nulls: NullsLast}})
	m.Add(rowWithKey(0, literal.Integer(1)))
	first := m.Drain()
	if len(first) != 1 {
		t.Fatalf("first Drain() returned %d rows, want 1", len(first))
	}
	second := m.Drain()
	if len(second) != 0 {
		t.Fatalf("second Drain() without intervening Add should be empty, got %d rows", len(second))
	}
}

func TestCompareTupleIncomparableFallsThrough(t *testing.T) {
	conds := []OrderCondition{
		{Direction: Ascending, Nulls: NullsLast},
		{Direction: Ascending, Nulls: NullsLast},
	}
	m := New(false, 0, conds)
	// First column incomparable (URI vs boolean); must fall through to
	// the second column to break the tie.
	m.Add(rowWithKey(0, literal.URI("urn:x"), literal.Integer(2)))
	m.Add(rowWithKey(1, literal.Boolean(true), literal.Integer(1)))
	got := m.Drain()
	if got[0].Offset != 1 || got[1].Offset != 0 {
		t.Fatalf("incomparable leading column should fall through to the next column, got offsets %d,%d",
			got[0].Offset, got[1].Offset)
	}
}
