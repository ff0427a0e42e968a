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

package literal

import "testing"

func TestCompareNumeric(t *testing.T) {
	rel, ok := Compare(Integer(1), Integer(2), 0)
	if !ok || rel >= 0 {
		t.Fatalf("Compare(1, 2) = (%d, %v), want (<0, true)", rel, ok)
	}
}

func TestCompareCaseless(t *testing.T) {
	if rel, ok := Compare(String("ABC", ""), String("abc", ""), 0); !ok || rel == 0 {
		t.Fatalf("case-sensitive Compare(ABC, abc) should differ, got (%d, %v)", rel, ok)
	}
	if rel, ok := Compare(String("ABC", ""), String("abc", ""), CompareCaseless); !ok || rel != 0 {
		t.Fatalf("CompareCaseless Compare(ABC, abc) = (%d, %v), want (0, true)", rel, ok)
	}
}

func TestCompareIncomparable(t *testing.T) {
	if _, ok := Compare(URI("urn:x"), Boolean(true), 0); ok {
		t.Fatalf("URI vs boolean should not be comparable")
	}
}

func TestAsBoolean(t *testing.T) {
	cases := []struct {
		lit         Literal
		wantBool    bool
		wantUnknown bool
	}{
		{Boolean(true), true, false},
		{Integer(0), false, false},
		{Integer(5), true, false},
		{String("", ""), false, false},
		{String("x", ""), true, false},
		{URI("urn:x"), false, true},
		{Decimal(nil), false, true},
	}
	for _, c := range cases {
		b, unknown := AsBoolean(c.lit)
		if b != c.wantBool || unknown != c.wantUnknown {
			t.Fatalf("AsBoolean(%v) = (%v, %v), want (%v, %v)", c.lit, b, unknown, c.wantBool, c.wantUnknown)
		}
	}
}
