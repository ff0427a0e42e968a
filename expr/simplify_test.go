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

package expr

import (
	"testing"

	"github.com/gpicchiarelli/rasqal/literal"
)

func TestCollectVarsDedupsAndPreservesOrder(t *testing.T) {
	e := &Binary{
		Op: OpEq,
		X:  &Var{Name: "x"},
		Y:  &Binary{Op: OpEq, X: &Var{Name: "y"}, Y: &Var{Name: "x"}},
	}
	got := CollectVars(e)
	want := []string{"x", "y"}
	if len(got) != len(want) {
		t.Fatalf("CollectVars() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("CollectVars() = %v, want %v", got, want)
		}
	}
}

func TestCollectVarsIgnoresNonVarLeaves(t *testing.T) {
	e := &Lit{Value: literal.Integer(1)}
	if got := CollectVars(e); len(got) != 0 {
		t.Fatalf("CollectVars(Lit) = %v, want none", got)
	}
}

func TestSimplifyCollapsesDoubleNegation(t *testing.T) {
	inner := &Bound{Name: "x"}
	e := &Unary{Op: UnaryNot, X: &Unary{Op: UnaryNot, X: inner}}
	got := Simplify(e)
	if got != Node(inner) {
		t.Fatalf("Simplify(NOT(NOT(x))) = %#v, want the inner node unwrapped", got)
	}
}

func TestSimplifyLeavesSingleNegationAlone(t *testing.T) {
	e := &Unary{Op: UnaryNot, X: &Bound{Name: "x"}}
	got := Simplify(e)
	un, ok := got.(*Unary)
	if !ok || un.Op != UnaryNot {
		t.Fatalf("Simplify(NOT(x)) = %#v, want it unchanged", got)
	}
}

func TestSimplifyRecursesIntoChildren(t *testing.T) {
	inner := &Bound{Name: "x"}
	doubleNeg := &Unary{Op: UnaryNot, X: &Unary{Op: UnaryNot, X: inner}}
	e := &Binary{Op: OpEq, X: doubleNeg, Y: &Lit{Value: literal.Boolean(true)}}
	got := Simplify(e).(*Binary)
	if got.X != Node(inner) {
		t.Fatalf("Simplify() did not collapse the nested double negation: %#v", got.X)
	}
}
