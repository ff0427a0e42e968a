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

package miniparse

import (
	"testing"

	"github.com/gpicchiarelli/rasqal/expr"
	"github.com/gpicchiarelli/rasqal/literal"
)

func TestParseBasicSelect(t *testing.T) {
	out, err := Parse(`SELECT ?x WHERE { ?x <urn:knows> "bob" . }`)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(out.SelectVars) != 1 || out.SelectVars[0] != "x" {
		t.Fatalf("SelectVars = %v, want [x]", out.SelectVars)
	}
	if len(out.Patterns) != 1 {
		t.Fatalf("len(Patterns) = %d, want 1", len(out.Patterns))
	}
	pat := out.Patterns[0]
	if pat.Subject.Kind != literal.KindVariable || pat.Subject.Str != "x" {
		t.Fatalf("Subject = %v, want ?x", pat.Subject)
	}
	if pat.Predicate.Kind != literal.KindURI || pat.Predicate.Str != "urn:knows" {
		t.Fatalf("Predicate = %v, want <urn:knows>", pat.Predicate)
	}
	if pat.Object.Kind != literal.KindString || pat.Object.Str != "bob" {
		t.Fatalf("Object = %v, want \"bob\"", pat.Object)
	}
}

func TestParseLeadingAndTrailingDistinct(t *testing.T) {
	for _, src := range []string{
		`SELECT DISTINCT ?x WHERE { ?x <urn:p> ?y . }`,
		`SELECT ?x WHERE { ?x <urn:p> ?y . } DISTINCT`,
	} {
		out, err := Parse(src)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", src, err)
		}
		if !out.Distinct {
			t.Fatalf("Parse(%q).Distinct = false, want true", src)
		}
	}
}

func TestParseMultiplePatterns(t *testing.T) {
	out, err := Parse(`SELECT ?x ?y WHERE { ?x <urn:knows> ?y . ?y <urn:name> "bob" . }`)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(out.Patterns) != 2 {
		t.Fatalf("len(Patterns) = %d, want 2", len(out.Patterns))
	}
}

func TestParseLessThanIsNotMistakenForURI(t *testing.T) {
	out, err := Parse(`SELECT ?x WHERE { ?x <urn:age> ?age . FILTER(?age < 30) }`)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(out.Filters) != 1 {
		t.Fatalf("len(Filters) = %d, want 1", len(out.Filters))
	}
	bin, ok := out.Filters[0].(*expr.Binary)
	if !ok || bin.Op != expr.OpLt {
		t.Fatalf("Filters[0] = %#v, want a Binary with OpLt", out.Filters[0])
	}
}

func TestParseFilterWithBoundAndNot(t *testing.T) {
	out, err := Parse(`SELECT ?x WHERE { ?x <urn:p> ?y . FILTER(!BOUND(?y)) }`)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	un, ok := out.Filters[0].(*expr.Unary)
	if !ok || un.Op != expr.UnaryNot {
		t.Fatalf("Filters[0] = %#v, want a Unary NOT", out.Filters[0])
	}
	if _, ok := un.X.(*expr.Bound); !ok {
		t.Fatalf("Unary.X = %#v, want *expr.Bound", un.X)
	}
}

func TestParseOrderByAscDescAndBareVar(t *testing.T) {
	out, err := Parse(`SELECT ?x ?y WHERE { ?x <urn:p> ?y . } ORDER BY ASC(?x) DESC(?y)`)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(out.OrderBy) != 2 {
		t.Fatalf("len(OrderBy) = %d, want 2", len(out.OrderBy))
	}
	if out.OrderBy[0].Descending {
		t.Fatalf("OrderBy[0].Descending = true, want false (ASC)")
	}
	if !out.OrderBy[1].Descending {
		t.Fatalf("OrderBy[1].Descending = false, want true (DESC)")
	}

	out2, err := Parse(`SELECT ?x WHERE { ?x <urn:p> ?y . } ORDER BY ?x`)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(out2.OrderBy) != 1 || out2.OrderBy[0].Descending {
		t.Fatalf("bare ORDER BY ?x should produce one ascending term, got %+v", out2.OrderBy)
	}
}

func TestParseNumberAndIntegerTerm(t *testing.T) {
	out, err := Parse(`SELECT ?x WHERE { ?x <urn:age> 42 . }`)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	obj := out.Patterns[0].Object
	if obj.Kind != literal.KindInteger || obj.Int != 42 {
		t.Fatalf("Object = %v, want Integer(42)", obj)
	}
}

func TestParseRejectsBareQuestionMark(t *testing.T) {
	if _, err := Parse(`SELECT ?x WHERE { ? <urn:p> ?y . }`); err == nil {
		t.Fatalf("Parse() should reject a bare '?'")
	}
}

func TestParseRejectsUnterminatedString(t *testing.T) {
	if _, err := Parse(`SELECT ?x WHERE { ?x <urn:p> "unterminated . }`); err == nil {
		t.Fatalf("Parse() should reject an unterminated string")
	}
}

func TestParseRejectsMissingSelectVariable(t *testing.T) {
	if _, err := Parse(`SELECT WHERE { ?x <urn:p> ?y . }`); err == nil {
		t.Fatalf("Parse() should reject SELECT with no variables")
	}
}

func TestParseRejectsDecimalTripleTerm(t *testing.T) {
	if _, err := Parse(`SELECT ?x WHERE { ?x <urn:p> 1.5 . }`); err == nil {
		t.Fatalf("Parse() should reject a decimal triple term")
	}
}
