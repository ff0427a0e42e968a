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

package langfactory

import (
	"fmt"

	"github.com/gpicchiarelli/rasqal/expr"
	"github.com/gpicchiarelli/rasqal/internal/miniparse"
	"github.com/gpicchiarelli/rasqal/literal"
	"github.com/gpicchiarelli/rasqal/query"
	"github.com/gpicchiarelli/rasqal/rowsource"
	"github.com/gpicchiarelli/rasqal/sortmap"
	"github.com/gpicchiarelli/rasqal/triplestore"
)

// Sparql11 is the default language factory: enough of SELECT/WHERE/
// FILTER/ORDER BY/DISTINCT to exercise the full pipeline, backed by
// internal/miniparse rather than a real SPARQL grammar.
type Sparql11 struct {
	// Source resolves the basic graph pattern into a leaf row-source.
	// Callers must set this (typically to a *memstore.Store) before
	// Prepare is called; it has no default since the core has no
	// opinion on where triples come from.
	Source triplestore.Source

	// SortSpillThreshold is forwarded to rowsource.NewSortWithSpill for
	// any query with an ORDER BY or DISTINCT. Zero (the default) keeps
	// every row resident, matching NewSort.
	SortSpillThreshold int
}

// NewSparql11 returns a factory reading triples from source.
func NewSparql11(source triplestore.Source) *Sparql11 {
	return &Sparql11{Source: source}
}

func (f *Sparql11) Name() string       { return "sparql11" }
func (f *Sparql11) Label() string      { return "SPARQL 1.1 Query Language (minimal recognizer)" }
func (f *Sparql11) ContextLength() int { return 0 }

func (f *Sparql11) Init(q *query.Query, name string) error { return nil }
func (f *Sparql11) Terminate(q *query.Query) error         { return nil }
func (f *Sparql11) Execute(q *query.Query) error           { return nil }

// Prepare recognizes the query's source text via miniparse and builds
// the filter/sort pipeline rooted at a leaf row-source obtained from
// f.Source, installing it with q.SetRoot.
func (f *Sparql11) Prepare(q *query.Query) error {
	if f.Source == nil {
		return fmt.Errorf("langfactory: sparql11 factory has no triplestore.Source configured")
	}
	parsed, err := miniparse.Parse(q.QueryString())
	if err != nil {
		return err
	}

	for _, v := range parsed.SelectVars {
		q.AddSelectVariable(v)
	}
	q.SetDistinct(parsed.Distinct)

	patterns := make([]triplestore.Pattern, len(parsed.Patterns))
	for i, p := range parsed.Patterns {
		declareIfVar(q, p.Subject)
		declareIfVar(q, p.Predicate)
		declareIfVar(q, p.Object)
		patterns[i] = triplestore.Pattern{Subject: p.Subject, Predicate: p.Predicate, Object: p.Object}
		q.AddTriplePattern(query.TriplePattern{Subject: p.Subject, Predicate: p.Predicate, Object: p.Object})
	}
	for _, ft := range parsed.Filters {
		if err := requireDeclaredVars(q, ft); err != nil {
			return err
		}
		q.AddConstraint(expr.Simplify(ft))
	}
	for _, ob := range parsed.OrderBy {
		if err := requireDeclaredVars(q, ob.Expr); err != nil {
			return err
		}
		dir := sortmap.Ascending
		if ob.Descending {
			dir = sortmap.Descending
		}
		q.AddOrderTerm(query.OrderTerm{Expr: expr.Simplify(ob.Expr), Order: sortmap.OrderCondition{Direction: dir, Nulls: sortmap.NullsLast}})
	}

	root, err := f.Source.MatchTriples(q, patterns)
	if err != nil {
		return err
	}
	for _, c := range q.Constraints() {
		root = rowsource.NewFilter(q, root, c)
	}
	if len(q.OrderTerms()) > 0 || q.Distinct() {
		keys := make([]rowsource.SortKey, len(q.OrderTerms()))
		for i, t := range q.OrderTerms() {
			keys[i] = rowsource.SortKey{Expr: t.Expr, Order: t.Order}
		}
		if f.SortSpillThreshold > 0 {
			root = rowsource.NewSortWithSpill(q, root, keys, q.Distinct(), f.SortSpillThreshold)
		} else {
			root = rowsource.NewSort(q, root, keys, q.Distinct())
		}
	}
	q.SetRoot(root)
	return nil
}

// requireDeclaredVars rejects an expression that references a variable
// that neither the SELECT list nor any triple pattern has declared,
// catching a typo'd FILTER/ORDER BY
// variable name at prepare time instead of letting it silently
// evaluate as unbound at every row.
func requireDeclaredVars(q *query.Query, e expr.Node) error {
	for _, name := range expr.CollectVars(e) {
		if _, ok := q.Variables().Lookup(name); !ok {
			return fmt.Errorf("langfactory: undeclared variable ?%s", name)
		}
	}
	return nil
}

// declareIfVar interns l's variable name into q's variables table if
// l is a KindVariable term, a no-op otherwise. Triple-pattern
// variables must be declared eagerly during Prepare, before
// Query.Prepare seals the table — row-sources only ever bind into
// already-declared slots.
func declareIfVar(q *query.Query, l literal.Literal) {
	if l.Kind == literal.KindVariable {
		q.Variables().Declare(l.Str)
	}
}
