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

// Package memstore is a reference triplestore.Source: an in-memory,
// slice-of-triples store good enough to drive the pipeline end to end
// in tests and the CLI's sample mode, grounded on the teacher's
// leaf-reader shape (a slice scanned in full, no index).
package memstore

import (
	"github.com/gpicchiarelli/rasqal/literal"
	"github.com/gpicchiarelli/rasqal/row"
	"github.com/gpicchiarelli/rasqal/rowsource"
	"github.com/gpicchiarelli/rasqal/triplestore"
)

// Store is an unindexed, in-memory set of ground triples.
type Store struct {
	facts []triplestore.Triple
}

// New returns an empty Store.
func New() *Store {
	return &Store{}
}

// Add appends a ground fact.
func (s *Store) Add(t triplestore.Triple) {
	s.facts = append(s.facts, t)
}

// Len returns the number of facts in the store.
func (s *Store) Len() int { return len(s.facts) }

// MatchTriples implements triplestore.Source with a naive nested-loop
// join: for small, test-scale fact sets this is adequate; an indexed
// join belongs to a real triplestore, out of this module's scope.
func (s *Store) MatchTriples(q rowsource.Query, patterns []triplestore.Pattern) (*rowsource.RowSource, error) {
	return rowsource.New(&leaf{query: q, store: s, patterns: patterns}), nil
}

type leaf struct {
	query    rowsource.Query
	store    *Store
	patterns []triplestore.Pattern
}

func (l *leaf) Init() error { return nil }

func (l *leaf) EnsureVariables() (int, error) {
	return l.query.Variables().Len(), nil
}

func (l *leaf) GetQuery() rowsource.Query { return l.query }

func (l *leaf) Finish() error { return nil }

// ReadAllRows performs the join eagerly, trying every pattern against
// every fact and backtracking on mismatch. Each recursion level works
// against its own copy of the accumulated bindings, so there is no
// unwind bookkeeping: a failed branch's map is simply discarded.
// Output rows are sized to the full variables table, with every index
// the join never bound left at its zero value (literal.KindNull).
func (l *leaf) ReadAllRows() ([]*row.Row, error) {
	vt := l.query.Variables()
	size := vt.Len()
	var out []*row.Row

	var join func(pi int, bindings map[string]literal.Literal)
	join = func(pi int, bindings map[string]literal.Literal) {
		if pi == len(l.patterns) {
			r := row.New(size)
			for name, v := range bindings {
				if idx, ok := vt.Lookup(name); ok {
					r.Values[idx] = v
				}
			}
			r.Offset = len(out)
			out = append(out, r)
			return
		}
		pat := l.patterns[pi]
		for _, fact := range l.store.facts {
			next, ok := unify(pat, fact, bindings)
			if !ok {
				continue
			}
			join(pi+1, next)
		}
	}
	join(0, map[string]literal.Literal{})
	return out, nil
}

// unify attempts to match pattern pat against ground fact, returning
// an extended copy of bindings on success.
func unify(pat, fact triplestore.Pattern, bindings map[string]literal.Literal) (map[string]literal.Literal, bool) {
	next := make(map[string]literal.Literal, len(bindings)+3)
	for k, v := range bindings {
		next[k] = v
	}
	terms := [2][3]literal.Literal{
		{pat.Subject, pat.Predicate, pat.Object},
		{fact.Subject, fact.Predicate, fact.Object},
	}
	for i := 0; i < 3; i++ {
		pt, gv := terms[0][i], terms[1][i]
		if pt.Kind != literal.KindVariable {
			if !pt.Equal(gv) {
				return nil, false
			}
			continue
		}
		if prev, bound := next[pt.Str]; bound {
			if !prev.Equal(gv) {
				return nil, false
			}
			continue
		}
		next[pt.Str] = gv
	}
	return next, true
}
