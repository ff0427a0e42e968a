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

// Package triplestore declares the contract for the leaf row-source
// collaborator: something that can turn a basic graph pattern into a
// stream of bound rows. It is named but not defined in the core spec
// ("the triple-store source of rows" is an external collaborator);
// this module supplies the contract plus one reference implementation
// in triplestore/memstore.
package triplestore

import (
	"github.com/gpicchiarelli/rasqal/literal"
	"github.com/gpicchiarelli/rasqal/rowsource"
)

// Triple is a ground fact: subject, predicate, and object, none of
// which may be a KindVariable literal.
type Triple struct {
	Subject, Predicate, Object literal.Literal
}

// Pattern is a triple pattern: like Triple, but any position may
// instead hold a KindVariable literal naming the variable that
// position binds.
type Pattern = Triple

// Source is the triple-store source of rows: given the patterns of a
// basic graph pattern and the owning query, it returns a leaf
// row-source that streams every matching binding as a Row. Pattern
// variables are expected to already be declared in q.Variables() by
// the time MatchTriples is called — leaf row-sources bind values into
// existing table slots, they do not declare new ones, since
// EnsureVariables runs lazily on first read, after the variables
// table has already been sealed by Query.Prepare.
type Source interface {
	MatchTriples(q rowsource.Query, patterns []Pattern) (*rowsource.RowSource, error)
}
