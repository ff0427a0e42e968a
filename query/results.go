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

package query

import (
	"github.com/gpicchiarelli/rasqal/internal/engineerr"
	"github.com/gpicchiarelli/rasqal/literal"
)

// Results is the user-facing cursor over one execution of a Query. It
// holds a counted reference to the query (decremented on Free) and is
// positioned before the first row until Next is first called.
type Results struct {
	query *Query
	freed bool
}

func newResults(q *Query) *Results {
	return &Results{query: q}
}

// Step advances the engine by one result: <0 means error, 0 means end
// of stream, >0 means a row is available and already assigned into
// the query's variables table. engine.GetNextResult implements this
// contract; it is passed into Next rather than imported directly to
// avoid a query<->engine import cycle (engine already depends on
// query for the Query/Results types).
type Step func(*Query) (int, error)

// Next asks the engine (via step) for the next result row. If the
// query is already finished, it returns true (exhausted) without
// calling the engine again. A negative status or non-nil error sets
// both failed and finished on the query and records the failure for
// LastError; a zero status sets finished; a positive status means a
// row was produced. Next returns the query's finished flag.
func (r *Results) Next(step Step) bool {
	if r.freed || r.query.finished || r.query.failed {
		return true
	}
	status, err := step(r.query)
	switch {
	case err != nil:
		r.query.failed = true
		r.query.finished = true
		r.query.logf("error", "get next result failed: %v", err)
		if ee, ok := err.(*engineerr.EngineError); ok {
			r.query.lastErr = ee
		} else {
			r.query.lastErr = engineerr.Wrap(engineerr.CodeUnknown, "engine step failed", err)
		}
	case status < 0:
		r.query.failed = true
		r.query.finished = true
		r.query.lastErr = engineerr.New(engineerr.CodeUnknown, "engine reported an error status")
		r.query.logf("error", "get next result failed: engine reported an error status")
	case status == 0:
		r.query.finished = true
	default:
		r.query.resultCount++
	}
	return r.query.finished
}

// Finished reports whether the iterator is exhausted: either the
// query failed or it legitimately ran out of rows.
func (r *Results) Finished() bool {
	if r.freed {
		return true
	}
	return r.query.failed || r.query.finished
}

// GetCount returns the query's running result_count.
func (r *Results) GetCount() int {
	if r.freed {
		return 0
	}
	return r.query.resultCount
}

// GetBindingsCount returns the number of selected variables.
func (r *Results) GetBindingsCount() int {
	if r.freed {
		return 0
	}
	return len(r.query.selectVars)
}

// GetBindings returns the query's selected variable names and their
// current values. names is the query's own slice and callers must not
// mutate it; values is a new slice built from the variables table on
// each call (unbound entries are the zero Literal), so it is not
// shared with the query and does not change as later rows are read.
func (r *Results) GetBindings() (names []string, values []literal.Literal) {
	if r.freed || r.query == nil || r.query.failed {
		return nil, nil
	}
	names = r.query.selectVars
	values = make([]literal.Literal, len(names))
	for i, name := range names {
		idx, ok := r.query.variables.Lookup(name)
		if !ok {
			continue
		}
		if v := r.query.variables.GetValue(idx); v != nil {
			values[i] = *v
		}
	}
	return names, values
}

// GetBindingValue returns the value bound to the offset-th selected
// variable, or (Literal{}, false) if offset is out of range or
// unbound.
func (r *Results) GetBindingValue(offset int) (literal.Literal, bool) {
	if r.freed || offset < 0 || offset >= len(r.query.selectVars) {
		return literal.Literal{}, false
	}
	name := r.query.selectVars[offset]
	idx, ok := r.query.variables.Lookup(name)
	if !ok {
		return literal.Literal{}, false
	}
	v := r.query.variables.GetValue(idx)
	if v == nil {
		return literal.Literal{}, false
	}
	return *v, true
}

// GetBindingName returns the offset-th selected variable's name, or
// ("", false) if offset is out of range.
func (r *Results) GetBindingName(offset int) (string, bool) {
	if r.freed || offset < 0 || offset >= len(r.query.selectVars) {
		return "", false
	}
	return r.query.selectVars[offset], true
}

// GetBindingValueByName looks up a selected variable's current value
// by name via linear search over the (small) select list.
func (r *Results) GetBindingValueByName(name string) (literal.Literal, bool) {
	if r.freed {
		return literal.Literal{}, false
	}
	for _, n := range r.query.selectVars {
		if n != name {
			continue
		}
		idx, ok := r.query.variables.Lookup(name)
		if !ok {
			return literal.Literal{}, false
		}
		v := r.query.variables.GetValue(idx)
		if v == nil {
			return literal.Literal{}, false
		}
		return *v, true
	}
	return literal.Literal{}, false
}

// Free unlinks this iterator from the query's live-iterator list and
// decrements the query's usage count; the query is destroyed once its
// last reference (creator or any other iterator) is released. Free is
// idempotent.
func (r *Results) Free() error {
	if r.freed {
		return nil
	}
	r.freed = true
	r.query.unlinkIterator(r)
	return r.query.release()
}
