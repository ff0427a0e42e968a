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

import "fmt"

// TypeError is the error type returned from Evaluate when an
// expression cannot be reduced to a literal because of a type
// mismatch (e.g. comparing a URI to a boolean). It must never be
// treated as boolean false by callers that aren't the filter
// row-source, which explicitly collapses it to a rejection.
type TypeError struct {
	At  Node
	Msg string
}

// Error implements error.
func (t *TypeError) Error() string {
	return fmt.Sprintf("ill-typed expression: %s", t.Msg)
}

func errtype(at Node, msg string) *TypeError {
	return &TypeError{At: at, Msg: msg}
}
