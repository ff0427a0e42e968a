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

// Package engineerr defines the sentinel error type the engine and
// query packages use for state-machine violations (double-prepare,
// read-after-finish, and the like), kept distinct from expr.TypeError
// and from plain parse errors so callers can tell a programming error
// from a query-content error.
package engineerr

import "fmt"

// Code classifies an Error without requiring string matching.
type Code int

const (
	CodeUnknown Code = iota
	CodeNotPrepared
	CodeAlreadyPrepared
	CodeAlreadyExecuted
	CodeFinished
	CodeFailed
	CodeNoData
	CodeUnsupportedFeature
)

// EngineError is the engine's sentinel error type. It wraps an optional
// underlying cause without losing the Code classification.
type EngineError struct {
	Code  Code
	Msg   string
	Cause error
}

func (e *EngineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("engine: %s: %v", e.Msg, e.Cause)
	}
	return fmt.Sprintf("engine: %s", e.Msg)
}

func (e *EngineError) Unwrap() error { return e.Cause }

// New constructs an *EngineError with the given code and message.
func New(code Code, msg string) *EngineError {
	return &EngineError{Code: code, Msg: msg}
}

// Wrap constructs an *EngineError with the given code wrapping cause.
func Wrap(code Code, msg string, cause error) *EngineError {
	return &EngineError{Code: code, Msg: msg, Cause: cause}
}
