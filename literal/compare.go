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

import "strings"

// CompareFlags are opaque bits threaded through comparison and sort
// operations to control case-sensitivity and numeric-vs-lexical
// coercion. The bits themselves are interpreted only by Compare and by
// sortmap's distinct pre-hash, which folds case the way Compare does;
// callers should treat them as an opaque handle.
type CompareFlags uint32

const (
	// CompareCaseless makes string comparison ignore case.
	CompareCaseless CompareFlags = 1 << iota
	// CompareNumeric is carried through with the other flags, but
	// Compare does not consult it: integer and decimal literals always
	// compare numerically, and strings that look numeric still compare
	// lexically.
	CompareNumeric
)

// Has reports whether all bits in mask are set in f.
func (f CompareFlags) Has(mask CompareFlags) bool { return f&mask == mask }

// Compare orders l against o, honoring flags for string comparisons.
// It returns (-1/0/1, true) on a well-ordered pair, or (0, false) when
// the two literals are not comparable under any ordering this engine
// defines (e.g. a URI against a boolean) — callers (notably sortmap)
// must treat the unordered case explicitly rather than silently
// defaulting to "equal".
func Compare(l, o Literal, flags CompareFlags) (int, bool) {
	if l.IsNumeric() && o.IsNumeric() {
		lf, _ := l.AsFloat()
		of, _ := o.AsFloat()
		switch {
		case lf < of:
			return -1, true
		case lf > of:
			return 1, true
		default:
			return 0, true
		}
	}

	switch l.Kind {
	case KindString, KindTypedLiteral, KindURI, KindBlank:
		if o.Kind != l.Kind {
			return 0, false
		}
		a, b := l.Str, o.Str
		if flags.Has(CompareCaseless) {
			a, b = strings.ToLower(a), strings.ToLower(b)
		}
		switch {
		case a < b:
			return -1, true
		case a > b:
			return 1, true
		default:
			return 0, true
		}
	case KindBoolean:
		if o.Kind != KindBoolean {
			return 0, false
		}
		switch {
		case l.Bool == o.Bool:
			return 0, true
		case !l.Bool:
			return -1, true
		default:
			return 1, true
		}
	case KindDate:
		if o.Kind != KindDate {
			return 0, false
		}
		return l.Date.Compare(o.Date), true
	default:
		return 0, false
	}
}

// AsBoolean coerces l to a boolean per spec.md's EBV-like rule.
// The second return value is true exactly when l cannot be coerced;
// callers MUST treat that as "unknown", never as false.
func AsBoolean(l Literal) (bool, bool) {
	switch l.Kind {
	case KindBoolean:
		return l.Bool, false
	case KindInteger:
		return l.Int != 0, false
	case KindDecimal:
		if l.Dec == nil {
			return false, true
		}
		return l.Dec.Sign() != 0, false
	case KindString, KindTypedLiteral:
		return l.Str != "", false
	default:
		return false, true
	}
}
