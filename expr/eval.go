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
	"math/big"

	"github.com/gpicchiarelli/rasqal/literal"
	"github.com/gpicchiarelli/rasqal/vars"
)

// CompareFlags re-exports literal.CompareFlags so callers of this
// package never need to import literal just to thread flags through.
type CompareFlags = literal.CompareFlags

const (
	CompareCaseless = literal.CompareCaseless
	CompareNumeric  = literal.CompareNumeric
)

// Context is the minimal view of a query the evaluator needs: access
// to the live variables table. query.Query implements this.
type Context interface {
	Variables() *vars.Table
}

// Evaluate is a pure function of (expr, variables table state,
// compare-flags) to a literal or a *TypeError failure. It must be
// re-entrant with respect to a single query: it never mutates ctx
// beyond reading variable bindings.
func Evaluate(ctx Context, n Node, flags CompareFlags) (literal.Literal, error) {
	switch e := n.(type) {
	case *Lit:
		return e.Value, nil

	case *Var:
		idx, ok := ctx.Variables().Lookup(e.Name)
		if !ok {
			return literal.Literal{}, errtype(n, "reference to undeclared variable ?"+e.Name)
		}
		v := ctx.Variables().GetValue(idx)
		if v == nil {
			return literal.Literal{}, errtype(n, "unbound variable ?"+e.Name)
		}
		return *v, nil

	case *Bound:
		idx, ok := ctx.Variables().Lookup(e.Name)
		if !ok {
			return literal.Boolean(false), nil
		}
		return literal.Boolean(ctx.Variables().GetValue(idx) != nil), nil

	case *Unary:
		return evalUnary(ctx, e, flags)

	case *Binary:
		return evalBinary(ctx, e, flags)

	case *BoolExpr:
		return evalBool(ctx, e, flags)

	case *Func:
		return evalFunc(ctx, e, flags)

	default:
		return literal.Literal{}, errtype(n, "unsupported expression node")
	}
}

func evalUnary(ctx Context, e *Unary, flags CompareFlags) (literal.Literal, error) {
	x, err := Evaluate(ctx, e.X, flags)
	if err != nil {
		return literal.Literal{}, err
	}
	switch e.Op {
	case UnaryNot:
		b, unknown := literal.AsBoolean(x)
		if unknown {
			return literal.Literal{}, errtype(e, "NOT applied to a non-boolean-coercible value")
		}
		return literal.Boolean(!b), nil
	case UnaryNeg:
		switch x.Kind {
		case literal.KindInteger:
			return literal.Integer(-x.Int), nil
		case literal.KindDecimal:
			if x.Dec == nil {
				return literal.Literal{}, errtype(e, "negation of nil decimal")
			}
			return literal.Decimal(new(big.Float).Neg(x.Dec)), nil
		default:
			return literal.Literal{}, errtype(e, "unary minus applied to a non-numeric value")
		}
	default:
		return literal.Literal{}, errtype(e, "unknown unary operator")
	}
}

func evalBool(ctx Context, e *BoolExpr, flags CompareFlags) (literal.Literal, error) {
	// SPARQL-style three-valued AND/OR: a TypeError on one side does
	// not necessarily propagate if the other side alone determines
	// the result.
	xv, xerr := Evaluate(ctx, e.X, flags)
	var xb, xunknown bool
	if xerr != nil {
		xunknown = true
	} else {
		xb, xunknown = literal.AsBoolean(xv)
	}

	if e.Op == BoolAnd && !xunknown && !xb {
		return literal.Boolean(false), nil
	}
	if e.Op == BoolOr && !xunknown && xb {
		return literal.Boolean(true), nil
	}

	yv, yerr := Evaluate(ctx, e.Y, flags)
	var yb, yunknown bool
	if yerr != nil {
		yunknown = true
	} else {
		yb, yunknown = literal.AsBoolean(yv)
	}

	if e.Op == BoolAnd && !yunknown && !yb {
		return literal.Boolean(false), nil
	}
	if e.Op == BoolOr && !yunknown && yb {
		return literal.Boolean(true), nil
	}
	if xunknown || yunknown {
		return literal.Literal{}, errtype(e, "boolean connective over a non-boolean-coercible operand")
	}
	if e.Op == BoolAnd {
		return literal.Boolean(xb && yb), nil
	}
	return literal.Boolean(xb || yb), nil
}

func evalBinary(ctx Context, e *Binary, flags CompareFlags) (literal.Literal, error) {
	x, err := Evaluate(ctx, e.X, flags)
	if err != nil {
		return literal.Literal{}, err
	}
	y, err := Evaluate(ctx, e.Y, flags)
	if err != nil {
		return literal.Literal{}, err
	}

	switch e.Op {
	case OpAdd, OpSub, OpMul, OpDiv:
		return evalArith(e, x, y)
	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe:
		return evalCompare(e, x, y, flags)
	default:
		return literal.Literal{}, errtype(e, "unknown binary operator")
	}
}

func evalArith(e *Binary, x, y literal.Literal) (literal.Literal, error) {
	if !x.IsNumeric() || !y.IsNumeric() {
		return literal.Literal{}, errtype(e, "arithmetic on a non-numeric operand")
	}
	if x.Kind == literal.KindInteger && y.Kind == literal.KindInteger {
		switch e.Op {
		case OpAdd:
			return literal.Integer(x.Int + y.Int), nil
		case OpSub:
			return literal.Integer(x.Int - y.Int), nil
		case OpMul:
			return literal.Integer(x.Int * y.Int), nil
		case OpDiv:
			if y.Int == 0 {
				return literal.Literal{}, errtype(e, "division by zero")
			}
			return literal.Decimal(new(big.Float).Quo(
				new(big.Float).SetInt64(x.Int), new(big.Float).SetInt64(y.Int))), nil
		}
	}
	xf := toBig(x)
	yf := toBig(y)
	switch e.Op {
	case OpAdd:
		return literal.Decimal(new(big.Float).Add(xf, yf)), nil
	case OpSub:
		return literal.Decimal(new(big.Float).Sub(xf, yf)), nil
	case OpMul:
		return literal.Decimal(new(big.Float).Mul(xf, yf)), nil
	case OpDiv:
		if yf.Sign() == 0 {
			return literal.Literal{}, errtype(e, "division by zero")
		}
		return literal.Decimal(new(big.Float).Quo(xf, yf)), nil
	}
	return literal.Literal{}, errtype(e, "unreachable arithmetic operator")
}

func toBig(l literal.Literal) *big.Float {
	if l.Kind == literal.KindDecimal && l.Dec != nil {
		return l.Dec
	}
	return new(big.Float).SetInt64(l.Int)
}

func evalCompare(e *Binary, x, y literal.Literal, flags CompareFlags) (literal.Literal, error) {
	if e.Op == OpEq || e.Op == OpNe {
		var equal bool
		if rel, ok := literal.Compare(x, y, flags); ok {
			equal = rel == 0
		} else {
			equal = x.Equal(y)
		}
		if e.Op == OpEq {
			return literal.Boolean(equal), nil
		}
		return literal.Boolean(!equal), nil
	}

	rel, ok := literal.Compare(x, y, flags)
	if !ok {
		return literal.Literal{}, errtype(e, "operands are not ordered comparable")
	}
	switch e.Op {
	case OpLt:
		return literal.Boolean(rel < 0), nil
	case OpLe:
		return literal.Boolean(rel <= 0), nil
	case OpGt:
		return literal.Boolean(rel > 0), nil
	case OpGe:
		return literal.Boolean(rel >= 0), nil
	default:
		return literal.Literal{}, errtype(e, "unreachable comparison operator")
	}
}

func evalFunc(ctx Context, e *Func, flags CompareFlags) (literal.Literal, error) {
	x, err := Evaluate(ctx, e.Arg, flags)
	if err != nil {
		return literal.Literal{}, err
	}
	switch e.Kind {
	case FuncStr:
		return literal.String(x.String(), ""), nil
	case FuncLang:
		if x.Kind == literal.KindString && x.Lang {
			return literal.String(x.Datatype, ""), nil
		}
		return literal.String("", ""), nil
	case FuncDatatype:
		if x.Kind == literal.KindTypedLiteral {
			return literal.URI(x.Datatype), nil
		}
		return literal.Literal{}, errtype(e, "DATATYPE() applied to a non-typed-literal")
	default:
		return literal.Literal{}, errtype(e, "unknown function")
	}
}
