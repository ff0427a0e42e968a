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

import "github.com/gpicchiarelli/rasqal/literal"

// Lit is a constant literal leaf.
type Lit struct {
	Value literal.Literal
}

func (l *Lit) children() []Node { return nil }

// Var references a bind variable by name; the evaluator resolves it
// against the query's variables table.
type Var struct {
	Name string
}

func (v *Var) children() []Node { return nil }

// UnaryOp enumerates the unary operators.
type UnaryOp int

const (
	UnaryNeg UnaryOp = iota // arithmetic negation
	UnaryNot                // boolean not
)

// Unary applies an UnaryOp to X.
type Unary struct {
	Op UnaryOp
	X  Node
}

func (u *Unary) children() []Node { return []Node{u.X} }

func (u *Unary) rewriteChildren(r Rewriter) Node {
	u.X = Rewrite(r, u.X)
	return u
}

// BinaryOp enumerates arithmetic and comparison operators.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

// Binary applies a BinaryOp to (X, Y).
type Binary struct {
	Op   BinaryOp
	X, Y Node
}

func (b *Binary) children() []Node { return []Node{b.X, b.Y} }

func (b *Binary) rewriteChildren(r Rewriter) Node {
	b.X = Rewrite(r, b.X)
	b.Y = Rewrite(r, b.Y)
	return b
}

// BoolOp enumerates short-circuiting boolean connectives.
type BoolOp int

const (
	BoolAnd BoolOp = iota
	BoolOr
)

// BoolExpr applies a BoolOp to (X, Y), short-circuiting the way
// spec.md requires (a TypeError or unknown operand does not always
// force a TypeError result; see Evaluate).
type BoolExpr struct {
	Op   BoolOp
	X, Y Node
}

func (b *BoolExpr) children() []Node { return []Node{b.X, b.Y} }

func (b *BoolExpr) rewriteChildren(r Rewriter) Node {
	b.X = Rewrite(r, b.X)
	b.Y = Rewrite(r, b.Y)
	return b
}

// Bound implements SPARQL's BOUND(?x): true iff the named variable
// currently has a value.
type Bound struct {
	Name string
}

func (b *Bound) children() []Node { return nil }

// FuncKind enumerates the small set of built-in casts this engine
// supports over a single argument.
type FuncKind int

const (
	FuncStr FuncKind = iota
	FuncLang
	FuncDatatype
)

// Func applies a FuncKind to a single argument.
type Func struct {
	Kind FuncKind
	Arg  Node
}

func (f *Func) children() []Node { return []Node{f.Arg} }

func (f *Func) rewriteChildren(r Rewriter) Node {
	f.Arg = Rewrite(r, f.Arg)
	return f
}
