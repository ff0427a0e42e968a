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

// varCollector is a Visitor that records the name of every Var node
// Walk encounters, in first-seen order, deduplicated.
type varCollector struct {
	seen  map[string]bool
	names []string
}

func (c *varCollector) Visit(n Node) Visitor {
	if n == nil {
		return nil
	}
	if v, ok := n.(*Var); ok && !c.seen[v.Name] {
		c.seen[v.Name] = true
		c.names = append(c.names, v.Name)
	}
	return c
}

// CollectVars returns the name of every Var node reachable from n, in
// first-encountered order with duplicates removed. Used to validate a
// FILTER or ORDER BY expression references only variables the query
// has already declared, before the expression ever reaches Evaluate.
func CollectVars(n Node) []string {
	c := &varCollector{seen: make(map[string]bool)}
	Walk(c, n)
	return c.names
}

// doubleNegationRewriter implements Rewriter, collapsing NOT(NOT(x))
// into x. It is the only simplification Simplify performs: a peephole
// pass, not a cost-based rewrite, since the operator algebra has no
// planner to feed a richer one into.
type doubleNegationRewriter struct{}

func (doubleNegationRewriter) Walk(n Node) Rewriter { return doubleNegationRewriter{} }

func (doubleNegationRewriter) Rewrite(n Node) Node {
	outer, ok := n.(*Unary)
	if !ok || outer.Op != UnaryNot {
		return n
	}
	inner, ok := outer.X.(*Unary)
	if !ok || inner.Op != UnaryNot {
		return n
	}
	return inner.X
}

// Simplify applies doubleNegationRewriter to n and returns the
// simplified tree. Safe to call on any expression, including one with
// no double negation (it's then a no-op).
func Simplify(n Node) Node {
	return Rewrite(doubleNegationRewriter{}, n)
}
