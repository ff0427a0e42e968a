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

// Package miniparse is a minimal SELECT/WHERE/FILTER/ORDER BY/DISTINCT
// recognizer, just enough to drive the row-source pipeline end to end
// in tests and the CLI. It is deliberately not a general SPARQL
// parser: no property paths, no OPTIONAL, no UNION, no aggregates.
// Real query-language parsing is out of scope for the core this
// module implements.
package miniparse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gpicchiarelli/rasqal/expr"
	"github.com/gpicchiarelli/rasqal/literal"
)

// TriplePattern mirrors query.TriplePattern's shape without importing
// the query package, avoiding a miniparse<->query import cycle (query
// will import miniparse transitively through a default factory built
// on top of this package).
type TriplePattern struct {
	Subject, Predicate, Object literal.Literal
}

// OrderTerm is one recognized ORDER BY clause term.
type OrderTerm struct {
	Expr       expr.Node
	Descending bool
}

// Parsed is the result of recognizing a query string.
type Parsed struct {
	SelectVars []string
	Distinct   bool
	Patterns   []TriplePattern
	Filters    []expr.Node
	OrderBy    []OrderTerm
}

// Parse recognizes src. It returns an error naming the offending
// token on anything it doesn't understand, rather than attempting any
// recovery.
func Parse(src string) (*Parsed, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	return p.parseQuery()
}

// --- tokenizer ---

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokVar
	tokURI
	tokString
	tokNumber
	tokPunct
	tokEOF
)

type token struct {
	kind tokenKind
	text string
}

func tokenize(src string) ([]token, error) {
	var toks []token
	i, n := 0, len(src)
	for i < n {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '?':
			j := i + 1
			for j < n && isIdentByte(src[j]) {
				j++
			}
			if j == i+1 {
				return nil, fmt.Errorf("miniparse: bare '?' at offset %d", i)
			}
			toks = append(toks, token{tokVar, src[i+1 : j]})
			i = j
		case c == '<' && looksLikeURIOpen(src[i+1:]):
			j := strings.IndexByte(src[i+1:], '>')
			toks = append(toks, token{tokURI, src[i+1 : i+1+j]})
			i = i + 1 + j + 1
		case c == '"':
			j := i + 1
			for j < n && src[j] != '"' {
				j++
			}
			if j >= n {
				return nil, fmt.Errorf("miniparse: unterminated string at offset %d", i)
			}
			toks = append(toks, token{tokString, src[i+1 : j]})
			i = j + 1
		case c == '.' || c == '{' || c == '}' || c == '(' || c == ')' || c == ',':
			toks = append(toks, token{tokPunct, string(c)})
			i++
		case c == '=' || c == '!' || c == '<' || c == '>':
			// '<' that opens a URI is handled above; a '<' that
			// reaches this branch is a comparison operator.
			op, width := scanOperator(src[i:])
			toks = append(toks, token{tokPunct, op})
			i += width
		case c == '&' && i+1 < n && src[i+1] == '&':
			toks = append(toks, token{tokPunct, "&&"})
			i += 2
		case c == '|' && i+1 < n && src[i+1] == '|':
			toks = append(toks, token{tokPunct, "||"})
			i += 2
		case isDigit(c) || (c == '-' && i+1 < n && isDigit(src[i+1])):
			j := i + 1
			for j < n && isDigit(src[j]) {
				j++
			}
			toks = append(toks, token{tokNumber, src[i:j]})
			i = j
		case isIdentStart(c):
			j := i + 1
			for j < n && isIdentByte(src[j]) {
				j++
			}
			toks = append(toks, token{tokIdent, src[i:j]})
			i = j
		default:
			return nil, fmt.Errorf("miniparse: unexpected byte %q at offset %d", c, i)
		}
	}
	toks = append(toks, token{tokEOF, ""})
	return toks, nil
}

// looksLikeURIOpen reports whether the bytes following a '<' form an
// IRI reference rather than a less-than comparison: a '>' must occur
// before any whitespace.
func looksLikeURIOpen(rest string) bool {
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case '>':
			return true
		case ' ', '\t', '\n', '\r':
			return false
		}
	}
	return false
}

func scanOperator(s string) (string, int) {
	if len(s) >= 2 {
		two := s[:2]
		switch two {
		case "!=", "<=", ">=":
			return two, 2
		}
	}
	return s[:1], 1
}

func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
func isIdentStart(c byte) bool { return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isIdentByte(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == ':'
}

// --- parser ---

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) expectIdent(word string) error {
	t := p.next()
	if t.kind != tokIdent || !strings.EqualFold(t.text, word) {
		return fmt.Errorf("miniparse: expected %q, got %q", word, t.text)
	}
	return nil
}

func (p *parser) expectPunct(punct string) error {
	t := p.next()
	if t.kind != tokPunct || t.text != punct {
		return fmt.Errorf("miniparse: expected %q, got %q", punct, t.text)
	}
	return nil
}

func (p *parser) parseQuery() (*Parsed, error) {
	out := &Parsed{}
	if err := p.expectIdent("SELECT"); err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind == tokIdent && strings.EqualFold(t.text, "DISTINCT") {
		p.next()
		out.Distinct = true
	}
	for p.peek().kind == tokVar {
		out.SelectVars = append(out.SelectVars, p.next().text)
	}
	if len(out.SelectVars) == 0 {
		return nil, fmt.Errorf("miniparse: SELECT requires at least one variable")
	}

	if err := p.expectIdent("WHERE"); err != nil {
		return nil, err
	}
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind == tokPunct && t.text == "}" {
			p.next()
			break
		}
		if t.kind == tokIdent && strings.EqualFold(t.text, "FILTER") {
			p.next()
			if err := p.expectPunct("("); err != nil {
				return nil, err
			}
			cond, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if err := p.expectPunct(")"); err != nil {
				return nil, err
			}
			out.Filters = append(out.Filters, cond)
			continue
		}
		pat, err := p.parseTriplePattern()
		if err != nil {
			return nil, err
		}
		out.Patterns = append(out.Patterns, pat)
		if p.peek().kind == tokPunct && p.peek().text == "." {
			p.next()
		}
	}

	if t := p.peek(); t.kind == tokIdent && strings.EqualFold(t.text, "ORDER") {
		p.next()
		if err := p.expectIdent("BY"); err != nil {
			return nil, err
		}
		for {
			t := p.peek()
			if t.kind != tokVar && !(t.kind == tokIdent && (strings.EqualFold(t.text, "ASC") || strings.EqualFold(t.text, "DESC"))) {
				break
			}
			desc := false
			if t.kind == tokIdent {
				desc = strings.EqualFold(t.text, "DESC")
				p.next()
				if err := p.expectPunct("("); err != nil {
					return nil, err
				}
				v := p.next()
				if v.kind != tokVar {
					return nil, fmt.Errorf("miniparse: expected variable inside ORDER BY ASC/DESC(), got %q", v.text)
				}
				if err := p.expectPunct(")"); err != nil {
					return nil, err
				}
				out.OrderBy = append(out.OrderBy, OrderTerm{Expr: &expr.Var{Name: v.text}, Descending: desc})
				continue
			}
			v := p.next()
			out.OrderBy = append(out.OrderBy, OrderTerm{Expr: &expr.Var{Name: v.text}, Descending: desc})
		}
	}
	if p.peek().kind == tokIdent && strings.EqualFold(p.peek().text, "DISTINCT") {
		p.next()
		out.Distinct = true
	}
	return out, nil
}

func (p *parser) parseTriplePattern() (TriplePattern, error) {
	s, err := p.parseTerm()
	if err != nil {
		return TriplePattern{}, err
	}
	pr, err := p.parseTerm()
	if err != nil {
		return TriplePattern{}, err
	}
	o, err := p.parseTerm()
	if err != nil {
		return TriplePattern{}, err
	}
	return TriplePattern{Subject: s, Predicate: pr, Object: o}, nil
}

func (p *parser) parseTerm() (literal.Literal, error) {
	t := p.next()
	switch t.kind {
	case tokVar:
		return literal.VarRef(t.text), nil
	case tokURI:
		return literal.URI(t.text), nil
	case tokString:
		return literal.String(t.text, ""), nil
	case tokNumber:
		if strings.Contains(t.text, ".") {
			return literal.Literal{}, fmt.Errorf("miniparse: decimal triple terms are not supported")
		}
		n, err := strconv.ParseInt(t.text, 10, 64)
		if err != nil {
			return literal.Literal{}, fmt.Errorf("miniparse: bad integer term %q: %w", t.text, err)
		}
		return literal.Integer(n), nil
	default:
		return literal.Literal{}, fmt.Errorf("miniparse: expected a triple term, got %q", t.text)
	}
}

// parseExpr parses a FILTER expression: the lowest precedence level,
// boolean OR.
func (p *parser) parseExpr() (expr.Node, error) {
	return p.parseOr()
}

func (p *parser) parseOr() (expr.Node, error) {
	x, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokPunct && p.peek().text == "||" {
		p.next()
		y, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		x = &expr.BoolExpr{Op: expr.BoolOr, X: x, Y: y}
	}
	return x, nil
}

func (p *parser) parseAnd() (expr.Node, error) {
	x, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokPunct && p.peek().text == "&&" {
		p.next()
		y, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		x = &expr.BoolExpr{Op: expr.BoolAnd, X: x, Y: y}
	}
	return x, nil
}

func (p *parser) parseUnary() (expr.Node, error) {
	t := p.peek()
	if t.kind == tokPunct && t.text == "!" {
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &expr.Unary{Op: expr.UnaryNot, X: x}, nil
	}
	if t.kind == tokIdent && strings.EqualFold(t.text, "BOUND") {
		p.next()
		if err := p.expectPunct("("); err != nil {
			return nil, err
		}
		v := p.next()
		if v.kind != tokVar {
			return nil, fmt.Errorf("miniparse: BOUND() requires a variable, got %q", v.text)
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return &expr.Bound{Name: v.text}, nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (expr.Node, error) {
	x, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	t := p.peek()
	if t.kind != tokPunct {
		return x, nil
	}
	op, ok := map[string]expr.BinaryOp{
		"=": expr.OpEq, "!=": expr.OpNe,
		"<": expr.OpLt, "<=": expr.OpLe,
		">": expr.OpGt, ">=": expr.OpGe,
	}[t.text]
	if !ok {
		return x, nil
	}
	p.next()
	y, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	return &expr.Binary{Op: op, X: x, Y: y}, nil
}

func (p *parser) parseAtom() (expr.Node, error) {
	t := p.next()
	switch t.kind {
	case tokVar:
		return &expr.Var{Name: t.text}, nil
	case tokString:
		return &expr.Lit{Value: literal.String(t.text, "")}, nil
	case tokURI:
		return &expr.Lit{Value: literal.URI(t.text)}, nil
	case tokNumber:
		if strings.Contains(t.text, ".") {
			return nil, fmt.Errorf("miniparse: decimal literals in expressions are not supported")
		}
		n, err := strconv.ParseInt(t.text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("miniparse: bad integer literal %q: %w", t.text, err)
		}
		return &expr.Lit{Value: literal.Integer(n)}, nil
	case tokIdent:
		switch strings.ToLower(t.text) {
		case "true":
			return &expr.Lit{Value: literal.Boolean(true)}, nil
		case "false":
			return &expr.Lit{Value: literal.Boolean(false)}, nil
		case "str", "lang", "datatype":
			kind := map[string]expr.FuncKind{"str": expr.FuncStr, "lang": expr.FuncLang, "datatype": expr.FuncDatatype}[strings.ToLower(t.text)]
			if err := p.expectPunct("("); err != nil {
				return nil, err
			}
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if err := p.expectPunct(")"); err != nil {
				return nil, err
			}
			return &expr.Func{Kind: kind, Arg: arg}, nil
		}
		return nil, fmt.Errorf("miniparse: unrecognized token %q in expression", t.text)
	case tokPunct:
		if t.text == "(" {
			x, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if err := p.expectPunct(")"); err != nil {
				return nil, err
			}
			return x, nil
		}
		if t.text == "-" {
			x, err := p.parseAtom()
			if err != nil {
				return nil, err
			}
			return &expr.Unary{Op: expr.UnaryNeg, X: x}, nil
		}
		return nil, fmt.Errorf("miniparse: unexpected punctuation %q in expression", t.text)
	default:
		return nil, fmt.Errorf("miniparse: unexpected end of expression")
	}
}
