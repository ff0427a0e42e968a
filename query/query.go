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

// Package query implements the top-level query object: its parsed
// state, its execution lifecycle, and the reference-counted sharing
// relation with zero or more live Results iterators.
package query

import (
	"encoding/binary"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"github.com/gpicchiarelli/rasqal/expr"
	"github.com/gpicchiarelli/rasqal/internal/engineerr"
	"github.com/gpicchiarelli/rasqal/literal"
	"github.com/gpicchiarelli/rasqal/rowsource"
	"github.com/gpicchiarelli/rasqal/sortmap"
	"github.com/gpicchiarelli/rasqal/vars"
)

// TriplePattern is one pattern in the query's basic graph pattern.
// Any of Subject/Predicate/Object may be a KindVariable literal.
type TriplePattern struct {
	Subject, Predicate, Object literal.Literal
}

// OrderTerm is one ORDER BY term: an expression paired with the
// direction/nulls-ordering it sorts by.
type OrderTerm struct {
	Expr  expr.Node
	Order sortmap.OrderCondition
}

// Factory is the language-factory contract a Query resolves by name
// or URI at construction, consumed from package langfactory. It is
// declared here (rather than imported from langfactory) to avoid an
// import cycle, since langfactory's default implementation needs to
// reference *Query.
type Factory interface {
	Name() string
	Label() string
	ContextLength() int
	Init(q *Query, name string) error
	Prepare(q *Query) error
	Execute(q *Query) error
	Terminate(q *Query) error
}

// Query is the top-level object owning a prepared query's state: its
// declared sequences, its execution flags, the shared variables
// table, and the list of live Results iterators. It is reference
// counted the way rasqal's rasqal_query is: usage starts at 1 for the
// creator, and each live Results adds one more, mirroring the
// counted-lease idiom the teacher uses for tenant handles. There is no
// mutex: per the single-threaded-per-query contract, a Query and its
// pipeline are only ever driven from one goroutine at a time.
type Query struct {
	id uuid.UUID

	factory  Factory
	language string

	queryString string
	baseURI     string

	selectVars  []string
	sources     []string
	patterns    []TriplePattern
	constraints []expr.Node
	prefixes    map[string]string
	orderTerms  []OrderTerm
	distinct    bool
	compareFlg  expr.CompareFlags

	variables *vars.Table
	root      *rowsource.RowSource

	prepared bool
	executed bool
	finished bool
	failed   bool

	resultCount int
	usage       int

	lastErr *engineerr.EngineError

	iterators []*Results

	// Logger receives fatal-error/error/warning notifications. When
	// nil, the default handler logs via the standard library's log
	// package, matching the teacher's "handlers are optional, stdlib
	// log is the fallback" texture.
	Logger func(level string, message string)
}

// New resolves factory for languageName and returns a fresh Query
// with usage 1. factory may be nil only in tests that never call
// Prepare/Execute.
func New(factory Factory, languageName string) (*Query, error) {
	q := &Query{
		id:        uuid.New(),
		factory:   factory,
		language:  languageName,
		prefixes:  make(map[string]string),
		variables: vars.New(),
		usage:     1,
	}
	if factory != nil {
		if err := factory.Init(q, languageName); err != nil {
			return nil, fmt.Errorf("query: factory init: %w", err)
		}
	}
	return q, nil
}

// ID returns the query's identity, assigned once at construction for
// log correlation. It is never part of the equality/ownership
// contract.
func (q *Query) ID() uuid.UUID { return q.id }

// Variables implements expr.Context and rowsource.Query.
func (q *Query) Variables() *vars.Table { return q.variables }

// CompareFlags implements rowsource.Query.
func (q *Query) CompareFlags() expr.CompareFlags { return q.compareFlg }

// SetCompareFlags sets the compare-flags used by the evaluator and by
// sort/distinct comparisons for the remainder of this query's life.
func (q *Query) SetCompareFlags(flags expr.CompareFlags) { q.compareFlg = flags }

// Distinct implements rowsource.Query.
func (q *Query) Distinct() bool { return q.distinct }

// SetDistinct toggles whether the sort stage deduplicates on the
// order-key tuple.
func (q *Query) SetDistinct(d bool) { q.distinct = d }

// Prepared, Executed, Finished, Failed expose the execution state
// machine's flags read-only; engine and test code uses them to decide
// whether an operation is legal.
func (q *Query) Prepared() bool { return q.prepared }
func (q *Query) Executed() bool { return q.executed }
func (q *Query) Finished() bool { return q.finished }
func (q *Query) Failed() bool   { return q.failed }

// LastError returns the most recently recorded engine failure, or nil
// if none occurred. This is the implementer's-choice diagnostic slot
// the design notes flagged as optional: the core contract only
// promises that a failed query returns the exhausted sentinel, not
// that the specific error is recoverable, but keeping the last one
// around costs nothing and helps callers log a useful message.
func (q *Query) LastError() *engineerr.EngineError { return q.lastErr }

// AddSelectVariable declares a variable as part of the query's select
// list, interning it into the shared variables table.
func (q *Query) AddSelectVariable(name string) {
	q.selectVars = append(q.selectVars, name)
	q.variables.Declare(name)
}

// SelectVariables returns the declared select-variable names in
// declaration order.
func (q *Query) SelectVariables() []string { return q.selectVars }

// AddSource appends a source URI to the query's source sequence.
func (q *Query) AddSource(uri string) { q.sources = append(q.sources, uri) }

// Sources returns the declared source URIs.
func (q *Query) Sources() []string { return q.sources }

// AddTriplePattern appends one triple pattern to the query's basic
// graph pattern.
func (q *Query) AddTriplePattern(p TriplePattern) { q.patterns = append(q.patterns, p) }

// TriplePatterns returns the declared triple patterns.
func (q *Query) TriplePatterns() []TriplePattern { return q.patterns }

// AddConstraint appends a FILTER expression to the query's constraint
// sequence; all constraints are conjoined by the engine's pipeline
// construction.
func (q *Query) AddConstraint(e expr.Node) { q.constraints = append(q.constraints, e) }

// Constraints returns the declared constraint expressions.
func (q *Query) Constraints() []expr.Node { return q.constraints }

// SetPrefix binds a namespace prefix to a URI.
func (q *Query) SetPrefix(prefix, uri string) { q.prefixes[prefix] = uri }

// Prefix resolves a namespace prefix, returning ("", false) if unset.
func (q *Query) Prefix(prefix string) (string, bool) {
	uri, ok := q.prefixes[prefix]
	return uri, ok
}

// AddOrderTerm appends one ORDER BY term.
func (q *Query) AddOrderTerm(t OrderTerm) { q.orderTerms = append(q.orderTerms, t) }

// OrderTerms returns the declared ORDER BY terms.
func (q *Query) OrderTerms() []OrderTerm { return q.orderTerms }

// HasVariable reports whether name was declared, via linear search
// over the small variable set (mirroring rasqal_query_has_variable).
func (q *Query) HasVariable(name string) bool {
	_, ok := q.variables.Lookup(name)
	return ok
}

// SetVariable assigns a value to a declared variable by name.
func (q *Query) SetVariable(name string, value literal.Literal) error {
	idx, ok := q.variables.Lookup(name)
	if !ok {
		return fmt.Errorf("query: set_variable: undeclared variable ?%s", name)
	}
	q.variables.SetValue(idx, value)
	return nil
}

// SetFeature is the stub the original engine exposes: the feature set
// is intentionally empty, so every call fails with an
// unsupported-feature error. The hook is kept so callers can probe for
// support without a type assertion.
func (q *Query) SetFeature(name string, value any) error {
	return engineerr.New(engineerr.CodeUnsupportedFeature, fmt.Sprintf("unknown feature %q", name))
}

// QueryString returns the raw text passed to Prepare.
func (q *Query) QueryString() string { return q.queryString }

// SetBaseURI sets the resolution base for relative URIs encountered
// while preparing the query.
func (q *Query) SetBaseURI(uri string) { q.baseURI = uri }

// BaseURI returns the query's resolution base.
func (q *Query) BaseURI() string { return q.baseURI }

// cwdBaseURI returns a file URI naming the process's current working
// directory, the same fallback raptor_uri_filename_to_uri_string("")
// produces when the original is given no base URI. If the working
// directory can't be determined, it falls back to a root file URI
// rather than leaving the base URI empty.
func cwdBaseURI() string {
	dir, err := os.Getwd()
	if err != nil {
		return "file:///"
	}
	return "file://" + dir
}

// SetRoot installs the prepared pipeline's root row-source. Called by
// the language factory's Prepare hook (or directly by callers
// constructing a pipeline without a factory) after the sequences
// above have been populated.
func (q *Query) SetRoot(root *rowsource.RowSource) { q.root = root }

// Root returns the prepared pipeline's root row-source, or nil before
// Prepare has installed one.
func (q *Query) Root() *rowsource.RowSource { return q.root }

// Prepare parses queryString (via the resolved language factory) into
// the internal model, rejecting if the query is already prepared or
// has already failed. If baseURI is empty and none was set earlier via
// SetBaseURI, it defaults to a file URI naming the process's current
// working directory, preserving the invariant that a prepared query
// always has a non-empty base URI.
func (q *Query) Prepare(queryString, baseURI string) error {
	if q.failed {
		return engineerr.New(engineerr.CodeFailed, "prepare called on a failed query")
	}
	if q.prepared {
		return engineerr.New(engineerr.CodeAlreadyPrepared, "query already prepared")
	}
	q.queryString = queryString
	if baseURI != "" {
		q.baseURI = baseURI
	}
	if q.baseURI == "" {
		q.baseURI = cwdBaseURI()
	}
	if q.factory != nil {
		if err := q.factory.Prepare(q); err != nil {
			q.failed = true
			q.lastErr = engineerr.Wrap(engineerr.CodeFailed, "prepare failed", err)
			q.logf("error", "prepare failed: %v", err)
			return err
		}
	}
	q.variables.Seal()
	q.prepared = true
	return nil
}

// Execute rejects if the query isn't prepared, is already executed,
// or has failed. It runs the engine's execute-init, then the factory's
// optional execute hook, allocates a Results iterator linked into the
// live-iterator list, increments usage, and returns it positioned
// before the first row.
func (q *Query) Execute() (*Results, error) {
	if !q.prepared {
		return nil, engineerr.New(engineerr.CodeNotPrepared, "execute called before prepare")
	}
	if q.executed {
		return nil, engineerr.New(engineerr.CodeAlreadyExecuted, "query already executed")
	}
	if q.failed {
		return nil, engineerr.New(engineerr.CodeFailed, "execute called on a failed query")
	}
	if q.root == nil {
		err := engineerr.New(engineerr.CodeNotPrepared, "no pipeline installed before execute")
		q.failed = true
		q.lastErr = err
		q.logf("error", "execute failed: %v", err)
		return nil, err
	}
	if q.factory != nil {
		if err := q.factory.Execute(q); err != nil {
			q.failed = true
			ee := engineerr.Wrap(engineerr.CodeFailed, "factory execute hook failed", err)
			q.lastErr = ee
			q.logf("error", "execute failed: %v", err)
			return nil, ee
		}
	}
	q.executed = true

	r := newResults(q)
	q.linkIterator(r)
	q.usage++
	return r, nil
}

// linkIterator appends r to the query's live-iterator list.
func (q *Query) linkIterator(r *Results) {
	q.iterators = append(q.iterators, r)
}

// unlinkIterator removes r from the query's live-iterator list. It is
// a no-op if r is already unlinked (Free is idempotent).
func (q *Query) unlinkIterator(r *Results) {
	for i, it := range q.iterators {
		if it == r {
			q.iterators = append(q.iterators[:i], q.iterators[i+1:]...)
			return
		}
	}
}

// release decrements usage, performing final teardown (including
// running execute-finish on the pipeline, if one was executed) only
// when usage reaches zero. Called by both Free (the creator's
// release) and a Results' Free (one iterator's release).
func (q *Query) release() error {
	q.usage--
	if q.usage > 0 {
		return nil
	}
	var err error
	if q.executed && q.root != nil {
		err = q.root.Finish()
	}
	q.queryString = ""
	q.baseURI = ""
	q.selectVars = nil
	q.sources = nil
	q.patterns = nil
	q.constraints = nil
	q.prefixes = nil
	q.orderTerms = nil
	q.variables = nil
	q.root = nil
	return err
}

// Free decrements the creator's reference. Only when usage reaches
// zero (i.e. every Results has also been freed) are the query's owned
// sequences, variables table, and execution state released. If the
// query was executed, execute-finish runs first.
func (q *Query) Free() error {
	return q.release()
}

// ContentHash returns a content fingerprint of the prepared query:
// select variables, sources, triple patterns, the number of
// constraints, the number of order terms, and the distinct flag. The
// constraint and order-term expressions themselves are not hashed, so
// queries that differ only in those expressions share a hash. It is
// stable across two Query values built from the same declarations,
// regardless of object identity or the generated uuid.
func (q *Query) ContentHash() [32]byte {
	h, err := blake2b.New256(nil)
	if err != nil {
		panic(err)
	}
	for _, v := range q.selectVars {
		h.Write([]byte(v))
		h.Write([]byte{0})
	}
	for _, s := range q.sources {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	for _, p := range q.patterns {
		h.Write([]byte(p.Subject.String()))
		h.Write([]byte(p.Predicate.String()))
		h.Write([]byte(p.Object.String()))
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(len(q.constraints)))
	h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], uint64(len(q.orderTerms)))
	h.Write(buf[:])
	if q.distinct {
		h.Write([]byte{1})
	}
	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum
}

func (q *Query) logf(level, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if q.Logger != nil {
		q.Logger(level, msg)
		return
	}
	log.Printf("rasqal: %s: %s", level, msg)
}
