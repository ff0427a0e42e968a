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

// Command rasqal runs one query, parsed by the sparql11 recognizer,
// against an in-memory sample triple store and prints the resulting
// bindings.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/gpicchiarelli/rasqal/config"
	"github.com/gpicchiarelli/rasqal/engine"
	"github.com/gpicchiarelli/rasqal/langfactory"
	"github.com/gpicchiarelli/rasqal/literal"
	"github.com/gpicchiarelli/rasqal/query"
	"github.com/gpicchiarelli/rasqal/triplestore"
	"github.com/gpicchiarelli/rasqal/triplestore/memstore"
)

func main() {
	var (
		queryText  = flag.String("query", "", "query text (required)")
		configPath = flag.String("config", "", "optional engine config YAML path")
		baseURI    = flag.String("base", "urn:rasqal:cli", "base URI for the query")
	)
	flag.Parse()

	if *queryText == "" {
		fmt.Fprintln(os.Stderr, "rasqal: -query is required")
		os.Exit(2)
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "rasqal: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	store := sampleStore()
	factory := langfactory.NewSparql11(store)
	factory.SortSpillThreshold = cfg.SortSpillThreshold

	q, err := query.New(factory, cfg.Language)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rasqal: %v\n", err)
		os.Exit(1)
	}
	q.SetCompareFlags(cfg.CompareFlags())
	defer q.Free()

	if err := q.Prepare(*queryText, *baseURI); err != nil {
		fmt.Fprintf(os.Stderr, "rasqal: prepare: %v\n", err)
		os.Exit(1)
	}

	results, err := q.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "rasqal: execute: %v\n", err)
		os.Exit(1)
	}
	defer results.Free()

	for !results.Next(engine.GetNextResult) {
		names, values := results.GetBindings()
		parts := make([]string, len(names))
		for i, n := range names {
			parts[i] = fmt.Sprintf("?%s=%s", n, values[i].String())
		}
		fmt.Println(strings.Join(parts, " "))
	}
	if q.Failed() {
		if le := q.LastError(); le != nil {
			fmt.Fprintf(os.Stderr, "rasqal: query failed: %v\n", le)
		}
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "rasqal: %d result(s)\n", results.GetCount())
}

// sampleStore seeds a tiny social-graph dataset so the CLI is
// exercisable with no external input.
func sampleStore() triplestore.Source {
	s := memstore.New()
	knows := literal.URI("urn:rasqal:knows")
	name := literal.URI("urn:rasqal:name")
	s.Add(triplestore.Triple{Subject: literal.URI("urn:rasqal:alice"), Predicate: knows, Object: literal.URI("urn:rasqal:bob")})
	s.Add(triplestore.Triple{Subject: literal.URI("urn:rasqal:alice"), Predicate: knows, Object: literal.URI("urn:rasqal:carol")})
	s.Add(triplestore.Triple{Subject: literal.URI("urn:rasqal:bob"), Predicate: knows, Object: literal.URI("urn:rasqal:carol")})
	s.Add(triplestore.Triple{Subject: literal.URI("urn:rasqal:alice"), Predicate: name, Object: literal.String("Alice", "")})
	s.Add(triplestore.Triple{Subject: literal.URI("urn:rasqal:bob"), Predicate: name, Object: literal.String("Bob", "")})
	s.Add(triplestore.Triple{Subject: literal.URI("urn:rasqal:carol"), Predicate: name, Object: literal.String("Carol", "")})
	return s
}
