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

// Package config loads the optional engine configuration file:
// default source URIs, default namespace prefixes, the default
// language name, and compare-flag defaults. cmd/rasqal applies the
// language, compare-flag and spill settings; it does not read Sources
// or Prefixes. YAML-as-JSON
// unmarshaling via sigs.k8s.io/yaml mirrors the teacher's own use of
// that library for config-shaped files.
package config

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"

	"github.com/gpicchiarelli/rasqal/expr"
)

// Config is the on-disk shape of an engine configuration file.
type Config struct {
	// Language is the default language factory name (e.g. "sparql11").
	Language string `json:"language,omitempty"`
	// Sources lists default triple-store source URIs. Nothing in this
	// module reads it when running a query.
	Sources []string `json:"sources,omitempty"`
	// Prefixes maps default namespace prefixes to URIs.
	Prefixes map[string]string `json:"prefixes,omitempty"`
	// CaseInsensitiveCompare and NumericCompare set the default
	// compare-flags every prepared query starts with.
	CaseInsensitiveCompare bool `json:"caseInsensitiveCompare,omitempty"`
	NumericCompare         bool `json:"numericCompare,omitempty"`
	// SortSpillThreshold bounds the sort operator's pre-sort read
	// buffer; see rowsource.NewSortWithSpill. Zero disables spilling.
	SortSpillThreshold int `json:"sortSpillThreshold,omitempty"`
}

// CompareFlags converts the config's boolean toggles into the
// evaluator's bitset.
func (c *Config) CompareFlags() expr.CompareFlags {
	var flags expr.CompareFlags
	if c.CaseInsensitiveCompare {
		flags |= expr.CompareCaseless
	}
	if c.NumericCompare {
		flags |= expr.CompareNumeric
	}
	return flags
}

// Default returns a Config with the engine's built-in defaults: the
// sparql11 language, no default sources, no prefixes, and
// case-sensitive/lexical comparison.
func Default() *Config {
	return &Config{Language: "sparql11"}
}

// Load reads and parses a YAML config file at path. A missing file is
// not an error — it returns Default() — since the CLI treats the
// config file as optional.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}
