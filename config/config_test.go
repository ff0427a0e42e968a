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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gpicchiarelli/rasqal/expr"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load() on a missing file error: %v", err)
	}
	if cfg.Language != "sparql11" {
		t.Fatalf("Load() on a missing file = %+v, want Default()", cfg)
	}
}

func TestLoadParsesPresentFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("language: sparql11\nsources:\n  - urn:example:data\ncaseInsensitiveCompare: true\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(cfg.Sources) != 1 || cfg.Sources[0] != "urn:example:data" {
		t.Fatalf("Sources = %v, want [urn:example:data]", cfg.Sources)
	}
	if !cfg.CaseInsensitiveCompare {
		t.Fatalf("CaseInsensitiveCompare = false, want true")
	}
}

func TestCompareFlagsBitSetting(t *testing.T) {
	cfg := &Config{CaseInsensitiveCompare: true, NumericCompare: true}
	flags := cfg.CompareFlags()
	if !flags.Has(expr.CompareCaseless) {
		t.Fatalf("CompareFlags() missing CompareCaseless")
	}
	if !flags.Has(expr.CompareNumeric) {
		t.Fatalf("CompareFlags() missing CompareNumeric")
	}

	cfg2 := &Config{}
	if cfg2.CompareFlags() != 0 {
		t.Fatalf("CompareFlags() on a zero-value Config should be 0")
	}
}
