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

// Package langfactory is the registry of language factories a Query
// resolves by short name or URI, the one piece of the external
// "language factory" contract this module gives a concrete home to.
package langfactory

import (
	"fmt"
	"sync"

	"github.com/gpicchiarelli/rasqal/query"
)

// Entry pairs a factory with the URI it's also addressable by, if
// any.
type Entry struct {
	Factory query.Factory
	URI     string
}

// Registry maps short names and URIs to language factories, modeled
// on the teacher's operator-by-name plugin registry idiom.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Entry
	byURI  map[string]Entry
	dflt   string
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		byName: make(map[string]Entry),
		byURI:  make(map[string]Entry),
	}
}

// Register adds factory under name, optionally also addressable by
// uri. The first registered factory becomes the registry's default.
func (reg *Registry) Register(name string, factory query.Factory, uri string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	e := Entry{Factory: factory, URI: uri}
	reg.byName[name] = e
	if uri != "" {
		reg.byURI[uri] = e
	}
	if reg.dflt == "" {
		reg.dflt = name
	}
}

// Get resolves a factory by its short name.
func (reg *Registry) Get(name string) (query.Factory, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	e, ok := reg.byName[name]
	return e.Factory, ok
}

// GetByURI resolves a factory by its language URI.
func (reg *Registry) GetByURI(uri string) (query.Factory, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	e, ok := reg.byURI[uri]
	return e.Factory, ok
}

// Default returns the first-registered factory, or an error if the
// registry is empty.
func (reg *Registry) Default() (query.Factory, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	if reg.dflt == "" {
		return nil, fmt.Errorf("langfactory: registry has no default factory")
	}
	return reg.byName[reg.dflt].Factory, nil
}

// Resolve picks a factory by name if given, else by uri, else the
// registry default, matching the "selectable by short name or URI; a
// default exists" contract.
func (reg *Registry) Resolve(name, uri string) (query.Factory, error) {
	if name != "" {
		if f, ok := reg.Get(name); ok {
			return f, nil
		}
		return nil, fmt.Errorf("langfactory: unknown language %q", name)
	}
	if uri != "" {
		if f, ok := reg.GetByURI(uri); ok {
			return f, nil
		}
		return nil, fmt.Errorf("langfactory: unknown language uri %q", uri)
	}
	return reg.Default()
}
