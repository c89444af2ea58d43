package resolve

import "github.com/Toxikuu/to/pkgmodel"

// Lookup resolves a package name to its materialized Package. Recipe I/O
// is injected so the resolver itself stays pure and testable; production
// callers back it with pkgmodel reading from the recipe root, tests back
// it with an in-memory map.
type Lookup interface {
	Package(name string) (pkgmodel.Package, error)
}

// MapLookup is a Lookup backed by an in-memory set, useful for tests and
// for batch operations (e.g. BuildOrder) that already have every
// candidate Package materialized.
type MapLookup map[string]pkgmodel.Package

// Package implements Lookup.
func (m MapLookup) Package(name string) (pkgmodel.Package, error) {
	p, ok := m[name]
	if !ok {
		return pkgmodel.Package{}, ErrNotFound
	}
	return p, nil
}

// NewMapLookup builds a MapLookup from a slice, keyed by name.
func NewMapLookup(pkgs []pkgmodel.Package) MapLookup {
	m := make(MapLookup, len(pkgs))
	for _, p := range pkgs {
		m[p.Name] = p
	}
	return m
}
