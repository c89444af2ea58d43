package pkgmodel

import "os"

// RootsLookup satisfies resolve.Lookup (structurally — pkgmodel does not
// import resolve) by reading each named package's "s" file from Roots on
// demand. This is the "production caller... reading from the recipe
// root" the resolver package's doc comment describes; batch callers that
// already have every candidate materialized use resolve.MapLookup
// instead.
type RootsLookup struct {
	Roots Roots
}

// Package reads and parses name's "s" file.
func (l RootsLookup) Package(name string) (Package, error) {
	data, err := os.ReadFile(l.Roots.SFile(name))
	if err != nil {
		return Package{}, err
	}
	var p Package
	if err := p.UnmarshalJSON(data); err != nil {
		return Package{}, err
	}
	return p, nil
}

// FromSFile loads and parses a single package's "s" file, resolving
// aliases first so a symlinked recipe name is read as its target.
func FromSFile(roots Roots, name string) (Package, error) {
	if target, ok := resolveAlias(roots, name); ok {
		name = target
	}
	return RootsLookup{Roots: roots}.Package(name)
}

func resolveAlias(roots Roots, name string) (string, bool) {
	aliases, err := ScanAliases(roots.Pkgs)
	if err != nil {
		return "", false
	}
	target, ok := aliases[name]
	return target, ok
}
