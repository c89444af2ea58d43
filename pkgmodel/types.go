// Package pkgmodel implements the package model and metadata pipeline:
// deserialization of recipes, version semantics, and on-disk layout.
package pkgmodel

// Package is an immutable record materialized from a recipe's metadata
// (the "s" file, or the recipe tool's stdout). Once constructed it is
// never mutated except for DepKind, which the resolver sets transiently
// while walking the dependency graph — it is never persisted.
type Package struct {
	Name       string
	Version    Version
	About      string
	Maintainer string
	Licenses   []string

	// Upstream is the URL consulted for version probing; empty if absent.
	Upstream string
	// VersionFetch is a shell snippet that prints the upstream version to
	// stdout. The literal "no" disables probing entirely.
	VersionFetch string

	Tags         []string
	Sources      []Source
	Dependencies []Dep
	Kcfg         []string

	// DepKind records which kind of edge reached this Package when it was
	// produced by the resolver. It is the zero value (Required) for a
	// Package read directly from a recipe, and is never serialized.
	DepKind DepKind
}

// HasTag reports whether the package carries the given freeform tag.
func (p Package) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Critical reports whether the package is tagged "critical", which gates
// removal.
func (p Package) Critical() bool { return p.HasTag("critical") }

// Core reports whether the package is tagged "core", which also gates
// removal.
func (p Package) Core() bool { return p.HasTag("core") }

// ProbeDisabled reports whether version_fetch is the literal "no",
// disabling upstream version probing.
func (p Package) ProbeDisabled() bool { return p.VersionFetch == "no" }

// DepsOfKind returns the Dep entries of the package matching kind.
func (p Package) DepsOfKind(kind DepKind) []Dep {
	var out []Dep
	for _, d := range p.Dependencies {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}
