package resolve

import "github.com/Toxikuu/to/pkgmodel"

// Resolver resolves dependency graphs for packages known to a Lookup.
type Resolver struct {
	lookup Lookup
}

// New returns a Resolver backed by lookup.
func New(lookup Lookup) *Resolver {
	return &Resolver{lookup: lookup}
}

// Resolve returns pkg's dependencies (transitively, following edges
// passing filter), in topological order. pkg itself is never included.
func (r *Resolver) Resolve(pkg pkgmodel.Package, filter KindFilter) ([]pkgmodel.Package, error) {
	g, err := buildGraph(r.lookup, pkg, filter)
	if err != nil {
		return nil, err
	}
	return topoSort(g), nil
}

// CollectChrootDeps computes the closure to copy into the build
// environment: the Required closure, plus pkg's shallow
// Build dependencies not already covered, plus the Required closure of
// each of those, all re-sorted topologically over Required ∪ Build
// edges. Runtime dependencies never appear.
func (r *Resolver) CollectChrootDeps(pkg pkgmodel.Package) ([]pkgmodel.Package, error) {
	required, err := r.Resolve(pkg, OnlyRequired)
	if err != nil {
		return nil, err
	}

	have := make(map[string]bool, len(required))
	for _, p := range required {
		have[p.Name] = true
	}

	var buildRoots []pkgmodel.Package
	for _, d := range pkg.Dependencies {
		if d.Kind != pkgmodel.Build || have[d.Name] || d.Name == pkg.Name {
			continue
		}
		bp, err := r.lookup.Package(d.Name)
		if err != nil {
			return nil, wrapLookupErr(d.Name, err)
		}
		bp.DepKind = pkgmodel.Build
		buildRoots = append(buildRoots, bp)
		have[bp.Name] = true
	}

	for _, bp := range buildRoots {
		req, err := r.Resolve(bp, OnlyRequired)
		if err != nil {
			return nil, err
		}
		for _, p := range req {
			if !have[p.Name] {
				have[p.Name] = true
				required = append(required, p)
			}
		}
	}

	universe := append(append([]pkgmodel.Package{}, required...), buildRoots...)
	return r.reorder(pkg, universe, RequiredAndBuild)
}

// CollectInstallDeps computes the closure required on the target root.
// Inside the build environment only Required dependencies install;
// otherwise Required ∪ Runtime install. Build dependencies are never
// installed onto live roots.
func (r *Resolver) CollectInstallDeps(pkg pkgmodel.Package, inBuildEnv bool) ([]pkgmodel.Package, error) {
	filter := RequiredAndRuntime
	if inBuildEnv {
		filter = OnlyRequired
	}
	return r.Resolve(pkg, filter)
}

// reorder re-sorts a set of already-discovered packages (universe) plus
// pkg into one topological order under filter, using each package's own
// declared dependency list to rebuild edges. This is used by
// CollectChrootDeps because its three-phase union isn't itself produced
// by a single graph traversal.
func (r *Resolver) reorder(pkg pkgmodel.Package, universe []pkgmodel.Package, filter KindFilter) ([]pkgmodel.Package, error) {
	lookup := NewMapLookup(universe)
	lookup[pkg.Name] = pkg

	g := &graph{
		nodes: make(map[string]pkgmodel.Package, len(universe)),
		edges: make(map[string][]string, len(universe)+1),
	}
	for _, p := range universe {
		g.nodes[p.Name] = p
	}

	addEdges := func(p pkgmodel.Package) {
		seen := make(map[string]bool)
		var filtered []string
		for _, d := range p.Dependencies {
			if !filter(d.Kind) || d.Name == p.Name || seen[d.Name] {
				continue
			}
			if _, ok := g.nodes[d.Name]; !ok {
				continue // not part of this universe; ignore for reordering
			}
			seen[d.Name] = true
			filtered = append(filtered, d.Name)
		}
		g.edges[p.Name] = filtered
	}

	addEdges(pkg)
	for _, p := range universe {
		addEdges(p)
		g.order = append(g.order, p.Name)
	}

	return topoSort(g), nil
}

// Dependants returns every package in universe whose shallow dependency
// list names pkg, regardless of edge kind.
func (r *Resolver) Dependants(pkg pkgmodel.Package, universe []pkgmodel.Package) []pkgmodel.Package {
	var out []pkgmodel.Package
	for _, p := range universe {
		for _, d := range p.Dependencies {
			if d.Name == pkg.Name {
				out = append(out, p)
				break
			}
		}
	}
	return out
}
