package resolve

import "github.com/Toxikuu/to/pkgmodel"

// KindFilter selects which dependency edges a traversal follows.
type KindFilter func(pkgmodel.DepKind) bool

// OnlyRequired follows only Required edges.
func OnlyRequired(k pkgmodel.DepKind) bool { return k == pkgmodel.Required }

// RequiredAndRuntime follows Required and Runtime edges (the install
// closure outside a build environment).
func RequiredAndRuntime(k pkgmodel.DepKind) bool {
	return k == pkgmodel.Required || k == pkgmodel.Runtime
}

// RequiredAndBuild follows Required and Build edges (the chroot closure).
func RequiredAndBuild(k pkgmodel.DepKind) bool {
	return k == pkgmodel.Required || k == pkgmodel.Build
}

// AnyKind follows every edge.
func AnyKind(pkgmodel.DepKind) bool { return true }

// graph is the discovered subgraph reachable from a root package through
// edges passing a KindFilter. Node identity is the package name; nodes collapse to one entry
// per name even if reached through more than one DepKind.
type graph struct {
	nodes map[string]pkgmodel.Package
	// edges[name] is the filtered dependency list of that node, in the
	// order declared by the recipe.
	edges map[string][]string
	// order is the order in which each node name was first enqueued
	// during discovery (DFS pre-order over declared dependencies), used as the tie-break
	// for topo-sorting.
	order []string
}

// buildGraph discovers every package reachable from root through edges
// matching filter, detecting cycles along the way. root itself is never
// added as a node.
//
// Nodes and edges are kept in name-keyed maps; this is a plain
// reachability+cycle pass since this resolver names packages directly
// rather than solving among version alternatives.
func buildGraph(lookup Lookup, root pkgmodel.Package, filter KindFilter) (*graph, error) {
	g := &graph{
		nodes: make(map[string]pkgmodel.Package),
		edges: make(map[string][]string),
	}

	// color: 0 = unvisited, 1 = on the current DFS stack, 2 = finished.
	color := make(map[string]int)
	var stack []string

	var visit func(pkg pkgmodel.Package) error
	visit = func(pkg pkgmodel.Package) error {
		color[pkg.Name] = 1
		stack = append(stack, pkg.Name)

		seen := make(map[string]bool)
		var filtered []string
		for _, d := range pkg.Dependencies {
			if !filter(d.Kind) || d.Name == pkg.Name || seen[d.Name] {
				continue
			}
			seen[d.Name] = true
			filtered = append(filtered, d.Name)

			switch color[d.Name] {
			case 1:
				return &CycleError{Node: d.Name, Cycle: append(append([]string{}, stack...), d.Name)}
			case 2:
				continue
			default:
				depPkg, err := lookup.Package(d.Name)
				if err != nil {
					return wrapLookupErr(d.Name, err)
				}
				depPkg.DepKind = d.Kind
				g.nodes[d.Name] = depPkg
				g.order = append(g.order, d.Name)
				if err := visit(depPkg); err != nil {
					return err
				}
			}
		}
		g.edges[pkg.Name] = filtered

		color[pkg.Name] = 2
		stack = stack[:len(stack)-1]
		return nil
	}

	if err := visit(root); err != nil {
		return nil, err
	}

	return g, nil
}
