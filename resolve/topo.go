package resolve

import "github.com/Toxikuu/to/pkgmodel"

// topoSort orders every node in g so that a package always appears after
// everything it depends on (a "dependencies first" order, matching the
// direction collect_chroot_deps/collect_install_deps need to feed the
// overlay/installer). Ties are broken by g.order, the sequence in which
// nodes were first discovered, so repeated runs over the same inputs
// produce an identical order.
//
// Kahn's algorithm is used rather than a DFS post-order reversal because
// it only needs edges between two node names inside the graph: root's
// own edges (root isn't a node) are naturally excluded from in-degree
// accounting, and ties fall out of a simple priority scan rather than
// needing a second reversal pass.
//
// g.edges[name] lists name's own dependencies, so a node is ready only
// once every dependency it points to has already been emitted: indegree
// counts each node's unmet dependencies (its out-edges), and emitting a
// dependency decrements the count of every node that depends on it via
// the reverse adjacency built below.
func topoSort(g *graph) []pkgmodel.Package {
	indegree := make(map[string]int, len(g.nodes))
	reverse := make(map[string][]string, len(g.nodes))
	for name := range g.nodes {
		indegree[name] = 0
	}
	for from, deps := range g.edges {
		if _, isNode := g.nodes[from]; !isNode {
			continue // from is the traversal root, not a dependency node
		}
		for _, to := range deps {
			indegree[from]++
			reverse[to] = append(reverse[to], from)
		}
	}

	rank := make(map[string]int, len(g.order))
	for i, name := range g.order {
		if _, ok := rank[name]; !ok {
			rank[name] = i
		}
	}

	var ready []string
	for name, deg := range indegree {
		if deg == 0 {
			ready = append(ready, name)
		}
	}
	sortByRank(ready, rank)

	var out []pkgmodel.Package
	for len(ready) > 0 {
		// Pop the lowest-rank ready node; since ready stays rank-sorted
		// after each insertion, the first element is always next.
		name := ready[0]
		ready = ready[1:]
		out = append(out, g.nodes[name])

		for _, dependant := range reverse[name] {
			indegree[dependant]--
			if indegree[dependant] == 0 {
				ready = insertByRank(ready, dependant, rank)
			}
		}
	}

	return out
}

func sortByRank(names []string, rank map[string]int) {
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && rank[names[j-1]] > rank[names[j]]; j-- {
			names[j-1], names[j] = names[j], names[j-1]
		}
	}
}

func insertByRank(names []string, name string, rank map[string]int) []string {
	i := 0
	for i < len(names) && rank[names[i]] < rank[name] {
		i++
	}
	names = append(names, "")
	copy(names[i+1:], names[i:])
	names[i] = name
	return names
}
