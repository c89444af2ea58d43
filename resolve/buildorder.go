package resolve

import "github.com/Toxikuu/to/pkgmodel"

// BuildOrder computes a global build order across packages for a batch
// "build everything" run. It is an iterative fixed point:
// repeatedly scan the remaining set and move any package whose Build- and
// Required-edge dependencies (restricted to this same universe) are
// already in the order. An iteration that makes no progress is a fatal
// error naming the stuck set and a representative cycle among them.
//
// Rather than a single DFS over the whole universe (which would need
// every package's transitive closure resolved up front, including
// packages outside the universe), BuildOrder only ever looks at edges
// whose target is also present in the batch, so a partial universe (a
// subset of the full recipe tree) still produces a valid order for
// itself.
func BuildOrder(packages []pkgmodel.Package) ([]pkgmodel.Package, error) {
	byName := make(map[string]pkgmodel.Package, len(packages))
	for _, p := range packages {
		byName[p.Name] = p
	}

	placed := make(map[string]bool, len(packages))
	remaining := append([]pkgmodel.Package{}, packages...)
	order := make([]pkgmodel.Package, 0, len(packages))

	for len(remaining) > 0 {
		var next []pkgmodel.Package
		progressed := false

		for _, p := range remaining {
			if ready(p, byName, placed) {
				order = append(order, p)
				placed[p.Name] = true
				progressed = true
			} else {
				next = append(next, p)
			}
		}

		if !progressed {
			return nil, stuckError(next, byName)
		}
		remaining = next
	}

	return order, nil
}

func ready(p pkgmodel.Package, byName map[string]pkgmodel.Package, placed map[string]bool) bool {
	for _, d := range p.Dependencies {
		if d.Kind != pkgmodel.Required && d.Kind != pkgmodel.Build {
			continue
		}
		if _, inUniverse := byName[d.Name]; !inUniverse {
			continue // outside this batch; not this call's concern
		}
		if !placed[d.Name] {
			return false
		}
	}
	return true
}

func stuckError(stuck []pkgmodel.Package, byName map[string]pkgmodel.Package) error {
	names := make([]string, len(stuck))
	for i, p := range stuck {
		names[i] = p.Name
	}

	cycle := findCycle(stuck, byName)
	return &StuckError{Remaining: names, Cycle: cycle}
}

// findCycle looks for an actual cycle among the stuck packages, using
// only Required/Build edges restricted to the stuck set, for a concrete
// diagnostic rather than just the stuck name list.
func findCycle(stuck []pkgmodel.Package, byName map[string]pkgmodel.Package) []string {
	inStuck := make(map[string]bool, len(stuck))
	for _, p := range stuck {
		inStuck[p.Name] = true
	}

	color := make(map[string]int)
	var stack []string
	var cycle []string

	var visit func(name string) bool
	visit = func(name string) bool {
		color[name] = 1
		stack = append(stack, name)

		p := byName[name]
		for _, d := range p.Dependencies {
			if (d.Kind != pkgmodel.Required && d.Kind != pkgmodel.Build) || !inStuck[d.Name] {
				continue
			}
			switch color[d.Name] {
			case 1:
				cycle = append(append([]string{}, stack...), d.Name)
				return true
			case 2:
				continue
			default:
				if visit(d.Name) {
					return true
				}
			}
		}

		color[name] = 2
		stack = stack[:len(stack)-1]
		return false
	}

	for _, p := range stuck {
		if color[p.Name] == 0 && visit(p.Name) {
			return cycle
		}
	}
	return nil
}
