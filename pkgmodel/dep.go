package pkgmodel

import "strings"

// DepKind classifies a dependency edge. The resolver (package resolve)
// traverses edges selectively by kind.
type DepKind uint8

const (
	// Required dependencies are needed both to build and to run a package.
	Required DepKind = iota
	// Runtime dependencies are needed only at run time.
	Runtime
	// Build dependencies are needed only to build a package, never installed
	// onto a live root.
	Build
)

func (k DepKind) String() string {
	switch k {
	case Runtime:
		return "runtime"
	case Build:
		return "build"
	default:
		return "required"
	}
}

// Dep is one entry in a Package's dependency list.
type Dep struct {
	Name string
	Kind DepKind
}

// ParseDep parses one dependency list entry. "b,foo" is a Build
// dependency, "r,foo" is a Runtime dependency; anything else is Required.
func ParseDep(s string) Dep {
	switch {
	case strings.HasPrefix(s, "b,"):
		return Dep{Name: s[2:], Kind: Build}
	case strings.HasPrefix(s, "r,"):
		return Dep{Name: s[2:], Kind: Runtime}
	default:
		return Dep{Name: s, Kind: Required}
	}
}

// String renders the Dep back into its recipe-list form.
func (d Dep) String() string {
	switch d.Kind {
	case Build:
		return "b," + d.Name
	case Runtime:
		return "r," + d.Name
	default:
		return d.Name
	}
}
