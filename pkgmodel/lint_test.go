package pkgmodel

import "testing"

func TestLintCatchesSelfDependency(t *testing.T) {
	p := Package{
		Name:     "zlib",
		About:    "compression library",
		Licenses: []string{"Zlib"},
		Version:  NewVersion("1.3", 1),
		Dependencies: []Dep{
			{Name: "zlib", Kind: Runtime},
		},
	}

	warnings := Lint(p)
	found := false
	for _, w := range warnings {
		if w == "package depends on itself (runtime dependency)" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected self-dependency warning, got %v", warnings)
	}
}

func TestLintCleanPackage(t *testing.T) {
	p := Package{
		Name:     "zlib",
		About:    "compression library",
		Licenses: []string{"Zlib"},
		Version:  NewVersion("1.3", 1),
	}
	if warnings := Lint(p); len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}
}
