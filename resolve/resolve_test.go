package resolve

import (
	"testing"

	"github.com/Toxikuu/to/pkgmodel"
)

// TestCollectChrootDeps models scenario S1: app requires libc, and has a
// build-only dependency on a compiler that itself requires libc and
// binutils. The chroot closure must contain libc, gcc, and binutils, but
// never a Runtime-only dependency, and libc must precede gcc (gcc needs
// libc present to build).
func TestCollectChrootDeps(t *testing.T) {
	app := pkg("app",
		dep("libc", pkgmodel.Required),
		dep("gcc", pkgmodel.Build),
		dep("bash", pkgmodel.Runtime),
	)
	libc := pkg("libc")
	binutils := pkg("binutils")
	gcc := pkg("gcc", dep("libc", pkgmodel.Required), dep("binutils", pkgmodel.Required))
	bash := pkg("bash")

	lookup := NewMapLookup([]pkgmodel.Package{app, libc, binutils, gcc, bash})
	r := New(lookup)

	got, err := r.CollectChrootDeps(app)
	if err != nil {
		t.Fatalf("CollectChrootDeps: %v", err)
	}

	names := namesOf(got)
	want := map[string]bool{"libc": true, "gcc": true, "binutils": true}
	if len(names) != len(want) {
		t.Fatalf("expected %d packages, got %v", len(want), names)
	}
	for _, n := range names {
		if !want[n] {
			t.Fatalf("unexpected package %s in chroot closure: %v", n, names)
		}
	}
	if indexOf(got, "app") != -1 {
		t.Fatalf("app itself must never appear in its own resolution")
	}
	if indexOf(got, "libc") > indexOf(got, "gcc") {
		t.Fatalf("libc must precede gcc: %v", names)
	}
}

// TestCollectInstallDeps models scenario S2: outside a build environment
// only Required and Runtime deps install; inside one, Build deps never
// install and Runtime deps are skipped too.
func TestCollectInstallDeps(t *testing.T) {
	app := pkg("app",
		dep("libc", pkgmodel.Required),
		dep("gcc", pkgmodel.Build),
		dep("bash", pkgmodel.Runtime),
	)
	lookup := NewMapLookup([]pkgmodel.Package{
		app, pkg("libc"), pkg("gcc"), pkg("bash"),
	})
	r := New(lookup)

	outside, err := r.CollectInstallDeps(app, false)
	if err != nil {
		t.Fatalf("CollectInstallDeps(outside): %v", err)
	}
	if indexOf(outside, "gcc") != -1 {
		t.Fatalf("build deps must never install: %v", namesOf(outside))
	}
	if indexOf(outside, "libc") == -1 || indexOf(outside, "bash") == -1 {
		t.Fatalf("expected libc and bash outside a build env: %v", namesOf(outside))
	}

	inside, err := r.CollectInstallDeps(app, true)
	if err != nil {
		t.Fatalf("CollectInstallDeps(inside): %v", err)
	}
	if indexOf(inside, "bash") != -1 {
		t.Fatalf("runtime deps must not install inside a build env: %v", namesOf(inside))
	}
	if indexOf(inside, "libc") == -1 {
		t.Fatalf("expected libc inside a build env: %v", namesOf(inside))
	}
}

func TestDependants(t *testing.T) {
	libc := pkg("libc")
	a := pkg("a", dep("libc", pkgmodel.Required))
	b := pkg("b", dep("libc", pkgmodel.Runtime))
	c := pkg("c")
	universe := []pkgmodel.Package{libc, a, b, c}

	r := New(NewMapLookup(universe))
	got := r.Dependants(libc, universe)

	names := namesOf(got)
	if len(names) != 2 {
		t.Fatalf("expected 2 dependants, got %v", names)
	}
}
