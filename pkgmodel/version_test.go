package pkgmodel

import "testing"

func TestVersionSR(t *testing.T) {
	v := NewVersion("1.2.3", 4)
	if got, want := v.SR(), "1.2.3-4"; got != want {
		t.Fatalf("SR() = %q, want %q", got, want)
	}
}

func TestNewVersionDefaultsRelease(t *testing.T) {
	v := NewVersion("1.2.3", 0)
	if v.Release != 1 {
		t.Fatalf("Release = %d, want 1", v.Release)
	}
}

func TestParseSR(t *testing.T) {
	v, err := ParseSR("2024.01.01-3")
	if err != nil {
		t.Fatal(err)
	}
	if v.String != "2024.01.01" || v.Release != 3 {
		t.Fatalf("got %+v", v)
	}
}

func TestParseSRMalformed(t *testing.T) {
	if _, err := ParseSR("no-separator-here-but-no-digits"); err == nil {
		t.Fatal("expected error for non-numeric release")
	}
	if _, err := ParseSR("noseparator"); err == nil {
		t.Fatal("expected error for missing separator")
	}
}

func TestIsCommitHash(t *testing.T) {
	hash := "a94a8fe5ccb19ba61c4c0873d391e987982fbbd3"
	v := NewVersion(hash, 1)
	if !v.IsCommitHash() {
		t.Fatalf("%q should be recognized as a commit hash", hash)
	}
	if got, want := v.Short(), "a94a8fe5"; got != want {
		t.Fatalf("Short() = %q, want %q", got, want)
	}

	v2 := NewVersion("1.2.3", 1)
	if v2.IsCommitHash() {
		t.Fatal("1.2.3 should not be recognized as a commit hash")
	}
}

func TestVersionCompareSemver(t *testing.T) {
	a := NewVersion("1.2.0", 1)
	b := NewVersion("1.10.0", 1)
	if a.Compare(b) >= 0 {
		t.Fatalf("expected 1.2.0 < 1.10.0 under semver ordering")
	}
}

func TestVersionCompareRelease(t *testing.T) {
	a := NewVersion("1.2.3", 1)
	b := NewVersion("1.2.3", 2)
	if a.Compare(b) >= 0 {
		t.Fatalf("expected same version, lower release to compare less")
	}
	if !a.Equal(NewVersion("1.2.3", 1)) {
		t.Fatal("expected equal versions to compare equal")
	}
}

func TestVersionCompareDatever(t *testing.T) {
	a := NewVersion("20240101", 1)
	b := NewVersion("20240202", 1)
	if a.Compare(b) >= 0 {
		t.Fatalf("expected datever 20240101 < 20240202")
	}
}
