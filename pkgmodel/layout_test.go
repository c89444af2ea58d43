package pkgmodel

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRootsPaths(t *testing.T) {
	r := Roots{Pkgs: "/pkgs", Data: "/data", Dist: "/dist", Sources: "/src", Chroot: "/chroot", DistSrv: "/srv"}

	if got, want := r.PkgFile("dbus"), filepath.Join("/pkgs", "dbus", "pkg"); got != want {
		t.Errorf("PkgFile = %q, want %q", got, want)
	}
	if got, want := r.DistFile("dbus", "1.14.0-2"), filepath.Join("/dist", "dbus", "dbus@1.14.0-2.tar.zst"); got != want {
		t.Errorf("DistFile = %q, want %q", got, want)
	}
	if got, want := r.ManifestFile("dbus", "1.14.0-2"), filepath.Join("/data", "dbus", "MANIFEST@1.14.0-2"); got != want {
		t.Errorf("ManifestFile = %q, want %q", got, want)
	}
}

func TestInstalledLifecycle(t *testing.T) {
	dir := t.TempDir()
	r := Roots{Data: dir}

	installed, err := r.Installed("foo")
	if err != nil {
		t.Fatal(err)
	}
	if installed {
		t.Fatal("expected not installed before IV exists")
	}

	if err := os.MkdirAll(r.DataDir("foo"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(r.IVFile("foo"), []byte("1.14.0-2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	installed, err = r.Installed("foo")
	if err != nil {
		t.Fatal(err)
	}
	if !installed {
		t.Fatal("expected installed after IV written")
	}

	v, err := r.InstalledVersion("foo")
	if err != nil {
		t.Fatal(err)
	}
	if v.String != "1.14.0" || v.Release != 2 {
		t.Fatalf("InstalledVersion = %+v", v)
	}
}

func TestScanAliases(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "openssl"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(dir, "openssl"), filepath.Join(dir, "libssl")); err != nil {
		t.Fatal(err)
	}
	// A dangling symlink must be skipped, not error the whole scan.
	if err := os.Symlink(filepath.Join(dir, "does-not-exist"), filepath.Join(dir, "dangling")); err != nil {
		t.Fatal(err)
	}

	aliases, err := ScanAliases(dir)
	if err != nil {
		t.Fatal(err)
	}
	if aliases["libssl"] != "openssl" {
		t.Fatalf("aliases = %v, want libssl -> openssl", aliases)
	}
	if _, ok := aliases["dangling"]; ok {
		t.Fatal("dangling symlink should not appear in aliases")
	}
}
