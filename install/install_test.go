package install

import (
	"archive/tar"
	"os"
	"path/filepath"
	"testing"

	"github.com/Toxikuu/to/build"
	"github.com/Toxikuu/to/pkgmodel"
)

func tarDirHeader(name string, mode int64) *tar.Header {
	return &tar.Header{Name: name, Typeflag: tar.TypeDir, Mode: mode}
}

func makeDistfile(t *testing.T, distPath string, files map[string]string) {
	t.Helper()
	srcRoot := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(srcRoot, rel)
		os.MkdirAll(filepath.Dir(full), 0o755)
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(distPath), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := build.SaveDistfile(srcRoot, distPath, nil); err != nil {
		t.Fatalf("SaveDistfile: %v", err)
	}
}

func newTestRoots(t *testing.T) pkgmodel.Roots {
	t.Helper()
	base := t.TempDir()
	return pkgmodel.Roots{
		Pkgs:    filepath.Join(base, "pkgs"),
		Data:    filepath.Join(base, "data"),
		Dist:    filepath.Join(base, "dist"),
		Sources: filepath.Join(base, "sources"),
		Chroot:  filepath.Join(base, "chroot"),
		DistSrv: filepath.Join(base, "distsrv"),
	}
}

func TestExtractListsFilesAndSkipsManifest(t *testing.T) {
	roots := newTestRoots(t)
	pkg := pkgmodel.Package{Name: "foo", Version: pkgmodel.NewVersion("1.0", 1)}
	distPath := roots.DistFile(pkg.Name, pkg.Version.SR())
	makeDistfile(t, distPath, map[string]string{
		"usr/bin/foo":    "binary",
		"usr/lib/foo.so": "lib",
	})

	installRoot := t.TempDir()
	lines, err := extract(distPath, installRoot)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 extracted entries, got %v", lines)
	}

	if _, err := os.Stat(filepath.Join(installRoot, "usr", "bin", "foo")); err != nil {
		t.Fatalf("expected usr/bin/foo to be extracted: %v", err)
	}
}

func TestExtractEntryNoOverwriteDir(t *testing.T) {
	installRoot := t.TempDir()
	dirPath := filepath.Join(installRoot, "usr")
	os.MkdirAll(dirPath, 0o700)

	// extractEntry must leave an existing directory's mode alone
	// (no-overwrite-dir) rather than resetting it to the header's mode.
	hdr := tarDirHeader("usr", 0o755)
	if err := extractEntry(nil, hdr, dirPath); err != nil {
		t.Fatalf("extractEntry: %v", err)
	}

	fi, err := os.Stat(dirPath)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if fi.Mode().Perm() != 0o700 {
		t.Fatalf("expected existing directory mode preserved, got %v", fi.Mode().Perm())
	}
}

func TestExtractEntryKeepsDirectorySymlink(t *testing.T) {
	installRoot := t.TempDir()
	real := filepath.Join(installRoot, "real")
	os.MkdirAll(real, 0o755)
	link := filepath.Join(installRoot, "usr")
	if err := os.Symlink(real, link); err != nil {
		t.Fatalf("Symlink: %v", err)
	}

	hdr := tarDirHeader("usr", 0o755)
	if err := extractEntry(nil, hdr, link); err != nil {
		t.Fatalf("extractEntry: %v", err)
	}

	fi, err := os.Lstat(link)
	if err != nil {
		t.Fatalf("Lstat: %v", err)
	}
	if fi.Mode()&os.ModeSymlink == 0 {
		t.Fatalf("expected the directory symlink to survive extraction")
	}
}

func TestInstallWritesManifestAndIV(t *testing.T) {
	roots := newTestRoots(t)
	pkg := pkgmodel.Package{Name: "foo", Version: pkgmodel.NewVersion("1.0", 1)}
	distPath := roots.DistFile(pkg.Name, pkg.Version.SR())
	makeDistfile(t, distPath, map[string]string{"usr/bin/foo": "binary"})

	inst := &Installer{Roots: roots}
	opts := Options{Root: t.TempDir(), SuppressMessages: true}
	if err := inst.installOne(pkg, opts); err != nil {
		t.Fatalf("installOne: %v", err)
	}

	manifestPath := roots.ManifestFile(pkg.Name, pkg.Version.SR())
	lines, err := ReadManifest(manifestPath)
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}
	if len(lines) != 1 || lines[0] != "usr/bin/foo" {
		t.Fatalf("unexpected manifest contents: %v", lines)
	}

	iv, err := os.ReadFile(roots.IVFile(pkg.Name))
	if err != nil {
		t.Fatalf("reading IV: %v", err)
	}
	if string(iv) != pkg.Version.SR()+"\n" {
		t.Fatalf("IV = %q, want %q", iv, pkg.Version.SR()+"\n")
	}
}

func TestInstallOneAlreadyInstalledSameVersion(t *testing.T) {
	roots := newTestRoots(t)
	pkg := pkgmodel.Package{Name: "foo", Version: pkgmodel.NewVersion("1.0", 1)}
	distPath := roots.DistFile(pkg.Name, pkg.Version.SR())
	makeDistfile(t, distPath, map[string]string{"usr/bin/foo": "binary"})

	os.MkdirAll(roots.DataDir(pkg.Name), 0o755)
	os.WriteFile(roots.IVFile(pkg.Name), []byte(pkg.Version.SR()+"\n"), 0o644)

	inst := &Installer{Roots: roots}
	opts := Options{Root: t.TempDir(), SuppressMessages: true}
	err := inst.installOne(pkg, opts)
	if _, ok := err.(*AlreadyInstalledError); !ok {
		t.Fatalf("expected *AlreadyInstalledError, got %v", err)
	}
}

func TestInstallWithVisitedDetectsCycle(t *testing.T) {
	roots := newTestRoots(t)
	inst := &Installer{Roots: roots}
	pkg := pkgmodel.Package{Name: "foo"}
	visited := map[string]bool{"foo": true}

	err := inst.installWithVisited(pkg, false, Options{}, visited)
	if _, ok := err.(*CycleError); !ok {
		t.Fatalf("expected *CycleError, got %v", err)
	}
}
