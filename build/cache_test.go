package build

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Toxikuu/to/pkgmodel"
)

func TestCacheCarryoverCopiesNewerSubtree(t *testing.T) {
	root := t.TempDir()
	o := NewOverlay(root)

	os.MkdirAll(filepath.Join(o.Upper, "etc", "ssl"), 0o755)
	os.WriteFile(filepath.Join(o.Upper, "etc", "ssl", "ca.pem"), []byte("new"), 0o644)
	os.MkdirAll(filepath.Join(o.Lower, "etc", "ssl"), 0o755)
	old := time.Now().Add(-time.Hour)
	lowerFile := filepath.Join(o.Lower, "etc", "ssl", "ca.pem")
	os.WriteFile(lowerFile, []byte("old"), 0o644)
	os.Chtimes(lowerFile, old, old)

	deps := []pkgmodel.Package{{Name: "ca-certificates"}}
	if err := CacheCarryover(deps, o); err != nil {
		t.Fatalf("CacheCarryover: %v", err)
	}

	data, err := os.ReadFile(lowerFile)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "new" {
		t.Fatalf("expected lower to pick up the newer upper content, got %q", data)
	}
}

func TestCacheCarryoverSkipsUnrelatedDeps(t *testing.T) {
	root := t.TempDir()
	o := NewOverlay(root)
	deps := []pkgmodel.Package{{Name: "zlib"}}

	if err := CacheCarryover(deps, o); err != nil {
		t.Fatalf("CacheCarryover: %v", err)
	}
	if _, err := os.Stat(filepath.Join(o.Lower, "etc", "ssl")); !os.IsNotExist(err) {
		t.Fatalf("expected no carryover for an unrelated dependency")
	}
}

func TestCacheCarryoverNoOpWhenUpperUntouched(t *testing.T) {
	root := t.TempDir()
	o := NewOverlay(root)
	deps := []pkgmodel.Package{{Name: "rust"}}

	if err := CacheCarryover(deps, o); err != nil {
		t.Fatalf("CacheCarryover: %v", err)
	}
}
