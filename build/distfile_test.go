package build

import (
	"archive/tar"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
)

func TestSaveDistfileArchivesAndExcludes(t *testing.T) {
	root := t.TempDir()
	os.MkdirAll(filepath.Join(root, "usr", "bin"), 0o755)
	os.WriteFile(filepath.Join(root, "usr", "bin", "tool"), []byte("binary"), 0o755)
	os.MkdirAll(filepath.Join(root, "usr", "share", "doc"), 0o755)
	os.WriteFile(filepath.Join(root, "usr", "share", "doc", "README"), []byte("docs"), 0o644)

	distPath := filepath.Join(t.TempDir(), "pkg@1.0-1.tar.zst")
	if err := SaveDistfile(root, distPath, []string{"usr/share/doc"}); err != nil {
		t.Fatalf("SaveDistfile: %v", err)
	}

	names := readTarNames(t, distPath)
	if !names["usr/bin/tool"] {
		t.Fatalf("expected usr/bin/tool in archive: %v", names)
	}
	if names["usr/share/doc/README"] {
		t.Fatalf("excluded directory leaked into archive: %v", names)
	}
	if !names["MANIFEST"] {
		t.Fatalf("expected top-level MANIFEST entry in archive: %v", names)
	}
}

func readTarNames(t *testing.T, path string) map[string]bool {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	zr, err := zstd.NewReader(f)
	if err != nil {
		t.Fatalf("zstd reader: %v", err)
	}
	defer zr.Close()

	tr := tar.NewReader(zr)
	names := make(map[string]bool)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("tar read: %v", err)
		}
		names[hdr.Name] = true
	}
	return names
}
