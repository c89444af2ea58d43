package fs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHashFromNodeDeterministic(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "blob"), []byte("hello world"), 0644); err != nil {
		t.Fatal(err)
	}

	first, err := HashFromNode(filepath.Dir(dir), filepath.Base(dir))
	if err != nil {
		t.Fatal(err)
	}
	second, err := HashFromNode(filepath.Dir(dir), filepath.Base(dir))
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Fatalf("expected repeat hashing of an unchanged tree to match: %q != %q", first, second)
	}
}

func TestHashFromNodeDetectsContentChange(t *testing.T) {
	dir := t.TempDir()
	blob := filepath.Join(dir, "blob")
	if err := os.WriteFile(blob, []byte("hello world"), 0644); err != nil {
		t.Fatal(err)
	}

	before, err := HashFromNode(filepath.Dir(dir), filepath.Base(dir))
	if err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(blob, []byte("goodbye world"), 0644); err != nil {
		t.Fatal(err)
	}

	after, err := HashFromNode(filepath.Dir(dir), filepath.Base(dir))
	if err != nil {
		t.Fatal(err)
	}
	if before == after {
		t.Fatal("expected hash to change after file contents changed")
	}
}

func TestHashFromNodeIgnoresVCSDirs(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "blob"), []byte("hello world"), 0644); err != nil {
		t.Fatal(err)
	}

	before, err := HashFromNode(filepath.Dir(dir), filepath.Base(dir))
	if err != nil {
		t.Fatal(err)
	}

	if err := os.MkdirAll(filepath.Join(dir, ".git", "refs"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".git", "refs", "head"), []byte("whatever"), 0644); err != nil {
		t.Fatal(err)
	}

	after, err := HashFromNode(filepath.Dir(dir), filepath.Base(dir))
	if err != nil {
		t.Fatal(err)
	}
	if before != after {
		t.Fatal("expected .git contents to be excluded from the hash")
	}
}
