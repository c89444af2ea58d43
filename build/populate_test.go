package build

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReplicateAliasCreatesSymlink(t *testing.T) {
	dir := t.TempDir()
	aliases := map[string]string{"python": "python3"}

	if err := replicateAlias(aliases, "python3", dir); err != nil {
		t.Fatalf("replicateAlias: %v", err)
	}

	link := filepath.Join(dir, "python")
	target, err := os.Readlink(link)
	if err != nil {
		t.Fatalf("Readlink: %v", err)
	}
	if target != "python3" {
		t.Fatalf("got target %q, want python3", target)
	}
}

func TestReplicateAliasIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	link := filepath.Join(dir, "python")
	if err := os.Symlink("python3", link); err != nil {
		t.Fatal(err)
	}
	fi, err := os.Lstat(link)
	if err != nil {
		t.Fatal(err)
	}

	aliases := map[string]string{"python": "python3"}
	if err := replicateAlias(aliases, "python3", dir); err != nil {
		t.Fatalf("replicateAlias: %v", err)
	}

	fi2, err := os.Lstat(link)
	if err != nil {
		t.Fatal(err)
	}
	if fi.ModTime() != fi2.ModTime() {
		t.Fatalf("existing correct symlink should be left alone")
	}
}

func TestReplicateAliasIgnoresUnrelatedAliases(t *testing.T) {
	dir := t.TempDir()
	aliases := map[string]string{"python": "python3"}

	if err := replicateAlias(aliases, "gcc", dir); err != nil {
		t.Fatalf("replicateAlias: %v", err)
	}
	if _, err := os.Lstat(filepath.Join(dir, "python")); !os.IsNotExist(err) {
		t.Fatalf("expected no symlink created for an unrelated package")
	}
}
