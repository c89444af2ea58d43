// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRenameWithFallback(t *testing.T) {
	dir := t.TempDir()

	if err := RenameWithFallback(filepath.Join(dir, "does_not_exist"), filepath.Join(dir, "dst")); err == nil {
		t.Fatal("expected an error for non existing file, but got nil")
	}

	srcpath := filepath.Join(dir, "src")
	if srcf, err := os.Create(srcpath); err != nil {
		t.Fatal(err)
	} else {
		srcf.Close()
	}

	if err := RenameWithFallback(srcpath, filepath.Join(dir, "dst")); err != nil {
		t.Fatal(err)
	}

	srcpath = filepath.Join(dir, "a")
	if err := os.MkdirAll(srcpath, 0777); err != nil {
		t.Fatal(err)
	}

	dstpath := filepath.Join(dir, "b")
	if err := os.MkdirAll(dstpath, 0777); err != nil {
		t.Fatal(err)
	}

	if err := RenameWithFallback(srcpath, dstpath); err == nil {
		t.Fatal("expected an error if dst is an existing directory, but got nil")
	}
}

func TestCopyDir(t *testing.T) {
	dir := t.TempDir()

	srcdir := filepath.Join(dir, "src")
	if err := os.MkdirAll(srcdir, 0755); err != nil {
		t.Fatal(err)
	}

	files := []struct {
		path     string
		contents string
	}{
		{path: "myfile", contents: "hello world"},
		{path: filepath.Join("subdir", "file"), contents: "subdir file"},
	}

	for _, file := range files {
		fn := filepath.Join(srcdir, file.path)
		if err := os.MkdirAll(filepath.Dir(fn), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(fn, []byte(file.contents), 0644); err != nil {
			t.Fatal(err)
		}
	}

	destdir := filepath.Join(dir, "dest")
	if err := CopyDir(srcdir, destdir); err != nil {
		t.Fatal(err)
	}

	for _, file := range files {
		fn := filepath.Join(destdir, file.path)
		got, err := os.ReadFile(fn)
		if err != nil {
			t.Fatal(err)
		}
		if file.contents != string(got) {
			t.Fatalf("expected: %s, got: %s", file.contents, string(got))
		}
	}
}

func TestCopyDirFail_SrcIsNotDir(t *testing.T) {
	dir := t.TempDir()

	srcdir := filepath.Join(dir, "src")
	if _, err := os.Create(srcdir); err != nil {
		t.Fatal(err)
	}
	dstdir := filepath.Join(dir, "dst")

	err := CopyDir(srcdir, dstdir)
	if err != errSrcNotDir {
		t.Fatalf("expected %v error for CopyDir(%s, %s), got %v", errSrcNotDir, srcdir, dstdir, err)
	}
}

func TestCopyDirFail_DstExists(t *testing.T) {
	dir := t.TempDir()

	srcdir := filepath.Join(dir, "src")
	if err := os.MkdirAll(srcdir, 0755); err != nil {
		t.Fatal(err)
	}
	dstdir := filepath.Join(dir, "dst")
	if err := os.MkdirAll(dstdir, 0755); err != nil {
		t.Fatal(err)
	}

	err := CopyDir(srcdir, dstdir)
	if err != errDstExist {
		t.Fatalf("expected %v error for CopyDir(%s, %s), got %v", errDstExist, srcdir, dstdir, err)
	}
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()

	srcPath := filepath.Join(dir, "srcfile")
	want := "hello world"
	if err := os.WriteFile(srcPath, []byte(want), 0644); err != nil {
		t.Fatal(err)
	}

	destPath := filepath.Join(dir, "destf")
	if err := copyFile(srcPath, destPath); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(destPath)
	if err != nil {
		t.Fatal(err)
	}
	if want != string(got) {
		t.Fatalf("expected: %s, got: %s", want, string(got))
	}
}

func TestCopyFileSymlink(t *testing.T) {
	dir := t.TempDir()

	srcPath := filepath.Join(dir, "src")
	symlinkPath := filepath.Join(dir, "symlink")
	dstPath := filepath.Join(dir, "dst")

	srcf, err := os.Create(srcPath)
	if err != nil {
		t.Fatal(err)
	}
	srcf.Close()

	if err := os.Symlink(srcPath, symlinkPath); err != nil {
		t.Fatalf("could not create symlink: %s", err)
	}
	if err := copyFile(symlinkPath, dstPath); err != nil {
		t.Fatalf("failed to copy symlink: %s", err)
	}

	resolvedPath, err := os.Readlink(dstPath)
	if err != nil {
		t.Fatalf("could not resolve symlink: %s", err)
	}
	if resolvedPath != srcPath {
		t.Fatalf("resolved path is incorrect. expected %s, got %s", srcPath, resolvedPath)
	}
}

func TestIsRegular(t *testing.T) {
	dir := t.TempDir()

	regular := filepath.Join(dir, "file")
	if err := os.WriteFile(regular, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := map[string]struct {
		want bool
		err  bool
	}{
		dir:     {false, true},
		regular: {true, false},
		filepath.Join(dir, "missing"): {false, false},
	}

	for f, want := range tests {
		got, err := IsRegular(f)
		if (err != nil) != want.err {
			t.Fatalf("IsRegular(%s): expected err=%v, got %v", f, want.err, err)
		}
		if got != want.want {
			t.Fatalf("IsRegular(%s): expected %t, got %t", f, want.want, got)
		}
	}
}

func TestIsDir(t *testing.T) {
	dir := t.TempDir()

	regular := filepath.Join(dir, "file")
	if err := os.WriteFile(regular, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if ok, err := IsDir(dir); err != nil || !ok {
		t.Fatalf("expected %s to be a directory, got %t, %v", dir, ok, err)
	}
	if ok, _ := IsDir(regular); ok {
		t.Fatalf("expected %s not to be a directory", regular)
	}
	if _, err := IsDir(filepath.Join(dir, "missing")); err == nil {
		t.Fatal("expected an error for a missing path")
	}
}

func TestIsNonEmptyDir(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty")
	if err := os.Mkdir(empty, 0755); err != nil {
		t.Fatal(err)
	}

	nonEmpty := filepath.Join(dir, "full")
	if err := os.Mkdir(nonEmpty, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(nonEmpty, "file"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	regular := filepath.Join(dir, "file")
	if err := os.WriteFile(regular, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	testCases := []struct {
		path string
		want bool
		err  bool
	}{
		{empty, false, false},
		{nonEmpty, true, false},
		{regular, false, false},
		{filepath.Join(dir, "missing"), false, false},
	}

	for _, tc := range testCases {
		got, err := IsNonEmptyDir(tc.path)
		if (err != nil) != tc.err {
			t.Fatalf("IsNonEmptyDir(%s): expected err=%v, got %v", tc.path, tc.err, err)
		}
		if got != tc.want {
			t.Fatalf("IsNonEmptyDir(%s): expected %t, got %t", tc.path, tc.want, got)
		}
	}
}

func TestIsSymlink(t *testing.T) {
	dir := t.TempDir()

	target := filepath.Join(dir, "target")
	if err := os.WriteFile(target, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(dir, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Fatal(err)
	}

	if ok, err := IsSymlink(link); err != nil || !ok {
		t.Fatalf("expected %s to be a symlink, got %t, %v", link, ok, err)
	}
	if ok, err := IsSymlink(target); err != nil || ok {
		t.Fatalf("expected %s not to be a symlink, got %t, %v", target, ok, err)
	}
}
