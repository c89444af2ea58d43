package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/Toxikuu/to/pkgmodel"
)

func TestDownloadStrategyFetchesAndRenames(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("payload"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	req := Request{
		Source:  pkgmodel.Source{Kind: pkgmodel.Download, URL: srv.URL, Dest: "out.tar"},
		DestDir: dir,
	}

	if err := (downloadStrategy{}).Fetch(context.Background(), req); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	final := filepath.Join(dir, "out.tar")
	data, err := os.ReadFile(final)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "payload" {
		t.Fatalf("got %q, want payload", data)
	}
	if _, err := os.Stat(final + partSuffix); !os.IsNotExist(err) {
		t.Fatalf(".part file should not survive a successful fetch")
	}
}

func TestDownloadStrategySkipsExisting(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	dir := t.TempDir()
	final := filepath.Join(dir, "out.tar")
	if err := os.WriteFile(final, []byte("already here"), 0o644); err != nil {
		t.Fatal(err)
	}

	req := Request{
		Source:  pkgmodel.Source{Kind: pkgmodel.Download, URL: srv.URL, Dest: "out.tar"},
		DestDir: dir,
	}
	if err := (downloadStrategy{}).Fetch(context.Background(), req); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if called {
		t.Fatalf("expected no request when destination already exists")
	}
}
