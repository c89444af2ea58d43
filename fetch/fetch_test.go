package fetch

import (
	"context"
	"testing"

	"github.com/Toxikuu/to/pkgmodel"
)

func TestFetchRejectsUnknownKind(t *testing.T) {
	f := New(t.TempDir())
	req := Request{Source: pkgmodel.Source{Kind: pkgmodel.SourceKind(99), URL: "x", Dest: "y"}, DestDir: t.TempDir()}

	err := f.Fetch(context.Background(), req)
	if err == nil {
		t.Fatalf("expected an error for an unknown source kind")
	}
	if _, ok := err.(*UnknownSourceKindError); !ok {
		t.Fatalf("expected *UnknownSourceKindError, got %T", err)
	}
}
