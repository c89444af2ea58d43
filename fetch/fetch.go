// Package fetch implements the source fetcher: for each
// declared Source it ensures the recorded destination exists under a
// package's sources directory, using one of three strategies keyed by
// SourceKind.
package fetch

import (
	"context"

	"github.com/Toxikuu/to/pkgmodel"
)

// Request bundles a Source with the context a strategy needs beyond the
// source itself: the owning package's version (the Git strategy's
// default checkout ref) and the destination directory.
type Request struct {
	Source  pkgmodel.Source
	Ref     string // owning package's version_string; Git's default checkout target
	DestDir string
}

// Strategy fetches a single Request's source into req.DestDir, named by
// req.Source.Dest relative to it.
type Strategy interface {
	Fetch(ctx context.Context, req Request) error
}

// Fetcher dispatches each Source to its strategy and runs before any
// overlay setup; fetching is idempotent.
type Fetcher struct {
	download Strategy
	git      Strategy
	pkg      Strategy
}

// New builds a Fetcher. sourcesRoot is used by the Pkg strategy to locate
// another package's already-fetched sources.
func New(sourcesRoot string) *Fetcher {
	return &Fetcher{
		download: downloadStrategy{},
		git:      gitStrategy{},
		pkg:      pkgStrategy{sourcesRoot: sourcesRoot},
	}
}

// FetchAll ensures every source of pkg is present in destDir.
func (f *Fetcher) FetchAll(ctx context.Context, pkg pkgmodel.Package, destDir string) error {
	for _, src := range pkg.Sources {
		req := Request{Source: src, Ref: pkg.Version.String, DestDir: destDir}
		if err := f.Fetch(ctx, req); err != nil {
			return err
		}
	}
	return nil
}

// Fetch dispatches a single request to its strategy.
func (f *Fetcher) Fetch(ctx context.Context, req Request) error {
	switch req.Source.Kind {
	case pkgmodel.Download:
		return f.download.Fetch(ctx, req)
	case pkgmodel.Git:
		return f.git.Fetch(ctx, req)
	case pkgmodel.Pkg:
		return f.pkg.Fetch(ctx, req)
	default:
		return &UnknownSourceKindError{Kind: req.Source.Kind}
	}
}

// UnknownSourceKindError is returned when a Source carries a SourceKind
// this fetcher has no strategy for.
type UnknownSourceKindError struct {
	Kind pkgmodel.SourceKind
}

func (e *UnknownSourceKindError) Error() string {
	return "fetch: unknown source kind: " + e.Kind.String()
}
