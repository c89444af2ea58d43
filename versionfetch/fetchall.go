package versionfetch

import (
	"context"

	"github.com/Toxikuu/to/pkgmodel"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentProbes bounds how many upstream probes run at once, since
// each spawns a subprocess and an unbounded fan-out over a large package
// set would exhaust file descriptors / process slots.
const maxConcurrentProbes = 16

// Outcome pairs a package name with its probe result; Err is one of
// ErrDisabled, a probe failure, or nil on success. A failure for one
// package never aborts the others.
type Outcome struct {
	Name   string
	Result *Result
	Err    error
}

// FetchAll probes every package in pkgs concurrently, each as an
// independent task, and returns one Outcome per package regardless of
// individual failures.
func FetchAll(ctx context.Context, roots pkgmodel.Roots, pkgs []pkgmodel.Package, ignoreCache bool) []Outcome {
	outcomes := make([]Outcome, len(pkgs))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(maxConcurrentProbes)

	for i, pkg := range pkgs {
		i, pkg := i, pkg
		eg.Go(func() error {
			result, err := Fetch(ctx, roots, pkg, ignoreCache)
			outcomes[i] = Outcome{Name: pkg.Name, Result: result, Err: err} // disjoint index per goroutine
			return nil                                                     // per-package errors are reported, not propagated
		})
	}
	eg.Wait()

	return outcomes
}
