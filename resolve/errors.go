// Package resolve implements the dependency resolver: a kind-aware graph
// over Packages, topological ordering, filtered traversals, cycle
// detection, and the multi-phase dependency closures the build
// orchestrator and installer need.
package resolve

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// MissingRecipeError is returned when a dependency names a package the
// Lookup cannot produce.
type MissingRecipeError struct {
	Name string
}

func (e *MissingRecipeError) Error() string {
	return fmt.Sprintf("missing recipe: %s", e.Name)
}

// MalformedRecipeError wraps a Lookup failure that isn't a simple
// not-found (a serde/JSON failure reading the recipe's "s" file).
type MalformedRecipeError struct {
	Name string
	Err  error
}

func (e *MalformedRecipeError) Error() string {
	return fmt.Sprintf("malformed recipe %s: %s", e.Name, e.Err)
}

func (e *MalformedRecipeError) Unwrap() error { return e.Err }

// CycleError is fatal: it names one package on the discovered cycle plus
// the full cycle path for diagnostics.
type CycleError struct {
	Node  string
	Cycle []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected at %s: %s", e.Node, strings.Join(e.Cycle, " -> "))
}

// StuckError is fatal: reported by BuildOrder when an iteration makes no
// progress, naming the packages it could not place and one representative
// cycle among them.
type StuckError struct {
	Remaining []string
	Cycle     []string
}

func (e *StuckError) Error() string {
	return fmt.Sprintf("build order stuck on %s; representative cycle: %s",
		strings.Join(e.Remaining, ", "), strings.Join(e.Cycle, " -> "))
}

// wrapLookupErr normalizes whatever a Lookup returns into either a
// MissingRecipeError or a MalformedRecipeError, so callers can use
// errors.As uniformly regardless of what the underlying store does.
func wrapLookupErr(name string, err error) error {
	if err == nil {
		return nil
	}
	var mre *MissingRecipeError
	if errors.As(err, &mre) {
		return err
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return &MissingRecipeError{Name: name}
	}
	return &MalformedRecipeError{Name: name, Err: err}
}

// ErrNotFound is the sentinel a Lookup implementation should wrap when a
// package name has no recipe.
var ErrNotFound = errors.New("recipe not found")
