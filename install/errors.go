// Package install implements the installer and remover:
// distfile extraction, manifest bookkeeping, dead-file removal, and the
// guarded remove path with its protected-path list.
package install

import "fmt"

// AlreadyInstalledError is a soft result, not a failure: the caller
// suppresses it for already-satisfied dependencies.
type AlreadyInstalledError struct {
	Name string
}

func (e *AlreadyInstalledError) Error() string {
	return fmt.Sprintf("%s: already installed", e.Name)
}

// NotInstalledError guards Remove against packages with no IV marker.
type NotInstalledError struct {
	Name string
}

func (e *NotInstalledError) Error() string { return fmt.Sprintf("%s: not installed", e.Name) }

// CriticalError guards Remove against tagged-critical packages.
type CriticalError struct {
	Name string
}

func (e *CriticalError) Error() string {
	return fmt.Sprintf("%s: tagged critical, refusing to remove", e.Name)
}

// CoreError guards Remove against tagged-core packages.
type CoreError struct {
	Name string
}

func (e *CoreError) Error() string {
	return fmt.Sprintf("%s: tagged core, refusing to remove without force", e.Name)
}

// CycleError is returned when the install closure's recursive resolution
// revisits a package already on the current visited stack.
type CycleError struct {
	Name string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("install cycle detected at %s", e.Name)
}
