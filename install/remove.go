package install

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Toxikuu/to/pkgmodel"
	"github.com/pkg/errors"
)

// RemoveOptions configures Remove.
type RemoveOptions struct {
	Force            bool
	RemoveCritical   bool
	SuppressMessages bool
}

// Remover removes a package from Roots, deleting only the files unique
// to its manifest relative to every other installed package's manifest.
type Remover struct {
	Roots pkgmodel.Roots
}

// Remove deletes pkg from the live filesystem, guarded by Force,
// RemoveCritical, and the core tag.
func (rm *Remover) Remove(pkg pkgmodel.Package, opts RemoveOptions) error {
	installed, err := rm.Roots.Installed(pkg.Name)
	if err != nil {
		return err
	}
	if !installed && !opts.Force {
		return &NotInstalledError{Name: pkg.Name}
	}
	if pkg.Critical() && !opts.RemoveCritical {
		return &CriticalError{Name: pkg.Name}
	}
	if pkg.Core() && !opts.Force {
		return &CoreError{Name: pkg.Name}
	}

	all, err := AllManifests(rm.Roots.Data)
	if err != nil {
		return err
	}
	target := all[pkg.Name]
	delete(all, pkg.Name)

	var others [][]string
	for _, m := range all {
		others = append(others, m)
	}

	unique := ReversedDeepestFirst(Unique(target, others))
	removeUniquePaths(unique, "")

	if err := os.Remove(rm.Roots.IVFile(pkg.Name)); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "removing IV for %s", pkg.Name)
	}

	if !opts.SuppressMessages {
		displayMessages(rm.Roots.MessageDir(pkg.Name), "remove")
	}
	return nil
}

// deadFileRemoval handles post-update cleanup: files present in the
// pre-update manifest but absent from the new one are removed, scoped to
// this package's own manifest history rather than every installed
// package.
func (inst *Installer) deadFileRemoval(pkg pkgmodel.Package, priorIV pkgmodel.Version, root string) error {
	pkgDataDir := inst.Roots.DataDir(pkg.Name)
	byManifest, err := PackageManifests(pkgDataDir)
	if err != nil {
		return err
	}

	newSR := pkg.Version.SR()
	newManifest := byManifest["MANIFEST@"+newSR]
	oldManifest := byManifest["MANIFEST@"+priorIV.SR()]
	if oldManifest == nil {
		return nil // no prior manifest recorded; nothing to diff against
	}

	dead := ReversedDeepestFirst(Unique(oldManifest, [][]string{newManifest}))
	removeUniquePaths(dead, root)
	return nil
}

// removeUniquePaths removes each path (already "/"-prefixed, deepest
// first) under root, skipping anything on the protected-paths list and
// tolerating already-missing entries.
func removeUniquePaths(paths []string, root string) {
	for _, p := range paths {
		if IsProtected(p) {
			fmt.Fprintf(os.Stderr, "to: refusing to remove protected path %s\n", p)
			continue
		}
		full := filepath.Join(root, p)
		os.Remove(full) // missing entries are ignored
	}
}

// displayMessages prints any install/remove-hook message file found
// under msgDir/<phase>, matching the recipe's optional M/ directory.
func displayMessages(msgDir, phase string) {
	data, err := os.ReadFile(filepath.Join(msgDir, phase))
	if err != nil {
		return
	}
	fmt.Fprint(os.Stdout, string(data))
}
