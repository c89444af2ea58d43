package pkgmodel

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/karrick/godirwalk"
	"github.com/pkg/errors"
)

// Roots holds the configured on-disk roots. All path
// helpers below are pure string construction; only Installed,
// InstalledVersion, ScanAliases and ScanRecipes touch the filesystem.
type Roots struct {
	Pkgs    string
	Data    string
	Dist    string
	Sources string
	Chroot  string
	DistSrv string
}

// RecipeDir is <pkgs-root>/<name>.
func (r Roots) RecipeDir(name string) string { return filepath.Join(r.Pkgs, name) }

// PkgFile is the recipe's build script.
func (r Roots) PkgFile(name string) string { return filepath.Join(r.RecipeDir(name), "pkg") }

// SFile is the recipe's serialized metadata.
func (r Roots) SFile(name string) string { return filepath.Join(r.RecipeDir(name), "s") }

// AuxDir is the recipe's optional auxiliary file directory.
func (r Roots) AuxDir(name string) string { return filepath.Join(r.RecipeDir(name), "A") }

// MessageDir is the recipe's optional install/remove message directory.
func (r Roots) MessageDir(name string) string { return filepath.Join(r.RecipeDir(name), "M") }

// DataDir is <data-root>/<name>.
func (r Roots) DataDir(name string) string { return filepath.Join(r.Data, name) }

// IVFile is the installed-version marker file.
func (r Roots) IVFile(name string) string { return filepath.Join(r.DataDir(name), "IV") }

// VFFile is the version-fetch cache file.
func (r Roots) VFFile(name string) string { return filepath.Join(r.DataDir(name), "vf") }

// ManifestFile is the manifest recorded for a single installed sr-version.
func (r Roots) ManifestFile(name, sr string) string {
	return filepath.Join(r.DataDir(name), "MANIFEST@"+sr)
}

// ManifestGlob matches every manifest file recorded for name.
func (r Roots) ManifestGlob(name string) string {
	return filepath.Join(r.DataDir(name), "MANIFEST@*")
}

// DistDir is <dist-root>/<name>.
func (r Roots) DistDir(name string) string { return filepath.Join(r.Dist, name) }

// DistFile is the zstd-compressed tar artifact for one sr-version.
func (r Roots) DistFile(name, sr string) string {
	return filepath.Join(r.DistDir(name), fmt.Sprintf("%s@%s.tar.zst", name, sr))
}

// SourceDir is <sources-root>/<name>.
func (r Roots) SourceDir(name string) string { return filepath.Join(r.Sources, name) }

// SourcePath is the cached location of one fetched source's dest file.
func (r Roots) SourcePath(name, dest string) string {
	return filepath.Join(r.SourceDir(name), dest)
}

// Installed reports whether name's IV file exists.
func (r Roots) Installed(name string) (bool, error) {
	_, err := os.Stat(r.IVFile(name))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Wrapf(err, "statting IV for %s", name)
}

// InstalledVersion reads and parses the IV file. It returns an error
// wrapping os.ErrNotExist if the package is not installed.
func (r Roots) InstalledVersion(name string) (Version, error) {
	b, err := os.ReadFile(r.IVFile(name))
	if err != nil {
		return Version{}, errors.Wrapf(err, "reading IV for %s", name)
	}
	return ParseSR(trimNewline(string(b)))
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

// Alias is a symlink-named second identity for a package in the recipe
// root. It is never
// a field of Package; it is discovered by scanning Roots.Pkgs.
type Alias struct {
	Name   string
	Target string
}

// ScanAliases enumerates every top-level symlink directly under the
// recipes root and resolves it to the real package directory name it
// points at. Cyclical or dangling symlinks are skipped rather than
// erroring, since a malformed alias should not block resolution of every
// other package.
//
// godirwalk's single-directory scan (rather than its recursive Walk,
// unneeded here) replaces a plain os.ReadDir for lower per-entry
// allocation on large recipe trees.
func ScanAliases(pkgsRoot string) (map[string]string, error) {
	dirents, err := godirwalk.ReadDirents(pkgsRoot, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "scanning recipe root %s for aliases", pkgsRoot)
	}

	aliases := make(map[string]string)
	for _, de := range dirents {
		if de.ModeType()&os.ModeSymlink == 0 {
			continue
		}

		linkPath := filepath.Join(pkgsRoot, de.Name())
		target, err := filepath.EvalSymlinks(linkPath)
		if err != nil {
			// Dangling symlink; skip it rather than failing the whole scan.
			continue
		}

		fi, err := os.Stat(target)
		if err != nil || !fi.IsDir() {
			continue
		}

		aliases[de.Name()] = filepath.Base(target)
	}

	return aliases, nil
}

// ScanRecipes enumerates every real (non-symlink) recipe directory
// directly under the recipes root, for batch operations that implicitly
// mean "every package" when invoked with no arguments.
func ScanRecipes(pkgsRoot string) ([]string, error) {
	dirents, err := godirwalk.ReadDirents(pkgsRoot, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "scanning recipe root %s", pkgsRoot)
	}

	var names []string
	for _, de := range dirents {
		if de.ModeType()&os.ModeSymlink != 0 {
			continue
		}
		if de.IsDir() {
			names = append(names, de.Name())
		}
	}
	return names, nil
}
