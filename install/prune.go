package install

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Toxikuu/to/pkgmodel"
	"github.com/karrick/godirwalk"
	"github.com/pkg/errors"
)

// PruneResult lists what Prune removed, for reporting back to a caller.
type PruneResult struct {
	Manifests []string
	Distfiles []string
}

// Prune removes stale MANIFEST@* files and stale distfiles for pkg:
// anything not matching the currently-recorded IV. This is distinct
// from dead-file removal, which prunes live filesystem files rather
// than manifest/distfile records.
func Prune(roots pkgmodel.Roots, pkg pkgmodel.Package) (PruneResult, error) {
	var result PruneResult

	currentSR, err := roots.InstalledVersion(pkg.Name)
	keepSR := ""
	if err == nil {
		keepSR = currentSR.SR()
	}

	dataDir := roots.DataDir(pkg.Name)
	manifests, err := PackageManifests(dataDir)
	if err != nil {
		return result, err
	}
	for name := range manifests {
		sr := strings.TrimPrefix(name, "MANIFEST@")
		if keepSR != "" && sr == keepSR {
			continue
		}
		path := filepath.Join(dataDir, name)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return result, errors.Wrapf(err, "removing stale manifest %s", path)
		}
		result.Manifests = append(result.Manifests, name)
	}

	distDir := roots.DistDir(pkg.Name)
	dirents, err := godirwalk.ReadDirents(distDir, nil)
	if err != nil {
		if os.IsNotExist(err) {
			return result, nil
		}
		return result, errors.Wrapf(err, "scanning %s", distDir)
	}

	prefix := pkg.Name + "@"
	for _, de := range dirents {
		if de.IsDir() || !strings.HasPrefix(de.Name(), prefix) || !strings.HasSuffix(de.Name(), ".tar.zst") {
			continue
		}
		sr := strings.TrimSuffix(strings.TrimPrefix(de.Name(), prefix), ".tar.zst")
		if keepSR != "" && sr == keepSR {
			continue
		}
		path := filepath.Join(distDir, de.Name())
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return result, errors.Wrapf(err, "removing stale distfile %s", path)
		}
		result.Distfiles = append(result.Distfiles, de.Name())
	}

	return result, nil
}
