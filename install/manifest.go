package install

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/karrick/godirwalk"
	"github.com/pkg/errors"
)

// protectedPaths must never be removed even if they appear as a unique
// manifest line.
var protectedPaths = map[string]bool{
	"/": true, "/bin": true, "/sbin": true, "/lib": true, "/lib64": true,
	"/usr": true, "/usr/bin": true, "/usr/sbin": true, "/usr/lib": true,
	"/usr/lib64": true, "/etc": true, "/var": true, "/home": true,
	"/root": true, "/dev": true, "/proc": true, "/sys": true, "/tmp": true,
	"/run": true, "/boot": true,
}

// IsProtected reports whether path (already "/"-prefixed) must never be
// removed by the dead-file or remove passes. A trailing "/", as carried
// by directory lines, is ignored for the comparison.
func IsProtected(path string) bool {
	return protectedPaths[path] || protectedPaths[strings.TrimSuffix(path, "/")]
}

// WriteManifest writes lines (relative paths, as listed in the archive)
// to roots.ManifestFile(name, sr), one per line.
func WriteManifest(path string, lines []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "creating %s", filepath.Dir(path))
	}
	return os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644)
}

// ReadManifest reads a manifest's lines, skipping blanks.
func ReadManifest(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading manifest %s", path)
	}
	var lines []string
	for _, l := range strings.Split(string(data), "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines, nil
}

// Unique computes the set difference of target against every manifest in
// others, by exact textual equality of lines.
func Unique(target []string, others [][]string) []string {
	inOther := make(map[string]bool)
	for _, m := range others {
		for _, l := range m {
			inOther[l] = true
		}
	}

	var out []string
	for _, l := range target {
		if !inOther[l] {
			out = append(out, l)
		}
	}
	return out
}

// ReversedDeepestFirst re-prefixes each line with "/" and reverses the
// slice, so directories sort after the files they contain.
func ReversedDeepestFirst(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[len(lines)-1-i] = "/" + strings.TrimPrefix(l, "/")
	}
	return out
}

// AllManifests scans depth 2 under dataRoot (dataRoot/<pkg>/MANIFEST@*)
// and returns every installed package's manifest lines keyed by package
// name, via a karrick/godirwalk directory walk, the same way
// pkgmodel/layout.go already does for alias scanning.
func AllManifests(dataRoot string) (map[string][]string, error) {
	pkgDirents, err := godirwalk.ReadDirents(dataRoot, nil)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string][]string{}, nil
		}
		return nil, errors.Wrapf(err, "scanning data root %s", dataRoot)
	}

	out := make(map[string][]string)
	for _, pde := range pkgDirents {
		if !pde.IsDir() {
			continue
		}
		pkgDir := filepath.Join(dataRoot, pde.Name())
		manifest, err := latestManifestIn(pkgDir)
		if err != nil {
			return nil, err
		}
		if manifest == nil {
			continue
		}
		lines, err := ReadManifest(*manifest)
		if err != nil {
			return nil, err
		}
		out[pde.Name()] = lines
	}
	return out, nil
}

// PackageManifests returns every MANIFEST@* file's lines under a single
// package's data directory (depth 1), used by dead-file removal to scan
// that package's own history rather than every installed package.
func PackageManifests(pkgDataDir string) (map[string][]string, error) {
	dirents, err := godirwalk.ReadDirents(pkgDataDir, nil)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string][]string{}, nil
		}
		return nil, errors.Wrapf(err, "scanning %s", pkgDataDir)
	}

	out := make(map[string][]string)
	for _, de := range dirents {
		if de.IsDir() || !strings.HasPrefix(de.Name(), "MANIFEST@") {
			continue
		}
		path := filepath.Join(pkgDataDir, de.Name())
		lines, err := ReadManifest(path)
		if err != nil {
			return nil, err
		}
		out[de.Name()] = lines
	}
	return out, nil
}

func latestManifestIn(pkgDir string) (*string, error) {
	dirents, err := godirwalk.ReadDirents(pkgDir, nil)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "scanning %s", pkgDir)
	}

	var names []string
	for _, de := range dirents {
		if !de.IsDir() && strings.HasPrefix(de.Name(), "MANIFEST@") {
			names = append(names, de.Name())
		}
	}
	if len(names) == 0 {
		return nil, nil
	}
	sort.Strings(names)
	latest := filepath.Join(pkgDir, names[len(names)-1])
	return &latest, nil
}
