package install

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Toxikuu/to/pkgmodel"
	"github.com/Toxikuu/to/resolve"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// manifestEntryName is excluded from extraction; it is never part of the
// live filesystem tree.
const manifestEntryName = "MANIFEST"

// Options configures Install.
type Options struct {
	Force            bool
	FullForce        bool
	SuppressMessages bool
	Root             string // alternate install root; "" means the live root
}

// Installer installs packages and their install closure onto Roots,
// guarding against cycles and already-satisfied dependencies.
type Installer struct {
	Roots    pkgmodel.Roots
	Resolver *resolve.Resolver
}

// Install resolves pkg's install closure and installs each member not
// already installed, then pkg itself.
func (inst *Installer) Install(pkg pkgmodel.Package, inBuildEnv bool, opts Options) error {
	return inst.installWithVisited(pkg, inBuildEnv, opts, map[string]bool{})
}

func (inst *Installer) installWithVisited(pkg pkgmodel.Package, inBuildEnv bool, opts Options, visited map[string]bool) error {
	if visited[pkg.Name] {
		return &CycleError{Name: pkg.Name}
	}
	visited[pkg.Name] = true
	defer delete(visited, pkg.Name)

	deps, err := inst.Resolver.CollectInstallDeps(pkg, inBuildEnv)
	if err != nil {
		return err
	}
	depOpts := opts
	depOpts.Force = opts.FullForce
	for _, dep := range deps {
		if err := inst.installWithVisited(dep, inBuildEnv, depOpts, visited); err != nil {
			if _, soft := err.(*AlreadyInstalledError); soft {
				continue // suppressed by the caller
			}
			return err
		}
	}

	return inst.installOne(pkg, opts)
}

func (inst *Installer) installOne(pkg pkgmodel.Package, opts Options) error {
	installed, err := inst.Roots.Installed(pkg.Name)
	if err != nil {
		return err
	}
	if installed && !opts.Force {
		current, err := inst.Roots.InstalledVersion(pkg.Name)
		if err == nil && current.Equal(pkg.Version) {
			return &AlreadyInstalledError{Name: pkg.Name}
		}
	}

	var priorIV pkgmodel.Version
	hadPriorIV := installed
	if hadPriorIV {
		priorIV, _ = inst.Roots.InstalledVersion(pkg.Name)
	}

	sr := pkg.Version.SR()
	distPath := inst.Roots.DistFile(pkg.Name, sr)
	root := opts.Root
	if root == "" {
		root = "/"
	}

	lines, err := extract(distPath, root)
	if err != nil {
		return errors.Wrapf(err, "extracting %s", distPath)
	}

	if err := WriteManifest(inst.Roots.ManifestFile(pkg.Name, sr), lines); err != nil {
		return err
	}
	if err := os.WriteFile(inst.Roots.IVFile(pkg.Name), []byte(sr+"\n"), 0o644); err != nil {
		return errors.Wrapf(err, "writing IV for %s", pkg.Name)
	}

	if hadPriorIV {
		if err := inst.deadFileRemoval(pkg, priorIV, root); err != nil {
			return err
		}
	}

	if !opts.SuppressMessages {
		displayMessages(inst.Roots.MessageDir(pkg.Name), "install")
	}
	return nil
}

// extract untars distPath into root, skipping the MANIFEST entry, and
// returns every extracted path relative to root for recording into a
// fresh manifest.
//
// Mirrors a "tar --keep-directory-symlink --numeric-owner
// --no-overwrite-dir" invocation in Go rather than shelling to a system
// tar binary, since this repo produces its own distfiles with
// archive/tar (build.SaveDistfile): numeric-owner is implicit
// (archive/tar headers carry no symbolic names), no-overwrite-dir means
// an existing directory is left alone instead of having its mode reset,
// and keep-directory-symlink means a destination symlink standing in
// for a directory is never replaced.
func extract(distPath, root string) ([]string, error) {
	f, err := os.Open(distPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	zr, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	tr := tar.NewReader(zr)
	var lines []string

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if hdr.Name == manifestEntryName {
			continue
		}

		dest := filepath.Join(root, hdr.Name)
		if err := extractEntry(tr, hdr, dest); err != nil {
			return nil, fmt.Errorf("extracting %s: %w", hdr.Name, err)
		}
		lines = append(lines, hdr.Name)
	}
	return lines, nil
}

func extractEntry(tr *tar.Reader, hdr *tar.Header, dest string) error {
	switch hdr.Typeflag {
	case tar.TypeDir:
		if fi, err := os.Lstat(dest); err == nil {
			if fi.Mode()&os.ModeSymlink != 0 {
				return nil // keep-directory-symlink
			}
			return nil // no-overwrite-dir
		}
		return os.MkdirAll(dest, os.FileMode(hdr.Mode))
	case tar.TypeSymlink:
		os.Remove(dest)
		return os.Symlink(hdr.Linkname, dest)
	default:
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return err
		}
		out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(hdr.Mode))
		if err != nil {
			return err
		}
		defer out.Close()
		_, err = io.Copy(out, tr)
		return err
	}
}
