package build

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Toxikuu/to/pkgmodel"
	"github.com/termie/go-shutil"
)

// excludeFile lists directories stripped from the final artifact
// (docs, licenses).
const excludeFile = "/etc/to/exclude"

// Populate mirrors everything chroot_run needs into merged/: the recipe
// itself, an optional auxiliary directory, networking config, the
// build-working/destdir/sources layout, fetched sources, and every
// chroot dependency's distfile/recipe/metadata, with alias symlinks
// replicated alongside, using a shutil.CopyTree-based export and
// pkgmodel/layout.go's path helpers.
func Populate(roots pkgmodel.Roots, pkg pkgmodel.Package, merged string, chrootDeps []pkgmodel.Package, aliases map[string]string, hostResolvConf, hostConfig string) error {
	if err := copyFile(roots.PkgFile(pkg.Name), filepath.Join(merged, "pkg")); err != nil {
		return fmt.Errorf("copying recipe: %w", err)
	}
	if err := writeRunner(filepath.Join(merged, "runner")); err != nil {
		return err
	}

	if fi, err := os.Stat(roots.AuxDir(pkg.Name)); err == nil && fi.IsDir() {
		if err := copyTree(roots.AuxDir(pkg.Name), filepath.Join(merged, "A")); err != nil {
			return fmt.Errorf("copying aux dir: %w", err)
		}
	}

	if err := writeNetworking(merged, hostResolvConf); err != nil {
		return err
	}
	if hostConfig != "" {
		if err := copyFile(hostConfig, filepath.Join(merged, filepath.Base(hostConfig))); err != nil {
			return fmt.Errorf("copying host config: %w", err)
		}
	}
	if err := writeExcludeFile(merged, pkg); err != nil {
		return err
	}

	for _, dir := range []string{"B", "D", "S"} {
		if err := os.MkdirAll(filepath.Join(merged, dir), 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	for _, src := range pkg.Sources {
		from := roots.SourcePath(pkg.Name, src.Dest)
		to := filepath.Join(merged, "S", src.Dest)
		if err := copyAny(from, to); err != nil {
			return fmt.Errorf("copying source %s: %w", src.Dest, err)
		}
	}

	if err := mirrorChrootDeps(roots, merged, chrootDeps, aliases); err != nil {
		return err
	}

	return nil
}

func mirrorChrootDeps(roots pkgmodel.Roots, merged string, deps []pkgmodel.Package, aliases map[string]string) error {
	if len(deps) == 0 {
		return nil
	}

	names := make([]string, 0, len(deps))
	for _, dep := range deps {
		names = append(names, dep.Name)

		distfile := roots.DistFile(dep.Name, dep.Version.SR())
		mirrorDist := filepath.Join(merged, strings.TrimPrefix(distfile, roots.Dist))
		if err := copyFile(distfile, mirrorDist); err != nil {
			return fmt.Errorf("mirroring distfile for %s: %w", dep.Name, err)
		}

		recipeDir := roots.RecipeDir(dep.Name)
		mirrorRecipe := filepath.Join(merged, strings.TrimPrefix(recipeDir, filepath.Dir(roots.Pkgs)))
		if err := copyFile(roots.PkgFile(dep.Name), filepath.Join(mirrorRecipe, "pkg")); err != nil {
			return fmt.Errorf("mirroring recipe for %s: %w", dep.Name, err)
		}
		if err := copyFile(roots.SFile(dep.Name), filepath.Join(mirrorRecipe, "s")); err != nil {
			return fmt.Errorf("mirroring metadata for %s: %w", dep.Name, err)
		}

		if err := replicateAlias(aliases, dep.Name, filepath.Dir(mirrorRecipe)); err != nil {
			return fmt.Errorf("replicating alias for %s: %w", dep.Name, err)
		}
	}

	return os.WriteFile(filepath.Join(merged, "deps"), []byte(strings.Join(names, " ")+"\n"), 0o644)
}

// replicateAlias creates a symlink inside mirrorRecipesRoot for every
// alias pointing at realName, idempotently: an existing correct symlink
// is left alone.
func replicateAlias(aliases map[string]string, realName, mirrorRecipesRoot string) error {
	for alias, target := range aliases {
		if target != realName {
			continue
		}
		link := filepath.Join(mirrorRecipesRoot, alias)
		if existing, err := os.Readlink(link); err == nil && existing == realName {
			continue
		}
		os.Remove(link)
		if err := os.Symlink(realName, link); err != nil {
			return err
		}
	}
	return nil
}

func writeRunner(dest string) error {
	const runner = "#!/bin/sh\nset -e\ncd /B\n. /pkg\n"
	if err := os.WriteFile(dest, []byte(runner), 0o755); err != nil {
		return fmt.Errorf("writing runner: %w", err)
	}
	return nil
}

func writeNetworking(merged, hostResolvConf string) error {
	dest := filepath.Join(merged, "etc", "resolv.conf")
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating etc: %w", err)
	}
	if hostResolvConf == "" {
		hostResolvConf = "/etc/resolv.conf"
	}
	return copyFile(hostResolvConf, dest)
}

func writeExcludeFile(merged string, pkg pkgmodel.Package) error {
	dest := filepath.Join(merged, strings.TrimPrefix(excludeFile, "/"))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dest), err)
	}
	defaults := "usr/share/doc\nusr/share/man\nusr/share/licenses\n"
	return os.WriteFile(dest, []byte(defaults), 0o644)
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	_, err := shutil.Copy(src, dst, true)
	return err
}

func copyTree(src, dst string) error {
	cfg := &shutil.CopyTreeOptions{Symlinks: true, CopyFunction: shutil.Copy}
	return shutil.CopyTree(src, dst, cfg)
}

func copyAny(src, dst string) error {
	fi, err := os.Stat(src)
	if err != nil {
		return err
	}
	if fi.IsDir() {
		return copyTree(src, dst)
	}
	return copyFile(src, dst)
}
