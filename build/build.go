package build

import (
	"bufio"
	"context"
	"os"
	"strings"

	"github.com/Toxikuu/to/fetch"
	"github.com/Toxikuu/to/internal/shellexec"
	"github.com/Toxikuu/to/pkgmodel"
	"github.com/Toxikuu/to/resolve"
)

// Builder runs the overlay build state machine for one package at a
// time. Callers are responsible for serializing Build calls globally;
// this type holds no lock of its own.
type Builder struct {
	Roots        pkgmodel.Roots
	Resolver     *resolve.Resolver
	Fetcher      *fetch.Fetcher
	StageArchive string
	HostResolv   string
	HostConfig   string
	Aliases      map[string]string
}

// Build runs clean_overlay → setup_overlay → fetch_sources →
// populate_overlay → pre_build_hook → chroot_run → cache_carryover →
// save_distfile for pkg, in strict order. Any failure
// aborts and returns a *StepError naming the failing step; no partial
// distfile is ever published, since save_distfile is the last step.
func (b *Builder) Build(ctx context.Context, pkg pkgmodel.Package, force bool) error {
	distPath := b.Roots.DistFile(pkg.Name, pkg.Version.SR())
	if !force {
		should, err := shouldBuild(b.Roots.PkgFile(pkg.Name), distPath)
		if err != nil {
			return err
		}
		if !should {
			return &ShouldntBuildError{Name: pkg.Name}
		}
	}

	o := NewOverlay(b.Roots.DistDir(pkg.Name) + "-chroot")

	if err := o.Clean(ctx); err != nil {
		return stepErr(StepCleanOverlay, err)
	}
	if err := o.Setup(ctx, b.StageArchive); err != nil {
		return stepErr(StepSetupOverlay, err)
	}

	destDir := b.Roots.SourceDir(pkg.Name)
	if err := b.Fetcher.FetchAll(ctx, pkg, destDir); err != nil {
		return stepErr(StepFetchSources, err)
	}

	chrootDeps, err := b.Resolver.CollectChrootDeps(pkg)
	if err != nil {
		return stepErr(StepPopulateOverlay, err)
	}
	if err := Populate(b.Roots, pkg, o.Merged, chrootDeps, b.Aliases, b.HostResolv, b.HostConfig); err != nil {
		return stepErr(StepPopulateOverlay, err)
	}

	if err := runPreBuildHook(ctx, b.Roots, pkg); err != nil {
		return stepErr(StepPreBuildHook, err)
	}

	if out, err := ChrootRun(ctx, o); err != nil {
		return stepErr(StepChrootRun, wrapOutput(out, err))
	}

	if err := CacheCarryover(chrootDeps, o); err != nil {
		return stepErr(StepCacheCarryover, err)
	}

	excludes, err := readExcludes(o.Merged)
	if err != nil {
		return stepErr(StepSaveDistfile, err)
	}
	if err := SaveDistfile(destDirForSave(o), distPath, excludes); err != nil {
		return stepErr(StepSaveDistfile, err)
	}

	return nil
}

func destDirForSave(o *Overlay) string {
	return o.Merged + "/D"
}

// shouldBuild implements the should-build heuristic: skip
// unless the recipe is newer than the existing distfile. Any missing
// side implies "should build".
func shouldBuild(recipePath, distPath string) (bool, error) {
	recipeInfo, err := os.Stat(recipePath)
	if err != nil {
		return false, err
	}
	distInfo, err := os.Stat(distPath)
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return recipeInfo.ModTime().After(distInfo.ModTime()), nil
}

// runPreBuildHook runs an optional recipe-provided "pre-build" script on
// the host, before the overlay is chrooted into. Most recipes carry none.
func runPreBuildHook(ctx context.Context, roots pkgmodel.Roots, pkg pkgmodel.Package) error {
	hook := roots.RecipeDir(pkg.Name) + "/pre-build"
	if _, err := os.Stat(hook); os.IsNotExist(err) {
		return nil
	}
	out, err := shellexec.Run(ctx, roots.RecipeDir(pkg.Name), os.Environ(), "sh", hook)
	if err != nil {
		return wrapOutput(out, err)
	}
	return nil
}

func readExcludes(merged string) ([]string, error) {
	f, err := os.Open(merged + "/etc/to/exclude")
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

func wrapOutput(out string, err error) error {
	if out == "" {
		return err
	}
	return &chrootError{output: out, err: err}
}

type chrootError struct {
	output string
	err    error
}

func (e *chrootError) Error() string { return e.output + ": " + e.err.Error() }
func (e *chrootError) Unwrap() error { return e.err }
