package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Toxikuu/to/internal/fs"
	"github.com/Toxikuu/to/internal/shellexec"
)

// Overlay is a scoped handle onto one package's build root.
// Lower/Upper/Work/Merged mirror the four overlayfs subdirectories.
type Overlay struct {
	Root   string
	Lower  string
	Upper  string
	Work   string
	Merged string
}

// NewOverlay lays out the four subdirectories under root without
// mounting anything.
func NewOverlay(root string) *Overlay {
	return &Overlay{
		Root:   root,
		Lower:  filepath.Join(root, "lower"),
		Upper:  filepath.Join(root, "upper"),
		Work:   filepath.Join(root, "work"),
		Merged: filepath.Join(root, "merged"),
	}
}

// Clean tears down any overlay left over from a previous build: unmount
// recursively, then remove upper/work/merged so the next build starts
// from a pristine layer set. lower is left alone — it is the cached
// pristine stage root, not build output.
func (o *Overlay) Clean(ctx context.Context) error {
	if err := o.unmountAll(ctx); err != nil {
		return err
	}
	for _, dir := range []string{o.Upper, o.Work, o.Merged} {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("removing %s: %w", dir, err)
		}
	}
	return nil
}

// Setup ensures lower exists (extracting a configured pristine stage
// archive into it if absent), creates upper/work/merged, mounts an
// overlayfs at merged, then bind-mounts the pseudo-filesystems chroot
// execution needs: /dev, devpts under dev/pts, proc, sysfs, and a tmpfs
// under run/.
func (o *Overlay) Setup(ctx context.Context, stageArchive string) error {
	if err := o.ensureLower(ctx, stageArchive); err != nil {
		return err
	}
	for _, dir := range []string{o.Upper, o.Work, o.Merged} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	opts := fmt.Sprintf("lowerdir=%s,upperdir=%s,workdir=%s", o.Lower, o.Upper, o.Work)
	if _, err := shellexec.Run(ctx, "", os.Environ(), "mount", "-t", "overlay", "overlay", "-o", opts, o.Merged); err != nil {
		return fmt.Errorf("mounting overlay at %s: %w", o.Merged, err)
	}

	for _, m := range o.pseudoMounts() {
		if err := m.mount(ctx); err != nil {
			o.unmountAll(ctx)
			return err
		}
	}
	return nil
}

func (o *Overlay) ensureLower(ctx context.Context, stageArchive string) error {
	if nonEmpty, err := fs.IsNonEmptyDir(o.Lower); err == nil && nonEmpty {
		return nil
	}
	if err := os.RemoveAll(o.Lower); err != nil {
		return fmt.Errorf("clearing stale %s: %w", o.Lower, err)
	}
	if stageArchive == "" {
		return fmt.Errorf("lower root %s is absent and no stage archive is configured", o.Lower)
	}
	if err := os.MkdirAll(o.Lower, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", o.Lower, err)
	}
	if _, err := shellexec.Run(ctx, "", os.Environ(), "tar", "--zstd", "-xf", stageArchive, "-C", o.Lower); err != nil {
		return fmt.Errorf("extracting stage archive %s into %s: %w", stageArchive, o.Lower, err)
	}
	return nil
}

type pseudoMount struct {
	target string
	mount  func(ctx context.Context) error
}

// pseudoMounts lists the chroot environment's pseudo-filesystems in
// mount order, each built as a closure so Setup can unwind cleanly if a
// later one fails.
func (o *Overlay) pseudoMounts() []pseudoMount {
	dev := filepath.Join(o.Merged, "dev")
	devpts := filepath.Join(dev, "pts")
	proc := filepath.Join(o.Merged, "proc")
	sys := filepath.Join(o.Merged, "sys")
	run := filepath.Join(o.Merged, "run")

	bind := func(target, src string) pseudoMount {
		return pseudoMount{target: target, mount: func(ctx context.Context) error {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("creating %s: %w", target, err)
			}
			_, err := shellexec.Run(ctx, "", os.Environ(), "mount", "--bind", src, target)
			return err
		}}
	}
	typed := func(target, fstype string) pseudoMount {
		return pseudoMount{target: target, mount: func(ctx context.Context) error {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("creating %s: %w", target, err)
			}
			_, err := shellexec.Run(ctx, "", os.Environ(), "mount", "-t", fstype, fstype, target)
			return err
		}}
	}

	return []pseudoMount{
		bind(dev, "/dev"),
		typed(devpts, "devpts"),
		typed(proc, "proc"),
		typed(sys, "sysfs"),
		typed(run, "tmpfs"),
	}
}

// unmountAll unmounts every pseudo-mount and the overlay itself, deepest
// first, tolerating "not mounted" failures since Clean must also work
// against a root nothing was ever mounted onto.
func (o *Overlay) unmountAll(ctx context.Context) error {
	targets := []string{
		filepath.Join(o.Merged, "run"),
		filepath.Join(o.Merged, "sys"),
		filepath.Join(o.Merged, "proc"),
		filepath.Join(o.Merged, "dev", "pts"),
		filepath.Join(o.Merged, "dev"),
		o.Merged,
	}
	for _, t := range targets {
		shellexec.Run(ctx, "", os.Environ(), "umount", "-Rl", t)
	}
	return nil
}
