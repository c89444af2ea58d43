package fetch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/termie/go-shutil"
)

// pkgStrategy implements Source.Kind == Pkg: a Pkg source copies whatever
// that package has already fetched into sourcesRoot/<name>, and copies
// only if the destination is absent or older than the origin by mtime.
// The referenced package's own sources are not fetched here; they must
// already be present under sourcesRoot.
//
// Copies with shutil.CopyTree (Symlinks: true, CopyFunction: shutil.Copy).
type pkgStrategy struct {
	sourcesRoot string
}

func (p pkgStrategy) Fetch(ctx context.Context, req Request) error {
	origin := filepath.Join(p.sourcesRoot, req.Source.URL, req.Source.Dest)
	dest := filepath.Join(req.DestDir, req.Source.Dest)

	stale, err := isStale(dest, origin)
	if err != nil {
		return err
	}
	if !stale {
		return nil
	}

	if err := os.MkdirAll(req.DestDir, 0o755); err != nil {
		return fmt.Errorf("fetch: mkdir %s: %w", req.DestDir, err)
	}
	if err := os.RemoveAll(dest); err != nil {
		return fmt.Errorf("fetch: clear stale %s: %w", dest, err)
	}

	return copyTree(origin, dest)
}

// isStale reports whether dest is missing or older (by mtime) than
// origin.
func isStale(dest, origin string) (bool, error) {
	destInfo, err := os.Stat(dest)
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("fetch: stat %s: %w", dest, err)
	}

	originInfo, err := os.Stat(origin)
	if err != nil {
		return false, fmt.Errorf("fetch: stat %s: %w", origin, err)
	}

	return originInfo.ModTime().After(destInfo.ModTime()), nil
}

func copyTree(src, dst string) error {
	fi, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("fetch: stat %s: %w", src, err)
	}
	if !fi.IsDir() {
		return shutil.CopyFile(src, dst, false)
	}

	cfg := &shutil.CopyTreeOptions{
		Symlinks:     true,
		CopyFunction: shutil.Copy,
	}
	return shutil.CopyTree(src, dst, cfg)
}
