package build

import (
	"os"
	"path/filepath"
	"time"

	"github.com/Toxikuu/to/pkgmodel"
	"github.com/termie/go-shutil"
)

// carryoverPackages names the toolchain-adjacent dependencies whose
// reusable subtrees get copied from upper/ back into lower/ after a
// successful build, so the next build reuses them without redownload
//. The CA trust store and the Rust
// toolchain are the two named cases; each maps to the subtree worth
// keeping.
var carryoverPackages = map[string]string{
	"ca-certificates": "etc/ssl",
	"rust":            "opt/rust",
}

// CacheCarryover inspects deps for any carryover-eligible package and,
// when found, replaces lower's copy of its subtree with the freshest one
// from upper, per the CA-trust variant this repo decided on: copy the
// newer of the two trees, keyed by the newest file mtime within each
// (see DESIGN.md's Open Question decisions).
func CacheCarryover(deps []pkgmodel.Package, o *Overlay) error {
	for _, dep := range deps {
		subtree, ok := carryoverPackages[dep.Name]
		if !ok {
			continue
		}
		if err := carryOne(o, subtree); err != nil {
			return err
		}
	}
	return nil
}

func carryOne(o *Overlay, subtree string) error {
	upperPath := filepath.Join(o.Upper, subtree)
	lowerPath := filepath.Join(o.Lower, subtree)

	upperFi, err := os.Stat(upperPath)
	if os.IsNotExist(err) {
		return nil // this build never touched the subtree
	}
	if err != nil {
		return err
	}

	if _, err := os.Stat(lowerPath); err == nil {
		newer, err := newestMtime(upperPath)
		if err != nil {
			return err
		}
		lowerNewest, err := newestMtime(lowerPath)
		if err != nil {
			return err
		}
		if !newer.After(lowerNewest) {
			return nil
		}
	}

	if err := os.RemoveAll(lowerPath); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(lowerPath), 0o755); err != nil {
		return err
	}

	if upperFi.IsDir() {
		cfg := &shutil.CopyTreeOptions{Symlinks: true, CopyFunction: shutil.Copy}
		return shutil.CopyTree(upperPath, lowerPath, cfg)
	}
	_, err = shutil.Copy(upperPath, lowerPath, true)
	return err
}

func newestMtime(root string) (t time.Time, err error) {
	err = filepath.Walk(root, func(path string, info os.FileInfo, werr error) error {
		if werr != nil {
			return werr
		}
		if info.IsDir() {
			return nil
		}
		if mt := info.ModTime(); mt.After(t) {
			t = mt
		}
		return nil
	})
	return t, err
}
