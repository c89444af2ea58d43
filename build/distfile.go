package build

import (
	"archive/tar"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Toxikuu/to/internal/fs"
	"github.com/klauspost/compress/zstd"
)

// manifestEntryName is the distfile's top-level manifest entry, per
// spec §6.3: the installer excludes it from extraction and writes its
// own manifest copy into the data directory from the archive listing.
const manifestEntryName = "MANIFEST"

// buildManifest walks destDir the same way SaveDistfile's archiving pass
// does, collecting the relative path of every entry that will be
// written into the archive, so the MANIFEST entry matches the payload
// exactly.
func buildManifest(destDir string, excluded map[string]bool) ([]string, error) {
	var lines []string
	err := filepath.WalkDir(destDir, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(destDir, path)
		if err != nil || rel == "." {
			return err
		}
		if excluded[rel] {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			rel += "/"
		}
		lines = append(lines, rel)
		return nil
	})
	return lines, err
}

// writeManifestEntry writes lines as a newline-separated regular file
// named manifestEntryName, the first entry in the archive.
func writeManifestEntry(tw *tar.Writer, lines []string) error {
	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}
	hdr := &tar.Header{
		Name: manifestEntryName,
		Mode: 0o644,
		Size: int64(len(content)),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err := tw.Write([]byte(content))
	return err
}

// SaveDistfile archives destDir (the overlay's D/, upper's final
// install tree) into a zstd-compressed tar at distPath, skipping any
// relative path under excludes. The archive is written to a sibling
// temp file and only renamed into place on success, so a crash mid-write
// never publishes a truncated distfile.
//
// klauspost/compress is the ecosystem's idiomatic Go zstd
// implementation, paired with stdlib archive/tar since no available
// library wraps tar beyond that.
func SaveDistfile(destDir, distPath string, excludes []string) (err error) {
	if err := os.MkdirAll(filepath.Dir(distPath), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(distPath), err)
	}

	tmpPath := distPath + ".tmp"
	out, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", tmpPath, err)
	}
	defer func() {
		if err != nil {
			os.Remove(tmpPath)
		}
	}()

	zw, err := zstd.NewWriter(out)
	if err != nil {
		out.Close()
		return fmt.Errorf("opening zstd writer: %w", err)
	}

	tw := tar.NewWriter(zw)

	excluded := make(map[string]bool, len(excludes))
	for _, e := range excludes {
		excluded[strings.Trim(e, "/")] = true
	}

	manifest, err := buildManifest(destDir, excluded)
	if err != nil {
		tw.Close()
		zw.Close()
		out.Close()
		return fmt.Errorf("building manifest for %s: %w", destDir, err)
	}
	if err = writeManifestEntry(tw, manifest); err != nil {
		tw.Close()
		zw.Close()
		out.Close()
		return fmt.Errorf("writing manifest entry: %w", err)
	}

	err = filepath.WalkDir(destDir, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(destDir, path)
		if err != nil || rel == "." {
			return err
		}
		if excluded[rel] {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		link := ""
		if info.Mode()&os.ModeSymlink != 0 {
			if link, err = os.Readlink(path); err != nil {
				return err
			}
		}
		hdr, err := tar.FileInfoHeader(info, link)
		if err != nil {
			return err
		}
		hdr.Name = rel
		if d.IsDir() {
			hdr.Name += "/"
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if d.IsDir() || info.Mode()&os.ModeSymlink != 0 {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(tw, f)
		return err
	})
	if err != nil {
		tw.Close()
		zw.Close()
		out.Close()
		return fmt.Errorf("archiving %s: %w", destDir, err)
	}

	if err = tw.Close(); err != nil {
		out.Close()
		return fmt.Errorf("closing tar writer: %w", err)
	}
	if err = zw.Close(); err != nil {
		out.Close()
		return fmt.Errorf("closing zstd writer: %w", err)
	}
	if err = out.Sync(); err != nil {
		out.Close()
		return fmt.Errorf("syncing %s: %w", tmpPath, err)
	}
	if err = out.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpPath, err)
	}

	if err = fs.RenameWithFallback(tmpPath, distPath); err != nil {
		return fmt.Errorf("publishing %s: %w", distPath, err)
	}
	return nil
}
