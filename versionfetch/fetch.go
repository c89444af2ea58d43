// Package versionfetch implements the upstream version probe: a TTL-cached check of whether a package's recipe-declared
// version is still current, with each package's probe runnable as an
// independent concurrent task.
package versionfetch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Toxikuu/to/internal/shellexec"
	"github.com/Toxikuu/to/pkgmodel"
	"github.com/pkg/errors"
)

// ErrDisabled is returned when a package's version_fetch is the literal
// "no".
var ErrDisabled = errors.New("version fetch disabled")

// cacheTTL is the maximum age of a cached probe before it is considered
// stale and re-probed.
const cacheTTL = 4 * time.Hour

// Result is a single package's probe outcome, serialized verbatim to its
// cache file.
type Result struct {
	Name      string `json:"name"`
	Local     string `json:"local_version"`
	Upstream  string `json:"upstream_version"`
	IsCurrent bool   `json:"is_current"`
}

// Fetch probes pkg's upstream version, consulting and refreshing the
// cache file at roots.VFFile(pkg.Name) unless ignoreCache is set.
func Fetch(ctx context.Context, roots pkgmodel.Roots, pkg pkgmodel.Package, ignoreCache bool) (*Result, error) {
	if pkg.ProbeDisabled() {
		return nil, ErrDisabled
	}

	vfPath := roots.VFFile(pkg.Name)
	if !ignoreCache {
		if cached, fresh, err := readCache(vfPath); err != nil {
			return nil, err
		} else if fresh {
			return cached, nil
		}
	}

	raw, err := probeUpstream(ctx, pkg)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching upstream version for %s", pkg.Name)
	}

	result := &Result{
		Name:      pkg.Name,
		Local:     pkg.Version.String,
		Upstream:  normalize(raw, pkg.Name),
		IsCurrent: false,
	}
	result.IsCurrent = result.Local == result.Upstream

	if err := writeCache(vfPath, result); err != nil {
		return nil, err
	}
	return result, nil
}

// readCache returns (result, true, nil) on a fresh hit, (nil, false,
// nil) on a miss or an expired entry (which it removes, so the next
// write is not skipped), and a non-nil error only on an unexpected I/O
// or decode failure.
func readCache(vfPath string) (*Result, bool, error) {
	fi, err := os.Stat(vfPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, errors.Wrapf(err, "statting %s", vfPath)
	}

	if time.Since(fi.ModTime()) > cacheTTL {
		os.Remove(vfPath)
		return nil, false, nil
	}

	data, err := os.ReadFile(vfPath)
	if err != nil {
		return nil, false, errors.Wrapf(err, "reading %s", vfPath)
	}
	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false, errors.Wrapf(err, "decoding %s", vfPath)
	}
	return &result, true, nil
}

// writeCache skips the write if the cache file already exists. Without
// ignoreCache a probe only ever follows a cache miss or expiry, both of
// which leave no file; with ignoreCache a still-fresh file is kept and
// the new result is not written over it.
func writeCache(vfPath string, result *Result) error {
	if _, err := os.Stat(vfPath); err == nil {
		return nil
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "encoding vf result for %s", result.Name)
	}
	dir := filepath.Dir(vfPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating %s", dir)
	}
	return os.WriteFile(vfPath, data, 0o644)
}

// normalize lowercases raw, strips a leading package name, a leading
// "-", and a leading "v", takes only the last line, and trims
// whitespace.
func normalize(raw, name string) string {
	lines := strings.Split(strings.TrimSpace(raw), "\n")
	last := strings.ToLower(strings.TrimSpace(lines[len(lines)-1]))
	last = strings.TrimPrefix(last, strings.ToLower(name))
	last = strings.TrimPrefix(last, "-")
	last = strings.TrimPrefix(last, "v")
	return strings.TrimSpace(last)
}

// probeUpstream runs the recipe's version_fetch snippet if one is set,
// otherwise falls back to a commit-hash probe or a tag listing.
//
// The recipe-defined command is executed the way pre-build hooks are
// (through internal/shellexec, sh -c), with u set to pkg.Upstream in its
// environment. There are no external tagging-helper shell functions in
// this repo, so the tag-listing default is reimplemented natively in
// tagListDefault rather than shelling out to undefined helpers.
func probeUpstream(ctx context.Context, pkg pkgmodel.Package) (string, error) {
	if pkg.VersionFetch != "" {
		env := shellexec.MergeEnv([]string{"u=" + pkg.Upstream}, os.Environ())
		out, err := shellexec.Run(ctx, "", env, "sh", "-c", pkg.VersionFetch)
		if err != nil {
			return "", err
		}
		return lastLine(out), nil
	}

	if pkg.Version.IsCommitHash() {
		return commitHashDefault(ctx, pkg.Upstream)
	}
	return tagListDefault(ctx, pkg.Upstream)
}

func commitHashDefault(ctx context.Context, upstream string) (string, error) {
	out, err := shellexec.Run(ctx, "", os.Environ(), "git", "ls-remote", upstream, "HEAD")
	if err != nil {
		return "", err
	}
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 2 && strings.HasSuffix(fields[1], "HEAD") {
			return fields[0], nil
		}
	}
	return "", fmt.Errorf("no HEAD ref found for %s", upstream)
}

func tagListDefault(ctx context.Context, upstream string) (string, error) {
	out, err := shellexec.Run(ctx, "", os.Environ(), "git", "ls-remote", "--tags", "--refs", upstream)
	if err != nil {
		return "", err
	}

	var tags []string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		tags = append(tags, strings.TrimPrefix(fields[1], "refs/tags/"))
	}
	if len(tags) == 0 {
		return "", fmt.Errorf("no tags found for %s", upstream)
	}

	sort.Strings(tags)
	return tags[len(tags)-1], nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return lines[len(lines)-1]
}
