package pkgmodel

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver"
	"github.com/pkg/errors"
)

// commitHashRe matches a 40-hex-digit git commit hash.
var commitHashRe = regexp.MustCompile(`^[0-9a-f]{40}$`)

// Version is the (version_string, release) pair that identifies a single
// build of a Package. version_string may be semver, datever (e.g.
// 20240101), or a 40-hex-digit commit hash; release defaults to 1.
type Version struct {
	String  string
	Release uint8
}

// NewVersion constructs a Version, defaulting release to 1 when it is 0.
func NewVersion(s string, release uint8) Version {
	if release == 0 {
		release = 1
	}
	return Version{String: s, Release: release}
}

// IsCommitHash reports whether the version string is a 40-hex-digit commit
// hash rather than a semver or datever string.
func (v Version) IsCommitHash() bool {
	return commitHashRe.MatchString(strings.ToLower(v.String))
}

// Short returns the display form of the version: the first 8 characters
// for commit-hash versions, the full string otherwise.
func (v Version) Short() string {
	if v.IsCommitHash() && len(v.String) >= 8 {
		return v.String[:8]
	}
	return v.String
}

// SR returns the "version-release" form used to name distfiles and
// manifests (the SR-version).
func (v Version) SR() string {
	return fmt.Sprintf("%s-%d", v.String, v.Release)
}

// ParseSR parses a "version-release" string back into a Version.
func ParseSR(sr string) (Version, error) {
	i := strings.LastIndex(sr, "-")
	if i < 0 {
		return Version{}, errors.Errorf("malformed sr-version %q: missing release separator", sr)
	}
	var release uint8
	if _, err := fmt.Sscanf(sr[i+1:], "%d", &release); err != nil {
		return Version{}, errors.Wrapf(err, "malformed sr-version %q: bad release", sr)
	}
	return NewVersion(sr[:i], release), nil
}

// Compare orders two Versions. Semver-shaped strings are compared with
// semver precedence; this includes datever strings such as 20240101 or
// 2024.01.01, which parse as semver numbers. Otherwise the comparison
// falls back to a plain string comparison, the only sane fallback for
// arbitrary commit hashes (they carry no ordering information by
// themselves).
func (v Version) Compare(o Version) int {
	sv1, err1 := semver.NewVersion(v.String)
	sv2, err2 := semver.NewVersion(o.String)
	if err1 == nil && err2 == nil {
		if c := sv1.Compare(sv2); c != 0 {
			return c
		}
	} else if c := strings.Compare(v.String, o.String); c != 0 {
		return c
	}

	switch {
	case v.Release < o.Release:
		return -1
	case v.Release > o.Release:
		return 1
	default:
		return 0
	}
}

// Equal reports whether v and o identify the same build.
func (v Version) Equal(o Version) bool {
	return v.String == o.String && v.Release == o.Release
}
