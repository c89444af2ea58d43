package pkgmodel

import (
	"path"
	"strings"
)

// SourceKind classifies how a Source is materialized by the fetcher
// (package fetch).
type SourceKind uint8

const (
	// Download is a plain HTTPS GET into the sources cache.
	Download SourceKind = iota
	// Git is a VCS checkout.
	Git
	// Pkg reuses another package's already-fetched sources.
	Pkg
)

func (k SourceKind) String() string {
	switch k {
	case Git:
		return "git"
	case Pkg:
		return "pkg"
	default:
		return "download"
	}
}

// Source is one entry in a Package's source list.
type Source struct {
	Kind SourceKind
	URL  string
	Dest string
}

// ParseSource parses one recipe source-list entry.
//
// Explicit prefixes d,/g,/p, force the kind. Otherwise the kind is
// guessed: a string with no "://" and no "/" names another package's
// sources (Pkg); anything else is treated as a plain Download unless it
// looks like a git remote (ends in ".git").
//
// "url -> dest" sets an explicit destination filename; otherwise the
// destination is the final URL path segment, with a trailing ".git"
// stripped for Git sources.
func ParseSource(s string) Source {
	kind, rest, explicit := splitPrefix(s)

	url, dest := splitDest(rest)

	if !explicit {
		kind = guessKind(url)
	}

	if dest == "" {
		dest = deriveDest(url, kind)
	}

	return Source{Kind: kind, URL: url, Dest: dest}
}

func splitPrefix(s string) (kind SourceKind, rest string, explicit bool) {
	switch {
	case strings.HasPrefix(s, "d,"):
		return Download, s[2:], true
	case strings.HasPrefix(s, "g,"):
		return Git, s[2:], true
	case strings.HasPrefix(s, "p,"):
		return Pkg, s[2:], true
	default:
		return Download, s, false
	}
}

func splitDest(s string) (url, dest string) {
	if i := strings.Index(s, " -> "); i >= 0 {
		return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+4:])
	}
	return s, ""
}

// guessKind classifies a source string: a bare name (no scheme, no
// slash) is a Pkg reference; anything else is a Download unless it is
// plainly a git remote.
func guessKind(url string) SourceKind {
	if !strings.Contains(url, "://") {
		if !strings.Contains(url, "/") {
			return Pkg
		}
		return Download
	}
	if strings.HasSuffix(url, ".git") {
		return Git
	}
	return Download
}

func deriveDest(url string, kind SourceKind) string {
	base := path.Base(url)
	if kind == Git {
		base = strings.TrimSuffix(base, ".git")
	}
	return base
}

// String renders the Source back into its recipe-list form.
func (s Source) String() string {
	var prefix string
	switch s.Kind {
	case Git:
		prefix = "g,"
	case Pkg:
		prefix = "p,"
	default:
		prefix = "d,"
	}

	derived := deriveDest(s.URL, s.Kind)
	if s.Dest == derived {
		return prefix + s.URL
	}
	return prefix + s.URL + " -> " + s.Dest
}
