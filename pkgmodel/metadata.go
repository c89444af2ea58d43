package pkgmodel

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// ErrMalformedMetadata is returned when an "s" file fails to deserialize.
var ErrMalformedMetadata = errors.New("malformed metadata")

// rawPackage is the on-disk JSON shape of the "s" file: a
// pretty-printed snapshot of Package minus the transient DepKind field.
// Version and Release are flattened to the top level, matching the rest
// of the format's flat, field-per-line ancestry rather
// than nesting them under a "version" object.
type rawPackage struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Release      uint8    `json:"release"`
	About        string   `json:"about"`
	Maintainer   string   `json:"maintainer"`
	Licenses     []string `json:"licenses,omitempty"`
	Upstream     string   `json:"upstream,omitempty"`
	VersionFetch string   `json:"version_fetch,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Sources      []string `json:"sources,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
	Kcfg         []string `json:"kcfg,omitempty"`
}

// MarshalJSON renders the Package into its "s" file JSON form, compact;
// Generate pretty-prints it. DepKind is never included: it is transient
// resolver state.
func (p Package) MarshalJSON() ([]byte, error) {
	raw := rawPackage{
		Name:         p.Name,
		Version:      p.Version.String,
		Release:      p.Version.Release,
		About:        p.About,
		Maintainer:   p.Maintainer,
		Licenses:     p.Licenses,
		Upstream:     p.Upstream,
		VersionFetch: p.VersionFetch,
		Tags:         p.Tags,
		Kcfg:         p.Kcfg,
	}
	for _, s := range p.Sources {
		raw.Sources = append(raw.Sources, s.String())
	}
	for _, d := range p.Dependencies {
		raw.Dependencies = append(raw.Dependencies, d.String())
	}
	return json.Marshal(raw)
}

// UnmarshalJSON parses an "s" file into a Package.
func (p *Package) UnmarshalJSON(data []byte) error {
	var raw rawPackage
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "unmarshaling package metadata")
	}
	if raw.Name == "" {
		return errors.Wrap(ErrMalformedMetadata, "empty name field")
	}

	release := raw.Release
	if release == 0 {
		release = 1
	}

	np := Package{
		Name:         raw.Name,
		Version:      NewVersion(raw.Version, release),
		About:        raw.About,
		Maintainer:   raw.Maintainer,
		Licenses:     raw.Licenses,
		Upstream:     raw.Upstream,
		VersionFetch: raw.VersionFetch,
		Tags:         raw.Tags,
		Kcfg:         raw.Kcfg,
	}
	for _, s := range raw.Sources {
		np.Sources = append(np.Sources, ParseSource(s))
	}
	for _, d := range raw.Dependencies {
		np.Dependencies = append(np.Dependencies, ParseDep(d))
	}

	*p = np
	return nil
}

// Generate returns the pretty-printed JSON form of p suitable for writing
// to the "s" file. The "generate" collaborator invokes
// this after the external recipe tool re-emits metadata; the
// serialization itself is core.
func Generate(p Package) ([]byte, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling package metadata")
	}
	var out bytes.Buffer
	if err := json.Indent(&out, b, "", "  "); err != nil {
		return nil, errors.Wrap(err, "pretty-printing package metadata")
	}
	return out.Bytes(), nil
}
