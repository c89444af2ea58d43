package pkgmodel

import "fmt"

// Lint returns human-readable warnings about common recipe mistakes. It
// never errors: lint is advisory, a separate step from generate/install,
// not a gate either of them depends on.
func Lint(p Package) []string {
	var warnings []string

	if p.About == "" {
		warnings = append(warnings, "about is empty")
	}
	if len(p.Licenses) == 0 {
		warnings = append(warnings, "no licenses declared")
	}
	if !p.ProbeDisabled() && p.VersionFetch != "" && p.Upstream == "" {
		warnings = append(warnings, "version_fetch is set but upstream is empty")
	}
	for _, d := range p.Dependencies {
		if d.Name == p.Name {
			warnings = append(warnings, fmt.Sprintf("package depends on itself (%s dependency)", d.Kind))
		}
	}
	if p.Version.String == "" {
		warnings = append(warnings, "version is empty")
	}

	return warnings
}
