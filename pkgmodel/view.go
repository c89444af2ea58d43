package pkgmodel

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Summarize renders a single-line human summary of a package: name,
// version, and a short description.
func Summarize(p Package) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", p.Name, p.Version.SR())
	if p.About != "" {
		fmt.Fprintf(&b, " - %s", p.About)
	}
	return b.String()
}

// WriteTable renders a column-aligned listing of packages using
// text/tabwriter: name, version, maintainer, tags.
func WriteTable(w io.Writer, pkgs []Package) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tVERSION\tMAINTAINER\tTAGS")
	for _, p := range pkgs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Name, p.Version.SR(), p.Maintainer, strings.Join(p.Tags, ","))
	}
	return tw.Flush()
}
