package pkgmodel

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// unitSeparator delimits list-valued fields in the recipe tool's output.
// Source listings using it as a field separator are explicit; tags are
// space-separated. Preserve this distinction for wire compatibility with
// existing recipes.
const unitSeparator = "\x1f"

// recipeFieldCount is the number of newline-delimited fields the recipe
// tool emits, in order.
const recipeFieldCount = 12

// ErrMalformedRecipe is returned when the recipe tool's output does not
// have the expected shape.
var ErrMalformedRecipe = errors.New("malformed recipe")

// ParseRecipe consumes the fixed-order, line-oriented output of the
// external recipe tool and builds a Package. The core never interprets
// the recipe's shell; it only consumes this emitted form.
func ParseRecipe(r io.Reader) (*Package, error) {
	lines := make([]string, 0, recipeFieldCount)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "reading recipe output")
	}
	if len(lines) < recipeFieldCount {
		return nil, errors.Wrapf(ErrMalformedRecipe, "expected %d fields, got %d", recipeFieldCount, len(lines))
	}

	release, err := parseRelease(lines[2])
	if err != nil {
		return nil, errors.Wrap(err, "parsing release")
	}

	p := &Package{
		Name:         lines[0],
		Version:      NewVersion(lines[1], release),
		About:        lines[3],
		Maintainer:   lines[4],
		Licenses:     splitUS(lines[5]),
		Upstream:     lines[6],
		VersionFetch: lines[7],
		Tags:         splitSpace(lines[8]),
		Sources:      parseSources(lines[9]),
		Dependencies: parseDeps(lines[10]),
		Kcfg:         splitUS(lines[11]),
	}

	if p.Name == "" {
		return nil, errors.Wrap(ErrMalformedRecipe, "empty name field")
	}

	return p, nil
}

func parseRelease(s string) (uint8, error) {
	if s == "" {
		return 1, nil
	}
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 1, nil
	}
	return uint8(n), nil
}

func splitUS(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, unitSeparator)
}

func splitSpace(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Fields(s)
}

func parseSources(s string) []Source {
	fields := splitUS(s)
	if fields == nil {
		return nil
	}
	out := make([]Source, len(fields))
	for i, f := range fields {
		out[i] = ParseSource(f)
	}
	return out
}

func parseDeps(s string) []Dep {
	fields := splitUS(s)
	if fields == nil {
		return nil
	}
	out := make([]Dep, len(fields))
	for i, f := range fields {
		out[i] = ParseDep(f)
	}
	return out
}
