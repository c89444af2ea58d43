package main

import (
	"flag"
	"fmt"

	"github.com/Toxikuu/to/pkgmodel"
)

const lintShortHelp = `Check a package's metadata for common mistakes`
const lintLongHelp = `
Run heuristic checks against one or more packages: missing "about" or
licenses, a version_fetch that isn't disabled but has no upstream, and
self-referential dependencies. With no packages given, lints every
known recipe.
`

type lintCommand struct{}

func (cmd *lintCommand) Name() string      { return "lint" }
func (cmd *lintCommand) Args() string      { return "[package...]" }
func (cmd *lintCommand) ShortHelp() string { return lintShortHelp }
func (cmd *lintCommand) LongHelp() string  { return lintLongHelp }
func (cmd *lintCommand) Hidden() bool      { return false }

func (cmd *lintCommand) Register(fs *flag.FlagSet) {}

func (cmd *lintCommand) Run(ctx *Ctx, args []string) error {
	pkgs, err := packagesOrAll(ctx, args)
	if err != nil {
		return err
	}

	var failed bool
	for _, pkg := range pkgs {
		warnings := pkgmodel.Lint(pkg)
		if len(warnings) == 0 {
			ctx.Log.Stage("lints passed for %s", pkg.Name)
			continue
		}
		failed = true
		for _, w := range warnings {
			fmt.Fprintf(ctx.Err, "%s: %s\n", pkg.Name, w)
		}
	}
	if failed {
		return fmt.Errorf("lint: one or more packages have warnings")
	}
	return nil
}
