package main

import (
	"flag"

	"github.com/Toxikuu/to/install"
)

const pruneShortHelp = `Prune stale manifests and distfiles for a package`
const pruneLongHelp = `
Remove every MANIFEST@* and distfile for a package's non-current
versions. With no packages given, prunes every known recipe.
`

type pruneCommand struct{}

func (cmd *pruneCommand) Name() string      { return "prune" }
func (cmd *pruneCommand) Args() string      { return "[package...]" }
func (cmd *pruneCommand) ShortHelp() string { return pruneShortHelp }
func (cmd *pruneCommand) LongHelp() string  { return pruneLongHelp }
func (cmd *pruneCommand) Hidden() bool      { return false }

func (cmd *pruneCommand) Register(fs *flag.FlagSet) {}

func (cmd *pruneCommand) Run(ctx *Ctx, args []string) error {
	pkgs, err := packagesOrAll(ctx, args)
	if err != nil {
		return err
	}

	for _, pkg := range pkgs {
		result, err := install.Prune(ctx.Roots, pkg)
		if err != nil {
			ctx.Log.Warn("pruning %s: %v", pkg.Name, err)
			continue
		}
		ctx.Log.Stage("pruned %s (%d manifests, %d distfiles)", pkg.Name, len(result.Manifests), len(result.Distfiles))
	}
	return nil
}
