package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/Toxikuu/to/versionfetch"
)

const vfShortHelp = `Fetch the latest upstream version for a package`
const vfLongHelp = `
Probe each package's upstream for its latest version, using the cached
result if it is fresh. With no packages given, probes every known
recipe.
`

type vfCommand struct {
	outdatedOnly bool
	ignoreCache  bool
}

func (cmd *vfCommand) Name() string      { return "vf" }
func (cmd *vfCommand) Args() string      { return "[package...]" }
func (cmd *vfCommand) ShortHelp() string { return vfShortHelp }
func (cmd *vfCommand) LongHelp() string  { return vfLongHelp }
func (cmd *vfCommand) Hidden() bool      { return false }

func (cmd *vfCommand) Register(fs *flag.FlagSet) {
	fs.BoolVar(&cmd.outdatedOnly, "outdated-only", false, "only print packages with a newer upstream version")
	fs.BoolVar(&cmd.ignoreCache, "ignore-cache", false, "bypass the version-fetch cache")
}

func (cmd *vfCommand) Run(ctx *Ctx, args []string) error {
	pkgs, err := packagesOrAll(ctx, args)
	if err != nil {
		return err
	}

	outcomes := versionfetch.FetchAll(context.Background(), ctx.Roots, pkgs, cmd.ignoreCache)
	for _, o := range outcomes {
		if o.Err != nil {
			ctx.Log.Warn("version-fetching %s: %v", o.Name, o.Err)
			continue
		}
		if cmd.outdatedOnly && o.Result.IsCurrent {
			continue
		}
		fmt.Fprintf(ctx.Out, "%s: %s -> %s (current: %t)\n", o.Result.Name, o.Result.Local, o.Result.Upstream, o.Result.IsCurrent)
	}
	return nil
}
