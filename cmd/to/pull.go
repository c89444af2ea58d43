package main

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"

	"github.com/Toxikuu/to/pkgmodel"
	"github.com/Toxikuu/to/transport"
	"golang.org/x/sync/errgroup"
)

const pullShortHelp = `Pull a package's distfile from the server`
const pullLongHelp = `
Download each package's distfile from the configured server if the
server's copy is newer than the local one, or if there is no local
copy. With no packages given, pulls every known recipe. Failures are
reported per package; the batch does not abort early.
`

type pullCommand struct {
	force bool
}

func (cmd *pullCommand) Name() string      { return "pull" }
func (cmd *pullCommand) Args() string      { return "[package...]" }
func (cmd *pullCommand) ShortHelp() string { return pullShortHelp }
func (cmd *pullCommand) LongHelp() string  { return pullLongHelp }
func (cmd *pullCommand) Hidden() bool      { return false }

func (cmd *pullCommand) Register(fs *flag.FlagSet) {
	fs.BoolVar(&cmd.force, "force", false, "download even if the local copy looks current")
}

func (cmd *pullCommand) Run(ctx *Ctx, args []string) error {
	pkgs, err := packagesOrAll(ctx, args)
	if err != nil {
		return err
	}

	baseURL := serverURL(ctx)
	eg, gctx := errgroup.WithContext(context.Background())
	eg.SetLimit(16)

	for _, pkg := range pkgs {
		pkg := pkg
		eg.Go(func() error {
			client := transport.NewClient(baseURL, ctx.Roots.DistDir(pkg.Name), cmd.force)
			filename := filepath.Base(ctx.Roots.DistFile(pkg.Name, pkg.Version.SR()))
			if err := client.Pull(gctx, filename); err != nil {
				ctx.Log.Warn("pulling %s: %v", pkg.Name, err)
				return nil // per-package failures don't abort the batch
			}
			ctx.Log.Stage("pulled %s", pkg.Name)
			return nil
		})
	}
	return eg.Wait()
}

func serverURL(ctx *Ctx) string {
	return "http://" + ctx.Config.ServerAddress
}

func packagesOrAll(ctx *Ctx, names []string) ([]pkgmodel.Package, error) {
	if len(names) == 0 {
		return loadAllPackages(ctx)
	}
	return loadPackages(ctx, names)
}
