package main

import (
	"context"
	"flag"
	"path/filepath"

	"github.com/Toxikuu/to/transport"
	"golang.org/x/sync/errgroup"
)

const pushShortHelp = `Push a package's distfile to the server`
const pushLongHelp = `
Upload each package's distfile to the configured server if the local
copy is newer than the server's, or if force is set. With no packages
given, pushes every known recipe. Failures are reported per package.
`

type pushCommand struct {
	force bool
}

func (cmd *pushCommand) Name() string      { return "push" }
func (cmd *pushCommand) Args() string      { return "[package...]" }
func (cmd *pushCommand) ShortHelp() string { return pushShortHelp }
func (cmd *pushCommand) LongHelp() string  { return pushLongHelp }
func (cmd *pushCommand) Hidden() bool      { return false }

func (cmd *pushCommand) Register(fs *flag.FlagSet) {
	fs.BoolVar(&cmd.force, "force", false, "upload even if the server's copy looks current")
}

func (cmd *pushCommand) Run(ctx *Ctx, args []string) error {
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
			if err := client.Push(gctx, filename); err != nil {
				ctx.Log.Warn("pushing %s: %v", pkg.Name, err)
				return nil
			}
			ctx.Log.Stage("pushed %s", pkg.Name)
			return nil
		})
	}
	return eg.Wait()
}
