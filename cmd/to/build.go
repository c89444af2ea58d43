package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/Toxikuu/to/build"
	"github.com/Toxikuu/to/fetch"
	"github.com/Toxikuu/to/pkgmodel"
)

const buildShortHelp = `Build a package from source`
const buildLongHelp = `
Run the overlay build lifecycle for one or more packages: clean and set
up the overlay, fetch sources, populate the chroot, run the recipe, and
save a distfile. Builds are never concurrent with each other.
`

type buildCommand struct {
	force bool
}

func (cmd *buildCommand) Name() string      { return "build" }
func (cmd *buildCommand) Args() string      { return "<package...>" }
func (cmd *buildCommand) ShortHelp() string { return buildShortHelp }
func (cmd *buildCommand) LongHelp() string  { return buildLongHelp }
func (cmd *buildCommand) Hidden() bool      { return false }

func (cmd *buildCommand) Register(fs *flag.FlagSet) {
	fs.BoolVar(&cmd.force, "force", false, "rebuild even if the distfile looks current")
}

func (cmd *buildCommand) Run(ctx *Ctx, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("build: at least one package is required")
	}
	pkgs, err := loadPackages(ctx, args)
	if err != nil {
		return err
	}

	aliases, err := pkgmodel.ScanAliases(ctx.Roots.Pkgs)
	if err != nil {
		return err
	}

	builder := &build.Builder{
		Roots:        ctx.Roots,
		Resolver:     ctx.Resolver,
		Fetcher:      fetch.New(ctx.Roots.Sources),
		StageArchive: ctx.Config.Stagefile,
		HostResolv:   "/etc/resolv.conf",
		HostConfig:   "/etc/to/config.toml",
		Aliases:      aliases,
	}

	background := context.Background()
	for _, pkg := range pkgs {
		if err := builder.Build(background, pkg, cmd.force); err != nil {
			if _, soft := err.(*build.ShouldntBuildError); soft {
				ctx.Log.Stage("not rebuilding %s, pass -force or edit its recipe", pkg.Name)
				continue
			}
			return fmt.Errorf("building %s: %w", pkg.Name, err)
		}
		ctx.Log.Stage("built %s", pkgmodel.Summarize(pkg))
	}
	return nil
}
