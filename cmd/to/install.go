package main

import (
	"flag"
	"fmt"

	"github.com/Toxikuu/to/install"
	"github.com/Toxikuu/to/pkgmodel"
)

const installShortHelp = `Install a package from its distfile`
const installLongHelp = `
Install one or more packages and their install closure from the
distfiles already built for them. Fails if a package has no distfile.
`

type installCommand struct {
	force            bool
	fullForce        bool
	suppressMessages bool
	root             string
}

func (cmd *installCommand) Name() string      { return "install" }
func (cmd *installCommand) Args() string      { return "<package...>" }
func (cmd *installCommand) ShortHelp() string { return installShortHelp }
func (cmd *installCommand) LongHelp() string  { return installLongHelp }
func (cmd *installCommand) Hidden() bool      { return false }

func (cmd *installCommand) Register(fs *flag.FlagSet) {
	fs.BoolVar(&cmd.force, "force", false, "reinstall even if already installed at this version")
	fs.BoolVar(&cmd.fullForce, "full-force", false, "force reinstall of every dependency too")
	fs.BoolVar(&cmd.suppressMessages, "suppress-messages", false, "don't print the recipe's install message")
	fs.StringVar(&cmd.root, "root", "", "alternate install root (default: /)")
}

func (cmd *installCommand) Run(ctx *Ctx, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("install: at least one package is required")
	}
	pkgs, err := loadPackages(ctx, args)
	if err != nil {
		return err
	}

	inst := &install.Installer{Roots: ctx.Roots, Resolver: ctx.Resolver}
	opts := install.Options{
		Force:            cmd.force,
		FullForce:        cmd.fullForce,
		SuppressMessages: cmd.suppressMessages,
		Root:             cmd.root,
	}

	// Batch installs abort on the first hard failure.
	for _, pkg := range pkgs {
		if err := inst.Install(pkg, false, opts); err != nil {
			if _, soft := err.(*install.AlreadyInstalledError); soft {
				ctx.Log.Stage("%s is already installed", pkg.Name)
				continue
			}
			return fmt.Errorf("installing %s: %w", pkg.Name, err)
		}
		ctx.Log.Stage("installed %s", pkgmodel.Summarize(pkg))
	}
	return nil
}
