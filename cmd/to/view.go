package main

import (
	"flag"
	"fmt"

	"github.com/Toxikuu/to/pkgmodel"
)

const viewShortHelp = `View information about a package`
const viewLongHelp = `
Print a one-line summary per package, or a table of every known recipe
if none are named.
`

type viewCommand struct {
	dependencies bool
	dependants   bool
}

func (cmd *viewCommand) Name() string      { return "view" }
func (cmd *viewCommand) Args() string      { return "[package...]" }
func (cmd *viewCommand) ShortHelp() string { return viewShortHelp }
func (cmd *viewCommand) LongHelp() string  { return viewLongHelp }
func (cmd *viewCommand) Hidden() bool      { return false }

func (cmd *viewCommand) Register(fs *flag.FlagSet) {
	fs.BoolVar(&cmd.dependencies, "dependencies", false, "also list the package's dependencies")
	fs.BoolVar(&cmd.dependants, "dependants", false, "also list the package's reverse dependencies")
}

func (cmd *viewCommand) Run(ctx *Ctx, args []string) error {
	if len(args) == 0 {
		pkgs, err := loadAllPackages(ctx)
		if err != nil {
			return err
		}
		return pkgmodel.WriteTable(ctx.Out, pkgs)
	}

	pkgs, err := loadPackages(ctx, args)
	if err != nil {
		return err
	}
	for _, pkg := range pkgs {
		fmt.Fprintln(ctx.Out, pkgmodel.Summarize(pkg))

		if cmd.dependencies {
			for _, d := range pkg.Dependencies {
				fmt.Fprintf(ctx.Out, "  dep: %s\n", d.String())
			}
		}
		if cmd.dependants {
			all, err := loadAllPackages(ctx)
			if err != nil {
				return err
			}
			for _, rd := range ctx.Resolver.Dependants(pkg, all) {
				fmt.Fprintf(ctx.Out, "  reverse dep: %s\n", rd.Name)
			}
		}
	}
	return nil
}
