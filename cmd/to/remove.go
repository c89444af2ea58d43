package main

import (
	"flag"
	"fmt"

	"github.com/Toxikuu/to/install"
)

const removeShortHelp = `Remove an installed package`
const removeLongHelp = `
Remove an installed package, deleting only the files unique to it (not
shared with any other installed package's manifest).
`

type removeCommand struct {
	force            bool
	removeCritical   bool
	suppressMessages bool
}

func (cmd *removeCommand) Name() string      { return "remove" }
func (cmd *removeCommand) Args() string      { return "<package...>" }
func (cmd *removeCommand) ShortHelp() string { return removeShortHelp }
func (cmd *removeCommand) LongHelp() string  { return removeLongHelp }
func (cmd *removeCommand) Hidden() bool      { return false }

func (cmd *removeCommand) Register(fs *flag.FlagSet) {
	fs.BoolVar(&cmd.force, "force", false, "remove even if tagged core")
	fs.BoolVar(&cmd.removeCritical, "remove-critical", false, "allow removing a critical package")
	fs.BoolVar(&cmd.suppressMessages, "suppress-messages", false, "don't print the recipe's remove message")
}

func (cmd *removeCommand) Run(ctx *Ctx, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("remove: at least one package is required")
	}
	pkgs, err := loadPackages(ctx, args)
	if err != nil {
		return err
	}

	rm := &install.Remover{Roots: ctx.Roots}
	opts := install.RemoveOptions{
		Force:            cmd.force,
		RemoveCritical:   cmd.removeCritical,
		SuppressMessages: cmd.suppressMessages,
	}

	for _, pkg := range pkgs {
		if err := rm.Remove(pkg, opts); err != nil {
			return fmt.Errorf("removing %s: %w", pkg.Name, err)
		}
		ctx.Log.Stage("removed %s", pkg.Name)
	}
	return nil
}
