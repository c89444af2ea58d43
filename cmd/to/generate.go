package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Toxikuu/to/pkgmodel"
)

const generateShortHelp = `Serialize package metadata into its "s" file`
const generateLongHelp = `
Regenerate the "s" file for one or more packages from the Package
record already held in memory.
`

type generateCommand struct{}

func (cmd *generateCommand) Name() string      { return "generate" }
func (cmd *generateCommand) Args() string      { return "<package...>" }
func (cmd *generateCommand) ShortHelp() string { return generateShortHelp }
func (cmd *generateCommand) LongHelp() string  { return generateLongHelp }
func (cmd *generateCommand) Hidden() bool      { return false }

func (cmd *generateCommand) Register(fs *flag.FlagSet) {}

func (cmd *generateCommand) Run(ctx *Ctx, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("generate: at least one package is required")
	}
	pkgs, err := loadPackages(ctx, args)
	if err != nil {
		return err
	}

	for _, pkg := range pkgs {
		out, err := pkgmodel.Generate(pkg)
		if err != nil {
			return fmt.Errorf("generating %s: %w", pkg.Name, err)
		}
		if err := os.WriteFile(ctx.Roots.SFile(pkg.Name), out, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", pkg.Name, err)
		}
		ctx.Log.Stage("generated %s", pkg.Name)
	}
	return nil
}
