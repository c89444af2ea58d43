// Command to is a source-based package manager for a single-host Linux
// install. It is a thin wrapper: every subcommand materializes one or
// more Packages from on-disk recipes and invokes exactly one core
// operation (pkgmodel, resolve, fetch, build, install, versionfetch,
// transport).
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
)

// command is implemented by every subcommand this CLI registers.
type command interface {
	Name() string           // "build"
	Args() string           // "<package...>"
	ShortHelp() string      // "Build a package from source"
	LongHelp() string       // the long-form help text
	Register(*flag.FlagSet) // command-specific flags
	Hidden() bool           // omit from the top-level usage listing
	Run(*Ctx, []string) error
}

func main() {
	wd, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, "to: failed to get working directory:", err)
		os.Exit(1)
	}
	c := &Config{
		Args:       os.Args,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		WorkingDir: wd,
		Env:        os.Environ(),
	}
	os.Exit(c.Run())
}

// Config specifies a full configuration for one execution of the tool.
type Config struct {
	WorkingDir     string
	Args           []string
	Env            []string
	Stdout, Stderr io.Writer
}

// Run dispatches Config.Args to a registered command and returns an exit
// code.
func (c *Config) Run() (exitCode int) {
	commands := []command{
		&installCommand{},
		&removeCommand{},
		&buildCommand{},
		&pullCommand{},
		&pushCommand{},
		&vfCommand{},
		&pruneCommand{},
		&generateCommand{},
		&lintCommand{},
		&viewCommand{},
		&serveCommand{},
	}

	examples := [][2]string{
		{"to build firefox", "build firefox from source into a distfile"},
		{"to install firefox", "install firefox and its install closure"},
		{"to vf --outdated-only", "show every package with a newer upstream version"},
		{"to serve", "run the distfile server on the configured address"},
	}

	usage := func() {
		fmt.Fprintln(c.Stderr, "to manages source-built packages for a single host")
		fmt.Fprintln(c.Stderr)
		fmt.Fprintln(c.Stderr, "Usage: to <command>")
		fmt.Fprintln(c.Stderr)
		fmt.Fprintln(c.Stderr, "Commands:")
		fmt.Fprintln(c.Stderr)
		w := tabwriter.NewWriter(c.Stderr, 0, 4, 2, ' ', 0)
		for _, cmd := range commands {
			if !cmd.Hidden() {
				fmt.Fprintf(w, "\t%s\t%s\n", cmd.Name(), cmd.ShortHelp())
			}
		}
		w.Flush()
		fmt.Fprintln(c.Stderr)
		fmt.Fprintln(c.Stderr, "Examples:")
		for _, ex := range examples {
			fmt.Fprintf(w, "\t%s\t%s\n", ex[0], ex[1])
		}
		w.Flush()
		fmt.Fprintln(c.Stderr)
		fmt.Fprintln(c.Stderr, `Use "to help <command>" for more information about a command.`)
	}

	cmdName, printCmdHelp, exit := parseArgs(c.Args)
	if exit {
		usage()
		exitCode = 1
		return
	}

	for _, cmd := range commands {
		if cmd.Name() != cmdName {
			continue
		}

		fs := flag.NewFlagSet(cmdName, flag.ContinueOnError)
		fs.SetOutput(c.Stderr)
		verbose := fs.Bool("v", false, "enable verbose logging")
		cfgPath := fs.String("config", "", "path to config.toml (default: /etc/to/config.toml)")

		cmd.Register(fs)
		resetUsage(c.Stderr, fs, cmdName, cmd.Args(), cmd.LongHelp())

		if printCmdHelp {
			fs.Usage()
			exitCode = 1
			return
		}

		if err := fs.Parse(c.Args[2:]); err != nil {
			exitCode = 1
			return
		}

		ctx := NewCtx(c.Stdout, c.Stderr, *verbose, *cfgPath)

		if err := cmd.Run(ctx, fs.Args()); err != nil {
			fmt.Fprintf(c.Stderr, "to %s: %v\n", cmdName, err)
			exitCode = 1
			return
		}
		return
	}

	fmt.Fprintf(c.Stderr, "to: %s: no such command\n", cmdName)
	usage()
	exitCode = 1
	return
}

func resetUsage(stderr io.Writer, fs *flag.FlagSet, name, args, longHelp string) {
	var (
		hasFlags   bool
		flagBlock  bytes.Buffer
		flagWriter = tabwriter.NewWriter(&flagBlock, 0, 4, 2, ' ', 0)
	)
	fs.VisitAll(func(f *flag.Flag) {
		hasFlags = true
		defValue := f.DefValue
		if defValue == "" {
			defValue = "<none>"
		}
		fmt.Fprintf(flagWriter, "\t-%s\t%s (default: %s)\n", f.Name, f.Usage, defValue)
	})
	flagWriter.Flush()
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: to %s %s\n", name, args)
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, strings.TrimSpace(longHelp))
		fmt.Fprintln(stderr)
		if hasFlags {
			fmt.Fprintln(stderr, "Flags:")
			fmt.Fprintln(stderr)
			fmt.Fprintln(stderr, flagBlock.String())
		}
	}
}

// parseArgs determines the subcommand name and whether the user asked
// for its help text.
func parseArgs(args []string) (cmdName string, printCmdUsage bool, exit bool) {
	isHelpArg := func() bool {
		return strings.Contains(strings.ToLower(args[1]), "help") || strings.ToLower(args[1]) == "-h"
	}

	switch len(args) {
	case 0, 1:
		exit = true
	case 2:
		if isHelpArg() {
			exit = true
		}
		cmdName = args[1]
	default:
		if isHelpArg() {
			cmdName = args[2]
			printCmdUsage = true
		} else {
			cmdName = args[1]
		}
	}
	return cmdName, printCmdUsage, exit
}
