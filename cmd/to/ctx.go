package main

import (
	"io"

	"github.com/Toxikuu/to/config"
	"github.com/Toxikuu/to/internal/shellexec"
	"github.com/Toxikuu/to/pkgmodel"
	"github.com/Toxikuu/to/resolve"
	"github.com/Toxikuu/to/tolog"
)

// Persisted state roots, fixed rather than configurable.
const (
	pkgsRoot    = "/var/db/to/pkgs"
	dataRoot    = "/var/db/to/data"
	distRoot    = "/var/cache/to/dist"
	sourcesRoot = "/var/cache/to/sources"
	chrootRoot  = "/var/lib/to/chroot"
	distSrvRoot = "/var/cache/to/dist"
	logFile     = "/var/log/to.log"
)

// Ctx bundles the dependencies every subcommand needs: where to read and
// write on disk, how to log, and the resolver used to expand dependency
// closures.
type Ctx struct {
	Out, Err io.Writer
	Log      *tolog.Logger
	Verbose  bool

	Config config.Config
	Roots  pkgmodel.Roots

	Resolver *resolve.Resolver
}

// NewCtx loads configuration from cfgPath (or config.DefaultPath, if
// empty) and wires up a Ctx. Logging failures never block a command: the
// log file is best-effort and always supplemented by Stderr when
// verbose or LogToConsole is set.
func NewCtx(stdout, stderr io.Writer, verbose bool, cfgPath string) *Ctx {
	if cfgPath == "" {
		cfgPath = config.DefaultPath
	}
	cfg := config.Load(cfgPath)

	roots := pkgmodel.Roots{
		Pkgs:    pkgsRoot,
		Data:    dataRoot,
		Dist:    distRoot,
		Sources: sourcesRoot,
		Chroot:  chrootRoot,
		DistSrv: distSrvRoot,
	}

	level := tolog.ParseLevel(cfg.LogLevel)
	console := cfg.LogToConsole || verbose
	var sink io.Writer = stderr
	if rf, err := tolog.OpenRotatingFile(logFile, cfg.LogMaxSize); err == nil {
		sink = rf
	}
	logger := tolog.New(sink, level, console)
	shellexec.SetLogger(logger)

	return &Ctx{
		Out:      stdout,
		Err:      stderr,
		Log:      logger,
		Verbose:  verbose,
		Config:   cfg,
		Roots:    roots,
		Resolver: resolve.New(pkgmodel.RootsLookup{Roots: roots}),
	}
}

// loadPackages materializes each named package from its "s" file,
// resolving aliases first.
func loadPackages(ctx *Ctx, names []string) ([]pkgmodel.Package, error) {
	pkgs := make([]pkgmodel.Package, 0, len(names))
	for _, name := range names {
		p, err := pkgmodel.FromSFile(ctx.Roots, name)
		if err != nil {
			return nil, err
		}
		pkgs = append(pkgs, p)
	}
	return pkgs, nil
}

// loadAllPackages materializes every recipe directly under the recipes
// root, for the zero-argument "operate on everything" form several
// subcommands support (num_args=0.. in the original CLI).
func loadAllPackages(ctx *Ctx) ([]pkgmodel.Package, error) {
	entries, err := pkgmodel.ScanRecipes(ctx.Roots.Pkgs)
	if err != nil {
		return nil, err
	}
	return loadPackages(ctx, entries)
}
