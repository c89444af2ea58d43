package main

import (
	"flag"
	"net/http"

	"github.com/Toxikuu/to/transport"
)

const serveShortHelp = `Run a distfile server`
const serveLongHelp = `
Serve the distribution directory over HTTP for other hosts' pull/push
commands. There is no authentication; run this only on a trusted
network.
`

type serveCommand struct {
	addr string
}

func (cmd *serveCommand) Name() string      { return "serve" }
func (cmd *serveCommand) Args() string      { return "" }
func (cmd *serveCommand) ShortHelp() string { return serveShortHelp }
func (cmd *serveCommand) LongHelp() string  { return serveLongHelp }
func (cmd *serveCommand) Hidden() bool      { return false }

func (cmd *serveCommand) Register(fs *flag.FlagSet) {
	fs.StringVar(&cmd.addr, "addr", "", "bind address (default: the configured server_address)")
}

func (cmd *serveCommand) Run(ctx *Ctx, args []string) error {
	addr := cmd.addr
	if addr == "" {
		addr = ctx.Config.ServerAddress
	}

	srv := &transport.Server{DistDir: ctx.Roots.DistSrv}
	ctx.Log.Stage("serving %s on %s", ctx.Roots.DistSrv, addr)
	return http.ListenAndServe(addr, srv.Handler())
}
