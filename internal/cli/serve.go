package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/dvcrn/go-fetch-adapter/internal/env"
	"github.com/dvcrn/go-fetch-adapter/internal/server"
)

// ServeCommand runs the fetch gateway.
type ServeCommand struct {
	port string
}

func (*ServeCommand) Name() string     { return "serve" }
func (*ServeCommand) Synopsis() string { return "Run the fetch gateway" }
func (*ServeCommand) Usage() string {
	return `serve [-port N]:
	Serve POST /v1/fetch and GET /healthz. Set GATEWAY_API_KEY to require
	'Authorization: Bearer <key>' or 'X-API-Key: <key>'.
`
}

func (cmd *ServeCommand) SetFlags(f *flag.FlagSet) {
	f.StringVar(&cmd.port, "port", env.GetOrDefault("PORT", "9877"), "port to listen on")
}

func (cmd *ServeCommand) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	srv := server.NewGateway()
	if err := srv.Start(":" + cmd.port); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
