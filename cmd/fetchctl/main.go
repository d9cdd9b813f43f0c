package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"

	"github.com/dvcrn/go-fetch-adapter/internal/cli"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(&cli.RequestCommand{}, "")
	subcommands.Register(&cli.ServeCommand{}, "")

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}
