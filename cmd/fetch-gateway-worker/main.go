//go:build js && wasm

package main

import (
	"github.com/syumai/workers"

	"github.com/dvcrn/go-fetch-adapter/internal/logger"
	"github.com/dvcrn/go-fetch-adapter/internal/server"
)

var srv *server.Server

func init() {
	srv = server.NewGateway()
	logger.Get().Info().Msg("Fetch gateway worker initialized")
}

func main() {
	// Serve using workers - it handles all the HTTP server setup
	workers.Serve(srv)
}
