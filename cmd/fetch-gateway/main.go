package main

import (
	"github.com/dvcrn/go-fetch-adapter/internal/env"
	"github.com/dvcrn/go-fetch-adapter/internal/logger"
	"github.com/dvcrn/go-fetch-adapter/internal/server"
)

func main() {
	port := env.GetOrDefault("PORT", "9877")

	srv := server.NewGateway()

	if err := srv.Start(":" + port); err != nil {
		logger.Get().Fatal().Err(err).Msg("Failed to start server")
	}
}
