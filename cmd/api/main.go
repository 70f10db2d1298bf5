package main

import (
	"os"

	"github.com/easepay/easepay/internal/pkg/logger"
	"github.com/easepay/easepay/internal/server"
)

// @title EasePay API
// @version 1.0
// @description Payment tracking backend for student dues

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
