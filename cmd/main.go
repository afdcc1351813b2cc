package main

import (
	"context"
	"errors"
	"os"

	"github.com/urfave/cli/v3"
	"github.com/wyndholt/arcana/internal/services"
	"github.com/wyndholt/arcana/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	var service services.Service
	if svc, err := services.NewOracleService(services.OracleOpts{
		Config:   config.Service,
		PageSize: config.Reading.DeckPageSize,
	}); err != nil {
		logger.Warn("reading service not available", "error", err)
	} else {
		service = svc
	}

	apiService := services.NewAPIService(config.Service.BaseURL, nil)

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Service: service,
		API:     apiService,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "arcana",
		Usage:    "Streamed tarot readings in the terminal",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
