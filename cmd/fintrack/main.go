package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"fintrack/internal/cli"
	"fintrack/internal/config"
	"fintrack/internal/events"
	applog "fintrack/internal/log"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Optional .env for local development
	_ = godotenv.Load()

	cfg := config.Load()

	logger := applog.New(applog.Config{
		Level:     cfg.LogLevel,
		Component: "engine",
	})
	applog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		return 1
	}

	var publisher *events.Client
	if cfg.AMQPURL != "" {
		client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			// Events are best-effort; the command still runs
			slog.Warn("Failed to connect event publisher", "error", err)
		} else {
			publisher = client
			defer publisher.Close()
		}
	}

	app := cli.NewApp(cfg, publisher, os.Stdout)
	return app.Run(context.Background(), os.Args[1:])
}
