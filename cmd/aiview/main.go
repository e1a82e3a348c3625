package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"aiview/internal/app"
	"aiview/internal/config"
	"aiview/internal/logging"
)

func main() {
	once := flag.Bool("once", false, "run the ingest pipeline once and exit")
	purge := flag.Bool("purge", false, "delete all stored articles and exit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("application startup failed", "error", err)
		os.Exit(1)
	}

	if err := application.Run(ctx, app.Options{RunOnce: *once, Purge: *purge}); err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}
