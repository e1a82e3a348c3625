package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"aiview/internal/config"
	"aiview/internal/infrastructure/aiprovider"
	"aiview/internal/infrastructure/scheduler"
	"aiview/internal/infrastructure/scraper"
	"aiview/internal/infrastructure/storage"
	"aiview/internal/logging"
	"aiview/internal/ports"
	"aiview/internal/server"
	"aiview/internal/usecase"
)

const shutdownTimeout = 5 * time.Second

// Options selects one-shot modes of the binary.
type Options struct {
	// RunOnce executes a single pipeline run and exits.
	RunOnce bool
	// Purge deletes all stored articles and exits.
	Purge bool
}

// Application wires configuration to the store, pipeline, scheduler and
// read API. A provider misconfiguration disables the ingest pipeline but
// keeps the read API serving already-persisted data.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	store    *storage.PostgresStore
	provider ports.AIProvider
	pipeline *usecase.Pipeline
	server   *server.Server
	cron     ports.Scheduler
}

// New builds a runnable application instance.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	store, err := storage.Open(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureSchema(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}

	a := &Application{
		cfg:    cfg,
		logger: baseLogger,
		store:  store,
		server: server.New(cfg.Server.Addr, cfg.Server.StaticDir, store, baseLogger.With("component", "server")),
	}

	provider, err := aiprovider.New(ctx, cfg.AI, baseLogger.With("component", "aiprovider"))
	if err != nil {
		baseLogger.Error("ai provider unavailable, ingest pipeline disabled", "error", err)
		return a, nil
	}
	a.provider = provider

	source := scraper.New(nil, baseLogger.With("component", "scraper"))
	summarizer := usecase.NewSummaryService(provider, baseLogger.With("component", "summarizer"))

	a.pipeline = usecase.NewPipeline(usecase.PipelineDeps{
		Source:     source,
		Summarizer: summarizer,
		Store:      store,
		SourceURL:  cfg.Scraper.SourceURL,
		Logger:     baseLogger.With("component", "pipeline"),
	})
	a.cron = scheduler.New(cfg.Scheduler.CronExpression, cfg.Scheduler.Location())

	return a, nil
}

// Run starts the read API and the scheduled pipeline, then blocks until the
// context is cancelled. One-shot modes run their task and return directly.
func (a *Application) Run(ctx context.Context, opts Options) error {
	defer a.close()

	if opts.Purge {
		deleted, err := a.store.Purge(ctx)
		if err != nil {
			return err
		}
		a.logger.Info("purged stored articles", "deleted", deleted)
		return nil
	}

	if opts.RunOnce {
		if a.pipeline == nil {
			return errors.New("ingest pipeline is disabled, check ai provider configuration")
		}
		return a.pipeline.Run(ctx)
	}

	a.server.Start()

	if a.pipeline != nil {
		if err := a.cron.Start(func() {
			a.logger.Info("scheduled trigger fired")
			a.runPipeline(ctx)
		}); err != nil {
			return err
		}
		a.logger.Info("pipeline scheduled", "cron", a.cfg.Scheduler.CronExpression)

		if a.cfg.Scheduler.RunOnStartEnabled() {
			a.runPipeline(ctx)
		}
	}

	<-ctx.Done()
	a.logger.Info("shutting down")

	if a.cron != nil {
		a.cron.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return a.server.Shutdown(shutdownCtx)
}

// runPipeline executes one ingest run in scheduled mode, where no caller is
// left to report the error. Aborted runs (store lookup failure, panic) must
// still land in the log.
func (a *Application) runPipeline(ctx context.Context) {
	if err := a.pipeline.Run(ctx); err != nil {
		a.logger.Error("pipeline run failed", "error", err)
	}
}

func (a *Application) close() {
	if closer, ok := a.provider.(io.Closer); ok {
		_ = closer.Close()
	}
	if err := a.store.Close(); err != nil {
		a.logger.Error("close store", "error", err)
	}
}
