// Command server runs the pipeline once at startup, imports the clean dataset
// into the SQLite registry and serves the REST API: record CRUD, findings,
// summary, health and metrics.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"burnreg/internal/config"
	"burnreg/internal/exporter"
	"burnreg/internal/infrastructure"
	"burnreg/internal/operations"
	"burnreg/internal/registry"
	transport "burnreg/internal/transport/http"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	configFile := flag.String("config", "burnreg.yaml", "path to the YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		return err
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	emitter := exporter.New(logger, cfg.Paths.CleanFile, cfg.Paths.ReportFile, cfg.Checks.PreviewRows)
	pipeline := operations.New(logger, cfg.Paths.SourceFile, cfg.Checks.Sets(), emitter)

	result, err := pipeline.Run(ctx)
	if err != nil {
		return err
	}

	store, err := registry.Open(cfg.Paths.DatabaseFile, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	imported, err := store.ImportClean(ctx, result.Clean)
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "registry ready",
		slog.Int("records", imported),
		slog.Int("findings", len(result.Findings)))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      transport.NewRouter(cfg, logger, store, result),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "server listening", slog.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutdown requested")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
