package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"prenomscli/internal/app"
	"prenomscli/internal/config"
	"prenomscli/internal/errors"
	"prenomscli/internal/infrastructure"
	"prenomscli/pkg/contracts"
)

const shutdownTimeout = 5 * time.Second

func main() {
	os.Exit(run(context.Background(), os.Stdout))
}

// run executes one pipeline run and returns the process exit status
func run(ctx context.Context, stdout io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		return 1
	}

	paths, err := config.GetPaths(cfg)
	if err != nil {
		slog.Error("Failed to resolve paths", slog.String("error", err.Error()))
		return 1
	}

	logCfg := cfg.Logging
	logCfg.FilePath = paths.LogFile
	logger, err := infrastructure.InitializeLogger(logCfg)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", slog.String("error", err.Error()))
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx = infrastructure.EnsureTraceID(ctx)
	runID := infrastructure.GetTraceID(ctx)

	version := contracts.GetVersionInfo()
	logger.InfoContext(ctx, "Starting",
		slog.String("name", config.AppName),
		slog.String("version", version.Version),
		slog.String("build", version.String()),
		slog.String("data_format", version.DataFormat),
		slog.String("work_dir", paths.WorkDir))
	paths.LogPathResolution(logger)

	providers, err := infrastructure.InitializeOTel(infrastructure.NewOTelConfig(cfg.Telemetry, paths, runID), logger)
	if err != nil {
		logger.WarnContext(ctx, "Telemetry disabled", slog.String("error", err.Error()))
		providers, _ = infrastructure.InitializeOTel(nil, logger)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.ErrorContext(ctx, "Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	metrics, err := infrastructure.NewPipelineMetrics(providers.Meter)
	if err != nil {
		logger.WarnContext(ctx, "Metrics disabled", slog.String("error", err.Error()))
		metrics = nil
	}

	pipeline := app.New(cfg, paths, logger,
		app.WithReportWriter(stdout),
		app.WithTracer(providers.Tracer),
		app.WithMetrics(metrics),
	)

	if _, err := pipeline.Run(ctx); err != nil {
		logger.ErrorContext(ctx, "Processing failed",
			slog.String("error_type", string(errors.TypeOf(err))),
			slog.String("error", err.Error()))
		return 1
	}
	return 0
}
