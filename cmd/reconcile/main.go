package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/riskibarqy/fantasy-rankings/internal/app"
	"github.com/riskibarqy/fantasy-rankings/internal/config"
	"github.com/riskibarqy/fantasy-rankings/internal/observability"
	"github.com/riskibarqy/fantasy-rankings/internal/platform/logging"
	"github.com/riskibarqy/fantasy-rankings/internal/usecase"
)

// redactedLogKeys never reach log output in clear text.
var redactedLogKeys = []string{"espn_s2", "swid", "db_url", "uptrace_dsn"}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(logging.Options{
		Level:   cfg.LogLevel,
		Output:  os.Stderr,
		Service: cfg.ServiceName,
		Env:     cfg.AppEnv,
		Redact:  redactedLogKeys,
	})
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	os.Exit(execute(cfg, logger, os.Args[1:]))
}

func execute(cfg config.Config, logger *logging.Logger, args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		return 1
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("uptrace shutdown failed", "error", err)
		}
	}()

	stopProfiling, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		return 1
	}
	defer func() { _ = stopProfiling() }()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		return 1
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Warn("close app", "error", err)
		}
	}()

	observability.TagCommand(ctx, args[0], func(ctx context.Context) {
		err = run(ctx, application, args, os.Stdout)
	})
	if err != nil {
		if errors.Is(err, errUsage) {
			printUsage()
			return 2
		}
		logger.ErrorContext(ctx, "command failed", "command", args[0], "error", err)
		return exitCode(err)
	}
	return 0
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return 2
	case errors.Is(err, usecase.ErrNotFound):
		return 3
	case errors.Is(err, usecase.ErrDependencyUnavailable):
		return 4
	default:
		return 1
	}
}
