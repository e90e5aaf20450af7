package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/riskibarqy/tourney-sheet-sync/internal/app"
	"github.com/riskibarqy/tourney-sheet-sync/internal/config"
	"github.com/riskibarqy/tourney-sheet-sync/internal/observability"
	"github.com/riskibarqy/tourney-sheet-sync/internal/platform/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	envFile := strings.TrimSpace(os.Getenv("APP_ENV_FILE"))
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load env file %s: %v\n", envFile, err)
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}

	logger := app.NewLogger(cfg)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	mode := "loop"
	if len(os.Args) > 1 {
		mode = strings.ToLower(strings.TrimSpace(os.Args[1]))
	}
	if mode != "loop" && mode != "once" {
		logger.Error("unknown mode, expected loop or once", "mode", mode)
		return 2
	}

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		return 1
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Warn("shutdown uptrace", "error", err)
		}
	}()

	stopProfiling, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		return 1
	}
	defer func() {
		if err := stopProfiling(); err != nil {
			logger.Warn("stop pyroscope", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	syncer, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("build syncer", "error", err)
		return 1
	}
	defer func() {
		if err := syncer.Close(); err != nil {
			logger.Warn("close store", "error", err)
		}
	}()

	if mode == "once" {
		report, err := syncer.RunOnce(ctx)
		if err != nil {
			logger.Error("sync cycle failed", "error", err)
			return 1
		}
		logger.Info("sync cycle finished",
			"matches_created", report.Reconcile.MatchesCreated,
			"matches_updated", report.Reconcile.MatchesUpdated,
			"rows_updated", report.Sheet.RowsUpdated,
			"rows_appended", report.Sheet.RowsAppended,
			"sheet_abandoned", report.SheetAbandoned,
		)
		return 0
	}

	logger.Info("syncer starting", "event_id", cfg.EventID, "interval", cfg.PollInterval)
	if err := syncer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("syncer stopped", "error", err)
		return 1
	}
	logger.Info("syncer stopped")
	return 0
}
