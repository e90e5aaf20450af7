package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/riskibarqy/tourney-sheet-sync/external/gsheets"
	"github.com/riskibarqy/tourney-sheet-sync/external/hltv"
	"github.com/riskibarqy/tourney-sheet-sync/internal/config"
	"github.com/riskibarqy/tourney-sheet-sync/internal/platform/logging"
	"github.com/riskibarqy/tourney-sheet-sync/internal/platform/resilience"
	"github.com/riskibarqy/tourney-sheet-sync/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// App is the wired syncer process.
type App struct {
	poller *usecase.PollService
	logger *logging.Logger
	closer func() error
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repos, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", usecase.ErrStoreUnavailable, err)
	}

	scraper := hltv.NewClient(hltv.ClientConfig{
		HTTPClient: &http.Client{
			Timeout:   cfg.HLTVTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		BaseURL:       cfg.HLTVBaseURL,
		UserAgent:     cfg.HLTVUserAgent,
		Timeout:       cfg.HLTVTimeout,
		MaxRetries:    cfg.HLTVMaxRetries,
		EventID:       cfg.EventID,
		LookaheadDays: cfg.LookaheadDays,
		Logger:        logger.Named("hltv"),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.HLTVCircuitEnabled,
			FailureThreshold: cfg.HLTVCircuitFailureCount,
			OpenTimeout:      cfg.HLTVCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.HLTVCircuitHalfOpenMaxReq,
		},
	})

	sheetStore, err := gsheets.NewClient(ctx, gsheets.ClientConfig{
		SpreadsheetKey:  cfg.SheetKey,
		WorksheetIndex:  cfg.SheetWorksheetIndex,
		CredentialsFile: cfg.GoogleCredentialsFile,
		Timeout:         cfg.SheetsTimeout,
		Logger:          logger.Named("gsheets"),
	})
	if err != nil {
		return nil, errors.Join(fmt.Errorf("open sheets client: %w", err), closeStore())
	}

	reconcileSvc := usecase.NewReconcileService(repos.matches, repos.teams, repos.definitions, logger.Named("reconcile"))
	sheetSyncSvc := usecase.NewSheetSyncService(sheetStore, usecase.SheetSyncConfig{
		MaxRow:       cfg.SheetMaxRow,
		DateLocation: cfg.SheetDateLocation,
		DumpDir:      cfg.SheetDumpDir,
	}, logger.Named("sheet"))
	poller := usecase.NewPollService(scraper, reconcileSvc, sheetSyncSvc, sheetStore, cfg.PollInterval, logger.Named("poll"))

	logger.Info("syncer wired",
		"event_id", cfg.EventID,
		"store_driver", cfg.StoreDriver,
		"worksheet_index", cfg.SheetWorksheetIndex,
		"poll_interval", cfg.PollInterval,
	)

	return &App{poller: poller, logger: logger, closer: closeStore}, nil
}

// Run polls until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	return a.poller.Run(ctx)
}

// RunOnce executes a single cycle.
func (a *App) RunOnce(ctx context.Context) (usecase.CycleReport, error) {
	return a.poller.RunOnce(ctx)
}

func (a *App) Close() error {
	if a == nil || a.closer == nil {
		return nil
	}
	return a.closer()
}

// NewLogger builds the process logger: console lines in dev, JSON elsewhere.
func NewLogger(cfg config.Config) *logging.Logger {
	format := logging.FormatJSON
	if cfg.AppEnv == config.EnvDev {
		format = logging.FormatConsole
	}
	return logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: format,
		Fields: []any{"service", cfg.ServiceName, "version", cfg.ServiceVersion},
	})
}
