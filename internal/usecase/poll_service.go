package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/riskibarqy/tourney-sheet-sync/internal/domain/sheet"
	"github.com/riskibarqy/tourney-sheet-sync/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// CycleReport summarizes one poll cycle.
type CycleReport struct {
	Reconcile ReconcileStats
	Sheet     SheetSyncResult
	// SheetAbandoned is set when the worksheet rejected access and the rest
	// of the sheet work was skipped.
	SheetAbandoned bool
	// CredentialsRefreshed is set when an expired token was refreshed.
	CredentialsRefreshed bool
}

// PollService drives load, scrape, reconcile, persist and diff-sync in one
// strictly sequential loop.
type PollService struct {
	source    ScrapeSource
	reconcile *ReconcileService
	sheetSync *SheetSyncService
	store     sheet.Store
	interval  time.Duration
	logger    *logging.Logger
}

func NewPollService(
	source ScrapeSource,
	reconcile *ReconcileService,
	sheetSync *SheetSyncService,
	store sheet.Store,
	interval time.Duration,
	logger *logging.Logger,
) *PollService {
	if logger == nil {
		logger = logging.Default()
	}
	if interval <= 0 {
		interval = 120 * time.Second
	}

	return &PollService{
		source:    source,
		reconcile: reconcile,
		sheetSync: sheetSync,
		store:     store,
		interval:  interval,
		logger:    logger,
	}
}

// Run executes cycles until ctx is cancelled. Cycle errors are logged and
// never stop the loop; the next cycle starts one fixed interval after the
// previous one finished.
func (s *PollService) Run(ctx context.Context) error {
	for {
		if _, err := s.RunOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.ErrorContext(ctx, "poll cycle failed", "error", err)
		}
		s.logger.InfoContext(ctx, "finished update, waiting", "interval", s.interval.String())

		timer := time.NewTimer(s.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// RunOnce executes a single cycle. Sheet access rejections are handled here
// and do not surface as errors.
func (s *PollService) RunOnce(ctx context.Context) (CycleReport, error) {
	ctx, span := startCycleSpan(ctx, "usecase.PollService.RunOnce")
	defer span.End()

	var report CycleReport

	idx, err := s.reconcile.Load(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load index")
		return report, fmt.Errorf("load index: %w", err)
	}

	snap, err := s.source.Scrape(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "scrape")
		return report, fmt.Errorf("%w: scrape event pages: %w", ErrDependencyUnavailable, err)
	}
	span.SetAttributes(
		attribute.Int("scrape.teams", len(snap.Teams)),
		attribute.Int("scrape.results", len(snap.Results)),
		attribute.Int("scrape.live", len(snap.Live)),
		attribute.Int("scrape.upcoming", len(snap.Upcoming)),
	)

	stats, err := s.reconcile.Apply(ctx, idx, snap)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reconcile")
		return report, fmt.Errorf("reconcile snapshot: %w", err)
	}
	report.Reconcile = stats

	if err := s.reconcile.Persist(ctx, idx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist")
		return report, fmt.Errorf("persist index: %w", err)
	}

	result, err := s.sheetSync.Sync(ctx, idx)
	report.Sheet = result
	if err == nil {
		return report, nil
	}

	accessErr, ok := sheet.AsAccessError(err)
	if !ok {
		span.RecordError(err)
		span.SetStatus(codes.Error, "sheet sync")
		return report, fmt.Errorf("sync sheet: %w", err)
	}

	report.SheetAbandoned = true
	span.SetAttributes(attribute.Int("sheet.rejection_code", accessErr.Code))
	if !accessErr.CredentialsExpired() {
		s.logger.ErrorContext(ctx, "unhandled sheet access rejection",
			"code", accessErr.Code,
			"message", accessErr.Message,
		)
		return report, nil
	}

	s.logger.WarnContext(ctx, "sheet access token expired, refreshing credentials")
	if err := s.store.RefreshCredentials(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return report, err
		}
		s.logger.ErrorContext(ctx, "refresh sheet credentials failed", "error", err)
		return report, nil
	}
	report.CredentialsRefreshed = true
	return report, nil
}
