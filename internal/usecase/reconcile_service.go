package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/tourney-sheet-sync/internal/domain/definition"
	"github.com/riskibarqy/tourney-sheet-sync/internal/domain/match"
	"github.com/riskibarqy/tourney-sheet-sync/internal/domain/team"
	"github.com/riskibarqy/tourney-sheet-sync/internal/platform/logging"
)

const unknownMapLabel = "?"

// ReconcileStats counts what one snapshot did to the index.
type ReconcileStats struct {
	MatchesCreated     int
	MatchesUpdated     int
	MatchesAbsorbed    int
	TeamsCreated       int
	TeamsUpdated       int
	DefinitionsCreated int
	DefinitionsUpdated int
}

type ReconcileService struct {
	matchRepo match.Repository
	teamRepo  team.Repository
	defRepo   definition.Repository
	validator *SnapshotValidator
	now       func() time.Time
	logger    *logging.Logger
}

func NewReconcileService(
	matchRepo match.Repository,
	teamRepo team.Repository,
	defRepo definition.Repository,
	logger *logging.Logger,
) *ReconcileService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ReconcileService{
		matchRepo: matchRepo,
		teamRepo:  teamRepo,
		defRepo:   defRepo,
		validator: NewSnapshotValidator(),
		now:       time.Now,
		logger:    logger,
	}
}

// Load materializes the stored entities into a fresh index.
func (s *ReconcileService) Load(ctx context.Context) (*Index, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconcileService.Load")
	defer span.End()

	matches, err := s.matchRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list matches: %w", ErrStoreUnavailable, err)
	}
	teams, err := s.teamRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list teams: %w", ErrStoreUnavailable, err)
	}
	defs, err := s.defRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list definitions: %w", ErrStoreUnavailable, err)
	}

	idx := NewIndex()
	idx.Seed(matches, teams, defs)
	s.logger.DebugContext(ctx, "index loaded",
		"matches", len(matches),
		"teams", len(teams),
		"definitions", len(defs),
	)
	return idx, nil
}

// Apply merges snap into idx. The snapshot is validated first so a malformed
// record fails the cycle before anything is touched. Batches are applied as
// teams, results, live, upcoming.
func (s *ReconcileService) Apply(ctx context.Context, idx *Index, snap Snapshot) (ReconcileStats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconcileService.Apply")
	defer span.End()

	if idx == nil {
		return ReconcileStats{}, fmt.Errorf("%w: index is required", ErrInvalidInput)
	}
	if err := s.validator.Validate(ctx, snap); err != nil {
		return ReconcileStats{}, err
	}

	var stats ReconcileStats
	now := s.now()

	for _, rec := range snap.Teams {
		s.applyTeam(idx, rec, &stats)
	}
	for _, rec := range snap.Results {
		s.applyResult(idx, rec, &stats)
	}
	for _, rec := range snap.Live {
		s.applyLive(idx, rec, now, &stats)
	}
	for _, rec := range snap.Upcoming {
		s.applyUpcoming(idx, rec, &stats)
	}

	s.logger.InfoContext(ctx, "snapshot reconciled",
		"matches_created", stats.MatchesCreated,
		"matches_updated", stats.MatchesUpdated,
		"matches_absorbed", stats.MatchesAbsorbed,
		"teams_created", stats.TeamsCreated,
		"teams_updated", stats.TeamsUpdated,
		"definitions_created", stats.DefinitionsCreated,
		"definitions_updated", stats.DefinitionsUpdated,
	)
	return stats, nil
}

// Persist flushes pending entities to the store.
func (s *ReconcileService) Persist(ctx context.Context, idx *Index) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconcileService.Persist")
	defer span.End()

	matches, teams, defs := idx.Pending()
	if len(matches)+len(teams)+len(defs) == 0 {
		s.logger.DebugContext(ctx, "nothing to persist")
		return nil
	}

	for _, item := range matches {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
	}
	for _, item := range teams {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
	}
	for _, item := range defs {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
	}

	if len(teams) > 0 {
		if err := s.teamRepo.UpsertMany(ctx, teams); err != nil {
			return fmt.Errorf("upsert teams count=%d: %w", len(teams), err)
		}
	}
	if len(defs) > 0 {
		if err := s.defRepo.UpsertMany(ctx, defs); err != nil {
			return fmt.Errorf("upsert definitions count=%d: %w", len(defs), err)
		}
	}
	if len(matches) > 0 {
		if err := s.matchRepo.UpsertMany(ctx, matches); err != nil {
			return fmt.Errorf("upsert matches count=%d: %w", len(matches), err)
		}
	}

	idx.MarkFlushed()
	s.logger.InfoContext(ctx, "index persisted",
		"matches", len(matches),
		"teams", len(teams),
		"definitions", len(defs),
	)
	return nil
}

func (s *ReconcileService) applyTeam(idx *Index, rec TeamRecord, stats *ReconcileStats) {
	name := rec.Name
	created, changed := idx.upsertTeam(rec.TeamID, team.Patch{Name: &name})
	countUpsert(created, changed, &stats.TeamsCreated, &stats.TeamsUpdated)

	created, changed = idx.upsertTeamDefinition(rec.TeamID, rec.Name)
	countUpsert(created, changed, &stats.DefinitionsCreated, &stats.DefinitionsUpdated)
}

func (s *ReconcileService) applyResult(idx *Index, rec ResultRecord, stats *ReconcileStats) {
	ts := match.NormalizeTimestamp(rec.ScheduledAt)
	state := match.StateFinished
	team1, team2 := rec.Team1, rec.Team2
	score1, score2 := rec.Score1, rec.Score2
	mapLabel := rec.Map

	created, changed := idx.upsertMatch(rec.MatchID, match.Patch{
		ScheduledAt: &ts,
		State:       &state,
		Team1:       &team1,
		Team2:       &team2,
		Score1:      &score1,
		Score2:      &score2,
		Map:         &mapLabel,
	})
	countUpsert(created, changed, &stats.MatchesCreated, &stats.MatchesUpdated)
}

func (s *ReconcileService) applyLive(idx *Index, rec LiveRecord, now time.Time, stats *ReconcileStats) {
	team1, team2 := rec.Team1, rec.Team2
	if s.absorbed(idx, rec.MatchID, match.StateLive) {
		_, changed := idx.upsertMatch(rec.MatchID, match.Patch{Team1: &team1, Team2: &team2})
		countAbsorbed(changed, stats)
		return
	}

	var stored *int64
	if existing, ok := idx.Match(rec.MatchID); ok && existing.ScheduledAt != 0 {
		stored = &existing.ScheduledAt
	}
	ts := match.ResolveTimestamp(stored, now)
	state := match.StateLive
	score1, score2 := rec.Score1, rec.Score2
	mapLabel := rec.Map

	created, changed := idx.upsertMatch(rec.MatchID, match.Patch{
		ScheduledAt: &ts,
		State:       &state,
		Team1:       &team1,
		Team2:       &team2,
		Score1:      &score1,
		Score2:      &score2,
		Map:         &mapLabel,
	})
	countUpsert(created, changed, &stats.MatchesCreated, &stats.MatchesUpdated)
}

func (s *ReconcileService) applyUpcoming(idx *Index, rec UpcomingRecord, stats *ReconcileStats) {
	team1, team2 := rec.Team1, rec.Team2
	if s.absorbed(idx, rec.MatchID, match.StateUpcoming) {
		_, changed := idx.upsertMatch(rec.MatchID, match.Patch{Team1: &team1, Team2: &team2})
		countAbsorbed(changed, stats)
		return
	}

	ts := match.NormalizeTimestamp(rec.ScheduledAt)
	state := match.StateUpcoming
	mapLabel := rec.Map
	if mapLabel == "" {
		mapLabel = unknownMapLabel
	}

	created, changed := idx.upsertMatch(rec.MatchID, match.Patch{
		ScheduledAt: &ts,
		State:       &state,
		Team1:       &team1,
		Team2:       &team2,
		Map:         &mapLabel,
	})
	countUpsert(created, changed, &stats.MatchesCreated, &stats.MatchesUpdated)
}

// absorbed reports whether an observation tagged next arrives for a match
// that already finished. Such observations only refresh team names.
func (s *ReconcileService) absorbed(idx *Index, id int64, next match.State) bool {
	existing, ok := idx.Match(id)
	return ok && !existing.State.Accepts(next)
}

func countUpsert(created, changed bool, createdCount, updatedCount *int) {
	switch {
	case created:
		*createdCount++
	case changed:
		*updatedCount++
	}
}

func countAbsorbed(changed bool, stats *ReconcileStats) {
	stats.MatchesAbsorbed++
	if changed {
		stats.MatchesUpdated++
	}
}
