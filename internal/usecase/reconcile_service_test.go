package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/riskibarqy/tourney-sheet-sync/internal/domain/definition"
	"github.com/riskibarqy/tourney-sheet-sync/internal/domain/match"
	"github.com/riskibarqy/tourney-sheet-sync/internal/domain/team"
	definitionmock "github.com/riskibarqy/tourney-sheet-sync/internal/mocks/domain/definition"
	matchmock "github.com/riskibarqy/tourney-sheet-sync/internal/mocks/domain/match"
	teammock "github.com/riskibarqy/tourney-sheet-sync/internal/mocks/domain/team"
	"github.com/riskibarqy/tourney-sheet-sync/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

var reconcileNow = time.Date(2026, 10, 18, 15, 4, 5, 0, time.UTC)

func newTestReconcileService(t *testing.T) (*ReconcileService, *matchmock.Repository, *teammock.Repository, *definitionmock.Repository) {
	t.Helper()

	matchRepo := matchmock.NewRepository(t)
	teamRepo := teammock.NewRepository(t)
	defRepo := definitionmock.NewRepository(t)
	svc := NewReconcileService(matchRepo, teamRepo, defRepo, logging.NewNop())
	svc.now = func() time.Time { return reconcileNow }
	return svc, matchRepo, teamRepo, defRepo
}

func sampleSnapshot() Snapshot {
	return Snapshot{
		Teams: []TeamRecord{
			{TeamID: 4608, Name: "Natus Vincere"},
			{TeamID: 9565, Name: "Vitality"},
		},
		Results: []ResultRecord{
			{MatchID: 2370001, ScheduledAt: 1700000000000, Team1: "Natus Vincere", Team2: "Vitality", Score1: 16, Score2: 12, Map: "Inferno"},
		},
		Live: []LiveRecord{
			{MatchID: 2370002, Team1: "FaZe", Team2: "G2", Score1: 1, Score2: 0, Map: "bo3"},
		},
		Upcoming: []UpcomingRecord{
			{MatchID: 2370003, ScheduledAt: 1700100000, Team1: "MOUZ", Team2: "Spirit"},
		},
	}
}

func TestReconcileService_Apply_CreatesEntities(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newTestReconcileService(t)
	idx := NewIndex()

	stats, err := svc.Apply(context.Background(), idx, sampleSnapshot())
	if err != nil {
		t.Fatalf("apply snapshot: %v", err)
	}
	if stats.MatchesCreated != 3 || stats.TeamsCreated != 2 || stats.DefinitionsCreated != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	result, ok := idx.Match(2370001)
	if !ok {
		t.Fatalf("expected result match in index")
	}
	if result.State != match.StateFinished {
		t.Fatalf("unexpected result state %q", result.State)
	}
	if result.ScheduledAt != 1700000000 {
		t.Fatalf("expected millisecond timestamp normalized, got %d", result.ScheduledAt)
	}
	if result.Winner != "Natus Vincere" {
		t.Fatalf("unexpected winner %q", result.Winner)
	}

	live, _ := idx.Match(2370002)
	if live.State != match.StateLive || live.ScheduledAt != reconcileNow.Unix() {
		t.Fatalf("unexpected live match %+v", live)
	}

	upcoming, _ := idx.Match(2370003)
	if upcoming.Map != "?" {
		t.Fatalf("expected unknown map placeholder, got %q", upcoming.Map)
	}
	if upcoming.Score1 != nil || upcoming.Score2 != nil || upcoming.Winner != "" {
		t.Fatalf("expected upcoming match without scores, got %+v", upcoming)
	}

	order := idx.Matches()
	if order[0].ID != 2370001 || order[1].ID != 2370002 || order[2].ID != 2370003 {
		t.Fatalf("unexpected insertion order: %v", order)
	}

	defs := idx.Definitions()
	if len(defs) != 2 || defs[0].DisplayName != "Natus Vincere" || defs[0].Type != definition.TypeTeam {
		t.Fatalf("unexpected team definitions: %+v", defs)
	}
	if idx.PendingCount() != 7 {
		t.Fatalf("expected 7 pending entities, got %d", idx.PendingCount())
	}
}

func TestReconcileService_Apply_IsIdempotent(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newTestReconcileService(t)
	idx := NewIndex()
	snap := sampleSnapshot()

	if _, err := svc.Apply(context.Background(), idx, snap); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	firstMatches := idx.Matches()
	firstTeams := idx.Teams()
	firstDefs := idx.Definitions()
	idx.MarkFlushed()

	svc.now = func() time.Time { return reconcileNow.Add(2 * time.Minute) }
	stats, err := svc.Apply(context.Background(), idx, snap)
	if err != nil {
		t.Fatalf("second apply: %v", err)
	}

	if stats != (ReconcileStats{}) {
		t.Fatalf("expected replay to change nothing, got %+v", stats)
	}
	if !reflect.DeepEqual(firstMatches, idx.Matches()) {
		t.Fatalf("matches changed on replay")
	}
	if !reflect.DeepEqual(firstTeams, idx.Teams()) {
		t.Fatalf("teams changed on replay")
	}
	if !reflect.DeepEqual(firstDefs, idx.Definitions()) {
		t.Fatalf("definitions changed on replay")
	}
	if idx.PendingCount() != 0 {
		t.Fatalf("expected nothing pending after replay, got %d", idx.PendingCount())
	}
}

func TestReconcileService_Apply_LiveKeepsStoredSchedule(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newTestReconcileService(t)
	idx := NewIndex()

	upcoming := Snapshot{Upcoming: []UpcomingRecord{
		{MatchID: 10, ScheduledAt: 1700000000000, Team1: "Alpha", Team2: "Bravo", Map: "Nuke"},
	}}
	if _, err := svc.Apply(context.Background(), idx, upcoming); err != nil {
		t.Fatalf("apply upcoming: %v", err)
	}

	live := Snapshot{Live: []LiveRecord{
		{MatchID: 10, Team1: "Alpha", Team2: "Bravo", Score1: 5, Score2: 9, Map: "nuke"},
	}}
	if _, err := svc.Apply(context.Background(), idx, live); err != nil {
		t.Fatalf("apply live: %v", err)
	}

	got, _ := idx.Match(10)
	if got.ScheduledAt != 1700000000 {
		t.Fatalf("expected stored schedule kept, got %d", got.ScheduledAt)
	}
	if got.State != match.StateLive || got.Map != "nuke" {
		t.Fatalf("unexpected live merge %+v", got)
	}
	if got.Score1 == nil || *got.Score1 != 5 || got.Winner != "Bravo" {
		t.Fatalf("unexpected scores or winner %+v", got)
	}
}

func TestReconcileService_Apply_FinishedIsAbsorbing(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newTestReconcileService(t)
	idx := NewIndex()

	finished := Snapshot{Results: []ResultRecord{
		{MatchID: 20, ScheduledAt: 1700000000, Team1: "Alpha", Team2: "Bravo", Score1: 2, Score2: 0, Map: "bo3"},
	}}
	if _, err := svc.Apply(context.Background(), idx, finished); err != nil {
		t.Fatalf("apply result: %v", err)
	}

	stale := Snapshot{
		Live:     []LiveRecord{{MatchID: 20, Team1: "Alpha", Team2: "Bravo Gaming", Score1: 0, Score2: 1, Map: "bo3"}},
		Upcoming: []UpcomingRecord{{MatchID: 20, ScheduledAt: 1800000000, Team1: "Alpha", Team2: "Bravo Gaming"}},
	}
	stats, err := svc.Apply(context.Background(), idx, stale)
	if err != nil {
		t.Fatalf("apply stale observations: %v", err)
	}
	if stats.MatchesAbsorbed != 2 {
		t.Fatalf("expected two absorbed observations, got %+v", stats)
	}

	got, _ := idx.Match(20)
	if got.State != match.StateFinished {
		t.Fatalf("finished match downgraded to %q", got.State)
	}
	if *got.Score1 != 2 || *got.Score2 != 0 || got.ScheduledAt != 1700000000 {
		t.Fatalf("finished scores or schedule overwritten: %+v", got)
	}
	if got.Team2 != "Bravo Gaming" {
		t.Fatalf("expected team name refresh, got %q", got.Team2)
	}
}

func TestReconcileService_Apply_TieKeepsPreviousWinner(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newTestReconcileService(t)
	idx := NewIndex()
	one := 1
	idx.Seed([]match.Match{{
		ID: 30, Team1: "Alpha", Team2: "Bravo", State: match.StateLive,
		Score1: &one, Score2: new(int), Winner: "Alpha",
	}}, nil, nil)

	snap := Snapshot{Live: []LiveRecord{{MatchID: 30, Team1: "Alpha", Team2: "Bravo", Score1: 1, Score2: 1, Map: "bo3"}}}
	if _, err := svc.Apply(context.Background(), idx, snap); err != nil {
		t.Fatalf("apply: %v", err)
	}

	got, _ := idx.Match(30)
	if got.Winner != "Alpha" {
		t.Fatalf("expected winner untouched on tie, got %q", got.Winner)
	}
}

func TestReconcileService_Apply_TeamRenameKeepsDisplayOverride(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newTestReconcileService(t)
	idx := NewIndex()
	teamID := int64(7020)
	idx.Seed(nil,
		[]team.Team{{ID: teamID, Name: "Spirit"}},
		[]definition.Definition{
			{ID: 1, Type: definition.TypeTeam, TeamID: &teamID, RawName: "Spirit", DisplayName: "Team Spirit"},
			{ID: 2, Type: definition.TypeMap, RawName: "Inferno", DisplayName: "INF"},
		},
	)

	snap := Snapshot{Teams: []TeamRecord{{TeamID: teamID, Name: "Spirit Academy"}}}
	stats, err := svc.Apply(context.Background(), idx, snap)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if stats.TeamsUpdated != 1 || stats.DefinitionsUpdated != 1 || stats.DefinitionsCreated != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	tm, _ := idx.Team(teamID)
	if tm.Name != "Spirit Academy" || len(tm.PreviousAliases) != 1 || tm.PreviousAliases[0] != "Spirit" {
		t.Fatalf("unexpected team after rename: %+v", tm)
	}

	resolver := idx.AliasResolver()
	if got := resolver.Resolve("Spirit Academy", definition.TypeTeam); got != "Team Spirit" {
		t.Fatalf("expected display override to survive rename, got %q", got)
	}
	if got := resolver.Resolve("Inferno", definition.TypeMap); got != "INF" {
		t.Fatalf("unexpected map alias %q", got)
	}
}

func TestReconcileService_Apply_AbsentKeysAreKept(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newTestReconcileService(t)
	idx := NewIndex()
	idx.Seed([]match.Match{{ID: 40, Team1: "Alpha", Team2: "Bravo", State: match.StateUpcoming}}, nil, nil)

	if _, err := svc.Apply(context.Background(), idx, Snapshot{}); err != nil {
		t.Fatalf("apply empty snapshot: %v", err)
	}
	if !idx.HasMatch(40) {
		t.Fatalf("match missing from batch must not be deleted")
	}
}

func TestReconcileService_Apply_RejectsMalformedRecords(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newTestReconcileService(t)
	idx := NewIndex()

	snap := Snapshot{
		Teams:    []TeamRecord{{TeamID: 1, Name: "Alpha"}},
		Upcoming: []UpcomingRecord{{MatchID: 0, ScheduledAt: 1700000000, Team1: "Alpha", Team2: "Bravo"}},
	}
	_, err := svc.Apply(context.Background(), idx, snap)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if len(idx.Teams()) != 0 || idx.PendingCount() != 0 {
		t.Fatalf("index touched by malformed snapshot")
	}
}

func TestReconcileService_Load(t *testing.T) {
	t.Parallel()

	svc, matchRepo, teamRepo, defRepo := newTestReconcileService(t)
	ctx := context.Background()

	matchRepo.On("ListAll", ctx).Return([]match.Match{
		{ID: 1, Team1: "Alpha", Team2: "Bravo", State: match.StateUpcoming},
		{ID: 2, Team1: "Charlie", Team2: "Delta", State: match.StateFinished},
	}, nil).Once()
	teamRepo.On("ListAll", ctx).Return([]team.Team{{ID: 11, Name: "Alpha"}}, nil).Once()
	defRepo.On("ListAll", ctx).Return([]definition.Definition{{ID: 5, Type: definition.TypeMap, RawName: "Nuke", DisplayName: "NK"}}, nil).Once()

	idx, err := svc.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(idx.Matches()) != 2 || len(idx.Teams()) != 1 || len(idx.Definitions()) != 1 {
		t.Fatalf("unexpected index contents")
	}
	if idx.PendingCount() != 0 {
		t.Fatalf("loaded entities must not be pending")
	}
}

func TestReconcileService_Load_StoreFailure(t *testing.T) {
	t.Parallel()

	svc, matchRepo, _, _ := newTestReconcileService(t)
	ctx := context.Background()
	matchRepo.On("ListAll", ctx).Return(nil, errors.New("connection refused")).Once()

	_, err := svc.Load(ctx)
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestReconcileService_Persist_FlushesPending(t *testing.T) {
	t.Parallel()

	svc, matchRepo, teamRepo, defRepo := newTestReconcileService(t)
	ctx := context.Background()
	idx := NewIndex()
	if _, err := svc.Apply(ctx, idx, sampleSnapshot()); err != nil {
		t.Fatalf("apply: %v", err)
	}

	teamRepo.
		On("UpsertMany", ctx, mock.MatchedBy(func(items []team.Team) bool { return len(items) == 2 })).
		Return(nil).
		Once()
	defRepo.
		On("UpsertMany", ctx, mock.MatchedBy(func(items []definition.Definition) bool { return len(items) == 2 })).
		Return(nil).
		Once()
	matchRepo.
		On("UpsertMany", ctx, mock.MatchedBy(func(items []match.Match) bool {
			return len(items) == 3 && items[0].ID == 2370001 && items[2].ID == 2370003
		})).
		Return(nil).
		Once()

	if err := svc.Persist(ctx, idx); err != nil {
		t.Fatalf("persist: %v", err)
	}
	if idx.PendingCount() != 0 {
		t.Fatalf("expected pending set cleared, got %d", idx.PendingCount())
	}

	if err := svc.Persist(ctx, idx); err != nil {
		t.Fatalf("persist with nothing pending: %v", err)
	}
}

func TestReconcileService_Persist_KeepsPendingOnFailure(t *testing.T) {
	t.Parallel()

	svc, matchRepo, _, _ := newTestReconcileService(t)
	ctx := context.Background()
	idx := NewIndex()
	snap := Snapshot{Upcoming: []UpcomingRecord{{MatchID: 50, ScheduledAt: 1700000000, Team1: "Alpha", Team2: "Bravo"}}}
	if _, err := svc.Apply(ctx, idx, snap); err != nil {
		t.Fatalf("apply: %v", err)
	}

	matchRepo.On("UpsertMany", ctx, mock.Anything).Return(errors.New("deadlock detected")).Once()

	if err := svc.Persist(ctx, idx); err == nil {
		t.Fatalf("expected persist error")
	}
	if idx.PendingCount() != 1 {
		t.Fatalf("expected match to stay pending, got %d", idx.PendingCount())
	}
}
