package memory

import (
	"context"
	"testing"

	"github.com/riskibarqy/tourney-sheet-sync/internal/domain/definition"
	"github.com/riskibarqy/tourney-sheet-sync/internal/domain/match"
	"github.com/riskibarqy/tourney-sheet-sync/internal/domain/team"
)

func TestMatchRepository_UpsertAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewMatchRepository()

	score := 16
	if err := repo.UpsertMany(ctx, []match.Match{
		{ID: 30, Team1: "C", Team2: "D", State: match.StateUpcoming},
		{ID: 10, Team1: "A", Team2: "B", State: match.StateFinished, Score1: &score},
	}); err != nil {
		t.Fatalf("upsert matches: %v", err)
	}
	score = 0

	items, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("list matches: %v", err)
	}
	if len(items) != 2 || items[0].ID != 10 || items[1].ID != 30 {
		t.Fatalf("expected matches ordered by id, got %+v", items)
	}
	if items[0].Score1 == nil || *items[0].Score1 != 16 {
		t.Fatalf("stored score must not alias caller memory, got %v", items[0].Score1)
	}

	if err := repo.UpsertMany(ctx, []match.Match{{ID: 30, Team1: "C", Team2: "D", State: match.StateLive}}); err != nil {
		t.Fatalf("upsert match: %v", err)
	}
	items, _ = repo.ListAll(ctx)
	if len(items) != 2 || items[1].State != match.StateLive {
		t.Fatalf("expected match 30 updated in place, got %+v", items)
	}
}

func TestTeamRepository_UpsertAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewTeamRepository([]team.Team{{ID: 9565, Name: "Vitality"}})

	if err := repo.UpsertMany(ctx, []team.Team{
		{ID: 4608, Name: "Natus Vincere"},
		{ID: 9565, Name: "Team Vitality", PreviousAliases: []string{"Vitality"}},
		{ID: 0, Name: "ignored"},
	}); err != nil {
		t.Fatalf("upsert teams: %v", err)
	}

	items, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("list teams: %v", err)
	}
	if len(items) != 2 || items[0].ID != 4608 || items[1].Name != "Team Vitality" {
		t.Fatalf("unexpected teams %+v", items)
	}
	if len(items[1].PreviousAliases) != 1 || items[1].PreviousAliases[0] != "Vitality" {
		t.Fatalf("unexpected aliases %+v", items[1].PreviousAliases)
	}
}

func TestDefinitionRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	teamID := int64(4608)
	repo := NewDefinitionRepository([]definition.Definition{
		{Type: definition.TypeMap, RawName: "de_inferno", DisplayName: "Inferno"},
		{Type: definition.TypeTeam, TeamID: &teamID, RawName: "Natus Vincere", DisplayName: "NaVi"},
	})

	renamedID := int64(4608)
	otherID := int64(9565)
	if err := repo.UpsertMany(ctx, []definition.Definition{
		{Type: definition.TypeTeam, TeamID: &renamedID, RawName: "NAVI", DisplayName: "NAVI"},
		{Type: definition.TypeTeam, TeamID: &otherID, RawName: "Vitality", DisplayName: "Vitality"},
	}); err != nil {
		t.Fatalf("upsert definitions: %v", err)
	}

	items, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("list definitions: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 definitions, got %+v", items)
	}
	if items[1].RawName != "NAVI" || items[1].DisplayName != "NaVi" {
		t.Fatalf("team rename must keep display override, got %+v", items[1])
	}
	if items[2].ID != 3 || items[2].RawName != "Vitality" {
		t.Fatalf("unexpected new definition %+v", items[2])
	}
}

func TestDefinitionRepository_RejectsTeamWithoutID(t *testing.T) {
	repo := NewDefinitionRepository(nil)
	err := repo.UpsertMany(context.Background(), []definition.Definition{{Type: definition.TypeTeam, RawName: "Ghost"}})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	items, _ := repo.ListAll(context.Background())
	if len(items) != 0 {
		t.Fatalf("failed upsert must not store anything, got %+v", items)
	}
}
