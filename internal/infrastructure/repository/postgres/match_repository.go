package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/tourney-sheet-sync/internal/domain/match"
	qb "github.com/riskibarqy/tourney-sheet-sync/internal/platform/querybuilder"
)

var matchUpsertConflict = qb.OnConflict{
	Target: []string{"match_id"},
	Update: []string{
		"scheduled_at",
		"state",
		"team_name_1",
		"team_name_2",
		"score_1",
		"score_2",
		"map_label",
		"winner_name",
		"flags",
	},
	Touch: []string{"updated_at"},
}

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) ListAll(ctx context.Context) ([]match.Match, error) {
	query, _, err := qb.Select("*").From("matches").OrderBy("match_id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, match.Match{
			ID:          row.MatchID,
			ScheduledAt: row.ScheduledAt,
			State:       match.NormalizeState(row.State),
			Team1:       row.Team1,
			Team2:       row.Team2,
			Score1:      intFromNull(row.Score1),
			Score2:      intFromNull(row.Score2),
			Map:         row.MapLabel,
			Winner:      row.Winner.String,
			Flags:       row.Flags.String,
		})
	}
	return out, nil
}

func (r *MatchRepository) UpsertMany(ctx context.Context, items []match.Match) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert matches: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range items {
		insertModel := matchInsertModel{
			MatchID:     item.ID,
			ScheduledAt: item.ScheduledAt,
			State:       string(item.State),
			Team1:       item.Team1,
			Team2:       item.Team2,
			Score1:      nullableInt(item.Score1),
			Score2:      nullableInt(item.Score2),
			MapLabel:    item.Map,
			Winner:      nullableString(item.Winner),
			Flags:       nullableString(item.Flags),
		}

		query, args, err := qb.UpsertModel("matches", insertModel, matchUpsertConflict)
		if err != nil {
			return fmt.Errorf("build upsert match query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert match match_id=%d: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert matches tx: %w", err)
	}
	return nil
}
