package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/tourney-sheet-sync/internal/domain/team"
	qb "github.com/riskibarqy/tourney-sheet-sync/internal/platform/querybuilder"
)

var teamUpsertConflict = qb.OnConflict{
	Target: []string{"team_id"},
	Update: []string{"name", "previous_aliases"},
	Touch:  []string{"updated_at"},
}

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) ListAll(ctx context.Context) ([]team.Team, error) {
	query, _, err := qb.Select("*").From("teams").OrderBy("team_id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, team.Team{
			ID:              row.TeamID,
			Name:            row.Name,
			PreviousAliases: append([]string(nil), row.PreviousAliases...),
		})
	}
	return out, nil
}

func (r *TeamRepository) UpsertMany(ctx context.Context, items []team.Team) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert teams: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range items {
		aliases := item.PreviousAliases
		if aliases == nil {
			aliases = []string{}
		}
		insertModel := teamInsertModel{
			TeamID:          item.ID,
			Name:            item.Name,
			PreviousAliases: pq.StringArray(aliases),
		}

		query, args, err := qb.UpsertModel("teams", insertModel, teamUpsertConflict)
		if err != nil {
			return fmt.Errorf("build upsert team query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert team team_id=%d: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert teams tx: %w", err)
	}
	return nil
}
