package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/tourney-sheet-sync/internal/domain/definition"
	qb "github.com/riskibarqy/tourney-sheet-sync/internal/platform/querybuilder"
)

// Team definitions follow their team id across renames, so only the raw
// name is refreshed and an operator display override survives. Map
// definitions are keyed by raw name.
var definitionUpsertConflicts = map[definition.Type]qb.OnConflict{
	definition.TypeTeam: {
		Target: []string{"team_id"},
		Where:  "def_type = 'team'",
		Update: []string{"raw_name"},
		Touch:  []string{"updated_at"},
	},
	definition.TypeMap: {
		Target: []string{"raw_name"},
		Where:  "def_type = 'map'",
		Update: []string{"display_name"},
		Touch:  []string{"updated_at"},
	},
}

type DefinitionRepository struct {
	db *sqlx.DB
}

func NewDefinitionRepository(db *sqlx.DB) *DefinitionRepository {
	return &DefinitionRepository{db: db}
}

func (r *DefinitionRepository) ListAll(ctx context.Context) ([]definition.Definition, error) {
	query, _, err := qb.Select("*").From("definitions").OrderBy("id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select definitions query: %w", err)
	}

	var rows []definitionTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select definitions: %w", err)
	}

	out := make([]definition.Definition, 0, len(rows))
	for _, row := range rows {
		out = append(out, definition.Definition{
			ID:          row.ID,
			Type:        definition.Type(row.DefType),
			TeamID:      int64FromNull(row.TeamID),
			RawName:     row.RawName,
			DisplayName: row.DisplayName.String,
		})
	}
	return out, nil
}

func (r *DefinitionRepository) UpsertMany(ctx context.Context, items []definition.Definition) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert definitions: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range items {
		conflict, ok := definitionUpsertConflicts[item.Type]
		if !ok {
			return fmt.Errorf("upsert definition raw_name=%s: unknown type %q", item.RawName, item.Type)
		}
		insertModel := definitionInsertModel{
			DefType:     string(item.Type),
			TeamID:      nullableInt64(item.TeamID),
			RawName:     item.RawName,
			DisplayName: nullableString(item.DisplayName),
		}

		query, args, err := qb.UpsertModel("definitions", insertModel, conflict)
		if err != nil {
			return fmt.Errorf("build upsert definition query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert definition type=%s raw_name=%s: %w", item.Type, item.RawName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert definitions tx: %w", err)
	}
	return nil
}
