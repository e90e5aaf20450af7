package postgres

import (
	"time"

	"github.com/lib/pq"
)

type teamTableModel struct {
	TeamID          int64          `db:"team_id"`
	Name            string         `db:"name"`
	PreviousAliases pq.StringArray `db:"previous_aliases"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

type teamInsertModel struct {
	TeamID          int64          `db:"team_id"`
	Name            string         `db:"name"`
	PreviousAliases pq.StringArray `db:"previous_aliases"`
}
