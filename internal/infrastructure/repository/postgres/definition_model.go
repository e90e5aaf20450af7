package postgres

import (
	"database/sql"
	"time"
)

type definitionTableModel struct {
	ID          int64          `db:"id"`
	DefType     string         `db:"def_type"`
	TeamID      sql.NullInt64  `db:"team_id"`
	RawName     string         `db:"raw_name"`
	DisplayName sql.NullString `db:"display_name"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

type definitionInsertModel struct {
	DefType     string         `db:"def_type"`
	TeamID      sql.NullInt64  `db:"team_id"`
	RawName     string         `db:"raw_name"`
	DisplayName sql.NullString `db:"display_name"`
}
