package postgres

import (
	"database/sql"
	"time"
)

type matchTableModel struct {
	MatchID     int64          `db:"match_id"`
	ScheduledAt int64          `db:"scheduled_at"`
	State       string         `db:"state"`
	Team1       string         `db:"team_name_1"`
	Team2       string         `db:"team_name_2"`
	Score1      sql.NullInt64  `db:"score_1"`
	Score2      sql.NullInt64  `db:"score_2"`
	MapLabel    string         `db:"map_label"`
	Winner      sql.NullString `db:"winner_name"`
	Flags       sql.NullString `db:"flags"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

type matchInsertModel struct {
	MatchID     int64          `db:"match_id"`
	ScheduledAt int64          `db:"scheduled_at"`
	State       string         `db:"state"`
	Team1       string         `db:"team_name_1"`
	Team2       string         `db:"team_name_2"`
	Score1      sql.NullInt64  `db:"score_1"`
	Score2      sql.NullInt64  `db:"score_2"`
	MapLabel    string         `db:"map_label"`
	Winner      sql.NullString `db:"winner_name"`
	Flags       sql.NullString `db:"flags"`
}
