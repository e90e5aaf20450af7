package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "raw_name").
		From("definitions").
		OrderBy("def_type", "id").
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, raw_name FROM definitions ORDER BY def_type, id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 0 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_RequiresTable(t *testing.T) {
	if _, _, err := Select("id").ToSQL(); err == nil {
		t.Fatalf("expected error for missing table")
	}
}

func TestInsertBuilder_MultiRow(t *testing.T) {
	query, args, err := InsertInto("teams").
		Columns("team_id", "name").
		Values(int64(1), "Alpha").
		Values(int64(2), "Bravo").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO teams (team_id, name) VALUES ($1, $2), ($3, $4)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[3] != "Bravo" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder_RejectsShortRow(t *testing.T) {
	_, _, err := InsertInto("teams").Columns("team_id", "name").Values(int64(1)).ToSQL()
	if err == nil {
		t.Fatalf("expected error for short row")
	}
}

func TestUpsertModel(t *testing.T) {
	type row struct {
		MatchID int64  `db:"match_id"`
		Team1   string `db:"team1"`
		Ignored string `db:"-"`
		hidden  string
	}

	t.Run("updates excluded columns", func(t *testing.T) {
		query, args, err := UpsertModel("matches", row{MatchID: 7, Team1: "Alpha", hidden: "x"}, OnConflict{
			Target: []string{"match_id"},
			Update: []string{"team1"},
			Touch:  []string{"updated_at"},
		})
		if err != nil {
			t.Fatalf("build upsert: %v", err)
		}

		wantQuery := "INSERT INTO matches (match_id, team1) VALUES ($1, $2) ON CONFLICT (match_id) DO UPDATE SET team1 = EXCLUDED.team1, updated_at = NOW()"
		if query != wantQuery {
			t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
		}
		if len(args) != 2 || args[0] != int64(7) || args[1] != "Alpha" {
			t.Fatalf("unexpected args: %+v", args)
		}
	})

	t.Run("partial index target", func(t *testing.T) {
		query, _, err := UpsertModel("definitions", row{MatchID: 1}, OnConflict{
			Target: []string{"team_id"},
			Where:  "def_type = 'team'",
		})
		if err != nil {
			t.Fatalf("build upsert: %v", err)
		}

		wantQuery := "INSERT INTO definitions (match_id, team1) VALUES ($1, $2) ON CONFLICT (team_id) WHERE def_type = 'team' DO NOTHING"
		if query != wantQuery {
			t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
		}
	})

	t.Run("rejects missing target", func(t *testing.T) {
		if _, _, err := UpsertModel("matches", row{}, OnConflict{}); err == nil {
			t.Fatalf("expected error for missing conflict target")
		}
	})

	t.Run("rejects nil model", func(t *testing.T) {
		var model *row
		if _, _, err := UpsertModel("matches", model, OnConflict{Target: []string{"match_id"}}); err == nil {
			t.Fatalf("expected error for nil model")
		}
	})
}
