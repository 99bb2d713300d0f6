package querybuilder

import (
	"testing"
	"time"
)

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("player_key", "external_id").
		From("name_mappings").
		Where(Eq("player_key", "josh allen|buf|qb")).
		OrderBy("player_key").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT player_key, external_id FROM name_mappings WHERE player_key = $1 ORDER BY player_key LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "josh allen|buf|qb" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_In(t *testing.T) {
	query, args, err := Select("external_id").
		From("known_players").
		Where(In("external_id", []string{"3918298", "3916387"}), Eq("position", "QB")).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT external_id FROM known_players WHERE external_id IN ($1, $2) AND position = $3"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[2] != "QB" {
		t.Fatalf("unexpected args: %+v", args)
	}

	query, args, err = Select("external_id").From("known_players").Where(In[string]("external_id", nil)).ToSQL()
	if err != nil {
		t.Fatalf("build empty in query: %v", err)
	}
	if query != "SELECT external_id FROM known_players WHERE 1=0" || len(args) != 0 {
		t.Fatalf("unexpected empty in: %s %+v", query, args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("known_players").
		Columns("external_id", "name").
		Values("3918298", "Josh Allen").
		Suffix("ON CONFLICT (external_id) DO NOTHING").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO known_players (external_id, name) VALUES ($1, $2) ON CONFLICT (external_id) DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "3918298" || args[1] != "Josh Allen" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModels(t *testing.T) {
	type row struct {
		ID       string    `db:"external_id"`
		Name     string    `db:"name"`
		LastSeen time.Time `db:"last_seen"`
		ignored  string
	}
	now := time.Date(2025, time.September, 7, 0, 0, 0, 0, time.UTC)

	query, args, err := InsertModels("known_players", []row{
		{ID: "1", Name: "A", LastSeen: now},
		{ID: "2", Name: "B", LastSeen: now},
	}, "ON CONFLICT (external_id) DO UPDATE SET last_seen = EXCLUDED.last_seen")
	if err != nil {
		t.Fatalf("build insert models query: %v", err)
	}

	wantQuery := "INSERT INTO known_players (external_id, name, last_seen) VALUES ($1, $2, $3), ($4, $5, $6) ON CONFLICT (external_id) DO UPDATE SET last_seen = EXCLUDED.last_seen"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 6 || args[3] != "2" {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := InsertModels[row]("known_players", nil, ""); err == nil {
		t.Fatalf("expected error for empty models")
	}
}

func TestDeleteBuilder(t *testing.T) {
	query, args, err := DeleteFrom("name_mappings").Where(AllRows()).ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}
	if query != "DELETE FROM name_mappings WHERE TRUE" || len(args) != 0 {
		t.Fatalf("unexpected delete: %s %+v", query, args)
	}

	if _, _, err := DeleteFrom("name_mappings").ToSQL(); err == nil {
		t.Fatalf("expected error for unconditional delete")
	}
}

func TestInsertModel_Errors(t *testing.T) {
	type tagged struct {
		Key string `db:"player_key"`
	}
	type untagged struct {
		Key string
	}

	query, args, err := InsertModel("name_mappings", &tagged{Key: "josh allen|buf|qb"}, "")
	if err != nil {
		t.Fatalf("build insert from pointer: %v", err)
	}
	if query != "INSERT INTO name_mappings (player_key) VALUES ($1)" || len(args) != 1 {
		t.Fatalf("unexpected insert: %s %+v", query, args)
	}

	if _, _, err := InsertModel[*tagged]("name_mappings", nil, ""); err == nil {
		t.Fatalf("expected error for nil model")
	}
	if _, _, err := InsertModel("name_mappings", untagged{Key: "x"}, ""); err == nil {
		t.Fatalf("expected error for model without db tags")
	}
	if _, _, err := InsertModel("name_mappings", "not a struct", ""); err == nil {
		t.Fatalf("expected error for non-struct model")
	}
}
