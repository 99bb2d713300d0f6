package postgres

import (
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-rankings/internal/domain/mapping"
	"github.com/riskibarqy/fantasy-rankings/internal/domain/roster"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("select name mapping: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped sql.ErrNoRows to be not found")
	}
	if isNotFound(fmt.Errorf("pq: relation name_mappings does not exist")) {
		t.Fatalf("expected false for unrelated error")
	}
}

func TestChunk(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	got := chunk(items, 2)
	if len(got) != 3 || len(got[2]) != 1 || got[2][0] != 5 {
		t.Fatalf("unexpected chunks: %v", got)
	}
	if got := chunk(items, 10); len(got) != 1 || len(got[0]) != 5 {
		t.Fatalf("expected single chunk, got %v", got)
	}
	if got := chunk([]int{}, 3); got != nil {
		t.Fatalf("expected nil for empty input, got %v", got)
	}
}

func TestUpsertNameMappingQuery(t *testing.T) {
	key := mapping.NewPlayerKey("Josh Allen", "BUF", "QB")
	createdAt := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)

	query, args, err := upsertNameMappingQuery(key, mapping.Mapping{
		ExternalID:   "3918298",
		ExternalName: "Josh Allen",
		Confidence:   1,
		Method:       mapping.MethodExact,
		CreatedAt:    createdAt,
	})
	if err != nil {
		t.Fatalf("build query: %v", err)
	}

	if !strings.HasPrefix(query, "INSERT INTO name_mappings (player_key, external_id, external_name, confidence, method, manual, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)") {
		t.Fatalf("unexpected query: %s", query)
	}
	if !strings.Contains(query, "ON CONFLICT (player_key)") {
		t.Fatalf("expected conflict clause, got %s", query)
	}
	if len(args) != 7 || args[0] != string(key) || args[4] != "exact_match" || args[6] != createdAt {
		t.Fatalf("unexpected args: %#v", args)
	}
}

func TestUpsertKnownPlayersQuery(t *testing.T) {
	seen := time.Date(2025, time.September, 8, 12, 0, 0, 0, time.UTC)
	query, args, err := upsertKnownPlayersQuery([]roster.KnownPlayer{
		{ExternalID: "3918298", Name: "Josh Allen", Position: "QB", Team: "BUF", LastSeen: seen},
		{ExternalID: "4241457", Name: "Bijan Robinson", Position: "RB", Team: "ATL", LastSeen: seen},
	})
	if err != nil {
		t.Fatalf("build query: %v", err)
	}

	if !strings.Contains(query, "VALUES ($1, $2, $3, $4, $5), ($6, $7, $8, $9, $10)") {
		t.Fatalf("expected two value rows, got %s", query)
	}
	if !strings.Contains(query, "GREATEST(known_players.last_seen, EXCLUDED.last_seen)") {
		t.Fatalf("expected last_seen to only move forward, got %s", query)
	}
	if len(args) != 10 || args[5] != "4241457" {
		t.Fatalf("unexpected args: %#v", args)
	}
}

func TestDedupeAndCountSightings(t *testing.T) {
	early := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(time.Hour)
	players := []roster.KnownPlayer{
		{ExternalID: "1", LastSeen: early},
		{ExternalID: "2", LastSeen: early},
		{ExternalID: "1", LastSeen: late},
	}

	unique := dedupeSightings(players)
	if len(unique) != 2 || !unique[0].LastSeen.Equal(late) {
		t.Fatalf("unexpected dedupe result: %#v", unique)
	}

	got := countSightings([]string{"2"}, players)
	if got.Inserted != 1 || got.Refreshed != 2 {
		t.Fatalf("unexpected counts: %#v", got)
	}
}
