package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fantasy-rankings/internal/domain/roster"
	qb "github.com/riskibarqy/fantasy-rankings/internal/platform/querybuilder"
)

const (
	knownPlayersTable = "known_players"
	// keeps a multi-row insert well under the 65535 bind parameter limit
	knownPlayersBatchSize = 1000
)

type PlayerRegistry struct {
	db *sqlx.DB
}

func NewPlayerRegistry(db *sqlx.DB) *PlayerRegistry {
	return &PlayerRegistry{db: db}
}

func (r *PlayerRegistry) List(ctx context.Context) ([]roster.KnownPlayer, error) {
	query, args, err := qb.Select("*").From(knownPlayersTable).
		OrderBy("created_at", "external_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select known players query: %w", err)
	}

	var rows []knownPlayerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select known players: %w", err)
	}

	out := make([]roster.KnownPlayer, 0, len(rows))
	for _, row := range rows {
		out = append(out, roster.KnownPlayer{
			ExternalID: row.ExternalID,
			Name:       row.Name,
			Position:   row.Position,
			Team:       row.Team,
			LastSeen:   row.LastSeen,
		})
	}
	return out, nil
}

// Upsert inserts unknown players and moves last_seen forward for known ones.
// Name, position and team of a known player are left as first recorded.
func (r *PlayerRegistry) Upsert(ctx context.Context, players []roster.KnownPlayer) (roster.UpsertResult, error) {
	if len(players) == 0 {
		return roster.UpsertResult{}, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return roster.UpsertResult{}, fmt.Errorf("begin tx upsert known players: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var existing []string
	for _, batch := range chunk(dedupeSightings(players), knownPlayersBatchSize) {
		ids := make([]string, 0, len(batch))
		for _, p := range batch {
			ids = append(ids, p.ExternalID)
		}

		existingQuery, existingArgs, err := qb.Select("external_id").From(knownPlayersTable).
			Where(qb.In("external_id", ids)).
			ToSQL()
		if err != nil {
			return roster.UpsertResult{}, fmt.Errorf("build select existing known players query: %w", err)
		}
		var found []string
		if err := tx.SelectContext(ctx, &found, existingQuery, existingArgs...); err != nil {
			return roster.UpsertResult{}, fmt.Errorf("select existing known players: %w", err)
		}
		existing = append(existing, found...)

		query, args, err := upsertKnownPlayersQuery(batch)
		if err != nil {
			return roster.UpsertResult{}, fmt.Errorf("build upsert known players query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return roster.UpsertResult{}, fmt.Errorf("upsert known players: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return roster.UpsertResult{}, fmt.Errorf("commit upsert known players tx: %w", err)
	}

	return countSightings(existing, players), nil
}

func upsertKnownPlayersQuery(players []roster.KnownPlayer) (string, []any, error) {
	models := make([]knownPlayerInsertModel, 0, len(players))
	for _, p := range players {
		models = append(models, knownPlayerInsertModel{
			ExternalID: p.ExternalID,
			Name:       p.Name,
			Position:   p.Position,
			Team:       p.Team,
			LastSeen:   p.LastSeen.UTC(),
		})
	}

	return qb.InsertModels(knownPlayersTable, models, `ON CONFLICT (external_id)
DO UPDATE SET
    last_seen = GREATEST(known_players.last_seen, EXCLUDED.last_seen)`)
}

// dedupeSightings keeps the first sighting per id with the latest LastSeen of
// all its sightings. ON CONFLICT cannot touch the same row twice in one
// statement.
func dedupeSightings(players []roster.KnownPlayer) []roster.KnownPlayer {
	index := make(map[string]int, len(players))
	out := make([]roster.KnownPlayer, 0, len(players))
	for _, p := range players {
		if i, ok := index[p.ExternalID]; ok {
			if p.LastSeen.After(out[i].LastSeen) {
				out[i].LastSeen = p.LastSeen
			}
			continue
		}
		index[p.ExternalID] = len(out)
		out = append(out, p)
	}
	return out
}

// countSightings mirrors roster.MergeSightings counting: the first sighting
// of an id not yet stored is an insert, every other sighting a refresh.
func countSightings(existing []string, players []roster.KnownPlayer) roster.UpsertResult {
	known := make(map[string]struct{}, len(existing)+len(players))
	for _, id := range existing {
		known[id] = struct{}{}
	}

	var result roster.UpsertResult
	for _, p := range players {
		if _, ok := known[p.ExternalID]; ok {
			result.Refreshed++
			continue
		}
		known[p.ExternalID] = struct{}{}
		result.Inserted++
	}
	return result
}
