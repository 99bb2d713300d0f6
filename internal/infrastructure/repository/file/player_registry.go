package file

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/riskibarqy/fantasy-rankings/internal/domain/roster"
	"github.com/riskibarqy/fantasy-rankings/internal/platform/logging"
)

const playersFile = "espn-players.json"

// PlayerRegistry persists known players as a JSON array in espn-players.json.
type PlayerRegistry struct {
	mu      sync.RWMutex
	path    string
	players []roster.KnownPlayer
}

func NewPlayerRegistry(ctx context.Context, dir string, logger *logging.Logger) *PlayerRegistry {
	if logger == nil {
		logger = logging.Default()
	}
	r := &PlayerRegistry{path: filepath.Join(dir, playersFile)}

	var stored []roster.KnownPlayer
	found, err := readJSON(r.path, &stored)
	switch {
	case err != nil:
		logger.WarnContext(ctx, "known players unreadable, starting empty", "path", r.path, "error", err)
	case found:
		r.players = stored
		logger.InfoContext(ctx, "known players loaded", "path", r.path, "count", len(stored))
	}
	return r
}

func (r *PlayerRegistry) List(_ context.Context) ([]roster.KnownPlayer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]roster.KnownPlayer(nil), r.players...), nil
}

func (r *PlayerRegistry) Upsert(_ context.Context, players []roster.KnownPlayer) (roster.UpsertResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	merged, result := roster.MergeSightings(r.players, players)
	r.players = merged

	out := merged
	if out == nil {
		out = []roster.KnownPlayer{}
	}
	return result, writeJSON(r.path, out)
}
