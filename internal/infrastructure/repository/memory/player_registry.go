package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/fantasy-rankings/internal/domain/roster"
)

type PlayerRegistry struct {
	mu    sync.RWMutex
	items []roster.KnownPlayer
}

func NewPlayerRegistry(seed []roster.KnownPlayer) *PlayerRegistry {
	return &PlayerRegistry{items: append([]roster.KnownPlayer(nil), seed...)}
}

func (r *PlayerRegistry) List(_ context.Context) ([]roster.KnownPlayer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]roster.KnownPlayer(nil), r.items...), nil
}

func (r *PlayerRegistry) Upsert(_ context.Context, players []roster.KnownPlayer) (roster.UpsertResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	merged, result := roster.MergeSightings(r.items, players)
	r.items = merged
	return result, nil
}
