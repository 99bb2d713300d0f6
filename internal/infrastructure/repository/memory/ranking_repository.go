package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/fantasy-rankings/internal/domain/ranking"
)

type RankingRepository struct {
	mu    sync.RWMutex
	items map[rankingKey]ranking.Rankings
}

type rankingKey struct {
	season int
	week   int
}

func NewRankingRepository() *RankingRepository {
	return &RankingRepository{items: make(map[rankingKey]ranking.Rankings)}
}

func (r *RankingRepository) Save(_ context.Context, rankings ranking.Rankings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[rankingKey{season: rankings.Season, week: rankings.Week}] = cloneRankings(rankings)
	return nil
}

func (r *RankingRepository) Get(_ context.Context, season, week int) (ranking.Rankings, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[rankingKey{season: season, week: week}]
	if !ok {
		return ranking.Rankings{}, false, nil
	}
	return cloneRankings(item), true, nil
}

func (r *RankingRepository) List(_ context.Context) ([]ranking.Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ranking.Summary, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item.Summarize())
	}
	ranking.SortNewestFirst(out)
	return out, nil
}

func (r *RankingRepository) Delete(_ context.Context, season, week int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := rankingKey{season: season, week: week}
	if _, ok := r.items[key]; !ok {
		return false, nil
	}
	delete(r.items, key)
	return true, nil
}

func cloneRankings(in ranking.Rankings) ranking.Rankings {
	out := in
	out.Positions = make(map[ranking.Position][]ranking.RankedPlayer, len(in.Positions))
	for pos, players := range in.Positions {
		out.Positions[pos] = append([]ranking.RankedPlayer(nil), players...)
	}
	out.Metadata.SheetsProcessed = append([]ranking.Position(nil), in.Metadata.SheetsProcessed...)
	out.Metadata.Errors = append([]string(nil), in.Metadata.Errors...)
	out.Metadata.Warnings = append([]string(nil), in.Metadata.Warnings...)
	return out
}
