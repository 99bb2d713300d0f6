package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/riskibarqy/fantasy-rankings/internal/domain/ranking"
	basecache "github.com/riskibarqy/fantasy-rankings/internal/platform/cache"
)

const rankingListKey = "ranking:list"

// RankingRepository is a read-through cache in front of a ranking.Repository.
// Writes go to the wrapped repository first and then invalidate the affected keys.
type RankingRepository struct {
	next  ranking.Repository
	sets  *basecache.Store[cachedRankings]
	lists *basecache.Store[[]ranking.Summary]
}

type cachedRankings struct {
	value  ranking.Rankings
	exists bool
}

func NewRankingRepository(next ranking.Repository, ttl time.Duration) *RankingRepository {
	return &RankingRepository{
		next:  next,
		sets:  basecache.NewStore[cachedRankings](ttl),
		lists: basecache.NewStore[[]ranking.Summary](ttl),
	}
}

func (r *RankingRepository) Get(ctx context.Context, season, week int) (ranking.Rankings, bool, error) {
	cached, err := r.sets.GetOrLoad(ctx, rankingKey(season, week), func(ctx context.Context) (cachedRankings, error) {
		item, exists, err := r.next.Get(ctx, season, week)
		if err != nil {
			return cachedRankings{}, err
		}
		return cachedRankings{value: item, exists: exists}, nil
	})
	if err != nil {
		return ranking.Rankings{}, false, err
	}
	return cloneRankings(cached.value), cached.exists, nil
}

func (r *RankingRepository) List(ctx context.Context) ([]ranking.Summary, error) {
	items, err := r.lists.GetOrLoad(ctx, rankingListKey, func(ctx context.Context) ([]ranking.Summary, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]ranking.Summary(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]ranking.Summary(nil), items...), nil
}

func (r *RankingRepository) Save(ctx context.Context, rankings ranking.Rankings) error {
	if err := r.next.Save(ctx, rankings); err != nil {
		return err
	}
	r.invalidate(ctx, rankings.Season, rankings.Week)
	return nil
}

func (r *RankingRepository) Delete(ctx context.Context, season, week int) (bool, error) {
	deleted, err := r.next.Delete(ctx, season, week)
	if err != nil {
		return false, err
	}
	r.invalidate(ctx, season, week)
	return deleted, nil
}

func (r *RankingRepository) invalidate(ctx context.Context, season, week int) {
	r.sets.Delete(ctx, rankingKey(season, week))
	r.lists.Delete(ctx, rankingListKey)
}

func rankingKey(season, week int) string {
	return "ranking:" + strconv.Itoa(season) + ":week:" + strconv.Itoa(week)
}

func cloneRankings(item ranking.Rankings) ranking.Rankings {
	if item.Positions == nil {
		return item
	}
	positions := make(map[ranking.Position][]ranking.RankedPlayer, len(item.Positions))
	for pos, players := range item.Positions {
		positions[pos] = append([]ranking.RankedPlayer(nil), players...)
	}
	item.Positions = positions
	return item
}
