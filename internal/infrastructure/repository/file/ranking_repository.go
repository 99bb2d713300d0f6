package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/riskibarqy/fantasy-rankings/internal/domain/ranking"
)

const rankingsDir = "rankings"

var rankingsFilePattern = regexp.MustCompile(`^(\d{4})-week(\d{1,2})\.json$`)

// RankingRepository stores one JSON file per rankings set under
// dir/rankings, named <season>-week<week>.json.
type RankingRepository struct {
	mu  sync.RWMutex
	dir string
}

func NewRankingRepository(dir string) *RankingRepository {
	return &RankingRepository{dir: filepath.Join(dir, rankingsDir)}
}

func rankingsFilename(season, week int) string {
	return fmt.Sprintf("%d-week%d.json", season, week)
}

func (r *RankingRepository) Save(_ context.Context, rankings ranking.Rankings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return writeJSON(filepath.Join(r.dir, rankingsFilename(rankings.Season, rankings.Week)), rankings)
}

func (r *RankingRepository) Get(_ context.Context, season, week int) (ranking.Rankings, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out ranking.Rankings
	found, err := readJSON(filepath.Join(r.dir, rankingsFilename(season, week)), &out)
	if err != nil || !found {
		return ranking.Rankings{}, false, err
	}
	return out, true, nil
}

// List skips files that do not follow the naming scheme or fail to decode.
func (r *RankingRepository) List(_ context.Context) ([]ranking.Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries, err := os.ReadDir(r.dir)
	if errors.Is(err, os.ErrNotExist) {
		return []ranking.Summary{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", r.dir)
	}

	out := make([]ranking.Summary, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		match := rankingsFilePattern.FindStringSubmatch(entry.Name())
		if match == nil {
			continue
		}
		season, _ := strconv.Atoi(match[1])
		week, _ := strconv.Atoi(match[2])

		var item ranking.Rankings
		if _, err := readJSON(filepath.Join(r.dir, entry.Name()), &item); err != nil {
			continue
		}
		summary := item.Summarize()
		summary.Season = season
		summary.Week = week
		summary.Filename = entry.Name()
		out = append(out, summary)
	}
	ranking.SortNewestFirst(out)
	return out, nil
}

func (r *RankingRepository) Delete(_ context.Context, season, week int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := os.Remove(filepath.Join(r.dir, rankingsFilename(season, week)))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "delete rankings file")
	}
	return true, nil
}
