package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/fantasy-rankings/internal/domain/mapping"
	"github.com/riskibarqy/fantasy-rankings/internal/domain/playername"
	"github.com/riskibarqy/fantasy-rankings/internal/domain/ranking"
	"github.com/riskibarqy/fantasy-rankings/internal/domain/roster"
)

type MatchedPlayer struct {
	ranking.RankedPlayer
	ExternalID   string         `json:"espnId"`
	ExternalName string         `json:"espnName"`
	Confidence   float64        `json:"confidence"`
	Method       mapping.Method `json:"method"`
}

type UnmatchedPlayer struct {
	ranking.RankedPlayer
	Position   ranking.Position      `json:"position"`
	Confidence float64               `json:"confidence"`
	Method     mapping.Method        `json:"method"`
	Candidates []CandidateSuggestion `json:"candidates"`
}

type BatchResult struct {
	Matches    map[ranking.Position][]MatchedPlayer `json:"matches"`
	Unmatched  []UnmatchedPlayer                    `json:"unmatched"`
	Statistics Stats                                `json:"statistics"`
	Warnings   []string                             `json:"warnings,omitempty"`
}

type PositionStats struct {
	Total     int `json:"total"`
	Matched   int `json:"matched"`
	Unmatched int `json:"unmatched"`
}

type Stats struct {
	Total      int                                `json:"total"`
	Matched    int                                `json:"matched"`
	Exact      int                                `json:"exact"`
	Fuzzy      int                                `json:"fuzzy"`
	Manual     int                                `json:"manual"`
	Unmatched  int                                `json:"unmatched"`
	ByPosition map[ranking.Position]PositionStats `json:"byPosition"`
	MatchRate  int                                `json:"matchRate"`
}

type batchTask struct {
	position ranking.Position
	player   ranking.RankedPlayer
}

// MatchRankings resolves every player of every position sheet. Players are
// resolved independently on a worker pool; output order follows input order.
func (s *MatchService) MatchRankings(
	ctx context.Context,
	positions map[ranking.Position][]ranking.RankedPlayer,
	pool []roster.Player,
) (BatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.MatchRankings",
		attribute.Int("ranking.positions", len(positions)),
		attribute.Int("roster.size", len(pool)),
	)
	defer span.End()

	tasks, err := flattenBatch(positions)
	if err != nil {
		return BatchResult{}, err
	}

	results, err := s.resolveAll(ctx, tasks, pool)
	if err != nil {
		return BatchResult{}, err
	}

	out := BatchResult{
		Matches:    make(map[ranking.Position][]MatchedPlayer),
		Unmatched:  make([]UnmatchedPlayer, 0),
		Statistics: newStats(),
	}
	accept := s.cfg.Thresholds.Accept
	for i, task := range tasks {
		res := results[i]
		out.Statistics.record(task.position, res, accept)
		out.Warnings = append(out.Warnings, res.Warnings...)

		if res.Matched && res.Confidence >= accept {
			out.Matches[task.position] = append(out.Matches[task.position], MatchedPlayer{
				RankedPlayer: task.player,
				ExternalID:   res.ExternalID,
				ExternalName: res.ExternalName,
				Confidence:   res.Confidence,
				Method:       res.Method,
			})
			continue
		}

		candidates := res.Candidates
		if len(candidates) == 0 {
			candidates = res.Alternatives
		}
		if candidates == nil {
			candidates = []CandidateSuggestion{}
		}
		out.Unmatched = append(out.Unmatched, UnmatchedPlayer{
			RankedPlayer: task.player,
			Position:     task.position,
			Confidence:   res.Confidence,
			Method:       res.Method,
			Candidates:   candidates,
		})
	}
	out.Statistics.finalize()

	return out, nil
}

// UnmatchedPlayers lists players that did not resolve with at least the
// accept confidence, annotated with their sheet position and candidates.
func (s *MatchService) UnmatchedPlayers(
	ctx context.Context,
	positions map[ranking.Position][]ranking.RankedPlayer,
	pool []roster.Player,
) ([]UnmatchedPlayer, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.UnmatchedPlayers")
	defer span.End()

	batch, err := s.MatchRankings(ctx, positions, pool)
	if err != nil {
		return nil, err
	}
	return batch.Unmatched, nil
}

// Summarize walks every (position, player) pair sequentially and aggregates
// match outcomes.
func (s *MatchService) Summarize(
	ctx context.Context,
	positions map[ranking.Position][]ranking.RankedPlayer,
	pool []roster.Player,
) (Stats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Summarize")
	defer span.End()

	tasks, err := flattenBatch(positions)
	if err != nil {
		return Stats{}, err
	}

	stats := newStats()
	for _, task := range tasks {
		res, err := s.MatchPlayer(ctx, task.player, pool)
		if err != nil {
			return Stats{}, fmt.Errorf("match %s %q: %w", task.position, task.player.Name, err)
		}
		stats.record(task.position, res, s.cfg.Thresholds.Accept)
	}
	stats.finalize()

	return stats, nil
}

func (s *MatchService) resolveAll(ctx context.Context, tasks []batchTask, pool []roster.Player) ([]MatchResult, error) {
	results := make([]MatchResult, len(tasks))
	if len(tasks) == 0 {
		return results, nil
	}

	workerCount := s.cfg.MaxWorkers
	if workerCount > len(tasks) {
		workerCount = len(tasks)
	}
	workerPool, err := ants.NewPool(workerCount)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	var (
		workers  sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	for i, task := range tasks {
		workers.Add(1)
		if err := workerPool.Submit(func() {
			defer workers.Done()

			res, err := s.MatchPlayer(ctx, task.player, pool)
			if err != nil {
				errOnce.Do(func() {
					firstErr = fmt.Errorf("match %s %q: %w", task.position, task.player.Name, err)
				})
				return
			}
			results[i] = res
		}); err != nil {
			workers.Done()
			workers.Wait()
			return nil, fmt.Errorf("submit match task to worker pool: %w", err)
		}
	}

	workers.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

// flattenBatch validates a position map and lists its players in sheet
// order. A player without a declared position takes its sheet position so
// the same name on two sheets yields two distinct keys.
func flattenBatch(positions map[ranking.Position][]ranking.RankedPlayer) ([]batchTask, error) {
	total := 0
	for _, players := range positions {
		total += len(players)
	}

	tasks := make([]batchTask, 0, total)
	for _, pos := range ranking.OrderPositions(positions) {
		canonical, ok := ranking.ParsePosition(string(pos))
		if !ok {
			return nil, fmt.Errorf("%w: unknown position %q", ErrInvalidInput, pos)
		}
		for i, player := range positions[pos] {
			if playername.Normalize(player.Name) == "" {
				return nil, fmt.Errorf("%w: player %d in %s has no name", ErrInvalidInput, i+1, canonical)
			}
			if strings.TrimSpace(player.Pos) == "" {
				player.Pos = string(canonical)
			}
			tasks = append(tasks, batchTask{position: canonical, player: player})
		}
	}

	return tasks, nil
}

func newStats() Stats {
	return Stats{ByPosition: make(map[ranking.Position]PositionStats)}
}

func (s *Stats) record(pos ranking.Position, res MatchResult, accept float64) {
	s.Total++
	byPos := s.ByPosition[pos]
	byPos.Total++

	if res.Matched && res.Confidence >= accept {
		s.Matched++
		byPos.Matched++
		switch res.Method {
		case mapping.MethodExact:
			s.Exact++
		case mapping.MethodFuzzy:
			s.Fuzzy++
		case mapping.MethodManual, mapping.MethodSaved:
			s.Manual++
		}
	} else {
		s.Unmatched++
		byPos.Unmatched++
	}

	s.ByPosition[pos] = byPos
}

func (s *Stats) finalize() {
	if s.Total == 0 {
		s.MatchRate = 0
		return
	}
	s.MatchRate = int(math.Round(float64(s.Matched) * 100 / float64(s.Total)))
}
