package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/fantasy-rankings/internal/domain/mapping"
	"github.com/riskibarqy/fantasy-rankings/internal/domain/playername"
	"github.com/riskibarqy/fantasy-rankings/internal/domain/ranking"
	"github.com/riskibarqy/fantasy-rankings/internal/domain/roster"
	"github.com/riskibarqy/fantasy-rankings/internal/platform/logging"
	"github.com/riskibarqy/fantasy-rankings/internal/platform/similarity"
)

const (
	defaultMatchWorkers = 8
	maxAlternatives     = 2
	maxCandidates       = 5
)

// Thresholds are the confidence cut-offs of the match engine.
type Thresholds struct {
	// Accept is the minimum fuzzy confidence reported as matched.
	Accept float64
	// AutoSave is the minimum fuzzy confidence persisted without confirmation.
	AutoSave float64
	// Suggest is the minimum confidence for a candidate suggestion.
	Suggest float64
}

// DefaultThresholds returns accept 0.8, auto-save 0.9 and suggest 0.4.
func DefaultThresholds() Thresholds {
	return Thresholds{Accept: 0.8, AutoSave: 0.9, Suggest: 0.4}
}

// Validate checks 0 < Suggest <= Accept <= AutoSave <= 1.
func (t Thresholds) Validate() error {
	if t.Suggest <= 0 || t.Suggest > t.Accept || t.Accept > t.AutoSave || t.AutoSave > 1 {
		return fmt.Errorf(
			"thresholds must satisfy 0 < suggest <= accept <= autosave <= 1, got suggest=%.2f accept=%.2f autosave=%.2f",
			t.Suggest, t.Accept, t.AutoSave,
		)
	}
	return nil
}

// MatchConfig tunes the match engine. MaxWorkers bounds batch resolution.
type MatchConfig struct {
	Thresholds Thresholds
	MaxWorkers int
}

type CandidateSuggestion struct {
	ExternalID string  `json:"id"`
	Name       string  `json:"name"`
	Position   string  `json:"position,omitempty"`
	Team       string  `json:"team,omitempty"`
	Confidence float64 `json:"confidence"`
}

// MatchResult is the outcome of resolving one ranked player. Warnings carry
// storage failures that did not prevent the result from being computed.
type MatchResult struct {
	Matched      bool                  `json:"matched"`
	Confidence   float64               `json:"confidence"`
	ExternalID   string                `json:"espnId,omitempty"`
	ExternalName string                `json:"espnName,omitempty"`
	Method       mapping.Method        `json:"method"`
	Candidates   []CandidateSuggestion `json:"candidates,omitempty"`
	Alternatives []CandidateSuggestion `json:"alternatives,omitempty"`
	Warnings     []string              `json:"warnings,omitempty"`
}

type ManualRankingPlayer struct {
	Name string `json:"name" validate:"required"`
	Team string `json:"team"`
	Pos  string `json:"pos"`
}

type ManualMappingInput struct {
	RankingPlayer ManualRankingPlayer `json:"rankingPlayer"`
	ExternalID    string              `json:"espnId" validate:"required"`
	ExternalName  string              `json:"espnName" validate:"required"`
}

// MatchService resolves ranked players to roster ids and remembers the
// resolutions in a mapping.Store.
type MatchService struct {
	store  mapping.Store
	scorer similarity.Scorer
	cfg    MatchConfig
	logger *logging.Logger
	now    func() time.Time
}

func NewMatchService(store mapping.Store, scorer similarity.Scorer, cfg MatchConfig, logger *logging.Logger) *MatchService {
	if scorer == nil {
		scorer = similarity.NewTokenSortScorer()
	}
	if cfg.Thresholds == (Thresholds{}) {
		cfg.Thresholds = DefaultThresholds()
	}
	if cfg.MaxWorkers < 1 {
		cfg.MaxWorkers = defaultMatchWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &MatchService{
		store:  store,
		scorer: scorer,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// MatchPlayer resolves player against pool. Phases run in a fixed order:
// saved mapping, exact name, fuzzy name, then candidate suggestions.
func (s *MatchService) MatchPlayer(ctx context.Context, player ranking.RankedPlayer, pool []roster.Player) (MatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.MatchPlayer",
		attribute.String("player.pos", player.Pos),
		attribute.Int("roster.size", len(pool)),
	)
	defer span.End()

	target := playername.Normalize(player.Name)
	if target == "" {
		return MatchResult{}, fmt.Errorf("%w: ranked player name is required", ErrInvalidInput)
	}
	key := mapping.NewPlayerKey(player.Name, player.Team, player.Pos)

	saved, ok, err := s.store.Get(ctx, key)
	if err != nil {
		return MatchResult{}, fmt.Errorf("get mapping %s: %w", key, err)
	}
	if ok {
		return MatchResult{
			Matched:      true,
			Confidence:   1,
			ExternalID:   saved.ExternalID,
			ExternalName: saved.ExternalName,
			Method:       mapping.MethodSaved,
		}, nil
	}

	if result, ok := s.exactMatch(ctx, key, player, target, pool); ok {
		return result, nil
	}
	if result, ok := s.fuzzyMatch(ctx, key, player, pool); ok {
		return result, nil
	}

	return MatchResult{
		Matched:    false,
		Confidence: 0,
		Method:     mapping.MethodNoMatch,
		Candidates: s.suggest(s.rank(player.Name, pool), maxCandidates),
	}, nil
}

// ManuallyMap stores a confirmed association, replacing any automatic mapping
// for the same key.
func (s *MatchService) ManuallyMap(ctx context.Context, input ManualMappingInput) (mapping.Mapping, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ManuallyMap")
	defer span.End()

	input.RankingPlayer.Name = strings.TrimSpace(input.RankingPlayer.Name)
	input.RankingPlayer.Team = strings.TrimSpace(input.RankingPlayer.Team)
	input.RankingPlayer.Pos = strings.TrimSpace(input.RankingPlayer.Pos)
	input.ExternalID = strings.TrimSpace(input.ExternalID)
	input.ExternalName = strings.TrimSpace(input.ExternalName)
	if err := validateInput(ctx, input); err != nil {
		return mapping.Mapping{}, err
	}
	if playername.Normalize(input.RankingPlayer.Name) == "" {
		return mapping.Mapping{}, fmt.Errorf("%w: ranking player name has no letters or digits", ErrInvalidInput)
	}

	key := mapping.NewPlayerKey(input.RankingPlayer.Name, input.RankingPlayer.Team, input.RankingPlayer.Pos)
	m := mapping.Mapping{
		Key:          key,
		ExternalID:   input.ExternalID,
		ExternalName: input.ExternalName,
		Confidence:   1,
		Method:       mapping.MethodManual,
		Manual:       true,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.Put(ctx, key, m); err != nil {
		s.logger.WarnContext(ctx, "save manual mapping failed", "key", string(key), "error", err)
		return mapping.Mapping{}, fmt.Errorf("%w: save manual mapping %s: %w", ErrPersistence, key, err)
	}

	s.logger.InfoContext(ctx, "manual mapping saved", "key", string(key), "external_id", m.ExternalID)
	return m, nil
}

func (s *MatchService) ListMappings(ctx context.Context) ([]mapping.Mapping, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListMappings")
	defer span.End()

	items, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list mappings: %w", err)
	}
	return items, nil
}

func (s *MatchService) ClearMappings(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ClearMappings")
	defer span.End()

	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("%w: clear mappings: %w", ErrPersistence, err)
	}
	s.logger.InfoContext(ctx, "mappings cleared")
	return nil
}

func (s *MatchService) exactMatch(
	ctx context.Context,
	key mapping.PlayerKey,
	player ranking.RankedPlayer,
	target string,
	pool []roster.Player,
) (MatchResult, bool) {
	for _, candidate := range pool {
		if playername.Normalize(candidate.FullName) != target {
			continue
		}
		if !ranking.PositionsCompatible(player.Pos, candidate.Position) {
			continue
		}

		result := MatchResult{
			Matched:      true,
			Confidence:   1,
			ExternalID:   candidate.ExternalID,
			ExternalName: candidate.FullName,
			Method:       mapping.MethodExact,
		}
		s.persist(ctx, key, &result)
		return result, true
	}

	return MatchResult{}, false
}

func (s *MatchService) fuzzyMatch(
	ctx context.Context,
	key mapping.PlayerKey,
	player ranking.RankedPlayer,
	pool []roster.Player,
) (MatchResult, bool) {
	scored := s.rank(player.Name, positionPool(player.Pos, pool))
	if len(scored) == 0 || scored[0].score < s.cfg.Thresholds.Accept {
		return MatchResult{}, false
	}

	best := scored[0]
	result := MatchResult{
		Matched:      true,
		Confidence:   best.score,
		ExternalID:   best.player.ExternalID,
		ExternalName: best.player.FullName,
		Method:       mapping.MethodFuzzy,
		Alternatives: s.suggest(scored[1:], maxAlternatives),
	}
	if best.score >= s.cfg.Thresholds.AutoSave {
		s.persist(ctx, key, &result)
	}

	return result, true
}

// persist saves result under key. A failed write is logged and reported on
// the result; the in-flight resolution is still returned.
func (s *MatchService) persist(ctx context.Context, key mapping.PlayerKey, result *MatchResult) {
	m := mapping.Mapping{
		Key:          key,
		ExternalID:   result.ExternalID,
		ExternalName: result.ExternalName,
		Confidence:   result.Confidence,
		Method:       result.Method,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.Put(ctx, key, m); err != nil {
		s.logger.WarnContext(ctx, "persist player mapping failed",
			"key", string(key),
			"method", string(result.Method),
			"error", err,
		)
		result.Warnings = append(result.Warnings, fmt.Sprintf("mapping for %s not persisted: %v", key, err))
	}
}

type scoredCandidate struct {
	player roster.Player
	score  float64
}

// rank scores every named candidate against name, best first. Equal scores
// keep pool order.
func (s *MatchService) rank(name string, pool []roster.Player) []scoredCandidate {
	query := playername.NormalizeLoose(name)
	out := make([]scoredCandidate, 0, len(pool))
	for _, candidate := range pool {
		candidateName := playername.NormalizeLoose(candidate.FullName)
		if candidateName == "" {
			continue
		}
		out = append(out, scoredCandidate{
			player: candidate,
			score:  roundConfidence(s.scorer.Score(query, candidateName)),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].score > out[j].score
	})
	return out
}

func (s *MatchService) suggest(scored []scoredCandidate, limit int) []CandidateSuggestion {
	out := make([]CandidateSuggestion, 0, limit)
	for _, c := range scored {
		if len(out) == limit {
			break
		}
		if c.score < s.cfg.Thresholds.Suggest {
			// sorted, nothing further qualifies
			break
		}
		out = append(out, CandidateSuggestion{
			ExternalID: c.player.ExternalID,
			Name:       c.player.FullName,
			Position:   c.player.Position,
			Team:       c.player.ProTeam,
			Confidence: c.score,
		})
	}
	return out
}

// positionPool narrows pool to candidates compatible with pos, falling back to
// the whole pool when nothing is compatible.
func positionPool(pos string, pool []roster.Player) []roster.Player {
	if strings.TrimSpace(pos) == "" {
		return pool
	}

	filtered := make([]roster.Player, 0, len(pool))
	for _, candidate := range pool {
		if ranking.PositionsCompatible(pos, candidate.Position) {
			filtered = append(filtered, candidate)
		}
	}
	if len(filtered) == 0 {
		return pool
	}
	return filtered
}

func roundConfidence(v float64) float64 {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= 1:
		return 1
	}
	return math.Round(v*100) / 100
}
