package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-rankings/internal/domain/mapping"
	"github.com/riskibarqy/fantasy-rankings/internal/domain/ranking"
	"github.com/riskibarqy/fantasy-rankings/internal/domain/roster"
	"github.com/riskibarqy/fantasy-rankings/internal/infrastructure/repository/memory"
	mappingmock "github.com/riskibarqy/fantasy-rankings/internal/mocks/domain/mapping"
	"github.com/riskibarqy/fantasy-rankings/internal/platform/logging"
	"github.com/riskibarqy/fantasy-rankings/internal/platform/similarity"
	"github.com/stretchr/testify/mock"
)

var matchTestNow = time.Date(2025, time.September, 10, 18, 0, 0, 0, time.UTC)

// fixedScorer returns score for every comparison.
func fixedScorer(score float64) similarity.Scorer {
	return similarity.ScorerFunc(func(_, _ string) float64 { return score })
}

// pairScorer scores known (query, candidate) pairs and returns 0.1 otherwise.
func pairScorer(pairs map[[2]string]float64) similarity.Scorer {
	return similarity.ScorerFunc(func(query, candidate string) float64 {
		if score, ok := pairs[[2]string{query, candidate}]; ok {
			return score
		}
		return 0.1
	})
}

func newTestMatchService(store mapping.Store, scorer similarity.Scorer) *MatchService {
	service := NewMatchService(store, scorer, MatchConfig{MaxWorkers: 4}, logging.NewNop())
	service.now = func() time.Time { return matchTestNow }
	return service
}

func TestMatchService_ExactMatchIsPersistedAndReused(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	store := memory.NewMappingStore()
	service := newTestMatchService(store, nil)
	player := ranking.RankedPlayer{Name: "Justin Jefferson", Pos: "WR", Rank: 1}

	got, err := service.MatchPlayer(ctx, player, memory.SeedRoster())
	if err != nil {
		t.Fatalf("match player: %v", err)
	}
	if !got.Matched || got.Method != mapping.MethodExact || got.Confidence != 1 || got.ExternalID != "4262921" {
		t.Fatalf("unexpected exact result: %+v", got)
	}

	saved, ok, _ := store.Get(ctx, mapping.NewPlayerKey("Justin Jefferson", "", "WR"))
	if !ok || saved.ExternalID != "4262921" || saved.Method != mapping.MethodExact {
		t.Fatalf("exact match not persisted: ok=%v mapping=%+v", ok, saved)
	}
	if !saved.CreatedAt.Equal(matchTestNow) {
		t.Fatalf("unexpected createdAt: %s", saved.CreatedAt)
	}

	again, err := service.MatchPlayer(ctx, player, nil)
	if err != nil {
		t.Fatalf("match player from store: %v", err)
	}
	if again.Method != mapping.MethodSaved || again.ExternalID != "4262921" || again.Confidence != 1 {
		t.Fatalf("expected saved mapping, got %+v", again)
	}
}

func TestMatchService_SuffixAndCaseDoNotBreakExactMatch(t *testing.T) {
	t.Parallel()

	service := newTestMatchService(memory.NewMappingStore(), fixedScorer(0))
	pool := []roster.Player{{ExternalID: "15795", FullName: "Odell Beckham Jr.", Position: "WR", ProTeam: "MIA"}}

	got, err := service.MatchPlayer(t.Context(), ranking.RankedPlayer{Name: "odell beckham", Pos: "WR", Rank: 40}, pool)
	if err != nil {
		t.Fatalf("match player: %v", err)
	}
	if got.Method != mapping.MethodExact || got.ExternalID != "15795" {
		t.Fatalf("expected exact match through suffix stripping, got %+v", got)
	}
}

func TestMatchService_FuzzyThresholds(t *testing.T) {
	t.Parallel()

	pool := []roster.Player{
		{ExternalID: "3915416", FullName: "Gabriel Davis", Position: "WR", ProTeam: "BUF"},
	}
	player := ranking.RankedPlayer{Name: "Gabe Davis", Team: "BUF", Pos: "WR", Rank: 55}

	tests := []struct {
		name        string
		score       float64
		wantMatched bool
		wantMethod  mapping.Method
		wantSaved   bool
	}{
		{name: "below accept", score: 0.79, wantMatched: false, wantMethod: mapping.MethodNoMatch},
		{name: "accepted not saved", score: 0.81, wantMatched: true, wantMethod: mapping.MethodFuzzy},
		{name: "auto saved", score: 0.95, wantMatched: true, wantMethod: mapping.MethodFuzzy, wantSaved: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			store := memory.NewMappingStore()
			service := newTestMatchService(store, fixedScorer(tc.score))

			got, err := service.MatchPlayer(t.Context(), player, pool)
			if err != nil {
				t.Fatalf("match player: %v", err)
			}
			if got.Matched != tc.wantMatched || got.Method != tc.wantMethod {
				t.Fatalf("unexpected result: %+v", got)
			}
			if !tc.wantMatched {
				if got.Confidence != 0 {
					t.Fatalf("no_match must report confidence 0, got %v", got.Confidence)
				}
				if len(got.Candidates) != 1 || got.Candidates[0].Confidence != tc.score {
					t.Fatalf("expected best candidate suggestion, got %+v", got.Candidates)
				}
			} else if got.Confidence != tc.score {
				t.Fatalf("confidence = %v, want %v", got.Confidence, tc.score)
			}

			_, saved, _ := store.Get(t.Context(), mapping.NewPlayerKey(player.Name, player.Team, player.Pos))
			if saved != tc.wantSaved {
				t.Fatalf("saved = %v, want %v", saved, tc.wantSaved)
			}
		})
	}
}

func TestMatchService_AutoSavedFuzzySurvivesRosterChange(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	store := memory.NewMappingStore()
	player := ranking.RankedPlayer{Name: "Gabe Davis", Team: "BUF", Pos: "WR", Rank: 55}

	first := newTestMatchService(store, fixedScorer(0.95))
	if _, err := first.MatchPlayer(ctx, player, []roster.Player{{ExternalID: "3915416", FullName: "Gabriel Davis", Position: "WR"}}); err != nil {
		t.Fatalf("first match: %v", err)
	}

	// a roster that could never fuzzy-match again
	second := newTestMatchService(store, fixedScorer(0))
	got, err := second.MatchPlayer(ctx, player, []roster.Player{{ExternalID: "1", FullName: "Somebody Else", Position: "WR"}})
	if err != nil {
		t.Fatalf("second match: %v", err)
	}
	if got.Method != mapping.MethodSaved || got.ExternalID != "3915416" {
		t.Fatalf("expected stored fuzzy mapping, got %+v", got)
	}
}

func TestMatchService_FuzzyAlternativesAndPositionFallback(t *testing.T) {
	t.Parallel()

	pool := []roster.Player{
		{ExternalID: "1", FullName: "Josh Allen", Position: "QB"},
		{ExternalID: "2", FullName: "Kenneth Walker III", Position: "RB"},
		{ExternalID: "3", FullName: "Kenneth Gainwell", Position: "RB"},
		{ExternalID: "4", FullName: "Kenny Walker", Position: "RB"},
	}
	scorer := pairScorer(map[[2]string]float64{
		{"ken walker", "kenneth walker"}:   0.86,
		{"ken walker", "kenny walker"}:     0.82,
		{"ken walker", "kenneth gainwell"}: 0.45,
	})
	service := newTestMatchService(memory.NewMappingStore(), scorer)

	got, err := service.MatchPlayer(t.Context(), ranking.RankedPlayer{Name: "Ken Walker", Pos: "RB", Rank: 20}, pool)
	if err != nil {
		t.Fatalf("match player: %v", err)
	}
	if got.Method != mapping.MethodFuzzy || got.ExternalID != "2" {
		t.Fatalf("unexpected fuzzy result: %+v", got)
	}
	if len(got.Alternatives) != 2 || got.Alternatives[0].ExternalID != "4" || got.Alternatives[1].ExternalID != "3" {
		t.Fatalf("unexpected alternatives: %+v", got.Alternatives)
	}

	// no kicker on the roster: the position filter falls back to everyone
	fallback := newTestMatchService(memory.NewMappingStore(), fixedScorer(0.85))
	got, err = fallback.MatchPlayer(t.Context(), ranking.RankedPlayer{Name: "Kenny Walker", Pos: "K", Rank: 1}, pool[3:])
	if err != nil {
		t.Fatalf("match player: %v", err)
	}
	if got.Method != mapping.MethodFuzzy || got.ExternalID != "4" {
		t.Fatalf("expected fallback to unrestricted pool, got %+v", got)
	}
}

func TestMatchService_NoMatchSuggestsTopFive(t *testing.T) {
	t.Parallel()

	service := newTestMatchService(memory.NewMappingStore(), nil)
	got, err := service.MatchPlayer(t.Context(), ranking.RankedPlayer{Name: "Zzyzx Qwerty", Rank: 1}, memory.SeedRoster())
	if err != nil {
		t.Fatalf("match player: %v", err)
	}
	if got.Matched || got.Method != mapping.MethodNoMatch {
		t.Fatalf("expected no match, got %+v", got)
	}
	if len(got.Candidates) > maxCandidates {
		t.Fatalf("too many candidates: %d", len(got.Candidates))
	}
	for _, c := range got.Candidates {
		if c.Confidence < DefaultThresholds().Suggest {
			t.Fatalf("candidate below suggest threshold: %+v", c)
		}
	}
}

func TestMatchService_Deterministic(t *testing.T) {
	t.Parallel()

	service := newTestMatchService(memory.NewMappingStore(), nil)
	pool := memory.SeedRoster()
	pool = append(pool, roster.Player{ExternalID: "3915416", FullName: "Gabriel Davis", Position: "WR", ProTeam: "BUF"})
	player := ranking.RankedPlayer{Name: "Gabe Davis", Team: "BUF", Pos: "WR", Rank: 55}

	first, err := service.MatchPlayer(t.Context(), player, pool)
	if err != nil {
		t.Fatalf("first match: %v", err)
	}
	second, err := service.MatchPlayer(t.Context(), player, pool)
	if err != nil {
		t.Fatalf("second match: %v", err)
	}
	if first.Matched && first.Confidence >= DefaultThresholds().AutoSave {
		t.Fatalf("fixture should stay below auto-save, got %+v", first)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("results differ:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestMatchService_ManualMappingOverridesExact(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	service := newTestMatchService(memory.NewMappingStore(), nil)
	player := ranking.RankedPlayer{Name: "Josh Allen", Team: "BUF", Pos: "QB", Rank: 1}

	if got, err := service.MatchPlayer(ctx, player, memory.SeedRoster()); err != nil || got.Method != mapping.MethodExact {
		t.Fatalf("expected exact match first, got %+v (%v)", got, err)
	}

	m, err := service.ManuallyMap(ctx, ManualMappingInput{
		RankingPlayer: ManualRankingPlayer{Name: "Josh Allen", Team: "BUF", Pos: "QB"},
		ExternalID:    "4242335",
		ExternalName:  "Josh Allen (JAX)",
	})
	if err != nil {
		t.Fatalf("manual map: %v", err)
	}
	if !m.Manual || m.Method != mapping.MethodManual || m.Confidence != 1 {
		t.Fatalf("unexpected manual mapping: %+v", m)
	}

	got, err := service.MatchPlayer(ctx, player, memory.SeedRoster())
	if err != nil {
		t.Fatalf("match after manual map: %v", err)
	}
	if got.ExternalID != "4242335" || got.Method != mapping.MethodSaved {
		t.Fatalf("expected manual override, got %+v", got)
	}
}

func TestMatchService_ManuallyMapValidation(t *testing.T) {
	t.Parallel()

	service := newTestMatchService(memory.NewMappingStore(), nil)
	inputs := []ManualMappingInput{
		{RankingPlayer: ManualRankingPlayer{Name: "Josh Allen"}, ExternalName: "Josh Allen"},
		{RankingPlayer: ManualRankingPlayer{Name: "Josh Allen"}, ExternalID: "1"},
		{RankingPlayer: ManualRankingPlayer{Name: "  "}, ExternalID: "1", ExternalName: "Josh Allen"},
		{RankingPlayer: ManualRankingPlayer{Name: "***"}, ExternalID: "1", ExternalName: "Josh Allen"},
	}
	for i, input := range inputs {
		if _, err := service.ManuallyMap(t.Context(), input); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("input %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestMatchService_InvalidPlayer(t *testing.T) {
	t.Parallel()

	service := newTestMatchService(memory.NewMappingStore(), nil)
	if _, err := service.MatchPlayer(t.Context(), ranking.RankedPlayer{Name: " "}, memory.SeedRoster()); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestMatchService_StoreWriteFailureIsWarning(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	store := mappingmock.NewStore(t)
	key := mapping.NewPlayerKey("Josh Allen", "BUF", "QB")

	store.On("Get", mock.Anything, key).Return(mapping.Mapping{}, false, nil).Once()
	store.On("Put", mock.Anything, key, mock.MatchedBy(func(m mapping.Mapping) bool {
		return m.ExternalID == "3918298" && m.Method == mapping.MethodExact
	})).Return(errors.New("disk full")).Once()

	service := newTestMatchService(store, nil)
	got, err := service.MatchPlayer(ctx, ranking.RankedPlayer{Name: "Josh Allen", Team: "BUF", Pos: "QB", Rank: 1}, memory.SeedRoster())
	if err != nil {
		t.Fatalf("write failure must not fail the match: %v", err)
	}
	if got.Method != mapping.MethodExact || len(got.Warnings) != 1 {
		t.Fatalf("expected exact result with one warning, got %+v", got)
	}
}

func TestMatchService_StoreReadFailurePropagates(t *testing.T) {
	t.Parallel()

	store := mappingmock.NewStore(t)
	boom := errors.New("connection reset")
	store.On("Get", mock.Anything, mock.Anything).Return(mapping.Mapping{}, false, boom).Once()

	service := newTestMatchService(store, nil)
	_, err := service.MatchPlayer(context.Background(), ranking.RankedPlayer{Name: "Josh Allen", Rank: 1}, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestMatchService_ManualMapPersistenceFailure(t *testing.T) {
	t.Parallel()

	store := mappingmock.NewStore(t)
	store.On("Put", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("read-only file system")).Once()

	service := newTestMatchService(store, nil)
	_, err := service.ManuallyMap(t.Context(), ManualMappingInput{
		RankingPlayer: ManualRankingPlayer{Name: "Josh Allen"},
		ExternalID:    "3918298",
		ExternalName:  "Josh Allen",
	})
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
}

func TestMatchService_ClearMappings(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	store := memory.NewMappingStore()
	service := newTestMatchService(store, nil)
	if _, err := service.MatchPlayer(ctx, ranking.RankedPlayer{Name: "Josh Allen", Pos: "QB", Rank: 1}, memory.SeedRoster()); err != nil {
		t.Fatalf("match player: %v", err)
	}

	if err := service.ClearMappings(ctx); err != nil {
		t.Fatalf("clear mappings: %v", err)
	}
	items, err := service.ListMappings(ctx)
	if err != nil {
		t.Fatalf("list mappings: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty store, got %d", len(items))
	}
}

func TestThresholdsValidate(t *testing.T) {
	t.Parallel()

	if err := DefaultThresholds().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	bad := []Thresholds{
		{Accept: 0.8, AutoSave: 0.9, Suggest: 0},
		{Accept: 0.95, AutoSave: 0.9, Suggest: 0.4},
		{Accept: 0.8, AutoSave: 1.2, Suggest: 0.4},
		{Accept: 0.3, AutoSave: 0.9, Suggest: 0.4},
	}
	for _, th := range bad {
		if err := th.Validate(); err == nil {
			t.Fatalf("expected error for %+v", th)
		}
	}
}
