package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/sourcegraph/conc"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/fantasy-rankings/internal/domain/ranking"
	"github.com/riskibarqy/fantasy-rankings/internal/domain/roster"
	"github.com/riskibarqy/fantasy-rankings/internal/platform/cache"
	"github.com/riskibarqy/fantasy-rankings/internal/platform/logging"
)

const currentRankingsKey = "rankings:current"

type UploadInput struct {
	// Week and Season default to the current NFL week and calendar year when zero.
	Week   int                   `validate:"gte=0,lte=18"`
	Season int                   `validate:"omitempty,gte=2020,lte=2030"`
	Sheets map[string][][]string `validate:"required,min=1"`
	// Roster, when present, is matched against the upload and ingested into
	// the known-players registry.
	Roster []roster.Player
}

type UploadResult struct {
	Rankings   ranking.Rankings `json:"rankings"`
	Statistics *Stats           `json:"statistics,omitempty"`
	Ingest     *IngestResult    `json:"ingest,omitempty"`
	Warnings   []string         `json:"warnings,omitempty"`
}

type CompareInput struct {
	Season   int
	Weeks    []int
	Position string
}

type Comparison struct {
	Season      int                                                    `json:"season"`
	Weeks       []int                                                  `json:"weeks"`
	Position    string                                                 `json:"position"`
	Comparisons map[string]map[ranking.Position][]ranking.RankedPlayer `json:"comparisons"`
}

type RankingService struct {
	repo    ranking.Repository
	current *cache.Store[ranking.Rankings]
	matcher *MatchService
	rosters *RosterService
	logger  *logging.Logger
	now     func() time.Time
}

// NewRankingService owns the rankings repository and the current-rankings
// slot. matcher and rosters are optional and only used by Upload.
func NewRankingService(
	repo ranking.Repository,
	current *cache.Store[ranking.Rankings],
	matcher *MatchService,
	rosters *RosterService,
	logger *logging.Logger,
) *RankingService {
	if current == nil {
		current = cache.NewStore[ranking.Rankings](0)
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &RankingService{
		repo:    repo,
		current: current,
		matcher: matcher,
		rosters: rosters,
		logger:  logger,
		now:     time.Now,
	}
}

// Upload parses position sheets into a rankings set, persists it and makes it
// the current rankings.
func (s *RankingService) Upload(ctx context.Context, input UploadInput) (UploadResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.Upload",
		attribute.Int("ranking.week", input.Week),
		attribute.Int("ranking.season", input.Season),
		attribute.Int("ranking.sheets", len(input.Sheets)),
	)
	defer span.End()

	if err := validateInput(ctx, input); err != nil {
		return UploadResult{}, err
	}

	now := s.now().UTC()
	if input.Week == 0 {
		input.Week = ranking.CurrentWeek(now)
	}
	if input.Season == 0 {
		input.Season = now.Year()
	}
	if err := ranking.ValidateWeekSeason(input.Week, input.Season); err != nil {
		return UploadResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	rankings := ranking.Rankings{
		Week:       input.Week,
		Season:     input.Season,
		UploadedAt: now,
		Positions:  make(map[ranking.Position][]ranking.RankedPlayer),
		Metadata: ranking.Metadata{
			SheetsProcessed: []ranking.Position{},
			Errors:          []string{},
			Warnings:        []string{},
		},
	}

	sheetNames := make([]string, 0, len(input.Sheets))
	for name := range input.Sheets {
		sheetNames = append(sheetNames, name)
	}
	sort.Strings(sheetNames)

	for _, name := range sheetNames {
		pos, ok := ranking.ParsePosition(name)
		if !ok {
			rankings.Metadata.Warnings = append(rankings.Metadata.Warnings, fmt.Sprintf("Sheet %q skipped: not a ranking position", name))
			continue
		}
		if _, dup := rankings.Positions[pos]; dup {
			rankings.Metadata.Errors = append(rankings.Metadata.Errors, fmt.Sprintf("Sheet %q duplicates position %s", name, pos))
			continue
		}

		players, warnings := ranking.ParseSheet(pos, input.Sheets[name])
		rankings.Positions[pos] = players
		rankings.Metadata.Warnings = append(rankings.Metadata.Warnings, warnings...)
	}
	if len(rankings.Positions) == 0 {
		return UploadResult{}, fmt.Errorf("%w: no sheet is named after a ranking position", ErrInvalidInput)
	}

	rankings.Metadata.SheetsProcessed = rankings.OrderedPositions()
	rankings.Metadata.TotalPlayers = rankings.CountPlayers()
	if err := rankings.Validate(); err != nil {
		return UploadResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.repo.Save(ctx, rankings); err != nil {
		return UploadResult{}, fmt.Errorf("%w: save rankings %d week %d: %w", ErrPersistence, rankings.Season, rankings.Week, err)
	}
	s.current.Set(ctx, currentRankingsKey, rankings)

	result := UploadResult{Rankings: rankings}
	if len(input.Roster) > 0 {
		s.reconcile(ctx, rankings, input.Roster, &result)
	}

	s.logger.InfoContext(ctx, "rankings uploaded",
		"season", rankings.Season,
		"week", rankings.Week,
		"players", rankings.Metadata.TotalPlayers,
		"sheets", len(rankings.Metadata.SheetsProcessed),
	)
	return result, nil
}

// reconcile computes match statistics and ingests the roster concurrently.
// Failures of either side become warnings on result.
func (s *RankingService) reconcile(ctx context.Context, rankings ranking.Rankings, snapshot []roster.Player, result *UploadResult) {
	var (
		wg        conc.WaitGroup
		stats     Stats
		statsErr  error
		ingest    IngestResult
		ingestErr error
	)

	if s.matcher != nil {
		wg.Go(func() {
			stats, statsErr = s.matcher.Summarize(ctx, rankings.Positions, snapshot)
		})
	}
	if s.rosters != nil {
		wg.Go(func() {
			ingest, ingestErr = s.rosters.Ingest(ctx, snapshot)
		})
	}
	wg.Wait()

	if s.matcher != nil {
		if statsErr != nil {
			s.logger.WarnContext(ctx, "match statistics failed", "error", statsErr)
			result.Warnings = append(result.Warnings, fmt.Sprintf("match statistics unavailable: %v", statsErr))
		} else {
			result.Statistics = &stats
		}
	}
	if s.rosters != nil {
		if ingestErr != nil {
			s.logger.WarnContext(ctx, "roster ingest failed", "error", ingestErr)
			result.Warnings = append(result.Warnings, fmt.Sprintf("roster not ingested: %v", ingestErr))
		} else {
			result.Ingest = &ingest
		}
	}
}

// Get loads a rankings set. A non-empty position narrows it to that sheet.
func (s *RankingService) Get(ctx context.Context, week, season int, position string) (ranking.Rankings, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.Get", attribute.Int("ranking.week", week), attribute.Int("ranking.season", season))
	defer span.End()

	if err := ranking.ValidateWeekSeason(week, season); err != nil {
		return ranking.Rankings{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var filter ranking.Position
	if position != "" {
		pos, ok := ranking.ParsePosition(position)
		if !ok {
			return ranking.Rankings{}, fmt.Errorf("%w: unknown position %q", ErrInvalidInput, position)
		}
		filter = pos
	}

	rankings, exists, err := s.repo.Get(ctx, season, week)
	if err != nil {
		return ranking.Rankings{}, fmt.Errorf("get rankings: %w", err)
	}
	if !exists {
		return ranking.Rankings{}, fmt.Errorf("%w: rankings season=%d week=%d", ErrNotFound, season, week)
	}

	if filter != "" {
		return rankings.FilterPosition(filter), nil
	}
	return rankings, nil
}

// Available lists stored rankings sets, newest first.
func (s *RankingService) Available(ctx context.Context) ([]ranking.Summary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.Available")
	defer span.End()

	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rankings: %w", err)
	}
	ranking.SortNewestFirst(items)
	return items, nil
}

// Compare loads the requested weeks of one season side by side. Weeks with no
// stored rankings are left out of the comparison.
func (s *RankingService) Compare(ctx context.Context, input CompareInput) (Comparison, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.Compare")
	defer span.End()

	if len(input.Weeks) < 2 {
		return Comparison{}, fmt.Errorf("%w: at least 2 weeks are required for comparison", ErrInvalidInput)
	}
	if input.Season == 0 {
		input.Season = s.now().UTC().Year()
	}

	out := Comparison{
		Season:      input.Season,
		Weeks:       append([]int(nil), input.Weeks...),
		Position:    "ALL",
		Comparisons: make(map[string]map[ranking.Position][]ranking.RankedPlayer, len(input.Weeks)),
	}
	if input.Position != "" {
		pos, ok := ranking.ParsePosition(input.Position)
		if !ok {
			return Comparison{}, fmt.Errorf("%w: unknown position %q", ErrInvalidInput, input.Position)
		}
		out.Position = string(pos)
	}

	position := ""
	if out.Position != "ALL" {
		position = out.Position
	}
	for _, week := range input.Weeks {
		rankings, err := s.Get(ctx, week, input.Season, position)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return Comparison{}, err
		}
		out.Comparisons["week"+strconv.Itoa(week)] = rankings.Positions
	}

	return out, nil
}

// Delete removes a rankings set and clears the current slot when it held it.
func (s *RankingService) Delete(ctx context.Context, week, season int) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.Delete", attribute.Int("ranking.week", week), attribute.Int("ranking.season", season))
	defer span.End()

	if err := ranking.ValidateWeekSeason(week, season); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	deleted, err := s.repo.Delete(ctx, season, week)
	if err != nil {
		return fmt.Errorf("%w: delete rankings: %w", ErrPersistence, err)
	}
	if !deleted {
		return fmt.Errorf("%w: rankings season=%d week=%d", ErrNotFound, season, week)
	}

	if current, ok := s.current.Get(ctx, currentRankingsKey); ok && current.Season == season && current.Week == week {
		s.current.Delete(ctx, currentRankingsKey)
	}
	s.logger.InfoContext(ctx, "rankings deleted", "season", season, "week", week)
	return nil
}

// Current returns the rankings in the current slot, loading the newest stored
// set when the slot is empty.
func (s *RankingService) Current(ctx context.Context) (ranking.Rankings, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.Current")
	defer span.End()

	return s.current.GetOrLoad(ctx, currentRankingsKey, func(ctx context.Context) (ranking.Rankings, error) {
		available, err := s.Available(ctx)
		if err != nil {
			return ranking.Rankings{}, err
		}
		if len(available) == 0 {
			return ranking.Rankings{}, fmt.Errorf("%w: no rankings uploaded", ErrNotFound)
		}
		newest := available[0]
		return s.Get(ctx, newest.Week, newest.Season, "")
	})
}

// ResetCurrent empties the current slot.
func (s *RankingService) ResetCurrent(ctx context.Context) {
	s.current.Reset(ctx)
}
