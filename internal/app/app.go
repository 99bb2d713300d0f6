package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fantasy-rankings/external/espn"
	"github.com/riskibarqy/fantasy-rankings/internal/config"
	"github.com/riskibarqy/fantasy-rankings/internal/domain/mapping"
	"github.com/riskibarqy/fantasy-rankings/internal/domain/ranking"
	"github.com/riskibarqy/fantasy-rankings/internal/domain/roster"
	cacherepo "github.com/riskibarqy/fantasy-rankings/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/fantasy-rankings/internal/infrastructure/repository/file"
	"github.com/riskibarqy/fantasy-rankings/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/fantasy-rankings/internal/platform/cache"
	"github.com/riskibarqy/fantasy-rankings/internal/platform/logging"
	"github.com/riskibarqy/fantasy-rankings/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-rankings/internal/platform/similarity"
	"github.com/riskibarqy/fantasy-rankings/internal/usecase"
)

// App holds the wired use cases. Close releases the database handle when the
// postgres driver is in use.
type App struct {
	Matcher  *usecase.MatchService
	Rosters  *usecase.RosterService
	Rankings *usecase.RankingService

	db *sqlx.DB
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var (
		store    mapping.Store
		registry roster.Registry
		db       *sqlx.DB
	)
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		var err error
		db, err = openDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		store = postgres.NewMappingStore(db)
		registry = postgres.NewPlayerRegistry(db)
	default:
		store = file.NewMappingStore(ctx, cfg.DataDir, logger.Named("mapping_store"))
		registry = file.NewPlayerRegistry(ctx, cfg.DataDir, logger.Named("player_registry"))
	}
	var rankings ranking.Repository = cacherepo.NewRankingRepository(file.NewRankingRepository(cfg.DataDir), cfg.CacheTTL)

	var provider roster.Provider
	if cfg.ESPNEnabled {
		client, err := espn.NewClient(espn.ClientConfig{
			Credentials: cfg.ESPNCredentials(),
			BaseURL:     cfg.ESPNBaseURL,
			Timeout:     cfg.ESPNTimeout,
			MaxRetries:  cfg.ESPNMaxRetries,
			Logger:      logger.Named("espn"),
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.ESPNCircuitEnabled,
				FailureThreshold: cfg.ESPNCircuitFailureCount,
				OpenTimeout:      cfg.ESPNCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.ESPNCircuitHalfOpenMaxReq,
			},
		})
		if err != nil {
			closeDB(db)
			return nil, fmt.Errorf("create espn client: %w", err)
		}
		provider = client
	}

	thresholds := usecase.Thresholds{
		Accept:   cfg.MatchAcceptThreshold,
		AutoSave: cfg.MatchAutoSaveThreshold,
		Suggest:  cfg.MatchSuggestThreshold,
	}
	if err := thresholds.Validate(); err != nil {
		closeDB(db)
		return nil, err
	}

	matcher := usecase.NewMatchService(store, similarity.NewTokenSortScorer(), usecase.MatchConfig{
		Thresholds: thresholds,
		MaxWorkers: cfg.MatchMaxWorkers,
	}, logger.Named("match"))
	rosters := usecase.NewRosterService(registry, provider, logger.Named("roster"))
	rankingSvc := usecase.NewRankingService(
		rankings,
		cache.NewStore[ranking.Rankings](cfg.CacheTTL),
		matcher,
		rosters,
		logger.Named("rankings"),
	)

	logger.InfoContext(ctx, "application wired",
		"storage_driver", cfg.StorageDriver,
		"data_dir", cfg.DataDir,
		"espn_enabled", cfg.ESPNEnabled,
	)

	return &App{
		Matcher:  matcher,
		Rosters:  rosters,
		Rankings: rankingSvc,
		db:       db,
	}, nil
}

func (a *App) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	if err := a.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

func closeDB(db *sqlx.DB) {
	if db != nil {
		_ = db.Close()
	}
}
