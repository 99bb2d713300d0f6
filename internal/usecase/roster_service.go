package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/fantasy-rankings/internal/domain/roster"
	"github.com/riskibarqy/fantasy-rankings/internal/platform/logging"
)

type IngestResult struct {
	Received  int      `json:"received"`
	Inserted  int      `json:"inserted"`
	Refreshed int      `json:"refreshed"`
	Skipped   int      `json:"skipped"`
	Warnings  []string `json:"warnings,omitempty"`
}

type RosterService struct {
	registry roster.Registry
	provider roster.Provider
	logger   *logging.Logger
	now      func() time.Time
}

// NewRosterService wires the registry with an optional provider; Sync is
// unavailable without one.
func NewRosterService(registry roster.Registry, provider roster.Provider, logger *logging.Logger) *RosterService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RosterService{
		registry: registry,
		provider: provider,
		logger:   logger,
		now:      time.Now,
	}
}

// Ingest records every player of snapshot in the known-players registry.
// Players missing an id or name are skipped. Duplicate ids in one snapshot
// count once. A failed registry write is reported as a warning.
func (s *RosterService) Ingest(ctx context.Context, snapshot []roster.Player) (IngestResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.Ingest", attribute.Int("roster.received", len(snapshot)))
	defer span.End()

	result := IngestResult{Received: len(snapshot)}
	seenAt := s.now().UTC()
	seen := make(map[string]struct{}, len(snapshot))
	sightings := make([]roster.KnownPlayer, 0, len(snapshot))
	for _, player := range snapshot {
		player.ExternalID = strings.TrimSpace(player.ExternalID)
		player.FullName = strings.TrimSpace(player.FullName)
		if err := player.Validate(); err != nil {
			result.Skipped++
			result.Warnings = append(result.Warnings, err.Error())
			continue
		}
		if _, dup := seen[player.ExternalID]; dup {
			result.Skipped++
			continue
		}
		seen[player.ExternalID] = struct{}{}
		sightings = append(sightings, roster.FromPlayer(player, seenAt))
	}
	if len(sightings) == 0 {
		return result, nil
	}

	upserted, err := s.registry.Upsert(ctx, sightings)
	result.Inserted = upserted.Inserted
	result.Refreshed = upserted.Refreshed
	if err != nil {
		s.logger.WarnContext(ctx, "persist known players failed", "players", len(sightings), "error", err)
		result.Warnings = append(result.Warnings, fmt.Sprintf("known players not persisted: %v", err))
		return result, nil
	}

	s.logger.InfoContext(ctx, "roster ingested",
		"received", result.Received,
		"inserted", result.Inserted,
		"refreshed", result.Refreshed,
		"skipped", result.Skipped,
	)
	return result, nil
}

// Sync fetches the current roster from the provider and ingests it. The
// fetched snapshot is returned for callers that match against it.
func (s *RosterService) Sync(ctx context.Context) ([]roster.Player, IngestResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.Sync")
	defer span.End()

	if s.provider == nil {
		return nil, IngestResult{}, fmt.Errorf("%w: roster provider is not configured (ESPN_ENABLED=false)", ErrDependencyUnavailable)
	}

	players, err := s.provider.FetchRoster(ctx)
	if err != nil {
		return nil, IngestResult{}, fmt.Errorf("fetch roster: %w", err)
	}

	result, err := s.Ingest(ctx, players)
	if err != nil {
		return nil, IngestResult{}, err
	}
	return players, result, nil
}

func (s *RosterService) KnownPlayers(ctx context.Context) ([]roster.KnownPlayer, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.KnownPlayers")
	defer span.End()

	items, err := s.registry.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list known players: %w", err)
	}
	return items, nil
}

// CandidatePool returns the registry as match candidates, so players who
// left a roster stay matchable.
func (s *RosterService) CandidatePool(ctx context.Context) ([]roster.Player, error) {
	known, err := s.KnownPlayers(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]roster.Player, 0, len(known))
	for _, k := range known {
		out = append(out, k.AsPlayer())
	}
	return out, nil
}
