package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/fantasy-rankings/internal/config"
	"github.com/riskibarqy/fantasy-rankings/internal/domain/ranking"
	"github.com/riskibarqy/fantasy-rankings/internal/domain/roster"
	"github.com/riskibarqy/fantasy-rankings/internal/platform/logging"
	"github.com/riskibarqy/fantasy-rankings/internal/usecase"
)

func fileConfig(dir string) config.Config {
	return config.Config{
		AppEnv:                 config.EnvDev,
		StorageDriver:          config.StorageFile,
		DataDir:                dir,
		MatchAcceptThreshold:   0.8,
		MatchAutoSaveThreshold: 0.9,
		MatchSuggestThreshold:  0.4,
		MatchMaxWorkers:        2,
	}
}

func TestNew_FileDriverPersistsAcrossRestarts(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	dir := t.TempDir()
	snapshot := []roster.Player{{ExternalID: "3918298", FullName: "Josh Allen", Position: "QB", ProTeam: "BUF"}}

	first, err := New(ctx, fileConfig(dir), logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = first.Close() })

	res, err := first.Matcher.MatchPlayer(ctx, ranking.RankedPlayer{Name: "Josh Allen", Team: "BUF", Pos: "QB", Rank: 1}, snapshot)
	require.NoError(t, err)
	require.True(t, res.Matched)

	_, err = first.Rosters.Ingest(ctx, snapshot)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "name-mappings.json"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "espn-players.json"))
	require.NoError(t, err)

	second, err := New(ctx, fileConfig(dir), logging.NewNop())
	require.NoError(t, err)

	res, err = second.Matcher.MatchPlayer(ctx, ranking.RankedPlayer{Name: "Josh Allen", Team: "BUF", Pos: "QB", Rank: 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, "saved_mapping", string(res.Method))

	known, err := second.Rosters.KnownPlayers(ctx)
	require.NoError(t, err)
	assert.Len(t, known, 1)

	_, _, err = second.Rosters.Sync(ctx)
	assert.ErrorIs(t, err, usecase.ErrDependencyUnavailable, "sync needs ESPN_ENABLED")
}

func TestNew_RejectsBadThresholds(t *testing.T) {
	t.Parallel()

	cfg := fileConfig(t.TempDir())
	cfg.MatchAcceptThreshold = 0.95

	_, err := New(t.Context(), cfg, logging.NewNop())
	require.Error(t, err)
}

func TestNew_RejectsBadESPNCredentials(t *testing.T) {
	t.Parallel()

	cfg := fileConfig(t.TempDir())
	cfg.ESPNEnabled = true
	cfg.ESPNSeason = 2025
	cfg.ESPNLeagueID = "abc"

	_, err := New(t.Context(), cfg, logging.NewNop())
	require.Error(t, err)
}
