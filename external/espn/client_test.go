package espn

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/fantasy-rankings/internal/platform/logging"
	"github.com/riskibarqy/fantasy-rankings/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-rankings/internal/usecase"
)

const leaguePayload = `{
  "teams": [
    {"id": 3, "abbrev": "OTH", "roster": {"entries": []}},
    {"id": 7, "abbrev": "ME", "location": "Gridiron", "nickname": "Ghosts", "roster": {"entries": [
      {"lineupSlotId": 0, "playerPoolEntry": {"player": {"id": 3918298, "fullName": "Josh Allen", "defaultPositionId": 1, "proTeamId": 2}}},
      {"lineupSlotId": 16, "playerPoolEntry": {"player": {"id": -16002, "fullName": "Bills D/ST", "defaultPositionId": 16, "proTeamId": 2}}},
      {"lineupSlotId": 20, "playerPoolEntry": {"player": {"id": 4430807, "fullName": "Breece Hall", "defaultPositionId": 2, "proTeamId": 20}}},
      {"lineupSlotId": 20, "playerPoolEntry": {"player": {"id": 99, "fullName": "", "defaultPositionId": 9, "proTeamId": 0}}}
    ]}}
  ]
}`

func testCredentials() Credentials {
	return Credentials{
		Season:   2025,
		LeagueID: "123456",
		TeamID:   "7",
		S2:       "AEBsecretS2cookievalue",
		SWID:     "{ABC-DEF}",
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc, mutate func(*ClientConfig)) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := ClientConfig{
		Credentials:  testCredentials(),
		HTTPClient:   server.Client(),
		BaseURL:      server.URL,
		MaxRetries:   2,
		RetryBackoff: time.Millisecond,
		Logger:       logging.NewNop(),
	}
	if mutate != nil {
		mutate(&cfg)
	}

	client, err := NewClient(cfg)
	require.NoError(t, err)
	return client
}

func TestFetchRoster_MapsTeamRoster(t *testing.T) {
	t.Parallel()

	var gotPath, gotQuery, gotCookie string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotCookie = r.Header.Get("Cookie")
		_, _ = fmt.Fprint(w, leaguePayload)
	}, nil)

	players, err := client.FetchRoster(t.Context())
	require.NoError(t, err)

	assert.Equal(t, "/seasons/2025/segments/0/leagues/123456", gotPath)
	assert.Equal(t, "view=mRoster&view=mTeam", gotQuery)
	assert.Contains(t, gotCookie, "espn_s2=AEBsecretS2cookievalue")
	assert.Contains(t, gotCookie, "SWID={ABC-DEF}")

	require.Len(t, players, 4)
	assert.Equal(t, "3918298", players[0].ExternalID)
	assert.Equal(t, "QB", players[0].Position)
	assert.Equal(t, "BUF", players[0].ProTeam)
	assert.Equal(t, "-16002", players[1].ExternalID)
	assert.Equal(t, "D/ST", players[1].Position)
	assert.Equal(t, "NYJ", players[2].ProTeam)
	assert.Equal(t, "Unknown", players[3].FullName)
	assert.Equal(t, "UNK", players[3].Position)
	assert.Equal(t, "FA", players[3].ProTeam)
}

func TestFetchRoster_TeamNotFound(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, `{"teams":[{"id":1}]}`)
	}, nil)

	_, err := client.FetchRoster(t.Context())
	require.ErrorIs(t, err, ErrTeamNotFound)
	assert.Equal(t, "Your team was not found in this league", SafeMessage(err))
}

func TestFetchRoster_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = fmt.Fprint(w, leaguePayload)
	}, nil)

	players, err := client.FetchRoster(t.Context())
	require.NoError(t, err)
	assert.Len(t, players, 4)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchRoster_DoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = fmt.Fprint(w, `{"messages":["bad cookie AEBsecretS2cookievalue"]}`)
	}, nil)

	_, err := client.FetchRoster(t.Context())
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.NotContains(t, err.Error(), "AEBsecretS2cookievalue")
	assert.Equal(t, "Authentication failed - please check your credentials", SafeMessage(err))
}

func TestFetchRoster_CircuitOpens(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, func(cfg *ClientConfig) {
		cfg.MaxRetries = 0
		cfg.CircuitBreaker = resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		}
	})

	for range 2 {
		_, err := client.FetchRoster(t.Context())
		require.Error(t, err)
		assert.Equal(t, "ESPN service error - please try again later", SafeMessage(err))
	}

	_, err := client.FetchRoster(t.Context())
	require.ErrorIs(t, err, usecase.ErrDependencyUnavailable)
	assert.Equal(t, int32(2), calls.Load(), "open circuit must not reach the server")
}

func TestFetchRoster_SharesConcurrentRequests(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		<-release
		_, _ = fmt.Fprint(w, leaguePayload)
	}, nil)

	const callers = 5
	var (
		wg      sync.WaitGroup
		started sync.WaitGroup
	)
	errs := make([]error, callers)
	started.Add(callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			started.Done()
			_, errs[i] = client.FetchRoster(t.Context())
		}()
	}
	started.Wait()
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestCredentialsValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, testCredentials().Validate())

	bad := Credentials{Season: 2025, LeagueID: "abc", TeamID: "", S2: "short", SWID: "ABC"}
	err := bad.Validate()
	require.ErrorIs(t, err, ErrInvalidConfig)
	for _, want := range []string{"league id", "team id", "espn_s2", "SWID"} {
		assert.True(t, strings.Contains(err.Error(), want), "missing %q in %v", want, err)
	}
	assert.Equal(t, "Invalid configuration", SafeMessage(err))

	_, err = NewClient(ClientConfig{Credentials: bad})
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLookupTables(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "BAL", ProTeam(33))
	assert.Equal(t, "FA", ProTeam(31))
	assert.Equal(t, "K", Position(5))
	assert.Equal(t, "UNK", Position(7))
}
