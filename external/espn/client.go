// Package espn reads team rosters from the ESPN fantasy football league API.
package espn

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/riskibarqy/fantasy-rankings/internal/domain/roster"
	"github.com/riskibarqy/fantasy-rankings/internal/platform/logging"
	"github.com/riskibarqy/fantasy-rankings/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-rankings/internal/usecase"
)

type ClientConfig struct {
	Credentials
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient   *http.Client
	baseURL      string
	creds        Credentials
	maxRetries   int
	retryBackoff time.Duration
	logger       *logging.Logger
	breaker      *resilience.CircuitBreaker
	flight       resilience.SingleFlight[[]roster.Player]
}

func NewClient(cfg ClientConfig) (*Client, error) {
	if err := cfg.Credentials.Validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = time.Second
	}

	breakerCfg := cfg.CircuitBreaker
	if breakerCfg.OnStateChange == nil {
		breakerCfg.OnStateChange = func(from, to resilience.CircuitState) {
			logger.Warn("espn circuit breaker state changed", "from", string(from), "to", string(to))
		}
	}

	return &Client{
		httpClient:   httpClient,
		baseURL:      baseURL,
		creds:        cfg.Credentials,
		maxRetries:   max(cfg.MaxRetries, 0),
		retryBackoff: backoff,
		logger:       logger,
		breaker:      resilience.NewCircuitBreakerFromConfig(breakerCfg),
	}, nil
}

// FetchRoster returns the configured team's current roster. Concurrent calls
// share one upstream request.
func (c *Client) FetchRoster(ctx context.Context) ([]roster.Player, error) {
	players, _, err := c.flight.Do(ctx, c.leagueURL(), func(ctx context.Context) ([]roster.Player, error) {
		envelope, err := resilience.Do(c.breaker, func() (leagueEnvelope, error) {
			var envelope leagueEnvelope
			err := c.getJSON(ctx, c.leagueURL(), &envelope)
			return envelope, err
		}, isCircuitFailure)
		if crerr.Is(err, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "espn circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: roster provider is temporarily unavailable: %w", usecase.ErrDependencyUnavailable, err)
		}
		if err != nil {
			return nil, err
		}
		return c.teamRoster(envelope)
	})
	if err != nil {
		return nil, err
	}
	return append([]roster.Player(nil), players...), nil
}

func (c *Client) teamRoster(envelope leagueEnvelope) ([]roster.Player, error) {
	for _, team := range envelope.Teams {
		if strconv.Itoa(team.ID) != c.creds.TeamID {
			continue
		}

		out := make([]roster.Player, 0, len(team.Roster.Entries))
		for _, entry := range team.Roster.Entries {
			p := entry.PlayerPoolEntry.Player
			name := strings.TrimSpace(p.FullName)
			if name == "" {
				name = "Unknown"
			}
			out = append(out, roster.Player{
				ExternalID: strconv.FormatInt(p.ID, 10),
				FullName:   name,
				Position:   Position(p.DefaultPositionID),
				ProTeam:    ProTeam(p.ProTeamID),
			})
		}
		return out, nil
	}
	return nil, crerr.Wrapf(ErrTeamNotFound, "team id=%s league id=%s", c.creds.TeamID, c.creds.LeagueID)
}

func (c *Client) leagueURL() string {
	values := url.Values{}
	values.Add("view", "mRoster")
	values.Add("view", "mTeam")
	return fmt.Sprintf("%s/seasons/%d/segments/0/leagues/%s?%s", c.baseURL, c.creds.Season, c.creds.LeagueID, values.Encode())
}

func (c *Client) getJSON(ctx context.Context, fullURL string, target any) error {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		var retryable bool
		retryable, lastErr = c.attempt(ctx, fullURL, target)
		if lastErr == nil {
			return nil
		}
		if !retryable || attempt == c.maxRetries {
			break
		}

		backoff := time.Duration(attempt+1) * c.retryBackoff
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	c.logger.WarnContext(ctx, "espn request failed", "league_id", c.creds.LeagueID, "error", lastErr)
	return lastErr
}

// attempt performs one request. retryable reports whether a later attempt
// may succeed.
func (c *Client) attempt(ctx context.Context, fullURL string, target any) (retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return false, crerr.Wrap(err, "build request")
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", "https://fantasy.espn.com/")
	req.AddCookie(&http.Cookie{Name: "espn_s2", Value: c.creds.S2})
	req.AddCookie(&http.Cookie{Name: "SWID", Value: c.creds.SWID})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return true, crerr.Mark(crerr.Newf("send request: %s", c.sanitize(err.Error())), errTransient)
	}
	defer resp.Body.Close()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if _, err := buf.ReadFrom(io.LimitReader(resp.Body, maxResponseBytes)); err != nil {
		return true, crerr.Mark(crerr.Wrap(err, "read response body"), errTransient)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &StatusError{StatusCode: resp.StatusCode, Body: c.sanitize(abbreviate(buf.String()))}
		if isRetryableStatus(resp.StatusCode) {
			return true, crerr.Mark(statusErr, errTransient)
		}
		return false, statusErr
	}

	if err := sonic.Unmarshal(buf.B, target); err != nil {
		return false, crerr.Wrap(err, "decode league payload")
	}
	return false, nil
}

func (c *Client) sanitize(value string) string {
	for _, secret := range []string{c.creds.S2, c.creds.SWID} {
		if secret != "" {
			value = strings.ReplaceAll(value, secret, "REDACTED")
		}
	}
	return strings.TrimSpace(value)
}

func abbreviate(body string) string {
	body = strings.TrimSpace(body)
	if len(body) <= 240 {
		return body
	}
	return body[:240] + "..."
}
