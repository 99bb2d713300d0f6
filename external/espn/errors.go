package espn

import (
	"fmt"
	"net/http"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/fantasy-rankings/internal/platform/resilience"
)

var (
	ErrInvalidConfig = crerr.New("invalid espn configuration")
	ErrTeamNotFound  = crerr.New("team not found")
	errTransient     = crerr.New("espn transient failure")
)

// StatusError is a non-2xx response from the league API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ESPN API returned %d: %s", e.StatusCode, e.Body)
}

// SafeMessage turns a FetchRoster error into a message that carries no
// credentials or response bodies.
func SafeMessage(err error) string {
	if err == nil {
		return ""
	}

	var statusErr *StatusError
	switch {
	case crerr.As(err, &statusErr):
		switch statusErr.StatusCode {
		case http.StatusUnauthorized:
			return "Authentication failed - please check your credentials"
		case http.StatusForbidden:
			return "Access denied - please verify your permissions"
		case http.StatusNotFound:
			return "League or team not found"
		default:
			if statusErr.StatusCode >= http.StatusInternalServerError {
				return "ESPN service error - please try again later"
			}
		}
	case crerr.Is(err, ErrInvalidConfig):
		return "Invalid configuration"
	case crerr.Is(err, ErrTeamNotFound):
		return "Your team was not found in this league"
	case crerr.Is(err, resilience.ErrCircuitOpen):
		return "ESPN is temporarily unavailable - please try again later"
	case crerr.Is(err, errTransient):
		return "Unable to connect to ESPN API"
	}
	return "An unexpected error occurred while fetching roster data"
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func isCircuitFailure(err error) bool {
	return crerr.Is(err, errTransient)
}
