package espn

import (
	"strconv"
	"strings"

	crerr "github.com/cockroachdb/errors"
)

const (
	defaultBaseURL   = "https://lm-api-reads.fantasy.espn.com/apis/v3/games/ffl"
	defaultUserAgent = "ESPN-Fantasy-Dashboard/1.0"
	maxResponseBytes = 8 << 20
)

// proTeams maps ESPN proTeamId to the NFL abbreviation used in ranking sheets.
var proTeams = map[int]string{
	1: "ATL", 2: "BUF", 3: "CHI", 4: "CIN", 5: "CLE",
	6: "DAL", 7: "DEN", 8: "DET", 9: "GB", 10: "TEN",
	11: "IND", 12: "KC", 13: "LV", 14: "LAR", 15: "MIA",
	16: "MIN", 17: "NE", 18: "NO", 19: "NYG", 20: "NYJ",
	21: "PHI", 22: "ARI", 23: "PIT", 24: "LAC", 25: "SF",
	26: "SEA", 27: "TB", 28: "WAS", 29: "CAR", 30: "JAX",
	33: "BAL", 34: "HOU",
}

// positions maps ESPN defaultPositionId to a roster position.
var positions = map[int]string{
	1: "QB", 2: "RB", 3: "WR", 4: "TE", 5: "K", 16: "D/ST",
}

func ProTeam(id int) string {
	if team, ok := proTeams[id]; ok {
		return team
	}
	return "FA"
}

func Position(id int) string {
	if pos, ok := positions[id]; ok {
		return pos
	}
	return "UNK"
}

// Credentials identify one team in a private ESPN league.
type Credentials struct {
	Season   int
	LeagueID string
	TeamID   string
	S2       string
	SWID     string
}

// Validate reports every malformed field at once.
func (c Credentials) Validate() error {
	var problems []string
	if !isNumeric(c.LeagueID) {
		problems = append(problems, "invalid league id format: must be numeric")
	}
	if !isNumeric(c.TeamID) {
		problems = append(problems, "invalid team id format: must be numeric")
	}
	if len(c.S2) < 10 {
		problems = append(problems, "invalid espn_s2 format")
	}
	if !strings.HasPrefix(c.SWID, "{") || !strings.HasSuffix(c.SWID, "}") {
		problems = append(problems, "invalid SWID format: must be wrapped in curly braces")
	}
	if c.Season <= 0 {
		problems = append(problems, "season is required")
	}

	if len(problems) > 0 {
		return crerr.Wrapf(ErrInvalidConfig, "espn configuration validation failed: %s", strings.Join(problems, ", "))
	}
	return nil
}

func isNumeric(raw string) bool {
	if raw == "" {
		return false
	}
	_, err := strconv.ParseUint(raw, 10, 64)
	return err == nil
}

type leagueEnvelope struct {
	Teams []teamPayload `json:"teams"`
}

type teamPayload struct {
	ID       int    `json:"id"`
	Abbrev   string `json:"abbrev"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Nickname string `json:"nickname"`
	Roster   struct {
		Entries []rosterEntryPayload `json:"entries"`
	} `json:"roster"`
}

type rosterEntryPayload struct {
	LineupSlotID    int `json:"lineupSlotId"`
	PlayerPoolEntry struct {
		Player playerPayload `json:"player"`
	} `json:"playerPoolEntry"`
}

type playerPayload struct {
	ID                int64  `json:"id"`
	FullName          string `json:"fullName"`
	DefaultPositionID int    `json:"defaultPositionId"`
	ProTeamID         int    `json:"proTeamId"`
	InjuryStatus      string `json:"injuryStatus"`
}
