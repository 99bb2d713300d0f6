package mapping

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-rankings/internal/domain/playername"
)

// Method records how a mapping or match result was produced.
type Method string

const (
	MethodExact   Method = "exact_match"
	MethodFuzzy   Method = "fuzzy_match"
	MethodManual  Method = "manual_mapping"
	MethodSaved   Method = "saved_mapping"
	MethodNoMatch Method = "no_match"
)

const (
	unknownTeam     = "FA"
	unknownPosition = "UNKNOWN"
)

// PlayerKey identifies a ranked player for mapping purposes.
type PlayerKey string

// NewPlayerKey derives "normalized name|team|pos" in lower case. A missing
// team becomes FA and a missing position becomes UNKNOWN, so identical
// name/team/pos triples always collapse to the same key.
func NewPlayerKey(name, team, pos string) PlayerKey {
	team = strings.TrimSpace(team)
	if team == "" {
		team = unknownTeam
	}
	pos = strings.TrimSpace(pos)
	if pos == "" {
		pos = unknownPosition
	}

	return PlayerKey(strings.ToLower(playername.Normalize(name) + "|" + team + "|" + pos))
}

// Mapping is a stored association between a PlayerKey and an external player.
type Mapping struct {
	Key          PlayerKey `json:"-" db:"player_key"`
	ExternalID   string    `json:"espnId" db:"external_id"`
	ExternalName string    `json:"espnName" db:"external_name"`
	Confidence   float64   `json:"confidence" db:"confidence"`
	Method       Method    `json:"method" db:"method"`
	Manual       bool      `json:"manual,omitempty" db:"manual"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

func (m Mapping) Validate() error {
	if m.Key == "" {
		return fmt.Errorf("mapping key is required")
	}
	if strings.TrimSpace(m.ExternalID) == "" {
		return fmt.Errorf("mapping external id is required")
	}
	if m.Confidence < 0 || m.Confidence > 1 {
		return fmt.Errorf("mapping confidence %.2f out of range", m.Confidence)
	}
	switch m.Method {
	case MethodExact, MethodFuzzy, MethodManual, MethodSaved:
	default:
		return fmt.Errorf("invalid mapping method: %s", m.Method)
	}

	return nil
}
