package roster

import (
	"fmt"
	"strings"
	"time"
)

// Player is a point-in-time roster entry supplied by the roster platform.
// Position and ProTeam are empty when the platform omits them.
type Player struct {
	ExternalID string `json:"id"`
	FullName   string `json:"fullName"`
	Position   string `json:"position,omitempty"`
	ProTeam    string `json:"proTeam,omitempty"`
}

func (p Player) Validate() error {
	if strings.TrimSpace(p.ExternalID) == "" {
		return fmt.Errorf("roster player id is required")
	}
	if strings.TrimSpace(p.FullName) == "" {
		return fmt.Errorf("roster player %s has no name", p.ExternalID)
	}
	return nil
}

// KnownPlayer is a registry entry for a player ever seen on a roster snapshot.
type KnownPlayer struct {
	ExternalID string    `json:"id" db:"external_id"`
	Name       string    `json:"name" db:"name"`
	Position   string    `json:"position" db:"position"`
	Team       string    `json:"team" db:"team"`
	LastSeen   time.Time `json:"lastSeen" db:"last_seen"`
}

// FromPlayer builds a registry entry sighted at seenAt.
func FromPlayer(p Player, seenAt time.Time) KnownPlayer {
	return KnownPlayer{
		ExternalID: p.ExternalID,
		Name:       p.FullName,
		Position:   p.Position,
		Team:       p.ProTeam,
		LastSeen:   seenAt,
	}
}

// AsPlayer converts a registry entry back into a roster candidate.
func (k KnownPlayer) AsPlayer() Player {
	return Player{
		ExternalID: k.ExternalID,
		FullName:   k.Name,
		Position:   k.Position,
		ProTeam:    k.Team,
	}
}

// UpsertResult reports how a snapshot changed the registry.
type UpsertResult struct {
	Inserted  int `json:"inserted"`
	Refreshed int `json:"refreshed"`
}
