package ranking

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	MinWeek   = 1
	MaxWeek   = 18
	MinSeason = 2020
	MaxSeason = 2030
)

// RankedPlayer is one row of a position sheet. Team and Pos are empty when the
// sheet did not carry them.
type RankedPlayer struct {
	Name  string `json:"name"`
	Team  string `json:"team,omitempty"`
	Pos   string `json:"pos,omitempty"`
	Rank  int    `json:"rank"`
	Tier  int    `json:"tier,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// Metadata carries ingestion bookkeeping for a rankings set.
type Metadata struct {
	TotalPlayers    int        `json:"totalPlayers"`
	SheetsProcessed []Position `json:"sheetsProcessed"`
	Errors          []string   `json:"errors"`
	Warnings        []string   `json:"warnings"`
}

// Rankings is the weekly set of ranked players grouped by position sheet.
type Rankings struct {
	Week       int                         `json:"week"`
	Season     int                         `json:"season"`
	UploadedAt time.Time                   `json:"uploadedAt"`
	Positions  map[Position][]RankedPlayer `json:"positions"`
	Metadata   Metadata                    `json:"metadata"`
}

// Summary describes a stored rankings set without its players.
type Summary struct {
	Season       int       `json:"season"`
	Week         int       `json:"week"`
	Filename     string    `json:"filename,omitempty"`
	UploadedAt   time.Time `json:"uploadedAt"`
	TotalPlayers int       `json:"totalPlayers"`
}

func (r Rankings) Validate() error {
	if err := ValidateWeekSeason(r.Week, r.Season); err != nil {
		return err
	}
	if len(r.Positions) == 0 {
		return fmt.Errorf("rankings must contain at least one position")
	}
	for pos, players := range r.Positions {
		if _, ok := AllPositions[pos]; !ok {
			return fmt.Errorf("invalid rankings position: %s", pos)
		}
		for i, p := range players {
			if strings.TrimSpace(p.Name) == "" {
				return fmt.Errorf("player %d in %s has no name", i+1, pos)
			}
			if p.Rank < 1 {
				return fmt.Errorf("player %q in %s has invalid rank %d", p.Name, pos, p.Rank)
			}
		}
	}

	return nil
}

// CountPlayers returns the number of ranked players across all positions.
func (r Rankings) CountPlayers() int {
	total := 0
	for _, players := range r.Positions {
		total += len(players)
	}
	return total
}

func ValidateWeekSeason(week, season int) error {
	if week < MinWeek || week > MaxWeek {
		return fmt.Errorf("invalid week %d: must be between %d and %d", week, MinWeek, MaxWeek)
	}
	if season < MinSeason || season > MaxSeason {
		return fmt.Errorf("invalid season %d: must be between %d and %d", season, MinSeason, MaxSeason)
	}
	return nil
}

// CurrentWeek approximates the NFL week for now: week 1 until September 1st,
// then one week per seven days, capped at MaxWeek.
func CurrentWeek(now time.Time) int {
	seasonStart := time.Date(now.Year(), time.September, 1, 0, 0, 0, 0, now.Location())
	if now.Before(seasonStart) {
		return MinWeek
	}

	week := int(now.Sub(seasonStart)/(7*24*time.Hour)) + 1
	if week < MinWeek {
		return MinWeek
	}
	if week > MaxWeek {
		return MaxWeek
	}
	return week
}

// Summarize describes r without its players.
func (r Rankings) Summarize() Summary {
	return Summary{
		Season:       r.Season,
		Week:         r.Week,
		UploadedAt:   r.UploadedAt,
		TotalPlayers: r.CountPlayers(),
	}
}

// SortNewestFirst orders summaries by season then week, both descending.
func SortNewestFirst(items []Summary) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Season != items[j].Season {
			return items[i].Season > items[j].Season
		}
		return items[i].Week > items[j].Week
	})
}

// FilterPosition returns a copy of r holding only pos. A position missing
// from r yields an empty list for that position.
func (r Rankings) FilterPosition(pos Position) Rankings {
	filtered := r
	players := r.Positions[pos]
	if players == nil {
		players = []RankedPlayer{}
	}
	filtered.Positions = map[Position][]RankedPlayer{pos: players}
	return filtered
}

// OrderedPositions returns the positions present in r in sheet order.
func (r Rankings) OrderedPositions() []Position {
	return OrderPositions(r.Positions)
}

// OrderPositions lists the keys of positions in SheetOrder, followed by any
// unknown keys sorted alphabetically.
func OrderPositions[T any](positions map[Position]T) []Position {
	out := make([]Position, 0, len(positions))
	for _, pos := range SheetOrder {
		if _, ok := positions[pos]; ok {
			out = append(out, pos)
		}
	}

	var extra []Position
	for pos := range positions {
		if _, ok := AllPositions[pos]; !ok {
			extra = append(extra, pos)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(out, extra...)
}
