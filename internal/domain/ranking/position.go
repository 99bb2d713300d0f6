package ranking

import (
	"strings"
	"unicode"
)

// Position is a rankings sheet / roster slot abbreviation.
type Position string

const (
	PositionQB   Position = "QB"
	PositionRB   Position = "RB"
	PositionWR   Position = "WR"
	PositionTE   Position = "TE"
	PositionFLEX Position = "FLEX"
	PositionDST  Position = "DST"
	PositionK    Position = "K"
)

// SheetOrder is the canonical order of position sheets.
var SheetOrder = []Position{PositionQB, PositionRB, PositionWR, PositionTE, PositionFLEX, PositionDST, PositionK}

var AllPositions = map[Position]struct{}{
	PositionQB:   {},
	PositionRB:   {},
	PositionWR:   {},
	PositionTE:   {},
	PositionFLEX: {},
	PositionDST:  {},
	PositionK:    {},
}

var positionAliases = map[string]Position{
	"DEF": PositionDST,
	"D":   PositionDST,
	"PK":  PositionK,
}

var flexEligible = map[Position]struct{}{
	PositionRB: {},
	PositionWR: {},
	PositionTE: {},
}

// CanonicalPosition upper-cases raw, drops separators and trailing positional
// ranks, so "d/st" becomes "DST" and "WR12" becomes "WR". Unknown values are
// returned in their cleaned form.
func CanonicalPosition(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(strings.TrimSpace(raw)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	cleaned := strings.TrimRightFunc(b.String(), unicode.IsDigit)
	if alias, ok := positionAliases[cleaned]; ok {
		return string(alias)
	}
	return cleaned
}

// ParsePosition resolves a sheet name or query value into a known Position.
func ParsePosition(raw string) (Position, bool) {
	pos := Position(CanonicalPosition(raw))
	_, ok := AllPositions[pos]
	return pos, ok
}

// PositionsCompatible reports whether a ranked player's position and a roster
// player's position may refer to the same player. An empty side is no
// constraint, and FLEX accepts RB, WR and TE.
func PositionsCompatible(rankedPos, rosterPos string) bool {
	a := CanonicalPosition(rankedPos)
	b := CanonicalPosition(rosterPos)
	if a == "" || b == "" || a == b {
		return true
	}
	if Position(a) == PositionFLEX {
		_, ok := flexEligible[Position(b)]
		return ok
	}
	if Position(b) == PositionFLEX {
		_, ok := flexEligible[Position(a)]
		return ok
	}
	return false
}
