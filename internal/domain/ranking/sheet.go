package ranking

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/riskibarqy/fantasy-rankings/internal/domain/playername"
)

type sheetColumns struct {
	player int
	team   int
	pos    int
	rank   int
	tier   int
	week   int
	notes  int
}

// ParseSheet turns the cell grid of one position sheet into ranked players.
// The first non-empty row is the header. Rows without a player name are
// skipped silently; rows missing a name or rank after cleanup produce a warning
// instead of failing the sheet. Players are returned sorted by rank.
func ParseSheet(position Position, rows [][]string) ([]RankedPlayer, []string) {
	headerIdx := -1
	for i, row := range rows {
		if !isBlankRow(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return []RankedPlayer{}, nil
	}

	cols := detectColumns(rows[headerIdx])
	players := make([]RankedPlayer, 0, len(rows)-headerIdx-1)
	var warnings []string

	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		rawName := cell(row, cols.player)
		if strings.TrimSpace(rawName) == "" {
			continue
		}

		player, err := extractPlayer(row, cols, position)
		if err != nil {
			// sheet row numbers are 1-based including the header
			warnings = append(warnings, fmt.Sprintf("Row %d in %s sheet: %v", i+1, position, err))
			continue
		}
		players = append(players, player)
	}

	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Rank < players[j].Rank
	})

	return players, warnings
}

func detectColumns(header []string) sheetColumns {
	cols := sheetColumns{player: -1, team: -1, pos: -1, rank: -1, tier: -1, week: -1, notes: -1}
	for i, raw := range header {
		key := strings.ToLower(strings.TrimSpace(raw))
		switch {
		case strings.Contains(key, "player") || strings.Contains(key, "name"):
			cols.player = i
		case strings.Contains(key, "team") && !strings.Contains(key, "bye"):
			cols.team = i
		case key == "pos" || strings.Contains(key, "position"):
			cols.pos = i
		case strings.Contains(key, "rank") && !strings.Contains(key, "tier"):
			cols.rank = i
		case strings.Contains(key, "tier"):
			cols.tier = i
		case strings.Contains(key, "week"):
			cols.week = i
		case strings.Contains(key, "note") || strings.Contains(key, "comment"):
			cols.notes = i
		}
	}
	return cols
}

func extractPlayer(row []string, cols sheetColumns, position Position) (RankedPlayer, error) {
	name := playername.Clean(cell(row, cols.player))
	rankRaw := strings.TrimSpace(cell(row, cols.rank))
	rank, err := strconv.Atoi(rankRaw)
	if name == "" || cols.rank < 0 || err != nil || rank < 1 {
		return RankedPlayer{}, fmt.Errorf("missing required fields: player=%q, rank=%q", name, rankRaw)
	}

	player := RankedPlayer{
		Name: name,
		Pos:  string(position),
		Rank: rank,
	}
	if cols.team >= 0 {
		player.Team = NormalizeTeam(cell(row, cols.team))
	}
	if cols.pos >= 0 {
		if pos := CanonicalPosition(cell(row, cols.pos)); pos != "" {
			player.Pos = pos
		}
	}
	if tier, err := strconv.Atoi(strings.TrimSpace(cell(row, cols.tier))); err == nil && tier > 0 {
		player.Tier = tier
	}
	if notes := strings.TrimSpace(cell(row, cols.notes)); notes != "" {
		player.Notes = notes
	}

	return player, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
