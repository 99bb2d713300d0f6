package memory

import "github.com/riskibarqy/fantasy-rankings/internal/domain/roster"

// SeedRoster is a fixed 2025 roster snapshot. Names are distinct after
// normalization and order is stable.
func SeedRoster() []roster.Player {
	return []roster.Player{
		{ExternalID: "3918298", FullName: "Josh Allen", Position: "QB", ProTeam: "BUF"},
		{ExternalID: "3916387", FullName: "Lamar Jackson", Position: "QB", ProTeam: "BAL"},
		{ExternalID: "4430807", FullName: "Bijan Robinson", Position: "RB", ProTeam: "ATL"},
		{ExternalID: "4427366", FullName: "Breece Hall", Position: "RB", ProTeam: "NYJ"},
		{ExternalID: "4047365", FullName: "Josh Jacobs", Position: "RB", ProTeam: "GB"},
		{ExternalID: "4262921", FullName: "Justin Jefferson", Position: "WR", ProTeam: "MIN"},
		{ExternalID: "4362628", FullName: "Ja'Marr Chase", Position: "WR", ProTeam: "CIN"},
		{ExternalID: "4241389", FullName: "CeeDee Lamb", Position: "WR", ProTeam: "DAL"},
		{ExternalID: "4430027", FullName: "Sam LaPorta", Position: "TE", ProTeam: "DET"},
		{ExternalID: "3055899", FullName: "Harrison Butker", Position: "K", ProTeam: "KC"},
		{ExternalID: "-16002", FullName: "Bills D/ST", Position: "D/ST", ProTeam: "BUF"},
	}
}
