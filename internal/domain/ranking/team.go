package ranking

import "strings"

const FreeAgent = "FA"

type teamAlias struct {
	name string
	abbr string
}

// checked in order with a substring match, so longer names come first where
// they overlap.
var teamAliases = []teamAlias{
	{"JAC", "JAX"},
	{"JAGS", "JAX"},
	{"WASHINGTON", "WAS"},
	{"ARIZONA", "ARI"},
	{"ATLANTA", "ATL"},
	{"BALTIMORE", "BAL"},
	{"BUFFALO", "BUF"},
	{"CAROLINA", "CAR"},
	{"CHICAGO", "CHI"},
	{"CINCINNATI", "CIN"},
	{"CLEVELAND", "CLE"},
	{"DALLAS", "DAL"},
	{"DENVER", "DEN"},
	{"DETROIT", "DET"},
	{"GREEN BAY", "GB"},
	{"HOUSTON", "HOU"},
	{"INDIANAPOLIS", "IND"},
	{"KANSAS CITY", "KC"},
	{"LAS VEGAS", "LV"},
	{"LA CHARGERS", "LAC"},
	{"LA RAMS", "LAR"},
	{"MIAMI", "MIA"},
	{"MINNESOTA", "MIN"},
	{"NEW ENGLAND", "NE"},
	{"NEW ORLEANS", "NO"},
	{"NY GIANTS", "NYG"},
	{"NY JETS", "NYJ"},
	{"PHILADELPHIA", "PHI"},
	{"PITTSBURGH", "PIT"},
	{"SAN FRANCISCO", "SF"},
	{"49ERS", "SF"},
	{"SEATTLE", "SEA"},
	{"TAMPA BAY", "TB"},
	{"TENNESSEE", "TEN"},
}

// NormalizeTeam maps a spreadsheet team cell to an NFL abbreviation. Full
// names and known aliases are translated, 2-4 character values are kept as
// abbreviations and anything else is treated as a free agent.
func NormalizeTeam(raw string) string {
	cleaned := strings.ToUpper(strings.TrimSpace(raw))
	if cleaned == "" {
		return FreeAgent
	}

	for _, alias := range teamAliases {
		if strings.Contains(cleaned, alias.name) {
			return alias.abbr
		}
	}

	if len(cleaned) >= 2 && len(cleaned) <= 4 {
		return cleaned
	}

	return FreeAgent
}
