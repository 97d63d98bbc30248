package teams

import (
	"context"
	"sort"

	"mlb_pitchers/report/internal/models"

	"github.com/rs/zerolog/log"
)

// Unknown is the name given to an abbreviation missing from the table
const Unknown = "Unknown"

// fullNames maps leaderboard abbreviations to schedule team names
var fullNames = map[string]string{
	"SEA": "Seattle Mariners",
	"OAK": "Oakland Athletics",
	"ATH": "Athletics",
	"CIN": "Cincinnati Reds",
	"BOS": "Boston Red Sox",
	"COL": "Colorado Rockies",
	"PIT": "Pittsburgh Pirates",
	"TBR": "Tampa Bay Rays",
	"DET": "Detroit Tigers",
	"MIN": "Minnesota Twins",
	"CHC": "Chicago Cubs",
	"ATL": "Atlanta Braves",
	"MIL": "Milwaukee Brewers",
	"CHW": "Chicago White Sox",
	"LAA": "Los Angeles Angels",
	"STL": "St. Louis Cardinals",
	"WSN": "Washington Nationals",
	"LAD": "Los Angeles Dodgers",
	"PHI": "Philadelphia Phillies",
	"BAL": "Baltimore Orioles",
	"SFG": "San Francisco Giants",
	"MIA": "Miami Marlins",
	"TEX": "Texas Rangers",
	"NYM": "New York Mets",
	"ARI": "Arizona Diamondbacks",
	"CLE": "Cleveland Guardians",
	"TOR": "Toronto Blue Jays",
	"NYY": "New York Yankees",
	"SDP": "San Diego Padres",
	"KCR": "Kansas City Royals",
	"HOU": "Houston Astros",
}

// FullName resolves a team abbreviation, or Unknown
func FullName(abbr string) string {
	if name, ok := fullNames[abbr]; ok {
		return name
	}
	return Unknown
}

// Source is the team batting leaderboard
type Source interface {
	FetchTeamBatting(ctx context.Context, season int) ([]models.TeamBattingInput, error)
}

// Profiles fetches the season leaderboard and computes each team's
// strikeout rate as 100 * SO / PA, highest first. Teams with no plate
// appearances are dropped.
func Profiles(ctx context.Context, src Source, season int) ([]models.TeamBattingProfile, error) {
	rows, err := src.FetchTeamBatting(ctx, season)
	if err != nil {
		return nil, err
	}

	profiles := make([]models.TeamBattingProfile, 0, len(rows))
	for _, row := range rows {
		if row.PA <= 0 {
			continue
		}
		name := FullName(row.TeamNameAbb)
		if name == Unknown {
			log.Warn().Str("abbreviation", row.TeamNameAbb).Msg("Unmapped team abbreviation")
		}
		profiles = append(profiles, models.TeamBattingProfile{
			Team:          name,
			StrikeoutRate: 100 * row.SO / row.PA,
		})
	}

	sort.SliceStable(profiles, func(i, j int) bool {
		return profiles[i].StrikeoutRate > profiles[j].StrikeoutRate
	})

	log.Info().Int("teams", len(profiles)).Msg("Team batting profiles computed")
	return profiles, nil
}

// RateIndex keys profiles by full team name. The first profile wins for a
// repeated name, which only happens for Unknown.
func RateIndex(profiles []models.TeamBattingProfile) map[string]float64 {
	idx := make(map[string]float64, len(profiles))
	for _, p := range profiles {
		if _, ok := idx[p.Team]; !ok {
			idx[p.Team] = p.StrikeoutRate
		}
	}
	return idx
}

// Leaderboard serves team profiles from a batting leaderboard source
type Leaderboard struct {
	src Source
}

// NewLeaderboard creates a Leaderboard
func NewLeaderboard(src Source) *Leaderboard {
	return &Leaderboard{src: src}
}

// TeamProfiles returns the season's team strikeout profiles
func (l *Leaderboard) TeamProfiles(ctx context.Context, season int) ([]models.TeamBattingProfile, error) {
	return Profiles(ctx, l.src, season)
}
