package models

import (
	"database/sql"
	"encoding/json"
)

// StatLine is the fixed projection of a pitcher's season line. Fields the
// provider omits stay invalid rather than failing the lookup.
type StatLine struct {
	GamesPlayed    sql.NullInt32
	AtBats         sql.NullInt32
	Walks          sql.NullInt32
	Avg            sql.NullString
	Strikeouts     sql.NullInt32
	StrikeoutsPer9 sql.NullFloat64
}

// PeopleResponse is the MLB Stats API player list payload
type PeopleResponse struct {
	People []PersonInput `json:"people"`
}

// PersonInput is a single player from the player list
type PersonInput struct {
	ID              int       `json:"id"`
	FullName        string    `json:"fullName"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	CurrentTeam     PersonRef `json:"currentTeam"`
	PrimaryPosition struct {
		Abbreviation string `json:"abbreviation"`
	} `json:"primaryPosition"`
}

// PlayerStatsResponse is the MLB Stats API season stats payload
type PlayerStatsResponse struct {
	Stats []struct {
		Group struct {
			DisplayName string `json:"displayName"`
		} `json:"group"`
		Splits []struct {
			Season string                     `json:"season"`
			Stat   map[string]json.RawMessage `json:"stat"`
		} `json:"splits"`
	} `json:"stats"`
}

// TeamBattingProfile is a team's season strikeout tendency at the plate
type TeamBattingProfile struct {
	Team          string
	StrikeoutRate float64 // 100 * SO / PA
}

// TeamBattingInput is one row of the FanGraphs team batting leaderboard
type TeamBattingInput struct {
	TeamNameAbb string  `json:"TeamNameAbb"`
	SO          float64 `json:"SO"`
	PA          float64 `json:"PA"`
}

// TeamBattingResponse is the FanGraphs leaders payload
type TeamBattingResponse struct {
	Data []TeamBattingInput `json:"data"`
}

// MatchupContext is what the probable-pitchers page says about a starter
type MatchupContext struct {
	Pitcher          string
	Hand             string
	PlateAppearances int
	StrikeoutPct     float64
}

// PlaceholderMatchup is recorded for a block that lacks the expected markup
func PlaceholderMatchup() MatchupContext {
	return MatchupContext{Pitcher: "TBD", Hand: "TBD"}
}
