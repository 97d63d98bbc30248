package models

import "database/sql"

// PitcherRecord is one row of the report, keyed by pitcher name. It is
// created from a PitcherTask and enriched in place by each join stage.
type PitcherRecord struct {
	Name      string
	PitcherID int
	Team      string
	Opponent  string
	Status    GameStatus
	GamePK    int

	Stats StatLine

	// Matchup context from the probable-pitchers page
	Hand             sql.NullString
	PlateAppearances sql.NullInt32
	StrikeoutPct     sql.NullFloat64

	// Opponent team strikeout rate (SO/PA)
	OpponentSORate sql.NullFloat64

	// Derived
	ABPerGP        sql.NullFloat64
	KPerPA         sql.NullFloat64 // 100 * K / (AB + BB)
	LiveStrikeouts sql.NullInt32
	Rank           sql.NullInt32

	// Odds maps sportsbook title to a rendered consensus cell
	Odds map[string]string

	// Error is set when the stats lookup failed; such rows are never ranked
	Error string
}

// HasError reports whether the stats lookup for this pitcher failed
func (r *PitcherRecord) HasError() bool {
	return r.Error != ""
}

// NewPitcherRecord seeds a record from a schedule task
func NewPitcherRecord(task PitcherTask) *PitcherRecord {
	return &PitcherRecord{
		Name:      task.PitcherName,
		PitcherID: task.PitcherID,
		Team:      task.Team,
		Opponent:  task.Opponent,
		Status:    task.Status,
		GamePK:    task.GamePK,
	}
}

// Notable flags a strikeout-prone matchup: the pitcher's K% against the
// lineup, the opponent's SO/PA and the sample size all clear the bar
func (r *PitcherRecord) Notable() bool {
	return r.StrikeoutPct.Valid && r.StrikeoutPct.Float64 > 25 &&
		r.OpponentSORate.Valid && r.OpponentSORate.Float64 > 25 &&
		r.PlateAppearances.Valid && r.PlateAppearances.Int32 > 20
}
