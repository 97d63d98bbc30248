package models

import (
	"fmt"
	"math"
	"strconv"
)

// OddsQuote is one consensus strikeout line for a (pitcher, sportsbook) pair
type OddsQuote struct {
	Pitcher   string
	Bookmaker string
	Point     float64
	Over      string
	Under     string
}

// Cell renders the quote the way the report shows it: "7.5: +110|-135"
func (q OddsQuote) Cell() string {
	over, under := q.Over, q.Under
	if over == "" {
		over = "N/A"
	}
	if under == "" {
		under = "N/A"
	}
	return fmt.Sprintf("%s: %s|%s", FormatPoint(q.Point), over, under)
}

// FormatPoint renders a line value keeping one decimal for whole numbers
// (6 -> "6.0", 7.5 -> "7.5").
func FormatPoint(p float64) string {
	if p == math.Trunc(p) {
		return strconv.FormatFloat(p, 'f', 1, 64)
	}
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// FormatAmerican renders American odds with an explicit sign for
// non-negative prices (120 -> "+120", -150 -> "-150").
func FormatAmerican(price float64) string {
	s := strconv.FormatFloat(price, 'f', -1, 64)
	if price >= 0 {
		return "+" + s
	}
	return s
}

// EventInput is one event from The Odds API events list
type EventInput struct {
	ID           string `json:"id"`
	SportKey     string `json:"sport_key"`
	CommenceTime string `json:"commence_time"`
	HomeTeam     string `json:"home_team"`
	AwayTeam     string `json:"away_team"`
}

// EventOddsInput is the per-event odds payload
type EventOddsInput struct {
	ID         string           `json:"id"`
	HomeTeam   string           `json:"home_team"`
	AwayTeam   string           `json:"away_team"`
	Bookmakers []BookmakerInput `json:"bookmakers"`
}

// BookmakerInput is one sportsbook's markets for an event
type BookmakerInput struct {
	Key     string        `json:"key"`
	Title   string        `json:"title"`
	Markets []MarketInput `json:"markets"`
}

// MarketInput is one market (e.g. pitcher_strikeouts) at a sportsbook
type MarketInput struct {
	Key      string         `json:"key"`
	Outcomes []OutcomeInput `json:"outcomes"`
}

// OutcomeInput is one side of a prop: Name is Over/Under, Description is
// the player.
type OutcomeInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Point       *float64 `json:"point,omitempty"`
}
