package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"mlb_pitchers/report/internal/models"
)

// MLBStats is the MLB Stats API client. It covers player lookup, season
// stats, the daily schedule and boxscores.
type MLBStats struct {
	http    *HTTP
	baseURL string
}

// NewMLBStats creates a new MLB Stats API client
func NewMLBStats(h *HTTP, baseURL string) *MLBStats {
	return &MLBStats{http: h, baseURL: baseURL}
}

// FetchPlayers fetches every MLB player registered for a season
func (c *MLBStats) FetchPlayers(ctx context.Context, season int) ([]models.PersonInput, error) {
	var resp models.PeopleResponse
	params := url.Values{"season": {strconv.Itoa(season)}}
	if _, err := c.http.GetJSON(ctx, "mlb_players", c.baseURL+"/sports/1/players", params, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch players: %w", err)
	}
	return resp.People, nil
}

// FetchPitchingSeasonStats fetches a player's season pitching line as a flat
// key/value mapping. A player with no pitching split yields an empty map.
func (c *MLBStats) FetchPitchingSeasonStats(ctx context.Context, playerID, season int) (map[string]string, error) {
	path := fmt.Sprintf("%s/people/%d/stats", c.baseURL, playerID)
	params := url.Values{
		"stats":  {"season"},
		"group":  {"pitching"},
		"season": {strconv.Itoa(season)},
	}

	var resp models.PlayerStatsResponse
	if _, err := c.http.GetJSON(ctx, "mlb_player_stats", path, params, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch player stats: %w", err)
	}

	flat := make(map[string]string)
	for _, group := range resp.Stats {
		for _, split := range group.Splits {
			for key, raw := range split.Stat {
				flat[key] = rawToString(raw)
			}
			return flat, nil
		}
	}
	return flat, nil
}

// FetchSchedule fetches the games for a date (MM/DD/YYYY) with probable
// pitchers hydrated
func (c *MLBStats) FetchSchedule(ctx context.Context, date string) (*models.ScheduleResponse, error) {
	params := url.Values{
		"sportId": {"1"},
		"date":    {date},
		"hydrate": {"probablePitcher"},
	}

	var resp models.ScheduleResponse
	if _, err := c.http.GetJSON(ctx, "mlb_schedule", c.baseURL+"/schedule", params, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch schedule: %w", err)
	}
	return &resp, nil
}

// FetchBoxScore fetches the boxscore for a game
func (c *MLBStats) FetchBoxScore(ctx context.Context, gamePK int) (*models.BoxScoreInput, error) {
	path := fmt.Sprintf("%s/game/%d/boxscore", c.baseURL, gamePK)

	var resp models.BoxScoreInput
	if _, err := c.http.GetJSON(ctx, "mlb_boxscore", path, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch boxscore: %w", err)
	}
	return &resp, nil
}

// rawToString unquotes JSON strings and keeps numbers and literals verbatim
func rawToString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
