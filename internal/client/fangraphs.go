package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"mlb_pitchers/report/internal/models"
)

// FanGraphs reads the team batting leaderboard
type FanGraphs struct {
	http    *HTTP
	baseURL string
}

// NewFanGraphs creates a new FanGraphs leaderboard client
func NewFanGraphs(h *HTTP, baseURL string) *FanGraphs {
	return &FanGraphs{http: h, baseURL: baseURL}
}

// FetchTeamBatting fetches season team batting totals
func (c *FanGraphs) FetchTeamBatting(ctx context.Context, season int) ([]models.TeamBattingInput, error) {
	year := strconv.Itoa(season)
	params := url.Values{
		"pos":       {"all"},
		"stats":     {"bat"},
		"lg":        {"all"},
		"qual":      {"0"},
		"season":    {year},
		"season1":   {year},
		"ind":       {"0"},
		"team":      {"0,ts"},
		"type":      {"0"},
		"month":     {"0"},
		"pageitems": {"100"},
	}

	var resp models.TeamBattingResponse
	if _, err := c.http.GetJSON(ctx, "fangraphs_team_batting", c.baseURL, params, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch team batting: %w", err)
	}
	return resp.Data, nil
}
