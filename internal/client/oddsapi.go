package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"mlb_pitchers/report/internal/models"
)

const (
	// SportMLB is The Odds API sport key for MLB
	SportMLB = "baseball_mlb"

	// MarketPitcherStrikeouts is the strikeout prop market key
	MarketPitcherStrikeouts = "pitcher_strikeouts"

	remainingHeader = "X-Requests-Remaining"
)

// OddsAPI is The Odds API v4 client. The API key is passed per call so the
// caller owns credential selection.
type OddsAPI struct {
	http    *HTTP
	baseURL string
}

// NewOddsAPI creates a new Odds API client
func NewOddsAPI(h *HTTP, baseURL string) *OddsAPI {
	return &OddsAPI{http: h, baseURL: baseURL}
}

// RequestsRemaining probes a key against the (free) sports list and returns
// the remaining request quota reported in the response headers
func (c *OddsAPI) RequestsRemaining(ctx context.Context, apiKey string) (int, error) {
	resp, err := c.http.Get(ctx, "odds_sports", c.baseURL+"/sports/", url.Values{"apiKey": {apiKey}})
	if err != nil {
		return 0, fmt.Errorf("failed to probe api key: %w", err)
	}

	raw := strings.TrimSpace(resp.Header.Get(remainingHeader))
	if raw == "" {
		return 0, fmt.Errorf("%s header not found: %w", remainingHeader, models.ErrNotAvailable)
	}

	remaining, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s header %q: %w", remainingHeader, raw, models.ErrParseAnomaly)
	}
	return remaining, nil
}

// FetchEvents fetches the events commencing in [from, to)
func (c *OddsAPI) FetchEvents(ctx context.Context, apiKey, sport string, from, to time.Time) ([]models.EventInput, error) {
	params := url.Values{"apiKey": {apiKey}}
	if !from.IsZero() {
		params.Set("commenceTimeFrom", from.UTC().Format(time.RFC3339))
	}
	if !to.IsZero() {
		params.Set("commenceTimeTo", to.UTC().Format(time.RFC3339))
	}

	path := fmt.Sprintf("%s/sports/%s/events", c.baseURL, sport)

	var events []models.EventInput
	if _, err := c.http.GetJSON(ctx, "odds_events", path, params, &events); err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}
	return events, nil
}

// FetchEventOdds fetches American-format odds for one event and market
func (c *OddsAPI) FetchEventOdds(ctx context.Context, apiKey, sport, eventID, regions, market string) (*models.EventOddsInput, error) {
	params := url.Values{
		"apiKey":     {apiKey},
		"regions":    {regions},
		"markets":    {market},
		"oddsFormat": {"american"},
	}

	path := fmt.Sprintf("%s/sports/%s/events/%s/odds", c.baseURL, sport, url.PathEscape(eventID))

	var odds models.EventOddsInput
	if _, err := c.http.GetJSON(ctx, "odds_event_odds", path, params, &odds); err != nil {
		return nil, fmt.Errorf("failed to fetch event odds: %w", err)
	}
	return &odds, nil
}
