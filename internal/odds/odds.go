package odds

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"mlb_pitchers/report/internal/cache"
	"mlb_pitchers/report/internal/client"
	"mlb_pitchers/report/internal/config"
	"mlb_pitchers/report/internal/metrics"
	"mlb_pitchers/report/internal/models"

	"github.com/rs/zerolog/log"
)

// Source is the odds provider
type Source interface {
	RequestsRemaining(ctx context.Context, apiKey string) (int, error)
	FetchEvents(ctx context.Context, apiKey, sport string, from, to time.Time) ([]models.EventInput, error)
	FetchEventOdds(ctx context.Context, apiKey, sport, eventID, regions, market string) (*models.EventOddsInput, error)
}

// SelectKey probes keys in order and returns the first with more than
// minRemaining requests left. A key that fails to probe is skipped.
func SelectKey(ctx context.Context, src Source, keys []string, minRemaining int) (string, error) {
	for i, key := range keys {
		remaining, err := src.RequestsRemaining(ctx, key)
		if err != nil {
			log.Warn().Err(err).Int("key_index", i).Msg("Failed to probe odds API key")
			continue
		}
		if remaining > minRemaining {
			metrics.OddsKeyRemaining.Set(float64(remaining))
			log.Info().
				Int("key_index", i).
				Int("requests_remaining", remaining).
				Msg("Using odds API key")
			return key, nil
		}
		log.Debug().Int("key_index", i).Int("requests_remaining", remaining).Msg("Odds API key below quota threshold")
	}
	return "", fmt.Errorf("no odds API key with more than %d requests remaining: %w", minRemaining, models.ErrQuotaExhausted)
}

// Options tune an Adapter
type Options struct {
	Regions  string
	Ignored  []string
	Location *time.Location
}

// Adapter resolves events and builds per-pitcher consensus rows with one
// selected API key. The events list is fetched at most once per date.
type Adapter struct {
	src   Source
	key   string
	cache cache.EventCache
	opts  Options

	mu     sync.Mutex
	events map[string][]models.EventInput
	odds   map[string]map[string][]models.OddsQuote
}

// New creates an odds adapter. A nil cache disables event id caching.
func New(src Source, apiKey string, c cache.EventCache, opts Options) *Adapter {
	if c == nil {
		c = cache.Nop{}
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Adapter{
		src:    src,
		key:    apiKey,
		cache:  c,
		opts:   opts,
		events: make(map[string][]models.EventInput),
		odds:   make(map[string]map[string][]models.OddsQuote),
	}
}

// ResolveEventID finds the event the team plays in on date (MM/DD/YYYY)
func (a *Adapter) ResolveEventID(ctx context.Context, team, date string) (string, error) {
	if id, ok, err := a.cache.Get(ctx, date, team); err != nil {
		log.Warn().Err(err).Str("team", team).Msg("Event cache read failed")
	} else if ok {
		metrics.RecordCacheHit()
		return id, nil
	}
	metrics.RecordCacheMiss()

	events, err := a.eventsFor(ctx, date)
	if err != nil {
		return "", err
	}

	for _, e := range events {
		if sameTeam(team, e.HomeTeam) || sameTeam(team, e.AwayTeam) {
			if err := a.cache.Put(ctx, date, team, e.ID); err != nil {
				log.Warn().Err(err).Str("team", team).Msg("Event cache write failed")
			}
			return e.ID, nil
		}
	}
	return "", fmt.Errorf("event for team %s on %s: %w", team, date, models.ErrNotFound)
}

// FetchStrikeoutOdds returns the pitcher's consensus row, bookmaker title
// -> "point: over|under". Props for an event are fetched once and shared by
// both starters.
func (a *Adapter) FetchStrikeoutOdds(ctx context.Context, eventID, pitcher string) (map[string]string, error) {
	consensus, err := a.consensusFor(ctx, eventID)
	if err != nil {
		return nil, err
	}

	quotes := ForPitcher(consensus, pitcher)
	if len(quotes) == 0 {
		return nil, fmt.Errorf("strikeout odds for %s: %w", pitcher, models.ErrNotFound)
	}
	return Pivot(quotes), nil
}

// PitcherOdds resolves the team's event and returns the pitcher's row
func (a *Adapter) PitcherOdds(ctx context.Context, team, date, pitcher string) (map[string]string, error) {
	eventID, err := a.ResolveEventID(ctx, team, date)
	if err != nil {
		return nil, err
	}
	return a.FetchStrikeoutOdds(ctx, eventID, pitcher)
}

func (a *Adapter) eventsFor(ctx context.Context, date string) ([]models.EventInput, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if events, ok := a.events[date]; ok {
		return events, nil
	}

	day, err := time.ParseInLocation(config.DateLayout, date, a.opts.Location)
	if err != nil {
		return nil, fmt.Errorf("odds date %q: %w", date, err)
	}

	events, err := a.src.FetchEvents(ctx, a.key, client.SportMLB, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	log.Debug().Str("date", date).Int("events", len(events)).Msg("Odds events fetched")
	a.events[date] = events
	return events, nil
}

func (a *Adapter) consensusFor(ctx context.Context, eventID string) (map[string][]models.OddsQuote, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if c, ok := a.odds[eventID]; ok {
		return c, nil
	}

	payload, err := a.src.FetchEventOdds(ctx, a.key, client.SportMLB, eventID, a.opts.Regions, client.MarketPitcherStrikeouts)
	if err != nil {
		return nil, err
	}

	c := Consensus(payload.Bookmakers, a.opts.Ignored)
	a.odds[eventID] = c
	return c, nil
}

// teamAliases lists names the provider may use for the same club
var teamAliases = map[string]string{
	"Athletics":         "Oakland Athletics",
	"Oakland Athletics": "Athletics",
}

func sameTeam(a, b string) bool {
	return a == b || teamAliases[a] == b
}

// Columns orders bookmaker columns: preferred titles that appear in rows
// first, in the given order, then any others alphabetically
func Columns(preferred []string, rows []map[string]string) []string {
	seen := make(map[string]bool)
	for _, row := range rows {
		for book := range row {
			seen[book] = true
		}
	}

	cols := make([]string, 0, len(seen))
	for _, book := range preferred {
		if seen[book] {
			cols = append(cols, book)
			delete(seen, book)
		}
	}

	rest := make([]string, 0, len(seen))
	for book := range seen {
		rest = append(rest, book)
	}
	sort.Strings(rest)
	return append(cols, rest...)
}

