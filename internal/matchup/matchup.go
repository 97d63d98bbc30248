package matchup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"mlb_pitchers/report/internal/client"
	"mlb_pitchers/report/internal/config"
	"mlb_pitchers/report/internal/metrics"
	"mlb_pitchers/report/internal/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
)

// Scraper reads matchup context off the probable-pitchers page
type Scraper struct {
	fetcher Fetcher
	baseURL string
}

// NewScraper creates a scraper for the page at baseURL
func NewScraper(fetcher Fetcher, baseURL string) *Scraper {
	return &Scraper{fetcher: fetcher, baseURL: baseURL}
}

// FetchMatchupContext returns matchup context keyed by pitcher name for a
// date (MM/DD/YYYY). On any upstream failure the result is empty, never
// nil, and the error says why.
func (s *Scraper) FetchMatchupContext(ctx context.Context, date string) (map[string]models.MatchupContext, error) {
	empty := map[string]models.MatchupContext{}

	day, err := time.Parse(config.DateLayout, date)
	if err != nil {
		return empty, fmt.Errorf("matchup date %q: %w", date, err)
	}
	pageURL := s.baseURL + "?" + url.Values{"date": {day.Format("2006-01-02")}}.Encode()

	body, err := s.fetcher.FetchPage(ctx, pageURL)
	if err != nil {
		evt := log.Warn().Err(err).Str("url", pageURL)
		var se *client.StatusError
		if errors.As(err, &se) {
			evt = evt.Int("status", se.StatusCode)
		}
		evt.Msg("Failed to retrieve the probable pitchers page")
		metrics.RecordError("matchup", models.ErrorKind(err))
		return empty, err
	}

	list, err := Parse(bytes.NewReader(body))
	if err != nil {
		metrics.RecordError("matchup", models.ErrorKind(err))
		return empty, err
	}

	idx := Index(list)
	log.Info().
		Str("date", date).
		Int("blocks", len(list)).
		Int("pitchers", len(idx)).
		Msg("Matchup context scraped")

	return idx, nil
}

// Parse extracts one entry per pitcher column. A column lacking the
// expected markup yields models.PlaceholderMatchup instead of failing.
func Parse(r io.Reader) ([]models.MatchupContext, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse matchup page: %v: %w", err, models.ErrParseAnomaly)
	}

	var out []models.MatchupContext
	doc.Find("div.mod").Each(func(_ int, block *goquery.Selection) {
		block.Find("div.col").Each(func(_ int, col *goquery.Selection) {
			m, err := parseColumn(col)
			if err != nil {
				log.Debug().Err(err).Msg("Malformed matchup block")
				m = models.PlaceholderMatchup()
			}
			out = append(out, m)
		})
	})
	return out, nil
}

func parseColumn(col *goquery.Selection) (models.MatchupContext, error) {
	info := col.Find("div.player-info").First()
	if info.Length() == 0 {
		return models.MatchupContext{}, fmt.Errorf("no player-info: %w", models.ErrParseAnomaly)
	}

	throws := info.Find("span.throws").First()
	if throws.Length() == 0 {
		return models.MatchupContext{}, fmt.Errorf("no throws span: %w", models.ErrParseAnomaly)
	}
	hand := "L"
	if strings.TrimSpace(throws.Text()) == "Throws: Right" {
		hand = "R"
	}

	link := info.Find("h3 a").First()
	name := strings.TrimSpace(link.Text())
	if link.Length() == 0 || name == "" {
		return models.MatchupContext{}, fmt.Errorf("no pitcher name: %w", models.ErrParseAnomaly)
	}

	m := models.MatchupContext{Pitcher: name, Hand: hand}

	// Pitchers without a line against the opponent have no table
	rows := col.Find("table.pitcher-stats").First().Find("tr")
	if rows.Length() < 2 {
		return m, nil
	}
	cells := rows.Eq(1).Find("td")
	if cells.Length() < 2 {
		return m, nil
	}

	paText := strings.TrimSpace(cells.Eq(0).Text())
	pa, err := strconv.Atoi(paText)
	if err != nil {
		return models.MatchupContext{}, fmt.Errorf("plate appearances %q: %w", paText, models.ErrParseAnomaly)
	}

	kText := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(cells.Eq(1).Text()), "%"))
	kPct, err := strconv.ParseFloat(kText, 64)
	if err != nil {
		return models.MatchupContext{}, fmt.Errorf("strikeout pct %q: %w", kText, models.ErrParseAnomaly)
	}

	m.PlateAppearances = pa
	m.StrikeoutPct = kPct
	return m, nil
}

// Index keys entries by pitcher name. The first entry for a name wins.
func Index(list []models.MatchupContext) map[string]models.MatchupContext {
	idx := make(map[string]models.MatchupContext, len(list))
	for _, m := range list {
		if _, ok := idx[m.Pitcher]; !ok {
			idx[m.Pitcher] = m
		}
	}
	return idx
}
