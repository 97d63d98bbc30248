package odds

import (
	"mlb_pitchers/report/internal/client"
	"mlb_pitchers/report/internal/models"
	"mlb_pitchers/report/internal/names"
)

// Consensus reduces every bookmaker's strikeout props to one line per
// pitcher. The line is the most quoted point across the bookmakers not
// in ignored; on a tie the point seen first wins. Each bookmaker that
// quotes the pitcher contributes a quote at that line, with empty prices
// when it has no price there. If no bookmaker prices the consensus line
// at all, every raw quote for the pitcher is kept instead.
//
// The result is keyed by pitcher as the provider spells it. Quotes keep
// bookmaker order.
func Consensus(bookmakers []models.BookmakerInput, ignored []string) map[string][]models.OddsQuote {
	books := filterBooks(bookmakers, ignored)

	points := make(map[string][]float64)
	var pitchers []string
	for _, b := range books {
		for _, o := range strikeoutOutcomes(b) {
			if _, ok := points[o.Description]; !ok {
				pitchers = append(pitchers, o.Description)
			}
			points[o.Description] = append(points[o.Description], *o.Point)
		}
	}

	out := make(map[string][]models.OddsQuote, len(pitchers))
	for _, pitcher := range pitchers {
		line := modePoint(points[pitcher])

		var atLine []models.OddsQuote
		priced := false
		for _, b := range books {
			q, quoted, hit := quoteAt(b, pitcher, line)
			if !quoted {
				continue
			}
			priced = priced || hit
			atLine = append(atLine, q)
		}

		if priced {
			out[pitcher] = atLine
			continue
		}

		var raw []models.OddsQuote
		for _, b := range books {
			raw = append(raw, rawQuotes(b, pitcher)...)
		}
		out[pitcher] = raw
	}
	return out
}

// ForPitcher picks the named pitcher's quotes, folding accents on both
// sides of the comparison
func ForPitcher(consensus map[string][]models.OddsQuote, pitcher string) []models.OddsQuote {
	for name, quotes := range consensus {
		if names.Equal(name, pitcher) {
			return quotes
		}
	}
	return nil
}

// Pivot turns quotes into bookmaker title -> rendered cell. The first
// quote per bookmaker wins.
func Pivot(quotes []models.OddsQuote) map[string]string {
	row := make(map[string]string, len(quotes))
	for _, q := range quotes {
		if _, ok := row[q.Bookmaker]; !ok {
			row[q.Bookmaker] = q.Cell()
		}
	}
	return row
}

func filterBooks(bookmakers []models.BookmakerInput, ignored []string) []models.BookmakerInput {
	deny := make(map[string]bool, len(ignored))
	for _, k := range ignored {
		deny[k] = true
	}

	kept := make([]models.BookmakerInput, 0, len(bookmakers))
	for _, b := range bookmakers {
		if !deny[b.Key] {
			kept = append(kept, b)
		}
	}
	return kept
}

// strikeoutOutcomes lists the bookmaker's strikeout prop outcomes that
// carry a line
func strikeoutOutcomes(b models.BookmakerInput) []models.OutcomeInput {
	var out []models.OutcomeInput
	for _, m := range b.Markets {
		if m.Key != client.MarketPitcherStrikeouts {
			continue
		}
		for _, o := range m.Outcomes {
			if o.Point != nil && o.Description != "" {
				out = append(out, o)
			}
		}
	}
	return out
}

// modePoint returns the most frequent value, first seen on a tie
func modePoint(points []float64) float64 {
	counts := make(map[float64]int, len(points))
	best, bestCount := 0.0, 0
	for _, p := range points {
		counts[p]++
	}
	for _, p := range points {
		if counts[p] > bestCount {
			best, bestCount = p, counts[p]
		}
	}
	return best
}

// quoteAt builds the bookmaker's quote for pitcher at line. quoted is false
// when the bookmaker has no prop for the pitcher; hit is false when it has
// one but not at line.
func quoteAt(b models.BookmakerInput, pitcher string, line float64) (q models.OddsQuote, quoted, hit bool) {
	q = models.OddsQuote{Pitcher: pitcher, Bookmaker: b.Title, Point: line}
	for _, o := range strikeoutOutcomes(b) {
		if o.Description != pitcher {
			continue
		}
		quoted = true
		if *o.Point != line {
			continue
		}
		hit = true
		setSide(&q, o)
	}
	return q, quoted, hit
}

func rawQuotes(b models.BookmakerInput, pitcher string) []models.OddsQuote {
	var quotes []models.OddsQuote
	byPoint := make(map[float64]int)
	for _, o := range strikeoutOutcomes(b) {
		if o.Description != pitcher {
			continue
		}
		i, ok := byPoint[*o.Point]
		if !ok {
			i = len(quotes)
			byPoint[*o.Point] = i
			quotes = append(quotes, models.OddsQuote{Pitcher: pitcher, Bookmaker: b.Title, Point: *o.Point})
		}
		setSide(&quotes[i], o)
	}
	return quotes
}

func setSide(q *models.OddsQuote, o models.OutcomeInput) {
	switch o.Name {
	case "Over":
		q.Over = models.FormatAmerican(o.Price)
	case "Under":
		q.Under = models.FormatAmerican(o.Price)
	}
}
