package report

import (
	"database/sql"
	"html/template"
	"strconv"
	"strings"

	"mlb_pitchers/report/internal/models"
)

// Columns of every report, before the sportsbook columns
var Columns = []string{
	"Name", "Hand", "GP", "AB", "K", "BB", "AVG", "AB/GP", "K/9", "K/AB",
	"K%", "PA", "SO/PA", "r", "Opponent", "Status", "Ks",
}

const (
	nameStyle    template.CSS = "background-color: lightblue"
	notableStyle template.CSS = "background-color: lightgreen"
)

// Cell is one rendered table cell
type Cell struct {
	Text  string
	Link  string
	Style template.CSS
}

// Table is a report laid out for output
type Table struct {
	Date    string
	Headers []string
	Rows    [][]Cell
}

// BuildTable lays out the report rows with formatting and color scales
func BuildTable(r *models.Report) *Table {
	t := &Table{
		Date:    r.Date,
		Headers: append(append([]string{}, Columns...), r.BookColumns...),
	}

	soPA := columnGradient(ylGnBu, r.Rows, func(p *models.PitcherRecord) (float64, bool) {
		return p.OpponentSORate.Float64, p.OpponentSORate.Valid
	})
	pa := columnGradient(ylGnBu, r.Rows, func(p *models.PitcherRecord) (float64, bool) {
		return float64(p.PlateAppearances.Int32), p.PlateAppearances.Valid
	})
	k9 := columnGradient(ylOrRd, r.Rows, func(p *models.PitcherRecord) (float64, bool) {
		return p.Stats.StrikeoutsPer9.Float64, p.Stats.StrikeoutsPer9.Valid
	})
	fixed := gradient{scale: ylOrRd, lo: 0, hi: 40}

	for _, p := range r.Rows {
		name := Cell{Text: p.Name, Link: PitcherLink(p.Name), Style: nameStyle}
		if p.Notable() {
			name.Style = notableStyle
		}

		row := []Cell{
			name,
			{Text: nullString(p.Hand)},
			intCell(p.Stats.GamesPlayed, nil),
			intCell(p.Stats.AtBats, nil),
			intCell(p.Stats.Strikeouts, nil),
			intCell(p.Stats.Walks, nil),
			{Text: nullString(p.Stats.Avg)},
			floatCell(p.ABPerGP, 1, nil),
			floatCell(p.Stats.StrikeoutsPer9, 2, k9),
			floatCell(p.KPerPA, 2, &fixed),
			floatCell(p.StrikeoutPct, -1, &fixed),
			intCell(p.PlateAppearances, pa),
			floatCell(p.OpponentSORate, 2, soPA),
			intCell(p.Rank, nil),
			{Text: p.Opponent, Link: TeamLink(p.Opponent)},
			{Text: string(p.Status)},
			{Text: liveKs(p.LiveStrikeouts)},
		}
		for _, book := range r.BookColumns {
			row = append(row, Cell{Text: p.Odds[book]})
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Values flattens the table to plain text rows, headers first
func (t *Table) Values() [][]interface{} {
	out := make([][]interface{}, 0, len(t.Rows)+1)

	header := make([]interface{}, len(t.Headers))
	for i, h := range t.Headers {
		header[i] = h
	}
	out = append(out, header)

	for _, row := range t.Rows {
		vals := make([]interface{}, len(row))
		for i, c := range row {
			vals[i] = c.Text
		}
		out = append(out, vals)
	}
	return out
}

// PitcherLink is the strikeout log query for a pitcher
func PitcherLink(name string) string {
	return "https://statmuse.com/mlb/ask/" + escapeSpaces(name) + "-k-log"
}

// TeamLink is the strikeouts-per-PA log query for a team
func TeamLink(team string) string {
	return "https://statmuse.com/mlb/ask/" + escapeSpaces(team) + "-k-per-pa-log"
}

func escapeSpaces(s string) string {
	return strings.ReplaceAll(s, " ", "%20")
}

func columnGradient(scale colorScale, rows []*models.PitcherRecord, get func(*models.PitcherRecord) (float64, bool)) *gradient {
	var vals []float64
	for _, r := range rows {
		if v, ok := get(r); ok {
			vals = append(vals, v)
		}
	}
	lo, hi, ok := spanOf(vals)
	if !ok {
		return nil
	}
	return &gradient{scale: scale, lo: lo, hi: hi}
}

func intCell(v sql.NullInt32, g *gradient) Cell {
	c := Cell{Text: nullInt(v)}
	if g != nil && v.Valid {
		c.Style = g.style(float64(v.Int32))
	}
	return c
}

// floatCell formats with prec decimals; -1 keeps the shortest form
func floatCell(v sql.NullFloat64, prec int, g *gradient) Cell {
	if !v.Valid {
		return Cell{}
	}
	c := Cell{Text: strconv.FormatFloat(v.Float64, 'f', prec, 64)}
	if g != nil {
		c.Style = g.style(v.Float64)
	}
	return c
}

func nullInt(v sql.NullInt32) string {
	if !v.Valid {
		return ""
	}
	return strconv.Itoa(int(v.Int32))
}

func nullString(v sql.NullString) string {
	if !v.Valid {
		return ""
	}
	return v.String
}

// liveKs is N/A until the pitcher's game has started
func liveKs(v sql.NullInt32) string {
	if !v.Valid {
		return "N/A"
	}
	return strconv.Itoa(int(v.Int32))
}
