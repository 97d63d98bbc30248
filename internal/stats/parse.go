package stats

import (
	"database/sql"
	"strconv"
	"strings"

	"mlb_pitchers/report/internal/models"
)

// Provider field names projected into a StatLine
const (
	fieldGamesPlayed    = "gamesPlayed"
	fieldAtBats         = "atBats"
	fieldWalks          = "baseOnBalls"
	fieldAvg            = "avg"
	fieldStrikeouts     = "strikeOuts"
	fieldStrikeoutsPer9 = "strikeoutsPer9Inn"
)

// statBlockHeaderLines is the number of lines (player name, stat group)
// preceding the key: value pairs in the textual stats form
const statBlockHeaderLines = 2

// ParseStatBlock parses the textual "key: value" stats form into a flat
// mapping. The header lines are skipped and lines without a colon ignored.
func ParseStatBlock(raw string) map[string]string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	data := make(map[string]string)
	if len(lines) <= statBlockHeaderLines {
		return data
	}
	for _, line := range lines[statBlockHeaderLines:] {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		data[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return data
}

// Project keeps the fixed field subset. Absent or unparsable fields stay
// null; partial lines are preserved.
func Project(data map[string]string) models.StatLine {
	return models.StatLine{
		GamesPlayed:    nullInt(data, fieldGamesPlayed),
		AtBats:         nullInt(data, fieldAtBats),
		Walks:          nullInt(data, fieldWalks),
		Avg:            nullString(data, fieldAvg),
		Strikeouts:     nullInt(data, fieldStrikeouts),
		StrikeoutsPer9: nullFloat(data, fieldStrikeoutsPer9),
	}
}

func nullInt(data map[string]string, key string) sql.NullInt32 {
	v, ok := data[key]
	if !ok {
		return sql.NullInt32{}
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 32)
	if err != nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(n), Valid: true}
}

func nullFloat(data map[string]string, key string) sql.NullFloat64 {
	v, ok := data[key]
	if !ok {
		return sql.NullFloat64{}
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

func nullString(data map[string]string, key string) sql.NullString {
	v, ok := data[key]
	if !ok || strings.TrimSpace(v) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: strings.TrimSpace(v), Valid: true}
}
