package pipeline

import (
	"database/sql"
	"sort"

	"mlb_pitchers/report/internal/models"
)

// RankByRate assigns competition ranks on opponent SO/PA, highest first:
// [30, 25, 25, 20] ranks [1, 2, 2, 4]. Rows without a rate stay unranked.
func RankByRate(rows []*models.PitcherRecord) {
	var rated []*models.PitcherRecord
	for _, r := range rows {
		r.Rank = sql.NullInt32{}
		if r.OpponentSORate.Valid {
			rated = append(rated, r)
		}
	}

	sort.SliceStable(rated, func(i, j int) bool {
		return rated[i].OpponentSORate.Float64 > rated[j].OpponentSORate.Float64
	})

	for i, r := range rated {
		rank := int32(i + 1)
		if i > 0 && r.OpponentSORate.Float64 == rated[i-1].OpponentSORate.Float64 {
			rank = rated[i-1].Rank.Int32
		}
		r.Rank = sql.NullInt32{Int32: rank, Valid: true}
	}
}

// SortRows orders rows by live strikeouts, then K/AB, both descending with
// nulls last, then by name
func SortRows(rows []*models.PitcherRecord) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if c := compareNullInt(a.LiveStrikeouts, b.LiveStrikeouts); c != 0 {
			return c > 0
		}
		if c := compareNullFloat(a.KPerPA, b.KPerPA); c != 0 {
			return c > 0
		}
		return a.Name < b.Name
	})
}

// compareNullInt orders valid values above nulls
func compareNullInt(a, b sql.NullInt32) int {
	switch {
	case a.Valid && !b.Valid:
		return 1
	case !a.Valid && b.Valid:
		return -1
	case !a.Valid && !b.Valid, a.Int32 == b.Int32:
		return 0
	case a.Int32 > b.Int32:
		return 1
	}
	return -1
}

func compareNullFloat(a, b sql.NullFloat64) int {
	switch {
	case a.Valid && !b.Valid:
		return 1
	case !a.Valid && b.Valid:
		return -1
	case !a.Valid && !b.Valid, a.Float64 == b.Float64:
		return 0
	case a.Float64 > b.Float64:
		return 1
	}
	return -1
}
