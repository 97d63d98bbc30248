package models

import "time"

// Report is the result of one pipeline run for a date
type Report struct {
	RunID       string
	Date        string // MM/DD/YYYY
	GeneratedAt time.Time

	// Rows are the ranked pitchers in display order
	Rows []*PitcherRecord

	// Errors are pitchers whose stats lookup failed, in schedule order
	Errors []*PitcherRecord

	// BookColumns are the sportsbook columns present in Rows, in display order
	BookColumns []string
}

// Empty reports whether the run produced no rows at all
func (r *Report) Empty() bool {
	return len(r.Rows) == 0 && len(r.Errors) == 0
}
