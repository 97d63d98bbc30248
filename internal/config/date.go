package config

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the MM/DD/YYYY form used throughout the report
const DateLayout = "01/02/2006"

// ParseDateArg resolves the CLI date argument. "today" and "tmrw" are
// relative to now; anything else must be MM/DD and is placed in season.
func ParseDateArg(arg string, now time.Time, season int) (string, error) {
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "today":
		return now.Format(DateLayout), nil
	case "tmrw":
		return now.AddDate(0, 0, 1).Format(DateLayout), nil
	}

	t, err := time.Parse("1/2/2006", fmt.Sprintf("%s/%d", strings.TrimSpace(arg), season))
	if err != nil {
		return "", fmt.Errorf("date %q: expected today, tmrw or MM/DD", arg)
	}
	return t.Format(DateLayout), nil
}

// ParseOddsFlag accepts "y" or "n"
func ParseOddsFlag(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y":
		return true, nil
	case "n":
		return false, nil
	}
	return false, fmt.Errorf("odds flag %q: expected y or n", s)
}

// StrippedDate removes slashes: "07/04/2025" -> "07042025"
func StrippedDate(date string) string {
	return strings.ReplaceAll(date, "/", "")
}

// SheetTabName replaces slashes with dashes: "07/04/2025" -> "07-04-2025"
func SheetTabName(date string) string {
	return strings.ReplaceAll(date, "/", "-")
}
