package models

import "errors"

// Error taxonomy shared by all adapters. Adapters wrap these with
// fmt.Errorf("...: %w", ErrX) and callers branch with errors.Is.
var (
	// ErrNotFound is a player, team or event lookup miss.
	ErrNotFound = errors.New("not found")

	// ErrUpstreamUnavailable is a non-200 response or a failed request.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrParseAnomaly is a malformed scrape block or payload.
	ErrParseAnomaly = errors.New("parse anomaly")

	// ErrQuotaExhausted means no odds API key has remaining capacity.
	ErrQuotaExhausted = errors.New("quota exhausted")

	// ErrNotAvailable means a value does not exist yet, e.g. live
	// strikeouts for a game that has not started.
	ErrNotAvailable = errors.New("not available")
)

// ErrorKind returns a short label for metrics and logs.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrUpstreamUnavailable):
		return "upstream_unavailable"
	case errors.Is(err, ErrParseAnomaly):
		return "parse_anomaly"
	case errors.Is(err, ErrQuotaExhausted):
		return "quota_exhausted"
	case errors.Is(err, ErrNotAvailable):
		return "not_available"
	default:
		return "unknown"
	}
}
