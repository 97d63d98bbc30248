package cache

import (
	"context"
)

// EventCache maps (date, team) to an odds provider event id. Dates are
// MM/DD/YYYY.
type EventCache interface {
	Get(ctx context.Context, date, team string) (string, bool, error)
	Put(ctx context.Context, date, team, eventID string) error
}

// Nop caches nothing
type Nop struct{}

func (Nop) Get(context.Context, string, string) (string, bool, error) { return "", false, nil }

func (Nop) Put(context.Context, string, string, string) error { return nil }
