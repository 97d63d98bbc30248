package schedule

import (
	"context"
	"fmt"

	"mlb_pitchers/report/internal/models"
	"mlb_pitchers/report/internal/names"

	"github.com/rs/zerolog/log"
)

// Source fetches a raw schedule for a date (MM/DD/YYYY)
type Source interface {
	FetchSchedule(ctx context.Context, date string) (*models.ScheduleResponse, error)
}

// GameFinder locates the game a probable pitcher is starting on a date
type GameFinder interface {
	FindByPitcher(ctx context.Context, date, pitcherName string) (*models.Game, *models.ProbablePitcher, error)
}

// Adapter turns the raw schedule into reportable games
type Adapter struct {
	src Source
}

// New creates a schedule adapter
func New(src Source) *Adapter {
	return &Adapter{src: src}
}

// GamesForDate returns the games in a reportable state. Postponed and
// suspended games are dropped.
func (a *Adapter) GamesForDate(ctx context.Context, date string) ([]*models.Game, error) {
	resp, err := a.src.FetchSchedule(ctx, date)
	if err != nil {
		return nil, err
	}

	var games []*models.Game
	skipped := 0
	for _, d := range resp.Dates {
		for i := range d.Games {
			game := d.Games[i].ToGame(date)
			if !game.Status.Reportable() {
				skipped++
				log.Debug().
					Int("game_pk", game.GamePK).
					Str("status", string(game.Status)).
					Msg("Skipping game not in a reportable state")
				continue
			}
			games = append(games, game)
		}
	}

	log.Info().
		Str("date", date).
		Int("games", len(games)).
		Int("skipped", skipped).
		Msg("Schedule fetched")

	return games, nil
}

// FindByPitcher fetches the date's schedule and locates the pitcher's game
func (a *Adapter) FindByPitcher(ctx context.Context, date, pitcherName string) (*models.Game, *models.ProbablePitcher, error) {
	games, err := a.GamesForDate(ctx, date)
	if err != nil {
		return nil, nil, err
	}
	return Snapshot(games).FindByPitcher(ctx, date, pitcherName)
}

// PitcherTasks flattens games into one task per named probable pitcher
func PitcherTasks(games []*models.Game) []models.PitcherTask {
	var tasks []models.PitcherTask
	for _, g := range games {
		tasks = append(tasks, g.PitcherTasks()...)
	}
	return tasks
}

// Snapshot is an already-fetched slate. It lets per-row lookups reuse the
// run's schedule instead of fetching it again.
type Snapshot []*models.Game

// FindByPitcher scans the slate for the pitcher on either side
func (s Snapshot) FindByPitcher(_ context.Context, date, pitcherName string) (*models.Game, *models.ProbablePitcher, error) {
	for _, g := range s {
		if g.Date != "" && g.Date != date {
			continue
		}
		for _, p := range []*models.ProbablePitcher{g.AwayProbable, g.HomeProbable} {
			if p != nil && names.Equal(p.FullName, pitcherName) {
				return g, p, nil
			}
		}
	}
	return nil, nil, fmt.Errorf("no game for probable pitcher %q on %s: %w", pitcherName, date, models.ErrNotFound)
}
