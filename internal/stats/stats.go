package stats

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"mlb_pitchers/report/internal/models"
	"mlb_pitchers/report/internal/names"
	"mlb_pitchers/report/internal/schedule"

	"github.com/rs/zerolog/log"
)

// playersTTL bounds how long the season player list is reused
const playersTTL = 6 * time.Hour

// Source is the stats provider
type Source interface {
	FetchPlayers(ctx context.Context, season int) ([]models.PersonInput, error)
	FetchPitchingSeasonStats(ctx context.Context, playerID, season int) (map[string]string, error)
	FetchBoxScore(ctx context.Context, gamePK int) (*models.BoxScoreInput, error)
}

// StrikeoutStore keeps in-game strikeout totals of finished games
type StrikeoutStore interface {
	GetFinal(ctx context.Context, gamePK, pitcherID int) (int, bool, error)
	SaveFinal(ctx context.Context, gamePK, pitcherID int, pitcherName string, strikeouts int) error
}

// Adapter resolves pitchers and reads their season and in-game lines.
// It is safe for concurrent use.
type Adapter struct {
	src    Source
	season int
	store  StrikeoutStore

	mu        sync.Mutex
	players   []models.PersonInput
	fetchedAt time.Time
}

// New creates a stats adapter. store may be nil.
func New(src Source, season int, store StrikeoutStore) *Adapter {
	return &Adapter{src: src, season: season, store: store}
}

// LookupPitcherSeasonStats resolves name to a unique player and returns the
// projected season pitching line
func (a *Adapter) LookupPitcherSeasonStats(ctx context.Context, name string) (models.StatLine, error) {
	player, err := a.ResolvePlayer(ctx, name)
	if err != nil {
		return models.StatLine{}, err
	}

	data, err := a.src.FetchPitchingSeasonStats(ctx, player.ID, a.season)
	if err != nil {
		return models.StatLine{}, err
	}

	return Project(data), nil
}

// ResolvePlayer finds the single player whose full name matches. Zero or
// several matches fail with models.ErrNotFound.
func (a *Adapter) ResolvePlayer(ctx context.Context, name string) (*models.PersonInput, error) {
	players, err := a.playerList(ctx)
	if err != nil {
		return nil, err
	}

	var matches []*models.PersonInput
	for i := range players {
		if names.Equal(players[i].FullName, name) {
			matches = append(matches, &players[i])
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("player %s not found: %w", name, models.ErrNotFound)
	case 1:
		return matches[0], nil
	}

	// Two players sharing a name: prefer the only pitcher, if there is one
	var pitchers []*models.PersonInput
	for _, p := range matches {
		if p.PrimaryPosition.Abbreviation == "P" {
			pitchers = append(pitchers, p)
		}
	}
	if len(pitchers) == 1 {
		return pitchers[0], nil
	}
	return nil, fmt.Errorf("player name %s is ambiguous (%d matches): %w", name, len(matches), models.ErrNotFound)
}

func (a *Adapter) playerList(ctx context.Context) ([]models.PersonInput, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.players != nil && time.Since(a.fetchedAt) < playersTTL {
		return a.players, nil
	}

	players, err := a.src.FetchPlayers(ctx, a.season)
	if err != nil {
		return nil, err
	}

	log.Debug().Int("season", a.season).Int("players", len(players)).Msg("Player list fetched")
	a.players = players
	a.fetchedAt = time.Now()
	return players, nil
}

// FetchLiveStrikeouts returns the pitcher's strikeouts in the game they
// start on date. Games that have not started fail fast with
// models.ErrNotAvailable. Totals of Final games are served from the store
// when one is configured.
func (a *Adapter) FetchLiveStrikeouts(ctx context.Context, games schedule.GameFinder, date, pitcherName string) (int, error) {
	game, probable, err := games.FindByPitcher(ctx, date, pitcherName)
	if err != nil {
		return 0, err
	}

	if !game.Status.Started() {
		return 0, fmt.Errorf("game %d is %s: %w", game.GamePK, game.Status, models.ErrNotAvailable)
	}

	final := game.Status == models.StatusFinal
	if final && a.store != nil {
		k, ok, err := a.store.GetFinal(ctx, game.GamePK, probable.ID)
		if err != nil {
			log.Warn().Err(err).Int("game_pk", game.GamePK).Msg("Strikeout store read failed, fetching boxscore")
		} else if ok {
			return k, nil
		}
	}

	box, err := a.src.FetchBoxScore(ctx, game.GamePK)
	if err != nil {
		return 0, err
	}

	player, ok := box.FindPlayer(probable.ID, probable.FullName)
	if !ok {
		return 0, fmt.Errorf("pitcher %s not in boxscore %d: %w", pitcherName, game.GamePK, models.ErrNotFound)
	}

	k := 0
	if player.Stats.Pitching.StrikeOuts != nil {
		k = *player.Stats.Pitching.StrikeOuts
	}

	if final && a.store != nil {
		if err := a.store.SaveFinal(ctx, game.GamePK, probable.ID, pitcherName, k); err != nil && !errors.Is(err, context.Canceled) {
			log.Warn().Err(err).Int("game_pk", game.GamePK).Msg("Failed to save final strikeouts")
		}
	}

	return k, nil
}
