package pipeline

import (
	"context"
	"database/sql"
	"errors"

	"mlb_pitchers/report/internal/metrics"
	"mlb_pitchers/report/internal/models"
	"mlb_pitchers/report/internal/names"
	"mlb_pitchers/report/internal/schedule"
	"mlb_pitchers/report/internal/teams"

	"github.com/rs/zerolog"
)

func (p *Pipeline) joinTeamRates(ctx context.Context, lg zerolog.Logger, rows []*models.PitcherRecord) {
	profiles, err := p.deps.Teams.TeamProfiles(ctx, p.opts.Season)
	if err != nil {
		metrics.RecordError("teams", models.ErrorKind(err))
		lg.Warn().Err(err).Msg("Team batting unavailable, SO/PA left blank")
		return
	}

	idx := teams.RateIndex(profiles)
	for _, r := range rows {
		if rate, ok := idx[r.Opponent]; ok {
			r.OpponentSORate = sql.NullFloat64{Float64: rate, Valid: true}
		}
	}
}

func (p *Pipeline) joinMatchups(ctx context.Context, lg zerolog.Logger, date string, rows []*models.PitcherRecord) {
	ctxs, err := p.deps.Matchups.FetchMatchupContext(ctx, date)
	if err != nil {
		lg.Warn().Err(err).Msg("Matchup context unavailable, PA and K% left blank")
	}
	if len(ctxs) == 0 {
		return
	}

	folded := make(map[string]models.MatchupContext, len(ctxs))
	for name, m := range ctxs {
		if _, ok := folded[names.Key(name)]; !ok {
			folded[names.Key(name)] = m
		}
	}

	for _, r := range rows {
		m, ok := ctxs[r.Name]
		if !ok {
			m, ok = folded[names.Key(r.Name)]
		}
		if !ok {
			continue
		}
		r.Hand = sql.NullString{String: m.Hand, Valid: true}
		r.PlateAppearances = sql.NullInt32{Int32: int32(m.PlateAppearances), Valid: true}
		r.StrikeoutPct = sql.NullFloat64{Float64: m.StrikeoutPct, Valid: true}
	}
}

// deriveMetrics fills AB/GP and K/AB. Either is null when an input is
// missing or the denominator is zero.
func deriveMetrics(rows []*models.PitcherRecord) {
	for _, r := range rows {
		s := r.Stats
		if s.AtBats.Valid && s.GamesPlayed.Valid && s.GamesPlayed.Int32 > 0 {
			r.ABPerGP = sql.NullFloat64{
				Float64: float64(s.AtBats.Int32) / float64(s.GamesPlayed.Int32),
				Valid:   true,
			}
		}
		if s.Strikeouts.Valid && s.AtBats.Valid && s.Walks.Valid {
			if den := s.AtBats.Int32 + s.Walks.Int32; den > 0 {
				r.KPerPA = sql.NullFloat64{
					Float64: 100 * float64(s.Strikeouts.Int32) / float64(den),
					Valid:   true,
				}
			}
		}
	}
}

// liveStrikeouts runs per row since each depends on its own game state
func (p *Pipeline) liveStrikeouts(ctx context.Context, lg zerolog.Logger, games schedule.GameFinder, date string, rows []*models.PitcherRecord) {
	for _, r := range rows {
		k, err := p.deps.Stats.FetchLiveStrikeouts(ctx, games, date, r.Name)
		switch {
		case err == nil:
			r.LiveStrikeouts = sql.NullInt32{Int32: int32(k), Valid: true}
		case errors.Is(err, models.ErrNotAvailable):
		default:
			metrics.RecordError("live_strikeouts", models.ErrorKind(err))
			lg.Warn().Err(err).Str("pitcher", r.Name).Msg("Live strikeouts unavailable")
		}
	}
}
