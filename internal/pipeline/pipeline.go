package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mlb_pitchers/report/internal/metrics"
	"mlb_pitchers/report/internal/models"
	"mlb_pitchers/report/internal/odds"
	"mlb_pitchers/report/internal/schedule"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// ScheduleSource lists the reportable games for a date
type ScheduleSource interface {
	GamesForDate(ctx context.Context, date string) ([]*models.Game, error)
}

// StatsSource reads season and in-game pitching lines
type StatsSource interface {
	LookupPitcherSeasonStats(ctx context.Context, name string) (models.StatLine, error)
	FetchLiveStrikeouts(ctx context.Context, games schedule.GameFinder, date, name string) (int, error)
}

// TeamSource supplies team strikeout tendencies
type TeamSource interface {
	TeamProfiles(ctx context.Context, season int) ([]models.TeamBattingProfile, error)
}

// MatchupSource supplies probable-pitcher matchup context
type MatchupSource interface {
	FetchMatchupContext(ctx context.Context, date string) (map[string]models.MatchupContext, error)
}

// OddsSource returns one pitcher's consensus row, book -> cell
type OddsSource interface {
	PitcherOdds(ctx context.Context, team, date, pitcher string) (map[string]string, error)
}

// OddsOpener selects credentials for one run and returns a source bound to
// them. It fails with models.ErrQuotaExhausted when no key qualifies.
type OddsOpener func(ctx context.Context) (OddsSource, error)

// Deps are the pipeline's collaborators. Odds may be nil.
type Deps struct {
	Schedule ScheduleSource
	Stats    StatsSource
	Teams    TeamSource
	Matchups MatchupSource
	Odds     OddsOpener
}

// Options tune a Pipeline
type Options struct {
	Season      int
	Workers     int
	BookColumns []string
}

// Pipeline joins every source into a ranked report
type Pipeline struct {
	deps Deps
	opts Options
	now  func() time.Time
}

// New creates a pipeline
func New(deps Deps, opts Options) *Pipeline {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Pipeline{deps: deps, opts: opts, now: time.Now}
}

// Run builds the report for date (MM/DD/YYYY). Source failures degrade the
// affected columns to nulls. The only error returned is a failed schedule
// fetch, and even then the (empty) report is valid.
func (p *Pipeline) Run(ctx context.Context, date string, withOdds bool) (*models.Report, error) {
	start := time.Now()
	runID := uuid.NewString()
	lg := log.With().Str("run_id", runID).Str("date", date).Logger()

	report := &models.Report{RunID: runID, Date: date, GeneratedAt: p.now()}

	lg.Info().Bool("odds", withOdds).Msg("Report run started")

	games, err := p.deps.Schedule.GamesForDate(ctx, date)
	if err != nil {
		metrics.RecordError("schedule", models.ErrorKind(err))
		metrics.RecordRun("failed", time.Since(start).Seconds(), 0, 0)
		lg.Error().Err(err).Msg("Schedule unavailable, report is empty")
		return report, fmt.Errorf("schedule for %s: %w", date, err)
	}

	records := p.fetchSeasonStats(ctx, lg, schedule.PitcherTasks(games))

	var rows []*models.PitcherRecord
	for _, r := range records {
		if r.HasError() {
			report.Errors = append(report.Errors, r)
			continue
		}
		rows = append(rows, r)
	}

	p.joinTeamRates(ctx, lg, rows)
	p.joinMatchups(ctx, lg, date, rows)

	deriveMetrics(rows)
	p.liveStrikeouts(ctx, lg, schedule.Snapshot(games), date, rows)
	RankByRate(rows)

	if withOdds {
		p.joinOdds(ctx, lg, date, rows)
	}

	SortRows(rows)

	oddsRows := make([]map[string]string, 0, len(rows))
	for _, r := range rows {
		if r.Odds != nil {
			oddsRows = append(oddsRows, r.Odds)
		}
	}
	report.Rows = rows
	report.BookColumns = odds.Columns(p.opts.BookColumns, oddsRows)

	metrics.RecordRun("success", time.Since(start).Seconds(), len(report.Rows), len(report.Errors))
	lg.Info().
		Int("rows", len(report.Rows)).
		Int("errors", len(report.Errors)).
		Int("books", len(report.BookColumns)).
		Dur("duration", time.Since(start)).
		Msg("Report run completed")

	return report, nil
}

// fetchSeasonStats fans the season lookups out over a bounded pool. Each
// task writes only its own slot, and a failed lookup becomes an error
// record so the batch is never short.
func (p *Pipeline) fetchSeasonStats(ctx context.Context, lg zerolog.Logger, tasks []models.PitcherTask) []*models.PitcherRecord {
	records := make([]*models.PitcherRecord, len(tasks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)

	for i, task := range tasks {
		i, task := i, task
		g.Go(func() error {
			r := models.NewPitcherRecord(task)
			line, err := p.deps.Stats.LookupPitcherSeasonStats(gctx, task.PitcherName)
			if err != nil {
				r.Error = err.Error()
				metrics.RecordError("stats", models.ErrorKind(err))
				lg.Warn().
					Err(err).
					Str("pitcher", task.PitcherName).
					Str("team", task.Team).
					Str("opponent", task.Opponent).
					Msg("Season stats lookup failed")
			} else {
				r.Stats = line
			}
			records[i] = r
			return nil
		})
	}
	_ = g.Wait()

	lg.Info().Int("pitchers", len(records)).Msg("Season stats fetched")
	return records
}

func (p *Pipeline) joinOdds(ctx context.Context, lg zerolog.Logger, date string, rows []*models.PitcherRecord) {
	if p.deps.Odds == nil {
		lg.Warn().Msg("Odds requested but no odds source is configured")
		return
	}

	src, err := p.deps.Odds(ctx)
	if err != nil {
		metrics.RecordError("odds", models.ErrorKind(err))
		if errors.Is(err, models.ErrQuotaExhausted) {
			lg.Warn().Err(err).Msg("No odds API quota, continuing without odds")
		} else {
			lg.Error().Err(err).Msg("Odds source unavailable, continuing without odds")
		}
		return
	}

	joined := 0
	for _, r := range rows {
		if r.Status.Started() {
			continue
		}
		row, err := src.PitcherOdds(ctx, r.Team, date, r.Name)
		if err != nil {
			metrics.RecordError("odds", models.ErrorKind(err))
			lg.Warn().Err(err).Str("pitcher", r.Name).Str("team", r.Team).Msg("Odds not found for pitcher")
			continue
		}
		r.Odds = row
		joined++
	}

	lg.Info().Int("joined", joined).Msg("Odds joined")
}
