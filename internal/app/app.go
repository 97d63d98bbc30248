package app

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"mlb_pitchers/report/internal/cache"
	"mlb_pitchers/report/internal/client"
	"mlb_pitchers/report/internal/config"
	"mlb_pitchers/report/internal/matchup"
	"mlb_pitchers/report/internal/metrics"
	"mlb_pitchers/report/internal/models"
	"mlb_pitchers/report/internal/odds"
	"mlb_pitchers/report/internal/pipeline"
	"mlb_pitchers/report/internal/report"
	"mlb_pitchers/report/internal/repository"
	"mlb_pitchers/report/internal/schedule"
	"mlb_pitchers/report/internal/stats"
	"mlb_pitchers/report/internal/teams"

	"github.com/rs/zerolog/log"
)

// App wires every source into a pipeline and owns the optional backing
// services (postgres, redis, sheets).
type App struct {
	cfg      *config.Config
	pipeline *pipeline.Pipeline
	sheets   *report.SheetsWriter

	db    *repository.Database
	redis *cache.RedisCache
}

// New builds the application from configuration. Optional services that
// fail to connect are logged and skipped.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{cfg: cfg}
	loc := cfg.Location()

	h := client.NewHTTP(cfg.HTTPTimeout, cfg.UserAgent).WithRateLimit(cfg.HTTPRateLimit, cfg.HTTPRateBurst)
	mlb := client.NewMLBStats(h, cfg.MLBStatsBaseURL)
	fangraphs := client.NewFanGraphs(h, cfg.FanGraphsBaseURL)
	oddsAPI := client.NewOddsAPI(h, cfg.OddsBaseURL)
	log.Info().Msg("Upstream clients initialized")

	var store stats.StrikeoutStore
	if cfg.DatabaseURL != "" {
		db, err := repository.NewDatabase(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to connect to database - continuing without strikeout store")
		} else {
			a.db = db
			store = db.Strikeouts
		}
	}

	var fetcher matchup.Fetcher = matchup.NewHTTPFetcher(h)
	if cfg.MatchupRender {
		fetcher = matchup.NewChromeFetcher(cfg.HTTPTimeout, cfg.UserAgent)
	}

	events := a.eventCache()

	var opener pipeline.OddsOpener
	if len(cfg.OddsAPIKeys) > 0 {
		opts := odds.Options{
			Regions:  cfg.OddsRegions,
			Ignored:  cfg.OddsIgnoredBookmaker,
			Location: loc,
		}
		opener = func(ctx context.Context) (pipeline.OddsSource, error) {
			key, err := odds.SelectKey(ctx, oddsAPI, cfg.OddsAPIKeys, cfg.OddsMinRemaining)
			if err != nil {
				return nil, err
			}
			return odds.New(oddsAPI, key, events, opts), nil
		}
	} else {
		log.Warn().Msg("No odds API keys configured - odds columns will be empty")
	}

	a.pipeline = pipeline.New(pipeline.Deps{
		Schedule: schedule.New(mlb),
		Stats:    stats.New(mlb, cfg.Season, store),
		Teams:    teams.NewLeaderboard(fangraphs),
		Matchups: matchup.NewScraper(fetcher, cfg.MatchupBaseURL),
		Odds:     opener,
	}, pipeline.Options{
		Season:      cfg.Season,
		Workers:     cfg.StatsWorkers,
		BookColumns: cfg.OddsBookColumns,
	})

	if cfg.SheetsEnabled {
		book, err := report.NewGoogleSheet(ctx, cfg.SheetsCredentialsFile, cfg.SheetsSpreadsheetID)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize sheets: %w", err)
		}
		a.sheets = report.NewSheetsWriter(book, loc)
		log.Info().Str("spreadsheet_id", cfg.SheetsSpreadsheetID).Msg("Sheets publishing enabled")
	}

	return a, nil
}

func (a *App) eventCache() cache.EventCache {
	switch a.cfg.EventCacheBackend {
	case "file":
		return cache.NewFileCache(a.cfg.EventCachePath)
	case "redis":
		rc, err := cache.NewRedisCache(cache.Config{
			Host:     a.cfg.RedisHost,
			Port:     strconv.Itoa(a.cfg.RedisPort),
			Password: a.cfg.RedisPassword,
			DB:       a.cfg.RedisDB,
		}, a.cfg.EventCacheTTL)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to connect to Redis - continuing without event cache")
			return cache.Nop{}
		}
		a.redis = rc
		log.Info().Msg("Redis event cache connected")
		return rc
	}
	return cache.Nop{}
}

// Generate runs the pipeline for date, writes the HTML page and publishes
// to Sheets when enabled. It returns the absolute path of the HTML file.
// A schedule failure still writes an empty page and returns its error.
func (a *App) Generate(ctx context.Context, date string, withOdds bool) (string, error) {
	rep, runErr := a.pipeline.Run(ctx, date, withOdds)

	path, err := report.WriteHTML(a.cfg.ReportsDir, rep)
	if err != nil {
		metrics.RecordError("report", models.ErrorKind(err))
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	log.Info().Str("path", "file://"+path).Msg("Report written")

	if a.sheets != nil {
		if err := a.sheets.Publish(ctx, rep); err != nil {
			metrics.RecordError("sheets", models.ErrorKind(err))
			log.Error().Err(err).Str("date", date).Msg("Failed to publish report to sheets")
		}
	}

	for _, r := range rep.Errors {
		log.Warn().
			Str("pitcher", r.Name).
			Str("team", r.Team).
			Str("error", r.Error).
			Msg("Pitcher excluded from report")
	}

	return path, runErr
}

// Health reports the state of the optional backing services
func (a *App) Health(ctx context.Context) map[string]string {
	status := map[string]string{"status": "healthy"}

	if a.db != nil {
		if err := a.db.Health(ctx); err != nil {
			status["database"] = err.Error()
			status["status"] = "degraded"
		} else {
			status["database"] = "ok"
		}
	}
	if a.redis != nil {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := a.redis.Ping(ctx); err != nil {
			status["redis"] = err.Error()
			status["status"] = "degraded"
		} else {
			status["redis"] = "ok"
		}
	}
	return status
}

// Close releases backing services
func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis")
		}
	}
	if a.db != nil {
		a.db.Close()
	}
}
