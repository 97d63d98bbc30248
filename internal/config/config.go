package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Season   int    `envconfig:"SEASON" default:"2025"`
	Timezone string `envconfig:"TIMEZONE" default:"America/New_York"`

	// HTTP
	HTTPTimeout   time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
	UserAgent     string        `envconfig:"USER_AGENT" default:"Mozilla/5.0 (compatible; mlb-pitchers-report/1.0)"`
	HTTPRateLimit float64       `envconfig:"HTTP_RATE_LIMIT" default:"10"`
	HTTPRateBurst int           `envconfig:"HTTP_RATE_BURST" default:"10"`

	// Stats fan-out
	StatsWorkers int `envconfig:"STATS_WORKERS" default:"8"`

	// MLB Stats API
	MLBStatsBaseURL string `envconfig:"MLB_STATS_BASE_URL" default:"https://statsapi.mlb.com/api/v1"`

	// FanGraphs team batting leaderboard
	FanGraphsBaseURL string `envconfig:"FANGRAPHS_BASE_URL" default:"https://www.fangraphs.com/api/leaders/major-league/data"`

	// Baseball Savant probable pitchers page
	MatchupBaseURL string `envconfig:"MATCHUP_BASE_URL" default:"https://baseballsavant.mlb.com/probable-pitchers"`
	MatchupRender  bool   `envconfig:"MATCHUP_RENDER" default:"false"`

	// The Odds API
	OddsBaseURL          string   `envconfig:"ODDS_BASE_URL" default:"https://api.the-odds-api.com/v4"`
	OddsAPIKeys          []string `envconfig:"ODDS_API_KEYS"`
	OddsKeysFile         string   `envconfig:"ODDS_KEYS_FILE"`
	OddsMinRemaining     int      `envconfig:"ODDS_MIN_REMAINING" default:"30"`
	OddsRegions          string   `envconfig:"ODDS_REGIONS" default:"us,us_ex"`
	OddsIgnoredBookmaker []string `envconfig:"ODDS_IGNORED_BOOKMAKERS" default:"mybookieag,betmgm,superbook,bovada,prophetx"`
	OddsBookColumns      []string `envconfig:"ODDS_BOOK_COLUMNS" default:"FanDuel,Caesars,betrivers,BetOnline.ag,DraftKings,Novig"`

	// Event id cache
	EventCacheBackend string        `envconfig:"EVENT_CACHE_BACKEND" default:"file"`
	EventCachePath    string        `envconfig:"EVENT_CACHE_PATH" default:"data/event_ids.json"`
	EventCacheTTL     time.Duration `envconfig:"EVENT_CACHE_TTL" default:"36h"`

	// Redis
	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// Database (final-game strikeout store); empty disables it
	DatabaseURL string `envconfig:"DATABASE_URL" default:""`

	// Output
	ReportsDir            string `envconfig:"REPORTS_DIR" default:"reports"`
	SheetsEnabled         bool   `envconfig:"SHEETS_ENABLED" default:"false"`
	SheetsSpreadsheetID   string `envconfig:"SHEETS_SPREADSHEET_ID" default:""`
	SheetsCredentialsFile string `envconfig:"SHEETS_CREDENTIALS_FILE" default:"sheets_creds.json"`

	// Worker
	RefreshCron string `envconfig:"REFRESH_CRON" default:"*/30 * * * *"`
	MetricsPort int    `envconfig:"METRICS_PORT" default:"9090"`
}

// Load loads configuration from environment variables
// It first attempts to load from .env file if in development mode
func Load() (*Config, error) {
	// Try to load .env file (ignore error if doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	if cfg.OddsKeysFile != "" {
		keys, err := LoadAPIKeys(cfg.OddsKeysFile)
		if err != nil {
			return nil, err
		}
		cfg.OddsAPIKeys = append(cfg.OddsAPIKeys, keys...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.StatsWorkers < 1 {
		return fmt.Errorf("STATS_WORKERS must be at least 1")
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE %q: %w", c.Timezone, err)
	}

	switch c.EventCacheBackend {
	case "file", "redis", "none":
	default:
		return fmt.Errorf("EVENT_CACHE_BACKEND must be file, redis or none")
	}

	if c.SheetsEnabled && c.SheetsSpreadsheetID == "" {
		return fmt.Errorf("SHEETS_SPREADSHEET_ID is required when SHEETS_ENABLED is set")
	}

	return nil
}

// Location returns the configured time zone
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// RedisAddr returns the Redis address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// MustLoad loads configuration or panics on error
// Use this in main() where we want to fail fast
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// LoadAPIKeys reads a JSON file of the form {"api_keys": ["k1", "k2"]}
func LoadAPIKeys(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keys file: %w", err)
	}

	var file struct {
		APIKeys []string `json:"api_keys"`
	}
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse keys file: %w", err)
	}

	keys := make([]string, 0, len(file.APIKeys))
	for _, k := range file.APIKeys {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys, nil
}
