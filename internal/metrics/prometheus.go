package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the report pipeline

var (
	// API Call metrics
	APICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mlbk_api_calls_total",
			Help: "Total number of upstream API calls",
		},
		[]string{"endpoint", "status"},
	)

	APICallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mlbk_api_call_duration_seconds",
			Help:    "Duration of upstream API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// Cache metrics
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mlbk_event_cache_hits_total",
			Help: "Total number of event id cache hits",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mlbk_event_cache_misses_total",
			Help: "Total number of event id cache misses",
		},
	)

	// Pipeline metrics
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mlbk_report_runs_total",
			Help: "Total number of report pipeline runs",
		},
		[]string{"status"},
	)

	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mlbk_report_run_duration_seconds",
			Help:    "Duration of report pipeline runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		},
	)

	PitchersReported = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mlbk_pitchers_reported",
			Help: "Number of ranked pitcher rows in the last report",
		},
	)

	PitcherErrors = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mlbk_pitcher_lookup_errors",
			Help: "Number of pitchers excluded from the last report for lookup errors",
		},
	)

	OddsKeyRemaining = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mlbk_odds_key_requests_remaining",
			Help: "Requests remaining on the selected odds API key",
		},
	)

	// Error metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mlbk_errors_total",
			Help: "Total number of recoverable errors",
		},
		[]string{"component", "error_type"},
	)

	// System metrics
	SystemUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mlbk_system_uptime_seconds",
			Help: "System uptime in seconds",
		},
	)

	LastSuccessfulRun = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mlbk_last_successful_run_timestamp",
			Help: "Timestamp of last successful report run",
		},
	)
)

// RecordAPICall records an API call metric
func RecordAPICall(endpoint, status string, duration float64) {
	APICallsTotal.WithLabelValues(endpoint, status).Inc()
	APICallDuration.WithLabelValues(endpoint).Observe(duration)
}

// RecordCacheHit records a cache hit
func RecordCacheHit() {
	CacheHitsTotal.Inc()
}

// RecordCacheMiss records a cache miss
func RecordCacheMiss() {
	CacheMissesTotal.Inc()
}

// RecordRun records a pipeline run
func RecordRun(status string, duration float64, rows, errors int) {
	RunsTotal.WithLabelValues(status).Inc()
	RunDuration.Observe(duration)

	if status == "success" {
		PitchersReported.Set(float64(rows))
		PitcherErrors.Set(float64(errors))
		LastSuccessfulRun.SetToCurrentTime()
	}
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}
