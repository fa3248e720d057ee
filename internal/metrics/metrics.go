// Package metrics provides the centralized Prometheus metrics registry.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	UpdateRunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fast_break",
		Name:      "update_runs_total",
		Help:      "Total number of team update runs",
	})
	GamesAppendedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fast_break",
		Name:      "games_appended_total",
		Help:      "Total number of game log entries appended across all teams",
	})
	UpdateErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fast_break",
		Name:      "update_errors_total",
		Help:      "Total number of per-game errors recorded during updates",
	})
	FetchRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fast_break",
		Name:      "fetch_requests_total",
		Help:      "Total number of content fetches by page kind",
	}, []string{"source"})
	SimulationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fast_break",
		Name:      "simulations_total",
		Help:      "Total number of matchup simulations run",
	})
)

// Gauge metrics
var (
	TrackedTeams = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fast_break",
		Name:      "tracked_teams",
		Help:      "Number of teams with a persisted game log store",
	})
	LastUpdateTimestamp = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "fast_break",
		Name:      "last_update_timestamp_seconds",
		Help:      "Unix time of the last successful update per team",
	}, []string{"team"})
)

// Histogram metrics
var (
	UpdateDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "fast_break",
		Name:      "update_duration_seconds",
		Help:      "Duration of team update runs in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 300, 600, 1800},
	})
	SimulationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "fast_break",
		Name:      "simulation_duration_seconds",
		Help:      "Duration of matchup simulations in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(UpdateRunsTotal)
		registry.MustRegister(GamesAppendedTotal)
		registry.MustRegister(UpdateErrorsTotal)
		registry.MustRegister(FetchRequestsTotal)
		registry.MustRegister(SimulationsTotal)

		// Register gauge metrics
		registry.MustRegister(TrackedTeams)
		registry.MustRegister(LastUpdateTimestamp)

		// Register histogram metrics
		registry.MustRegister(UpdateDuration)
		registry.MustRegister(SimulationDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordUpdateRun records one completed update run.
func RecordUpdateRun(durationSeconds float64, appended, errors int) {
	UpdateRunsTotal.Inc()
	UpdateDuration.Observe(durationSeconds)
	GamesAppendedTotal.Add(float64(appended))
	UpdateErrorsTotal.Add(float64(errors))
}
