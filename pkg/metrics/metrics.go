package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Database metrics
	DatabaseOperations  *prometheus.CounterVec
	DatabaseLatency     *prometheus.HistogramVec
	DatabaseConnections prometheus.Gauge

	// Cache metrics
	CacheRequests *prometheus.CounterVec

	// Password reset metrics
	ResetAttempts *prometheus.CounterVec

	// Maintenance worker metrics
	TokensPurged         prometheus.Counter
	ExpiringGoogleTokens prometheus.Gauge
	StaleCalendarEvents  prometheus.Gauge
	WorkerRuns           *prometheus.CounterVec
}

// NewMetrics creates all application metrics and registers them on reg.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		DatabaseOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "database_operations_total",
			Help:      "Total number of database operations",
		}, []string{"operation", "status"}),
		DatabaseLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "database_operation_duration_seconds",
			Help:      "Duration of database operations",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		DatabaseConnections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "database_connections",
			Help:      "Current number of open database connections",
		}),

		CacheRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_requests_total",
			Help:      "Permission cache lookups by result",
		}, []string{"cache", "result"}),

		ResetAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "password_reset_attempts_total",
			Help:      "Password reset redemptions by outcome",
		}, []string{"outcome"}),

		TokensPurged: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reset_tokens_purged_total",
			Help:      "Used or expired password reset tokens removed by the worker",
		}),
		ExpiringGoogleTokens: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "google_tokens_expiring",
			Help:      "Google tokens expiring within the refresh window",
		}),
		StaleCalendarEvents: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "calendar_events_stale",
			Help:      "Calendar events not synced within the staleness window",
		}),
		WorkerRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "worker_runs_total",
			Help:      "Maintenance worker passes by status",
		}, []string{"status"}),
	}
}

// ObserveDB records one database operation.
func (m *Metrics) ObserveDB(operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.DatabaseOperations.WithLabelValues(operation, status).Inc()
	m.DatabaseLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// ObserveCache records a cache hit or miss.
func (m *Metrics) ObserveCache(cache string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheRequests.WithLabelValues(cache, result).Inc()
}
