// Package metrics provides Prometheus metrics recorded by the storage layer
// and the backup routines.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// dbQueryDuration tracks database query duration in seconds
	dbQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vermy_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"backend", "operation"},
	)

	// dbQueryTotal tracks total database queries
	dbQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vermy_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"backend", "operation"},
	)

	// dbQueryErrors tracks database query errors
	dbQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vermy_db_query_errors_total",
			Help: "Total number of database query errors",
		},
		[]string{"backend", "operation"},
	)

	// dbSlowQueries tracks slow database queries
	dbSlowQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vermy_db_slow_queries_total",
			Help: "Total number of slow database queries (>100ms)",
		},
		[]string{"backend", "operation"},
	)
)

// SlowQueryThreshold is the duration above which a query counts as slow
const SlowQueryThreshold = 100 * time.Millisecond

// RecordDBQuery records database query metrics
func RecordDBQuery(backend, operation string, duration time.Duration) {
	dbQueryTotal.WithLabelValues(backend, operation).Inc()
	dbQueryDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())

	if duration > SlowQueryThreshold {
		dbSlowQueries.WithLabelValues(backend, operation).Inc()
	}
}

// RecordDBError records a database query error
func RecordDBError(backend, operation string) {
	dbQueryErrors.WithLabelValues(backend, operation).Inc()
}
