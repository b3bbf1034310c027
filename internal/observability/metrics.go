// Package observability provides metrics and tracing for the application.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "facet_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "facet_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// FriendRequestTransitions counts friend request state transitions.
	FriendRequestTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "facet_friend_request_transitions_total",
		Help: "Total friend request transitions by outcome",
	}, []string{"outcome"})

	// ReconcileRepairs counts edges restored by the accept reconciler.
	ReconcileRepairs = promauto.NewCounter(prometheus.CounterOpts{
		Name: "facet_reconcile_repairs_total",
		Help: "Total accepted requests re-materialized by the reconciler",
	})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
