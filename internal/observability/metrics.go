package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthFailures counts rejected authentications by reason.
	AuthFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tessera_auth_failures_total",
		Help: "Total number of rejected authentications by reason",
	}, []string{"reason"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tessera_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// EntityWrites counts create/update/delete operations per entity.
	EntityWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tessera_entity_writes_total",
		Help: "Total number of entity write operations",
	}, []string{"entity", "operation"})

	// RedisErrors counts failed Redis commands by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tessera_redis_errors_total",
		Help: "Total number of failed Redis commands",
	}, []string{"command"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
