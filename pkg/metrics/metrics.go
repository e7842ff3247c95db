package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheLookups counts reads of the pokemon list cache by outcome (hit|miss|error).
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokemon_cache_lookups_total",
			Help: "Total number of pokemon list cache lookups",
		},
		[]string{"outcome"},
	)

	// CacheInvalidations counts cache invalidations by result (ok|error).
	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokemon_cache_invalidations_total",
			Help: "Total number of pokemon list cache invalidations",
		},
		[]string{"result"},
	)

	// DBPoolInUse tracks connections currently checked out of the SQL pool.
	DBPoolInUse = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pokemon_db_pool_in_use",
			Help: "Number of database connections currently in use",
		},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pokemon_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
