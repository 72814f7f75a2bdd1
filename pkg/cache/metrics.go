package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks entries served from Redis, by freshness state.
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mortyverse_cache_hits_total",
			Help: "Total number of detail cache hits",
		},
		[]string{"state"}, // "fresh", "revalidated"
	)

	// CacheMisses tracks lookups that found nothing usable.
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mortyverse_cache_misses_total",
			Help: "Total number of detail cache misses",
		},
	)

	// StoredBytes tracks bytes written to Redis.
	StoredBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mortyverse_cache_stored_bytes_total",
			Help: "Total bytes written to the detail cache",
		},
	)

	// NotModified tracks 304 responses to conditional requests.
	NotModified = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mortyverse_cache_not_modified_total",
			Help: "Total number of 304 Not Modified responses",
		},
	)

	// CacheErrors tracks Redis or encoding failures.
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mortyverse_cache_errors_total",
			Help: "Total number of detail cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete"
	)
)
