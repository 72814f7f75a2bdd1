// Package metrics exposes the Prometheus metrics of the mortyverse packages.
// Metrics are defined in their own packages (client, cache, ratelimit,
// listing) and registered via promauto on the default registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the registry every package registers into.
var Registry = prometheus.DefaultRegisterer

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - mortyverse_requests_total{endpoint, status} (Counter): upstream requests;
//     status is the HTTP code, "network_error" or "rate_limited"
//   - mortyverse_request_duration_seconds{endpoint} (Histogram)
//   - mortyverse_errors_total{class} (Counter): network, status, decode, rate_limited
//
// Cache Metrics (pkg/cache):
//   - mortyverse_cache_hits_total{state} (Counter): fresh, revalidated
//   - mortyverse_cache_misses_total (Counter)
//   - mortyverse_cache_stored_bytes_total (Counter)
//   - mortyverse_cache_not_modified_total (Counter): 304 responses reused
//   - mortyverse_cache_errors_total{operation} (Counter)
//
// Cooldown Metrics (pkg/ratelimit):
//   - mortyverse_cooldowns_started_total{host} (Counter): 429 responses
//   - mortyverse_cooldown_blocks_total{host} (Counter): requests rejected locally
//
// List Metrics (pkg/listing):
//   - mortyverse_list_fetches_total{list, kind} (Counter): kind is first or next
//   - mortyverse_list_stale_results_total{list} (Counter)
//
// Example Prometheus Queries:
//
//	# Share of list loads superseded by newer searches
//	sum(rate(mortyverse_list_stale_results_total[5m])) /
//	sum(rate(mortyverse_list_fetches_total{kind="first"}[5m]))
//
//	# P95 upstream latency
//	histogram_quantile(0.95, rate(mortyverse_request_duration_seconds_bucket[5m]))
