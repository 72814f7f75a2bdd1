package listing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ListFetches counts gateway calls by list and kind (first, next).
	ListFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mortyverse_list_fetches_total",
		Help: "Total list page fetches by list and kind",
	}, []string{"list", "kind"})

	// StaleResults counts completions dropped because a newer load superseded them.
	StaleResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mortyverse_list_stale_results_total",
		Help: "Total list fetch results discarded as stale",
	}, []string{"list"})
)
