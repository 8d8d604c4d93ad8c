package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search and personalization Prometheus metrics.
var (
	SubSearchFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "curator",
			Name:      "sub_search_failures_total",
			Help:      "Sub-searches that failed or timed out and degraded to zero results",
		},
		[]string{"source"}, // artworks / artists / catalogues
	)

	SearchCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "curator",
			Name:      "search_cache_total",
			Help:      "Search result cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	InteractionsIngestedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "curator",
			Name:      "interactions_ingested_total",
			Help:      "Interaction events recorded into the taste model",
		},
		[]string{"type"},
	)

	TasteShiftsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "curator",
			Name:      "taste_shifts_total",
			Help:      "Detected taste shifts appended to evolution logs",
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers the search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SubSearchFailuresTotal)
	prometheus.MustRegister(SearchCacheTotal)
	prometheus.MustRegister(InteractionsIngestedTotal)
	prometheus.MustRegister(TasteShiftsTotal)
	searchMetricsRegistered = true
}
