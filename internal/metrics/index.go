package metrics

import "github.com/prometheus/client_golang/prometheus"

// Index Prometheus metrics.
var (
	IndexRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "index_requests_total",
			Help:      "Total number of vector index requests",
		},
		[]string{"backend", "op", "status"},
	)

	IndexRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "storefront",
			Name:      "index_request_duration_seconds",
			Help:      "Vector index request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"backend", "op"},
	)

	IndexMatches = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "storefront",
			Name:      "index_matches",
			Help:      "Number of matches returned per index query",
			Buckets:   []float64{0, 1, 2, 4, 8, 12},
		},
		[]string{"backend"},
	)

	IndexBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "storefront",
			Name:      "index_breaker_state",
			Help:      "Circuit breaker state: 0 closed, 1 half-open, 2 open",
		},
		[]string{"backend"},
	)

	ProductQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "product_queries_total",
			Help:      "Product queries by outcome",
		},
		[]string{"outcome"}, // "ok" / "invalid" / "upstream_error"
	)
)

var indexMetricsRegistered bool

// RegisterIndexMetrics registers index and query metrics. Must be called once from main.
func RegisterIndexMetrics() {
	if indexMetricsRegistered {
		return
	}
	prometheus.MustRegister(IndexRequestsTotal)
	prometheus.MustRegister(IndexRequestDuration)
	prometheus.MustRegister(IndexMatches)
	prometheus.MustRegister(IndexBreakerState)
	prometheus.MustRegister(ProductQueriesTotal)
	indexMetricsRegistered = true
}
