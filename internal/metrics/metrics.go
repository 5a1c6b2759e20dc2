// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts requests by method, route template and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guardian_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "guardian_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// StoreQueryDuration tracks warehouse and config store calls.
	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "guardian_store_query_duration_seconds",
			Help:    "Storage call latency in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"operation", "outcome"},
	)

	// RowsFetched counts rows read from warehouse tables.
	RowsFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guardian_rows_fetched_total",
			Help: "Rows read from warehouse tables",
		},
		[]string{"table"},
	)

	// ViewBuildDuration tracks time spent filtering and transforming rows per view.
	ViewBuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "guardian_view_build_duration_seconds",
			Help:    "Time spent building a view payload in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"view"},
	)

	// ViewRowsServed counts rows returned per view kind.
	ViewRowsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guardian_view_rows_served_total",
			Help: "Rows returned in view payloads",
		},
		[]string{"view"},
	)

	// ConfigParseErrors counts stored table configs that failed to decode.
	ConfigParseErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "guardian_config_parse_errors_total",
			Help: "Table configurations skipped because they could not be decoded",
		},
	)

	// RateLimited counts requests rejected by the rate limiter.
	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "guardian_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "guardian_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guardian_circuit_breaker_requests_total",
			Help: "Requests passing through a circuit breaker by result",
		},
		[]string{"name", "result"},
	)
)

// ObserveStore records the latency of a storage call started at start.
func ObserveStore(operation string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	StoreQueryDuration.WithLabelValues(operation, outcome).Observe(time.Since(start).Seconds())
}
