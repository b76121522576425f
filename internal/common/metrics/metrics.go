// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seva_http_requests_total",
			Help: "Total number of API requests by route and status",
		},
		[]string{"route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "seva_http_request_duration_seconds",
			Help:    "Duration of API request handling in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		},
		[]string{"route"},
	)

	RequestsInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "seva_http_requests_in_flight",
			Help: "Number of API requests currently being handled",
		},
		[]string{"route"},
	)

	RateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seva_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"route"},
	)

	ModelInvocations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seva_model_invocations_total",
			Help: "Total number of model invocations by backend and outcome",
		},
		[]string{"backend", "outcome"},
	)

	ModelFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seva_model_fallbacks_total",
			Help: "Total number of fallbacks from one backend to the next",
		},
		[]string{"from", "to"},
	)

	ModelInvocationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "seva_model_invocation_duration_seconds",
			Help:    "Duration of a single model invocation in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 15, 25},
		},
		[]string{"backend"},
	)

	NormalizeFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seva_normalize_failures_total",
			Help: "Total number of model outputs that failed normalization",
		},
		[]string{"kind"},
	)
)
