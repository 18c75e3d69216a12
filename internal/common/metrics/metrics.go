// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for UpstreamRequests.
const (
	OutcomeSuccess  = "success"
	OutcomeError    = "error"
	OutcomeTimeout  = "timeout"
	OutcomeStatus   = "bad_status"
	OutcomeDecode   = "decode_error"
	OutcomeCacheHit = "cache_hit"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of inbound HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of inbound HTTP requests in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"route", "method"},
	)

	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Total number of outbound calls by upstream and outcome",
		},
		[]string{"upstream", "outcome"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "upstream_request_duration_seconds",
			Help: "Duration of outbound calls in seconds",
		},
		[]string{"upstream"},
	)

	ReconcileCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reconcile_candidates",
			Help:    "Candidate product names considered per reconciliation",
			Buckets: []float64{0, 1, 2, 3, 4, 5},
		},
	)

	ReconcileMatched = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reconcile_matched_products",
			Help:    "Catalog products matched per reconciliation",
			Buckets: []float64{0, 1, 2, 3, 4, 5},
		},
	)
)
