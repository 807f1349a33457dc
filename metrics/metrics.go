// Package metrics provides Prometheus metrics for genblog: HTTP traffic,
// generation outcomes and workspace counts.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "genblog"

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, path, and status code",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		},
	)

	// GenerationsTotal counts generation calls by outcome kind.
	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "total",
			Help:      "Total number of post generations by outcome",
		},
		[]string{"outcome"},
	)

	GenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "duration_seconds",
			Help:      "Post generation round trip in seconds",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 20, 40, 80},
		},
	)

	// GenerationsDiscarded counts results dropped because the workspace had
	// moved on before they arrived.
	GenerationsDiscarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "discarded_total",
			Help:      "Generated posts discarded because the view changed first",
		},
	)

	PostsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "posts",
			Name:      "created_total",
			Help:      "Posts added to workspace stores",
		},
	)

	Workspaces = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "workspaces",
			Name:      "active",
			Help:      "Number of live session workspaces",
		},
	)
)

// ObserveGeneration records one generation outcome.
func ObserveGeneration(outcome string, elapsed time.Duration) {
	GenerationsTotal.WithLabelValues(outcome).Inc()
	GenerationDuration.Observe(elapsed.Seconds())
}

// ObserveRequest records one finished HTTP request.
func ObserveRequest(method, path, status string, elapsed time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}
