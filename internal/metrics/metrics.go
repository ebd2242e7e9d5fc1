package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialpulse_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "socialpulse_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Pipeline metrics
	ViewsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialpulse_views_total",
			Help: "Total number of pipeline view computations by outcome",
		},
		[]string{"view", "outcome"},
	)

	HeavyJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "socialpulse_heavy_job_duration_seconds",
			Help:    "Duration of clustering and model fitting jobs in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		},
		[]string{"job", "outcome"},
	)

	WorkersInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "socialpulse_workers_in_flight",
			Help: "Number of heavy jobs currently holding a worker slot",
		},
	)

	// Upstream metrics
	UpstreamFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialpulse_upstream_fetches_total",
			Help: "Total number of upstream page fetches",
		},
		[]string{"source", "status"},
	)

	// Sink metrics
	SinkFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialpulse_sink_failures_total",
			Help: "Total number of failed writes to run sinks",
		},
		[]string{"sink"},
	)

	ApplicationInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "socialpulse_application_info",
			Help: "Application information",
		},
		[]string{"version", "environment"},
	)
)

// Init records static application information
func Init(version, environment string) {
	ApplicationInfo.WithLabelValues(version, environment).Set(1)
}
