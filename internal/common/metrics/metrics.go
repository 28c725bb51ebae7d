// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RemoteRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_remote_requests_total",
			Help: "Total number of requests issued to the remote store",
		},
		[]string{"endpoint"},
	)

	RemoteRequestsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_remote_requests_failed_total",
			Help: "Total number of failed remote store requests",
		},
		[]string{"endpoint", "error_code"},
	)

	RemoteRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "engine_remote_request_duration_seconds",
			Help: "Duration of remote store requests in seconds",
		},
		[]string{"endpoint"},
	)

	OutcomeCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_outcome_cache_hits_total",
			Help: "Total number of outcome cache hits",
		},
	)

	OutcomeCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_outcome_cache_misses_total",
			Help: "Total number of outcome cache misses",
		},
	)

	StaleGenerationsDiscarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_stale_generations_discarded_total",
			Help: "Fetch completions discarded because inputs changed mid-flight",
		},
	)

	StatsFetchProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "engine_stats_fetch_progress",
			Help: "Progress of the current per-promoter stats fetch (0-100)",
		},
	)
)
