// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	CardsDrawn = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oracle_cards_drawn_total",
			Help: "Readings produced, by card and energy tier",
		},
		[]string{"card", "tier"},
	)

	CatalogFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "oracle_catalog_fallbacks_total",
			Help: "Readings where the picked card was missing from the catalog",
		},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests served, by route and status",
		},
		[]string{"method", "route", "status"},
	)
)

// ObserveDraw counts one reading under its card and tier labels.
func ObserveDraw(card, tier string, fallback bool) {
	CardsDrawn.WithLabelValues(card, tier).Inc()
	if fallback {
		CatalogFallbacks.Inc()
	}
}
