package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "blawby"

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Current number of HTTP requests being processed",
		},
	)
)

// Entitlement metrics
var (
	EntitlementChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entitlement_checks_total",
			Help:      "Total number of entitlement checks by action and outcome",
		},
		[]string{"action", "outcome"},
	)

	UsageIncrementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "usage_increments_total",
			Help:      "Total number of usage counter increments by kind and result",
		},
		[]string{"kind", "result"},
	)

	QuotaRowsReconciledTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quota_rows_reconciled_total",
			Help:      "Total number of quota rows rewritten by reconcile sweeps",
		},
	)
)

// Notification delivery metrics
var (
	DeliveryResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "delivery_results_total",
			Help:      "Total number of recorded delivery attempts by channel and status",
		},
		[]string{"channel", "status"},
	)
)

// Background job metrics
var (
	JobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_total",
			Help:      "Total number of jobs processed",
		},
		[]string{"type", "status"},
	)

	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "job_duration_seconds",
			Help:      "Job execution time distribution",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"type"},
	)

	JobRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_retries_total",
			Help:      "Total number of job retry attempts",
		},
		[]string{"type"},
	)
)

// EntitlementChecked records one entitlement decision.
// Outcome is "authorized" or a denial reason.
func EntitlementChecked(action, outcome string) {
	EntitlementChecksTotal.WithLabelValues(action, outcome).Inc()
}

// UsageIncremented records one increment attempt.
// Result is "ok", "denied", or "error".
func UsageIncremented(kind, result string) {
	UsageIncrementsTotal.WithLabelValues(kind, result).Inc()
}

// QuotaRowsReconciled records how many rows a reconcile sweep rewrote.
func QuotaRowsReconciled(rows int64) {
	QuotaRowsReconciledTotal.Add(float64(rows))
}

// DeliveryRecorded records one persisted delivery attempt.
func DeliveryRecorded(channel, status string) {
	DeliveryResultsTotal.WithLabelValues(channel, status).Inc()
}
