package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counts how many HTTP fetches have been attempted in total.
var FetchesTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "seoaudit_fetches_total",
	Help: "Total number of HTTP fetches attempted",
})

// Counts fetches that failed at the transport level (DNS, TLS, timeout).
var FetchErrors = promauto.NewCounter(prometheus.CounterOpts{
	Name: "seoaudit_fetch_errors_total",
	Help: "Total number of fetches that failed before an HTTP response arrived",
})

// Counts evaluated checks by result.
var ChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "seoaudit_checks_total",
		Help: "Total number of policy checks evaluated, labeled by result",
	},
	[]string{"result"},
)

// Audit run metrics
var (
	AuditRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "seoaudit_audit_runs_total",
		Help: "Total number of audit runs completed",
	})

	LastRunFailedChecks = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "seoaudit_last_run_failed_checks",
		Help: "Number of failed checks in the most recent audit run",
	})

	AuditDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "seoaudit_audit_duration_seconds",
		Help:    "Wall-clock time taken by a full audit run",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10), // From 500ms to ~4m
	})
)

// Records one run's outcome on the run-level collectors.
func ObserveRun(failed int, seconds float64) {
	AuditRuns.Inc()
	LastRunFailedChecks.Set(float64(failed))
	AuditDuration.Observe(seconds)
}

// Records a batch of check results on the result-labeled counter.
func ObserveChecks(passed, failed int) {
	ChecksTotal.WithLabelValues("pass").Add(float64(passed))
	ChecksTotal.WithLabelValues("fail").Add(float64(failed))
}
