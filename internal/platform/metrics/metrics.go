package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	AuditsCompleted   prometheus.Counter
	AuditFailures     prometheus.Counter
	AnomaliesDetected prometheus.Counter
	AuditDuration     prometheus.Histogram
	AuthFailures      prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		AuditsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certifier_audits_completed_total",
			Help: "Total number of audit pipeline runs that reached the Logged state",
		}),
		AuditFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certifier_audit_failures_total",
			Help: "Total number of audit pipeline runs aborted before logging",
		}),
		AnomaliesDetected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certifier_anomalies_detected_total",
			Help: "Total number of rows flagged as critical outliers",
		}),
		AuditDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "certifier_audit_duration_seconds",
			Help:    "Wall time of a full audit pipeline run",
			Buckets: prometheus.DefBuckets,
		}),
		AuthFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certifier_auth_failures_total",
			Help: "Total number of rejected access key attempts",
		}),
	}
}

// IncrementAuditsCompleted increments the completed audits counter by 1.
func (m *Metrics) IncrementAuditsCompleted() {
	m.AuditsCompleted.Inc()
}

// IncrementAuditFailures increments the aborted audits counter by 1.
func (m *Metrics) IncrementAuditFailures() {
	m.AuditFailures.Inc()
}

// AddAnomaliesDetected adds the outlier count of one run.
func (m *Metrics) AddAnomaliesDetected(n int) {
	m.AnomaliesDetected.Add(float64(n))
}

// ObserveAuditDuration records one pipeline run's wall time in seconds.
func (m *Metrics) ObserveAuditDuration(seconds float64) {
	m.AuditDuration.Observe(seconds)
}

// IncrementAuthFailures increments the rejected login counter by 1.
func (m *Metrics) IncrementAuthFailures() {
	m.AuthFailures.Inc()
}
