package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CronJobMetrics records metadata for scheduled jobs.
type CronJobMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
	drift    prometheus.Gauge
}

// NewCronJobMetrics registers the cron job metrics on the provided registerer.
func NewCronJobMetrics(reg prometheus.Registerer) *CronJobMetrics {
	if reg == nil {
		return &CronJobMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cron_job_duration_seconds",
		Help:    "Duration of cron jobs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cron_job_success_total",
		Help: "Successful cron job executions.",
	}, []string{"job"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cron_job_failure_total",
		Help: "Failed cron job executions.",
	}, []string{"job"})
	drift := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "inventory_reconcile_drift_variants",
		Help: "Variants whose stock does not match the sum of their movements at the last reconcile run.",
	})
	reg.MustRegister(duration, success, failure, drift)
	return &CronJobMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
		drift:    drift,
	}
}

// ObserveDuration records the duration for the named job.
func (c *CronJobMetrics) ObserveDuration(job string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(job)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named job.
func (c *CronJobMetrics) IncSuccess(job string) {
	if c == nil || c.success == nil {
		return
	}
	c.success.WithLabelValues(normalizeLabel(job)).Inc()
}

// IncFailure increments the failure counter for the named job.
func (c *CronJobMetrics) IncFailure(job string) {
	if c == nil || c.failure == nil {
		return
	}
	c.failure.WithLabelValues(normalizeLabel(job)).Inc()
}

// SetInventoryDrift records how many variants drifted in the latest reconcile run.
func (c *CronJobMetrics) SetInventoryDrift(count int) {
	if c == nil || c.drift == nil {
		return
	}
	c.drift.Set(float64(count))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
