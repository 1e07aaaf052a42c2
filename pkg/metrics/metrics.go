package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PaymentMetrics records outcomes of dues payment processing.
type PaymentMetrics struct {
	processed     *prometheus.CounterVec
	reactivations prometheus.Counter
	amount        prometheus.Histogram
}

// NewPaymentMetrics registers the payment metrics on the provided registerer.
func NewPaymentMetrics(reg prometheus.Registerer) *PaymentMetrics {
	if reg == nil {
		return &PaymentMetrics{}
	}
	processed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_processed_total",
		Help: "Dues payments processed, by outcome.",
	}, []string{"outcome"})
	reactivations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "member_reactivations_total",
		Help: "Inactive members reactivated by a payment.",
	})
	amount := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "payment_amount_dollars",
		Help:    "Distribution of processed payment amounts.",
		Buckets: []float64{10, 25, 30, 60, 90, 120, 250, 500},
	})
	reg.MustRegister(processed, reactivations, amount)
	return &PaymentMetrics{
		processed:     processed,
		reactivations: reactivations,
		amount:        amount,
	}
}

// IncProcessed counts a processing attempt by outcome ("ok" or "error").
func (p *PaymentMetrics) IncProcessed(outcome string) {
	if p == nil || p.processed == nil {
		return
	}
	if outcome == "" {
		outcome = "unknown"
	}
	p.processed.WithLabelValues(outcome).Inc()
}

// IncReactivation counts an inactive member brought back by a payment.
func (p *PaymentMetrics) IncReactivation() {
	if p == nil || p.reactivations == nil {
		return
	}
	p.reactivations.Inc()
}

// ObserveAmount records the dollar amount of a processed payment.
func (p *PaymentMetrics) ObserveAmount(amount float64) {
	if p == nil || p.amount == nil {
		return
	}
	p.amount.Observe(amount)
}

// JobMetrics records metadata for scheduled jobs.
type JobMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewJobMetrics registers the scheduled job metrics on the provided registerer.
func NewJobMetrics(reg prometheus.Registerer) *JobMetrics {
	if reg == nil {
		return &JobMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "job_duration_seconds",
		Help:    "Duration of scheduled jobs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "job_success",
		Help: "Successful scheduled job executions.",
	}, []string{"job"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "job_failure",
		Help: "Failed scheduled job executions.",
	}, []string{"job"})
	reg.MustRegister(duration, success, failure)
	return &JobMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// ObserveDuration records the duration for the named job.
func (j *JobMetrics) ObserveDuration(job string, duration time.Duration) {
	if j == nil || j.duration == nil {
		return
	}
	j.duration.WithLabelValues(normalizeLabel(job)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named job.
func (j *JobMetrics) IncSuccess(job string) {
	if j == nil || j.success == nil {
		return
	}
	j.success.WithLabelValues(normalizeLabel(job)).Inc()
}

// IncFailure increments the failure counter for the named job.
func (j *JobMetrics) IncFailure(job string) {
	if j == nil || j.failure == nil {
		return
	}
	j.failure.WithLabelValues(normalizeLabel(job)).Inc()
}

func normalizeLabel(job string) string {
	if job == "" {
		return "unknown"
	}
	return job
}
