package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	submissionCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "salesvault",
		Subsystem: "activity",
		Name:      "submissions_total",
		Help:      "Number of manual activity submissions, labeled by result (accepted, rejected, failed).",
	}, []string{"result"})

	lastSubmittedGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "salesvault",
		Subsystem: "activity",
		Name:      "last_submitted_timestamp_seconds",
		Help:      "Unix timestamp of the most recent accepted activity submission.",
	})

	syncDeliveredCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "salesvault",
		Subsystem: "sync",
		Name:      "delivered_total",
		Help:      "Number of CRM sync notifications handed to a backend successfully.",
	}, []string{"backend"})

	syncFailureCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "salesvault",
		Subsystem: "sync",
		Name:      "failures_total",
		Help:      "Number of CRM sync notifications that failed or were dropped.",
	}, []string{"backend"})

	projectionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "salesvault",
		Subsystem: "projection",
		Name:      "duration_seconds",
		Help:      "Time spent computing a full dashboard snapshot.",
		Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
	})
)

func init() {
	prometheus.MustRegister(submissionCounter, lastSubmittedGauge, syncDeliveredCounter, syncFailureCounter, projectionDuration)
}

// RecordSubmission counts an accepted or rejected submission.
func RecordSubmission(accepted bool) {
	result := "rejected"
	if accepted {
		result = "accepted"
	}
	submissionCounter.WithLabelValues(result).Inc()
}

// RecordSubmissionFailed counts a valid submission the activity log could not store.
func RecordSubmissionFailed() {
	submissionCounter.WithLabelValues("failed").Inc()
}

// RecordActivitySubmitted updates the submission watermark gauge.
func RecordActivitySubmitted(ts time.Time) {
	if ts.IsZero() {
		return
	}
	lastSubmittedGauge.Set(float64(ts.Unix()))
}

// RecordSyncDelivered counts a successful hand-off to a sync backend.
func RecordSyncDelivered(backend string) {
	syncDeliveredCounter.WithLabelValues(backend).Inc()
}

// RecordSyncFailure counts a failed or dropped sync notification.
func RecordSyncFailure(backend string) {
	syncFailureCounter.WithLabelValues(backend).Inc()
}

// ObserveProjection records how long a snapshot took.
func ObserveProjection(d time.Duration) {
	projectionDuration.Observe(d.Seconds())
}

// SubmissionCount exposes the submission counter for a result label.
func SubmissionCount(result string) prometheus.Counter {
	return submissionCounter.WithLabelValues(result)
}

// SyncFailureCount exposes the failure counter for a backend label.
func SyncFailureCount(backend string) prometheus.Counter {
	return syncFailureCounter.WithLabelValues(backend)
}
