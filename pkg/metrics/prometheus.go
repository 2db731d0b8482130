package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	eventsReceived  *prometheus.CounterVec
	eventsRejected  *prometheus.CounterVec
	eventsDeduped   prometheus.Counter
	scores          prometheus.Histogram
	outcomes        *prometheus.CounterVec
	channelDelivery *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	latency         *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		eventsReceived: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentinel_events_received_total",
				Help: "Total token creation events received, by source",
			},
			[]string{"source"},
		),
		eventsRejected: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentinel_events_rejected_total",
				Help: "Events rejected by validation, by reason",
			},
			[]string{"reason"},
		),
		eventsDeduped: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "sentinel_events_deduped_total",
				Help: "Events dropped as duplicates inside the seen-window",
			},
		),
		scores: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sentinel_score",
				Help:    "Composite score distribution",
				Buckets: prometheus.LinearBuckets(0, 10, 11),
			},
		),
		outcomes: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentinel_alert_outcomes_total",
				Help: "Alert routing outcomes",
			},
			[]string{"outcome"},
		),
		channelDelivery: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentinel_channel_deliveries_total",
				Help: "Per-channel delivery results",
			},
			[]string{"channel", "status"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentinel_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sentinel_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordEventReceived counts one incoming event from a source.
func (r *Recorder) RecordEventReceived(source string) {
	r.eventsReceived.WithLabelValues(source).Inc()
}

// RecordEventRejected counts a validation rejection.
func (r *Recorder) RecordEventRejected(reason string) {
	r.eventsRejected.WithLabelValues(reason).Inc()
}

// RecordEventDeduped counts a duplicate drop.
func (r *Recorder) RecordEventDeduped() {
	r.eventsDeduped.Inc()
}

// RecordScore observes a composite score.
func (r *Recorder) RecordScore(score float64) {
	r.scores.Observe(score)
}

// RecordOutcome counts a routing outcome.
func (r *Recorder) RecordOutcome(outcome string) {
	r.outcomes.WithLabelValues(outcome).Inc()
}

// RecordChannelDelivery counts one channel send attempt result.
func (r *Recorder) RecordChannelDelivery(channel, status string) {
	r.channelDelivery.WithLabelValues(channel, status).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
