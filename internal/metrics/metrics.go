// Package metrics holds the Prometheus metrics for template matching and review.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Message outcomes.
const (
	OutcomeMatched   = "matched"
	OutcomeUnmatched = "unmatched"
)

// Notification actions.
const (
	NotificationEmitted  = "emitted"
	NotificationResolved = "resolved"
)

// Metrics holds Prometheus metrics for regexflow.
//
// All metrics are prefixed with "regexflow_":
//   - regexflow_messages_total{outcome} - messages processed, matched or unmatched
//   - regexflow_template_transitions_total{from,to} - lifecycle transitions applied
//   - regexflow_notifications_total{action} - notifications emitted and resolved
//   - regexflow_scoring_duration_seconds - time spent scoring candidates per message
//   - regexflow_scoring_candidates - candidates scored per message
//
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	MessagesTotal      *prometheus.CounterVec
	TransitionsTotal   *prometheus.CounterVec
	NotificationsTotal *prometheus.CounterVec
	ScoringDuration    prometheus.Histogram
	ScoringCandidates  prometheus.Histogram
}

// New creates metrics registered on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		MessagesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "regexflow_messages_total",
				Help: "Total number of messages processed by outcome",
			},
			[]string{"outcome"},
		),
		TransitionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "regexflow_template_transitions_total",
				Help: "Total number of template lifecycle transitions",
			},
			[]string{"from", "to"},
		),
		NotificationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "regexflow_notifications_total",
				Help: "Total number of unmatched-message notifications by action",
			},
			[]string{"action"},
		),
		ScoringDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "regexflow_scoring_duration_seconds",
				Help:    "Time spent scoring candidate templates for one message",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
		),
		ScoringCandidates: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "regexflow_scoring_candidates",
				Help:    "Number of candidate templates scored for one message",
				Buckets: []float64{0, 1, 2, 4, 8, 16, 32},
			},
		),
	}
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveMessage counts a processed message.
func (m *Metrics) ObserveMessage(outcome string) {
	if m == nil {
		return
	}
	m.MessagesTotal.WithLabelValues(outcome).Inc()
}

// ObserveScoring records one scoring pass.
func (m *Metrics) ObserveScoring(d time.Duration, candidates int) {
	if m == nil {
		return
	}
	m.ScoringDuration.Observe(d.Seconds())
	m.ScoringCandidates.Observe(float64(candidates))
}

// ObserveTransition counts a lifecycle transition.
func (m *Metrics) ObserveTransition(from, to string) {
	if m == nil {
		return
	}
	m.TransitionsTotal.WithLabelValues(from, to).Inc()
}

// ObserveNotification counts a notification action.
func (m *Metrics) ObserveNotification(action string) {
	if m == nil {
		return
	}
	m.NotificationsTotal.WithLabelValues(action).Inc()
}

// WriteTextfile writes the current values in the Prometheus text format, for
// node_exporter's textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
