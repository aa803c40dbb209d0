// Package metrics registers the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks request latency by method, route pattern and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tripbook_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status_code"},
	)

	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripbook_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	// BookingsTotal counts booking mutations by operation and outcome.
	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripbook_bookings_total",
			Help: "Booking operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	GroupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripbook_groups_total",
			Help: "Group operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	// WizardTransitionsTotal counts wizard stage changes, labelled by the stage reached.
	WizardTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripbook_wizard_transitions_total",
			Help: "Booking wizard transitions by action and resulting stage",
		},
		[]string{"action", "stage"},
	)

	WizardSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tripbook_wizard_sessions",
			Help: "In-progress booking wizard sessions",
		},
	)
)

const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Outcome classifies err for the outcome label. rejected means a caller-correctable failure.
func Outcome(err error, rejected func(error) bool) string {
	switch {
	case err == nil:
		return OutcomeOK
	case rejected != nil && rejected(err):
		return OutcomeRejected
	default:
		return OutcomeError
	}
}

func RecordBooking(operation string, err error, rejected func(error) bool) {
	BookingsTotal.WithLabelValues(operation, Outcome(err, rejected)).Inc()
}

func RecordGroup(operation string, err error, rejected func(error) bool) {
	GroupsTotal.WithLabelValues(operation, Outcome(err, rejected)).Inc()
}

func RecordWizardTransition(action, stage string) {
	WizardTransitionsTotal.WithLabelValues(action, stage).Inc()
}
