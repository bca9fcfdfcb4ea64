// Package metrics defines the service-wide Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Decisions counts admission decisions by outcome (selected, rejected).
	Decisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campaign_apply_decisions_total",
		Help: "Admission decisions made, labelled by outcome.",
	}, []string{"outcome"})

	// PublishFailures counts decision events that could not be handed to the
	// relay. Each one is a potential ledger drift and should alert.
	PublishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campaign_decision_publish_failures_total",
		Help: "Decision events that failed to publish to the relay.",
	})

	// Reconciled counts consumed decision events by result
	// (recorded, duplicate, error).
	Reconciled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campaign_reconcile_events_total",
		Help: "Decision events processed by the reconciliation consumer.",
	}, []string{"result"})

	// DeadLetters counts events routed to the dead-letter topic.
	DeadLetters = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campaign_reconcile_dead_letters_total",
		Help: "Decision events routed to the dead-letter topic.",
	})
)

const (
	OutcomeSelected = "selected"
	OutcomeRejected = "rejected"

	ResultRecorded  = "recorded"
	ResultDuplicate = "duplicate"
	ResultError     = "error"
)
