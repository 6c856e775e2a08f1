package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Service-level counters. Registered on the default registry and served by
// promhttp on GET /metrics.
var (
	ApplicationsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "loan_applications_submitted_total",
		Help: "Loan applications accepted at submission, by loan type.",
	}, []string{"loan_type"})

	StatusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "loan_status_transitions_total",
		Help: "Successful status transitions, by target status.",
	}, []string{"to_status"})

	TransitionConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "loan_status_transition_conflicts_total",
		Help: "Transitions rejected because the application state changed concurrently.",
	})

	DocumentsStored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "loan_documents_stored_total",
		Help: "Documents accepted by the document store.",
	})

	DocumentsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "loan_documents_rejected_total",
		Help: "Documents rejected at upload, by reason.",
	}, []string{"reason"})
)
