package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LoansCreated counts accepted loan applications
	LoansCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "loantrack_loans_created_total",
		Help: "The total number of loan applications created",
	})

	// LoanTransitions counts status changes by target status
	LoanTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "loantrack_loan_transitions_total",
		Help: "The total number of loan status transitions by target status",
	}, []string{"to"})

	// LoginAttempts counts logins by outcome
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "loantrack_login_attempts_total",
		Help: "The total number of login attempts by result",
	}, []string{"result"})

	// RequestDuration observes HTTP handling time
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "loantrack_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
