// Package metrics declares the prometheus collectors of the billing backend.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	InvoicesGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "society_invoices_generated_total",
		Help: "Invoices created by billing runs.",
	})

	MembersSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "society_billing_members_skipped_total",
		Help: "Members left out of a billing run, by reason.",
	}, []string{"reason"})

	BillingRunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "society_billing_run_duration_seconds",
		Help:    "Wall time of billing runs.",
		Buckets: prometheus.DefBuckets,
	})

	InvoiceNumberConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "society_invoice_number_conflicts_total",
		Help: "Invoice inserts rejected by the unique invoice number constraint.",
	})

	PaymentTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "society_payment_transitions_total",
		Help: "Payment status transitions, by target status.",
	}, []string{"status"})
)
