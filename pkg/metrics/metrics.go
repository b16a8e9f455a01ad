package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Ledger metrics
	LedgerCredits        prometheus.Counter
	LedgerDebits         prometheus.Counter
	LedgerDebitsRejected prometheus.Counter

	// Search metrics
	SearchesExecuted prometheus.Counter
	SearchesDenied   *prometheus.CounterVec
	SearchLatency    prometheus.Histogram

	// Checkout metrics
	CheckoutSessionsCreated prometheus.Counter
	CheckoutSessionsFailed  prometheus.Counter
	PaymentsConfirmed       prometheus.Counter
	PaymentReplays          prometheus.Counter

	// Outbox metrics
	OutboxEventsProcessed   prometheus.Counter
	OutboxEventsFailed      prometheus.Counter
	OutboxProcessingLatency prometheus.Histogram
}

// NewMetrics creates all application metrics and registers them with reg.
// Tests pass a fresh registry so repeated construction does not collide.
func NewMetrics(reg prometheus.Registerer, namespace, subsystem string) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		LedgerCredits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "ledger_points_credited_total",
			Help:      "Total points credited to accounts",
		}),
		LedgerDebits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "ledger_points_debited_total",
			Help:      "Total points debited from accounts",
		}),
		LedgerDebitsRejected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "ledger_debits_rejected_total",
			Help:      "Total debits rejected for insufficient balance",
		}),
		SearchesExecuted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "searches_executed_total",
			Help:      "Total searches that passed the gate and executed",
		}),
		SearchesDenied: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "searches_denied_total",
			Help:      "Total search attempts rejected by the gate",
		}, []string{"reason"}),
		SearchLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "search_duration_seconds",
			Help:      "Duration of search execution in seconds",
		}),
		CheckoutSessionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "checkout_sessions_created_total",
			Help:      "Total checkout sessions created with the processor",
		}),
		CheckoutSessionsFailed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "checkout_sessions_failed_total",
			Help:      "Total checkout session creations that failed",
		}),
		PaymentsConfirmed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "payments_confirmed_total",
			Help:      "Total first-time payment confirmations",
		}),
		PaymentReplays: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "payment_confirmation_replays_total",
			Help:      "Total replayed payment confirmations detected",
		}),
		OutboxEventsProcessed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "outbox_events_processed_total",
			Help:      "Total number of successfully processed outbox events",
		}),
		OutboxEventsFailed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "outbox_events_failed_total",
			Help:      "Total number of outbox events that failed to publish",
		}),
		OutboxProcessingLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "outbox_processing_duration_seconds",
			Help:      "Duration of outbox batch processing in seconds",
		}),
	}
}
