package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the marketplace collectors. A nil *Metrics is a valid no-op.
type Metrics struct {
	httpDuration *prometheus.HistogramVec
	ledgerOps    *prometheus.CounterVec
	orderEvents  *prometheus.CounterVec
	settlements  *prometheus.CounterVec
	emails       *prometheus.CounterVec
}

// New registers the marketplace collectors on reg. A nil registerer yields a
// Metrics value whose methods do nothing.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	m := &Metrics{
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		ledgerOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_ledger_operations_total",
			Help: "Wallet ledger operations by kind and outcome.",
		}, []string{"operation", "outcome"}),
		orderEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "order_transitions_total",
			Help: "Order lifecycle transitions by target status.",
		}, []string{"status"}),
		settlements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "checkout_settlements_total",
			Help: "Payment settlements by outcome.",
		}, []string{"outcome"}),
		emails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notification_emails_total",
			Help: "Notification emails by kind and outcome.",
		}, []string{"kind", "outcome"}),
	}
	reg.MustRegister(m.httpDuration, m.ledgerOps, m.orderEvents, m.settlements, m.emails)
	return m
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route, status string, d time.Duration) {
	if m == nil || m.httpDuration == nil {
		return
	}
	m.httpDuration.WithLabelValues(method, normalize(route), status).Observe(d.Seconds())
}

// IncLedger counts a wallet operation ("deposit", "withdraw", "transfer") with
// its outcome ("ok", "insufficient_funds", "error").
func (m *Metrics) IncLedger(operation, outcome string) {
	if m == nil || m.ledgerOps == nil {
		return
	}
	m.ledgerOps.WithLabelValues(normalize(operation), normalize(outcome)).Inc()
}

func (m *Metrics) IncOrderTransition(status string) {
	if m == nil || m.orderEvents == nil {
		return
	}
	m.orderEvents.WithLabelValues(normalize(status)).Inc()
}

func (m *Metrics) IncSettlement(outcome string) {
	if m == nil || m.settlements == nil {
		return
	}
	m.settlements.WithLabelValues(normalize(outcome)).Inc()
}

func (m *Metrics) IncEmail(kind, outcome string) {
	if m == nil || m.emails == nil {
		return
	}
	m.emails.WithLabelValues(normalize(kind), normalize(outcome)).Inc()
}

func normalize(label string) string {
	if label == "" {
		return "unknown"
	}
	return label
}
