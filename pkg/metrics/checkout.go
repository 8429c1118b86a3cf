package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records order lifecycle outcomes.
type CheckoutMetrics struct {
	checkouts *prometheus.CounterVec
	payments  *prometheus.CounterVec
	webhooks  *prometheus.CounterVec
}

// NewCheckoutMetrics registers the order flow metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_total",
		Help: "Checkout attempts by outcome.",
	}, []string{"outcome"})
	payments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_submissions_total",
		Help: "Synchronous payment submissions by processor status.",
	}, []string{"status"})
	webhooks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_notifications_total",
		Help: "Processor webhook notifications by result.",
	}, []string{"result"})
	reg.MustRegister(checkouts, payments, webhooks)
	return &CheckoutMetrics{
		checkouts: checkouts,
		payments:  payments,
		webhooks:  webhooks,
	}
}

// IncCheckout counts one checkout attempt by outcome.
func (c *CheckoutMetrics) IncCheckout(outcome string) {
	if c == nil || c.checkouts == nil {
		return
	}
	c.checkouts.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncPayment counts one payment submission by processor status.
func (c *CheckoutMetrics) IncPayment(status string) {
	if c == nil || c.payments == nil {
		return
	}
	c.payments.WithLabelValues(normalizeLabel(status)).Inc()
}

// IncWebhook counts one webhook notification by result.
func (c *CheckoutMetrics) IncWebhook(result string) {
	if c == nil || c.webhooks == nil {
		return
	}
	c.webhooks.WithLabelValues(normalizeLabel(result)).Inc()
}
