package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PaymentMetrics records PIX generation and webhook outcomes.
type PaymentMetrics struct {
	pixGenerated  *prometheus.CounterVec
	webhookEvents *prometheus.CounterVec
}

// NewPaymentMetrics registers the payment metrics on the provided registerer.
func NewPaymentMetrics(reg prometheus.Registerer) *PaymentMetrics {
	if reg == nil {
		return &PaymentMetrics{}
	}
	pixGenerated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pix_generation_total",
		Help: "PIX payloads generated, labeled by source path.",
	}, []string{"source"})
	webhookEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pagleve_webhook_events_total",
		Help: "Gateway webhook deliveries, labeled by mapping result.",
	}, []string{"result"})
	reg.MustRegister(pixGenerated, webhookEvents)
	return &PaymentMetrics{
		pixGenerated:  pixGenerated,
		webhookEvents: webhookEvents,
	}
}

// IncPixGenerated increments the generation counter for the given source.
func (p *PaymentMetrics) IncPixGenerated(source string) {
	if p == nil || p.pixGenerated == nil {
		return
	}
	p.pixGenerated.WithLabelValues(normalizeLabel(source)).Inc()
}

// IncWebhookEvent increments the webhook counter for the given result.
func (p *PaymentMetrics) IncWebhookEvent(result string) {
	if p == nil || p.webhookEvents == nil {
		return
	}
	p.webhookEvents.WithLabelValues(normalizeLabel(result)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
