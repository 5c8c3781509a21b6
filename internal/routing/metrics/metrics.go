package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the routing module.
type Metrics struct {
	Decisions   *prometheus.CounterVec
	Escalations prometheus.Counter
}

// New creates a Metrics instance with all routing metrics registered.
func New() *Metrics {
	return &Metrics{
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mailgate_routing_decisions_total",
			Help: "Total routing decisions by method",
		}, []string{"method"}),
		Escalations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mailgate_routing_escalations_total",
			Help: "Total routing decisions flagged for escalation",
		}),
	}
}

// ObserveDecision records one routing decision.
func (m *Metrics) ObserveDecision(method string, escalated bool) {
	m.Decisions.WithLabelValues(method).Inc()
	if escalated {
		m.Escalations.Inc()
	}
}
