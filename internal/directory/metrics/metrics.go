package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for directory snapshot lifecycle.
type Metrics struct {
	Reloads       prometheus.Counter
	ReloadsFailed prometheus.Counter
	Tenants       prometheus.Gauge
	Domains       prometheus.Gauge
}

// New creates a Metrics instance with all directory metrics registered.
func New() *Metrics {
	return &Metrics{
		Reloads: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mailgate_directory_reloads_total",
			Help: "Total successful directory snapshot rebuilds",
		}),
		ReloadsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mailgate_directory_reload_failures_total",
			Help: "Total failed directory snapshot rebuilds",
		}),
		Tenants: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "mailgate_directory_tenants",
			Help: "Tenants in the active directory snapshot",
		}),
		Domains: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "mailgate_directory_domains",
			Help: "Concrete domains in the active directory snapshot",
		}),
	}
}

// ObserveReload records a successful rebuild and the new snapshot's size.
func (m *Metrics) ObserveReload(tenants, domains int) {
	m.Reloads.Inc()
	m.Tenants.Set(float64(tenants))
	m.Domains.Set(float64(domains))
}

// IncrementReloadFailed records a failed rebuild.
func (m *Metrics) IncrementReloadFailed() {
	m.ReloadsFailed.Inc()
}
