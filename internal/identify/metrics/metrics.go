package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the identification module. Counts are
// labeled by resolution method so dashboards can watch the exact/fuzzy mix.
type Metrics struct {
	Identifications  *prometheus.CounterVec
	LookupDuration   prometheus.Histogram
	SimilaritySearch prometheus.Counter
}

// New creates a Metrics instance with all identification metrics registered.
func New() *Metrics {
	return &Metrics{
		Identifications: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mailgate_identifications_total",
			Help: "Total tenant identifications by resolution method",
		}, []string{"method"}),
		LookupDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "mailgate_identify_duration_seconds",
			Help:    "Duration of identification lookups",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		SimilaritySearch: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mailgate_similar_tenant_searches_total",
			Help: "Total similar-tenant suggestion searches",
		}),
	}
}

// ObserveIdentification records one identification outcome.
func (m *Metrics) ObserveIdentification(method string, start time.Time) {
	m.Identifications.WithLabelValues(method).Inc()
	m.LookupDuration.Observe(time.Since(start).Seconds())
}

// IncrementSimilaritySearch records one suggestion search.
func (m *Metrics) IncrementSimilaritySearch() {
	m.SimilaritySearch.Inc()
}
