package metrics

import "github.com/prometheus/client_golang/prometheus"

// CartMetrics counts cart transitions and storage failures.
type CartMetrics struct {
	actions *prometheus.CounterVec
	corrupt prometheus.Counter
}

func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	actions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_actions_total",
		Help: "Cart reducer actions applied, by action type.",
	}, []string{"action"})
	corrupt := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "storefront_cart_corrupt_state_total",
		Help: "Persisted carts that could not be decoded and were reset.",
	})
	reg.MustRegister(actions, corrupt)
	return &CartMetrics{actions: actions, corrupt: corrupt}
}

func (m *CartMetrics) IncAction(action string) {
	if m == nil || m.actions == nil {
		return
	}
	m.actions.WithLabelValues(normalizeLabel(action)).Inc()
}

func (m *CartMetrics) IncCorrupt() {
	if m == nil || m.corrupt == nil {
		return
	}
	m.corrupt.Inc()
}
