package metrics

import "github.com/prometheus/client_golang/prometheus"

// BlockMetrics counts rendered and skipped page sections.
type BlockMetrics struct {
	rendered *prometheus.CounterVec
	skipped  *prometheus.CounterVec
}

func NewBlockMetrics(reg prometheus.Registerer) *BlockMetrics {
	if reg == nil {
		return &BlockMetrics{}
	}
	rendered := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_blocks_rendered_total",
		Help: "Page sections rendered by block type.",
	}, []string{"block_type"})
	skipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_blocks_skipped_total",
		Help: "Page sections skipped because their block type is not recognized.",
	}, []string{"block_type"})
	reg.MustRegister(rendered, skipped)
	return &BlockMetrics{rendered: rendered, skipped: skipped}
}

func (m *BlockMetrics) IncRendered(blockType string) {
	if m == nil || m.rendered == nil {
		return
	}
	m.rendered.WithLabelValues(normalizeLabel(blockType)).Inc()
}

func (m *BlockMetrics) IncSkipped(blockType string) {
	if m == nil || m.skipped == nil {
		return
	}
	m.skipped.WithLabelValues(normalizeLabel(blockType)).Inc()
}
