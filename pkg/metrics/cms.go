package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CMSMetrics records Contentstack delivery calls and entry cache usage.
type CMSMetrics struct {
	duration *prometheus.HistogramVec
	failure  *prometheus.CounterVec
	hits     *prometheus.CounterVec
	misses   *prometheus.CounterVec
}

// NewCMSMetrics registers the delivery client metrics on the provided registerer.
func NewCMSMetrics(reg prometheus.Registerer) *CMSMetrics {
	if reg == nil {
		return &CMSMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_cms_request_duration_seconds",
		Help:    "Duration of Contentstack delivery requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"content_type"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cms_request_failures_total",
		Help: "Failed Contentstack delivery requests.",
	}, []string{"content_type"})
	hits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cms_cache_hits_total",
		Help: "Entry cache hits.",
	}, []string{"content_type"})
	misses := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cms_cache_misses_total",
		Help: "Entry cache misses.",
	}, []string{"content_type"})
	reg.MustRegister(duration, failure, hits, misses)
	return &CMSMetrics{
		duration: duration,
		failure:  failure,
		hits:     hits,
		misses:   misses,
	}
}

// ObserveRequest records the duration of one delivery call.
func (m *CMSMetrics) ObserveRequest(contentType string, d time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(contentType)).Observe(d.Seconds())
}

// IncFailure counts a failed delivery call.
func (m *CMSMetrics) IncFailure(contentType string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(contentType)).Inc()
}

// IncCacheHit counts a cache hit.
func (m *CMSMetrics) IncCacheHit(contentType string) {
	if m == nil || m.hits == nil {
		return
	}
	m.hits.WithLabelValues(normalizeLabel(contentType)).Inc()
}

// IncCacheMiss counts a cache miss.
func (m *CMSMetrics) IncCacheMiss(contentType string) {
	if m == nil || m.misses == nil {
		return
	}
	m.misses.WithLabelValues(normalizeLabel(contentType)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
