// Package promcache exports cache.Metrics as Prometheus counters and gauges, one label
// value per cache namespace.
package promcache

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/TxnLab/stakeview/internal/cache"
)

// Adapter owns the metric vectors; For binds them to a namespace.
type Adapter struct {
	hits   *prometheus.CounterVec
	misses *prometheus.CounterVec
	evicts *prometheus.CounterVec
	size   *prometheus.GaugeVec
}

// New registers the cache metrics with reg (nil => prometheus.DefaultRegisterer).
func New(reg prometheus.Registerer, ns, sub string) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	a := &Adapter{
		hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: sub,
			Name:      "hits_total",
			Help:      "Cache hits",
		}, []string{"namespace"}),
		misses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: sub,
			Name:      "misses_total",
			Help:      "Cache misses (absent or expired)",
		}, []string{"namespace"}),
		evicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: sub,
			Name:      "evictions_total",
			Help:      "Cache evictions by reason",
		}, []string{"namespace", "reason"}),
		size: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns,
			Subsystem: sub,
			Name:      "size_entries",
			Help:      "Number of resident entries",
		}, []string{"namespace"}),
	}
	reg.MustRegister(a.hits, a.misses, a.evicts, a.size)
	return a
}

// For returns the cache.Metrics of one namespace. Usable directly as a cache.MetricsFactory.
func (a *Adapter) For(namespace string) cache.Metrics {
	return &bound{
		namespace: namespace,
		hits:      a.hits.WithLabelValues(namespace),
		misses:    a.misses.WithLabelValues(namespace),
		evicts:    a.evicts,
		size:      a.size.WithLabelValues(namespace),
	}
}

type bound struct {
	namespace string
	hits      prometheus.Counter
	misses    prometheus.Counter
	evicts    *prometheus.CounterVec
	size      prometheus.Gauge
}

func (b *bound) Hit()  { b.hits.Inc() }
func (b *bound) Miss() { b.misses.Inc() }
func (b *bound) Evict(r cache.EvictReason) {
	b.evicts.WithLabelValues(b.namespace, r.String()).Inc()
}
func (b *bound) Size(entries int) { b.size.Set(float64(entries)) }

var _ cache.Metrics = (*bound)(nil)
