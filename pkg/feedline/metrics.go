package feedline

// metrics.go mirrors the teacher pattern this codebase uses elsewhere: a
// small sink interface with a no-op implementation and a Prometheus
// implementation, selected by whether a Registerer was supplied. Stores
// never pay for metric updates unless a registry was configured.
//
// ┌────────────────────────────────────┬──────┐
// │ Metric                             │ Type │
// ├────────────────────────────────────┼──────┤
// │ feedline_arenas                    │ Gge  │
// │ feedline_frozen_bytes_total        │ Ctr  │
// │ feedline_edges_follows_total       │ Gge  │
// │ feedline_edges_blocks_total        │ Gge  │
// │ feedline_catalog_hits_total        │ Ctr  │
// │ feedline_catalog_misses_total      │ Ctr  │
// └────────────────────────────────────┴──────┘
//
// © 2025 feedline authors. MIT License.

import "github.com/prometheus/client_golang/prometheus"

// metricsSink is the internal abstraction over the concrete backend
// (Prometheus vs noop). It is not exposed outside the package.
type metricsSink interface {
	setArenaCount(n int)
	addFrozenBytes(n int64)
	setEdgeCount(followers, blocks int64)
	incCatalogHit()
	incCatalogMiss()
}

type noopMetrics struct{}

func (noopMetrics) setArenaCount(int)             {}
func (noopMetrics) addFrozenBytes(int64)          {}
func (noopMetrics) setEdgeCount(int64, int64)     {}
func (noopMetrics) incCatalogHit()                {}
func (noopMetrics) incCatalogMiss()               {}

type promMetrics struct {
	arenas      prometheus.Gauge
	frozenBytes prometheus.Counter
	follows     prometheus.Gauge
	blocks      prometheus.Gauge
	catalogHit  prometheus.Counter
	catalogMiss prometheus.Counter
}

func newPromMetrics(reg prometheus.Registerer) *promMetrics {
	pm := &promMetrics{
		arenas: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "feedline", Name: "arenas", Help: "Number of cold arenas currently in the timeline.",
		}),
		frozenBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "feedline", Name: "frozen_bytes_total", Help: "Cumulative bytes written by Freeze.",
		}),
		follows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "feedline", Subsystem: "edges", Name: "follows_total", Help: "Total follow edges.",
		}),
		blocks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "feedline", Subsystem: "edges", Name: "blocks_total", Help: "Total block edges.",
		}),
		catalogHit: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "feedline", Subsystem: "catalog", Name: "hits_total", Help: "Warm-restart catalog loads served from cache.",
		}),
		catalogMiss: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "feedline", Subsystem: "catalog", Name: "misses_total", Help: "Warm-restart catalog loads that hit Badger/import.",
		}),
	}
	reg.MustRegister(pm.arenas, pm.frozenBytes, pm.follows, pm.blocks, pm.catalogHit, pm.catalogMiss)
	return pm
}

func (m *promMetrics) setArenaCount(n int)    { m.arenas.Set(float64(n)) }
func (m *promMetrics) addFrozenBytes(n int64) { m.frozenBytes.Add(float64(n)) }
func (m *promMetrics) setEdgeCount(followers, blocks int64) {
	m.follows.Set(float64(followers))
	m.blocks.Set(float64(blocks))
}
func (m *promMetrics) incCatalogHit()  { m.catalogHit.Inc() }
func (m *promMetrics) incCatalogMiss() { m.catalogMiss.Inc() }

// newMetricsSink selects noop or Prometheus depending on whether a
// Registerer was configured.
func newMetricsSink(reg prometheus.Registerer) metricsSink {
	if reg == nil {
		return noopMetrics{}
	}
	return newPromMetrics(reg)
}
