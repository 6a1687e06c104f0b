// Package metrics provides a Prometheus implementation of the observability
// hooks.
//
// The pipeline itself stays free of metrics dependencies; main wires this
// backend in at startup:
//
//	reg := prometheus.NewRegistry()
//	hooks := metrics.NewHooks(reg)
//	observability.SetPipelineHooks(hooks)
//	observability.SetCacheHooks(hooks)
//	observability.SetStoreHooks(hooks)
//
// All metrics register on the caller-supplied registry, never on the
// process-global default, so embedders control exposition and tests never
// collide on duplicate registration.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/netloom/pkg/observability"
)

// Hooks implements the observability pipeline, cache, and store hook
// interfaces over Prometheus collectors.
type Hooks struct {
	// Fetch metrics, per source
	FetchesTotal  *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec

	// Canonicalize metrics, per source
	RecordsSkippedTotal *prometheus.CounterVec

	// Merge metrics, per run
	TopologyNodes     prometheus.Gauge
	TopologyEdges     prometheus.Gauge
	DroppedEdgesTotal prometheus.Counter

	// Layout metrics
	LayoutsTotal   *prometheus.CounterVec
	LayoutDuration *prometheus.HistogramVec

	// Render metrics, per format
	RendersTotal   *prometheus.CounterVec
	RenderDuration *prometheus.HistogramVec
	ArtifactBytes  *prometheus.HistogramVec

	// Cache metrics
	CacheOpsTotal *prometheus.CounterVec

	// Store metrics
	StoreWritesTotal   *prometheus.CounterVec
	StoreWriteDuration prometheus.Histogram
}

// NewHooks creates the Prometheus hooks backend with all collectors
// registered on reg.
func NewHooks(reg prometheus.Registerer) *Hooks {
	h := &Hooks{}

	h.FetchesTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "netloom_fetches_total",
			Help: "Total number of source fetches",
		},
		[]string{"vendor", "status"},
	)

	h.FetchDuration = promauto.With(reg).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "netloom_fetch_duration_seconds",
			Help:    "Source fetch duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0, 30.0},
		},
		[]string{"vendor"},
	)

	h.RecordsSkippedTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "netloom_records_skipped_total",
			Help: "Total number of source records skipped for missing identifiers or endpoints",
		},
		[]string{"vendor"},
	)

	h.TopologyNodes = promauto.With(reg).NewGauge(
		prometheus.GaugeOpts{
			Name: "netloom_topology_nodes",
			Help: "Number of nodes in the most recently merged topology",
		},
	)

	h.TopologyEdges = promauto.With(reg).NewGauge(
		prometheus.GaugeOpts{
			Name: "netloom_topology_edges",
			Help: "Number of edges in the most recently merged topology",
		},
	)

	h.DroppedEdgesTotal = promauto.With(reg).NewCounter(
		prometheus.CounterOpts{
			Name: "netloom_dropped_edges_total",
			Help: "Total number of edges dropped for unresolved endpoints",
		},
	)

	h.LayoutsTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "netloom_layouts_total",
			Help: "Total number of layout computations",
		},
		[]string{"strategy", "status"},
	)

	h.LayoutDuration = promauto.With(reg).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "netloom_layout_duration_seconds",
			Help:    "Layout computation duration in seconds",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1.0},
		},
		[]string{"strategy"},
	)

	h.RendersTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "netloom_renders_total",
			Help: "Total number of artifact renders",
		},
		[]string{"format", "status"},
	)

	h.RenderDuration = promauto.With(reg).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "netloom_render_duration_seconds",
			Help:    "Artifact render duration in seconds",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1.0},
		},
		[]string{"format"},
	)

	h.ArtifactBytes = promauto.With(reg).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "netloom_artifact_bytes",
			Help:    "Rendered artifact size in bytes",
			Buckets: prometheus.ExponentialBuckets(256, 4, 8),
		},
		[]string{"format"},
	)

	h.CacheOpsTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "netloom_cache_ops_total",
			Help: "Total number of payload cache operations",
		},
		[]string{"key_type", "op"},
	)

	h.StoreWritesTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "netloom_store_writes_total",
			Help: "Total number of artifact store writes",
		},
		[]string{"status"},
	)

	h.StoreWriteDuration = promauto.With(reg).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "netloom_store_write_duration_seconds",
			Help:    "Artifact store write duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1.0, 5.0},
		},
	)

	return h
}

// status converts an error outcome into the conventional label value.
func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// =============================================================================
// observability.PipelineHooks
// =============================================================================

func (h *Hooks) OnFetchStart(ctx context.Context, vendor string) {}

func (h *Hooks) OnFetchDone(ctx context.Context, vendor string, bytes int, duration time.Duration, err error) {
	h.FetchesTotal.WithLabelValues(vendor, status(err)).Inc()
	h.FetchDuration.WithLabelValues(vendor).Observe(duration.Seconds())
}

func (h *Hooks) OnCanonicalize(ctx context.Context, vendor string, nodes, edges, skipped int, err error) {
	if skipped > 0 {
		h.RecordsSkippedTotal.WithLabelValues(vendor).Add(float64(skipped))
	}
}

func (h *Hooks) OnMerge(ctx context.Context, nodes, edges, droppedEdges int) {
	h.TopologyNodes.Set(float64(nodes))
	h.TopologyEdges.Set(float64(edges))
	if droppedEdges > 0 {
		h.DroppedEdgesTotal.Add(float64(droppedEdges))
	}
}

func (h *Hooks) OnLayoutStart(ctx context.Context, strategy string, nodeCount int) {}

func (h *Hooks) OnLayoutDone(ctx context.Context, strategy string, duration time.Duration, err error) {
	h.LayoutsTotal.WithLabelValues(strategy, status(err)).Inc()
	h.LayoutDuration.WithLabelValues(strategy).Observe(duration.Seconds())
}

func (h *Hooks) OnRenderStart(ctx context.Context, format string) {}

func (h *Hooks) OnRenderDone(ctx context.Context, format string, bytes int, duration time.Duration, err error) {
	h.RendersTotal.WithLabelValues(format, status(err)).Inc()
	h.RenderDuration.WithLabelValues(format).Observe(duration.Seconds())
	if err == nil {
		h.ArtifactBytes.WithLabelValues(format).Observe(float64(bytes))
	}
}

// =============================================================================
// observability.CacheHooks
// =============================================================================

func (h *Hooks) OnCacheHit(ctx context.Context, keyType string) {
	h.CacheOpsTotal.WithLabelValues(keyType, "hit").Inc()
}

func (h *Hooks) OnCacheMiss(ctx context.Context, keyType string) {
	h.CacheOpsTotal.WithLabelValues(keyType, "miss").Inc()
}

func (h *Hooks) OnCacheSet(ctx context.Context, keyType string, size int) {
	h.CacheOpsTotal.WithLabelValues(keyType, "set").Inc()
}

// =============================================================================
// observability.StoreHooks
// =============================================================================

func (h *Hooks) OnWrite(ctx context.Context, name string, size int, duration time.Duration, err error) {
	h.StoreWritesTotal.WithLabelValues(status(err)).Inc()
	h.StoreWriteDuration.Observe(duration.Seconds())
}

// Interface guards: a single Hooks value serves all three hook surfaces.
var (
	_ observability.PipelineHooks = (*Hooks)(nil)
	_ observability.CacheHooks    = (*Hooks)(nil)
	_ observability.StoreHooks    = (*Hooks)(nil)
)
