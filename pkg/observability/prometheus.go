package observability

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/topoviz/pkg/cache"
)

// PrometheusHooks records pipeline and cache events as Prometheus metrics.
// It implements both [PipelineHooks] and [CacheHooks].
//
// Topoviz is a batch tool, so metrics are not served; write them with
// [PrometheusHooks.WriteTextfile] for the node_exporter textfile collector.
type PrometheusHooks struct {
	registry *prometheus.Registry

	StageDuration  *prometheus.HistogramVec
	StageErrors    *prometheus.CounterVec
	DocumentNodes  prometheus.Gauge
	DocumentEdges  prometheus.Gauge
	CachedNodes    prometheus.Gauge
	OutputBytes    *prometheus.GaugeVec
	CacheOperation *prometheus.CounterVec
}

// NewPrometheusHooks creates hooks backed by a fresh registry.
func NewPrometheusHooks() *PrometheusHooks {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &PrometheusHooks{
		registry: reg,
		StageDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "topoviz_stage_duration_seconds",
				Help:    "Duration of pipeline stages in seconds",
				Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
			},
			[]string{"stage"}, // load, layout, render
		),
		StageErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "topoviz_stage_errors_total",
				Help: "Pipeline stages that failed",
			},
			[]string{"stage"},
		),
		DocumentNodes: f.NewGauge(prometheus.GaugeOpts{
			Name: "topoviz_document_nodes",
			Help: "Nodes in the last loaded document",
		}),
		DocumentEdges: f.NewGauge(prometheus.GaugeOpts{
			Name: "topoviz_document_edges",
			Help: "Edges in the last loaded document",
		}),
		CachedNodes: f.NewGauge(prometheus.GaugeOpts{
			Name: "topoviz_layout_cached_nodes",
			Help: "Nodes seeded from the position cache in the last layout",
		}),
		OutputBytes: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "topoviz_output_bytes",
				Help: "Size of the last rendered output",
			},
			[]string{"format"},
		),
		CacheOperation: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "topoviz_position_cache_operations_total",
				Help: "Position cache loads and saves by result",
			},
			[]string{"op", "result"}, // result: ok, missing, corrupt, error
		),
	}
}

// Registry returns the registry holding the metrics.
func (h *PrometheusHooks) Registry() *prometheus.Registry { return h.registry }

// WriteTextfile writes all metrics to path in the text exposition format.
func (h *PrometheusHooks) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, h.registry)
}

func (h *PrometheusHooks) OnLoadStart(context.Context, string) {}

func (h *PrometheusHooks) OnLoadComplete(_ context.Context, _ string, nodes, edges int, d time.Duration, err error) {
	h.observe("load", d, err)
	if err == nil {
		h.DocumentNodes.Set(float64(nodes))
		h.DocumentEdges.Set(float64(edges))
	}
}

func (h *PrometheusHooks) OnLayoutStart(_ context.Context, _, cached int) {
	h.CachedNodes.Set(float64(cached))
}

func (h *PrometheusHooks) OnLayoutComplete(_ context.Context, d time.Duration) {
	h.observe("layout", d, nil)
}

func (h *PrometheusHooks) OnRenderStart(context.Context, string) {}

func (h *PrometheusHooks) OnRenderComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	h.observe("render", d, err)
	if err == nil {
		h.OutputBytes.WithLabelValues(format).Set(float64(size))
	}
}

func (h *PrometheusHooks) OnCacheLoad(_ context.Context, _ string, _ int, err error) {
	h.CacheOperation.WithLabelValues("load", cacheResult(err)).Inc()
}

func (h *PrometheusHooks) OnCacheSave(_ context.Context, _ string, _ int, err error) {
	h.CacheOperation.WithLabelValues("save", cacheResult(err)).Inc()
}

func (h *PrometheusHooks) observe(stage string, d time.Duration, err error) {
	h.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
	if err != nil {
		h.StageErrors.WithLabelValues(stage).Inc()
	}
}

func cacheResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, cache.ErrMissing):
		return "missing"
	case errors.Is(err, cache.ErrCorrupt):
		return "corrupt"
	}
	return "error"
}
