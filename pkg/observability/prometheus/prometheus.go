// Package prometheus implements the observability hooks with Prometheus
// counters and histograms.
package prometheus

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/plotkit/pkg/observability"
)

const namespace = "plotkit"

// Metrics implements every hook interface of the observability package.
type Metrics struct {
	gatherer prometheus.Gatherer

	layouts        *prometheus.CounterVec
	layoutDuration *prometheus.HistogramVec
	layoutNodes    prometheus.Histogram

	analyses         *prometheus.CounterVec
	analysisDuration prometheus.Histogram
	analysisPlots    prometheus.Histogram

	cacheLookups *prometheus.CounterVec
	cacheBytes   *prometheus.CounterVec

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	inflight        prometheus.Gauge
}

var (
	_ observability.LayoutHooks   = (*Metrics)(nil)
	_ observability.AnalysisHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.HTTPHooks     = (*Metrics)(nil)
)

// New creates the collectors and registers them with reg. A nil reg uses a
// fresh registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		gatherer: reg,
		layouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "layouts_total",
			Help: "Committed layouts generated, by blueprint and outcome.",
		}, []string{"blueprint", "outcome"}),
		layoutDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "layout_duration_seconds",
			Help:    "Layout generation time.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"blueprint"}),
		layoutNodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "layout_nodes",
			Help:    "Nodes per generated layout.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "analyses_total",
			Help: "Analysis runs by outcome.",
		}, []string{"outcome"}),
		analysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "analysis_duration_seconds",
			Help:    "Analysis run time.",
			Buckets: prometheus.DefBuckets,
		}),
		analysisPlots: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "analysis_plots",
			Help:    "Plots per analysis run.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "cache_lookups_total",
			Help: "Cache lookups by key type and result.",
		}, []string{"key_type", "result"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "cache_written_bytes_total",
			Help: "Bytes written to the cache by key type.",
		}, []string{"key_type"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "http_requests_total",
			Help: "API requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds",
			Help:    "API request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "http_requests_in_flight",
			Help: "API requests currently being served.",
		}),
	}
	reg.MustRegister(
		m.layouts, m.layoutDuration, m.layoutNodes,
		m.analyses, m.analysisDuration, m.analysisPlots,
		m.cacheLookups, m.cacheBytes,
		m.requests, m.requestDuration, m.inflight,
	)
	return m
}

// Register installs m as the global layout, analysis, cache and HTTP hooks.
func (m *Metrics) Register() {
	observability.SetLayoutHooks(m)
	observability.SetAnalysisHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) OnLayoutStart(context.Context, string) {}

func (m *Metrics) OnLayoutComplete(_ context.Context, blueprintKey string, nodes int, d time.Duration, err error) {
	m.layouts.WithLabelValues(blueprintKey, outcome(err)).Inc()
	m.layoutDuration.WithLabelValues(blueprintKey).Observe(d.Seconds())
	if err == nil {
		m.layoutNodes.Observe(float64(nodes))
	}
}

func (m *Metrics) OnAnalysisStart(context.Context, int) {}

func (m *Metrics) OnAnalysisComplete(_ context.Context, plots, _ int, d time.Duration, err error) {
	m.analyses.WithLabelValues(outcome(err)).Inc()
	m.analysisDuration.Observe(d.Seconds())
	m.analysisPlots.Observe(float64(plots))
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheLookups.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheLookups.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string) {
	m.inflight.Inc()
}

func (m *Metrics) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	m.inflight.Dec()
	m.requests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
