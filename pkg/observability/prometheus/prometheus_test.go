package prometheus

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/plotkit/pkg/observability"
)

func TestMetricsCount(t *testing.T) {
	ctx := context.Background()
	m := New(nil)

	m.OnLayoutComplete(ctx, "tree-plot-20x20@v1", 5, time.Millisecond, nil)
	m.OnLayoutComplete(ctx, "tree-plot-20x20@v1", 0, time.Millisecond, errors.New("boom"))
	m.OnCacheHit(ctx, "layout")
	m.OnCacheMiss(ctx, "layout")
	m.OnCacheMiss(ctx, "layout")
	m.OnAnalysisComplete(ctx, 3, 10, time.Second, nil)

	if got := testutil.ToFloat64(m.layouts.WithLabelValues("tree-plot-20x20@v1", "ok")); got != 1 {
		t.Errorf("ok layouts = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.layouts.WithLabelValues("tree-plot-20x20@v1", "error")); got != 1 {
		t.Errorf("failed layouts = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.cacheLookups.WithLabelValues("layout", "miss")); got != 2 {
		t.Errorf("cache misses = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.analyses.WithLabelValues("ok")); got != 1 {
		t.Errorf("analyses = %v, want 1", got)
	}
}

func TestInflightGauge(t *testing.T) {
	ctx := context.Background()
	m := New(nil)
	m.OnRequest(ctx, "GET", "/v1/plots")
	if got := testutil.ToFloat64(m.inflight); got != 1 {
		t.Errorf("in flight = %v, want 1", got)
	}
	m.OnResponse(ctx, "GET", "/v1/plots", 200, time.Millisecond)
	if got := testutil.ToFloat64(m.inflight); got != 0 {
		t.Errorf("in flight = %v, want 0", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "/v1/plots", "200")); got != 1 {
		t.Errorf("requests = %v, want 1", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New(nil)
	m.OnCacheSet(context.Background(), "report", 512)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `plotkit_cache_written_bytes_total{key_type="report"} 512`) {
		t.Errorf("metrics output missing cache bytes:\n%s", body)
	}
}

func TestRegister(t *testing.T) {
	observability.Reset()
	t.Cleanup(observability.Reset)

	m := New(nil)
	m.Register()
	if observability.Cache() != m || observability.HTTP() != m {
		t.Error("Register() did not install the hooks")
	}
}
