package prometheus

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/saju-engine/internal/infrastructure/monitoring/logging"
)

func newTestCollector(t *testing.T) MetricsCollector {
	t.Helper()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "test", Subsystem: "unit"}, logging.NewNopLogger())
	require.NoError(t, err)
	return c
}

func scrapeMetrics(t *testing.T, collector MetricsCollector) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	collector.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestNewMetricsCollector_RequiresNamespace(t *testing.T) {
	_, err := NewMetricsCollector(CollectorConfig{}, nil)
	assert.Error(t, err)
}

func TestNewMetricsCollector_GoMetrics(t *testing.T) {
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "test", EnableGoMetrics: true}, nil)
	require.NoError(t, err)
	assert.Contains(t, scrapeMetrics(t, c), "go_goroutines")
}

func TestRegisterCounter(t *testing.T) {
	c := newTestCollector(t)
	vec := c.RegisterCounter("events_total", "Events", "kind")
	vec.WithLabelValues("a").Inc()
	vec.WithLabelValues("a").Add(2)
	vec.WithLabelValues("b").Inc()

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_events_total{kind="a"} 3`)
	assert.Contains(t, out, `test_unit_events_total{kind="b"} 1`)
}

func TestRegisterGauge(t *testing.T) {
	c := newTestCollector(t)
	g := c.RegisterGauge("inflight", "In flight", "route")
	g.WithLabelValues("/x").Inc()
	g.WithLabelValues("/x").Inc()
	g.WithLabelValues("/x").Dec()
	g.WithLabelValues("/y").Set(7)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_inflight{route="/x"} 1`)
	assert.Contains(t, out, `test_unit_inflight{route="/y"} 7`)
}

func TestRegisterHistogram_DefaultBuckets(t *testing.T) {
	c := newTestCollector(t)
	h := c.RegisterHistogram("latency_seconds", "Latency", nil, "op")
	h.WithLabelValues("read").Observe(0.2)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_latency_seconds_count{op="read"} 1`)
	assert.Contains(t, out, `test_unit_latency_seconds_bucket{op="read",le="0.25"} 1`)
}

func TestRegister_Idempotent(t *testing.T) {
	c := newTestCollector(t)
	first := c.RegisterCounter("dup_total", "Dup", "k")
	second := c.RegisterCounter("dup_total", "Dup", "k")
	first.WithLabelValues("x").Inc()
	second.WithLabelValues("x").Inc()

	assert.Contains(t, scrapeMetrics(t, c), `test_unit_dup_total{k="x"} 2`)
}

func TestRegister_TypeMismatchIsNoop(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterCounter("shared", "Shared")
	g := c.RegisterGauge("shared", "Shared")
	assert.NotPanics(t, func() { g.WithLabelValues().Set(3) })
	assert.IsType(t, noopGaugeVec{}, g)
}

func TestRegister_Concurrent(t *testing.T) {
	c := newTestCollector(t)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.RegisterCounter("racy_total", "Racy").WithLabelValues().Inc()
		}()
	}
	wg.Wait()
	assert.Contains(t, scrapeMetrics(t, c), "test_unit_racy_total 16")
}

func TestMustRegisterAndUnregister(t *testing.T) {
	c := newTestCollector(t)
	extra := prometheus.NewCounter(prometheus.CounterOpts{Name: "extra_total", Help: "Extra"})
	c.MustRegister(extra)
	extra.Inc()
	assert.Contains(t, scrapeMetrics(t, c), "extra_total 1")
	assert.True(t, c.Unregister(extra))
	assert.NotContains(t, scrapeMetrics(t, c), "extra_total")
}

func TestNoopCollector(t *testing.T) {
	c := NewNoopCollector()
	assert.NotPanics(t, func() {
		c.RegisterCounter("a", "a", "l").WithLabelValues("x").Inc()
		c.RegisterGauge("b", "b").WithLabelValues().Set(1)
		c.RegisterHistogram("c", "c", nil).WithLabelValues().Observe(1)
	})
	w := httptest.NewRecorder()
	c.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, c.Unregister(nil))
}

func TestTimer(t *testing.T) {
	c := newTestCollector(t)
	h := c.RegisterHistogram("timer_seconds", "Timer", []float64{10})
	timer := NewTimer(h.WithLabelValues())
	time.Sleep(2 * time.Millisecond)
	d := timer.ObserveDuration()
	assert.GreaterOrEqual(t, d, 2*time.Millisecond)
	assert.Contains(t, scrapeMetrics(t, c), "test_unit_timer_seconds_count 1")

	assert.NotPanics(t, func() { NewTimer(nil).ObserveDuration() })
}

//Personal.AI order the ending
