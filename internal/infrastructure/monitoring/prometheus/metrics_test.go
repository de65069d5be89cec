package prometheus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestMetrics(t *testing.T) (*EngineMetrics, MetricsCollector) {
	t.Helper()
	c := newTestCollector(t)
	return NewEngineMetrics(c), c
}

func TestRecordHTTPRequest(t *testing.T) {
	m, c := newTestMetrics(t)
	RecordHTTPRequest(m, "POST", "/v1/charts", 200, 30*time.Millisecond)
	RecordHTTPRequest(m, "POST", "/v1/charts", 400, time.Millisecond)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_http_requests_total{method="POST",route="/v1/charts",status_code="200"} 1`)
	assert.Contains(t, out, `test_unit_http_requests_total{method="POST",route="/v1/charts",status_code="400"} 1`)
	assert.Contains(t, out, `test_unit_http_request_duration_seconds_count{method="POST",route="/v1/charts"} 2`)
}

func TestTrackInFlight(t *testing.T) {
	m, c := newTestMetrics(t)
	done := TrackInFlight(m, "/api/v1")
	assert.Contains(t, scrapeMetrics(t, c), `test_unit_http_active_requests{route="/api/v1"} 1`)
	done()
	assert.Contains(t, scrapeMetrics(t, c), `test_unit_http_active_requests{route="/api/v1"} 0`)
}

func TestRecordChartAndStages(t *testing.T) {
	m, c := newTestMetrics(t)
	RecordChart(m, true, 5*time.Millisecond)
	RecordChart(m, false, time.Millisecond)
	RecordStage(m, StagePillars, time.Millisecond)
	RecordStage(m, StageYongshin, time.Millisecond)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_charts_total{status="ok"} 1`)
	assert.Contains(t, out, `test_unit_charts_total{status="error"} 1`)
	assert.Contains(t, out, `test_unit_chart_stage_duration_seconds_count{stage="total"} 2`)
	assert.Contains(t, out, `test_unit_chart_stage_duration_seconds_count{stage="pillars"} 1`)
	assert.Contains(t, out, `test_unit_chart_stage_duration_seconds_count{stage="yongshin"} 1`)
}

func TestRecordAnalysis(t *testing.T) {
	m, c := newTestMetrics(t)
	RecordAnalysis(m, "standard", "full")
	RecordAnalysis(m, "standard", "partial")

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_patterns_total{category="standard"} 2`)
	assert.Contains(t, out, `test_unit_yongshin_agreement_total{agreement="full"} 1`)
	assert.Contains(t, out, `test_unit_yongshin_agreement_total{agreement="partial"} 1`)
}

func TestRecordCacheEventAndError(t *testing.T) {
	m, c := newTestMetrics(t)
	RecordCacheEvent(m, CacheMiss)
	RecordCacheEvent(m, CacheCompute)
	RecordCacheEvent(m, CacheHit)
	RecordCacheEvent(m, CacheHit)
	RecordError(m, "chart", "INP_001")

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_solar_term_cache_events_total{event="hit"} 2`)
	assert.Contains(t, out, `test_unit_solar_term_cache_events_total{event="miss"} 1`)
	assert.Contains(t, out, `test_unit_solar_term_cache_events_total{event="compute"} 1`)
	assert.Contains(t, out, `test_unit_errors_total{code="INP_001",component="chart"} 1`)
}

func TestBatchSizeHistogram(t *testing.T) {
	m, c := newTestMetrics(t)
	m.BatchSize.WithLabelValues().Observe(12)
	assert.Contains(t, scrapeMetrics(t, c), "test_unit_batch_size_count 1")
}

func TestRecorders_NilMetrics(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordHTTPRequest(nil, "GET", "/", 200, 0)
		RecordChart(nil, true, 0)
		RecordStage(nil, StagePattern, 0)
		RecordAnalysis(nil, "x", "y")
		RecordCacheEvent(nil, CacheHit)
		RecordError(nil, "x", "y")
		TrackInFlight(nil, "/")()
	})
}

func TestNewEngineMetrics_Noop(t *testing.T) {
	m := NewEngineMetrics(NewNoopCollector())
	assert.NotPanics(t, func() {
		RecordChart(m, true, time.Millisecond)
		RecordCacheEvent(m, CacheStoreHit)
	})
}

//Personal.AI order the ending
