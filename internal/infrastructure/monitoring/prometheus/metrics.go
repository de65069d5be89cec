package prometheus

import (
	"strconv"
	"time"
)

// EngineMetrics holds every metric family the engine records.
type EngineMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Chart pipeline
	ChartsTotal        CounterVec
	ChartStageDuration HistogramVec
	PatternsTotal      CounterVec
	YongshinAgreement  CounterVec
	BatchSize          HistogramVec

	// Solar-term tables
	TermCacheEvents   CounterVec
	TermTableDuration HistogramVec

	ErrorsTotal CounterVec
}

var (
	DefaultHTTPDurationBuckets  = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5}
	DefaultStageDurationBuckets = []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1}
	DefaultBatchSizeBuckets     = []float64{1, 2, 5, 10, 25, 50, 100, 250}
)

// Pipeline stages recorded in ChartStageDuration.
const (
	StagePillars  = "pillars"
	StageRelation = "relation"
	StagePattern  = "pattern"
	StageYongshin = "yongshin"
	StageTotal    = "total"
)

// Solar-term cache events recorded in TermCacheEvents.
const (
	CacheHit      = "hit"
	CacheMiss     = "miss"
	CacheStoreHit = "store_hit"
	CacheCompute  = "compute"
)

// NewEngineMetrics registers all families on collector.
func NewEngineMetrics(collector MetricsCollector) *EngineMetrics {
	m := &EngineMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "route", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "route")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "In-flight HTTP requests", "route")

	m.ChartsTotal = collector.RegisterCounter("charts_total", "Chart computations by outcome", "status")
	m.ChartStageDuration = collector.RegisterHistogram("chart_stage_duration_seconds", "Chart pipeline stage duration", DefaultStageDurationBuckets, "stage")
	m.PatternsTotal = collector.RegisterCounter("patterns_total", "Determined patterns by category", "category")
	m.YongshinAgreement = collector.RegisterCounter("yongshin_agreement_total", "Yongshin merges by agreement tier", "agreement")
	m.BatchSize = collector.RegisterHistogram("batch_size", "Charts per batch request", DefaultBatchSizeBuckets)

	m.TermCacheEvents = collector.RegisterCounter("solar_term_cache_events_total", "Solar-term table cache events", "event")
	m.TermTableDuration = collector.RegisterHistogram("solar_term_table_duration_seconds", "Solar-term table computation time", DefaultStageDurationBuckets, "method")

	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Errors by component and code", "component", "code")
	return m
}

// RecordHTTPRequest records one finished request.
func RecordHTTPRequest(m *EngineMetrics, method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// TrackInFlight raises the in-flight gauge for route and returns the
// matching decrement.
func TrackInFlight(m *EngineMetrics, route string) func() {
	if m == nil {
		return func() {}
	}
	g := m.HTTPActiveRequests.WithLabelValues(route)
	g.Inc()
	return g.Dec
}

// RecordChart records one chart computation outcome.
func RecordChart(m *EngineMetrics, ok bool, d time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "error"
	}
	m.ChartsTotal.WithLabelValues(status).Inc()
	m.ChartStageDuration.WithLabelValues(StageTotal).Observe(d.Seconds())
}

// RecordStage records the duration of one pipeline stage.
func RecordStage(m *EngineMetrics, stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.ChartStageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordAnalysis records the pattern category and yongshin agreement tier.
func RecordAnalysis(m *EngineMetrics, category, agreement string) {
	if m == nil {
		return
	}
	m.PatternsTotal.WithLabelValues(category).Inc()
	m.YongshinAgreement.WithLabelValues(agreement).Inc()
}

// RecordCacheEvent counts one solar-term cache event.
func RecordCacheEvent(m *EngineMetrics, event string) {
	if m == nil {
		return
	}
	m.TermCacheEvents.WithLabelValues(event).Inc()
}

// RecordError counts one error.
func RecordError(m *EngineMetrics, component, code string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(component, code).Inc()
}

//Personal.AI order the ending
