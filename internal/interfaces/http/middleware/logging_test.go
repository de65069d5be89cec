package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/saju-engine/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/saju-engine/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/saju-engine/internal/testutil"
)

func loggedRouter(t *testing.T, log logging.Logger, m *prometheus.EngineMetrics, cfg LoggingConfig) http.Handler {
	t.Helper()
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(RequestLogging(log, m, cfg))
	r.Get("/ok/{year}", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("hello"))
	})
	r.Get("/bad", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	r.Get("/slow", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(15 * time.Millisecond)
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {})
	return r
}

func get(h http.Handler, path string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRequestID_GeneratedAndPropagated(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logging.RequestIDFromContext(r.Context())
	}))

	rec := get(h, "/")
	id := rec.Header().Get(RequestIDHeader)
	require.Len(t, id, 36)
	assert.Equal(t, id, seen)

	rec = get(h, "/", RequestIDHeader, "client-42")
	assert.Equal(t, "client-42", rec.Header().Get(RequestIDHeader))
	assert.Equal(t, "client-42", seen)

	rec = get(h, "/", RequestIDHeader, strings.Repeat("x", 200))
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
}

func TestRequestLogging_Levels(t *testing.T) {
	log := testutil.NewMockLogger()
	h := loggedRouter(t, log, nil, LoggingConfig{SlowThreshold: 10 * time.Millisecond})

	get(h, "/ok/2024?x=1", RequestIDHeader, "req-1")
	get(h, "/bad")
	get(h, "/boom")
	get(h, "/slow")

	info, ok := log.Find("info", "HTTP request completed")
	require.True(t, ok)
	assert.Equal(t, "http", info.Logger)
	for key, want := range map[string]interface{}{
		"method":             "GET",
		"path":               "/ok/2024?x=1",
		"route":              "/ok/{year}",
		"status":             200,
		"bytes":              int64(5),
		logging.KeyRequestID: "req-1",
	} {
		got, found := info.Field(key)
		require.True(t, found, key)
		assert.Equal(t, want, got, key)
	}

	assert.True(t, log.HasMessage("warn", "HTTP request completed with client error"))
	assert.True(t, log.HasMessage("error", "HTTP request completed with server error"))
	assert.True(t, log.HasMessage("warn", "HTTP request completed (slow)"))
}

func TestRequestLogging_SkipPaths(t *testing.T) {
	log := testutil.NewMockLogger()
	h := loggedRouter(t, log, nil, DefaultLoggingConfig())
	rec := get(h, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	assert.Empty(t, log.GetMessages())
}

func TestRequestLogging_Metrics(t *testing.T) {
	c, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: "mw", Subsystem: "test"}, logging.NewNopLogger())
	require.NoError(t, err)
	m := prometheus.NewEngineMetrics(c)
	h := loggedRouter(t, logging.NewNopLogger(), m, DefaultLoggingConfig())

	get(h, "/ok/2024")
	get(h, "/ok/1999")
	get(h, "/missing")

	out := scrape(t, c)
	assert.Contains(t, out, `mw_test_http_requests_total{method="GET",route="/ok/{year}",status_code="200"} 2`)
	assert.Contains(t, out, `mw_test_http_requests_total{method="GET",route="unmatched",status_code="404"} 1`)
}

func TestInFlight(t *testing.T) {
	c, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: "mw", Subsystem: "flight"}, logging.NewNopLogger())
	require.NoError(t, err)
	m := prometheus.NewEngineMetrics(c)

	var during string
	h := InFlight(m, "/api/v1")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		during = scrape(t, c)
	}))
	get(h, "/")

	assert.Contains(t, during, `mw_flight_http_active_requests{route="/api/v1"} 1`)
	assert.Contains(t, scrape(t, c), `mw_flight_http_active_requests{route="/api/v1"} 0`)
}

func TestWrappedResponseWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	w := newWrappedResponseWriter(rec)
	w.WriteHeader(http.StatusCreated)
	w.WriteHeader(http.StatusTeapot)
	_, _ = w.Write([]byte("abc"))
	w.Flush()

	assert.Equal(t, http.StatusCreated, w.statusCode)
	assert.Equal(t, int64(3), w.bytesWritten)
	assert.True(t, rec.Flushed)

	_, _, err := w.Hijack()
	assert.Error(t, err)
}

func scrape(t *testing.T, c prometheus.MetricsCollector) string {
	t.Helper()
	srv := httptest.NewServer(c.Handler())
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

//Personal.AI order the ending
