package handlers

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler_Liveness(t *testing.T) {
	h := NewHealthHandler("v1.2.3", NewCheck("redis", func(context.Context) error {
		return stderrors.New("down")
	}))
	rec := httptest.NewRecorder()
	h.Liveness(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	// Liveness ignores dependencies.
	require.Equal(t, http.StatusOK, rec.Code)
	var resp LivenessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "alive", resp.Status)
	assert.Equal(t, "v1.2.3", resp.Version)
	assert.NotEmpty(t, resp.Uptime)
}

func TestHealthHandler_Readiness(t *testing.T) {
	ok := NewCheck("ephemeris", func(context.Context) error { return nil })
	bad := NewCheck("redis", func(context.Context) error { return stderrors.New("connection refused") })

	cases := []struct {
		name     string
		checkers []HealthChecker
		code     int
		status   string
	}{
		{"no checkers", nil, http.StatusOK, "ready"},
		{"all healthy", []HealthChecker{ok}, http.StatusOK, "ready"},
		{"one failing", []HealthChecker{ok, bad}, http.StatusServiceUnavailable, "not_ready"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHealthHandler("test", tc.checkers...)
			rec := httptest.NewRecorder()
			h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			assert.Equal(t, tc.code, rec.Code)
			var resp ReadinessResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tc.status, resp.Status)
			assert.Len(t, resp.Components, len(tc.checkers))
			if tc.code != http.StatusOK {
				assert.Equal(t, "unhealthy", resp.Components["redis"].Status)
				assert.Equal(t, "connection refused", resp.Components["redis"].Error)
				assert.Equal(t, "healthy", resp.Components["ephemeris"].Status)
			}
		})
	}
}

func TestHealthHandler_ReadinessTimeout(t *testing.T) {
	slow := NewCheck("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	h := NewHealthHandler("test", slow)
	h.timeout = 20 * time.Millisecond

	rec := httptest.NewRecorder()
	h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "deadline exceeded")
}

//Personal.AI order the ending
