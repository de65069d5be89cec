package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/saju-engine/internal/application/chart"
)

// ChartHandler serves chart computation, batch and solar-term endpoints.
type ChartHandler struct {
	svc     chart.Service
	maxBody int64
}

// NewChartHandler creates a ChartHandler.  maxBody caps request bodies in
// bytes; zero disables the cap.
func NewChartHandler(svc chart.Service, maxBody int64) *ChartHandler {
	return &ChartHandler{svc: svc, maxBody: maxBody}
}

// BatchRequest is the body of POST /charts/batch.
type BatchRequest struct {
	Charts []*chart.ChartRequest `json:"charts"`
}

// Compute handles POST /api/v1/charts.
func (h *ChartHandler) Compute(w http.ResponseWriter, r *http.Request) {
	var req chart.ChartRequest
	if err := decodeJSON(w, r, h.maxBody, &req); err != nil {
		writeAppError(w, r, err)
		return
	}
	c, err := h.svc.Compute(r.Context(), &req)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Batch handles POST /api/v1/charts/batch.  Per-chart failures are reported
// inside the result; only a malformed or oversized batch fails the request.
func (h *ChartHandler) Batch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := decodeJSON(w, r, h.maxBody, &req); err != nil {
		writeAppError(w, r, err)
		return
	}
	res, err := h.svc.ComputeBatch(r.Context(), req.Charts)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// SolarTerms handles GET /api/v1/solar-terms/{year}?ephemeris=&timezone=.
func (h *ChartHandler) SolarTerms(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "year")
	year, err := strconv.Atoi(raw)
	if err != nil {
		writeAppError(w, r, badRequest("year", raw))
		return
	}
	q := r.URL.Query()
	res, err := h.svc.SolarTerms(r.Context(), &chart.SolarTermsRequest{
		Year:      year,
		Ephemeris: strings.TrimSpace(q.Get("ephemeris")),
		Timezone:  strings.TrimSpace(q.Get("timezone")),
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Defaults handles GET /api/v1/options: the options an unpatched request
// computes with.
func (h *ChartHandler) Defaults(w http.ResponseWriter, r *http.Request) {
	opts, err := h.svc.ResolveOptions(nil)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

// ResolveOptions handles POST /api/v1/options/resolve.  The body is an
// option patch as accepted in a chart request's "options" field.
func (h *ChartHandler) ResolveOptions(w http.ResponseWriter, r *http.Request) {
	var patch map[string]interface{}
	if err := decodeJSON(w, r, h.maxBody, &patch); err != nil {
		writeAppError(w, r, err)
		return
	}
	opts, err := h.svc.ResolveOptions(patch)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

//Personal.AI order the ending
