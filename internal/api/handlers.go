package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/openfreight/roadlog/internal/metrics"
	"github.com/openfreight/roadlog/internal/planner"
	"github.com/openfreight/roadlog/internal/storage"
)

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		http.Error(w, `{"error":"Internal Server Error","message":"Failed to encode response"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, _ = w.Write(buf.Bytes())
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	})
}

// handlePlanTrip plans a trip. Identical requests are served from the plan
// cache when possible.
func (s *Server) handlePlanTrip(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req planner.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	fingerprint := req.Fingerprint()

	if cached, err := s.cache.GetPlan(ctx, fingerprint); err == nil {
		metrics.PlanCacheHits.Inc()
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "HIT")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(cached)
		return
	} else if !errors.Is(err, storage.ErrNotFound) {
		s.logger.Warn().Err(err).Msg("Plan cache lookup failed")
	}
	metrics.PlanCacheMisses.Inc()

	trip, err := s.planner.Plan(ctx, req)
	if err != nil {
		s.logger.Error().Err(err).
			Str("origin", req.Origin).
			Str("destination", req.Destination).
			Msg("Trip planning failed")
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	payload, err := json.Marshal(trip)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode trip")
		return
	}

	if err := s.cache.PutPlan(ctx, fingerprint, payload); err != nil {
		s.logger.Warn().Err(err).Msg("Plan cache store failed")
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "MISS")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

// handleHealth returns service health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
