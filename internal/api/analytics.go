package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pulseboard/pulseboard/internal/engine"
	"github.com/pulseboard/pulseboard/internal/feedback"
	"github.com/pulseboard/pulseboard/internal/segment"
)

// computeRisk handles GET /api/v1/tenants/{tenantID}/risk.
// Query params: time_range (7d|30d|60d|90d, default 90d), source
// (default all), include_details (default true).
func (s *Server) computeRisk(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuid.Parse(chi.URLParam(r, "tenantID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid tenant id")
		return
	}

	opts := engine.DefaultRiskOptions()
	if tr := r.URL.Query().Get("time_range"); tr != "" {
		opts.TimeRange = feedback.TimeRange(tr)
	}
	if src := r.URL.Query().Get("source"); src != "" {
		opts.Source = src
	}
	if v := r.URL.Query().Get("include_details"); v != "" {
		include, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid include_details")
			return
		}
		opts.IncludeDetails = include
	}

	assessment, err := s.engine.ComputeChurnRisk(r.Context(), tenantID, opts)
	if err != nil {
		s.respondEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, assessment)
}

// classifySegments handles GET /api/v1/tenants/{tenantID}/segments/{segmentType}.
// Query params: time_range (default 30d), source (default all), limit
// (default 1000), include_metadata (default true).
func (s *Server) classifySegments(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuid.Parse(chi.URLParam(r, "tenantID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid tenant id")
		return
	}
	segmentType := segment.Type(chi.URLParam(r, "segmentType"))

	opts := engine.DefaultSegmentOptions()
	if tr := r.URL.Query().Get("time_range"); tr != "" {
		opts.TimeRange = feedback.TimeRange(tr)
	}
	if src := r.URL.Query().Get("source"); src != "" {
		opts.Source = src
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		opts.Limit = limit
	}
	if v := r.URL.Query().Get("include_metadata"); v != "" {
		include, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid include_metadata")
			return
		}
		opts.IncludeMetadata = include
	}

	result, err := s.engine.ClassifySegments(r.Context(), tenantID, segmentType, opts)
	if err != nil {
		s.respondEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ingestRequest is the POST /feedback payload.
type ingestRequest struct {
	Content       string             `json:"content"`
	Sentiment     feedback.Sentiment `json:"sentiment"`
	Urgency       feedback.Urgency   `json:"urgency"`
	Categories    []string           `json:"categories"`
	Source        string             `json:"source"`
	CustomerEmail string             `json:"customer_email"`
	IsResolved    bool               `json:"is_resolved"`
}

// ingestFeedback handles POST /api/v1/tenants/{tenantID}/feedback.
func (s *Server) ingestFeedback(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuid.Parse(chi.URLParam(r, "tenantID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid tenant id")
		return
	}

	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}
	if !feedback.ValidSentiment(req.Sentiment) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid sentiment %q", req.Sentiment))
		return
	}
	if !feedback.ValidUrgency(req.Urgency) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid urgency %q", req.Urgency))
		return
	}
	if req.Source == "" {
		writeError(w, http.StatusBadRequest, "source is required")
		return
	}

	id, err := s.ingest.InsertFeedback(r.Context(), feedback.Record{
		TenantID:      tenantID,
		Content:       req.Content,
		Sentiment:     req.Sentiment,
		Urgency:       req.Urgency,
		Categories:    req.Categories,
		Source:        req.Source,
		CustomerEmail: req.CustomerEmail,
		IsResolved:    req.IsResolved,
	})
	if err != nil {
		s.logger.Error("feedback insert failed", "tenant_id", tenantID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to store feedback")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id.String()})
}

// respondEngineError maps engine failures to HTTP statuses: catalog and
// option errors are the caller's fault, window fetch failures are not.
func (s *Server) respondEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, segment.ErrUnknownSegmentType), errors.Is(err, engine.ErrInvalidOptions):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("analytics request failed", "error", err)
		writeError(w, http.StatusBadGateway, "feedback data unavailable")
	}
}
