package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/nao1215/privacyaudit/internal/pipeline"
)

// handleAudit serves POST /audit.
//
// Design decision: a body that is not valid JSON is treated as an internal
// failure and answered with the 500 shell, while a well-formed body without a
// URL is the only 400 case. Clients therefore see exactly one input error.
func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxRequestBody)

	var req auditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeFailure(w, r, fmt.Errorf("invalid request body: %w", err))
		return
	}

	if strings.TrimSpace(req.URL) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: pipeline.ErrMissingURL.Error()})
		return
	}

	rep, err := s.auditor.Audit(r.Context(), pipeline.Request{
		URL:     req.URL,
		Cookies: []string(req.Cookies),
	})
	if err != nil {
		if errors.Is(err, pipeline.ErrMissingURL) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		s.writeFailure(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, rep)
}

// handleHealth serves GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "healthy", Version: APIVersion})
}

func (s *Server) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("audit failed", "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, failureResponse{
		Error: fmt.Sprintf("Server error: %v", err),
		Risks: []string{},
		Total: 0,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) //nolint:errchkjson // the status line is already sent
}
