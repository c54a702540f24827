package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/chat-summary-api/internal/models"
	"github.com/chat-summary-api/internal/summary"
)

// handleGenerateSummary handles POST /api/generate-summary
func (s *Server) handleGenerateSummary(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r)

	req, err := s.decodeRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp, err := s.generator.GenerateSummary(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.metrics.TokensUsed.WithLabelValues(s.provider).Add(float64(resp.TokensUsed))

	logger.Info().
		Int("tokens_used", resp.TokensUsed).
		Int("summary_length", len([]rune(resp.Summary))).
		Msg("Summary sent")

	writeJSON(w, http.StatusOK, resp)
}

// decodeRequest parses the body into a SummaryRequest.
// Every failure is reported as summary.ErrInvalidRequest.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (*models.SummaryRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes)

	dec := json.NewDecoder(r.Body)

	var req models.SummaryRequest
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: request body is empty", summary.ErrInvalidRequest)
		}
		return nil, decodeError(err)
	}

	// The body must hold exactly one JSON value
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return nil, fmt.Errorf("%w: request body is not valid JSON: unexpected data after the top-level value", summary.ErrInvalidRequest)
		}
		return nil, decodeError(err)
	}

	return &req, nil
}

func decodeError(err error) error {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return fmt.Errorf("%w: request body exceeds %d bytes", summary.ErrInvalidRequest, maxBytesErr.Limit)
	}
	return fmt.Errorf("%w: request body is not valid JSON: %v", summary.ErrInvalidRequest, err)
}

// handlePreflight answers CORS preflight requests
func (s *Server) handlePreflight(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.WriteHeader(http.StatusOK)
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, models.ErrorResponse{
		Error: fmt.Sprintf("route %s not found", r.URL.Path),
		Code:  codeNotFound,
	})
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, models.ErrorResponse{
		Error: fmt.Sprintf("method %s is not allowed on %s", r.Method, r.URL.Path),
		Code:  codeMethodNotAllowed,
	})
}

// writeJSON encodes body with the given status
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(body)
}
