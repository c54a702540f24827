package api

import (
	"errors"
	"net/http"

	"github.com/chat-summary-api/internal/llm"
	"github.com/chat-summary-api/internal/models"
	"github.com/chat-summary-api/internal/summary"
)

// Error codes carried in ErrorResponse.Code
const (
	codeInvalidRequest   = "invalid_request"
	codeAuthError        = "auth_error"
	codeUpstreamError    = "upstream_error"
	codeUpstreamTimeout  = "upstream_timeout"
	codeInternalError    = "internal_error"
	codeNotFound         = "not_found"
	codeMethodNotAllowed = "method_not_allowed"
)

// classifyError maps an error onto status, code and a client-safe message.
// Auth failures get a fixed message so the credential never leaks.
func classifyError(err error) (int, models.ErrorResponse) {
	var upErr *llm.UpstreamError

	switch {
	case errors.Is(err, summary.ErrInvalidRequest):
		return http.StatusBadRequest, models.ErrorResponse{
			Error: err.Error(),
			Code:  codeInvalidRequest,
		}
	case errors.Is(err, llm.ErrAuth):
		return http.StatusInternalServerError, models.ErrorResponse{
			Error: "LLM provider credential is missing or was rejected",
			Code:  codeAuthError,
		}
	case errors.As(err, &upErr) && upErr.Timeout:
		return http.StatusGatewayTimeout, models.ErrorResponse{
			Error: "LLM provider did not respond in time",
			Code:  codeUpstreamTimeout,
		}
	case errors.As(err, &upErr):
		return http.StatusBadGateway, models.ErrorResponse{
			Error: "LLM provider error: " + upErr.Error(),
			Code:  codeUpstreamError,
		}
	default:
		return http.StatusInternalServerError, models.ErrorResponse{
			Error: "internal server error",
			Code:  codeInternalError,
		}
	}
}

// writeError logs err, counts it and writes the JSON error body
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := classifyError(err)
	s.metrics.ErrorTotal.WithLabelValues(body.Code).Inc()

	logger := requestLogger(r)
	event := logger.Error()
	if status < http.StatusInternalServerError {
		event = logger.Warn()
	}
	event.
		Err(err).
		Int("status", status).
		Str("code", body.Code).
		Msg("Request failed")

	writeJSON(w, status, body)
}
