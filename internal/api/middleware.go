package api

import (
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/chat-summary-api/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RequestIDHeader carries the request ID in both directions
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLength caps caller-supplied request IDs
const maxRequestIDLength = 128

// requestIDMiddleware reuses the caller's request ID or generates one,
// echoes it back and stores a request-scoped logger in the context
func requestIDMiddleware(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(RequestIDHeader)
			if !validRequestID(requestID) {
				requestID = uuid.New().String()
			}
			w.Header().Set(RequestIDHeader, requestID)

			reqLogger := logger.With().Str("request_id", requestID).Logger()
			next.ServeHTTP(w, r.WithContext(reqLogger.WithContext(r.Context())))
		})
	}
}

// validRequestID accepts up to maxRequestIDLength characters from [A-Za-z0-9._:-]
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '.', c == ':':
		default:
			return false
		}
	}
	return true
}

// requestLogger returns the request-scoped logger tagged for this package
func requestLogger(r *http.Request) zerolog.Logger {
	return zerolog.Ctx(r.Context()).With().Str("component", "api").Logger()
}

// accessLogMiddleware logs every request and records route metrics
func (s *Server) accessLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		duration := time.Since(start)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		statusLabel := strconv.Itoa(status)
		s.metrics.TotalRequests.WithLabelValues(route, statusLabel).Inc()
		s.metrics.RequestDuration.WithLabelValues(route, statusLabel).Observe(duration.Seconds())

		logger := requestLogger(r)
		logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_addr", r.RemoteAddr).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", duration).
			Msg("HTTP request")
	})
}

// recoverMiddleware turns panics in handlers into a 500 response
func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			logger := requestLogger(r)
			logger.Error().
				Interface("panic", rec).
				Str("stack", string(debug.Stack())).
				Msg("Panic recovered in handler")

			s.metrics.ErrorTotal.WithLabelValues(codeInternalError).Inc()
			writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{
				Error: "internal server error",
				Code:  codeInternalError,
			})
		}()

		next.ServeHTTP(w, r)
	})
}

// corsMiddleware sets the allowed origin on every response
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.config.CORSAllowedOrigin)
		next.ServeHTTP(w, r)
	})
}
