package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	applog "github.com/vamshib4u/persis-indian-grill-expenses/internal/log"
	"github.com/vamshib4u/persis-indian-grill-expenses/internal/services"
	"github.com/vamshib4u/persis-indian-grill-expenses/internal/sheets"
)

// handleHealth performs a basic liveness check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(map[string]any{
		"status":    "ok",
		"timestamp": s.now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	}).Write(w)
}

// handleReady reports ready only when the record store answers a ping.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	code := http.StatusOK
	checks := map[string]any{}

	checks["store"] = "ok"
	if s.pinger != nil {
		if err := s.pinger.Ping(ctx); err != nil {
			applog.FromContext(ctx).WarnContext(ctx, "Readiness check failed", applog.FieldError, err)
			checks["store"] = "failed: " + err.Error()
			status = "not_ready"
			code = http.StatusServiceUnavailable
		}
	}

	checks["sheets"] = configured(s.syncer != nil || s.loader != nil)
	checks["rate_limiter"] = map[string]any{
		"active_clients": s.rateLimiter.ActiveClients(),
		"security":       s.security.snapshot(),
	}

	NewJSONResponse().Status(code).Body(map[string]any{
		"status":    status,
		"timestamp": s.now().Format(time.RFC3339),
		"checks":    checks,
	}).Write(w)
}

func configured(ok bool) string {
	if ok {
		return "configured"
	}
	return "not_configured"
}

// writeServiceError maps service errors onto HTTP statuses. Unexpected
// errors are logged and hidden behind a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, sheets.ErrNotFound):
		NotFoundError(err.Error()).Write(w)
	case errors.Is(err, services.ErrInvalidRecord):
		ValidationError(err.Error(), nil).Write(w)
	default:
		ctx := r.Context()
		applog.FromContext(ctx).ErrorContext(ctx, "Request failed",
			applog.FieldOperation, op,
			applog.FieldPath, r.URL.Path,
			applog.FieldError, err,
			applog.FieldErrorType, applog.ErrorTypeInternal)
		InternalServerError("internal error").Write(w)
	}
}
