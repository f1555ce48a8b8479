package http

import (
	"errors"
	"net/http"

	"github.com/vamshib4u/persis-indian-grill-expenses/internal/amqp"
	applog "github.com/vamshib4u/persis-indian-grill-expenses/internal/log"
	"github.com/vamshib4u/persis-indian-grill-expenses/internal/services"
)

// handleSync queues a month for export to Google Sheets. Without a message
// queue the month is exported inline.
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	month, ok := s.monthParam(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	err := s.records.RequestMonthSync(ctx, month, amqp.ReasonManual)
	switch {
	case err == nil:
		NewJSONResponse().Status(http.StatusAccepted).Body(map[string]string{
			"status": "queued",
			"month":  month.String(),
		}).Write(w)
		return
	case !errors.Is(err, services.ErrNoPublisher):
		applog.FromContext(ctx).ErrorContext(ctx, "Failed to queue month sync",
			applog.FieldYear, month.Year,
			applog.FieldMonth, int(month.Month),
			applog.FieldError, err)
		UnavailableError("sync queue unavailable").Write(w)
		return
	}

	if s.syncer == nil {
		UnavailableError("google sheets sync not configured").Write(w)
		return
	}
	if err := s.syncer.SyncMonth(ctx, month, amqp.ReasonManual); err != nil {
		applog.FromContext(ctx).ErrorContext(ctx, "Inline month sync failed",
			applog.FieldYear, month.Year,
			applog.FieldMonth, int(month.Month),
			applog.FieldError, err)
		ErrorResponse(http.StatusBadGateway, "sync failed: "+err.Error()).Write(w)
		return
	}
	NewJSONResponse().Body(map[string]string{
		"status": "synced",
		"month":  month.String(),
	}).Write(w)
}

// handleImport loads records from Google Sheets and appends them to the store.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if s.loader == nil {
		UnavailableError("google sheets import not configured").Write(w)
		return
	}
	ctx := r.Context()

	sales, txns, err := s.loader.LoadRecords(ctx)
	if err != nil {
		applog.FromContext(ctx).ErrorContext(ctx, "Failed to load records from sheets",
			applog.FieldOperation, applog.OpImport,
			applog.FieldError, err)
		ErrorResponse(http.StatusBadGateway, "load records: "+err.Error()).Write(w)
		return
	}

	res, err := s.records.ImportRecords(ctx, sales, txns)
	if err != nil {
		writeServiceError(w, r, applog.OpImport, err)
		return
	}
	NewJSONResponse().Body(res).Write(w)
}
