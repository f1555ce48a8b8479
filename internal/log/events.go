package log

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// HTTPStarted logs an inbound request.
func (l *Logger) HTTPStarted(ctx context.Context, r *http.Request) {
	f := Fields{}.Request(r)
	if ua := r.UserAgent(); ua != "" {
		f = f.Add(FieldUserAgent, ua)
	}
	l.DebugContext(ctx, "HTTP request started", f...)
}

// HTTPCompleted logs a finished request at a level matching its status:
// warn for 4xx, error for 5xx.
func (l *Logger) HTTPCompleted(ctx context.Context, r *http.Request, status int, elapsed time.Duration) {
	level := slog.LevelInfo
	switch {
	case status >= 500:
		level = slog.LevelError
	case status >= 400:
		level = slog.LevelWarn
	}
	l.Log(ctx, level, "HTTP request completed", Fields{}.Request(r).Response(status, elapsed)...)
}

// RecordChanged logs a successful write to a sale or transaction.
func (l *Logger) RecordChanged(ctx context.Context, op, kind, id, date string, amountCents int64) {
	l.InfoContext(ctx, "Record changed", Fields{}.Op(op).Record(kind, id, date, amountCents)...)
}

// MonthSynced logs the outcome of exporting one month.
func (l *Logger) MonthSynced(ctx context.Context, year, month int, reason string, err error) {
	f := Fields{}.Op(OpSync).Month(year, month).Add(FieldReason, reason)
	if err != nil {
		l.ErrorContext(ctx, "Month sync failed", f.Err(err)...)
		return
	}
	l.InfoContext(ctx, "Month synced", f...)
}
