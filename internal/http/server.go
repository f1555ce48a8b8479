package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/vamshib4u/persis-indian-grill-expenses/internal/core"
	applog "github.com/vamshib4u/persis-indian-grill-expenses/internal/log"
	"github.com/vamshib4u/persis-indian-grill-expenses/internal/services"
	"github.com/vamshib4u/persis-indian-grill-expenses/internal/sheets"
)

// MonthSyncer exports a month inline. *services.MonthSyncer implements it.
type MonthSyncer interface {
	SyncMonth(ctx context.Context, month core.MonthKey, reason string) error
}

// Pinger reports whether the record store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the services the API exposes. Records and Reports are required;
// the rest may be nil, which disables the endpoints that need them.
type Deps struct {
	Records *services.RecordService
	Reports *services.ReportService
	Syncer  MonthSyncer
	Loader  sheets.RecordLoader
	Pinger  Pinger
	Logger  *slog.Logger

	// WritesPerMinute caps mutating requests per client IP. Zero means 60.
	WritesPerMinute int
}

// Server is the JSON API server.
type Server struct {
	http.Server

	records *services.RecordService
	reports *services.ReportService
	syncer  MonthSyncer
	loader  sheets.RecordLoader
	pinger  Pinger

	logger      *applog.Logger
	rateLimiter *rateLimiter
	security    *securityMetrics

	started      time.Time
	now          func() time.Time
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, deps Deps) *Server {
	logger := applog.ForComponent(applog.ComponentHTTP)
	if deps.Logger != nil {
		logger = applog.New(applog.Config{Component: applog.ComponentHTTP, Handler: deps.Logger.Handler()})
	}

	s := &Server{
		records:     deps.Records,
		reports:     deps.Reports,
		syncer:      deps.Syncer,
		loader:      deps.Loader,
		pinger:      deps.Pinger,
		logger:      logger,
		rateLimiter: newRateLimiter(deps.WritesPerMinute),
		security:    &securityMetrics{},
		started:     time.Now(),
		now:         time.Now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/sales", s.handleListSales)
	mux.HandleFunc("POST /api/sales", s.handleCreateSale)
	mux.HandleFunc("PUT /api/sales/{id}", s.handleUpdateSale)
	mux.HandleFunc("DELETE /api/sales/{id}", s.handleDeleteSale)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("PUT /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)
	mux.HandleFunc("POST /api/expenses", s.handleCreateExpense)
	mux.HandleFunc("POST /api/payouts", s.handleCreatePayout)

	mux.HandleFunc("GET /api/custodians", s.handleCustodians)
	mux.HandleFunc("GET /api/reports/monthly", s.handleMonthlyReport)
	mux.HandleFunc("GET /api/cash-holding", s.handleCashHolding)
	mux.HandleFunc("GET /api/cash-holding/year", s.handleYearSnapshot)
	mux.HandleFunc("GET /api/export", s.handleExportJSON)
	mux.HandleFunc("GET /api/export/xlsx", s.handleExportXLSX)

	mux.HandleFunc("POST /api/sync", s.handleSync)
	mux.HandleFunc("POST /api/import", s.handleImport)
	mux.HandleFunc("DELETE /api/records", s.handleClearAll)

	var h http.Handler = mux
	h = applog.RequestIDMiddleware(func(r *http.Request) string {
		return r.Header.Get("X-Request-ID")
	})(h)
	h = applog.Middleware(logger)(h)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.withSecurity(h),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Shutdown stops the rate limiter cleanup and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// SecurityMetrics returns the current security counters.
func (s *Server) SecurityMetrics() SecuritySnapshot {
	return s.security.snapshot()
}

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// withSecurity assigns a request ID, rate limits writes, sets security
// headers and logs every request.
func (s *Server) withSecurity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)

		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" || len(requestID) > 64 {
			requestID = generateRequestID()
			r.Header.Set("X-Request-ID", requestID)
		}
		w.Header().Set("X-Request-ID", requestID)

		ctx := r.Context()
		reqLog := s.logger.With(applog.FieldRequestID, requestID, applog.FieldClientIP, clientIP)
		reqLog.HTTPStarted(ctx, r)

		if detectSuspiciousRequest(r, s.security) {
			reqLog.WithComponent(applog.ComponentSecurity).WarnContext(ctx, "Suspicious request",
				applog.Fields{}.Request(r)...)
		}

		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Cache-Control", "no-store")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		if isWrite(r.Method) && !s.rateLimiter.allow(clientIP, s.security) {
			reqLog.WithComponent(applog.ComponentRateLimit).WarnContext(ctx, "Rate limit exceeded",
				applog.Fields{}.Request(r)...)
			TooManyRequestsError().Write(rw)
		} else {
			next.ServeHTTP(rw, r)
		}

		reqLog.HTTPCompleted(ctx, r, rw.statusCode, time.Since(start))
	})
}

// responseWriter captures the status code written by a handler.
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
