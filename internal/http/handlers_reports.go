package http

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/vamshib4u/persis-indian-grill-expenses/internal/core"
	"github.com/vamshib4u/persis-indian-grill-expenses/internal/export"
	applog "github.com/vamshib4u/persis-indian-grill-expenses/internal/log"
)

// cashHoldingResponse labels a custodian table with the period it covers.
type cashHoldingResponse struct {
	Period string `json:"period"`
	core.CashHolding
}

func (s *Server) handleCustodians(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(s.reports.Custodians()).Write(w)
}

func (s *Server) monthParam(w http.ResponseWriter, r *http.Request) (core.MonthKey, bool) {
	month, err := ParseMonthQuery(r.URL.Query(), s.now())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return core.MonthKey{}, false
	}
	return month, true
}

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	month, ok := s.monthParam(w, r)
	if !ok {
		return
	}
	report, err := s.reports.MonthlyReport(r.Context(), month)
	if err != nil {
		writeServiceError(w, r, applog.OpRead, err)
		return
	}
	NewJSONResponse().Body(report).Write(w)
}

func (s *Server) handleCashHolding(w http.ResponseWriter, r *http.Request) {
	month, ok := s.monthParam(w, r)
	if !ok {
		return
	}
	h, err := s.reports.CashHolding(r.Context(), month)
	if err != nil {
		writeServiceError(w, r, applog.OpRead, err)
		return
	}
	NewJSONResponse().Body(cashHoldingResponse{Period: month.Label(), CashHolding: h}).Write(w)
}

func (s *Server) handleYearSnapshot(w http.ResponseWriter, r *http.Request) {
	year, err := ParseYearQuery(r.URL.Query(), s.now())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	h, err := s.reports.YearSnapshot(r.Context(), year)
	if err != nil {
		writeServiceError(w, r, applog.OpRead, err)
		return
	}
	NewJSONResponse().Body(cashHoldingResponse{Period: strconv.Itoa(year), CashHolding: h}).Write(w)
}

// handleExportJSON returns every record, or one month's records when year
// or month is given.
func (s *Server) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var (
		data core.DataExport
		err  error
	)
	if q.Get("year") == "" && q.Get("month") == "" {
		data, err = s.reports.DataExport(r.Context())
	} else {
		month, ok := s.monthParam(w, r)
		if !ok {
			return
		}
		data, err = s.reports.MonthDataExport(r.Context(), month)
	}
	if err != nil {
		writeServiceError(w, r, applog.OpExport, err)
		return
	}
	data.Sales = nonNil(data.Sales)
	data.Transactions = nonNil(data.Transactions)
	NewJSONResponse().Body(data).Write(w)
}

// handleExportXLSX downloads one month as a workbook.
func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	month, ok := s.monthParam(w, r)
	if !ok {
		return
	}
	bundle, err := s.reports.MonthExport(r.Context(), month)
	if err != nil {
		writeServiceError(w, r, applog.OpExport, err)
		return
	}

	// Render fully before writing so a failure can still produce a 500.
	var buf bytes.Buffer
	if err := export.WriteMonth(&buf, bundle); err != nil {
		writeServiceError(w, r, applog.OpExport, err)
		return
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.FileName(month)+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
