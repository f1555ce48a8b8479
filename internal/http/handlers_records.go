package http

import (
	"net/http"
	"strings"

	"github.com/vamshib4u/persis-indian-grill-expenses/internal/core"
	applog "github.com/vamshib4u/persis-indian-grill-expenses/internal/log"
)

func (s *Server) handleListSales(w http.ResponseWriter, r *http.Request) {
	sales, err := s.records.ListSales(r.Context())
	if err != nil {
		writeServiceError(w, r, applog.OpList, err)
		return
	}
	NewJSONResponse().Body(nonNil(sales)).Write(w)
}

func (s *Server) handleCreateSale(w http.ResponseWriter, r *http.Request) {
	var req SaleRequest
	if resp := DecodeJSON(w, r, &req); resp != nil {
		resp.Write(w)
		return
	}
	rec, err := req.record("")
	if err != nil {
		ValidationError("invalid date", map[string]string{"date": "datetime"}).Write(w)
		return
	}

	sale, err := s.records.CreateSale(r.Context(), rec)
	if err != nil {
		writeServiceError(w, r, applog.OpCreate, err)
		return
	}
	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", "/api/sales/"+sale.ID).
		Body(sale).
		Write(w)
}

func (s *Server) handleUpdateSale(w http.ResponseWriter, r *http.Request) {
	var req SaleRequest
	if resp := DecodeJSON(w, r, &req); resp != nil {
		resp.Write(w)
		return
	}
	rec, err := req.record(r.PathValue("id"))
	if err != nil {
		ValidationError("invalid date", map[string]string{"date": "datetime"}).Write(w)
		return
	}

	sale, err := s.records.UpdateSale(r.Context(), rec)
	if err != nil {
		writeServiceError(w, r, applog.OpUpdate, err)
		return
	}
	NewJSONResponse().Body(sale).Write(w)
}

func (s *Server) handleDeleteSale(w http.ResponseWriter, r *http.Request) {
	if err := s.records.DeleteSale(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, applog.OpDelete, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

// handleListTransactions lists transactions, optionally filtered by ?kind=.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	kind := core.TransactionKind(strings.TrimSpace(r.URL.Query().Get("kind")))
	txns, err := s.records.ListTransactions(r.Context(), kind)
	if err != nil {
		writeServiceError(w, r, applog.OpList, err)
		return
	}
	NewJSONResponse().Body(nonNil(txns)).Write(w)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req TransactionRequest
	if resp := DecodeJSON(w, r, &req); resp != nil {
		resp.Write(w)
		return
	}
	rec, err := req.record("")
	if err != nil {
		ValidationError("invalid date", map[string]string{"date": "datetime"}).Write(w)
		return
	}
	s.createTransaction(w, r, rec)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req ExpenseRequest
	if resp := DecodeJSON(w, r, &req); resp != nil {
		resp.Write(w)
		return
	}
	rec, err := req.record()
	if err != nil {
		ValidationError("invalid date", map[string]string{"date": "datetime"}).Write(w)
		return
	}
	s.createTransaction(w, r, rec)
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request, rec core.TransactionRecord) {
	t, err := s.records.CreateTransaction(r.Context(), rec)
	if err != nil {
		writeServiceError(w, r, applog.OpCreate, err)
		return
	}
	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", "/api/transactions/"+t.ID).
		Body(t).
		Write(w)
}

func (s *Server) handleCreatePayout(w http.ResponseWriter, r *http.Request) {
	var req PayoutRequest
	if resp := DecodeJSON(w, r, &req); resp != nil {
		resp.Write(w)
		return
	}
	in, err := req.input()
	if err != nil {
		ValidationError("invalid date", map[string]string{"date": "datetime"}).Write(w)
		return
	}

	p, err := s.records.CreatePayout(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, applog.OpCreate, err)
		return
	}
	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", "/api/transactions/"+p.ID).
		Body(p).
		Write(w)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req TransactionRequest
	if resp := DecodeJSON(w, r, &req); resp != nil {
		resp.Write(w)
		return
	}
	rec, err := req.record(r.PathValue("id"))
	if err != nil {
		ValidationError("invalid date", map[string]string{"date": "datetime"}).Write(w)
		return
	}

	t, err := s.records.UpdateTransaction(r.Context(), rec)
	if err != nil {
		writeServiceError(w, r, applog.OpUpdate, err)
		return
	}
	NewJSONResponse().Body(t).Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.records.DeleteTransaction(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, applog.OpDelete, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

// handleClearAll deletes every record.
func (s *Server) handleClearAll(w http.ResponseWriter, r *http.Request) {
	if err := s.records.ClearAll(r.Context()); err != nil {
		writeServiceError(w, r, applog.OpClear, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}
