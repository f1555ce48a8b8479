// Package http provides HTTP server and handler implementations.
//
// This file implements request decoding: JSON bodies are decoded strictly
// into DTOs, checked with struct tags and converted into domain records.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/vamshib4u/persis-indian-grill-expenses/internal/core"
	"github.com/vamshib4u/persis-indian-grill-expenses/internal/services"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

var validate = newValidator()

// newValidator reports field errors under their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// SaleRequest is the body of POST /api/sales and PUT /api/sales/{id}.
type SaleRequest struct {
	Date           string     `json:"date" validate:"required,datetime=2006-01-02"`
	GrossCashSales core.Money `json:"grossCashSales"`
	CashCollected  core.Money `json:"cashCollected"`
	CashHolder     string     `json:"cashHolder" validate:"max=100"`
	Notes          string     `json:"notes" validate:"max=500"`
}

func (r SaleRequest) record(id string) (core.SaleRecord, error) {
	date, err := core.ParseDate(r.Date)
	if err != nil {
		return core.SaleRecord{}, err
	}
	return core.SaleRecord{
		ID:             id,
		Date:           date,
		GrossCashSales: r.GrossCashSales,
		CashCollected:  r.CashCollected,
		CashHolder:     sanitizeInput(r.CashHolder),
		Notes:          sanitizeInput(r.Notes),
	}, nil
}

// TransactionRequest is the body of the generic transaction endpoints.
type TransactionRequest struct {
	Date          string     `json:"date" validate:"required,datetime=2006-01-02"`
	Kind          string     `json:"kind" validate:"required,oneof=expense payout"`
	Category      string     `json:"category" validate:"required_if=Kind expense,max=100"`
	Amount        core.Money `json:"amount"`
	Description   string     `json:"description" validate:"max=200"`
	PaymentMethod string     `json:"paymentMethod" validate:"required,oneof=cash card bank_transfer"`
	SpentBy       string     `json:"spentBy" validate:"max=100"`
	PayeeName     string     `json:"payeeName" validate:"required_if=Kind payout,max=100"`
	Purpose       string     `json:"purpose" validate:"max=200"`
	Notes         string     `json:"notes" validate:"max=500"`
}

func (r TransactionRequest) record(id string) (core.TransactionRecord, error) {
	date, err := core.ParseDate(r.Date)
	if err != nil {
		return core.TransactionRecord{}, err
	}
	return core.TransactionRecord{
		ID:            id,
		Date:          date,
		Kind:          core.TransactionKind(r.Kind),
		Category:      sanitizeInput(r.Category),
		Amount:        r.Amount,
		Description:   sanitizeInput(r.Description),
		PaymentMethod: core.PaymentMethod(r.PaymentMethod),
		SpentBy:       sanitizeInput(r.SpentBy),
		PayeeName:     sanitizeInput(r.PayeeName),
		Purpose:       sanitizeInput(r.Purpose),
		Notes:         sanitizeInput(r.Notes),
	}, nil
}

// ExpenseRequest is the body of POST /api/expenses.
type ExpenseRequest struct {
	Date          string     `json:"date" validate:"required,datetime=2006-01-02"`
	Category      string     `json:"category" validate:"required,max=100"`
	Amount        core.Money `json:"amount"`
	Description   string     `json:"description" validate:"max=200"`
	PaymentMethod string     `json:"paymentMethod" validate:"required,oneof=cash card bank_transfer"`
	SpentBy       string     `json:"spentBy" validate:"max=100"`
	Notes         string     `json:"notes" validate:"max=500"`
}

func (r ExpenseRequest) record() (core.TransactionRecord, error) {
	return TransactionRequest{
		Date:          r.Date,
		Kind:          string(core.KindExpense),
		Category:      r.Category,
		Amount:        r.Amount,
		Description:   r.Description,
		PaymentMethod: r.PaymentMethod,
		SpentBy:       r.SpentBy,
		Notes:         r.Notes,
	}.record("")
}

// PayoutRequest is the body of POST /api/payouts.
type PayoutRequest struct {
	Date    string     `json:"date" validate:"required,datetime=2006-01-02"`
	Payee   string     `json:"payee" validate:"required,max=100"`
	Purpose string     `json:"purpose" validate:"max=200"`
	Amount  core.Money `json:"amount"`
	Notes   string     `json:"notes" validate:"max=500"`
}

func (r PayoutRequest) input() (services.PayoutInput, error) {
	date, err := core.ParseDate(r.Date)
	if err != nil {
		return services.PayoutInput{}, err
	}
	return services.PayoutInput{
		Date:    date,
		Payee:   sanitizeInput(r.Payee),
		Purpose: sanitizeInput(r.Purpose),
		Amount:  r.Amount,
		Notes:   sanitizeInput(r.Notes),
	}, nil
}

// DecodeJSON decodes and validates the request body into dst. It returns
// nil on success, or the error response to send.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) *JSONResponseBuilder {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return BadRequestError("request body is empty")
		case errors.As(err, &maxErr):
			return ErrorResponse(http.StatusRequestEntityTooLarge, "request body too large")
		case errors.Is(err, core.ErrInvalidAmount):
			return ValidationError("invalid amount", nil)
		default:
			return BadRequestError(fmt.Sprintf("malformed JSON: %v", err))
		}
	}
	if dec.More() {
		return BadRequestError("malformed JSON: unexpected data after object")
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
			return ValidationError("validation failed", fields)
		}
		return BadRequestError(err.Error())
	}
	return nil
}

// ParseMonthQuery reads year and month from query parameters. Missing values
// default to now; present but unparseable or out-of-range values are errors.
func ParseMonthQuery(query url.Values, now time.Time) (core.MonthKey, error) {
	year, err := queryInt(query, "year", now.Year())
	if err != nil {
		return core.MonthKey{}, err
	}
	month, err := queryInt(query, "month", int(now.Month()))
	if err != nil {
		return core.MonthKey{}, err
	}
	key := core.MonthKey{Year: year, Month: time.Month(month)}
	if err := key.Validate(); err != nil {
		return core.MonthKey{}, err
	}
	return key, nil
}

// ParseYearQuery reads year from query parameters, defaulting to now.
func ParseYearQuery(query url.Values, now time.Time) (int, error) {
	year, err := queryInt(query, "year", now.Year())
	if err != nil {
		return 0, err
	}
	if year < 1 || year > 9999 {
		return 0, fmt.Errorf("year %d out of range", year)
	}
	return year, nil
}

func queryInt(query url.Values, key string, def int) (int, error) {
	v := strings.TrimSpace(query.Get(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", key, v)
	}
	return n, nil
}
