package log

import (
	"net/http"
	"time"
)

// Field names shared by every component.
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldQuery       = "query"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldUserAgent   = "user_agent"
	FieldError       = "error"
	FieldErrorType   = "error_type"
	FieldOperation   = "operation"
	FieldYear        = "year"
	FieldMonth       = "month"
	FieldRecordID    = "record_id"
	FieldRecordKind  = "record_kind"
	FieldRecordDate  = "record_date"
	FieldAmountCents = "amount_cents"
	FieldReason      = "reason"
)

// Component names.
const (
	ComponentHTTP      = "http"
	ComponentRecords   = "records"
	ComponentWorker    = "worker"
	ComponentSecurity  = "security"
	ComponentRateLimit = "rate_limit"
)

// Operation names.
const (
	OpCreate = "create"
	OpRead   = "read"
	OpUpdate = "update"
	OpDelete = "delete"
	OpList   = "list"
	OpClear  = "clear"
	OpImport = "import"
	OpExport = "export"
	OpSync   = "sync"
)

// ErrorTypeInternal tags failures the client cannot act on.
const ErrorTypeInternal = "internal_error"

// Fields accumulates key/value pairs in insertion order for slog.
type Fields []any

// Add appends one pair.
func (f Fields) Add(key string, value any) Fields {
	return append(f, key, value)
}

func (f Fields) Op(op string) Fields {
	return f.Add(FieldOperation, op)
}

// Err appends the error text; a nil error adds nothing.
func (f Fields) Err(err error) Fields {
	if err == nil {
		return f
	}
	return f.Add(FieldError, err.Error())
}

func (f Fields) Month(year, month int) Fields {
	return f.Add(FieldYear, year).Add(FieldMonth, month)
}

// Record identifies a sale or transaction. Empty id and date are omitted.
func (f Fields) Record(kind, id, date string, amountCents int64) Fields {
	f = f.Add(FieldRecordKind, kind)
	if id != "" {
		f = f.Add(FieldRecordID, id)
	}
	if date != "" {
		f = f.Add(FieldRecordDate, date)
	}
	return f.Add(FieldAmountCents, amountCents)
}

// Request describes an inbound HTTP request.
func (f Fields) Request(r *http.Request) Fields {
	f = f.Add(FieldMethod, r.Method).Add(FieldPath, r.URL.Path)
	if r.URL.RawQuery != "" {
		f = f.Add(FieldQuery, r.URL.RawQuery)
	}
	return f
}

func (f Fields) Response(status int, elapsed time.Duration) Fields {
	return f.Add(FieldStatusCode, status).Add(FieldDuration, elapsed.Milliseconds())
}
