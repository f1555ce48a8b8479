package core

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

const (
	KindExpense TransactionKind = "expense"
	KindPayout  TransactionKind = "payout"

	PaymentCash         PaymentMethod = "cash"
	PaymentCard         PaymentMethod = "card"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
)

type (
	TransactionKind string
	PaymentMethod   string

	// Date is a calendar date. The zero value means the date was missing or
	// could not be parsed.
	Date struct {
		time.Time
	}

	// SaleRecord is one day's recorded sales. CashCollected is the part of
	// the day's cash physically held by CashHolder.
	SaleRecord struct {
		ID             string    `json:"id"`
		Date           Date      `json:"date"`
		GrossCashSales Money     `json:"grossCashSales"`
		CashCollected  Money     `json:"cashCollected"`
		CashHolder     string    `json:"cashHolder"`
		Notes          string    `json:"notes,omitempty"`
		CreatedAt      time.Time `json:"createdAt"`
	}

	// TransactionRecord is money leaving the business, either an expense or
	// a payout. SpentBy only matters for cash expenses.
	TransactionRecord struct {
		ID            string          `json:"id"`
		Date          Date            `json:"date"`
		Kind          TransactionKind `json:"kind"`
		Category      string          `json:"category"`
		Amount        Money           `json:"amount"`
		Description   string          `json:"description,omitempty"`
		PaymentMethod PaymentMethod   `json:"paymentMethod"`
		SpentBy       string          `json:"spentBy,omitempty"`
		PayeeName     string          `json:"payeeName,omitempty"`
		Purpose       string          `json:"purpose,omitempty"`
		Notes         string          `json:"notes,omitempty"`
		CreatedAt     time.Time       `json:"createdAt"`
	}
)

var (
	ErrInvalidDate          = errors.New("invalid date")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidKind          = errors.New("invalid transaction kind")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrEmptyCategory        = errors.New("empty category")
	ErrEmptyPayee           = errors.New("empty payee name")
)

const dateLayout = "2006-01-02"

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts YYYY-MM-DD or a full RFC3339 timestamp. Timestamps keep
// the calendar day of their own offset.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, ErrInvalidDate
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return Date{Time: t}, nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return NewDate(t.Year(), int(t.Month()), t.Day()), nil
		}
	}
	return Date{}, ErrInvalidDate
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

// String formats the date as YYYY-MM-DD, or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON never fails on a bad value: unparseable dates decode to the
// zero Date, which validation rejects and aggregations skip.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		*d = Date{}
		return nil
	}
	*d = parsed
	return nil
}

func (k TransactionKind) IsValid() bool {
	return k == KindExpense || k == KindPayout
}

func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentCash, PaymentCard, PaymentBankTransfer:
		return true
	default:
		return false
	}
}

// Total is gross sales plus cash collected for the day.
func (s SaleRecord) Total() Money {
	return s.GrossCashSales.Add(s.CashCollected)
}

func (s SaleRecord) Validate() error {
	if err := s.Date.Validate(); err != nil {
		return err
	}
	if s.GrossCashSales.IsNegative() || s.CashCollected.IsNegative() {
		return ErrInvalidAmount
	}
	if len(s.Notes) > 500 {
		return errors.New("notes too long (max 500 characters)")
	}
	return nil
}

// IsCashExpense reports whether the transaction was paid out of a
// custodian's physical cash.
func (t TransactionRecord) IsCashExpense() bool {
	return t.Kind == KindExpense && t.PaymentMethod == PaymentCash
}

func (t TransactionRecord) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if !t.Kind.IsValid() {
		return ErrInvalidKind
	}
	if !t.PaymentMethod.IsValid() {
		return ErrInvalidPaymentMethod
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	switch t.Kind {
	case KindExpense:
		if strings.TrimSpace(t.Category) == "" {
			return ErrEmptyCategory
		}
	case KindPayout:
		if strings.TrimSpace(t.PayeeName) == "" {
			return ErrEmptyPayee
		}
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if len(t.Notes) > 500 {
		return errors.New("notes too long (max 500 characters)")
	}
	return nil
}

// NewPayout builds a payout transaction the way the payout form records it:
// paid in cash, filed under the "Payout" category, described by its purpose.
func NewPayout(id string, date Date, payee, purpose string, amount Money, notes string, createdAt time.Time) TransactionRecord {
	return TransactionRecord{
		ID:            id,
		Date:          date,
		Kind:          KindPayout,
		Category:      "Payout",
		Amount:        amount,
		Description:   purpose,
		PaymentMethod: PaymentCash,
		PayeeName:     payee,
		Purpose:       purpose,
		Notes:         notes,
		CreatedAt:     createdAt,
	}
}
