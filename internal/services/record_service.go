package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vamshib4u/persis-indian-grill-expenses/internal/amqp"
	"github.com/vamshib4u/persis-indian-grill-expenses/internal/core"
	applog "github.com/vamshib4u/persis-indian-grill-expenses/internal/log"
	"github.com/vamshib4u/persis-indian-grill-expenses/internal/sheets"
)

// ErrInvalidRecord wraps every validation failure returned by RecordService.
var ErrInvalidRecord = errors.New("invalid record")

// MonthPublisher enqueues a month for export. *amqp.Client implements it.
type MonthPublisher interface {
	PublishMonthSync(ctx context.Context, msg *amqp.MonthSyncMessage) error
}

// Invalidator drops derived data after records change.
type Invalidator interface {
	Invalidate()
}

// RecordService orchestrates record writes across the store, the report
// cache and the month sync queue.
type RecordService struct {
	store       sheets.RecordStore
	publisher   MonthPublisher
	invalidator Invalidator
	log         *applog.Logger

	now   func() time.Time
	newID func() string
}

// NewRecordService wires a store to its side effects. publisher and
// invalidator may be nil.
func NewRecordService(store sheets.RecordStore, publisher MonthPublisher, invalidator Invalidator) *RecordService {
	return &RecordService{
		store:       store,
		publisher:   publisher,
		invalidator: invalidator,
		log:         applog.ForComponent(applog.ComponentRecords),
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

func (s *RecordService) ListSales(ctx context.Context) ([]core.SaleRecord, error) {
	sales, err := s.store.ListSales(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return sales, nil
}

// ListTransactions returns the transactions of kind, or all of them when
// kind is empty.
func (s *RecordService) ListTransactions(ctx context.Context, kind core.TransactionKind) ([]core.TransactionRecord, error) {
	if kind != "" && !kind.IsValid() {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRecord, core.ErrInvalidKind)
	}
	txns, err := s.store.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return core.FilterTransactions(txns, kind), nil
}

// CreateSale assigns an id and creation time, then stores the sale.
func (s *RecordService) CreateSale(ctx context.Context, sale core.SaleRecord) (core.SaleRecord, error) {
	sale.ID = s.newID()
	sale.CreatedAt = s.now()
	sale.CashHolder = strings.TrimSpace(sale.CashHolder)
	if err := sale.Validate(); err != nil {
		return core.SaleRecord{}, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	if err := s.store.AddSale(ctx, sale); err != nil {
		return core.SaleRecord{}, fmt.Errorf("save sale: %w", err)
	}

	s.log.RecordChanged(ctx, applog.OpCreate, "sale", sale.ID, sale.Date.String(), sale.CashCollected.Cents)
	s.changed(ctx, amqp.ReasonRecordChanged, sale.Date)
	return sale, nil
}

// UpdateSale replaces the sale with the same id, keeping its creation time.
// Both the old and the new month are resynced.
func (s *RecordService) UpdateSale(ctx context.Context, sale core.SaleRecord) (core.SaleRecord, error) {
	old, err := s.findSale(ctx, sale.ID)
	if err != nil {
		return core.SaleRecord{}, err
	}
	sale.CreatedAt = old.CreatedAt
	sale.CashHolder = strings.TrimSpace(sale.CashHolder)
	if err := sale.Validate(); err != nil {
		return core.SaleRecord{}, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	if err := s.store.UpdateSale(ctx, sale); err != nil {
		return core.SaleRecord{}, fmt.Errorf("update sale: %w", err)
	}

	s.log.RecordChanged(ctx, applog.OpUpdate, "sale", sale.ID, sale.Date.String(), sale.CashCollected.Cents)
	s.changed(ctx, amqp.ReasonRecordChanged, old.Date, sale.Date)
	return sale, nil
}

func (s *RecordService) DeleteSale(ctx context.Context, id string) error {
	old, err := s.findSale(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteSale(ctx, id); err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}

	s.log.RecordChanged(ctx, applog.OpDelete, "sale", id, old.Date.String(), old.CashCollected.Cents)
	s.changed(ctx, amqp.ReasonRecordChanged, old.Date)
	return nil
}

// CreateTransaction assigns an id and creation time, then stores the
// transaction.
func (s *RecordService) CreateTransaction(ctx context.Context, t core.TransactionRecord) (core.TransactionRecord, error) {
	t.ID = s.newID()
	t.CreatedAt = s.now()
	t.SpentBy = strings.TrimSpace(t.SpentBy)
	if err := t.Validate(); err != nil {
		return core.TransactionRecord{}, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	if err := s.store.AddTransaction(ctx, t); err != nil {
		return core.TransactionRecord{}, fmt.Errorf("save transaction: %w", err)
	}

	s.log.RecordChanged(ctx, applog.OpCreate, string(t.Kind), t.ID, t.Date.String(), t.Amount.Cents)
	s.changed(ctx, amqp.ReasonRecordChanged, t.Date)
	return t, nil
}

// PayoutInput is what the payout form submits.
type PayoutInput struct {
	Date    core.Date
	Payee   string
	Purpose string
	Amount  core.Money
	Notes   string
}

// CreatePayout records a cash payout filed under the "Payout" category.
func (s *RecordService) CreatePayout(ctx context.Context, in PayoutInput) (core.TransactionRecord, error) {
	p := core.NewPayout("", in.Date, strings.TrimSpace(in.Payee), in.Purpose, in.Amount, in.Notes, time.Time{})
	return s.CreateTransaction(ctx, p)
}

// UpdateTransaction replaces the transaction with the same id, keeping its
// creation time.
func (s *RecordService) UpdateTransaction(ctx context.Context, t core.TransactionRecord) (core.TransactionRecord, error) {
	old, err := s.findTransaction(ctx, t.ID)
	if err != nil {
		return core.TransactionRecord{}, err
	}
	t.CreatedAt = old.CreatedAt
	t.SpentBy = strings.TrimSpace(t.SpentBy)
	if err := t.Validate(); err != nil {
		return core.TransactionRecord{}, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	if err := s.store.UpdateTransaction(ctx, t); err != nil {
		return core.TransactionRecord{}, fmt.Errorf("update transaction: %w", err)
	}

	s.log.RecordChanged(ctx, applog.OpUpdate, string(t.Kind), t.ID, t.Date.String(), t.Amount.Cents)
	s.changed(ctx, amqp.ReasonRecordChanged, old.Date, t.Date)
	return t, nil
}

func (s *RecordService) DeleteTransaction(ctx context.Context, id string) error {
	old, err := s.findTransaction(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.log.RecordChanged(ctx, applog.OpDelete, string(old.Kind), id, old.Date.String(), old.Amount.Cents)
	s.changed(ctx, amqp.ReasonRecordChanged, old.Date)
	return nil
}

// ClearAll removes every record. No month sync is queued; the sheet keeps
// its last export until the next sync.
func (s *RecordService) ClearAll(ctx context.Context) error {
	if err := s.store.ClearAll(ctx); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}
	s.log.RecordChanged(ctx, applog.OpClear, "all", "", "", 0)
	s.changed(ctx, amqp.ReasonRecordChanged)
	return nil
}

// ImportResult counts what ImportRecords stored and rejected.
type ImportResult struct {
	Sales        int `json:"sales"`
	Transactions int `json:"transactions"`
	Skipped      int `json:"skipped"`
	Duplicates   int `json:"duplicates"`
}

// ImportRecords appends loaded records with fresh ids. Invalid records are
// skipped, and records whose content matches one already stored are
// counted as duplicates and left out, so importing the same sheet twice is
// a no-op. Rows repeated within one batch are kept. A store failure stops
// the import.
func (s *RecordService) ImportRecords(ctx context.Context, sales []core.SaleRecord, txns []core.TransactionRecord) (ImportResult, error) {
	existingSales, err := s.store.ListSales(ctx)
	if err != nil {
		return ImportResult{}, fmt.Errorf("list sales: %w", err)
	}
	existingTxns, err := s.store.ListTransactions(ctx)
	if err != nil {
		return ImportResult{}, fmt.Errorf("list transactions: %w", err)
	}
	saleKeys := make(map[string]struct{}, len(existingSales))
	for _, sale := range existingSales {
		saleKeys[saleKey(sale)] = struct{}{}
	}
	txnKeys := make(map[string]struct{}, len(existingTxns))
	for _, t := range existingTxns {
		txnKeys[transactionKey(t)] = struct{}{}
	}

	var res ImportResult
	var dates []core.Date
	now := s.now()

	for _, sale := range sales {
		if err := sale.Validate(); err != nil {
			res.Skipped++
			continue
		}
		if _, ok := saleKeys[saleKey(sale)]; ok {
			res.Duplicates++
			continue
		}
		sale.ID = s.newID()
		sale.CreatedAt = now
		if err := s.store.AddSale(ctx, sale); err != nil {
			s.changed(ctx, amqp.ReasonImport, dates...)
			return res, fmt.Errorf("import sale: %w", err)
		}
		res.Sales++
		dates = append(dates, sale.Date)
	}
	for _, t := range txns {
		if err := t.Validate(); err != nil {
			res.Skipped++
			continue
		}
		if _, ok := txnKeys[transactionKey(t)]; ok {
			res.Duplicates++
			continue
		}
		t.ID = s.newID()
		t.CreatedAt = now
		if err := s.store.AddTransaction(ctx, t); err != nil {
			s.changed(ctx, amqp.ReasonImport, dates...)
			return res, fmt.Errorf("import transaction: %w", err)
		}
		res.Transactions++
		dates = append(dates, t.Date)
	}

	s.log.InfoContext(ctx, "Records imported",
		"sales", res.Sales,
		"transactions", res.Transactions,
		"skipped", res.Skipped,
		"duplicates", res.Duplicates)
	if res.Sales+res.Transactions > 0 {
		s.changed(ctx, amqp.ReasonImport, dates...)
	}
	return res, nil
}

// saleKey identifies a sale by content, ignoring id and creation time.
func saleKey(r core.SaleRecord) string {
	return strings.Join([]string{
		r.Date.String(),
		strconv.FormatInt(r.GrossCashSales.Cents, 10),
		strconv.FormatInt(r.CashCollected.Cents, 10),
		strings.TrimSpace(r.CashHolder),
		strings.TrimSpace(r.Notes),
	}, "|")
}

// transactionKey identifies a transaction by content, ignoring id and
// creation time.
func transactionKey(t core.TransactionRecord) string {
	return strings.Join([]string{
		string(t.Kind),
		t.Date.String(),
		strconv.FormatInt(t.Amount.Cents, 10),
		strings.TrimSpace(t.Category),
		strings.TrimSpace(t.Description),
		strings.TrimSpace(t.PayeeName),
		strings.TrimSpace(t.Purpose),
		string(t.PaymentMethod),
		strings.TrimSpace(t.SpentBy),
		strings.TrimSpace(t.Notes),
	}, "|")
}

// RequestMonthSync queues month for export. It fails when no queue is
// configured so callers can fall back to an inline export.
func (s *RecordService) RequestMonthSync(ctx context.Context, month core.MonthKey, reason string) error {
	if s.publisher == nil {
		return ErrNoPublisher
	}
	msg := amqp.NewMonthSyncMessage(month.Year, int(month.Month), reason)
	if err := s.publisher.PublishMonthSync(ctx, msg); err != nil {
		return fmt.Errorf("publish month sync: %w", err)
	}
	return nil
}

// ErrNoPublisher is returned by RequestMonthSync without a message queue.
var ErrNoPublisher = errors.New("month sync queue not configured")

// changed invalidates derived data and queues each distinct month touched
// by dates. Publishing failures are logged, never returned: the write has
// already succeeded.
func (s *RecordService) changed(ctx context.Context, reason string, dates ...core.Date) {
	if s.invalidator != nil {
		s.invalidator.Invalidate()
	}
	if s.publisher == nil {
		return
	}

	seen := make(map[core.MonthKey]bool)
	for _, d := range dates {
		m, ok := core.MonthOf(d)
		if !ok || seen[m] {
			continue
		}
		seen[m] = true
		if err := s.RequestMonthSync(ctx, m, reason); err != nil {
			s.log.ErrorContext(ctx, "Failed to publish month sync message",
				"month", m.String(),
				"error", err)
		}
	}
}

func (s *RecordService) findSale(ctx context.Context, id string) (core.SaleRecord, error) {
	sales, err := s.store.ListSales(ctx)
	if err != nil {
		return core.SaleRecord{}, fmt.Errorf("list sales: %w", err)
	}
	for _, sale := range sales {
		if sale.ID == id {
			return sale, nil
		}
	}
	return core.SaleRecord{}, fmt.Errorf("sale %s: %w", id, sheets.ErrNotFound)
}

func (s *RecordService) findTransaction(ctx context.Context, id string) (core.TransactionRecord, error) {
	txns, err := s.store.ListTransactions(ctx)
	if err != nil {
		return core.TransactionRecord{}, fmt.Errorf("list transactions: %w", err)
	}
	for _, t := range txns {
		if t.ID == id {
			return t, nil
		}
	}
	return core.TransactionRecord{}, fmt.Errorf("transaction %s: %w", id, sheets.ErrNotFound)
}
