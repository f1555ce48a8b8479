package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/vamshib4u/persis-indian-grill-expenses/internal/core"
	"github.com/vamshib4u/persis-indian-grill-expenses/internal/sheets"

	_ "modernc.org/sqlite"
)

const timestampLayout = time.RFC3339Nano

// Month sync statuses recorded by the worker.
const (
	SyncStatusSynced = "synced"
	SyncStatusError  = "error"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := RunMigrations(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("SQLite record store ready", "path", dbPath, "schema_version", version)

	repo := &SQLiteRepository{
		db:      db,
		queries: New(db),
	}

	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// ListSales implements sheets.RecordReader
func (r *SQLiteRepository) ListSales(ctx context.Context) ([]core.SaleRecord, error) {
	rows, err := r.queries.ListSales(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	out := make([]core.SaleRecord, len(rows))
	for i, row := range rows {
		out[i] = core.SaleRecord{
			ID:             row.ID,
			Date:           parseStoredDate(row.SaleDate),
			GrossCashSales: core.Money{Cents: row.GrossCashSalesCents},
			CashCollected:  core.Money{Cents: row.CashCollectedCents},
			CashHolder:     row.CashHolder,
			Notes:          row.Notes,
			CreatedAt:      parseTimestamp(row.CreatedAt),
		}
	}
	return out, nil
}

// ListTransactions implements sheets.RecordReader
func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.TransactionRecord, error) {
	rows, err := r.queries.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	out := make([]core.TransactionRecord, len(rows))
	for i, row := range rows {
		out[i] = core.TransactionRecord{
			ID:            row.ID,
			Date:          parseStoredDate(row.TxDate),
			Kind:          core.TransactionKind(row.Kind),
			Category:      row.Category,
			Amount:        core.Money{Cents: row.AmountCents},
			Description:   row.Description,
			PaymentMethod: core.PaymentMethod(row.PaymentMethod),
			SpentBy:       row.SpentBy,
			PayeeName:     row.PayeeName,
			Purpose:       row.Purpose,
			Notes:         row.Notes,
			CreatedAt:     parseTimestamp(row.CreatedAt),
		}
	}
	return out, nil
}

// AddSale implements sheets.RecordWriter
func (r *SQLiteRepository) AddSale(ctx context.Context, s core.SaleRecord) error {
	err := r.queries.CreateSale(ctx, CreateSaleParams{
		ID:                  s.ID,
		SaleDate:            s.Date.String(),
		GrossCashSalesCents: s.GrossCashSales.Cents,
		CashCollectedCents:  s.CashCollected.Cents,
		CashHolder:          s.CashHolder,
		Notes:               s.Notes,
		CreatedAt:           formatTimestamp(s.CreatedAt),
	})
	if err != nil {
		return fmt.Errorf("create sale: %w", err)
	}

	slog.InfoContext(ctx, "Sale saved to SQLite",
		"id", s.ID,
		"date", s.Date.String(),
		"cash_collected_cents", s.CashCollected.Cents,
		"cash_holder", s.CashHolder)
	return nil
}

func (r *SQLiteRepository) UpdateSale(ctx context.Context, s core.SaleRecord) error {
	n, err := r.queries.UpdateSale(ctx, UpdateSaleParams{
		SaleDate:            s.Date.String(),
		GrossCashSalesCents: s.GrossCashSales.Cents,
		CashCollectedCents:  s.CashCollected.Cents,
		CashHolder:          s.CashHolder,
		Notes:               s.Notes,
		ID:                  s.ID,
	})
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	if n == 0 {
		return sheets.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeleteSale(ctx context.Context, id string) error {
	n, err := r.queries.DeleteSale(ctx, id)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	if n == 0 {
		return sheets.ErrNotFound
	}
	return nil
}

// AddTransaction implements sheets.RecordWriter
func (r *SQLiteRepository) AddTransaction(ctx context.Context, t core.TransactionRecord) error {
	err := r.queries.CreateTransaction(ctx, CreateTransactionParams{
		ID:            t.ID,
		TxDate:        t.Date.String(),
		Kind:          string(t.Kind),
		Category:      t.Category,
		AmountCents:   t.Amount.Cents,
		Description:   t.Description,
		PaymentMethod: string(t.PaymentMethod),
		SpentBy:       t.SpentBy,
		PayeeName:     t.PayeeName,
		Purpose:       t.Purpose,
		Notes:         t.Notes,
		CreatedAt:     formatTimestamp(t.CreatedAt),
	})
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", t.ID,
		"kind", t.Kind,
		"date", t.Date.String(),
		"amount_cents", t.Amount.Cents)
	return nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.TransactionRecord) error {
	n, err := r.queries.UpdateTransaction(ctx, UpdateTransactionParams{
		TxDate:        t.Date.String(),
		Kind:          string(t.Kind),
		Category:      t.Category,
		AmountCents:   t.Amount.Cents,
		Description:   t.Description,
		PaymentMethod: string(t.PaymentMethod),
		SpentBy:       t.SpentBy,
		PayeeName:     t.PayeeName,
		Purpose:       t.Purpose,
		Notes:         t.Notes,
		ID:            t.ID,
	})
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if n == 0 {
		return sheets.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	n, err := r.queries.DeleteTransaction(ctx, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n == 0 {
		return sheets.ErrNotFound
	}
	return nil
}

// ClearAll removes every sale and transaction in one transaction.
func (r *SQLiteRepository) ClearAll(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin clear: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	if err := q.DeleteAllSales(ctx); err != nil {
		return fmt.Errorf("delete sales: %w", err)
	}
	if err := q.DeleteAllTransactions(ctx); err != nil {
		return fmt.Errorf("delete transactions: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit clear: %w", err)
	}

	slog.InfoContext(ctx, "All records cleared from SQLite")
	return nil
}

// MonthSyncState is the last recorded export attempt for a month.
type MonthSyncState struct {
	Month     string
	Status    string
	LastError string
	Attempts  int64
	UpdatedAt time.Time
}

// MarkMonthSynced records a successful export of month.
func (r *SQLiteRepository) MarkMonthSynced(ctx context.Context, month core.MonthKey) error {
	err := r.queries.UpsertMonthSync(ctx, UpsertMonthSyncParams{
		Month:     month.String(),
		Status:    SyncStatusSynced,
		UpdatedAt: formatTimestamp(time.Now()),
	})
	if err != nil {
		return fmt.Errorf("mark month synced: %w", err)
	}

	slog.InfoContext(ctx, "Month marked as synced", "month", month.String())
	return nil
}

// MarkMonthSyncError records a failed export of month.
func (r *SQLiteRepository) MarkMonthSyncError(ctx context.Context, month core.MonthKey, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	err := r.queries.UpsertMonthSync(ctx, UpsertMonthSyncParams{
		Month:     month.String(),
		Status:    SyncStatusError,
		LastError: msg,
		UpdatedAt: formatTimestamp(time.Now()),
	})
	if err != nil {
		return fmt.Errorf("mark month sync error: %w", err)
	}

	slog.WarnContext(ctx, "Month marked with sync error", "month", month.String(), "error", msg)
	return nil
}

// MonthSync returns the recorded sync state for month, or sheets.ErrNotFound.
func (r *SQLiteRepository) MonthSync(ctx context.Context, month core.MonthKey) (MonthSyncState, error) {
	row, err := r.queries.GetMonthSync(ctx, month.String())
	if errors.Is(err, sql.ErrNoRows) {
		return MonthSyncState{}, sheets.ErrNotFound
	}
	if err != nil {
		return MonthSyncState{}, fmt.Errorf("get month sync: %w", err)
	}
	return MonthSyncState{
		Month:     row.Month,
		Status:    row.Status,
		LastError: row.LastError,
		Attempts:  row.Attempts,
		UpdatedAt: parseTimestamp(row.UpdatedAt),
	}, nil
}

// FailedMonths returns the months whose last export attempt failed, oldest
// first.
func (r *SQLiteRepository) FailedMonths(ctx context.Context) ([]core.MonthKey, error) {
	rows, err := r.queries.ListMonthSyncsByStatus(ctx, SyncStatusError)
	if err != nil {
		return nil, fmt.Errorf("list failed months: %w", err)
	}
	out := make([]core.MonthKey, 0, len(rows))
	for _, row := range rows {
		m, err := core.ParseMonthKey(row.Month)
		if err != nil {
			slog.WarnContext(ctx, "Skipping malformed month in sync log", "month", row.Month)
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func parseStoredDate(s string) core.Date {
	d, err := core.ParseDate(s)
	if err != nil {
		return core.Date{}
	}
	return d
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(s string) time.Time {
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
