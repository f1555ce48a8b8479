package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/vamshib4u/persis-indian-grill-expenses/internal/core"
	"github.com/vamshib4u/persis-indian-grill-expenses/internal/sheets"
)

var _ sheets.RecordStore = (*SQLiteRepository)(nil)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "data", "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestRunMigrationsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.db")
	for i := 0; i < 2; i++ {
		version, err := RunMigrations(path)
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		if version != 2 {
			t.Fatalf("run %d: version = %d, want 2", i, version)
		}
	}
}

func TestSQLiteRepositorySales(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	created := time.Date(2025, 1, 10, 8, 30, 0, 0, time.UTC)
	sales := []core.SaleRecord{
		{ID: "s2", Date: core.NewDate(2025, 1, 10), GrossCashSales: core.Dollars(300, 0), CashCollected: core.Dollars(120, 50), CashHolder: "Vamshi", Notes: "busy", CreatedAt: created},
		{ID: "s1", Date: core.NewDate(2025, 1, 9), CashHolder: "", CreatedAt: created},
	}
	for _, s := range sales {
		if err := repo.AddSale(ctx, s); err != nil {
			t.Fatalf("add sale: %v", err)
		}
	}

	got, err := repo.ListSales(ctx)
	if err != nil {
		t.Fatalf("list sales: %v", err)
	}
	if len(got) != 2 || got[0].ID != "s2" || got[1].ID != "s1" {
		t.Fatalf("expected insertion order, got %+v", got)
	}
	if got[0].CashCollected.Cents != 12050 || got[0].Date.String() != "2025-01-10" || !got[0].CreatedAt.Equal(created) {
		t.Fatalf("unexpected round trip %+v", got[0])
	}

	upd := got[1]
	upd.CashHolder = "Raghu"
	upd.CashCollected = core.Dollars(5, 0)
	if err := repo.UpdateSale(ctx, upd); err != nil {
		t.Fatalf("update sale: %v", err)
	}
	if err := repo.UpdateSale(ctx, core.SaleRecord{ID: "missing"}); !errors.Is(err, sheets.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.DeleteSale(ctx, "s2"); err != nil {
		t.Fatalf("delete sale: %v", err)
	}
	if err := repo.DeleteSale(ctx, "s2"); !errors.Is(err, sheets.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}

	got, _ = repo.ListSales(ctx)
	if len(got) != 1 || got[0].CashHolder != "Raghu" || got[0].CashCollected.Cents != 500 {
		t.Fatalf("unexpected sales after update: %+v", got)
	}
}

func TestSQLiteRepositoryTransactions(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	exp := core.TransactionRecord{
		ID: "t1", Date: core.NewDate(2025, 2, 1), Kind: core.KindExpense, Category: "Produce",
		Amount: core.Dollars(42, 10), PaymentMethod: core.PaymentCash, SpentBy: "Nikki",
	}
	pay := core.NewPayout("t2", core.NewDate(2025, 2, 2), "Ravi", "Wages", core.Dollars(500, 0), "", time.Now())
	for _, tx := range []core.TransactionRecord{exp, pay} {
		if err := repo.AddTransaction(ctx, tx); err != nil {
			t.Fatalf("add transaction: %v", err)
		}
	}

	got, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(got) != 2 || !got[0].IsCashExpense() || got[1].Kind != core.KindPayout || got[1].PayeeName != "Ravi" {
		t.Fatalf("unexpected transactions %+v", got)
	}

	exp.PaymentMethod = core.PaymentCard
	if err := repo.UpdateTransaction(ctx, exp); err != nil {
		t.Fatalf("update transaction: %v", err)
	}
	got, _ = repo.ListTransactions(ctx)
	if got[0].IsCashExpense() {
		t.Fatalf("expected card expense after update")
	}
	if err := repo.DeleteTransaction(ctx, "nope"); !errors.Is(err, sheets.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := repo.AddSale(ctx, core.SaleRecord{ID: "s", Date: core.NewDate(2025, 2, 1)}); err != nil {
		t.Fatalf("add sale: %v", err)
	}
	if err := repo.ClearAll(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	sales, _ := repo.ListSales(ctx)
	txns, _ := repo.ListTransactions(ctx)
	if len(sales) != 0 || len(txns) != 0 {
		t.Fatalf("expected empty repository, got %d sales %d transactions", len(sales), len(txns))
	}
}

func TestSQLiteRepositoryMonthSync(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	month := core.MonthKey{Year: 2025, Month: time.March}

	if _, err := repo.MonthSync(ctx, month); !errors.Is(err, sheets.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.MarkMonthSyncError(ctx, month, errors.New("quota")); err != nil {
		t.Fatalf("mark error: %v", err)
	}
	if err := repo.MarkMonthSynced(ctx, month); err != nil {
		t.Fatalf("mark synced: %v", err)
	}
	st, err := repo.MonthSync(ctx, month)
	if err != nil {
		t.Fatalf("month sync: %v", err)
	}
	if st.Status != SyncStatusSynced || st.Attempts != 2 || st.LastError != "" || st.Month != "2025-03" {
		t.Fatalf("unexpected state %+v", st)
	}
}

func TestSQLiteRepositoryFailedMonths(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	feb := core.MonthKey{Year: 2025, Month: time.February}
	jan := core.MonthKey{Year: 2025, Month: time.January}
	dec := core.MonthKey{Year: 2024, Month: time.December}

	for _, m := range []core.MonthKey{feb, jan, dec} {
		if err := repo.MarkMonthSyncError(ctx, m, errors.New("quota")); err != nil {
			t.Fatalf("mark error: %v", err)
		}
	}
	if err := repo.MarkMonthSynced(ctx, jan); err != nil {
		t.Fatalf("mark synced: %v", err)
	}

	failed, err := repo.FailedMonths(ctx)
	if err != nil {
		t.Fatalf("failed months: %v", err)
	}
	if len(failed) != 2 || failed[0] != dec || failed[1] != feb {
		t.Fatalf("unexpected failed months %v", failed)
	}
}
