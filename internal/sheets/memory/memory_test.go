package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vamshib4u/persis-indian-grill-expenses/internal/core"
	"github.com/vamshib4u/persis-indian-grill-expenses/internal/sheets"
)

var _ sheets.RecordStore = (*Store)(nil)

func TestMemoryStoreCRUD(t *testing.T) {
	ctx := context.Background()
	s := New(nil, nil)

	for _, id := range []string{"a", "b", "c"} {
		if err := s.AddSale(ctx, core.SaleRecord{ID: id, Date: core.NewDate(2025, 1, 1)}); err != nil {
			t.Fatalf("add sale: %v", err)
		}
	}
	if err := s.UpdateSale(ctx, core.SaleRecord{ID: "b", CashHolder: "Raghu"}); err != nil {
		t.Fatalf("update sale: %v", err)
	}
	if err := s.DeleteSale(ctx, "a"); err != nil {
		t.Fatalf("delete sale: %v", err)
	}
	sales, _ := s.ListSales(ctx)
	if len(sales) != 2 || sales[0].ID != "b" || sales[0].CashHolder != "Raghu" || sales[1].ID != "c" {
		t.Fatalf("unexpected sales: %+v", sales)
	}

	if err := s.UpdateSale(ctx, core.SaleRecord{ID: "zzz"}); !errors.Is(err, sheets.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.DeleteTransaction(ctx, "zzz"); !errors.Is(err, sheets.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := s.AddTransaction(ctx, core.TransactionRecord{ID: "t1", Kind: core.KindExpense}); err != nil {
		t.Fatalf("add transaction: %v", err)
	}
	if err := s.UpdateTransaction(ctx, core.TransactionRecord{ID: "t1", Kind: core.KindPayout}); err != nil {
		t.Fatalf("update transaction: %v", err)
	}
	txns, _ := s.ListTransactions(ctx)
	if len(txns) != 1 || txns[0].Kind != core.KindPayout {
		t.Fatalf("unexpected transactions: %+v", txns)
	}

	if err := s.ClearAll(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	sales, _ = s.ListSales(ctx)
	txns, _ = s.ListTransactions(ctx)
	if len(sales) != 0 || len(txns) != 0 {
		t.Fatalf("expected empty store")
	}
}

func TestMemoryStoreListReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := New([]core.SaleRecord{{ID: "a"}}, nil)
	sales, _ := s.ListSales(ctx)
	sales[0].ID = "mutated"
	again, _ := s.ListSales(ctx)
	if again[0].ID != "a" {
		t.Fatalf("store leaked internal slice")
	}
}

func TestNewFromDir(t *testing.T) {
	dir := t.TempDir()
	// No file -> empty store
	s, err := NewFromDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sales, _ := s.ListSales(context.Background()); len(sales) != 0 {
		t.Fatalf("expected empty store")
	}

	seed := `{"sales":[{"id":"s1","date":"2025-01-10","grossCashSales":10,"cashCollected":"5.50","cashHolder":"Vamshi"}],
"transactions":[{"id":"t1","date":"2025-01-11","kind":"expense","category":"Gas","amount":3,"paymentMethod":"cash","spentBy":"Vamshi"}]}`
	if err := os.WriteFile(filepath.Join(dir, SeedFile), []byte(seed), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	s, err = NewFromDir(dir)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	sales, _ := s.ListSales(context.Background())
	txns, _ := s.ListTransactions(context.Background())
	if len(sales) != 1 || sales[0].CashCollected.Cents != 550 || sales[0].Date.String() != "2025-01-10" {
		t.Fatalf("unexpected sales: %+v", sales)
	}
	if len(txns) != 1 || !txns[0].IsCashExpense() {
		t.Fatalf("unexpected transactions: %+v", txns)
	}

	if err := os.WriteFile(filepath.Join(dir, SeedFile), []byte("{"), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	if _, err := NewFromDir(dir); err == nil {
		t.Fatalf("expected decode error")
	}
}
