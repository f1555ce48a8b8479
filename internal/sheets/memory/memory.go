package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vamshib4u/persis-indian-grill-expenses/internal/core"
	"github.com/vamshib4u/persis-indian-grill-expenses/internal/sheets"
)

// SeedFile is the file NewFromDir reads initial records from.
const SeedFile = "seed_records.json"

type Store struct {
	mu    sync.Mutex
	sales []core.SaleRecord
	txns  []core.TransactionRecord
}

func New(sales []core.SaleRecord, txns []core.TransactionRecord) *Store {
	return &Store{
		sales: append([]core.SaleRecord(nil), sales...),
		txns:  append([]core.TransactionRecord(nil), txns...),
	}
}

// NewFromDir seeds the store from base/seed_records.json, a DataExport
// document. A missing file yields an empty store.
func NewFromDir(base string) (*Store, error) {
	if base == "" {
		return New(nil, nil), nil
	}
	data, err := os.ReadFile(filepath.Join(base, SeedFile))
	if os.IsNotExist(err) {
		return New(nil, nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var seed core.DataExport
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	return New(seed.Sales, seed.Transactions), nil
}

func (s *Store) ListSales(_ context.Context) ([]core.SaleRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.SaleRecord(nil), s.sales...), nil
}

func (s *Store) ListTransactions(_ context.Context) ([]core.TransactionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.TransactionRecord(nil), s.txns...), nil
}

func (s *Store) AddSale(_ context.Context, r core.SaleRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sales = append(s.sales, r)
	return nil
}

func (s *Store) UpdateSale(_ context.Context, r core.SaleRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sales {
		if s.sales[i].ID == r.ID {
			s.sales[i] = r
			return nil
		}
	}
	return sheets.ErrNotFound
}

func (s *Store) DeleteSale(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sales {
		if s.sales[i].ID == id {
			s.sales = append(s.sales[:i], s.sales[i+1:]...)
			return nil
		}
	}
	return sheets.ErrNotFound
}

func (s *Store) AddTransaction(_ context.Context, t core.TransactionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txns = append(s.txns, t)
	return nil
}

func (s *Store) UpdateTransaction(_ context.Context, t core.TransactionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.txns {
		if s.txns[i].ID == t.ID {
			s.txns[i] = t
			return nil
		}
	}
	return sheets.ErrNotFound
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.txns {
		if s.txns[i].ID == id {
			s.txns = append(s.txns[:i], s.txns[i+1:]...)
			return nil
		}
	}
	return sheets.ErrNotFound
}

func (s *Store) ClearAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sales = nil
	s.txns = nil
	return nil
}
