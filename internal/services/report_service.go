package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vamshib4u/persis-indian-grill-expenses/internal/cache"
	"github.com/vamshib4u/persis-indian-grill-expenses/internal/core"
	"github.com/vamshib4u/persis-indian-grill-expenses/internal/ledger"
	"github.com/vamshib4u/persis-indian-grill-expenses/internal/sheets"
)

// ReportService computes reports and cash-holding tables from the current
// records and memoizes them until Invalidate is called.
type ReportService struct {
	records sheets.RecordReader
	engine  *ledger.Engine

	reports  *cache.LRUCache[core.MonthlyReport]
	holdings *cache.LRUCache[core.CashHolding]

	// generation advances on every Invalidate. A result computed from
	// records loaded under an older generation is never kept.
	generation atomic.Uint64

	now func() time.Time
}

func NewReportService(records sheets.RecordReader, engine *ledger.Engine, cacheSize int, cacheTTL time.Duration) *ReportService {
	if engine == nil {
		engine = ledger.NewEngine(nil)
	}
	return &ReportService{
		records:  records,
		engine:   engine,
		reports:  cache.NewLRUCache[core.MonthlyReport](cacheSize, cacheTTL),
		holdings: cache.NewLRUCache[core.CashHolding](cacheSize, cacheTTL),
		now:      time.Now,
	}
}

// Caches returns the expiring caches so a cache.Manager can sweep them.
func (s *ReportService) Caches() []cache.Cleaner {
	return []cache.Cleaner{s.reports, s.holdings}
}

// Invalidate drops every memoized result, including results still being
// computed from records loaded before the call.
func (s *ReportService) Invalidate() {
	s.generation.Add(1)
	s.reports.Clear()
	s.holdings.Clear()
}

// Custodians returns the canonical custodian list the tables are built for.
func (s *ReportService) Custodians() []string {
	return s.engine.Custodians()
}

func (s *ReportService) MonthlyReport(ctx context.Context, month core.MonthKey) (core.MonthlyReport, error) {
	return memoize(ctx, s, s.reports, month.String(), func(sales []core.SaleRecord, txns []core.TransactionRecord) core.MonthlyReport {
		return ledger.GenerateMonthlyReport(sales, txns, month.Year, month.Month)
	})
}

// CashHolding returns the custodian table for month.
func (s *ReportService) CashHolding(ctx context.Context, month core.MonthKey) (core.CashHolding, error) {
	return memoize(ctx, s, s.holdings, "month:"+month.String(), func(sales []core.SaleRecord, txns []core.TransactionRecord) core.CashHolding {
		return s.engine.CashHoldingSummary(sales, txns, month)
	})
}

// YearSnapshot returns the custodian table for the whole of year.
func (s *ReportService) YearSnapshot(ctx context.Context, year int) (core.CashHolding, error) {
	return memoize(ctx, s, s.holdings, "year:"+strconv.Itoa(year), func(sales []core.SaleRecord, txns []core.TransactionRecord) core.CashHolding {
		return s.engine.CashHoldingYearSnapshot(sales, txns, year)
	})
}

// memoize serves key from c or computes it from freshly loaded records.
// The result is cached only if no Invalidate ran since the load started;
// the generation is checked again after Set so an Invalidate racing the
// Set cannot leave the entry behind.
func memoize[T any](ctx context.Context, s *ReportService, c *cache.LRUCache[T], key string, compute func([]core.SaleRecord, []core.TransactionRecord) T) (T, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	gen := s.generation.Load()
	sales, txns, err := s.load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	v := compute(sales, txns)
	if s.generation.Load() == gen {
		c.Set(key, v)
		if s.generation.Load() != gen {
			c.Delete(key)
		}
	}
	return v, nil
}

// MonthExport gathers the month's records, report and cash-holding table.
// The table still replays every earlier month.
func (s *ReportService) MonthExport(ctx context.Context, month core.MonthKey) (core.MonthExport, error) {
	sales, txns, err := s.load(ctx)
	if err != nil {
		return core.MonthExport{}, err
	}
	return core.MonthExport{
		Month:        month,
		Sales:        ledger.MonthSales(sales, month),
		Transactions: ledger.MonthTransactions(txns, month),
		Report:       ledger.GenerateMonthlyReport(sales, txns, month.Year, month.Month),
		CashHolding:  s.engine.CashHoldingSummary(sales, txns, month),
	}, nil
}

// DataExport returns every record.
func (s *ReportService) DataExport(ctx context.Context) (core.DataExport, error) {
	sales, txns, err := s.load(ctx)
	if err != nil {
		return core.DataExport{}, err
	}
	return core.DataExport{Sales: sales, Transactions: txns, GeneratedAt: s.now()}, nil
}

// MonthDataExport returns the records dated within month.
func (s *ReportService) MonthDataExport(ctx context.Context, month core.MonthKey) (core.DataExport, error) {
	sales, txns, err := s.load(ctx)
	if err != nil {
		return core.DataExport{}, err
	}
	return core.DataExport{
		Sales:        ledger.MonthSales(sales, month),
		Transactions: ledger.MonthTransactions(txns, month),
		GeneratedAt:  s.now(),
	}, nil
}

func (s *ReportService) load(ctx context.Context) ([]core.SaleRecord, []core.TransactionRecord, error) {
	var sales []core.SaleRecord
	var txns []core.TransactionRecord

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		sales, err = s.records.ListSales(gctx)
		return err
	})
	g.Go(func() (err error) {
		txns, err = s.records.ListTransactions(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("load records: %w", err)
	}

	slog.DebugContext(ctx, "Loaded records for reporting", "sales", len(sales), "transactions", len(txns))
	return sales, txns, nil
}
