// Package ledger derives monthly reports and the per-custodian cash-holding
// ledger from raw sales and transaction records.
//
// Everything here is a pure function of its inputs. Records are never
// mutated and nothing is cached, so callers own invalidation.
package ledger

import (
	"time"

	"github.com/vamshib4u/persis-indian-grill-expenses/internal/core"
)

// Engine computes cash-holding tables for a fixed canonical custodian list.
// The zero value is not usable; use NewEngine.
type Engine struct {
	custodians []string
}

// NewEngine returns an engine for the given canonical custodians. An empty
// list falls back to DefaultCustodians.
func NewEngine(custodians []string) *Engine {
	names := make([]string, 0, len(custodians))
	seen := make(map[string]bool)
	for _, c := range custodians {
		n := NormalizeCustodian(c)
		if n == Unassigned || seen[n] {
			continue
		}
		seen[n] = true
		names = append(names, n)
	}
	if len(names) == 0 {
		names = DefaultCustodians()
	}
	return &Engine{custodians: names}
}

var defaultEngine = NewEngine(nil)

// Custodians returns the engine's canonical custodian list.
func (e *Engine) Custodians() []string {
	return append([]string(nil), e.custodians...)
}

// CashHoldingSummary computes the cash-holding table for target using the
// default custodian list.
func CashHoldingSummary(sales []core.SaleRecord, txns []core.TransactionRecord, target core.MonthKey) core.CashHolding {
	return defaultEngine.CashHoldingSummary(sales, txns, target)
}

// CashHoldingYearSnapshot computes the year table using the default
// custodian list.
func CashHoldingYearSnapshot(sales []core.SaleRecord, txns []core.TransactionRecord, year int) core.CashHolding {
	return defaultEngine.CashHoldingYearSnapshot(sales, txns, year)
}

type bucket map[core.MonthKey]map[string]core.Money

func (b bucket) add(m core.MonthKey, name string, amount core.Money) {
	byName, ok := b[m]
	if !ok {
		byName = make(map[string]core.Money)
		b[m] = byName
	}
	byName[name] = byName[name].Add(amount)
}

func (b bucket) get(m core.MonthKey, name string) core.Money {
	return b[m][name]
}

// flows is the bucketed view of the records the replay walks over.
type flows struct {
	custodians []string
	collected  bucket
	expenses   bucket
	earliest   core.MonthKey
	hasData    bool
}

func (e *Engine) collect(sales []core.SaleRecord, txns []core.TransactionRecord) flows {
	f := flows{collected: bucket{}, expenses: bucket{}}
	present := make(map[string]struct{}, len(e.custodians))
	for _, c := range e.custodians {
		present[c] = struct{}{}
	}

	seen := func(d core.Date) (core.MonthKey, bool) {
		m, ok := core.MonthOf(d)
		if !ok {
			return m, false
		}
		if !f.hasData || m.Before(f.earliest) {
			f.earliest = m
			f.hasData = true
		}
		return m, true
	}

	for _, s := range sales {
		holder := NormalizeCustodian(s.CashHolder)
		present[holder] = struct{}{}
		if m, ok := seen(s.Date); ok {
			f.collected.add(m, holder, s.CashCollected)
		}
	}
	for _, t := range txns {
		m, ok := seen(t.Date)
		if !t.IsCashExpense() {
			continue
		}
		spender := NormalizeCustodian(t.SpentBy)
		present[spender] = struct{}{}
		if ok {
			f.expenses.add(m, spender, t.Amount)
		}
	}

	f.custodians = orderCustodians(e.custodians, present)
	return f
}

// replay walks months from..to carrying each custodian's balance and calls
// visit with the rows of every month.
func (f flows) replay(from, to core.MonthKey, visit func(core.MonthKey, []core.CustodianLedgerRow)) {
	running := make(map[string]core.Money, len(f.custodians))
	for _, m := range core.MonthRange(from, to) {
		rows := make([]core.CustodianLedgerRow, len(f.custodians))
		for i, name := range f.custodians {
			opening := running[name]
			collected := f.collected.get(m, name)
			spent := f.expenses.get(m, name)
			closing := opening.Add(collected).Sub(spent)
			running[name] = closing
			rows[i] = core.CustodianLedgerRow{
				Name:      name,
				Opening:   opening,
				Collected: collected,
				Expenses:  spent,
				Closing:   closing,
			}
		}
		visit(m, rows)
	}
}

// CashHoldingSummary replays every month from the earliest dated record
// through target and returns the target month's rows. Balances carry over:
// a month's opening is the previous month's closing.
//
// A target before the earliest record, or no dated records at all, yields
// zero rows for every known custodian.
func (e *Engine) CashHoldingSummary(sales []core.SaleRecord, txns []core.TransactionRecord, target core.MonthKey) core.CashHolding {
	f := e.collect(sales, txns)
	rows := zeroRows(f.custodians)
	if !f.hasData || target.Before(f.earliest) {
		return withTotals(rows)
	}
	f.replay(f.earliest, target, func(m core.MonthKey, r []core.CustodianLedgerRow) {
		if m == target {
			rows = r
		}
	})
	return withTotals(rows)
}

// CashHoldingYearSnapshot aggregates January through December of year.
// Opening is the balance carried into January, Collected and Expenses are
// the year's sums and Closing is the balance after December.
func (e *Engine) CashHoldingYearSnapshot(sales []core.SaleRecord, txns []core.TransactionRecord, year int) core.CashHolding {
	f := e.collect(sales, txns)
	rows := zeroRows(f.custodians)
	if !f.hasData {
		return withTotals(rows)
	}

	jan := core.MonthKey{Year: year, Month: time.January}
	dec := core.MonthKey{Year: year, Month: time.December}
	start := f.earliest
	if jan.Before(start) {
		start = jan
	}

	f.replay(start, dec, func(m core.MonthKey, r []core.CustodianLedgerRow) {
		if m.Year != year {
			return
		}
		for i := range r {
			if m == jan {
				rows[i].Opening = r[i].Opening
			}
			rows[i].Collected = rows[i].Collected.Add(r[i].Collected)
			rows[i].Expenses = rows[i].Expenses.Add(r[i].Expenses)
			rows[i].Closing = r[i].Closing
		}
	})
	return withTotals(rows)
}

func zeroRows(names []string) []core.CustodianLedgerRow {
	rows := make([]core.CustodianLedgerRow, len(names))
	for i, n := range names {
		rows[i] = core.CustodianLedgerRow{Name: n}
	}
	return rows
}

func withTotals(rows []core.CustodianLedgerRow) core.CashHolding {
	total := core.CustodianLedgerRow{Name: TotalLabel}
	for _, r := range rows {
		total.Opening = total.Opening.Add(r.Opening)
		total.Collected = total.Collected.Add(r.Collected)
		total.Expenses = total.Expenses.Add(r.Expenses)
		total.Closing = total.Closing.Add(r.Closing)
	}
	return core.CashHolding{Rows: rows, Totals: total}
}
