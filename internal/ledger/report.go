package ledger

import (
	"time"

	"github.com/vamshib4u/persis-indian-grill-expenses/internal/core"
)

// GenerateMonthlyReport sums the records dated within the given month.
// Records with a zero date are ignored.
func GenerateMonthlyReport(sales []core.SaleRecord, txns []core.TransactionRecord, year int, month time.Month) core.MonthlyReport {
	key := core.MonthKey{Year: year, Month: month}
	r := core.MonthlyReport{
		Year:      year,
		Month:     int(month),
		MonthName: month.String(),
	}

	for _, s := range sales {
		if !key.Contains(s.Date) {
			continue
		}
		r.GrossCashSales = r.GrossCashSales.Add(s.GrossCashSales)
		r.CashCollected = r.CashCollected.Add(s.CashCollected)
	}
	for _, t := range txns {
		if !key.Contains(t.Date) {
			continue
		}
		switch t.Kind {
		case core.KindExpense:
			r.TotalExpenses = r.TotalExpenses.Add(t.Amount)
		case core.KindPayout:
			r.TotalPayouts = r.TotalPayouts.Add(t.Amount)
		}
	}

	r.TotalIncome = r.GrossCashSales.Add(r.CashCollected)
	r.NetCash = r.TotalIncome.Sub(r.TotalExpenses).Sub(r.TotalPayouts)
	return r
}

// MonthSales returns the sales dated within m.
func MonthSales(sales []core.SaleRecord, m core.MonthKey) []core.SaleRecord {
	out := make([]core.SaleRecord, 0)
	for _, s := range sales {
		if m.Contains(s.Date) {
			out = append(out, s)
		}
	}
	return out
}

// MonthTransactions returns the transactions dated within m.
func MonthTransactions(txns []core.TransactionRecord, m core.MonthKey) []core.TransactionRecord {
	out := make([]core.TransactionRecord, 0)
	for _, t := range txns {
		if m.Contains(t.Date) {
			out = append(out, t)
		}
	}
	return out
}
