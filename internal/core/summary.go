package core

import "time"

// MonthlyReport sums one calendar month of sales and transactions.
type MonthlyReport struct {
	Year           int    `json:"year"`
	Month          int    `json:"month"` // 1-12
	MonthName      string `json:"monthName"`
	TotalIncome    Money  `json:"totalIncome"`
	TotalExpenses  Money  `json:"totalExpenses"`
	TotalPayouts   Money  `json:"totalPayouts"`
	NetCash        Money  `json:"netCash"`
	GrossCashSales Money  `json:"grossCashSales"`
	CashCollected  Money  `json:"cashCollected"`
}

// CustodianLedgerRow is one custodian's cash position for a period.
// Closing is always Opening + Collected - Expenses.
type CustodianLedgerRow struct {
	Name      string `json:"name"`
	Opening   Money  `json:"opening"`
	Collected Money  `json:"collected"`
	Expenses  Money  `json:"expenses"`
	Closing   Money  `json:"closing"`
}

// CashHolding is the custodian table for a month or a year plus its totals row.
type CashHolding struct {
	Rows   []CustodianLedgerRow `json:"rows"`
	Totals CustodianLedgerRow   `json:"totals"`
}

// Row returns the row for name, if present.
func (c CashHolding) Row(name string) (CustodianLedgerRow, bool) {
	for _, r := range c.Rows {
		if r.Name == name {
			return r, true
		}
	}
	return CustodianLedgerRow{}, false
}

// MonthExport bundles everything an exporter writes for one month.
type MonthExport struct {
	Month        MonthKey
	Sales        []SaleRecord
	Transactions []TransactionRecord
	Report       MonthlyReport
	CashHolding  CashHolding
}

// Expenses returns the expense transactions in the bundle.
func (e MonthExport) Expenses() []TransactionRecord {
	return filterKind(e.Transactions, KindExpense)
}

// Payouts returns the payout transactions in the bundle.
func (e MonthExport) Payouts() []TransactionRecord {
	return filterKind(e.Transactions, KindPayout)
}

// DataExport is the full record dump offered as a JSON download.
type DataExport struct {
	Sales        []SaleRecord        `json:"sales"`
	Transactions []TransactionRecord `json:"transactions"`
	GeneratedAt  time.Time           `json:"generatedAt"`
}

func filterKind(in []TransactionRecord, kind TransactionKind) []TransactionRecord {
	out := make([]TransactionRecord, 0, len(in))
	for _, t := range in {
		if t.Kind == kind {
			out = append(out, t)
		}
	}
	return out
}

// FilterTransactions returns the transactions of the given kind, or all of
// them when kind is empty.
func FilterTransactions(in []TransactionRecord, kind TransactionKind) []TransactionRecord {
	if kind == "" {
		return append([]TransactionRecord(nil), in...)
	}
	return filterKind(in, kind)
}
