package sheets

import (
	"sort"

	"github.com/vamshib4u/persis-indian-grill-expenses/internal/core"
	"github.com/vamshib4u/persis-indian-grill-expenses/internal/ledger"
)

// Tab names shared by the Google Sheets and XLSX exporters.
const (
	TabSales       = "Sales"
	TabExpenses    = "Expenses"
	TabPayouts     = "Payouts"
	TabSummary     = "Summary"
	TabCashHolders = "Cash Holders"
)

var (
	SalesHeader       = []string{"Month", "Date", "Gross Cash Sales", "Cash Collected", "Total", "Cash Holder", "Notes"}
	ExpensesHeader    = []string{"Month", "Date", "Category", "Description", "Amount", "Payment Method", "Spent By", "Notes"}
	PayoutsHeader     = []string{"Month", "Date", "Payee", "Purpose", "Amount", "Payment Method", "Notes"}
	SummaryHeader     = []string{"Month", "Total Sales", "Total Expenses", "Total Payouts", "Net Profit", "Gross Cash Sales", "Cash Collected"}
	CashHoldersHeader = []string{"Cash Holder", "Opening Balance", "Cash Collected", "Cash Expenses", "Closing Balance"}
)

// Tab is one sheet of a month export: a header row followed by data rows.
// Money cells hold float64 dollars so spreadsheets treat them as numbers.
type Tab struct {
	Name   string
	Header []string
	Rows   [][]any
}

// Values returns the header and rows as one matrix, header first.
func (t Tab) Values() [][]any {
	out := make([][]any, 0, len(t.Rows)+1)
	header := make([]any, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	out = append(out, header)
	return append(out, t.Rows...)
}

// MonthTabs lays out a month export as the five tabs written to Sheets and
// XLSX, in a fixed order. Records are sorted by date; ties keep input order.
func MonthTabs(m core.MonthExport) []Tab {
	label := m.Month.Label()
	return []Tab{
		{Name: TabSales, Header: SalesHeader, Rows: salesRows(label, m.Sales)},
		{Name: TabExpenses, Header: ExpensesHeader, Rows: expenseRows(label, m.Expenses())},
		{Name: TabPayouts, Header: PayoutsHeader, Rows: payoutRows(label, m.Payouts())},
		{Name: TabSummary, Header: SummaryHeader, Rows: summaryRows(label, m.Report)},
		{Name: TabCashHolders, Header: CashHoldersHeader, Rows: cashHolderRows(m.CashHolding)},
	}
}

func salesRows(label string, in []core.SaleRecord) [][]any {
	sales := append([]core.SaleRecord(nil), in...)
	sort.SliceStable(sales, func(i, j int) bool { return sales[i].Date.Before(sales[j].Date.Time) })

	rows := make([][]any, 0, len(sales))
	for _, s := range sales {
		rows = append(rows, []any{
			label,
			s.Date.String(),
			s.GrossCashSales.Float(),
			s.CashCollected.Float(),
			s.Total().Float(),
			s.CashHolder,
			s.Notes,
		})
	}
	return rows
}

func sortedByDate(in []core.TransactionRecord) []core.TransactionRecord {
	out := append([]core.TransactionRecord(nil), in...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date.Time) })
	return out
}

func expenseRows(label string, in []core.TransactionRecord) [][]any {
	expenses := sortedByDate(in)
	rows := make([][]any, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, []any{
			label,
			e.Date.String(),
			e.Category,
			e.Description,
			e.Amount.Float(),
			string(e.PaymentMethod),
			e.SpentBy,
			e.Notes,
		})
	}
	return rows
}

func payoutRows(label string, in []core.TransactionRecord) [][]any {
	payouts := sortedByDate(in)
	rows := make([][]any, 0, len(payouts))
	for _, p := range payouts {
		rows = append(rows, []any{
			label,
			p.Date.String(),
			p.PayeeName,
			p.Purpose,
			p.Amount.Float(),
			string(p.PaymentMethod),
			p.Notes,
		})
	}
	return rows
}

func summaryRows(label string, r core.MonthlyReport) [][]any {
	return [][]any{{
		label,
		r.TotalIncome.Float(),
		r.TotalExpenses.Float(),
		r.TotalPayouts.Float(),
		r.NetCash.Float(),
		r.GrossCashSales.Float(),
		r.CashCollected.Float(),
	}}
}

func cashHolderRows(h core.CashHolding) [][]any {
	rows := make([][]any, 0, len(h.Rows)+1)
	for _, r := range h.Rows {
		rows = append(rows, ledgerRow(r.Name, r))
	}
	return append(rows, ledgerRow(ledger.TotalLabel, h.Totals))
}

func ledgerRow(name string, r core.CustodianLedgerRow) []any {
	return []any{name, r.Opening.Float(), r.Collected.Float(), r.Expenses.Float(), r.Closing.Float()}
}
