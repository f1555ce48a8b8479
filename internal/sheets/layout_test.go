package sheets

import (
	"testing"
	"time"

	"github.com/vamshib4u/persis-indian-grill-expenses/internal/core"
	"github.com/vamshib4u/persis-indian-grill-expenses/internal/ledger"
)

func TestMonthTabs(t *testing.T) {
	month := core.NewMonthKey(2025, time.February)
	sales := []core.SaleRecord{
		{Date: core.NewDate(2025, 2, 14), GrossCashSales: core.Dollars(10, 0), CashCollected: core.Dollars(50, 0), CashHolder: "Vamshi"},
		{Date: core.NewDate(2025, 2, 1), GrossCashSales: core.Dollars(20, 25), CashHolder: "Raghu", Notes: "slow"},
	}
	txns := []core.TransactionRecord{
		{Date: core.NewDate(2025, 2, 20), Kind: core.KindExpense, Category: "Gas", Amount: core.Dollars(10, 0), PaymentMethod: core.PaymentCash, SpentBy: "Vamshi"},
		{Date: core.NewDate(2025, 2, 3), Kind: core.KindExpense, Category: "Rent", Amount: core.Dollars(900, 0), PaymentMethod: core.PaymentBankTransfer},
		core.NewPayout("p", core.NewDate(2025, 2, 10), "Ravi", "wages", core.Dollars(100, 0), "", time.Time{}),
	}
	export := core.MonthExport{
		Month:        month,
		Sales:        sales,
		Transactions: txns,
		Report:       ledger.GenerateMonthlyReport(sales, txns, 2025, time.February),
		CashHolding:  ledger.CashHoldingSummary(sales, txns, month),
	}

	tabs := MonthTabs(export)
	names := []string{TabSales, TabExpenses, TabPayouts, TabSummary, TabCashHolders}
	if len(tabs) != len(names) {
		t.Fatalf("got %d tabs, want %d", len(tabs), len(names))
	}
	for i, tab := range tabs {
		if tab.Name != names[i] {
			t.Errorf("tab %d = %s, want %s", i, tab.Name, names[i])
		}
		for _, row := range tab.Rows {
			if len(row) != len(tab.Header) {
				t.Errorf("%s row %v does not match header width %d", tab.Name, row, len(tab.Header))
			}
		}
	}

	salesTab := tabs[0]
	if salesTab.Rows[0][1] != "2025-02-01" || salesTab.Rows[0][2] != 20.25 || salesTab.Rows[0][6] != "slow" {
		t.Errorf("sales should be sorted by date: %v", salesTab.Rows)
	}
	if salesTab.Rows[1][0] != "February 2025" {
		t.Errorf("month label = %v", salesTab.Rows[1][0])
	}

	expenses := tabs[1]
	if len(expenses.Rows) != 2 || expenses.Rows[0][2] != "Rent" || expenses.Rows[0][5] != "bank_transfer" {
		t.Errorf("unexpected expense rows %v", expenses.Rows)
	}

	if len(tabs[2].Rows) != 1 || tabs[2].Rows[0][2] != "Ravi" {
		t.Errorf("unexpected payout rows %v", tabs[2].Rows)
	}

	summary := tabs[3].Rows[0]
	if summary[1] != 80.25 || summary[2] != 910.0 || summary[3] != 100.0 || summary[4] != -929.75 {
		t.Errorf("unexpected summary row %v", summary)
	}

	holders := tabs[4].Rows
	total := holders[len(holders)-1]
	if total[0] != "Total" || total[2] != 50.0 || total[3] != 10.0 || total[4] != 40.0 {
		t.Errorf("unexpected totals row %v", total)
	}

	values := salesTab.Values()
	if len(values) != 3 || values[0][0] != "Month" {
		t.Errorf("Values() should lead with the header: %v", values[0])
	}
}
