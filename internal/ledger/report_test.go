package ledger

import (
	"testing"
	"time"

	"github.com/vamshib4u/persis-indian-grill-expenses/internal/core"
)

func TestGenerateMonthlyReport(t *testing.T) {
	sales := []core.SaleRecord{
		{Date: core.NewDate(2025, 1, 1), GrossCashSales: usd(300), CashCollected: usd(100)},
		{Date: core.NewDate(2025, 1, 31), GrossCashSales: usd(200), CashCollected: core.Dollars(50, 50)},
		{Date: core.NewDate(2025, 2, 1), GrossCashSales: usd(999)},
		{Date: core.Date{}, GrossCashSales: usd(999)},
	}
	txns := []core.TransactionRecord{
		cashExpense(core.NewDate(2025, 1, 5), usd(40), "Raghu"),
		{Date: core.NewDate(2025, 1, 6), Kind: core.KindExpense, Category: "Rent", Amount: usd(60), PaymentMethod: core.PaymentCard},
		core.NewPayout("p", core.NewDate(2025, 1, 7), "Ravi", "Wages", usd(25), "", time.Time{}),
		cashExpense(core.NewDate(2024, 12, 31), usd(999), "Raghu"),
	}

	r := GenerateMonthlyReport(sales, txns, 2025, time.January)
	if r.Year != 2025 || r.Month != 1 || r.MonthName != "January" {
		t.Fatalf("unexpected header %+v", r)
	}
	checks := []struct {
		name string
		got  core.Money
		want core.Money
	}{
		{"gross", r.GrossCashSales, usd(500)},
		{"collected", r.CashCollected, core.Dollars(150, 50)},
		{"income", r.TotalIncome, core.Dollars(650, 50)},
		{"expenses", r.TotalExpenses, usd(100)},
		{"payouts", r.TotalPayouts, usd(25)},
		{"net", r.NetCash, core.Dollars(525, 50)},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %s, want %s", c.name, c.got, c.want)
		}
	}
}

func TestGenerateMonthlyReportEmpty(t *testing.T) {
	r := GenerateMonthlyReport(nil, nil, 2025, time.March)
	if !r.TotalIncome.IsZero() || !r.NetCash.IsZero() || r.MonthName != "March" {
		t.Fatalf("expected zero report, got %+v", r)
	}
}

func TestMonthFilters(t *testing.T) {
	sales := []core.SaleRecord{
		{ID: "a", Date: core.NewDate(2025, 4, 1)},
		{ID: "b", Date: core.NewDate(2025, 5, 1)},
	}
	txns := []core.TransactionRecord{
		{ID: "c", Date: core.NewDate(2025, 4, 30)},
		{ID: "d", Date: core.Date{}},
	}
	m := core.MonthKey{Year: 2025, Month: time.April}
	if got := MonthSales(sales, m); len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("unexpected sales %+v", got)
	}
	if got := MonthTransactions(txns, m); len(got) != 1 || got[0].ID != "c" {
		t.Fatalf("unexpected transactions %+v", got)
	}
}
