package google

import (
	"strings"
	"time"

	"github.com/vamshib4u/persis-indian-grill-expenses/internal/core"
)

// Alternative header spellings accepted when reading tabs back. Older sheets
// used "Square Sales" for the gross column.
var grossHeaders = []string{"Gross Cash Sales", "Square Sales"}

// sheetDateLayouts are tried after ISO dates, covering what a person typing
// into the sheet or a locale-formatted cell produces.
var sheetDateLayouts = []string{
	"1/2/2006",
	"01/02/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

// parseSales converts a Sales tab (header row first) into sale records.
// It returns the records and how many non-blank rows were skipped.
func parseSales(values [][]string) ([]core.SaleRecord, int) {
	if len(values) == 0 {
		return nil, 0
	}
	h := values[0]
	colDate := indexOf(h, "Date")
	colGross := indexOfAny(h, grossHeaders...)
	colCollected := indexOf(h, "Cash Collected")
	colHolder := indexOf(h, "Cash Holder")
	colNotes := indexOf(h, "Notes")

	var out []core.SaleRecord
	skipped := 0
	for _, row := range values[1:] {
		if isBlank(row) {
			continue
		}
		date, ok := parseCellDate(safeGet(row, colDate))
		if !ok {
			skipped++
			continue
		}
		gross, ok1 := parseCellMoney(safeGet(row, colGross), true)
		collected, ok2 := parseCellMoney(safeGet(row, colCollected), true)
		if !ok1 || !ok2 {
			skipped++
			continue
		}
		out = append(out, core.SaleRecord{
			Date:           date,
			GrossCashSales: gross,
			CashCollected:  collected,
			CashHolder:     safeGet(row, colHolder),
			Notes:          safeGet(row, colNotes),
		})
	}
	return out, skipped
}

// parseTransactions converts an Expenses or Payouts tab into transactions of
// the given kind.
func parseTransactions(values [][]string, kind core.TransactionKind) ([]core.TransactionRecord, int) {
	if len(values) == 0 {
		return nil, 0
	}
	h := values[0]
	colDate := indexOf(h, "Date")
	colAmount := indexOf(h, "Amount")
	colMethod := indexOf(h, "Payment Method")
	colNotes := indexOf(h, "Notes")

	var out []core.TransactionRecord
	skipped := 0
	for _, row := range values[1:] {
		if isBlank(row) {
			continue
		}
		date, ok := parseCellDate(safeGet(row, colDate))
		if !ok {
			skipped++
			continue
		}
		amount, ok := parseCellMoney(safeGet(row, colAmount), false)
		if !ok {
			skipped++
			continue
		}
		method, ok := parsePaymentMethod(safeGet(row, colMethod))
		if !ok {
			skipped++
			continue
		}

		t := core.TransactionRecord{
			Date:          date,
			Kind:          kind,
			Amount:        amount,
			PaymentMethod: method,
			Notes:         safeGet(row, colNotes),
		}
		if kind == core.KindPayout {
			t.PayeeName = safeGet(row, indexOf(h, "Payee"))
			t.Purpose = safeGet(row, indexOf(h, "Purpose"))
			t.Category = "Payout"
			t.Description = t.Purpose
		} else {
			t.Category = safeGet(row, indexOf(h, "Category"))
			t.Description = safeGet(row, indexOf(h, "Description"))
			t.SpentBy = safeGet(row, indexOf(h, "Spent By"))
		}
		if t.Validate() != nil {
			skipped++
			continue
		}
		out = append(out, t)
	}
	return out, skipped
}

func parseCellDate(s string) (core.Date, bool) {
	if d, err := core.ParseDate(s); err == nil {
		return d, true
	}
	s = strings.TrimSpace(s)
	for _, layout := range sheetDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return core.NewDate(t.Year(), int(t.Month()), t.Day()), true
		}
	}
	return core.Date{}, false
}

// parseCellMoney parses a money cell. Blank cells are zero when allowBlank
// is set.
func parseCellMoney(s string, allowBlank bool) (core.Money, bool) {
	if strings.TrimSpace(s) == "" {
		return core.Money{}, allowBlank
	}
	m, err := core.ParseMoney(s)
	if err != nil {
		return core.Money{}, false
	}
	return m, true
}

// parsePaymentMethod accepts the stored values and their spelled-out forms
// ("Bank Transfer"). A blank cell means cash.
func parsePaymentMethod(s string) (core.PaymentMethod, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return core.PaymentCash, true
	}
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	m := core.PaymentMethod(s)
	return m, m.IsValid()
}

func indexOf(arr []string, target string) int {
	for i, v := range arr {
		if strings.EqualFold(strings.TrimSpace(v), target) {
			return i
		}
	}
	return -1
}

func indexOfAny(arr []string, targets ...string) int {
	for _, t := range targets {
		if i := indexOf(arr, t); i >= 0 {
			return i
		}
	}
	return -1
}

func safeGet(arr []string, idx int) string {
	if idx >= 0 && idx < len(arr) {
		return strings.TrimSpace(arr[idx])
	}
	return ""
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
