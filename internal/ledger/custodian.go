package ledger

import (
	"sort"
	"strings"
)

// Unassigned collects cash recorded without a holder name.
const Unassigned = "Unassigned"

// TotalLabel names the totals row of a cash-holding table.
const TotalLabel = "Total"

var defaultCustodians = []string{"Vamshi", "Raghu", "Naresh", "Nikki", "Meenu", "Pradeep"}

// DefaultCustodians returns the canonical custodian list in display order.
func DefaultCustodians() []string {
	return append([]string(nil), defaultCustodians...)
}

// NormalizeCustodian trims the name and maps blanks to Unassigned.
func NormalizeCustodian(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return Unassigned
	}
	return name
}

// ParseCustodians splits a comma separated list, dropping blanks and
// duplicates while keeping the first occurrence order.
func ParseCustodians(s string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		name := strings.TrimSpace(part)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// orderCustodians lists the canonical names first, in canonical order, then
// every other name sorted lexicographically.
func orderCustodians(canonical []string, present map[string]struct{}) []string {
	out := make([]string, 0, len(present))
	used := make(map[string]bool, len(canonical))
	for _, name := range canonical {
		if _, ok := present[name]; ok && !used[name] {
			out = append(out, name)
			used[name] = true
		}
	}
	rest := make([]string, 0, len(present)-len(out))
	for name := range present {
		if !used[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}
