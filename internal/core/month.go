package core

import (
	"fmt"
	"strings"
	"time"
)

// MonthKey identifies a calendar month by its numeric year and month.
type MonthKey struct {
	Year  int
	Month time.Month
}

// NewMonthKey normalizes out-of-range months, so NewMonthKey(2025, 13) is
// January 2026.
func NewMonthKey(year int, month time.Month) MonthKey {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

// MonthOf returns the month a date falls in. ok is false for the zero date.
func MonthOf(d Date) (MonthKey, bool) {
	if d.IsZero() {
		return MonthKey{}, false
	}
	return MonthKey{Year: d.Year(), Month: d.Month()}, true
}

// ParseMonthKey parses the YYYY-MM form produced by String.
func ParseMonthKey(s string) (MonthKey, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return MonthKey{}, fmt.Errorf("parse month %q: %w", s, err)
	}
	return MonthKey{Year: t.Year(), Month: t.Month()}, nil
}

func (k MonthKey) Validate() error {
	if k.Month < time.January || k.Month > time.December {
		return fmt.Errorf("invalid month: %d", k.Month)
	}
	if k.Year < 1 || k.Year > 9999 {
		return fmt.Errorf("invalid year: %d", k.Year)
	}
	return nil
}

// Next returns the following calendar month.
func (k MonthKey) Next() MonthKey {
	if k.Month == time.December {
		return MonthKey{Year: k.Year + 1, Month: time.January}
	}
	return MonthKey{Year: k.Year, Month: k.Month + 1}
}

// Prev returns the preceding calendar month.
func (k MonthKey) Prev() MonthKey {
	if k.Month == time.January {
		return MonthKey{Year: k.Year - 1, Month: time.December}
	}
	return MonthKey{Year: k.Year, Month: k.Month - 1}
}

func (k MonthKey) Before(o MonthKey) bool {
	if k.Year != o.Year {
		return k.Year < o.Year
	}
	return k.Month < o.Month
}

func (k MonthKey) After(o MonthKey) bool {
	return o.Before(k)
}

// FirstDay is the first calendar day of the month.
func (k MonthKey) FirstDay() Date {
	return NewDate(k.Year, int(k.Month), 1)
}

// LastDay is the last calendar day of the month.
func (k MonthKey) LastDay() Date {
	return Date{Time: k.Next().FirstDay().AddDate(0, 0, -1)}
}

// Contains reports whether d falls within the month, boundaries inclusive.
func (k MonthKey) Contains(d Date) bool {
	m, ok := MonthOf(d)
	return ok && m == k
}

// Label is the human month label used in exports, e.g. "January 2025".
func (k MonthKey) Label() string {
	return fmt.Sprintf("%s %d", k.Month, k.Year)
}

// String formats the key as YYYY-MM.
func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

// MonthRange returns every month from `from` through `to`, inclusive and in
// order. It is empty when to is before from.
func MonthRange(from, to MonthKey) []MonthKey {
	if to.Before(from) {
		return nil
	}
	n := (to.Year-from.Year)*12 + int(to.Month) - int(from.Month) + 1
	out := make([]MonthKey, 0, n)
	for k := from; !k.After(to); k = k.Next() {
		out = append(out, k)
	}
	return out
}

// YearMonths returns January through December of year.
func YearMonths(year int) []MonthKey {
	return MonthRange(MonthKey{Year: year, Month: time.January}, MonthKey{Year: year, Month: time.December})
}
