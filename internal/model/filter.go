package model

import (
	"fmt"
	"strings"
	"time"
)

// TypeFilter restricts a view to one kind or lets both through.
type TypeFilter int

const (
	AllTypes TypeFilter = iota
	ExpenseOnly
	IncomeOnly
)

// Admits reports whether records of kind k pass the type filter.
func (f TypeFilter) Admits(k Kind) bool {
	switch f {
	case ExpenseOnly:
		return k == Expense
	case IncomeOnly:
		return k == Income
	default:
		return true
	}
}

func (f TypeFilter) String() string {
	switch f {
	case ExpenseOnly:
		return "expense"
	case IncomeOnly:
		return "income"
	default:
		return "all"
	}
}

// ParseTypeFilter accepts "all", "expense" and "income".
func ParseTypeFilter(s string) (TypeFilter, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "all" {
		return AllTypes, nil
	}
	k, ok := ParseKind(s)
	if !ok {
		return AllTypes, fmt.Errorf("unknown type filter %q (want all, expense or income)", s)
	}
	if k == Income {
		return IncomeOnly, nil
	}
	return ExpenseOnly, nil
}

// YearMonth is a calendar month. The zero value means "no month".
type YearMonth struct {
	Year  int
	Month time.Month
}

// MonthOf returns the calendar month containing t in t's location.
func MonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// ParseYearMonth parses "2006-01".
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return YearMonth{}, fmt.Errorf("parsing month %q: want YYYY-MM", s)
	}
	return MonthOf(t), nil
}

// IsZero reports whether ym is the "no month" value.
func (ym YearMonth) IsZero() bool {
	return ym.Year == 0 && ym.Month == 0
}

// Contains reports whether t, in local time, falls inside ym.
func (ym YearMonth) Contains(t time.Time) bool {
	local := t.Local()
	return local.Year() == ym.Year && local.Month() == ym.Month
}

func (ym YearMonth) String() string {
	if ym.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// FilterSpec is the active type/category/month filter. An empty Category
// admits every category; a zero Month admits every date.
type FilterSpec struct {
	Type     TypeFilter
	Category Category
	Month    YearMonth
}

// DefaultFilter is all types, all categories, restricted to now's month.
func DefaultFilter(now time.Time) FilterSpec {
	return FilterSpec{Type: AllTypes, Month: MonthOf(now.Local())}
}

// Describe renders the filter as a short human-readable pill.
func (f FilterSpec) Describe() string {
	parts := []string{f.Type.String()}
	if f.Category != "" {
		parts = append(parts, string(f.Category))
	} else {
		parts = append(parts, "all categories")
	}
	if f.Month.IsZero() {
		parts = append(parts, "all months")
	} else {
		parts = append(parts, f.Month.String())
	}
	return strings.Join(parts, " │ ")
}
