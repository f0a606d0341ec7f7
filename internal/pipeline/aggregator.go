package pipeline

import (
	"iter"
	"time"

	"github.com/theirongolddev/tally/internal/model"

	"github.com/shopspring/decimal"
)

// Sum adds up the amounts in seq.
func Sum(seq iter.Seq[model.Transaction]) decimal.Decimal {
	total := decimal.Zero
	for t := range seq {
		total = total.Add(t.Amount)
	}
	return total
}

// Totals computes expense, income and balance over already-filtered views.
func Totals(expenses, income iter.Seq[model.Transaction]) model.Totals {
	exp := Sum(expenses)
	inc := Sum(income)
	return model.Totals{
		Expense: exp,
		Income:  inc,
		Balance: inc.Sub(exp),
	}
}

// ByCategory sums seq per category, in the order of cats. Categories with a
// zero sum are omitted; Index keeps each entry's position in cats so chart
// colors stay stable. Records whose category is not in cats are ignored.
func ByCategory(seq iter.Seq[model.Transaction], cats []model.Category) []model.CategorySum {
	sums := make(map[model.Category]decimal.Decimal, len(cats))
	for t := range seq {
		sums[t.Category] = sums[t.Category].Add(t.Amount)
	}

	out := make([]model.CategorySum, 0, len(cats))
	for i, c := range cats {
		s, ok := sums[c]
		if !ok || s.IsZero() {
			continue
		}
		out = append(out, model.CategorySum{Category: c, Index: i, Sum: s})
	}
	return out
}

// BuildView runs the whole filter and aggregate pass for one render cycle.
func BuildView(l model.Ledger, spec model.FilterSpec) model.View {
	exp := Apply(l.Expenses, model.Expense, spec)
	inc := Apply(l.Income, model.Income, spec)

	return model.View{
		Filter:            spec,
		Expenses:          Collect(exp),
		Income:            Collect(inc),
		Totals:            Totals(exp, inc),
		ExpenseByCategory: ByCategory(exp, model.ExpenseCategories()),
		IncomeByCategory:  ByCategory(inc, model.IncomeCategories()),
	}
}

// Monthly sums seq per calendar month (local time) for the n months ending
// with last, oldest first.
func Monthly(seq iter.Seq[model.Transaction], last model.YearMonth, n int) []decimal.Decimal {
	if n <= 0 || last.IsZero() {
		return nil
	}
	first := time.Date(last.Year, last.Month, 1, 0, 0, 0, 0, time.Local).AddDate(0, -(n - 1), 0)
	out := make([]decimal.Decimal, n)
	for i := range out {
		out[i] = decimal.Zero
	}
	for t := range seq {
		d := t.Date.Local()
		i := (d.Year()-first.Year())*12 + int(d.Month()) - int(first.Month())
		if i < 0 || i >= n {
			continue
		}
		out[i] = out[i].Add(t.Amount)
	}
	return out
}

// Share returns part as a whole-number percentage of total, rounded half
// up. A non-positive total yields 0.
func Share(part, total decimal.Decimal) int {
	if !total.IsPositive() {
		return 0
	}
	return int(part.Mul(decimal.NewFromInt(100)).Div(total).Round(0).IntPart())
}
