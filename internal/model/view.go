package model

import "github.com/shopspring/decimal"

// Totals is the summary triple over a filtered view.
type Totals struct {
	Expense decimal.Decimal
	Income  decimal.Decimal
	Balance decimal.Decimal // Income - Expense, may be negative
}

// CategorySum is one entry in a per-category breakdown.
type CategorySum struct {
	Category Category
	Index    int // position in the kind's fixed category list
	Sum      decimal.Decimal
}

// View is everything a renderer needs for one render cycle.
type View struct {
	Filter            FilterSpec
	Expenses          []Transaction
	Income            []Transaction
	Totals            Totals
	ExpenseByCategory []CategorySum
	IncomeByCategory  []CategorySum
}

// Rows returns the filtered view for kind k.
func (v View) Rows(k Kind) []Transaction {
	if k == Income {
		return v.Income
	}
	return v.Expenses
}

// Breakdown returns the per-category sums for kind k.
func (v View) Breakdown(k Kind) []CategorySum {
	if k == Income {
		return v.IncomeByCategory
	}
	return v.ExpenseByCategory
}
