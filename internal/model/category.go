package model

import "strings"

// Kind says which collection a transaction lives in.
type Kind int

const (
	Expense Kind = iota
	Income
)

// Category is a transaction category drawn from a kind's fixed list.
type Category string

// Expense categories.
const (
	Food          Category = "Food"
	Travel        Category = "Travel"
	Entertainment Category = "Entertainment"
	Housing       Category = "Housing"
	Utilities     Category = "Utilities"
)

// Income categories.
const (
	Salary     Category = "Salary"
	Freelance  Category = "Freelance"
	Investment Category = "Investment"
	Gift       Category = "Gift"
)

// Other is valid for both kinds.
const Other Category = "Other"

// Chart colors are assigned by position in these lists, so the order is fixed.
var (
	expenseCategories = []Category{Food, Travel, Entertainment, Housing, Utilities, Other}
	incomeCategories  = []Category{Salary, Freelance, Investment, Gift, Other}
)

// ExpenseCategories returns the fixed, ordered expense category list.
func ExpenseCategories() []Category {
	return append([]Category(nil), expenseCategories...)
}

// IncomeCategories returns the fixed, ordered income category list.
func IncomeCategories() []Category {
	return append([]Category(nil), incomeCategories...)
}

// AllCategories returns the union of both lists, expense entries first,
// without duplicates.
func AllCategories() []Category {
	seen := make(map[Category]struct{}, len(expenseCategories)+len(incomeCategories))
	out := make([]Category, 0, len(expenseCategories)+len(incomeCategories))
	for _, list := range [][]Category{expenseCategories, incomeCategories} {
		for _, c := range list {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}

// Categories returns the fixed category list for k.
func (k Kind) Categories() []Category {
	if k == Income {
		return IncomeCategories()
	}
	return ExpenseCategories()
}

// DefaultCategory is the category an empty entry form starts on.
func (k Kind) DefaultCategory() Category {
	if k == Income {
		return Salary
	}
	return Food
}

// Allows reports whether c is in k's category list.
func (k Kind) Allows(c Category) bool {
	list := expenseCategories
	if k == Income {
		list = incomeCategories
	}
	for _, have := range list {
		if have == c {
			return true
		}
	}
	return false
}

// Other returns the opposite kind.
func (k Kind) Other() Kind {
	if k == Income {
		return Expense
	}
	return Income
}

func (k Kind) String() string {
	if k == Income {
		return "income"
	}
	return "expense"
}

// Label is the capitalized name used in exports and headings.
func (k Kind) Label() string {
	if k == Income {
		return "Income"
	}
	return "Expense"
}

// ParseKind accepts "expense"/"income" and a few short forms.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "expense", "expenses", "exp", "e":
		return Expense, true
	case "income", "incomes", "inc", "i":
		return Income, true
	}
	return Expense, false
}
