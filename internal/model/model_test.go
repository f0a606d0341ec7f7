package model

import (
	"slices"
	"testing"
	"time"
)

func TestCategoryLists(t *testing.T) {
	if got := ExpenseCategories(); !slices.Equal(got, []Category{Food, Travel, Entertainment, Housing, Utilities, Other}) {
		t.Errorf("ExpenseCategories = %v", got)
	}
	if got := IncomeCategories(); !slices.Equal(got, []Category{Salary, Freelance, Investment, Gift, Other}) {
		t.Errorf("IncomeCategories = %v", got)
	}

	all := AllCategories()
	if len(all) != 10 {
		t.Errorf("AllCategories has %d entries, want 10: %v", len(all), all)
	}
	if slices.Index(all, Other) != 5 {
		t.Errorf("Other should appear once, after the expense list: %v", all)
	}

	// Callers get copies.
	ExpenseCategories()[0] = "Mutated"
	if ExpenseCategories()[0] != Food {
		t.Error("ExpenseCategories returned shared backing array")
	}
}

func TestKindAllows(t *testing.T) {
	cases := []struct {
		k    Kind
		c    Category
		want bool
	}{
		{Expense, Food, true},
		{Expense, Other, true},
		{Expense, Salary, false},
		{Income, Salary, true},
		{Income, Other, true},
		{Income, Housing, false},
		{Income, "", false},
	}
	for _, tc := range cases {
		if got := tc.k.Allows(tc.c); got != tc.want {
			t.Errorf("%s.Allows(%q) = %v, want %v", tc.k, tc.c, got, tc.want)
		}
	}
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{"expense": Expense, "E": Expense, " income ": Income, "inc": Income} {
		got, ok := ParseKind(in)
		if !ok || got != want {
			t.Errorf("ParseKind(%q) = %v, %v", in, got, ok)
		}
	}
	if _, ok := ParseKind("transfer"); ok {
		t.Error("ParseKind(transfer) should fail")
	}
}

func TestParseTypeFilter(t *testing.T) {
	cases := map[string]TypeFilter{"": AllTypes, "all": AllTypes, "expense": ExpenseOnly, "Income": IncomeOnly}
	for in, want := range cases {
		got, err := ParseTypeFilter(in)
		if err != nil || got != want {
			t.Errorf("ParseTypeFilter(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseTypeFilter("both"); err == nil {
		t.Error("ParseTypeFilter(both) should fail")
	}
}

func TestYearMonth(t *testing.T) {
	ym, err := ParseYearMonth("2024-01")
	if err != nil {
		t.Fatal(err)
	}
	if ym.String() != "2024-01" {
		t.Errorf("String = %q", ym.String())
	}
	if !ym.Contains(time.Date(2024, 1, 31, 23, 59, 0, 0, time.Local)) {
		t.Error("should contain Jan 31 local")
	}
	if ym.Contains(time.Date(2024, 2, 15, 0, 0, 0, 0, time.Local)) {
		t.Error("should not contain Feb 15")
	}
	if ym.Contains(time.Date(2023, 1, 15, 0, 0, 0, 0, time.Local)) {
		t.Error("should not contain Jan of another year")
	}
	if _, err := ParseYearMonth("2024/01"); err == nil {
		t.Error("ParseYearMonth(2024/01) should fail")
	}
	if !(YearMonth{}).IsZero() || (YearMonth{}).String() != "" {
		t.Error("zero YearMonth should be empty")
	}
}

func TestDefaultFilter(t *testing.T) {
	now := time.Date(2024, 7, 4, 12, 0, 0, 0, time.Local)
	f := DefaultFilter(now)
	if f.Type != AllTypes || f.Category != "" || f.Month != (YearMonth{Year: 2024, Month: time.July}) {
		t.Fatalf("DefaultFilter = %+v", f)
	}
	if got := f.Describe(); got != "all │ all categories │ 2024-07" {
		t.Errorf("Describe = %q", got)
	}
}

func TestLedgerCloneIsIndependent(t *testing.T) {
	l := Ledger{Expenses: []Transaction{{ID: "a"}}, Currency: "INR"}
	c := l.Clone()
	c.Expenses[0].ID = "b"
	if l.Expenses[0].ID != "a" {
		t.Fatal("Clone shares backing arrays")
	}
	w := l.WithCollection(Income, []Transaction{{ID: "x"}})
	if len(l.Income) != 0 || len(w.Collection(Income)) != 1 {
		t.Fatal("WithCollection mutated the receiver")
	}
}
