package pipeline

import (
	"slices"
	"testing"
	"time"

	"github.com/theirongolddev/tally/internal/model"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func tx(id, desc, amount string, cat model.Category, date time.Time) model.Transaction {
	return model.Transaction{ID: id, Description: desc, Amount: dec(amount), Category: cat, Date: date}
}

func ids(txs []model.Transaction) []string {
	out := make([]string, len(txs))
	for i, t := range txs {
		out[i] = t.ID
	}
	return out
}

func TestApplyMonth(t *testing.T) {
	expenses := []model.Transaction{
		tx("a", "Coffee", "4.50", model.Food, time.Date(2024, 1, 20, 10, 0, 0, 0, time.Local)),
		tx("b", "Bus", "2", model.Travel, time.Date(2024, 2, 15, 10, 0, 0, 0, time.Local)),
	}
	spec := model.FilterSpec{Month: model.YearMonth{Year: 2024, Month: time.January}}

	got := Collect(Apply(expenses, model.Expense, spec))
	if !slices.Equal(ids(got), []string{"a"}) {
		t.Fatalf("Apply(2024-01) = %v, want [a]", ids(got))
	}
}

func TestApplyTypeAndCategory(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.Local)
	expenses := []model.Transaction{
		tx("a", "Coffee", "4.50", model.Food, now),
		tx("b", "Bus", "2", model.Travel, now),
		tx("c", "Odd", "1", model.Other, now),
	}
	income := []model.Transaction{
		tx("d", "Paycheck", "2000", model.Salary, now),
		tx("e", "Misc", "5", model.Other, now),
	}

	cases := []struct {
		name    string
		spec    model.FilterSpec
		wantExp []string
		wantInc []string
	}{
		{"no filter", model.FilterSpec{}, []string{"a", "b", "c"}, []string{"d", "e"}},
		{"expense only", model.FilterSpec{Type: model.ExpenseOnly}, []string{"a", "b", "c"}, []string{}},
		{"income only", model.FilterSpec{Type: model.IncomeOnly}, []string{}, []string{"d", "e"}},
		{"category Other", model.FilterSpec{Category: model.Other}, []string{"c"}, []string{"e"}},
		{"category Salary", model.FilterSpec{Category: model.Salary}, []string{}, []string{"d"}},
		{"other month", model.FilterSpec{Month: model.YearMonth{Year: 2023, Month: time.May}}, []string{}, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gotExp := ids(Collect(Apply(expenses, model.Expense, tc.spec)))
			gotInc := ids(Collect(Apply(income, model.Income, tc.spec)))
			if !slices.Equal(gotExp, tc.wantExp) {
				t.Errorf("expenses = %v, want %v", gotExp, tc.wantExp)
			}
			if !slices.Equal(gotInc, tc.wantInc) {
				t.Errorf("income = %v, want %v", gotInc, tc.wantInc)
			}
		})
	}
}

func TestApplyIdempotent(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.Local)
	txs := []model.Transaction{
		tx("a", "Coffee", "4.50", model.Food, now),
		tx("b", "Bus", "2", model.Travel, now.AddDate(0, -1, 0)),
		tx("c", "Lunch", "12", model.Food, now),
	}
	spec := model.FilterSpec{Category: model.Food, Month: model.MonthOf(now)}

	once := Collect(Apply(txs, model.Expense, spec))
	twice := Collect(Apply(once, model.Expense, spec))
	if !slices.Equal(ids(once), ids(twice)) {
		t.Fatalf("filter not idempotent: %v then %v", ids(once), ids(twice))
	}
}

func TestApplyRestartable(t *testing.T) {
	txs := []model.Transaction{tx("a", "x", "1", model.Food, time.Now())}
	seq := Apply(txs, model.Expense, model.FilterSpec{})
	for range 2 {
		if n := len(Collect(seq)); n != 1 {
			t.Fatalf("pass yielded %d records, want 1", n)
		}
	}
}

func TestApplyEarlyStop(t *testing.T) {
	now := time.Now()
	txs := []model.Transaction{tx("a", "x", "1", model.Food, now), tx("b", "y", "1", model.Food, now)}
	n := 0
	for range Apply(txs, model.Expense, model.FilterSpec{}) {
		n++
		break
	}
	if n != 1 {
		t.Fatalf("iterated %d times after break, want 1", n)
	}
}

func TestCollectNeverNil(t *testing.T) {
	got := Collect(Apply(nil, model.Expense, model.FilterSpec{}))
	if got == nil {
		t.Fatal("Collect returned nil")
	}
}

func TestTotals(t *testing.T) {
	now := time.Now()
	exp := []model.Transaction{tx("a", "Coffee", "4.50", model.Food, now)}
	inc := []model.Transaction{tx("b", "Paycheck", "2000", model.Salary, now)}

	got := Totals(slices.Values(exp), slices.Values(inc))
	if !got.Expense.Equal(dec("4.50")) || !got.Income.Equal(dec("2000")) || !got.Balance.Equal(dec("1995.50")) {
		t.Fatalf("Totals = %+v", got)
	}
}

func TestTotalsBalanceIdentity(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name     string
		exp, inc []model.Transaction
	}{
		{"empty", nil, nil},
		{"only expenses", []model.Transaction{tx("a", "x", "10.10", model.Food, now), tx("b", "y", "0.20", model.Food, now)}, nil},
		{"only income", nil, []model.Transaction{tx("c", "z", "7", model.Gift, now)}},
		{"both", []model.Transaction{tx("a", "x", "0.1", model.Food, now)}, []model.Transaction{tx("c", "z", "0.2", model.Gift, now)}},
	}
	for _, tc := range cases {
		got := Totals(slices.Values(tc.exp), slices.Values(tc.inc))
		if !got.Balance.Equal(got.Income.Sub(got.Expense)) {
			t.Errorf("%s: balance %s != %s - %s", tc.name, got.Balance, got.Income, got.Expense)
		}
	}

	empty := Totals(slices.Values[[]model.Transaction](nil), slices.Values[[]model.Transaction](nil))
	if !empty.Expense.IsZero() || !empty.Income.IsZero() || !empty.Balance.IsZero() {
		t.Fatalf("empty totals = %+v", empty)
	}
}

func TestByCategory(t *testing.T) {
	now := time.Now()
	txs := []model.Transaction{
		tx("a", "Groceries", "10", model.Food, now),
		tx("b", "Bus", "5", model.Travel, now),
		tx("c", "Takeout", "3", model.Food, now),
		tx("d", "Rent", "7", model.Housing, now),
	}

	got := ByCategory(slices.Values(txs), model.ExpenseCategories())
	want := []model.CategorySum{
		{Category: model.Food, Index: 0, Sum: dec("13")},
		{Category: model.Travel, Index: 1, Sum: dec("5")},
		{Category: model.Housing, Index: 3, Sum: dec("7")},
	}
	if len(got) != len(want) {
		t.Fatalf("ByCategory = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i].Category != want[i].Category || got[i].Index != want[i].Index || !got[i].Sum.Equal(want[i].Sum) {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestByCategoryEmpty(t *testing.T) {
	if got := ByCategory(slices.Values[[]model.Transaction](nil), model.IncomeCategories()); len(got) != 0 {
		t.Fatalf("ByCategory(empty) = %+v", got)
	}
}

func TestBuildView(t *testing.T) {
	jan := time.Date(2024, 1, 10, 12, 0, 0, 0, time.Local)
	feb := time.Date(2024, 2, 10, 12, 0, 0, 0, time.Local)
	l := model.Ledger{
		Expenses: []model.Transaction{
			tx("a", "Coffee", "4.50", model.Food, jan),
			tx("b", "Rent", "900", model.Housing, feb),
		},
		Income: []model.Transaction{
			tx("c", "Paycheck", "2000", model.Salary, jan),
		},
		Currency: "INR",
	}
	spec := model.FilterSpec{Month: model.YearMonth{Year: 2024, Month: time.January}}

	v := BuildView(l, spec)
	if !slices.Equal(ids(v.Expenses), []string{"a"}) || !slices.Equal(ids(v.Income), []string{"c"}) {
		t.Fatalf("view rows = %v / %v", ids(v.Expenses), ids(v.Income))
	}
	if !v.Totals.Balance.Equal(dec("1995.50")) {
		t.Errorf("balance = %s, want 1995.50", v.Totals.Balance)
	}
	if len(v.ExpenseByCategory) != 1 || v.ExpenseByCategory[0].Category != model.Food {
		t.Errorf("expense breakdown = %+v", v.ExpenseByCategory)
	}
	if len(v.IncomeByCategory) != 1 || v.IncomeByCategory[0].Category != model.Salary {
		t.Errorf("income breakdown = %+v", v.IncomeByCategory)
	}
	if v.Filter != spec {
		t.Errorf("view filter = %+v, want %+v", v.Filter, spec)
	}
}

func TestShare(t *testing.T) {
	cases := []struct {
		part, total string
		want        int
	}{
		{"13", "25", 52},
		{"5", "25", 20},
		{"7", "25", 28},
		{"1", "3", 33},
		{"2", "3", 67},
		{"1", "0", 0},
		{"0", "10", 0},
	}
	for _, tc := range cases {
		if got := Share(dec(tc.part), dec(tc.total)); got != tc.want {
			t.Errorf("Share(%s, %s) = %d, want %d", tc.part, tc.total, got, tc.want)
		}
	}
}

func TestMonthly(t *testing.T) {
	txs := []model.Transaction{
		tx("a", "x", "10", model.Food, time.Date(2023, 12, 5, 12, 0, 0, 0, time.Local)),
		tx("b", "y", "2", model.Food, time.Date(2024, 2, 1, 12, 0, 0, 0, time.Local)),
		tx("c", "z", "3", model.Food, time.Date(2024, 2, 28, 12, 0, 0, 0, time.Local)),
		tx("d", "old", "99", model.Food, time.Date(2023, 1, 1, 12, 0, 0, 0, time.Local)),
		tx("e", "future", "99", model.Food, time.Date(2024, 3, 1, 12, 0, 0, 0, time.Local)),
	}
	got := Monthly(slices.Values(txs), model.YearMonth{Year: 2024, Month: time.February}, 3)
	want := []string{"10", "0", "5"}
	if len(got) != len(want) {
		t.Fatalf("Monthly = %v", got)
	}
	for i := range want {
		if !got[i].Equal(dec(want[i])) {
			t.Errorf("month %d = %s, want %s", i, got[i], want[i])
		}
	}
	if Monthly(slices.Values(txs), model.YearMonth{}, 3) != nil {
		t.Error("zero month should yield nil")
	}
}
