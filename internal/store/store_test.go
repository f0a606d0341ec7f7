package store

import (
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/tally/internal/model"

	"github.com/shopspring/decimal"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func sampleLedger() model.Ledger {
	d := time.Date(2024, 1, 20, 8, 15, 30, 123_000_000, time.UTC)
	return model.Ledger{
		Expenses: []model.Transaction{
			{ID: "e1", Description: "Coffee, large", Amount: decimal.RequireFromString("4.50"), Category: model.Food, Date: d},
		},
		Income: []model.Transaction{
			{ID: "i1", Description: "Paycheck", Amount: decimal.NewFromInt(2000), Category: model.Salary, Date: d},
		},
		Currency: "USD",
	}
}

func assertLedgerEqual(t *testing.T, got, want model.Ledger) {
	t.Helper()
	if got.Currency != want.Currency {
		t.Errorf("currency = %q, want %q", got.Currency, want.Currency)
	}
	for _, k := range []model.Kind{model.Expense, model.Income} {
		g, w := got.Collection(k), want.Collection(k)
		if len(g) != len(w) {
			t.Fatalf("%s: %d records, want %d", k, len(g), len(w))
		}
		for i := range w {
			if g[i].ID != w[i].ID || g[i].Description != w[i].Description ||
				!g[i].Amount.Equal(w[i].Amount) || g[i].Category != w[i].Category || !g[i].Date.Equal(w[i].Date) {
				t.Errorf("%s[%d] = %+v, want %+v", k, i, g[i], w[i])
			}
		}
	}
}

func TestRoundTripMemory(t *testing.T) {
	kv := NewMemory()
	want := sampleLedger()
	if err := SaveLedger(kv, want); err != nil {
		t.Fatalf("SaveLedger: %v", err)
	}
	assertLedgerEqual(t, LoadLedger(kv, quiet), want)
}

func TestRoundTripSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tally.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	want := sampleLedger()
	if err := SaveLedger(db, want); err != nil {
		t.Fatalf("SaveLedger: %v", err)
	}
	want.Currency = "EUR"
	if err := SaveLedger(db, want); err != nil {
		t.Fatalf("SaveLedger (overwrite): %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Reopening re-runs migrations as a no-op.
	db, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = db.Close() }()
	assertLedgerEqual(t, LoadLedger(db, quiet), want)
}

func TestLoadAbsent(t *testing.T) {
	l := LoadLedger(NewMemory(), quiet)
	if len(l.Expenses) != 0 || len(l.Income) != 0 || l.Currency != "INR" {
		t.Fatalf("LoadLedger(empty) = %+v", l)
	}
	if l.Expenses == nil || l.Income == nil {
		t.Fatal("collections should be empty, not nil")
	}
}

func TestLoadMalformed(t *testing.T) {
	kv := NewMemory()
	_ = kv.Put(LedgerKey, []byte("{not json"))
	l := LoadLedger(kv, quiet)
	if len(l.Expenses) != 0 || len(l.Income) != 0 || l.Currency != "INR" {
		t.Fatalf("LoadLedger(malformed) = %+v", l)
	}
}

func TestLoadLegacyBlob(t *testing.T) {
	// Records from the browser app: no IDs, float amounts.
	legacy := `{"expenses":[{"desc":"Coffee","amount":4.5,"category":"Food","date":"2024-01-20T08:15:30.123Z"},
		{"desc":"Rent","amount":"900","category":"Housing","date":"2024-01-01T00:00:00.000Z"}],
		"income":[{"desc":"Paycheck","amount":2000,"category":"Salary","date":"2024-01-25T10:00:00.000Z"}],
		"currency":"EUR"}`
	kv := NewMemory()
	_ = kv.Put(LedgerKey, []byte(legacy))

	l := LoadLedger(kv, quiet)
	if l.Currency != "EUR" {
		t.Errorf("currency = %q, want EUR", l.Currency)
	}
	if len(l.Expenses) != 2 || len(l.Income) != 1 {
		t.Fatalf("got %d expenses, %d income", len(l.Expenses), len(l.Income))
	}
	if l.Expenses[0].ID == "" || l.Expenses[0].ID == l.Expenses[1].ID {
		t.Errorf("IDs not assigned: %q, %q", l.Expenses[0].ID, l.Expenses[1].ID)
	}
	if !l.Expenses[0].Amount.Equal(decimal.RequireFromString("4.5")) {
		t.Errorf("amount = %s, want 4.5", l.Expenses[0].Amount)
	}
	if !l.Expenses[1].Amount.Equal(decimal.NewFromInt(900)) {
		t.Errorf("string amount = %s, want 900", l.Expenses[1].Amount)
	}
	want := time.Date(2024, 1, 20, 8, 15, 30, 123_000_000, time.UTC)
	if !l.Expenses[0].Date.Equal(want) {
		t.Errorf("date = %v, want %v", l.Expenses[0].Date, want)
	}
}

func TestLoadDropsInvalidRecords(t *testing.T) {
	raw := `{"expenses":[
		{"id":"ok","desc":"Coffee","amount":4.5,"category":"Food","date":"2024-01-20T08:15:30.123Z"},
		{"id":"neg","desc":"Bad","amount":-3,"category":"Food","date":"2024-01-20T08:15:30.123Z"},
		{"id":"cat","desc":"Bad","amount":3,"category":"Salary","date":"2024-01-20T08:15:30.123Z"},
		{"id":"date","desc":"Bad","amount":3,"category":"Food","date":"yesterday"},
		{"id":"desc","desc":"  ","amount":3,"category":"Food","date":"2024-01-20T08:15:30.123Z"}
	],"currency":"GBP"}`
	kv := NewMemory()
	_ = kv.Put(LedgerKey, []byte(raw))

	var logs strings.Builder
	l := LoadLedger(kv, slog.New(slog.NewTextHandler(&logs, nil)))
	if len(l.Expenses) != 1 || l.Expenses[0].ID != "ok" {
		t.Fatalf("expenses = %+v", l.Expenses)
	}
	if l.Currency != "INR" {
		t.Errorf("unknown currency should fall back to INR, got %q", l.Currency)
	}
	if n := strings.Count(logs.String(), "dropping stored record"); n != 4 {
		t.Errorf("logged %d drops, want 4:\n%s", n, logs.String())
	}
}

func TestSaveWritesNumbersAndMillis(t *testing.T) {
	kv := NewMemory()
	if err := SaveLedger(kv, sampleLedger()); err != nil {
		t.Fatal(err)
	}
	raw, _, _ := kv.Get(LedgerKey)
	s := string(raw)
	for _, want := range []string{`"amount":4.5`, `"date":"2024-01-20T08:15:30.123Z"`, `"currency":"USD"`, `"desc":"Coffee, large"`} {
		if !strings.Contains(s, want) {
			t.Errorf("blob missing %s:\n%s", want, s)
		}
	}
}

func TestMemoryCopies(t *testing.T) {
	m := NewMemory()
	v := []byte("abc")
	_ = m.Put("k", v)
	v[0] = 'z'
	got, ok, _ := m.Get("k")
	if !ok || string(got) != "abc" {
		t.Fatalf("Get = %q, %v", got, ok)
	}
}

func TestLoadIDsUniqueAcrossKinds(t *testing.T) {
	raw := `{"expenses":[{"id":"x1","desc":"Coffee","amount":4.5,"category":"Food","date":"2024-01-20T08:15:30.123Z"}],
		"income":[{"id":"x1","desc":"Paycheck","amount":2000,"category":"Salary","date":"2024-01-25T10:00:00.000Z"}],
		"currency":"INR"}`
	kv := NewMemory()
	_ = kv.Put(LedgerKey, []byte(raw))

	l := LoadLedger(kv, quiet)
	if len(l.Expenses) != 1 || len(l.Income) != 1 {
		t.Fatalf("got %d expenses, %d income", len(l.Expenses), len(l.Income))
	}
	if l.Expenses[0].ID != "x1" {
		t.Errorf("first occurrence should keep its ID, got %q", l.Expenses[0].ID)
	}
	if id := l.Income[0].ID; id == "" || id == "x1" {
		t.Errorf("income ID = %q, want a fresh one", id)
	}
}

func TestParseRecordTruncatesToMillis(t *testing.T) {
	tx, err := ParseRecord(model.Expense, "a", "Coffee", "4.5", "Food", "2024-01-20T10:00:00.123456789Z")
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2024, 1, 20, 10, 0, 0, 123_000_000, time.UTC)
	if !tx.Date.Equal(want) {
		t.Fatalf("date = %v, want %v", tx.Date, want)
	}

	kv := NewMemory()
	if err := SaveLedger(kv, model.Ledger{Expenses: []model.Transaction{tx}, Currency: "INR"}); err != nil {
		t.Fatal(err)
	}
	if got := LoadLedger(kv, quiet).Expenses[0].Date; !got.Equal(tx.Date) {
		t.Fatalf("reloaded date = %v, want %v", got, tx.Date)
	}
}
