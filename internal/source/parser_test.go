package source

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/tally/internal/export"
	"github.com/theirongolddev/tally/internal/model"

	"github.com/shopspring/decimal"
)

// writeExport creates a temp export file and returns a DiscoveredFile for it.
func writeExport(t *testing.T, name string, lines ...string) DiscoveredFile {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	f, _ := importFormat(path)
	return DiscoveredFile{Path: path, Format: f}
}

func TestParseFile_JSON(t *testing.T) {
	df := writeExport(t, "expense-tracker-2024-01-20.json", `{
  "expenses": [
    {"id": "e1", "desc": "Coffee", "amount": 4.5, "category": "Food", "date": "2024-01-15T10:00:00.000Z"},
    {"id": "e2", "desc": "Rent", "amount": "1200", "category": "Housing", "date": "2024-01-01T00:00:00.000Z"},
    {"id": "e3", "desc": "", "amount": 3, "category": "Food", "date": "2024-01-02T00:00:00.000Z"},
    {"id": "e4", "desc": "Paycheck?", "amount": 10, "category": "Salary", "date": "2024-01-02T00:00:00.000Z"}
  ],
  "income": [
    {"id": "i1", "desc": "Pay", "amount": 2000, "category": "Salary", "date": "2024-01-31T09:00:00.000Z"}
  ],
  "currency": "USD",
  "exportedAt": "2024-01-20T10:00:00.000Z"
}`)

	res := ParseFile(df)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.ParseErrors != 2 {
		t.Errorf("ParseErrors = %d, want 2 (empty desc, income category on expense)", res.ParseErrors)
	}
	if len(res.Ledger.Expenses) != 2 || len(res.Ledger.Income) != 1 {
		t.Fatalf("ledger = %+v", res.Ledger)
	}
	if !res.Ledger.Expenses[1].Amount.Equal(decimal.NewFromInt(1200)) {
		t.Errorf("string amount = %s, want 1200", res.Ledger.Expenses[1].Amount)
	}
	if res.Ledger.Currency != "USD" {
		t.Errorf("Currency = %q, want USD", res.Ledger.Currency)
	}
	want := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	if !res.Ledger.Expenses[0].Date.Equal(want) {
		t.Errorf("Date = %v, want %v", res.Ledger.Expenses[0].Date, want)
	}
}

func TestParseFile_JSONDedup(t *testing.T) {
	// Same ID twice: the second record wins but keeps the first position.
	df := writeExport(t, "dup.json", `{"expenses": [
    {"id": "a", "desc": "First", "amount": 1, "category": "Food", "date": "2024-01-01T00:00:00Z"},
    {"id": "b", "desc": "Other", "amount": 2, "category": "Food", "date": "2024-01-01T00:00:00Z"},
    {"id": "a", "desc": "Second", "amount": 3, "category": "Food", "date": "2024-01-01T00:00:00Z"},
    {"desc": "No ID", "amount": 4, "category": "Food", "date": "2024-01-01T00:00:00Z"}
  ], "income": []}`)

	res := ParseFile(df)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	exp := res.Ledger.Expenses
	if len(exp) != 3 {
		t.Fatalf("expenses = %d, want 3 (dedup)", len(exp))
	}
	if exp[0].ID != "a" || exp[0].Description != "Second" || exp[1].ID != "b" {
		t.Errorf("dedup order = %+v", exp)
	}
	if exp[2].ID == "" {
		t.Error("record without ID was not assigned one")
	}
}

func TestParseFile_MalformedJSON(t *testing.T) {
	df := writeExport(t, "bad.json", `{"expenses": [`)
	if res := ParseFile(df); res.Err == nil {
		t.Fatal("expected an error for truncated JSON")
	}
}

func TestParse_CSVRoundTrip(t *testing.T) {
	date := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	v := model.View{
		Expenses: []model.Transaction{
			{ID: "e1", Description: "Lunch, with \"friends\"", Amount: decimal.RequireFromString("12.5"), Category: "Food", Date: date},
		},
		Income: []model.Transaction{
			{ID: "i1", Description: "Pay", Amount: decimal.NewFromInt(2000), Category: "Salary", Date: date},
		},
	}
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, v); err != nil {
		t.Fatal(err)
	}
	buf.WriteString("Expense,Broken,abc,Food,2024-01-15T10:00:00.000Z\n")
	buf.WriteString("Transfer,Odd,5,Food,2024-01-15T10:00:00.000Z\n")

	res := Parse(&buf, export.CSV)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.ParseErrors != 2 {
		t.Errorf("ParseErrors = %d, want 2", res.ParseErrors)
	}
	if len(res.Ledger.Expenses) != 1 || len(res.Ledger.Income) != 1 {
		t.Fatalf("ledger = %+v", res.Ledger)
	}
	got := res.Ledger.Expenses[0]
	if got.Description != "Lunch, with \"friends\"" || !got.Amount.Equal(decimal.RequireFromString("12.5")) || !got.Date.Equal(date) {
		t.Errorf("round-tripped expense = %+v", got)
	}
	if got.ID == "" {
		t.Error("CSV record was not assigned an ID")
	}
}

func TestParse_CSVWrongHeader(t *testing.T) {
	res := Parse(strings.NewReader("Name,Value\nx,1\n"), export.CSV)
	if res.Err == nil {
		t.Fatal("expected an error for a foreign CSV header")
	}
}

func TestParse_UnsupportedFormat(t *testing.T) {
	res := Parse(strings.NewReader(""), export.XLSX)
	if !errors.Is(res.Err, export.ErrUnknownFormat) {
		t.Fatalf("err = %v, want ErrUnknownFormat", res.Err)
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"expense-tracker-2024-02-01.csv",
		"expense-tracker-2024-01-01.json",
		"expense-tracker-2024-01-01.txt",
		"notes.json",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	files, err := Discover(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("found %d files, want 2: %+v", len(files), files)
	}
	if filepath.Base(files[0].Path) != "expense-tracker-2024-01-01.json" || files[0].Format != export.JSON {
		t.Errorf("files[0] = %+v", files[0])
	}
	if files[1].Format != export.CSV {
		t.Errorf("files[1] = %+v", files[1])
	}

	single, err := Discover(filepath.Join(dir, "notes.json"))
	if err != nil || len(single) != 1 {
		t.Fatalf("explicit file = %+v, %v", single, err)
	}

	var unsupported *UnsupportedError
	if _, err := Discover(filepath.Join(dir, "expense-tracker-2024-01-01.txt")); !errors.As(err, &unsupported) {
		t.Fatalf("txt err = %v, want UnsupportedError", err)
	}

	if none, err := ScanDir(filepath.Join(dir, "missing")); err != nil || none != nil {
		t.Fatalf("missing dir = %+v, %v", none, err)
	}
}
