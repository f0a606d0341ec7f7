package daemon

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/tally/internal/model"
	"github.com/theirongolddev/tally/internal/store"
	"github.com/theirongolddev/tally/internal/tracker"

	"github.com/shopspring/decimal"
)

var fixedNow = time.Date(2024, 1, 20, 10, 0, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func tx(id, desc, amount string, cat model.Category, date time.Time) model.Transaction {
	return model.Transaction{ID: id, Description: desc, Amount: decimal.RequireFromString(amount), Category: cat, Date: date}
}

func seedLedger(t *testing.T, kv store.KV, l model.Ledger) {
	t.Helper()
	if err := store.SaveLedger(kv, l); err != nil {
		t.Fatalf("SaveLedger: %v", err)
	}
}

func newTestService(t *testing.T) (*Service, *store.Memory) {
	t.Helper()
	kv := store.NewMemory()
	seedLedger(t, kv, model.Ledger{
		Expenses: []model.Transaction{
			tx("e1", "Lunch", "12.50", "Food", fixedNow),
			tx("e2", "Taxi", "30", "Travel", fixedNow.AddDate(0, -1, 0)),
		},
		Income: []model.Transaction{
			tx("i1", "Pay", "2000", "Salary", fixedNow),
		},
		Currency: "USD",
	})
	tr := tracker.New(kv, tracker.Options{
		Logger:    quietLogger(),
		Now:       func() time.Time { return fixedNow },
		AllMonths: true,
	})
	s := New(tr, Config{Interval: 10 * time.Second, EventsBuffer: 10}, quietLogger())
	s.now = func() time.Time { return fixedNow }
	return s, kv
}

func TestDiffSnapshots(t *testing.T) {
	prev := Snapshot{
		Currency:     "INR",
		Expenses:     3,
		Income:       1,
		TotalExpense: decimal.RequireFromString("40.50"),
		TotalIncome:  decimal.RequireFromString("100"),
		Balance:      decimal.RequireFromString("59.50"),
	}
	curr := Snapshot{
		Currency:     "INR",
		Expenses:     4,
		Income:       1,
		TotalExpense: decimal.RequireFromString("50"),
		TotalIncome:  decimal.RequireFromString("100"),
		Balance:      decimal.RequireFromString("50"),
	}

	delta := diffSnapshots(prev, curr)
	if delta.Expenses != 1 || delta.Income != 0 {
		t.Fatalf("count delta = %+v", delta)
	}
	if !delta.TotalExpense.Equal(decimal.RequireFromString("9.5")) {
		t.Fatalf("expense delta = %s, want 9.5", delta.TotalExpense)
	}
	if !delta.Balance.Equal(decimal.RequireFromString("-9.5")) {
		t.Fatalf("balance delta = %s, want -9.5", delta.Balance)
	}
	if delta.isZero() {
		t.Fatal("delta unexpectedly reported as zero")
	}

	if d := diffSnapshots(curr, curr); !d.isZero() {
		t.Fatalf("identical snapshots gave delta %+v", d)
	}
	curr.Currency = "EUR"
	if d := diffSnapshots(prev, curr); !d.CurrencyChanged {
		t.Fatal("currency change not detected")
	}
}

func TestPublishEventRingBuffer(t *testing.T) {
	s, _ := newTestService(t)
	s.cfg.EventsBuffer = 2

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func TestPollPublishesSnapshotThenDeltas(t *testing.T) {
	s, kv := newTestService(t)

	s.pollOnce()
	s.pollOnce() // unchanged store, no event

	s.mu.RLock()
	if len(s.events) != 1 || s.events[0].Type != EventSnapshot {
		t.Fatalf("after two polls events = %+v", s.events)
	}
	snap := s.events[0].Snapshot
	s.mu.RUnlock()

	if snap.Expenses != 2 || snap.Income != 1 || snap.Currency != "USD" {
		t.Fatalf("snapshot = %+v", snap)
	}
	if !snap.Balance.Equal(decimal.RequireFromString("1957.5")) {
		t.Fatalf("balance = %s, want 1957.5", snap.Balance)
	}

	// Another process adds an expense.
	l := store.LoadLedger(kv, quietLogger())
	l.Expenses = append(l.Expenses, tx("e3", "Coffee", "4.50", "Food", fixedNow))
	seedLedger(t, kv, l)
	s.pollOnce()

	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	ev := s.events[1]
	if ev.Type != EventLedgerDelta || ev.Delta.Expenses != 1 {
		t.Fatalf("delta event = %+v", ev)
	}
	if !ev.Delta.TotalExpense.Equal(decimal.RequireFromString("4.5")) {
		t.Fatalf("expense delta = %s", ev.Delta.TotalExpense)
	}
	if s.pollCount != 3 {
		t.Fatalf("pollCount = %d, want 3", s.pollCount)
	}
}

func TestParseFilter(t *testing.T) {
	def := model.FilterSpec{Month: model.YearMonth{Year: 2024, Month: time.January}}

	tests := []struct {
		query   string
		want    model.FilterSpec
		wantErr bool
	}{
		{"", def, false},
		{"type=income", model.FilterSpec{Type: model.IncomeOnly, Month: def.Month}, false},
		{"category=Food&month=all", model.FilterSpec{Category: "Food"}, false},
		{"month=2023-12", model.FilterSpec{Month: model.YearMonth{Year: 2023, Month: time.December}}, false},
		{"category=Nope", def, true},
		{"month=2023-13", def, true},
		{"type=bogus", def, true},
	}
	for _, tt := range tests {
		q, _ := url.ParseQuery(tt.query)
		got, err := parseFilter(q, def)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseFilter(%q) err = %v, wantErr %v", tt.query, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseFilter(%q) = %+v, want %+v", tt.query, got, tt.want)
		}
	}
}

func TestHTTPEndpoints(t *testing.T) {
	s, _ := newTestService(t)
	s.pollOnce()
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	get := func(path string) *http.Response {
		t.Helper()
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		t.Cleanup(func() { _ = resp.Body.Close() })
		return resp
	}

	if resp := get("/healthz"); resp.StatusCode != http.StatusOK {
		t.Fatalf("/healthz status = %d", resp.StatusCode)
	}

	var st Status
	if err := json.NewDecoder(get("/v1/status").Body).Decode(&st); err != nil {
		t.Fatal(err)
	}
	if st.PollCount != 1 || st.Summary.Expenses != 2 || st.EventCount != 1 {
		t.Fatalf("status = %+v", st)
	}

	var view viewResponse
	if err := json.NewDecoder(get("/v1/view?type=expense&month=2024-01").Body).Decode(&view); err != nil {
		t.Fatal(err)
	}
	if len(view.Expenses) != 1 || view.Expenses[0].Desc != "Lunch" || len(view.Income) != 0 {
		t.Fatalf("view = %+v", view)
	}
	if !view.TotalExpense.Equal(decimal.RequireFromString("12.5")) || !view.TotalIncome.IsZero() {
		t.Fatalf("view totals = %s / %s", view.TotalExpense, view.TotalIncome)
	}

	if resp := get("/v1/view?category=Nope"); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad category status = %d, want 400", resp.StatusCode)
	}

	var events []Event
	if err := json.NewDecoder(get("/v1/events").Body).Decode(&events); err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].Type != EventSnapshot {
		t.Fatalf("events = %+v", events)
	}

	resp := get("/v1/export?format=csv")
	if got := resp.Header.Get("Content-Disposition"); got != `attachment; filename="expense-tracker-2024-01-20.csv"` {
		t.Fatalf("Content-Disposition = %q", got)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.HasPrefix(string(body), "Type,Description,Amount,Category,Date") ||
		!strings.Contains(string(body), "Expense,Taxi,30,Travel") {
		t.Fatalf("csv body = %q", body)
	}

	if resp := get("/v1/export?format=pdf"); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown format status = %d, want 400", resp.StatusCode)
	}
}

func TestStreamSendsCurrentSnapshot(t *testing.T) {
	s, _ := newTestService(t)
	s.pollOnce()
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/v1/stream", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Content-Type = %q", ct)
	}
	sc := bufio.NewScanner(resp.Body)
	if !sc.Scan() || sc.Text() != "event: snapshot" {
		t.Fatalf("first line = %q", sc.Text())
	}
	if !sc.Scan() || !strings.HasPrefix(sc.Text(), "data: ") {
		t.Fatalf("second line = %q", sc.Text())
	}
	var ev Event
	if err := json.Unmarshal([]byte(strings.TrimPrefix(sc.Text(), "data: ")), &ev); err != nil {
		t.Fatal(err)
	}
	if ev.Snapshot.Expenses != 2 {
		t.Fatalf("streamed snapshot = %+v", ev.Snapshot)
	}
}
