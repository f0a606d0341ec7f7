// Package daemon provides the long-running read-only ledger service with
// HTTP and SSE endpoints.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/theirongolddev/tally/internal/export"
	"github.com/theirongolddev/tally/internal/model"
	"github.com/theirongolddev/tally/internal/tracker"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Config controls the daemon runtime behavior.
type Config struct {
	Addr         string
	Interval     time.Duration
	EventsBuffer int
	// Filter is the view the snapshot and events are computed over.
	Filter model.FilterSpec
	// DBPath is reported in /v1/status.
	DBPath string
}

// Snapshot is a compact ledger state for status/event payloads.
type Snapshot struct {
	At           time.Time       `json:"at"`
	Filter       string          `json:"filter"`
	Currency     string          `json:"currency"`
	Expenses     int             `json:"expenses"`
	Income       int             `json:"income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	TotalIncome  decimal.Decimal `json:"total_income"`
	Balance      decimal.Decimal `json:"balance"`
}

// Delta captures snapshot deltas between polls.
type Delta struct {
	Expenses        int             `json:"expenses"`
	Income          int             `json:"income"`
	TotalExpense    decimal.Decimal `json:"total_expense"`
	TotalIncome     decimal.Decimal `json:"total_income"`
	Balance         decimal.Decimal `json:"balance"`
	CurrencyChanged bool            `json:"currency_changed,omitempty"`
}

func (d Delta) isZero() bool {
	return d.Expenses == 0 &&
		d.Income == 0 &&
		d.TotalExpense.IsZero() &&
		d.TotalIncome.IsZero() &&
		d.Balance.IsZero() &&
		!d.CurrencyChanged
}

// Event is emitted whenever the ledger snapshot changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Event types.
const (
	EventSnapshot    = "snapshot"
	EventLedgerDelta = "ledger_delta"
)

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	DBPath          string    `json:"db_path,omitempty"`
	Summary         Snapshot  `json:"summary"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg Config
	tr  *tracker.Tracker
	log *slog.Logger
	now func() time.Time

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	hasSnapshot bool
	snapshot    Snapshot
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service reading through tr.
func New(tr *tracker.Tracker, cfg Config, log *slog.Logger) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 10 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		cfg:       cfg,
		tr:        tr,
		log:       log,
		now:       time.Now,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/status", s.handleStatus)
	mux.HandleFunc("GET /v1/view", s.handleView)
	mux.HandleFunc("GET /v1/events", s.handleEvents)
	mux.HandleFunc("GET /v1/stream", s.handleStream)
	mux.HandleFunc("GET /v1/export", s.handleExport)
	return mux
}

// Run serves the HTTP API and polls the store until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	// Seed initial snapshot so status is useful immediately.
	s.pollOnce()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("daemon http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				s.pollOnce()
			}
		}
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Service) pollOnce() {
	s.tr.Reload()
	now := s.now()
	snap := snapshotFromView(s.tr.ViewWith(s.cfg.Filter), s.tr.Currency().Code, now)

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.lastPollAt = now
	s.pollCount++

	if !prevExists {
		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      EventSnapshot,
			Timestamp: now,
			Snapshot:  snap,
		}
		publish = true
	} else if delta := diffSnapshots(prev, snap); !delta.isZero() {
		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      EventLedgerDelta,
			Timestamp: now,
			Snapshot:  snap,
			Delta:     delta,
		}
		publish = true
	}
	s.mu.Unlock()

	if publish {
		s.log.Debug("ledger changed", "event", ev.Type, "id", ev.ID,
			"expenses", snap.Expenses, "income", snap.Income)
		s.publishEvent(ev)
	}
}

func snapshotFromView(v model.View, currency string, at time.Time) Snapshot {
	return Snapshot{
		At:           at,
		Filter:       v.Filter.Describe(),
		Currency:     currency,
		Expenses:     len(v.Expenses),
		Income:       len(v.Income),
		TotalExpense: v.Totals.Expense,
		TotalIncome:  v.Totals.Income,
		Balance:      v.Totals.Balance,
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Expenses:        curr.Expenses - prev.Expenses,
		Income:          curr.Income - prev.Income,
		TotalExpense:    curr.TotalExpense.Sub(prev.TotalExpense),
		TotalIncome:     curr.TotalIncome.Sub(prev.TotalIncome),
		Balance:         curr.Balance.Sub(prev.Balance),
		CurrencyChanged: curr.Currency != prev.Currency,
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		DBPath:          s.cfg.DBPath,
		Summary:         s.snapshot,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

// parseFilter overlays query parameters on def. "all" clears a dimension.
func parseFilter(q url.Values, def model.FilterSpec) (model.FilterSpec, error) {
	spec := def
	if v := q.Get("type"); v != "" {
		tf, err := model.ParseTypeFilter(v)
		if err != nil {
			return spec, err
		}
		spec.Type = tf
	}
	if v := q.Get("category"); v != "" {
		switch {
		case strings.EqualFold(v, "all"):
			spec.Category = ""
		case slices.Contains(model.AllCategories(), model.Category(v)):
			spec.Category = model.Category(v)
		default:
			return spec, fmt.Errorf("unknown category %q", v)
		}
	}
	if v := q.Get("month"); v != "" {
		if strings.EqualFold(v, "all") {
			spec.Month = model.YearMonth{}
		} else {
			ym, err := model.ParseYearMonth(v)
			if err != nil {
				return spec, err
			}
			spec.Month = ym
		}
	}
	return spec, nil
}

type viewRecord struct {
	ID       string          `json:"id"`
	Desc     string          `json:"desc"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
	Date     time.Time       `json:"date"`
}

type categoryTotal struct {
	Category string          `json:"category"`
	Sum      decimal.Decimal `json:"sum"`
}

type viewResponse struct {
	Filter            string          `json:"filter"`
	Currency          string          `json:"currency"`
	Expenses          []viewRecord    `json:"expenses"`
	Income            []viewRecord    `json:"income"`
	TotalExpense      decimal.Decimal `json:"total_expense"`
	TotalIncome       decimal.Decimal `json:"total_income"`
	Balance           decimal.Decimal `json:"balance"`
	ExpenseByCategory []categoryTotal `json:"expense_by_category"`
	IncomeByCategory  []categoryTotal `json:"income_by_category"`
}

func viewRecords(txs []model.Transaction) []viewRecord {
	out := make([]viewRecord, len(txs))
	for i, t := range txs {
		out[i] = viewRecord{ID: t.ID, Desc: t.Description, Amount: t.Amount, Category: string(t.Category), Date: t.Date}
	}
	return out
}

func categoryTotals(sums []model.CategorySum) []categoryTotal {
	out := make([]categoryTotal, len(sums))
	for i, cs := range sums {
		out[i] = categoryTotal{Category: string(cs.Category), Sum: cs.Sum}
	}
	return out
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.snapshotStatus())
}

func (s *Service) handleView(w http.ResponseWriter, r *http.Request) {
	spec, err := parseFilter(r.URL.Query(), s.cfg.Filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	v := s.tr.ViewWith(spec)
	writeJSON(w, viewResponse{
		Filter:            spec.Describe(),
		Currency:          s.tr.Currency().Code,
		Expenses:          viewRecords(v.Expenses),
		Income:            viewRecords(v.Income),
		TotalExpense:      v.Totals.Expense,
		TotalIncome:       v.Totals.Income,
		Balance:           v.Totals.Balance,
		ExpenseByCategory: categoryTotals(v.ExpenseByCategory),
		IncomeByCategory:  categoryTotals(v.IncomeByCategory),
	})
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, events)
}

func (s *Service) handleExport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := export.CSV
	if v := q.Get("format"); v != "" {
		parsed, err := export.ParseFormat(v)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f = parsed
	}
	spec, err := parseFilter(q, s.cfg.Filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	now := s.now()
	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(now, f)))
	if err := export.Write(w, f, s.tr.ViewWith(spec), s.tr.Currency(), now); err != nil {
		s.log.Warn("export failed", "format", f, "err", err)
	}
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	current := Event{
		Type:      EventSnapshot,
		Timestamp: s.now(),
		Snapshot:  s.snapshotStatus().Summary,
	}
	writeSSE(w, current)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if ev.ID > 0 {
		_, _ = fmt.Fprintf(w, "id: %d\n", ev.ID)
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
