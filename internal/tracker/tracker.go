// Package tracker owns the running application state: the ledger, the
// editor, the active filter and currency. Every mutation is persisted
// before it becomes visible; a failed save leaves memory untouched.
package tracker

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/theirongolddev/tally/internal/ledger"
	"github.com/theirongolddev/tally/internal/model"
	"github.com/theirongolddev/tally/internal/money"
	"github.com/theirongolddev/tally/internal/pipeline"
	"github.com/theirongolddev/tally/internal/store"

	"github.com/google/uuid"
)

// Options tunes a Tracker. The zero value is usable.
type Options struct {
	Logger *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
	// AllMonths starts and resets the filter with no month restriction
	// instead of the current month.
	AllMonths bool
	// DefaultCurrency is the currency of a ledger that has never been
	// saved. It is applied in memory only; the store is untouched until
	// the first mutation.
	DefaultCurrency string
}

// Tracker is safe for concurrent use.
type Tracker struct {
	mu     sync.Mutex
	kv     store.KV
	log    *slog.Logger
	now    func() time.Time
	opts   Options
	ledger model.Ledger
	editor ledger.Editor
	filter model.FilterSpec
}

// New loads the ledger from kv and returns a tracker with an idle editor
// and the default filter.
func New(kv store.KV, opts Options) *Tracker {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	t := &Tracker{
		kv:   kv,
		log:  opts.Logger,
		now:  opts.Now,
		opts: opts,
	}
	t.ledger = t.load()
	t.filter = t.defaultFilter()
	t.log.Debug("ledger loaded",
		"expenses", len(t.ledger.Expenses),
		"income", len(t.ledger.Income),
		"currency", t.ledger.Currency)
	return t
}

func (t *Tracker) defaultFilter() model.FilterSpec {
	if t.opts.AllMonths {
		return model.FilterSpec{}
	}
	return model.DefaultFilter(t.now())
}

// Reload re-reads the ledger from the store, dropping any in-flight edit.
// The filter is kept.
func (t *Tracker) Reload() {
	l := t.load()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ledger = l
	t.editor = ledger.Idle()
}

func (t *Tracker) load() model.Ledger {
	l := store.LoadLedger(t.kv, t.log)
	if t.opts.DefaultCurrency == "" {
		return l
	}
	if _, stored, err := t.kv.Get(store.LedgerKey); err != nil || stored {
		return l
	}
	c, err := money.Lookup(t.opts.DefaultCurrency)
	if err != nil {
		t.log.Warn("ignoring default currency", "currency", t.opts.DefaultCurrency, "err", err)
		return l
	}
	l.Currency = c.Code
	return l
}

// commit persists next and, only if that succeeds, installs it along with
// ed. Callers hold t.mu.
func (t *Tracker) commit(next model.Ledger, ed ledger.Editor) error {
	if err := store.SaveLedger(t.kv, next); err != nil {
		return err
	}
	t.ledger = next
	t.editor = ed
	return nil
}

// Submit commits the entry form for kind k: an update if an edit of k is
// in flight, otherwise an insert. It returns the stored record.
func (t *Tracker) Submit(k model.Kind, in ledger.Input) (model.Transaction, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	target, updating := t.editor.Targets(k)
	txs, ed, err := ledger.Upsert(t.ledger.Collection(k), k, in, t.editor, t.now())
	if err != nil {
		// A vanished edit target still resets the editor.
		t.editor = ed
		return model.Transaction{}, err
	}
	if err := t.commit(t.ledger.WithCollection(k, txs), ed); err != nil {
		return model.Transaction{}, err
	}

	saved := txs[len(txs)-1]
	if updating {
		saved = txs[ledger.IndexOf(txs, target)]
	}
	t.log.Debug("transaction saved", "kind", k, "id", saved.ID, "updated", updating)
	return saved, nil
}

// ImportResult counts the outcome of an Import.
type ImportResult struct {
	Added   int
	Skipped int // already present by ID
}

// Import appends every record of in whose ID is not already stored under
// the same kind, in order, as one persisted change. A record whose ID is
// taken by the other kind is added under a fresh ID. The currency and any
// in-flight edit are kept.
func (t *Tracker) Import(in model.Ledger) (ImportResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var res ImportResult
	next := t.ledger.Clone()
	owner := make(map[string]model.Kind, len(next.Expenses)+len(next.Income))
	for _, k := range []model.Kind{model.Expense, model.Income} {
		for _, tx := range next.Collection(k) {
			owner[tx.ID] = k
		}
	}
	for _, k := range []model.Kind{model.Expense, model.Income} {
		txs := next.Collection(k)
		for _, tx := range in.Collection(k) {
			if ok, taken := owner[tx.ID]; taken {
				if ok == k {
					res.Skipped++
					continue
				}
				tx.ID = uuid.NewString()
			}
			owner[tx.ID] = k
			txs = append(txs, tx)
			res.Added++
		}
		next = next.WithCollection(k, txs)
	}
	if res.Added == 0 {
		return res, nil
	}
	if err := t.commit(next, t.editor); err != nil {
		return ImportResult{}, err
	}
	t.log.Debug("ledger imported", "added", res.Added, "skipped", res.Skipped)
	return res, nil
}

// BeginEdit starts editing record id of kind k, abandoning any other edit,
// and returns the values to pre-fill the form with.
func (t *Tracker) BeginEdit(k model.Kind, id string) (ledger.Input, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	tx, ed, err := ledger.BeginEdit(t.ledger.Collection(k), k, id)
	if err != nil {
		return ledger.Input{}, err
	}
	t.editor = ed
	return ledger.InputFrom(tx), nil
}

// BeginEditAt is BeginEdit addressed by raw stored index.
func (t *Tracker) BeginEditAt(k model.Kind, i int) (ledger.Input, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	tx, ed, err := ledger.BeginEditAt(t.ledger.Collection(k), k, i)
	if err != nil {
		return ledger.Input{}, err
	}
	t.editor = ed
	return ledger.InputFrom(tx), nil
}

// CancelEdit abandons any in-flight edit.
func (t *Tracker) CancelEdit() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.editor = t.editor.Cancel()
}

// Delete removes record id of kind k. An edit targeting it is cancelled.
func (t *Tracker) Delete(k model.Kind, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.deleteLocked(k, id)
}

// DeleteAt removes the record at raw stored index i.
func (t *Tracker) DeleteAt(k model.Kind, i int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	coll := t.ledger.Collection(k)
	if i < 0 || i >= len(coll) {
		return fmt.Errorf("deleting %s #%d of %d: %w", k, i+1, len(coll), ledger.ErrIndexOutOfRange)
	}
	return t.deleteLocked(k, coll[i].ID)
}

func (t *Tracker) deleteLocked(k model.Kind, id string) error {
	txs, err := ledger.Remove(t.ledger.Collection(k), id)
	if err != nil {
		return err
	}
	if err := t.commit(t.ledger.WithCollection(k, txs), t.editor.Forget(k, id)); err != nil {
		return err
	}
	t.log.Debug("transaction deleted", "kind", k, "id", id)
	return nil
}

// Resolve maps a user reference (ID, ID prefix or "#n") to a record ID.
func (t *Tracker) Resolve(k model.Kind, ref string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	coll := t.ledger.Collection(k)
	i, err := ledger.Resolve(coll, ref)
	if err != nil {
		return "", err
	}
	return coll[i].ID, nil
}

// ApplyFilter replaces the active filter.
func (t *Tracker) ApplyFilter(spec model.FilterSpec) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.filter = spec
}

// ResetFilter restores the startup filter.
func (t *Tracker) ResetFilter() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.filter = t.defaultFilter()
}

// Filter returns the active filter.
func (t *Tracker) Filter() model.FilterSpec {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.filter
}

// SetCurrency switches and persists the display currency.
func (t *Tracker) SetCurrency(code string) error {
	c, err := money.Lookup(code)
	if err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	next := t.ledger
	next.Currency = c.Code
	return t.commit(next, t.editor)
}

// Currency returns the active display currency.
func (t *Tracker) Currency() money.Currency {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, err := money.Lookup(t.ledger.Currency)
	if err != nil {
		return money.Default()
	}
	return c
}

// View filters and aggregates the ledger with the active filter.
func (t *Tracker) View() model.View {
	t.mu.Lock()
	defer t.mu.Unlock()
	return pipeline.BuildView(t.ledger, t.filter)
}

// ViewWith is View for an explicit filter, leaving the active one alone.
func (t *Tracker) ViewWith(spec model.FilterSpec) model.View {
	t.mu.Lock()
	defer t.mu.Unlock()
	return pipeline.BuildView(t.ledger, spec)
}

// Ledger returns a copy of the stored state.
func (t *Tracker) Ledger() model.Ledger {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ledger.Clone()
}

// Editor returns the editor state.
func (t *Tracker) Editor() ledger.Editor {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.editor
}
