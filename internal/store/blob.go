package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/theirongolddev/tally/internal/model"
	"github.com/theirongolddev/tally/internal/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerKey is the key the whole ledger is stored under.
const LedgerKey = "expenseTrackerData"

// DateLayout is the stored timestamp format: UTC ISO-8601 with milliseconds.
const DateLayout = "2006-01-02T15:04:05.000Z"

type record struct {
	ID       string      `json:"id,omitempty"`
	Desc     string      `json:"desc"`
	Amount   json.Number `json:"amount"`
	Category string      `json:"category"`
	Date     string      `json:"date"`
}

type blob struct {
	Expenses []record `json:"expenses"`
	Income   []record `json:"income"`
	Currency string   `json:"currency"`
}

// LoadLedger reads the ledger from kv. It never fails: a missing or
// unreadable blob yields an empty ledger in the default currency, and
// individual records that don't decode are dropped with a warning.
// Records written without an ID are assigned one.
func LoadLedger(kv KV, logger *slog.Logger) model.Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	empty := model.Ledger{
		Expenses: []model.Transaction{},
		Income:   []model.Transaction{},
		Currency: money.DefaultCode,
	}

	raw, ok, err := kv.Get(LedgerKey)
	if err != nil {
		logger.Warn("reading ledger", "err", err)
		return empty
	}
	if !ok {
		return empty
	}

	var b blob
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()
	if err := dec.Decode(&b); err != nil {
		logger.Warn("ledger blob is not valid JSON, starting empty", "err", err)
		return empty
	}

	// IDs are unique across both kinds.
	seen := make(map[string]struct{}, len(b.Expenses)+len(b.Income))
	l := model.Ledger{
		Expenses: decodeRecords(b.Expenses, model.Expense, seen, logger),
		Income:   decodeRecords(b.Income, model.Income, seen, logger),
		Currency: money.DefaultCode,
	}
	if c, err := money.Lookup(b.Currency); err == nil {
		l.Currency = c.Code
	} else if b.Currency != "" {
		logger.Warn("unknown stored currency, using default", "currency", b.Currency, "default", money.DefaultCode)
	}
	return l
}

func decodeRecords(recs []record, k model.Kind, seen map[string]struct{}, logger *slog.Logger) []model.Transaction {
	out := make([]model.Transaction, 0, len(recs))
	for i, r := range recs {
		t, err := r.transaction(k)
		if err != nil {
			logger.Warn("dropping stored record", "kind", k, "index", i, "err", err)
			continue
		}
		if _, dup := seen[t.ID]; dup || t.ID == "" {
			t.ID = uuid.NewString()
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out
}

// ParseRecord validates one serialized record of kind k the way stored
// records are validated: non-empty description, positive amount, a
// category allowed for k and an RFC 3339 date. The ID is kept as given and
// the date is truncated to the stored millisecond precision.
func ParseRecord(k model.Kind, id, desc, amount, category, date string) (model.Transaction, error) {
	return record{ID: id, Desc: desc, Amount: json.Number(amount), Category: category, Date: date}.transaction(k)
}

func (r record) transaction(k model.Kind) (model.Transaction, error) {
	desc := strings.TrimSpace(r.Desc)
	if desc == "" {
		return model.Transaction{}, fmt.Errorf("empty description")
	}
	amount, err := decimal.NewFromString(r.Amount.String())
	if err != nil || !amount.IsPositive() {
		return model.Transaction{}, fmt.Errorf("bad amount %q", r.Amount)
	}
	cat := model.Category(r.Category)
	if !k.Allows(cat) {
		return model.Transaction{}, fmt.Errorf("category %q not valid for %s", r.Category, k)
	}
	date, err := time.Parse(time.RFC3339Nano, r.Date)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("bad date %q: %w", r.Date, err)
	}
	return model.Transaction{
		ID:          r.ID,
		Description: desc,
		Amount:      amount,
		Category:    cat,
		Date:        date.UTC().Truncate(time.Millisecond),
	}, nil
}

// SaveLedger writes l to kv, replacing whatever was stored.
func SaveLedger(kv KV, l model.Ledger) error {
	b := blob{
		Expenses: encodeRecords(l.Expenses),
		Income:   encodeRecords(l.Income),
		Currency: l.Currency,
	}
	if b.Currency == "" {
		b.Currency = money.DefaultCode
	}
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encoding ledger: %w", err)
	}
	if err := kv.Put(LedgerKey, data); err != nil {
		return fmt.Errorf("saving ledger: %w", err)
	}
	return nil
}

func encodeRecords(txs []model.Transaction) []record {
	out := make([]record, len(txs))
	for i, t := range txs {
		out[i] = record{
			ID:       t.ID,
			Desc:     t.Description,
			Amount:   json.Number(t.Amount.String()),
			Category: string(t.Category),
			Date:     t.Date.UTC().Format(DateLayout),
		}
	}
	return out
}
