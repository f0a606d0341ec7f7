// Package ledger implements the pure insert/update/delete operations over a
// transaction collection and the editor state machine that decides between
// insert and update.
//
// Every function takes the collection and editor by value and returns new
// values; inputs are never mutated.
package ledger

import (
	"strings"
	"time"

	"github.com/theirongolddev/tally/internal/model"
	"github.com/theirongolddev/tally/internal/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// newID is swapped in tests that need deterministic IDs.
var newID = uuid.NewString

// Input holds raw entry-form values.
type Input struct {
	Description string
	Amount      string
	Category    model.Category
}

// InputFrom pre-fills a form from an existing record.
func InputFrom(t model.Transaction) Input {
	return Input{
		Description: t.Description,
		Amount:      t.Amount.String(),
		Category:    t.Category,
	}
}

// Validate checks in against kind k's rules and returns the cleaned
// description and parsed amount.
func (in Input) Validate(k model.Kind) (string, decimal.Decimal, error) {
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return "", decimal.Zero, ErrEmptyDescription
	}
	amount, err := money.ParseAmount(in.Amount)
	if err != nil {
		return "", decimal.Zero, ErrInvalidAmount
	}
	if strings.TrimSpace(string(in.Category)) == "" {
		return "", decimal.Zero, ErrEmptyCategory
	}
	if !k.Allows(in.Category) {
		return "", decimal.Zero, ErrUnknownCategory
	}
	return desc, amount, nil
}

// Stamp normalizes a creation time the way records are stored: UTC,
// millisecond precision.
func Stamp(now time.Time) time.Time {
	return now.UTC().Truncate(time.Millisecond)
}

// Upsert inserts or updates a record of kind k.
//
// With ed Idle, or editing the other kind, a new record stamped with now is
// appended and ed is returned unchanged. With ed editing kind k the target
// record's description, amount and category are replaced; its ID and
// creation date are kept and the returned editor is Idle.
//
// A rejected input returns txs and ed as given along with an error matching
// ErrValidation.
func Upsert(txs []model.Transaction, k model.Kind, in Input, ed Editor, now time.Time) ([]model.Transaction, Editor, error) {
	desc, amount, err := in.Validate(k)
	if err != nil {
		return txs, ed, err
	}

	id, editing := ed.Targets(k)
	if !editing {
		out := make([]model.Transaction, len(txs), len(txs)+1)
		copy(out, txs)
		out = append(out, model.Transaction{
			ID:          newID(),
			Description: desc,
			Amount:      amount,
			Category:    in.Category,
			Date:        Stamp(now),
		})
		return out, ed, nil
	}

	idx := IndexOf(txs, id)
	if idx < 0 {
		return txs, Idle(), ErrNotFound
	}
	out := append([]model.Transaction(nil), txs...)
	orig := out[idx]
	out[idx] = model.Transaction{
		ID:          orig.ID,
		Description: desc,
		Amount:      amount,
		Category:    in.Category,
		Date:        orig.Date,
	}
	return out, Idle(), nil
}

// RemoveAt deletes the record at raw index i.
func RemoveAt(txs []model.Transaction, i int) ([]model.Transaction, error) {
	if i < 0 || i >= len(txs) {
		return txs, ErrIndexOutOfRange
	}
	out := make([]model.Transaction, 0, len(txs)-1)
	out = append(out, txs[:i]...)
	return append(out, txs[i+1:]...), nil
}

// Remove deletes the record with the given ID.
func Remove(txs []model.Transaction, id string) ([]model.Transaction, error) {
	idx := IndexOf(txs, id)
	if idx < 0 {
		return txs, ErrNotFound
	}
	return RemoveAt(txs, idx)
}

// BeginEditAt returns the record at raw index i for pre-filling a form and
// an editor targeting it. i must index the stored collection, never a
// filtered view.
func BeginEditAt(txs []model.Transaction, k model.Kind, i int) (model.Transaction, Editor, error) {
	if i < 0 || i >= len(txs) {
		return model.Transaction{}, Idle(), ErrIndexOutOfRange
	}
	return txs[i], Editing(k, txs[i].ID), nil
}

// BeginEdit is BeginEditAt addressed by ID.
func BeginEdit(txs []model.Transaction, k model.Kind, id string) (model.Transaction, Editor, error) {
	idx := IndexOf(txs, id)
	if idx < 0 {
		return model.Transaction{}, Idle(), ErrNotFound
	}
	return BeginEditAt(txs, k, idx)
}

// IndexOf returns the raw index of the record with the given ID, or -1.
func IndexOf(txs []model.Transaction, id string) int {
	for i, t := range txs {
		if t.ID == id {
			return i
		}
	}
	return -1
}
