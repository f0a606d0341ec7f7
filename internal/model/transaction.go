// Package model defines the ledger domain types shared by every tally package.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one expense or income record. Its kind is implied by the
// Ledger collection that holds it.
type Transaction struct {
	ID          string
	Description string
	Amount      decimal.Decimal
	Category    Category
	Date        time.Time // creation instant, kept across edits
}

// Ledger is the full persisted state: both collections plus the active
// currency code.
type Ledger struct {
	Expenses []Transaction
	Income   []Transaction
	Currency string
}

// Collection returns the slice holding records of kind k.
func (l Ledger) Collection(k Kind) []Transaction {
	if k == Income {
		return l.Income
	}
	return l.Expenses
}

// WithCollection returns a copy of l with kind k's collection replaced.
func (l Ledger) WithCollection(k Kind, txs []Transaction) Ledger {
	if k == Income {
		l.Income = txs
	} else {
		l.Expenses = txs
	}
	return l
}

// Clone returns a deep copy of the collections.
func (l Ledger) Clone() Ledger {
	return Ledger{
		Expenses: append([]Transaction(nil), l.Expenses...),
		Income:   append([]Transaction(nil), l.Income...),
		Currency: l.Currency,
	}
}

// ShortID returns the first 8 characters of the transaction ID.
func (t Transaction) ShortID() string {
	if len(t.ID) > 8 {
		return t.ID[:8]
	}
	return t.ID
}
