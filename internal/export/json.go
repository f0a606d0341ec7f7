package export

import (
	"encoding/json"
	"io"
	"time"

	"github.com/theirongolddev/tally/internal/model"
	"github.com/theirongolddev/tally/internal/money"
)

type jsonRecord struct {
	ID       string      `json:"id"`
	Desc     string      `json:"desc"`
	Amount   json.Number `json:"amount"`
	Category string      `json:"category"`
	Date     string      `json:"date"`
}

type jsonExport struct {
	Expenses   []jsonRecord `json:"expenses"`
	Income     []jsonRecord `json:"income"`
	Currency   string       `json:"currency"`
	ExportedAt string       `json:"exportedAt"`
}

func jsonRecords(txs []model.Transaction) []jsonRecord {
	out := make([]jsonRecord, len(txs))
	for i, t := range txs {
		out[i] = jsonRecord{
			ID:       t.ID,
			Desc:     t.Description,
			Amount:   json.Number(t.Amount.String()),
			Category: string(t.Category),
			Date:     iso(t.Date),
		}
	}
	return out
}

// WriteJSON writes the filtered collections, currency code and export time
// as indented JSON.
func WriteJSON(w io.Writer, v model.View, cur money.Currency, now time.Time) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonExport{
		Expenses:   jsonRecords(v.Expenses),
		Income:     jsonRecords(v.Income),
		Currency:   cur.Code,
		ExportedAt: iso(now),
	})
}
