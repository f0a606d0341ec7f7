package export

import (
	"encoding/csv"
	"io"

	"github.com/theirongolddev/tally/internal/model"
)

var csvHeader = []string{"Type", "Description", "Amount", "Category", "Date"}

// WriteCSV writes one row per record, expenses first. Amounts are plain
// decimals and dates are UTC instants.
func WriteCSV(w io.Writer, v model.View) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, k := range []model.Kind{model.Expense, model.Income} {
		for _, t := range v.Rows(k) {
			row := []string{k.Label(), t.Description, t.Amount.String(), string(t.Category), iso(t.Date)}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
