package export

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/theirongolddev/tally/internal/model"
	"github.com/theirongolddev/tally/internal/money"
)

// WriteText writes a human-readable report. Times are shown in local time;
// amounts are raw decimals prefixed with the currency symbol.
func WriteText(w io.Writer, v model.View, cur money.Currency, now time.Time) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "EXPENSE TRACKER DATA EXPORT")
	fmt.Fprintln(bw)
	fmt.Fprintf(bw, "Generated on: %s\n", now.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(bw, "Currency: %s\n", cur.Code)
	fmt.Fprintln(bw)

	writeSection(bw, "EXPENSES", v.Expenses, cur)
	fmt.Fprintln(bw)
	writeSection(bw, "INCOME", v.Income, cur)

	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "=== SUMMARY ===")
	fmt.Fprintf(bw, "Total Expenses: %s\n", cur.Raw(v.Totals.Expense))
	fmt.Fprintf(bw, "Total Income: %s\n", cur.Raw(v.Totals.Income))
	fmt.Fprintf(bw, "Balance: %s\n", cur.Raw(v.Totals.Balance))

	return bw.Flush()
}

func writeSection(w io.Writer, title string, txs []model.Transaction, cur money.Currency) {
	fmt.Fprintf(w, "=== %s ===\n", title)
	for _, t := range txs {
		fmt.Fprintf(w, "- %s: %s (%s, %s)\n",
			t.Description, cur.Raw(t.Amount), t.Category, t.Date.Local().Format("2006-01-02"))
	}
}
