package cmd

import (
	"fmt"

	"github.com/theirongolddev/tally/internal/cli"
	"github.com/theirongolddev/tally/internal/model"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Totals and per-category breakdowns for the current filter",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	tr, closeFn, err := openTracker()
	if err != nil {
		return err
	}
	defer closeFn()

	v := tr.View()
	cur := tr.Currency()
	out := cmd.OutOrStdout()

	fmt.Fprintln(out)
	fmt.Fprintln(out, cli.RenderTitle("TALLY  "+v.Filter.Describe()))
	fmt.Fprintln(out)

	rows := [][]string{
		{"Total Expenses", cli.FormatAmount(cur, v.Totals.Expense), fmt.Sprint(len(v.Expenses))},
		{"Total Income", cli.FormatAmount(cur, v.Totals.Income), fmt.Sprint(len(v.Income))},
		{"---"},
		{"Balance", cli.RenderBalance(cur, v.Totals.Balance), ""},
	}
	fmt.Fprint(out, cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Amount (" + cur.Code + ")", "Records"},
		Rows:    rows,
	}))

	for _, k := range []model.Kind{model.Expense, model.Income} {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "  %s by category\n", k.Label())
		fmt.Fprint(out, cli.RenderCategoryBars(k, v.Breakdown(k), cur, 24))
	}
	return nil
}
