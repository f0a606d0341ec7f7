package cmd

import (
	"fmt"

	"github.com/theirongolddev/tally/internal/cli"
	"github.com/theirongolddev/tally/internal/model"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List filtered expenses and income",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	tr, closeFn, err := openTracker()
	if err != nil {
		return err
	}
	defer closeFn()

	v := tr.View()
	cur := tr.Currency()
	out := cmd.OutOrStdout()

	for _, k := range []model.Kind{model.Expense, model.Income} {
		if !v.Filter.Type.Admits(k) {
			continue
		}
		fmt.Fprintln(out)
		rows := v.Rows(k)
		if len(rows) == 0 {
			fmt.Fprintf(out, "  %s\n", cli.RenderMuted(cli.EmptyMessage(k)))
			continue
		}

		// #n refers to the row's position in the unfiltered collection so
		// it stays stable under any filter.
		all := tr.Ledger().Collection(k)
		pos := make(map[string]int, len(all))
		for i, t := range all {
			pos[t.ID] = i + 1
		}

		table := cli.Table{
			Title:   fmt.Sprintf("%s  %s", k.Label(), cli.FormatAmount(cur, kindTotal(v, k))),
			Headers: []string{"#", "ID", "Description", "Amount", "Category", "Date"},
			Right:   []bool{true, false, false, true, false, false},
		}
		for _, t := range rows {
			table.Rows = append(table.Rows, []string{
				fmt.Sprintf("#%d", pos[t.ID]),
				t.ShortID(),
				cli.Truncate(t.Description, 40),
				cli.FormatAmount(cur, t.Amount),
				string(t.Category),
				cli.FormatDate(t.Date),
			})
		}
		fmt.Fprint(out, cli.RenderTable(table))
	}
	return nil
}

func kindTotal(v model.View, k model.Kind) decimal.Decimal {
	if k == model.Income {
		return v.Totals.Income
	}
	return v.Totals.Expense
}
