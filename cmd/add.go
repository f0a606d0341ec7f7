package cmd

import (
	"fmt"

	"github.com/theirongolddev/tally/internal/cli"
	"github.com/theirongolddev/tally/internal/ledger"

	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <expense|income> <description> <amount> <category>",
	Short: "Record a new expense or income",
	Example: `  tally add expense "Coffee" 4.50 Food
  tally add income "March salary" 52000 Salary`,
	Args: cobra.ExactArgs(4),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	k, err := parseKindArg(args[0])
	if err != nil {
		return err
	}
	cat, err := parseCategory(args[3])
	if err != nil {
		return err
	}

	tr, closeFn, err := openTracker()
	if err != nil {
		return err
	}
	defer closeFn()

	t, err := tr.Submit(k, ledger.Input{Description: args[1], Amount: args[2], Category: cat})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  Added %s %s  %s  %s (%s)\n",
		k, t.ShortID(), t.Description, cli.FormatAmount(tr.Currency(), t.Amount), t.Category)
	return nil
}
