package cmd

import (
	"fmt"

	"github.com/theirongolddev/tally/internal/money"

	"github.com/spf13/cobra"
)

var currencyCmd = &cobra.Command{
	Use:   "currency [CODE]",
	Short: "Show or set the ledger currency",
	Long:  "Show or set the ledger currency. Amounts are not converted; only the display changes.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCurrency,
}

func init() {
	rootCmd.AddCommand(currencyCmd)
}

func runCurrency(cmd *cobra.Command, args []string) error {
	tr, closeFn, err := openTracker()
	if err != nil {
		return err
	}
	defer closeFn()

	out := cmd.OutOrStdout()
	if len(args) == 0 {
		active := tr.Currency()
		for _, c := range money.Currencies() {
			marker := " "
			if c.Code == active.Code {
				marker = "*"
			}
			fmt.Fprintf(out, "  %s %s  %s\n", marker, c.Code, c.Symbol)
		}
		return nil
	}

	if err := tr.SetCurrency(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(out, "  Currency set to %s\n", tr.Currency().Code)
	return nil
}
