package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/tally/internal/model"

	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the fixed categories for expenses and income",
	Args:  cobra.NoArgs,
	RunE:  runCategories,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	for _, k := range []model.Kind{model.Expense, model.Income} {
		names := make([]string, 0, len(k.Categories()))
		for _, c := range k.Categories() {
			names = append(names, string(c))
		}
		fmt.Fprintf(out, "  %-8s %s\n", k.Label()+":", strings.Join(names, ", "))
	}
	return nil
}
