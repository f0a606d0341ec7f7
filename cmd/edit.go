package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/tally/internal/cli"

	"github.com/spf13/cobra"
)

var (
	flagEditDesc     string
	flagEditAmount   string
	flagEditCategory string
)

var editCmd = &cobra.Command{
	Use:   "edit <expense|income> <ref>",
	Short: "Change fields of a recorded transaction",
	Long: `Change fields of a recorded transaction. <ref> is a full ID, a unique
ID prefix of at least four characters, or #n for the n-th stored record.
Fields not given keep their current value; the date never changes.`,
	Example: `  tally edit expense 1a2b --amount 5.25
  tally edit income '#2' --category Freelance`,
	Args: cobra.ExactArgs(2),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().StringVar(&flagEditDesc, "desc", "", "New description")
	editCmd.Flags().StringVar(&flagEditAmount, "amount", "", "New amount")
	editCmd.Flags().StringVar(&flagEditCategory, "category", "", "New category")
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	if !f.Changed("desc") && !f.Changed("amount") && !f.Changed("category") {
		return errors.New("nothing to change: pass --desc, --amount or --category")
	}
	k, err := parseKindArg(args[0])
	if err != nil {
		return err
	}

	tr, closeFn, err := openTracker()
	if err != nil {
		return err
	}
	defer closeFn()

	id, err := tr.Resolve(k, args[1])
	if err != nil {
		return err
	}
	in, err := tr.BeginEdit(k, id)
	if err != nil {
		return err
	}
	if f.Changed("desc") {
		in.Description = flagEditDesc
	}
	if f.Changed("amount") {
		in.Amount = flagEditAmount
	}
	if f.Changed("category") {
		c, err := parseCategory(flagEditCategory)
		if err != nil {
			tr.CancelEdit()
			return err
		}
		in.Category = c
	}

	t, err := tr.Submit(k, in)
	if err != nil {
		tr.CancelEdit()
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  Updated %s %s  %s  %s (%s)\n",
		k, t.ShortID(), t.Description, cli.FormatAmount(tr.Currency(), t.Amount), t.Category)
	return nil
}
