package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:     "rm <expense|income> <ref>...",
	Aliases: []string{"delete"},
	Short:   "Delete transactions by ID, ID prefix or #n",
	Args:    cobra.MinimumNArgs(2),
	RunE:    runRm,
}

func init() {
	rootCmd.AddCommand(rmCmd)
}

func runRm(cmd *cobra.Command, args []string) error {
	k, err := parseKindArg(args[0])
	if err != nil {
		return err
	}

	tr, closeFn, err := openTracker()
	if err != nil {
		return err
	}
	defer closeFn()

	// Resolve every ref first so #n positions refer to the same ledger.
	ids := make([]string, 0, len(args)-1)
	for _, ref := range args[1:] {
		id, err := tr.Resolve(k, ref)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}
	for _, id := range ids {
		if err := tr.Delete(k, id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  Deleted %s %.8s\n", k, id)
	}
	return nil
}
