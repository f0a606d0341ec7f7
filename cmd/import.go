package cmd

import (
	"fmt"

	"github.com/theirongolddev/tally/internal/model"
	"github.com/theirongolddev/tally/internal/source"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file|dir>...",
	Short: "Import records from JSON or CSV exports",
	Long: `Import records from JSON or CSV exports. A directory is scanned for
expense-tracker-*.json and expense-tracker-*.csv files. Records whose ID is
already stored are skipped, so importing the same JSON export twice is a
no-op. CSV exports carry no IDs and are always appended.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	var files []source.DiscoveredFile
	for _, arg := range args {
		found, err := source.Discover(arg)
		if err != nil {
			return err
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		return fmt.Errorf("no exports found in %v", args)
	}

	tr, closeFn, err := openTracker()
	if err != nil {
		return err
	}
	defer closeFn()

	out := cmd.OutOrStdout()
	var merged model.Ledger
	for _, df := range files {
		res := source.ParseFile(df)
		if res.Err != nil {
			return fmt.Errorf("importing %s: %w", df.Path, res.Err)
		}
		if res.ParseErrors > 0 {
			logger.Warn("skipped malformed records", "file", df.Path, "count", res.ParseErrors)
		}
		fmt.Fprintf(out, "  %s: %d expenses, %d income", df.Path, len(res.Ledger.Expenses), len(res.Ledger.Income))
		if res.ParseErrors > 0 {
			fmt.Fprintf(out, " (%d malformed skipped)", res.ParseErrors)
		}
		fmt.Fprintln(out)
		merged.Expenses = append(merged.Expenses, res.Ledger.Expenses...)
		merged.Income = append(merged.Income, res.Ledger.Income...)
	}

	imported, err := tr.Import(merged)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "  Imported %d records, %d already present\n", imported.Added, imported.Skipped)
	return nil
}
