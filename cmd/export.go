package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/theirongolddev/tally/internal/export"

	"github.com/spf13/cobra"
)

var (
	flagExportFormat string
	flagExportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the filtered view as CSV, JSON, text or XLSX",
	Example: `  tally export --format csv
  tally export -m all --format xlsx -o ledger.xlsx
  tally export --format json -o - | jq .`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportFormat, "format", "f", "csv", "Export format: csv, json, text, xlsx")
	exportCmd.Flags().StringVarP(&flagExportOut, "output", "o", "", "Output path, - for stdout (default expense-tracker-<date>.<ext>)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	f, err := export.ParseFormat(flagExportFormat)
	if err != nil {
		return err
	}

	tr, closeFn, err := openTracker()
	if err != nil {
		return err
	}
	defer closeFn()

	now := time.Now()
	v := tr.View()

	if flagExportOut == "-" {
		return export.Write(cmd.OutOrStdout(), f, v, tr.Currency(), now)
	}

	path := flagExportOut
	if path == "" {
		path = export.Filename(now, f)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	if err := export.Write(out, f, v, tr.Currency(), now); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing export file: %w", err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "  Exported %d expenses and %d income records to %s\n",
		len(v.Expenses), len(v.Income), path)
	return nil
}
