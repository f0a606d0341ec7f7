package cmd

import (
	"fmt"

	"github.com/theirongolddev/tally/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Fprintln(out, "  Status: loaded")
	} else {
		fmt.Fprintln(out, "  Status: using defaults (no config file)")
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "  [General]")
	fmt.Fprintf(out, "    Database:         %s\n", cfg.DBPath())
	fmt.Fprintf(out, "    Default currency: %s\n", cfg.General.DefaultCurrency)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "  [Appearance]")
	fmt.Fprintf(out, "    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "  [Filter]")
	fmt.Fprintf(out, "    Current month by default: %v\n", cfg.Filter.CurrentMonthDefault)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "  [Daemon]")
	fmt.Fprintf(out, "    Address:       %s\n", cfg.Daemon.Addr)
	fmt.Fprintf(out, "    Interval:      %ds\n", cfg.Daemon.IntervalSec)
	fmt.Fprintf(out, "    Events buffer: %d\n", cfg.Daemon.EventsBuffer)
	fmt.Fprintln(out)

	fmt.Fprintf(out, "  Environment overrides: %s, %s, %s\n", config.EnvConfigDir, config.EnvDB, config.EnvTheme)
	fmt.Fprintln(out, "  Run `tally setup` to reconfigure.")
	return nil
}
