package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/tally/internal/cli"
	"github.com/theirongolddev/tally/internal/config"
	"github.com/theirongolddev/tally/internal/tui/theme"

	"github.com/spf13/cobra"
)

var themeCmd = &cobra.Command{
	Use:   "theme [toggle|NAME]",
	Short: "Show, toggle light/dark, or set the color theme",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTheme,
}

func init() {
	rootCmd.AddCommand(themeCmd)
}

func runTheme(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if len(args) == 0 {
		for _, name := range theme.Names() {
			marker := " "
			if name == theme.Active.Name {
				marker = "*"
			}
			fmt.Fprintf(out, "  %s %s\n", marker, name)
		}
		return nil
	}

	var next theme.Theme
	switch arg := strings.ToLower(args[0]); {
	case arg == "toggle":
		next = theme.Toggle(theme.Active)
	case theme.Known(arg):
		next = theme.ByName(arg)
	default:
		return fmt.Errorf("unknown theme %q (known: %s)", args[0], strings.Join(theme.Names(), ", "))
	}

	cfg.Appearance.Theme = next.Name
	if err := config.Save(cfg); err != nil {
		return err
	}
	theme.Active = next
	cli.ApplyTheme(next)
	fmt.Fprintf(out, "  Theme set to %s\n", next.Name)
	return nil
}
