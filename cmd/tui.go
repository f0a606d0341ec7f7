package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/theirongolddev/tally/internal/config"
	"github.com/theirongolddev/tally/internal/logging"
	"github.com/theirongolddev/tally/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var flagExportDir string

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&flagExportDir, "export-dir", "", "Default directory for exports (default: working directory)")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	tr, closeFn, err := openTracker()
	if err != nil {
		return err
	}
	defer closeFn()

	appLogger, closeLog, err := tuiLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	app := tui.NewApp(tr, tui.Options{
		Config:     cfg,
		SaveConfig: config.Save,
		ExportDir:  flagExportDir,
		Logger:     appLogger,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}

// tuiLogger keeps log output off the alt screen: discarded normally, or
// appended to tui.log in the data dir with --verbose.
func tuiLogger() (*slog.Logger, func(), error) {
	if !flagVerbose {
		return logging.Discard(), func() {}, nil
	}
	path := filepath.Join(config.DataDir(), "tui.log")
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, nil, fmt.Errorf("creating log dir: %w", err)
	}
	//nolint:gosec // log path derives from the user's data dir
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("opening tui log: %w", err)
	}
	return logging.New(f, true), func() { _ = f.Close() }, nil
}
