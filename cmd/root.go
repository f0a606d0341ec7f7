// Package cmd implements the tally CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/theirongolddev/tally/internal/cli"
	"github.com/theirongolddev/tally/internal/config"
	"github.com/theirongolddev/tally/internal/logging"
	"github.com/theirongolddev/tally/internal/model"
	"github.com/theirongolddev/tally/internal/store"
	"github.com/theirongolddev/tally/internal/tracker"
	"github.com/theirongolddev/tally/internal/tui/theme"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	flagDB        string
	flagEphemeral bool
	flagType      string
	flagCategory  string
	flagMonth     string
	flagVerbose   bool
)

// Resolved by the root PersistentPreRunE.
var (
	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tally",
	Short: "Personal expense and income tracker",
	Long:  "Record expenses and income, filter and summarize them, and export the result.",
	Args:  cobra.NoArgs,
	// Filter and lookup errors are user input problems; usage adds noise.
	SilenceUsage:      true,
	PersistentPreRunE: initRuntime,
	RunE:              runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path (default from config)")
	rootCmd.PersistentFlags().BoolVar(&flagEphemeral, "ephemeral", false, "Use an in-memory ledger that is discarded on exit")
	rootCmd.PersistentFlags().StringVarP(&flagType, "type", "t", "", "Filter by type: all, expense, income")
	rootCmd.PersistentFlags().StringVarP(&flagCategory, "category", "c", "", "Filter by category (all for none)")
	rootCmd.PersistentFlags().StringVarP(&flagMonth, "month", "m", "", "Filter by month YYYY-MM (all for none)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging to stderr")
}

func initRuntime(_ *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	logger = logging.New(os.Stderr, flagVerbose)
	slog.SetDefault(logger)

	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}

	theme.SetActive(cfg.Appearance.Theme)
	cli.ApplyTheme(theme.Active)
	return nil
}

// resolveDBPath returns the database the store flags select.
func resolveDBPath() string {
	switch {
	case flagEphemeral:
		return ":memory:"
	case flagDB != "":
		return flagDB
	}
	return cfg.DBPath()
}

// openKV opens the selected store. The returned close func is never nil.
func openKV() (store.KV, func(), error) {
	if flagEphemeral {
		return store.NewMemory(), func() {}, nil
	}
	db, err := store.Open(resolveDBPath())
	if err != nil {
		return nil, func() {}, err
	}
	return db, func() { _ = db.Close() }, nil
}

// openTracker opens the store and returns a tracker with the command-line
// filter applied.
func openTracker() (*tracker.Tracker, func(), error) {
	kv, closeFn, err := openKV()
	if err != nil {
		return nil, closeFn, err
	}

	tr := tracker.New(kv, tracker.Options{
		Logger:          logger,
		AllMonths:       !cfg.Filter.CurrentMonthDefault,
		DefaultCurrency: cfg.General.DefaultCurrency,
	})

	spec, err := filterFromFlags(tr.Filter(), flagType, flagCategory, flagMonth)
	if err != nil {
		closeFn()
		return nil, func() {}, err
	}
	tr.ApplyFilter(spec)
	return tr, closeFn, nil
}

// filterFromFlags overlays the -t/-c/-m flags on base. Empty flags keep
// base; "all" clears a dimension.
func filterFromFlags(base model.FilterSpec, typ, category, month string) (model.FilterSpec, error) {
	spec := base
	if typ != "" {
		tf, err := model.ParseTypeFilter(typ)
		if err != nil {
			return spec, err
		}
		spec.Type = tf
	}
	if category != "" {
		c, err := parseCategory(category)
		if err != nil {
			return spec, err
		}
		spec.Category = c
	}
	if month != "" {
		if strings.EqualFold(month, "all") {
			spec.Month = model.YearMonth{}
		} else {
			ym, err := model.ParseYearMonth(month)
			if err != nil {
				return spec, err
			}
			spec.Month = ym
		}
	}
	return spec, nil
}

// parseCategory matches s case-insensitively against every known category.
// "all" returns the empty category.
func parseCategory(s string) (model.Category, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "all") {
		return "", nil
	}
	for _, c := range model.AllCategories() {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q (run `tally categories`)", s)
}

func parseKindArg(s string) (model.Kind, error) {
	k, ok := model.ParseKind(s)
	if !ok {
		return k, fmt.Errorf("unknown kind %q: want expense or income", s)
	}
	return k, nil
}
