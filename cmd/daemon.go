package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/theirongolddev/tally/internal/config"
	"github.com/theirongolddev/tally/internal/daemon"

	"github.com/spf13/cobra"
)

var (
	flagDaemonAddr         string
	flagDaemonInterval     time.Duration
	flagDaemonEventsBuffer int
	flagDaemonRunFile      string
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run a read-only ledger daemon with HTTP/SSE endpoints",
	Long: `Run a read-only ledger daemon in the foreground. It polls the database,
recomputes the filtered view and serves it over HTTP:

  /healthz, /v1/status, /v1/view, /v1/events, /v1/stream (SSE), /v1/export

Address, interval and buffer default to the [daemon] config section. Run it
under your service manager, or with & from a shell, to keep it in the
background.`,
	Args: cobra.NoArgs,
	RunE: runDaemon,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon process and API status",
	Args:  cobra.NoArgs,
	RunE:  runDaemonStatus,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running daemon",
	Args:  cobra.NoArgs,
	RunE:  runDaemonStop,
}

func init() {
	daemonCmd.PersistentFlags().StringVar(&flagDaemonAddr, "addr", "", "HTTP listen address (default from config)")
	daemonCmd.PersistentFlags().StringVar(&flagDaemonRunFile, "run-file", "", "Run file path (default <data dir>/tallyd.json)")
	daemonCmd.Flags().DurationVar(&flagDaemonInterval, "interval", 0, "Polling interval (default from config)")
	daemonCmd.Flags().IntVar(&flagDaemonEventsBuffer, "events-buffer", 0, "Max in-memory events retained (default from config)")

	daemonCmd.AddCommand(daemonStatusCmd)
	daemonCmd.AddCommand(daemonStopCmd)
	rootCmd.AddCommand(daemonCmd)
}

// applyDaemonDefaults fills unset daemon flags from the config file.
func applyDaemonDefaults() {
	if flagDaemonAddr == "" {
		flagDaemonAddr = cfg.Daemon.Addr
	}
	if flagDaemonInterval == 0 {
		flagDaemonInterval = time.Duration(cfg.Daemon.IntervalSec) * time.Second
	}
	if flagDaemonEventsBuffer == 0 {
		flagDaemonEventsBuffer = cfg.Daemon.EventsBuffer
	}
	if flagDaemonRunFile == "" {
		flagDaemonRunFile = filepath.Join(config.DataDir(), "tallyd.json")
	}
}

func runDaemon(_ *cobra.Command, _ []string) error {
	applyDaemonDefaults()

	tr, closeFn, err := openTracker()
	if err != nil {
		return err
	}
	defer closeFn()

	dbPath := resolveDBPath()
	if flagEphemeral {
		dbPath = ":memory:"
	}
	filter := tr.Filter()

	pid := os.Getpid()
	if err := daemon.Claim(flagDaemonRunFile, daemon.RunInfo{
		PID:       pid,
		Addr:      flagDaemonAddr,
		StartedAt: time.Now(),
		DBPath:    dbPath,
		Filter:    filter.Describe(),
	}); err != nil {
		return err
	}
	defer daemon.Release(flagDaemonRunFile, pid)

	svc := daemon.New(tr, daemon.Config{
		Addr:         flagDaemonAddr,
		Interval:     flagDaemonInterval,
		EventsBuffer: flagDaemonEventsBuffer,
		Filter:       filter,
		DBPath:       dbPath,
	}, logger)

	fmt.Printf("  tally daemon listening on http://%s\n", flagDaemonAddr)
	fmt.Printf("  Polling %s every %s (filter: %s)\n", dbPath, flagDaemonInterval, filter.Describe())
	fmt.Printf("  Stop with Ctrl-C or: tally daemon stop\n")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runDaemonStatus(_ *cobra.Command, _ []string) error {
	applyDaemonDefaults()
	info, err := daemon.ReadRunFile(flagDaemonRunFile)
	if errors.Is(err, daemon.ErrNotRunning) {
		fmt.Printf("  Daemon: not running\n")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("  Daemon PID: %d (since %s)\n", info.PID, info.StartedAt.Local().Format(time.RFC3339))
	fmt.Printf("  Address: http://%s\n", info.Addr)
	fmt.Printf("  Database: %s\n", info.DBPath)

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + info.Addr + "/v1/status") //nolint:noctx // short status check
	if err != nil {
		fmt.Printf("  API status: unreachable (%v)\n", err)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("  API status: HTTP %d\n", resp.StatusCode)
		return nil
	}

	var st daemon.Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		fmt.Printf("  API status: malformed response (%v)\n", err)
		return nil
	}

	if st.LastPollAt.IsZero() {
		fmt.Printf("  Last poll: pending\n")
	} else {
		fmt.Printf("  Last poll: %s (%d polls)\n", st.LastPollAt.Local().Format(time.RFC3339), st.PollCount)
	}
	sum := st.Summary
	fmt.Printf("  Filter: %s\n", sum.Filter)
	fmt.Printf("  Expenses: %d (%s %s)\n", sum.Expenses, sum.TotalExpense.StringFixed(2), sum.Currency)
	fmt.Printf("  Income: %d (%s %s)\n", sum.Income, sum.TotalIncome.StringFixed(2), sum.Currency)
	fmt.Printf("  Balance: %s %s\n", sum.Balance.StringFixed(2), sum.Currency)
	fmt.Printf("  Events: %d buffered, %d subscribers\n", st.EventCount, st.SubscriberCount)
	return nil
}

func runDaemonStop(_ *cobra.Command, _ []string) error {
	applyDaemonDefaults()
	pid, err := daemon.Stop(flagDaemonRunFile, 8*time.Second)
	if err != nil {
		return err
	}
	fmt.Printf("  Stopped daemon (pid %d)\n", pid)
	return nil
}
