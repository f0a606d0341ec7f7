// Package config loads and saves tally's TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/theirongolddev/tally/internal/money"

	"github.com/BurntSushi/toml"
)

// Environment overrides, applied by Load after the file is read.
const (
	EnvConfigDir = "TALLY_CONFIG_DIR"
	EnvDB        = "TALLY_DB"
	EnvTheme     = "TALLY_THEME"
)

// Config holds all tally configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Appearance AppearanceConfig `toml:"appearance"`
	Filter     FilterConfig     `toml:"filter"`
	Daemon     DaemonConfig     `toml:"daemon"`
}

// GeneralConfig holds storage and currency preferences.
type GeneralConfig struct {
	DBPath string `toml:"db_path,omitempty"`
	// DefaultCurrency seeds a new ledger; a stored ledger keeps its own.
	DefaultCurrency string `toml:"default_currency"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// FilterConfig holds the startup filter.
type FilterConfig struct {
	// CurrentMonthDefault restricts the startup filter to the current month.
	CurrentMonthDefault bool `toml:"current_month_default"`
}

// DaemonConfig holds the HTTP daemon settings.
type DaemonConfig struct {
	Addr         string `toml:"addr"`
	IntervalSec  int    `toml:"interval_sec"`
	EventsBuffer int    `toml:"events_buffer"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultCurrency: money.DefaultCode,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Filter: FilterConfig{
			CurrentMonthDefault: true,
		},
		Daemon: DaemonConfig{
			Addr:         "127.0.0.1:8787",
			IntervalSec:  10,
			EventsBuffer: 200,
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tally")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "tally")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DataDir returns the XDG-compliant data directory.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "tally")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "tally")
}

// DBPath returns the effective database path.
func (c Config) DBPath() string {
	if c.General.DBPath != "" {
		return expandHome(c.General.DBPath)
	}
	return filepath.Join(DataDir(), "tally.db")
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

// Load reads the config file, returning defaults if it doesn't exist.
// Environment overrides are applied last.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return cfg, fmt.Errorf("reading config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	applyEnv(&cfg)
	return cfg, cfg.validate()
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvDB); v != "" {
		cfg.General.DBPath = v
	}
	if v := os.Getenv(EnvTheme); v != "" {
		cfg.Appearance.Theme = v
	}
}

func (c Config) validate() error {
	if c.General.DefaultCurrency != "" {
		if _, err := money.Lookup(c.General.DefaultCurrency); err != nil {
			return fmt.Errorf("general.default_currency: %w", err)
		}
	}
	if c.Daemon.IntervalSec < 0 {
		return fmt.Errorf("daemon.interval_sec must be >= 0, got %d", c.Daemon.IntervalSec)
	}
	if c.Daemon.EventsBuffer < 0 {
		return fmt.Errorf("daemon.events_buffer must be >= 0, got %d", c.Daemon.EventsBuffer)
	}
	return nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
