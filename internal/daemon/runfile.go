package daemon

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"
)

var (
	ErrNotRunning     = errors.New("daemon is not running")
	ErrAlreadyRunning = errors.New("daemon already running")
)

// RunInfo is what a running daemon records about itself, one JSON file per
// data directory.
type RunInfo struct {
	PID       int       `json:"pid"`
	Addr      string    `json:"addr"`
	StartedAt time.Time `json:"started_at"`
	DBPath    string    `json:"db_path"`
	Filter    string    `json:"filter"`
}

// processAlive reports whether pid is a live process. Tests replace it.
var processAlive = func(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}

// ReadRunFile returns the recorded daemon, or ErrNotRunning if there is no
// run file or the recorded process is gone.
func ReadRunFile(path string) (RunInfo, error) {
	var info RunInfo
	data, err := os.ReadFile(path) //nolint:gosec // path is configured by the local user
	if errors.Is(err, os.ErrNotExist) {
		return info, ErrNotRunning
	}
	if err != nil {
		return info, fmt.Errorf("reading run file: %w", err)
	}
	if err := json.Unmarshal(data, &info); err != nil || info.PID <= 0 {
		return info, fmt.Errorf("invalid run file %s", path)
	}
	if !processAlive(info.PID) {
		return info, ErrNotRunning
	}
	return info, nil
}

// Claim records info at path. A run file left by a dead process is
// replaced; one owned by a live process is an ErrAlreadyRunning error.
func Claim(path string, info RunInfo) error {
	prev, err := ReadRunFile(path)
	switch {
	case err == nil:
		return fmt.Errorf("%w (pid %d)", ErrAlreadyRunning, prev.PID)
	case !errors.Is(err, ErrNotRunning):
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating run dir: %w", err)
	}
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("writing run file: %w", err)
	}
	return nil
}

// Release removes the run file if it still belongs to pid.
func Release(path string, pid int) {
	data, err := os.ReadFile(path) //nolint:gosec // path is configured by the local user
	if err != nil {
		return
	}
	var info RunInfo
	if json.Unmarshal(data, &info) == nil && info.PID != pid {
		return
	}
	_ = os.Remove(path)
}

// Stop sends SIGTERM to the recorded daemon and waits up to wait for it to
// exit, then removes the run file. It returns the stopped pid.
func Stop(path string, wait time.Duration) (int, error) {
	info, err := ReadRunFile(path)
	if errors.Is(err, ErrNotRunning) {
		_ = os.Remove(path)
		return 0, err
	}
	if err != nil {
		return 0, err
	}

	proc, err := os.FindProcess(info.PID)
	if err != nil {
		return 0, fmt.Errorf("finding daemon process: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return 0, fmt.Errorf("signalling daemon: %w", err)
	}

	deadline := time.Now().Add(wait)
	for time.Now().Before(deadline) {
		if !processAlive(info.PID) {
			Release(path, info.PID)
			return info.PID, nil
		}
		time.Sleep(150 * time.Millisecond)
	}
	return info.PID, fmt.Errorf("daemon (pid %d) did not exit within %s", info.PID, wait)
}
