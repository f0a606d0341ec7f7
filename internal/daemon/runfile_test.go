package daemon

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// fakeAlive makes processAlive report only the given pids as running.
func fakeAlive(t *testing.T, pids ...int) {
	t.Helper()
	orig := processAlive
	t.Cleanup(func() { processAlive = orig })
	processAlive = func(pid int) bool {
		for _, p := range pids {
			if p == pid {
				return true
			}
		}
		return false
	}
}

func TestRunFileRoundTrip(t *testing.T) {
	fakeAlive(t, 4242)
	path := filepath.Join(t.TempDir(), "run", "tallyd.json")
	want := RunInfo{
		PID:       4242,
		Addr:      "127.0.0.1:8787",
		StartedAt: fixedNow,
		DBPath:    "/tmp/tally.db",
		Filter:    "all types, all categories, 2024-01",
	}
	if err := Claim(path, want); err != nil {
		t.Fatalf("Claim: %v", err)
	}

	got, err := ReadRunFile(path)
	if err != nil {
		t.Fatalf("ReadRunFile: %v", err)
	}
	if got.PID != want.PID || got.Addr != want.Addr || got.DBPath != want.DBPath ||
		got.Filter != want.Filter || !got.StartedAt.Equal(want.StartedAt) {
		t.Fatalf("ReadRunFile = %+v, want %+v", got, want)
	}
}

func TestClaimRefusesLiveDaemon(t *testing.T) {
	fakeAlive(t, 100)
	path := filepath.Join(t.TempDir(), "tallyd.json")
	if err := Claim(path, RunInfo{PID: 100}); err != nil {
		t.Fatal(err)
	}
	if err := Claim(path, RunInfo{PID: 200}); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("second Claim err = %v, want ErrAlreadyRunning", err)
	}
}

func TestClaimReplacesStaleRunFile(t *testing.T) {
	fakeAlive(t, 200)
	path := filepath.Join(t.TempDir(), "tallyd.json")
	if err := os.WriteFile(path, []byte(`{"pid":100,"addr":"old"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := ReadRunFile(path); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("stale run file err = %v, want ErrNotRunning", err)
	}
	if err := Claim(path, RunInfo{PID: 200, Addr: "new"}); err != nil {
		t.Fatalf("Claim over stale file: %v", err)
	}
	got, err := ReadRunFile(path)
	if err != nil || got.PID != 200 || got.Addr != "new" {
		t.Fatalf("ReadRunFile = %+v, %v", got, err)
	}
}

func TestReadRunFileMissingAndInvalid(t *testing.T) {
	dir := t.TempDir()
	if _, err := ReadRunFile(filepath.Join(dir, "absent.json")); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("missing run file err = %v", err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("12\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadRunFile(bad); err == nil || errors.Is(err, ErrNotRunning) {
		t.Fatalf("invalid run file err = %v, want a parse error", err)
	}
}

func TestReleaseOnlyRemovesOwnRunFile(t *testing.T) {
	fakeAlive(t, 100)
	path := filepath.Join(t.TempDir(), "tallyd.json")
	if err := Claim(path, RunInfo{PID: 100}); err != nil {
		t.Fatal(err)
	}

	Release(path, 999)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("Release by another pid removed the run file: %v", err)
	}
	Release(path, 100)
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("run file still present after Release: %v", err)
	}
}

func TestStopCleansStaleRunFile(t *testing.T) {
	fakeAlive(t)
	path := filepath.Join(t.TempDir(), "tallyd.json")
	if err := os.WriteFile(path, []byte(`{"pid":100}`), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Stop(path, time.Second); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("Stop err = %v, want ErrNotRunning", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("stale run file not removed: %v", err)
	}
}
