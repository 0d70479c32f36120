package lockfile

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/ThomazDiniz/zelun-Scheduler/internal/shared"
)

func TestAcquire(t *testing.T) {
	t.Run("acquire writes pid and release removes file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "run.lock")

		lock, err := Acquire(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read lock file: %v", err)
		}
		pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
		if err != nil || pid != os.Getpid() {
			t.Errorf("expected lock file to contain pid %d, got %q", os.Getpid(), data)
		}

		if err := lock.Release(); err != nil {
			t.Fatalf("release failed: %v", err)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Error("lock file should be removed after release")
		}
	})

	t.Run("second acquire fails fast", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "run.lock")

		lock, err := Acquire(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer lock.Release()

		if _, err := Acquire(path); !errors.Is(err, shared.ErrAlreadyRunning) {
			t.Errorf("expected ErrAlreadyRunning, got %v", err)
		}
	})

	t.Run("reacquire after release", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "run.lock")

		lock, err := Acquire(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := lock.Release(); err != nil {
			t.Fatalf("release failed: %v", err)
		}

		again, err := Acquire(path)
		if err != nil {
			t.Fatalf("expected reacquire to succeed: %v", err)
		}
		again.Release()
	})

	t.Run("release is safe to call twice", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "run.lock")

		lock, err := Acquire(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := lock.Release(); err != nil {
			t.Fatalf("first release failed: %v", err)
		}
		if err := lock.Release(); err != nil {
			t.Errorf("second release should be a no-op: %v", err)
		}
	})
}
