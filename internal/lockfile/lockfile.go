// Package lockfile guards against concurrent scheduler runs using an advisory
// file lock. The holder's PID is written into the file so a stuck lock can be
// diagnosed by hand.
package lockfile

import (
	"errors"
	"fmt"
	"os"

	"github.com/ThomazDiniz/zelun-Scheduler/internal/shared"
	"golang.org/x/sys/unix"
)

// Lock is a held advisory lock on a path.
type Lock struct {
	path string
	file *os.File
}

// Acquire takes an exclusive non-blocking lock on path. It returns
// [shared.ErrAlreadyRunning] immediately when another process holds the lock.
func Acquire(path string) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, fmt.Errorf("%w: lock held at %s", shared.ErrAlreadyRunning, path)
		}
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}

	if err := f.Truncate(0); err == nil {
		fmt.Fprintf(f, "%d\n", os.Getpid())
	}

	return &Lock{path: path, file: f}, nil
}

// Release drops the lock and removes the lock file. Safe to call once.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}

	err := unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
	closeErr := l.file.Close()
	l.file = nil
	os.Remove(l.path)

	if err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return closeErr
}
