// ABOUTME: Cross-process terminal lock via flock on a lock file
// ABOUTME: Cooperating processes configure the same shared directory

//go:build !windows

package term

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"
)

const lockFileName = "terminal.lock"

// fileLock serializes terminal access across cooperating processes.
// The embedded mutex serializes lock/unlock within this process, since
// flock is per file description, not per goroutine.
type fileLock struct {
	mu   sync.Mutex
	dir  string
	file *os.File
}

func newFileLock(dir string) *fileLock {
	return &fileLock{dir: dir}
}

func (l *fileLock) lock() error {
	l.mu.Lock()

	if l.file == nil {
		if err := os.MkdirAll(l.dir, 0o755); err != nil {
			l.mu.Unlock()
			return fmt.Errorf("creating lock dir: %w", err)
		}
		f, err := os.OpenFile(filepath.Join(l.dir, lockFileName), os.O_CREATE|os.O_RDWR, 0o644)
		if err != nil {
			l.mu.Unlock()
			return fmt.Errorf("opening lock file: %w", err)
		}
		l.file = f
	}

	if err := unix.Flock(int(l.file.Fd()), unix.LOCK_EX); err != nil {
		l.mu.Unlock()
		return fmt.Errorf("flock: %w", err)
	}
	return nil
}

func (l *fileLock) unlock() error {
	defer l.mu.Unlock()
	if err := unix.Flock(int(l.file.Fd()), unix.LOCK_UN); err != nil {
		return fmt.Errorf("flock unlock: %w", err)
	}
	return nil
}
