// ABOUTME: Windows stand-in for the cross-process terminal lock
// ABOUTME: Degrades to in-process locking only

//go:build windows

package term

import "sync"

// fileLock degrades to an in-process mutex on Windows; cross-process
// coordination is unavailable there.
type fileLock struct {
	mu  sync.Mutex
	dir string
}

func newFileLock(dir string) *fileLock {
	return &fileLock{dir: dir}
}

func (l *fileLock) lock() error {
	l.mu.Lock()
	return nil
}

func (l *fileLock) unlock() error {
	l.mu.Unlock()
	return nil
}
