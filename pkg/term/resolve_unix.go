// ABOUTME: Unix controlling-terminal device access
// ABOUTME: Opens /dev/tty read-write for query exchanges

//go:build !windows

package term

import "os"

// openControllingTTY opens the process's controlling terminal, or nil.
func openControllingTTY() *os.File {
	f, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return nil
	}
	return f
}
