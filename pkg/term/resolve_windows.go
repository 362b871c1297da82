// ABOUTME: Windows stub for controlling-terminal device access
// ABOUTME: Falls back to the winning standard stream

//go:build windows

package term

import "os"

// openControllingTTY has no Windows equivalent; the winning standard
// stream is used directly.
func openControllingTTY() *os.File {
	return nil
}
