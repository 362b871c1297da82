// ABOUTME: Device abstracts the byte-level I/O handle behind a Terminal
// ABOUTME: Real ttys are *os.File; tests use VirtualDevice with scripted replies

package term

import (
	"io"
	"time"
)

// Device is the raw I/O handle a Terminal drives. Reads must honor
// SetReadDeadline so the query executor can bound its blocking read and
// drain pending input without blocking.
type Device interface {
	io.Reader
	io.Writer
	SetReadDeadline(t time.Time) error
}

// Sizer is implemented by devices that know their own cell grid size.
// Real terminals fall back to an ioctl on the file descriptor.
type Sizer interface {
	Size() (width, height int, err error)
}

// PixelSizer is implemented by devices that know the pixel size of the
// text area, letting cell-ratio detection skip the escape-sequence query.
type PixelSizer interface {
	PixelSize() (width, height int, err error)
}
