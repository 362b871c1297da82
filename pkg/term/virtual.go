// ABOUTME: VirtualDevice is a scripted fake terminal for tests without a TTY
// ABOUTME: Auto-responds to written queries and logs raw operation order

package term

import (
	"bytes"
	"os"
	"sync"
	"time"
)

// Responder inspects a written request and returns the bytes the fake
// terminal sends back, or nil to stay silent (simulating an unsupported
// query).
type Responder func(request []byte) []byte

// VirtualDevice is a fake Device for unit tests. Writes are recorded and
// optionally answered by a Responder; reads honor deadlines like a real
// pollable tty. The operation log captures the raw order of writes and
// reads for contention tests.
type VirtualDevice struct {
	mu        sync.Mutex
	pending   bytes.Buffer // terminal -> app
	written   bytes.Buffer // app -> terminal
	deadline  time.Time
	responder Responder
	width     int
	height    int
	pxWidth   int
	pxHeight  int
	opLog     []string
}

// NewVirtualDevice returns a fake terminal with the given cell grid.
func NewVirtualDevice(width, height int) *VirtualDevice {
	return &VirtualDevice{width: width, height: height}
}

// Respond installs the query responder.
func (v *VirtualDevice) Respond(fn Responder) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.responder = fn
}

// SetPixelSize makes the device report a text-area pixel size, as a tty
// with populated winsize pixel fields would.
func (v *VirtualDevice) SetPixelSize(w, h int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pxWidth, v.pxHeight = w, h
}

// InjectInput queues unsolicited bytes, as a user typing during a query
// would produce.
func (v *VirtualDevice) InjectInput(p []byte) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pending.Write(p)
}

// Write records the request and queues any scripted response.
func (v *VirtualDevice) Write(p []byte) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.written.Write(p)
	v.opLog = append(v.opLog, "write:"+string(p))
	if v.responder != nil {
		if reply := v.responder(p); reply != nil {
			v.pending.Write(reply)
		}
	}
	return len(p), nil
}

// Read returns pending bytes, or blocks until data arrives or the
// deadline passes, mirroring an os.File with SetReadDeadline.
func (v *VirtualDevice) Read(p []byte) (int, error) {
	for {
		v.mu.Lock()
		if v.pending.Len() > 0 {
			n, _ := v.pending.Read(p)
			v.opLog = append(v.opLog, "read:"+string(p[:n]))
			v.mu.Unlock()
			return n, nil
		}
		deadline := v.deadline
		v.mu.Unlock()

		if !deadline.IsZero() && !time.Now().Before(deadline) {
			return 0, os.ErrDeadlineExceeded
		}
		time.Sleep(time.Millisecond)
	}
}

// SetReadDeadline stores the deadline applied to subsequent reads.
func (v *VirtualDevice) SetReadDeadline(t time.Time) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.deadline = t
	return nil
}

// Size reports the configured cell grid.
func (v *VirtualDevice) Size() (int, int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.width, v.height, nil
}

// PixelSize reports the configured text-area pixel size, if any.
func (v *VirtualDevice) PixelSize() (int, int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.pxWidth == 0 || v.pxHeight == 0 {
		return 0, 0, os.ErrInvalid
	}
	return v.pxWidth, v.pxHeight, nil
}

// Written returns everything the app has sent so far.
func (v *VirtualDevice) Written() []byte {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]byte(nil), v.written.Bytes()...)
}

// PendingInput returns the bytes still unread by the app.
func (v *VirtualDevice) PendingInput() []byte {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]byte(nil), v.pending.Bytes()...)
}

// OpLog returns the raw order of writes and reads.
func (v *VirtualDevice) OpLog() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.opLog...)
}
