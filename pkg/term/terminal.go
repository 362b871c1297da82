// ABOUTME: Terminal handle with the terminal-scoped lock and raw-mode control
// ABOUTME: WithLock is the capability every raw terminal I/O must route through

package term

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/term"

	"github.com/mauromedda/termpix/internal/config"
	"github.com/mauromedda/termpix/internal/log"
)

// ErrSessionClosed is returned when a Session escapes its WithLock scope.
var ErrSessionClosed = errors.New("term: session used outside its lock scope")

var queriesEnabled atomic.Bool

func init() {
	queriesEnabled.Store(true)
}

// SetQueriesEnabled globally enables or disables terminal queries.
// When disabled, every query-derived fact uses its configured fallback
// without touching the terminal.
func SetQueriesEnabled(on bool) {
	queriesEnabled.Store(on)
}

// QueriesEnabled reports whether terminal queries are allowed.
func QueriesEnabled() bool {
	return queriesEnabled.Load()
}

// Terminal owns one terminal device, its query lock, and its fact cache.
// All query I/O for one physical terminal is serialized through WithLock,
// process-wide and, when a shared cache dir is configured, across
// cooperating processes via a file lock.
type Terminal struct {
	dev Device
	fd  int // -1 when not backed by a real tty

	mu     sync.Mutex
	locker *fileLock // nil unless cross-process sharing is configured

	cfg    *config.Settings
	facts  facts
	shared *sharedCache
}

// Option configures a Terminal.
type Option func(*Terminal)

// WithSettings overrides the default tunables.
func WithSettings(s *config.Settings) Option {
	return func(t *Terminal) { t.cfg = s }
}

// WithSharedCache enables the cross-process query cache in dir. The same
// directory must be configured by every cooperating process.
func WithSharedCache(dir string) Option {
	return func(t *Terminal) {
		t.shared = newSharedCache(dir)
		t.locker = newFileLock(dir)
	}
}

// NewTerminal wraps a device. Pass fd -1 for devices without a real
// file descriptor (fakes); raw mode and ioctls are skipped for those.
func NewTerminal(dev Device, fd int, opts ...Option) *Terminal {
	t := &Terminal{dev: dev, fd: fd, cfg: config.Default()}
	for _, o := range opts {
		o(t)
	}
	if t.cfg.SharedCacheDir != "" && t.shared == nil {
		t.shared = newSharedCache(t.cfg.SharedCacheDir)
		t.locker = newFileLock(t.cfg.SharedCacheDir)
	}
	return t
}

// newFromFile builds a Terminal over a real tty file.
func newFromFile(f *os.File, opts ...Option) *Terminal {
	return NewTerminal(f, int(f.Fd()), opts...)
}

// Size returns the terminal's cell grid dimensions. Devices that know
// their own size win; otherwise the file descriptor is consulted.
func (t *Terminal) Size() (int, int, error) {
	if s, ok := t.dev.(Sizer); ok {
		return s.Size()
	}
	if t.fd < 0 {
		return 0, 0, fmt.Errorf("term: no size source available")
	}
	w, h, err := term.GetSize(t.fd)
	if err != nil {
		return 0, 0, fmt.Errorf("getting terminal size: %w", err)
	}
	return w, h, nil
}

// Settings exposes the terminal's tunables.
func (t *Terminal) Settings() *config.Settings {
	return t.cfg
}

// WithLock runs fn while holding the terminal lock. fn receives a
// Session, the only handle that can write to or query the device; any
// collaborator performing raw terminal I/O must go through this entry
// point or its bytes may be mistaken for a query reply. Nested use
// passes the Session along rather than re-acquiring.
func (t *Terminal) WithLock(fn func(*Session) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.locker != nil {
		if err := t.locker.lock(); err != nil {
			return fmt.Errorf("acquiring cross-process terminal lock: %w", err)
		}
		defer func() {
			if err := t.locker.unlock(); err != nil {
				log.Warn("releasing cross-process terminal lock: %v", err)
			}
		}()
	}

	s := &Session{t: t}
	defer func() { s.closed = true }()
	return fn(s)
}

// enterRaw switches the tty to raw mode for a query exchange so the
// reply is not echoed or line-buffered. No-op for fd-less devices.
func (t *Terminal) enterRaw() (*term.State, error) {
	if t.fd < 0 || !term.IsTerminal(t.fd) {
		return nil, nil
	}
	state, err := term.MakeRaw(t.fd)
	if err != nil {
		return nil, fmt.Errorf("entering raw mode: %w", err)
	}
	return state, nil
}

func (t *Terminal) exitRaw(state *term.State) {
	if state == nil {
		return
	}
	if err := term.Restore(t.fd, state); err != nil {
		log.Warn("restoring terminal mode: %v", err)
	}
}

// clearDeadline removes any pending read deadline.
func (t *Terminal) clearDeadline() {
	_ = t.dev.SetReadDeadline(time.Time{})
}
