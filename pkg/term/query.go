// ABOUTME: Query executor: drain, write request, read reply under a deadline
// ABOUTME: Timeout is a result value, not an error; late replies are flushed

package term

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mauromedda/termpix/internal/log"
)

// QueryResult is the outcome of one query exchange. Timeout means the
// terminal never completed a reply within the deadline; callers apply
// their documented fallback rather than treating it as an error.
type QueryResult struct {
	Timeout bool
	Data    []byte
}

// Matcher reports whether buf holds a complete reply. It is called after
// every read with the bytes accumulated so far.
type Matcher func(buf []byte) bool

// Session is the capability handed out by Terminal.WithLock. It is only
// valid inside the closure; holding one past the closure is a bug.
type Session struct {
	t      *Terminal
	closed bool
}

// Write sends raw bytes to the terminal under the lock. Collaborators
// that draw or reconfigure the terminal while queries may be pending
// must use this instead of writing to the stream directly.
func (s *Session) Write(p []byte) (int, error) {
	if s.closed {
		return 0, ErrSessionClosed
	}
	return s.t.dev.Write(p)
}

// Size reports the terminal's cell grid inside the locked scope.
func (s *Session) Size() (int, int, error) {
	if s.closed {
		return 0, 0, ErrSessionClosed
	}
	return s.t.Size()
}

// Query performs one request/response exchange:
//
//  1. drain unread input so stale bytes are not mistaken for the reply,
//  2. write the request,
//  3. read until complete reports a full reply or timeout elapses.
//
// On timeout the pending input is drained again so a reply arriving late
// cannot be attributed to a later, unrelated query. Only the read step
// blocks, bounded by timeout.
func (s *Session) Query(request []byte, complete Matcher, timeout time.Duration) (QueryResult, error) {
	if s.closed {
		return QueryResult{}, ErrSessionClosed
	}
	if !QueriesEnabled() {
		return QueryResult{Timeout: true}, nil
	}

	state, err := s.t.enterRaw()
	if err != nil {
		return QueryResult{}, err
	}
	defer s.t.exitRaw(state)

	s.drain()

	if _, err := s.t.dev.Write(request); err != nil {
		return QueryResult{}, fmt.Errorf("writing query: %w", err)
	}

	deadline := time.Now().Add(timeout)
	var buf []byte
	chunk := make([]byte, 256)

	for {
		if err := s.t.dev.SetReadDeadline(deadline); err != nil {
			s.t.clearDeadline()
			return QueryResult{}, fmt.Errorf("setting read deadline: %w", err)
		}
		n, err := s.t.dev.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
			if complete(buf) {
				s.t.clearDeadline()
				return QueryResult{Data: buf}, nil
			}
		}
		if err != nil {
			s.t.clearDeadline()
			if isDeadlineErr(err) {
				// Partial reads are a failure, not partial success.
				s.drain()
				log.Debug("query timed out after %v (%d bytes buffered)", timeout, len(buf))
				return QueryResult{Timeout: true}, nil
			}
			return QueryResult{}, fmt.Errorf("reading query reply: %w", err)
		}
		if !time.Now().Before(deadline) {
			s.t.clearDeadline()
			s.drain()
			return QueryResult{Timeout: true}, nil
		}
	}
}

// drain discards all currently unread input without blocking.
func (s *Session) drain() {
	chunk := make([]byte, 256)
	for {
		if err := s.t.dev.SetReadDeadline(time.Now()); err != nil {
			break
		}
		n, err := s.t.dev.Read(chunk)
		if n == 0 || err != nil {
			break
		}
	}
	s.t.clearDeadline()
}

func isDeadlineErr(err error) bool {
	return errors.Is(err, os.ErrDeadlineExceeded)
}

// MatchCSI matches a CSI reply: ESC [ ... <final byte in 0x40-0x7E>.
func MatchCSI(buf []byte) bool {
	start := -1
	for i := 0; i+1 < len(buf); i++ {
		if buf[i] == 0x1b && buf[i+1] == '[' {
			start = i + 2
			break
		}
	}
	if start < 0 {
		return false
	}
	for i := start; i < len(buf); i++ {
		if buf[i] >= 0x40 && buf[i] <= 0x7E {
			return true
		}
	}
	return false
}

// MatchOSC matches an OSC reply terminated by BEL or ST.
func MatchOSC(buf []byte) bool {
	start := -1
	for i := 0; i+1 < len(buf); i++ {
		if buf[i] == 0x1b && buf[i+1] == ']' {
			start = i + 2
			break
		}
	}
	if start < 0 {
		return false
	}
	for i := start; i < len(buf); i++ {
		if buf[i] == 0x07 {
			return true
		}
		if buf[i] == 0x1b && i+1 < len(buf) && buf[i+1] == '\\' {
			return true
		}
	}
	return false
}

// MatchAPC matches an APC reply (ESC _ ... ESC \), the shape of kitty
// graphics responses.
func MatchAPC(buf []byte) bool {
	start := -1
	for i := 0; i+1 < len(buf); i++ {
		if buf[i] == 0x1b && buf[i+1] == '_' {
			start = i + 2
			break
		}
	}
	if start < 0 {
		return false
	}
	for i := start; i+1 < len(buf); i++ {
		if buf[i] == 0x1b && buf[i+1] == '\\' {
			return true
		}
	}
	return false
}
