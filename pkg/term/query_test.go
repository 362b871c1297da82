// ABOUTME: Tests for the query executor choreography against the virtual device
// ABOUTME: Covers timeout bounds, stale-byte flushing, and session scoping

package term

import (
	"bytes"
	"testing"
	"time"
)

func newTestTerminal(dev *VirtualDevice) *Terminal {
	return NewTerminal(dev, -1)
}

func TestQuery_CompleteReply(t *testing.T) {
	dev := NewVirtualDevice(80, 24)
	dev.Respond(func(req []byte) []byte {
		if bytes.Equal(req, []byte("\x1b[18t")) {
			return []byte("\x1b[8;24;80t")
		}
		return nil
	})
	tt := newTestTerminal(dev)

	var res QueryResult
	err := tt.WithLock(func(s *Session) error {
		var err error
		res, err = s.Query([]byte("\x1b[18t"), MatchCSI, 200*time.Millisecond)
		return err
	})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if res.Timeout {
		t.Fatal("unexpected timeout")
	}
	if !bytes.Equal(res.Data, []byte("\x1b[8;24;80t")) {
		t.Errorf("reply = %q", res.Data)
	}
}

func TestQuery_TimeoutBounds(t *testing.T) {
	dev := NewVirtualDevice(80, 24)
	tt := newTestTerminal(dev)

	const timeout = 50 * time.Millisecond
	start := time.Now()
	var res QueryResult
	err := tt.WithLock(func(s *Session) error {
		var err error
		res, err = s.Query([]byte("\x1b[14t"), MatchCSI, timeout)
		return err
	})
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if !res.Timeout {
		t.Fatal("expected timeout result")
	}
	if elapsed < timeout {
		t.Errorf("returned after %v, before the %v timeout", elapsed, timeout)
	}
	if elapsed > timeout+100*time.Millisecond {
		t.Errorf("returned after %v, too long past the %v timeout", elapsed, timeout)
	}
}

func TestQuery_DrainsStaleInputBeforeRequest(t *testing.T) {
	dev := NewVirtualDevice(80, 24)
	dev.InjectInput([]byte("stale user keystrokes"))
	dev.Respond(func(req []byte) []byte { return []byte("\x1b[8;24;80t") })
	tt := newTestTerminal(dev)

	var res QueryResult
	err := tt.WithLock(func(s *Session) error {
		var err error
		res, err = s.Query([]byte("\x1b[18t"), MatchCSI, 200*time.Millisecond)
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Timeout {
		t.Fatal("unexpected timeout")
	}
	if bytes.Contains(res.Data, []byte("stale")) {
		t.Errorf("stale bytes leaked into reply: %q", res.Data)
	}
}

func TestQuery_LateReplyFlushedAfterTimeout(t *testing.T) {
	dev := NewVirtualDevice(80, 24)
	tt := newTestTerminal(dev)

	err := tt.WithLock(func(s *Session) error {
		res, err := s.Query([]byte("\x1b[14t"), MatchCSI, 30*time.Millisecond)
		if err != nil {
			return err
		}
		if !res.Timeout {
			t.Error("expected timeout")
		}
		// The reply lands after the deadline.
		dev.InjectInput([]byte("\x1b[4;480;640t"))
		s.drain()
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := dev.PendingInput(); len(got) != 0 {
		t.Errorf("unread buffer still holds %q after drain", got)
	}
}

func TestQuery_DisabledSkipsDevice(t *testing.T) {
	SetQueriesEnabled(false)
	t.Cleanup(func() { SetQueriesEnabled(true) })

	dev := NewVirtualDevice(80, 24)
	tt := newTestTerminal(dev)

	err := tt.WithLock(func(s *Session) error {
		res, err := s.Query([]byte("\x1b[14t"), MatchCSI, time.Second)
		if err != nil {
			return err
		}
		if !res.Timeout {
			t.Error("disabled queries must report the timeout sentinel")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(dev.Written()) != 0 {
		t.Errorf("query wrote %q with queries disabled", dev.Written())
	}
}

func TestSession_InvalidOutsideLockScope(t *testing.T) {
	dev := NewVirtualDevice(80, 24)
	tt := newTestTerminal(dev)

	var escaped *Session
	if err := tt.WithLock(func(s *Session) error {
		escaped = s
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	if _, err := escaped.Write([]byte("x")); err != ErrSessionClosed {
		t.Errorf("escaped session Write err = %v, want ErrSessionClosed", err)
	}
	if _, err := escaped.Query([]byte("q"), MatchCSI, time.Millisecond); err != ErrSessionClosed {
		t.Errorf("escaped session Query err = %v, want ErrSessionClosed", err)
	}
}

func TestMatchers(t *testing.T) {
	tests := []struct {
		name string
		m    Matcher
		buf  string
		want bool
	}{
		{"csi complete", MatchCSI, "\x1b[8;24;80t", true},
		{"csi partial", MatchCSI, "\x1b[8;24", false},
		{"csi noise prefix", MatchCSI, "xx\x1b[4;1;2t", true},
		{"osc bel", MatchOSC, "\x1b]11;rgb:ff/ff/ff\x07", true},
		{"osc st", MatchOSC, "\x1b]11;rgb:ff/ff/ff\x1b\\", true},
		{"osc partial", MatchOSC, "\x1b]11;rgb:ff", false},
		{"apc complete", MatchAPC, "\x1b_Gi=31;OK\x1b\\", true},
		{"apc partial", MatchAPC, "\x1b_Gi=31;OK", false},
		{"empty", MatchCSI, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m([]byte(tt.buf)); got != tt.want {
				t.Errorf("matcher(%q) = %v, want %v", tt.buf, got, tt.want)
			}
		})
	}
}
