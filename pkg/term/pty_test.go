// ABOUTME: End-to-end query test over a real pty pair
// ABOUTME: A goroutine plays the emulator on the master side of the pty

//go:build !windows

package term

import (
	"bytes"
	"testing"
	"time"

	"github.com/creack/pty"
)

func TestQuery_OverRealPTY(t *testing.T) {
	master, slave, err := pty.Open()
	if err != nil {
		t.Skipf("pty unavailable: %v", err)
	}
	defer master.Close()
	defer slave.Close()

	if err := pty.Setsize(master, &pty.Winsize{Rows: 24, Cols: 80}); err != nil {
		t.Fatalf("setsize: %v", err)
	}

	// Emulator side: answer the cell-grid query on the master.
	done := make(chan struct{})
	go func() {
		defer close(done)
		buf := make([]byte, 64)
		var got []byte
		for {
			n, err := master.Read(buf)
			if err != nil {
				return
			}
			got = append(got, buf[:n]...)
			if bytes.Contains(got, []byte("\x1b[18t")) {
				master.Write([]byte("\x1b[8;24;80t"))
				return
			}
		}
	}()

	tt := newFromFile(slave)
	var res QueryResult
	err = tt.WithLock(func(s *Session) error {
		var qerr error
		res, qerr = s.Query([]byte("\x1b[18t"), MatchCSI, 2*time.Second)
		return qerr
	})
	if err != nil {
		t.Fatalf("query over pty: %v", err)
	}
	if res.Timeout {
		t.Fatal("query over pty timed out")
	}

	params, err := ParseCSIParams(res.Data, 't')
	if err != nil {
		t.Fatalf("parsing reply %q: %v", res.Data, err)
	}
	if len(params) < 3 || params[0] != 8 || params[1] != 24 || params[2] != 80 {
		t.Errorf("params = %v, want [8 24 80]", params)
	}
	<-done
}

func TestSize_OverRealPTY(t *testing.T) {
	master, slave, err := pty.Open()
	if err != nil {
		t.Skipf("pty unavailable: %v", err)
	}
	defer master.Close()
	defer slave.Close()

	if err := pty.Setsize(master, &pty.Winsize{Rows: 30, Cols: 100}); err != nil {
		t.Fatalf("setsize: %v", err)
	}

	tt := newFromFile(slave)
	w, h, err := tt.Size()
	if err != nil {
		t.Fatalf("size: %v", err)
	}
	if w != 100 || h != 30 {
		t.Errorf("size = %dx%d, want 100x30", w, h)
	}
}
