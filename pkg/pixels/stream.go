// ABOUTME: Stream is an indefinite Source fed frame by frame at runtime
// ABOUTME: Frames must be consumed in arrival order; seeking is impossible

package pixels

import (
	"fmt"
	"image"
	"sync"
	"time"
)

// Stream is a Source whose total frame count is not known in advance.
// A producer appends frames with Push; a consumer reads them in order.
// FrameCount reports the frames received so far and definite=false.
type Stream struct {
	mu     sync.Mutex
	w, h   int
	frames []streamFrame
	closed bool
}

type streamFrame struct {
	img image.Image
	dur time.Duration
}

// NewStream creates an indefinite source with the given intrinsic size.
func NewStream(w, h int) *Stream {
	return &Stream{w: w, h: h}
}

// Push appends a frame to the stream.
func (s *Stream) Push(img image.Image, dur time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSourceClosed
	}
	if dur <= 0 {
		dur = DefaultFrameDuration
	}
	s.frames = append(s.frames, streamFrame{img: img, dur: dur})
	return nil
}

// Bounds returns the stream's intrinsic pixel size.
func (s *Stream) Bounds() (int, int) { return s.w, s.h }

// FrameCount reports frames received so far; the count is never definite.
func (s *Stream) FrameCount() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames), false
}

// Frame returns frame i if it has arrived.
func (s *Stream) Frame(i int) (image.Image, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, 0, ErrSourceClosed
	}
	if i < 0 || i >= len(s.frames) {
		return nil, 0, fmt.Errorf("pixels: stream frame %d not yet available (have %d)", i, len(s.frames))
	}
	f := s.frames[i]
	return f.img, f.dur, nil
}

// Close releases buffered frames.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSourceClosed
	}
	s.closed = true
	s.frames = nil
	return nil
}
