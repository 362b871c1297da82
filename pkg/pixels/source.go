// ABOUTME: Pixel-source contract consumed by render data initialization
// ABOUTME: Static, animated, and indefinite (streamed) sources behind one interface

package pixels

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"time"
)

// DefaultFrameDuration is used when a source reports a zero frame delay.
const DefaultFrameDuration = 100 * time.Millisecond

// ErrSourceClosed is returned when a closed source is used.
var ErrSourceClosed = errors.New("pixels: source closed")

// Source yields intrinsic size, frame count, and per-frame pixel buffers.
// A frame count may be indefinite (live or streamed input), which rules
// out seeking and frame caching downstream.
type Source interface {
	// Bounds returns the intrinsic pixel width and height.
	Bounds() (w, h int)
	// FrameCount returns the total number of frames and whether that
	// count is definite. Indefinite sources report their frames-so-far.
	FrameCount() (n int, definite bool)
	// Frame returns the pixel buffer and display duration of frame i.
	Frame(i int) (image.Image, time.Duration, error)
	// Close releases decoded buffers. Further calls fail with ErrSourceClosed.
	Close() error
}

// static is a single-frame source.
type static struct {
	mu     sync.Mutex
	img    image.Image
	closed bool
}

// Static wraps a decoded image as a one-frame Source.
func Static(img image.Image) Source {
	return &static{img: img}
}

func (s *static) Bounds() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

func (s *static) FrameCount() (int, bool) { return 1, true }

func (s *static) Frame(i int) (image.Image, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, 0, ErrSourceClosed
	}
	if i != 0 {
		return nil, 0, fmt.Errorf("pixels: frame %d out of range for static source", i)
	}
	return s.img, 0, nil
}

func (s *static) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSourceClosed
	}
	s.closed = true
	s.img = nil
	return nil
}

// animated is a definite multi-frame source with composited frames.
type animated struct {
	mu        sync.Mutex
	w, h      int
	frames    []image.Image
	durations []time.Duration
	closed    bool
}

func (a *animated) Bounds() (int, int) { return a.w, a.h }

func (a *animated) FrameCount() (int, bool) { return len(a.frames), true }

func (a *animated) Frame(i int) (image.Image, time.Duration, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil, 0, ErrSourceClosed
	}
	if i < 0 || i >= len(a.frames) {
		return nil, 0, fmt.Errorf("pixels: frame %d out of range [0,%d)", i, len(a.frames))
	}
	return a.frames[i], a.durations[i], nil
}

func (a *animated) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return ErrSourceClosed
	}
	a.closed = true
	a.frames = nil
	a.durations = nil
	return nil
}
