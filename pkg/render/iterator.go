// ABOUTME: Frame iterator over animated sources with repeat, loop, and frame cache
// ABOUTME: Caches encoded frames keyed by size and index when the source is definite

package render

import (
	"context"
	"fmt"

	"github.com/mauromedda/termpix/internal/log"
)

// DefaultCacheLimit caps the number of frames the iterator will cache
// unless overridden with WithCache.
const DefaultCacheLimit = 64

type cacheKey struct {
	w, h int
	idx  int
}

// Iterator walks a renderable's frames in order, optionally repeating
// the whole sequence. It holds the render Data for its entire lifetime
// and must be closed.
type Iterator struct {
	r    *Renderable
	args Args
	data *Data

	repeat     int // -1 loops forever
	cacheLimit int

	frameCount int
	definite   bool
	caching    bool
	cache      map[cacheKey]*Frame

	next   int // next frame index within the current pass
	pass   int // completed passes
	closed bool
}

// IteratorOption configures an Iterator.
type IteratorOption func(*Iterator)

// WithRepeat plays the full frame sequence n times. n must be positive.
func WithRepeat(n int) IteratorOption {
	return func(it *Iterator) { it.repeat = n }
}

// WithLoop repeats the sequence until the iterator is closed or the
// driving context is cancelled.
func WithLoop() IteratorOption {
	return func(it *Iterator) { it.repeat = -1 }
}

// WithCache overrides the frame cache limit. A limit of zero disables
// caching entirely.
func WithCache(limit int) IteratorOption {
	return func(it *Iterator) { it.cacheLimit = limit }
}

// Iterator acquires render data and returns an iterator over the
// renderable's frames. The caller owns the iterator and must Close it.
func (r *Renderable) Iterator(args Args, opts ...IteratorOption) (*Iterator, error) {
	args, err := r.checkArgs(args)
	if err != nil {
		return nil, err
	}

	it := &Iterator{
		r:          r,
		args:       args,
		repeat:     1,
		cacheLimit: DefaultCacheLimit,
	}
	for _, o := range opts {
		o(it)
	}
	if it.repeat == 0 || it.repeat < -1 {
		return nil, fmt.Errorf("render: repeat count %d out of range", it.repeat)
	}

	it.frameCount, it.definite = r.src.FrameCount()

	// Cache only when every frame is known reachable again: a definite
	// count within the limit, and more than one pass to benefit from it.
	it.caching = it.definite &&
		it.frameCount <= it.cacheLimit &&
		it.cacheLimit > 0 &&
		(it.repeat == -1 || it.repeat > 1)
	if it.caching {
		it.cache = make(map[cacheKey]*Frame, it.frameCount)
	}

	it.data, err = acquireData(r, args)
	if err != nil {
		return nil, err
	}
	return it, nil
}

// Next renders and returns the next frame. After the final frame of the
// final pass it returns ErrExhausted; a looping iterator never does.
func (it *Iterator) Next(ctx context.Context) (*Frame, error) {
	if it.closed {
		return nil, ErrIteratorClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if it.definite {
		if it.frameCount <= 0 {
			return nil, ErrExhausted
		}
		if it.next >= it.frameCount {
			it.next = 0
			it.pass++
		}
		if it.repeat != -1 && it.pass >= it.repeat {
			return nil, ErrExhausted
		}
	}

	idx := it.next
	frame, err := it.renderCached(idx)
	if err != nil {
		return nil, err
	}
	it.next++
	return frame, nil
}

// Seek positions the iterator at frame i of the current pass. Indices
// wrap modulo the frame count; indefinite sources cannot seek. An
// exhausted iterator stays exhausted: Seek reports ErrExhausted rather
// than silently restarting the sequence.
func (it *Iterator) Seek(i int) error {
	if it.closed {
		return ErrIteratorClosed
	}
	if !it.definite {
		return ErrIndefiniteSeek
	}
	if it.frameCount <= 0 {
		return ErrExhausted
	}
	if it.repeat != -1 && it.pass >= it.repeat {
		return ErrExhausted
	}
	if i < 0 {
		return fmt.Errorf("render: seek index %d is negative", i)
	}
	it.next = i % it.frameCount
	return nil
}

// Close releases the iterator's render data. Idempotent.
func (it *Iterator) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	it.cache = nil
	if err := it.data.Finalize(); err != nil {
		log.Warn("finalizing iterator data: %v", err)
		return err
	}
	return nil
}

// renderCached renders frame idx, serving repeated passes from the
// cache when the current size matches the cached one.
func (it *Iterator) renderCached(idx int) (*Frame, error) {
	if !it.caching {
		return it.r.renderFrame(it.data, it.args, idx)
	}

	size, err := it.r.resolveSize()
	if err != nil {
		return nil, err
	}
	key := cacheKey{w: size.Width, h: size.Height, idx: idx}
	if f, ok := it.cache[key]; ok {
		return f, nil
	}

	frame, err := it.r.renderFrame(it.data, it.args, idx)
	if err != nil {
		return nil, err
	}
	it.cache[key] = frame
	return frame, nil
}
