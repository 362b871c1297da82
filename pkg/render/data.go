// ABOUTME: Mutable per-render working data with tagged uninitialized slots
// ABOUTME: Data is a scoped resource: acquired before a render, finalized once after

package render

import (
	"errors"
	"fmt"
	"sync"
)

// Slot is a tagged data field: reading before the first Set yields
// ErrUninitializedField, which is distinct from a field holding a
// zero or default value.
type Slot[T any] struct {
	set bool
	v   T
}

// Set stores a value, marking the slot initialized.
func (s *Slot[T]) Set(v T) {
	s.v = v
	s.set = true
}

// Get returns the stored value, or ErrUninitializedField.
func (s *Slot[T]) Get() (T, error) {
	if !s.set {
		var zero T
		return zero, ErrUninitializedField
	}
	return s.v, nil
}

// MustGet returns the stored value, panicking when uninitialized:
// reading a slot the initializer never filled is a caller bug.
func (s *Slot[T]) MustGet() T {
	v, err := s.Get()
	if err != nil {
		panic(err)
	}
	return v
}

// IsSet reports whether the slot has been initialized.
func (s *Slot[T]) IsSet() bool { return s.set }

// DataNamespace is one class's mutable working data for a single render
// operation. Finalize releases held handles (decoded frames, buffers)
// and is called exactly once by the owning Data set.
type DataNamespace interface {
	Class() *Class
	Finalize() error
}

// DataFunc constructs a class's data namespace at acquire time. It may
// consult the renderable's terminal; when queries are unavailable it
// must fall back to defaults rather than block.
type DataFunc func(r *Renderable, args Args) (DataNamespace, error)

// Data collects one namespace per declaring class for one render
// operation. It is a scoped resource: acquire, render, Finalize —
// paired on every exit path.
type Data struct {
	mu       sync.Mutex
	byClass  map[*Class]DataNamespace
	order    []*Class // acquisition order, root first
	released bool
}

// acquireData walks the class chain root to leaf, running every
// declared data constructor. On failure, namespaces constructed so far
// are finalized before the error is returned.
func acquireData(r *Renderable, args Args) (*Data, error) {
	d := &Data{byClass: make(map[*Class]DataNamespace)}
	for _, c := range r.class.chain() {
		if c.newData == nil {
			continue
		}
		ns, err := c.newData(r, args)
		if err != nil {
			_ = d.Finalize()
			return nil, fmt.Errorf("initializing %s data: %w", c.name, err)
		}
		d.byClass[c] = ns
		d.order = append(d.order, c)
	}
	return d, nil
}

// For returns the data namespace of the given class.
func (d *Data) For(c *Class) (DataNamespace, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.released {
		return nil, ErrDataReleased
	}
	ns, ok := d.byClass[c]
	if !ok {
		return nil, fmt.Errorf("render: class %s declares no render data", c.Name())
	}
	return ns, nil
}

// Finalize releases every namespace, leaf first, exactly once. A second
// call returns ErrDataReleased.
func (d *Data) Finalize() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.released {
		return ErrDataReleased
	}
	d.released = true

	var errs []error
	for i := len(d.order) - 1; i >= 0; i-- {
		c := d.order[i]
		if err := d.byClass[c].Finalize(); err != nil {
			errs = append(errs, fmt.Errorf("finalizing %s data: %w", c.Name(), err))
		}
	}
	return errors.Join(errs...)
}
