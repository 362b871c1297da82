// ABOUTME: Error taxonomy for the render pipeline and namespace system
// ABOUTME: Programmer errors are sentinels; render failures carry a wrapped cause

package render

import (
	"errors"
	"fmt"
)

// Programmer errors: structural misuse surfaced immediately, never
// absorbed into a fallback.
var (
	// ErrUnknownField is returned when building or updating a namespace
	// with a field name its spec does not declare.
	ErrUnknownField = errors.New("render: unknown namespace field")
	// ErrIncompatibleArgs is returned when a namespace or Args value is
	// used with a render class outside its association's subtree.
	ErrIncompatibleArgs = errors.New("render: args incompatible with render class")
	// ErrDuplicateNamespace is returned when two namespaces for the same
	// render class are supplied to NewArgs.
	ErrDuplicateNamespace = errors.New("render: duplicate namespace for render class")
	// ErrNoArgsNamespace is returned when looking up arguments for a
	// class that declares none.
	ErrNoArgsNamespace = errors.New("render: class declares no argument namespace")
	// ErrUninitializedField is returned when reading a data slot that was
	// never set. Distinct from a field holding its default.
	ErrUninitializedField = errors.New("render: uninitialized data field")
	// ErrDataReleased is returned when a finalized Data set is used again.
	ErrDataReleased = errors.New("render: render data already released")
	// ErrIteratorClosed is returned by iterator methods after Close.
	ErrIteratorClosed = errors.New("render: iterator closed")
)

// Render errors.
var (
	// ErrExhausted signals the end of a finite, non-looping iteration.
	ErrExhausted = errors.New("render: iterator exhausted")
	// ErrIndefiniteSeek is returned when seeking (or sizing a cache) on a
	// source whose frame count is not known in advance.
	ErrIndefiniteSeek = errors.New("render: cannot seek an indefinite source")
)

// SizeError reports a computed render size that is non-positive or
// exceeds the hard ceiling.
type SizeError struct {
	Width  int
	Height int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("render: size %dx%d out of range (1x1 to %dx%d)",
		e.Width, e.Height, MaxWidth, MaxHeight)
}

// EncodeError wraps a style encoder failure, preserving the cause.
type EncodeError struct {
	Class string
	Err   error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("render: encoding with %s: %v", e.Class, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }
