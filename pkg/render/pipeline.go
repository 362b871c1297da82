// ABOUTME: Render pipeline: acquire data, size, encode, finalize, yield a Frame
// ABOUTME: Auto-sizing derives cells from terminal size, aspect ratio, and cell ratio

package render

import (
	"context"
	"fmt"

	"github.com/mauromedda/termpix/internal/log"
	"github.com/mauromedda/termpix/pkg/pixels"
	"github.com/mauromedda/termpix/pkg/term"
)

// Hard ceiling for a computed render size, in cells.
const (
	MaxWidth  = 10000
	MaxHeight = 10000
)

// Fallback cell grid when no terminal is available for auto-sizing.
const (
	fallbackColumns = 80
	fallbackRows    = 24
)

// EncodeContext is passed to a class's encoder with exclusive ownership
// of the Data set for the duration of the call.
type EncodeContext struct {
	Renderable *Renderable
	Data       *Data
	Args       Args
	Size       Size
	FrameIndex int
}

// EncodeFunc produces the escape-sequence payload for one frame.
type EncodeFunc func(ec *EncodeContext) (string, error)

// Renderable pairs a pixel source with a render class (the style).
type Renderable struct {
	class    *Class
	src      pixels.Source
	explicit *Size
	terminal *term.Terminal
	termSet  bool
}

// Option configures a Renderable.
type Option func(*Renderable)

// WithSize fixes the output size instead of deriving it.
func WithSize(w, h int) Option {
	return func(r *Renderable) { r.explicit = &Size{Width: w, Height: h} }
}

// WithTerminal injects the terminal used for sizing and queries.
// Passing nil disables terminal-dependent behavior explicitly.
func WithTerminal(t *term.Terminal) Option {
	return func(r *Renderable) {
		r.terminal = t
		r.termSet = true
	}
}

// New builds a Renderable for the given class and source. The class must
// carry an encoder somewhere up its chain.
func New(class *Class, src pixels.Source, opts ...Option) (*Renderable, error) {
	if class == nil {
		return nil, fmt.Errorf("render: nil class")
	}
	if src == nil {
		return nil, fmt.Errorf("render: nil source")
	}
	if class.encoder() == nil {
		return nil, fmt.Errorf("render: class %s has no encoder", class.name)
	}

	r := &Renderable{class: class, src: src}
	for _, o := range opts {
		o(r)
	}
	if !r.termSet {
		if t, ok := term.Active(); ok {
			r.terminal = t
		}
	}
	return r, nil
}

// Class returns the renderable's render class.
func (r *Renderable) Class() *Class { return r.class }

// Source returns the underlying pixel source.
func (r *Renderable) Source() pixels.Source { return r.src }

// Terminal returns the associated terminal, possibly nil.
func (r *Renderable) Terminal() *term.Terminal { return r.terminal }

// Render produces frame zero: acquires a Data set, computes the size,
// invokes the style encoder, and finalizes the Data on every path.
func (r *Renderable) Render(ctx context.Context, args Args) (*Frame, error) {
	args, err := r.checkArgs(args)
	if err != nil {
		return nil, err
	}

	data, err := acquireData(r, args)
	if err != nil {
		return nil, err
	}
	defer func() {
		if ferr := data.Finalize(); ferr != nil {
			log.Warn("finalizing render data: %v", ferr)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.renderFrame(data, args, 0)
}

// Animate drives a cooperative loop over every frame of the source,
// honoring the iterator contract. fn runs once per frame; ctx is
// checked between frames, never mid-encode. Returning an error from fn
// stops the loop.
func (r *Renderable) Animate(ctx context.Context, args Args, fn func(*Frame) error) error {
	it, err := r.Iterator(args)
	if err != nil {
		return err
	}
	defer it.Close()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		frame, err := it.Next(ctx)
		if err == ErrExhausted {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(frame); err != nil {
			return err
		}
	}
}

// checkArgs validates compatibility and substitutes defaults for the
// zero Args value. Args built for an ancestor class are rebuilt for the
// renderable's class: the supplied namespaces carry over and the
// remaining declarers take their defaults.
func (r *Renderable) checkArgs(args Args) (Args, error) {
	if args.class == nil {
		return DefaultArgs(r.class), nil
	}
	if !r.class.IsSubclassOf(args.class) {
		return Args{}, fmt.Errorf("%w: args for %s used with %s",
			ErrIncompatibleArgs, args.class.name, r.class.name)
	}
	if args.class == r.class {
		return args, nil
	}
	namespaces := make([]Namespace, 0, len(args.byClass))
	for _, ns := range args.byClass {
		namespaces = append(namespaces, ns)
	}
	return NewArgs(r.class, namespaces...)
}

// renderFrame runs steps 2-3 of the pipeline for one frame index with
// an already-acquired Data set.
func (r *Renderable) renderFrame(data *Data, args Args, idx int) (*Frame, error) {
	size, err := r.resolveSize()
	if err != nil {
		return nil, err
	}

	_, dur, err := r.src.Frame(idx)
	if err != nil {
		return nil, fmt.Errorf("render: fetching frame %d: %w", idx, err)
	}

	content, err := r.class.encoder()(&EncodeContext{
		Renderable: r,
		Data:       data,
		Args:       args,
		Size:       size,
		FrameIndex: idx,
	})
	if err != nil {
		return nil, &EncodeError{Class: r.class.name, Err: err}
	}

	return &Frame{Index: idx, Duration: dur, Size: size, Content: content}, nil
}

// resolveSize computes the output size in cells: the explicit size when
// fixed, else a fit of the source's aspect ratio into the terminal grid
// corrected by the cell ratio. Out-of-range results are SizeErrors.
func (r *Renderable) resolveSize() (Size, error) {
	if r.explicit != nil {
		return validateSize(*r.explicit)
	}

	cols, rows := fallbackColumns, fallbackRows
	ratio := 0.5
	if r.terminal != nil {
		if w, h, err := r.terminal.Size(); err == nil {
			// Reserve one row so the shell prompt does not scroll the
			// last rendered line away.
			cols, rows = w, h-1
		}
		ratio = r.terminal.CellRatio()
	}
	if rows < 1 {
		rows = 1
	}

	srcW, srcH := r.src.Bounds()
	if srcW <= 0 || srcH <= 0 {
		return Size{}, &SizeError{Width: srcW, Height: srcH}
	}

	// A cell is ratio times as wide as it is tall, so a row spans
	// 1/ratio source columns' worth of height.
	width := cols
	height := int(float64(width) * float64(srcH) / float64(srcW) * ratio)
	if height > rows {
		width = width * rows / height
		height = rows
	}
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return validateSize(Size{Width: width, Height: height})
}

func validateSize(s Size) (Size, error) {
	if s.Width <= 0 || s.Height <= 0 || s.Width > MaxWidth || s.Height > MaxHeight {
		return Size{}, &SizeError{Width: s.Width, Height: s.Height}
	}
	return s, nil
}
