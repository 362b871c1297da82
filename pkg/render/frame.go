// ABOUTME: Frame is one immutable unit of rendered output
// ABOUTME: Carries index, duration, rendered size, and encoded content

package render

import "time"

// Size is a render size in terminal cells.
type Size struct {
	Width  int
	Height int
}

// Frame is the result of rendering one animation frame (or a whole
// static image, as frame zero). Content is the encoded escape-sequence
// payload; Frames are produced fresh per render and never mutated.
type Frame struct {
	Index    int
	Duration time.Duration
	Size     Size
	Content  string
}
