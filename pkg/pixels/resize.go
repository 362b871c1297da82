// ABOUTME: Pixel scaling helpers used when mapping a source onto a cell grid
// ABOUTME: CatmullRom interpolation; aspect-preserving fit computation

package pixels

import (
	"image"

	"golang.org/x/image/draw"
)

// Fit computes the largest size at or below (maxW, maxH) that preserves
// the aspect ratio of (w, h). Results are clamped to at least 1x1.
func Fit(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return 1, 1
	}
	outW, outH := w, h
	if outW > maxW {
		outH = outH * maxW / outW
		outW = maxW
	}
	if outH > maxH {
		outW = outW * maxH / outH
		outH = maxH
	}
	if outW < 1 {
		outW = 1
	}
	if outH < 1 {
		outH = 1
	}
	return outW, outH
}

// Scale resamples src to exactly (w, h) using CatmullRom interpolation.
// When the size already matches, src is returned unchanged.
func Scale(src image.Image, w, h int) image.Image {
	b := src.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
