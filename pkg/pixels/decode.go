// ABOUTME: Image decoding into Sources, including GIF animation compositing
// ABOUTME: Handles disposal modes and per-frame delays; registers webp via x/image

package pixels

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"os"
	"time"

	// Register decoders for standard formats.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// Open decodes the image file at path into a Source. GIF files with more
// than one frame become animated sources; everything else is static.
func Open(path string) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	src, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return src, nil
}

// Decode turns raw image bytes into a Source.
func Decode(data []byte) (Source, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image data")
	}

	if isGIF(data) {
		g, err := gif.DecodeAll(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding GIF: %w", err)
		}
		if len(g.Image) > 1 {
			return compositeGIF(g)
		}
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return Static(img), nil
}

func isGIF(data []byte) bool {
	return len(data) >= 3 && data[0] == 'G' && data[1] == 'I' && data[2] == 'F'
}

// compositeGIF flattens each GIF frame onto the logical screen, honoring
// the previous frame's disposal mode, so every returned frame is a full
// standalone picture.
func compositeGIF(g *gif.GIF) (Source, error) {
	w, h := g.Config.Width, g.Config.Height
	if w == 0 || h == 0 {
		b := g.Image[0].Bounds()
		w, h = b.Max.X, b.Max.Y
	}

	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	frames := make([]image.Image, 0, len(g.Image))
	durations := make([]time.Duration, 0, len(g.Image))

	for i, pal := range g.Image {
		var restore *image.RGBA
		if disposal(g, i) == gif.DisposalPrevious {
			restore = cloneRGBA(canvas)
		}

		draw.Draw(canvas, pal.Bounds(), pal, pal.Bounds().Min, draw.Over)
		frames = append(frames, cloneRGBA(canvas))

		dur := DefaultFrameDuration
		if i < len(g.Delay) && g.Delay[i] > 0 {
			dur = time.Duration(g.Delay[i]) * 10 * time.Millisecond
		}
		durations = append(durations, dur)

		switch disposal(g, i) {
		case gif.DisposalBackground:
			draw.Draw(canvas, pal.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			canvas = restore
		}
	}

	return &animated{w: w, h: h, frames: frames, durations: durations}, nil
}

func disposal(g *gif.GIF, i int) byte {
	if i < len(g.Disposal) {
		return g.Disposal[i]
	}
	return gif.DisposalNone
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}
