// ABOUTME: Half-block truecolor style: two pixel rows per cell row via ▄
// ABOUTME: Transparent pixels are flattened against the terminal background

package style

import (
	"fmt"
	"image"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/mauromedda/termpix/pkg/pixels"
	"github.com/mauromedda/termpix/pkg/render"
)

// blockData carries the background used to flatten transparency. It is
// resolved once per render so animations blend consistently even if the
// terminal answers slowly.
type blockData struct {
	Background render.Slot[colorful.Color]
}

func (d *blockData) Class() *render.Class { return Block }

func (d *blockData) Finalize() error { return nil }

func newBlockClass() *render.Class {
	spec := render.NewArgsSpec(
		render.FieldSpec{Name: "scale", Default: 1.0},
		render.FieldSpec{Name: "threshold", Default: 32},
	)
	return render.NewClass("block", nil,
		render.WithArgs(spec),
		render.WithData(newBlockData),
		render.WithEncoder(encodeBlock),
	)
}

func newBlockData(r *render.Renderable, _ render.Args) (render.DataNamespace, error) {
	d := &blockData{}
	if t := r.Terminal(); t != nil {
		d.Background.Set(t.BackgroundColor())
	} else {
		d.Background.Set(colorful.Color{})
	}
	return d, nil
}

// encodeBlock renders one frame as lines of ▄ characters, two pixel rows
// per output row. The top pixel colors the background, the bottom the
// foreground; each line ends with a reset so surrounding text is safe.
func encodeBlock(ec *render.EncodeContext) (string, error) {
	img, err := frameImage(ec)
	if err != nil {
		return "", err
	}
	ns, err := ec.Args.For(Block)
	if err != nil {
		return "", err
	}
	scale := ns.Float("scale")
	threshold := ns.Int("threshold")
	if scale <= 0 || scale > 1 {
		return "", fmt.Errorf("style: scale %v out of range (0, 1]", scale)
	}

	ds, err := ec.Data.For(Block)
	if err != nil {
		return "", err
	}
	bg := ds.(*blockData).Background.MustGet()

	w := int(float64(ec.Size.Width) * scale)
	h := int(float64(ec.Size.Height) * scale)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	scaled := pixels.Scale(img, w, 2*h)

	var b strings.Builder
	for y := 0; y < 2*h; y += 2 {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < w; x++ {
			tr, tg, tb := flattenAt(scaled, x, y, bg, threshold)
			br, bgc, bb := flattenAt(scaled, x, y+1, bg, threshold)
			fmt.Fprintf(&b, "\x1b[48;2;%d;%d;%dm\x1b[38;2;%d;%d;%dm▄",
				tr, tg, tb, br, bgc, bb)
		}
		b.WriteString("\x1b[0m")
	}
	return b.String(), nil
}

// flattenAt composites the pixel at (x, y) over the terminal background.
// Pixels below the alpha threshold take the background outright.
func flattenAt(img image.Image, x, y int, bg colorful.Color, threshold int) (uint8, uint8, uint8) {
	r, g, b, a := img.At(x, y).RGBA()
	a8 := int(a >> 8)
	br, bgc, bb := bg.RGB255()
	if a8 < threshold {
		return br, bgc, bb
	}
	alpha := float64(a8) / 255
	blend := func(c uint32, base uint8) uint8 {
		// RGBA() returns alpha-premultiplied channels.
		v := float64(c>>8) + float64(base)*(1-alpha)
		if v > 255 {
			v = 255
		}
		return uint8(v)
	}
	return blend(r, br), blend(g, bgc), blend(b, bb)
}
