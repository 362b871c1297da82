// ABOUTME: Built-in render styles registered as render classes
// ABOUTME: Styles share PNG encoding and frame-fetch helpers

package style

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/mauromedda/termpix/pkg/render"
)

// The built-in style classes, registered at package init under
// render.Base(). Lookup by name goes through render.Lookup.
var (
	Block  *render.Class
	Kitty  *render.Class
	ITerm2 *render.Class
)

func init() {
	Block = newBlockClass()
	Kitty = newKittyClass()
	ITerm2 = newITerm2Class()
}

// frameImage fetches the frame the encode context points at.
func frameImage(ec *render.EncodeContext) (image.Image, error) {
	img, _, err := ec.Renderable.Source().Frame(ec.FrameIndex)
	if err != nil {
		return nil, fmt.Errorf("style: fetching frame %d: %w", ec.FrameIndex, err)
	}
	return img, nil
}

// encodePNG flattens a frame to PNG bytes for the graphics protocols.
func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("style: png encode: %w", err)
	}
	return buf.Bytes(), nil
}
