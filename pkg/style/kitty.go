// ABOUTME: Kitty graphics protocol style with chunked base64 APC transmission
// ABOUTME: Optional zlib compression and z-index placement

package style

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/mauromedda/termpix/pkg/render"
)

// Max base64 chars per APC chunk, per the protocol.
const kittyChunkSize = 4096

// Image ids must be unique per process so concurrent renders do not
// overwrite each other's placements.
var kittyImageID atomic.Uint32

// kittyData pins the image id for the lifetime of one render, so every
// frame of an animation reuses the same placement.
type kittyData struct {
	ID render.Slot[uint32]
}

func (d *kittyData) Class() *render.Class { return Kitty }

func (d *kittyData) Finalize() error { return nil }

func newKittyClass() *render.Class {
	spec := render.NewArgsSpec(
		render.FieldSpec{Name: "z", Default: 0},
		render.FieldSpec{Name: "compress", Default: false},
	)
	return render.NewClass("kitty", nil,
		render.WithArgs(spec),
		render.WithData(func(*render.Renderable, render.Args) (render.DataNamespace, error) {
			d := &kittyData{}
			d.ID.Set(kittyImageID.Add(1))
			return d, nil
		}),
		render.WithEncoder(encodeKitty),
	)
}

// encodeKitty transmits the frame as PNG data over the kitty graphics
// protocol. The first chunk carries the full header; continuation chunks
// carry only the more flag and payload.
func encodeKitty(ec *render.EncodeContext) (string, error) {
	img, err := frameImage(ec)
	if err != nil {
		return "", err
	}
	ns, err := ec.Args.For(Kitty)
	if err != nil {
		return "", err
	}
	ds, err := ec.Data.For(Kitty)
	if err != nil {
		return "", err
	}
	id := ds.(*kittyData).ID.MustGet()

	data, err := encodePNG(img)
	if err != nil {
		return "", err
	}

	compression := ""
	if ns.Bool("compress") {
		var buf bytes.Buffer
		zw := zlib.NewWriter(&buf)
		if _, err := zw.Write(data); err != nil {
			return "", fmt.Errorf("style: compressing frame: %w", err)
		}
		if err := zw.Close(); err != nil {
			return "", fmt.Errorf("style: compressing frame: %w", err)
		}
		data = buf.Bytes()
		compression = ",o=z"
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	header := fmt.Sprintf("a=T,f=100,q=2,i=%d,z=%d,c=%d,r=%d%s",
		id, ns.Int("z"), ec.Size.Width, ec.Size.Height, compression)

	var b strings.Builder
	if len(encoded) <= kittyChunkSize {
		fmt.Fprintf(&b, "\x1b_G%s,m=0;%s\x1b\\", header, encoded)
		return b.String(), nil
	}

	for i := 0; i < len(encoded); i += kittyChunkSize {
		end := i + kittyChunkSize
		if end > len(encoded) {
			end = len(encoded)
		}
		more := 1
		if end == len(encoded) {
			more = 0
		}
		if i == 0 {
			fmt.Fprintf(&b, "\x1b_G%s,m=%d;%s\x1b\\", header, more, encoded[i:end])
		} else {
			fmt.Fprintf(&b, "\x1b_Gm=%d;%s\x1b\\", more, encoded[i:end])
		}
	}
	return b.String(), nil
}
