// ABOUTME: iTerm2 inline images style using OSC 1337 File transfers
// ABOUTME: Display size is given in cells; aspect preservation is an arg

package style

import (
	"encoding/base64"
	"fmt"

	"github.com/mauromedda/termpix/pkg/render"
)

func newITerm2Class() *render.Class {
	spec := render.NewArgsSpec(
		render.FieldSpec{Name: "preserveAspect", Default: true},
	)
	return render.NewClass("iterm2", nil,
		render.WithArgs(spec),
		render.WithEncoder(encodeITerm2),
	)
}

func encodeITerm2(ec *render.EncodeContext) (string, error) {
	img, err := frameImage(ec)
	if err != nil {
		return "", err
	}
	ns, err := ec.Args.For(ITerm2)
	if err != nil {
		return "", err
	}

	data, err := encodePNG(img)
	if err != nil {
		return "", err
	}

	preserve := 0
	if ns.Bool("preserveAspect") {
		preserve = 1
	}
	encoded := base64.StdEncoding.EncodeToString(data)
	return fmt.Sprintf(
		"\x1b]1337;File=inline=1;size=%d;width=%d;height=%d;preserveAspectRatio=%d:%s\a",
		len(data), ec.Size.Width, ec.Size.Height, preserve, encoded), nil
}
