// ABOUTME: Best-style selection for a terminal
// ABOUTME: Environment detection first, kitty probe second, block fallback

package style

import (
	"github.com/mauromedda/termpix/internal/log"
	"github.com/mauromedda/termpix/pkg/render"
	"github.com/mauromedda/termpix/pkg/term"
)

// Detect picks the most capable style the terminal supports. A nil
// terminal, or one with no recognized graphics protocol, gets the
// half-block fallback, which works everywhere truecolor does.
func Detect(t *term.Terminal) *render.Class {
	if t == nil {
		return Block
	}
	if proto, conclusive := term.DetectEnv(); conclusive {
		switch proto {
		case term.ProtoKitty:
			return Kitty
		case term.ProtoITerm2:
			return ITerm2
		}
		return Block
	}
	if t.SupportsKitty() {
		return Kitty
	}
	log.Debug("no graphics protocol detected; using block style")
	return Block
}
