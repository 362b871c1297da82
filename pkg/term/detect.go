// ABOUTME: Environment-based graphics protocol detection
// ABOUTME: Kitty/Ghostty/WezTerm map to the kitty protocol; iTerm2 to OSC 1337

package term

import (
	"os"
	"strings"
)

// Protocol identifies a native terminal graphics protocol.
type Protocol int

const (
	ProtoNone   Protocol = iota // no native image support
	ProtoKitty                  // kitty graphics protocol (also Ghostty, WezTerm)
	ProtoITerm2                 // iTerm2 inline images protocol
)

// String returns the protocol name.
func (p Protocol) String() string {
	switch p {
	case ProtoKitty:
		return "kitty"
	case ProtoITerm2:
		return "iterm2"
	default:
		return "none"
	}
}

// DetectEnv inspects environment variables and returns the advertised
// protocol plus whether the evidence is conclusive. Inconclusive results
// may be refined by a graphics probe query.
func DetectEnv() (Protocol, bool) {
	if os.Getenv("KITTY_WINDOW_ID") != "" {
		return ProtoKitty, true
	}

	prog := strings.ToLower(os.Getenv("TERM_PROGRAM"))
	switch prog {
	case "kitty", "ghostty", "wezterm":
		return ProtoKitty, true
	case "iterm.app":
		return ProtoITerm2, true
	case "vscode", "alacritty", "apple_terminal":
		return ProtoNone, true
	}

	if os.Getenv("GHOSTTY_RESOURCES_DIR") != "" || os.Getenv("WEZTERM_PANE") != "" {
		return ProtoKitty, true
	}
	if os.Getenv("ITERM_SESSION_ID") != "" {
		return ProtoITerm2, true
	}

	return ProtoNone, false
}
