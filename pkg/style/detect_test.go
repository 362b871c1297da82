// ABOUTME: Tests for best-style selection across terminal environments
// ABOUTME: Environment variables drive detection; nil terminal falls back

package style

import (
	"testing"

	"github.com/mauromedda/termpix/internal/config"
	"github.com/mauromedda/termpix/pkg/render"
	"github.com/mauromedda/termpix/pkg/term"
)

// clearDetectEnv blanks every variable the detector consults.
func clearDetectEnv(t *testing.T) {
	t.Helper()
	for _, v := range []string{
		"KITTY_WINDOW_ID", "TERM_PROGRAM", "GHOSTTY_RESOURCES_DIR",
		"WEZTERM_PANE", "ITERM_SESSION_ID",
	} {
		t.Setenv(v, "")
	}
}

func virtualTerminal(t *testing.T) *term.Terminal {
	t.Helper()
	return term.NewTerminal(term.NewVirtualDevice(80, 24), -1, term.WithSettings(config.Default()))
}

func TestDetectNilTerminalFallsBackToBlock(t *testing.T) {
	if got := Detect(nil); got != Block {
		t.Errorf("Detect(nil) = %v, want block", got.Name())
	}
}

func TestDetectFromEnvironment(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want *render.Class
	}{
		{"kitty window id", map[string]string{"KITTY_WINDOW_ID": "1"}, Kitty},
		{"ghostty", map[string]string{"TERM_PROGRAM": "ghostty"}, Kitty},
		{"wezterm pane", map[string]string{"WEZTERM_PANE": "0"}, Kitty},
		{"iterm2", map[string]string{"TERM_PROGRAM": "iTerm.app"}, ITerm2},
		{"iterm session", map[string]string{"ITERM_SESSION_ID": "w0t0p0"}, ITerm2},
		{"alacritty", map[string]string{"TERM_PROGRAM": "alacritty"}, Block},
		{"vscode", map[string]string{"TERM_PROGRAM": "vscode"}, Block},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearDetectEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if got := Detect(virtualTerminal(t)); got != tc.want {
				t.Errorf("Detect = %s, want %s", got.Name(), tc.want.Name())
			}
		})
	}
}

func TestDetectInconclusiveEnvUsesProbe(t *testing.T) {
	clearDetectEnv(t)
	term.SetQueriesEnabled(false)
	t.Cleanup(func() { term.SetQueriesEnabled(true) })

	// Probe disabled and nothing in the environment: block fallback.
	if got := Detect(virtualTerminal(t)); got != Block {
		t.Errorf("Detect = %s, want block", got.Name())
	}
}
