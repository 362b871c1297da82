// ABOUTME: Active terminal resolution, memoized for the process lifetime
// ABOUTME: Candidate order: stdout, stdin, stderr, then the controlling tty device

package term

import (
	"os"
	"sync"

	"golang.org/x/term"

	"github.com/mauromedda/termpix/internal/config"
	"github.com/mauromedda/termpix/internal/log"
)

var (
	activeOnce sync.Once
	activeTerm *Terminal

	settingsMu sync.Mutex
	activeCfg  *config.Settings
)

// Configure sets the settings the active terminal is built with. Callers
// that load their own configuration (the CLI) inject it here before the
// first Active call; without it, Active loads the default config path
// itself so file and env tunables still apply.
func Configure(s *config.Settings) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	activeCfg = s
}

// activeSettings returns the configured settings, loading them on first
// use. A broken config file degrades to defaults rather than leaving the
// terminal unusable.
func activeSettings() *config.Settings {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	if activeCfg == nil {
		s, err := config.Load(config.DefaultPath())
		if err != nil {
			log.Warn("loading config: %v", err)
			s = config.Default()
		}
		activeCfg = s
	}
	return activeCfg
}

// Active returns the process's terminal, resolving it on first call and
// memoizing the result. The first standard stream confirmed to be a real
// terminal establishes that a controlling terminal exists; query I/O then
// prefers the controlling tty device so reads and writes share one
// read-write handle. Returns (nil, false) when no candidate qualifies;
// callers degrade to documented fallbacks, never to an error.
//
// A stream redirected after the first call is not observed;
// re-resolution is unsupported.
func Active() (*Terminal, bool) {
	activeOnce.Do(func() {
		activeTerm = resolve()
	})
	return activeTerm, activeTerm != nil
}

func resolve() *Terminal {
	candidates := []*os.File{os.Stdout, os.Stdin, os.Stderr}

	var hit *os.File
	for _, f := range candidates {
		if term.IsTerminal(int(f.Fd())) {
			hit = f
			break
		}
	}
	if hit == nil {
		log.Debug("no terminal on stdout/stdin/stderr; queries unavailable")
		return nil
	}

	cfg := activeSettings()

	// Prefer the controlling tty: it is both readable and writable,
	// which the standard streams individually may not be.
	if tty := openControllingTTY(); tty != nil {
		log.Debug("active terminal: controlling tty")
		return newFromFile(tty, WithSettings(cfg))
	}

	log.Debug("active terminal: fd %d", hit.Fd())
	return newFromFile(hit, WithSettings(cfg))
}

// resetActive clears the memoized terminal and settings. Tests only.
func resetActive() {
	activeOnce = sync.Once{}
	activeTerm = nil
	settingsMu.Lock()
	activeCfg = nil
	settingsMu.Unlock()
}
