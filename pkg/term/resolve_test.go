// ABOUTME: Tests for active-terminal settings resolution
// ABOUTME: Configured and env-derived tunables must reach the resolved terminal

package term

import (
	"testing"

	"github.com/mauromedda/termpix/internal/config"
)

func TestActiveSettingsHonorsEnvOverrides(t *testing.T) {
	t.Setenv("TERMPIX_QUERY_TIMEOUT_MS", "250")
	t.Setenv("TERMPIX_CELL_RATIO", "0.4")
	resetActive()
	t.Cleanup(resetActive)

	s := activeSettings()
	if s.QueryTimeoutMS != 250 {
		t.Errorf("QueryTimeoutMS = %d, want env 250", s.QueryTimeoutMS)
	}
	if s.CellRatio != 0.4 {
		t.Errorf("CellRatio = %g, want env 0.4", s.CellRatio)
	}
}

func TestConfigureWinsOverLoadedConfig(t *testing.T) {
	t.Setenv("TERMPIX_QUERY_TIMEOUT_MS", "250")
	resetActive()
	t.Cleanup(resetActive)

	cfg := config.Default()
	cfg.QueryTimeoutMS = 75
	cfg.SharedCacheDir = t.TempDir()
	Configure(cfg)

	if got := activeSettings(); got != cfg {
		t.Fatalf("activeSettings = %+v, want the injected settings", got)
	}

	// A terminal built from these settings carries them, shared cache
	// included.
	tt := NewTerminal(NewVirtualDevice(80, 24), -1, WithSettings(activeSettings()))
	if tt.Settings().QueryTimeoutMS != 75 {
		t.Errorf("terminal QueryTimeoutMS = %d, want 75", tt.Settings().QueryTimeoutMS)
	}
	if tt.shared == nil {
		t.Error("shared_cache_dir did not enable the shared cache")
	}
}
