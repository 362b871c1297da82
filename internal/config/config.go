// ABOUTME: Settings loading for render and terminal-query tunables
// ABOUTME: YAML config file with TERMPIX_* environment variable overrides

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings holds the tunable defaults for rendering and terminal queries.
// The zero value is not usable; start from Default().
type Settings struct {
	// QueryTimeoutMS bounds the read step of a terminal query.
	QueryTimeoutMS int `yaml:"query_timeout_ms"`
	// CellRatio is the fallback width/height ratio of one character cell,
	// used when the terminal cannot report its pixel size.
	CellRatio float64 `yaml:"cell_ratio"`
	// CacheThreshold is the largest definite frame count for which the
	// render iterator caches frames.
	CacheThreshold int `yaml:"cache_threshold"`
	// QueriesEnabled globally gates the write/read query choreography.
	QueriesEnabled *bool `yaml:"queries_enabled"`
	// SharedCacheDir, when set, holds the cross-process query cache and
	// its lock file. Empty means process-local caching only.
	SharedCacheDir string `yaml:"shared_cache_dir"`
}

// Default returns the built-in settings.
func Default() *Settings {
	enabled := true
	return &Settings{
		QueryTimeoutMS: 100,
		CellRatio:      0.5,
		CacheThreshold: 64,
		QueriesEnabled: &enabled,
	}
}

// DefaultPath returns the user config file location, honoring XDG_CONFIG_HOME.
func DefaultPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "termpix", "config.yaml")
}

// Load reads settings from path, merges them over the defaults, then applies
// environment overrides. A missing file is not an error; defaults apply.
func Load(path string) (*Settings, error) {
	s := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// defaults apply
		case err != nil:
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		default:
			var file Settings
			if err := yaml.Unmarshal(data, &file); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", path, err)
			}
			merge(s, &file)
		}
	}

	applyEnv(s)
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// QueryTimeout returns the query timeout as a duration.
func (s *Settings) QueryTimeout() time.Duration {
	return time.Duration(s.QueryTimeoutMS) * time.Millisecond
}

// Queries reports whether terminal queries are enabled.
func (s *Settings) Queries() bool {
	return s.QueriesEnabled == nil || *s.QueriesEnabled
}

func (s *Settings) validate() error {
	if s.QueryTimeoutMS <= 0 {
		return fmt.Errorf("query_timeout_ms must be positive, got %d", s.QueryTimeoutMS)
	}
	if s.CellRatio <= 0 {
		return fmt.Errorf("cell_ratio must be positive, got %g", s.CellRatio)
	}
	if s.CacheThreshold < 0 {
		return fmt.Errorf("cache_threshold must be non-negative, got %d", s.CacheThreshold)
	}
	return nil
}

// merge overlays non-zero file values onto base.
func merge(base, file *Settings) {
	if file.QueryTimeoutMS != 0 {
		base.QueryTimeoutMS = file.QueryTimeoutMS
	}
	if file.CellRatio != 0 {
		base.CellRatio = file.CellRatio
	}
	if file.CacheThreshold != 0 {
		base.CacheThreshold = file.CacheThreshold
	}
	if file.QueriesEnabled != nil {
		base.QueriesEnabled = file.QueriesEnabled
	}
	if file.SharedCacheDir != "" {
		base.SharedCacheDir = file.SharedCacheDir
	}
}

// applyEnv overrides settings from TERMPIX_* environment variables.
func applyEnv(s *Settings) {
	if v := os.Getenv("TERMPIX_QUERY_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			s.QueryTimeoutMS = n
		}
	}
	if v := os.Getenv("TERMPIX_CELL_RATIO"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			s.CellRatio = f
		}
	}
	if v := os.Getenv("TERMPIX_CACHE_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			s.CacheThreshold = n
		}
	}
	if v := os.Getenv("TERMPIX_NO_QUERIES"); v != "" {
		disabled := false
		s.QueriesEnabled = &disabled
	}
	if v := os.Getenv("TERMPIX_SHARED_CACHE_DIR"); v != "" {
		s.SharedCacheDir = v
	}
}
