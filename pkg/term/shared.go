// ABOUTME: Cross-process query fact cache backed by a JSON file
// ABOUTME: gjson reads, sjson writes, guarded by the cross-process file lock

package term

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const sharedCacheFile = "facts.json"

// sharedCache persists query-derived facts so cooperating worker
// processes skip redundant queries against the same physical terminal.
// Callers hold the cross-process lock around load/store (WithLock does,
// and fact() only touches the shared cache outside a query exchange, so
// it locks the file itself).
type sharedCache struct {
	path string
	lock *fileLock
}

func newSharedCache(dir string) *sharedCache {
	return &sharedCache{
		path: filepath.Join(dir, sharedCacheFile),
		lock: newFileLock(dir),
	}
}

// load fetches a fact written by this or another process. Supported
// value kinds are bool, float64, and string.
func (c *sharedCache) load(name string) (any, bool) {
	if err := c.lock.lock(); err != nil {
		return nil, false
	}
	defer c.lock.unlock()

	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, false
	}
	res := gjson.GetBytes(data, sharedKey(name))
	if !res.Exists() {
		return nil, false
	}
	switch res.Type {
	case gjson.True:
		return true, true
	case gjson.False:
		return false, true
	case gjson.Number:
		return res.Float(), true
	case gjson.String:
		return res.String(), true
	}
	return nil, false
}

// store writes a fact for other processes to reuse.
func (c *sharedCache) store(name string, v any) error {
	switch v.(type) {
	case bool, float64, string:
	default:
		return fmt.Errorf("term: unsupported shared fact type %T", v)
	}

	if err := c.lock.lock(); err != nil {
		return err
	}
	defer c.lock.unlock()

	data, err := os.ReadFile(c.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading shared cache: %w", err)
	}
	out, err := sjson.SetBytes(data, sharedKey(name), v)
	if err != nil {
		return fmt.Errorf("updating shared cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("creating shared cache dir: %w", err)
	}
	if err := os.WriteFile(c.path, out, 0o644); err != nil {
		return fmt.Errorf("writing shared cache: %w", err)
	}
	return nil
}
