// ABOUTME: Query-derived terminal facts with process and cross-process caching
// ABOUTME: singleflight dedupes concurrent first callers; timeouts cache as fallback

package term

import (
	"fmt"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/sync/singleflight"

	"github.com/mauromedda/termpix/internal/log"
)

// Escape sequences for the built-in queries.
var (
	reqTextAreaPixels = []byte("\x1b[14t")
	reqTextAreaCells  = []byte("\x1b[18t")
	reqBackground     = []byte("\x1b]11;?\x1b\\")
	reqKittyProbe     = []byte("\x1b_Gi=31,s=1,v=1,a=q,t=d,f=24;AAAA\x1b\\")
)

// facts is the per-terminal cache of query results. A cached value may
// be the documented fallback: "unsupported" is remembered too, so a fact
// is queried at most once per process.
type facts struct {
	group singleflight.Group
	mu    sync.Mutex
	vals  map[string]any
}

func (f *facts) get(name string) (any, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.vals[name]
	return v, ok
}

func (f *facts) put(name string, v any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.vals == nil {
		f.vals = make(map[string]any)
	}
	f.vals[name] = v
}

// fact resolves a named fact once: local cache, then shared cache, then
// compute (which may query the terminal), storing the result in both.
// compute reports whether its result is cacheable; a value produced
// without consulting the terminal (lock failure, queries disabled) is
// returned but not stored, so a later call can retry.
func (t *Terminal) fact(name string, compute func() (any, bool)) any {
	if v, ok := t.facts.get(name); ok {
		return v
	}
	v, _, _ := t.facts.group.Do(name, func() (any, error) {
		if v, ok := t.facts.get(name); ok {
			return v, nil
		}
		if t.shared != nil {
			if v, ok := t.shared.load(name); ok {
				t.facts.put(name, v)
				return v, nil
			}
		}
		v, cacheable := compute()
		if !cacheable {
			return v, nil
		}
		t.facts.put(name, v)
		if t.shared != nil {
			if err := t.shared.store(name, v); err != nil {
				log.Debug("storing shared fact %s: %v", name, err)
			}
		}
		return v, nil
	})
	return v
}

// CellRatio returns the width/height ratio of one character cell. The
// pixel size reported by the tty wins; otherwise the text-area queries
// are issued; otherwise the configured fallback applies. Query results
// and timeouts cache for the process lifetime; a fallback forced by a
// lock failure or disabled queries does not.
func (t *Terminal) CellRatio() float64 {
	v := t.fact("cell_ratio", t.queryCellRatio)
	if r, ok := v.(float64); ok {
		return r
	}
	return t.cfg.CellRatio
}

func (t *Terminal) queryCellRatio() (any, bool) {
	if pw, ph, cols, rows, ok := t.pixelGeometry(); ok {
		return cellRatioFrom(pw, ph, cols, rows), true
	}
	if !QueriesEnabled() {
		return t.cfg.CellRatio, false
	}

	var ratio = t.cfg.CellRatio
	err := t.WithLock(func(s *Session) error {
		px, err := s.Query(reqTextAreaPixels, MatchCSI, t.cfg.QueryTimeout())
		if err != nil || px.Timeout {
			return err
		}
		cl, err := s.Query(reqTextAreaCells, MatchCSI, t.cfg.QueryTimeout())
		if err != nil || cl.Timeout {
			return err
		}

		// Replies: CSI 4 ; height ; width t and CSI 8 ; rows ; cols t.
		pp, err := ParseCSIParams(px.Data, 't')
		if err != nil || len(pp) < 3 || pp[0] != 4 {
			return nil
		}
		cp, err := ParseCSIParams(cl.Data, 't')
		if err != nil || len(cp) < 3 || cp[0] != 8 {
			return nil
		}
		ratio = cellRatioFrom(pp[2], pp[1], cp[2], cp[1])
		return nil
	})
	if err != nil {
		log.Warn("cell ratio query: %v", err)
		return ratio, false
	}
	return ratio, true
}

func cellRatioFrom(pxW, pxH, cols, rows int) float64 {
	if pxW <= 0 || pxH <= 0 || cols <= 0 || rows <= 0 {
		return 0.5
	}
	cellW := float64(pxW) / float64(cols)
	cellH := float64(pxH) / float64(rows)
	if cellH == 0 {
		return 0.5
	}
	return cellW / cellH
}

// pixelGeometry reports the text area pixel size and cell grid from the
// device itself (ioctl on unix), avoiding a query entirely.
func (t *Terminal) pixelGeometry() (pxW, pxH, cols, rows int, ok bool) {
	if ps, isPS := t.dev.(PixelSizer); isPS {
		pw, ph, err := ps.PixelSize()
		if err != nil || pw <= 0 || ph <= 0 {
			return 0, 0, 0, 0, false
		}
		w, h, err := t.Size()
		if err != nil {
			return 0, 0, 0, 0, false
		}
		return pw, ph, w, h, true
	}
	if t.fd >= 0 {
		return ioctlPixelGeometry(t.fd)
	}
	return 0, 0, 0, 0, false
}

// BackgroundColor returns the terminal background, defaulting to black
// when the OSC 11 query is unanswered or disabled. Styles use it to
// flatten transparent pixels. The fact is cached as a hex string so the
// shared cache stays scalar-only.
func (t *Terminal) BackgroundColor() colorful.Color {
	v := t.fact("background", t.queryBackground)
	if s, ok := v.(string); ok {
		if c, err := colorful.Hex(s); err == nil {
			return c
		}
	}
	return colorful.Color{}
}

func (t *Terminal) queryBackground() (any, bool) {
	if !QueriesEnabled() {
		return "#000000", false
	}
	hex := "#000000"
	err := t.WithLock(func(s *Session) error {
		res, err := s.Query(reqBackground, MatchOSC, t.cfg.QueryTimeout())
		if err != nil || res.Timeout {
			return err
		}
		parsed, err := ParseOSCColor(res.Data)
		if err != nil {
			log.Debug("background color reply unparseable: %v", err)
			return nil
		}
		hex = parsed.Hex()
		return nil
	})
	if err != nil {
		log.Warn("background color query: %v", err)
		return hex, false
	}
	return hex, true
}

// SupportsKitty reports whether the terminal answers the kitty graphics
// probe. Conclusive environment detection short-circuits the query; a
// probe timeout caches as unsupported.
func (t *Terminal) SupportsKitty() bool {
	v := t.fact("kitty", t.queryKittySupport)
	b, _ := v.(bool)
	return b
}

func (t *Terminal) queryKittySupport() (any, bool) {
	if proto, conclusive := DetectEnv(); conclusive {
		return proto == ProtoKitty, true
	}
	if !QueriesEnabled() {
		return false, false
	}
	supported := false
	err := t.WithLock(func(s *Session) error {
		res, err := s.Query(reqKittyProbe, MatchAPC, t.cfg.QueryTimeout())
		if err != nil || res.Timeout {
			return err
		}
		supported = true
		return nil
	})
	if err != nil {
		log.Warn("kitty probe: %v", err)
		return false, false
	}
	return supported, true
}

// sharedKey namespaces fact names in the shared cache file.
func sharedKey(name string) string {
	return fmt.Sprintf("facts.%s", name)
}
