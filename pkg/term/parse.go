// ABOUTME: Parsing of small wire fragments from terminal replies
// ABOUTME: CSI numeric parameter lists and OSC rgb: color triples

package term

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ParseCSIParams extracts the semicolon-separated numeric parameters of
// the first CSI sequence in reply ending with the given final byte.
// For "\x1b[4;480;640t" with final 't' it returns [4, 480, 640].
func ParseCSIParams(reply []byte, final byte) ([]int, error) {
	start := bytes.Index(reply, []byte("\x1b["))
	if start < 0 {
		return nil, fmt.Errorf("term: no CSI introducer in reply %q", reply)
	}
	body := reply[start+2:]
	end := bytes.IndexByte(body, final)
	if end < 0 {
		return nil, fmt.Errorf("term: final byte %q not found in reply %q", final, reply)
	}

	parts := strings.Split(string(body[:end]), ";")
	params := make([]int, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			params = append(params, 0)
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("term: bad CSI parameter %q: %w", p, err)
		}
		params = append(params, n)
	}
	return params, nil
}

// ParseOSCColor parses an OSC color report such as
// "\x1b]11;rgb:ffff/ffff/ffff\x1b\\" (or BEL-terminated) into a color.
// Components may be 1-4 hex digits and are scaled to [0, 1].
func ParseOSCColor(reply []byte) (colorful.Color, error) {
	s := string(reply)
	i := strings.Index(s, "rgb:")
	if i < 0 {
		return colorful.Color{}, fmt.Errorf("term: no rgb: triple in reply %q", reply)
	}
	s = s[i+len("rgb:"):]
	if j := strings.IndexAny(s, "\x07\x1b"); j >= 0 {
		s = s[:j]
	}

	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return colorful.Color{}, fmt.Errorf("term: malformed rgb triple %q", s)
	}

	var comp [3]float64
	for k, p := range parts {
		if len(p) == 0 || len(p) > 4 {
			return colorful.Color{}, fmt.Errorf("term: bad color component %q", p)
		}
		v, err := strconv.ParseUint(p, 16, 16)
		if err != nil {
			return colorful.Color{}, fmt.Errorf("term: bad color component %q: %w", p, err)
		}
		// Scale by the component's own width: "ff" is 8-bit, "ffff" 16-bit.
		max := float64(uint64(1)<<(4*len(p))) - 1
		comp[k] = float64(v) / max
	}
	return colorful.Color{R: comp[0], G: comp[1], B: comp[2]}, nil
}
