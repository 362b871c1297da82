// ABOUTME: Tests for CSI parameter and OSC color reply parsing
// ABOUTME: Covers scaling of 2- and 4-digit hex components and malformed input

package term

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseCSIParams(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		final   byte
		want    []int
		wantErr bool
	}{
		{"pixel size", "\x1b[4;480;640t", 't', []int{4, 480, 640}, false},
		{"cell grid", "\x1b[8;24;80t", 't', []int{8, 24, 80}, false},
		{"noise before", "junk\x1b[8;24;80t", 't', []int{8, 24, 80}, false},
		{"empty param", "\x1b[4;;640t", 't', []int{4, 0, 640}, false},
		{"no introducer", "480;640t", 't', nil, true},
		{"wrong final", "\x1b[4;480;640t", 'R', nil, true},
		{"garbage param", "\x1b[4;x;640t", 't', nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCSIParams([]byte(tt.reply), tt.final)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				if diff := cmp.Diff(tt.want, got); diff != "" {
					t.Errorf("params mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestParseOSCColor(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		r, g, b float64
		wantErr bool
	}{
		{"white 16bit st", "\x1b]11;rgb:ffff/ffff/ffff\x1b\\", 1, 1, 1, false},
		{"black bel", "\x1b]11;rgb:0000/0000/0000\x07", 0, 0, 0, false},
		{"mid 8bit", "\x1b]11;rgb:80/80/80\x07", 128.0 / 255, 128.0 / 255, 128.0 / 255, false},
		{"no rgb", "\x1b]11;?\x07", 0, 0, 0, true},
		{"two components", "\x1b]11;rgb:ff/ff\x07", 0, 0, 0, true},
		{"bad hex", "\x1b]11;rgb:zz/ff/ff\x07", 0, 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ParseOSCColor([]byte(tt.reply))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			const eps = 1e-6
			if math.Abs(c.R-tt.r) > eps || math.Abs(c.G-tt.g) > eps || math.Abs(c.B-tt.b) > eps {
				t.Errorf("color = (%g, %g, %g), want (%g, %g, %g)", c.R, c.G, c.B, tt.r, tt.g, tt.b)
			}
		})
	}
}
