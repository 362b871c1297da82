// ABOUTME: Tests for visible width measurement and ANSI stripping
// ABOUTME: Covers truecolor SGR runs, APC payloads, and wide graphemes

package cells

import "testing"

func TestWidth(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"empty", "", 0},
		{"plain ascii", "hello", 5},
		{"sgr colors", "\x1b[48;2;1;2;3m\x1b[38;2;4;5;6m▄\x1b[0m", 1},
		{"half block run", "\x1b[48;2;0;0;0m▄▄▄▄\x1b[0m", 4},
		{"wide cjk", "日本", 4},
		{"osc bel", "\x1b]11;?\x07x", 1},
		{"apc st payload", "\x1b_Ga=T;AAAA\x1b\\", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Width(tt.in); got != tt.want {
				t.Errorf("Width(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestStripANSI(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"\x1b[31mred\x1b[0m", "red"},
		{"\x1b]1337;File=x:AAA\x07tail", "tail"},
		{"a\x1b_Gm=0;zz\x1b\\b", "ab"},
		{"trunc\x1b[", "trunc"},
	}
	for _, tt := range tests {
		if got := StripANSI(tt.in); got != tt.want {
			t.Errorf("StripANSI(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
