package ui

import (
	"strings"
	"testing"
)

func TestTruncateRunesHelper(t *testing.T) {
	tests := []struct {
		in     string
		max    int
		suffix string
		want   string
	}{
		{"hola", 10, "…", "hola"},
		{"hola mundo", 6, "…", "hola …"},
		{"Búsqueda", 5, "…", "Búsq…"},
		{"日本語テキスト", 7, "…", "日本語…"},
		{"abc", 0, "…", ""},
		{"abcdef", 2, "...", ".."},
	}
	for _, tt := range tests {
		if got := truncateRunesHelper(tt.in, tt.max, tt.suffix); got != tt.want {
			t.Errorf("truncateRunesHelper(%q, %d, %q) = %q, want %q", tt.in, tt.max, tt.suffix, got, tt.want)
		}
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ñu", 4); got != "ñu  " {
		t.Errorf("padRight = %q", got)
	}
	if got := padRight("largo", 2); got != "largo" {
		t.Errorf("padRight should not cut, got %q", got)
	}
}

func TestLineCount(t *testing.T) {
	for in, want := range map[string]int{"": 0, "a": 1, "a\nb": 2, "a\n": 2} {
		if got := lineCount(in); got != want {
			t.Errorf("lineCount(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestClamp(t *testing.T) {
	if clamp(-1, 0, 5) != 0 || clamp(9, 0, 5) != 5 || clamp(3, 0, 5) != 3 {
		t.Error("clamp out of bounds")
	}
}

func TestWrap(t *testing.T) {
	r := testRenderer()
	out := wrap(r, "uno dos tres cuatro", 8)
	for _, line := range strings.Split(out, "\n") {
		if len([]rune(strings.TrimRight(line, " "))) > 8 {
			t.Errorf("line %q wider than 8", line)
		}
	}
	if wrap(r, "sin cambio", 0) != "sin cambio" {
		t.Error("non-positive width should leave the text alone")
	}
}

func TestCenter(t *testing.T) {
	got := center(testRenderer(), "ab", 6)
	if got != "  ab  " {
		t.Errorf("center = %q", got)
	}
}
