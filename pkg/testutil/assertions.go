// Package testutil holds helpers shared by neuralx tests: ANSI-aware output
// checks, JSON comparison and golden files.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
)

// StripANSI removes terminal escape sequences from rendered output.
func StripANSI(s string) string {
	return ansi.Strip(s)
}

// AssertContainsAll verifies that the ANSI-stripped output contains every
// fragment.
func AssertContainsAll(t *testing.T, output string, fragments ...string) {
	t.Helper()
	plain := StripANSI(output)
	for _, f := range fragments {
		if !strings.Contains(plain, f) {
			t.Errorf("output missing %q", f)
		}
	}
}

// AssertContainsNone verifies that the ANSI-stripped output contains none of
// the fragments.
func AssertContainsNone(t *testing.T, output string, fragments ...string) {
	t.Helper()
	plain := StripANSI(output)
	for _, f := range fragments {
		if strings.Contains(plain, f) {
			t.Errorf("output unexpectedly contains %q", f)
		}
	}
}

// AssertMaxWidth verifies that no line of the output is wider than width
// terminal cells.
func AssertMaxWidth(t *testing.T, output string, width int) {
	t.Helper()
	for i, line := range strings.Split(output, "\n") {
		if w := ansi.StringWidth(line); w > width {
			t.Errorf("line %d is %d cells wide, max %d: %q", i+1, w, width, StripANSI(line))
		}
	}
}

// AssertJSONEqual compares two values after JSON round-tripping.
// Useful for comparing structs that may have different Go representations
// but equivalent JSON forms.
func AssertJSONEqual(t *testing.T, expected, actual any) {
	t.Helper()

	var exp, act any
	if err := roundTrip(expected, &exp); err != nil {
		t.Fatalf("failed to marshal expected: %v", err)
	}
	if err := roundTrip(actual, &act); err != nil {
		t.Fatalf("failed to marshal actual: %v", err)
	}
	if diff := cmp.Diff(exp, act); diff != "" {
		t.Errorf("JSON mismatch (-expected +actual):\n%s", diff)
	}
}

func roundTrip(v any, out *any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// GoldenFile handles golden file comparisons.
type GoldenFile struct {
	t      *testing.T
	dir    string
	name   string
	update bool
}

// NewGoldenFile creates a golden file helper.
// If GENERATE_GOLDEN env var is set, golden files will be updated.
func NewGoldenFile(t *testing.T, dir, name string) *GoldenFile {
	t.Helper()
	return &GoldenFile{
		t:      t,
		dir:    dir,
		name:   name,
		update: os.Getenv("GENERATE_GOLDEN") != "",
	}
}

// Path returns the full path to the golden file.
func (g *GoldenFile) Path() string {
	return filepath.Join(g.dir, g.name)
}

// Assert compares actual content against the golden file, or rewrites the
// file when GENERATE_GOLDEN is set.
func (g *GoldenFile) Assert(actual string) {
	g.t.Helper()

	path := g.Path()
	if g.update {
		if err := os.MkdirAll(g.dir, 0o755); err != nil {
			g.t.Fatalf("failed to create golden dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(actual), 0o644); err != nil {
			g.t.Fatalf("failed to write golden file: %v", err)
		}
		g.t.Logf("updated golden file: %s", path)
		return
	}

	expected, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			g.t.Fatalf("golden file does not exist: %s\nRun with GENERATE_GOLDEN=1 to create it", path)
		}
		g.t.Fatalf("failed to read golden file: %v", err)
	}

	if diff := cmp.Diff(strings.Split(string(expected), "\n"), strings.Split(actual, "\n")); diff != "" {
		g.t.Errorf("golden file %s mismatch (-golden +actual):\n%s", g.name, diff)
	}
}

// AssertJSON compares actual value as JSON against the golden file.
func (g *GoldenFile) AssertJSON(actual any) {
	g.t.Helper()

	data, err := json.MarshalIndent(actual, "", "  ")
	if err != nil {
		g.t.Fatalf("failed to marshal actual value: %v", err)
	}
	g.Assert(string(data))
}
