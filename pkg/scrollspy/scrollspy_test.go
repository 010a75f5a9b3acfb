package scrollspy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var paperIDs = []string{"abstract", "introduction", "methodology", "results", "discussion", "conclusion"}

// offsets places each section 20 rows after the previous one.
func offsets() map[string]int {
	m := make(map[string]int, len(paperIDs))
	for i, id := range paperIDs {
		m[id] = i * 20
	}
	return m
}

func TestNewStartsOnFirstID(t *testing.T) {
	s := New(paperIDs, 0)
	assert.Equal(t, "abstract", s.Active())
	assert.Equal(t, DefaultWindow, s.Window())
	assert.Equal(t, 0, s.Index())
}

func TestNewEmpty(t *testing.T) {
	s := New(nil, 5)
	assert.Equal(t, "", s.Active())
	assert.Equal(t, "", s.Observe(map[string]int{"x": 0}, 0))
}

func TestObserveSelectsMethodology(t *testing.T) {
	s := New(paperIDs, 12)
	// methodology starts at row 40; at offset 35 it sits 5 rows below the
	// top while introduction (row 20) is above the viewport.
	got := s.Observe(offsets(), 35)
	assert.Equal(t, "methodology", got)
	assert.Equal(t, 2, s.Index())
}

func TestObservePrefersFirstQualifyingSection(t *testing.T) {
	s := New(paperIDs, 30)
	// introduction at +5 and methodology at +25 both qualify.
	assert.Equal(t, "introduction", s.Observe(offsets(), 15))
}

func TestObserveKeepsPreviousWhenNothingQualifies(t *testing.T) {
	s := New(paperIDs, 3)
	require.Equal(t, "results", s.Observe(offsets(), 60))

	// Offset 65: results is 5 rows above the top, discussion 15 below;
	// the window is 3 rows so nothing qualifies.
	assert.Equal(t, "results", s.Observe(offsets(), 65))
	assert.Equal(t, "results", s.Active())
}

func TestWindowBoundsAreInclusive(t *testing.T) {
	tops := map[string]int{"a": 12, "b": 0}
	id, ok := Pick([]string{"a", "b"}, tops, 12)
	require.True(t, ok)
	assert.Equal(t, "a", id)

	_, ok = Pick([]string{"a"}, map[string]int{"a": 13}, 12)
	assert.False(t, ok)
	_, ok = Pick([]string{"a"}, map[string]int{"a": -1}, 12)
	assert.False(t, ok)
}

func TestSetActive(t *testing.T) {
	s := New(paperIDs, 0)
	assert.True(t, s.SetActive("discussion"))
	assert.Equal(t, "discussion", s.Active())
	assert.False(t, s.SetActive("appendix"))
	assert.Equal(t, "discussion", s.Active())
}

func TestSetWindowDefaults(t *testing.T) {
	s := New(paperIDs, 4)
	assert.Equal(t, 4, s.Window())
	s.SetWindow(-2)
	assert.Equal(t, DefaultWindow, s.Window())
}

func TestIDsIsACopy(t *testing.T) {
	s := New(paperIDs, 0)
	ids := s.IDs()
	ids[0] = "mutated"
	assert.Equal(t, "abstract", s.IDs()[0])
}

func TestActiveAlwaysKnown(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		window := rapid.IntRange(0, 40).Draw(t, "window")
		s := New(paperIDs, window)
		scrolls := rapid.SliceOf(rapid.IntRange(-50, 200)).Draw(t, "scrolls")
		for _, y := range scrolls {
			s.Observe(offsets(), y)
			if !s.known[s.Active()] {
				t.Fatalf("active %q is not a known id", s.Active())
			}
		}
	})
}
