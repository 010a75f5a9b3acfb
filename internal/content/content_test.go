package content

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedPaper(t *testing.T) {
	p, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Modelos Generativos en Búsqueda de Arquitectura Neuronal", p.Title)
	assert.Equal(t, []string{"Dra. Elena Vance", "James Wu", "Prof. A. K. Smith"}, p.Authors)
	assert.Equal(t, "Nature Machine Intelligence", p.Journal)
	assert.Equal(t, 45, p.Stats.Citations)
	assert.Equal(t, "10k+", p.Stats.DatasetPoints)
	assert.Equal(t, "98.2%", p.Stats.Accuracy)
	assert.Len(t, p.Generations, 7)
	assert.Len(t, p.Scatter, 10)
	assert.Len(t, p.SummaryCards, 3)
}

func TestLoadReturnsSharedInstance(t *testing.T) {
	a := MustLoad()
	b := MustLoad()
	assert.Same(t, a, b)
}

func TestSectionIDsDocumentOrder(t *testing.T) {
	want := []string{"abstract", "introduction", "methodology", "results", "discussion", "conclusion"}
	if diff := cmp.Diff(want, MustLoad().SectionIDs()); diff != "" {
		t.Errorf("SectionIDs() mismatch (-want +got):\n%s", diff)
	}
}

func TestChartSeriesShape(t *testing.T) {
	p := MustLoad()
	assert.Equal(t, GenerationPoint{Name: "Gen 1", Accuracy: 85, Latency: 120}, p.Generations[0])
	assert.Equal(t, GenerationPoint{Name: "Gen 30", Accuracy: 98.2, Latency: 55}, p.Generations[6])
	assert.Equal(t, ScatterPoint{X: 170, Y: 450, Z: 400}, p.Scatter[9])
}

func TestSectionLookup(t *testing.T) {
	p := MustLoad()

	s, err := p.Section("methodology")
	require.NoError(t, err)
	assert.Equal(t, "Metodología", s.Title)
	require.NotNil(t, s.Figure)
	assert.Equal(t, []string{"Codificador (GNN)", "Espacio Latente (z)", "Decodificador (MLP)"}, s.Figure.Stages)

	_, err = p.Section("appendix")
	assert.True(t, errors.Is(err, ErrUnknownSection))
}

func TestNavTitle(t *testing.T) {
	p := MustLoad()
	tests := []struct {
		id   string
		want string
	}{
		{"abstract", "Resumen"},
		{"results", "Resultados"},
		{"missing", "missing"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.NavTitle(tt.id), "NavTitle(%q)", tt.id)
	}
}

func TestParseRejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"no title", "sections: [{id: a, title: A}]", "title is required"},
		{"no sections", "title: X", "at least one section"},
		{"missing id", "title: X\nsections: [{title: A}]", "has no id"},
		{"duplicate", "title: X\nsections: [{id: a}, {id: a}]", "duplicate section id"},
		{"shadows abstract", "title: X\nsections: [{id: abstract}]", "duplicate section id"},
		{"bad yaml", "title: [", "parsing paper"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseTrimsSectionBodies(t *testing.T) {
	p, err := Parse([]byte("title: X\nsections:\n  - id: a\n    body: |\n      hello\n\n"))
	require.NoError(t, err)
	assert.Equal(t, "hello", p.Sections[0].Body)
}

func TestInitials(t *testing.T) {
	tests := map[string]string{
		"Dra. Elena Vance":  "EV",
		"James Wu":          "JW",
		"Prof. A. K. Smith": "AK",
		"Ángel":             "Á",
		"":                  "",
	}
	for name, want := range tests {
		assert.Equal(t, want, Initials(name), "Initials(%q)", name)
	}
}

func TestReferenceString(t *testing.T) {
	r := MustLoad().References[0]
	assert.Equal(t, `H. Liu et al., "DARTS: Differentiable Architecture Search", ICLR, 2019.`, r.String())
}

func TestPlainTextStripsMarkdown(t *testing.T) {
	got := PlainText("First **bold** and *em* text.\n\nSecond `code` para.")
	assert.Equal(t, "First bold and em text.\n\nSecond code para.", got)
}

func TestFullTextCoversAllSections(t *testing.T) {
	p := MustLoad()
	full := p.FullText()
	for _, s := range p.Sections {
		assert.Contains(t, full, s.Title)
	}
	assert.NotContains(t, full, "**")
	assert.True(t, strings.HasPrefix(full, "Presentamos"))
}

func TestReadingMinutes(t *testing.T) {
	p := MustLoad()
	words := WordCount(p.Abstract)
	for _, s := range p.Sections {
		words += WordCount(s.Body)
	}
	require.Greater(t, words, 0)
	assert.Equal(t, (words+wordsPerMinute-1)/wordsPerMinute, p.ReadingMinutes())

	empty := &Paper{Title: "x"}
	assert.Equal(t, 1, empty.ReadingMinutes())
}
