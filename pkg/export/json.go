package export

import (
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/neuralx/internal/content"
	"github.com/vanderheijden86/neuralx/pkg/chartdata"
	"github.com/vanderheijden86/neuralx/pkg/metrics"
)

// JSONDocument is the shape written by the json export.
type JSONDocument struct {
	SchemaVersion int            `json:"schema_version"`
	Paper         *content.Paper `json:"paper"`
	Summary       JSONSummary    `json:"summary"`
}

// JSONSummary holds figures derived from the paper's literal data.
type JSONSummary struct {
	WordCount      int     `json:"word_count"`
	ReadingMinutes int     `json:"reading_minutes"`
	AccuracyMean   float64 `json:"accuracy_mean"`
	AccuracyStdDev float64 `json:"accuracy_stddev"`
	LatencyMean    float64 `json:"latency_mean"`
	LatencyStdDev  float64 `json:"latency_stddev"`
	SizeClasses    []int   `json:"scatter_size_classes"`
}

// NewJSONDocument derives the summary for p.
func NewJSONDocument(p *content.Paper) JSONDocument {
	doc := JSONDocument{SchemaVersion: SchemaVersion, Paper: p}
	if p == nil {
		return doc
	}
	for _, s := range p.Sections {
		doc.Summary.WordCount += content.WordCount(s.Body)
	}
	doc.Summary.ReadingMinutes = p.ReadingMinutes()
	doc.Summary.AccuracyMean, doc.Summary.AccuracyStdDev = chartdata.Summary(chartdata.Accuracy(p.Generations))
	doc.Summary.LatencyMean, doc.Summary.LatencyStdDev = chartdata.Summary(chartdata.Latency(p.Generations))
	_, _, zs := chartdata.XYZ(p.Scatter)
	doc.Summary.SizeClasses = chartdata.SizeClasses(zs)
	return doc
}

// WriteJSON writes the indented document for p to w.
func WriteJSON(w io.Writer, p *content.Paper) error {
	if p == nil {
		return fmt.Errorf("no paper to export")
	}
	data, err := json.MarshalIndent(NewJSONDocument(p), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal paper: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// SaveJSONToFile writes the document for p to filename.
func SaveJSONToFile(p *content.Paper, filename string) error {
	defer metrics.Timer(metrics.ExportText)()

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := WriteJSON(f, p); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
