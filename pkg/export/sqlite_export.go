package export

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/neuralx/internal/content"
	"github.com/vanderheijden86/neuralx/pkg/chartdata"
	"github.com/vanderheijden86/neuralx/pkg/debug"
	"github.com/vanderheijden86/neuralx/pkg/metrics"
)

// SQLiteExportConfig configures the SQLite export process.
type SQLiteExportConfig struct {
	// PageSize is the SQLite page size set before the final VACUUM.
	PageSize int

	// SkipFTS leaves out the sections_fts index.
	SkipFTS bool
}

// DefaultSQLiteExportConfig returns the defaults used by Export.
func DefaultSQLiteExportConfig() SQLiteExportConfig {
	return SQLiteExportConfig{PageSize: 4096}
}

// SQLiteExporter writes the paper and its chart series to a SQLite file.
type SQLiteExporter struct {
	Paper  *content.Paper
	Config SQLiteExportConfig
	now    func() time.Time
}

// NewSQLiteExporter creates an exporter for p with default settings.
func NewSQLiteExporter(p *content.Paper) *SQLiteExporter {
	return &SQLiteExporter{
		Paper:  p,
		Config: DefaultSQLiteExportConfig(),
		now:    time.Now,
	}
}

// Export writes the database to path, replacing any existing file.
func (e *SQLiteExporter) Export(ctx context.Context, path string) error {
	defer metrics.Timer(metrics.ExportSQLite)()

	if e.Paper == nil {
		return fmt.Errorf("no paper to export")
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing database: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	dbClosed := false
	defer func() {
		if !dbClosed {
			db.Close()
		}
	}()

	if err := CreateSchema(ctx, db); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	steps := []struct {
		name string
		fn   func(context.Context, *sql.Tx) error
	}{
		{"paper", e.insertPaper},
		{"authors", e.insertAuthors},
		{"sections", e.insertSections},
		{"references", e.insertReferences},
		{"generations", e.insertGenerations},
		{"scatter", e.insertScatter},
		{"summary cards", e.insertSummaryCards},
	}
	for _, step := range steps {
		if err := inTx(ctx, db, step.fn); err != nil {
			return fmt.Errorf("insert %s: %w", step.name, err)
		}
	}

	if !e.Config.SkipFTS {
		if err := CreateFTSIndex(ctx, db); err != nil {
			return fmt.Errorf("create fts index: %w", err)
		}
	}

	if err := e.insertMeta(ctx, db); err != nil {
		return fmt.Errorf("insert meta: %w", err)
	}

	if err := OptimizeDatabase(ctx, db, e.Config.PageSize); err != nil {
		return fmt.Errorf("optimize database: %w", err)
	}

	if err := db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	dbClosed = true

	debug.Log("sqlite export: %s (%d sections)", path, len(e.Paper.Sections))
	return nil
}

func inTx(ctx context.Context, db *sql.DB, fn func(context.Context, *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	return tx.Commit()
}

// insertRows prepares query once and executes it for each row.
func insertRows(ctx context.Context, tx *sql.Tx, query string, rows [][]any) error {
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, row := range rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	return nil
}

func (e *SQLiteExporter) insertPaper(ctx context.Context, tx *sql.Tx) error {
	p := e.Paper
	_, err := tx.ExecContext(ctx, `
		INSERT INTO paper (id, title, subtitle, project, affiliation, journal, year, publication_date,
			abstract, citations, dataset_points, accuracy, related_paper)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		p.Title, p.Subtitle, p.Project, p.Affiliation, p.Journal, p.Year, p.PublicationDate,
		p.Abstract, p.Stats.Citations, p.Stats.DatasetPoints, p.Stats.Accuracy, p.RelatedPaper,
	)
	if err != nil {
		return err
	}

	tags := make([][]any, len(p.Tags))
	for i, t := range p.Tags {
		tags[i] = []any{i, t}
	}
	if err := insertRows(ctx, tx, `INSERT INTO tags (position, tag) VALUES (?, ?)`, tags); err != nil {
		return fmt.Errorf("tags: %w", err)
	}

	findings := make([][]any, len(p.KeyFindings))
	for i, f := range p.KeyFindings {
		findings[i] = []any{i, f}
	}
	return insertRows(ctx, tx, `INSERT INTO key_findings (position, finding) VALUES (?, ?)`, findings)
}

func (e *SQLiteExporter) insertAuthors(ctx context.Context, tx *sql.Tx) error {
	rows := make([][]any, len(e.Paper.Authors))
	for i, a := range e.Paper.Authors {
		rows[i] = []any{i, a, content.Initials(a)}
	}
	return insertRows(ctx, tx, `INSERT INTO authors (position, name, initials) VALUES (?, ?, ?)`, rows)
}

func (e *SQLiteExporter) insertSections(ctx context.Context, tx *sql.Tx) error {
	rows := make([][]any, len(e.Paper.Sections))
	var figures [][]any
	for i, s := range e.Paper.Sections {
		rows[i] = []any{s.ID, i, s.Title, s.Body, content.PlainText(s.Body), content.WordCount(s.Body)}
		if s.Figure != nil {
			stages, err := json.Marshal(s.Figure.Stages)
			if err != nil {
				return fmt.Errorf("figure stages for %s: %w", s.ID, err)
			}
			figures = append(figures, []any{s.ID, s.Figure.Label, s.Figure.Caption, string(stages)})
		}
	}
	if err := insertRows(ctx, tx, `
		INSERT INTO sections (id, position, title, body, body_text, word_count)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rows); err != nil {
		return err
	}
	return insertRows(ctx, tx, `INSERT INTO figures (section_id, label, caption, stages) VALUES (?, ?, ?, ?)`, figures)
}

func (e *SQLiteExporter) insertReferences(ctx context.Context, tx *sql.Tx) error {
	rows := make([][]any, len(e.Paper.References))
	for i, r := range e.Paper.References {
		rows[i] = []any{i + 1, r.Authors, r.Title, r.Venue, r.Year}
	}
	return insertRows(ctx, tx, `
		INSERT INTO paper_references (position, authors, title, venue, year)
		VALUES (?, ?, ?, ?, ?)
	`, rows)
}

func (e *SQLiteExporter) insertGenerations(ctx context.Context, tx *sql.Tx) error {
	rows := make([][]any, len(e.Paper.Generations))
	for i, g := range e.Paper.Generations {
		rows[i] = []any{i, g.Name, g.Accuracy, g.Latency}
	}
	return insertRows(ctx, tx, `INSERT INTO generations (position, name, accuracy, latency) VALUES (?, ?, ?, ?)`, rows)
}

func (e *SQLiteExporter) insertScatter(ctx context.Context, tx *sql.Tx) error {
	_, _, zs := chartdata.XYZ(e.Paper.Scatter)
	classes := chartdata.SizeClasses(zs)
	rows := make([][]any, len(e.Paper.Scatter))
	for i, pt := range e.Paper.Scatter {
		rows[i] = []any{i, pt.X, pt.Y, pt.Z, classes[i]}
	}
	return insertRows(ctx, tx, `INSERT INTO scatter (position, x, y, z, size_class) VALUES (?, ?, ?, ?, ?)`, rows)
}

func (e *SQLiteExporter) insertSummaryCards(ctx context.Context, tx *sql.Tx) error {
	rows := make([][]any, len(e.Paper.SummaryCards))
	for i, c := range e.Paper.SummaryCards {
		rows[i] = []any{i, c.Title, c.Value, c.Unit, c.Note}
	}
	return insertRows(ctx, tx, `
		INSERT INTO summary_cards (position, title, value, unit, note)
		VALUES (?, ?, ?, ?, ?)
	`, rows)
}

func (e *SQLiteExporter) insertMeta(ctx context.Context, db *sql.DB) error {
	words := 0
	for _, s := range e.Paper.Sections {
		words += content.WordCount(s.Body)
	}
	meta := map[string]string{
		"version":         "1.0.0",
		"generated_at":    e.now().UTC().Format(time.RFC3339),
		"schema_version":  strconv.Itoa(SchemaVersion),
		"title":           e.Paper.Title,
		"section_count":   strconv.Itoa(len(e.Paper.Sections)),
		"word_count":      strconv.Itoa(words),
		"reading_minutes": strconv.Itoa(e.Paper.ReadingMinutes()),
	}

	for key, value := range meta {
		if err := InsertMetaValue(ctx, db, key, value); err != nil {
			return fmt.Errorf("insert meta %s: %w", key, err)
		}
	}

	return nil
}
