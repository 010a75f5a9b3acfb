package export

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema version for tracking migrations
const SchemaVersion = 1

// CreateSchema creates all tables and indexes in the database.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	if err := createPaperTables(ctx, db); err != nil {
		return fmt.Errorf("create paper tables: %w", err)
	}

	if err := createResultTables(ctx, db); err != nil {
		return fmt.Errorf("create result tables: %w", err)
	}

	if err := createIndexes(ctx, db); err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}

	if err := createMetaTable(ctx, db); err != nil {
		return fmt.Errorf("create meta table: %w", err)
	}

	return nil
}

func execAll(ctx context.Context, db *sql.DB, what string, stmts []string) error {
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("create %s: %w", what, err)
		}
	}
	return nil
}

// createPaperTables creates the tables holding the document itself.
func createPaperTables(ctx context.Context, db *sql.DB) error {
	return execAll(ctx, db, "paper table", []string{
		`CREATE TABLE IF NOT EXISTS paper (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			title TEXT NOT NULL,
			subtitle TEXT,
			project TEXT,
			affiliation TEXT,
			journal TEXT,
			year INTEGER NOT NULL,
			publication_date TEXT,
			abstract TEXT NOT NULL,
			citations INTEGER,
			dataset_points TEXT,
			accuracy TEXT,
			related_paper TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS authors (
			position INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			initials TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS tags (
			position INTEGER PRIMARY KEY,
			tag TEXT NOT NULL
		)`,
		// body_text is the markdown body flattened for full-text search.
		`CREATE TABLE IF NOT EXISTS sections (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			body TEXT NOT NULL,
			body_text TEXT NOT NULL,
			word_count INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS figures (
			section_id TEXT PRIMARY KEY,
			label TEXT NOT NULL,
			caption TEXT,
			stages TEXT NOT NULL,
			FOREIGN KEY (section_id) REFERENCES sections(id)
		)`,
		`CREATE TABLE IF NOT EXISTS key_findings (
			position INTEGER PRIMARY KEY,
			finding TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS paper_references (
			position INTEGER PRIMARY KEY,
			authors TEXT NOT NULL,
			title TEXT NOT NULL,
			venue TEXT,
			year INTEGER
		)`,
	})
}

// createResultTables creates the chart series tables.
func createResultTables(ctx context.Context, db *sql.DB) error {
	return execAll(ctx, db, "result table", []string{
		`CREATE TABLE IF NOT EXISTS generations (
			position INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			accuracy REAL NOT NULL,
			latency REAL NOT NULL
		)`,
		// size_class is the tertile of z among all points, 0 smallest.
		`CREATE TABLE IF NOT EXISTS scatter (
			position INTEGER PRIMARY KEY,
			x REAL NOT NULL,
			y REAL NOT NULL,
			z REAL NOT NULL,
			size_class INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS summary_cards (
			position INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			value TEXT NOT NULL,
			unit TEXT,
			note TEXT
		)`,
	})
}

// createIndexes creates indexes for common queries.
func createIndexes(ctx context.Context, db *sql.DB) error {
	return execAll(ctx, db, "index", []string{
		`CREATE INDEX IF NOT EXISTS idx_sections_position ON sections(position)`,
		`CREATE INDEX IF NOT EXISTS idx_generations_accuracy ON generations(accuracy DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_scatter_z ON scatter(z DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_references_year ON paper_references(year)`,
	})
}

// createMetaTable creates the export metadata table.
func createMetaTable(ctx context.Context, db *sql.DB) error {
	return execAll(ctx, db, "export_meta table", []string{
		`CREATE TABLE IF NOT EXISTS export_meta (
			key TEXT PRIMARY KEY,
			value TEXT
		)`,
	})
}

// CreateFTSIndex creates the FTS5 full-text index over sections.
// This must be called after sections are inserted.
func CreateFTSIndex(ctx context.Context, db *sql.DB) error {
	ftsSQL := `
		CREATE VIRTUAL TABLE IF NOT EXISTS sections_fts USING fts5(
			id,
			title,
			body_text,
			content='sections',
			content_rowid='rowid',
			tokenize='porter unicode61 remove_diacritics 2'
		)
	`
	if _, err := db.ExecContext(ctx, ftsSQL); err != nil {
		return fmt.Errorf("create FTS5 table: %w", err)
	}

	if _, err := db.ExecContext(ctx, `INSERT INTO sections_fts(sections_fts) VALUES('rebuild')`); err != nil {
		return fmt.Errorf("populate FTS index: %w", err)
	}

	return nil
}

// OptimizeDatabase compacts the file as the final step before closing.
func OptimizeDatabase(ctx context.Context, db *sql.DB, pageSize int) error {
	if pageSize <= 0 {
		pageSize = 4096
	}

	optimizations := []string{
		`PRAGMA journal_mode=DELETE`,
		fmt.Sprintf(`PRAGMA page_size=%d`, pageSize),
		`ANALYZE`,
		`PRAGMA optimize`,
	}

	for _, s := range optimizations {
		if _, err := db.ExecContext(ctx, s); err != nil {
			// Some pragmas may fail depending on state, continue
			continue
		}
	}

	// VACUUM applies the page size change.
	if _, err := db.ExecContext(ctx, `VACUUM`); err != nil {
		return fmt.Errorf("vacuum: %w", err)
	}

	return nil
}

// InsertMetaValue inserts or updates an export_meta entry.
func InsertMetaValue(ctx context.Context, db *sql.DB, key, value string) error {
	_, err := db.ExecContext(ctx, `INSERT OR REPLACE INTO export_meta (key, value) VALUES (?, ?)`, key, value)
	return err
}
