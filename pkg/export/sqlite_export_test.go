package export

import (
	"context"
	"database/sql"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanderheijden86/neuralx/internal/content"

	_ "modernc.org/sqlite"
)

func exportDB(t *testing.T, p *content.Paper) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "paper.sqlite3")
	exp := NewSQLiteExporter(p)
	exp.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	require.NoError(t, exp.Export(context.Background(), path))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func count(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestNewSQLiteExporter(t *testing.T) {
	exp := NewSQLiteExporter(nil)
	require.NotNil(t, exp)
	assert.Equal(t, 4096, exp.Config.PageSize)
	assert.False(t, exp.Config.SkipFTS)
	assert.Error(t, exp.Export(context.Background(), filepath.Join(t.TempDir(), "x.db")))
}

func TestSQLiteExport_RowCounts(t *testing.T) {
	p := testPaper(t)
	db := exportDB(t, p)

	cases := map[string]int{
		"paper":            1,
		"authors":          len(p.Authors),
		"tags":             len(p.Tags),
		"sections":         len(p.Sections),
		"key_findings":     len(p.KeyFindings),
		"paper_references": len(p.References),
		"generations":      len(p.Generations),
		"scatter":          len(p.Scatter),
		"summary_cards":    len(p.SummaryCards),
		"figures":          1,
	}
	for table, want := range cases {
		assert.Equal(t, want, count(t, db, table), table)
	}
}

func TestSQLiteExport_SectionsKeepOrder(t *testing.T) {
	p := testPaper(t)
	db := exportDB(t, p)

	rows, err := db.Query(`SELECT id, word_count FROM sections ORDER BY position`)
	require.NoError(t, err)
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		var words int
		require.NoError(t, rows.Scan(&id, &words))
		assert.Greater(t, words, 0, id)
		ids = append(ids, id)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, p.SectionIDs()[1:], ids)
}

func TestSQLiteExport_FullTextSearch(t *testing.T) {
	db := exportDB(t, testPaper(t))

	var id string
	require.NoError(t, db.QueryRow(`SELECT id FROM sections_fts WHERE sections_fts MATCH 'imagenet'`).Scan(&id))
	assert.Equal(t, "results", id)

	// diacritics are folded by the tokenizer
	require.NoError(t, db.QueryRow(`SELECT id FROM sections_fts WHERE sections_fts MATCH 'title:metodologia'`).Scan(&id))
	assert.Equal(t, "methodology", id)
}

func TestSQLiteExport_FigureStages(t *testing.T) {
	p := testPaper(t)
	db := exportDB(t, p)

	var raw string
	require.NoError(t, db.QueryRow(`SELECT stages FROM figures WHERE section_id = 'methodology'`).Scan(&raw))
	var stages []string
	require.NoError(t, json.Unmarshal([]byte(raw), &stages))

	sec, err := p.Section("methodology")
	require.NoError(t, err)
	assert.Equal(t, sec.Figure.Stages, stages)
}

func TestSQLiteExport_Meta(t *testing.T) {
	p := testPaper(t)
	db := exportDB(t, p)

	meta := map[string]string{}
	rows, err := db.Query(`SELECT key, value FROM export_meta`)
	require.NoError(t, err)
	defer rows.Close()
	for rows.Next() {
		var k, v string
		require.NoError(t, rows.Scan(&k, &v))
		meta[k] = v
	}
	require.NoError(t, rows.Err())

	assert.Equal(t, "2024-03-01T12:00:00Z", meta["generated_at"])
	assert.Equal(t, strconv.Itoa(SchemaVersion), meta["schema_version"])
	assert.Equal(t, p.Title, meta["title"])
	assert.Equal(t, strconv.Itoa(p.ReadingMinutes()), meta["reading_minutes"])
}

func TestSQLiteExport_SizeClasses(t *testing.T) {
	db := exportDB(t, testPaper(t))

	var lo, hi int
	require.NoError(t, db.QueryRow(`SELECT MIN(size_class), MAX(size_class) FROM scatter`).Scan(&lo, &hi))
	assert.Equal(t, 0, lo)
	assert.Equal(t, 2, hi)
}

func TestSQLiteExport_ReplacesExistingFile(t *testing.T) {
	p := testPaper(t)
	path := filepath.Join(t.TempDir(), "paper.sqlite3")
	require.NoError(t, NewSQLiteExporter(p).Export(context.Background(), path))
	require.NoError(t, NewSQLiteExporter(p).Export(context.Background(), path))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, 1, count(t, db, "paper"))
}

func TestSQLiteExport_SkipFTS(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paper.sqlite3")
	exp := NewSQLiteExporter(testPaper(t))
	exp.Config.SkipFTS = true
	require.NoError(t, exp.Export(context.Background(), path))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE name = 'sections_fts'`).Scan(&n))
	assert.Equal(t, 0, n)
}
