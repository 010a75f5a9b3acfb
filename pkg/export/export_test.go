package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanderheijden86/neuralx/internal/content"
)

func testPaper(t *testing.T) *content.Paper {
	t.Helper()
	p, err := content.Load()
	require.NoError(t, err)
	return p
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{
		"svg":      FormatSVG,
		".PNG":     FormatPNG,
		"sqlite3":  FormatSQLite,
		"db":       FormatSQLite,
		" md ":     FormatMarkdown,
		"markdown": FormatMarkdown,
		"json":     FormatJSON,
	}
	for in, want := range cases {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("pdf")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestFormatFileNamesAreDistinct(t *testing.T) {
	seen := map[string]bool{}
	for _, f := range Formats() {
		name := f.FileName()
		assert.False(t, seen[name], "duplicate file name %s", name)
		seen[name] = true
		assert.NotEmpty(t, f.Description())
	}
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	err := Export(context.Background(), testPaper(t), Format("pdf"), filepath.Join(t.TempDir(), "x.pdf"))
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestExportHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	path := filepath.Join(t.TempDir(), "paper.md")

	err := Export(ctx, testPaper(t), FormatMarkdown, path)
	assert.ErrorIs(t, err, context.Canceled)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestExportCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "paper.json")
	require.NoError(t, Export(context.Background(), testPaper(t), FormatJSON, path))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestExportAllWritesEveryFormat(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	paths, err := ExportAll(context.Background(), testPaper(t), dir)
	require.NoError(t, err)
	require.Len(t, paths, len(Formats()))

	for i, f := range Formats() {
		assert.Equal(t, filepath.Join(dir, f.FileName()), paths[i])
		info, err := os.Stat(paths[i])
		require.NoError(t, err, f)
		assert.Greater(t, info.Size(), int64(0), f)
	}
}

func TestExportAllStopsOnError(t *testing.T) {
	_, err := ExportAll(context.Background(), &content.Paper{Title: "vacío"}, t.TempDir())
	assert.Error(t, err)
}
