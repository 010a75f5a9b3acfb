// Package export writes the paper and its result data to files: chart images
// (SVG, PNG), a queryable SQLite database, a markdown rendition and a JSON
// dump. ExportAll writes every format into one directory concurrently.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vanderheijden86/neuralx/internal/content"
)

// Format names an export target.
type Format string

const (
	FormatSVG      Format = "svg"
	FormatPNG      Format = "png"
	FormatSQLite   Format = "sqlite"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ErrUnsupportedFormat is returned for a format outside Formats().
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Formats lists every export format in the order ExportAll writes them.
func Formats() []Format {
	return []Format{FormatSVG, FormatPNG, FormatSQLite, FormatMarkdown, FormatJSON}
}

// ParseFormat accepts a format name or a file extension ("md", ".db").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "svg":
		return FormatSVG, nil
	case "png":
		return FormatPNG, nil
	case "sqlite", "sqlite3", "db":
		return FormatSQLite, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// FileName is the file a format is written to inside an export directory.
func (f Format) FileName() string {
	switch f {
	case FormatSVG:
		return "dashboard.svg"
	case FormatPNG:
		return "dashboard.png"
	case FormatSQLite:
		return "paper.sqlite3"
	case FormatMarkdown:
		return "paper.md"
	case FormatJSON:
		return "paper.json"
	default:
		return string(f)
	}
}

// Description is the wizard label for a format.
func (f Format) Description() string {
	switch f {
	case FormatSVG:
		return "Gráficos del dashboard (SVG)"
	case FormatPNG:
		return "Gráficos del dashboard (PNG)"
	case FormatSQLite:
		return "Base de datos SQLite con búsqueda de texto"
	case FormatMarkdown:
		return "Paper en Markdown"
	case FormatJSON:
		return "Datos en JSON"
	default:
		return string(f)
	}
}

// Export writes p in format f to path, creating parent directories.
func Export(ctx context.Context, p *content.Paper, f Format, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if path == "" {
		return fmt.Errorf("output path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	switch f {
	case FormatSVG, FormatPNG:
		return SaveChartSnapshot(ChartSnapshotOptions{Path: path, Format: string(f), Paper: p})
	case FormatSQLite:
		return NewSQLiteExporter(p).Export(ctx, path)
	case FormatMarkdown:
		return SaveMarkdownToFile(p, path)
	case FormatJSON:
		return SaveJSONToFile(p, path)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}
