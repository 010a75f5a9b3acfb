package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/neuralx/internal/content"
	"github.com/vanderheijden86/neuralx/pkg/debug"
)

// ExportAll writes every format in Formats() into dir, concurrently. It
// returns the written paths in Formats() order. The first failure cancels
// the remaining exports.
func ExportAll(ctx context.Context, p *content.Paper, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	formats := Formats()
	paths := make([]string, len(formats))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(len(formats))

	for i, f := range formats {
		path := filepath.Join(dir, f.FileName())
		paths[i] = path
		g.Go(func() error {
			if err := Export(gctx, p, f, path); err != nil {
				return fmt.Errorf("%s: %w", f, err)
			}
			debug.Log("export: wrote %s", path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
