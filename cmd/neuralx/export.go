package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vanderheijden86/neuralx/internal/content"
	"github.com/vanderheijden86/neuralx/pkg/export"
	"github.com/vanderheijden86/neuralx/pkg/hooks"
)

// exportJob is one resolved export: what to announce to hooks and how to do it.
type exportJob struct {
	format string
	path   string
	run    func(ctx context.Context) ([]string, error)
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		light   bool
		noHooks bool
	)

	formats := make([]string, 0, len(export.Formats()))
	for _, f := range export.Formats() {
		formats = append(formats, string(f))
	}

	cmd := &cobra.Command{
		Use:   "export [FORMAT PATH | all [DIR]]",
		Short: "Exporta el paper y sus datos a archivos",
		Long: "Exporta el paper a " + strings.Join(formats, ", ") + ".\n" +
			"`neuralx export all DIR` escribe todos los formatos en DIR.\n" +
			"Sin argumentos, en una terminal, abre un asistente.\n" +
			"Los hooks de .neuralx/hooks.yaml se ejecutan antes y después.",
		Args:      cobra.MaximumNArgs(2),
		ValidArgs: append([]string{"all"}, formats...),
		RunE: func(cmd *cobra.Command, args []string) error {
			paper, err := content.Load()
			if err != nil {
				return err
			}

			job, err := resolveExportJob(opts, paper, args, light)
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			if err != nil {
				return err
			}

			cwd, _ := os.Getwd()
			var configDir string
			if path := opts.resolvedConfigPath(); path != "" {
				configDir = filepath.Dir(path)
			}
			executor, err := hooks.RunHooks(cwd, configDir, hooks.ExportContext{
				ExportPath:   job.path,
				ExportFormat: job.format,
				SectionCount: len(paper.Sections),
				Timestamp:    time.Now(),
			}, noHooks)
			if err != nil {
				return fmt.Errorf("loading hooks: %w", err)
			}
			if executor != nil {
				defer func() { fmt.Fprintln(cmd.ErrOrStderr(), executor.Summary()) }()
				if err := executor.RunPreExport(); err != nil {
					return fmt.Errorf("export cancelled: %w", err)
				}
			}

			paths, err := job.run(cmd.Context())
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}

			if executor != nil {
				return executor.RunPostExport()
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&light, "light", false, "light palette for svg/png charts")
	cmd.Flags().BoolVar(&noHooks, "no-hooks", false, "skip pre/post export hooks")
	return cmd
}

// resolveExportJob turns the arguments (or the wizard, when there are none)
// into an export job without writing anything.
func resolveExportJob(opts *rootOptions, paper *content.Paper, args []string, light bool) (exportJob, error) {
	switch {
	case len(args) == 0:
		if !term.IsTerminal(0) {
			return exportJob{}, fmt.Errorf("export needs FORMAT PATH or `all DIR` when stdin is not a terminal")
		}
		w := export.NewWizard(paper, opts.loadConfig().Export.Dir)
		r, err := w.Run()
		if err != nil {
			return exportJob{}, err
		}
		format := "all"
		if !r.All {
			format = string(r.Format)
		}
		return exportJob{format: format, path: r.Path, run: func(ctx context.Context) ([]string, error) {
			return w.PerformExport(ctx, r)
		}}, nil

	case args[0] == "all":
		dir := opts.loadConfig().Export.Dir
		if len(args) == 2 {
			dir = args[1]
		}
		return exportJob{format: "all", path: dir, run: func(ctx context.Context) ([]string, error) {
			return export.ExportAll(ctx, paper, dir)
		}}, nil

	default:
		f, err := export.ParseFormat(args[0])
		if err != nil {
			return exportJob{}, err
		}
		if len(args) < 2 {
			return exportJob{}, fmt.Errorf("missing output path for %s", f)
		}
		path := args[1]
		return exportJob{format: string(f), path: path, run: func(ctx context.Context) ([]string, error) {
			var err error
			if light && (f == export.FormatSVG || f == export.FormatPNG) {
				err = export.SaveChartSnapshot(export.ChartSnapshotOptions{Path: path, Format: string(f), Paper: paper, Light: true})
			} else {
				err = export.Export(ctx, paper, f, path)
			}
			if err != nil {
				return nil, err
			}
			return []string{path}, nil
		}}, nil
	}
}
