package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/vanderheijden86/neuralx/internal/content"
)

// allFormats is the wizard choice that writes every format into a directory.
const allFormats = "all"

// WizardResult is what the user picked.
type WizardResult struct {
	All    bool   // every format into Path as a directory
	Format Format // when !All
	Path   string
	Light  bool // light palette, single chart image only
}

// Wizard asks which export to write and where.
type Wizard struct {
	paper  *content.Paper
	dir    string
	result WizardResult
}

// NewWizard creates a wizard proposing paths under dir.
func NewWizard(p *content.Paper, dir string) *Wizard {
	if dir == "" {
		dir = "."
	}
	return &Wizard{paper: p, dir: dir}
}

// isTerminal checks if stdin is connected to a terminal
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm creates a form with appropriate settings based on TTY detection
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// Options lists the wizard's format choices, "all" first.
func (w *Wizard) Options() []huh.Option[string] {
	opts := []huh.Option[string]{huh.NewOption("Todo (carpeta con todos los formatos)", allFormats)}
	for _, f := range Formats() {
		opts = append(opts, huh.NewOption(f.Description(), string(f)))
	}
	return opts
}

// DefaultPath is the proposed output for a choice.
func (w *Wizard) DefaultPath(choice string) string {
	if choice == allFormats {
		return filepath.Join(w.dir, "neuralx-export")
	}
	return filepath.Join(w.dir, Format(choice).FileName())
}

// Run shows the form. It returns huh.ErrUserAborted when the user cancels.
func (w *Wizard) Run() (*WizardResult, error) {
	choice := allFormats
	if err := newForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("¿Qué quieres exportar?").
				Options(w.Options()...).
				Value(&choice),
		),
	).Run(); err != nil {
		return nil, err
	}

	path := w.DefaultPath(choice)
	light := false
	fields := []huh.Field{
		huh.NewInput().
			Title("Destino").
			Value(&path).
			Validate(validatePath),
	}
	if choice == string(FormatSVG) || choice == string(FormatPNG) {
		fields = append(fields, huh.NewConfirm().
			Title("¿Gráficos con tema claro?").
			Affirmative("Sí").
			Negative("No").
			Value(&light))
	}
	if err := newForm(huh.NewGroup(fields...)).Run(); err != nil {
		return nil, err
	}

	w.result = WizardResult{All: choice == allFormats, Path: strings.TrimSpace(path), Light: light}
	if !w.result.All {
		w.result.Format = Format(choice)
	}
	return &w.result, nil
}

func validatePath(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("el destino no puede estar vacío")
	}
	return nil
}

// PerformExport writes what r describes and returns the written paths.
func (w *Wizard) PerformExport(ctx context.Context, r *WizardResult) ([]string, error) {
	if r == nil {
		return nil, fmt.Errorf("no wizard result")
	}
	if r.All {
		return ExportAll(ctx, w.paper, r.Path)
	}
	if r.Light && (r.Format == FormatSVG || r.Format == FormatPNG) {
		if err := os.MkdirAll(filepath.Dir(r.Path), 0o755); err != nil {
			return nil, fmt.Errorf("create parent dir: %w", err)
		}
		err := SaveChartSnapshot(ChartSnapshotOptions{Path: r.Path, Format: string(r.Format), Paper: w.paper, Light: true})
		return []string{r.Path}, err
	}
	if err := Export(ctx, w.paper, r.Format, r.Path); err != nil {
		return nil, err
	}
	return []string{r.Path}, nil
}
