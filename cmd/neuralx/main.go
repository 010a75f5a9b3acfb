// Command neuralx presents the Neural-X research paper in the terminal and
// exports it to files.
package main

import (
	// Must run before anything that imports lipgloss/termenv.
	_ "github.com/vanderheijden86/neuralx/pkg/termguard"
)

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/vanderheijden86/neuralx/internal/content"
	"github.com/vanderheijden86/neuralx/pkg/config"
	"github.com/vanderheijden86/neuralx/pkg/debug"
	"github.com/vanderheijden86/neuralx/pkg/metrics"
	"github.com/vanderheijden86/neuralx/pkg/ui"
	"github.com/vanderheijden86/neuralx/pkg/version"
	"github.com/vanderheijden86/neuralx/pkg/watcher"
)

func main() {
	err := newRootCmd().Execute()
	metrics.LogSummary()
	debug.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// rootOptions are the flags shared by every command.
type rootOptions struct {
	configPath string
	envFile    string
	light      bool
}

// resolvedConfigPath is --config or the XDG default.
func (o *rootOptions) resolvedConfigPath() string {
	if o.configPath != "" {
		return o.configPath
	}
	return config.ConfigPath()
}

// loadConfig never fails: a broken config file falls back to defaults.
func (o *rootOptions) loadConfig() config.Config {
	cfg, err := config.Resolve(o.resolvedConfigPath(), o.envFile)
	if err != nil {
		debug.Log("config: %v (using defaults)", err)
		return config.DefaultConfig()
	}
	return cfg
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{envFile: ".env"}

	cmd := &cobra.Command{
		Use:           "neuralx",
		Short:         "Lee el paper de Neural-X en la terminal",
		Long:          "neuralx presenta «Modelos Generativos en Búsqueda de Arquitectura Neuronal» con una portada, un lector con índice y un dashboard de resultados.",
		Version:       version.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/neuralx/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file with NEURALX_* overrides")
	cmd.Flags().BoolVar(&opts.light, "light", false, "start in light mode")

	cmd.AddCommand(
		newExportCmd(opts),
		newCiteCmd(),
		newVersionCmd(),
	)
	return cmd
}

func runTUI(ctx context.Context, opts *rootOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	paper, err := content.Load()
	if err != nil {
		return err
	}

	cfg := opts.loadConfig()
	uiOpts := []ui.Option{ui.WithConfig(cfg)}
	if opts.light {
		uiOpts = append(uiOpts, ui.WithDark(false))
	}

	if path := opts.resolvedConfigPath(); path != "" {
		w, err := watcher.NewWatcher(path)
		if err == nil {
			err = w.Start(ctx)
		}
		if err != nil {
			debug.Log("config watch disabled: %v", err)
		} else {
			defer w.Stop()
			envFile := opts.envFile
			uiOpts = append(uiOpts, ui.WithConfigWatcher(w, func() (config.Config, error) {
				return config.Resolve(path, envFile)
			}))
		}
	}

	return runTUIProgram(ui.NewModel(paper, uiOpts...), cfg.MouseWheelEnabled())
}

func runTUIProgram(m ui.Model, mouse bool) error {
	progOpts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	}
	if mouse {
		progOpts = append(progOpts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(m, progOpts...)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set NEURALX_TUI_AUTOCLOSE_MS.
	if ms := autoCloseAfter(os.Getenv("NEURALX_TUI_AUTOCLOSE_MS")); ms > 0 {
		go func() {
			timer := time.NewTimer(ms)
			defer timer.Stop()

			select {
			case <-runDone:
				return
			case <-timer.C:
			}

			p.Quit()

			select {
			case <-runDone:
				return
			case <-time.After(2 * time.Second):
			}

			p.Kill()
		}()
	}

	final, err := p.Run()
	if fm, ok := final.(ui.Model); ok {
		fm.Close()
	}
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}

func autoCloseAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	ms, err := strconv.Atoi(v)
	if err != nil || ms <= 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}
