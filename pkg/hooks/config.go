// Package hooks runs user commands around `neuralx export`.
// Hooks are configured in .neuralx/hooks.yaml (or hooks.yaml in the neuralx
// config directory) and run before the files are written (pre-export) and
// after (post-export).
package hooks

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// HookPhase represents when a hook runs
type HookPhase string

const (
	// PreExport runs before any file is written. Failure cancels the export.
	PreExport HookPhase = "pre-export"
	// PostExport runs after the files are written. Failure is reported but
	// the files stay.
	PostExport HookPhase = "post-export"
)

// OnError policies.
const (
	OnErrorFail     = "fail"
	OnErrorContinue = "continue"
)

// DefaultTimeout is the default hook execution timeout
const DefaultTimeout = 30 * time.Second

// Hook defines a single hook configuration
type Hook struct {
	Name    string            `yaml:"name" json:"name"`
	Command string            `yaml:"command" json:"command"` // run with sh -c
	Timeout time.Duration     `yaml:"timeout,omitempty" json:"timeout,omitempty"`
	Env     map[string]string `yaml:"env,omitempty" json:"env,omitempty"` // values may reference $NEURALX_* vars
	OnError string            `yaml:"on_error,omitempty" json:"on_error,omitempty"`
}

// Config holds all hook configurations
type Config struct {
	Hooks HooksByPhase `yaml:"hooks" json:"hooks"`
}

// HooksByPhase organizes hooks by their execution phase
type HooksByPhase struct {
	PreExport  []Hook `yaml:"pre-export,omitempty" json:"pre-export,omitempty"`
	PostExport []Hook `yaml:"post-export,omitempty" json:"post-export,omitempty"`
}

// ExportContext is passed to hooks as environment variables.
type ExportContext struct {
	ExportPath   string    // NEURALX_EXPORT_PATH: output file, or directory for `all`
	ExportFormat string    // NEURALX_EXPORT_FORMAT: svg, png, sqlite, markdown, json or all
	SectionCount int       // NEURALX_SECTION_COUNT
	Timestamp    time.Time // NEURALX_TIMESTAMP (RFC3339)
}

// ToEnv converts export context to environment variables
func (c ExportContext) ToEnv() []string {
	return []string{
		"NEURALX_EXPORT_PATH=" + c.ExportPath,
		"NEURALX_EXPORT_FORMAT=" + c.ExportFormat,
		"NEURALX_SECTION_COUNT=" + strconv.Itoa(c.SectionCount),
		"NEURALX_TIMESTAMP=" + c.Timestamp.Format(time.RFC3339),
	}
}

// ProjectFile is the hooks file relative to the project directory.
var ProjectFile = filepath.Join(".neuralx", "hooks.yaml")

// Loader finds and parses the hooks file.
type Loader struct {
	projectDir string
	configDir  string
	path       string // file actually loaded, "" when none
	config     *Config
	warnings   []string
}

// LoaderOption configures the loader
type LoaderOption func(*Loader)

// WithProjectDir sets the project directory (default: current directory)
func WithProjectDir(dir string) LoaderOption {
	return func(l *Loader) {
		l.projectDir = dir
	}
}

// WithConfigDir sets the fallback directory searched for hooks.yaml when
// the project has none.
func WithConfigDir(dir string) LoaderOption {
	return func(l *Loader) {
		l.configDir = dir
	}
}

// NewLoader creates a new hook loader with options
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	if l.projectDir == "" {
		l.projectDir, _ = os.Getwd()
	}
	return l
}

// candidates lists the files Load tries, first match wins.
func (l *Loader) candidates() []string {
	paths := []string{filepath.Join(l.projectDir, ProjectFile)}
	if l.configDir != "" {
		paths = append(paths, filepath.Join(l.configDir, "hooks.yaml"))
	}
	return paths
}

// Load reads the first hooks file found. No file means no hooks.
func (l *Loader) Load() error {
	l.config = &Config{}
	l.path = ""

	for _, path := range l.candidates() {
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("reading hooks config: %w", err)
		}

		var cfg Config
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
		cfg.Hooks.PreExport, l.warnings = normalizeHooks(cfg.Hooks.PreExport, PreExport, l.warnings)
		cfg.Hooks.PostExport, l.warnings = normalizeHooks(cfg.Hooks.PostExport, PostExport, l.warnings)
		l.config = &cfg
		l.path = path
		return nil
	}
	return nil
}

// normalizeHooks applies defaults, drops empty commands, and accumulates warnings.
func normalizeHooks(hooks []Hook, phase HookPhase, warnings []string) ([]Hook, []string) {
	var out []Hook
	for i, hook := range hooks {
		if strings.TrimSpace(hook.Command) == "" {
			warnings = append(warnings, fmt.Sprintf("%s hook %d has empty command; skipping", phase, i+1))
			continue
		}
		if hook.Timeout <= 0 {
			hook.Timeout = DefaultTimeout
		}
		switch hook.OnError {
		case OnErrorFail, OnErrorContinue:
		case "":
			hook.OnError = OnErrorContinue
			if phase == PreExport {
				hook.OnError = OnErrorFail
			}
		default:
			warnings = append(warnings, fmt.Sprintf("%s hook %d: unknown on_error %q, using %q", phase, i+1, hook.OnError, OnErrorFail))
			hook.OnError = OnErrorFail
		}
		if hook.Name == "" {
			hook.Name = fmt.Sprintf("%s-%d", phase, i+1)
		}
		out = append(out, hook)
	}
	return out, warnings
}

// Path is the hooks file that was loaded, or "".
func (l *Loader) Path() string { return l.path }

// Config returns the loaded configuration (or empty if not loaded)
func (l *Loader) Config() *Config {
	if l.config == nil {
		return &Config{}
	}
	return l.config
}

// HasHooks returns true if any hooks are configured
func (l *Loader) HasHooks() bool {
	return len(l.GetHooks(PreExport)) > 0 || len(l.GetHooks(PostExport)) > 0
}

// GetHooks returns hooks for a specific phase
func (l *Loader) GetHooks(phase HookPhase) []Hook {
	if l.config == nil {
		return nil
	}
	switch phase {
	case PreExport:
		return l.config.Hooks.PreExport
	case PostExport:
		return l.config.Hooks.PostExport
	default:
		return nil
	}
}

// Warnings returns any warnings from loading
func (l *Loader) Warnings() []string {
	return l.warnings
}

// UnmarshalYAML accepts timeouts as durations ("10s") or bare seconds (10).
func (h *Hook) UnmarshalYAML(node *yaml.Node) error {
	// Mirrors Hook with Timeout as text.
	var dto struct {
		Name    string            `yaml:"name"`
		Command string            `yaml:"command"`
		Timeout string            `yaml:"timeout,omitempty"`
		Env     map[string]string `yaml:"env,omitempty"`
		OnError string            `yaml:"on_error,omitempty"`
	}
	if err := node.Decode(&dto); err != nil {
		return err
	}
	*h = Hook{Name: dto.Name, Command: dto.Command, Env: dto.Env, OnError: dto.OnError}

	if dto.Timeout == "" {
		return nil
	}
	if d, err := time.ParseDuration(dto.Timeout); err == nil {
		h.Timeout = d
		return nil
	}
	seconds, err := strconv.ParseFloat(dto.Timeout, 64)
	if err != nil {
		return fmt.Errorf("invalid timeout %q", dto.Timeout)
	}
	h.Timeout = time.Duration(seconds * float64(time.Second))
	return nil
}
