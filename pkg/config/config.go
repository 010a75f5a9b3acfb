// Package config handles loading and saving neuralx configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config: ~/.config/neuralx/config.yaml
//
// Values are layered: defaults, then the YAML file, then NEURALX_* environment
// variables (a .env file in the working directory supplies variables that are
// not already set). Command-line flags are applied last by cmd/neuralx.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "NEURALX_"

// UIConfig holds UI preference settings.
type UIConfig struct {
	Dark            *bool `yaml:"dark,omitempty"`             // nil means dark
	ProximityWindow int   `yaml:"proximity_window,omitempty"` // rows, see scrollspy
	WordWrap        int   `yaml:"word_wrap,omitempty"`        // reader text width
	MouseWheel      *bool `yaml:"mouse_wheel,omitempty"`      // nil means enabled
}

// ExportConfig holds defaults for `neuralx export`.
type ExportConfig struct {
	Dir string `yaml:"dir,omitempty"`
}

// Config is the top-level configuration for neuralx.
type Config struct {
	UI     UIConfig     `yaml:"ui,omitempty"`
	Export ExportConfig `yaml:"export,omitempty"`
}

// envOverrides mirrors the settings that can come from the environment.
// Pointers distinguish "unset" from zero values.
type envOverrides struct {
	Dark            *bool   `env:"DARK"`
	ProximityWindow *int    `env:"PROXIMITY_WINDOW"`
	WordWrap        *int    `env:"WORD_WRAP"`
	MouseWheel      *bool   `env:"MOUSE_WHEEL"`
	ExportDir       *string `env:"EXPORT_DIR"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		UI: UIConfig{
			ProximityWindow: 12,
			WordWrap:        76,
		},
		Export: ExportConfig{
			Dir: "neuralx-export",
		},
	}
}

// DarkMode reports the configured initial theme.
func (c Config) DarkMode() bool {
	return c.UI.Dark == nil || *c.UI.Dark
}

// MouseWheelEnabled reports whether the TUI should capture the mouse wheel.
func (c Config) MouseWheelEnabled() bool {
	return c.UI.MouseWheel == nil || *c.UI.MouseWheel
}

// ConfigDir returns the XDG config directory for neuralx.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "neuralx")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "neuralx")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory and applies
// environment overrides. Returns defaults if the file doesn't exist.
func Load() (Config, error) {
	return Resolve(ConfigPath(), ".env")
}

// Resolve loads path, then applies the environment merged with the optional
// dotenv file. Either argument may be empty.
func Resolve(path, dotenvPath string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = LoadFrom(path); err != nil {
			return cfg, err
		}
	}
	environ, err := Environment(dotenvPath)
	if err != nil {
		return cfg, err
	}
	return ApplyEnv(cfg, environ)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config: %w", err)
	}
	cfg.Export.Dir = expandHome(cfg.Export.Dir)
	return cfg.normalized(), nil
}

// Environment returns the process environment, with variables from the
// dotenv file filled in where the process does not set them. A missing
// dotenv file is not an error.
func Environment(dotenvPath string) (map[string]string, error) {
	environ := make(map[string]string)
	if dotenvPath != "" {
		vars, err := godotenv.Read(dotenvPath)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading %s: %w", dotenvPath, err)
		}
		for k, v := range vars {
			environ[k] = v
		}
	}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			environ[k] = v
		}
	}
	return environ, nil
}

// ApplyEnv overlays NEURALX_* variables from environ onto cfg.
func ApplyEnv(cfg Config, environ map[string]string) (Config, error) {
	var o envOverrides
	if err := env.ParseWithOptions(&o, env.Options{
		Prefix:      EnvPrefix,
		Environment: environ,
	}); err != nil {
		return cfg, fmt.Errorf("parsing environment: %w", err)
	}
	if o.Dark != nil {
		cfg.UI.Dark = o.Dark
	}
	if o.ProximityWindow != nil {
		cfg.UI.ProximityWindow = *o.ProximityWindow
	}
	if o.WordWrap != nil {
		cfg.UI.WordWrap = *o.WordWrap
	}
	if o.MouseWheel != nil {
		cfg.UI.MouseWheel = o.MouseWheel
	}
	if o.ExportDir != nil {
		cfg.Export.Dir = expandHome(*o.ExportDir)
	}
	return cfg.normalized(), nil
}

// normalized replaces out-of-range values with defaults.
func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.UI.ProximityWindow <= 0 {
		c.UI.ProximityWindow = def.UI.ProximityWindow
	}
	if c.UI.WordWrap < 20 {
		c.UI.WordWrap = def.UI.WordWrap
	}
	if strings.TrimSpace(c.Export.Dir) == "" {
		c.Export.Dir = def.Export.Dir
	}
	return c
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
