// Package debug provides conditional debug logging for neuralx.
//
// Debug logging is enabled by setting the NEURALX_DEBUG environment variable:
//
//	NEURALX_DEBUG=1 neuralx export all ./out
//
// Messages go to stderr, or to the file named by NEURALX_DEBUG_FILE. The TUI
// owns the terminal while it runs, so point NEURALX_DEBUG_FILE somewhere when
// debugging interactive sessions. When disabled (default), all debug
// functions are no-ops.
//
// Usage:
//
//	debug.Log("rendered %d sections", n)
//	defer debug.LogEnterExit("export.SQLite")()
package debug

import (
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// enabled is true when NEURALX_DEBUG is set
	enabled bool
	logger  *zap.SugaredLogger
)

func init() {
	if os.Getenv("NEURALX_DEBUG") != "" {
		SetEnabled(true)
	}
}

func newLogger() *zap.SugaredLogger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000000")
	cfg.OutputPaths = []string{"stderr"}
	if path := os.Getenv("NEURALX_DEBUG_FILE"); path != "" {
		cfg.OutputPaths = []string{path}
	}
	l, err := cfg.Build()
	if err != nil {
		l = zap.NewNop()
	}
	return l.Named("neuralx").Sugar()
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	return enabled
}

// SetEnabled allows programmatic control of debug logging.
func SetEnabled(e bool) {
	enabled = e
	if e && logger == nil {
		logger = newLogger()
	}
}

// SetLogger replaces the underlying logger. Tests use it with zaptest or an
// observer core.
func SetLogger(l *zap.Logger) {
	logger = l.Sugar()
}

// Log writes a debug message if debug logging is enabled.
// Uses printf-style formatting.
func Log(format string, args ...any) {
	if !enabled {
		return
	}
	logger.Debugf(format, args...)
}

// LogTiming writes a timing message if debug logging is enabled.
func LogTiming(name string, d time.Duration) {
	if !enabled {
		return
	}
	logger.Debugw("timing", "op", name, "took", d)
}

// LogEnterExit logs function entry and exit with timing.
//
//	func myFunc() {
//	    defer debug.LogEnterExit("myFunc")()
//	}
func LogEnterExit(name string) func() {
	if !enabled {
		return func() {}
	}
	logger.Debugf("-> %s", name)
	start := time.Now()
	return func() {
		logger.Debugf("<- %s (%v)", name, time.Since(start))
	}
}

// Sync flushes buffered log entries. Call it before the process exits.
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
