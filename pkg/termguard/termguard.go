// Package termguard keeps non-interactive neuralx invocations from probing
// the terminal.
//
// Importing Bubble Tea pulls in lipgloss and termenv, whose background-color
// detection writes OSC/DSR queries to stdout. That is harmless in a terminal
// but corrupts output that is piped into a file or another program, as
// `neuralx cite --format bibtex > paper.bib` does. Such invocations get CI=1
// before any TUI code runs; termenv skips probing when CI is set.
//
// cmd/neuralx imports this package for its side effect, first in its import
// list.
package termguard

import (
	"os"
	"strings"
)

func init() {
	if os.Getenv("CI") != "" {
		return
	}
	if !ShouldSuppressTTYQueries(os.Args, os.Getenv("NEURALX_TEST_MODE") != "") {
		return
	}
	_ = os.Setenv("CI", "1")
}

// ShouldSuppressTTYQueries reports whether args name a command that never
// starts the TUI.
func ShouldSuppressTTYQueries(args []string, envTest bool) bool {
	if envTest {
		return true
	}
	if len(args) < 2 {
		return false
	}

	rest := args[1:]
	for _, arg := range rest {
		switch {
		case arg == "--version", arg == "--help", arg == "-h":
			return true
		case arg == "--format", strings.HasPrefix(arg, "--format="):
			return true
		}
	}

	switch firstCommand(rest) {
	case "version", "help", "completion":
		return true
	case "export":
		// A bare `neuralx export` runs the interactive wizard.
		return len(positional(rest)) > 1
	}
	return false
}

func firstCommand(args []string) string {
	if p := positional(args); len(p) > 0 {
		return p[0]
	}
	return ""
}

// positional drops flags and the values of the flags that take one.
func positional(args []string) []string {
	var out []string
	skip := false
	for _, a := range args {
		if skip {
			skip = false
			continue
		}
		if strings.HasPrefix(a, "-") {
			if (a == "--config" || a == "--format") && !strings.Contains(a, "=") {
				skip = true
			}
			continue
		}
		out = append(out, a)
	}
	return out
}
