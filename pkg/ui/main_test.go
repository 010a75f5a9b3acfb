package ui

import (
	"io"
	"os"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestMain(m *testing.M) {
	// Models built without WithRenderer must not query the real terminal for
	// its background color.
	lipgloss.SetDefaultRenderer(lipgloss.NewRenderer(io.Discard))

	os.Exit(m.Run())
}
