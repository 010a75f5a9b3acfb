package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ══════════════════════════════════════════════════════════════════════════════
// DESIGN TOKENS
// ══════════════════════════════════════════════════════════════════════════════

const (
	SpaceXS = 1
	SpaceSM = 2
	SpaceMD = 3
	SpaceLG = 4
)

// Layout limits in terminal cells.
const (
	defaultWidth  = 100
	defaultHeight = 32
	sidebarWidth  = 26
	maxPageWidth  = 110
	twoColumnMin  = 104 // dashboard places charts side by side from here
)

// Light mode colors are tuned for contrast on white backgrounds.
var (
	ColorText        = lipgloss.AdaptiveColor{Light: "#0F172A", Dark: "#F1F5F9"}
	ColorSubtext     = lipgloss.AdaptiveColor{Light: "#475569", Dark: "#CBD5E1"}
	ColorMuted       = lipgloss.AdaptiveColor{Light: "#64748B", Dark: "#94A3B8"}
	ColorBorder      = lipgloss.AdaptiveColor{Light: "#CBD5E1", Dark: "#334155"}
	ColorGrid        = lipgloss.AdaptiveColor{Light: "#E2E8F0", Dark: "#334155"}
	ColorSurface     = lipgloss.AdaptiveColor{Light: "#F1F5F9", Dark: "#1E293B"}
	ColorPrimary     = lipgloss.AdaptiveColor{Light: "#0B5CD5", Dark: "#3B8BF5"}
	ColorPrimarySoft = lipgloss.AdaptiveColor{Light: "#DBEAFE", Dark: "#172554"}
	ColorAccent      = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}
	ColorSuccess     = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#4ADE80"}
	ColorDanger      = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
)

// Glyphs standing in for the icon font of the web edition.
const (
	IconScience  = "⚗"
	IconBack     = "←"
	IconForward  = "→"
	IconDownload = "⤓"
	IconCheck    = "✓"
	IconQuote    = "❝"
	IconDataset  = "◫"
	IconDash     = "▦"
	IconSchool   = "⌂"
	IconShare    = "⇪"
	IconSun      = "☀"
	IconMoon     = "☾"
	IconDot      = "●"
	IconBullet   = "•"
)

// keyHint renders "[k] label".
func (t Theme) keyHint(key, label string) string {
	return t.KeyHint.Render("["+key+"]") + " " + t.Base.Render(label)
}

// rule is a horizontal line of the given width.
func (t Theme) rule(width int) string {
	if width <= 0 {
		return ""
	}
	return t.SidebarRail.Render(strings.Repeat("─", width))
}

// themeIcon is the toggle glyph: it shows the theme a press switches to.
func themeIcon(dark bool) string {
	if dark {
		return IconSun
	}
	return IconMoon
}
