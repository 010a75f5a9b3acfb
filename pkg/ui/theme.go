package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeBg returns the given hex color for TrueColor terminals and
// lipgloss.NoColor{} otherwise, so 16/256-color terminals keep their own
// background instead of a down-converted approximation.
func ThemeBg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.TrueColor {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

// Theme is the set of styles every view renders with. All styles come from
// one renderer, so flipping the renderer's dark-background flag switches
// every adaptive color at once.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary lipgloss.AdaptiveColor
	Text    lipgloss.AdaptiveColor
	Subtext lipgloss.AdaptiveColor
	Muted   lipgloss.AdaptiveColor
	Border  lipgloss.AdaptiveColor
	Success lipgloss.AdaptiveColor
	Accent  lipgloss.AdaptiveColor

	Base      lipgloss.Style
	Title     lipgloss.Style // serif-ish display headings
	Subtitle  lipgloss.Style
	Heading   lipgloss.Style // section headings
	Label     lipgloss.Style // uppercase captions
	MutedText lipgloss.Style
	Emphasis  lipgloss.Style

	Badge         lipgloss.Style
	Chip          lipgloss.Style
	ChipAccent    lipgloss.Style
	Avatar        lipgloss.Style
	Button        lipgloss.Style
	ButtonPrimary lipgloss.Style
	KeyHint       lipgloss.Style

	Panel        lipgloss.Style
	PanelPrimary lipgloss.Style
	Header       lipgloss.Style

	SidebarItem   lipgloss.Style
	SidebarActive lipgloss.Style
	SidebarRail   lipgloss.Style
	SidebarMarker lipgloss.Style

	ChartInk   lipgloss.Style
	ChartFaint lipgloss.Style
	ChartAxis  lipgloss.Style

	StatusInfo  lipgloss.Style
	StatusError lipgloss.Style
}

// DefaultTheme builds the theme on r.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,
		Primary:  ColorPrimary,
		Text:     ColorText,
		Subtext:  ColorSubtext,
		Muted:    ColorMuted,
		Border:   ColorBorder,
		Success:  ColorSuccess,
		Accent:   ColorAccent,
	}

	t.Base = r.NewStyle().Foreground(t.Text)
	t.Title = r.NewStyle().Foreground(t.Text).Bold(true)
	t.Subtitle = r.NewStyle().Foreground(t.Subtext)
	t.Heading = r.NewStyle().Foreground(t.Text).Bold(true).Underline(true)
	t.Label = r.NewStyle().Foreground(t.Muted).Bold(true)
	t.MutedText = r.NewStyle().Foreground(t.Muted)
	t.Emphasis = r.NewStyle().Foreground(t.Primary).Bold(true)

	t.Badge = r.NewStyle().
		Foreground(t.Primary).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(0, 1).
		Bold(true)
	t.Chip = r.NewStyle().
		Foreground(t.Subtext).
		Background(ColorSurface).
		Padding(0, 1)
	t.ChipAccent = t.Chip.
		Foreground(t.Primary).
		Background(ColorPrimarySoft)
	t.Avatar = r.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(ThemeBg("#8B5CF6")).
		Bold(true).
		Padding(0, 1)
	t.Button = r.NewStyle().
		Foreground(t.Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 2).
		Bold(true)
	t.ButtonPrimary = t.Button.
		Foreground(t.Primary).
		BorderForeground(t.Primary)
	t.KeyHint = r.NewStyle().Foreground(t.Primary).Bold(true)

	t.Panel = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)
	t.PanelPrimary = t.Panel.BorderForeground(t.Primary)
	t.Header = r.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(t.Border)

	t.SidebarItem = r.NewStyle().Foreground(t.Muted).PaddingLeft(1)
	t.SidebarActive = r.NewStyle().Foreground(t.Primary).Bold(true).PaddingLeft(1)
	t.SidebarRail = r.NewStyle().Foreground(t.Border)
	t.SidebarMarker = r.NewStyle().Foreground(t.Primary)

	t.ChartInk = r.NewStyle().Foreground(t.Primary)
	t.ChartFaint = r.NewStyle().Foreground(ColorGrid)
	t.ChartAxis = r.NewStyle().Foreground(t.Muted)

	t.StatusInfo = r.NewStyle().Foreground(t.Success)
	t.StatusError = r.NewStyle().Foreground(ColorDanger).Bold(true)

	return t
}

// GlamourStyle is the glamour standard style matching the renderer's
// background.
func (t Theme) GlamourStyle() string {
	if t.Renderer.HasDarkBackground() {
		return "dark"
	}
	return "light"
}
