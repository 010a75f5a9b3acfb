package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/neuralx/pkg/metrics"
)

// landingView renders the landing screen: navigation bar over the scrolling
// page.
func (m Model) landingView() string {
	defer metrics.Timer(metrics.RenderLanding)()
	t := m.theme

	brand := t.Emphasis.Render(IconScience) + " " + t.Title.Render(m.paper.Project)
	nav := strings.Join([]string{
		t.keyHint("r", "Leer Paper"),
		t.keyHint("d", "Dashboard Interactivo"),
		t.keyHint("p", IconDownload+" PDF"),
		t.keyHint("t", themeIcon(m.state.Dark)),
	}, "  ")
	if lipgloss.Width(brand)+lipgloss.Width(nav)+2 > m.width {
		nav = t.keyHint("r", "Leer") + "  " + t.keyHint("d", "Dashboard") + "  " + t.keyHint("t", themeIcon(m.state.Dark))
	}
	return m.headerBar(brand, nav) + "\n" + m.page.View()
}

// pageWidth is the content width of the landing and dashboard pages.
func (m Model) pageWidth() int {
	return max(20, min(m.width-2, maxPageWidth))
}

// landingContent is the scrolling body of the landing page.
func (m Model) landingContent() string {
	t := m.theme
	p := m.paper
	w := m.pageWidth()

	blocks := []string{
		"",
		m.hero(w),
		"",
		m.statsRow(w),
		"",
		t.Emphasis.Render("▌") + " " + t.Title.Render("Resumen"),
		"",
		wrap(t.Renderer, t.Subtitle.Render(p.Abstract), min(m.cfg.UI.WordWrap, w)),
		"",
		m.findings(w),
		"",
		t.rule(w),
		m.landingFooter(w),
		"",
	}
	return center(t.Renderer, lipgloss.JoinVertical(lipgloss.Left, blocks...), m.width)
}

func (m Model) hero(w int) string {
	t := m.theme
	p := m.paper
	inner := w - 4

	buttons := []string{
		t.ButtonPrimary.Render("Leer Paper Completo " + IconForward + " [r]"),
		t.Button.Render(IconDash + " Ver Dashboard Interactivo [d]"),
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, buttons[0], "  ", buttons[1])
	if lipgloss.Width(row) > inner {
		row = lipgloss.JoinVertical(lipgloss.Left, buttons...)
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		t.Badge.Render(IconDot+" PAPER DE INVESTIGACIÓN"),
		"",
		t.Title.Width(inner).Render(p.Title),
		"",
		t.Subtitle.Width(inner).Render(p.Subtitle),
		"",
		t.MutedText.Width(inner).Render(strings.Join(p.Authors, ", ")),
		"",
		row,
	)
	return t.PanelPrimary.Width(w - 2).Render(body)
}

// statBlock is one headline number on the landing page.
func (m Model) statBlock(icon, label, value, note string, width int) string {
	t := m.theme
	return t.Panel.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left,
		t.Emphasis.Render(icon)+" "+t.Label.Render(label),
		t.Title.Render(truncate(value, width-2)),
		t.MutedText.Render(note),
	))
}

func (m Model) statsRow(w int) string {
	p := m.paper
	const gap = 2
	type stat struct{ icon, label, value, note string }
	stats := []stat{
		{IconSchool, "PUBLICADO", p.Journal, p.PublicationDate},
		{IconQuote, "CITAS", fmt.Sprintf("%d", p.Stats.Citations), "Citado por"},
		{IconDataset, "DATOS", p.Stats.DatasetPoints, "Puntos"},
	}

	colW := (w - 2*gap) / len(stats)
	stacked := colW < 24
	if stacked {
		colW = w
	}
	blocks := make([]string, 0, 2*len(stats))
	for i, s := range stats {
		if i > 0 && !stacked {
			blocks = append(blocks, strings.Repeat(" ", gap))
		}
		blocks = append(blocks, m.statBlock(s.icon, s.label, s.value, s.note, colW-2))
	}
	if stacked {
		return lipgloss.JoinVertical(lipgloss.Left, blocks...)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, blocks...)
}

// findings lists the key findings next to the accuracy chart, or above it
// when the page is narrow.
func (m Model) findings(w int) string {
	t := m.theme
	p := m.paper

	listW := w
	if w >= twoColumnMin-20 {
		listW = w / 2
	}

	lines := []string{t.Title.Render("Hallazgos Clave"), ""}
	for _, f := range p.KeyFindings {
		item := t.Renderer.NewStyle().Width(listW - 4).Render(f)
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, t.StatusInfo.Render(IconCheck+" "), t.Base.Render(item)))
	}
	list := lipgloss.JoinVertical(lipgloss.Left, lines...)

	if listW == w {
		chart := t.Panel.Render(renderAreaChart(t, p.Generations, w-6, 8))
		return lipgloss.JoinVertical(lipgloss.Left, list, "", chart)
	}
	chartW := w - listW - 2
	chart := t.Panel.Render(renderAreaChart(t, p.Generations, chartW-4, 8))
	return lipgloss.JoinHorizontal(lipgloss.Top, t.Renderer.NewStyle().Width(listW).Render(list), "  ", chart)
}

func (m Model) landingFooter(w int) string {
	t := m.theme
	p := m.paper
	left := t.MutedText.Render(p.Affiliation + "  " + IconBullet + "  " + p.Footer.Copyright)
	right := t.MutedText.Render(strings.Join(p.Footer.Links, " · "))
	if lipgloss.Width(left)+lipgloss.Width(right)+2 <= w {
		return left + strings.Repeat(" ", w-lipgloss.Width(left)-lipgloss.Width(right)) + right
	}
	return t.MutedText.Width(w).Render(strings.Join([]string{
		p.Affiliation,
		p.Footer.Copyright,
		strings.Join(p.Footer.Links, " · "),
	}, "\n"))
}
