package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/neuralx/pkg/chartdata"
	"github.com/vanderheijden86/neuralx/pkg/metrics"
)

const chartHeight = 12

// dashboardView renders the results dashboard.
func (m Model) dashboardView() string {
	defer metrics.Timer(metrics.RenderDashboard)()
	t := m.theme

	left := t.KeyHint.Render(IconBack+" [esc]") + "  " + t.Title.Render("Dashboard de Resultados Interactivo")
	right := t.keyHint("e", IconDownload+" Exportar Datos")
	return m.headerBar(left, right) + "\n" + m.page.View()
}

// dashboardContent is the scrolling body: the two charts, then the summary
// cards.
func (m Model) dashboardContent() string {
	t := m.theme
	p := m.paper
	w := m.pageWidth()

	var charts string
	if w >= twoColumnMin {
		colW := (w - 2) / 2
		charts = lipgloss.JoinHorizontal(lipgloss.Top,
			m.scatterPanel(colW), "  ", m.latencyPanel(colW))
	} else {
		charts = lipgloss.JoinVertical(lipgloss.Left,
			m.scatterPanel(w), "", m.latencyPanel(w))
	}

	cards := make([]string, 0, 2*len(p.SummaryCards))
	cardW := (w - 2*(len(p.SummaryCards)-1)) / max(1, len(p.SummaryCards))
	stacked := cardW < 22
	if stacked {
		cardW = w
	}
	for i, c := range p.SummaryCards {
		if i > 0 && !stacked {
			cards = append(cards, "  ")
		}
		style := t.Panel
		if i == 0 {
			style = t.PanelPrimary
		}
		value := t.Title.Render(c.Value)
		if c.Unit != "" {
			value += " " + t.MutedText.Render(c.Unit)
		}
		note := t.MutedText
		if strings.HasPrefix(c.Note, "↓") {
			note = t.StatusInfo
		}
		cards = append(cards, style.Width(cardW-2).Render(lipgloss.JoinVertical(lipgloss.Left,
			t.Label.Render(strings.ToUpper(c.Title)),
			value,
			note.Render(c.Note),
		)))
	}
	var summary string
	if stacked {
		summary = lipgloss.JoinVertical(lipgloss.Left, cards...)
	} else {
		summary = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	}

	body := lipgloss.JoinVertical(lipgloss.Left, "", charts, "", summary, "")
	return center(t.Renderer, body, m.width)
}

// scatterPanel is the latent-space chart with its heading and legend.
func (m Model) scatterPanel(width int) string {
	t := m.theme
	inner := width - 4
	return t.Panel.Width(width - 2).Render(lipgloss.JoinVertical(lipgloss.Left,
		t.Title.Render(chartdata.ScatterTitle),
		t.MutedText.Width(inner).Render(chartdata.ScatterCaption),
		"",
		renderScatterChart(t, m.paper.Scatter, inner, chartHeight),
		scatterLegend(t),
	))
}

// latencyPanel is the per-generation latency bar chart.
func (m Model) latencyPanel(width int) string {
	t := m.theme
	inner := width - 4
	return t.Panel.Width(width - 2).Render(lipgloss.JoinVertical(lipgloss.Left,
		t.Title.Render(chartdata.LatencyTitle),
		t.MutedText.Width(inner).Render(chartdata.LatencyCaption),
		"",
		t.ChartAxis.Render(chartdata.LatencyUnit),
		renderBarChart(t, m.paper.Generations, inner, chartHeight-1),
	))
}
