package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/neuralx/internal/content"
	"github.com/vanderheijden86/neuralx/pkg/chartdata"
)

// eighths are the partial block glyphs, index = filled eighths of a cell.
var eighths = []string{" ", "▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}

// column returns the glyph for row level (0 = bottom) of a column filled to
// cells rows.
func column(cells float64, level int) string {
	full := int(cells)
	switch {
	case level < full:
		return eighths[8]
	case level == full:
		return eighths[int(math.Round((cells-float64(full))*8))]
	default:
		return " "
	}
}

// renderAreaChart draws the accuracy series as a filled area over the fixed
// [80, 100] domain.
func renderAreaChart(t Theme, gens []content.GenerationPoint, width, height int) string {
	if width < 4 || height < 2 {
		return ""
	}
	samples := chartdata.Resample(chartdata.Accuracy(gens), width)
	fill := make([]float64, width)
	for i, v := range samples {
		fill[i] = chartdata.Normalize(v, chartdata.AccuracyMin, chartdata.AccuracyMax) * float64(height)
	}

	rows := make([]string, 0, height+1)
	rows = append(rows, t.Label.Render(truncate(chartdata.AccuracyTitle, width)))
	for r := 0; r < height; r++ {
		level := height - 1 - r
		var b strings.Builder
		for c := 0; c < width; c++ {
			g := column(fill[c], level)
			if g == " " && level%2 == 0 {
				b.WriteString(t.ChartFaint.Render("┄"))
				continue
			}
			b.WriteString(t.ChartInk.Render(g))
		}
		rows = append(rows, b.String())
	}
	return strings.Join(rows, "\n")
}

// renderBarChart draws one bar per generation with a y axis in ms.
func renderBarChart(t Theme, gens []content.GenerationPoint, width, height int) string {
	if len(gens) == 0 || height < 3 {
		return ""
	}
	values := chartdata.Latency(gens)
	labels := chartdata.Labels(gens)
	yMax := chartdata.SeriesMax(values)

	axisW := len(fmt.Sprintf("%.0f", yMax)) + 1
	slot := (width - axisW - 1) / len(values)
	if slot < 2 {
		return ""
	}
	barW := max(1, slot*2/3)
	plotH := height - 1 // last row holds the labels

	var rows []string
	for r := 0; r < plotH; r++ {
		level := plotH - 1 - r
		var tick string
		switch r {
		case 0:
			tick = fmt.Sprintf("%.0f", yMax)
		case plotH / 2:
			tick = fmt.Sprintf("%.0f", yMax/2)
		}
		line := t.ChartAxis.Render(fmt.Sprintf("%*s", axisW-1, tick)+" ") + t.ChartAxis.Render("│")
		for _, v := range values {
			cells := chartdata.Normalize(v, 0, yMax) * float64(plotH)
			g := column(cells, level)
			gap := strings.Repeat(" ", slot-barW)
			line += t.ChartInk.Render(strings.Repeat(g, barW)) + gap
		}
		rows = append(rows, line)
	}

	axis := strings.Repeat(" ", axisW) + t.ChartAxis.Render("└"+strings.Repeat("─", slot*len(values)))
	rows = append(rows, axis)

	var lb strings.Builder
	lb.WriteString(strings.Repeat(" ", axisW+1))
	for _, l := range labels {
		if runewidth.StringWidth(l) > slot-1 {
			// "Gen 30" becomes "30" when the slot is narrow.
			l = strings.TrimPrefix(l, "Gen ")
		}
		lb.WriteString(padRight(truncateRunesHelper(l, slot-1, ""), slot))
	}
	rows = append(rows, t.ChartAxis.Render(lb.String()))
	return strings.Join(rows, "\n")
}

// scatterMarkers are indexed by chartdata size class.
var scatterMarkers = []string{"·", "•", "●"}

// renderScatterChart plots the latent-space projection; marker size follows
// the z value.
func renderScatterChart(t Theme, pts []content.ScatterPoint, width, height int) string {
	if len(pts) == 0 || width < 12 || height < 4 {
		return ""
	}
	xs, ys, zs := chartdata.XYZ(pts)
	xMax, yMax := chartdata.SeriesMax(xs), chartdata.SeriesMax(ys)
	classes := chartdata.SizeClasses(zs)

	axisW := len(fmt.Sprintf("%.0f", yMax)) + 1
	plotW := width - axisW - 1
	plotH := height - 3 // top label, x axis, x ticks

	grid := make([][]int, plotH)
	for r := range grid {
		grid[r] = make([]int, plotW)
		for c := range grid[r] {
			grid[r][c] = -1
		}
	}
	for i := range pts {
		c := int(math.Round(chartdata.Normalize(xs[i], 0, xMax) * float64(plotW-1)))
		r := plotH - 1 - int(math.Round(chartdata.Normalize(ys[i], 0, yMax)*float64(plotH-1)))
		if classes[i] > grid[r][c] {
			grid[r][c] = classes[i]
		}
	}

	rows := []string{t.ChartAxis.Render(chartdata.ScatterYLabel)}
	for r := 0; r < plotH; r++ {
		var tick string
		switch r {
		case 0:
			tick = fmt.Sprintf("%.0f", yMax)
		case plotH - 1:
			tick = "0"
		}
		var b strings.Builder
		b.WriteString(t.ChartAxis.Render(fmt.Sprintf("%*s", axisW-1, tick) + " │"))
		for c := 0; c < plotW; c++ {
			switch {
			case grid[r][c] >= 0:
				b.WriteString(t.ChartInk.Render(scatterMarkers[grid[r][c]]))
			case r%3 == 0 && c%2 == 0:
				b.WriteString(t.ChartFaint.Render("·"))
			default:
				b.WriteByte(' ')
			}
		}
		rows = append(rows, b.String())
	}
	rows = append(rows, strings.Repeat(" ", axisW)+t.ChartAxis.Render("└"+strings.Repeat("─", plotW)))

	right := fmt.Sprintf("%.0f %s", xMax, chartdata.ScatterXLabel)
	ticks := "0" + strings.Repeat(" ", max(1, plotW-1-runewidth.StringWidth(right))) + right
	rows = append(rows, strings.Repeat(" ", axisW+1)+t.ChartAxis.Render(ticks))
	return strings.Join(rows, "\n")
}

// scatterLegend names the series and the marker scale.
func scatterLegend(t Theme) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		t.ChartInk.Render(IconDot), " ", t.Base.Render(chartdata.ScatterLegend),
		t.MutedText.Render("   "+strings.Join(scatterMarkers, " ")+" = "+strings.ToLower(chartdata.ScatterZLabel)),
	)
}
