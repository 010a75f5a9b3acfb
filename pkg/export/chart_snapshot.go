package export

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"git.sr.ht/~sbinet/gg"
	"github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/vanderheijden86/neuralx/internal/content"
	"github.com/vanderheijden86/neuralx/pkg/chartdata"
	"github.com/vanderheijden86/neuralx/pkg/metrics"
)

// ChartSnapshotOptions controls dashboard snapshot export.
type ChartSnapshotOptions struct {
	Path   string // Output path; format inferred from extension when Format empty
	Format string // "svg" or "png" (case-insensitive). If empty, inferred from Path.
	Paper  *content.Paper
	Light  bool // light palette instead of the dark one
}

// SaveChartSnapshot renders the dashboard (latent-space scatter, latency
// bars, accuracy area and summary cards) as a static SVG or PNG.
func SaveChartSnapshot(opts ChartSnapshotOptions) error {
	defer metrics.Timer(metrics.ExportChart)()

	if opts.Paper == nil {
		return fmt.Errorf("no paper to export")
	}
	if len(opts.Paper.Generations) == 0 || len(opts.Paper.Scatter) == 0 {
		return fmt.Errorf("paper has no chart data")
	}

	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".png":
			format = "png"
		default:
			format = "svg"
			if opts.Path != "" && filepath.Ext(opts.Path) == "" {
				opts.Path += ".svg"
			}
		}
	}
	if format != "svg" && format != "png" {
		return fmt.Errorf("%w: %q (want svg or png)", ErrUnsupportedFormat, format)
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	sheet := buildSheet(opts.Paper, paletteFor(opts.Light))

	if format == "png" {
		return renderPNG(opts.Path, sheet)
	}
	file, err := os.Create(opts.Path)
	if err != nil {
		return err
	}
	if err := renderSVGToWriter(file, sheet); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// --- palette ---------------------------------------------------------------

type palette struct {
	backdrop, panel, border color.RGBA
	text, subtle            color.RGBA
	primary, grid, axis     color.RGBA
	success                 color.RGBA
}

func paletteFor(light bool) palette {
	p := palette{
		primary: hexColor(chartdata.PrimaryColorHex),
		grid:    hexColor(chartdata.GridColorHex),
		axis:    hexColor(chartdata.AxisColorHex),
		success: hexColor("#22C55E"),
	}
	if light {
		p.backdrop = hexColor("#F6F7F8")
		p.panel = hexColor("#FFFFFF")
		p.border = hexColor("#E2E8F0")
		p.text = hexColor("#0F172A")
		p.subtle = hexColor("#64748B")
		p.grid = hexColor("#E2E8F0")
		return p
	}
	p.backdrop = hexColor("#101822")
	p.panel = hexColor("#1A2332")
	p.border = hexColor("#334155")
	p.text = hexColor("#F1F5F9")
	p.subtle = hexColor("#94A3B8")
	return p
}

// hexColor parses "#RRGGBB". Malformed input yields opaque black.
func hexColor(hex string) color.RGBA {
	v, err := strconv.ParseUint(strings.TrimPrefix(hex, "#"), 16, 32)
	if err != nil || len(strings.TrimPrefix(hex, "#")) != 6 {
		return color.RGBA{A: 255}
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// --- sheet layout ------------------------------------------------------------

type shapeKind int

const (
	shapeRect shapeKind = iota
	shapeCircle
	shapeLine
	shapePolygon
	shapePolyline
	shapeText
)

// shape is one drawing primitive, shared by the PNG and SVG backends.
type shape struct {
	kind    shapeKind
	x, y    float64 // text: baseline anchor point
	w, h    float64
	r       float64 // corner radius or circle radius
	xs, ys  []float64
	fill    *color.RGBA
	stroke  *color.RGBA
	lineW   float64
	opacity float64 // fill opacity, 0 means opaque

	text   string
	size   float64
	bold   bool
	anchor float64 // 0 start, 0.5 middle, 1 end
}

type sheet struct {
	Width, Height int
	Title         string
	Background    color.RGBA
	Shapes        []shape
}

func (s *sheet) add(sh shape) { s.Shapes = append(s.Shapes, sh) }

func (s *sheet) rect(x, y, w, h, r float64, fill, stroke *color.RGBA) {
	s.add(shape{kind: shapeRect, x: x, y: y, w: w, h: h, r: r, fill: fill, stroke: stroke, lineW: 1})
}

func (s *sheet) line(x1, y1, x2, y2 float64, c color.RGBA, w float64) {
	s.add(shape{kind: shapeLine, x: x1, y: y1, w: x2, h: y2, stroke: &c, lineW: w})
}

func (s *sheet) text(x, y float64, t string, size float64, c color.RGBA, bold bool, anchor float64) {
	s.add(shape{kind: shapeText, x: x, y: y, text: t, size: size, fill: &c, bold: bold, anchor: anchor})
}

const (
	sheetW   = 1200
	sheetH   = 880
	margin   = 24.0
	panelGap = 24.0
)

type box struct{ x, y, w, h float64 }

// buildSheet lays the dashboard out once; both backends draw the result.
func buildSheet(p *content.Paper, pal palette) sheet {
	s := sheet{Width: sheetW, Height: sheetH, Title: p.Title, Background: pal.backdrop}

	// header
	headerH := 104.0
	s.rect(margin, margin, sheetW-2*margin, headerH, 10, &pal.panel, &pal.border)
	s.text(margin+20, margin+36, p.Title, 22, pal.text, true, 0)
	s.text(margin+20, margin+62, fmt.Sprintf("%s · %d · %s", p.Journal, p.Year, p.Project), 13, pal.subtle, false, 0)
	s.text(margin+20, margin+84, strings.Join(p.Authors, ", "), 13, pal.subtle, false, 0)
	mean, std := chartdata.Summary(chartdata.Accuracy(p.Generations))
	s.text(sheetW-margin-20, margin+36, fmt.Sprintf("%s media %.1f%% (σ %.1f)", chartdata.ScatterZLabel, mean, std), 13, pal.primary, true, 1)

	colW := (sheetW - 2*margin - panelGap) / 2
	top := margin + headerH + panelGap
	upper := box{margin, top, colW, 400}
	right := box{margin + colW + panelGap, top, colW, 400}
	lowerY := top + 400 + panelGap
	lowerH := sheetH - lowerY - margin

	drawPanel(&s, pal, upper, chartdata.ScatterTitle, chartdata.ScatterCaption)
	drawScatter(&s, pal, plotArea(upper), p.Scatter)

	drawPanel(&s, pal, right, chartdata.LatencyTitle, chartdata.LatencyCaption)
	drawBars(&s, pal, plotArea(right), p.Generations)

	area := box{margin, lowerY, colW, lowerH}
	drawPanel(&s, pal, area, chartdata.AccuracyTitle, "")
	drawArea(&s, pal, plotArea(area), p.Generations)

	drawCards(&s, pal, box{margin + colW + panelGap, lowerY, colW, lowerH}, p.SummaryCards)
	return s
}

func drawPanel(s *sheet, pal palette, b box, title, caption string) {
	s.rect(b.x, b.y, b.w, b.h, 10, &pal.panel, &pal.border)
	s.text(b.x+20, b.y+32, title, 16, pal.text, true, 0)
	if caption != "" {
		s.text(b.x+20, b.y+52, truncateRunes(caption, int((b.w-40)/6.2)), 11, pal.subtle, false, 0)
	}
}

// plotArea is the inner chart rectangle of a panel, leaving room for ticks.
func plotArea(b box) box {
	return box{b.x + 60, b.y + 72, b.w - 84, b.h - 72 - 44}
}

func drawYAxis(s *sheet, pal palette, a box, maxV float64, ticks int, format string) {
	for i := 0; i <= ticks; i++ {
		v := maxV * float64(i) / float64(ticks)
		y := a.y + a.h - a.h*float64(i)/float64(ticks)
		s.line(a.x, y, a.x+a.w, y, pal.grid, 1)
		s.text(a.x-8, y+4, fmt.Sprintf(format, v), 11, pal.axis, false, 1)
	}
	s.line(a.x, a.y, a.x, a.y+a.h, pal.axis, 1)
	s.line(a.x, a.y+a.h, a.x+a.w, a.y+a.h, pal.axis, 1)
}

func drawScatter(s *sheet, pal palette, a box, pts []content.ScatterPoint) {
	xs, ys, zs := chartdata.XYZ(pts)
	xMax, yMax := chartdata.SeriesMax(xs), chartdata.SeriesMax(ys)
	zMin, zMax := minMax(zs)

	drawYAxis(s, pal, a, yMax, 4, "%.0f")
	for i := 0; i <= 4; i++ {
		x := a.x + a.w*float64(i)/4
		s.text(x, a.y+a.h+18, fmt.Sprintf("%.0f", xMax*float64(i)/4), 11, pal.axis, false, 0.5)
	}
	s.text(a.x+a.w/2, a.y+a.h+36, chartdata.ScatterXLabel, 11, pal.subtle, true, 0.5)
	s.text(a.x-40, a.y-10, chartdata.ScatterYLabel, 11, pal.subtle, true, 0)

	for i := range pts {
		cx := a.x + chartdata.Normalize(xs[i], 0, xMax)*a.w
		cy := a.y + a.h - chartdata.Normalize(ys[i], 0, yMax)*a.h
		r := chartdata.MarkerRadius(zs[i], zMin, zMax, 1)
		fill := pal.primary
		s.add(shape{kind: shapeCircle, x: cx, y: cy, r: r, fill: &fill, opacity: 0.6})
	}

	lx := a.x + a.w - 110
	legend := pal.primary
	s.add(shape{kind: shapeCircle, x: lx, y: a.y - 14, r: 5, fill: &legend})
	s.text(lx+12, a.y-10, chartdata.ScatterLegend, 11, pal.subtle, false, 0)
}

func drawBars(s *sheet, pal palette, a box, gens []content.GenerationPoint) {
	values := chartdata.Latency(gens)
	labels := chartdata.Labels(gens)
	yMax := chartdata.SeriesMax(values)

	drawYAxis(s, pal, a, yMax, 4, "%.0f")
	s.text(a.x-40, a.y-10, chartdata.LatencyUnit, 11, pal.subtle, true, 0)

	slot := a.w / float64(len(values))
	barW := slot * 0.6
	for i, v := range values {
		h := chartdata.Normalize(v, 0, yMax) * a.h
		x := a.x + slot*float64(i) + (slot-barW)/2
		fill := pal.primary
		s.rect(x, a.y+a.h-h, barW, h, 4, &fill, nil)
		s.text(x+barW/2, a.y+a.h+18, labels[i], 11, pal.axis, false, 0.5)
	}
}

func drawArea(s *sheet, pal palette, a box, gens []content.GenerationPoint) {
	values := chartdata.Accuracy(gens)
	labels := chartdata.Labels(gens)
	span := chartdata.AccuracyMax - chartdata.AccuracyMin

	for i := 0; i <= 4; i++ {
		v := chartdata.AccuracyMin + span*float64(i)/4
		y := a.y + a.h - a.h*float64(i)/4
		s.line(a.x, y, a.x+a.w, y, pal.grid, 1)
		s.text(a.x-8, y+4, fmt.Sprintf("%.0f", v), 11, pal.axis, false, 1)
	}

	xs := make([]float64, len(values))
	ys := make([]float64, len(values))
	for i, v := range values {
		xs[i] = a.x
		if len(values) > 1 {
			xs[i] = a.x + a.w*float64(i)/float64(len(values)-1)
		}
		ys[i] = a.y + a.h - chartdata.Normalize(v, chartdata.AccuracyMin, chartdata.AccuracyMax)*a.h
	}

	fill := pal.primary
	polyX := append(append([]float64{xs[0]}, xs...), xs[len(xs)-1])
	polyY := append(append([]float64{a.y + a.h}, ys...), a.y+a.h)
	s.add(shape{kind: shapePolygon, xs: polyX, ys: polyY, fill: &fill, opacity: 0.25})
	stroke := pal.primary
	s.add(shape{kind: shapePolyline, xs: xs, ys: ys, stroke: &stroke, lineW: 2.5})

	for i, l := range labels {
		if i == 0 || i == len(labels)-1 || i%2 == 0 {
			s.text(xs[i], a.y+a.h+18, l, 11, pal.axis, false, 0.5)
		}
	}
}

func drawCards(s *sheet, pal palette, b box, cards []content.SummaryCard) {
	if len(cards) == 0 {
		return
	}
	gap := 12.0
	h := (b.h - gap*float64(len(cards)-1)) / float64(len(cards))
	for i, c := range cards {
		y := b.y + float64(i)*(h+gap)
		border := pal.border
		if i == 0 {
			border = pal.primary
		}
		s.rect(b.x, y, b.w, h, 10, &pal.panel, &border)
		s.text(b.x+20, y+24, strings.ToUpper(c.Title), 11, pal.subtle, true, 0)
		value := c.Value
		if c.Unit != "" {
			value += " " + c.Unit
		}
		s.text(b.x+20, y+h/2+12, value, 24, pal.text, true, 0)
		note := pal.subtle
		if strings.HasPrefix(c.Note, "↓") {
			note = pal.success
		}
		s.text(b.x+b.w-20, y+h/2+12, c.Note, 12, note, false, 1)
	}
}

// --- PNG backend -------------------------------------------------------------

func renderPNG(path string, s sheet) error {
	dc := gg.NewContext(s.Width, s.Height)
	dc.SetColor(s.Background)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	for _, sh := range s.Shapes {
		switch sh.kind {
		case shapeRect:
			dc.DrawRoundedRectangle(sh.x, sh.y, sh.w, sh.h, sh.r)
			fillStroke(dc, sh)
		case shapeCircle:
			dc.DrawCircle(sh.x, sh.y, sh.r)
			fillStroke(dc, sh)
		case shapeLine:
			dc.DrawLine(sh.x, sh.y, sh.w, sh.h)
			fillStroke(dc, sh)
		case shapePolygon, shapePolyline:
			dc.NewSubPath()
			for i := range sh.xs {
				if i == 0 {
					dc.MoveTo(sh.xs[i], sh.ys[i])
				} else {
					dc.LineTo(sh.xs[i], sh.ys[i])
				}
			}
			if sh.kind == shapePolygon {
				dc.ClosePath()
			}
			fillStroke(dc, sh)
		case shapeText:
			dc.SetColor(*sh.fill)
			dc.DrawStringAnchored(asciiFold(sh.text), sh.x, sh.y, sh.anchor, 0)
		}
	}
	return dc.SavePNG(path)
}

func fillStroke(dc *gg.Context, sh shape) {
	if sh.fill != nil {
		c := *sh.fill
		if sh.opacity > 0 {
			c.A = uint8(math.Round(sh.opacity * 255))
			dc.SetRGBA255(int(c.R), int(c.G), int(c.B), int(c.A))
		} else {
			dc.SetColor(c)
		}
		if sh.stroke != nil {
			dc.FillPreserve()
		} else {
			dc.Fill()
		}
	}
	if sh.stroke != nil {
		dc.SetColor(*sh.stroke)
		dc.SetLineWidth(sh.lineW)
		dc.Stroke()
	}
}

// asciiFold strips accents and replaces what basicfont cannot draw.
func asciiFold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r == '·' || r == '•':
			return '-'
		case r == 'σ':
			return 's'
		case r > unicode.MaxASCII:
			return '?'
		}
		return r
	}, folded)
}

// --- SVG backend -------------------------------------------------------------

func renderSVGToWriter(w io.Writer, s sheet) error {
	canvas := svg.New(w)
	canvas.Start(s.Width, s.Height)
	canvas.Title(s.Title)
	canvas.Rect(0, 0, s.Width, s.Height, "fill:"+css(s.Background))

	for _, sh := range s.Shapes {
		style := svgStyle(sh)
		switch sh.kind {
		case shapeRect:
			canvas.Roundrect(px(sh.x), px(sh.y), px(sh.w), px(sh.h), px(sh.r), px(sh.r), style)
		case shapeCircle:
			canvas.Circle(px(sh.x), px(sh.y), px(sh.r), style)
		case shapeLine:
			canvas.Line(px(sh.x), px(sh.y), px(sh.w), px(sh.h), style)
		case shapePolygon:
			canvas.Polygon(pxs(sh.xs), pxs(sh.ys), style)
		case shapePolyline:
			canvas.Polyline(pxs(sh.xs), pxs(sh.ys), style)
		case shapeText:
			canvas.Text(px(sh.x), px(sh.y), sh.text, style)
		}
	}

	canvas.End()
	return nil
}

func svgStyle(sh shape) string {
	var parts []string
	if sh.kind == shapeText {
		anchor := "start"
		switch sh.anchor {
		case 0.5:
			anchor = "middle"
		case 1:
			anchor = "end"
		}
		parts = append(parts,
			"fill:"+css(*sh.fill),
			fmt.Sprintf("font-size:%.0fpx", sh.size),
			"font-family:sans-serif",
			"text-anchor:"+anchor,
		)
		if sh.bold {
			parts = append(parts, "font-weight:bold")
		}
		return strings.Join(parts, ";")
	}

	if sh.fill != nil {
		parts = append(parts, "fill:"+css(*sh.fill))
		if sh.opacity > 0 {
			parts = append(parts, fmt.Sprintf("fill-opacity:%.2f", sh.opacity))
		}
	} else {
		parts = append(parts, "fill:none")
	}
	if sh.stroke != nil {
		parts = append(parts, "stroke:"+css(*sh.stroke), fmt.Sprintf("stroke-width:%.1f", sh.lineW))
	}
	return strings.Join(parts, ";")
}

func px(v float64) int { return int(math.Round(v)) }

func pxs(vs []float64) []int {
	out := make([]int, len(vs))
	for i, v := range vs {
		out[i] = px(v)
	}
	return out
}

// --- helpers -----------------------------------------------------------------

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

func minMax(vs []float64) (lo, hi float64) {
	if len(vs) == 0 {
		return 0, 0
	}
	lo, hi = vs[0], vs[0]
	for _, v := range vs[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}
