package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/neuralx/internal/content"
	"github.com/vanderheijden86/neuralx/pkg/debug"
	"github.com/vanderheijden86/neuralx/pkg/metrics"
	"github.com/vanderheijden86/neuralx/pkg/scrollspy"
)

// readerModel is the reader's mutable state. Model holds it by pointer so the
// scroll listener and every copy of Model see the same tracker.
type readerModel struct {
	paper *content.Paper

	vp      viewport.Model
	spy     *scrollspy.Spy
	sub     *scrollspy.Subscription
	offsets map[string]int // first document row of each navigable id

	md      *glamour.TermRenderer
	mdStyle string
	mdWidth int

	// layout cache key
	builtFor string
}

func newReaderModel(p *content.Paper) *readerModel {
	return &readerModel{
		paper:   p,
		vp:      viewport.New(defaultWidth, defaultHeight),
		offsets: make(map[string]int),
	}
}

// invalidate forces the next resize to rebuild the document.
func (r *readerModel) invalidate() {
	r.builtFor = ""
}

// readerColumns splits width between the sidebar and the scrolling column.
// Narrow terminals get no sidebar.
func readerColumns(width int) (sidebar, main int) {
	if width >= sidebarWidth+50 {
		return sidebarWidth, width - sidebarWidth - 1
	}
	return 0, width
}

// resize fits the viewport to width x height and rebuilds the document when
// the layout inputs changed.
func (r *readerModel) resize(t Theme, wordWrap, width, height int) {
	_, mainW := readerColumns(width)
	r.vp.Width = mainW
	r.vp.Height = height

	textW := min(mainW-2, wordWrap)
	key := fmt.Sprintf("%s/%d", t.GlamourStyle(), textW)
	if key == r.builtFor {
		return
	}
	defer metrics.Timer(metrics.ReaderLayout)()

	doc, offsets := r.build(t, textW)
	y := r.vp.YOffset
	r.vp.SetContent(doc)
	r.vp.SetYOffset(y)
	r.offsets = offsets
	r.builtFor = key
	debug.Log("reader: layout %s, %d rows", key, lineCount(doc))
}

// build renders the document and records where each navigable block starts.
func (r *readerModel) build(t Theme, width int) (string, map[string]int) {
	p := r.paper
	rend := t.Renderer
	offsets := make(map[string]int, len(p.Sections)+1)

	var blocks []string
	rows := 0
	add := func(s string) {
		blocks = append(blocks, s)
		rows += lineCount(s)
	}

	add(r.intro(t, width))
	add("")

	offsets[content.AbstractID] = rows
	abstract := lipgloss.JoinVertical(lipgloss.Left,
		t.Label.Render("RESUMEN"),
		"",
		wrap(rend, p.Abstract, width-4),
	)
	add(t.Panel.Render(abstract))

	for _, s := range p.Sections {
		add("")
		offsets[s.ID] = rows
		add(t.Title.Render(truncate(s.Title, width)))
		add(r.markdown(t, s.Body, width))
		if s.Figure != nil {
			add("")
			add(renderFigure(t, *s.Figure, width))
		}
	}

	add("")
	add(t.rule(width))
	add(t.Label.Render("REFERENCIAS"))
	add("")
	for i, ref := range p.References {
		lead := t.Title.Render(fmt.Sprintf("[%d] %s,", i+1, ref.Authors))
		rest := fmt.Sprintf("%q, %s, %d.", ref.Title, ref.Venue, ref.Year)
		add(t.SidebarRail.Render("│ ") + wrap(rend, lead+" "+t.Subtitle.Render(rest), width-2))
	}
	add("")

	return strings.Join(blocks, "\n"), offsets
}

// intro is the block above the abstract: tags, title and byline.
func (r *readerModel) intro(t Theme, width int) string {
	p := r.paper

	var tags []string
	for i, tag := range p.Tags {
		style := t.Chip
		if i == len(p.Tags)-1 {
			style = t.ChipAccent
		}
		tags = append(tags, style.Render(tag))
	}

	var byline []string
	for _, a := range p.Authors {
		byline = append(byline, t.Avatar.Render(content.Initials(a))+" "+t.Base.Bold(true).Render(a))
	}
	meta := t.MutedText.Render(p.Affiliation + "  " + IconBullet + "  Publicado " + p.PublicationDate)

	return lipgloss.JoinVertical(lipgloss.Left,
		wrap(t.Renderer, strings.Join(tags, " "), width),
		"",
		t.Title.Width(width).Render(p.Title),
		"",
		wrap(t.Renderer, strings.Join(byline, "   "), width),
		meta,
		"",
		t.rule(width),
	)
}

// markdown renders a section body with glamour, falling back to plain text.
func (r *readerModel) markdown(t Theme, body string, width int) string {
	style := t.GlamourStyle()
	if r.md == nil || r.mdStyle != style || r.mdWidth != width {
		md, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			debug.Log("reader: glamour: %v", err)
			r.md = nil
		} else {
			r.md, r.mdStyle, r.mdWidth = md, style, width
		}
	}
	if r.md != nil {
		if out, err := r.md.Render(body); err == nil {
			return strings.Trim(out, "\n")
		}
	}
	return wrap(t.Renderer, content.PlainText(body), width)
}

// renderFigure draws the methodology pipeline: three stages with the latent
// space highlighted, then the caption.
func renderFigure(t Theme, f content.Figure, width int) string {
	boxes := make([]string, len(f.Stages))
	for i, s := range f.Stages {
		style := t.Panel
		if i == len(f.Stages)/2 {
			style = t.PanelPrimary.Foreground(t.Primary).Bold(true)
		}
		boxes[i] = style.Render(s)
	}

	var parts []string
	for i, b := range boxes {
		if i > 0 {
			parts = append(parts, t.MutedText.Render(" "+IconForward+" "))
		}
		parts = append(parts, b)
	}
	diagram := lipgloss.JoinHorizontal(lipgloss.Center, parts...)
	if lipgloss.Width(diagram) > width {
		var stacked []string
		for i, b := range boxes {
			if i > 0 {
				stacked = append(stacked, t.MutedText.Render("  ↓"))
			}
			stacked = append(stacked, b)
		}
		diagram = lipgloss.JoinVertical(lipgloss.Left, stacked...)
	}

	caption := t.Emphasis.Render(strings.ToUpper(f.Label))
	if lipgloss.Width(caption)+2+lipgloss.Width(f.Caption) <= width {
		caption += "  " + t.MutedText.Render(f.Caption)
	} else {
		caption += "\n" + t.MutedText.Render(f.Caption)
	}
	return lipgloss.JoinVertical(lipgloss.Left, diagram, caption)
}

// step moves the active section by delta and scrolls to it.
func (r *readerModel) step(delta int) {
	if r.spy == nil {
		return
	}
	ids := r.spy.IDs()
	r.jump(clamp(r.spy.Index()+delta, 0, len(ids)-1))
}

// jump makes the idx-th section active and scrolls it to the top, as a
// table-of-contents link does. Out-of-range indexes are ignored.
func (r *readerModel) jump(idx int) {
	if r.spy == nil {
		return
	}
	ids := r.spy.IDs()
	if idx < 0 || idx >= len(ids) {
		return
	}
	id := ids[idx]
	r.spy.SetActive(id)
	r.vp.SetYOffset(r.offsets[id])
}

// readerView renders the reader screen.
func (m Model) readerView() string {
	defer metrics.Timer(metrics.RenderReader)()
	t := m.theme
	r := m.reader

	left := t.KeyHint.Render(IconBack+" [esc]") + t.SidebarRail.Render("  │  ") +
		t.Title.Render(truncate(m.paper.Title, max(10, m.width-40)))
	right := t.keyHint("p", IconDownload+" Descargar PDF")
	header, _, _ := strings.Cut(m.headerBar(left, right), "\n")

	body := r.vp.View()
	if sw, _ := readerColumns(m.width); sw > 0 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.sidebarView(sw, r.vp.Height), " ", body)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		progressBar(t, r.vp.ScrollPercent(), m.width),
		body,
	)
}

// sidebarView is the table of contents with the active-section marker, the
// related paper card and the cite/share actions.
func (m Model) sidebarView(width, height int) string {
	t := m.theme
	active := m.ActiveSection()

	lines := []string{
		t.Title.Render("Contenido"),
		t.MutedText.Render("Ir a la sección"),
		"",
	}
	for i, id := range m.paper.SectionIDs() {
		label := truncate(fmt.Sprintf("%d %s", i+1, m.paper.NavTitle(id)), width-3)
		if id == active {
			lines = append(lines, t.SidebarMarker.Render("┃")+t.SidebarActive.Render(label))
		} else {
			lines = append(lines, t.SidebarRail.Render("│")+t.SidebarItem.Render(label))
		}
	}

	card := t.PanelPrimary.Width(width - 2).Render(lipgloss.JoinVertical(lipgloss.Left,
		t.Base.Bold(true).Render("Paper relacionado disponible"),
		t.MutedText.Render(wrap(t.Renderer, fmt.Sprintf("%q", m.paper.RelatedPaper), width-6)),
		t.Emphasis.Render("Leer ahora "+IconForward),
	))

	lines = append(lines,
		"",
		card,
		"",
		t.keyHint("c", IconQuote+" Citar este artículo"),
		t.keyHint("s", IconShare+" Compartir"),
	)

	out := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return t.Renderer.NewStyle().Width(width).MaxHeight(height).Render(out)
}

// progressBar is the reading progress line under the header.
func progressBar(t Theme, pct float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := clamp(int(math.Round(pct*float64(width))), 0, width)
	return t.ChartInk.Render(strings.Repeat("━", filled)) +
		t.ChartFaint.Render(strings.Repeat("─", width-filled))
}
