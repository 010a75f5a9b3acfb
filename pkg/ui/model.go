package ui

import (
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/neuralx/internal/content"
	"github.com/vanderheijden86/neuralx/pkg/app"
	"github.com/vanderheijden86/neuralx/pkg/config"
	"github.com/vanderheijden86/neuralx/pkg/debug"
	"github.com/vanderheijden86/neuralx/pkg/scrollspy"
	"github.com/vanderheijden86/neuralx/pkg/watcher"
)

// statusTTL is how long a transient status line stays up.
const statusTTL = 3 * time.Second

// ConfigReloadedMsg carries the configuration re-read after the config file
// changed on disk.
type ConfigReloadedMsg struct {
	Config config.Config
	Err    error
}

// clipboardMsg reports the outcome of a copy action.
type clipboardMsg struct {
	what string
	err  error
}

// clearStatusMsg drops the status line if it is still the one with seq.
type clearStatusMsg struct {
	seq int
}

// WatchConfigCmd waits for the next change of the watched config file and
// reloads it.
func WatchConfigCmd(w *watcher.Watcher, reload func() (config.Config, error)) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		cfg, err := reload()
		return ConfigReloadedMsg{Config: cfg, Err: err}
	}
}

// Option configures a Model.
type Option func(*Model)

// WithConfig sets the configuration the model starts from. The theme flag is
// taken from cfg unless WithDark is also given.
func WithConfig(cfg config.Config) Option {
	return func(m *Model) {
		m.cfg = cfg
		m.state = app.NewState(cfg.DarkMode())
	}
}

// WithDark forces the initial theme.
func WithDark(dark bool) Option {
	return func(m *Model) {
		m.darkOverride = &dark
	}
}

// WithRenderer renders on r instead of the default lipgloss renderer.
func WithRenderer(r *lipgloss.Renderer) Option {
	return func(m *Model) {
		m.renderer = r
	}
}

// WithClipboard replaces the system clipboard writer.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) {
		m.copyText = write
	}
}

// WithConfigWatcher makes the model follow config changes reported by w.
// reload re-reads the configuration.
func WithConfigWatcher(w *watcher.Watcher, reload func() (config.Config, error)) Option {
	return func(m *Model) {
		m.cfgWatcher = w
		m.reloadConfig = reload
	}
}

// Model is the root Bubble Tea model. It routes between the landing, reader
// and dashboard views according to app.State.
type Model struct {
	paper *content.Paper
	state app.State
	cfg   config.Config

	renderer     *lipgloss.Renderer
	theme        Theme
	darkOverride *bool

	keys     keyMap
	help     help.Model
	showHelp bool

	width  int
	height int

	// page scrolls the landing and dashboard bodies.
	page viewport.Model

	// bus carries reader scroll events to the active-section tracker.
	bus    *scrollspy.Bus
	reader *readerModel

	status      string
	statusIsErr bool
	statusSeq   int

	copyText     func(string) error
	cfgWatcher   *watcher.Watcher
	reloadConfig func() (config.Config, error)
}

// NewModel builds the root model for p. It starts on the landing view.
func NewModel(p *content.Paper, opts ...Option) Model {
	m := Model{
		paper:    p,
		cfg:      config.DefaultConfig(),
		state:    app.NewState(true),
		keys:     defaultKeyMap(),
		help:     help.New(),
		width:    defaultWidth,
		height:   defaultHeight,
		bus:      scrollspy.NewBus(),
		copyText: clipboard.WriteAll,
	}
	for _, opt := range opts {
		opt(&m)
	}
	if m.darkOverride != nil {
		m.state.Dark = *m.darkOverride
	}
	if m.renderer == nil {
		m.renderer = lipgloss.DefaultRenderer()
	}

	m.reader = newReaderModel(p)
	m.applyTheme()
	m.page = viewport.New(m.width, m.bodyHeight())
	m.layout()
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.SetWindowTitle(m.paper.Project + " · " + m.paper.Title)}
	if m.cfgWatcher != nil && m.reloadConfig != nil {
		cmds = append(cmds, WatchConfigCmd(m.cfgWatcher, m.reloadConfig))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		cmd := m.scroll(msg)
		return m, cmd

	case clipboardMsg:
		if msg.err != nil {
			debug.Log("clipboard: %v", msg.err)
			cmd := m.setStatus("No se pudo copiar "+msg.what+": "+msg.err.Error(), true)
			return m, cmd
		}
		cmd := m.setStatus(capitalize(msg.what)+" copiada al portapapeles", false)
		return m, cmd

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
			m.statusIsErr = false
			m.layout()
		}
		return m, nil

	case ConfigReloadedMsg:
		if msg.Err != nil {
			debug.Log("config reload: %v", msg.Err)
			cmds = append(cmds, m.setStatus("Configuración inválida: "+msg.Err.Error(), true))
		} else {
			m.applyConfig(msg.Config)
			cmds = append(cmds, m.setStatus("Configuración recargada", false))
		}
		if m.cfgWatcher != nil && m.reloadConfig != nil {
			cmds = append(cmds, WatchConfigCmd(m.cfgWatcher, m.reloadConfig))
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.leaveReader()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.layout()
		return m, nil
	case key.Matches(msg, m.keys.Theme):
		m.setState(m.state.ToggleTheme())
		return m, nil
	}

	switch m.state.View {
	case app.Landing:
		switch {
		case key.Matches(msg, m.keys.Reader):
			m.setState(m.state.Navigate(app.Reader))
			return m, nil
		case key.Matches(msg, m.keys.Dashboard):
			m.setState(m.state.Navigate(app.Dashboard))
			return m, nil
		case key.Matches(msg, m.keys.Download):
			cmd := m.setStatus(pdfHint, false)
			return m, cmd
		}

	case app.Reader:
		switch {
		case key.Matches(msg, m.keys.Back):
			m.setState(m.state.Back())
			return m, nil
		case key.Matches(msg, m.keys.NextSection):
			m.reader.step(1)
			return m, nil
		case key.Matches(msg, m.keys.PrevSection):
			m.reader.step(-1)
			return m, nil
		case key.Matches(msg, m.keys.JumpSection):
			m.reader.jump(int(msg.Runes[0] - '1'))
			return m, nil
		case key.Matches(msg, m.keys.Cite):
			text, err := m.paper.Cite(content.CiteAPA)
			if err != nil {
				cmd := m.setStatus(err.Error(), true)
				return m, cmd
			}
			return m, copyCmd(m.copyText, "cita", text)
		case key.Matches(msg, m.keys.Share):
			return m, copyCmd(m.copyText, "referencia", m.paper.ShareText())
		case key.Matches(msg, m.keys.Download):
			cmd := m.setStatus(pdfHint, false)
			return m, cmd
		}

	case app.Dashboard:
		switch {
		case key.Matches(msg, m.keys.Back):
			m.setState(m.state.Back())
			return m, nil
		case key.Matches(msg, m.keys.Export):
			cmd := m.setStatus(exportHint, false)
			return m, cmd
		}
	}

	cmd := m.scroll(msg)
	return m, cmd
}

// scroll forwards a key or mouse message to the active viewport. In the
// reader, an offset change is published on the scroll bus.
func (m *Model) scroll(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.state.View {
	case app.Reader:
		prev := m.reader.vp.YOffset
		m.reader.vp, cmd = m.reader.vp.Update(msg)
		if m.reader.vp.YOffset != prev {
			m.bus.Publish(scrollspy.Event{Offset: m.reader.vp.YOffset})
		}
	case app.Landing, app.Dashboard:
		m.page, cmd = m.page.Update(msg)
	}
	return cmd
}

// setState applies a state transition and its side effects: the reader's
// scroll subscription follows the view, and the renderer follows the theme.
func (m *Model) setState(next app.State) {
	prev := m.state
	m.state = next

	if prev.View != next.View {
		debug.Log("view: %s -> %s", prev.View, next.View)
		if prev.View == app.Reader {
			m.leaveReader()
		}
		if next.View == app.Reader {
			m.enterReader()
		}
		m.page.GotoTop()
	}
	if prev.Dark != next.Dark {
		debug.Log("theme: %s", next.ThemeName())
		m.applyTheme()
	}
	m.layout()
}

// enterReader starts the reader at the top with a fresh active section and
// acquires the scroll subscription.
func (m *Model) enterReader() {
	r := m.reader
	r.spy = scrollspy.New(m.paper.SectionIDs(), m.cfg.UI.ProximityWindow)
	r.vp.GotoTop()
	r.sub = m.bus.Subscribe(func(e scrollspy.Event) {
		r.spy.Observe(r.offsets, e.Offset)
	})
}

// leaveReader releases the scroll subscription. Safe to call when the
// reader is not mounted.
func (m *Model) leaveReader() {
	m.reader.sub.Release()
}

// applyTheme mirrors the theme flag into the renderer and rebuilds
// everything derived from it.
func (m *Model) applyTheme() {
	m.renderer.SetHasDarkBackground(m.state.Dark)
	m.theme = DefaultTheme(m.renderer)
	m.help.Styles.ShortKey = m.theme.KeyHint
	m.help.Styles.ShortDesc = m.theme.MutedText
	m.help.Styles.ShortSeparator = m.theme.MutedText
	m.help.Styles.FullKey = m.theme.KeyHint
	m.help.Styles.FullDesc = m.theme.MutedText
	m.help.Styles.FullSeparator = m.theme.MutedText
	m.reader.invalidate()
}

// applyConfig takes the settings that can change while running.
func (m *Model) applyConfig(cfg config.Config) {
	m.cfg.UI.ProximityWindow = cfg.UI.ProximityWindow
	m.cfg.UI.WordWrap = cfg.UI.WordWrap
	if m.reader.spy != nil {
		m.reader.spy.SetWindow(cfg.UI.ProximityWindow)
	}
	m.reader.invalidate()
	m.layout()
}

// layout sizes the viewports and refreshes their content.
func (m *Model) layout() {
	h := m.bodyHeight()
	m.page.Width = m.width
	m.page.Height = h

	switch m.state.View {
	case app.Landing:
		m.page.SetContent(m.landingContent())
	case app.Dashboard:
		m.page.SetContent(m.dashboardContent())
	case app.Reader:
		m.reader.resize(m.theme, m.cfg.UI.WordWrap, m.width, h)
	}
}

// bodyHeight is the height left for the scrolling body between the two
// header rows and the footer.
func (m Model) bodyHeight() int {
	return max(1, m.height-2-lineCount(m.footerView()))
}

// setStatus shows a transient status line.
func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.statusSeq++
	m.status = text
	m.statusIsErr = isErr
	m.layout()
	seq := m.statusSeq
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

func copyCmd(write func(string) error, what, text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{what: what, err: write(text)}
	}
}

// View renders exactly one of the three screens. A state outside the known
// views renders nothing.
func (m Model) View() string {
	var body string
	switch m.state.View {
	case app.Landing:
		body = m.landingView()
	case app.Reader:
		body = m.readerView()
	case app.Dashboard:
		body = m.dashboardView()
	default:
		return ""
	}
	return body + "\n" + m.footerView()
}

func (m Model) footerView() string {
	if m.status != "" {
		style := m.theme.StatusInfo
		if m.statusIsErr {
			style = m.theme.StatusError
		}
		return style.Render(truncate(m.status, m.width))
	}
	keys := viewKeys{km: m.keys, view: m.state.View}
	h := m.help
	h.Width = m.width
	if m.showHelp {
		return h.FullHelpView(keys.FullHelp())
	}
	return h.ShortHelpView(keys.ShortHelp())
}

// State returns the current application state.
func (m Model) State() app.State {
	return m.state
}

// ActiveSection returns the reader's active section id.
func (m Model) ActiveSection() string {
	if m.reader.spy == nil {
		return content.AbstractID
	}
	return m.reader.spy.Active()
}

// Close releases resources held by the model.
func (m Model) Close() {
	m.leaveReader()
}

const (
	pdfHint    = "Descargar PDF no está disponible en la terminal; usa `neuralx export markdown paper.md`"
	exportHint = "Exportar Datos: ejecuta `neuralx export all <directorio>` (svg, png, sqlite, markdown, json)"
)

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

// headerBar lays left and right out on one row of width cells with a rule
// beneath.
func (m Model) headerBar(left, right string) string {
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		right = ""
		gap = max(1, m.width-lipgloss.Width(left))
	}
	row := left + strings.Repeat(" ", gap) + right
	return row + "\n" + m.theme.rule(m.width)
}
