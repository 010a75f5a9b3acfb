package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"

	"github.com/vanderheijden86/neuralx/pkg/app"
)

type keyMap struct {
	Reader    key.Binding
	Dashboard key.Binding
	Back      key.Binding
	Theme     key.Binding
	Quit      key.Binding
	Help      key.Binding

	NextSection key.Binding
	PrevSection key.Binding
	JumpSection key.Binding
	Scroll      key.Binding
	Cite        key.Binding
	Share       key.Binding
	Download    key.Binding

	Export key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Reader:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "leer paper")),
		Dashboard: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "dashboard")),
		Back:      key.NewBinding(key.WithKeys("esc", "backspace", "b"), key.WithHelp("esc/b", "volver")),
		Theme:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "tema")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "salir")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "ayuda")),

		NextSection: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "sección siguiente")),
		PrevSection: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "sección anterior")),
		JumpSection: key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-6", "ir a la sección")),
		Scroll:      key.NewBinding(key.WithKeys("up", "down", "pgup", "pgdown"), key.WithHelp("↑/↓", "desplazar")),
		Cite:        key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "citar")),
		Share:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "compartir")),
		Download:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "PDF")),

		Export: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "exportar datos")),
	}
}

// viewKeys adapts keyMap to help.KeyMap for one view.
type viewKeys struct {
	km   keyMap
	view app.View
}

var _ help.KeyMap = viewKeys{}

func (v viewKeys) ShortHelp() []key.Binding {
	switch v.view {
	case app.Landing:
		return []key.Binding{v.km.Reader, v.km.Dashboard, v.km.Theme, v.km.Help, v.km.Quit}
	case app.Reader:
		return []key.Binding{v.km.Back, v.km.NextSection, v.km.Cite, v.km.Share, v.km.Help, v.km.Quit}
	case app.Dashboard:
		return []key.Binding{v.km.Back, v.km.Export, v.km.Theme, v.km.Help, v.km.Quit}
	default:
		return nil
	}
}

func (v viewKeys) FullHelp() [][]key.Binding {
	general := []key.Binding{v.km.Theme, v.km.Help, v.km.Quit}
	switch v.view {
	case app.Landing:
		return [][]key.Binding{{v.km.Reader, v.km.Dashboard, v.km.Download, v.km.Scroll}, general}
	case app.Reader:
		return [][]key.Binding{
			{v.km.Back, v.km.Scroll, v.km.Download},
			{v.km.NextSection, v.km.PrevSection, v.km.JumpSection},
			{v.km.Cite, v.km.Share},
			general,
		}
	case app.Dashboard:
		return [][]key.Binding{{v.km.Back, v.km.Export, v.km.Scroll}, general}
	default:
		return nil
	}
}
