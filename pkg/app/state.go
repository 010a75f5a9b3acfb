// Package app holds the application state shared by every view: which view
// is showing and whether the dark theme is active.
//
// State is a small value type. Every operation returns a new State instead of
// mutating the receiver, so the router can treat transitions as pure
// functions and tests can compare states directly.
package app

// View identifies one of the three top-level screens. The representation is
// unexported, so only the values declared here exist; the zero View is not a
// screen and renders nothing.
type View struct {
	id uint8
}

var (
	Landing   = View{id: 1}
	Reader    = View{id: 2}
	Dashboard = View{id: 3}
)

// Views lists every valid view in navigation order.
func Views() []View {
	return []View{Landing, Reader, Dashboard}
}

// Valid reports whether v is one of the declared views.
func (v View) Valid() bool {
	return v == Landing || v == Reader || v == Dashboard
}

func (v View) String() string {
	switch v {
	case Landing:
		return "landing"
	case Reader:
		return "reader"
	case Dashboard:
		return "dashboard"
	default:
		return "none"
	}
}

// State is the application's mutable state.
type State struct {
	View View
	Dark bool
}

// NewState returns the state the program starts in: the landing view with
// the given theme.
func NewState(dark bool) State {
	return State{View: Landing, Dark: dark}
}

// Navigate switches to v. Callers only pass declared views, so no validation
// happens here.
func (s State) Navigate(v View) State {
	s.View = v
	return s
}

// Back returns to the landing view.
func (s State) Back() State {
	return s.Navigate(Landing)
}

// ToggleTheme flips between dark and light.
func (s State) ToggleTheme() State {
	s.Dark = !s.Dark
	return s
}

// ThemeName is the presentation attribute mirrored from the theme flag.
func (s State) ThemeName() string {
	if s.Dark {
		return "dark"
	}
	return "light"
}
