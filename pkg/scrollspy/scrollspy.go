// Package scrollspy derives which document section is "current" from a
// scroll position, and models the scroll listener that feeds it as an
// explicit subscription with an acquire/release lifecycle.
//
// Everything here runs on the UI goroutine; none of the types are safe for
// concurrent use.
package scrollspy

// DefaultWindow is the proximity window in terminal rows: a section is a
// candidate when its heading sits between the top of the viewport and this
// many rows below it.
const DefaultWindow = 12

// Pick scans ids in order and returns the first whose top row, relative to
// the viewport top, lies in [0, window]. Ids missing from tops are skipped.
func Pick(ids []string, tops map[string]int, window int) (string, bool) {
	for _, id := range ids {
		top, ok := tops[id]
		if !ok {
			continue
		}
		if top >= 0 && top <= window {
			return id, true
		}
	}
	return "", false
}

// Spy tracks the active section of one document.
type Spy struct {
	ids    []string
	known  map[string]bool
	window int
	active string
}

// New creates a Spy over ids in document order. The first id is active
// initially. A non-positive window selects DefaultWindow.
func New(ids []string, window int) *Spy {
	s := &Spy{
		ids:   append([]string(nil), ids...),
		known: make(map[string]bool, len(ids)),
	}
	for _, id := range ids {
		s.known[id] = true
	}
	if len(ids) > 0 {
		s.active = ids[0]
	}
	s.SetWindow(window)
	return s
}

// Active returns the current section id.
func (s *Spy) Active() string {
	return s.active
}

// Window returns the proximity window in rows.
func (s *Spy) Window() int {
	return s.window
}

// SetWindow changes the proximity window. A non-positive value selects
// DefaultWindow.
func (s *Spy) SetWindow(rows int) {
	if rows <= 0 {
		rows = DefaultWindow
	}
	s.window = rows
}

// SetActive makes id the active section directly, as a table-of-contents
// click does. Unknown ids are ignored and reported as false.
func (s *Spy) SetActive(id string) bool {
	if !s.known[id] {
		return false
	}
	s.active = id
	return true
}

// Observe recomputes the active section for a viewport scrolled to yOffset.
// offsets maps section ids to their absolute first row in the document. When
// no section qualifies the previous value is kept.
func (s *Spy) Observe(offsets map[string]int, yOffset int) string {
	tops := make(map[string]int, len(offsets))
	for id, row := range offsets {
		tops[id] = row - yOffset
	}
	if id, ok := Pick(s.ids, tops, s.window); ok {
		s.active = id
	}
	return s.active
}

// Index returns the position of the active id in document order.
func (s *Spy) Index() int {
	for i, id := range s.ids {
		if id == s.active {
			return i
		}
	}
	return 0
}

// IDs returns a copy of the ordered ids.
func (s *Spy) IDs() []string {
	return append([]string(nil), s.ids...)
}
