package scrollspy

// Event is a scroll notification: the viewport's new vertical offset.
type Event struct {
	Offset int
}

// Bus fans scroll events out to the listeners currently subscribed. It plays
// the role of the window a browser page registers scroll handlers on.
type Bus struct {
	nextID    int
	listeners map[int]func(Event)
	order     []int
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{listeners: make(map[int]func(Event))}
}

// Subscribe registers fn and returns the subscription that owns it.
func (b *Bus) Subscribe(fn func(Event)) *Subscription {
	b.nextID++
	id := b.nextID
	b.listeners[id] = fn
	b.order = append(b.order, id)
	return &Subscription{bus: b, id: id}
}

// Publish delivers e to every listener in subscription order.
func (b *Bus) Publish(e Event) {
	// Copy so a listener releasing itself does not disturb the iteration.
	ids := append([]int(nil), b.order...)
	for _, id := range ids {
		if fn, ok := b.listeners[id]; ok {
			fn(e)
		}
	}
}

// Listeners returns the number of live subscriptions.
func (b *Bus) Listeners() int {
	return len(b.listeners)
}

func (b *Bus) remove(id int) {
	if _, ok := b.listeners[id]; !ok {
		return
	}
	delete(b.listeners, id)
	for i, v := range b.order {
		if v == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// Subscription is a registered scroll listener. Release detaches it; after
// that the listener is never called again.
type Subscription struct {
	bus      *Bus
	id       int
	released bool
}

// Release detaches the listener. Calling it more than once is a no-op.
func (s *Subscription) Release() {
	if s == nil || s.released {
		return
	}
	s.released = true
	s.bus.remove(s.id)
}

// Active reports whether the subscription still receives events.
func (s *Subscription) Active() bool {
	return s != nil && !s.released
}
