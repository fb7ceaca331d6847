package event

// Callback is an event listener body. this is the current target.
type Callback func(this Target, e *Event) error

// EventListener gives a Callback the identity that removal compares by,
// since Go func values are not comparable.
type EventListener struct {
	Callback Callback
}

func NewEventListener(cb Callback) *EventListener {
	return &EventListener{Callback: cb}
}

// https://dom.spec.whatwg.org/#concept-event-listener
type Listener struct {
	Type     Type
	Callback *EventListener
	Capture  bool

	removed bool
}

func (l *Listener) matches(t Type, cb *EventListener, capture bool) bool {
	return l.Type == t && l.Callback == cb && l.Capture == capture
}

// stopped reports whether l must be skipped in the current state of e.
func (l *Listener) stopped(e *Event) bool {
	return e.ImmediatePropagationStopped ||
		(e.EventPhase == CapturingPhase && !l.Capture) ||
		(e.EventPhase == BubblingPhase && l.Capture)
}

// ListenerList is a target's registry in insertion order.
type ListenerList []*Listener

// Contains returns the index of the first listener matching the triple, or -1.
func (h *ListenerList) Contains(t Type, cb *EventListener, capture bool) int {
	for i := range *h {
		if (*h)[i].matches(t, cb, capture) {
			return i
		}
	}
	return -1
}

// Remove drops the listener at i. Out of range indexes, including -1, remove
// nothing.
func (h *ListenerList) Remove(i int) *Listener {
	if i < 0 {
		return nil
	}
	if i >= len(*h) {
		return nil
	}
	l := (*h)[i]
	*h = append((*h)[:i], (*h)[i+1:]...)
	return l
}

func (h ListenerList) clone() ListenerList {
	c := make(ListenerList, len(h))
	copy(c, h)
	return c
}
