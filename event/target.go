package event

// Target is anything an event can be dispatched at or propagate through.
// Implementations embed EventTarget for the listener registry and supply
// their own legacy handler slots.
type Target interface {
	AddEventListener(typ Type, cb *EventListener, capture bool)
	RemoveEventListener(typ Type, cb *EventListener, capture bool)
	Listeners() []Listener
	eventTarget() *EventTarget

	// EventHandler returns the callback stored in s, or nil when the slot is
	// empty or not supported by the target.
	EventHandler(s Slot) Callback
}

// HandlerSetter is implemented by targets whose handler slots can be
// assigned by enumeration, as script bindings need.
type HandlerSetter interface {
	SetEventHandler(s Slot, cb Callback) bool
}

// https://dom.spec.whatwg.org/#interface-eventtarget
type EventTarget struct {
	listeners ListenerList
}

func (t *EventTarget) eventTarget() *EventTarget { return t }

// AddEventListener appends a listener. Registering a triple that is
// already present does nothing.
func (t *EventTarget) AddEventListener(typ Type, cb *EventListener, capture bool) {
	if cb == nil || cb.Callback == nil {
		return
	}
	if t.listeners.Contains(typ, cb, capture) != -1 {
		log.WithField("type", typ).Debug("listener already registered")
		return
	}
	t.listeners = append(t.listeners, &Listener{Type: typ, Callback: cb, Capture: capture})
	log.WithField("type", typ).WithField("capture", capture).Debug("added event listener")
}

// RemoveEventListener removes the first listener matching the triple.
func (t *EventTarget) RemoveEventListener(typ Type, cb *EventListener, capture bool) {
	l := t.listeners.Remove(t.listeners.Contains(typ, cb, capture))
	if l == nil {
		return
	}
	// a pass that already snapshotted the registry must not call it
	l.removed = true
	log.WithField("type", typ).WithField("capture", capture).Debug("removed event listener")
}

// Listeners returns a copy of the registry.
func (t *EventTarget) Listeners() []Listener {
	out := make([]Listener, 0, len(t.listeners))
	for _, l := range t.listeners {
		out = append(out, Listener{Type: l.Type, Callback: l.Callback, Capture: l.Capture})
	}
	return out
}

// Handlers is an embeddable record holding all seven handler slots, for
// targets that accept every event type.
type Handlers struct {
	OnAbort         Callback
	OnBlocked       Callback
	OnComplete      Callback
	OnError         Callback
	OnSuccess       Callback
	OnUpgradeNeeded Callback
	OnVersionChange Callback
}

func (h *Handlers) slot(s Slot) *Callback {
	switch s {
	case OnAbort:
		return &h.OnAbort
	case OnBlocked:
		return &h.OnBlocked
	case OnComplete:
		return &h.OnComplete
	case OnError:
		return &h.OnError
	case OnSuccess:
		return &h.OnSuccess
	case OnUpgradeNeeded:
		return &h.OnUpgradeNeeded
	case OnVersionChange:
		return &h.OnVersionChange
	}
	return nil
}

func (h *Handlers) EventHandler(s Slot) Callback {
	if p := h.slot(s); p != nil {
		return *p
	}
	return nil
}

func (h *Handlers) SetEventHandler(s Slot, cb Callback) bool {
	p := h.slot(s)
	if p == nil {
		return false
	}
	*p = cb
	return true
}

// Object is a target with every handler slot, useful for plain hierarchies
// and tests.
type Object struct {
	EventTarget
	Handlers
}

func (o *Object) DispatchEvent(e *Event) (bool, error) {
	return Dispatch(o, e)
}
