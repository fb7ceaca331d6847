package event

import (
	"fmt"

	"github.com/heathj/idbevent/webidl"
)

// Init carries the optional members of an event constructor.
type Init struct {
	Bubbles    bool
	Cancelable bool
	Detail     interface{}
}

// https://dom.spec.whatwg.org/#interface-event
//
// The dispatcher owns Target, CurrentTarget, EventPhase, Dispatched and
// IsTrusted. EventPath is filled by whoever fires the event, outermost
// ancestor first, and is left in bubbling order once a bubbling dispatch
// finishes.
type Event struct {
	Type          Type
	Target        Target
	CurrentTarget Target
	EventPhase    Phase
	EventPath     []Target

	Bubbles    bool
	Cancelable bool
	Canceled   bool

	PropagationStopped          bool
	ImmediatePropagationStopped bool

	Dispatched  bool
	Initialized bool
	IsTrusted   bool
	TimeStamp   webidl.DOMHighResTimeStamp

	// Detail is the payload of derived event kinds, for example a version
	// change.
	Detail interface{}
}

// New returns an initialized event ready for dispatch.
func New(t Type, init Init) *Event {
	return &Event{
		Type:        t,
		Bubbles:     init.Bubbles,
		Cancelable:  init.Cancelable,
		Detail:      init.Detail,
		Initialized: true,
		TimeStamp:   webidl.Now(),
	}
}

// PreventDefault is the cancel action. It has no effect on events that are
// not cancelable.
func (e *Event) PreventDefault() {
	if e.Cancelable {
		e.Canceled = true
	}
}

func (e *Event) StopPropagation() {
	e.PropagationStopped = true
}

func (e *Event) StopImmediatePropagation() {
	e.PropagationStopped = true
	e.ImmediatePropagationStopped = true
}

func (e *Event) String() string {
	return fmt.Sprintf("[Event type=%s phase=%s bubbles=%t]", e.Type, e.EventPhase, e.Bubbles)
}
