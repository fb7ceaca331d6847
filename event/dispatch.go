package event

import "github.com/pkg/errors"

// Dispatch delivers e to target and the objects on e.EventPath. It returns
// false when a listener canceled the event.
//
// https://dom.spec.whatwg.org/#concept-event-dispatch
func Dispatch(target Target, e *Event) (bool, error) {
	if e.Dispatched || !e.Initialized {
		log.WithField("type", e.Type).Debug("rejected dispatch of event in invalid state")
		return false, ErrInvalidState
	}
	e.IsTrusted = false

	e.Dispatched = true
	e.Target = target
	defer func() {
		e.Dispatched = false
		e.EventPhase = None
		e.CurrentTarget = nil
	}()

	log.WithField("type", e.Type).WithField("path", len(e.EventPath)).Debug("dispatching event")

	e.EventPhase = CapturingPhase
	for _, obj := range e.EventPath {
		if e.PropagationStopped {
			continue
		}
		if err := invokeEventListeners(e, obj); err != nil {
			return false, err
		}
	}

	e.EventPhase = AtTarget
	if !e.PropagationStopped {
		if err := invokeEventListeners(e, e.Target); err != nil {
			return false, err
		}
	}

	if e.Bubbles {
		reverse(e.EventPath)
		e.EventPhase = BubblingPhase
		for _, obj := range e.EventPath {
			if e.PropagationStopped {
				continue
			}
			if err := invokeEventListeners(e, obj); err != nil {
				return false, err
			}
		}
	}

	return !e.Canceled, nil
}

// https://dom.spec.whatwg.org/#concept-event-listener-invoke
func invokeEventListeners(e *Event, obj Target) error {
	e.CurrentTarget = obj

	listeners := obj.eventTarget().listeners.clone()
	log.WithField("type", e.Type).WithField("phase", e.EventPhase).WithField("listeners", len(listeners)).Debug("invoking listeners")
	for _, l := range listeners {
		if l.removed || l.Type != e.Type || l.stopped(e) {
			continue
		}
		if err := l.Callback.Callback(e.CurrentTarget, e); err != nil {
			return err
		}
	}

	slot, ok := SlotFor(e.Type)
	if !ok {
		return errors.Wrapf(ErrUnknownEventType, "%q", e.Type)
	}

	cb := obj.EventHandler(slot)
	if cb == nil {
		return nil
	}
	// handlers behave as non-capturing listeners registered last
	l := Listener{Type: e.Type, Callback: &EventListener{Callback: cb}}
	if l.stopped(e) {
		return nil
	}
	return l.Callback.Callback(e.CurrentTarget, e)
}

func reverse(path []Target) {
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
}
