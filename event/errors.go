package event

import "github.com/pkg/errors"

// https://webidl.spec.whatwg.org/#idl-DOMException
type DOMException struct {
	Name    string
	Message string
}

func (e *DOMException) Error() string {
	return e.Name + ": " + e.Message
}

var (
	// ErrInvalidState is returned when an event is dispatched while already
	// being dispatched, or before it was initialized.
	ErrInvalidState = &DOMException{Name: "InvalidStateError", Message: "The object is in an invalid state."}

	// ErrUnknownEventType means an event outside the fixed enumeration reached
	// a listener pass. It is a caller bug, not a runtime condition.
	ErrUnknownEventType = errors.New("unknown event type")
)

// IsInvalidState reports whether err is, or wraps, ErrInvalidState.
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidState)
}
