package idb

import (
	"github.com/heathj/idbevent/event"
	"github.com/pkg/errors"
)

// Mode is a transaction mode.
type Mode string

const (
	ModeReadOnly      Mode = "readonly"
	ModeReadWrite     Mode = "readwrite"
	ModeVersionChange Mode = "versionchange"
)

// ErrTransactionFinished is returned when completing or aborting a
// transaction twice.
var ErrTransactionFinished = errors.New("transaction has already finished")

// https://w3c.github.io/IndexedDB/#transaction
type Transaction struct {
	event.EventTarget

	DB    *Database
	Mode  Mode
	Error error

	OnAbort    event.Callback
	OnComplete event.Callback
	OnError    event.Callback

	finished bool
}

func (tx *Transaction) slot(s event.Slot) *event.Callback {
	switch s {
	case event.OnAbort:
		return &tx.OnAbort
	case event.OnComplete:
		return &tx.OnComplete
	case event.OnError:
		return &tx.OnError
	}
	return nil
}

func (tx *Transaction) EventHandler(s event.Slot) event.Callback { return getSlot(tx.slot(s)) }

func (tx *Transaction) SetEventHandler(s event.Slot, cb event.Callback) bool {
	return setSlot(tx.slot(s), cb)
}

func (tx *Transaction) DispatchEvent(e *event.Event) (bool, error) {
	return event.Dispatch(tx, e)
}

// Finished reports whether the transaction completed or aborted.
func (tx *Transaction) Finished() bool { return tx.finished }

// Request creates a request that fires its events through tx and its
// database.
func (tx *Transaction) Request() *Request {
	return &Request{Transaction: tx, ReadyState: Pending}
}

func (tx *Transaction) path() []event.Target {
	if tx.DB == nil {
		return nil
	}
	return []event.Target{tx.DB}
}

// FireComplete finishes tx successfully.
func (tx *Transaction) FireComplete() (bool, error) {
	if tx.finished {
		return false, errors.Wrap(ErrTransactionFinished, "complete")
	}
	tx.finished = true

	e := event.New(event.Complete, event.Init{})
	e.EventPath = tx.path()
	event.Logger().WithField("mode", tx.Mode).Debug("firing transaction complete")
	return tx.DispatchEvent(e)
}

// FireAbort finishes tx with err. The abort event bubbles to the database.
func (tx *Transaction) FireAbort(err error) (bool, error) {
	if tx.finished {
		return false, errors.Wrap(ErrTransactionFinished, "abort")
	}
	tx.finished = true
	tx.Error = err

	e := event.New(event.Abort, event.Init{Bubbles: true})
	e.EventPath = tx.path()
	event.Logger().WithField("mode", tx.Mode).WithError(err).Debug("firing transaction abort")
	return tx.DispatchEvent(e)
}
