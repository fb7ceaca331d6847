package idb

import (
	"github.com/heathj/idbevent/event"
	"github.com/pkg/errors"
)

// ReadyState is the state of a request.
type ReadyState string

const (
	Pending ReadyState = "pending"
	Done    ReadyState = "done"
)

// https://w3c.github.io/IndexedDB/#request-api
type Request struct {
	event.EventTarget

	Transaction *Transaction
	ReadyState  ReadyState
	Result      interface{}
	Error       error

	OnSuccess event.Callback
	OnError   event.Callback
}

// NewRequest returns a pending request that is not attached to a
// transaction.
func NewRequest() *Request {
	return &Request{ReadyState: Pending}
}

func (r *Request) slot(s event.Slot) *event.Callback {
	switch s {
	case event.OnSuccess:
		return &r.OnSuccess
	case event.OnError:
		return &r.OnError
	}
	return nil
}

func (r *Request) EventHandler(s event.Slot) event.Callback { return getSlot(r.slot(s)) }

func (r *Request) SetEventHandler(s event.Slot, cb event.Callback) bool {
	return setSlot(r.slot(s), cb)
}

func (r *Request) DispatchEvent(e *event.Event) (bool, error) {
	return event.Dispatch(r, e)
}

// path lists the ancestors of a request, outermost first.
func (r *Request) path() []event.Target {
	tx := r.Transaction
	if tx == nil {
		return nil
	}
	if tx.DB == nil {
		return []event.Target{tx}
	}
	return []event.Target{tx.DB, tx}
}

// FireSuccess completes r with result.
func (r *Request) FireSuccess(result interface{}) (bool, error) {
	return r.succeed(r, result)
}

// FireError fails r with err. Unless a listener cancels the error event, the
// transaction r belongs to is aborted.
func (r *Request) FireError(err error) (bool, error) {
	return r.fail(r, err)
}

func (r *Request) succeed(self event.Target, result interface{}) (bool, error) {
	r.ReadyState = Done
	r.Result = result
	r.Error = nil

	e := event.New(event.Success, event.Init{})
	e.EventPath = r.path()
	ok, err := event.Dispatch(self, e)
	if err != nil {
		return false, r.abortOnListenerError(err)
	}
	return ok, nil
}

func (r *Request) fail(self event.Target, reqErr error) (bool, error) {
	r.ReadyState = Done
	r.Result = nil
	r.Error = reqErr

	e := event.New(event.Error, event.Init{Bubbles: true, Cancelable: true})
	e.EventPath = r.path()
	ok, err := event.Dispatch(self, e)
	if err != nil {
		return false, r.abortOnListenerError(err)
	}
	if ok && r.Transaction != nil && !r.Transaction.Finished() {
		if _, err := r.Transaction.FireAbort(reqErr); err != nil {
			return ok, errors.Wrap(err, "abort transaction")
		}
	}
	return ok, nil
}

// abortOnListenerError aborts the owning transaction when a listener failed
// and returns err unchanged.
func (r *Request) abortOnListenerError(err error) error {
	tx := r.Transaction
	if tx == nil || tx.Finished() || event.IsInvalidState(err) {
		return err
	}
	event.Logger().WithError(err).Debug("listener failed, aborting transaction")
	if _, abortErr := tx.FireAbort(err); abortErr != nil {
		event.Logger().WithError(abortErr).Debug("abort after listener failure")
	}
	return err
}

// https://w3c.github.io/IndexedDB/#idbopendbrequest
type OpenDBRequest struct {
	Request

	OnBlocked       event.Callback
	OnUpgradeNeeded event.Callback
}

func NewOpenDBRequest() *OpenDBRequest {
	return &OpenDBRequest{Request: Request{ReadyState: Pending}}
}

func (o *OpenDBRequest) EventHandler(s event.Slot) event.Callback {
	switch s {
	case event.OnBlocked:
		return o.OnBlocked
	case event.OnUpgradeNeeded:
		return o.OnUpgradeNeeded
	}
	return o.Request.EventHandler(s)
}

func (o *OpenDBRequest) SetEventHandler(s event.Slot, cb event.Callback) bool {
	switch s {
	case event.OnBlocked:
		o.OnBlocked = cb
		return true
	case event.OnUpgradeNeeded:
		o.OnUpgradeNeeded = cb
		return true
	}
	return o.Request.SetEventHandler(s, cb)
}

func (o *OpenDBRequest) DispatchEvent(e *event.Event) (bool, error) {
	return event.Dispatch(o, e)
}

// FireSuccess completes the open with the connection db.
func (o *OpenDBRequest) FireSuccess(db *Database) (bool, error) {
	o.Transaction = nil
	return o.succeed(o, db)
}

func (o *OpenDBRequest) FireError(err error) (bool, error) {
	return o.fail(o, err)
}

// FireBlocked reports that other connections did not close after receiving
// versionchange.
func (o *OpenDBRequest) FireBlocked(oldVersion, newVersion uint64) (bool, error) {
	return o.DispatchEvent(newVersionChangeEvent(event.Blocked, oldVersion, newVersion))
}

// FireUpgradeNeeded hands db and its versionchange transaction tx to the
// open request's listeners.
func (o *OpenDBRequest) FireUpgradeNeeded(db *Database, oldVersion uint64, tx *Transaction) (bool, error) {
	o.ReadyState = Done
	o.Result = db
	o.Transaction = tx

	ok, err := o.DispatchEvent(newVersionChangeEvent(event.UpgradeNeeded, oldVersion, db.Version))
	if err != nil {
		return false, o.abortOnListenerError(err)
	}
	return ok, nil
}
