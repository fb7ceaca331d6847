// Package jsbind exposes event targets and events to a goja runtime with the
// DOM method and property names scripts expect.
package jsbind

import (
	"unsafe"

	"github.com/dop251/goja"
	"github.com/heathj/idbevent/event"
	"github.com/pkg/errors"
)

// jsFunc is the listener identity of one script function. refs counts the
// registrations using it; the entry is dropped when it reaches zero.
type jsFunc struct {
	l    *event.EventListener
	refs int
}

// jsHandler is a script function assigned to an on* property and the id of
// the callback installed for it.
type jsHandler struct {
	fn goja.Value
	id uintptr
}

// Binder is bound to one runtime and is not safe for concurrent use, like
// the runtime itself. Bound objects are kept for the life of the Binder so a
// target always maps to the same script object; a Binder should not outlive
// its runtime.
type Binder struct {
	vm       *goja.Runtime
	objects  map[event.Target]*goja.Object
	funcs    map[*goja.Object]*jsFunc
	handlers map[event.Target]map[event.Slot]jsHandler

	// live holds the script object of events dispatched from script, so
	// listeners see the same object the script passed in
	live map[*event.Event]*goja.Object
	// inflight holds wrappers of events dispatched from Go, while they are
	// being dispatched
	inflight map[*event.Event]*goja.Object
}

func New(vm *goja.Runtime) *Binder {
	return &Binder{
		vm:       vm,
		objects:  make(map[event.Target]*goja.Object),
		funcs:    make(map[*goja.Object]*jsFunc),
		handlers: make(map[event.Target]map[event.Slot]jsHandler),
		live:     make(map[*event.Event]*goja.Object),
		inflight: make(map[*event.Event]*goja.Object),
	}
}

// Bind returns the script object standing for t, creating it on first use.
func (b *Binder) Bind(t event.Target) *goja.Object {
	if obj, ok := b.objects[t]; ok {
		return obj
	}
	obj := b.vm.NewObject()
	b.objects[t] = obj

	obj.Set("addEventListener", func(call goja.FunctionCall) goja.Value {
		typ, key, f := b.listenerArgs(call, true)
		if f == nil {
			return goja.Undefined()
		}
		before := len(t.Listeners())
		t.AddEventListener(typ, f.l, captureArg(call.Argument(2)))
		if len(t.Listeners()) > before {
			f.refs++
		}
		b.release(key, f)
		return goja.Undefined()
	})
	obj.Set("removeEventListener", func(call goja.FunctionCall) goja.Value {
		typ, key, f := b.listenerArgs(call, false)
		if f == nil {
			return goja.Undefined()
		}
		before := len(t.Listeners())
		t.RemoveEventListener(typ, f.l, captureArg(call.Argument(2)))
		if len(t.Listeners()) < before {
			f.refs--
		}
		b.release(key, f)
		return goja.Undefined()
	})
	obj.Set("dispatchEvent", func(call goja.FunctionCall) goja.Value {
		arg := call.Argument(0)
		e := Unwrap(arg)
		if e == nil {
			panic(b.vm.NewTypeError("dispatchEvent: parameter 1 is not of type 'Event'"))
		}

		prev, nested := b.live[e]
		b.live[e] = arg.(*goja.Object)
		defer func() {
			if nested {
				b.live[e] = prev
			} else {
				delete(b.live, e)
			}
		}()

		ok, err := event.Dispatch(t, e)
		if err != nil {
			b.throw(err)
		}
		return b.vm.ToValue(ok)
	})

	for _, s := range event.Slots {
		b.defineHandler(obj, t, s)
	}
	return obj
}

func (b *Binder) defineHandler(obj *goja.Object, t event.Target, s event.Slot) {
	getter := b.vm.ToValue(func(goja.FunctionCall) goja.Value {
		cur := t.EventHandler(s)
		if cur == nil {
			return goja.Null()
		}
		// Go code may have replaced the script function since it was set
		if h, ok := b.handlers[t][s]; ok && h.id == funcID(cur) {
			return h.fn
		}
		return goja.Null()
	})
	setter := b.vm.ToValue(func(call goja.FunctionCall) goja.Value {
		hs, ok := t.(event.HandlerSetter)
		if !ok {
			return goja.Undefined()
		}
		v := call.Argument(0)
		fn, ok := goja.AssertFunction(v)
		if !ok {
			hs.SetEventHandler(s, nil)
			delete(b.handlers[t], s)
			return goja.Undefined()
		}
		cb := b.callback(fn)
		if !hs.SetEventHandler(s, cb) {
			return goja.Undefined()
		}
		if b.handlers[t] == nil {
			b.handlers[t] = make(map[event.Slot]jsHandler)
		}
		b.handlers[t][s] = jsHandler{fn: v, id: funcID(cb)}
		return goja.Undefined()
	})
	obj.DefineAccessorProperty(s.String(), getter, setter, goja.FLAG_TRUE, goja.FLAG_TRUE)
}

// listenerArgs resolves (type, callback) arguments. create controls whether
// an unseen function gets a new identity. f is nil when the callback is not a
// function, or is unknown and create is false.
func (b *Binder) listenerArgs(call goja.FunctionCall, create bool) (typ event.Type, key *goja.Object, f *jsFunc) {
	if len(call.Arguments) < 2 {
		panic(b.vm.NewTypeError("2 arguments required, but only %d present", len(call.Arguments)))
	}
	typ = event.Type(call.Argument(0).String())
	v := call.Argument(1)
	fn, ok := goja.AssertFunction(v)
	if !ok {
		return typ, nil, nil
	}
	key = v.(*goja.Object)
	if f, ok := b.funcs[key]; ok {
		return typ, key, f
	}
	if !create {
		return typ, key, nil
	}
	f = &jsFunc{l: event.NewEventListener(b.callback(fn))}
	b.funcs[key] = f
	return typ, key, f
}

// release forgets f once no registration uses it.
func (b *Binder) release(key *goja.Object, f *jsFunc) {
	if f.refs <= 0 {
		delete(b.funcs, key)
	}
}

// funcID is the address of the closure behind cb. callback allocates a new
// closure per call, so the address tells installed handlers apart.
func funcID(cb event.Callback) uintptr {
	if cb == nil {
		return 0
	}
	return *(*uintptr)(unsafe.Pointer(&cb))
}

func (b *Binder) callback(fn goja.Callable) event.Callback {
	return func(this event.Target, e *event.Event) error {
		_, err := fn(b.Bind(this), b.Wrap(e))
		return err
	}
}

// throw raises err in the running script. Script exceptions are rethrown as
// they were.
func (b *Binder) throw(err error) {
	var ex *goja.Exception
	if errors.As(err, &ex) {
		panic(ex)
	}
	panic(b.vm.NewGoError(err))
}

func captureArg(v goja.Value) bool {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return false
	}
	if obj, ok := v.(*goja.Object); ok {
		if c := obj.Get("capture"); c != nil {
			return c.ToBoolean()
		}
		return false
	}
	return v.ToBoolean()
}
